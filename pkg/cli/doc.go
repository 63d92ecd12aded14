// Package cli provides the terminal helpers shared by kgview commands.
//
// This package includes:
//   - Output formatting (table, YAML, JSON, tab-separated raw rows)
//   - Batch request loading for kgview apply (YAML/JSON, strict fields)
//   - Styled status lines (success, warning, error)
//
// Example usage:
//
//	p := cli.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr())
//	p.Success("vertex %q added", label)
//
//	cli.Output(cmd.OutOrStdout(), vertices, cli.FormatTable)
package cli
