package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haivivi/kgview/cmd/kgview/internal/build"
	"github.com/haivivi/kgview/pkg/cli"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, err := cli.ParseFormat(outputFormat)
		if err != nil {
			return err
		}
		if format == cli.FormatTable || format == cli.FormatRaw {
			fmt.Fprintln(cmd.OutOrStdout(), build.String())
			return nil
		}
		return cli.Output(cmd.OutOrStdout(), build.Get(), format)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
