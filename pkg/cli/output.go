package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/olekukonko/tablewriter"
)

// OutputFormat is the value of the --output flag.
type OutputFormat string

const (
	// FormatTable draws Table results as a bordered text table.
	FormatTable OutputFormat = "table"
	// FormatYAML encodes results as YAML.
	FormatYAML OutputFormat = "yaml"
	// FormatJSON encodes results as indented JSON.
	FormatJSON OutputFormat = "json"
	// FormatRaw prints Table rows tab separated without a header, for
	// piping into cut or awk. Strings are printed unchanged.
	FormatRaw OutputFormat = "raw"
)

// Formats lists the accepted --output values.
var Formats = []OutputFormat{FormatTable, FormatYAML, FormatJSON, FormatRaw}

// ParseFormat validates a --output flag value. The empty string selects
// FormatTable.
func ParseFormat(s string) (OutputFormat, error) {
	if s == "" {
		return FormatTable, nil
	}
	for _, f := range Formats {
		if OutputFormat(s) == f {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported output format: %s (want %s)", s, formatList())
}

func formatList() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// Table is implemented by command results with a row rendering: vertex and
// edge listings, records of a view, sessions.
type Table interface {
	TableHeader() []string
	TableRows() [][]string
}

// Output writes result to w in the given format. Results that do not
// implement Table are written as YAML by the table and raw formats.
func Output(w io.Writer, result any, format OutputFormat) error {
	switch format {
	case FormatTable, "":
		t, ok := result.(Table)
		if !ok {
			return writeYAML(w, result)
		}
		return writeTable(w, t)
	case FormatYAML:
		return writeYAML(w, result)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case FormatRaw:
		return writeRaw(w, result)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func writeYAML(w io.Writer, result any) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func writeTable(w io.Writer, t Table) error {
	table := tablewriter.NewWriter(w)
	table.Header(t.TableHeader())
	for _, row := range t.TableRows() {
		if err := table.Append(row); err != nil {
			return fmt.Errorf("failed to format table: %w", err)
		}
	}
	return table.Render()
}

func writeRaw(w io.Writer, result any) error {
	switch v := result.(type) {
	case string:
		_, err := io.WriteString(w, v)
		return err
	case Table:
		for _, row := range v.TableRows() {
			if _, err := fmt.Fprintln(w, strings.Join(row, "\t")); err != nil {
				return err
			}
		}
		return nil
	default:
		return writeYAML(w, result)
	}
}
