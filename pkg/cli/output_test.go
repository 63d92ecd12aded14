package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

type edgeRows [][]string

func (edgeRows) TableHeader() []string  { return []string{"HEAD", "RELATION", "TAIL"} }
func (r edgeRows) TableRows() [][]string { return r }

var sampleRows = edgeRows{{"A", "likes", "B"}, {"B", "knows", "C"}}

func render(t *testing.T, result any, format OutputFormat) string {
	t.Helper()
	var buf bytes.Buffer
	if err := Output(&buf, result, format); err != nil {
		t.Fatalf("Output(%s) error: %v", format, err)
	}
	return buf.String()
}

func TestOutput_Table(t *testing.T) {
	out := render(t, sampleRows, FormatTable)
	for _, want := range []string{"HEAD", "RELATION", "likes", "knows", "C"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestOutput_TableFallsBackToYAML(t *testing.T) {
	out := render(t, map[string]int{"edges": 2}, FormatTable)
	if !strings.Contains(out, "edges: 2") {
		t.Errorf("Output should fall back to YAML, got: %s", out)
	}
}

func TestOutput_JSON(t *testing.T) {
	out := render(t, map[string]any{"vertices": 3, "table": "graph.csv"}, FormatJSON)
	var got map[string]any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON output %q: %v", out, err)
	}
	if got["table"] != "graph.csv" || got["vertices"] != float64(3) {
		t.Errorf("decoded = %v", got)
	}
	if !strings.Contains(out, "\n  \"") {
		t.Errorf("JSON should be indented, got: %s", out)
	}
}

func TestOutput_YAML(t *testing.T) {
	out := render(t, map[string]string{"relation": "knows"}, FormatYAML)
	if !strings.Contains(out, "relation: knows") {
		t.Errorf("YAML output = %q", out)
	}
}

func TestOutput_Raw(t *testing.T) {
	if got := render(t, sampleRows, FormatRaw); got != "A\tlikes\tB\nB\tknows\tC\n" {
		t.Errorf("raw rows = %q", got)
	}
	if got := render(t, "kgview 1.0\n", FormatRaw); got != "kgview 1.0\n" {
		t.Errorf("raw string = %q", got)
	}
	if got := render(t, map[string]int{"count": 42}, FormatRaw); !strings.Contains(got, "count: 42") {
		t.Errorf("raw fallback = %q", got)
	}
}

func TestOutput_UnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Output(&buf, sampleRows, "xml"); err == nil {
		t.Error("Output should fail for unsupported format")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want OutputFormat
	}{
		{"", FormatTable},
		{"table", FormatTable},
		{"yaml", FormatYAML},
		{"json", FormatJSON},
		{"raw", FormatRaw},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
	_, err := ParseFormat("xml")
	if err == nil || !strings.Contains(err.Error(), "table, yaml, json, raw") {
		t.Errorf("ParseFormat(xml) error = %v", err)
	}
}
