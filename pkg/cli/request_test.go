package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type batch struct {
	Ops []struct {
		Op    string `yaml:"op" json:"op"`
		Label string `yaml:"label" json:"label"`
	} `yaml:"ops" json:"ops"`
}

func writeRequest(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadRequest_YAML(t *testing.T) {
	path := writeRequest(t, "ops.yaml", "ops:\n  - op: add-vertex\n    label: A\n")

	var b batch
	if err := LoadRequest(path, nil, &b); err != nil {
		t.Fatalf("LoadRequest error: %v", err)
	}
	if len(b.Ops) != 1 || b.Ops[0].Op != "add-vertex" || b.Ops[0].Label != "A" {
		t.Errorf("LoadRequest = %+v", b)
	}
}

func TestLoadRequest_Stdin(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"yaml", "ops:\n  - op: add-vertex\n    label: C\n"},
		{"json", `  {"ops":[{"op":"add-vertex","label":"C"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b batch
			if err := LoadRequest("-", strings.NewReader(tt.in), &b); err != nil {
				t.Fatalf("LoadRequest error: %v", err)
			}
			if len(b.Ops) != 1 || b.Ops[0].Label != "C" {
				t.Errorf("LoadRequest = %+v", b)
			}
		})
	}
}

func TestParseRequest_JSONByExtension(t *testing.T) {
	var b batch
	if err := ParseRequest([]byte(`{"ops":[{"op":"rm-vertex","label":"B"}]}`), "ops.json", &b); err != nil {
		t.Fatalf("ParseRequest error: %v", err)
	}
	if len(b.Ops) != 1 || b.Ops[0].Label != "B" {
		t.Errorf("ParseRequest = %+v", b)
	}
}

func TestParseRequest_RejectsUnknownFields(t *testing.T) {
	var b batch
	if err := ParseRequest([]byte("ops:\n  - op: add-vertex\n    lable: A\n"), "ops.yaml", &b); err == nil {
		t.Error("YAML with a misspelled key should fail")
	}
	if err := ParseRequest([]byte(`{"ops":[{"op":"add-vertex","lable":"A"}]}`), "-", &b); err == nil {
		t.Error("JSON with a misspelled key should fail")
	}
}

func TestParseRequest_Invalid(t *testing.T) {
	var b batch
	for _, in := range []string{"ops: [unclosed", "  \n"} {
		if err := ParseRequest([]byte(in), "ops.yaml", &b); err == nil {
			t.Errorf("ParseRequest(%q) should fail", in)
		}
	}
}

func TestLoadRequest_MissingFile(t *testing.T) {
	var b batch
	if err := LoadRequest(filepath.Join(t.TempDir(), "nope.yaml"), nil, &b); err == nil {
		t.Error("LoadRequest should fail for a missing file")
	}
}
