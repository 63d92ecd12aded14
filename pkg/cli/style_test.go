package cli

import (
	"bytes"
	"strings"
	"testing"
)

func newTestPrinter() (*Printer, *bytes.Buffer, *bytes.Buffer) {
	var out, errw bytes.Buffer
	return &Printer{Out: &out, Err: &errw, Styles: PlainStyles()}, &out, &errw
}

func TestPrinterStreams(t *testing.T) {
	p, out, errw := newTestPrinter()

	p.Success("vertex %q added", "A")
	p.Warning("no edge matched")
	p.Info("2 vertices")
	p.Error("boom")

	want := "✓ vertex \"A\" added\n⚠ no edge matched\nℹ 2 vertices\n"
	if out.String() != want {
		t.Errorf("stdout = %q, want %q", out.String(), want)
	}
	if !strings.Contains(errw.String(), "Error: boom") {
		t.Errorf("stderr missing error line: %q", errw.String())
	}
}

func TestNewPrinterNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var out bytes.Buffer
	p := NewPrinter(&out, &out)
	p.Success("ok")
	if out.String() != "✓ ok\n" {
		t.Errorf("NO_COLOR output = %q", out.String())
	}
}
