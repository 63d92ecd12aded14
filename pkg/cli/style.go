package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colors of status lines.
type Theme struct {
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}

// DefaultTheme is the default bright theme.
var DefaultTheme = Theme{
	Success: lipgloss.Color("#00ff9f"),
	Warning: lipgloss.Color("#ffb86c"),
	Error:   lipgloss.Color("#ff5555"),
}

// Styles holds the styles derived from a theme.
type Styles struct {
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t Theme) Styles {
	return Styles{
		Success: lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		Warning: lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(t.Error),
		Info:    lipgloss.NewStyle(),
	}
}

// PlainStyles renders every status line without color.
func PlainStyles() Styles {
	s := lipgloss.NewStyle()
	return Styles{Success: s, Warning: s, Error: s, Info: s}
}

// Printer writes status lines. Success, info and warning lines go to Out;
// errors go to Err.
type Printer struct {
	Out    io.Writer
	Err    io.Writer
	Styles Styles
}

// NewPrinter returns a Printer using DefaultTheme, or plain styles when
// NO_COLOR is set.
func NewPrinter(out, errw io.Writer) *Printer {
	styles := NewStyles(DefaultTheme)
	if os.Getenv("NO_COLOR") != "" {
		styles = PlainStyles()
	}
	return &Printer{Out: out, Err: errw, Styles: styles}
}

func (p *Printer) line(w io.Writer, style lipgloss.Style, prefix, format string, args ...any) {
	fmt.Fprintln(w, style.Render(prefix)+" "+fmt.Sprintf(format, args...))
}

// Success prints a success message with checkmark
func (p *Printer) Success(format string, args ...any) {
	p.line(p.Out, p.Styles.Success, "✓", format, args...)
}

// Warning prints a warning message. Warnings never change the exit code.
func (p *Printer) Warning(format string, args ...any) {
	p.line(p.Out, p.Styles.Warning, "⚠", format, args...)
}

// Info prints an info message
func (p *Printer) Info(format string, args ...any) {
	p.line(p.Out, p.Styles.Info, "ℹ", format, args...)
}

// Error prints an error message to Err
func (p *Printer) Error(format string, args ...any) {
	p.line(p.Err, p.Styles.Error, "Error:", format, args...)
}

