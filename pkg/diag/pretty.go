package diag

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

const defaultTermWidth = 100

// Styles holds the renderers for terminal diagnostic output.
type Styles struct {
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Debug   lipgloss.Style

	Message lipgloss.Style
	Context lipgloss.Style
	Cause   lipgloss.Style
	Dim     lipgloss.Style
}

// NewStyles creates the render styles for the given color mode.
func NewStyles(colorEnabled bool) *Styles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return &Styles{
			Error:   plain,
			Warning: plain,
			Info:    plain,
			Debug:   plain,
			Message: plain,
			Context: plain,
			Cause:   plain,
			Dim:     plain,
		}
	}
	return &Styles{
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		Debug:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Message: lipgloss.NewStyle(),
		Context: lipgloss.NewStyle().Bold(true),
		Cause:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true),
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// FormatSeverity returns the styled severity label.
func (s *Styles) FormatSeverity(sev Severity) string {
	switch sev {
	case SeverityError:
		return s.Error.Render("error")
	case SeverityWarning:
		return s.Warning.Render("warning")
	case SeverityInfo:
		return s.Info.Render("info")
	default:
		return s.Debug.Render("debug")
	}
}

// FormatDiagnostic renders one diagnostic as a line, plus an indented cause
// line when an underlying error is present.
func (s *Styles) FormatDiagnostic(d Diagnostic) string {
	var b strings.Builder

	b.WriteString("  ")
	b.WriteString(s.FormatSeverity(d.Severity))
	b.WriteString("  ")
	if d.Context != "" {
		b.WriteString(s.Context.Render(d.Context))
		b.WriteString("  ")
	}
	b.WriteString(s.Message.Render(d.Message))
	b.WriteByte('\n')

	if d.Err != nil {
		b.WriteString("    ")
		b.WriteString(s.Dim.Render("cause:"))
		b.WriteByte(' ')
		b.WriteString(s.Cause.Render(d.Err.Error()))
		b.WriteByte('\n')
	}

	return b.String()
}

// FormatSummary renders the severity tally of a collector.
func (s *Styles) FormatSummary(c *Collector) string {
	parts := make([]string, 0, 3)
	if n := c.Count(SeverityError); n > 0 {
		parts = append(parts, s.Error.Render(fmt.Sprintf("%d errors", n)))
	}
	if n := c.Count(SeverityWarning); n > 0 {
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d warnings", n)))
	}
	if n := c.Count(SeverityInfo); n > 0 {
		parts = append(parts, s.Info.Render(fmt.Sprintf("%d notes", n)))
	}
	if len(parts) == 0 {
		return s.Dim.Render("no problems found")
	}
	return strings.Join(parts, s.Dim.Render(", "))
}

// IsColorEnabled decides whether to color output. Mode is "auto", "always"
// or "never"; auto honors NO_COLOR and requires a TTY.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		if f, ok := writer.(*os.File); ok {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		return false
	}
}

// TermWidth returns the width of the terminal behind writer, or a default
// when the writer is not a terminal.
func TermWidth(writer io.Writer) int {
	if f, ok := writer.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return defaultTermWidth
}
