package styles

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"
)

// Symbols - Unicode with ASCII fallbacks
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
	SymbolArrow   = "→"
)

var noColorFlag atomic.Bool

// SetNoColor forces plain output regardless of the environment (--no-color).
func SetNoColor(v bool) {
	noColorFlag.Store(v)
}

// NoColor checks if colors should be disabled
func NoColor() bool {
	return noColorFlag.Load() || os.Getenv("NO_COLOR") != "" || os.Getenv("DFVIEW_NO_COLOR") != ""
}

// IsAccessible checks if accessibility mode is enabled
// When enabled: no animations, no spinner, simplified output
func IsAccessible() bool {
	return os.Getenv("DFVIEW_ACCESSIBLE") == "1" || os.Getenv("DFVIEW_ACCESSIBLE") == "true"
}

// Base text styles
var (
	Bold = lipgloss.NewStyle().Bold(true)
	Dim  = lipgloss.NewStyle().Foreground(Muted)
)

// Semantic styles - use these instead of raw colors
var (
	SuccessStyle = lipgloss.NewStyle().Foreground(Success)
	ErrorStyle   = lipgloss.NewStyle().Foreground(Error)
	WarningStyle = lipgloss.NewStyle().Foreground(Warning)
	InfoStyle    = lipgloss.NewStyle().Foreground(Info)
	MutedStyle   = lipgloss.NewStyle().Foreground(Muted)
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(Accent)

	HelpKey = lipgloss.NewStyle().Foreground(Accent)
)

// render applies a style if colors are enabled
func render(s lipgloss.Style, text string) string {
	if NoColor() {
		return text
	}
	return s.Render(text)
}

// SuccessMsg formats a success message with checkmark
func SuccessMsg(msg string) string {
	symbol := SymbolSuccess
	if NoColor() {
		symbol = "+"
	}
	return fmt.Sprintf("%s %s", render(SuccessStyle, symbol), msg)
}

// ErrorMsg formats an error message
func ErrorMsg(title string) string {
	return render(ErrorStyle, "Error: "+title)
}

// WarningMsg formats a warning message
func WarningMsg(msg string) string {
	symbol := SymbolWarning
	if NoColor() {
		symbol = "!"
	}
	return fmt.Sprintf("%s %s", render(WarningStyle, symbol), msg)
}

// MutedMsg formats muted/secondary text
func MutedMsg(msg string) string {
	return render(MutedStyle, msg)
}

// Title formats the heading line of the viewer.
func Title(msg string) string {
	return render(TitleStyle, msg)
}

// SectionHeader formats a section header
func SectionHeader(title string) string {
	return render(Bold, title)
}

// HelpLine formats a help line (key description)
func HelpLine(key, description string) string {
	return fmt.Sprintf("  %s %s", render(HelpKey, key), render(MutedStyle, description))
}

// Indent returns text indented by n spaces
func Indent(text string, n int) string {
	prefix := strings.Repeat(" ", n)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

func Yellow(s string) string { return render(WarningStyle, s) }
func Green(s string) string  { return render(SuccessStyle, s) }
func Red(s string) string    { return render(ErrorStyle, s) }
func Cyan(s string) string   { return render(InfoStyle, s) }
func Mute(s string) string   { return render(MutedStyle, s) }

func Boldf(format string, a ...any) string { return render(Bold, fmt.Sprintf(format, a...)) }
func Cyanf(format string, a ...any) string { return Cyan(fmt.Sprintf(format, a...)) }
func Mutef(format string, a ...any) string { return Mute(fmt.Sprintf(format, a...)) }
