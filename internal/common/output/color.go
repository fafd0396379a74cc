package output

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	// Agent status colors
	Installed = color.New(color.FgGreen)
	Updated   = color.New(color.FgCyan)
	Skipped   = color.New(color.Faint)
	Removed   = color.New(color.FgRed)
	Preserved = color.New(color.FgMagenta)
	Missing   = color.New(color.FgYellow) // manifest entry with no shipped source

	// Message colors
	Success = color.New(color.FgGreen)
	Warning = color.New(color.FgYellow)
	Error   = color.New(color.FgRed)
	Info    = color.New(color.FgCyan)
	Dim     = color.New(color.Faint)

	// Structural colors
	Header = color.New(color.FgWhite, color.Bold)
	Agent  = color.New(color.FgBlue, color.Bold)
)

// NoColor disables color output
func NoColor() {
	color.NoColor = true
}

// ForceColor enables color output even when not a TTY
func ForceColor() {
	color.NoColor = false
}

// StatusColor returns the color for an agent status label
func StatusColor(status string) *color.Color {
	switch status {
	case "Installed":
		return Installed
	case "Updated":
		return Updated
	case "Skipped":
		return Skipped
	case "Removed":
		return Removed
	case "Preserved":
		return Preserved
	default:
		return color.New(color.Reset)
	}
}

// FprintSuccess writes a success line to w
func FprintSuccess(w io.Writer, format string, args ...interface{}) {
	Success.Fprintf(w, "✓ "+format+"\n", args...)
}

// FprintError writes an error line to w
func FprintError(w io.Writer, format string, args ...interface{}) {
	Error.Fprintf(w, "✗ "+format+"\n", args...)
}

// FprintWarning writes a warning line to w
func FprintWarning(w io.Writer, format string, args ...interface{}) {
	Warning.Fprintf(w, "⚠ "+format+"\n", args...)
}

// FprintInfo writes an informational line to w
func FprintInfo(w io.Writer, format string, args ...interface{}) {
	Info.Fprintf(w, "→ "+format+"\n", args...)
}

// FprintStatus writes "[Status] name" followed by an optional detail
func FprintStatus(w io.Writer, status, name, detail string) {
	line := FormatStatus(status) + " " + name
	if detail != "" {
		line += " " + Dim.Sprint(detail)
	}
	fmt.Fprintln(w, line)
}

// FormatStatus formats a status label with its color
func FormatStatus(status string) string {
	c := StatusColor(status)
	return c.Sprintf("[%s]", status)
}

// FormatAgent formats an agent name, with its description when present
func FormatAgent(name, description string) string {
	if description == "" {
		return Agent.Sprint(name)
	}
	return Agent.Sprint(name) + ": " + description
}

// Section writes a bold header line preceded by a blank line
func Section(w io.Writer, title string) {
	fmt.Fprintln(w)
	Header.Fprintln(w, title)
}
