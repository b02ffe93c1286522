// Package ui provides terminal output helpers for styleimport.
package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color function types for styled output.
var (
	// Highlight marks the subject of a prompt, usually a style name (blue).
	Highlight = color.New(color.FgBlue).SprintFunc()
	// Question marks the question part of a prompt (green).
	Question = color.New(color.FgGreen).SprintFunc()
	// Success is used for successful operations (green).
	Success = color.New(color.FgGreen).SprintFunc()
	// Error is used for errors and failures (red).
	Error = color.New(color.FgRed).SprintFunc()
	// Warning is used for warnings and destructive actions (yellow).
	Warning = color.New(color.FgYellow).SprintFunc()
	// Dim is used for secondary information.
	Dim = color.New(color.Faint).SprintFunc()
	// Added and Removed color diff lines.
	Added   = color.New(color.FgGreen).SprintFunc()
	Removed = color.New(color.FgRed).SprintFunc()
)

// Status symbols.
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
	SymbolSkipped = "-"
)

// Color modes accepted by ConfigureColors.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// StatusSuccess returns a green checkmark with optional message.
func StatusSuccess(msg string) string {
	return status(Success(SymbolSuccess), msg)
}

// StatusError returns a red X with optional message.
func StatusError(msg string) string {
	return status(Error(SymbolError), msg)
}

// StatusWarning returns a yellow warning sign with optional message.
func StatusWarning(msg string) string {
	return status(Warning(SymbolWarning), msg)
}

// StatusSkipped returns a dimmed skip symbol with optional message.
func StatusSkipped(msg string) string {
	return status(Dim(SymbolSkipped), msg)
}

func status(symbol, msg string) string {
	if msg == "" {
		return symbol
	}
	return symbol + " " + msg
}

// ConfigureColors applies a color mode. In auto mode colors follow whether
// out is a terminal and whether NO_COLOR is set.
func ConfigureColors(mode string, out *os.File) {
	switch mode {
	case ColorAlways:
		EnableColors()
	case ColorNever:
		DisableColors()
	default:
		if os.Getenv("NO_COLOR") != "" || !IsTerminal(out) {
			DisableColors()
		} else {
			EnableColors()
		}
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// DisableColors disables all color output.
func DisableColors() {
	color.NoColor = true
}

// EnableColors enables color output.
func EnableColors() {
	color.NoColor = false
}

// IsColorEnabled returns whether colors are currently enabled.
func IsColorEnabled() bool {
	return !color.NoColor
}
