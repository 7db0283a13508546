package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ColorScheme provides color functions for different output elements
type ColorScheme struct {
	// Index colors item indexes
	Index func(format string, a ...interface{}) string

	// Success colors succeeded items
	Success func(format string, a ...interface{}) string

	// Error colors failed items and error messages
	Error func(format string, a ...interface{}) string

	// Warning colors unsent items
	Warning func(format string, a ...interface{}) string

	// Header colors table headers
	Header func(format string, a ...interface{}) string

	// Info colors summary figures
	Info func(format string, a ...interface{}) string

	// Disabled indicates if colors are disabled
	Disabled bool
}

// NewColorScheme creates a new color scheme
// Colors are automatically disabled for non-TTY outputs or when noColor is true
func NewColorScheme(w io.Writer, noColor bool) *ColorScheme {
	if noColor || !isTTY(w) {
		plain := fmt.Sprintf
		return &ColorScheme{
			Index:    plain,
			Success:  plain,
			Error:    plain,
			Warning:  plain,
			Header:   plain,
			Info:     plain,
			Disabled: true,
		}
	}

	return &ColorScheme{
		Index:   color.New(color.FgCyan).Sprintf,
		Success: color.New(color.FgGreen).Sprintf,
		Error:   color.New(color.FgRed, color.Bold).Sprintf,
		Warning: color.New(color.FgYellow).Sprintf,
		Header:  color.New(color.FgWhite, color.Bold).Sprintf,
		Info:    color.New(color.FgBlue).Sprintf,
	}
}

// isTTY checks if the writer is a TTY
func isTTY(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// StatusColor returns the color function for an item status
func (cs *ColorScheme) StatusColor(status string) func(format string, a ...interface{}) string {
	switch status {
	case StatusSucceeded:
		return cs.Success
	case StatusFailed:
		return cs.Error
	default:
		return cs.Warning
	}
}
