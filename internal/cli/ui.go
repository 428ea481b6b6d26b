package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success, enabled
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleEnabled marks enabled features.
	StyleEnabled = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(14)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess  = "✓"
	iconError    = "✗"
	iconWarning  = "!"
	iconInfo     = "›"
	iconArrow    = "→"
	iconEnabled  = "●"
	iconDisabled = "○"
)

// console writes status lines to the command output. It implements
// extract.Reporter.
type console struct {
	w io.Writer
}

// Success prints a success line.
func (c console) Success(msg string) {
	fmt.Fprintln(c.w, styleIconSuccess.Render(iconSuccess)+" "+msg)
}

// Error prints an error line.
func (c console) Error(msg string) {
	fmt.Fprintln(c.w, styleIconError.Render(iconError)+" "+msg)
}

// Warn prints a warning line.
func (c console) Warn(msg string) {
	fmt.Fprintln(c.w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(msg))
}

// Info prints an info/status line.
func (c console) Info(msg string) {
	fmt.Fprintln(c.w, styleIconInfo.Render(iconInfo)+" "+msg)
}

func (c console) successf(format string, args ...any) { c.Success(fmt.Sprintf(format, args...)) }
func (c console) infof(format string, args ...any)    { c.Info(fmt.Sprintf(format, args...)) }

// title prints a heading.
func (c console) title(s string) {
	fmt.Fprintln(c.w, StyleTitle.Render(s))
}

// detail prints an indented, dimmed line.
func (c console) detail(format string, args ...any) {
	fmt.Fprintln(c.w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// file prints a written file.
func (c console) file(path string) {
	fmt.Fprintln(c.w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// keyValue prints a labeled value.
func (c console) keyValue(key, value string) {
	fmt.Fprintln(c.w, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// feature prints a feature line with its selection state.
func (c console) feature(key, name string, enabled bool) {
	icon := StyleDim.Render(iconDisabled)
	if enabled {
		icon = StyleEnabled.Render(iconEnabled)
	}
	fmt.Fprintln(c.w, icon+" "+styleKey.Render(key)+" "+StyleDim.Render(name))
}
