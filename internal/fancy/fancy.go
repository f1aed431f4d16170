// Package fancy provides pretty printing utilities and styling for CLI output
package fancy

import (
	"github.com/charmbracelet/lipgloss"
)

// Common colors for different types of elements
var (
	ColorBlue     = lipgloss.Color("39")  // Blue
	ColorMagenta  = lipgloss.Color("201") // Bright Magenta
	ColorOrange   = lipgloss.Color("208") // Orange
	ColorGreen    = lipgloss.Color("82")  // Green
	ColorYellow   = lipgloss.Color("228") // Yellow
	ColorGray     = lipgloss.Color("250") // Light gray
	ColorWhite    = lipgloss.Color("15")  // White
	ColorDarkGray = lipgloss.Color("240") // Dark gray for branches
)

// Common styles used by the describe output
var (
	// RootStyle is used for the face name at the tree root
	RootStyle = lipgloss.NewStyle().
			Foreground(ColorBlue).
			Bold(true)

	// SectionStyle is used for section headers (Style, Slots)
	SectionStyle = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Bold(true)

	// OptionStyle is used for style option keys
	OptionStyle = lipgloss.NewStyle().Foreground(ColorGreen)

	// SlotStyle is used for complication slot IDs
	SlotStyle = lipgloss.NewStyle().Foreground(ColorMagenta)

	// ValueStyle is used for values and domains
	ValueStyle = lipgloss.NewStyle().Foreground(ColorGray)

	// BranchStyle is used for tree branch connectors
	BranchStyle = lipgloss.NewStyle().Foreground(ColorDarkGray)
)
