package style

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	ColorAccent = lipgloss.Color("#00E5FF")
	ColorError  = lipgloss.Color("#FF007A")
	ColorWarn   = lipgloss.Color("214")
	ColorDimmed = lipgloss.Color("#666666")

	// Styles
	StyleLabel   = lipgloss.NewStyle().Bold(true)
	StylePhase   = lipgloss.NewStyle().Foreground(ColorAccent)
	StyleLogLine = lipgloss.NewStyle().Foreground(ColorDimmed)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleWarn    = lipgloss.NewStyle().Foreground(ColorWarn)
	StyleNotice  = lipgloss.NewStyle().Foreground(ColorAccent)
)

// BarFull and BarEmpty are the colors of determinate progress bars.
const (
	BarFull  = "#00FF9C"
	BarEmpty = "#333333"
)
