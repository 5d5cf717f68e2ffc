package ui

import "github.com/charmbracelet/lipgloss"

// Colors used throughout the TUI.
var (
	ColorRed     = lipgloss.Color("#E05252")
	ColorGreen   = lipgloss.Color("#7CB342")
	ColorYellow  = lipgloss.Color("#F4D35E")
	ColorTeal    = lipgloss.Color("#4FB3BF")
	ColorGray    = lipgloss.Color("#777777")
	ColorDimGray = lipgloss.Color("#444444")
	ColorWhite   = lipgloss.Color("#F5F5F5")
)

// Base styles reused by UI components.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorTeal)

	StatusStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	RecordingDotStyle = lipgloss.NewStyle().
				Foreground(ColorRed).
				Bold(true)

	IdleDotStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	ElapsedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite).
			Padding(1, 0)

	PromptStyle = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Bold(true)

	CompleteStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorTeal).
			Bold(true)

	PanelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite)

	PanelTitleActiveStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorTeal)

	DraftStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDimGray).
			Padding(0, 1)

	PlaceholderStyle = lipgloss.NewStyle().
				Foreground(ColorGray).
				Italic(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	ErrorTextStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	FooterKeyStyle = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)

	FooterDescStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	DividerStyle = lipgloss.NewStyle().
			Foreground(ColorDimGray)
)

// Direction lays out a rendered block for the reading direction.
func Direction(block string, width int, rightToLeft bool) string {
	if !rightToLeft || width <= 0 {
		return block
	}
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Right).Render(block)
}
