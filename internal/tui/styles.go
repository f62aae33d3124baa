package tui

import "github.com/charmbracelet/lipgloss"

// One Dark palette
var (
	ColorFgPrimary = lipgloss.Color("#ABB2BF")
	ColorFgMuted   = lipgloss.Color("#636B78")
	ColorGreen     = lipgloss.Color("#98C379")
	ColorYellow    = lipgloss.Color("#E5C07B")
	ColorBlue      = lipgloss.Color("#61AFEF")
	ColorMagenta   = lipgloss.Color("#C678DD")
	ColorBorder    = lipgloss.Color("#3F4451")
)

var (
	// Progress card
	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	CardTitleStyle = lipgloss.NewStyle().
			Foreground(ColorMagenta).
			Bold(true)

	BarFillStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	BarRestStyle = lipgloss.NewStyle().
			Foreground(ColorBorder)

	// Task list
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorBlue).
			Bold(true)

	FilterStyle = lipgloss.NewStyle().
			Foreground(ColorFgMuted)

	TaskStyle = lipgloss.NewStyle().
			Foreground(ColorFgPrimary)

	TaskDoneStyle = lipgloss.NewStyle().
			Foreground(ColorFgMuted).
			Strikethrough(true)

	CursorStyle = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)

	// Input
	InputPromptStyle = lipgloss.NewStyle().
				Foreground(ColorGreen)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorFgMuted)
)
