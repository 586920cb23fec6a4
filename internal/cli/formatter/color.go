package formatter

import "github.com/charmbracelet/lipgloss"

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// DisableColor swaps every style for an unstyled one, for piped output.
func DisableColor() {
	plain := lipgloss.NewStyle()
	StyleGreen = plain
	StyleYellow = plain
	StyleBlue = plain
	StyleDim = plain
	StyleFg = plain
	StyleHeader = plain
	StyleBold = plain
}

// Dim renders text in the dim style.
func Dim(s string) string {
	return StyleDim.Render(s)
}

// Bold renders text in the bold style.
func Bold(s string) string {
	return StyleBold.Render(s)
}
