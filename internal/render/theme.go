package render

import "github.com/charmbracelet/lipgloss"

// Theme holds the colors and styles of the terminal dashboard.
type Theme struct {
	Primary lipgloss.Color
	Success lipgloss.Color
	Danger  lipgloss.Color
	Muted   lipgloss.Color
	Border  lipgloss.Color

	// Event colors indexed by calendar.ColorSlot.
	EventColors [6]lipgloss.Color

	TitleStyle   lipgloss.Style
	HeadingStyle lipgloss.Style
	PanelStyle   lipgloss.Style
	MutedStyle   lipgloss.Style
	DoneStyle    lipgloss.Style
	ErrorStyle   lipgloss.Style
}

// DefaultTheme returns the default theme.
func DefaultTheme() Theme {
	t := Theme{
		Primary: lipgloss.Color("#4285F4"),
		Success: lipgloss.Color("#34A853"),
		Danger:  lipgloss.Color("#EA4335"),
		Muted:   lipgloss.Color("#6B7280"),
		Border:  lipgloss.Color("#374151"),
		EventColors: [6]lipgloss.Color{
			lipgloss.Color("#4285F4"),
			lipgloss.Color("#34A853"),
			lipgloss.Color("#A142F4"),
			lipgloss.Color("#EA4335"),
			lipgloss.Color("#FBBC04"),
			lipgloss.Color("#24C1E0"),
		},
	}

	t.TitleStyle = lipgloss.NewStyle().
		Foreground(t.Primary).
		Bold(true)

	t.HeadingStyle = lipgloss.NewStyle().
		Bold(true).
		MarginBottom(1)

	t.PanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)

	t.MutedStyle = lipgloss.NewStyle().
		Foreground(t.Muted)

	t.DoneStyle = lipgloss.NewStyle().
		Foreground(t.Muted).
		Strikethrough(true)

	t.ErrorStyle = lipgloss.NewStyle().
		Foreground(t.Danger).
		Bold(true)

	return t
}

func (t Theme) eventStyle(slot int) lipgloss.Style {
	if slot < 0 || slot >= len(t.EventColors) {
		slot = 0
	}
	return lipgloss.NewStyle().Foreground(t.EventColors[slot])
}
