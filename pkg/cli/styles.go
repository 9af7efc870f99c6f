package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color scheme for terminal output.
type Theme struct {
	Primary lipgloss.Color // Main accent color
	Error   lipgloss.Color // Failure color
	Dim     lipgloss.Color // Dimmed/secondary text color
}

// DefaultTheme is the default bright green theme.
var DefaultTheme = Theme{
	Primary: lipgloss.Color("#00ff9f"),
	Error:   lipgloss.Color("#ff5f5f"),
	Dim:     lipgloss.Color("#6e7681"),
}

// Styles holds all styles derived from a theme.
type Styles struct {
	Title lipgloss.Style
	Label lipgloss.Style
	Value lipgloss.Style
	Error lipgloss.Style
	Dim   lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t Theme) Styles {
	return Styles{
		Title: lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Label: lipgloss.NewStyle().Bold(true).Foreground(t.Dim),
		Value: lipgloss.NewStyle().Foreground(t.Primary),
		Error: lipgloss.NewStyle().Bold(true).Foreground(t.Error),
		Dim:   lipgloss.NewStyle().Foreground(t.Dim),
	}
}
