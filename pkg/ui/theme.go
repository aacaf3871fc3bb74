package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/mindmap_viewer/pkg/layout"
)

// Theme holds the colors and base styles shared by every panel.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Text      lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Path      lipgloss.AdaptiveColor
	Error     lipgloss.AdaptiveColor

	// Palette colors nodes by relative depth, the same table the layout uses.
	Palette []string

	Base         lipgloss.Style
	Selected     lipgloss.Style
	Panel        lipgloss.Style
	FocusedPanel lipgloss.Style
	StatusBar    lipgloss.Style
}

// DefaultTheme returns the Dracula-flavored default theme.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer:  r,
		Primary:   lipgloss.AdaptiveColor{Light: "#7D56F4", Dark: "#BD93F9"},
		Secondary: lipgloss.AdaptiveColor{Light: "#8B6D00", Dark: "#F1FA8C"},
		Highlight: lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"},
		Muted:     lipgloss.AdaptiveColor{Light: "#808080", Dark: "#6272A4"},
		Subtext:   lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BFBFBF"},
		Text:      lipgloss.AdaptiveColor{Light: "#000000", Dark: "#f8f8f2"},
		Border:    lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#44475A"},
		Path:      lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"},
		Error:     lipgloss.AdaptiveColor{Light: "#C00000", Dark: "#FF5555"},
		Palette:   layout.Palette,
	}
	t.Base = r.NewStyle().Foreground(t.Text)
	t.Selected = r.NewStyle().
		Background(lipgloss.AdaptiveColor{Light: "#E6E0FA", Dark: "#44475A"}).
		Bold(true)
	t.Panel = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border)
	t.FocusedPanel = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary)
	t.StatusBar = r.NewStyle().
		Foreground(t.Subtext).
		Background(lipgloss.AdaptiveColor{Light: "#EEEEEE", Dark: "#21222C"})
	return t
}

// DepthColor returns the node color for a relative depth.
func (t Theme) DepthColor(relDepth int) lipgloss.Color {
	return lipgloss.Color(layout.ColorFrom(t.Palette, relDepth))
}
