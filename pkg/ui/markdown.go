package ui

import (
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

// MarkdownRenderer renders node summaries with glamour, rebuilding the
// underlying renderer only when the width or theme changes.
type MarkdownRenderer struct {
	renderer *glamour.TermRenderer
	width    int
	theme    *Theme
	useTheme bool
}

// NewMarkdownRenderer uses glamour's standard style for the detected
// background.
func NewMarkdownRenderer(width int) *MarkdownRenderer {
	mr := &MarkdownRenderer{width: width}
	mr.rebuild()
	return mr
}

// NewMarkdownRendererWithTheme derives the glamour style from theme.
func NewMarkdownRendererWithTheme(width int, theme Theme) *MarkdownRenderer {
	mr := &MarkdownRenderer{width: width, theme: &theme, useTheme: true}
	mr.rebuild()
	return mr
}

func (mr *MarkdownRenderer) rebuild() {
	dark := mr.IsDarkMode()
	var opts []glamour.TermRendererOption
	if mr.useTheme && mr.theme != nil {
		opts = append(opts, glamour.WithStyles(buildStyleFromTheme(*mr.theme, dark)))
	} else if dark {
		opts = append(opts, glamour.WithStandardStyle(styles.DarkStyle))
	} else {
		opts = append(opts, glamour.WithStandardStyle(styles.LightStyle))
	}
	opts = append(opts, glamour.WithWordWrap(mr.width))
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		mr.renderer = nil
		return
	}
	mr.renderer = r
}

// Render returns the styled text. Without a renderer the input is returned
// unchanged.
func (mr *MarkdownRenderer) Render(md string) (string, error) {
	if mr.renderer == nil {
		return md, nil
	}
	return mr.renderer.Render(md)
}

// SetWidth rebuilds the renderer for a new positive width.
func (mr *MarkdownRenderer) SetWidth(width int) {
	if width <= 0 || width == mr.width {
		return
	}
	mr.width = width
	mr.rebuild()
}

// SetWidthWithTheme switches to theme-derived styling at width.
func (mr *MarkdownRenderer) SetWidthWithTheme(width int, theme Theme) {
	if width > 0 {
		mr.width = width
	}
	mr.theme = &theme
	mr.useTheme = true
	mr.rebuild()
}

// IsDarkMode reports whether the terminal background is dark.
func (mr *MarkdownRenderer) IsDarkMode() bool {
	return lipgloss.HasDarkBackground()
}

func extractHex(c lipgloss.AdaptiveColor, dark bool) string {
	if dark {
		return c.Dark
	}
	return c.Light
}

func buildStyleFromTheme(theme Theme, dark bool) ansi.StyleConfig {
	var cfg ansi.StyleConfig
	if dark {
		cfg = styles.DarkStyleConfig
	} else {
		cfg = styles.LightStyleConfig
	}
	text := extractHex(theme.Text, dark)
	primary := extractHex(theme.Primary, dark)
	highlight := extractHex(theme.Highlight, dark)
	muted := extractHex(theme.Muted, dark)
	var margin uint

	cfg.Document.Color = &text
	cfg.Document.Margin = &margin
	cfg.Heading.Color = &primary
	cfg.H1.Color = &primary
	cfg.Link.Color = &highlight
	cfg.LinkText.Color = &highlight
	cfg.Code.Color = &highlight
	cfg.BlockQuote.Color = &muted
	return cfg
}
