package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Context names the part of the screen that owns keyboard input.
type Context string

const (
	ContextCanvas      Context = "canvas"
	ContextOutline     Context = "outline"
	ContextInspector   Context = "inspector"
	ContextForm        Context = "form"
	ContextTopicFilter Context = "topic-filter"
)

// ContextHelpContent contains compact help content for each context.
// Content should fit on one screen (~20 lines) without scrolling.
var ContextHelpContent = map[Context]string{
	ContextCanvas:      contextHelpCanvas,
	ContextOutline:     contextHelpOutline,
	ContextInspector:   contextHelpInspector,
	ContextForm:        contextHelpForm,
	ContextTopicFilter: contextHelpTopicFilter,
}

// GetContextHelp returns the help content for a given context.
// Falls back to generic help if the context has no specific content.
func GetContextHelp(ctx Context) string {
	if content, ok := ContextHelpContent[ctx]; ok {
		return content
	}
	return contextHelpGeneric
}

// RenderContextHelp renders the context-specific help modal.
func RenderContextHelp(ctx Context, theme Theme, width, height int) string {
	content := GetContextHelp(ctx)

	r := theme.Renderer

	modalWidth := 60
	if modalWidth > width-4 {
		modalWidth = width - 4
	}
	if modalWidth < 20 {
		modalWidth = 20
	}

	titleStyle := r.NewStyle().
		Bold(true).
		Foreground(theme.Primary)

	contentStyle := r.NewStyle().
		Foreground(theme.Subtext)

	footerStyle := r.NewStyle().
		Foreground(theme.Muted).
		Italic(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Quick Reference"))
	b.WriteString("\n")
	b.WriteString(r.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", modalWidth-4)))
	b.WriteString("\n\n")
	b.WriteString(contentStyle.Render(content))
	b.WriteString("\n\n")
	b.WriteString(footerStyle.Render("Esc or ? to close"))

	modalStyle := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Secondary).
		Padding(1, 2).
		Width(modalWidth)

	modal := modalStyle.Render(b.String())
	if width <= 0 || height <= 0 {
		return modal
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, modal)
}

const contextHelpCanvas = `## Mind Map

**Navigation**
  j/k       Previous/next visible node
  h/l       Collapse or parent / expand or child
  Space     Toggle expand
  Click     Select node (mouse)

**Subtrees**
  d         Drill into selected node
  u         Drill back up
  E/C       Expand all / collapse all

**Viewport**
  +/-       Zoom in/out
  H/J/K/L   Pan
  0         Fit to screen
  r         Re-run layout

**Editing**
  a/e/D     Add child / edit / delete`

const contextHelpOutline = `## Outline

**Navigation**
  j/k       Move up/down
  g/G       Jump to top/bottom
  h/l       Collapse / expand
  Enter     Toggle expand

**Focus**
  Tab       Switch to inspector

**Tips**
• ▾ expanded, ▸ collapsed, • leaf
• The highlighted path leads to
  the selected node`

const contextHelpInspector = `## Inspector

**Navigation**
  j/k       Scroll content
  Tab       Back to outline

**Shows**
• Breadcrumbs to the selected node
• Summary (markdown)
• Metadata and children
• Topic statistics

**Copy**
  y         Copy node id
  Y         Copy topic as JSON`

const contextHelpForm = `## Node Form

**Fields**
  Tab       Next field
  Shift+Tab Previous field
  Enter     Submit

**Exit**
  Esc       Cancel without changes

Title is required.`

const contextHelpTopicFilter = `## Topic Filter

**Search**
  type      Fuzzy match key or title
  ←/→       Move between matches
  Enter     Open highlighted topic
  Esc       Cancel

Tip: 1-9 switch topics directly
when the filter is closed`

const contextHelpGeneric = `## Quick Reference

**Global Keys**
  ?         Help overlay
  [ ]       Previous/next topic
  /         Find topic
  x / X     Export JSON / all formats
  q         Quit`
