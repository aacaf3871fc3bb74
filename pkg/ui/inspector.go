package ui

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Dicklesworthstone/mindmap_viewer/pkg/analysis"
	"github.com/Dicklesworthstone/mindmap_viewer/pkg/mindmap"
	"github.com/Dicklesworthstone/mindmap_viewer/pkg/model"
)

// InspectorModel shows the selected node as rendered markdown in a
// scrollable viewport.
type InspectorModel struct {
	viewport viewport.Model
	md       *MarkdownRenderer
	theme    Theme

	// Stats are recomputed only when the topic tree changes. Trees are
	// persistent, so the root pointer identifies a version.
	statsRoot *model.TreeNode
	stats     analysis.TopicStats
}

// NewInspectorModel creates an inspector with a themed markdown renderer.
func NewInspectorModel(theme Theme) InspectorModel {
	return InspectorModel{
		viewport: viewport.New(0, 0),
		md:       NewMarkdownRendererWithTheme(60, theme),
		theme:    theme,
	}
}

// SetSize resizes the viewport and rewraps markdown.
func (m *InspectorModel) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
	m.md.SetWidthWithTheme(max(20, width-2), m.theme)
}

// Refresh rebuilds the content for the app's current selection.
func (m *InspectorModel) Refresh(app *mindmap.App) {
	if root := app.CurrentTree(); root != m.statsRoot {
		m.statsRoot = root
		m.stats = analysis.Analyze(root, analysis.DefaultHubLimit)
	}
	source := inspectorMarkdown(app, m.stats)
	rendered, err := m.md.Render(source)
	if err != nil {
		m.viewport.SetContent(fmt.Sprintf("Error rendering markdown: %v", err))
		return
	}
	m.viewport.SetContent(rendered)
}

// Update forwards scroll keys and mouse wheel to the viewport.
func (m InspectorModel) Update(msg tea.Msg) (InspectorModel, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the viewport.
func (m InspectorModel) View() string {
	return m.viewport.View()
}

// Stats returns the statistics of the last refreshed topic.
func (m InspectorModel) Stats() analysis.TopicStats {
	return m.stats
}

// inspectorMarkdown describes the selected node, or the topic when nothing
// is selected.
func inspectorMarkdown(app *mindmap.App, stats analysis.TopicStats) string {
	var sb strings.Builder
	sel, ok := app.SelectedNode()
	if !ok {
		sb.WriteString(fmt.Sprintf("# %s\n\n", app.CurrentTopic()))
		sb.WriteString("_No node selected._\n\n")
		writeStats(&sb, stats)
		return sb.String()
	}

	crumbs := app.Breadcrumbs()
	if len(crumbs) > 0 {
		titles := make([]string, len(crumbs))
		for i, c := range crumbs {
			titles[i] = c.Title
		}
		sb.WriteString(fmt.Sprintf("_%s_\n\n", strings.Join(titles, " › ")))
	}

	sb.WriteString(fmt.Sprintf("# %s\n", sel.Title))
	if sel.Summary != "" {
		sb.WriteString(sel.Summary + "\n\n")
	}

	sb.WriteString("| ID | Depth | State |\n|---|---|---|\n")
	sb.WriteString(fmt.Sprintf("| `%s` | %d | %s |\n\n", sel.ID, sel.Depth, nodeState(app, sel)))

	if len(sel.Metadata) > 0 {
		sb.WriteString("### Metadata\n")
		sb.WriteString("| Key | Value |\n|---|---|\n")
		for _, k := range slices.Sorted(maps.Keys(sel.Metadata)) {
			sb.WriteString(fmt.Sprintf("| %s | %s |\n", k, sel.Metadata[k]))
		}
		sb.WriteString("\n")
	}

	if children := app.Children(sel.ID); len(children) > 0 {
		sb.WriteString(fmt.Sprintf("### Children (%d)\n", len(children)))
		for _, c := range children {
			if c.Summary != "" {
				sb.WriteString(fmt.Sprintf("- **%s**: %s\n", c.Title, c.Summary))
			} else {
				sb.WriteString(fmt.Sprintf("- **%s**\n", c.Title))
			}
		}
		sb.WriteString("\n")
	}

	writeStats(&sb, stats)
	return sb.String()
}

func nodeState(app *mindmap.App, n model.FlatNode) string {
	switch {
	case !n.HasChildren:
		return "leaf"
	case app.IsExpanded(n.ID):
		return "expanded"
	default:
		return "collapsed"
	}
}

func writeStats(sb *strings.Builder, stats analysis.TopicStats) {
	if stats.Nodes == 0 {
		return
	}
	sb.WriteString("### Topic\n")
	sb.WriteString(fmt.Sprintf("%d nodes, %d leaves, depth %d, %.2f avg branching\n\n",
		stats.Nodes, stats.Leaves, stats.MaxDepth, stats.AvgBranching))
	if len(stats.Hubs) > 0 {
		sb.WriteString("**Hubs**\n")
		for _, h := range stats.Hubs {
			sb.WriteString(fmt.Sprintf("- %s (%d children, %.2f)\n", h.Title, h.Children, h.Centrality))
		}
	}
}
