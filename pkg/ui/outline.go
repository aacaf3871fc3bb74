package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/Dicklesworthstone/mindmap_viewer/pkg/mindmap"
	"github.com/Dicklesworthstone/mindmap_viewer/pkg/model"
)

// OutlineModel renders the visible part of the current topic as an indented
// tree with branch glyphs. Selection lives in the App; the outline only
// keeps its scroll offset.
type OutlineModel struct {
	theme  Theme
	width  int
	height int
	offset int
}

// NewOutlineModel creates an empty outline.
func NewOutlineModel(theme Theme) OutlineModel {
	return OutlineModel{theme: theme}
}

// SetSize updates the available dimensions.
func (o *OutlineModel) SetSize(width, height int) {
	o.width = width
	o.height = height
}

// outlineRow is one rendered line before styling.
type outlineRow struct {
	node      model.FlatNode
	prefix    string
	indicator string
}

// rows computes branch prefixes for the visible nodes. Visible children of
// an expanded node are all of its children, so sibling order in the visible
// list is the display order.
func outlineRows(app *mindmap.App) []outlineRow {
	visible := app.VisibleNodes()
	if len(visible) == 0 {
		return nil
	}
	vroot := app.VirtualRootID()

	parent := make(map[string]string, len(visible))
	lastChild := make(map[string]string)
	for _, n := range visible {
		if n.ID == vroot {
			continue
		}
		parent[n.ID] = n.ParentID
		lastChild[n.ParentID] = n.ID
	}
	isLast := func(id string) bool {
		return lastChild[parent[id]] == id
	}

	rows := make([]outlineRow, 0, len(visible))
	for _, n := range visible {
		row := outlineRow{node: n, indicator: "•"}
		if n.HasChildren {
			row.indicator = "▸"
			if app.IsExpanded(n.ID) {
				row.indicator = "▾"
			}
		}
		if n.ID != vroot {
			var parts []string
			if isLast(n.ID) {
				parts = append(parts, "└── ")
			} else {
				parts = append(parts, "├── ")
			}
			for id := parent[n.ID]; id != vroot && id != ""; id = parent[id] {
				if isLast(id) {
					parts = append(parts, "    ")
				} else {
					parts = append(parts, "│   ")
				}
			}
			for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
				parts[i], parts[j] = parts[j], parts[i]
			}
			row.prefix = strings.Join(parts, "")
		}
		rows = append(rows, row)
	}
	return rows
}

// View renders the rows around the selected node.
func (o *OutlineModel) View(app *mindmap.App) string {
	rows := outlineRows(app)
	if len(rows) == 0 {
		return o.renderEmptyState()
	}
	cursor := 0
	for i, r := range rows {
		if r.node.ID == app.SelectedID() {
			cursor = i
			break
		}
	}
	start, end := o.visibleRange(len(rows), cursor)

	path := app.PathIDs()
	vrootDepth := rows[0].node.Depth
	t := o.theme
	r := t.Renderer
	treeStyle := r.NewStyle().Foreground(t.Muted)

	var sb strings.Builder
	for i := start; i < end; i++ {
		row := rows[i]
		rel := row.node.Depth - vrootDepth
		indicatorStyle := r.NewStyle().Foreground(t.DepthColor(rel))

		titleStyle := t.Base
		if _, ok := path[row.node.ID]; ok {
			titleStyle = titleStyle.Foreground(t.Path)
		}
		if row.node.ID == app.HoveredID() {
			titleStyle = titleStyle.Underline(true)
		}

		maxTitle := o.width - runewidth.StringWidth(row.prefix) - 3
		if maxTitle < 8 {
			maxTitle = 8
		}
		title := runewidth.Truncate(row.node.Title, maxTitle, "…")

		line := treeStyle.Render(row.prefix) + indicatorStyle.Render(row.indicator) + " " + titleStyle.Render(title)
		if i == cursor && row.node.ID == app.SelectedID() {
			line = t.Selected.Render(line)
		}
		sb.WriteString(line)
		if i < end-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// visibleRange keeps the cursor inside the window, scrolling the offset as
// little as possible.
func (o *OutlineModel) visibleRange(total, cursor int) (start, end int) {
	h := o.height
	if h <= 0 {
		h = 20
	}
	if cursor < o.offset {
		o.offset = cursor
	}
	if cursor >= o.offset+h {
		o.offset = cursor - h + 1
	}
	if o.offset > total-h {
		o.offset = total - h
	}
	if o.offset < 0 {
		o.offset = 0
	}
	start = o.offset
	end = min(start+h, total)
	return start, end
}

func (o *OutlineModel) renderEmptyState() string {
	t := o.theme
	return t.Renderer.NewStyle().Foreground(t.Muted).Italic(true).Render("No nodes to display.")
}

// moveSelection selects the visible node delta rows away from the current
// selection, clamped to the ends.
func moveSelection(app *mindmap.App, delta int) mindmap.Change {
	visible := app.VisibleNodes()
	if len(visible) == 0 {
		return mindmap.ChangeNone
	}
	idx := -1
	for i, n := range visible {
		if n.ID == app.SelectedID() {
			idx = i
			break
		}
	}
	if idx < 0 {
		return app.SelectNode(visible[0].ID)
	}
	idx = max(0, min(len(visible)-1, idx+delta))
	return app.SelectNode(visible[idx].ID)
}

// jumpToEnd selects the first or last visible node.
func jumpToEnd(app *mindmap.App, last bool) mindmap.Change {
	visible := app.VisibleNodes()
	if len(visible) == 0 {
		return mindmap.ChangeNone
	}
	if last {
		return app.SelectNode(visible[len(visible)-1].ID)
	}
	return app.SelectNode(visible[0].ID)
}

// expandOrMoveToChild expands a collapsed selection, or moves into the first
// child of an expanded one. Leaves do nothing.
func expandOrMoveToChild(app *mindmap.App) mindmap.Change {
	sel, ok := app.SelectedNode()
	if !ok || !sel.HasChildren {
		return mindmap.ChangeNone
	}
	if !app.IsExpanded(sel.ID) {
		return app.ToggleExpand(sel.ID)
	}
	children := app.Children(sel.ID)
	if len(children) == 0 {
		return mindmap.ChangeNone
	}
	return app.SelectNode(children[0].ID)
}

// collapseOrJumpToParent collapses an expanded selection, otherwise selects
// its parent while that parent is still on screen.
func collapseOrJumpToParent(app *mindmap.App) mindmap.Change {
	sel, ok := app.SelectedNode()
	if !ok {
		return mindmap.ChangeNone
	}
	if sel.HasChildren && app.IsExpanded(sel.ID) {
		return app.ToggleExpand(sel.ID)
	}
	if sel.ID == app.VirtualRootID() || sel.ParentID == "" {
		return mindmap.ChangeNone
	}
	return app.SelectNode(sel.ParentID)
}
