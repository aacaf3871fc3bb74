package ui

import (
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/Dicklesworthstone/mindmap_viewer/pkg/layout"
	"github.com/Dicklesworthstone/mindmap_viewer/pkg/mindmap"
	"github.com/Dicklesworthstone/mindmap_viewer/pkg/model"
)

// One terminal cell covers this many layout pixels at zoom 1.
const (
	cellWidthPx  = 8.0
	cellHeightPx = 16.0
)

// Zoom and pan steps for keyboard control.
const (
	zoomStep   = 1.25
	panStepPx  = 80.0
	labelMinPx = 64.0
)

type cellKind uint8

const (
	cellEmpty cellKind = iota
	cellEdge
	cellPathEdge
	cellNode
	cellLabel
	cellPathLabel
	cellSelected
	cellBadge
	// cellWide marks the second column of a double-width rune.
	cellWide
)

type cell struct {
	ch    rune
	kind  cellKind
	depth int
}

// hitBox is the cell rectangle occupied by a node marker and its label.
type hitBox struct {
	id               string
	x0, y0, x1, y1   int
	centerX, centerY int
}

// CanvasModel projects the force layout into terminal cells. It owns the
// viewport transform; node positions come from the layout runner.
type CanvasModel struct {
	theme  Theme
	width  int
	height int

	nodes      []model.LayoutNode
	transform  layout.Transform
	transition *layout.Transition
	fit        layout.FitParams
	// boxes is filled by View and read by HitTest. It is shared by every
	// copy of the model so hits match the frame last drawn.
	boxes *[]hitBox
}

// NewCanvasModel creates an empty canvas.
func NewCanvasModel(theme Theme, fit layout.FitParams) CanvasModel {
	return CanvasModel{theme: theme, fit: fit, boxes: new([]hitBox)}
}

// SetSize updates the cell dimensions.
func (c *CanvasModel) SetSize(width, height int) {
	c.width = width
	c.height = height
}

// PixelSize is the layout frame the canvas shows at the identity transform.
func (c *CanvasModel) PixelSize() (float64, float64) {
	return float64(c.width) * cellWidthPx, float64(c.height) * cellHeightPx
}

// SetNodes replaces the positioned nodes. The first non-empty set is fitted
// immediately so the map never starts off screen.
func (c *CanvasModel) SetNodes(nodes []model.LayoutNode) {
	c.nodes = nodes
	if c.transform.K == 0 && len(nodes) > 0 {
		w, h := c.PixelSize()
		c.transform = layout.Fit(nodes, w, h, c.fit)
	}
}

// ResetView forgets the transform so the next node set is fitted afresh.
func (c *CanvasModel) ResetView() {
	c.transform = layout.Transform{}
	c.transition = nil
}

// Nodes returns the nodes currently drawn.
func (c *CanvasModel) Nodes() []model.LayoutNode { return c.nodes }

// Transform returns the current viewport transform.
func (c *CanvasModel) Transform() layout.Transform { return c.transform }

// FitAnimated starts a transition to the transform that fits every node.
func (c *CanvasModel) FitAnimated(now time.Time) {
	if len(c.nodes) == 0 {
		return
	}
	w, h := c.PixelSize()
	target := layout.Fit(c.nodes, w, h, c.fit)
	if c.transform.K == 0 {
		c.transform = target
		return
	}
	tr := layout.NewTransition(c.transform, target, now, c.fit.Duration)
	c.transition = &tr
}

// Animating reports whether a viewport transition is in flight.
func (c *CanvasModel) Animating() bool { return c.transition != nil }

// Advance moves the transition to now and reports whether it is still
// running.
func (c *CanvasModel) Advance(now time.Time) bool {
	if c.transition == nil {
		return false
	}
	t, done := c.transition.At(now)
	c.transform = t
	if done {
		c.transition = nil
	}
	return !done
}

// ZoomBy zooms around the canvas center. Manual zoom cancels any transition.
func (c *CanvasModel) ZoomBy(factor float64) {
	c.transition = nil
	w, h := c.PixelSize()
	c.transform = layout.ZoomBy(c.ensureTransform(), factor, r2.Vec{X: w / 2, Y: h / 2})
}

// ZoomAt zooms around a cell, the mouse wheel anchor.
func (c *CanvasModel) ZoomAt(col, row int, factor float64) {
	c.transition = nil
	anchor := r2.Vec{X: (float64(col) + 0.5) * cellWidthPx, Y: (float64(row) + 0.5) * cellHeightPx}
	c.transform = layout.ZoomBy(c.ensureTransform(), factor, anchor)
}

// PanCells shifts the view by whole cells.
func (c *CanvasModel) PanCells(dx, dy int) {
	c.transition = nil
	c.transform = layout.Pan(c.ensureTransform(), float64(dx)*cellWidthPx, float64(dy)*cellHeightPx)
}

// PanBy shifts the view by layout pixels.
func (c *CanvasModel) PanBy(dx, dy float64) {
	c.transition = nil
	c.transform = layout.Pan(c.ensureTransform(), dx, dy)
}

func (c *CanvasModel) ensureTransform() layout.Transform {
	if c.transform.K == 0 {
		return layout.Identity()
	}
	return c.transform
}

// project maps a layout point to a cell.
func (c *CanvasModel) project(x, y float64) (int, int) {
	p := c.ensureTransform().Apply(r2.Vec{X: x, Y: y})
	return int(math.Floor(p.X / cellWidthPx)), int(math.Floor(p.Y / cellHeightPx))
}

// HitTest returns the node drawn at the given cell, preferring the marker of
// the nearest node, or "" when the cell is empty.
func (c *CanvasModel) HitTest(col, row int) string {
	best := ""
	bestDist := math.MaxInt
	boxes := *c.boxes
	for i := len(boxes) - 1; i >= 0; i-- {
		b := boxes[i]
		if col < b.x0 || col > b.x1 || row < b.y0 || row > b.y1 {
			continue
		}
		d := abs(col-b.centerX) + abs(row-b.centerY)
		if d < bestDist {
			best, bestDist = b.id, d
		}
	}
	return best
}

// View renders the visible nodes and edges of app.
func (c *CanvasModel) View(app *mindmap.App) string {
	*c.boxes = (*c.boxes)[:0]
	if c.width <= 0 || c.height <= 0 {
		return ""
	}
	if len(c.nodes) == 0 {
		return c.renderEmptyState()
	}
	grid := make([][]cell, c.height)
	for y := range grid {
		grid[y] = make([]cell, c.width)
	}
	index := make(map[string]int, len(c.nodes))
	for i, n := range c.nodes {
		index[n.ID] = i
	}
	path := app.PathIDs()

	for _, e := range app.VisibleEdges() {
		si, ok1 := index[e.SourceID]
		ti, ok2 := index[e.TargetID]
		if !ok1 || !ok2 {
			continue
		}
		s, t := c.nodes[si], c.nodes[ti]
		x0, y0 := c.project(s.X, s.Y)
		x1, y1 := c.project(t.X, t.Y)
		kind := cellEdge
		_, sp := path[s.ID]
		_, tp := path[t.ID]
		if sp && tp {
			kind = cellPathEdge
		}
		c.drawLine(grid, x0, y0, x1, y1, kind)
	}

	k := c.ensureTransform().K
	for _, n := range c.nodes {
		cx, cy := c.project(n.X, n.Y)
		_, onPath := path[n.ID]
		c.drawNode(grid, app, n, cx, cy, k, onPath)
	}
	return c.renderGrid(grid, app.HoveredID())
}

func (c *CanvasModel) drawNode(grid [][]cell, app *mindmap.App, n model.LayoutNode, cx, cy int, k float64, onPath bool) {
	marker := '●'
	kind := cellNode
	if n.ID == app.SelectedID() {
		marker = '◉'
		kind = cellSelected
	}
	c.put(grid, cx, cy, cell{ch: marker, kind: kind, depth: n.RelDepth})
	box := hitBox{id: n.ID, x0: cx - 1, y0: cy, x1: cx + 1, y1: cy, centerX: cx, centerY: cy}

	if n.HasChildren {
		badge := '+'
		if app.IsExpanded(n.ID) {
			badge = '-'
		}
		c.put(grid, cx+1, cy, cell{ch: badge, kind: cellBadge})
	}

	// Labels shrink with zoom; below a minimum on-screen radius only the
	// selected node and its path keep theirs.
	if n.R*k*2 < labelMinPx && !onPath && n.ID != app.SelectedID() {
		*c.boxes = append(*c.boxes, box)
		return
	}
	budget := math.Max(8, 2*n.R*k/cellWidthPx)
	label := layout.WrapWidth(n.Title, budget, 1, 1, layout.CellMeasurer{})
	labelKind := cellLabel
	if onPath {
		labelKind = cellPathLabel
	}
	if n.ID == app.SelectedID() {
		labelKind = cellSelected
	}
	const maxLines = 3
	lines := label.Lines
	if len(lines) > maxLines {
		lines = append(lines[:maxLines-1:maxLines-1], runewidth.Truncate(strings.Join(lines[maxLines-1:], " "), int(budget), "…"))
	}
	for i, line := range lines {
		line = runewidth.Truncate(line, int(budget)+2, "…")
		w := runewidth.StringWidth(line)
		x := cx - w/2
		y := cy + 1 + i
		c.putString(grid, x, y, line, labelKind)
		box.x0 = min(box.x0, x)
		box.x1 = max(box.x1, x+w-1)
		box.y1 = max(box.y1, y)
	}
	*c.boxes = append(*c.boxes, box)
}

func (c *CanvasModel) put(grid [][]cell, x, y int, v cell) {
	if y < 0 || y >= len(grid) || x < 0 || x >= len(grid[y]) {
		return
	}
	grid[y][x] = v
}

func (c *CanvasModel) putString(grid [][]cell, x, y int, s string, kind cellKind) {
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		c.put(grid, x, y, cell{ch: r, kind: kind})
		if w == 2 {
			c.put(grid, x+1, y, cell{kind: cellWide})
		}
		x += w
	}
}

// drawLine rasterizes an edge with Bresenham's algorithm, choosing a glyph
// from the overall slope. Cells already holding nodes or labels are kept.
func (c *CanvasModel) drawLine(grid [][]cell, x0, y0, x1, y1 int, kind cellKind) {
	glyph := edgeGlyph(x1-x0, y1-y0)
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for steps := 0; steps < 4096; steps++ {
		if y0 >= 0 && y0 < len(grid) && x0 >= 0 && x0 < len(grid[y0]) {
			cur := grid[y0][x0]
			if cur.kind == cellEmpty || cur.kind == cellEdge {
				grid[y0][x0] = cell{ch: glyph, kind: kind}
			}
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// edgeGlyph picks a line character for a cell-space direction. Cells are
// about twice as tall as wide, so slopes are compared after scaling dy.
func edgeGlyph(dx, dy int) rune {
	if dx == 0 && dy == 0 {
		return '·'
	}
	angle := math.Atan2(float64(dy)*2, float64(dx)) * 180 / math.Pi
	if angle < 0 {
		angle += 180
	}
	switch {
	case angle < 22.5 || angle >= 157.5:
		return '─'
	case angle < 67.5:
		return '╲'
	case angle < 112.5:
		return '│'
	default:
		return '╱'
	}
}

func (c *CanvasModel) renderGrid(grid [][]cell, hovered string) string {
	t := c.theme
	r := t.Renderer
	styles := map[cellKind]lipgloss.Style{
		cellEdge:      r.NewStyle().Foreground(t.Border),
		cellPathEdge:  r.NewStyle().Foreground(t.Path),
		cellLabel:     t.Base,
		cellPathLabel: r.NewStyle().Foreground(t.Path).Bold(true),
		cellSelected:  t.Selected.Foreground(t.Path),
		cellBadge:     r.NewStyle().Foreground(t.Secondary).Bold(true),
	}
	var hoverCells map[[2]int]bool
	if hovered != "" {
		for _, b := range *c.boxes {
			if b.id == hovered {
				hoverCells = map[[2]int]bool{{b.centerX, b.centerY}: true}
			}
		}
	}

	var sb strings.Builder
	for y, row := range grid {
		var run strings.Builder
		runKind := cellEmpty
		runDepth := -1
		flush := func() {
			if run.Len() == 0 {
				return
			}
			switch runKind {
			case cellEmpty:
				sb.WriteString(run.String())
			case cellNode:
				sb.WriteString(r.NewStyle().Foreground(t.DepthColor(runDepth)).Render(run.String()))
			default:
				sb.WriteString(styles[runKind].Render(run.String()))
			}
			run.Reset()
		}
		for x, v := range row {
			if v.kind == cellWide {
				continue
			}
			kind, depth := v.kind, v.depth
			if kind != cellNode {
				depth = -1
			}
			if hoverCells[[2]int{x, y}] && kind == cellNode {
				kind = cellPathLabel
			}
			if kind != runKind || depth != runDepth {
				flush()
				runKind, runDepth = kind, depth
			}
			if v.ch == 0 {
				run.WriteByte(' ')
			} else {
				run.WriteRune(v.ch)
			}
		}
		flush()
		if y < len(grid)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func (c *CanvasModel) renderEmptyState() string {
	t := c.theme
	msg := t.Renderer.NewStyle().Foreground(t.Muted).Italic(true).Render("Nothing to lay out.")
	return lipgloss.Place(c.width, c.height, lipgloss.Center, lipgloss.Center, msg)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
