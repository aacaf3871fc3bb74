package ui

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/mindmap_viewer/pkg/layout"
	"github.com/Dicklesworthstone/mindmap_viewer/pkg/mindmap"
	"github.com/Dicklesworthstone/mindmap_viewer/pkg/model"
)

func testCanvas(width, height int) CanvasModel {
	c := NewCanvasModel(DefaultTheme(lipgloss.NewRenderer(io.Discard)), layout.DefaultFitParams())
	c.SetSize(width, height)
	return c
}

func loadedApp(t *testing.T) *mindmap.App {
	t.Helper()
	app := mindmap.New(mindmap.WithLogger(discardLogger()))
	if err := app.Load(testTopics(), "go"); err != nil {
		t.Fatal(err)
	}
	return app
}

func placed(app *mindmap.App, pos map[string][2]float64) []model.LayoutNode {
	var out []model.LayoutNode
	for _, n := range app.VisibleNodes() {
		p := pos[n.ID]
		out = append(out, model.LayoutNode{FlatNode: n, X: p[0], Y: p[1], R: 40, RelDepth: n.Depth})
	}
	return out
}

func TestEdgeGlyph(t *testing.T) {
	tests := []struct {
		dx, dy int
		want   rune
	}{
		{10, 0, '─'},
		{-10, 0, '─'},
		{0, 5, '│'},
		{0, -5, '│'},
		{10, 5, '╲'},
		{-10, -5, '╲'},
		{10, -5, '╱'},
		{0, 0, '·'},
	}
	for _, tt := range tests {
		if got := edgeGlyph(tt.dx, tt.dy); got != tt.want {
			t.Errorf("edgeGlyph(%d,%d) = %q, want %q", tt.dx, tt.dy, got, tt.want)
		}
	}
}

func TestCanvas_FirstNodesAreFitted(t *testing.T) {
	app := loadedApp(t)
	c := testCanvas(80, 24)
	if c.Transform().K != 0 {
		t.Fatal("transform should be unset before nodes arrive")
	}
	c.SetNodes(placed(app, map[string][2]float64{
		"root": {0, 0}, "chan": {-400, 200}, "gc": {400, 200},
	}))
	if c.Transform().K == 0 {
		t.Fatal("first node set should be fitted")
	}
	for _, n := range c.Nodes() {
		col, row := c.project(n.X, n.Y)
		if col < 0 || col >= 80 || row < 0 || row >= 24 {
			t.Errorf("%s projected off screen at (%d,%d)", n.ID, col, row)
		}
	}
}

func TestCanvas_ViewDrawsNodesAndEdges(t *testing.T) {
	app := loadedApp(t)
	c := testCanvas(80, 24)
	c.SetNodes(placed(app, map[string][2]float64{
		"root": {0, 0}, "chan": {-400, 0}, "gc": {400, 0},
	}))
	out := c.View(app)
	lines := strings.Split(out, "\n")
	if len(lines) != 24 {
		t.Fatalf("expected 24 rows, got %d", len(lines))
	}
	if !strings.Contains(out, "◉") {
		t.Error("selected root should use the selected marker")
	}
	if strings.Count(out, "●") != 2 {
		t.Errorf("expected two plain markers, got %d", strings.Count(out, "●"))
	}
	if !strings.Contains(out, "─") {
		t.Error("horizontal edges should be drawn")
	}
	if !strings.Contains(out, "-") {
		t.Error("expanded root should carry the - badge")
	}
	if !strings.Contains(out, "+") {
		t.Error("collapsed gc should carry the + badge")
	}
}

func TestCanvas_HitTest(t *testing.T) {
	app := loadedApp(t)
	c := testCanvas(80, 24)
	c.SetNodes(placed(app, map[string][2]float64{
		"root": {0, 0}, "chan": {-400, 0}, "gc": {400, 0},
	}))
	c.View(app)

	for _, n := range c.Nodes() {
		col, row := c.project(n.X, n.Y)
		if got := c.HitTest(col, row); got != n.ID {
			t.Errorf("HitTest at %s marker = %q", n.ID, got)
		}
	}
	if got := c.HitTest(0, 0); got != "" {
		t.Errorf("empty corner should miss, got %q", got)
	}
}

func TestCanvas_ZoomAndPan(t *testing.T) {
	c := testCanvas(80, 24)
	c.ZoomBy(2)
	if k := c.Transform().K; k != 2 {
		t.Errorf("zoom from identity should give 2, got %v", k)
	}
	before := c.Transform()
	c.PanCells(1, 1)
	after := c.Transform()
	if after.X-before.X != cellWidthPx || after.Y-before.Y != cellHeightPx {
		t.Errorf("pan by one cell moved (%v,%v)", after.X-before.X, after.Y-before.Y)
	}
	for i := 0; i < 20; i++ {
		c.ZoomBy(2)
	}
	if k := c.Transform().K; k != layout.MaxZoom {
		t.Errorf("zoom should clamp at %v, got %v", layout.MaxZoom, k)
	}
}

func TestCanvas_FitTransition(t *testing.T) {
	app := loadedApp(t)
	c := testCanvas(80, 24)
	c.SetNodes(placed(app, map[string][2]float64{"root": {0, 0}, "chan": {-100, 0}, "gc": {100, 0}}))
	c.ZoomBy(3)
	zoomed := c.Transform()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.FitAnimated(start)
	if !c.Animating() {
		t.Fatal("fit from a zoomed view should animate")
	}
	if !c.Advance(start.Add(100 * time.Millisecond)) {
		t.Error("transition should still run after 100ms")
	}
	mid := c.Transform()
	if mid == zoomed {
		t.Error("transition should have moved the view")
	}
	if c.Advance(start.Add(time.Second)) {
		t.Error("transition should be done after its duration")
	}
	if c.Animating() {
		t.Error("finished transition should be cleared")
	}

	c.ResetView()
	if c.Transform().K != 0 || c.Animating() {
		t.Error("ResetView should clear transform and transition")
	}
}

func TestCanvas_EmptyState(t *testing.T) {
	app := loadedApp(t)
	c := testCanvas(40, 10)
	if !strings.Contains(c.View(app), "Nothing to lay out") {
		t.Error("expected empty state message")
	}
	c.SetSize(0, 0)
	if c.View(app) != "" {
		t.Error("zero-size canvas should render nothing")
	}
}
