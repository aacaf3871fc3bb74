package ui

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/mindmap_viewer/pkg/mindmap"
)

func TestOutlineRows_Prefixes(t *testing.T) {
	app := loadedApp(t)
	app.ExpandAll()

	rows := outlineRows(app)
	got := make([]string, len(rows))
	for i, r := range rows {
		got[i] = r.prefix + r.indicator + " " + r.node.Title
	}
	want := []string{
		"▾ Go",
		"├── • Channels",
		"└── ▾ GC",
		"    └── • Tri-color",
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("outline rows:\n%s\nwant:\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

func TestOutlineRows_DrilledRootHasNoPrefix(t *testing.T) {
	app := loadedApp(t)
	app.SelectNode("gc")
	app.DrillDown()

	rows := outlineRows(app)
	if len(rows) == 0 || rows[0].node.ID != "gc" || rows[0].prefix != "" {
		t.Fatalf("drilled outline should start at gc without prefix, got %+v", rows)
	}
}

func TestOutlineView_ScrollsToSelection(t *testing.T) {
	app := loadedApp(t)
	app.ExpandAll()
	app.SelectNode("tri")

	o := NewOutlineModel(DefaultTheme(lipgloss.NewRenderer(io.Discard)))
	o.SetSize(40, 2)
	out := o.View(app)
	if !strings.Contains(out, "Tri-color") {
		t.Errorf("selection must stay in view:\n%s", out)
	}
	if strings.Contains(out, "Channels") {
		t.Errorf("window of 2 rows should have scrolled past Channels:\n%s", out)
	}
}

func TestOutlineView_Empty(t *testing.T) {
	app := mindmap.New(mindmap.WithLogger(discardLogger()))
	o := NewOutlineModel(DefaultTheme(lipgloss.NewRenderer(io.Discard)))
	if !strings.Contains(o.View(app), "No nodes") {
		t.Error("expected empty state")
	}
}

func TestNavigationHelpers(t *testing.T) {
	app := loadedApp(t)

	if moveSelection(app, -1) != mindmap.ChangeNone {
		t.Error("moving up from the first node should clamp")
	}
	moveSelection(app, 5)
	if app.SelectedID() != "gc" {
		t.Errorf("large move should clamp to last visible, got %q", app.SelectedID())
	}
	jumpToEnd(app, false)
	if app.SelectedID() != "root" {
		t.Errorf("jump to start should select root, got %q", app.SelectedID())
	}
	if collapseOrJumpToParent(app); app.IsExpanded("root") {
		t.Error("left on expanded root should collapse it")
	}
	if collapseOrJumpToParent(app) != mindmap.ChangeNone {
		t.Error("left on collapsed root has nowhere to go")
	}
	expandOrMoveToChild(app)
	if !app.IsExpanded("root") {
		t.Error("right on collapsed root should expand")
	}
	expandOrMoveToChild(app)
	if app.SelectedID() != "chan" {
		t.Errorf("right on expanded root should enter first child, got %q", app.SelectedID())
	}
	if expandOrMoveToChild(app) != mindmap.ChangeNone {
		t.Error("right on a leaf does nothing")
	}
}
