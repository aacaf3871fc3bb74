package ui

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/mindmap_viewer/pkg/config"
	"github.com/Dicklesworthstone/mindmap_viewer/pkg/loader"
	"github.com/Dicklesworthstone/mindmap_viewer/pkg/mindmap"
	"github.com/Dicklesworthstone/mindmap_viewer/pkg/model"
)

func keyMsg(k string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func specialKey(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testOptions(t *testing.T) Options {
	t.Helper()
	return Options{
		Config:    config.Default(),
		ExportDir: t.TempDir(),
		Logger:    discardLogger(),
		Renderer:  lipgloss.NewRenderer(io.Discard),
		Clock:     func() time.Time { return time.Date(2024, 3, 9, 14, 5, 6, 0, time.UTC) },
	}
}

func newTestModel(t *testing.T, width int) Model {
	t.Helper()
	app := mindmap.New(mindmap.WithLogger(discardLogger()))
	if err := app.Load(testTopics(), "go"); err != nil {
		t.Fatalf("load: %v", err)
	}
	m := NewModel(app, testOptions(t))
	return send(m, tea.WindowSizeMsg{Width: width, Height: 40})
}

func send(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

// settle delivers layout ticks until the simulation finishes.
func settle(t *testing.T, m Model) Model {
	t.Helper()
	for i := 0; i < 1000 && m.running; i++ {
		m = send(m, layoutTickMsg{Gen: m.gen})
	}
	if m.running {
		t.Fatal("layout did not settle")
	}
	// The test clock is frozen, so finish the fit transition explicitly.
	m.canvas.Advance(time.Now())
	return m
}

func TestNewModel_StartsLayout(t *testing.T) {
	m := newTestModel(t, 120)
	if !m.LayoutRunning() {
		t.Fatal("expected layout to start for a loaded app")
	}
	if m.Init() == nil {
		t.Fatal("Init should schedule the first layout tick")
	}
	if m.FocusState() != "canvas" {
		t.Errorf("expected initial focus canvas, got %q", m.FocusState())
	}

	m = settle(t, m)
	if got := len(m.CanvasNodes()); got != 3 {
		t.Errorf("expected root and two children on canvas, got %d", got)
	}
}

func TestModel_StaleLayoutTickDropped(t *testing.T) {
	m := newTestModel(t, 120)
	old := m.gen

	m = send(m, keyMsg("E")) // expand all restarts the layout
	if m.gen == old {
		t.Fatal("expand all should start a new generation")
	}
	before := m.runner.Snapshot()
	m = send(m, layoutTickMsg{Gen: old})
	after := m.runner.Snapshot()
	if len(before) != len(after) {
		t.Fatalf("stale tick changed the run: %d -> %d nodes", len(before), len(after))
	}
	for i := range before {
		if before[i].X != after[i].X || before[i].Y != after[i].Y {
			t.Fatalf("stale tick moved node %s", before[i].ID)
		}
	}

	m = settle(t, m)
	if got := len(m.CanvasNodes()); got != 5 {
		t.Errorf("expected every node after expand all, got %d", got)
	}
}

func TestModel_Navigation(t *testing.T) {
	m := settle(t, newTestModel(t, 120))
	app := m.App()

	if app.SelectedID() != "root" {
		t.Fatalf("expected root selected, got %q", app.SelectedID())
	}
	m = send(m, keyMsg("j"))
	if app.SelectedID() != "chan" {
		t.Errorf("after j expected chan, got %q", app.SelectedID())
	}
	m = send(m, keyMsg("G"))
	if app.SelectedID() != "gc" {
		t.Errorf("after G expected gc, got %q", app.SelectedID())
	}

	// l expands gc, a second l enters its first child.
	m = send(m, keyMsg("l"))
	if !app.IsExpanded("gc") {
		t.Fatal("l should expand gc")
	}
	if !m.LayoutRunning() {
		t.Error("expanding should restart the layout")
	}
	m = send(m, keyMsg("l"))
	if app.SelectedID() != "tri" {
		t.Errorf("second l should select tri, got %q", app.SelectedID())
	}

	// h on a leaf jumps to the parent, then collapses it.
	m = send(m, keyMsg("h"))
	if app.SelectedID() != "gc" {
		t.Errorf("h on leaf should select parent, got %q", app.SelectedID())
	}
	send(m, keyMsg("h"))
	if app.IsExpanded("gc") {
		t.Error("h on expanded node should collapse it")
	}
}

func TestModel_DrillDownAndUp(t *testing.T) {
	m := settle(t, newTestModel(t, 120))
	app := m.App()

	app.SelectNode("chan")
	m = send(m, keyMsg("d"))
	if !strings.Contains(m.StatusMessage(), "drill") {
		t.Errorf("drilling into a leaf should explain, got %q", m.StatusMessage())
	}
	if app.VirtualRootID() != "root" {
		t.Fatalf("leaf drill must not move the virtual root, got %q", app.VirtualRootID())
	}

	app.SelectNode("gc")
	m = send(m, keyMsg("d"))
	if app.VirtualRootID() != "gc" {
		t.Fatalf("expected gc as virtual root, got %q", app.VirtualRootID())
	}
	m = send(m, keyMsg("u"))
	if app.VirtualRootID() != "root" {
		t.Errorf("expected root after drill up, got %q", app.VirtualRootID())
	}
}

// TestModel_DrillRelayoutsCachedNodes checks that drilling between views
// whose nodes are all cached still runs the layout around the new root.
func TestModel_DrillRelayoutsCachedNodes(t *testing.T) {
	m := settle(t, newTestModel(t, 120))
	app := m.App()
	m = settle(t, send(m, keyMsg("E")))

	app.SelectNode("gc")
	m = send(m, keyMsg("d"))
	if !m.LayoutRunning() {
		t.Fatal("drilling into gc should run the layout")
	}
	m = settle(t, m)

	m = send(m, keyMsg("u"))
	if !m.LayoutRunning() {
		t.Fatal("drilling back up should run the layout even though every node is cached")
	}
	m = settle(t, m)
	for _, n := range m.CanvasNodes() {
		if n.ID == "root" && n.RelDepth != 0 {
			t.Errorf("root should be styled as the virtual root again, got depth %d", n.RelDepth)
		}
	}
}

func TestModel_TopicSwitching(t *testing.T) {
	m := settle(t, newTestModel(t, 120))
	app := m.App()

	m = send(m, keyMsg("]"))
	if app.CurrentTopic() != "rust" {
		t.Fatalf("] should switch to rust, got %q", app.CurrentTopic())
	}
	if m.canvas.Transform().K != 0 {
		t.Error("topic switch should reset the viewport")
	}
	m = send(m, keyMsg("]"))
	if app.CurrentTopic() != "go" {
		t.Errorf("] should wrap to go, got %q", app.CurrentTopic())
	}

	// Digits go through the topic bar and come back as SwitchTopicMsg.
	_, cmd := m.Update(keyMsg("2"))
	if cmd == nil {
		t.Fatal("expected a command from digit key")
	}
	msg, ok := cmd().(SwitchTopicMsg)
	if !ok || msg.Key != "rust" {
		t.Fatalf("expected SwitchTopicMsg{rust}, got %#v", msg)
	}
	send(m, msg)
	if app.CurrentTopic() != "rust" {
		t.Errorf("SwitchTopicMsg should switch, got %q", app.CurrentTopic())
	}
}

func TestModel_FocusCycle(t *testing.T) {
	m := newTestModel(t, 120)
	want := []string{"outline", "inspector", "canvas"}
	for _, w := range want {
		m = send(m, specialKey(tea.KeyTab))
		if m.FocusState() != w {
			t.Fatalf("expected focus %q, got %q", w, m.FocusState())
		}
	}
}

func TestModel_HelpOverlay(t *testing.T) {
	m := newTestModel(t, 120)
	m = send(m, keyMsg("?"))
	if !m.ShowingHelp() {
		t.Fatal("? should open help")
	}
	if !strings.Contains(m.View(), "Quick Reference") {
		t.Error("help view should render the quick reference")
	}
	// Keys are swallowed while help is open.
	m = send(m, keyMsg("j"))
	if m.App().SelectedID() != "root" {
		t.Error("navigation should not happen under the help overlay")
	}
	m = send(m, specialKey(tea.KeyEsc))
	if m.ShowingHelp() {
		t.Error("esc should close help")
	}
}

func TestModel_FormLifecycle(t *testing.T) {
	m := newTestModel(t, 120)
	m = send(m, keyMsg("a"))
	if !m.EditingForm() {
		t.Fatal("a should open the add form")
	}
	if !strings.Contains(m.View(), "New child of") {
		t.Error("form should render over the body")
	}
	m = send(m, specialKey(tea.KeyEsc))
	if m.EditingForm() {
		t.Fatal("esc should close the form")
	}
	if !strings.Contains(m.StatusMessage(), "cancelled") {
		t.Errorf("expected cancel status, got %q", m.StatusMessage())
	}
}

func TestModel_DeleteRootRefused(t *testing.T) {
	m := newTestModel(t, 120)
	m = send(m, keyMsg("D"))
	if m.EditingForm() {
		t.Fatal("deleting the root must not open a form")
	}
	if !strings.Contains(m.StatusMessage(), "cannot be deleted") {
		t.Errorf("unexpected status %q", m.StatusMessage())
	}
}

func TestModel_ApplyFormResult(t *testing.T) {
	m := settle(t, newTestModel(t, 120))
	app := m.App()

	m.applyFormResult(NodeFormResult{Kind: FormAdd, TargetID: "chan", Title: "Select", Summary: "multiplexing"})
	sel, ok := app.SelectedNode()
	if !ok || sel.Title != "Select" || sel.ParentID != "chan" {
		t.Fatalf("add should select the new child, got %+v", sel)
	}
	if !app.IsExpanded("chan") {
		t.Error("parent should be expanded after add")
	}
	if !m.running {
		t.Error("add should restart the layout")
	}

	m.applyFormResult(NodeFormResult{Kind: FormEdit, TargetID: "gc", Title: "Garbage collector", Metadata: map[string]string{"since": "1.5"}})
	n := app.Children("root")[1]
	if n.Title != "Garbage collector" || n.Metadata["since"] != "1.5" {
		t.Errorf("edit not applied: %+v", n)
	}

	m.applyFormResult(NodeFormResult{Kind: FormDelete, TargetID: "gc", Confirmed: true})
	if len(app.Children("root")) != 1 {
		t.Errorf("delete should remove gc, children now %v", app.Children("root"))
	}
	if app.SelectedID() != "root" {
		t.Errorf("delete should select the parent, got %q", app.SelectedID())
	}
}

func TestModel_ReloadPreservesSelection(t *testing.T) {
	m := settle(t, newTestModel(t, 120))
	app := m.App()
	app.SelectNode("chan")

	topics := testTopics()
	topics["go"] = &model.TreeNode{ID: "root", Title: "Go", Children: []*model.TreeNode{
		{ID: "chan", Title: "Channels v2"},
	}}
	m = send(m, loader.DocumentReloadedMsg{Path: "mindmap-data.json", Topics: topics, Hash: "abc"})
	if app.SelectedID() != "chan" {
		t.Errorf("selection should survive reload, got %q", app.SelectedID())
	}
	if !strings.Contains(m.StatusMessage(), "Reloaded") {
		t.Errorf("expected reload status, got %q", m.StatusMessage())
	}
	if m.dataHash != "abc" {
		t.Errorf("expected data hash to update, got %q", m.dataHash)
	}
}

func TestModel_ReloadErrorKeepsData(t *testing.T) {
	m := settle(t, newTestModel(t, 120))
	m = send(m, loader.DocumentErrorMsg{Err: &loader.ReloadError{Phase: "parse", Cause: errors.New("bad json")}})
	if m.App().Status() != mindmap.StatusReady {
		t.Fatal("a reload error must not drop loaded data")
	}
	if !strings.Contains(m.StatusMessage(), "bad json") {
		t.Errorf("expected error in status, got %q", m.StatusMessage())
	}
}

func TestModel_LoadingAndFailure(t *testing.T) {
	app := mindmap.New(mindmap.WithLogger(discardLogger()))
	opts := testOptions(t)
	opts.DataPath = "/nonexistent/mindmap-data.json"
	m := NewModel(app, opts)
	m = send(m, tea.WindowSizeMsg{Width: 100, Height: 30})

	if !strings.Contains(m.View(), "Loading") {
		t.Error("expected loading view before the document arrives")
	}
	cmd := m.Init()
	if cmd == nil {
		t.Fatal("Init should load the document")
	}
	m = send(m, cmd())
	if app.Status() != mindmap.StatusFailed {
		t.Fatalf("expected failed status, got %v", app.Status())
	}
	if !strings.Contains(m.View(), "Could not load") {
		t.Error("expected failure view")
	}
}

func TestModel_StatusClearIgnoresOldFlash(t *testing.T) {
	m := newTestModel(t, 120)
	m.setStatus("first", false)
	m.setStatus("second", false)
	m = send(m, statusClearMsg{seq: 1})
	if m.StatusMessage() != "second" {
		t.Errorf("old clear should not wipe newer flash, got %q", m.StatusMessage())
	}
	m = send(m, statusClearMsg{seq: 2})
	if m.StatusMessage() != "" {
		t.Errorf("expected cleared status, got %q", m.StatusMessage())
	}
}

func TestModel_MouseClickSelects(t *testing.T) {
	m := settle(t, newTestModel(t, 120))
	m.View()

	var target hitBox
	for _, b := range *m.canvas.boxes {
		if b.id == "gc" {
			target = b
		}
	}
	if target.id == "" {
		t.Fatal("gc was not drawn")
	}
	m = send(m, tea.MouseMsg{
		X:      m.canvasX + target.centerX,
		Y:      m.canvasY + target.centerY,
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
	})
	if m.App().SelectedID() != "gc" {
		t.Errorf("click should select gc, got %q", m.App().SelectedID())
	}
}

func TestModel_ZoomKeys(t *testing.T) {
	m := settle(t, newTestModel(t, 120))
	k := m.canvas.Transform().K
	m = send(m, keyMsg("+"))
	if got := m.canvas.Transform().K; got <= k {
		t.Errorf("zoom in should grow scale: %v -> %v", k, got)
	}
	m = send(m, keyMsg("-"))
	m = send(m, keyMsg("-"))
	if got := m.canvas.Transform().K; got >= k {
		t.Errorf("zoom out should shrink scale: %v -> %v", k, got)
	}
}

func TestModel_ViewRendersAtDifferentSizes(t *testing.T) {
	for _, width := range []int{60, 110, 160} {
		m := settle(t, newTestModel(t, width))
		out := m.View()
		if !strings.Contains(out, "topics(go)") {
			t.Errorf("width %d: missing topic title bar", width)
		}
		if !strings.Contains(out, "go") {
			t.Errorf("width %d: missing topic in footer", width)
		}
		if width >= WideViewThreshold && !strings.Contains(out, "Channels") {
			t.Errorf("width %d: wide view should show the outline", width)
		}
	}
}
