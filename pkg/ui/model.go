package ui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/mindmap_viewer/pkg/config"
	"github.com/Dicklesworthstone/mindmap_viewer/pkg/export"
	"github.com/Dicklesworthstone/mindmap_viewer/pkg/layout"
	"github.com/Dicklesworthstone/mindmap_viewer/pkg/loader"
	"github.com/Dicklesworthstone/mindmap_viewer/pkg/mindmap"
	"github.com/Dicklesworthstone/mindmap_viewer/pkg/model"
	"github.com/Dicklesworthstone/mindmap_viewer/pkg/tree"
)

const (
	SplitViewThreshold = 100
	WideViewThreshold  = 140

	outlinePaneWidth   = 34
	inspectorPaneWidth = 42
	statusFlashTTL     = 4 * time.Second
	frameInterval      = time.Second / 30
)

type focus int

const (
	focusCanvas focus = iota
	focusOutline
	focusInspector
)

func (f focus) String() string {
	switch f {
	case focusCanvas:
		return "canvas"
	case focusOutline:
		return "outline"
	case focusInspector:
		return "inspector"
	default:
		return "unknown"
	}
}

// layoutTickMsg advances the simulation of one generation.
type layoutTickMsg struct {
	Gen layout.Generation
}

// frameTickMsg advances viewport transitions.
type frameTickMsg struct{}

// statusClearMsg clears the status flash it was scheduled for.
type statusClearMsg struct {
	seq int
}

// documentLoadedMsg carries the initial document read.
type documentLoadedMsg struct {
	result loader.Result
}

// Options configures NewModel.
type Options struct {
	Config config.Config
	// DataPath is read by Init when the app has not been loaded yet.
	DataPath string
	DataHash string
	// ExportDir overrides Config.Export.Dir.
	ExportDir string
	Logger    *slog.Logger
	Renderer  *lipgloss.Renderer
	Clock     func() time.Time
}

// Model is the Bubble Tea model of the viewer. All app mutations happen in
// Update, so the App needs no locking.
type Model struct {
	app    *mindmap.App
	cfg    config.Config
	logger *slog.Logger
	now    func() time.Time

	runner  *layout.Runner
	gen     layout.Generation
	running bool

	theme     Theme
	keys      KeyMap
	help      help.Model
	topics    TopicBarModel
	outline   OutlineModel
	inspector InspectorModel
	canvas    CanvasModel
	writer    *ExportWriter
	form      *NodeForm

	focused     focus
	showHelp    bool
	isSplitView bool
	isWideView  bool
	ready       bool
	width       int
	height      int

	// Screen origin of the canvas content, for mouse hit testing.
	canvasX int
	canvasY int

	statusMsg   string
	statusIsErr bool
	statusSeq   int

	dataPath string
	dataHash string
}

// NewModel creates the viewer over app. When app is already loaded the
// first layout run starts immediately.
func NewModel(app *mindmap.App, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	r := opts.Renderer
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	cfg := opts.Config
	if cfg.Canvas.StepsPerTick <= 0 {
		cfg = config.Default()
	}
	exportDir := opts.ExportDir
	if exportDir == "" {
		exportDir = cfg.Export.Dir
	}

	theme := DefaultTheme(r)
	m := Model{
		app:       app,
		cfg:       cfg,
		logger:    logger,
		now:       now,
		runner:    layout.NewRunner(layout.NewPositionCache(), cfg.Layout),
		theme:     theme,
		keys:      DefaultKeyMap,
		help:      help.New(),
		topics:    NewTopicBar(theme),
		outline:   NewOutlineModel(theme),
		inspector: NewInspectorModel(theme),
		canvas:    NewCanvasModel(theme, cfg.Viewport),
		writer:    NewExportWriter(exportDir, cfg.Export.Formats),
		focused:   focusCanvas,
		dataPath:  opts.DataPath,
		dataHash:  opts.DataHash,
	}
	if app.Status() == mindmap.StatusReady {
		m.refreshPanels()
		m.startLayout()
	}
	return m
}

func (m Model) Init() tea.Cmd {
	if m.app.Status() == mindmap.StatusLoading && m.dataPath != "" {
		return loadDocumentCmd(m.dataPath)
	}
	if m.running {
		return m.layoutTick(m.gen)
	}
	return nil
}

func loadDocumentCmd(path string) tea.Cmd {
	return func() tea.Msg {
		return documentLoadedMsg{result: loader.Load(path)}
	}
}

func (m Model) layoutTick(gen layout.Generation) tea.Cmd {
	return tea.Tick(m.cfg.Canvas.TickInterval, func(time.Time) tea.Msg {
		return layoutTickMsg{Gen: gen}
	})
}

func frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return frameTickMsg{} })
}

// startLayout replaces the running simulation with one over the current
// visible graph. Positions persist in the runner's cache across runs.
func (m *Model) startLayout() {
	in := layout.Input{
		Nodes:         m.app.VisibleNodes(),
		Edges:         m.app.VisibleEdges(),
		VirtualRootID: m.app.VirtualRootID(),
		Width:         m.cfg.Canvas.Width,
		Height:        m.cfg.Canvas.Height,
	}
	m.gen = m.runner.Start(in)
	m.running = true
	m.logger.Debug("layout: started", "generation", m.gen, "nodes", len(in.Nodes))
}

func (m *Model) refreshPanels() {
	m.topics.SetEntries(TopicEntries(m.app.Topics(), m.app.CurrentTopic()))
	m.inspector.Refresh(m.app)
}

// apply reacts to what an app action invalidated.
func (m *Model) apply(change mindmap.Change) tea.Cmd {
	if change == mindmap.ChangeNone {
		return nil
	}
	if change.Has(mindmap.ChangeTopic) {
		m.canvas.ResetView()
	}
	if change.Has(mindmap.ChangeSelection | mindmap.ChangeStructure | mindmap.ChangeTopic | mindmap.ChangeVisibility) {
		m.refreshPanels()
	}
	if !change.NeedsLayout() {
		return nil
	}
	// Ticks still queued for the old generation are dropped on arrival.
	m.startLayout()
	return m.layoutTick(m.gen)
}

func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.statusSeq++
	m.statusMsg = text
	m.statusIsErr = isErr
	seq := m.statusSeq
	return tea.Tick(statusFlashTTL, func(time.Time) tea.Msg { return statusClearMsg{seq: seq} })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case documentLoadedMsg:
		return m.handleLoaded(msg.result)

	case loader.DocumentReloadedMsg:
		return m.handleReloaded(msg)

	case loader.DocumentErrorMsg:
		m.logger.Warn("reload failed", "error", msg.Err)
		return m, m.setStatus(fmt.Sprintf("Reload failed: %v", msg.Err), true)

	case layoutTickMsg:
		return m.handleLayoutTick(msg)

	case frameTickMsg:
		if m.canvas.Advance(m.now()) {
			return m, frameTick()
		}
		return m, nil

	case statusClearMsg:
		if msg.seq == m.statusSeq {
			m.statusMsg = ""
			m.statusIsErr = false
		}
		return m, nil

	case SwitchTopicMsg:
		cmd := m.apply(m.app.SwitchTopic(msg.Key))
		return m, cmd

	case ExportResultMsg:
		if !msg.Success {
			m.logger.Error("export failed", "operation", msg.Operation.String(), "error", msg.Error)
		} else {
			m.logger.Info("export done", "operation", msg.Operation.String(), "paths", msg.Paths)
		}
		return m, m.setStatus(msg.Summary(), !msg.Success)

	case tea.MouseMsg:
		if m.form != nil || m.showHelp || m.app.Status() != mindmap.StatusReady {
			return m, nil
		}
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.form != nil {
		return m.updateForm(msg)
	}
	return m, nil
}

func (m Model) handleLoaded(res loader.Result) (tea.Model, tea.Cmd) {
	if !res.OK() {
		m.logger.Error("load failed", "path", res.Path, "error", res.Err)
		m.app.Fail(res.Err)
		return m, nil
	}
	if err := m.app.Load(res.Topics, m.cfg.DefaultTopic); err != nil {
		m.logger.Error("load failed", "path", res.Path, "error", err)
		return m, nil
	}
	m.dataHash = res.Hash
	m.logger.Info("document loaded", "path", res.Path, "topics", len(res.Topics))
	m.refreshPanels()
	m.startLayout()
	return m, m.layoutTick(m.gen)
}

func (m Model) handleReloaded(msg loader.DocumentReloadedMsg) (tea.Model, tea.Cmd) {
	if m.app.Status() != mindmap.StatusReady {
		return m.handleLoaded(loader.Result{Path: msg.Path, Topics: msg.Topics, Hash: msg.Hash})
	}
	m.dataHash = msg.Hash
	change := m.app.ReplaceTopics(msg.Topics)
	m.logger.Info("document reloaded", "path", msg.Path, "change", change.String())
	return m, tea.Batch(m.apply(change), m.setStatus("Reloaded "+msg.Path, false))
}

func (m Model) handleLayoutTick(msg layoutTickMsg) (tea.Model, tea.Cmd) {
	if msg.Gen != m.gen {
		return m, nil
	}
	res := m.runner.Step(msg.Gen, m.cfg.Canvas.StepsPerTick)
	if res.Stale {
		return m, nil
	}
	m.canvas.SetNodes(res.Nodes)
	if !res.Done {
		return m, m.layoutTick(msg.Gen)
	}
	m.running = false
	m.logger.Debug("layout: settled", "generation", res.Generation)
	m.canvas.FitAnimated(m.now())
	if m.canvas.Animating() {
		return m, frameTick()
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	col := msg.X - m.canvasX
	row := msg.Y - m.canvasY
	if col < 0 || row < 0 || col >= m.canvas.width || row >= m.canvas.height {
		return m, nil
	}
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.canvas.ZoomAt(col, row, zoomStep)
	case msg.Button == tea.MouseButtonWheelDown:
		m.canvas.ZoomAt(col, row, 1/zoomStep)
	case msg.Action == tea.MouseActionMotion:
		return m, m.apply(m.app.HoverNode(m.canvas.HitTest(col, row)))
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		id := m.canvas.HitTest(col, row)
		if id == "" {
			return m, nil
		}
		m.focused = focusCanvas
		change := m.app.SelectNode(id)
		if change == mindmap.ChangeNone {
			// Clicking the selected node toggles it.
			change = m.app.ToggleExpand(id)
		}
		return m, m.apply(change)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.form != nil {
		return m.updateForm(msg)
	}
	if m.topics.Filtering() {
		var cmd tea.Cmd
		m.topics, cmd = m.topics.Update(msg)
		m.resize()
		return m, cmd
	}
	if m.showHelp {
		if msg.String() == "esc" || key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Quit) {
			m.showHelp = false
		}
		return m, nil
	}
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if key.Matches(msg, m.keys.Help) {
		m.showHelp = true
		return m, nil
	}
	if m.app.Status() != mindmap.StatusReady {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.FocusToggle):
		m.cycleFocus()
		return m, nil
	case key.Matches(msg, m.keys.TopicFilter):
		var cmd tea.Cmd
		m.topics, cmd = m.topics.Update(msg)
		m.resize()
		return m, cmd
	case isDigit(msg.String()) && msg.String() != "0":
		var cmd tea.Cmd
		m.topics, cmd = m.topics.Update(msg)
		return m, cmd
	case key.Matches(msg, m.keys.NextTopic):
		return m, m.apply(m.stepTopic(1))
	case key.Matches(msg, m.keys.PrevTopic):
		return m, m.apply(m.stepTopic(-1))
	}

	if m.focused == focusInspector {
		switch {
		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			var cmd tea.Cmd
			m.inspector, cmd = m.inspector.Update(msg)
			return m, cmd
		}
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		return m, m.apply(moveSelection(m.app, -1))
	case key.Matches(msg, m.keys.Down):
		return m, m.apply(moveSelection(m.app, 1))
	case msg.String() == "g" || msg.String() == "home":
		return m, m.apply(jumpToEnd(m.app, false))
	case msg.String() == "G" || msg.String() == "end":
		return m, m.apply(jumpToEnd(m.app, true))
	case key.Matches(msg, m.keys.Left):
		return m, m.apply(collapseOrJumpToParent(m.app))
	case key.Matches(msg, m.keys.Right):
		return m, m.apply(expandOrMoveToChild(m.app))
	case key.Matches(msg, m.keys.Toggle):
		return m, m.apply(m.app.ToggleExpand(m.app.SelectedID()))
	case key.Matches(msg, m.keys.ExpandAll):
		return m, m.apply(m.app.ExpandAll())
	case key.Matches(msg, m.keys.CollapseAll):
		return m, m.apply(m.app.CollapseAll())
	case key.Matches(msg, m.keys.DrillDown):
		change := m.app.DrillDown()
		if change == mindmap.ChangeNone {
			return m, m.setStatus("Select a node with children to drill in", false)
		}
		return m, m.apply(change)
	case key.Matches(msg, m.keys.DrillUp):
		return m, m.apply(m.app.DrillUp())

	case key.Matches(msg, m.keys.Add):
		return m.openForm(FormAdd)
	case key.Matches(msg, m.keys.Edit):
		return m.openForm(FormEdit)
	case key.Matches(msg, m.keys.Delete):
		return m.openForm(FormDelete)

	case key.Matches(msg, m.keys.ZoomIn):
		m.canvas.ZoomBy(zoomStep)
	case key.Matches(msg, m.keys.ZoomOut):
		m.canvas.ZoomBy(1 / zoomStep)
	case key.Matches(msg, m.keys.Fit):
		m.canvas.FitAnimated(m.now())
		return m, frameTick()
	case key.Matches(msg, m.keys.PanLeft):
		m.canvas.PanBy(panStepPx, 0)
	case key.Matches(msg, m.keys.PanRight):
		m.canvas.PanBy(-panStepPx, 0)
	case key.Matches(msg, m.keys.PanUp):
		m.canvas.PanBy(0, panStepPx)
	case key.Matches(msg, m.keys.PanDown):
		m.canvas.PanBy(0, -panStepPx)
	case key.Matches(msg, m.keys.Relayout):
		m.runner.Cache().Clear()
		m.startLayout()
		return m, tea.Batch(m.layoutTick(m.gen), m.setStatus("Layout restarted", false))

	case key.Matches(msg, m.keys.CopyID):
		if id := m.app.SelectedID(); id != "" {
			return m, m.writer.CopyID(id)
		}
	case key.Matches(msg, m.keys.CopyJSON):
		return m, m.writer.CopyJSON(m.app.Topics())
	case key.Matches(msg, m.keys.ExportJSON):
		return m, m.writer.WriteJSON(m.app.Topics(), m.app.CurrentTopic())
	case key.Matches(msg, m.keys.ExportAll):
		return m, m.exportBundle()
	}
	return m, nil
}

func isDigit(s string) bool {
	return len(s) == 1 && s[0] >= '0' && s[0] <= '9'
}

func (m *Model) cycleFocus() {
	switch m.focused {
	case focusCanvas:
		m.focused = focusOutline
	case focusOutline:
		m.focused = focusInspector
	default:
		m.focused = focusCanvas
	}
	m.resize()
}

// stepTopic switches to the topic delta positions away in key order,
// wrapping around.
func (m *Model) stepTopic(delta int) mindmap.Change {
	keys := m.app.TopicKeys()
	if len(keys) < 2 {
		return mindmap.ChangeNone
	}
	idx := 0
	for i, k := range keys {
		if k == m.app.CurrentTopic() {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(keys)) % len(keys)
	return m.app.SwitchTopic(keys[idx])
}

func (m Model) openForm(kind FormKind) (tea.Model, tea.Cmd) {
	sel, ok := m.app.SelectedNode()
	if !ok {
		return m, m.setStatus("No node selected", true)
	}
	width := min(m.width-4, 72)
	switch kind {
	case FormAdd:
		m.form = NewAddForm(sel, width)
	case FormEdit:
		m.form = NewEditForm(sel, width)
	case FormDelete:
		if sel.IsRoot() {
			return m, m.setStatus("The topic root cannot be deleted", true)
		}
		n := len(tree.DescendantIDs(sel.ID, m.app.FlatNodes()))
		m.form = NewDeleteForm(sel, n, width)
	}
	return m, m.form.Init()
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd, res, done := m.form.Update(msg)
	if !done {
		return m, cmd
	}
	m.form = nil
	cmd = m.applyFormResult(res)
	return m, cmd
}

// applyFormResult performs the edit a completed form asked for.
func (m *Model) applyFormResult(res NodeFormResult) tea.Cmd {
	if res.Cancelled {
		return m.setStatus(res.Kind.String()+" cancelled", false)
	}
	switch res.Kind {
	case FormAdd:
		id, change := m.app.AddNode(res.TargetID, model.TreeNode{Title: res.Title, Summary: res.Summary})
		if change == mindmap.ChangeNone {
			return m.setStatus("Could not add node", true)
		}
		m.logger.Info("node added", "id", id, "parent", res.TargetID)
		return m.apply(change)
	case FormEdit:
		m.logger.Info("node edited", "id", res.TargetID)
		return m.apply(m.app.UpdateNode(res.TargetID, res.Patch()))
	case FormDelete:
		m.logger.Info("node deleted", "id", res.TargetID)
		return m.apply(m.app.DeleteNode(res.TargetID))
	}
	return nil
}

func (m *Model) exportBundle() tea.Cmd {
	opts := export.SceneOptions{
		Width:  m.cfg.Export.Width,
		Height: m.cfg.Export.Height,
		Params: m.cfg.Layout,
		Fit:    m.cfg.Viewport,
		Cache:  m.runner.Cache(),
	}
	scene := export.BuildScene(m.app, opts)
	return m.writer.WriteBundle(context.Background(), export.BundleOptions{
		Topics:   m.app.Topics(),
		Scene:    scene,
		Title:    m.app.CurrentTopic(),
		DataHash: m.dataHash,
	})
}

// resize recomputes pane sizes from the window size.
func (m *Model) resize() {
	if !m.ready {
		return
	}
	m.isSplitView = m.width >= SplitViewThreshold
	m.isWideView = m.width >= WideViewThreshold
	m.topics.SetWidth(m.width)
	m.help.Width = m.width

	headerHeight := m.topics.Height()
	bodyHeight := max(3, m.height-headerHeight-1)
	inner := bodyHeight - 2

	switch {
	case m.isWideView:
		canvasWidth := m.width - outlinePaneWidth - inspectorPaneWidth
		m.outline.SetSize(outlinePaneWidth-2, inner)
		m.canvas.SetSize(canvasWidth-2, inner)
		m.inspector.SetSize(inspectorPaneWidth-2, inner)
		m.canvasX = outlinePaneWidth + 1
	case m.isSplitView:
		canvasWidth := m.width - inspectorPaneWidth
		m.canvas.SetSize(canvasWidth-2, inner)
		m.outline.SetSize(inspectorPaneWidth-2, inner)
		m.inspector.SetSize(inspectorPaneWidth-2, inner)
		m.canvasX = 1
	default:
		m.canvas.SetSize(m.width-2, inner)
		m.outline.SetSize(m.width-2, inner)
		m.inspector.SetSize(m.width-2, inner)
		m.canvasX = 1
	}
	m.canvasY = headerHeight + 1
	if m.app.Status() == mindmap.StatusReady {
		m.inspector.Refresh(m.app)
	}
}

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	switch m.app.Status() {
	case mindmap.StatusLoading:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.theme.Renderer.NewStyle().Foreground(m.theme.Primary).Render("Loading mindmap..."))
	case mindmap.StatusFailed:
		return m.renderFailure()
	}

	header := m.topics.View()
	bodyHeight := max(3, m.height-lipgloss.Height(header)-1)

	var body string
	switch {
	case m.showHelp:
		body = RenderContextHelp(m.context(), m.theme, m.width, bodyHeight)
	case m.form != nil:
		formBox := m.theme.FocusedPanel.Padding(1, 2).Render(m.form.View())
		body = lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, formBox)
	default:
		body = m.renderPanes(bodyHeight)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.renderFooter())
}

func (m *Model) panel(f focus, width, height int, content string) string {
	style := m.theme.Panel
	if m.focused == f {
		style = m.theme.FocusedPanel
	}
	return style.Width(width - 2).Height(height - 2).MaxHeight(height).Render(content)
}

func (m *Model) renderPanes(height int) string {
	canvasView := m.canvas.View(m.app)
	switch {
	case m.isWideView:
		canvasWidth := m.width - outlinePaneWidth - inspectorPaneWidth
		return lipgloss.JoinHorizontal(lipgloss.Top,
			m.panel(focusOutline, outlinePaneWidth, height, m.outline.View(m.app)),
			m.panel(focusCanvas, canvasWidth, height, canvasView),
			m.panel(focusInspector, inspectorPaneWidth, height, m.inspector.View()),
		)
	case m.isSplitView:
		canvasWidth := m.width - inspectorPaneWidth
		side := m.inspector.View()
		sideFocus := focusInspector
		if m.focused == focusOutline {
			side = m.outline.View(m.app)
			sideFocus = focusOutline
		}
		return lipgloss.JoinHorizontal(lipgloss.Top,
			m.panel(focusCanvas, canvasWidth, height, canvasView),
			m.panel(sideFocus, inspectorPaneWidth, height, side),
		)
	default:
		switch m.focused {
		case focusOutline:
			return m.panel(focusOutline, m.width, height, m.outline.View(m.app))
		case focusInspector:
			return m.panel(focusInspector, m.width, height, m.inspector.View())
		default:
			return m.panel(focusCanvas, m.width, height, canvasView)
		}
	}
}

func (m *Model) renderFooter() string {
	t := m.theme
	r := t.Renderer
	topicStyle := r.NewStyle().Foreground(t.Text).Background(t.Primary).Bold(true).Padding(0, 1)
	statsStyle := t.StatusBar.Padding(0, 1)

	topic := topicStyle.Render(m.app.CurrentTopic())
	visible := len(m.app.VisibleNodes())
	stats := fmt.Sprintf("%d/%d nodes", visible, len(m.app.FlatNodes()))
	if path := m.app.DrillPath(); len(path) > 0 {
		stats += fmt.Sprintf(" · drilled %d", len(path))
	}
	if m.running {
		stats += " · settling"
	}
	stats += fmt.Sprintf(" · %.0f%%", m.canvas.Transform().K*100)
	left := topic + statsStyle.Render(stats)

	var right string
	switch {
	case m.statusMsg != "" && m.statusIsErr:
		right = r.NewStyle().Foreground(t.Error).Bold(true).Padding(0, 1).Render(m.statusMsg)
	case m.statusMsg != "":
		right = r.NewStyle().Foreground(t.Secondary).Padding(0, 1).Render(m.statusMsg)
	default:
		right = m.help.ShortHelpView(m.keys.ShortHelp())
	}

	fill := max(0, m.width-lipgloss.Width(left)-lipgloss.Width(right))
	return left + t.StatusBar.Width(fill).Render("") + right
}

func (m *Model) renderFailure() string {
	t := m.theme
	r := t.Renderer
	var b strings.Builder
	b.WriteString(r.NewStyle().Foreground(t.Error).Bold(true).Render("Could not load mindmap data"))
	b.WriteString("\n\n")
	if err := m.app.Err(); err != nil {
		b.WriteString(r.NewStyle().Foreground(t.Subtext).Render(err.Error()))
		b.WriteString("\n\n")
	}
	b.WriteString(r.NewStyle().Foreground(t.Muted).Italic(true).Render("Fix the file and it reloads automatically with --watch. q to quit."))
	box := t.Panel.BorderForeground(t.Error).Padding(1, 2).Width(min(80, max(30, m.width-4))).Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// context reports which help page applies.
func (m *Model) context() Context {
	switch {
	case m.form != nil:
		return ContextForm
	case m.topics.Filtering():
		return ContextTopicFilter
	case m.focused == focusOutline:
		return ContextOutline
	case m.focused == focusInspector:
		return ContextInspector
	default:
		return ContextCanvas
	}
}

// App returns the application state behind the model.
func (m Model) App() *mindmap.App { return m.app }

// FocusState returns the focused pane name.
func (m Model) FocusState() string { return m.focused.String() }

// IsSplitView reports whether panes are shown side by side.
func (m Model) IsSplitView() bool { return m.isSplitView }

// ShowingHelp reports whether the help overlay is open.
func (m Model) ShowingHelp() bool { return m.showHelp }

// EditingForm reports whether a node form is open.
func (m Model) EditingForm() bool { return m.form != nil }

// LayoutRunning reports whether the simulation is still settling.
func (m Model) LayoutRunning() bool { return m.running }

// LayoutGeneration returns the live layout generation.
func (m Model) LayoutGeneration() layout.Generation { return m.gen }

// CanvasNodes returns the positions currently drawn on the canvas.
func (m Model) CanvasNodes() []model.LayoutNode { return m.canvas.Nodes() }

// StatusMessage returns the current status flash.
func (m Model) StatusMessage() string { return m.statusMsg }
