// Package mindmap is the application state behind every front end: the topic
// registry, the current topic's view state, and the actions that edit them.
// Each action reports which derived data it invalidated.
package mindmap

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/Dicklesworthstone/mindmap_viewer/pkg/model"
	"github.com/Dicklesworthstone/mindmap_viewer/pkg/tree"
	"github.com/Dicklesworthstone/mindmap_viewer/pkg/view"
)

var (
	// ErrNoTopics is returned when a registry holds no topics.
	ErrNoTopics = errors.New("no topics loaded")
	// ErrUnknownTopic is returned when a topic key is not in the registry.
	ErrUnknownTopic = errors.New("unknown topic")
)

// Change is a bitmask describing what an action invalidated.
type Change uint8

// ChangeNone means nothing observable changed.
const ChangeNone Change = 0

const (
	// ChangeSelection restyles the selected node and ancestor path only.
	ChangeSelection Change = 1 << iota
	// ChangeHover restyles the hovered node only.
	ChangeHover
	// ChangeVisibility alters the visible node set and needs a new layout.
	ChangeVisibility
	// ChangeStructure edits the tree itself.
	ChangeStructure
	// ChangeTopic replaces the whole tree and view state.
	ChangeTopic
)

// Has reports whether any bit of flag is set.
func (c Change) Has(flag Change) bool { return c&flag != 0 }

// NeedsLayout reports whether the visible graph may have changed shape.
func (c Change) NeedsLayout() bool {
	return c.Has(ChangeVisibility | ChangeStructure | ChangeTopic)
}

func (c Change) String() string {
	if c == ChangeNone {
		return "none"
	}
	var parts []string
	for _, f := range []struct {
		flag Change
		name string
	}{
		{ChangeSelection, "selection"},
		{ChangeHover, "hover"},
		{ChangeVisibility, "visibility"},
		{ChangeStructure, "structure"},
		{ChangeTopic, "topic"},
	} {
		if c.Has(f.flag) {
			parts = append(parts, f.name)
		}
	}
	return strings.Join(parts, "|")
}

// Status is the document load state.
type Status int

const (
	StatusLoading Status = iota
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// App owns the topic registry and the view state of the current topic. It is
// not safe for concurrent use; front ends call it from a single goroutine.
type App struct {
	topics  model.Topics
	current string
	flat    []model.FlatNode
	state   *view.State
	status  Status
	loadErr error
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger used for warnings.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithClock overrides the clock used to generate node ids.
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

// New returns an App in the loading state with no topics.
func New(opts ...Option) *App {
	a := &App{
		topics: model.Topics{},
		state:  view.NewState(""),
		status: StatusLoading,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Load installs a registry and opens defaultTopic, or the first topic in key
// order when defaultTopic is empty or unknown.
func (a *App) Load(topics model.Topics, defaultTopic string) error {
	if len(topics) == 0 {
		a.Fail(ErrNoTopics)
		return ErrNoTopics
	}
	a.topics = topics.Clone()
	a.status = StatusReady
	a.loadErr = nil

	key := defaultTopic
	if _, ok := a.topics[key]; !ok {
		if key != "" {
			a.logger.Warn("mindmap: default topic not found, using first topic", "topic", key)
		}
		key = a.topics.Keys()[0]
	}
	a.openTopic(key)
	return nil
}

// Fail records a load failure. Reads return empty results afterwards.
func (a *App) Fail(err error) {
	a.topics = model.Topics{}
	a.current = ""
	a.flat = nil
	a.state = view.NewState("")
	a.status = StatusFailed
	a.loadErr = err
}

// Status returns the load state.
func (a *App) Status() Status { return a.status }

// Err returns the load error when Status is StatusFailed.
func (a *App) Err() error { return a.loadErr }

func (a *App) openTopic(key string) {
	a.current = key
	a.flat = tree.Flatten(a.topics[key])
	a.state.Reset(a.rootID())
}

func (a *App) rootID() string {
	if root := a.topics[a.current]; root != nil {
		return root.ID
	}
	return ""
}

func (a *App) setTree(root *model.TreeNode) {
	a.topics = a.topics.Clone()
	a.topics[a.current] = root
	a.flat = tree.Flatten(root)
}

// ReplaceTopics swaps in a reloaded registry. The current topic stays open
// when it still exists; its view state survives when the root id is
// unchanged, minus ids that disappeared.
func (a *App) ReplaceTopics(topics model.Topics) Change {
	if len(topics) == 0 {
		a.logger.Warn("mindmap: ignoring reload with no topics")
		return ChangeNone
	}
	oldRoot := a.rootID()
	a.topics = topics.Clone()
	a.status = StatusReady
	a.loadErr = nil

	if _, ok := a.topics[a.current]; !ok {
		a.openTopic(a.topics.Keys()[0])
		return ChangeTopic
	}
	a.flat = tree.Flatten(a.topics[a.current])
	if a.rootID() != oldRoot {
		a.state.Reset(a.rootID())
		return ChangeTopic
	}
	a.state.Prune(a.flat)
	if a.state.SelectedID == "" {
		a.state.SelectedID = a.rootID()
	}
	return ChangeStructure
}

// SwitchTopic opens key and resets the view state. Unknown keys are ignored.
func (a *App) SwitchTopic(key string) Change {
	if _, ok := a.topics[key]; !ok {
		a.logger.Warn("mindmap: switch to unknown topic ignored", "topic", key)
		return ChangeNone
	}
	a.openTopic(key)
	return ChangeTopic
}

// SelectNode selects id, or clears the selection when id is empty.
func (a *App) SelectNode(id string) Change {
	if id == a.state.SelectedID {
		return ChangeNone
	}
	if id != "" {
		if _, ok := tree.Lookup(id, a.flat); !ok {
			return ChangeNone
		}
	}
	a.state.SelectedID = id
	return ChangeSelection
}

// HoverNode sets the transient hover target, or clears it when id is empty.
func (a *App) HoverNode(id string) Change {
	if id == a.state.HoveredID {
		return ChangeNone
	}
	a.state.HoveredID = id
	return ChangeHover
}

// ToggleExpand expands or collapses id.
func (a *App) ToggleExpand(id string) Change {
	if _, ok := tree.Lookup(id, a.flat); !ok {
		return ChangeNone
	}
	a.state.ToggleExpand(id, a.flat)
	return ChangeVisibility
}

// ExpandAll expands every node of the current topic.
func (a *App) ExpandAll() Change {
	if len(a.flat) == 0 {
		return ChangeNone
	}
	a.state.ExpandAll(a.flat)
	return ChangeVisibility
}

// CollapseAll resets expansion to the topic root alone, regardless of the
// drill path.
func (a *App) CollapseAll() Change {
	if len(a.flat) == 0 {
		return ChangeNone
	}
	a.state.CollapseAll(a.rootID())
	return ChangeVisibility
}

// DrillDown makes the selected node the virtual root if it has children.
func (a *App) DrillDown() Change {
	if a.state.DrillDown(a.flat) {
		return ChangeVisibility
	}
	return ChangeNone
}

// DrillUp returns to the previous virtual root.
func (a *App) DrillUp() Change {
	if a.state.DrillUp() {
		return ChangeVisibility
	}
	return ChangeNone
}

// UpdateNode patches a node of the current topic. Unknown ids are ignored.
func (a *App) UpdateNode(id string, patch model.NodePatch) Change {
	root := a.topics[a.current]
	if root == nil || patch.IsEmpty() {
		return ChangeNone
	}
	updated := tree.Update(root, id, patch)
	if updated == root {
		return ChangeNone
	}
	a.setTree(updated)
	return ChangeStructure
}

// AddNode appends node under parentID, expands the parent and selects the new
// node. An empty id is generated from the clock. Ids already present in the
// topic are rejected.
func (a *App) AddNode(parentID string, node model.TreeNode) (string, Change) {
	root := a.topics[a.current]
	if root == nil {
		return "", ChangeNone
	}
	if node.ID == "" {
		node.ID = a.newID(root)
	}
	if tree.Contains(root, node.ID) {
		a.logger.Warn("mindmap: add rejected", "id", node.ID, "error", model.ErrDuplicateID)
		return "", ChangeNone
	}
	n := node
	updated := tree.Insert(root, parentID, &n)
	if updated == root {
		return "", ChangeNone
	}
	a.setTree(updated)
	a.state.Expanded[parentID] = struct{}{}
	a.state.SelectedID = n.ID
	return n.ID, ChangeStructure | ChangeVisibility | ChangeSelection
}

func (a *App) newID(root *model.TreeNode) string {
	ms := a.now().UnixMilli()
	id := fmt.Sprintf("node-%d", ms)
	for tree.Contains(root, id) {
		ms++
		id = fmt.Sprintf("node-%d", ms)
	}
	return id
}

// DeleteNode removes id and its subtree and selects its parent. The root
// cannot be deleted.
func (a *App) DeleteNode(id string) Change {
	n, ok := tree.Lookup(id, a.flat)
	if !ok {
		return ChangeNone
	}
	if n.IsRoot() {
		a.logger.Warn("mindmap: refusing to delete topic root", "id", id)
		return ChangeNone
	}
	updated := tree.Remove(a.topics[a.current], id)
	a.setTree(updated)
	a.state.Prune(a.flat)
	a.state.SelectedID = n.ParentID
	return ChangeStructure | ChangeVisibility | ChangeSelection
}

// ExportData serializes the whole registry as indented JSON.
func (a *App) ExportData() ([]byte, error) {
	data, err := json.MarshalIndent(a.topics, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal topics: %w", err)
	}
	return data, nil
}

// Topics returns the registry. Trees are persistent and must not be mutated.
func (a *App) Topics() model.Topics { return a.topics }

// TopicKeys returns the topic keys in sorted order.
func (a *App) TopicKeys() []string { return a.topics.Keys() }

// CurrentTopic returns the open topic key.
func (a *App) CurrentTopic() string { return a.current }

// CurrentTree returns the root of the open topic.
func (a *App) CurrentTree() *model.TreeNode { return a.topics[a.current] }

// FlatNodes returns the pre-order listing of the open topic.
func (a *App) FlatNodes() []model.FlatNode { return a.flat }

// State returns a read-only view of the view state. Callers must not mutate
// it.
func (a *App) State() *view.State { return a.state }

// SelectedID returns the selected node id, possibly empty.
func (a *App) SelectedID() string { return a.state.SelectedID }

// HoveredID returns the hovered node id, possibly empty.
func (a *App) HoveredID() string { return a.state.HoveredID }

// SelectedNode returns the selected node.
func (a *App) SelectedNode() (model.FlatNode, bool) {
	if a.state.SelectedID == "" {
		return model.FlatNode{}, false
	}
	return tree.Lookup(a.state.SelectedID, a.flat)
}

// VirtualRootID returns the node at the top of the displayed subtree.
func (a *App) VirtualRootID() string {
	return a.state.VirtualRoot(a.rootID())
}

// DrillPath returns a copy of the drill path.
func (a *App) DrillPath() []string {
	return append([]string(nil), a.state.DrillPath...)
}

// IsExpanded reports whether id is expanded.
func (a *App) IsExpanded(id string) bool { return a.state.IsExpanded(id) }

// VisibleNodes returns the nodes displayed under the current drill path and
// expansion.
func (a *App) VisibleNodes() []model.FlatNode {
	return view.VisibleNodes(a.flat, a.VirtualRootID(), a.state.Expanded)
}

// VisibleEdges returns edges between visible nodes.
func (a *App) VisibleEdges() []model.Edge {
	return view.VisibleEdges(a.VisibleNodes())
}

// Breadcrumbs returns the ancestors of the selected node, root first.
func (a *App) Breadcrumbs() []model.FlatNode {
	if a.state.SelectedID == "" {
		return []model.FlatNode{}
	}
	return view.Breadcrumbs(a.state.SelectedID, a.flat)
}

// Children returns the direct children of id.
func (a *App) Children(id string) []model.FlatNode {
	var out []model.FlatNode
	for _, n := range a.flat {
		if n.ParentID == id && id != "" {
			out = append(out, n)
		}
	}
	return out
}

// PathIDs returns the selected node and its ancestors, the set highlighted
// when rendering.
func (a *App) PathIDs() map[string]struct{} {
	out := make(map[string]struct{})
	if a.state.SelectedID == "" {
		return out
	}
	out[a.state.SelectedID] = struct{}{}
	for _, id := range tree.AncestorIDs(a.state.SelectedID, a.flat) {
		out[id] = struct{}{}
	}
	return out
}
