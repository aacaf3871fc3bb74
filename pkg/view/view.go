// Package view derives what is visible from a topic tree given a drill path
// and a set of expanded nodes, and owns the per-topic view state.
package view

import (
	"slices"

	"github.com/Dicklesworthstone/mindmap_viewer/pkg/model"
	"github.com/Dicklesworthstone/mindmap_viewer/pkg/tree"
)

// State is the ephemeral per-topic view state.
type State struct {
	SelectedID string
	HoveredID  string
	Expanded   map[string]struct{}
	DrillPath  []string
}

// NewState returns the state for a freshly opened topic.
func NewState(rootID string) *State {
	s := &State{}
	s.Reset(rootID)
	return s
}

// Reset clears the drill path and hover, selects the root and expands only
// the root.
func (s *State) Reset(rootID string) {
	s.DrillPath = nil
	s.HoveredID = ""
	s.SelectedID = rootID
	s.Expanded = make(map[string]struct{})
	if rootID != "" {
		s.Expanded[rootID] = struct{}{}
	}
}

// IsExpanded reports whether id is in the expanded set.
func (s *State) IsExpanded(id string) bool {
	_, ok := s.Expanded[id]
	return ok
}

// ExpandedIDs returns the expanded set as a sorted slice.
func (s *State) ExpandedIDs() []string {
	ids := make([]string, 0, len(s.Expanded))
	for id := range s.Expanded {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// ToggleExpand collapses an expanded node or expands a collapsed one.
// Collapsing also drops every descendant from the expanded set, so
// re-expanding the node shows only its direct children again.
func (s *State) ToggleExpand(id string, flat []model.FlatNode) {
	if s.Expanded == nil {
		s.Expanded = make(map[string]struct{})
	}
	if s.IsExpanded(id) {
		delete(s.Expanded, id)
		for desc := range tree.DescendantIDs(id, flat) {
			delete(s.Expanded, desc)
		}
		return
	}
	s.Expanded[id] = struct{}{}
}

// ExpandAll marks every node of the topic as expanded.
func (s *State) ExpandAll(flat []model.FlatNode) {
	s.Expanded = make(map[string]struct{}, len(flat))
	for _, n := range flat {
		s.Expanded[n.ID] = struct{}{}
	}
}

// CollapseAll resets expansion to the topic root alone, even while drilled
// into a deeper virtual root. In that case the virtual root renders with no
// visible children until it is expanded again.
func (s *State) CollapseAll(rootID string) {
	s.Expanded = map[string]struct{}{rootID: {}}
}

// DrillDown pushes the selected node onto the drill path when it has
// children. It reports whether the path changed.
func (s *State) DrillDown(flat []model.FlatNode) bool {
	if s.SelectedID == "" {
		return false
	}
	n, ok := tree.Lookup(s.SelectedID, flat)
	if !ok || !n.HasChildren {
		return false
	}
	s.DrillPath = append(slices.Clone(s.DrillPath), n.ID)
	return true
}

// DrillUp pops the last drill path entry. It reports whether the path
// changed.
func (s *State) DrillUp() bool {
	if len(s.DrillPath) == 0 {
		return false
	}
	s.DrillPath = slices.Clone(s.DrillPath[:len(s.DrillPath)-1])
	return true
}

// VirtualRoot returns the node currently displayed as the top of the graph.
func (s *State) VirtualRoot(rootID string) string {
	return VirtualRoot(rootID, s.DrillPath)
}

// VirtualRoot returns the last drill path entry, or rootID when the path is
// empty.
func VirtualRoot(rootID string, drillPath []string) string {
	if len(drillPath) == 0 {
		return rootID
	}
	return drillPath[len(drillPath)-1]
}

// VisibleNodes returns the virtual root plus every node reachable from it
// through a chain of expanded nodes. Output keeps flatten order.
func VisibleNodes(flat []model.FlatNode, virtualRoot string, expanded map[string]struct{}) []model.FlatNode {
	idx := tree.Index(flat)
	if _, ok := idx[virtualRoot]; !ok {
		return []model.FlatNode{}
	}
	visible := map[string]struct{}{virtualRoot: {}}
	queue := []string{virtualRoot}
	children := make(map[string][]string)
	for _, n := range flat {
		if n.ParentID != "" {
			children[n.ParentID] = append(children[n.ParentID], n.ID)
		}
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if _, ok := expanded[id]; !ok {
			continue
		}
		for _, child := range children[id] {
			if _, seen := visible[child]; seen {
				continue
			}
			visible[child] = struct{}{}
			queue = append(queue, child)
		}
	}

	out := make([]model.FlatNode, 0, len(visible))
	for i, n := range flat {
		if _, ok := visible[n.ID]; ok && idx[n.ID] == i {
			out = append(out, n)
		}
	}
	return out
}

// VisibleEdges returns one parent to child edge for every visible node whose
// parent is also visible. Edges up to nodes above the virtual root are
// suppressed.
func VisibleEdges(visible []model.FlatNode) []model.Edge {
	ids := make(map[string]struct{}, len(visible))
	for _, n := range visible {
		ids[n.ID] = struct{}{}
	}
	edges := make([]model.Edge, 0, len(visible))
	for _, n := range visible {
		if n.ParentID == "" {
			continue
		}
		if _, ok := ids[n.ParentID]; !ok {
			continue
		}
		edges = append(edges, model.Edge{SourceID: n.ParentID, TargetID: n.ID})
	}
	return edges
}

// Breadcrumbs returns the ancestors of id ordered from the topic root down to
// the immediate parent.
func Breadcrumbs(id string, flat []model.FlatNode) []model.FlatNode {
	ancestors := tree.AncestorIDs(id, flat)
	idx := tree.Index(flat)
	crumbs := make([]model.FlatNode, 0, len(ancestors))
	for i := len(ancestors) - 1; i >= 0; i-- {
		if pos, ok := idx[ancestors[i]]; ok {
			crumbs = append(crumbs, flat[pos])
		}
	}
	return crumbs
}

// RelativeDepth returns the node's depth below the virtual root.
func RelativeDepth(n model.FlatNode, virtualRootDepth int) int {
	d := n.Depth - virtualRootDepth
	if d < 0 {
		return 0
	}
	return d
}

// Prune drops ids that no longer exist in flat from the expanded set, hover
// and selection, and truncates the drill path at the first missing entry.
func (s *State) Prune(flat []model.FlatNode) {
	idx := tree.Index(flat)
	for id := range s.Expanded {
		if _, ok := idx[id]; !ok {
			delete(s.Expanded, id)
		}
	}
	for i, id := range s.DrillPath {
		if _, ok := idx[id]; !ok {
			s.DrillPath = slices.Clone(s.DrillPath[:i])
			break
		}
	}
	if _, ok := idx[s.HoveredID]; !ok {
		s.HoveredID = ""
	}
	if _, ok := idx[s.SelectedID]; !ok {
		s.SelectedID = ""
	}
}
