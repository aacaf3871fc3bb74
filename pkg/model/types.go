package model

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// ErrDuplicateID is returned when an id occurs more than once within a topic tree.
var ErrDuplicateID = errors.New("duplicate node id")

// TreeNode is one node of a topic tree. Children are shared between tree
// versions, so a TreeNode reachable from a published tree must never be mutated.
type TreeNode struct {
	ID       string            `json:"id"`
	Title    string            `json:"title"`
	Summary  string            `json:"summary,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Children []*TreeNode       `json:"children,omitempty"`
}

// HasChildren reports whether the node has at least one child.
func (n *TreeNode) HasChildren() bool {
	return n != nil && len(n.Children) > 0
}

// ShallowCopy returns a copy of the node that shares its children and metadata.
// The children slice header is copied so appending to the copy cannot affect
// the original.
func (n *TreeNode) ShallowCopy() *TreeNode {
	if n == nil {
		return nil
	}
	c := *n
	if n.Children != nil {
		c.Children = slices.Clone(n.Children)
	}
	return &c
}

// Clone creates a deep copy of the subtree rooted at n.
func (n *TreeNode) Clone() *TreeNode {
	if n == nil {
		return nil
	}
	c := &TreeNode{
		ID:      n.ID,
		Title:   n.Title,
		Summary: n.Summary,
	}
	if n.Metadata != nil {
		c.Metadata = maps.Clone(n.Metadata)
	}
	if n.Children != nil {
		c.Children = make([]*TreeNode, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}
	return c
}

// Validate checks that the subtree has non-empty ids and titles and that no id
// repeats.
func (n *TreeNode) Validate() error {
	if n == nil {
		return fmt.Errorf("tree root is missing")
	}
	seen := make(map[string]struct{})
	var walk func(node *TreeNode, path string) error
	walk = func(node *TreeNode, path string) error {
		if node == nil {
			return fmt.Errorf("%s: null child", path)
		}
		if strings.TrimSpace(node.ID) == "" {
			return fmt.Errorf("%s: node id cannot be empty", path)
		}
		if strings.TrimSpace(node.Title) == "" {
			return fmt.Errorf("%s: node %q title cannot be empty", path, node.ID)
		}
		if _, ok := seen[node.ID]; ok {
			return fmt.Errorf("%s: %w: %q", path, ErrDuplicateID, node.ID)
		}
		seen[node.ID] = struct{}{}
		for i, child := range node.Children {
			if err := walk(child, fmt.Sprintf("%s.children[%d]", path, i)); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(n, "root")
}

// NodePatch is a partial update. Nil fields are left unchanged.
type NodePatch struct {
	Title    *string
	Summary  *string
	Metadata map[string]string
}

// IsEmpty reports whether the patch changes nothing.
func (p NodePatch) IsEmpty() bool {
	return p.Title == nil && p.Summary == nil && p.Metadata == nil
}

// Apply returns a copy of n with the patch applied. Children are shared.
func (p NodePatch) Apply(n *TreeNode) *TreeNode {
	c := *n
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Summary != nil {
		c.Summary = *p.Summary
	}
	if p.Metadata != nil {
		c.Metadata = maps.Clone(p.Metadata)
	}
	return &c
}

// FlatNode is a TreeNode positioned in a pre-order listing of its tree.
// ParentID is empty for the root.
type FlatNode struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Summary     string            `json:"summary,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Depth       int               `json:"depth"`
	ParentID    string            `json:"parent_id,omitempty"`
	HasChildren bool              `json:"has_children"`
}

// IsRoot reports whether the node has no parent.
func (f FlatNode) IsRoot() bool {
	return f.ParentID == ""
}

// Edge connects a visible parent to a visible child.
type Edge struct {
	SourceID string `json:"source"`
	TargetID string `json:"target"`
}

// Topics maps topic keys to their tree roots.
type Topics map[string]*TreeNode

// Keys returns the topic keys in sorted order.
func (t Topics) Keys() []string {
	return slices.Sorted(maps.Keys(t))
}

// Validate checks every topic tree.
func (t Topics) Validate() error {
	for _, key := range t.Keys() {
		if err := t[key].Validate(); err != nil {
			return fmt.Errorf("topic %q: %w", key, err)
		}
	}
	return nil
}

// Clone returns a registry sharing the trees. Trees are persistent so sharing
// them is safe.
func (t Topics) Clone() Topics {
	return maps.Clone(t)
}

// LayoutNode is a visible node with its simulated position and styling.
type LayoutNode struct {
	FlatNode
	RelDepth int     `json:"rel_depth"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	R        float64 `json:"r"`
	Color    string  `json:"color"`
}
