// Package tree implements the persistent topic tree: pre-order flattening,
// ancestry queries, and copy-on-write structural edits.
//
// Edits never mutate their input. Only the nodes on the path from the root to
// the edited node are copied; every other subtree is shared with the input
// tree, so earlier versions stay valid for as long as anyone holds them.
package tree

import (
	"maps"
	"slices"

	"github.com/Dicklesworthstone/mindmap_viewer/pkg/model"
)

// Flatten lists the tree in depth-first pre-order. A parent always precedes
// its children and siblings keep their display order.
func Flatten(root *model.TreeNode) []model.FlatNode {
	if root == nil {
		return []model.FlatNode{}
	}
	out := make([]model.FlatNode, 0, Count(root))
	var walk func(n *model.TreeNode, depth int, parentID string)
	walk = func(n *model.TreeNode, depth int, parentID string) {
		if n == nil {
			return
		}
		out = append(out, model.FlatNode{
			ID:          n.ID,
			Title:       n.Title,
			Summary:     n.Summary,
			Metadata:    n.Metadata,
			Depth:       depth,
			ParentID:    parentID,
			HasChildren: len(n.Children) > 0,
		})
		for _, child := range n.Children {
			walk(child, depth+1, n.ID)
		}
	}
	walk(root, 0, "")
	return out
}

// Index maps node ids to their position in flat. When an id repeats, the
// first pre-order occurrence wins.
func Index(flat []model.FlatNode) map[string]int {
	idx := make(map[string]int, len(flat))
	for i, n := range flat {
		if _, ok := idx[n.ID]; !ok {
			idx[n.ID] = i
		}
	}
	return idx
}

// Lookup returns the flat node with the given id.
func Lookup(id string, flat []model.FlatNode) (model.FlatNode, bool) {
	for _, n := range flat {
		if n.ID == id {
			return n, true
		}
	}
	return model.FlatNode{}, false
}

// AncestorIDs walks parent links from id up to the root, nearest ancestor
// first. The result is empty when id is unknown or is the root.
func AncestorIDs(id string, flat []model.FlatNode) []string {
	idx := Index(flat)
	i, ok := idx[id]
	if !ok {
		return []string{}
	}
	ancestors := []string{}
	parent := flat[i].ParentID
	// Bounded by len(flat) so a malformed listing cannot loop forever.
	for parent != "" && len(ancestors) < len(flat) {
		ancestors = append(ancestors, parent)
		pi, ok := idx[parent]
		if !ok {
			break
		}
		parent = flat[pi].ParentID
	}
	return ancestors
}

// DescendantIDs returns every id below id, at any depth. id itself is never
// included.
func DescendantIDs(id string, flat []model.FlatNode) map[string]struct{} {
	children := childIndex(flat)
	out := make(map[string]struct{})
	stack := slices.Clone(children[id])
	for len(stack) > 0 {
		next := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if next == id {
			continue
		}
		if _, seen := out[next]; seen {
			continue
		}
		out[next] = struct{}{}
		stack = append(stack, children[next]...)
	}
	return out
}

// ChildIDs returns the direct children of id in display order.
func ChildIDs(id string, flat []model.FlatNode) []string {
	var ids []string
	for _, n := range flat {
		if n.ParentID == id && id != "" {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

func childIndex(flat []model.FlatNode) map[string][]string {
	children := make(map[string][]string)
	for _, n := range flat {
		if n.ParentID != "" {
			children[n.ParentID] = append(children[n.ParentID], n.ID)
		}
	}
	return children
}

// Update returns a tree in which the first pre-order node with the given id
// has the patch applied. An unknown id returns root unchanged.
func Update(root *model.TreeNode, id string, patch model.NodePatch) *model.TreeNode {
	out, _ := rewrite(root, id, func(n *model.TreeNode) (*model.TreeNode, bool) {
		return patch.Apply(n), true
	})
	return out
}

// Insert appends node as the last child of the first node matching parentID.
// Id uniqueness is not checked. An unknown parent returns root unchanged.
func Insert(root *model.TreeNode, parentID string, node *model.TreeNode) *model.TreeNode {
	if node == nil {
		return root
	}
	out, _ := rewrite(root, parentID, func(n *model.TreeNode) (*model.TreeNode, bool) {
		c := n.ShallowCopy()
		c.Children = append(c.Children, node)
		return c, true
	})
	return out
}

// Remove detaches the first pre-order node with the given id, along with its
// subtree, from its parent. The root has no parent and is never removed.
func Remove(root *model.TreeNode, id string) *model.TreeNode {
	if root == nil {
		return nil
	}
	out, _ := removeFrom(root, id)
	return out
}

func removeFrom(n *model.TreeNode, id string) (*model.TreeNode, bool) {
	for i, child := range n.Children {
		if child == nil {
			continue
		}
		if child.ID == id {
			c := *n
			c.Children = slices.Delete(slices.Clone(n.Children), i, i+1)
			if len(c.Children) == 0 {
				c.Children = nil
			}
			return &c, true
		}
		if replaced, ok := removeFrom(child, id); ok {
			c := n.ShallowCopy()
			c.Children[i] = replaced
			return c, true
		}
	}
	return n, false
}

// rewrite replaces the first pre-order match of id with fn's result and
// copies only the ancestors of the match.
func rewrite(n *model.TreeNode, id string, fn func(*model.TreeNode) (*model.TreeNode, bool)) (*model.TreeNode, bool) {
	if n == nil {
		return nil, false
	}
	if n.ID == id {
		return fn(n)
	}
	for i, child := range n.Children {
		if replaced, ok := rewrite(child, id, fn); ok {
			c := n.ShallowCopy()
			c.Children[i] = replaced
			return c, true
		}
	}
	return n, false
}

// Find returns the first pre-order node with the given id, or nil.
func Find(root *model.TreeNode, id string) *model.TreeNode {
	if root == nil {
		return nil
	}
	if root.ID == id {
		return root
	}
	for _, child := range root.Children {
		if found := Find(child, id); found != nil {
			return found
		}
	}
	return nil
}

// Contains reports whether any node in the tree has the given id.
func Contains(root *model.TreeNode, id string) bool {
	return Find(root, id) != nil
}

// Count returns the number of nodes in the tree.
func Count(root *model.TreeNode) int {
	if root == nil {
		return 0
	}
	total := 1
	for _, child := range root.Children {
		total += Count(child)
	}
	return total
}

// Equal reports whether two trees hold the same ids, fields and child order.
// Node identity is ignored. Nil and empty children or metadata compare equal.
func Equal(a, b *model.TreeNode) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.ID != b.ID || a.Title != b.Title || a.Summary != b.Summary {
		return false
	}
	if len(a.Metadata) != len(b.Metadata) || !maps.Equal(a.Metadata, b.Metadata) {
		return false
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}
