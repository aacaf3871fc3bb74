package tree

import (
	"slices"
	"testing"

	"github.com/Dicklesworthstone/mindmap_viewer/pkg/model"
)

// scenarioTree builds R -> [A, B], A -> [C].
func scenarioTree() *model.TreeNode {
	return &model.TreeNode{
		ID:    "R",
		Title: "Root",
		Children: []*model.TreeNode{
			{ID: "A", Title: "Alpha", Children: []*model.TreeNode{{ID: "C", Title: "Gamma"}}},
			{ID: "B", Title: "Beta", Summary: "second"},
		},
	}
}

func flatIDs(flat []model.FlatNode) []string {
	ids := make([]string, len(flat))
	for i, n := range flat {
		ids[i] = n.ID
	}
	return ids
}

func TestFlattenPreOrder(t *testing.T) {
	flat := Flatten(scenarioTree())

	want := []string{"R", "A", "C", "B"}
	if got := flatIDs(flat); !slices.Equal(got, want) {
		t.Fatalf("expected order %v, got %v", want, got)
	}

	tests := []struct {
		id          string
		depth       int
		parent      string
		hasChildren bool
	}{
		{"R", 0, "", true},
		{"A", 1, "R", true},
		{"C", 2, "A", false},
		{"B", 1, "R", false},
	}
	for i, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			n := flat[i]
			if n.Depth != tt.depth {
				t.Errorf("expected depth %d, got %d", tt.depth, n.Depth)
			}
			if n.ParentID != tt.parent {
				t.Errorf("expected parent %q, got %q", tt.parent, n.ParentID)
			}
			if n.HasChildren != tt.hasChildren {
				t.Errorf("expected hasChildren %v, got %v", tt.hasChildren, n.HasChildren)
			}
		})
	}
}

// TestFlattenEmpty verifies a nil tree flattens to an empty, non-nil slice.
func TestFlattenEmpty(t *testing.T) {
	flat := Flatten(nil)
	if flat == nil || len(flat) != 0 {
		t.Errorf("expected empty slice, got %v", flat)
	}
}

func TestAncestorIDs(t *testing.T) {
	flat := Flatten(scenarioTree())
	tests := []struct {
		name string
		id   string
		want []string
	}{
		{"Root", "R", []string{}},
		{"Child", "A", []string{"R"}},
		{"Grandchild", "C", []string{"A", "R"}},
		{"Unknown", "missing", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AncestorIDs(tt.id, flat)
			if !slices.Equal(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestDescendantIDs(t *testing.T) {
	flat := Flatten(scenarioTree())
	tests := []struct {
		id   string
		want []string
	}{
		{"R", []string{"A", "B", "C"}},
		{"A", []string{"C"}},
		{"C", nil},
		{"missing", nil},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got := DescendantIDs(tt.id, flat)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d descendants, got %d (%v)", len(tt.want), len(got), got)
			}
			for _, id := range tt.want {
				if _, ok := got[id]; !ok {
					t.Errorf("expected %q among descendants", id)
				}
			}
			if _, ok := got[tt.id]; ok {
				t.Errorf("descendants must not include %q itself", tt.id)
			}
		})
	}
}

func TestChildIDs(t *testing.T) {
	flat := Flatten(scenarioTree())
	if got := ChildIDs("R", flat); !slices.Equal(got, []string{"A", "B"}) {
		t.Errorf("expected [A B], got %v", got)
	}
	if got := ChildIDs("B", flat); len(got) != 0 {
		t.Errorf("expected no children, got %v", got)
	}
}

func TestUpdatePatchesOnlyTarget(t *testing.T) {
	orig := scenarioTree()
	title := "X"
	updated := Update(orig, "C", model.NodePatch{Title: &title})

	if updated == orig {
		t.Fatal("expected a new root")
	}
	if got := Find(updated, "C").Title; got != "X" {
		t.Errorf("expected title X, got %q", got)
	}
	if Find(orig, "C").Title != "Gamma" {
		t.Error("update mutated the input tree")
	}
	// B is off the edited path and must be shared.
	if updated.Children[1] != orig.Children[1] {
		t.Error("expected untouched sibling subtree to be shared")
	}
	if updated.Children[0] == orig.Children[0] {
		t.Error("expected ancestor of the edited node to be copied")
	}
}

func TestUpdatePartialPatch(t *testing.T) {
	summary := "new summary"
	updated := Update(scenarioTree(), "B", model.NodePatch{Summary: &summary})
	b := Find(updated, "B")
	if b.Title != "Beta" {
		t.Errorf("expected title untouched, got %q", b.Title)
	}
	if b.Summary != "new summary" {
		t.Errorf("expected summary patched, got %q", b.Summary)
	}
}

// TestUpdateUnknownIDIsNoop verifies edits to missing ids leave the tree alone.
func TestUpdateUnknownIDIsNoop(t *testing.T) {
	orig := scenarioTree()
	title := "X"
	if got := Update(orig, "nope", model.NodePatch{Title: &title}); got != orig {
		t.Error("expected the same tree back for an unknown id")
	}
	if got := Insert(orig, "nope", &model.TreeNode{ID: "D", Title: "D"}); got != orig {
		t.Error("expected the same tree back for an unknown parent")
	}
	if got := Remove(orig, "nope"); got != orig {
		t.Error("expected the same tree back when removing an unknown id")
	}
}

func TestInsertAppendsLastChild(t *testing.T) {
	orig := scenarioTree()
	updated := Insert(orig, "A", &model.TreeNode{ID: "D", Title: "Delta"})

	got := flatIDs(Flatten(updated))
	want := []string{"R", "A", "C", "D", "B"}
	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if len(orig.Children[0].Children) != 1 {
		t.Error("insert mutated the input tree")
	}
}

// TestInsertDoesNotCheckUniqueness verifies duplicate ids are accepted as-is.
func TestInsertDoesNotCheckUniqueness(t *testing.T) {
	updated := Insert(scenarioTree(), "B", &model.TreeNode{ID: "C", Title: "Duplicate"})
	if Count(updated) != 5 {
		t.Fatalf("expected 5 nodes, got %d", Count(updated))
	}
	// Edits hit the first pre-order match.
	title := "first"
	patched := Update(updated, "C", model.NodePatch{Title: &title})
	if Find(patched, "A").Children[0].Title != "first" {
		t.Error("expected the first C in pre-order to be patched")
	}
	if Find(patched, "B").Children[0].Title != "Duplicate" {
		t.Error("expected the later duplicate to be untouched")
	}
}

func TestRemoveSubtree(t *testing.T) {
	orig := scenarioTree()
	updated := Remove(orig, "A")

	if got := flatIDs(Flatten(updated)); !slices.Equal(got, []string{"R", "B"}) {
		t.Errorf("expected [R B], got %v", got)
	}
	if Count(orig) != 4 {
		t.Error("remove mutated the input tree")
	}
}

// TestRemoveRootIsNoop verifies the root cannot be removed by id.
func TestRemoveRootIsNoop(t *testing.T) {
	orig := scenarioTree()
	if got := Remove(orig, "R"); got != orig {
		t.Error("expected root removal to return the input tree")
	}
}

func TestInsertRemoveRoundTrip(t *testing.T) {
	orig := scenarioTree()
	round := Remove(Insert(orig, "C", &model.TreeNode{ID: "new", Title: "New"}), "new")
	if !Equal(orig, round) {
		t.Error("expected insert then remove to restore the original tree")
	}
}

func TestEqual(t *testing.T) {
	a := scenarioTree()
	b := scenarioTree()
	if !Equal(a, b) {
		t.Error("expected identical trees to be equal")
	}
	b.Children[1].Metadata = map[string]string{"k": "v"}
	if Equal(a, b) {
		t.Error("expected metadata difference to be detected")
	}
	if !Equal(nil, nil) || Equal(a, nil) {
		t.Error("nil handling is wrong")
	}
}
