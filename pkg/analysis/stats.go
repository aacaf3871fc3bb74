package analysis

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"

	"github.com/Dicklesworthstone/mindmap_viewer/pkg/model"
	"github.com/Dicklesworthstone/mindmap_viewer/pkg/tree"
)

// DefaultHubLimit caps the hub list returned by Analyze.
const DefaultHubLimit = 5

// Hub is a node that many paths in the topic pass through.
type Hub struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Depth      int     `json:"depth"`
	Children   int     `json:"children"`
	Centrality float64 `json:"centrality"` // normalized to [0,1] within the topic
}

// TopicStats summarizes the shape of one topic tree.
type TopicStats struct {
	Nodes        int     `json:"nodes"`
	Leaves       int     `json:"leaves"`
	MaxDepth     int     `json:"max_depth"`
	DepthCounts  []int   `json:"depth_counts"`
	AvgBranching float64 `json:"avg_branching"`
	WithSummary  int     `json:"with_summary"`
	Hubs         []Hub   `json:"hubs,omitempty"`
}

// Analyze computes TopicStats for the tree rooted at root, listing at most
// hubLimit hubs. A nil root yields zero stats.
func Analyze(root *model.TreeNode, hubLimit int) TopicStats {
	flat := tree.Flatten(root)
	stats := TopicStats{Nodes: len(flat), DepthCounts: []int{}}
	if len(flat) == 0 {
		return stats
	}

	childCount := make(map[string]int, len(flat))
	for _, n := range flat {
		if n.ParentID != "" {
			childCount[n.ParentID]++
		}
	}
	internal := 0
	for _, n := range flat {
		if n.Depth > stats.MaxDepth {
			stats.MaxDepth = n.Depth
		}
		for len(stats.DepthCounts) <= n.Depth {
			stats.DepthCounts = append(stats.DepthCounts, 0)
		}
		stats.DepthCounts[n.Depth]++
		if n.HasChildren {
			internal++
		} else {
			stats.Leaves++
		}
		if n.Summary != "" {
			stats.WithSummary++
		}
	}
	if internal > 0 {
		stats.AvgBranching = float64(len(flat)-1) / float64(internal)
	}

	if hubLimit <= 0 || len(flat) < 3 {
		return stats
	}
	g, ids := buildGraph(flat)
	scores := TreeBetweenness(g)

	top := 0.0
	for _, v := range scores {
		if v > top {
			top = v
		}
	}
	if top == 0 {
		return stats
	}
	for gid, score := range scores {
		if score <= 0 {
			continue
		}
		n := flat[ids[gid]]
		stats.Hubs = append(stats.Hubs, Hub{
			ID:         n.ID,
			Title:      n.Title,
			Depth:      n.Depth,
			Children:   childCount[n.ID],
			Centrality: score / top,
		})
	}
	sort.Slice(stats.Hubs, func(i, j int) bool {
		if stats.Hubs[i].Centrality != stats.Hubs[j].Centrality {
			return stats.Hubs[i].Centrality > stats.Hubs[j].Centrality
		}
		return stats.Hubs[i].ID < stats.Hubs[j].ID
	})
	if len(stats.Hubs) > hubLimit {
		stats.Hubs = stats.Hubs[:hubLimit]
	}
	return stats
}

// buildGraph converts a flattened tree into an undirected gonum graph whose
// node ids are flat indexes. Duplicate ids map to their first occurrence.
func buildGraph(flat []model.FlatNode) (*simple.UndirectedGraph, map[int64]int) {
	g := simple.NewUndirectedGraph()
	index := tree.Index(flat)
	ids := make(map[int64]int, len(index))
	for _, pos := range index {
		g.AddNode(simple.Node(int64(pos)))
		ids[int64(pos)] = pos
	}
	for i, n := range flat {
		if n.ParentID == "" || index[n.ID] != i {
			continue
		}
		parent, ok := index[n.ParentID]
		if !ok || parent == i {
			continue
		}
		g.SetEdge(g.NewEdge(simple.Node(int64(parent)), simple.Node(int64(i))))
	}
	return g, ids
}
