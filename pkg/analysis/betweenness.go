package analysis

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/topo"
)

// TreeBetweenness returns the betweenness centrality of every node of the
// forest g, counted over unordered pairs. Removing v splits its component of
// n nodes into branches of sizes s1..sk, and exactly the pairs drawn from two
// different branches route through v:
//
//	C_B(v) = ((n-1)² - Σ si²) / 2
//
// Branch sizes come from one depth-first pass per component. g must be
// acyclic; an edge closing a cycle is ignored.
func TreeBetweenness(g graph.Undirected) map[int64]float64 {
	scores := make(map[int64]float64)
	for _, comp := range topo.ConnectedComponents(g) {
		n := len(comp)
		root := comp[0].ID()
		for _, v := range comp[1:] {
			root = min(root, v.ID())
		}

		// Pre-order walk recording each node's parent.
		parent := map[int64]int64{root: root}
		order := make([]int64, 0, n)
		stack := []int64{root}
		for len(stack) > 0 {
			v := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			order = append(order, v)
			to := g.From(v)
			for to.Next() {
				w := to.Node().ID()
				if _, seen := parent[w]; seen {
					continue
				}
				parent[w] = v
				stack = append(stack, w)
			}
		}

		// Children precede their parent in reverse pre-order.
		size := make(map[int64]int, n)
		childSq := make(map[int64]float64, n)
		for i := len(order) - 1; i >= 0; i-- {
			v := order[i]
			size[v]++
			if p := parent[v]; p != v {
				size[p] += size[v]
				childSq[p] += float64(size[v] * size[v])
			}
		}

		total := float64((n - 1) * (n - 1))
		for _, v := range order {
			up := float64(n - size[v])
			scores[v] = (total - childSq[v] - up*up) / 2
		}
	}
	return scores
}
