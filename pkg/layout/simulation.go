package layout

import (
	"slices"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/Dicklesworthstone/mindmap_viewer/pkg/model"
)

// Input is one layout request: the visible nodes and edges plus the viewport
// the graph is centered in.
type Input struct {
	Nodes         []model.FlatNode
	Edges         []model.Edge
	VirtualRootID string
	Width         float64
	Height        float64
}

// Center returns the viewport center.
func (in Input) Center() r2.Vec {
	return r2.Vec{X: in.Width / 2, Y: in.Height / 2}
}

type simNode struct {
	flat     model.FlatNode
	relDepth int
	r        float64
	color    string
	pos      r2.Vec
	vel      r2.Vec
}

type simLink struct {
	source, target int
	bias           float64
}

// Simulation is a stepwise force simulation over one Input. It is not safe
// for concurrent use.
type Simulation struct {
	params     Params
	nodes      []simNode
	links      []simLink
	forces     []force
	alpha      float64
	iterations int
	seeded     int
	random     uint32
	key        string
}

// NewSimulation prepares a simulation. Nodes found in cache start from their
// cached position; the rest are seeded on a spiral around the viewport
// center. A fully cached input starts at p.WarmAlpha instead of full energy,
// and one identical to the last settled run starts at rest.
func NewSimulation(in Input, cache *PositionCache, p Params) *Simulation {
	s := &Simulation{params: p, alpha: 1, random: 1}
	center := in.Center()

	baseDepth := 0
	for _, n := range in.Nodes {
		if n.ID == in.VirtualRootID {
			baseDepth = n.Depth
			break
		}
	}

	index := make(map[string]int, len(in.Nodes))
	s.nodes = make([]simNode, len(in.Nodes))
	for i, n := range in.Nodes {
		rel := max(0, n.Depth-baseDepth)
		pos, ok := cache.Get(n.ID)
		if !ok {
			pos = Spiral(i, center)
			s.seeded++
		}
		s.nodes[i] = simNode{
			flat:     n,
			relDepth: rel,
			r:        Radius(rel),
			color:    p.color(rel),
			pos:      pos,
		}
		index[n.ID] = i
	}

	degree := make([]int, len(s.nodes))
	for _, e := range in.Edges {
		src, ok1 := index[e.SourceID]
		dst, ok2 := index[e.TargetID]
		if !ok1 || !ok2 {
			continue
		}
		degree[src]++
		degree[dst]++
		s.links = append(s.links, simLink{source: src, target: dst})
	}
	for i := range s.links {
		l := &s.links[i]
		l.bias = float64(degree[l.source]) / float64(degree[l.source]+degree[l.target])
	}

	count := len(s.nodes)
	s.forces = []force{
		linkForce{strength: p.LinkStrength, gap: p.LinkGap},
		manyBodyForce{strength: p.charge(count), distanceMin: p.DistanceMin},
		collideForce{padding: p.CollidePadding, strength: p.CollideStrength},
		centerForce{target: center},
		radialForce{center: center, step: p.radialStep(count), strength: p.RadialStrength},
	}

	s.key = inputKey(in, s.nodes)
	if s.seeded == 0 && count > 0 {
		if cache.Settled() == s.key {
			s.alpha = 0
		} else {
			s.alpha = p.WarmAlpha
		}
	}
	return s
}

// inputKey identifies what a run lays out: the viewport, the virtual root and
// every node with its relative depth. Node order does not matter.
func inputKey(in Input, nodes []simNode) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.flat.ID + "@" + strconv.Itoa(n.relDepth)
	}
	slices.Sort(parts)
	var sb strings.Builder
	sb.WriteString(in.VirtualRootID)
	sb.WriteByte('|')
	sb.WriteString(strconv.FormatFloat(in.Width, 'g', -1, 64))
	sb.WriteByte('x')
	sb.WriteString(strconv.FormatFloat(in.Height, 'g', -1, 64))
	for _, p := range parts {
		sb.WriteByte('|')
		sb.WriteString(p)
	}
	return sb.String()
}

// Tick advances the simulation by one step. It does nothing once Done.
func (s *Simulation) Tick() {
	if s.Done() {
		return
	}
	s.alpha += (s.params.AlphaTarget - s.alpha) * s.params.AlphaDecay
	for _, f := range s.forces {
		f.apply(s, s.alpha)
	}
	keep := 1 - s.params.VelocityDecay
	for i := range s.nodes {
		n := &s.nodes[i]
		n.vel = r2.Scale(keep, n.vel)
		n.pos = r2.Add(n.pos, n.vel)
	}
	s.iterations++
}

// Run ticks until Done and returns the number of ticks taken.
func (s *Simulation) Run() int {
	start := s.iterations
	for !s.Done() {
		s.Tick()
	}
	return s.iterations - start
}

// Done reports whether the energy has decayed below AlphaMin or the
// iteration cap is reached.
func (s *Simulation) Done() bool {
	return len(s.nodes) == 0 || s.alpha < s.params.AlphaMin || s.iterations >= s.params.MaxIterations
}

// Alpha returns the current energy.
func (s *Simulation) Alpha() float64 { return s.alpha }

// Iterations returns the number of ticks run so far.
func (s *Simulation) Iterations() int { return s.iterations }

// Seeded returns how many nodes started without a cached position.
func (s *Simulation) Seeded() int { return s.seeded }

// Nodes returns a snapshot of the current positions and styling.
func (s *Simulation) Nodes() []model.LayoutNode {
	out := make([]model.LayoutNode, len(s.nodes))
	for i, n := range s.nodes {
		out[i] = model.LayoutNode{
			FlatNode: n.flat,
			RelDepth: n.relDepth,
			X:        n.pos.X,
			Y:        n.pos.Y,
			R:        n.r,
			Color:    n.color,
		}
	}
	return out
}

// Store writes every current position into cache. A finished run also marks
// its input as settled so an identical request can skip ticking.
func (s *Simulation) Store(cache *PositionCache) {
	for _, n := range s.nodes {
		cache.Set(n.flat.ID, n.pos)
	}
	if s.Done() {
		cache.setSettled(s.key)
	} else {
		cache.setSettled("")
	}
}

// jiggle returns a tiny deterministic offset used to separate coincident
// points. The sequence is a fixed LCG so layouts are reproducible.
func (s *Simulation) jiggle() float64 {
	s.random = s.random*1664525 + 1013904223
	return (float64(s.random)/4294967296 - 0.5) * 1e-6
}

// Layout runs a complete simulation and stores the result in cache.
func Layout(in Input, cache *PositionCache, p Params) []model.LayoutNode {
	s := NewSimulation(in, cache, p)
	s.Run()
	if cache != nil {
		s.Store(cache)
	}
	return s.Nodes()
}
