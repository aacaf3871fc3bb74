package layout

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// force mutates node velocities (or positions, for centering) for one tick at
// the given alpha.
type force interface {
	apply(s *Simulation, alpha float64)
}

// linkForce is a spring along each edge toward the sum of both radii plus a
// gap. The correction is split by degree so leaves move more than hubs.
type linkForce struct {
	strength float64
	gap      float64
}

func (f linkForce) apply(s *Simulation, alpha float64) {
	for _, l := range s.links {
		src, dst := &s.nodes[l.source], &s.nodes[l.target]
		d := r2.Sub(r2.Add(dst.pos, dst.vel), r2.Add(src.pos, src.vel))
		if d.X == 0 {
			d.X = s.jiggle()
		}
		if d.Y == 0 {
			d.Y = s.jiggle()
		}
		dist := r2.Norm(d)
		target := src.r + dst.r + f.gap
		k := (dist - target) / dist * alpha * f.strength
		d = r2.Scale(k, d)
		dst.vel = r2.Sub(dst.vel, r2.Scale(l.bias, d))
		src.vel = r2.Add(src.vel, r2.Scale(1-l.bias, d))
	}
}

// manyBodyForce applies pairwise charge between all nodes. Negative strength
// repels. Pairs are evaluated exactly, which is O(n²) per tick.
type manyBodyForce struct {
	strength    float64
	distanceMin float64
}

func (f manyBodyForce) apply(s *Simulation, alpha float64) {
	minSq := f.distanceMin * f.distanceMin
	for i := range s.nodes {
		ni := &s.nodes[i]
		for j := range s.nodes {
			if i == j {
				continue
			}
			d := r2.Sub(s.nodes[j].pos, ni.pos)
			if d.X == 0 {
				d.X = s.jiggle()
			}
			if d.Y == 0 {
				d.Y = s.jiggle()
			}
			l := r2.Norm2(d)
			if l < minSq {
				l = math.Sqrt(minSq * l)
			}
			ni.vel = r2.Add(ni.vel, r2.Scale(f.strength*alpha/l, d))
		}
	}
}

// collideForce pushes apart any two nodes closer than their padded radii.
// It does not scale with alpha.
type collideForce struct {
	padding  float64
	strength float64
}

func (f collideForce) apply(s *Simulation, _ float64) {
	for i := range s.nodes {
		a := &s.nodes[i]
		ra := a.r + f.padding
		for j := i + 1; j < len(s.nodes); j++ {
			b := &s.nodes[j]
			rb := b.r + f.padding
			d := r2.Sub(r2.Add(a.pos, a.vel), r2.Add(b.pos, b.vel))
			if d.X == 0 {
				d.X = s.jiggle()
			}
			if d.Y == 0 {
				d.Y = s.jiggle()
			}
			l := r2.Norm2(d)
			reach := ra + rb
			if l >= reach*reach {
				continue
			}
			dist := math.Sqrt(l)
			d = r2.Scale((reach-dist)/dist*f.strength, d)
			share := (rb * rb) / (ra*ra + rb*rb)
			a.vel = r2.Add(a.vel, r2.Scale(share, d))
			b.vel = r2.Sub(b.vel, r2.Scale(1-share, d))
		}
	}
}

// centerForce translates every node so the mean position sits on the target.
type centerForce struct {
	target r2.Vec
}

func (f centerForce) apply(s *Simulation, _ float64) {
	if len(s.nodes) == 0 {
		return
	}
	var sum r2.Vec
	for _, n := range s.nodes {
		sum = r2.Add(sum, n.pos)
	}
	shift := r2.Sub(r2.Scale(1/float64(len(s.nodes)), sum), f.target)
	for i := range s.nodes {
		s.nodes[i].pos = r2.Sub(s.nodes[i].pos, shift)
	}
}

// radialForce pulls each node toward a ring whose radius grows with relative
// depth, producing one ring per hierarchy level.
type radialForce struct {
	center   r2.Vec
	step     float64
	strength float64
}

func (f radialForce) apply(s *Simulation, alpha float64) {
	for i := range s.nodes {
		n := &s.nodes[i]
		d := r2.Sub(n.pos, f.center)
		dist := r2.Norm(d)
		if dist == 0 {
			dist = 1e-6
		}
		k := (float64(n.relDepth)*f.step - dist) * f.strength * alpha / dist
		n.vel = r2.Add(n.vel, r2.Scale(k, d))
	}
}
