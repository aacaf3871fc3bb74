package layout

import (
	"math"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/Dicklesworthstone/mindmap_viewer/pkg/model"
)

// Transform maps layout coordinates to screen coordinates:
// screen = world*K + (X, Y).
type Transform struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	K float64 `json:"k"`
}

// Identity is the transform that leaves coordinates unchanged.
func Identity() Transform { return Transform{K: 1} }

// Apply maps a layout point to the screen.
func (t Transform) Apply(p r2.Vec) r2.Vec {
	return r2.Add(r2.Scale(t.K, p), r2.Vec{X: t.X, Y: t.Y})
}

// Invert maps a screen point back to layout coordinates.
func (t Transform) Invert(p r2.Vec) r2.Vec {
	if t.K == 0 {
		return p
	}
	return r2.Scale(1/t.K, r2.Sub(p, r2.Vec{X: t.X, Y: t.Y}))
}

// FitParams controls Fit.
type FitParams struct {
	// NodePadding is added to each node radius when computing bounds.
	NodePadding float64 `yaml:"node_padding"`
	// Padding surrounds the whole content box.
	Padding  float64       `yaml:"padding"`
	MaxScale float64       `yaml:"max_scale"`
	MinScale float64       `yaml:"min_scale"`
	Duration time.Duration `yaml:"duration"`
}

// DefaultFitParams returns the defaults: each node padded to its radius plus
// 20px, 100px of outer padding, zoom-in capped at 1.2 and a 750ms transition.
func DefaultFitParams() FitParams {
	return FitParams{
		NodePadding: 20,
		Padding:     100,
		MaxScale:    1.2,
		MinScale:    0.1,
		Duration:    750 * time.Millisecond,
	}
}

// Bounds returns the box covering every node expanded by its radius plus pad.
// ok is false when nodes is empty.
func Bounds(nodes []model.LayoutNode, pad float64) (box r2.Box, ok bool) {
	if len(nodes) == 0 {
		return r2.Box{}, false
	}
	box = r2.Box{
		Min: r2.Vec{X: math.Inf(1), Y: math.Inf(1)},
		Max: r2.Vec{X: math.Inf(-1), Y: math.Inf(-1)},
	}
	for _, n := range nodes {
		ext := n.R + pad
		box.Min.X = math.Min(box.Min.X, n.X-ext)
		box.Min.Y = math.Min(box.Min.Y, n.Y-ext)
		box.Max.X = math.Max(box.Max.X, n.X+ext)
		box.Max.Y = math.Max(box.Max.Y, n.Y+ext)
	}
	return box, true
}

// Fit returns the transform that centers all nodes in a width x height
// viewport, scaled down as needed and never zoomed in past MaxScale. With no
// nodes it returns the identity.
func Fit(nodes []model.LayoutNode, width, height float64, p FitParams) Transform {
	box, ok := Bounds(nodes, p.NodePadding)
	if !ok || width <= 0 || height <= 0 {
		return Identity()
	}
	size := box.Size()
	cw := size.X + 2*p.Padding
	ch := size.Y + 2*p.Padding
	k := math.Min(math.Min(width/cw, height/ch), p.MaxScale)
	if p.MinScale > 0 {
		k = math.Max(k, p.MinScale)
	}
	c := box.Center()
	return Transform{
		X: width/2 - c.X*k,
		Y: height/2 - c.Y*k,
		K: k,
	}
}

// Scale extent for interactive zoom.
const (
	MinZoom = 0.1
	MaxZoom = 4.0
)

// ZoomBy scales t by factor around the screen point anchor, clamped to
// [MinZoom, MaxZoom].
func ZoomBy(t Transform, factor float64, anchor r2.Vec) Transform {
	k := math.Max(MinZoom, math.Min(MaxZoom, t.K*factor))
	world := t.Invert(anchor)
	return Transform{
		X: anchor.X - world.X*k,
		Y: anchor.Y - world.Y*k,
		K: k,
	}
}

// Pan shifts t by a screen-space offset.
func Pan(t Transform, dx, dy float64) Transform {
	t.X += dx
	t.Y += dy
	return t
}

// Transition animates between two transforms over a fixed duration.
type Transition struct {
	From, To Transform
	Start    time.Time
	Duration time.Duration
}

// NewTransition starts a transition at now.
func NewTransition(from, to Transform, now time.Time, d time.Duration) Transition {
	return Transition{From: from, To: to, Start: now, Duration: d}
}

// At returns the interpolated transform at now and whether the transition has
// finished.
func (tr Transition) At(now time.Time) (Transform, bool) {
	if tr.Duration <= 0 {
		return tr.To, true
	}
	t := float64(now.Sub(tr.Start)) / float64(tr.Duration)
	if t >= 1 {
		return tr.To, true
	}
	if t < 0 {
		t = 0
	}
	e := easeCubicInOut(t)
	return Transform{
		X: tr.From.X + (tr.To.X-tr.From.X)*e,
		Y: tr.From.Y + (tr.To.Y-tr.From.Y)*e,
		K: tr.From.K + (tr.To.K-tr.From.K)*e,
	}, false
}

func easeCubicInOut(t float64) float64 {
	t *= 2
	if t <= 1 {
		return t * t * t / 2
	}
	t -= 2
	return (t*t*t + 2) / 2
}
