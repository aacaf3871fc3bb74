package layout

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Spiral returns the deterministic seed position for the i-th node in
// traversal order: the angle grows by half a radian and the distance by five
// pixels per step, starting 50 pixels from center.
func Spiral(i int, center r2.Vec) r2.Vec {
	angle := float64(i) * 0.5
	dist := 50 + float64(i)*5
	return r2.Vec{
		X: center.X + math.Cos(angle)*dist,
		Y: center.Y + math.Sin(angle)*dist,
	}
}
