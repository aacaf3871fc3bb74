// Package layout positions visible mindmap nodes with an iterative
// force-directed simulation and keeps positions stable across runs.
package layout

// Palette colors nodes by depth below the virtual root. Depths past the end
// reuse the last entry.
var Palette = []string{"#6eb5ff", "#6abe6a", "#f5a623", "#a78bfa", "#f472b6", "#38bdf8"}

// Node radii in pixels by relative depth.
const (
	RootRadius  = 60.0
	ChildRadius = 45.0
	LeafRadius  = 35.0
)

// Label font sizes in pixels.
const (
	RootFontSize = 14.0
	NodeFontSize = 11.0
)

// Radius returns the node radius for a relative depth.
func Radius(relDepth int) float64 {
	switch {
	case relDepth <= 0:
		return RootRadius
	case relDepth == 1:
		return ChildRadius
	default:
		return LeafRadius
	}
}

// Color returns the palette color for a relative depth.
func Color(relDepth int) string {
	return ColorFrom(Palette, relDepth)
}

// ColorFrom picks from a custom palette, clamping at its last entry.
func ColorFrom(palette []string, relDepth int) string {
	if len(palette) == 0 {
		return Palette[0]
	}
	if relDepth < 0 {
		relDepth = 0
	}
	if relDepth >= len(palette) {
		relDepth = len(palette) - 1
	}
	return palette[relDepth]
}

// FontSize returns the label size: larger for the virtual root.
func FontSize(relDepth int) float64 {
	if relDepth == 0 {
		return RootFontSize
	}
	return NodeFontSize
}
