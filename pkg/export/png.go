package export

import (
	"fmt"
	"io"
	"math"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font/basicfont"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/Dicklesworthstone/mindmap_viewer/pkg/layout"
)

// PNG rasterizes the scene. Labels use the fixed 7x13 bitmap face, so they
// are wrapped with the pixel measurer at the face's native size.
func PNG(w io.Writer, sc Scene) error {
	width, height := int(math.Round(sc.Width)), int(math.Round(sc.Height))
	if width <= 0 || height <= 0 {
		return fmt.Errorf("png: invalid size %dx%d", width, height)
	}
	dc := gg.NewContext(width, height)
	dc.SetHexColor(backgroundColor)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	t := sc.Transform
	dc.Push()
	dc.Translate(t.X, t.Y)
	dc.Scale(t.K, t.K)

	pos := sc.positions()
	dc.SetLineCapRound()
	for _, e := range sc.Edges {
		src, ok1 := pos[e.SourceID]
		dst, ok2 := pos[e.TargetID]
		if !ok1 || !ok2 {
			continue
		}
		if sc.edgeOnPath(e) {
			dc.SetHexColor(pathColor)
			dc.SetLineWidth(4 * t.K)
		} else {
			dc.SetHexColor(edgeColor)
			dc.SetLineWidth(2 * t.K)
		}
		dc.DrawLine(src.X, src.Y, dst.X, dst.Y)
		dc.Stroke()
	}

	m := layout.NewPixelMeasurer()
	for _, n := range sc.Nodes {
		dc.DrawCircle(n.X, n.Y, n.R)
		dc.SetHexColor(n.Color)
		dc.FillPreserve()
		switch {
		case n.ID == sc.SelectedID:
			dc.SetHexColor(ringColor)
			dc.SetLineWidth(4 * t.K)
		case sc.onPath(n.ID):
			dc.SetHexColor(pathColor)
			dc.SetLineWidth(3 * t.K)
		default:
			dc.SetLineWidth(2 * t.K)
		}
		dc.Stroke()

		if b := sc.badge(n); b != "" {
			bx, by := badgePos(n.X, n.Y, n.R)
			dc.DrawCircle(bx, by, 9)
			dc.SetHexColor(badgeFill)
			dc.Fill()
			dc.SetHexColor(badgeText)
			dc.DrawStringAnchored(b, bx, by, 0.5, 0.35)
		}
	}
	dc.Pop()

	// Text is drawn in screen space: the bitmap face does not scale.
	dc.SetHexColor(labelColor)
	for _, n := range sc.Nodes {
		label := layout.WrapLabel(n.Title, n.R*t.K, 13, m)
		lh := dc.FontHeight() + 2
		top := -float64(len(label.Lines))*lh/2 + lh/2
		center := t.Apply(r2.Vec{X: n.X, Y: n.Y})
		for i, line := range label.Lines {
			dc.DrawStringAnchored(line, center.X, center.Y+top+float64(i)*lh, 0.5, 0.35)
		}
	}
	return dc.EncodePNG(w)
}
