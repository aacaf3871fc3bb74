package export

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/Dicklesworthstone/mindmap_viewer/pkg/layout"
)

// errWriter remembers the first write error so renderers built on
// fire-and-forget drawing APIs can still report it.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}

// SVG writes the scene as a standalone SVG document. Node summaries become
// <title> tooltips.
func SVG(w io.Writer, sc Scene) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	width, height := int(math.Round(sc.Width)), int(math.Round(sc.Height))
	canvas.Start(width, height)
	canvas.Title(sc.Topic)
	canvas.Rect(0, 0, width, height, "fill:"+backgroundColor)

	t := sc.Transform
	canvas.Gtransform(fmt.Sprintf("translate(%.2f,%.2f) scale(%.4f)", t.X, t.Y, t.K))

	pos := sc.positions()
	canvas.Group(`id="edges"`, "stroke-linecap:round")
	for _, e := range sc.Edges {
		src, ok1 := pos[e.SourceID]
		dst, ok2 := pos[e.TargetID]
		if !ok1 || !ok2 {
			continue
		}
		style := "stroke:" + edgeColor + ";stroke-width:2"
		if sc.edgeOnPath(e) {
			style = "stroke:" + pathColor + ";stroke-width:4"
		}
		canvas.Line(px(src.X), px(src.Y), px(dst.X), px(dst.Y), style)
	}
	canvas.Gend()

	m := layout.NewPixelMeasurer()
	canvas.Group(`id="nodes"`, "font-family:sans-serif;text-anchor:middle")
	for _, n := range sc.Nodes {
		canvas.Gid(n.ID)
		tip := n.Title
		if n.Summary != "" {
			tip = n.Title + ": " + n.Summary
		}
		canvas.Title(tip)

		stroke := "stroke:" + n.Color + ";stroke-width:2"
		switch {
		case n.ID == sc.SelectedID:
			stroke = "stroke:" + ringColor + ";stroke-width:4"
		case sc.onPath(n.ID):
			stroke = "stroke:" + pathColor + ";stroke-width:3"
		}
		canvas.Circle(px(n.X), px(n.Y), px(n.R), "fill:"+n.Color+";"+stroke)

		label := layout.WrapLabel(n.Title, n.R, layout.FontSize(n.RelDepth), m)
		weight := "normal"
		if n.RelDepth == 0 {
			weight = "bold"
		}
		for i, line := range label.Lines {
			y := n.Y + label.OffsetY + float64(i)*label.LineHeight
			canvas.Text(px(n.X), px(y), line,
				fmt.Sprintf("fill:%s;font-size:%gpx;font-weight:%s;dominant-baseline:middle", labelColor, label.FontSize, weight))
		}

		if b := sc.badge(n); b != "" {
			bx, by := badgePos(n.X, n.Y, n.R)
			canvas.Circle(px(bx), px(by), 9, "fill:"+badgeFill+";stroke:"+n.Color+";stroke-width:1.5")
			canvas.Text(px(bx), px(by), b, "fill:"+badgeText+";font-size:12px;dominant-baseline:middle")
		}
		canvas.Gend()
	}
	canvas.Gend()

	canvas.Gend()
	canvas.End()
	return ew.err
}

// badgePos places the expand indicator on the lower-right rim of a node.
func badgePos(x, y, r float64) (float64, float64) {
	d := r * math.Sqrt2 / 2
	return x + d, y + d
}

func px(v float64) int { return int(math.Round(v)) }
