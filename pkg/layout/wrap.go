package layout

import "strings"

// Label is a node title broken into lines that fit inside the node circle.
type Label struct {
	Lines      []string
	FontSize   float64
	LineHeight float64
	// OffsetY shifts the first line so the block is vertically centered on
	// the node.
	OffsetY float64
}

// Height returns the total block height.
func (l Label) Height() float64 {
	return float64(len(l.Lines)) * l.LineHeight
}

// LabelBudget returns the maximum line width for a node of radius r.
func LabelBudget(r float64) float64 {
	return r * 1.6
}

// WrapLabel packs the words of title greedily into lines no wider than the
// budget for radius r. A word that alone exceeds the budget stays on its own
// line rather than being split.
func WrapLabel(title string, r, fontSize float64, m Measurer) Label {
	return WrapWidth(title, LabelBudget(r), fontSize, fontSize+2, m)
}

// WrapWidth is WrapLabel with an explicit width budget and line height.
func WrapWidth(title string, budget, fontSize, lineHeight float64, m Measurer) Label {
	words := strings.Fields(title)
	lines := []string{}
	var line []string
	for _, word := range words {
		line = append(line, word)
		if len(line) > 1 && m.Width(strings.Join(line, " "), fontSize) > budget {
			lines = append(lines, strings.Join(line[:len(line)-1], " "))
			line = []string{word}
		}
	}
	if len(line) > 0 || len(lines) == 0 {
		lines = append(lines, strings.Join(line, " "))
	}
	total := float64(len(lines)) * lineHeight
	return Label{
		Lines:      lines,
		FontSize:   fontSize,
		LineHeight: lineHeight,
		OffsetY:    -total/2 + lineHeight/2,
	}
}
