// Package export renders mindmap topics to files: the JSON registry, a
// Markdown outline, and laid-out SVG, PNG and HTML pictures.
package export

import (
	"github.com/Dicklesworthstone/mindmap_viewer/pkg/layout"
	"github.com/Dicklesworthstone/mindmap_viewer/pkg/mindmap"
	"github.com/Dicklesworthstone/mindmap_viewer/pkg/model"
	"github.com/Dicklesworthstone/mindmap_viewer/pkg/tree"
	"github.com/Dicklesworthstone/mindmap_viewer/pkg/view"
)

// Scene is a fully laid-out picture of the visible part of one topic.
type Scene struct {
	Topic         string
	VirtualRootID string
	Nodes         []model.LayoutNode
	Edges         []model.Edge
	SelectedID    string
	// Path holds the selected node and its ancestors.
	Path     map[string]struct{}
	Expanded map[string]struct{}
	Width    float64
	Height   float64
	// Transform maps layout coordinates into the Width x Height frame.
	Transform layout.Transform
}

// SceneOptions controls BuildScene.
type SceneOptions struct {
	Width  float64
	Height float64
	// ExpandAll lays out every node instead of the app's expanded set. The
	// app itself is left untouched.
	ExpandAll bool
	Params    layout.Params
	Fit       layout.FitParams
	// Cache seeds positions from an earlier run when set.
	Cache *layout.PositionCache
}

// DefaultSceneOptions returns a 1600x1200 frame with default layout settings.
func DefaultSceneOptions() SceneOptions {
	return SceneOptions{
		Width:  1600,
		Height: 1200,
		Params: layout.DefaultParams(),
		Fit:    layout.DefaultFitParams(),
	}
}

// BuildScene runs the layout to completion for the app's current view.
func BuildScene(app *mindmap.App, opts SceneOptions) Scene {
	flat := app.FlatNodes()
	vroot := app.VirtualRootID()
	expanded := app.State().Expanded
	if opts.ExpandAll {
		expanded = make(map[string]struct{}, len(flat))
		for _, n := range flat {
			expanded[n.ID] = struct{}{}
		}
	}
	visible := view.VisibleNodes(flat, vroot, expanded)
	in := layout.Input{
		Nodes:         visible,
		Edges:         view.VisibleEdges(visible),
		VirtualRootID: vroot,
		Width:         opts.Width,
		Height:        opts.Height,
	}
	cache := opts.Cache
	if cache == nil {
		cache = layout.NewPositionCache()
	}
	nodes := layout.Layout(in, cache, opts.Params)

	path := make(map[string]struct{})
	if sel := app.SelectedID(); sel != "" {
		path[sel] = struct{}{}
		for _, id := range tree.AncestorIDs(sel, flat) {
			path[id] = struct{}{}
		}
	}
	return Scene{
		Topic:         app.CurrentTopic(),
		VirtualRootID: vroot,
		Nodes:         nodes,
		Edges:         in.Edges,
		SelectedID:    app.SelectedID(),
		Path:          path,
		Expanded:      expanded,
		Width:         opts.Width,
		Height:        opts.Height,
		Transform:     layout.Fit(nodes, opts.Width, opts.Height, opts.Fit),
	}
}

// node returns the laid-out node with the given id.
func (s Scene) node(id string) (model.LayoutNode, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return model.LayoutNode{}, false
}

func (s Scene) positions() map[string]model.LayoutNode {
	out := make(map[string]model.LayoutNode, len(s.Nodes))
	for _, n := range s.Nodes {
		out[n.ID] = n
	}
	return out
}

func (s Scene) onPath(id string) bool {
	_, ok := s.Path[id]
	return ok
}

func (s Scene) expanded(id string) bool {
	_, ok := s.Expanded[id]
	return ok
}

// edgeOnPath reports whether both ends of e are highlighted.
func (s Scene) edgeOnPath(e model.Edge) bool {
	return s.onPath(e.SourceID) && s.onPath(e.TargetID)
}

// badge returns the expand indicator for nodes with children, or "" for
// leaves.
func (s Scene) badge(n model.LayoutNode) string {
	if !n.HasChildren {
		return ""
	}
	if s.expanded(n.ID) {
		return "-"
	}
	return "+"
}

// Colors shared by the picture renderers.
const (
	backgroundColor = "#0f172a"
	edgeColor       = "#475569"
	pathColor       = "#fbbf24"
	labelColor      = "#0f172a"
	ringColor       = "#f8fafc"
	badgeFill       = "#1e293b"
	badgeText       = "#f8fafc"
)
