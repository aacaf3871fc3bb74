package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/mindmap_viewer/pkg/analysis"
	"github.com/Dicklesworthstone/mindmap_viewer/pkg/export"
	"github.com/Dicklesworthstone/mindmap_viewer/pkg/model"
	"github.com/Dicklesworthstone/mindmap_viewer/pkg/tree"
)

// layoutOutput is the JSON written by `mmv layout`.
type layoutOutput struct {
	Topic         string       `json:"topic"`
	VirtualRootID string       `json:"virtual_root_id"`
	Width         float64      `json:"width"`
	Height        float64      `json:"height"`
	Nodes         []layoutNode `json:"nodes"`
	Edges         [][2]string  `json:"edges"`
}

type layoutNode struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Depth    int     `json:"depth"`
	RelDepth int     `json:"rel_depth"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	R        float64 `json:"r"`
}

func newLayoutCmd(root *rootOptions) *cobra.Command {
	var width, height float64
	var expandAll bool
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "run the layout to rest and print node positions as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newCLILogger(cmd.ErrOrStderr(), root.logLevel, root.logLevel != "")
			app, cfg, _, err := root.openApp(logger)
			if err != nil {
				return err
			}
			scene := export.BuildScene(app, export.SceneOptions{
				Width:     firstPositive(width, cfg.Canvas.Width),
				Height:    firstPositive(height, cfg.Canvas.Height),
				ExpandAll: expandAll,
				Params:    cfg.Layout,
				Fit:       cfg.Viewport,
			})
			return writeJSON(cmd.OutOrStdout(), sceneLayout(scene))
		},
	}
	cmd.Flags().Float64Var(&width, "width", 0, "layout width in pixels (default: config canvas.width)")
	cmd.Flags().Float64Var(&height, "height", 0, "layout height in pixels (default: config canvas.height)")
	cmd.Flags().BoolVar(&expandAll, "expand-all", false, "lay out every node, not just the expanded ones")
	return cmd
}

func sceneLayout(sc export.Scene) layoutOutput {
	out := layoutOutput{
		Topic:         sc.Topic,
		VirtualRootID: sc.VirtualRootID,
		Width:         sc.Width,
		Height:        sc.Height,
		Nodes:         make([]layoutNode, 0, len(sc.Nodes)),
		Edges:         make([][2]string, 0, len(sc.Edges)),
	}
	for _, n := range sc.Nodes {
		out.Nodes = append(out.Nodes, layoutNode{
			ID:       n.ID,
			Title:    n.Title,
			Depth:    n.Depth,
			RelDepth: n.RelDepth,
			X:        n.X,
			Y:        n.Y,
			R:        n.R,
		})
	}
	for _, e := range sc.Edges {
		out.Edges = append(out.Edges, [2]string{e.SourceID, e.TargetID})
	}
	return out
}

func newTopicsCmd(root *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "topics",
		Short: "list the topics in the document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newCLILogger(cmd.ErrOrStderr(), root.logLevel, root.logLevel != "")
			app, _, _, err := root.openApp(logger)
			if err != nil {
				return err
			}
			rows := topicRows(app.Topics())
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), rows)
			}
			return printTopics(cmd.OutOrStdout(), rows, app.CurrentTopic())
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

type topicRow struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Nodes int    `json:"nodes"`
	Depth int    `json:"depth"`
}

func topicRows(topics model.Topics) []topicRow {
	rows := make([]topicRow, 0, len(topics))
	for _, key := range topics.Keys() {
		root := topics[key]
		row := topicRow{Key: key, Nodes: tree.Count(root)}
		if root != nil {
			row.Title = root.Title
		}
		for _, n := range tree.Flatten(root) {
			row.Depth = max(row.Depth, n.Depth)
		}
		rows = append(rows, row)
	}
	return rows
}

func printTopics(w io.Writer, rows []topicRow, current string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tKEY\tTITLE\tNODES\tDEPTH")
	for _, r := range rows {
		mark := ""
		if r.Key == current {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n", mark, r.Key, r.Title, r.Nodes, r.Depth)
	}
	return tw.Flush()
}

// statsOutput is the JSON written by `mmv stats`.
type statsOutput struct {
	Topic string              `json:"topic"`
	Stats analysis.TopicStats `json:"stats"`
}

func newStatsCmd(root *rootOptions) *cobra.Command {
	var hubs int
	var all bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "print structural statistics for a topic as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newCLILogger(cmd.ErrOrStderr(), root.logLevel, root.logLevel != "")
			app, _, _, err := root.openApp(logger)
			if err != nil {
				return err
			}
			keys := []string{app.CurrentTopic()}
			if all {
				keys = app.TopicKeys()
			}
			out := make([]statsOutput, 0, len(keys))
			for _, key := range keys {
				out = append(out, statsOutput{Topic: key, Stats: analysis.Analyze(app.Topics()[key], hubs)})
			}
			if !all {
				return writeJSON(cmd.OutOrStdout(), out[0])
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().IntVar(&hubs, "hubs", 5, "number of hub nodes to list")
	cmd.Flags().BoolVar(&all, "all", false, "report every topic")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
