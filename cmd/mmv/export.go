package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/mindmap_viewer/pkg/config"
	"github.com/Dicklesworthstone/mindmap_viewer/pkg/export"
)

type exportOptions struct {
	formats   []string
	out       string
	expandAll bool
	width     float64
	height    float64
}

func newExportCmd(root *rootOptions) *cobra.Command {
	opts := &exportOptions{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "write the current topic as json, md, svg, png or html",
		Example: `
mmv export --format svg
mmv export --topic golang --format png --format html --out dist/ --expand-all
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newCLILogger(cmd.ErrOrStderr(), root.logLevel, root.logLevel != "")
			app, cfg, res, err := root.openApp(logger)
			if err != nil {
				return err
			}
			formats, err := exportFormats(opts.formats, cfg.Export.Formats)
			if err != nil {
				return err
			}
			sceneOpts := export.SceneOptions{
				Width:     firstPositive(opts.width, cfg.Export.Width),
				Height:    firstPositive(opts.height, cfg.Export.Height),
				ExpandAll: opts.expandAll,
				Params:    cfg.Layout,
				Fit:       cfg.Viewport,
			}
			scene := export.BuildScene(app, sceneOpts)
			dir := opts.out
			if dir == "" {
				dir = cfg.Export.Dir
			}
			paths, err := export.WriteBundle(cmd.Context(), dir, export.BundleOptions{
				Formats:  formats,
				Topics:   app.Topics(),
				Scene:    scene,
				Title:    app.CurrentTopic(),
				DataHash: res.Hash,
				Now:      time.Now(),
			})
			if err != nil {
				return err
			}
			logger.Info("export complete", "topic", app.CurrentTopic(), "files", len(paths))
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringSliceVarP(&opts.formats, "format", "f", nil, "output format, repeatable: "+strings.Join(config.ExportFormats, ", "))
	f.StringVarP(&opts.out, "out", "o", "", "output directory (default: config export.dir)")
	f.BoolVar(&opts.expandAll, "expand-all", false, "lay out every node, not just the expanded ones")
	f.Float64Var(&opts.width, "width", 0, "image width in pixels (default: config export.width)")
	f.Float64Var(&opts.height, "height", 0, "image height in pixels (default: config export.height)")
	return cmd
}

// exportFormats normalizes the requested formats, falling back to the
// configured ones. Duplicates are dropped and order is kept.
func exportFormats(requested, configured []string) ([]string, error) {
	src := requested
	if len(src) == 0 {
		src = configured
	}
	if len(src) == 0 {
		src = []string{export.FormatJSON}
	}
	seen := make(map[string]bool, len(src))
	out := make([]string, 0, len(src))
	for _, f := range src {
		f = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(f), "."))
		if f == "markdown" {
			f = export.FormatMarkdown
		}
		if !config.IsExportFormat(f) {
			return nil, fmt.Errorf("unknown export format %q (want one of %s)", f, strings.Join(config.ExportFormats, ", "))
		}
		if seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out, nil
}

func firstPositive(vals ...float64) float64 {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return 0
}
