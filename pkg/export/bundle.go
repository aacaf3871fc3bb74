package export

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Dicklesworthstone/mindmap_viewer/pkg/model"
)

// Format names accepted by WriteBundle.
const (
	FormatJSON     = "json"
	FormatMarkdown = "md"
	FormatSVG      = "svg"
	FormatPNG      = "png"
	FormatHTML     = "html"
)

// BundleOptions selects what WriteBundle produces.
type BundleOptions struct {
	Formats []string
	// Topics is exported whole for json and md.
	Topics model.Topics
	// Scene is rendered for svg, png and html.
	Scene    Scene
	Title    string
	DataHash string
	Now      time.Time
}

// Filename builds {topic}_{YYYYMMDD_HHMMSS}.{ext}.
func Filename(topic, ext string, now time.Time) string {
	safe := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_").Replace(topic)
	if safe == "" {
		safe = "mindmap"
	}
	return fmt.Sprintf("%s_%s.%s", safe, now.Format("20060102_150405"), ext)
}

// WriteBundle writes each requested format into dir concurrently and returns
// the written paths in the order of opts.Formats. The first failure cancels
// the remaining writers.
func WriteBundle(ctx context.Context, dir string, opts BundleOptions) ([]string, error) {
	if len(opts.Formats) == 0 {
		return nil, fmt.Errorf("no export formats selected")
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create dir: %w", err)
	}

	paths := make([]string, len(opts.Formats))
	g, ctx := errgroup.WithContext(ctx)
	for i, format := range opts.Formats {
		render, err := renderer(format, opts, now)
		if err != nil {
			return nil, err
		}
		path := filepath.Join(dir, Filename(opts.Scene.Topic, format, now))
		paths[i] = path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := writeFile(path, render); err != nil {
				return fmt.Errorf("export %s: %w", format, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

func renderer(format string, opts BundleOptions, now time.Time) (func(io.Writer) error, error) {
	title := opts.Title
	if title == "" {
		title = "Mindmap Export"
	}
	switch format {
	case FormatJSON:
		return func(w io.Writer) error {
			data, err := JSON(opts.Topics)
			if err != nil {
				return err
			}
			_, err = w.Write(data)
			return err
		}, nil
	case FormatMarkdown:
		return func(w io.Writer) error {
			_, err := io.WriteString(w, GenerateMarkdown(opts.Topics, title, now))
			return err
		}, nil
	case FormatSVG:
		return func(w io.Writer) error { return SVG(w, opts.Scene) }, nil
	case FormatPNG:
		return func(w io.Writer) error { return PNG(w, opts.Scene) }, nil
	case FormatHTML:
		return func(w io.Writer) error {
			return HTML(w, opts.Scene, HTMLOptions{Title: opts.Title, DataHash: opts.DataHash, Generated: now})
		}, nil
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}

// writeFile renders into a temp file beside path and renames it into place.
func writeFile(path string, render func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".mmv-export-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	bw := bufio.NewWriter(tmp)
	if err := render(bw); err != nil {
		tmp.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// WriteJSONFile writes the registry to path, the quick-export action.
func WriteJSONFile(path string, topics model.Topics) error {
	return writeFile(path, func(w io.Writer) error {
		data, err := JSON(topics)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	})
}
