package main_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

const e2eDoc = `{
  "databases": {
    "id": "db", "title": "Databases",
    "children": [
      {"id": "sql", "title": "SQL", "children": [
        {"id": "pg", "title": "PostgreSQL", "summary": "MVCC, extensible"},
        {"id": "sqlite", "title": "SQLite"}
      ]},
      {"id": "kv", "title": "Key-value", "children": [{"id": "redis", "title": "Redis"}]}
    ]
  },
  "networking": {"id": "net", "title": "Networking", "children": [{"id": "tcp", "title": "TCP"}]}
}`

func TestEndToEndVersion(t *testing.T) {
	env := newEnv(t, e2eDoc)
	out, err := runMmv(t, env, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, "mmv ") {
		t.Errorf("unexpected version output %q", out)
	}
}

func TestEndToEndTopics(t *testing.T) {
	env := newEnv(t, e2eDoc)
	out, err := runMmv(t, env, "topics", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var rows []struct {
		Key   string `json:"key"`
		Nodes int    `json:"nodes"`
	}
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("bad JSON %q: %v", out, err)
	}
	if len(rows) != 2 || rows[0].Key != "databases" || rows[0].Nodes != 6 || rows[1].Nodes != 2 {
		t.Errorf("rows = %+v", rows)
	}
}

func TestEndToEndExportBundle(t *testing.T) {
	env := newEnv(t, e2eDoc)
	out, err := runMmv(t, env, "export", "--topic", "databases", "--expand-all",
		"--format", "json", "--format", "md", "--format", "svg", "--format", "png", "--format", "html",
		"--out", "dist")
	if err != nil {
		t.Fatal(err)
	}
	paths := strings.Fields(out)
	if len(paths) != 5 {
		t.Fatalf("expected 5 files, got %v", paths)
	}
	for _, p := range paths {
		if !strings.HasPrefix(filepath.Base(p), "databases_") {
			t.Errorf("unexpected file name %s", p)
		}
		full := p
		if !filepath.IsAbs(full) {
			full = filepath.Join(env, p)
		}
		data, err := os.ReadFile(full)
		if err != nil {
			t.Fatalf("read %s: %v", p, err)
		}
		switch filepath.Ext(p) {
		case ".json":
			var doc map[string]json.RawMessage
			if err := json.Unmarshal(data, &doc); err != nil || len(doc) != 2 {
				t.Errorf("json export not a 2-topic document: %v", err)
			}
		case ".svg":
			if !strings.Contains(string(data), "PostgreSQL") {
				t.Error("expanded svg is missing a leaf title")
			}
		case ".png":
			if len(data) < 8 || string(data[1:4]) != "PNG" {
				t.Error("png export has no PNG signature")
			}
		case ".html":
			if !strings.Contains(strings.ToLower(string(data)), "<html") {
				t.Error("html export is not a page")
			}
		case ".md":
			if !strings.Contains(string(data), "Networking") {
				t.Error("markdown export is missing a topic")
			}
		}
	}
}

func TestEndToEndStatsAndLayout(t *testing.T) {
	env := newEnv(t, e2eDoc)
	out, err := runMmv(t, env, "stats", "--topic", "databases")
	if err != nil {
		t.Fatal(err)
	}
	var stats struct {
		Topic string `json:"topic"`
		Stats struct {
			Nodes    int `json:"nodes"`
			MaxDepth int `json:"max_depth"`
		} `json:"stats"`
	}
	if err := json.Unmarshal([]byte(out), &stats); err != nil {
		t.Fatal(err)
	}
	if stats.Stats.Nodes != 6 || stats.Stats.MaxDepth != 2 {
		t.Errorf("stats = %+v", stats)
	}

	out, err = runMmv(t, env, "layout", "--topic", "networking")
	if err != nil {
		t.Fatal(err)
	}
	var layout struct {
		Nodes []struct {
			ID string  `json:"id"`
			X  float64 `json:"x"`
		} `json:"nodes"`
	}
	if err := json.Unmarshal([]byte(out), &layout); err != nil {
		t.Fatal(err)
	}
	if len(layout.Nodes) != 2 {
		t.Errorf("networking layout has %d nodes, want 2", len(layout.Nodes))
	}
}

func TestEndToEndViewerNeedsTerminal(t *testing.T) {
	env := newEnv(t, e2eDoc)
	if _, err := runMmv(t, env); err == nil || !strings.Contains(err.Error(), "not a terminal") {
		t.Fatalf("expected terminal error, got %v", err)
	}
}

func TestEndToEndBadDocument(t *testing.T) {
	env := newEnv(t, `{"broken": `)
	if _, err := runMmv(t, env, "topics"); err == nil {
		t.Fatal("expected failure on malformed document")
	}
}
