package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/Dicklesworthstone/mindmap_viewer/pkg/model"
)

const sampleDoc = `{
  "go": {
    "id": "root", "title": "Go",
    "children": [
      {"id": "chan", "title": "Channels", "summary": "CSP style"},
      {"id": "gc", "title": "GC", "children": [{"id": "tri", "title": "Tri-color"}]}
    ]
  },
  "rust": {"id": "r", "title": "Rust"}
}`

// writeSample puts a document in a fresh working directory and returns its path.
func writeSample(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "mindmap-data.json")
	if err := os.WriteFile(path, []byte(sampleDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"debug", slog.LevelDebug, false},
		{"WARN", slog.LevelWarn, false},
		{" warning ", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := parseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseLevel(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestExportFormats(t *testing.T) {
	tests := []struct {
		name       string
		requested  []string
		configured []string
		want       string
		wantErr    bool
	}{
		{"flag wins", []string{"svg"}, []string{"png"}, "svg", false},
		{"config fallback", nil, []string{"png", "html"}, "png,html", false},
		{"json default", nil, nil, "json", false},
		{"normalized", []string{".SVG", "markdown", "svg"}, nil, "svg,md", false},
		{"unknown", []string{"pdf"}, nil, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := exportFormats(tt.requested, tt.configured)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if strings.Join(got, ",") != tt.want {
				t.Errorf("got %v, want %s", got, tt.want)
			}
		})
	}
}

func TestFirstPositive(t *testing.T) {
	if got := firstPositive(0, -2, 640, 800); got != 640 {
		t.Errorf("firstPositive = %v, want 640", got)
	}
	if got := firstPositive(0); got != 0 {
		t.Errorf("firstPositive(0) = %v, want 0", got)
	}
}

func TestTopicRows(t *testing.T) {
	topics := model.Topics{
		"b": {ID: "b", Title: "Bee", Children: []*model.TreeNode{{ID: "b1", Children: []*model.TreeNode{{ID: "b2"}}}}},
		"a": {ID: "a", Title: "Ay"},
	}
	rows := topicRows(topics)
	if len(rows) != 2 || rows[0].Key != "a" || rows[1].Key != "b" {
		t.Fatalf("rows = %+v, want a then b", rows)
	}
	if rows[1].Nodes != 3 || rows[1].Depth != 2 {
		t.Errorf("b row = %+v, want 3 nodes depth 2", rows[1])
	}

	var buf bytes.Buffer
	if err := printTopics(&buf, rows, "b"); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[2], "*") || strings.HasPrefix(lines[1], "*") {
		t.Errorf("current topic not marked:\n%s", buf.String())
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := runCmd(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "mmv ") {
		t.Errorf("version output = %q", out)
	}
}

func TestTopicsCommandJSON(t *testing.T) {
	writeSample(t)
	out, err := runCmd(t, "topics", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var rows []topicRow
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if len(rows) != 2 || rows[0].Key != "go" || rows[0].Nodes != 4 {
		t.Errorf("rows = %+v", rows)
	}
}

func TestLayoutCommand(t *testing.T) {
	path := writeSample(t)
	out, err := runCmd(t, "layout", "--data", path, "--topic", "go", "--width", "800", "--height", "600")
	if err != nil {
		t.Fatal(err)
	}
	var got layoutOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Topic != "go" || got.VirtualRootID != "root" {
		t.Errorf("topic = %q vroot = %q", got.Topic, got.VirtualRootID)
	}
	// Only the root and its children are expanded by default.
	if len(got.Nodes) != 3 || len(got.Edges) != 2 {
		t.Errorf("got %d nodes %d edges, want 3 and 2", len(got.Nodes), len(got.Edges))
	}
	for _, n := range got.Nodes {
		if n.R <= 0 {
			t.Errorf("node %s has radius %v", n.ID, n.R)
		}
	}
}

func TestLayoutCommandExpandAll(t *testing.T) {
	writeSample(t)
	out, err := runCmd(t, "layout", "--expand-all")
	if err != nil {
		t.Fatal(err)
	}
	var got layoutOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Nodes) != 4 {
		t.Errorf("got %d nodes, want 4", len(got.Nodes))
	}
}

func TestUnknownTopicFails(t *testing.T) {
	writeSample(t)
	if _, err := runCmd(t, "layout", "--topic", "cobol"); err == nil {
		t.Fatal("expected error for unknown topic")
	}
}

func TestStatsCommand(t *testing.T) {
	writeSample(t)
	out, err := runCmd(t, "stats", "--topic", "go")
	if err != nil {
		t.Fatal(err)
	}
	var got statsOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatal(err)
	}
	if got.Topic != "go" || got.Stats.Nodes != 4 || got.Stats.Leaves != 2 || got.Stats.MaxDepth != 2 {
		t.Errorf("stats = %+v", got)
	}
}

func TestExportCommand(t *testing.T) {
	writeSample(t)
	outDir := filepath.Join(t.TempDir(), "dist")
	out, err := runCmd(t, "export", "--format", "json", "--format", "svg", "--format", "md", "--out", outDir)
	if err != nil {
		t.Fatal(err)
	}
	paths := strings.Fields(out)
	if len(paths) != 3 {
		t.Fatalf("got paths %v", paths)
	}
	for i, ext := range []string{".json", ".svg", ".md"} {
		if filepath.Ext(paths[i]) != ext {
			t.Errorf("path %d = %s, want %s", i, paths[i], ext)
		}
		info, err := os.Stat(paths[i])
		if err != nil || info.Size() == 0 {
			t.Errorf("%s missing or empty: %v", paths[i], err)
		}
	}
	svg, _ := os.ReadFile(paths[1])
	if !strings.Contains(string(svg), "<svg") {
		t.Error("svg export has no <svg> element")
	}
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	writeSample(t)
	if _, err := runCmd(t, "export", "--format", "pdf", "--out", t.TempDir()); err == nil {
		t.Fatal("expected error for pdf")
	}
}

func TestRootRequiresTerminal(t *testing.T) {
	writeSample(t)
	if _, err := runCmd(t); err != errNotTerminal {
		t.Fatalf("err = %v, want errNotTerminal", err)
	}
}

func TestMissingDocument(t *testing.T) {
	t.Chdir(t.TempDir())
	if _, err := runCmd(t, "topics"); err == nil {
		t.Fatal("expected error without a document")
	}
}
