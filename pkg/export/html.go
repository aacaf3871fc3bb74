package export

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"time"

	json "github.com/goccy/go-json"
)

// HTMLOptions configures the interactive page.
type HTMLOptions struct {
	Title     string
	DataHash  string
	Generated time.Time
}

// pageNode is the per-node payload the page script uses for the detail panel.
type pageNode struct {
	ID       string            `json:"id"`
	Title    string            `json:"title"`
	Summary  string            `json:"summary,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Depth    int               `json:"depth"`
	Parent   string            `json:"parent,omitempty"`
}

// HTML writes a self-contained page showing the scene's SVG with pan, zoom
// and a click-to-inspect side panel.
func HTML(w io.Writer, sc Scene, opts HTMLOptions) error {
	var pic bytes.Buffer
	if err := SVG(&pic, sc); err != nil {
		return fmt.Errorf("render svg: %w", err)
	}

	nodes := make([]pageNode, 0, len(sc.Nodes))
	for _, n := range sc.Nodes {
		nodes = append(nodes, pageNode{
			ID:       n.ID,
			Title:    n.Title,
			Summary:  n.Summary,
			Metadata: n.Metadata,
			Depth:    n.Depth,
			Parent:   n.ParentID,
		})
	}
	data, err := json.Marshal(nodes)
	if err != nil {
		return fmt.Errorf("marshal nodes: %w", err)
	}

	title := opts.Title
	if title == "" {
		title = sc.Topic
	}
	generated := opts.Generated
	if generated.IsZero() {
		generated = time.Now()
	}
	hash := opts.DataHash
	if len(hash) > 12 {
		hash = hash[:12]
	}

	_, err = fmt.Fprintf(w, pageTemplate,
		html.EscapeString(title),
		html.EscapeString(title),
		len(sc.Nodes), len(sc.Edges),
		pic.String(),
		generated.Format("2006-01-02 15:04:05"),
		html.EscapeString(hash),
		string(data),
	)
	return err
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s | mmv</title>
    <style>
        :root {
            --bg: #0f172a;
            --bg-secondary: #1e293b;
            --fg: #f8fafc;
            --fg-muted: #94a3b8;
            --accent: #6eb5ff;
            --path: #fbbf24;
        }
        * { box-sizing: border-box; margin: 0; padding: 0; }
        body {
            font-family: ui-monospace, 'JetBrains Mono', monospace;
            background: var(--bg); color: var(--fg);
            height: 100vh; display: flex; flex-direction: column; overflow: hidden;
        }
        header {
            padding: 0.6rem 1.25rem; display: flex; justify-content: space-between;
            align-items: center; border-bottom: 2px solid var(--accent);
            background: var(--bg-secondary);
        }
        h1 { font-size: 1.1rem; font-weight: 600; }
        .counts { font-size: 0.7rem; color: var(--fg-muted); }
        main { flex: 1; display: flex; overflow: hidden; }
        #stage { flex: 1; overflow: hidden; cursor: grab; }
        #stage svg { width: 100%%; height: 100%%; }
        #stage g[id] > circle { cursor: pointer; }
        #sidebar {
            width: 300px; background: var(--bg-secondary); border-left: 2px solid var(--accent);
            overflow-y: auto; padding: 1rem; font-size: 0.75rem; line-height: 1.5;
        }
        #sidebar h2 { font-size: 0.9rem; color: var(--accent); margin-bottom: 0.5rem; }
        #sidebar .muted { color: var(--fg-muted); }
        #sidebar dl { margin-top: 0.75rem; display: grid; grid-template-columns: auto 1fr; gap: 0.25rem 0.75rem; }
        #sidebar dt { color: var(--fg-muted); }
        footer {
            padding: 0.4rem 1rem; font-size: 0.6rem; color: var(--fg-muted);
            display: flex; justify-content: space-between; border-top: 1px solid var(--bg-secondary);
        }
    </style>
</head>
<body>
<header>
    <h1>%s</h1>
    <span class="counts">%d nodes &middot; %d edges &middot; scroll to zoom, drag to pan</span>
</header>
<main>
    <div id="stage">%s</div>
    <aside id="sidebar"><p class="muted">Click a node to inspect it.</p></aside>
</main>
<footer><span>Generated %s</span><span>data %s</span></footer>
<script>
const NODES = %s;
const byId = Object.fromEntries(NODES.map(n => [n.id, n]));
const stage = document.getElementById('stage');
const svg = stage.querySelector('svg');
const sidebar = document.getElementById('sidebar');
let vb = [0, 0, svg.width.baseVal.value, svg.height.baseVal.value];
const apply = () => svg.setAttribute('viewBox', vb.join(' '));
apply();
stage.addEventListener('wheel', e => {
    e.preventDefault();
    const k = e.deltaY < 0 ? 0.8 : 1.25;
    const r = svg.getBoundingClientRect();
    const mx = vb[0] + (e.clientX - r.left) / r.width * vb[2];
    const my = vb[1] + (e.clientY - r.top) / r.height * vb[3];
    vb = [mx - (mx - vb[0]) * k, my - (my - vb[1]) * k, vb[2] * k, vb[3] * k];
    apply();
}, { passive: false });
let drag = null;
stage.addEventListener('mousedown', e => { drag = [e.clientX, e.clientY]; });
window.addEventListener('mouseup', () => { drag = null; });
window.addEventListener('mousemove', e => {
    if (!drag) return;
    const r = svg.getBoundingClientRect();
    vb[0] -= (e.clientX - drag[0]) / r.width * vb[2];
    vb[1] -= (e.clientY - drag[1]) / r.height * vb[3];
    drag = [e.clientX, e.clientY];
    apply();
});
const esc = s => String(s).replace(/[&<>"]/g, c => ({'&':'&amp;','<':'&lt;','>':'&gt;','"':'&quot;'})[c]);
svg.querySelectorAll('#nodes > g[id]').forEach(g => {
    g.addEventListener('click', () => {
        const n = byId[g.id];
        if (!n) return;
        let out = '<h2>' + esc(n.title) + '</h2>';
        out += n.summary ? '<p>' + esc(n.summary) + '</p>' : '<p class="muted">No summary.</p>';
        out += '<dl><dt>id</dt><dd>' + esc(n.id) + '</dd><dt>depth</dt><dd>' + n.depth + '</dd>';
        if (n.parent && byId[n.parent]) out += '<dt>parent</dt><dd>' + esc(byId[n.parent].title) + '</dd>';
        for (const [k, v] of Object.entries(n.metadata || {})) out += '<dt>' + esc(k) + '</dt><dd>' + esc(v) + '</dd>';
        sidebar.innerHTML = out + '</dl>';
    });
});
</script>
</body>
</html>
`
