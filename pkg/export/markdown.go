package export

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/Dicklesworthstone/mindmap_viewer/pkg/analysis"
	"github.com/Dicklesworthstone/mindmap_viewer/pkg/model"
)

// GenerateMarkdown renders every topic as a Mermaid mindmap followed by a
// nested bullet outline.
func GenerateMarkdown(topics model.Topics, title string, generated time.Time) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", title)
	fmt.Fprintf(&sb, "Generated: %s\n\n", generated.Format(time.RFC1123))

	keys := topics.Keys()
	sb.WriteString("## Summary\n\n")
	fmt.Fprintf(&sb, "| Topic | Nodes | Leaves | Max depth |\n")
	sb.WriteString("|---|---|---|---|\n")
	for _, key := range keys {
		st := analysis.Analyze(topics[key], 0)
		fmt.Fprintf(&sb, "| [%s](#%s) | %d | %d | %d |\n", topicTitle(key, topics[key]), anchor(key), st.Nodes, st.Leaves, st.MaxDepth)
	}
	sb.WriteString("\n---\n\n")

	for _, key := range keys {
		root := topics[key]
		fmt.Fprintf(&sb, "## %s\n\n", key)
		if root == nil {
			sb.WriteString("_empty topic_\n\n")
			continue
		}

		sb.WriteString("```mermaid\nmindmap\n")
		writeMermaid(&sb, root, 1, true)
		sb.WriteString("```\n\n")

		writeOutline(&sb, root, 0)
		sb.WriteString("\n---\n\n")
	}
	return sb.String()
}

// SaveMarkdownToFile writes the generated outline to filename.
func SaveMarkdownToFile(topics model.Topics, title, filename string) error {
	content := GenerateMarkdown(topics, title, time.Now())
	return os.WriteFile(filename, []byte(content), 0o644)
}

func writeMermaid(sb *strings.Builder, n *model.TreeNode, level int, root bool) {
	indent := strings.Repeat("  ", level)
	label := mermaidLabel(n.Title)
	if root {
		fmt.Fprintf(sb, "%sroot((%s))\n", indent, label)
	} else {
		fmt.Fprintf(sb, "%s%s\n", indent, label)
	}
	for _, c := range n.Children {
		writeMermaid(sb, c, level+1, false)
	}
}

func writeOutline(sb *strings.Builder, n *model.TreeNode, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(sb, "%s- **%s**", indent, n.Title)
	if n.Summary != "" {
		fmt.Fprintf(sb, ": %s", strings.ReplaceAll(n.Summary, "\n", " "))
	}
	sb.WriteString("\n")
	if len(n.Metadata) > 0 {
		keys := make([]string, 0, len(n.Metadata))
		for k := range n.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(sb, "%s  - _%s_: %s\n", indent, k, n.Metadata[k])
		}
	}
	for _, c := range n.Children {
		writeOutline(sb, c, depth+1)
	}
}

// mermaidLabel strips the characters Mermaid reads as node shapes and
// truncates long titles.
func mermaidLabel(title string) string {
	s := strings.NewReplacer(
		"\"", "'",
		"(", "", ")", "",
		"[", "", "]", "",
		"{", "", "}", "",
		"\n", " ",
	).Replace(title)
	s = strings.TrimSpace(s)
	if r := []rune(s); len(r) > 40 {
		s = string(r[:37]) + "..."
	}
	if s == "" {
		s = "untitled"
	}
	return s
}

func topicTitle(key string, root *model.TreeNode) string {
	if root == nil || root.Title == "" {
		return key
	}
	return root.Title
}

// anchor approximates the heading slug most renderers generate.
func anchor(key string) string {
	return strings.ToLower(strings.ReplaceAll(key, " ", "-"))
}
