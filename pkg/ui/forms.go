package ui

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/Dicklesworthstone/mindmap_viewer/pkg/model"
)

// FormKind identifies what a NodeForm edits.
type FormKind int

const (
	FormAdd FormKind = iota
	FormEdit
	FormDelete
)

func (k FormKind) String() string {
	switch k {
	case FormAdd:
		return "add"
	case FormEdit:
		return "edit"
	case FormDelete:
		return "delete"
	default:
		return fmt.Sprintf("FormKind(%d)", int(k))
	}
}

// NodeFormResult is sent once a form completes or is cancelled.
type NodeFormResult struct {
	Kind FormKind
	// TargetID is the parent for FormAdd and the node itself otherwise.
	TargetID  string
	Title     string
	Summary   string
	Metadata  map[string]string
	Confirmed bool
	Cancelled bool
}

// NodeForm wraps a huh form. It must be kept by pointer since the form
// fields write through pointers into it.
type NodeForm struct {
	kind     FormKind
	targetID string
	form     *huh.Form

	title    string
	summary  string
	metadata string
	confirm  bool
}

var errTitleRequired = errors.New("title is required")

func validateTitle(s string) error {
	if strings.TrimSpace(s) == "" {
		return errTitleRequired
	}
	return nil
}

// NewAddForm asks for the title and summary of a new child of parent.
func NewAddForm(parent model.FlatNode, width int) *NodeForm {
	f := &NodeForm{kind: FormAdd, targetID: parent.ID}
	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("New child of %q", parent.Title)).
				Placeholder("Title").
				CharLimit(120).
				Value(&f.title).
				Validate(validateTitle),
			huh.NewText().
				Title("Summary").
				Lines(4).
				Value(&f.summary),
		),
	)
	f.configure(width)
	return f
}

// NewEditForm edits title, summary and metadata of node.
func NewEditForm(node model.FlatNode, width int) *NodeForm {
	f := &NodeForm{
		kind:     FormEdit,
		targetID: node.ID,
		title:    node.Title,
		summary:  node.Summary,
		metadata: formatMetadata(node.Metadata),
	}
	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				CharLimit(120).
				Value(&f.title).
				Validate(validateTitle),
			huh.NewText().
				Title("Summary").
				Lines(4).
				Value(&f.summary),
			huh.NewText().
				Title("Metadata (key: value per line)").
				Lines(3).
				Value(&f.metadata).
				Validate(func(s string) error {
					_, err := parseMetadata(s)
					return err
				}),
		),
	)
	f.configure(width)
	return f
}

// NewDeleteForm confirms removal of node and its subtree.
func NewDeleteForm(node model.FlatNode, descendants int, width int) *NodeForm {
	f := &NodeForm{kind: FormDelete, targetID: node.ID}
	desc := "This node has no children."
	if descendants > 0 {
		desc = fmt.Sprintf("Its %d descendant(s) are removed too.", descendants)
	}
	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %q?", node.Title)).
				Description(desc).
				Affirmative("Delete").
				Negative("Cancel").
				Value(&f.confirm),
		),
	)
	f.configure(width)
	return f
}

func (f *NodeForm) configure(width int) {
	f.form = f.form.
		WithTheme(huh.ThemeDracula()).
		WithShowHelp(true).
		WithWidth(max(30, min(width, 72)))
}

// Kind returns what the form edits.
func (f *NodeForm) Kind() FormKind { return f.kind }

// Init focuses the first field.
func (f *NodeForm) Init() tea.Cmd {
	return f.form.Init()
}

// Update forwards msg to the form. done is set once the form has finished,
// and the result describes the outcome.
func (f *NodeForm) Update(msg tea.Msg) (cmd tea.Cmd, result NodeFormResult, done bool) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		return nil, NodeFormResult{Kind: f.kind, TargetID: f.targetID, Cancelled: true}, true
	}
	m, cmd := f.form.Update(msg)
	if form, ok := m.(*huh.Form); ok {
		f.form = form
	}
	switch f.form.State {
	case huh.StateCompleted:
		return cmd, f.result(), true
	case huh.StateAborted:
		return cmd, NodeFormResult{Kind: f.kind, TargetID: f.targetID, Cancelled: true}, true
	}
	return cmd, NodeFormResult{}, false
}

func (f *NodeForm) result() NodeFormResult {
	res := NodeFormResult{
		Kind:      f.kind,
		TargetID:  f.targetID,
		Title:     strings.TrimSpace(f.title),
		Summary:   strings.TrimSpace(f.summary),
		Confirmed: f.confirm,
	}
	if f.kind == FormEdit {
		res.Metadata, _ = parseMetadata(f.metadata)
	}
	if f.kind == FormDelete && !f.confirm {
		res.Cancelled = true
	}
	return res
}

// View renders the form.
func (f *NodeForm) View() string {
	return f.form.View()
}

// Patch converts an edit result into a node patch. Metadata is always
// replaced so removed lines delete keys.
func (r NodeFormResult) Patch() model.NodePatch {
	title, summary := r.Title, r.Summary
	md := r.Metadata
	if md == nil {
		md = map[string]string{}
	}
	return model.NodePatch{Title: &title, Summary: &summary, Metadata: md}
}

func formatMetadata(md map[string]string) string {
	var sb strings.Builder
	for _, k := range slices.Sorted(maps.Keys(md)) {
		sb.WriteString(k + ": " + md[k] + "\n")
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// parseMetadata reads "key: value" lines. Blank lines are skipped.
func parseMetadata(s string) (map[string]string, error) {
	out := make(map[string]string)
	for i, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		k, v, ok := strings.Cut(line, ":")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("line %d: expected key: value", i+1)
		}
		out[k] = strings.TrimSpace(v)
	}
	return out, nil
}
