package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Dicklesworthstone/mindmap_viewer/pkg/export"
	"github.com/Dicklesworthstone/mindmap_viewer/pkg/model"
)

// ExportOperation represents the kind of export performed
type ExportOperation int

const (
	ExportOpJSON ExportOperation = iota
	ExportOpBundle
	ExportOpCopyID
	ExportOpCopyJSON
)

func (op ExportOperation) String() string {
	switch op {
	case ExportOpJSON:
		return "export json"
	case ExportOpBundle:
		return "export"
	case ExportOpCopyID:
		return "copy id"
	case ExportOpCopyJSON:
		return "copy json"
	default:
		return fmt.Sprintf("ExportOperation(%d)", int(op))
	}
}

// ExportResultMsg is returned after an export or clipboard operation completes
type ExportResultMsg struct {
	Operation ExportOperation
	Paths     []string
	Success   bool
	Error     error
}

// Summary is the one-line status text for the result.
func (r ExportResultMsg) Summary() string {
	if !r.Success {
		return fmt.Sprintf("%s failed: %v", r.Operation, r.Error)
	}
	switch r.Operation {
	case ExportOpCopyID, ExportOpCopyJSON:
		return fmt.Sprintf("%s: copied to clipboard", r.Operation)
	}
	names := make([]string, len(r.Paths))
	for i, p := range r.Paths {
		names[i] = filepath.Base(p)
	}
	return fmt.Sprintf("%s: wrote %s", r.Operation, strings.Join(names, ", "))
}

// ExportWriter writes exports in the background and reports back with
// ExportResultMsg.
type ExportWriter struct {
	dir       string
	formats   []string
	available bool
	now       func() time.Time
	copyText  func(string) error
}

// NewExportWriter creates an ExportWriter that writes into dir, detecting
// clipboard availability.
func NewExportWriter(dir string, formats []string) *ExportWriter {
	if dir == "" {
		dir = "."
	}
	if len(formats) == 0 {
		formats = []string{export.FormatJSON}
	}
	return &ExportWriter{
		dir:       dir,
		formats:   formats,
		available: !clipboard.Unsupported,
		now:       time.Now,
		copyText:  clipboard.WriteAll,
	}
}

// ClipboardAvailable returns whether a system clipboard was found
func (w *ExportWriter) ClipboardAvailable() bool {
	return w.available
}

// Formats returns the formats WriteBundle produces.
func (w *ExportWriter) Formats() []string {
	return append([]string(nil), w.formats...)
}

// WriteJSON writes the whole registry to {topic}_{timestamp}.json.
func (w *ExportWriter) WriteJSON(topics model.Topics, topic string) tea.Cmd {
	path := filepath.Join(w.dir, export.Filename(topic, export.FormatJSON, w.now()))
	return func() tea.Msg {
		if err := export.WriteJSONFile(path, topics); err != nil {
			return ExportResultMsg{Operation: ExportOpJSON, Error: err}
		}
		return ExportResultMsg{Operation: ExportOpJSON, Paths: []string{path}, Success: true}
	}
}

// WriteBundle writes every configured format. The scene must already be laid
// out; building it is the caller's job since it reads App state.
func (w *ExportWriter) WriteBundle(ctx context.Context, opts export.BundleOptions) tea.Cmd {
	opts.Formats = w.Formats()
	if opts.Now.IsZero() {
		opts.Now = w.now()
	}
	dir := w.dir
	return func() tea.Msg {
		paths, err := export.WriteBundle(ctx, dir, opts)
		if err != nil {
			return ExportResultMsg{Operation: ExportOpBundle, Paths: paths, Error: err}
		}
		return ExportResultMsg{Operation: ExportOpBundle, Paths: paths, Success: true}
	}
}

// CopyID copies a node id to the clipboard.
func (w *ExportWriter) CopyID(id string) tea.Cmd {
	return w.copyCmd(ExportOpCopyID, id)
}

// CopyJSON copies the registry as indented JSON to the clipboard.
func (w *ExportWriter) CopyJSON(topics model.Topics) tea.Cmd {
	data, err := export.JSON(topics)
	if err != nil {
		return func() tea.Msg {
			return ExportResultMsg{Operation: ExportOpCopyJSON, Error: err}
		}
	}
	return w.copyCmd(ExportOpCopyJSON, string(data))
}

func (w *ExportWriter) copyCmd(op ExportOperation, text string) tea.Cmd {
	if !w.available {
		return w.unavailableCmd(op)
	}
	copyText := w.copyText
	return func() tea.Msg {
		if err := copyText(text); err != nil {
			return ExportResultMsg{Operation: op, Error: fmt.Errorf("clipboard: %w", err)}
		}
		return ExportResultMsg{Operation: op, Success: true}
	}
}

// unavailableCmd returns a command that immediately reports the clipboard is
// missing
func (w *ExportWriter) unavailableCmd(op ExportOperation) tea.Cmd {
	return func() tea.Msg {
		return ExportResultMsg{
			Operation: op,
			Error:     fmt.Errorf("no clipboard utility found; install xclip, xsel or wl-clipboard"),
		}
	}
}
