package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Dicklesworthstone/mindmap_viewer/pkg/model"
)

func TestValidateTitle(t *testing.T) {
	if err := validateTitle("  "); err != errTitleRequired {
		t.Errorf("blank title should be rejected, got %v", err)
	}
	if err := validateTitle("Go"); err != nil {
		t.Errorf("unexpected error %v", err)
	}
}

func TestParseMetadata(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    map[string]string
		wantErr bool
	}{
		{"empty", "", map[string]string{}, false},
		{"pairs", "owner: ana\n\nstatus:  draft ", map[string]string{"owner": "ana", "status": "draft"}, false},
		{"colon in value", "url: http://x", map[string]string{"url": "http://x"}, false},
		{"missing colon", "owner ana", nil, true},
		{"empty key", ": value", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseMetadata(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("%s = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestFormatMetadataRoundTrip(t *testing.T) {
	md := map[string]string{"b": "2", "a": "1"}
	text := formatMetadata(md)
	if text != "a: 1\nb: 2" {
		t.Errorf("expected sorted lines, got %q", text)
	}
	back, err := parseMetadata(text)
	if err != nil || back["a"] != "1" || back["b"] != "2" {
		t.Errorf("round trip failed: %v %v", back, err)
	}
}

func TestNodeForm_EscCancels(t *testing.T) {
	f := NewEditForm(model.FlatNode{ID: "gc", Title: "GC"}, 60)
	f.Init()
	_, res, done := f.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !done || !res.Cancelled || res.Kind != FormEdit || res.TargetID != "gc" {
		t.Errorf("unexpected result %+v done=%v", res, done)
	}
}

func TestNodeForm_EditPrefills(t *testing.T) {
	f := NewEditForm(model.FlatNode{ID: "gc", Title: "GC", Summary: "tri-color", Metadata: map[string]string{"since": "1.5"}}, 60)
	res := f.result()
	if res.Title != "GC" || res.Summary != "tri-color" || res.Metadata["since"] != "1.5" {
		t.Errorf("edit form should start from the node, got %+v", res)
	}
}

func TestNodeForm_DeleteNeedsConfirm(t *testing.T) {
	f := NewDeleteForm(model.FlatNode{ID: "gc", Title: "GC"}, 1, 60)
	if res := f.result(); !res.Cancelled {
		t.Error("unconfirmed delete should count as cancelled")
	}
	f.confirm = true
	if res := f.result(); res.Cancelled || !res.Confirmed {
		t.Error("confirmed delete should go through")
	}
}

func TestNodeFormResult_PatchReplacesMetadata(t *testing.T) {
	p := NodeFormResult{Title: "T", Summary: "S"}.Patch()
	if *p.Title != "T" || *p.Summary != "S" {
		t.Errorf("unexpected patch %+v", p)
	}
	if p.Metadata == nil || len(p.Metadata) != 0 {
		t.Error("missing metadata should clear keys, not leave them")
	}
}
