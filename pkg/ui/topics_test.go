package ui

import (
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/mindmap_viewer/pkg/model"
)

func manyTopics(n int) model.Topics {
	topics := model.Topics{}
	for i := 0; i < n; i++ {
		key := string(rune('a'+i)) + "-topic"
		topics[key] = &model.TreeNode{ID: key, Title: strings.ToUpper(key)}
	}
	return topics
}

func newTestTopicBar(topics model.Topics, active string) TopicBarModel {
	bar := NewTopicBar(DefaultTheme(lipgloss.NewRenderer(io.Discard)))
	bar.SetWidth(100)
	bar.SetEntries(TopicEntries(topics, active))
	return bar
}

func TestTopicEntries_NumbersFirstNine(t *testing.T) {
	entries := TopicEntries(manyTopics(11), "b-topic")
	if len(entries) != 11 {
		t.Fatalf("expected 11 entries, got %d", len(entries))
	}
	if entries[0].Slot != 1 || entries[8].Slot != 9 {
		t.Errorf("first nine should be numbered: %d, %d", entries[0].Slot, entries[8].Slot)
	}
	if entries[9].Slot != 0 || entries[10].Slot != 0 {
		t.Error("entries past nine must not get a slot")
	}
	if !entries[1].IsActive {
		t.Error("b-topic should be active")
	}
	if entries[0].Title != "A-TOPIC" || entries[0].Nodes != 1 {
		t.Errorf("unexpected entry %+v", entries[0])
	}
}

func TestTopicBar_NumberKeySwitches(t *testing.T) {
	bar := newTestTopicBar(testTopics(), "go")

	_, cmd := bar.Update(keyMsg("2"))
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if msg := cmd().(SwitchTopicMsg); msg.Key != "rust" {
		t.Errorf("expected rust, got %q", msg.Key)
	}

	_, cmd = bar.Update(keyMsg("7"))
	if cmd != nil {
		t.Error("unused slot should do nothing")
	}
}

func TestTopicBar_FilterAndSelect(t *testing.T) {
	bar := newTestTopicBar(testTopics(), "go")

	bar, _ = bar.Update(keyMsg("/"))
	if !bar.Filtering() {
		t.Fatal("/ should open the filter")
	}
	for _, r := range "rst" {
		bar, _ = bar.Update(keyMsg(string(r)))
	}
	if keys := bar.FilteredKeys(); len(keys) != 1 || keys[0] != "rust" {
		t.Fatalf("expected only rust to match, got %v", keys)
	}
	if !strings.Contains(bar.View(), "topics(rst)") {
		t.Error("title bar should show the query")
	}

	bar, cmd := bar.Update(specialKey(tea.KeyEnter))
	if bar.Filtering() {
		t.Error("enter should close the filter")
	}
	if cmd == nil || cmd().(SwitchTopicMsg).Key != "rust" {
		t.Error("enter should switch to the highlighted match")
	}
	if len(bar.FilteredKeys()) != 2 {
		t.Error("closing the filter should restore every topic")
	}
}

func TestTopicBar_FilterNoMatch(t *testing.T) {
	bar := newTestTopicBar(testTopics(), "go")
	bar, _ = bar.Update(keyMsg("/"))
	for _, r := range "zzz" {
		bar, _ = bar.Update(keyMsg(string(r)))
	}
	if len(bar.FilteredKeys()) != 0 {
		t.Fatalf("expected no matches, got %v", bar.FilteredKeys())
	}
	if !strings.Contains(bar.View(), "No topics match") {
		t.Error("expected empty message")
	}
	bar, cmd := bar.Update(specialKey(tea.KeyEnter))
	if cmd != nil {
		t.Error("enter with no match must not switch")
	}
}

func TestTopicBar_EscCancels(t *testing.T) {
	bar := newTestTopicBar(testTopics(), "go")
	bar, _ = bar.Update(keyMsg("/"))
	bar, _ = bar.Update(keyMsg("r"))
	bar, cmd := bar.Update(specialKey(tea.KeyEsc))
	if bar.Filtering() || cmd != nil {
		t.Error("esc should close the filter without switching")
	}
}

func TestTopicBar_ViewWrapsChips(t *testing.T) {
	bar := newTestTopicBar(manyTopics(9), "a-topic")
	bar.SetWidth(40)
	out := bar.View()
	if !strings.Contains(out, "1 A-TOPIC(1)") {
		t.Errorf("missing first chip:\n%s", out)
	}
	if !strings.Contains(out, "topics(a-topic)[9]") {
		t.Errorf("missing title bar:\n%s", out)
	}
	if bar.Height() < 4 {
		t.Errorf("nine chips in 40 columns should wrap, height %d", bar.Height())
	}
	for _, line := range strings.Split(out, "\n") {
		if w := lipgloss.Width(line); w > 40 {
			t.Errorf("line wider than bar (%d): %q", w, line)
		}
	}
}
