package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/Dicklesworthstone/mindmap_viewer/pkg/model"
	"github.com/Dicklesworthstone/mindmap_viewer/pkg/tree"
)

// TopicEntry holds display data for one topic chip.
type TopicEntry struct {
	Key      string
	Title    string
	Nodes    int
	Slot     int // 1-9 quick-switch key, 0 = none
	IsActive bool
}

// SwitchTopicMsg is sent when the user picks a topic.
type SwitchTopicMsg struct {
	Key string
}

// TopicBarModel is the always-visible header listing topics as chips.
// Number keys switch directly; / opens a fuzzy filter.
type TopicBarModel struct {
	entries     []TopicEntry
	filtered    []int
	cursor      int
	width       int
	filterInput textinput.Model
	filtering   bool
	theme       Theme
}

// NewTopicBar creates an empty topic bar.
func NewTopicBar(theme Theme) TopicBarModel {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.CharLimit = 50
	ti.Width = 30
	return TopicBarModel{filterInput: ti, theme: theme}
}

// TopicEntries builds chips for topics in key order, numbering the first
// nine.
func TopicEntries(topics model.Topics, active string) []TopicEntry {
	keys := topics.Keys()
	entries := make([]TopicEntry, 0, len(keys))
	for i, key := range keys {
		root := topics[key]
		e := TopicEntry{Key: key, Title: key, Nodes: tree.Count(root), IsActive: key == active}
		if root != nil && root.Title != "" {
			e.Title = root.Title
		}
		if i < 9 {
			e.Slot = i + 1
		}
		entries = append(entries, e)
	}
	return entries
}

// SetEntries replaces the chips, keeping the filter text.
func (m *TopicBarModel) SetEntries(entries []TopicEntry) {
	m.entries = entries
	m.applyFilter()
}

// SetWidth updates the bar width.
func (m *TopicBarModel) SetWidth(w int) { m.width = w }

// Update handles keys while the bar owns input: the filter prompt or a
// number key.
func (m TopicBarModel) Update(msg tea.Msg) (TopicBarModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.filtering {
		return m.updateFiltering(keyMsg)
	}
	return m.updateNormal(keyMsg)
}

func (m TopicBarModel) updateNormal(msg tea.KeyMsg) (TopicBarModel, tea.Cmd) {
	switch msg.String() {
	case "/":
		m.filtering = true
		m.cursor = 0
		m.filterInput.SetValue("")
		m.filterInput.Focus()
		m.applyFilter()
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		n := int(msg.String()[0] - '0')
		for _, entry := range m.entries {
			if entry.Slot == n {
				return m, switchTopicCmd(entry.Key)
			}
		}
	}
	return m, nil
}

func (m TopicBarModel) updateFiltering(msg tea.KeyMsg) (TopicBarModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filtering = false
		m.filterInput.SetValue("")
		m.filterInput.Blur()
		m.applyFilter()
		return m, nil
	case "enter":
		m.filtering = false
		m.filterInput.Blur()
		var cmd tea.Cmd
		if m.cursor < len(m.filtered) {
			cmd = switchTopicCmd(m.entries[m.filtered[m.cursor]].Key)
		}
		m.filterInput.SetValue("")
		m.applyFilter()
		return m, cmd
	case "up", "left", "shift+tab":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "right", "tab":
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
		}
		return m, nil
	default:
		var cmd tea.Cmd
		m.filterInput, cmd = m.filterInput.Update(msg)
		m.applyFilter()
		return m, cmd
	}
}

func switchTopicCmd(key string) tea.Cmd {
	return func() tea.Msg { return SwitchTopicMsg{Key: key} }
}

// topicSource exposes entries to the fuzzy matcher as "key title".
type topicSource []TopicEntry

func (s topicSource) String(i int) string { return s[i].Key + " " + s[i].Title }
func (s topicSource) Len() int            { return len(s) }

// applyFilter ranks entries by fuzzy match against key and title.
func (m *TopicBarModel) applyFilter() {
	query := strings.TrimSpace(m.filterInput.Value())
	if query == "" {
		m.filtered = make([]int, len(m.entries))
		for i := range m.entries {
			m.filtered[i] = i
		}
	} else {
		matches := fuzzy.FindFrom(query, topicSource(m.entries))
		m.filtered = make([]int, len(matches))
		for i, match := range matches {
			m.filtered[i] = match.Index
		}
	}
	m.cursor = min(m.cursor, max(0, len(m.filtered)-1))
}

// View renders the shortcut line, the optional filter prompt, the chips and
// the title divider.
func (m *TopicBarModel) View() string {
	w := m.width
	if w == 0 {
		w = 80
	}
	t := m.theme
	sections := []string{m.renderShortcutBar()}
	if m.filtering {
		sections = append(sections, t.Renderer.NewStyle().Foreground(t.Primary).Width(w).Render("  / "+m.filterInput.View()))
	}
	if len(m.filtered) == 0 {
		sections = append(sections, t.Renderer.NewStyle().Foreground(t.Secondary).Italic(true).Render("  No topics match."))
	} else {
		sections = append(sections, m.renderChips(w)...)
	}
	sections = append(sections, m.renderTitleBar(w))
	return strings.Join(sections, "\n")
}

// Height returns how many lines View will use.
func (m *TopicBarModel) Height() int {
	return strings.Count(m.View(), "\n") + 1
}

func (m *TopicBarModel) renderShortcutBar() string {
	t := m.theme
	keyStyle := t.Renderer.NewStyle().Foreground(t.Highlight).Bold(true)
	descStyle := t.Renderer.NewStyle().Foreground(t.Subtext)
	shortcuts := []struct{ key, desc string }{
		{"<1-9>", "Topic"},
		{"</>", "Find"},
		{"<?>", "Help"},
	}
	parts := make([]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		parts = append(parts, keyStyle.Render(s.key)+" "+descStyle.Render(s.desc))
	}
	return " " + strings.Join(parts, "  ")
}

func (m *TopicBarModel) renderTitleBar(w int) string {
	t := m.theme
	label := "topics"
	if m.filtering && m.filterInput.Value() != "" {
		label = fmt.Sprintf("topics(%s)", m.filterInput.Value())
	} else {
		for _, e := range m.entries {
			if e.IsActive {
				label = fmt.Sprintf("topics(%s)", e.Key)
				break
			}
		}
	}
	count := fmt.Sprintf("[%d]", len(m.filtered))
	title := t.Renderer.NewStyle().Foreground(t.Primary).Bold(true).Render(label) +
		t.Renderer.NewStyle().Foreground(t.Highlight).Render(count)

	textLen := lipgloss.Width(label) + lipgloss.Width(count)
	leftPad := max(1, (w-textLen-4)/2)
	rightPad := max(1, w-textLen-4-leftPad)
	sep := t.Renderer.NewStyle().Foreground(t.Border)
	return sep.Render(strings.Repeat("─", leftPad)) + " " + title + " " + sep.Render(strings.Repeat("─", rightPad))
}

// renderChips flows chips horizontally, wrapping at w.
func (m *TopicBarModel) renderChips(w int) []string {
	var lines []string
	var line strings.Builder
	lineLen := 0
	const indent = 2
	for i, idx := range m.filtered {
		entry := m.entries[idx]
		text := m.chipText(entry)
		textLen := lipgloss.Width(text)
		if lineLen > indent && lineLen+textLen+2 > w {
			lines = append(lines, line.String())
			line.Reset()
			lineLen = 0
		}
		if lineLen == 0 {
			line.WriteString(strings.Repeat(" ", indent))
			lineLen = indent
		} else {
			line.WriteString("  ")
			lineLen += 2
		}
		line.WriteString(m.renderChip(entry, text, m.filtering && i == m.cursor))
		lineLen += textLen
	}
	if lineLen > 0 {
		lines = append(lines, line.String())
	}
	return lines
}

func (m *TopicBarModel) chipText(e TopicEntry) string {
	slot := " "
	if e.Slot > 0 {
		slot = fmt.Sprintf("%d", e.Slot)
	}
	return fmt.Sprintf("%s %s(%d)", slot, e.Title, e.Nodes)
}

func (m *TopicBarModel) renderChip(e TopicEntry, text string, isCursor bool) string {
	t := m.theme
	switch {
	case isCursor:
		return t.Renderer.NewStyle().Foreground(t.Primary).Bold(true).Underline(true).Render(text)
	case e.IsActive:
		return t.Renderer.NewStyle().Foreground(t.Primary).Bold(true).Render(text)
	default:
		return t.Base.Render(text)
	}
}

// Filtering reports whether the filter prompt is open.
func (m *TopicBarModel) Filtering() bool { return m.filtering }

// FilteredKeys returns the topic keys currently shown, in display order.
func (m *TopicBarModel) FilteredKeys() []string {
	out := make([]string, len(m.filtered))
	for i, idx := range m.filtered {
		out[i] = m.entries[idx].Key
	}
	return out
}
