// Package filelist provides the project file list side panel. Rows are
// bubblezone-marked so a mouse press can start a drag.
package filelist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/panecode/internal/keys"
	"github.com/zjrosen/panecode/internal/ui/styles"
	"github.com/zjrosen/panecode/internal/workspace/domain"
)

// Entry is one row of the list.
type Entry struct {
	File    domain.FileDescriptor
	Dirty   bool
	Added   int
	Deleted int
}

// OpenMsg asks the host to open a file.
type OpenMsg struct {
	File domain.FileDescriptor

	// NewPane opens the file in a newly added pane instead of the focused one.
	NewPane bool
}

// Model holds the file list state.
type Model struct {
	entries  []Entry
	selected int
	offset   int
	width    int
	height   int
	focused  bool
	keys     keys.ListKeyMap
}

// New creates an empty list.
func New() Model {
	return Model{keys: keys.DefaultListKeyMap()}
}

// ZoneID returns the bubblezone ID of row i.
func ZoneID(i int) string {
	return fmt.Sprintf("filelist-row-%d", i)
}

// SetEntries replaces the rows, keeping the selection on the same file when
// it still exists.
func (m Model) SetEntries(entries []Entry) Model {
	var current domain.FileID
	if e, ok := m.Selected(); ok {
		current = e.File.ID
	}
	m.entries = entries
	m.selected = 0
	for i, e := range entries {
		if e.File.ID == current {
			m.selected = i
			break
		}
	}
	m.offset = clampOffset(m.selected, m.offset, m.visibleRows())
	return m
}

// Entries returns the rows.
func (m Model) Entries() []Entry {
	return m.entries
}

// Entry returns row i.
func (m Model) Entry(i int) (Entry, bool) {
	if i < 0 || i >= len(m.entries) {
		return Entry{}, false
	}
	return m.entries[i], true
}

// Selected returns the selected row.
func (m Model) Selected() (Entry, bool) {
	return m.Entry(m.selected)
}

// SetSize sets the inner size of the panel.
func (m Model) SetSize(width, height int) Model {
	m.width, m.height = width, height
	m.offset = clampOffset(m.selected, m.offset, m.visibleRows())
	return m
}

// SetFocused toggles keyboard focus.
func (m Model) SetFocused(focused bool) Model {
	m.focused = focused
	return m
}

// Focused reports whether the list has keyboard focus.
func (m Model) Focused() bool {
	return m.focused
}

// Select moves the selection to row i.
func (m Model) Select(i int) Model {
	if i >= 0 && i < len(m.entries) {
		m.selected = i
		m.offset = clampOffset(m.selected, m.offset, m.visibleRows())
	}
	return m
}

// Update handles list navigation while focused.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !m.focused {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Up):
		m = m.Select(m.selected - 1)
	case key.Matches(keyMsg, m.keys.Down):
		m = m.Select(m.selected + 1)
	case key.Matches(keyMsg, m.keys.Top):
		m = m.Select(0)
	case key.Matches(keyMsg, m.keys.End):
		m = m.Select(len(m.entries) - 1)
	case key.Matches(keyMsg, m.keys.Open), key.Matches(keyMsg, m.keys.OpenSplit):
		e, ok := m.Selected()
		if !ok {
			return m, nil
		}
		split := key.Matches(keyMsg, m.keys.OpenSplit)
		return m, func() tea.Msg { return OpenMsg{File: e.File, NewPane: split} }
	}
	return m, nil
}

func (m Model) visibleRows() int {
	return max(m.height, 1)
}

func clampOffset(selected, offset, visible int) int {
	if selected < offset {
		return selected
	}
	if selected >= offset+visible {
		return selected - visible + 1
	}
	return offset
}

// View renders the visible rows.
func (m Model) View() string {
	if len(m.entries) == 0 {
		return styles.MutedStyle.Render("No files")
	}

	rows := m.visibleRows()
	end := min(m.offset+rows, len(m.entries))
	lines := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		lines = append(lines, zone.Mark(ZoneID(i), m.renderRow(i)))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderRow(i int) string {
	e := m.entries[i]
	width := max(m.width, 4)

	prefix := " "
	nameStyle := lipgloss.NewStyle()
	if i == m.selected {
		nameStyle = nameStyle.Bold(m.focused)
		if m.focused {
			prefix = styles.SelectionIndicatorStyle.Render(">")
		} else {
			prefix = styles.MutedStyle.Render(">")
		}
	}

	stat := ""
	if e.Dirty {
		stat = styles.FormatDiffStat(e.Added, e.Deleted)
		if stat == "" {
			stat = styles.DirtyStyle.Render("●")
		}
	}
	room := width - 1
	if stat != "" {
		room -= lipgloss.Width(stat) + 1
	}
	name := styles.TruncateString(e.File.Filename, max(room, 1))
	line := prefix + nameStyle.Render(name)
	if stat != "" {
		gap := width - lipgloss.Width(line) - lipgloss.Width(stat)
		line += strings.Repeat(" ", max(gap, 1)) + stat
	}
	return line
}
