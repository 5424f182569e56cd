// Package picker provides a generic option picker overlay.
package picker

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/panecode/internal/ui/overlay"
	"github.com/zjrosen/panecode/internal/ui/styles"
)

// Option represents a picker option with label and value.
type Option struct {
	Label string
	Value string
	Hint  string // Optional muted text after the label
}

// Model holds the picker state.
type Model struct {
	title          string
	options        []Option
	selected       int
	offset         int
	maxVisible     int
	boxWidth       int
	viewportWidth  int
	viewportHeight int
}

// New creates a new picker with the given title and options.
func New(title string, options []Option) Model {
	return Model{
		title:      title,
		options:    options,
		maxVisible: 10,
	}
}

// SetSize sets the viewport dimensions for overlay rendering.
func (m Model) SetSize(width, height int) Model {
	m.viewportWidth = width
	m.viewportHeight = height
	// Title, divider and borders take four rows.
	if height > 0 {
		m.maxVisible = max(min(10, height-6), 1)
	}
	m.offset = clampOffset(m.selected, m.offset, m.maxVisible)
	return m
}

// SetBoxWidth sets the width of the picker box itself.
func (m Model) SetBoxWidth(width int) Model {
	m.boxWidth = width
	return m
}

// SetSelected sets the selected index. Out of range indexes are ignored.
func (m Model) SetSelected(index int) Model {
	if index >= 0 && index < len(m.options) {
		m.selected = index
		m.offset = clampOffset(m.selected, m.offset, m.maxVisible)
	}
	return m
}

// Selected returns the currently selected option.
func (m Model) Selected() Option {
	if m.selected >= 0 && m.selected < len(m.options) {
		return m.options[m.selected]
	}
	return Option{}
}

// Update handles navigation. Enter emits SelectMsg, Esc emits CancelMsg.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "j", "down", "ctrl+n":
		if m.selected < len(m.options)-1 {
			m.selected++
		}
	case "k", "up", "ctrl+p":
		if m.selected > 0 {
			m.selected--
		}
	case "enter":
		if len(m.options) == 0 {
			return m, func() tea.Msg { return CancelMsg{} }
		}
		opt := m.Selected()
		return m, func() tea.Msg { return SelectMsg{Option: opt} }
	case "esc", "q":
		return m, func() tea.Msg { return CancelMsg{} }
	}
	m.offset = clampOffset(m.selected, m.offset, m.maxVisible)
	return m, nil
}

// clampOffset scrolls the window so selected stays visible.
func clampOffset(selected, offset, visible int) int {
	if selected < offset {
		return selected
	}
	if selected >= offset+visible {
		return selected - visible + 1
	}
	return offset
}

// View renders the picker box (without positioning).
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.OverlayTitleColor).
		PaddingLeft(1)

	width := m.boxWidth
	if width == 0 {
		width = 30
	}

	var options strings.Builder
	if len(m.options) == 0 {
		options.WriteString(styles.MutedStyle.Render(" (none)"))
	}
	end := min(m.offset+m.maxVisible, len(m.options))
	for i := m.offset; i < end; i++ {
		opt := m.options[i]
		label := styles.TruncateString(opt.Label, width-2)
		var line string
		if i == m.selected {
			line = styles.SelectionIndicatorStyle.Render(">") + lipgloss.NewStyle().Bold(true).Render(label)
		} else {
			line = " " + label
		}
		if opt.Hint != "" {
			room := width - 2 - lipgloss.Width(label)
			if room > 3 {
				line += " " + styles.MutedStyle.Render(styles.TruncateString(opt.Hint, room-1))
			}
		}
		options.WriteString(line)
		if i < end-1 {
			options.WriteString("\n")
		}
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Width(width)

	divider := lipgloss.NewStyle().Foreground(styles.OverlayBorderColor).Render(strings.Repeat("─", width))
	content := titleStyle.Render(m.title) + "\n" +
		divider + "\n" +
		options.String()

	return boxStyle.Render(content)
}

// Overlay renders the picker centered on top of a background view.
func (m Model) Overlay(background string) string {
	box := m.View()

	if background == "" {
		return lipgloss.Place(
			m.viewportWidth, m.viewportHeight,
			lipgloss.Center, lipgloss.Center,
			box,
		)
	}

	return overlay.Place(overlay.Config{
		Width:    m.viewportWidth,
		Height:   m.viewportHeight,
		Position: overlay.Center,
	}, box, background)
}

// SelectMsg is sent when an option is chosen.
type SelectMsg struct {
	Option Option
}

// CancelMsg is sent when the picker is dismissed.
type CancelMsg struct{}

// FindIndexByValue returns the index of the option with the given value, or 0.
func FindIndexByValue(options []Option, value string) int {
	for i, opt := range options {
		if opt.Value == value {
			return i
		}
	}
	return 0
}
