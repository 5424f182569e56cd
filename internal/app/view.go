package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/panecode/internal/ui/layout"
	"github.com/zjrosen/panecode/internal/ui/overlay"
	"github.com/zjrosen/panecode/internal/ui/styles"
	"github.com/zjrosen/panecode/internal/workspace"
	"github.com/zjrosen/panecode/internal/workspace/domain"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	var snap workspace.Snapshot
	if m.services.Manager != nil {
		snap = m.services.Manager.Snapshot()
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderFiles(),
		lipgloss.JoinVertical(lipgloss.Left, m.renderPanes(snap), m.renderTerminal()),
	)
	view := body
	if m.showStatus {
		view = lipgloss.JoinVertical(lipgloss.Left, body, m.renderStatus(snap))
	}

	if snap.Indicator.Visible {
		view = overlay.Place(overlay.Config{
			Width:    m.width,
			Height:   m.height,
			Position: overlay.Pointer,
			X:        snap.Indicator.X,
			Y:        snap.Indicator.Y,
		}, styles.DragIndicatorStyle.Render(snap.Indicator.Label), view)
	}

	switch {
	case m.showPicker:
		view = m.picker.Overlay(view)
	case m.showHelp:
		view = m.help.Overlay(view)
	}
	view = m.toaster.Overlay(view, m.width, m.height)

	return zone.Scan(view)
}

func (m Model) renderFiles() string {
	r := m.layout.Files
	if r.Empty() {
		return ""
	}
	title := "Files"
	if m.projectName != "" {
		title = m.projectName
	}
	badge := ""
	if m.focus != focusFiles {
		if s := m.attachedSurface(domain.SlotID(m.focus)); s != nil && s.Model() != nil {
			lines, chars := s.Stats()
			parts = append(parts, fmt.Sprintf("%s %dL %dC", s.Title(), lines, chars))
		}
	}
	if n := m.dirtyCount(); n > 0 {
		badge = fmt.Sprintf("%d unsaved", n)
	}
	return styles.RenderFrame(styles.Frame{
		Content: m.files.View(),
		Title:   title,
		Badge:   badge,
		Width:   r.W,
		Height:  r.H,
		Focused: m.focus == focusFiles,
	})
}

func (m Model) renderPanes(snap workspace.Snapshot) string {
	var frames []string
	for _, p := range snap.Panes {
		r := m.layout.Panes[p.Slot]
		if !p.Visible || r.Empty() {
			continue
		}
		frames = append(frames, zone.Mark(layout.PaneZoneID(p.Slot), m.renderPane(p.Slot, r)))
	}

	if len(frames) == 0 {
		term := m.layout.Terminal
		h := m.layout.Files.H - term.H
		if term.W <= 0 || h <= 0 {
			return ""
		}
		return lipgloss.Place(term.W, h, lipgloss.Center, lipgloss.Center,
			styles.MutedStyle.Render("ctrl+\\ opens a pane"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, frames...)
}

func (m Model) renderPane(slot domain.SlotID, r layout.Rect) string {
	frame := styles.Frame{
		Title:   fmt.Sprintf("Pane %d", int(slot)+1),
		Width:   r.W,
		Height:  r.H,
		Focused: m.focus == int(slot),
	}

	if s := m.attachedSurface(slot); s != nil && s.Model() != nil {
		frame.Title = s.Title()
		frame.Badge = s.Language()
		frame.Content = s.View()
	} else {
		inner := r.Inner()
		frame.Content = lipgloss.Place(inner.W, inner.H, lipgloss.Center, lipgloss.Center,
			styles.MutedStyle.Render("Drop a file here"))
	}

	if m.drag != nil && m.drag.over && m.drag.hover == slot {
		frame.BorderColor = styles.BorderDropColor
	}
	return styles.RenderFrame(frame)
}

func (m Model) renderTerminal() string {
	r := m.layout.Terminal
	if r.Empty() {
		return ""
	}
	return styles.RenderFrame(styles.Frame{
		Content: m.services.Terminal.View(),
		Title:   "Terminal",
		Badge:   fmt.Sprintf("%d%%", m.terminalPercent),
		Width:   r.W,
		Height:  r.H,
	})
}

func (m Model) renderStatus(snap workspace.Snapshot) string {
	parts := []string{"panecode"}
	if m.projectName != "" {
		parts = append(parts, m.projectName)
	}
	if snap.State != "" {
		parts = append(parts, string(snap.State))
	}
	visible := 0
	for _, p := range snap.Panes {
		if p.Visible {
			visible++
		}
	}
	parts = append(parts,
		fmt.Sprintf("%d/%d panes", visible, domain.MaxPanes),
		fmt.Sprintf("%d models", snap.Models),
	)
	if n := m.dirtyCount(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d unsaved", n))
	}
	if m.lastEvent != "" {
		parts = append(parts, m.lastEvent)
	}
	parts = append(parts, "f1 help")

	text := styles.TruncateString(strings.Join(parts, " │ "), max(m.width-2, 0))
	return styles.StatusBarStyle.Width(m.width).MaxWidth(m.width).Render(text)
}
