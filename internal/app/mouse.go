package app

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/panecode/internal/log"
	"github.com/zjrosen/panecode/internal/ui/filelist"
	"github.com/zjrosen/panecode/internal/ui/layout"
	"github.com/zjrosen/panecode/internal/ui/toaster"
	"github.com/zjrosen/panecode/internal/workspace"
	"github.com/zjrosen/panecode/internal/workspace/domain"
)

// dragState tracks a file drag between press and release.
type dragState struct {
	payload domain.FilePayload
	x, y    int
	hover   domain.SlotID
	over    bool
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.showHelp || m.showPicker {
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown {
			if m.layout.Terminal.Contains(msg.X, msg.Y) {
				cmd := m.services.Terminal.Update(msg)
				return m, cmd
			}
			return m, nil
		}
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if i, ok := m.fileRowAt(msg); ok {
			return m.beginDrag(i, msg), nil
		}
		if slot, ok := m.paneAt(msg); ok {
			return m.setFocus(int(slot)), nil
		}
		if m.layout.Files.Contains(msg.X, msg.Y) {
			return m.setFocus(focusFiles), nil
		}

	case tea.MouseActionMotion:
		if m.drag == nil {
			return m, nil
		}
		m.drag.x, m.drag.y = msg.X, msg.Y
		m.drag.hover, m.drag.over = m.paneAt(msg)
		m.services.Manager.MoveDrag(msg.X, msg.Y)
		return m, nil

	case tea.MouseActionRelease:
		if m.drag == nil {
			return m, nil
		}
		return m.endDrag(msg)
	}

	return m, nil
}

// beginDrag selects row i and starts dragging its file.
func (m Model) beginDrag(i int, msg tea.MouseMsg) Model {
	m.files = m.files.Select(i)
	entry, ok := m.files.Entry(i)
	if !ok || m.services.Manager == nil {
		return m
	}

	surfaces := make(map[domain.SlotID]domain.Surface)
	for _, slot := range domain.Slots() {
		if s := m.attachedSurface(slot); s != nil {
			surfaces[slot] = s
		}
	}
	payload := domain.FilePayload{File: entry.File, Surfaces: surfaces}

	m.drag = &dragState{payload: payload, x: msg.X, y: msg.Y}
	m.services.Manager.BeginDrag(payload)
	m.services.Manager.MoveDrag(msg.X, msg.Y)
	return m
}

// endDrag releases the gesture over the pane under the pointer, if any.
func (m Model) endDrag(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	d := m.drag
	m.drag = nil

	end := domain.DragEnd{Active: d.payload}
	if slot, ok := m.paneAt(msg); ok {
		end.Over = domain.PaneTarget{Slot: slot, Surface: m.surfaceFor(slot)}
	}

	result, err := m.services.Manager.Drop(m.ctx, end)
	if err != nil {
		log.ErrorErr(log.CatDrag, "drop failed", err, "file", d.payload.File.ID)
		return m.toast(fmt.Sprintf("Drop failed: %v", err), toaster.StyleError)
	}
	if result.Outcome == workspace.DropCancelled {
		return m, nil
	}
	return m.afterAssign(result), nil
}

// fileRowAt returns the file list row under the pointer.
func (m Model) fileRowAt(msg tea.MouseMsg) (int, bool) {
	if !m.layout.Files.Contains(msg.X, msg.Y) {
		return 0, false
	}
	for i := range m.files.Entries() {
		if inZone(filelist.ZoneID(i), msg) {
			return i, true
		}
	}
	return 0, false
}

// paneAt returns the visible pane under the pointer. Zones are registered
// asynchronously after a render, so the computed layout is the fallback.
func (m Model) paneAt(msg tea.MouseMsg) (domain.SlotID, bool) {
	for _, slot := range m.visibleSlots() {
		if inZone(layout.PaneZoneID(slot), msg) {
			return slot, true
		}
	}
	return m.layout.PaneAt(msg.X, msg.Y)
}

func inZone(id string, msg tea.MouseMsg) bool {
	z := zone.Get(id)
	return z != nil && !z.IsZero() && z.InBounds(msg)
}
