// Package layout computes the geometry of the workspace screen: the file
// list on the left, the visible panes side by side, the terminal pane under
// them and the status bar.
package layout

import (
	"fmt"

	"github.com/zjrosen/panecode/internal/workspace/domain"
)

// Terminal split bounds, in percent of the editor column height.
const (
	MinTerminalPercent = 10
	MaxTerminalPercent = 80
	TerminalStep       = 5
)

// Rect is a screen region in cells.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Inner returns r without its one-cell border.
func (r Rect) Inner() Rect {
	return Rect{X: r.X + 1, Y: r.Y + 1, W: max(r.W-2, 0), H: max(r.H-2, 0)}
}

// Config is the input of Compute.
type Config struct {
	Width, Height   int
	TerminalPercent int
	StatusBar       bool
	Visible         []domain.SlotID
}

// Layout is the computed geometry. Panes holds a Rect only for visible slots.
type Layout struct {
	Files    Rect
	Panes    [domain.MaxPanes]Rect
	Terminal Rect
	Status   Rect
}

// ClampTerminalPercent bounds p to the allowed split range.
func ClampTerminalPercent(p int) int {
	return min(max(p, MinTerminalPercent), MaxTerminalPercent)
}

// Compute lays out the screen. Visible panes share the editor column width
// evenly; the last one takes the remainder.
func Compute(cfg Config) Layout {
	var l Layout
	height := cfg.Height
	if cfg.StatusBar && height > 0 {
		height--
		l.Status = Rect{X: 0, Y: height, W: cfg.Width, H: 1}
	}

	filesWidth := min(max(cfg.Width/5, 20), 36)
	if filesWidth > cfg.Width/2 {
		filesWidth = cfg.Width / 2
	}
	l.Files = Rect{X: 0, Y: 0, W: filesWidth, H: height}

	colX := filesWidth
	colW := max(cfg.Width-filesWidth, 0)

	termH := height * ClampTerminalPercent(cfg.TerminalPercent) / 100
	panesH := height - termH
	l.Terminal = Rect{X: colX, Y: panesH, W: colW, H: termH}

	n := len(cfg.Visible)
	if n == 0 {
		return l
	}
	paneW := colW / n
	x := colX
	for i, slot := range cfg.Visible {
		if !slot.Valid() {
			continue
		}
		w := paneW
		if i == n-1 {
			w = colX + colW - x
		}
		l.Panes[slot] = Rect{X: x, Y: 0, W: w, H: panesH}
		x += w
	}
	return l
}

// PaneAt returns the visible pane containing (x, y).
func (l Layout) PaneAt(x, y int) (domain.SlotID, bool) {
	for _, slot := range domain.Slots() {
		r := l.Panes[slot]
		if !r.Empty() && r.Contains(x, y) {
			return slot, true
		}
	}
	return 0, false
}

// PaneZoneID returns the bubblezone ID of a pane drop target.
func PaneZoneID(slot domain.SlotID) string {
	return fmt.Sprintf("pane-drop-%d", int(slot))
}
