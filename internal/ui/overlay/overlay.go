// Package overlay composites floating content (help, toasts, the drag
// indicator) on top of a rendered view without clearing the screen.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Position specifies where to place the overlay content.
type Position int

const (
	// Center places the overlay in the center of the viewport.
	Center Position = iota
	// Bottom places the overlay at the bottom center of the viewport.
	Bottom
	// Pointer places the overlay just below and right of (X, Y), kept on screen.
	Pointer
)

// Config controls overlay rendering behavior.
type Config struct {
	Width    int
	Height   int
	Position Position

	// PadY is the distance from the bottom edge for Bottom.
	PadY int

	// X and Y are the pointer cell for Pointer.
	X, Y int
}

// Place renders fg on top of bg. Both may contain ANSI styling.
func Place(cfg Config, fg, bg string) string {
	if fg == "" {
		return bg
	}
	fgLines := strings.Split(fg, "\n")
	bgLines := strings.Split(bg, "\n")

	for len(bgLines) < cfg.Height {
		bgLines = append(bgLines, strings.Repeat(" ", cfg.Width))
	}

	startX, startY := calculatePosition(cfg, lipgloss.Width(fg), len(fgLines))

	for i, fgLine := range fgLines {
		bgY := startY + i
		if bgY >= len(bgLines) {
			break
		}
		bgLines[bgY] = splice(bgLines[bgY], fgLine, startX)
	}
	return strings.Join(bgLines, "\n")
}

// splice replaces the cells of line starting at x with fg.
func splice(line, fg string, x int) string {
	left := ansi.Truncate(line, x, "")
	if w := ansi.StringWidth(left); w < x {
		left += strings.Repeat(" ", x-w)
	}

	var right string
	end := x + ansi.StringWidth(fg)
	if end < ansi.StringWidth(line) {
		right = ansi.TruncateLeft(line, end, "")
	}
	return left + fg + right
}

func calculatePosition(cfg Config, fgWidth, fgHeight int) (x, y int) {
	switch cfg.Position {
	case Bottom:
		x = (cfg.Width - fgWidth) / 2
		y = cfg.Height - fgHeight - cfg.PadY
	case Pointer:
		x = min(cfg.X+1, cfg.Width-fgWidth)
		y = min(cfg.Y+1, cfg.Height-fgHeight)
	default:
		x = (cfg.Width - fgWidth) / 2
		y = (cfg.Height - fgHeight) / 2
	}
	return max(x, 0), max(y, 0)
}
