package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Border characters (rounded)
const (
	borderTopLeft     = "╭"
	borderTopRight    = "╮"
	borderBottomLeft  = "╰"
	borderBottomRight = "╯"
	borderHorizontal  = "─"
	borderVertical    = "│"
)

// Frame describes a titled panel: ╭─ Title ──── Badge ─╮
type Frame struct {
	Content string
	Title   string
	Badge   string // right-aligned in the top border, optional
	Width   int
	Height  int

	// BorderColor overrides the state-derived border color when set.
	BorderColor lipgloss.TerminalColor
	Focused     bool
}

// RenderFrame renders content inside a rounded border with the title and
// badge embedded in the top edge. The result is exactly Width x Height cells.
func RenderFrame(f Frame) string {
	var borderColor lipgloss.TerminalColor = BorderDefaultColor
	switch {
	case f.BorderColor != nil:
		borderColor = f.BorderColor
	case f.Focused:
		borderColor = BorderFocusColor
	}
	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Foreground(TextPrimaryColor).Bold(f.Focused)

	innerWidth := max(f.Width-2, 1)
	contentHeight := max(f.Height-2, 1)

	top := buildTopBorder(f.Title, f.Badge, innerWidth, borderStyle, titleStyle)
	bottom := borderStyle.Render(borderBottomLeft + strings.Repeat(borderHorizontal, innerWidth) + borderBottomRight)

	constrained := lipgloss.NewStyle().
		Width(innerWidth).
		MaxWidth(innerWidth).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(f.Content)
	contentLines := strings.Split(constrained, "\n")

	side := borderStyle.Render(borderVertical)
	var b strings.Builder
	b.WriteString(top)
	for i := 0; i < contentHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		if w := lipgloss.Width(line); w < innerWidth {
			line += strings.Repeat(" ", innerWidth-w)
		}
		b.WriteString("\n")
		b.WriteString(side + line + side)
	}
	b.WriteString("\n")
	b.WriteString(bottom)
	return b.String()
}

// buildTopBorder embeds the title on the left and the badge on the right.
func buildTopBorder(title, badge string, innerWidth int, borderStyle, titleStyle lipgloss.Style) string {
	plain := borderStyle.Render(borderTopLeft + strings.Repeat(borderHorizontal, innerWidth) + borderTopRight)
	// "─ " + title + " ─" is the minimum
	if title == "" || innerWidth < 5 {
		return plain
	}

	badgePart := ""
	if badge != "" {
		badgePart = " " + badge + " " + borderHorizontal
	}
	available := innerWidth - 4 - lipgloss.Width(badgePart)
	if available < 1 {
		badgePart = ""
		available = innerWidth - 4
	}
	displayTitle := TruncateString(title, available)

	fill := innerWidth - 3 - lipgloss.Width(displayTitle) - lipgloss.Width(badgePart)
	if fill < 0 {
		fill = 0
	}

	out := borderStyle.Render(borderTopLeft+borderHorizontal+" ") +
		titleStyle.Render(displayTitle) +
		borderStyle.Render(" "+strings.Repeat(borderHorizontal, fill))
	if badgePart != "" {
		out += borderStyle.Render(" ") + MutedStyle.Render(badge) + borderStyle.Render(" "+borderHorizontal)
	}
	return out + borderStyle.Render(borderTopRight)
}
