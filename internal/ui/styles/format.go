package styles

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
)

// TruncateString truncates a string to fit within maxWidth cells, adding an
// ellipsis if needed. Wide runes count as two cells.
func TruncateString(s string, maxWidth int) string {
	if maxWidth < 1 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return strings.Repeat(".", maxWidth)
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// Wrap word-wraps plain text to width.
func Wrap(s string, width int) string {
	if width < 1 {
		return s
	}
	return wordwrap.String(s, width)
}

// FormatDiffStat renders "+added -deleted"; zero counts are omitted.
func FormatDiffStat(added, deleted int) string {
	var parts []string
	if added > 0 {
		parts = append(parts, AddedStyle.Render(fmt.Sprintf("+%d", added)))
	}
	if deleted > 0 {
		parts = append(parts, DeletedStyle.Render(fmt.Sprintf("-%d", deleted)))
	}
	return strings.Join(parts, " ")
}
