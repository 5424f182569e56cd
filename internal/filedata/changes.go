package filedata

import (
	"slices"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/zjrosen/panecode/internal/workspace/domain"
)

// Change summarises the unsaved edits of one file.
type Change struct {
	FileID  domain.FileID
	Path    string
	Added   int
	Deleted int
}

// Changes returns line stats for every dirty file, ordered by path.
func (s *Service) Changes() []Change {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Change
	for id, e := range s.entries {
		if !e.dirty() {
			continue
		}
		added, deleted := lineStats(e.original, e.file.Content)
		out = append(out, Change{FileID: id, Path: e.file.Path, Added: added, Deleted: deleted})
	}
	slices.SortFunc(out, func(a, b Change) int { return strings.Compare(a.Path, b.Path) })
	return out
}

// lineStats counts inserted and deleted lines between two texts.
func lineStats(before, after string) (added, deleted int) {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			added += countLines(d.Text)
		case diffmatchpatch.DiffDelete:
			deleted += countLines(d.Text)
		}
	}
	return added, deleted
}

func countLines(text string) int {
	if text == "" {
		return 0
	}
	n := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}
