// Package editor provides the textarea-backed editing surface shown in a pane.
package editor

import (
	"sync"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rivo/uniseg"

	"github.com/zjrosen/panecode/internal/log"
	"github.com/zjrosen/panecode/internal/workspace/domain"
)

// Surface is a live editor for one pane. It renders the Model it was given and
// writes every edit back through Model.SetContent. Several surfaces may show
// the same Model; Sync pulls in edits made elsewhere.
//
// Dispose may be called from the unload path while the UI loop is rendering,
// so all methods lock.
type Surface struct {
	mu       sync.Mutex
	slot     domain.SlotID
	input    textarea.Model
	model    *domain.Model
	version  int
	disposed bool
}

// New creates an empty surface for slot.
func New(slot domain.SlotID) *Surface {
	ta := textarea.New()
	ta.Prompt = ""
	ta.Placeholder = "Drop a file here"
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.ShowLineNumbers = true

	return &Surface{slot: slot, input: ta}
}

// Slot returns the pane this surface was created for.
func (s *Surface) Slot() domain.SlotID {
	return s.slot
}

// SetModel implements domain.Surface.
func (s *Surface) SetModel(m *domain.Model) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		log.Warn(log.CatUI, "SetModel on disposed surface", "slot", s.slot)
		return
	}
	s.model = m
	if m == nil {
		s.input.Reset()
		s.version = 0
		return
	}
	s.input.SetValue(m.Content())
	s.version = m.Version()
}

// Model implements domain.Surface.
func (s *Surface) Model() *domain.Model {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model
}

// Dispose implements domain.Surface. It is idempotent.
func (s *Surface) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return
	}
	s.disposed = true
	s.model = nil
	s.input.Blur()
	s.input.Reset()
}

// Disposed reports whether Dispose was called.
func (s *Surface) Disposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed
}

// Resize implements domain.Resizer. width and height are the inner size of the pane.
func (s *Surface) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.input.SetWidth(max(width, 1))
	s.input.SetHeight(max(height, 1))
}

// Focus gives the surface keyboard focus.
func (s *Surface) Focus() tea.Cmd {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return nil
	}
	return s.input.Focus()
}

// Blur removes keyboard focus.
func (s *Surface) Blur() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input.Blur()
}

// Focused reports whether the surface has keyboard focus.
func (s *Surface) Focused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input.Focused()
}

// Update forwards msg to the textarea and writes any change to the Model.
func (s *Surface) Update(msg tea.Msg) tea.Cmd {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed || s.model == nil {
		return nil
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	if value := s.input.Value(); value != s.model.Content() {
		s.model.SetContent(value)
	}
	s.version = s.model.Version()
	return cmd
}

// Sync reloads the buffer when the Model changed behind this surface, for
// example through another pane showing the same file. It reports whether
// the buffer was reloaded.
func (s *Surface) Sync() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed || s.model == nil || s.model.Version() == s.version {
		return false
	}
	s.input.SetValue(s.model.Content())
	s.version = s.model.Version()
	return true
}

// Title returns the filename shown in the pane border.
func (s *Surface) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.model == nil {
		return ""
	}
	return s.model.Filename()
}

// Language returns the language tag of the current Model.
func (s *Surface) Language() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.model == nil {
		return ""
	}
	return s.model.Language()
}

// Stats returns the line count and the number of user-perceived characters
// (grapheme clusters) in the buffer.
func (s *Surface) Stats() (lines, chars int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.model == nil {
		return 0, 0
	}
	value := s.input.Value()
	return s.input.LineCount(), uniseg.GraphemeClusterCount(value)
}

// View renders the editor.
func (s *Surface) View() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input.View()
}

var (
	_ domain.Surface = (*Surface)(nil)
	_ domain.Resizer = (*Surface)(nil)
)
