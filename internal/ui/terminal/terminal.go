// Package terminal provides the terminal pane under the editors. It shows the
// application log stream and follows the vertical split of the layout.
package terminal

import (
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wrap"

	"github.com/zjrosen/panecode/internal/workspace/domain"
)

// DefaultMaxLines bounds the scrollback.
const DefaultMaxLines = 1000

// Pane is the terminal pane. SetBounds records the size the layout assigned;
// Resize applies it and re-wraps the scrollback.
type Pane struct {
	mu       sync.Mutex
	vp       viewport.Model
	lines    []string
	maxLines int

	width, height int
	resizes       int
}

// New creates an empty terminal pane.
func New() *Pane {
	return &Pane{
		vp:       viewport.New(0, 0),
		maxLines: DefaultMaxLines,
	}
}

// SetBounds records the inner size assigned by the layout.
func (p *Pane) SetBounds(width, height int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.width, p.height = max(width, 0), max(height, 0)
}

// Resize implements domain.Terminal.
func (p *Pane) Resize() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.vp.Width = p.width
	p.vp.Height = p.height
	p.resizes++
	p.refresh(true)
}

// Resizes returns how many times Resize ran.
func (p *Pane) Resizes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.resizes
}

// Append adds a line to the scrollback, trimming the oldest lines beyond
// the limit. The view follows new output when it was already at the bottom.
func (p *Pane) Append(line string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	follow := p.vp.AtBottom()
	p.lines = append(p.lines, strings.TrimRight(line, "\n"))
	if over := len(p.lines) - p.maxLines; over > 0 {
		p.lines = append(p.lines[:0:0], p.lines[over:]...)
	}
	p.refresh(follow)
}

// Lines returns a copy of the scrollback.
func (p *Pane) Lines() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.lines...)
}

// Update handles scrolling.
func (p *Pane) Update(msg tea.Msg) tea.Cmd {
	p.mu.Lock()
	defer p.mu.Unlock()

	var cmd tea.Cmd
	p.vp, cmd = p.vp.Update(msg)
	return cmd
}

// View renders the visible part of the scrollback.
func (p *Pane) View() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.vp.View()
}

func (p *Pane) refresh(follow bool) {
	content := strings.Join(p.lines, "\n")
	if p.vp.Width > 0 {
		content = wrap.String(content, p.vp.Width)
	}
	p.vp.SetContent(content)
	if follow {
		p.vp.GotoBottom()
	}
}

var _ domain.Terminal = (*Pane)(nil)
