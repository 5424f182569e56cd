// Package app contains the root application model.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/panecode/internal/config"
	"github.com/zjrosen/panecode/internal/filedata"
	"github.com/zjrosen/panecode/internal/keys"
	"github.com/zjrosen/panecode/internal/log"
	projectsdomain "github.com/zjrosen/panecode/internal/projects/domain"
	"github.com/zjrosen/panecode/internal/pubsub"
	"github.com/zjrosen/panecode/internal/ui/editor"
	"github.com/zjrosen/panecode/internal/ui/filelist"
	"github.com/zjrosen/panecode/internal/ui/help"
	"github.com/zjrosen/panecode/internal/ui/layout"
	"github.com/zjrosen/panecode/internal/ui/picker"
	"github.com/zjrosen/panecode/internal/ui/terminal"
	"github.com/zjrosen/panecode/internal/ui/toaster"
	"github.com/zjrosen/panecode/internal/watcher"
	"github.com/zjrosen/panecode/internal/workspace"
	"github.com/zjrosen/panecode/internal/workspace/domain"
)

// focusFiles is the focus value of the file list; panes use their slot.
const focusFiles = -1

// FileData is the working copy the file list and save/refresh keys act on.
type FileData interface {
	Files() []domain.FileDescriptor
	Changes() []filedata.Change
	Persist(ctx context.Context) error
	Reload(ctx context.Context) (int, error)
}

// ProjectLister lists the projects offered by the project switcher.
type ProjectLister interface {
	List(ctx context.Context) ([]*projectsdomain.Project, error)
}

// Services are the collaborators shared by the root model.
type Services struct {
	Manager  *workspace.Manager
	Files    FileData
	Projects ProjectLister
	Terminal *terminal.Pane
	Config   *config.Config

	// ConfigPath is where split and project changes are saved. Empty disables saving.
	ConfigPath string

	// DBPath enables the database watcher when AutoRefresh is on.
	DBPath string
}

// Messages produced by the model's commands.
type (
	projectStartedMsg struct {
		projectID string
		err       error
	}
	projectsLoadedMsg struct {
		projects []*projectsdomain.Project
		err      error
	}
	savedMsg struct {
		files int
		err   error
	}
	reloadedMsg struct {
		changed int
		manual  bool
		err     error
	}
	dbChangedMsg struct{}
)

// Model is the root application state.
type Model struct {
	ctx      context.Context
	cancel   context.CancelFunc
	services Services
	keys     keys.KeyMap

	files         filelist.Model
	help          help.Model
	showHelp      bool
	picker        picker.Model
	showPicker    bool
	toaster       toaster.Model
	toastDuration time.Duration
	projectName   string
	lastEvent     string

	width, height   int
	layout          layout.Layout
	terminalPercent int
	showStatus      bool
	focus           int

	drag *dragState

	logListener   *log.LogListener
	eventListener *pubsub.ContinuousListener[workspace.Event]

	// Database watcher for auto-refresh.
	watcherHandle *watcher.Watcher
	dbChanges     <-chan struct{}
}

// New creates the root model. The workspace session should already be started.
func New(services Services) Model {
	cfg := services.Config
	if cfg == nil {
		defaults := config.Defaults()
		cfg = &defaults
		services.Config = cfg
	}
	if services.Terminal == nil {
		services.Terminal = terminal.New()
	}

	ctx, cancel := context.WithCancel(context.Background())

	m := Model{
		ctx:             ctx,
		cancel:          cancel,
		services:        services,
		keys:            keys.DefaultKeyMap(),
		files:           filelist.New().SetFocused(true),
		help:            help.New(cfg.UI.MarkdownStyle),
		toaster:         toaster.New(),
		toastDuration:   toaster.DefaultDuration,
		terminalPercent: layout.ClampTerminalPercent(cfg.UI.TerminalHeightPercent),
		showStatus:      cfg.UI.ShowStatusBar,
		focus:           focusFiles,
		logListener:     log.NewListener(ctx),
	}
	if services.Manager != nil {
		m.eventListener = pubsub.NewContinuousListener(ctx, services.Manager.Events())
		m.projectName = services.Manager.DisplayName(ctx)
	}

	if cfg.AutoRefresh && services.DBPath != "" {
		w, err := watcher.New(watcher.DefaultConfig(services.DBPath))
		if err == nil {
			ch, err := w.Start()
			if err == nil {
				m.watcherHandle = w
				m.dbChanges = ch
			} else {
				_ = w.Stop()
				log.WarnErr(log.CatWatcher, "watcher start failed", err)
			}
		}
		// The app works without auto-refresh.
	}

	m = m.refreshEntries()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.logListener != nil {
		cmds = append(cmds, m.logListener.Listen())
	}
	if m.eventListener != nil {
		cmds = append(cmds, m.eventListener.Listen())
	}
	if m.dbChanges != nil {
		cmds = append(cmds, waitForChange(m.dbChanges))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help = m.help.SetSize(msg.Width, msg.Height)
		m.picker = m.picker.SetSize(msg.Width, msg.Height)
		return m.relayout(), nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case log.LogEvent:
		m.services.Terminal.Append(msg.Payload)
		if m.logListener == nil {
			return m, nil
		}
		return m, m.logListener.Listen()

	case pubsub.Event[workspace.Event]:
		m.lastEvent = string(msg.Type)
		if msg.Type == workspace.EventSessionState && msg.Payload.State == domain.StateActive && m.services.Manager != nil {
			m.projectName = m.services.Manager.DisplayName(m.ctx)
		}
		if m.eventListener == nil {
			return m, nil
		}
		return m, m.eventListener.Listen()

	case filelist.OpenMsg:
		return m.openFile(msg)

	case picker.SelectMsg:
		m.showPicker = false
		return m, m.startProject(msg.Option.Value)

	case picker.CancelMsg:
		m.showPicker = false
		return m, nil

	case projectsLoadedMsg:
		return m.showProjects(msg)

	case projectStartedMsg:
		if msg.err != nil {
			return m.toast(fmt.Sprintf("Open project failed: %v", msg.err), toaster.StyleError)
		}
		m.projectName = m.services.Manager.DisplayName(m.ctx)
		m = m.setFocus(focusFiles).refreshEntries().relayout()
		return m.toast("Opened "+m.projectName, toaster.StyleSuccess)

	case savedMsg:
		if msg.err != nil {
			return m.toast(fmt.Sprintf("Save failed: %v", msg.err), toaster.StyleError)
		}
		m = m.refreshEntries()
		return m.toast(fmt.Sprintf("Saved %d file(s)", msg.files), toaster.StyleSuccess)

	case reloadedMsg:
		if msg.err != nil {
			log.WarnErr(log.CatFileData, "reload failed", msg.err)
			if msg.manual {
				return m.toast(fmt.Sprintf("Refresh failed: %v", msg.err), toaster.StyleError)
			}
			return m, nil
		}
		if msg.changed > 0 && m.services.Manager != nil && m.services.Manager.RefreshModels() > 0 {
			m.syncSurfaces()
		}
		m = m.refreshEntries()
		if msg.manual {
			return m.toast(fmt.Sprintf("Refreshed %d file(s)", msg.changed), toaster.StyleInfo)
		}
		return m, nil

	case dbChangedMsg:
		return m, tea.Batch(m.reload(false), waitForChange(m.dbChanges))

	case toaster.DismissMsg:
		m.toaster = m.toaster.Update(msg)
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if m.showPicker {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}
	if m.showHelp {
		if key.Matches(msg, m.keys.Help) || msg.String() == "esc" || msg.String() == "?" || msg.String() == "q" {
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.FocusNext):
		return m.cycleFocus(1), nil

	case key.Matches(msg, m.keys.FocusPrev):
		return m.cycleFocus(-1), nil

	case key.Matches(msg, m.keys.FocusFiles) && m.focus != focusFiles:
		return m.setFocus(focusFiles), nil

	case key.Matches(msg, m.keys.Split):
		slot, err := m.services.Manager.AddPane()
		if err != nil {
			return m.toast(splitError(err), toaster.StyleWarn)
		}
		return m.relayout().setFocus(int(slot)), nil

	case key.Matches(msg, m.keys.ClosePane):
		return m.closeFocusedPane()

	case key.Matches(msg, m.keys.Save):
		return m, m.save()

	case key.Matches(msg, m.keys.Refresh):
		return m, m.reload(true)

	case key.Matches(msg, m.keys.SwitchProject):
		return m, m.loadProjects()

	case key.Matches(msg, m.keys.GrowTerminal):
		return m.resizeTerminal(layout.TerminalStep), nil

	case key.Matches(msg, m.keys.ShrinkTerminal):
		return m.resizeTerminal(-layout.TerminalStep), nil

	case key.Matches(msg, m.keys.ToggleStatus):
		m.showStatus = !m.showStatus
		return m.relayout(), nil
	}

	if m.focus == focusFiles {
		switch msg.String() {
		case "?":
			m.showHelp = true
			return m, nil
		case "q":
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.files, cmd = m.files.Update(msg)
		return m, cmd
	}

	surface := m.attachedSurface(domain.SlotID(m.focus))
	if surface == nil {
		return m, nil
	}
	cmd := surface.Update(msg)
	m.syncSurfaces()
	return m.refreshEntries(), cmd
}

func splitError(err error) string {
	if errors.Is(err, domain.ErrNoFreePane) {
		return "All panes are already open"
	}
	return fmt.Sprintf("Split failed: %v", err)
}

func (m Model) closeFocusedPane() (tea.Model, tea.Cmd) {
	if m.focus == focusFiles {
		return m, nil
	}
	slot := domain.SlotID(m.focus)
	if err := m.services.Manager.ClosePane(m.ctx, slot); err != nil {
		return m.toast(fmt.Sprintf("Close pane failed: %v", err), toaster.StyleError)
	}
	m = m.relayout()

	next := focusFiles
	for _, s := range m.visibleSlots() {
		if int(s) < m.focus {
			next = int(s)
		}
	}
	return m.setFocus(next), nil
}

func (m Model) resizeTerminal(delta int) Model {
	percent := layout.ClampTerminalPercent(m.terminalPercent + delta)
	if percent == m.terminalPercent {
		return m
	}
	m.terminalPercent = percent
	if m.services.ConfigPath != "" {
		if err := config.SaveTerminalHeight(m.services.ConfigPath, percent); err != nil {
			log.WarnErr(log.CatConfig, "save terminal height failed", err)
		}
	}
	return m.relayout()
}

// openFile shows msg.File in the focused pane, or in a new pane when asked.
// Without a focused pane the first visible one is used.
func (m Model) openFile(msg filelist.OpenMsg) (tea.Model, tea.Cmd) {
	var slot domain.SlotID
	switch {
	case msg.NewPane:
		s, err := m.services.Manager.AddPane()
		if err != nil {
			return m.toast(splitError(err), toaster.StyleWarn)
		}
		slot = s
		m = m.relayout()
	case m.focus != focusFiles:
		slot = domain.SlotID(m.focus)
	default:
		visible := m.visibleSlots()
		if len(visible) == 0 {
			s, err := m.services.Manager.AddPane()
			if err != nil {
				return m.toast(splitError(err), toaster.StyleWarn)
			}
			visible = append(visible, s)
			m = m.relayout()
		}
		slot = visible[0]
	}

	result, err := m.services.Manager.OpenFile(m.ctx, slot, msg.File, m.surfaceFor(slot))
	if err != nil {
		return m.toast(fmt.Sprintf("Open failed: %v", err), toaster.StyleError)
	}
	return m.afterAssign(result), nil
}

// afterAssign resizes and focuses the pane a file was just assigned to.
func (m Model) afterAssign(result workspace.DropResult) Model {
	if result.Outcome == workspace.DropCancelled {
		return m
	}
	m = m.relayout()
	m.syncSurfaces()
	return m.setFocus(int(result.Slot))
}

// attachedSurface returns the editor attached to slot, if any.
func (m Model) attachedSurface(slot domain.SlotID) *editor.Surface {
	if m.services.Manager == nil || !slot.Valid() {
		return nil
	}
	s, ok := m.services.Manager.Surfaces()[slot].(*editor.Surface)
	if !ok || s.Disposed() {
		return nil
	}
	return s
}

// surfaceFor returns the surface to show a file in slot: the attached one
// when present, otherwise a fresh editor.
func (m Model) surfaceFor(slot domain.SlotID) *editor.Surface {
	if s := m.attachedSurface(slot); s != nil {
		return s
	}
	return editor.New(slot)
}

// syncSurfaces reloads surfaces whose shared Model was edited elsewhere.
func (m Model) syncSurfaces() {
	for _, slot := range domain.Slots() {
		if s := m.attachedSurface(slot); s != nil {
			s.Sync()
		}
	}
}

func (m Model) visibleSlots() []domain.SlotID {
	if m.services.Manager == nil {
		return nil
	}
	snap := m.services.Manager.Snapshot()
	var out []domain.SlotID
	for _, p := range snap.Panes {
		if p.Visible {
			out = append(out, p.Slot)
		}
	}
	return out
}

// setFocus moves keyboard focus to the file list or a pane.
func (m Model) setFocus(focus int) Model {
	m.focus = focus
	m.files = m.files.SetFocused(focus == focusFiles)
	for _, slot := range domain.Slots() {
		s := m.attachedSurface(slot)
		if s == nil {
			continue
		}
		if int(slot) == focus {
			s.Focus()
		} else {
			s.Blur()
		}
	}
	return m
}

// cycleFocus moves focus through the file list and the visible panes.
func (m Model) cycleFocus(dir int) Model {
	order := []int{focusFiles}
	for _, s := range m.visibleSlots() {
		order = append(order, int(s))
	}
	idx := 0
	for i, f := range order {
		if f == m.focus {
			idx = i
		}
	}
	idx = (idx + dir + len(order)) % len(order)
	return m.setFocus(order[idx])
}

// relayout recomputes the geometry and forwards the new sizes to the list,
// the terminal pane and the surfaces.
func (m Model) relayout() Model {
	visible := m.visibleSlots()
	m.layout = layout.Compute(layout.Config{
		Width:           m.width,
		Height:          m.height,
		TerminalPercent: m.terminalPercent,
		StatusBar:       m.showStatus,
		Visible:         visible,
	})

	inner := m.layout.Files.Inner()
	m.files = m.files.SetSize(inner.W, inner.H)

	term := m.layout.Terminal.Inner()
	m.services.Terminal.SetBounds(term.W, term.H)

	var paneW, paneH int
	if len(visible) > 0 {
		r := m.layout.Panes[visible[0]].Inner()
		paneW, paneH = r.W, r.H
	}
	if m.services.Manager != nil {
		m.services.Manager.NotifyLayoutResize(paneW, paneH)
	} else {
		m.services.Terminal.Resize()
	}
	return m
}

// refreshEntries rebuilds the file list from the working copy.
func (m Model) refreshEntries() Model {
	if m.services.Files == nil {
		return m
	}
	changes := make(map[domain.FileID]filedata.Change)
	for _, c := range m.services.Files.Changes() {
		changes[c.FileID] = c
	}
	files := m.services.Files.Files()
	entries := make([]filelist.Entry, 0, len(files))
	for _, f := range files {
		e := filelist.Entry{File: f}
		if c, ok := changes[f.ID]; ok {
			e.Dirty, e.Added, e.Deleted = true, c.Added, c.Deleted
		}
		entries = append(entries, e)
	}
	m.files = m.files.SetEntries(entries)
	return m
}

func (m Model) dirtyCount() int {
	if m.services.Files == nil {
		return 0
	}
	return len(m.services.Files.Changes())
}

func (m Model) toast(message string, style toaster.Style) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.toaster, cmd = m.toaster.Show(message, style, m.toastDuration)
	return m, cmd
}

func (m Model) save() tea.Cmd {
	files, ctx := m.services.Files, m.ctx
	if files == nil {
		return nil
	}
	return func() tea.Msg {
		n := len(files.Changes())
		return savedMsg{files: n, err: files.Persist(ctx)}
	}
}

func (m Model) reload(manual bool) tea.Cmd {
	files, ctx := m.services.Files, m.ctx
	if files == nil {
		return nil
	}
	return func() tea.Msg {
		n, err := files.Reload(ctx)
		return reloadedMsg{changed: n, manual: manual, err: err}
	}
}

func (m Model) loadProjects() tea.Cmd {
	lister, ctx := m.services.Projects, m.ctx
	if lister == nil {
		return nil
	}
	return func() tea.Msg {
		projects, err := lister.List(ctx)
		return projectsLoadedMsg{projects: projects, err: err}
	}
}

func (m Model) showProjects(msg projectsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m.toast(fmt.Sprintf("List projects failed: %v", msg.err), toaster.StyleError)
	}
	if len(msg.projects) == 0 {
		return m.toast("No projects imported", toaster.StyleInfo)
	}

	options := make([]picker.Option, 0, len(msg.projects))
	for _, p := range msg.projects {
		options = append(options, picker.Option{Label: p.Name(), Value: p.ID(), Hint: p.RootDir()})
	}
	m.picker = picker.New("Switch project", options).SetSize(m.width, m.height)
	if m.services.Manager != nil {
		if s := m.services.Manager.Session(); s != nil {
			if i := picker.FindIndexByValue(options, s.ProjectID()); i >= 0 {
				m.picker = m.picker.SetSelected(i)
			}
		}
	}
	m.showPicker = true
	return m, nil
}

// startProject switches the workspace to projectID and records it as the
// last opened project.
func (m Model) startProject(projectID string) tea.Cmd {
	manager, ctx, configPath := m.services.Manager, m.ctx, m.services.ConfigPath
	if manager == nil {
		return nil
	}
	return func() tea.Msg {
		if err := manager.Start(ctx, projectID); err != nil {
			return projectStartedMsg{projectID: projectID, err: err}
		}
		if configPath != "" {
			if err := config.SaveLastProject(configPath, projectID); err != nil {
				log.WarnErr(log.CatConfig, "save last project failed", err)
			}
		}
		return projectStartedMsg{projectID: projectID}
	}
}

// waitForChange delivers one dbChangedMsg per database change notification.
func waitForChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return dbChangedMsg{}
	}
}

// Close releases resources held by the model: listeners and the watcher.
// The workspace session is left to the caller.
func (m Model) Close() error {
	if m.cancel != nil {
		m.cancel()
	}
	if m.watcherHandle != nil {
		return m.watcherHandle.Stop()
	}
	return nil
}
