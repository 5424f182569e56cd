package workspace

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/panecode/internal/flags"
	"github.com/zjrosen/panecode/internal/log"
	"github.com/zjrosen/panecode/internal/pubsub"
	"github.com/zjrosen/panecode/internal/tracing"
	"github.com/zjrosen/panecode/internal/workspace/domain"
)

// Teardown triggers, recorded on the teardown span and in logs.
const (
	TriggerRouteChange = "route_change"
	TriggerUnmount     = "unmount"
	TriggerUnload      = "unload"
	TriggerExplicit    = "explicit"
	TriggerInitFailed  = "init_failed"
)

var (
	// ErrNoActiveSession is returned by workspace operations outside an active session.
	ErrNoActiveSession = errors.New("no active session")

	// ErrManagerClosed is returned by Start after Close.
	ErrManagerClosed = errors.New("workspace manager closed")
)

// Options configures a Manager. Every collaborator is optional.
type Options struct {
	Files    domain.FileDataService
	Terminal domain.Terminal
	Projects domain.ProjectDirectory
	Flags    *flags.Registry
	Tracer   trace.Tracer

	// Events receives every workspace notification. When nil the Manager
	// creates its own broker and closes it on Close.
	Events *pubsub.Broker[Event]

	// NewID generates session IDs. Defaults to uuid.NewString.
	NewID func() string
}

// Snapshot is a consistent copy of the workspace for rendering.
type Snapshot struct {
	SessionID string
	ProjectID string
	State     domain.LifecycleState
	Panes     [domain.MaxPanes]domain.Pane
	Bindings  [domain.MaxPanes]domain.FileID
	Models    int
	Indicator domain.DragIndicator
}

// Manager is the session lifecycle manager. It owns the explicit workspace
// State of the current project session and serialises every operation on it,
// so the UI event loop and the OS-signal unload path can race safely.
//
// Observers registered on Events may be called while the Manager's lock is held
// and must not call back into the Manager.
type Manager struct {
	mu sync.Mutex

	files    domain.FileDataService
	terminal domain.Terminal
	projects domain.ProjectDirectory
	flags    *flags.Registry
	tracer   trace.Tracer
	newID    func() string

	events     *pubsub.Broker[Event]
	ownsEvents bool

	session *domain.ProjectSession
	state   *State
	drag    *DragCoordinator
	closed  bool
}

// NewManager creates a Manager with no session.
func NewManager(opts Options) *Manager {
	m := &Manager{
		files:    opts.Files,
		terminal: opts.Terminal,
		projects: opts.Projects,
		flags:    opts.Flags,
		tracer:   opts.Tracer,
		newID:    opts.NewID,
		events:   opts.Events,
	}
	if m.newID == nil {
		m.newID = uuid.NewString
	}
	if m.events == nil {
		m.events = pubsub.NewBroker[Event]()
		m.ownsEvents = true
	}
	return m
}

// Events returns the broker that carries workspace notifications.
func (m *Manager) Events() *pubsub.Broker[Event] {
	return m.events
}

// Start opens projectID. Any previous session is torn down first (persisting
// its file data) before the new session initializes. On initialization
// failure the new session is torn down without persisting and the error is
// returned.
func (m *Manager) Start(ctx context.Context, projectID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrManagerClosed
	}
	if projectID == "" {
		return errors.New("start session: empty project id")
	}

	if m.session != nil && m.session.State() != domain.StateTearingDown {
		m.teardownLocked(TriggerRouteChange, true)
	}

	session := domain.NewProjectSession(m.newID(), projectID)
	ctx, span := tracing.Start(ctx, m.tracer, tracing.SpanSessionStart,
		attribute.String(tracing.AttrProjectID, projectID),
		attribute.String(tracing.AttrSessionID, session.ID()),
	)
	defer span.End()

	m.session = session
	m.state = NewState(m.sink(), m.events)
	m.drag = NewDragCoordinator(m.state, m.lookup(), m.flags, m.tracer, m.events)
	m.publishState()
	log.Info(log.CatSession, "session initializing", "project", projectID, "session", session.ID())

	if m.files != nil {
		if err := m.files.InitFileData(ctx, projectID); err != nil {
			err = fmt.Errorf("init file data for %s: %w", projectID, err)
			log.ErrorErr(log.CatSession, "session start failed", err, "project", projectID)
			tracing.RecordError(span, err)
			m.teardownLocked(TriggerInitFailed, false)
			return err
		}
	}

	if _, err := m.state.Panes.Add(); err != nil {
		tracing.RecordError(span, err)
		m.teardownLocked(TriggerInitFailed, false)
		return fmt.Errorf("show default pane: %w", err)
	}

	session.Activate()
	m.publishState()
	tracing.RecordError(span, nil)
	log.Info(log.CatSession, "session active", "project", projectID, "session", session.ID())
	return nil
}

// Teardown ends the session of projectID and asks the File Data Service to
// clear it, persisting first when persist is true. It never fails: calling it
// again, or for a project that is not open, is a no-op.
func (m *Manager) Teardown(projectID string, persist bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil || m.session.ProjectID() != projectID {
		log.Debug(log.CatSession, "teardown skipped, project not open", "project", projectID)
		return
	}
	m.teardownLocked(TriggerExplicit, persist)
}

// Unload is the abrupt-termination path. It tears down the current session
// synchronously; persistence follows the persist-on-unload flag.
func (m *Manager) Unload() {
	m.mu.Lock()
	defer m.mu.Unlock()

	persist := m.flags.Enabled(flags.FlagPersistOnUnload)
	m.teardownLocked(TriggerUnload, persist)
}

// Close tears down the current session, persisting it, and releases the
// Manager. Close is idempotent.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.teardownLocked(TriggerUnmount, true)
	m.closed = true
	if m.ownsEvents {
		m.events.Close()
	}
}

// teardownLocked clears bindings, disposes surfaces, clears models, hides every
// pane and then clears file data. Each step is isolated so a failure in one
// never prevents the next.
func (m *Manager) teardownLocked(trigger string, persist bool) {
	if m.session == nil || !m.session.BeginTeardown() {
		return
	}
	session, state := m.session, m.state
	projectID := session.ProjectID()

	_, span := tracing.Start(context.Background(), m.tracer, tracing.SpanSessionTeardown,
		attribute.String(tracing.AttrProjectID, projectID),
		attribute.String(tracing.AttrSessionID, session.ID()),
		attribute.String(tracing.AttrTrigger, trigger),
		attribute.Bool(tracing.AttrPersist, persist),
		attribute.Int(tracing.AttrModelCount, state.Models.Len()),
	)
	defer span.End()

	log.Info(log.CatSession, "session tearing down", "project", projectID, "trigger", trigger, "persist", persist)
	m.publishState()

	if m.drag != nil {
		safeStep("reset drag indicator", m.drag.ResetIndicator)
	}
	safeStep("clear bindings", state.Bindings.Clear)
	span.AddEvent(tracing.EventBindingsCleared)
	safeStep("dispose surfaces", state.Editors.DisposeAll)
	span.AddEvent(tracing.EventSurfacesDropped)
	safeStep("clear models", state.Models.Clear)
	span.AddEvent(tracing.EventModelsCleared)
	safeStep("hide panes", func() {
		for _, slot := range domain.Slots() {
			_ = state.Panes.Remove(slot)
		}
	})
	span.AddEvent(tracing.EventPanesCleared)

	if m.files != nil {
		safeStep("clear file data", func() {
			if err := m.files.ClearFileData(persist, projectID); err != nil {
				log.WarnErr(log.CatSession, "clear file data failed", err, "project", projectID, "persist", persist)
				span.RecordError(err)
			}
		})
		span.AddEvent(tracing.EventFileDataCleared)
	}

	log.Info(log.CatSession, "session torn down", "project", projectID, "session", session.ID())
}

// safeStep runs one teardown step and swallows any panic.
func safeStep(name string, fn func()) {
	defer func() {
		if p := recover(); p != nil {
			log.Warn(log.CatSession, "teardown step panicked", "step", name, "panic", p)
		}
	}()
	fn()
}

// Session returns the current session record, which may be torn down.
func (m *Manager) Session() *domain.ProjectSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// Snapshot returns a copy of the workspace for rendering.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	var snap Snapshot
	if m.session == nil {
		return snap
	}
	snap.SessionID = m.session.ID()
	snap.ProjectID = m.session.ProjectID()
	snap.State = m.session.State()
	snap.Panes = m.state.Panes.Panes()
	for _, slot := range domain.Slots() {
		snap.Bindings[slot], _ = m.state.Bindings.Get(slot)
	}
	snap.Models = m.state.Models.Len()
	snap.Indicator = m.drag.Indicator()
	return snap
}

// ModelFor returns the Model displayed in slot.
func (m *Manager) ModelFor(slot domain.SlotID) (*domain.Model, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return nil, false
	}
	return m.state.ModelFor(slot)
}

// Surfaces returns the live surfaces indexed by slot.
func (m *Manager) Surfaces() [domain.MaxPanes]domain.Surface {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return [domain.MaxPanes]domain.Surface{}
	}
	return m.state.Editors.All()
}

// AddPane shows the next hidden pane.
func (m *Manager) AddPane() (domain.SlotID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.requireActive(); err != nil {
		return 0, err
	}
	return m.state.Panes.Add()
}

// ClosePane unbinds slot, disposes its surface and hides it. The Model stays
// in the registry until teardown. Closing a hidden pane is a no-op.
func (m *Manager) ClosePane(ctx context.Context, slot domain.SlotID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.requireActive(); err != nil {
		return err
	}
	if !slot.Valid() {
		return fmt.Errorf("close pane %d: %w", int(slot), domain.ErrInvalidSlot)
	}

	_, span := tracing.Start(ctx, m.tracer, tracing.SpanPaneClose, attribute.Int(tracing.AttrSlot, int(slot)))
	defer span.End()

	m.state.Bindings.Unbind(slot)
	m.state.Editors.Detach(slot)
	err := m.state.Panes.Remove(slot)
	tracing.RecordError(span, err)
	return err
}

// OpenFile shows file in slot on surface, reusing the file's Model when one exists.
func (m *Manager) OpenFile(ctx context.Context, slot domain.SlotID, file domain.FileDescriptor, surface domain.Surface) (DropResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.requireActive(); err != nil {
		return DropResult{Outcome: DropCancelled}, err
	}
	if file.ID == "" {
		return DropResult{Outcome: DropCancelled}, fmt.Errorf("open file: %w", domain.ErrInvalidDragPayload)
	}
	return m.drag.Assign(ctx, domain.Drop{File: file, Slot: slot, Surface: surface})
}

// BeginDrag starts a file drag gesture.
func (m *Manager) BeginDrag(p domain.FilePayload) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.requireActive() != nil {
		return
	}
	m.drag.Begin(p)
}

// MoveDrag moves the drag indicator.
func (m *Manager) MoveDrag(x, y int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.drag == nil {
		return
	}
	m.drag.Move(x, y)
}

// Drop resolves a released drag gesture. Outside an active session the
// indicator is still reset and the drop is cancelled.
func (m *Manager) Drop(ctx context.Context, e domain.DragEnd) (DropResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.requireActive() != nil {
		if m.drag != nil {
			m.drag.ResetIndicator()
		}
		return DropResult{Outcome: DropCancelled}, nil
	}
	return m.drag.Drop(ctx, e)
}

// NotifyLayoutResize forwards a change of the editor/terminal split to the
// terminal pane and to resizable surfaces.
func (m *Manager) NotifyLayoutResize(width, height int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == nil {
		if m.terminal != nil {
			m.terminal.Resize()
		}
		return
	}
	m.state.Editors.BroadcastResize(m.terminal, width, height)
}

// DisplayName returns the display name of the current project. Lookup
// failures are logged and yield an empty name. The lookup runs without the
// lock so an unload is never held up by storage.
func (m *Manager) DisplayName(ctx context.Context) string {
	m.mu.Lock()
	if m.session == nil || m.projects == nil {
		m.mu.Unlock()
		return ""
	}
	projectID := m.session.ProjectID()
	m.mu.Unlock()

	name, err := m.projects.DisplayName(ctx, projectID)
	if err != nil {
		log.WarnErr(log.CatSession, "project name lookup failed", err, "project", projectID)
		name = ""
	}
	m.events.Publish(EventProjectDisplayed, Event{ProjectID: projectID, DisplayName: name})
	return name
}

// RefreshModels pushes working-copy content reloaded from storage into the
// live Models, so each file's content stays in one place. It returns the
// number of Models that changed.
func (m *Manager) RefreshModels() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.requireActive() != nil {
		return 0
	}
	refreshed := m.state.Models.Refresh(m.lookup())
	if len(refreshed) > 0 {
		log.Info(log.CatSession, "models refreshed from storage", "models", len(refreshed))
	}
	return len(refreshed)
}

// CheckInvariants verifies the cross-arena invariants of the current state.
func (m *Manager) CheckInvariants() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return nil
	}
	return m.state.CheckInvariants()
}

func (m *Manager) requireActive() error {
	if m.session == nil || !m.session.IsActive() {
		return ErrNoActiveSession
	}
	return nil
}

func (m *Manager) publishState() {
	m.events.Publish(EventSessionState, Event{
		ProjectID: m.session.ProjectID(),
		State:     m.session.State(),
	})
}

func (m *Manager) sink() domain.ContentSink {
	if m.files == nil {
		return nil
	}
	return m.files
}

func (m *Manager) lookup() fileLookup {
	if m.files == nil {
		return nil
	}
	return m.files
}
