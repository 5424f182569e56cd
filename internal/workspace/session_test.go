package workspace

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/zjrosen/panecode/internal/flags"
	"github.com/zjrosen/panecode/internal/mocks"
	"github.com/zjrosen/panecode/internal/tracing"
	"github.com/zjrosen/panecode/internal/workspace/domain"
)

// newTestManager returns a Manager whose file data service accepts any call.
func newTestManager(t *testing.T, opts Options) (*Manager, *mocks.MockFileDataService) {
	t.Helper()
	files := mocks.NewMockFileDataService(t)
	files.On("InitFileData", mock.Anything, mock.Anything).Return(nil).Maybe()
	files.On("ClearFileData", mock.Anything, mock.Anything).Return(nil).Maybe()
	files.On("Lookup", mock.Anything).Return(domain.FileDescriptor{}, false).Maybe()
	files.On("WriteContent", mock.Anything, mock.Anything).Maybe()
	opts.Files = files

	seq := 0
	opts.NewID = func() string {
		seq++
		return fmt.Sprintf("session-%d", seq)
	}
	m := NewManager(opts)
	t.Cleanup(m.Close)
	return m, files
}

func TestManager_StartShowsOnePane(t *testing.T) {
	m, files := newTestManager(t, Options{})

	require.NoError(t, m.Start(context.Background(), "p1"))

	snap := m.Snapshot()
	require.Equal(t, domain.StateActive, snap.State)
	require.Equal(t, "p1", snap.ProjectID)
	require.Equal(t, "session-1", snap.SessionID)
	require.True(t, snap.Panes[0].Visible)
	require.False(t, snap.Panes[1].Visible)
	files.AssertCalled(t, "InitFileData", mock.Anything, "p1")
}

func TestManager_StartEmitsLifecycleStates(t *testing.T) {
	m, _ := newTestManager(t, Options{})
	var states []domain.LifecycleState
	cancel := m.Events().Observe(func(e eventOf) {
		if e.Type == EventSessionState {
			states = append(states, e.Payload.State)
		}
	})
	defer cancel()

	require.NoError(t, m.Start(context.Background(), "p1"))
	m.Teardown("p1", true)

	require.Equal(t, []domain.LifecycleState{
		domain.StateInitializing,
		domain.StateActive,
		domain.StateTearingDown,
	}, states)
}

func TestManager_StartInitFailureTearsDown(t *testing.T) {
	files := mocks.NewMockFileDataService(t)
	files.On("InitFileData", mock.Anything, "p1").Return(errors.New("disk gone")).Once()
	files.On("ClearFileData", false, "p1").Return(nil).Once()
	m := NewManager(Options{Files: files})
	defer m.Close()

	err := m.Start(context.Background(), "p1")
	require.ErrorContains(t, err, "disk gone")
	require.Equal(t, domain.StateTearingDown, m.Snapshot().State)

	_, err = m.AddPane()
	require.ErrorIs(t, err, ErrNoActiveSession)
}

func TestManager_TeardownTwiceIsSafe(t *testing.T) {
	m, files := newTestManager(t, Options{})
	ctx := context.Background()
	require.NoError(t, m.Start(ctx, "p1"))
	_, err := m.AddPane()
	require.NoError(t, err)

	left, right := newFakeSurface("l"), newFakeSurface("r")
	_, err = m.OpenFile(ctx, 0, fileDesc("f1", "a.go", ""), left)
	require.NoError(t, err)
	_, err = m.OpenFile(ctx, 1, fileDesc("f2", "b.go", ""), right)
	require.NoError(t, err)

	m.Teardown("p1", true)
	m.Teardown("p1", true)

	snap := m.Snapshot()
	require.Equal(t, 0, snap.Models)
	for _, s := range m.Surfaces() {
		require.Nil(t, s)
	}
	for _, p := range snap.Panes {
		require.False(t, p.Visible)
	}
	require.Equal(t, 1, left.disposed)
	require.Equal(t, 1, right.disposed)
	files.AssertNumberOfCalls(t, "ClearFileData", 1)
	files.AssertCalled(t, "ClearFileData", true, "p1")
}

func TestManager_TeardownOrder(t *testing.T) {
	rec := newEventRecorder(t)
	m, _ := newTestManager(t, Options{Events: rec.broker})
	ctx := context.Background()
	require.NoError(t, m.Start(ctx, "p1"))
	_, err := m.OpenFile(ctx, 0, fileDesc("f1", "a.go", ""), newFakeSurface("a"))
	require.NoError(t, err)
	rec.reset()

	m.Teardown("p1", false)

	var order []pubsubType
	for _, typ := range rec.types() {
		switch typ {
		case EventUnbound, EventSurfaceDisposed, EventModelDisposed, EventPaneHidden:
			order = append(order, typ)
		}
	}
	require.Equal(t, []pubsubType{EventUnbound, EventSurfaceDisposed, EventModelDisposed, EventPaneHidden}, order)
}

func TestManager_TeardownSwallowsFailures(t *testing.T) {
	files := mocks.NewMockFileDataService(t)
	files.On("InitFileData", mock.Anything, "p1").Return(nil)
	files.On("Lookup", mock.Anything).Return(domain.FileDescriptor{}, false)
	files.On("ClearFileData", true, "p1").Return(errors.New("write failed"))
	m := NewManager(Options{Files: files})

	ctx := context.Background()
	require.NoError(t, m.Start(ctx, "p1"))
	bad := newFakeSurface("bad")
	bad.panicking = true
	_, err := m.OpenFile(ctx, 0, fileDesc("f1", "a.go", ""), bad)
	require.NoError(t, err)

	require.NotPanics(t, func() { m.Teardown("p1", true) })
	require.Equal(t, 0, m.Snapshot().Models)
	require.NotPanics(t, m.Close)
}

func TestManager_TeardownOtherProjectIsNoop(t *testing.T) {
	m, files := newTestManager(t, Options{})
	require.NoError(t, m.Start(context.Background(), "p1"))

	m.Teardown("p2", true)

	require.Equal(t, domain.StateActive, m.Snapshot().State)
	files.AssertNotCalled(t, "ClearFileData", mock.Anything, "p2")
}

func TestManager_StartSecondProjectTearsDownFirst(t *testing.T) {
	rec := newEventRecorder(t)
	m, files := newTestManager(t, Options{Events: rec.broker})
	ctx := context.Background()
	require.NoError(t, m.Start(ctx, "p1"))
	surface := newFakeSurface("a")
	_, err := m.OpenFile(ctx, 0, fileDesc("f1", "a.go", ""), surface)
	require.NoError(t, err)
	rec.reset()

	require.NoError(t, m.Start(ctx, "p2"))

	files.AssertCalled(t, "ClearFileData", true, "p1")
	require.Equal(t, 1, surface.disposed)

	var sessionEvents []Event
	for _, e := range rec.events {
		if e.Type == EventSessionState {
			sessionEvents = append(sessionEvents, e.Payload)
		}
	}
	require.Len(t, sessionEvents, 3)
	require.Equal(t, Event{ProjectID: "p1", State: domain.StateTearingDown}, sessionEvents[0])
	require.Equal(t, Event{ProjectID: "p2", State: domain.StateInitializing}, sessionEvents[1])
	require.Equal(t, Event{ProjectID: "p2", State: domain.StateActive}, sessionEvents[2])

	snap := m.Snapshot()
	require.Equal(t, "p2", snap.ProjectID)
	require.Equal(t, 0, snap.Models, "p1 models do not leak into p2")
}

func TestManager_UnloadRespectsPersistFlag(t *testing.T) {
	tests := []struct {
		name    string
		flags   *flags.Registry
		persist bool
	}{
		{name: "defaults persist", flags: flags.NewWithDefaults(nil), persist: true},
		{name: "flag off", flags: flags.NewWithDefaults(map[string]bool{flags.FlagPersistOnUnload: false}), persist: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, files := newTestManager(t, Options{Flags: tt.flags})
			require.NoError(t, m.Start(context.Background(), "p1"))

			m.Unload()
			m.Unload()

			files.AssertCalled(t, "ClearFileData", tt.persist, "p1")
			files.AssertNumberOfCalls(t, "ClearFileData", 1)
		})
	}
}

func TestManager_UnloadRacesClose(t *testing.T) {
	m, files := newTestManager(t, Options{})
	ctx := context.Background()
	require.NoError(t, m.Start(ctx, "p1"))
	_, err := m.OpenFile(ctx, 0, fileDesc("f1", "a.go", ""), newFakeSurface("a"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(2)
		go func() { defer wg.Done(); m.Unload() }()
		go func() { defer wg.Done(); m.Close() }()
	}
	wg.Wait()

	files.AssertNumberOfCalls(t, "ClearFileData", 1)
	require.Equal(t, 0, m.Snapshot().Models)
	require.ErrorIs(t, m.Start(ctx, "p2"), ErrManagerClosed)
}

func TestManager_ClosePaneKeepsModel(t *testing.T) {
	m, _ := newTestManager(t, Options{})
	ctx := context.Background()
	require.NoError(t, m.Start(ctx, "p1"))
	slot, err := m.AddPane()
	require.NoError(t, err)
	require.Equal(t, domain.SlotID(1), slot)

	surface := newFakeSurface("b")
	_, err = m.OpenFile(ctx, slot, fileDesc("f1", "a.go", ""), surface)
	require.NoError(t, err)

	require.NoError(t, m.ClosePane(ctx, slot))
	require.NoError(t, m.ClosePane(ctx, slot), "closing a hidden pane is a no-op")

	snap := m.Snapshot()
	require.False(t, snap.Panes[slot].Visible)
	require.Empty(t, snap.Bindings[slot])
	require.Nil(t, m.Surfaces()[slot])
	require.Equal(t, 1, surface.disposed)
	require.Equal(t, 1, snap.Models, "model lives until teardown")
	require.NoError(t, m.CheckInvariants())

	require.ErrorIs(t, m.ClosePane(ctx, 9), domain.ErrInvalidSlot)
}

func TestManager_OperationsRequireActiveSession(t *testing.T) {
	m, _ := newTestManager(t, Options{})
	ctx := context.Background()

	_, err := m.AddPane()
	require.ErrorIs(t, err, ErrNoActiveSession)
	require.ErrorIs(t, m.ClosePane(ctx, 0), ErrNoActiveSession)
	_, err = m.OpenFile(ctx, 0, fileDesc("f", "f.go", ""), newFakeSurface("a"))
	require.ErrorIs(t, err, ErrNoActiveSession)

	res, err := m.Drop(ctx, dragEnd(fileDesc("f", "f.go", ""), 0, newFakeSurface("a")))
	require.NoError(t, err)
	require.Equal(t, DropCancelled, res.Outcome)
}

func TestManager_DragThroughManager(t *testing.T) {
	m, _ := newTestManager(t, Options{})
	ctx := context.Background()
	require.NoError(t, m.Start(ctx, "p1"))

	file := fileDesc("f1", "main.go", "package main")
	m.BeginDrag(domain.FilePayload{File: file})
	m.MoveDrag(5, 6)
	ind := m.Snapshot().Indicator
	require.True(t, ind.Visible)
	require.Equal(t, 5, ind.X)

	res, err := m.Drop(ctx, dragEnd(file, 0, newFakeSurface("a")))
	require.NoError(t, err)
	require.Equal(t, DropCreated, res.Outcome)
	require.False(t, m.Snapshot().Indicator.Visible)

	model, ok := m.ModelFor(0)
	require.True(t, ok)
	require.Equal(t, "package main", model.Content())
}

func TestManager_DisplayName(t *testing.T) {
	projects := &mocks.MockProjectDirectory{}
	projects.On("DisplayName", mock.Anything, "p1").Return("Project One", nil)
	projects.On("DisplayName", mock.Anything, "p2").Return("", errors.New("no such project"))

	m, _ := newTestManager(t, Options{Projects: projects})
	ctx := context.Background()
	require.Empty(t, m.DisplayName(ctx), "no session yet")

	require.NoError(t, m.Start(ctx, "p1"))
	require.Equal(t, "Project One", m.DisplayName(ctx))

	require.NoError(t, m.Start(ctx, "p2"))
	require.Empty(t, m.DisplayName(ctx), "lookup failure yields empty name")
	require.Equal(t, domain.StateActive, m.Snapshot().State, "session proceeds")
}

func TestManager_DisplayNameLookupDoesNotBlockUnload(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	projects := &mocks.MockProjectDirectory{}
	projects.On("DisplayName", mock.Anything, "p1").
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return("Project One", nil).Once()

	m, _ := newTestManager(t, Options{Projects: projects})
	ctx := context.Background()
	require.NoError(t, m.Start(ctx, "p1"))

	name := make(chan string, 1)
	go func() { name <- m.DisplayName(ctx) }()
	<-entered

	unloaded := make(chan struct{})
	go func() {
		m.Unload()
		close(unloaded)
	}()
	select {
	case <-unloaded:
	case <-time.After(2 * time.Second):
		t.Fatal("Unload waited for the project name lookup")
	}

	close(release)
	require.Equal(t, "Project One", <-name)
	require.Equal(t, domain.StateTearingDown, m.Snapshot().State)
}

func TestManager_RefreshModels(t *testing.T) {
	m, files := newTestManager(t, Options{})
	ctx := context.Background()
	require.Zero(t, m.RefreshModels(), "no session")

	require.NoError(t, m.Start(ctx, "p1"))
	_, err := m.OpenFile(ctx, 0, domain.FileDescriptor{ID: "f1", Filename: "main.go", Content: "package main"}, newFakeSurface("s0"))
	require.NoError(t, err)

	files.ExpectedCalls = nil
	files.On("Lookup", domain.FileID("f1")).Return(domain.FileDescriptor{ID: "f1", Content: "package stored"}, true)
	files.On("ClearFileData", mock.Anything, mock.Anything).Return(nil).Maybe()

	require.Equal(t, 1, m.RefreshModels())
	model, ok := m.ModelFor(0)
	require.True(t, ok)
	require.Equal(t, "package stored", model.Content())
	require.Zero(t, m.RefreshModels(), "already current")
	files.AssertNotCalled(t, "WriteContent", mock.Anything, mock.Anything)
}

func TestManager_NotifyLayoutResize(t *testing.T) {
	terminal := &mocks.MockTerminal{}
	terminal.On("Resize").Twice()
	m, _ := newTestManager(t, Options{Terminal: terminal})

	m.NotifyLayoutResize(80, 10)
	require.NoError(t, m.Start(context.Background(), "p1"))
	m.NotifyLayoutResize(80, 12)

	terminal.AssertExpectations(t)
}

func TestManager_TracesLifecycle(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	provider := tracing.NewProviderWithExporter(exporter)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, _ := newTestManager(t, Options{Tracer: provider.Tracer()})
	require.NoError(t, m.Start(context.Background(), "p1"))
	m.Unload()

	var names []string
	for _, s := range exporter.GetSpans() {
		names = append(names, s.Name)
	}
	require.Equal(t, []string{tracing.SpanSessionStart, tracing.SpanSessionTeardown}, names)

	teardown := exporter.GetSpans()[1]
	var events []string
	for _, e := range teardown.Events {
		events = append(events, e.Name)
	}
	require.Equal(t, []string{
		tracing.EventBindingsCleared,
		tracing.EventSurfacesDropped,
		tracing.EventModelsCleared,
		tracing.EventPanesCleared,
		tracing.EventFileDataCleared,
	}, events)
}
