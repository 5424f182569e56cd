package workspace

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/panecode/internal/pubsub"
	"github.com/zjrosen/panecode/internal/workspace/domain"
)

// fakeSurface records every call made on it. Dispose is idempotent.
type fakeSurface struct {
	name      string
	model     *domain.Model
	setCalls  int
	disposed  int
	resized   [][2]int
	panicking bool
}

func newFakeSurface(name string) *fakeSurface {
	return &fakeSurface{name: name}
}

func (s *fakeSurface) SetModel(m *domain.Model) {
	s.model = m
	s.setCalls++
}

func (s *fakeSurface) Model() *domain.Model { return s.model }

func (s *fakeSurface) Dispose() {
	s.disposed++
	if s.panicking {
		panic("surface already gone")
	}
}

func (s *fakeSurface) Resize(w, h int) {
	s.resized = append(s.resized, [2]int{w, h})
}

// memSink is an in-memory content sink.
type memSink struct {
	mu      sync.Mutex
	content map[domain.FileID]string
}

func newMemSink() *memSink {
	return &memSink{content: make(map[domain.FileID]string)}
}

func (s *memSink) WriteContent(id domain.FileID, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.content[id] = content
}

// eventRecorder observes a broker and keeps the event types in order.
type eventRecorder struct {
	broker *pubsub.Broker[Event]
	events []pubsub.Event[Event]
}

func newEventRecorder(t *testing.T) *eventRecorder {
	t.Helper()
	r := &eventRecorder{broker: pubsub.NewBroker[Event]()}
	cancel := r.broker.Observe(func(e pubsub.Event[Event]) {
		r.events = append(r.events, e)
	})
	t.Cleanup(func() {
		cancel()
		r.broker.Close()
	})
	return r
}

func (r *eventRecorder) types() []pubsub.EventType {
	out := make([]pubsub.EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

func (r *eventRecorder) reset() {
	r.events = nil
}

// requireInvariants fails the test on any cross-arena invariant violation.
func requireInvariants(t *testing.T, s *State) {
	t.Helper()
	require.NoError(t, s.CheckInvariants())
}

func fileDesc(id, filename, content string) domain.FileDescriptor {
	return domain.FileDescriptor{ID: domain.FileID(id), Filename: filename, Content: content}
}

type pubsubType = pubsub.EventType

type eventOf = pubsub.Event[Event]
