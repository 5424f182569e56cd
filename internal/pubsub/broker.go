package pubsub

import (
	"context"
	"sync"
	"time"
)

const defaultBufferSize = 64

// Broker is a generic pub/sub event broker.
//
// Two kinds of subscribers are supported: channel subscribers (Subscribe), which
// receive events asynchronously and may miss events when their buffer is full, and
// observers (Observe), which are called inline by Publish in registration order.
type Broker[T any] struct {
	subs       map[chan Event[T]]struct{}
	observers  map[int]func(Event[T])
	nextObsID  int
	mu         sync.RWMutex
	done       chan struct{}
	bufferSize int
	now        func() time.Time
}

// NewBroker creates a new broker with the default buffer size (64).
func NewBroker[T any]() *Broker[T] {
	return NewBrokerWithBuffer[T](defaultBufferSize)
}

// NewBrokerWithBuffer creates a new broker with a custom buffer size.
func NewBrokerWithBuffer[T any](size int) *Broker[T] {
	return &Broker[T]{
		subs:       make(map[chan Event[T]]struct{}),
		observers:  make(map[int]func(Event[T])),
		done:       make(chan struct{}),
		bufferSize: size,
		now:        time.Now,
	}
}

// Subscribe creates a new subscription channel.
// The channel is automatically closed when ctx is cancelled.
func (b *Broker[T]) Subscribe(ctx context.Context) <-chan Event[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed() {
		ch := make(chan Event[T])
		close(ch)
		return ch
	}

	sub := make(chan Event[T], b.bufferSize)
	b.subs[sub] = struct{}{}

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		defer b.mu.Unlock()

		if b.closed() {
			return
		}
		delete(b.subs, sub)
		close(sub)
	}()

	return sub
}

// Observe registers fn to be called synchronously for every published event.
// The returned function removes the observer; calling it twice is safe.
// Observers must not call Observe or Close on the same broker.
func (b *Broker[T]) Observe(fn func(Event[T])) (cancel func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed() {
		return func() {}
	}

	id := b.nextObsID
	b.nextObsID++
	b.observers[id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.observers, id)
	}
}

// Publish sends an event to all subscribers and observers.
// Channel delivery is non-blocking: events are dropped for full subscribers.
func (b *Broker[T]) Publish(eventType EventType, payload T) {
	b.mu.RLock()
	if b.closed() {
		b.mu.RUnlock()
		return
	}

	event := Event[T]{
		Type:      eventType,
		Payload:   payload,
		Timestamp: b.now(),
	}

	for sub := range b.subs {
		select {
		case sub <- event:
		default:
			// Channel full - drop to prevent blocking
		}
	}

	observers := b.sortedObservers()
	b.mu.RUnlock()

	for _, fn := range observers {
		fn(event)
	}
}

// sortedObservers returns observers in registration order. Caller holds the lock.
func (b *Broker[T]) sortedObservers() []func(Event[T]) {
	if len(b.observers) == 0 {
		return nil
	}
	out := make([]func(Event[T]), 0, len(b.observers))
	for id := 0; id < b.nextObsID; id++ {
		if fn, ok := b.observers[id]; ok {
			out = append(out, fn)
		}
	}
	return out
}

// Close shuts down the broker, closing subscriber channels and dropping observers.
func (b *Broker[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed() {
		return
	}

	close(b.done)
	for sub := range b.subs {
		close(sub)
	}
	b.subs = nil
	b.observers = nil
}

// SubscriberCount returns the number of active channel subscribers.
func (b *Broker[T]) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// ObserverCount returns the number of registered observers.
func (b *Broker[T]) ObserverCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.observers)
}

func (b *Broker[T]) closed() bool {
	select {
	case <-b.done:
		return true
	default:
		return false
	}
}
