package workspace

import (
	"slices"

	"github.com/zjrosen/panecode/internal/log"
	"github.com/zjrosen/panecode/internal/workspace/domain"
)

// referenceLookup reports which slots bind a file.
type referenceLookup interface {
	References(id domain.FileID) []domain.SlotID
}

// ModelRegistry owns the Models of one project, keyed by FileID.
type ModelRegistry struct {
	models map[domain.FileID]*domain.Model
	refs   referenceLookup
	sink   domain.ContentSink
	events Publisher
}

// NewModelRegistry creates an empty registry. Content changes made through
// its Models are forwarded to sink.
func NewModelRegistry(sink domain.ContentSink, events Publisher) *ModelRegistry {
	return &ModelRegistry{
		models: make(map[domain.FileID]*domain.Model),
		sink:   sink,
		events: publisherOrNop(events),
	}
}

// Get returns the Model for id, if any.
func (r *ModelRegistry) Get(id domain.FileID) (*domain.Model, bool) {
	m, ok := r.models[id]
	return m, ok
}

// Create registers a new Model. It fails with DuplicateModelError if id already has one.
func (r *ModelRegistry) Create(id domain.FileID, filename, language, content string) (*domain.Model, error) {
	if _, exists := r.models[id]; exists {
		return nil, &domain.DuplicateModelError{FileID: id}
	}
	m := domain.NewModel(id, filename, language, content, r.sink)
	r.models[id] = m
	log.Debug(log.CatWorkspace, "model created", "file", id, "language", language, "models", len(r.models))
	r.events.Publish(EventModelCreated, Event{FileID: id})
	return m, nil
}

// Dispose removes the Model for id. It fails with ModelInUseError while any
// slot still binds it. Disposing an unknown id is a no-op.
func (r *ModelRegistry) Dispose(id domain.FileID) error {
	if _, exists := r.models[id]; !exists {
		return nil
	}
	if r.refs != nil {
		if slots := r.refs.References(id); len(slots) > 0 {
			return &domain.ModelInUseError{FileID: id, Slots: slots}
		}
	}
	r.remove(id)
	return nil
}

// remove drops a Model without the in-use check.
func (r *ModelRegistry) remove(id domain.FileID) {
	delete(r.models, id)
	log.Debug(log.CatWorkspace, "model disposed", "file", id, "models", len(r.models))
	r.events.Publish(EventModelDisposed, Event{FileID: id})
}

// Refresh loads the working-copy content of every Model from files and
// returns the IDs of the Models whose buffer changed. Files unknown to files
// are left alone.
func (r *ModelRegistry) Refresh(files fileLookup) []domain.FileID {
	if files == nil {
		return nil
	}
	var refreshed []domain.FileID
	for _, id := range r.IDs() {
		desc, ok := files.Lookup(id)
		if !ok || !r.models[id].Refresh(desc.Content) {
			continue
		}
		refreshed = append(refreshed, id)
		log.Debug(log.CatWorkspace, "model refreshed", "file", id)
		r.events.Publish(EventModelRefreshed, Event{FileID: id})
	}
	return refreshed
}

// Clear removes every Model. Bindings must already be cleared.
func (r *ModelRegistry) Clear() {
	for _, id := range r.IDs() {
		r.remove(id)
	}
}

// Len returns the number of Models.
func (r *ModelRegistry) Len() int {
	return len(r.models)
}

// IDs returns the registered FileIDs sorted for stable iteration.
func (r *ModelRegistry) IDs() []domain.FileID {
	ids := make([]domain.FileID, 0, len(r.models))
	for id := range r.models {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
