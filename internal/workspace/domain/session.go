package domain

import "time"

// LifecycleState represents the lifecycle state of a project session.
type LifecycleState string

const (
	// StateInitializing is set while file data for the project is loading.
	StateInitializing LifecycleState = "initializing"

	// StateActive means the workspace accepts pane and drag operations.
	StateActive LifecycleState = "active"

	// StateTearingDown is terminal; the session never becomes active again.
	StateTearingDown LifecycleState = "tearing_down"
)

// String returns the string representation of the state.
func (s LifecycleState) String() string {
	return string(s)
}

// IsValid returns true if the state is a recognized lifecycle state.
func (s LifecycleState) IsValid() bool {
	switch s {
	case StateInitializing, StateActive, StateTearingDown:
		return true
	default:
		return false
	}
}

// ProjectSession is the lifecycle record for one opened project.
type ProjectSession struct {
	id        string
	projectID string
	state     LifecycleState
	startedAt time.Time
	endedAt   *time.Time
}

// NewProjectSession creates a session in the initializing state.
func NewProjectSession(id, projectID string) *ProjectSession {
	return &ProjectSession{
		id:        id,
		projectID: projectID,
		state:     StateInitializing,
		startedAt: time.Now(),
	}
}

// ID returns the session GUID.
func (s *ProjectSession) ID() string {
	return s.id
}

// ProjectID returns the project this session belongs to.
func (s *ProjectSession) ProjectID() string {
	return s.projectID
}

// State returns the current lifecycle state.
func (s *ProjectSession) State() LifecycleState {
	return s.state
}

// StartedAt returns when the session was created.
func (s *ProjectSession) StartedAt() time.Time {
	return s.startedAt
}

// EndedAt returns when teardown began, or nil.
func (s *ProjectSession) EndedAt() *time.Time {
	return s.endedAt
}

// IsActive returns true once initialization has finished and teardown has not begun.
func (s *ProjectSession) IsActive() bool {
	return s.state == StateActive
}

// Activate moves an initializing session to active.
// Returns false if the session is not initializing.
func (s *ProjectSession) Activate() bool {
	if s.state != StateInitializing {
		return false
	}
	s.state = StateActive
	return true
}

// BeginTeardown moves the session to the terminal state.
// Returns false if teardown already began.
func (s *ProjectSession) BeginTeardown() bool {
	if s.state == StateTearingDown {
		return false
	}
	now := time.Now()
	s.state = StateTearingDown
	s.endedAt = &now
	return true
}
