package domain

import "context"

// Surface is a live editing surface rendered inside a pane.
// Dispose must be safe to call more than once.
type Surface interface {
	SetModel(m *Model)
	Model() *Model
	Dispose()
}

// Resizer is implemented by surfaces that react to layout changes.
type Resizer interface {
	Resize(width, height int)
}

// Terminal is the terminal pane collaborator.
type Terminal interface {
	Resize()
}

// FileDataService loads and persists the file data of a project.
type FileDataService interface {
	ContentSink

	// InitFileData loads the working copy for a project. Called once per session start.
	InitFileData(ctx context.Context, projectID string) error

	// ClearFileData drops the working copy, flushing it to storage first when persist is true.
	ClearFileData(persist bool, projectID string) error

	// Lookup returns the working-copy descriptor of a file.
	Lookup(id FileID) (FileDescriptor, bool)
}

// ProjectDirectory resolves project metadata.
type ProjectDirectory interface {
	DisplayName(ctx context.Context, projectID string) (string, error)
}
