package domain

import "context"

// ProjectRepository defines the persistence interface for projects.
type ProjectRepository interface {
	// Save inserts or updates a project.
	Save(ctx context.Context, p *Project) error

	// FindByID returns ProjectNotFoundError when no project has the id.
	FindByID(ctx context.Context, id string) (*Project, error)

	// FindByName returns ProjectNotFoundError when no project has the name.
	FindByName(ctx context.Context, name string) (*Project, error)

	// List returns every project ordered by name.
	List(ctx context.Context) ([]*Project, error)

	// Delete removes a project and its files. Deleting a missing project is not an error.
	Delete(ctx context.Context, id string) error
}

// FileRepository defines the persistence interface for project files.
type FileRepository interface {
	// ListByProject returns the files of a project ordered by path.
	ListByProject(ctx context.Context, projectID string) ([]File, error)

	// SaveAll upserts files in a single transaction.
	SaveAll(ctx context.Context, files []File) error
}
