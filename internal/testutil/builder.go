package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/panecode/internal/infrastructure/sqlite"
	"github.com/zjrosen/panecode/internal/projects/domain"
)

// Builder accumulates projects and files and inserts them through the repositories.
type Builder struct {
	t        *testing.T
	db       *sqlite.DB
	projects []projectData
}

// NewBuilder creates a builder for the given test database.
func NewBuilder(t *testing.T, db *sqlite.DB) *Builder {
	t.Helper()
	return &Builder{t: t, db: db}
}

// WithProject adds a project with optional configuration.
func (b *Builder) WithProject(id string, opts ...ProjectOption) *Builder {
	p := defaultProject(id)
	for _, opt := range opts {
		opt(&p)
	}
	b.projects = append(b.projects, p)
	return b
}

// Build inserts all accumulated data. Projects go first so file foreign keys resolve.
func (b *Builder) Build() {
	b.t.Helper()
	ctx := context.Background()
	projects := b.db.ProjectRepository()
	files := b.db.FileRepository()

	for _, p := range b.projects {
		require.NoError(b.t, projects.Save(ctx, domain.NewProject(p.id, p.name, p.rootDir)))
	}
	for _, p := range b.projects {
		batch := make([]domain.File, 0, len(p.files))
		for _, f := range p.files {
			batch = append(batch, domain.File{
				ID:        f.id,
				ProjectID: p.id,
				Path:      f.path,
				Content:   f.content,
				UpdatedAt: p.updatedAt,
			})
		}
		require.NoError(b.t, files.SaveAll(ctx, batch))
	}
}
