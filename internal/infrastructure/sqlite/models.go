package sqlite

import (
	"time"

	"github.com/zjrosen/panecode/internal/projects/domain"
)

// ProjectModel represents a row of the projects table.
// Timestamps are Unix seconds.
type ProjectModel struct {
	ID        string
	Name      string
	RootDir   *string // nullable
	CreatedAt int64
	UpdatedAt int64
}

func toProjectModel(p *domain.Project) *ProjectModel {
	m := &ProjectModel{
		ID:        p.ID(),
		Name:      p.Name(),
		CreatedAt: p.CreatedAt().Unix(),
		UpdatedAt: p.UpdatedAt().Unix(),
	}
	if p.RootDir() != "" {
		rootDir := p.RootDir()
		m.RootDir = &rootDir
	}
	return m
}

func (m *ProjectModel) toDomain() *domain.Project {
	var rootDir string
	if m.RootDir != nil {
		rootDir = *m.RootDir
	}
	return domain.ReconstituteProject(m.ID, m.Name, rootDir, time.Unix(m.CreatedAt, 0), time.Unix(m.UpdatedAt, 0))
}

// FileModel represents a row of the files table.
type FileModel struct {
	ID        string
	ProjectID string
	Path      string
	Content   string
	UpdatedAt int64
}

func toFileModel(f domain.File) FileModel {
	updated := f.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	return FileModel{
		ID:        f.ID,
		ProjectID: f.ProjectID,
		Path:      f.Path,
		Content:   f.Content,
		UpdatedAt: updated.Unix(),
	}
}

func (m FileModel) toDomain() domain.File {
	return domain.File{
		ID:        m.ID,
		ProjectID: m.ProjectID,
		Path:      m.Path,
		Content:   m.Content,
		UpdatedAt: time.Unix(m.UpdatedAt, 0),
	}
}
