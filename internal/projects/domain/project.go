// Package domain holds the project catalog entities and the repository ports
// implemented by the storage layer.
package domain

import (
	"path"
	"time"
)

// Project is a named collection of files.
type Project struct {
	id        string
	name      string
	rootDir   string
	createdAt time.Time
	updatedAt time.Time
}

// NewProject creates a project record.
func NewProject(id, name, rootDir string) *Project {
	now := time.Now()
	return &Project{
		id:        id,
		name:      name,
		rootDir:   rootDir,
		createdAt: now,
		updatedAt: now,
	}
}

// ReconstituteProject rebuilds a Project from storage.
func ReconstituteProject(id, name, rootDir string, createdAt, updatedAt time.Time) *Project {
	return &Project{
		id:        id,
		name:      name,
		rootDir:   rootDir,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (p *Project) ID() string           { return p.id }
func (p *Project) Name() string         { return p.name }
func (p *Project) RootDir() string      { return p.rootDir }
func (p *Project) CreatedAt() time.Time { return p.createdAt }
func (p *Project) UpdatedAt() time.Time { return p.updatedAt }

// Rename changes the display name.
func (p *Project) Rename(name string) {
	p.name = name
	p.updatedAt = time.Now()
}

// File is the stored content of one project file.
// ID is stable across sessions; Path is slash-separated and relative to the project root.
type File struct {
	ID        string
	ProjectID string
	Path      string
	Content   string
	UpdatedAt time.Time
}

// Filename returns the base name of the file.
func (f File) Filename() string {
	return path.Base(f.Path)
}
