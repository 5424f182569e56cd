package presentation

import (
	"time"

	"github.com/zjrosen/panecode/internal/projects"
	"github.com/zjrosen/panecode/internal/projects/domain"
)

// ProjectDTO represents a project for presentation
type ProjectDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	RootDir   string    `json:"root_dir,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ImportResultDTO reports the outcome of an import
type ImportResultDTO struct {
	Project ProjectDTO `json:"project"`
	Files   int        `json:"files"`
	Skipped int        `json:"skipped"`
}

// FromDomainProject converts a domain project to a DTO.
func FromDomainProject(p *domain.Project) ProjectDTO {
	return ProjectDTO{
		ID:        p.ID(),
		Name:      p.Name(),
		RootDir:   p.RootDir(),
		CreatedAt: p.CreatedAt(),
		UpdatedAt: p.UpdatedAt(),
	}
}

// FromDomainProjects converts projects to DTOs. The result is never nil so
// an empty list encodes as [].
func FromDomainProjects(ps []*domain.Project) []ProjectDTO {
	out := make([]ProjectDTO, 0, len(ps))
	for _, p := range ps {
		out = append(out, FromDomainProject(p))
	}
	return out
}

// FromImportResult converts an import result to a DTO.
func FromImportResult(r projects.ImportResult) ImportResultDTO {
	return ImportResultDTO{
		Project: FromDomainProject(r.Project),
		Files:   r.Files,
		Skipped: r.Skipped,
	}
}
