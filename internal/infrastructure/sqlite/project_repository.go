package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/zjrosen/panecode/internal/projects/domain"
)

const projectColumns = `id, name, root_dir, created_at, updated_at`

// projectRepository implements domain.ProjectRepository using SQLite.
type projectRepository struct {
	db *sql.DB
}

func newProjectRepository(db *sql.DB) *projectRepository {
	return &projectRepository{db: db}
}

var _ domain.ProjectRepository = (*projectRepository)(nil)

func scanProject(scanner interface{ Scan(...any) error }) (*ProjectModel, error) {
	var model ProjectModel
	err := scanner.Scan(&model.ID, &model.Name, &model.RootDir, &model.CreatedAt, &model.UpdatedAt)
	return &model, err
}

// Save inserts the project or updates its name and root directory.
func (r *projectRepository) Save(ctx context.Context, p *domain.Project) error {
	model := toProjectModel(p)
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO projects (`+projectColumns+`) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, root_dir = excluded.root_dir, updated_at = excluded.updated_at`,
		model.ID, model.Name, model.RootDir, model.CreatedAt, model.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	return nil
}

// FindByID retrieves a project by id.
func (r *projectRepository) FindByID(ctx context.Context, id string) (*domain.Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	model, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.ProjectNotFoundError{Key: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find project by id: %w", err)
	}
	return model.toDomain(), nil
}

// FindByName retrieves a project by its unique name.
func (r *projectRepository) FindByName(ctx context.Context, name string) (*domain.Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE name = ?`, name)
	model, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.ProjectNotFoundError{Key: name}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find project by name: %w", err)
	}
	return model.toDomain(), nil
}

// List returns every project ordered by name.
func (r *projectRepository) List(ctx context.Context) ([]*domain.Project, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var projects []*domain.Project
	for rows.Next() {
		model, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, model.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}
	return projects, nil
}

// Delete removes a project; its files cascade.
func (r *projectRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}
