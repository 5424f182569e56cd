package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/zjrosen/panecode/internal/projects/domain"
)

// fileRepository implements domain.FileRepository using SQLite.
type fileRepository struct {
	db *sql.DB
}

func newFileRepository(db *sql.DB) *fileRepository {
	return &fileRepository{db: db}
}

var _ domain.FileRepository = (*fileRepository)(nil)

// ListByProject returns the files of a project ordered by path.
func (r *fileRepository) ListByProject(ctx context.Context, projectID string) ([]domain.File, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, project_id, path, content, updated_at FROM files WHERE project_id = ? ORDER BY path`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var files []domain.File
	for rows.Next() {
		var m FileModel
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.Path, &m.Content, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		files = append(files, m.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate files: %w", err)
	}
	return files, nil
}

// SaveAll upserts files in one transaction. Either every file is written or none is.
func (r *fileRepository) SaveAll(ctx context.Context, files []domain.File) error {
	if len(files) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO files (id, project_id, path, content, updated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET path = excluded.path, content = excluded.content, updated_at = excluded.updated_at`,
	)
	if err != nil {
		return fmt.Errorf("failed to prepare file upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, f := range files {
		m := toFileModel(f)
		if _, err := stmt.ExecContext(ctx, m.ID, m.ProjectID, m.Path, m.Content, m.UpdatedAt); err != nil {
			return fmt.Errorf("failed to save file %s: %w", f.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit files: %w", err)
	}
	return nil
}
