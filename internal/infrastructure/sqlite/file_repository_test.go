package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/panecode/internal/projects/domain"
)

func seedProject(t *testing.T, db *DB, id string) {
	t.Helper()
	require.NoError(t, db.ProjectRepository().Save(context.Background(), domain.NewProject(id, "project-"+id, "")))
}

func TestFileRepository_SaveAllUpserts(t *testing.T) {
	db := newTestDB(t)
	seedProject(t, db, "p1")
	repo := db.FileRepository()
	ctx := context.Background()

	require.NoError(t, repo.SaveAll(ctx, []domain.File{
		{ID: "f2", ProjectID: "p1", Path: "src/b.go", Content: "package b"},
		{ID: "f1", ProjectID: "p1", Path: "README.md", Content: "# demo"},
	}))
	require.NoError(t, repo.SaveAll(ctx, []domain.File{
		{ID: "f2", ProjectID: "p1", Path: "src/b.go", Content: "package b // edited"},
	}))

	files, err := repo.ListByProject(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, files, 2)
	require.Equal(t, "README.md", files[0].Path, "ordered by path")
	require.Equal(t, "package b // edited", files[1].Content)
	require.False(t, files[1].UpdatedAt.IsZero())
}

func TestFileRepository_SaveAllIsAtomic(t *testing.T) {
	db := newTestDB(t)
	seedProject(t, db, "p1")
	repo := db.FileRepository()
	ctx := context.Background()

	err := repo.SaveAll(ctx, []domain.File{
		{ID: "f1", ProjectID: "p1", Path: "a.go"},
		{ID: "f2", ProjectID: "no-such-project", Path: "b.go"},
	})
	require.Error(t, err, "foreign key violation should fail the batch")

	files, err := repo.ListByProject(ctx, "p1")
	require.NoError(t, err)
	require.Empty(t, files, "no partial writes")
}

func TestFileRepository_EmptyBatch(t *testing.T) {
	repo := newTestDB(t).FileRepository()
	require.NoError(t, repo.SaveAll(context.Background(), nil))
}

func TestFileRepository_ScopedByProject(t *testing.T) {
	db := newTestDB(t)
	seedProject(t, db, "p1")
	seedProject(t, db, "p2")
	repo := db.FileRepository()
	ctx := context.Background()

	require.NoError(t, repo.SaveAll(ctx, []domain.File{
		{ID: "f1", ProjectID: "p1", Path: "a.go"},
		{ID: "f2", ProjectID: "p2", Path: "a.go"},
	}))

	files, err := repo.ListByProject(ctx, "p2")
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, "f2", files[0].ID)
}
