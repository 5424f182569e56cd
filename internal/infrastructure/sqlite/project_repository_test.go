package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/panecode/internal/projects/domain"
)

func TestProjectRepository_SaveAndFind(t *testing.T) {
	repo := newTestDB(t).ProjectRepository()
	ctx := context.Background()

	p := domain.NewProject("p1", "demo", "/src/demo")
	require.NoError(t, repo.Save(ctx, p))

	byID, err := repo.FindByID(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, "demo", byID.Name())
	require.Equal(t, "/src/demo", byID.RootDir())
	require.Equal(t, p.CreatedAt().Unix(), byID.CreatedAt().Unix())

	byName, err := repo.FindByName(ctx, "demo")
	require.NoError(t, err)
	require.Equal(t, "p1", byName.ID())
}

func TestProjectRepository_SaveUpdates(t *testing.T) {
	repo := newTestDB(t).ProjectRepository()
	ctx := context.Background()

	p := domain.NewProject("p1", "demo", "")
	require.NoError(t, repo.Save(ctx, p))
	p.Rename("renamed")
	require.NoError(t, repo.Save(ctx, p))

	found, err := repo.FindByID(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, "renamed", found.Name())
	require.Empty(t, found.RootDir(), "null root dir maps to empty string")

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestProjectRepository_NotFound(t *testing.T) {
	repo := newTestDB(t).ProjectRepository()
	ctx := context.Background()

	_, err := repo.FindByID(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrProjectNotFound)

	_, err = repo.FindByName(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func TestProjectRepository_ListOrderedByName(t *testing.T) {
	repo := newTestDB(t).ProjectRepository()
	ctx := context.Background()

	for id, name := range map[string]string{"a": "zeta", "b": "alpha", "c": "mid"} {
		require.NoError(t, repo.Save(ctx, domain.NewProject(id, name, "")))
	}

	all, err := repo.List(ctx)
	require.NoError(t, err)
	var names []string
	for _, p := range all {
		names = append(names, p.Name())
	}
	require.Equal(t, []string{"alpha", "mid", "zeta"}, names)
}

func TestProjectRepository_DeleteCascadesFiles(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	projects, files := db.ProjectRepository(), db.FileRepository()

	require.NoError(t, projects.Save(ctx, domain.NewProject("p1", "demo", "")))
	require.NoError(t, files.SaveAll(ctx, []domain.File{{ID: "f1", ProjectID: "p1", Path: "a.go"}}))

	require.NoError(t, projects.Delete(ctx, "p1"))
	require.NoError(t, projects.Delete(ctx, "p1"), "deleting a missing project is not an error")

	list, err := files.ListByProject(ctx, "p1")
	require.NoError(t, err)
	require.Empty(t, list)
}
