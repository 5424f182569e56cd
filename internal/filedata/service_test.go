package filedata

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/panecode/internal/mocks"
	projects "github.com/zjrosen/panecode/internal/projects/domain"
	"github.com/zjrosen/panecode/internal/testutil"
	"github.com/zjrosen/panecode/internal/workspace/domain"
)

func newSeededService(t *testing.T) (*Service, projects.FileRepository) {
	t.Helper()
	db := testutil.NewTestDB(t)
	testutil.NewBuilder(t, db).WithStandardProjects().Build()
	repo := db.FileRepository()
	return NewService(repo), repo
}

func TestService_InitAndLookup(t *testing.T) {
	svc, _ := newSeededService(t)
	require.NoError(t, svc.InitFileData(context.Background(), testutil.DemoProjectID))

	desc, ok := svc.Lookup("demo:main.go")
	require.True(t, ok)
	require.Equal(t, "main.go", desc.Filename)
	require.Contains(t, desc.Content, "package main")

	_, ok = svc.Lookup("docs:index.md")
	require.False(t, ok, "other projects are not loaded")

	files := svc.Files()
	require.Len(t, files, 3)
	require.Equal(t, "README.md", files[0].Filename)
	require.Equal(t, testutil.DemoProjectID, svc.ProjectID())
}

func TestService_PersistOnClear(t *testing.T) {
	svc, repo := newSeededService(t)
	ctx := context.Background()
	require.NoError(t, svc.InitFileData(ctx, testutil.DemoProjectID))

	svc.WriteContent("demo:README.md", "# Demo\n\nEdited.\n")
	require.True(t, svc.Dirty("demo:README.md"))

	require.NoError(t, svc.ClearFileData(true, testutil.DemoProjectID))
	require.Empty(t, svc.ProjectID())
	_, ok := svc.Lookup("demo:README.md")
	require.False(t, ok)

	stored, err := repo.ListByProject(ctx, testutil.DemoProjectID)
	require.NoError(t, err)
	require.Equal(t, "# Demo\n\nEdited.\n", stored[0].Content)
}

func TestService_DiscardOnClear(t *testing.T) {
	svc, repo := newSeededService(t)
	ctx := context.Background()
	require.NoError(t, svc.InitFileData(ctx, testutil.DemoProjectID))

	svc.WriteContent("demo:README.md", "lost")
	require.NoError(t, svc.ClearFileData(false, testutil.DemoProjectID))

	stored, err := repo.ListByProject(ctx, testutil.DemoProjectID)
	require.NoError(t, err)
	require.Equal(t, "# Demo\n", stored[0].Content)
}

func TestService_ClearOtherProjectIsNoop(t *testing.T) {
	svc, _ := newSeededService(t)
	require.NoError(t, svc.InitFileData(context.Background(), testutil.DemoProjectID))

	require.NoError(t, svc.ClearFileData(true, testutil.DocsProjectID))
	require.Equal(t, testutil.DemoProjectID, svc.ProjectID())

	require.NoError(t, svc.ClearFileData(true, testutil.DemoProjectID))
	require.NoError(t, svc.ClearFileData(true, testutil.DemoProjectID), "second clear is a no-op")
}

func TestService_WriteUnknownFileDropped(t *testing.T) {
	svc, _ := newSeededService(t)
	require.NoError(t, svc.InitFileData(context.Background(), testutil.DemoProjectID))

	svc.WriteContent("ghost", "x")
	_, ok := svc.Lookup("ghost")
	require.False(t, ok)
	require.Empty(t, svc.Changes())
}

func TestService_ReloadKeepsDirtyEdits(t *testing.T) {
	svc, repo := newSeededService(t)
	ctx := context.Background()
	require.NoError(t, svc.InitFileData(ctx, testutil.DemoProjectID))
	svc.WriteContent("demo:main.go", "package main // mine")

	require.NoError(t, repo.SaveAll(ctx, []projects.File{
		{ID: "demo:main.go", ProjectID: testutil.DemoProjectID, Path: "main.go", Content: "package main // theirs"},
		{ID: "demo:README.md", ProjectID: testutil.DemoProjectID, Path: "README.md", Content: "# Updated\n"},
		{ID: "demo:new.go", ProjectID: testutil.DemoProjectID, Path: "new.go", Content: "package main"},
	}))

	changed, err := svc.Reload(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, changed)

	mainGo, _ := svc.Lookup("demo:main.go")
	require.Equal(t, "package main // mine", mainGo.Content)
	readme, _ := svc.Lookup("demo:README.md")
	require.Equal(t, "# Updated\n", readme.Content)
	_, ok := svc.Lookup("demo:new.go")
	require.True(t, ok)
}

func TestService_ReloadWithoutProject(t *testing.T) {
	svc, _ := newSeededService(t)
	changed, err := svc.Reload(context.Background())
	require.NoError(t, err)
	require.Zero(t, changed)
}

func TestService_InitError(t *testing.T) {
	repo := &mocks.MockFileRepository{}
	repo.On("ListByProject", mock.Anything, "p1").Return(nil, errors.New("db locked"))

	svc := NewService(repo)
	err := svc.InitFileData(context.Background(), "p1")
	require.ErrorContains(t, err, "db locked")
	require.Empty(t, svc.ProjectID())
}

func failingRepo() *mocks.MockFileRepository {
	repo := &mocks.MockFileRepository{}
	repo.On("ListByProject", mock.Anything, "p1").Return([]projects.File{
		{ID: "f1", ProjectID: "p1", Path: "a.txt", Content: "a"},
		{ID: "f2", ProjectID: "p1", Path: "b.txt", Content: "b"},
	}, nil)
	repo.On("SaveAll", mock.Anything, mock.Anything).Return(errors.New("disk full"))
	return repo
}

func TestService_PersistFailureWritesRecoveryFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "recovery")
	repo := failingRepo()

	svc := NewService(repo, WithRecoveryDir(dir))
	svc.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	require.NoError(t, svc.InitFileData(context.Background(), "p1"))
	svc.WriteContent("f1", "edited")

	err := svc.ClearFileData(true, "p1")
	require.ErrorContains(t, err, "disk full")
	require.Empty(t, svc.ProjectID(), "working copy dropped once recovered")

	path := filepath.Join(dir, "p1-20260102T030405.yaml")
	require.ErrorContains(t, err, path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc recoveryFile
	require.NoError(t, yaml.Unmarshal(data, &doc))
	require.Equal(t, "p1", doc.Project)
	require.Equal(t, []recoveredFile{{ID: "f1", Path: "a.txt", Content: "edited"}}, doc.Files, "only dirty files")
	repo.AssertExpectations(t)
}

func TestService_PersistFailureKeepsCopyWithoutRecoveryDir(t *testing.T) {
	repo := failingRepo()

	svc := NewService(repo)
	require.NoError(t, svc.InitFileData(context.Background(), "p1"))
	svc.WriteContent("f1", "edited")

	err := svc.ClearFileData(true, "p1")
	require.ErrorContains(t, err, "disk full")
	require.ErrorIs(t, err, errNoRecoveryDir)
	require.Equal(t, "p1", svc.ProjectID(), "working copy kept for a retry")
	require.True(t, svc.Dirty("f1"))

	desc, ok := svc.Lookup("f1")
	require.True(t, ok)
	require.Equal(t, "edited", desc.Content)
}

func TestService_PersistSkipsCleanFiles(t *testing.T) {
	repo := &mocks.MockFileRepository{}
	repo.On("ListByProject", mock.Anything, "p1").Return([]projects.File{
		{ID: "f1", ProjectID: "p1", Path: "a.txt", Content: "a"},
	}, nil)

	svc := NewService(repo)
	require.NoError(t, svc.InitFileData(context.Background(), "p1"))
	require.NoError(t, svc.Persist(context.Background()))
	repo.AssertNotCalled(t, "SaveAll", mock.Anything, mock.Anything)
}

func TestService_ImplementsModelSink(t *testing.T) {
	svc, _ := newSeededService(t)
	require.NoError(t, svc.InitFileData(context.Background(), testutil.DemoProjectID))

	m := domain.NewModel("demo:web/app.ts", "web/app.ts", "typescript", "", svc)
	m.SetContent("export const app = 2;\n")

	desc, _ := svc.Lookup("demo:web/app.ts")
	require.Equal(t, "export const app = 2;\n", desc.Content)
}
