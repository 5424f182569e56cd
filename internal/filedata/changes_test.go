package filedata

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/panecode/internal/testutil"
)

func TestLineStats(t *testing.T) {
	tests := []struct {
		name          string
		before, after string
		added, del    int
	}{
		{name: "identical", before: "a\nb\n", after: "a\nb\n"},
		{name: "append line", before: "a\n", after: "a\nb\n", added: 1},
		{name: "delete line", before: "a\nb\nc\n", after: "a\nc\n", del: 1},
		{name: "replace line", before: "a\nb\n", after: "a\nx\n", added: 1, del: 1},
		{name: "from empty", before: "", after: "one\ntwo", added: 2},
		{name: "to empty", before: "one\ntwo\n", after: "", del: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			added, deleted := lineStats(tt.before, tt.after)
			require.Equal(t, tt.added, added, "added")
			require.Equal(t, tt.del, deleted, "deleted")
		})
	}
}

func TestService_Changes(t *testing.T) {
	svc, _ := newSeededService(t)
	require.NoError(t, svc.InitFileData(context.Background(), testutil.DemoProjectID))

	svc.WriteContent("demo:web/app.ts", "export const app = 1;\nexport const b = 2;\n")
	svc.WriteContent("demo:README.md", "# Renamed\n")

	changes := svc.Changes()
	require.Len(t, changes, 2)
	require.Equal(t, "README.md", changes[0].Path)
	require.Equal(t, 1, changes[0].Added)
	require.Equal(t, 1, changes[0].Deleted)
	require.Equal(t, "web/app.ts", changes[1].Path)
	require.Equal(t, 1, changes[1].Added)
	require.Equal(t, 0, changes[1].Deleted)

	require.NoError(t, svc.Persist(context.Background()))
	require.Empty(t, svc.Changes(), "persisted files are clean")
}
