package presentation

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/panecode/internal/projects"
	"github.com/zjrosen/panecode/internal/projects/domain"
)

func TestFormatProjects(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p := domain.ReconstituteProject("p1", "Demo", "/src/demo", created, created)

	var buf bytes.Buffer
	require.NoError(t, NewFormatter(&buf).FormatProjects(FromDomainProjects([]*domain.Project{p})))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "p1", got[0]["id"])
	assert.Equal(t, "Demo", got[0]["name"])
	assert.Equal(t, "/src/demo", got[0]["root_dir"])
	assert.Equal(t, "2026-03-01T12:00:00Z", got[0]["created_at"])
}

func TestFormatProjects_EmptyIsArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(&buf).FormatProjects(FromDomainProjects(nil)))
	assert.Equal(t, "[]\n", buf.String())
}

func TestFormatImportResult(t *testing.T) {
	result := projects.ImportResult{Project: domain.NewProject("p2", "Docs", ""), Files: 4, Skipped: 1}

	var buf bytes.Buffer
	require.NoError(t, NewFormatter(&buf).FormatImportResult(FromImportResult(result)))

	var got ImportResultDTO
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "Docs", got.Project.Name)
	assert.Equal(t, 4, got.Files)
	assert.Equal(t, 1, got.Skipped)
	assert.NotContains(t, buf.String(), "root_dir", "empty root dir is omitted")
}
