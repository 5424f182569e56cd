package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/zjrosen/panecode/internal/projects/domain"
)

// MockFileRepository is a mock implementation of domain.FileRepository.
type MockFileRepository struct {
	mock.Mock
}

var _ domain.FileRepository = (*MockFileRepository)(nil)

func (m *MockFileRepository) ListByProject(ctx context.Context, projectID string) ([]domain.File, error) {
	args := m.Called(ctx, projectID)
	files, _ := args.Get(0).([]domain.File)
	return files, args.Error(1)
}

func (m *MockFileRepository) SaveAll(ctx context.Context, files []domain.File) error {
	args := m.Called(ctx, files)
	return args.Error(0)
}
