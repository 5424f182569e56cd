package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/zjrosen/panecode/internal/workspace/domain"
)

// MockTerminal is a mock implementation of domain.Terminal.
type MockTerminal struct {
	mock.Mock
}

var _ domain.Terminal = (*MockTerminal)(nil)

func (m *MockTerminal) Resize() {
	m.Called()
}

// MockProjectDirectory is a mock implementation of domain.ProjectDirectory.
type MockProjectDirectory struct {
	mock.Mock
}

var _ domain.ProjectDirectory = (*MockProjectDirectory)(nil)

func (m *MockProjectDirectory) DisplayName(ctx context.Context, projectID string) (string, error) {
	args := m.Called(ctx, projectID)
	return args.String(0), args.Error(1)
}
