package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/zjrosen/panecode/internal/workspace/domain"
)

// MockFileDataService is a mock implementation of domain.FileDataService.
type MockFileDataService struct {
	mock.Mock
}

var _ domain.FileDataService = (*MockFileDataService)(nil)

// NewMockFileDataService creates a MockFileDataService whose expectations are
// asserted when the test finishes.
func NewMockFileDataService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockFileDataService {
	m := &MockFileDataService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockFileDataService) InitFileData(ctx context.Context, projectID string) error {
	args := m.Called(ctx, projectID)
	return args.Error(0)
}

func (m *MockFileDataService) ClearFileData(persist bool, projectID string) error {
	args := m.Called(persist, projectID)
	return args.Error(0)
}

func (m *MockFileDataService) Lookup(id domain.FileID) (domain.FileDescriptor, bool) {
	args := m.Called(id)
	return args.Get(0).(domain.FileDescriptor), args.Bool(1)
}

func (m *MockFileDataService) WriteContent(id domain.FileID, content string) {
	m.Called(id, content)
}
