// Package mocks provides testify mocks for panecode interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockCacheManager is a mock implementation of cachemanager.CacheManager.
type MockCacheManager[K ~string, V any] struct {
	mock.Mock
}

// NewMockCacheManager creates a MockCacheManager whose expectations are
// asserted when the test finishes.
func NewMockCacheManager[K ~string, V any](t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCacheManager[K, V] {
	m := &MockCacheManager[K, V]{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockCacheManager[K, V]) Get(ctx context.Context, key K) (V, bool) {
	args := m.Called(ctx, key)
	var v V
	if args.Get(0) != nil {
		v = args.Get(0).(V)
	}
	return v, args.Bool(1)
}

func (m *MockCacheManager[K, V]) GetWithRefresh(ctx context.Context, key K, ttl time.Duration) (V, bool) {
	args := m.Called(ctx, key, ttl)
	var v V
	if args.Get(0) != nil {
		v = args.Get(0).(V)
	}
	return v, args.Bool(1)
}

func (m *MockCacheManager[K, V]) Set(ctx context.Context, key K, value V, ttl time.Duration) {
	m.Called(ctx, key, value, ttl)
}

func (m *MockCacheManager[K, V]) Delete(ctx context.Context, keys ...K) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func (m *MockCacheManager[K, V]) Flush(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
