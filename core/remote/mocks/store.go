package mocks

import (
	"context"

	"event-sync/core/events"

	"github.com/stretchr/testify/mock"
)

// Store is a mock implementation of remote.Store
type Store struct {
	mock.Mock
}

func (m *Store) Apply(ctx context.Context, name events.Name, delta int64) error {
	args := m.Called(ctx, name, delta)
	return args.Error(0)
}

func (m *Store) Count(ctx context.Context, name events.Name) (int64, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Error(1)
}
