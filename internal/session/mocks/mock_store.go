package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Create(ctx context.Context, agentID int64, sessionID string, ttl time.Duration) error {
	return m.Called(ctx, agentID, sessionID, ttl).Error(0)
}

func (m *MockStore) Exists(ctx context.Context, sessionID string) (bool, error) {
	args := m.Called(ctx, sessionID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) Revoke(ctx context.Context, agentID int64, sessionID string) error {
	return m.Called(ctx, agentID, sessionID).Error(0)
}

func (m *MockStore) RevokeAll(ctx context.Context, agentID int64) error {
	return m.Called(ctx, agentID).Error(0)
}
