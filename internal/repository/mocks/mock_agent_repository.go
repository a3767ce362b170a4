package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"backoffice/internal/model"
	"backoffice/internal/repository"
)

type MockAgentRepository struct {
	mock.Mock
}

func (m *MockAgentRepository) Create(ctx context.Context, a *model.Agent) (*model.Agent, error) {
	args := m.Called(ctx, a)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Agent), args.Error(1)
}

func (m *MockAgentRepository) FindByID(ctx context.Context, id int64) (*model.Agent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Agent), args.Error(1)
}

func (m *MockAgentRepository) FindByUsername(ctx context.Context, username string) (*model.Agent, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Agent), args.Error(1)
}

func (m *MockAgentRepository) List(ctx context.Context, f repository.AgentFilter, pq repository.PageQuery) (*repository.PageResult[model.Agent], error) {
	args := m.Called(ctx, f, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Agent]), args.Error(1)
}

func (m *MockAgentRepository) Update(ctx context.Context, a *model.Agent) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAgentRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	args := m.Called(ctx, id, hash)
	return args.Error(0)
}

func (m *MockAgentRepository) TouchLogin(ctx context.Context, id int64, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockAgentRepository) CountAdmins(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockAgentRepository) UpsertPermissions(ctx context.Context, agentID int64, p model.Permissions) error {
	args := m.Called(ctx, agentID, p)
	return args.Error(0)
}

func (m *MockAgentRepository) AssignUsers(ctx context.Context, agentID int64, userIDs []int64) error {
	args := m.Called(ctx, agentID, userIDs)
	return args.Error(0)
}

func (m *MockAgentRepository) UnassignUser(ctx context.Context, agentID, userID int64) error {
	args := m.Called(ctx, agentID, userID)
	return args.Error(0)
}

func (m *MockAgentRepository) IsAssigned(ctx context.Context, agentID, userID int64) (bool, error) {
	args := m.Called(ctx, agentID, userID)
	return args.Bool(0), args.Error(1)
}
