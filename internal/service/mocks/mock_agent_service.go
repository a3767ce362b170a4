package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"backoffice/internal/model"
	"backoffice/internal/repository"
	"backoffice/internal/service"
)

type MockAgentService struct {
	mock.Mock
}

func (m *MockAgentService) List(ctx context.Context, actor model.Actor, f repository.AgentFilter, limit, offset int) (*service.ListResult[model.Agent], error) {
	args := m.Called(ctx, actor, f, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.Agent]), args.Error(1)
}

func (m *MockAgentService) Get(ctx context.Context, actor model.Actor, id int64) (*model.Agent, error) {
	return agentResult(m.Called(ctx, actor, id))
}

func (m *MockAgentService) Create(ctx context.Context, actor model.Actor, in service.CreateAgentInput) (*model.Agent, error) {
	return agentResult(m.Called(ctx, actor, in))
}

func (m *MockAgentService) Update(ctx context.Context, actor model.Actor, id int64, in service.UpdateAgentInput) (*model.Agent, error) {
	return agentResult(m.Called(ctx, actor, id, in))
}

func (m *MockAgentService) SetPermissions(ctx context.Context, actor model.Actor, id int64, p model.Permissions) (*model.Agent, error) {
	return agentResult(m.Called(ctx, actor, id, p))
}

func (m *MockAgentService) ResetPassword(ctx context.Context, actor model.Actor, id int64, newPassword string) error {
	return m.Called(ctx, actor, id, newPassword).Error(0)
}

func (m *MockAgentService) AssignUsers(ctx context.Context, actor model.Actor, id int64, userIDs []int64) error {
	return m.Called(ctx, actor, id, userIDs).Error(0)
}

func (m *MockAgentService) UnassignUser(ctx context.Context, actor model.Actor, id, userID int64) error {
	return m.Called(ctx, actor, id, userID).Error(0)
}

func (m *MockAgentService) Profile(ctx context.Context, actor model.Actor) (*model.Agent, error) {
	return agentResult(m.Called(ctx, actor))
}

func (m *MockAgentService) UpdateProfile(ctx context.Context, actor model.Actor, name string) (*model.Agent, error) {
	return agentResult(m.Called(ctx, actor, name))
}

func agentResult(args mock.Arguments) (*model.Agent, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Agent), args.Error(1)
}
