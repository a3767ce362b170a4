package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"backoffice/internal/model"
	"backoffice/internal/service"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, username, password, ip string) (*service.LoginResult, error) {
	args := m.Called(ctx, username, password, ip)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LoginResult), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, actor model.Actor) error {
	return m.Called(ctx, actor).Error(0)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, actor model.Actor, oldPassword, newPassword string) error {
	return m.Called(ctx, actor, oldPassword, newPassword).Error(0)
}

func (m *MockAuthService) Authenticate(ctx context.Context, token string) (model.Actor, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(model.Actor), args.Error(1)
}

func (m *MockAuthService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	args := m.Called(ctx, username, password)
	return args.Bool(0), args.Error(1)
}
