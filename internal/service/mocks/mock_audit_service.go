package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"backoffice/internal/model"
	"backoffice/internal/repository"
	"backoffice/internal/service"
)

type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) List(ctx context.Context, actor model.Actor, f repository.AuditFilter, limit, offset int) (*service.ListResult[model.AuditLog], error) {
	args := m.Called(ctx, actor, f, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.AuditLog]), args.Error(1)
}
