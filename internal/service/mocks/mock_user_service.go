package mocks

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"backoffice/internal/model"
	"backoffice/internal/repository"
	"backoffice/internal/service"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) List(ctx context.Context, actor model.Actor, f repository.UserFilter, limit, offset int) (*service.ListResult[model.User], error) {
	args := m.Called(ctx, actor, f, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.User]), args.Error(1)
}

func (m *MockUserService) Get(ctx context.Context, actor model.Actor, id int64) (*model.User, error) {
	return userResult(m.Called(ctx, actor, id))
}

func (m *MockUserService) Create(ctx context.Context, actor model.Actor, in service.CreateUserInput) (*model.User, error) {
	return userResult(m.Called(ctx, actor, in))
}

func (m *MockUserService) Update(ctx context.Context, actor model.Actor, id int64, in service.UpdateUserInput) (*model.User, error) {
	return userResult(m.Called(ctx, actor, id, in))
}

func (m *MockUserService) AdjustBalance(ctx context.Context, actor model.Actor, id int64, amount decimal.Decimal, remark string) (*service.BalanceAdjustment, error) {
	args := m.Called(ctx, actor, id, amount, remark)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BalanceAdjustment), args.Error(1)
}

func (m *MockUserService) Transactions(ctx context.Context, actor model.Actor, id int64, f repository.TransactionFilter, limit, offset int) (*service.ListResult[model.Transaction], error) {
	args := m.Called(ctx, actor, id, f, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.Transaction]), args.Error(1)
}

func userResult(args mock.Arguments) (*model.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}
