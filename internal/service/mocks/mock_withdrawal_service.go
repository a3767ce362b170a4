package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"backoffice/internal/model"
	"backoffice/internal/repository"
	"backoffice/internal/service"
)

type MockWithdrawalService struct {
	mock.Mock
}

func (m *MockWithdrawalService) List(ctx context.Context, actor model.Actor, f repository.WithdrawalFilter, limit, offset int) (*service.ListResult[model.Withdrawal], error) {
	args := m.Called(ctx, actor, f, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.Withdrawal]), args.Error(1)
}

func (m *MockWithdrawalService) Get(ctx context.Context, actor model.Actor, id int64) (*model.Withdrawal, error) {
	return withdrawalResult(m.Called(ctx, actor, id))
}

func (m *MockWithdrawalService) Create(ctx context.Context, actor model.Actor, in service.CreateWithdrawalInput) (*model.Withdrawal, error) {
	return withdrawalResult(m.Called(ctx, actor, in))
}

func (m *MockWithdrawalService) Review(ctx context.Context, actor model.Actor, id int64, action service.ReviewAction, reason string) (*model.Withdrawal, error) {
	return withdrawalResult(m.Called(ctx, actor, id, action, reason))
}

func (m *MockWithdrawalService) UploadReceipt(ctx context.Context, actor model.Actor, id int64, r io.Reader, filename, contentType string, size int64) (*model.Withdrawal, error) {
	return withdrawalResult(m.Called(ctx, actor, id, r, filename, contentType, size))
}

func (m *MockWithdrawalService) ReceiptURL(ctx context.Context, actor model.Actor, id int64) (string, error) {
	args := m.Called(ctx, actor, id)
	return args.String(0), args.Error(1)
}

func (m *MockWithdrawalService) ReceiptsEnabled() bool {
	return m.Called().Bool(0)
}

func withdrawalResult(args mock.Arguments) (*model.Withdrawal, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Withdrawal), args.Error(1)
}
