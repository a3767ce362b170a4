package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"backoffice/internal/model"
	"backoffice/internal/repository"
	"backoffice/internal/service"
)

type MockTradeService struct {
	mock.Mock
}

func (m *MockTradeService) List(ctx context.Context, actor model.Actor, f repository.TradeFilter, limit, offset int) (*service.ListResult[model.Trade], error) {
	args := m.Called(ctx, actor, f, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.Trade]), args.Error(1)
}
