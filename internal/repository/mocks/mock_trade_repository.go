package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"backoffice/internal/model"
	"backoffice/internal/repository"
)

type MockTradeRepository struct {
	mock.Mock
}

func (m *MockTradeRepository) List(ctx context.Context, f repository.TradeFilter, pq repository.PageQuery) (*repository.PageResult[model.Trade], error) {
	args := m.Called(ctx, f, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Trade]), args.Error(1)
}
