package repository

import (
	"context"

	"backoffice/internal/model"
)

type TradeFilter struct {
	AgentID *int64
	UserID  int64
	Symbol  string
	Result  string
}

type TradeRepository interface {
	List(ctx context.Context, f TradeFilter, pq PageQuery) (*PageResult[model.Trade], error)
}
