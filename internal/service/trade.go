package service

import (
	"context"

	"backoffice/internal/model"
	"backoffice/internal/repository"
)

type TradeService interface {
	List(ctx context.Context, actor model.Actor, f repository.TradeFilter, limit, offset int) (*ListResult[model.Trade], error)
}

type tradeService struct {
	scope
	trades repository.TradeRepository
}

func NewTradeService(agents repository.AgentRepository, trades repository.TradeRepository) TradeService {
	return &tradeService{scope: scope{agents: agents}, trades: trades}
}

func (s *tradeService) List(ctx context.Context, actor model.Actor, f repository.TradeFilter, limit, offset int) (*ListResult[model.Trade], error) {
	if err := requirePerm(actor, model.PermViewTrades); err != nil {
		return nil, err
	}
	if f.UserID > 0 {
		if err := s.checkUser(ctx, actor, f.UserID); err != nil {
			return nil, err
		}
	}
	f.AgentID = agentScope(actor)
	res, err := s.trades.List(ctx, f, pageQuery(limit, offset))
	if err != nil {
		return nil, err
	}
	return newListResult(res), nil
}
