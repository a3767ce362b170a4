package postgres

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"backoffice/internal/model"
	"backoffice/internal/repository"
)

const tradeColumns = `t.id, t.user_id, t.symbol, t.direction, t.amount, t.open_price, t.close_price, t.result, t.payout, t.created_at, t.settled_at`

// TradePostgres reads trades. The trading engine owns writes.
type TradePostgres struct {
	base
}

func NewTradePostgres(db *sql.DB) *TradePostgres {
	return &TradePostgres{base{db: db}}
}

var _ repository.TradeRepository = (*TradePostgres)(nil)

func scanTrade(row scanner) (*model.Trade, error) {
	var (
		t         model.Trade
		settledAt sql.NullTime
	)
	if err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Symbol,
		&t.Direction,
		&t.Amount,
		&t.OpenPrice,
		&t.ClosePrice,
		&t.Result,
		&t.Payout,
		&t.CreatedAt,
		&settledAt,
	); err != nil {
		return nil, err
	}
	t.SettledAt = timePtr(settledAt)
	return &t, nil
}

func (r *TradePostgres) List(ctx context.Context, f repository.TradeFilter, pq repository.PageQuery) (*repository.PageResult[model.Trade], error) {
	conds := sq.And{}
	if f.AgentID != nil {
		conds = append(conds, assignedTo("t.user_id", *f.AgentID))
	}
	if f.UserID > 0 {
		conds = append(conds, sq.Eq{"t.user_id": f.UserID})
	}
	if f.Symbol != "" {
		conds = append(conds, sq.Eq{"t.symbol": f.Symbol})
	}
	if f.Result != "" {
		conds = append(conds, sq.Eq{"t.result": f.Result})
	}

	countQ := psql.Select("COUNT(*)").From("trades t")
	listQ := psql.Select(tradeColumns).From("trades t").OrderBy("t.created_at DESC", "t.id DESC")
	if len(conds) > 0 {
		countQ = countQ.Where(conds)
		listQ = listQ.Where(conds)
	}

	total, err := r.count(ctx, countQ)
	if err != nil {
		return nil, err
	}

	query, args, err := page(listQ, pq).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build trade list: %w", err)
	}
	rows, err := r.q(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Trade, 0)
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Trade]{Items: items, Total: total}, nil
}
