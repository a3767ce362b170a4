package postgres

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"backoffice/internal/model"
	"backoffice/internal/repository"
)

const transactionColumns = `id, user_id, type, amount, old_balance, new_balance, status, reference, remark, operator_agent_id, created_at`

// TransactionPostgres is the ledger table.
type TransactionPostgres struct {
	base
}

func NewTransactionPostgres(db *sql.DB) *TransactionPostgres {
	return &TransactionPostgres{base{db: db}}
}

var _ repository.TransactionRepository = (*TransactionPostgres)(nil)

func scanTransaction(row scanner) (*model.Transaction, error) {
	var (
		t        model.Transaction
		operator sql.NullInt64
	)
	if err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Type,
		&t.Amount,
		&t.OldBalance,
		&t.NewBalance,
		&t.Status,
		&t.Reference,
		&t.Remark,
		&operator,
		&t.CreatedAt,
	); err != nil {
		return nil, err
	}
	t.OperatorAgentID = int64Ptr(operator)
	return &t, nil
}

func (r *TransactionPostgres) Create(ctx context.Context, t *model.Transaction) (*model.Transaction, error) {
	const q = `
		INSERT INTO transactions (user_id, type, amount, old_balance, new_balance, status, reference, remark, operator_agent_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + transactionColumns
	out, err := scanTransaction(r.q(ctx).QueryRowContext(ctx, q,
		t.UserID,
		t.Type,
		t.Amount,
		t.OldBalance,
		t.NewBalance,
		t.Status,
		t.Reference,
		t.Remark,
		t.OperatorAgentID,
	))
	if err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}

func (r *TransactionPostgres) UpdateStatus(ctx context.Context, id int64, status model.TransactionStatus) error {
	const q = `UPDATE transactions SET status = $1 WHERE id = $2`
	return requireAffected(r.q(ctx).ExecContext(ctx, q, status, id))
}

func (r *TransactionPostgres) List(ctx context.Context, f repository.TransactionFilter, pq repository.PageQuery) (*repository.PageResult[model.Transaction], error) {
	conds := sq.And{sq.Eq{"user_id": f.UserID}}
	if f.Type != "" {
		conds = append(conds, sq.Eq{"type": f.Type})
	}
	if f.Status != "" {
		conds = append(conds, sq.Eq{"status": f.Status})
	}

	total, err := r.count(ctx, psql.Select("COUNT(*)").From("transactions").Where(conds))
	if err != nil {
		return nil, err
	}

	listQ := psql.Select(transactionColumns).From("transactions").Where(conds).OrderBy("created_at DESC", "id DESC")
	query, args, err := page(listQ, pq).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build transaction list: %w", err)
	}
	rows, err := r.q(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Transaction]{Items: items, Total: total}, nil
}
