package postgres

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"backoffice/internal/model"
	"backoffice/internal/repository"
)

const withdrawalColumns = `w.id, w.order_number, w.user_id, w.amount, w.method, w.bank_card_id, w.crypto_wallet_id,
	w.transaction_id, w.status, w.reviewed_by, w.reviewed_at, w.reject_reason, w.receipt_path, w.created_at, w.updated_at`

// WithdrawalPostgres is the PostgreSQL implementation of repository.WithdrawalRepository.
type WithdrawalPostgres struct {
	base
}

func NewWithdrawalPostgres(db *sql.DB) *WithdrawalPostgres {
	return &WithdrawalPostgres{base{db: db}}
}

var _ repository.WithdrawalRepository = (*WithdrawalPostgres)(nil)

func scanWithdrawal(row scanner) (*model.Withdrawal, error) {
	var (
		w                 model.Withdrawal
		bankCard, cryptoW sql.NullInt64
		reviewedBy        sql.NullInt64
		reviewedAt        sql.NullTime
	)
	if err := row.Scan(
		&w.ID,
		&w.OrderNumber,
		&w.UserID,
		&w.Amount,
		&w.Method,
		&bankCard,
		&cryptoW,
		&w.TransactionID,
		&w.Status,
		&reviewedBy,
		&reviewedAt,
		&w.RejectReason,
		&w.ReceiptPath,
		&w.CreatedAt,
		&w.UpdatedAt,
	); err != nil {
		return nil, err
	}
	w.BankCardID = int64Ptr(bankCard)
	w.CryptoWalletID = int64Ptr(cryptoW)
	w.ReviewedBy = int64Ptr(reviewedBy)
	w.ReviewedAt = timePtr(reviewedAt)
	return &w, nil
}

func (r *WithdrawalPostgres) Create(ctx context.Context, w *model.Withdrawal) (*model.Withdrawal, error) {
	const q = `
		INSERT INTO withdrawals AS w (order_number, user_id, amount, method, bank_card_id, crypto_wallet_id, transaction_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + withdrawalColumns
	out, err := scanWithdrawal(r.q(ctx).QueryRowContext(ctx, q,
		w.OrderNumber,
		w.UserID,
		w.Amount,
		w.Method,
		w.BankCardID,
		w.CryptoWalletID,
		w.TransactionID,
		w.Status,
	))
	if err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}

func (r *WithdrawalPostgres) FindByID(ctx context.Context, id int64) (*model.Withdrawal, error) {
	const q = `SELECT ` + withdrawalColumns + ` FROM withdrawals w WHERE w.id = $1`
	w, err := scanWithdrawal(r.q(ctx).QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, mapErr(err)
	}
	return w, nil
}

func (r *WithdrawalPostgres) FindByIDForUpdate(ctx context.Context, id int64) (*model.Withdrawal, error) {
	const q = `SELECT ` + withdrawalColumns + ` FROM withdrawals w WHERE w.id = $1 FOR UPDATE`
	w, err := scanWithdrawal(r.q(ctx).QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, mapErr(err)
	}
	return w, nil
}

func (r *WithdrawalPostgres) List(ctx context.Context, f repository.WithdrawalFilter, pq repository.PageQuery) (*repository.PageResult[model.Withdrawal], error) {
	conds := sq.And{}
	if f.AgentID != nil {
		conds = append(conds, assignedTo("w.user_id", *f.AgentID))
	}
	if f.UserID > 0 {
		conds = append(conds, sq.Eq{"w.user_id": f.UserID})
	}
	if f.Status != "" {
		conds = append(conds, sq.Eq{"w.status": f.Status})
	}

	countQ := psql.Select("COUNT(*)").From("withdrawals w")
	listQ := psql.Select(withdrawalColumns).From("withdrawals w").OrderBy("w.created_at DESC", "w.id DESC")
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
		return nil, fmt.Errorf("build withdrawal list: %w", err)
	}
	rows, err := r.q(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Withdrawal, 0)
	for rows.Next() {
		w, err := scanWithdrawal(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Withdrawal]{Items: items, Total: total}, nil
}

func (r *WithdrawalPostgres) UpdateReview(ctx context.Context, w *model.Withdrawal) error {
	const q = `
		UPDATE withdrawals
		SET status = $1, reviewed_by = $2, reviewed_at = $3, reject_reason = $4, updated_at = now()
		WHERE id = $5
	`
	return requireAffected(r.q(ctx).ExecContext(ctx, q, w.Status, w.ReviewedBy, w.ReviewedAt, w.RejectReason, w.ID))
}

func (r *WithdrawalPostgres) SetReceipt(ctx context.Context, id int64, path string) error {
	const q = `UPDATE withdrawals SET receipt_path = $1, updated_at = now() WHERE id = $2`
	return requireAffected(r.q(ctx).ExecContext(ctx, q, path, id))
}
