package postgres

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"backoffice/internal/model"
	"backoffice/internal/repository"
)

const userColumns = `u.id, u.username, u.email, u.phone, u.balance, u.status, u.created_at, u.updated_at`

// UserPostgres is the PostgreSQL implementation of repository.UserRepository.
type UserPostgres struct {
	base
}

func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{base{db: db}}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

func scanUser(row scanner) (*model.User, error) {
	var u model.User
	if err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.Phone,
		&u.Balance,
		&u.Status,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserPostgres) Create(ctx context.Context, u *model.User) (*model.User, error) {
	const q = `
		INSERT INTO users AS u (username, email, phone, balance, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns
	out, err := scanUser(r.q(ctx).QueryRowContext(ctx, q, u.Username, u.Email, u.Phone, u.Balance, u.Status))
	if err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}

func (r *UserPostgres) FindByID(ctx context.Context, id int64) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users u WHERE u.id = $1`
	u, err := scanUser(r.q(ctx).QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, mapErr(err)
	}
	return u, nil
}

func (r *UserPostgres) FindByIDForUpdate(ctx context.Context, id int64) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users u WHERE u.id = $1 FOR UPDATE`
	u, err := scanUser(r.q(ctx).QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, mapErr(err)
	}
	return u, nil
}

func (r *UserPostgres) List(ctx context.Context, f repository.UserFilter, pq repository.PageQuery) (*repository.PageResult[model.User], error) {
	conds := sq.And{}
	if f.AgentID != nil {
		conds = append(conds, assignedTo("u.id", *f.AgentID))
	}
	if f.Username != "" {
		conds = append(conds, sq.ILike{"u.username": "%" + f.Username + "%"})
	}
	if f.Status != "" {
		conds = append(conds, sq.Eq{"u.status": f.Status})
	}

	countQ := psql.Select("COUNT(*)").From("users u")
	listQ := psql.Select(userColumns).From("users u").OrderBy("u.created_at DESC", "u.id DESC")
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
		return nil, fmt.Errorf("build user list: %w", err)
	}
	rows, err := r.q(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.User]{Items: items, Total: total}, nil
}

func (r *UserPostgres) Update(ctx context.Context, u *model.User) error {
	const q = `UPDATE users SET email = $1, phone = $2, status = $3, updated_at = now() WHERE id = $4`
	return requireAffected(r.q(ctx).ExecContext(ctx, q, u.Email, u.Phone, u.Status, u.ID))
}

func (r *UserPostgres) UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) error {
	const q = `UPDATE users SET balance = $1, updated_at = now() WHERE id = $2`
	return requireAffected(r.q(ctx).ExecContext(ctx, q, balance, id))
}
