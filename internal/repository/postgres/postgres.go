// Package postgres implements the repository contracts on database/sql with the pgx driver.
// Fixed statements are plain parameterized SQL; filtered listings are built with squirrel.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"

	"backoffice/internal/database"
	"backoffice/internal/repository"
)

// uniqueViolation is the SQLSTATE raised by UNIQUE and PRIMARY KEY constraints.
const uniqueViolation = "23505"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type scanner interface {
	Scan(dest ...any) error
}

// base gives every repository access to the transaction in ctx, if any.
type base struct {
	db *sql.DB
}

func (b base) q(ctx context.Context) database.Querier {
	return database.Conn(ctx, b.db)
}

// count runs a COUNT(*) built by squirrel.
func (b base) count(ctx context.Context, qb sq.SelectBuilder) (int, error) {
	query, args, err := qb.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}
	var total int
	if err := b.q(ctx).QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// mapErr converts driver errors into repository sentinels.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", repository.ErrDuplicate, pgErr.ConstraintName)
	}
	return err
}

// requireAffected turns a zero-row UPDATE/DELETE into ErrNotFound.
func requireAffected(res sql.Result, err error) error {
	if err != nil {
		return mapErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func page(qb sq.SelectBuilder, pq repository.PageQuery) sq.SelectBuilder {
	if pq.Limit > 0 {
		qb = qb.Limit(uint64(pq.Limit))
	}
	if pq.Offset > 0 {
		qb = qb.Offset(uint64(pq.Offset))
	}
	return qb
}

func assignedTo(userCol string, agentID int64) sq.Sqlizer {
	return sq.Expr("EXISTS (SELECT 1 FROM agent_assigned_users au WHERE au.user_id = "+userCol+" AND au.agent_id = ?)", agentID)
}

func int64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}

func timePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}
