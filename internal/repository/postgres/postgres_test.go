package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/database"
	"backoffice/internal/repository"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestMapErr(t *testing.T) {
	assert.NoError(t, mapErr(nil))
	assert.ErrorIs(t, mapErr(sql.ErrNoRows), repository.ErrNotFound)

	dup := mapErr(&pgconn.PgError{Code: uniqueViolation, ConstraintName: "agents_username_key"})
	assert.ErrorIs(t, dup, repository.ErrDuplicate)
	assert.Contains(t, dup.Error(), "agents_username_key")

	other := errors.New("boom")
	assert.Equal(t, other, mapErr(other))
}

func TestRequireAffected(t *testing.T) {
	assert.NoError(t, requireAffected(sqlmock.NewResult(0, 1), nil))
	assert.ErrorIs(t, requireAffected(sqlmock.NewResult(0, 0), nil), repository.ErrNotFound)
	assert.ErrorIs(t, requireAffected(nil, sql.ErrNoRows), repository.ErrNotFound)
}

func TestPage_InlinesLimitOffset(t *testing.T) {
	query, args, err := page(psql.Select("id").From("users"), repository.PageQuery{Limit: 10, Offset: 20}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM users LIMIT 10 OFFSET 20", query)
	assert.Empty(t, args)
}

func TestAssignedTo(t *testing.T) {
	query, args, err := psql.Select("u.id").From("users u").Where(assignedTo("u.id", 7)).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT u.id FROM users u WHERE EXISTS (SELECT 1 FROM agent_assigned_users au WHERE au.user_id = u.id AND au.agent_id = $1)", query)
	assert.Equal(t, []any{int64(7)}, args)
}

func TestBase_JoinsTransactionFromContext(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserPostgres(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users SET balance").
		WithArgs(sqlmock.AnyArg(), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := database.NewTransactor(db).WithinTx(context.Background(), func(ctx context.Context) error {
		return repo.UpdateBalance(ctx, 1, mustDecimal(t, "10"))
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
