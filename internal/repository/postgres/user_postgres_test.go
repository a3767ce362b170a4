package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/model"
	"backoffice/internal/repository"
)

var userRowColumns = []string{"id", "username", "email", "phone", "balance", "status", "created_at", "updated_at"}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestUserPostgres_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO users AS u").
			WithArgs("bob", "bob@example.com", "", sqlmock.AnyArg(), model.UserActive).
			WillReturnRows(sqlmock.NewRows(userRowColumns).
				AddRow(int64(1), "bob", "bob@example.com", "", "0", "active", now, now))

		u, err := repo.Create(ctx, &model.User{Username: "bob", Email: "bob@example.com", Status: model.UserActive})

		require.NoError(t, err)
		assert.Equal(t, int64(1), u.ID)
		assert.True(t, u.Balance.IsZero())
	})

	t.Run("duplicate username", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO users AS u").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})

		u, err := repo.Create(ctx, &model.User{Username: "bob", Status: model.UserActive})

		assert.ErrorIs(t, err, repository.ErrDuplicate)
		assert.Nil(t, u)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgres_FindByIDForUpdate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserPostgres(db)
	now := time.Now().UTC()

	mock.ExpectQuery(`FROM users u WHERE u.id = \$1 FOR UPDATE`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(int64(1), "bob", "", "", "125.50", "active", now, now))

	u, err := repo.FindByIDForUpdate(context.Background(), 1)

	require.NoError(t, err)
	assert.True(t, u.Balance.Equal(mustDecimal(t, "125.5")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgres_List_ScopedToAgent(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserPostgres(db)
	agentID := int64(7)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users u WHERE \(EXISTS \(SELECT 1 FROM agent_assigned_users au WHERE au.user_id = u.id AND au.agent_id = \$1\) AND u.status = \$2\)`).
		WithArgs(agentID, model.UserFrozen).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`ORDER BY u.created_at DESC, u.id DESC LIMIT 10`).
		WithArgs(agentID, model.UserFrozen).
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(int64(3), "carol", "", "", "5", "frozen", now, now))

	res, err := repo.List(context.Background(),
		repository.UserFilter{AgentID: &agentID, Status: model.UserFrozen},
		repository.PageQuery{Limit: 10})

	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	require.Len(t, res.Items, 1)
	assert.Equal(t, model.UserFrozen, res.Items[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgres_List_Empty(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserPostgres(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users u$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`FROM users u ORDER BY`).
		WillReturnRows(sqlmock.NewRows(userRowColumns))

	res, err := repo.List(context.Background(), repository.UserFilter{}, repository.PageQuery{Limit: 10})

	require.NoError(t, err)
	assert.NotNil(t, res.Items)
	assert.Empty(t, res.Items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgres_Update(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserPostgres(db)

	mock.ExpectExec("UPDATE users SET email").
		WithArgs("new@example.com", "555", model.UserFrozen, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), &model.User{ID: 1, Email: "new@example.com", Phone: "555", Status: model.UserFrozen})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
