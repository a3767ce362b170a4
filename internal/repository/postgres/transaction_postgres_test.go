package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/model"
	"backoffice/internal/repository"
)

var transactionRowColumns = []string{
	"id", "user_id", "type", "amount", "old_balance", "new_balance", "status", "reference", "remark", "operator_agent_id", "created_at",
}

func TestTransactionPostgres_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTransactionPostgres(db)
	ctx := context.Background()
	operator := int64(2)
	now := time.Now().UTC()

	tx := &model.Transaction{
		UserID:          1,
		Type:            model.TxAdjustment,
		Amount:          mustDecimal(t, "50"),
		OldBalance:      mustDecimal(t, "100"),
		NewBalance:      mustDecimal(t, "150"),
		Status:          model.TxCompleted,
		Reference:       "TX20260101000000ABCDEF012345",
		Remark:          "bonus",
		OperatorAgentID: &operator,
	}

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO transactions").
			WithArgs(int64(1), model.TxAdjustment, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
				model.TxCompleted, tx.Reference, "bonus", operator).
			WillReturnRows(sqlmock.NewRows(transactionRowColumns).
				AddRow(int64(11), int64(1), "adjustment", "50", "100", "150", "completed", tx.Reference, "bonus", operator, now))

		out, err := repo.Create(ctx, tx)

		require.NoError(t, err)
		assert.Equal(t, int64(11), out.ID)
		assert.True(t, out.NewBalance.Equal(mustDecimal(t, "150")))
		require.NotNil(t, out.OperatorAgentID)
		assert.Equal(t, operator, *out.OperatorAgentID)
	})

	t.Run("reference reused", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO transactions").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "transactions_reference_key"})

		_, err := repo.Create(ctx, tx)

		assert.ErrorIs(t, err, repository.ErrDuplicate)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionPostgres_UpdateStatus(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTransactionPostgres(db)

	mock.ExpectExec("UPDATE transactions SET status").
		WithArgs(model.TxFailed, int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.UpdateStatus(context.Background(), 11, model.TxFailed))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionPostgres_List(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTransactionPostgres(db)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM transactions WHERE \(user_id = \$1 AND type = \$2\)`).
		WithArgs(int64(1), model.TxDeposit).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`ORDER BY created_at DESC, id DESC LIMIT 1 OFFSET 2`).
		WithArgs(int64(1), model.TxDeposit).
		WillReturnRows(sqlmock.NewRows(transactionRowColumns).
			AddRow(int64(3), int64(1), "deposit", "10", "0", "10", "completed", "TX1", "", nil, now))

	res, err := repo.List(context.Background(),
		repository.TransactionFilter{UserID: 1, Type: model.TxDeposit},
		repository.PageQuery{Limit: 1, Offset: 2})

	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	require.Len(t, res.Items, 1)
	assert.Nil(t, res.Items[0].OperatorAgentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
