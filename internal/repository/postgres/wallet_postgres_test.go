package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/model"
	"backoffice/internal/repository"
)

func TestWalletPostgres_CreateBankCard(t *testing.T) {
	db, mock := newMock(t)
	repo := NewWalletPostgres(db)
	userID := int64(4)
	now := time.Now().UTC()

	mock.ExpectQuery("INSERT INTO bank_cards").
		WithArgs(userID, nil, "ACME Bank", "Bob", "6222000011112222").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "agent_id", "bank_name", "account_name", "card_number", "created_at"}).
			AddRow(int64(1), userID, nil, "ACME Bank", "Bob", "6222000011112222", now))

	c, err := repo.CreateBankCard(context.Background(), &model.BankCard{
		UserID: &userID, BankName: "ACME Bank", AccountName: "Bob", CardNumber: "6222000011112222",
	})

	require.NoError(t, err)
	require.NotNil(t, c.UserID)
	assert.Equal(t, userID, *c.UserID)
	assert.Nil(t, c.AgentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletPostgres_ListCryptoWallets(t *testing.T) {
	db, mock := newMock(t)
	repo := NewWalletPostgres(db)
	agentID := int64(2)
	now := time.Now().UTC()

	mock.ExpectQuery(`FROM crypto_wallets WHERE agent_id = \$1 ORDER BY id`).
		WithArgs(agentID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "agent_id", "network", "address", "label", "created_at"}).
			AddRow(int64(9), nil, agentID, "TRC20", "TXYZ", "main", now))

	ws, err := repo.ListCryptoWallets(context.Background(), model.WalletOwner{AgentID: &agentID})

	require.NoError(t, err)
	require.Len(t, ws, 1)
	assert.Equal(t, "TRC20", ws[0].Network)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletPostgres_ListRequiresSingleOwner(t *testing.T) {
	db, _ := newMock(t)
	repo := NewWalletPostgres(db)
	id := int64(1)

	_, err := repo.ListBankCards(context.Background(), model.WalletOwner{})
	assert.Error(t, err)

	_, err = repo.ListBankCards(context.Background(), model.WalletOwner{UserID: &id, AgentID: &id})
	assert.Error(t, err)
}

func TestWalletPostgres_Delete(t *testing.T) {
	db, mock := newMock(t)
	repo := NewWalletPostgres(db)
	ctx := context.Background()

	mock.ExpectExec("DELETE FROM bank_cards").
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM crypto_wallets").
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.DeleteBankCard(ctx, 1))
	assert.ErrorIs(t, repo.DeleteCryptoWallet(ctx, 2), repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
