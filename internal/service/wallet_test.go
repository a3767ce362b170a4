package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"backoffice/internal/model"
	"backoffice/internal/repository"
	repoMocks "backoffice/internal/repository/mocks"
)

func newWalletService(t *testing.T) (WalletService, *repoMocks.MockAgentRepository, *repoMocks.MockWalletRepository) {
	agents := new(repoMocks.MockAgentRepository)
	wallets := new(repoMocks.MockWalletRepository)
	auditor, _ := newAuditor(t)
	return NewWalletService(agents, wallets, auditor), agents, wallets
}

func TestWalletService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("own wallets without user_id", func(t *testing.T) {
		svc, _, wallets := newWalletService(t)
		owner := model.WalletOwner{AgentID: ptr(agentActor.AgentID)}
		wallets.On("ListBankCards", ctx, owner).Return([]model.BankCard{{ID: 1}}, nil)
		wallets.On("ListCryptoWallets", ctx, owner).Return([]model.CryptoWallet{}, nil)

		w, err := svc.List(ctx, agentActor, nil)

		require.NoError(t, err)
		assert.Len(t, w.BankCards, 1)
		assert.Empty(t, w.CryptoWallets)
		wallets.AssertExpectations(t)
	})

	t.Run("user outside scope", func(t *testing.T) {
		svc, agents, wallets := newWalletService(t)
		agents.On("IsAssigned", ctx, agentActor.AgentID, int64(8)).Return(false, nil)

		_, err := svc.List(ctx, agentActor, ptr(int64(8)))

		assert.ErrorIs(t, err, ErrNotFound)
		wallets.AssertNotCalled(t, "ListBankCards", mock.Anything, mock.Anything)
	})
}

func TestWalletService_AddCryptoWallet(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		actor      model.Actor
		in         CryptoWalletInput
		setupMocks func(agents *repoMocks.MockAgentRepository, wallets *repoMocks.MockWalletRepository)
		wantErr    error
	}{
		{
			name:  "user wallet, network normalized",
			actor: agentActor,
			in:    CryptoWalletInput{UserID: ptr(int64(4)), Network: " trc20 ", Address: "TQ1"},
			setupMocks: func(agents *repoMocks.MockAgentRepository, wallets *repoMocks.MockWalletRepository) {
				agents.On("IsAssigned", ctx, agentActor.AgentID, int64(4)).Return(true, nil)
				wallets.On("CreateCryptoWallet", ctx, mock.MatchedBy(func(w *model.CryptoWallet) bool {
					return w.Network == "TRC20" && w.UserID != nil && *w.UserID == 4 && w.AgentID == nil
				})).Return(&model.CryptoWallet{ID: 3, Network: "TRC20"}, nil)
			},
		},
		{
			name:  "agent's own wallet",
			actor: agentActor,
			in:    CryptoWalletInput{Network: "BTC", Address: "bc1q"},
			setupMocks: func(agents *repoMocks.MockAgentRepository, wallets *repoMocks.MockWalletRepository) {
				wallets.On("CreateCryptoWallet", ctx, mock.MatchedBy(func(w *model.CryptoWallet) bool {
					return w.UserID == nil && w.AgentID != nil && *w.AgentID == agentActor.AgentID
				})).Return(&model.CryptoWallet{ID: 4}, nil)
			},
		},
		{
			name:       "unsupported network",
			actor:      agentActor,
			in:         CryptoWalletInput{Network: "DOGE", Address: "D1"},
			setupMocks: func(agents *repoMocks.MockAgentRepository, wallets *repoMocks.MockWalletRepository) {},
			wantErr:    ErrInvalidInput,
		},
		{
			name:       "missing permission",
			actor:      bareAgent,
			in:         CryptoWalletInput{Network: "BTC", Address: "bc1q"},
			setupMocks: func(agents *repoMocks.MockAgentRepository, wallets *repoMocks.MockWalletRepository) {},
			wantErr:    ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, agents, wallets := newWalletService(t)
			tt.setupMocks(agents, wallets)

			w, err := svc.AddCryptoWallet(ctx, tt.actor, tt.in)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, w)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, w)
			}
			agents.AssertExpectations(t)
			wallets.AssertExpectations(t)
		})
	}
}

func TestWalletService_AddBankCard(t *testing.T) {
	ctx := context.Background()
	svc, _, wallets := newWalletService(t)
	wallets.On("CreateBankCard", ctx, mock.MatchedBy(func(c *model.BankCard) bool {
		return c.CardNumber == "6222000011112222" && c.AgentID != nil
	})).Return(&model.BankCard{ID: 1}, nil)

	_, err := svc.AddBankCard(ctx, agentActor, BankCardInput{BankName: "ACME", AccountName: "Alice", CardNumber: "6222 0000 1111 2222"})
	require.NoError(t, err)

	_, err = svc.AddBankCard(ctx, agentActor, BankCardInput{BankName: "ACME"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	wallets.AssertExpectations(t)
}

func TestWalletService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("another agent's card is hidden", func(t *testing.T) {
		svc, _, wallets := newWalletService(t)
		wallets.On("FindBankCard", ctx, int64(1)).Return(&model.BankCard{ID: 1, AgentID: ptr(int64(77))}, nil)

		err := svc.DeleteBankCard(ctx, agentActor, 1)

		assert.ErrorIs(t, err, ErrNotFound)
		wallets.AssertNotCalled(t, "DeleteBankCard", mock.Anything, mock.Anything)
	})

	t.Run("assigned user's crypto wallet", func(t *testing.T) {
		svc, agents, wallets := newWalletService(t)
		wallets.On("FindCryptoWallet", ctx, int64(2)).Return(&model.CryptoWallet{ID: 2, UserID: ptr(int64(4))}, nil)
		agents.On("IsAssigned", ctx, agentActor.AgentID, int64(4)).Return(true, nil)
		wallets.On("DeleteCryptoWallet", ctx, int64(2)).Return(nil)

		require.NoError(t, svc.DeleteCryptoWallet(ctx, agentActor, 2))
		wallets.AssertExpectations(t)
	})

	t.Run("missing", func(t *testing.T) {
		svc, _, wallets := newWalletService(t)
		wallets.On("FindBankCard", ctx, int64(5)).Return(nil, repository.ErrNotFound)

		assert.ErrorIs(t, svc.DeleteBankCard(ctx, adminActor, 5), ErrNotFound)
	})
}
