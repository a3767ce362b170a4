package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"backoffice/internal/model"
)

type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) CreateBankCard(ctx context.Context, c *model.BankCard) (*model.BankCard, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BankCard), args.Error(1)
}

func (m *MockWalletRepository) CreateCryptoWallet(ctx context.Context, w *model.CryptoWallet) (*model.CryptoWallet, error) {
	args := m.Called(ctx, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CryptoWallet), args.Error(1)
}

func (m *MockWalletRepository) ListBankCards(ctx context.Context, owner model.WalletOwner) ([]model.BankCard, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.BankCard), args.Error(1)
}

func (m *MockWalletRepository) ListCryptoWallets(ctx context.Context, owner model.WalletOwner) ([]model.CryptoWallet, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CryptoWallet), args.Error(1)
}

func (m *MockWalletRepository) FindBankCard(ctx context.Context, id int64) (*model.BankCard, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BankCard), args.Error(1)
}

func (m *MockWalletRepository) FindCryptoWallet(ctx context.Context, id int64) (*model.CryptoWallet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CryptoWallet), args.Error(1)
}

func (m *MockWalletRepository) DeleteBankCard(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockWalletRepository) DeleteCryptoWallet(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
