package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"backoffice/internal/model"
	"backoffice/internal/service"
)

type MockWalletService struct {
	mock.Mock
}

func (m *MockWalletService) List(ctx context.Context, actor model.Actor, userID *int64) (*model.Wallets, error) {
	args := m.Called(ctx, actor, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Wallets), args.Error(1)
}

func (m *MockWalletService) AddBankCard(ctx context.Context, actor model.Actor, in service.BankCardInput) (*model.BankCard, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BankCard), args.Error(1)
}

func (m *MockWalletService) AddCryptoWallet(ctx context.Context, actor model.Actor, in service.CryptoWalletInput) (*model.CryptoWallet, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CryptoWallet), args.Error(1)
}

func (m *MockWalletService) DeleteBankCard(ctx context.Context, actor model.Actor, id int64) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *MockWalletService) DeleteCryptoWallet(ctx context.Context, actor model.Actor, id int64) error {
	return m.Called(ctx, actor, id).Error(0)
}
