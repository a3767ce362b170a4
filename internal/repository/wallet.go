package repository

import (
	"context"

	"backoffice/internal/model"
)

type WalletRepository interface {
	CreateBankCard(ctx context.Context, c *model.BankCard) (*model.BankCard, error)
	CreateCryptoWallet(ctx context.Context, w *model.CryptoWallet) (*model.CryptoWallet, error)
	ListBankCards(ctx context.Context, owner model.WalletOwner) ([]model.BankCard, error)
	ListCryptoWallets(ctx context.Context, owner model.WalletOwner) ([]model.CryptoWallet, error)
	FindBankCard(ctx context.Context, id int64) (*model.BankCard, error)
	FindCryptoWallet(ctx context.Context, id int64) (*model.CryptoWallet, error)
	DeleteBankCard(ctx context.Context, id int64) error
	DeleteCryptoWallet(ctx context.Context, id int64) error
}
