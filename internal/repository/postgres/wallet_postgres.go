package postgres

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"backoffice/internal/model"
	"backoffice/internal/repository"
)

const (
	bankCardColumns     = `id, user_id, agent_id, bank_name, account_name, card_number, created_at`
	cryptoWalletColumns = `id, user_id, agent_id, network, address, label, created_at`
)

// WalletPostgres stores bank cards and crypto wallets.
type WalletPostgres struct {
	base
}

func NewWalletPostgres(db *sql.DB) *WalletPostgres {
	return &WalletPostgres{base{db: db}}
}

var _ repository.WalletRepository = (*WalletPostgres)(nil)

func scanBankCard(row scanner) (*model.BankCard, error) {
	var (
		c              model.BankCard
		userID, agentI sql.NullInt64
	)
	if err := row.Scan(&c.ID, &userID, &agentI, &c.BankName, &c.AccountName, &c.CardNumber, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.UserID, c.AgentID = int64Ptr(userID), int64Ptr(agentI)
	return &c, nil
}

func scanCryptoWallet(row scanner) (*model.CryptoWallet, error) {
	var (
		w              model.CryptoWallet
		userID, agentI sql.NullInt64
	)
	if err := row.Scan(&w.ID, &userID, &agentI, &w.Network, &w.Address, &w.Label, &w.CreatedAt); err != nil {
		return nil, err
	}
	w.UserID, w.AgentID = int64Ptr(userID), int64Ptr(agentI)
	return &w, nil
}

func ownerCond(owner model.WalletOwner) (sq.Sqlizer, error) {
	switch {
	case owner.UserID != nil && owner.AgentID == nil:
		return sq.Eq{"user_id": *owner.UserID}, nil
	case owner.AgentID != nil && owner.UserID == nil:
		return sq.Eq{"agent_id": *owner.AgentID}, nil
	}
	return nil, fmt.Errorf("wallet owner must be exactly one of user or agent")
}

func (r *WalletPostgres) CreateBankCard(ctx context.Context, c *model.BankCard) (*model.BankCard, error) {
	const q = `
		INSERT INTO bank_cards (user_id, agent_id, bank_name, account_name, card_number)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + bankCardColumns
	out, err := scanBankCard(r.q(ctx).QueryRowContext(ctx, q, c.UserID, c.AgentID, c.BankName, c.AccountName, c.CardNumber))
	if err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}

func (r *WalletPostgres) CreateCryptoWallet(ctx context.Context, w *model.CryptoWallet) (*model.CryptoWallet, error) {
	const q = `
		INSERT INTO crypto_wallets (user_id, agent_id, network, address, label)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + cryptoWalletColumns
	out, err := scanCryptoWallet(r.q(ctx).QueryRowContext(ctx, q, w.UserID, w.AgentID, w.Network, w.Address, w.Label))
	if err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}

func (r *WalletPostgres) ListBankCards(ctx context.Context, owner model.WalletOwner) ([]model.BankCard, error) {
	cond, err := ownerCond(owner)
	if err != nil {
		return nil, err
	}
	query, args, err := psql.Select(bankCardColumns).From("bank_cards").Where(cond).OrderBy("id").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.q(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.BankCard, 0)
	for rows.Next() {
		c, err := scanBankCard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *WalletPostgres) ListCryptoWallets(ctx context.Context, owner model.WalletOwner) ([]model.CryptoWallet, error) {
	cond, err := ownerCond(owner)
	if err != nil {
		return nil, err
	}
	query, args, err := psql.Select(cryptoWalletColumns).From("crypto_wallets").Where(cond).OrderBy("id").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.q(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.CryptoWallet, 0)
	for rows.Next() {
		w, err := scanCryptoWallet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *w)
	}
	return out, rows.Err()
}

func (r *WalletPostgres) FindBankCard(ctx context.Context, id int64) (*model.BankCard, error) {
	const q = `SELECT ` + bankCardColumns + ` FROM bank_cards WHERE id = $1`
	c, err := scanBankCard(r.q(ctx).QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, mapErr(err)
	}
	return c, nil
}

func (r *WalletPostgres) FindCryptoWallet(ctx context.Context, id int64) (*model.CryptoWallet, error) {
	const q = `SELECT ` + cryptoWalletColumns + ` FROM crypto_wallets WHERE id = $1`
	w, err := scanCryptoWallet(r.q(ctx).QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, mapErr(err)
	}
	return w, nil
}

func (r *WalletPostgres) DeleteBankCard(ctx context.Context, id int64) error {
	return requireAffected(r.q(ctx).ExecContext(ctx, `DELETE FROM bank_cards WHERE id = $1`, id))
}

func (r *WalletPostgres) DeleteCryptoWallet(ctx context.Context, id int64) error {
	return requireAffected(r.q(ctx).ExecContext(ctx, `DELETE FROM crypto_wallets WHERE id = $1`, id))
}
