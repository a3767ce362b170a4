package service

import (
	"context"
	"strings"

	"backoffice/internal/model"
	"backoffice/internal/repository"
)

// BankCardInput creates a bank card for UserID, or for the caller when UserID is nil.
type BankCardInput struct {
	UserID      *int64
	BankName    string
	AccountName string
	CardNumber  string
}

// CryptoWalletInput creates a crypto wallet for UserID, or for the caller when UserID is nil.
type CryptoWalletInput struct {
	UserID  *int64
	Network string
	Address string
	Label   string
}

type WalletService interface {
	// List returns the wallets of userID, or the caller's own wallets when userID is nil.
	List(ctx context.Context, actor model.Actor, userID *int64) (*model.Wallets, error)
	AddBankCard(ctx context.Context, actor model.Actor, in BankCardInput) (*model.BankCard, error)
	AddCryptoWallet(ctx context.Context, actor model.Actor, in CryptoWalletInput) (*model.CryptoWallet, error)
	DeleteBankCard(ctx context.Context, actor model.Actor, id int64) error
	DeleteCryptoWallet(ctx context.Context, actor model.Actor, id int64) error
}

type walletService struct {
	scope
	wallets repository.WalletRepository
	audit   *Auditor
}

func NewWalletService(agents repository.AgentRepository, wallets repository.WalletRepository, audit *Auditor) WalletService {
	return &walletService{scope: scope{agents: agents}, wallets: wallets, audit: audit}
}

// owner resolves the wallet owner for a request, checking user scope.
func (s *walletService) owner(ctx context.Context, actor model.Actor, userID *int64) (model.WalletOwner, error) {
	if userID == nil {
		id := actor.AgentID
		return model.WalletOwner{AgentID: &id}, nil
	}
	if err := s.checkUser(ctx, actor, *userID); err != nil {
		return model.WalletOwner{}, err
	}
	id := *userID
	return model.WalletOwner{UserID: &id}, nil
}

// canTouch reports whether actor may see or change a wallet with the given owner columns.
func (s *walletService) canTouch(ctx context.Context, actor model.Actor, userID, agentID *int64) error {
	switch {
	case userID != nil:
		return s.checkUser(ctx, actor, *userID)
	case agentID != nil && (actor.IsAdmin() || *agentID == actor.AgentID):
		return nil
	}
	return ErrNotFound
}

func (s *walletService) List(ctx context.Context, actor model.Actor, userID *int64) (*model.Wallets, error) {
	owner, err := s.owner(ctx, actor, userID)
	if err != nil {
		return nil, err
	}
	cards, err := s.wallets.ListBankCards(ctx, owner)
	if err != nil {
		return nil, err
	}
	cryptos, err := s.wallets.ListCryptoWallets(ctx, owner)
	if err != nil {
		return nil, err
	}
	return &model.Wallets{BankCards: cards, CryptoWallets: cryptos}, nil
}

func (s *walletService) AddBankCard(ctx context.Context, actor model.Actor, in BankCardInput) (*model.BankCard, error) {
	if err := requirePerm(actor, model.PermManageWallets); err != nil {
		return nil, err
	}
	in.BankName = strings.TrimSpace(in.BankName)
	in.AccountName = strings.TrimSpace(in.AccountName)
	in.CardNumber = strings.ReplaceAll(strings.TrimSpace(in.CardNumber), " ", "")
	if in.BankName == "" || in.AccountName == "" || in.CardNumber == "" {
		return nil, invalid("bank_name, account_name and card_number are required")
	}
	owner, err := s.owner(ctx, actor, in.UserID)
	if err != nil {
		return nil, err
	}
	c, err := s.wallets.CreateBankCard(ctx, &model.BankCard{
		UserID:      owner.UserID,
		AgentID:     owner.AgentID,
		BankName:    in.BankName,
		AccountName: in.AccountName,
		CardNumber:  in.CardNumber,
	})
	if err != nil {
		return nil, mapRepoErr(err)
	}
	s.audit.Record(ctx, actor, ActionWalletCreate, "bank_card", idString(c.ID), map[string]any{
		"user_id":  c.UserID,
		"agent_id": c.AgentID,
		"bank":     c.BankName,
	})
	return c, nil
}

func (s *walletService) AddCryptoWallet(ctx context.Context, actor model.Actor, in CryptoWalletInput) (*model.CryptoWallet, error) {
	if err := requirePerm(actor, model.PermManageWallets); err != nil {
		return nil, err
	}
	in.Network = strings.ToUpper(strings.TrimSpace(in.Network))
	in.Address = strings.TrimSpace(in.Address)
	if !model.CryptoNetworks[in.Network] {
		return nil, invalid("unsupported network %q", in.Network)
	}
	if in.Address == "" {
		return nil, invalid("address is required")
	}
	owner, err := s.owner(ctx, actor, in.UserID)
	if err != nil {
		return nil, err
	}
	w, err := s.wallets.CreateCryptoWallet(ctx, &model.CryptoWallet{
		UserID:  owner.UserID,
		AgentID: owner.AgentID,
		Network: in.Network,
		Address: in.Address,
		Label:   strings.TrimSpace(in.Label),
	})
	if err != nil {
		return nil, mapRepoErr(err)
	}
	s.audit.Record(ctx, actor, ActionWalletCreate, "crypto_wallet", idString(w.ID), map[string]any{
		"user_id":  w.UserID,
		"agent_id": w.AgentID,
		"network":  w.Network,
	})
	return w, nil
}

func (s *walletService) DeleteBankCard(ctx context.Context, actor model.Actor, id int64) error {
	if err := requirePerm(actor, model.PermManageWallets); err != nil {
		return err
	}
	c, err := s.wallets.FindBankCard(ctx, id)
	if err != nil {
		return mapRepoErr(err)
	}
	if err := s.canTouch(ctx, actor, c.UserID, c.AgentID); err != nil {
		return err
	}
	if err := s.wallets.DeleteBankCard(ctx, id); err != nil {
		return mapRepoErr(err)
	}
	s.audit.Record(ctx, actor, ActionWalletDelete, "bank_card", idString(id), nil)
	return nil
}

func (s *walletService) DeleteCryptoWallet(ctx context.Context, actor model.Actor, id int64) error {
	if err := requirePerm(actor, model.PermManageWallets); err != nil {
		return err
	}
	w, err := s.wallets.FindCryptoWallet(ctx, id)
	if err != nil {
		return mapRepoErr(err)
	}
	if err := s.canTouch(ctx, actor, w.UserID, w.AgentID); err != nil {
		return err
	}
	if err := s.wallets.DeleteCryptoWallet(ctx, id); err != nil {
		return mapRepoErr(err)
	}
	s.audit.Record(ctx, actor, ActionWalletDelete, "crypto_wallet", idString(id), nil)
	return nil
}
