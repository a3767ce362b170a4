package model

import "time"

// BankCard is a fiat payout destination owned by exactly one user or agent.
type BankCard struct {
	ID          int64     `json:"id"`
	UserID      *int64    `json:"user_id,omitempty"`
	AgentID     *int64    `json:"agent_id,omitempty"`
	BankName    string    `json:"bank_name"`
	AccountName string    `json:"account_name"`
	CardNumber  string    `json:"card_number"`
	CreatedAt   time.Time `json:"created_at"`
}

// CryptoWallet is an on-chain payout destination owned by exactly one user or agent.
type CryptoWallet struct {
	ID        int64     `json:"id"`
	UserID    *int64    `json:"user_id,omitempty"`
	AgentID   *int64    `json:"agent_id,omitempty"`
	Network   string    `json:"network"`
	Address   string    `json:"address"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"created_at"`
}

// Supported crypto networks.
var CryptoNetworks = map[string]bool{
	"TRC20": true,
	"ERC20": true,
	"BEP20": true,
	"BTC":   true,
}

// WalletOwner selects wallets by owner. Exactly one field is set.
type WalletOwner struct {
	UserID  *int64
	AgentID *int64
}

// Wallets groups every payout destination of one owner.
type Wallets struct {
	BankCards     []BankCard     `json:"bank_cards"`
	CryptoWallets []CryptoWallet `json:"crypto_wallets"`
}
