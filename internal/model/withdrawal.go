package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type WithdrawalStatus string

const (
	WithdrawalPending  WithdrawalStatus = "pending"
	WithdrawalApproved WithdrawalStatus = "approved"
	WithdrawalRejected WithdrawalStatus = "rejected"
)

type WithdrawalMethod string

const (
	MethodBank   WithdrawalMethod = "bank"
	MethodCrypto WithdrawalMethod = "crypto"
)

// Withdrawal is a user payout request awaiting or past review.
type Withdrawal struct {
	ID             int64            `json:"id"`
	OrderNumber    string           `json:"order_number"`
	UserID         int64            `json:"user_id"`
	Amount         decimal.Decimal  `json:"amount"`
	Method         WithdrawalMethod `json:"method"`
	BankCardID     *int64           `json:"bank_card_id,omitempty"`
	CryptoWalletID *int64           `json:"crypto_wallet_id,omitempty"`
	TransactionID  int64            `json:"transaction_id"`
	Status         WithdrawalStatus `json:"status"`
	ReviewedBy     *int64           `json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time       `json:"reviewed_at,omitempty"`
	RejectReason   string           `json:"reject_reason"`
	ReceiptPath    string           `json:"receipt_path"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// Resolved reports whether the withdrawal has left the pending state.
func (w Withdrawal) Resolved() bool {
	return w.Status != WithdrawalPending
}
