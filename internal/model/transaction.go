package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TxDeposit    TransactionType = "deposit"
	TxWithdrawal TransactionType = "withdrawal"
	TxAdjustment TransactionType = "adjustment"
	TxRefund     TransactionType = "refund"
	TxTrade      TransactionType = "trade"
)

type TransactionStatus string

const (
	TxPending   TransactionStatus = "pending"
	TxCompleted TransactionStatus = "completed"
	TxFailed    TransactionStatus = "failed"
)

// Transaction is an append-only ledger row. Only Status changes after insert.
type Transaction struct {
	ID              int64             `json:"id"`
	UserID          int64             `json:"user_id"`
	Type            TransactionType   `json:"type"`
	Amount          decimal.Decimal   `json:"amount"`
	OldBalance      decimal.Decimal   `json:"old_balance"`
	NewBalance      decimal.Decimal   `json:"new_balance"`
	Status          TransactionStatus `json:"status"`
	Reference       string            `json:"reference"`
	Remark          string            `json:"remark"`
	OperatorAgentID *int64            `json:"operator_agent_id,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}
