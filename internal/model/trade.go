package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade is a settled or open position, shown read-only in the back-office.
type Trade struct {
	ID         int64               `json:"id"`
	UserID     int64               `json:"user_id"`
	Symbol     string              `json:"symbol"`
	Direction  string              `json:"direction"`
	Amount     decimal.Decimal     `json:"amount"`
	OpenPrice  decimal.Decimal     `json:"open_price"`
	ClosePrice decimal.NullDecimal `json:"close_price"`
	Result     string              `json:"result"`
	Payout     decimal.Decimal     `json:"payout"`
	CreatedAt  time.Time           `json:"created_at"`
	SettledAt  *time.Time          `json:"settled_at,omitempty"`
}
