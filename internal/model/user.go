package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type UserStatus string

const (
	UserActive UserStatus = "active"
	UserFrozen UserStatus = "frozen"
)

// User is a trading platform customer managed from the back-office.
type User struct {
	ID        int64           `json:"id"`
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	Phone     string          `json:"phone"`
	Balance   decimal.Decimal `json:"balance"`
	Status    UserStatus      `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
