package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"backoffice/internal/model"
)

// UserFilter narrows user listings. A non-nil AgentID restricts to users assigned to that agent.
type UserFilter struct {
	AgentID  *int64
	Username string
	Status   model.UserStatus
}

type UserRepository interface {
	// Create inserts a user. A taken username yields ErrDuplicate.
	Create(ctx context.Context, u *model.User) (*model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
	// FindByIDForUpdate locks the row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id int64) (*model.User, error)
	List(ctx context.Context, f UserFilter, pq PageQuery) (*PageResult[model.User], error)
	// Update writes email, phone and status.
	Update(ctx context.Context, u *model.User) error
	UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) error
}
