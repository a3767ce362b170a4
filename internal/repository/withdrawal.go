package repository

import (
	"context"

	"backoffice/internal/model"
)

// WithdrawalFilter narrows withdrawal listings. A non-nil AgentID restricts to assigned users.
type WithdrawalFilter struct {
	AgentID *int64
	UserID  int64
	Status  model.WithdrawalStatus
}

type WithdrawalRepository interface {
	// Create inserts a withdrawal. A reused order number yields ErrDuplicate.
	Create(ctx context.Context, w *model.Withdrawal) (*model.Withdrawal, error)
	FindByID(ctx context.Context, id int64) (*model.Withdrawal, error)
	// FindByIDForUpdate locks the row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id int64) (*model.Withdrawal, error)
	List(ctx context.Context, f WithdrawalFilter, pq PageQuery) (*PageResult[model.Withdrawal], error)
	// UpdateReview writes status, reviewer, review time and reject reason.
	UpdateReview(ctx context.Context, w *model.Withdrawal) error
	SetReceipt(ctx context.Context, id int64, path string) error
}
