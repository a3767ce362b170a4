package repository

import (
	"context"

	"backoffice/internal/model"
)

// TransactionFilter narrows ledger listings.
type TransactionFilter struct {
	UserID int64
	Type   model.TransactionType
	Status model.TransactionStatus
}

// TransactionRepository is the append-only ledger. Rows are never deleted.
type TransactionRepository interface {
	// Create appends a row. A reused reference yields ErrDuplicate.
	Create(ctx context.Context, t *model.Transaction) (*model.Transaction, error)
	UpdateStatus(ctx context.Context, id int64, status model.TransactionStatus) error
	List(ctx context.Context, f TransactionFilter, pq PageQuery) (*PageResult[model.Transaction], error)
}
