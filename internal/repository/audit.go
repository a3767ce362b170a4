package repository

import (
	"context"
	"time"

	"backoffice/internal/model"
)

// AuditFilter narrows audit listings. Zero times are open bounds.
type AuditFilter struct {
	AgentID    int64
	Action     string
	TargetType string
	From       time.Time
	To         time.Time
}

type AuditRepository interface {
	Create(ctx context.Context, l *model.AuditLog) error
	List(ctx context.Context, f AuditFilter, pq PageQuery) (*PageResult[model.AuditLog], error)
}
