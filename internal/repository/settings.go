package repository

import (
	"context"

	"backoffice/internal/model"
)

type SettingsRepository interface {
	// Get returns the singleton row, or zero settings when it was never written.
	Get(ctx context.Context) (*model.GlobalSettings, error)
	Upsert(ctx context.Context, s *model.GlobalSettings) (*model.GlobalSettings, error)
}
