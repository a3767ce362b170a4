package postgres

import (
	"context"
	"database/sql"
	"errors"

	"backoffice/internal/model"
	"backoffice/internal/repository"
)

type SettingsPostgres struct {
	base
}

func NewSettingsPostgres(db *sql.DB) *SettingsPostgres {
	return &SettingsPostgres{base{db: db}}
}

var _ repository.SettingsRepository = (*SettingsPostgres)(nil)

func (r *SettingsPostgres) Get(ctx context.Context) (*model.GlobalSettings, error) {
	const q = `SELECT broadcast_message, updated_by, updated_at FROM global_settings WHERE id = 1`
	var (
		s         model.GlobalSettings
		updatedBy sql.NullInt64
		updatedAt sql.NullTime
	)
	err := r.q(ctx).QueryRowContext(ctx, q).Scan(&s.BroadcastMessage, &updatedBy, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return &model.GlobalSettings{}, nil
	}
	if err != nil {
		return nil, err
	}
	s.UpdatedBy = int64Ptr(updatedBy)
	s.UpdatedAt = timePtr(updatedAt)
	return &s, nil
}

func (r *SettingsPostgres) Upsert(ctx context.Context, s *model.GlobalSettings) (*model.GlobalSettings, error) {
	const q = `
		INSERT INTO global_settings (id, broadcast_message, updated_by, updated_at)
		VALUES (1, $1, $2, now())
		ON CONFLICT (id) DO UPDATE
		SET broadcast_message = EXCLUDED.broadcast_message,
		    updated_by = EXCLUDED.updated_by,
		    updated_at = EXCLUDED.updated_at
		RETURNING broadcast_message, updated_by, updated_at
	`
	var (
		out       model.GlobalSettings
		updatedBy sql.NullInt64
		updatedAt sql.NullTime
	)
	if err := r.q(ctx).QueryRowContext(ctx, q, s.BroadcastMessage, s.UpdatedBy).Scan(&out.BroadcastMessage, &updatedBy, &updatedAt); err != nil {
		return nil, mapErr(err)
	}
	out.UpdatedBy = int64Ptr(updatedBy)
	out.UpdatedAt = timePtr(updatedAt)
	return &out, nil
}
