package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"backoffice/internal/model"
	"backoffice/internal/repository"
)

const maxBroadcastLen = 2000

// SettingsService reads and writes the singleton global settings.
type SettingsService interface {
	Get(ctx context.Context) (*model.GlobalSettings, error)
	// Update replaces the broadcast message. Admin only.
	Update(ctx context.Context, actor model.Actor, message string) (*model.GlobalSettings, error)
}

type settingsService struct {
	repo  repository.SettingsRepository
	audit *Auditor
}

func NewSettingsService(repo repository.SettingsRepository, audit *Auditor) SettingsService {
	return &settingsService{repo: repo, audit: audit}
}

func (s *settingsService) Get(ctx context.Context) (*model.GlobalSettings, error) {
	return s.repo.Get(ctx)
}

func (s *settingsService) Update(ctx context.Context, actor model.Actor, message string) (*model.GlobalSettings, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	message = strings.TrimSpace(message)
	if utf8.RuneCountInString(message) > maxBroadcastLen {
		return nil, invalid("broadcast_message must be at most %d characters", maxBroadcastLen)
	}
	by := actor.AgentID
	out, err := s.repo.Upsert(ctx, &model.GlobalSettings{BroadcastMessage: message, UpdatedBy: &by})
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor, ActionSettingsUpdate, "global_settings", "1", map[string]any{"broadcast_message": message})
	return out, nil
}
