package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"backoffice/internal/auth"
	"backoffice/internal/model"
	"backoffice/internal/repository"
	"backoffice/internal/session"
)

const maxNameLen = 64

// CreateAgentInput is what an admin supplies for a new agent.
type CreateAgentInput struct {
	Username    string
	Password    string
	Name        string
	Role        model.Role
	Permissions model.Permissions
}

// UpdateAgentInput carries optional changes. Nil fields are left untouched.
type UpdateAgentInput struct {
	Name   *string
	Status *model.AgentStatus
}

// AgentService manages agent accounts (admin) and the caller's own profile.
type AgentService interface {
	List(ctx context.Context, actor model.Actor, f repository.AgentFilter, limit, offset int) (*ListResult[model.Agent], error)
	Get(ctx context.Context, actor model.Actor, id int64) (*model.Agent, error)
	Create(ctx context.Context, actor model.Actor, in CreateAgentInput) (*model.Agent, error)
	Update(ctx context.Context, actor model.Actor, id int64, in UpdateAgentInput) (*model.Agent, error)
	// SetPermissions replaces the agent's grants and ends its sessions so new tokens carry them.
	SetPermissions(ctx context.Context, actor model.Actor, id int64, p model.Permissions) (*model.Agent, error)
	ResetPassword(ctx context.Context, actor model.Actor, id int64, newPassword string) error
	AssignUsers(ctx context.Context, actor model.Actor, id int64, userIDs []int64) error
	UnassignUser(ctx context.Context, actor model.Actor, id, userID int64) error

	Profile(ctx context.Context, actor model.Actor) (*model.Agent, error)
	UpdateProfile(ctx context.Context, actor model.Actor, name string) (*model.Agent, error)
}

type agentService struct {
	tx       repository.Transactor
	agents   repository.AgentRepository
	users    repository.UserRepository
	sessions session.Store
	audit    *Auditor
}

func NewAgentService(
	tx repository.Transactor,
	agents repository.AgentRepository,
	users repository.UserRepository,
	sessions session.Store,
	audit *Auditor,
) AgentService {
	return &agentService{tx: tx, agents: agents, users: users, sessions: sessions, audit: audit}
}

func validateName(name string) error {
	if name == "" || utf8.RuneCountInString(name) > maxNameLen {
		return invalid("name must be 1 to %d characters", maxNameLen)
	}
	return nil
}

func (s *agentService) List(ctx context.Context, actor model.Actor, f repository.AgentFilter, limit, offset int) (*ListResult[model.Agent], error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	res, err := s.agents.List(ctx, f, pageQuery(limit, offset))
	if err != nil {
		return nil, err
	}
	return newListResult(res), nil
}

func (s *agentService) Get(ctx context.Context, actor model.Actor, id int64) (*model.Agent, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	a, err := s.agents.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return a, nil
}

func (s *agentService) Create(ctx context.Context, actor model.Actor, in CreateAgentInput) (*model.Agent, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" {
		return nil, invalid("username is required")
	}
	if in.Name == "" {
		in.Name = in.Username
	}
	if err := validateName(in.Name); err != nil {
		return nil, err
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}
	switch in.Role {
	case "":
		in.Role = model.RoleAgent
	case model.RoleAgent, model.RoleAdmin:
	default:
		return nil, invalid("unknown role %q", in.Role)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	var created *model.Agent
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		a, err := s.agents.Create(ctx, &model.Agent{
			Username:     in.Username,
			PasswordHash: hash,
			Name:         in.Name,
			Role:         in.Role,
			Status:       model.AgentActive,
		})
		if err != nil {
			return err
		}
		if err := s.agents.UpsertPermissions(ctx, a.ID, in.Permissions); err != nil {
			return err
		}
		a.Permissions = in.Permissions
		created = a
		return nil
	})
	if err != nil {
		return nil, mapRepoErr(err)
	}

	s.audit.Record(ctx, actor, ActionAgentCreate, "agent", idString(created.ID), map[string]any{
		"username":    created.Username,
		"role":        created.Role,
		"permissions": created.Permissions,
	})
	return created, nil
}

func (s *agentService) Update(ctx context.Context, actor model.Actor, id int64, in UpdateAgentInput) (*model.Agent, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	a, err := s.agents.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err)
	}

	wasActive := a.Status == model.AgentActive
	if in.Name != nil {
		if err := validateName(*in.Name); err != nil {
			return nil, err
		}
		a.Name = *in.Name
	}
	if in.Status != nil {
		switch *in.Status {
		case model.AgentActive, model.AgentDisabled:
		default:
			return nil, invalid("unknown status %q", *in.Status)
		}
		if *in.Status == model.AgentDisabled && id == actor.AgentID {
			return nil, invalid("you cannot disable your own account")
		}
		a.Status = *in.Status
	}

	if err := s.agents.Update(ctx, a); err != nil {
		return nil, mapRepoErr(err)
	}
	if wasActive && a.Status == model.AgentDisabled {
		if err := s.sessions.RevokeAll(ctx, id); err != nil {
			return nil, err
		}
	}

	s.audit.Record(ctx, actor, ActionAgentUpdate, "agent", idString(id), map[string]any{
		"name":   a.Name,
		"status": a.Status,
	})
	return a, nil
}

func (s *agentService) SetPermissions(ctx context.Context, actor model.Actor, id int64, p model.Permissions) (*model.Agent, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	a, err := s.agents.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	if err := s.agents.UpsertPermissions(ctx, id, p); err != nil {
		return nil, mapRepoErr(err)
	}
	if err := s.sessions.RevokeAll(ctx, id); err != nil {
		return nil, err
	}
	before := a.Permissions
	a.Permissions = p

	s.audit.Record(ctx, actor, ActionAgentPermissions, "agent", idString(id), map[string]any{
		"before": before,
		"after":  p,
	})
	return a, nil
}

func (s *agentService) ResetPassword(ctx context.Context, actor model.Actor, id int64, newPassword string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.agents.UpdatePassword(ctx, id, hash); err != nil {
		return mapRepoErr(err)
	}
	if err := s.sessions.RevokeAll(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, actor, ActionAgentResetPassword, "agent", idString(id), nil)
	return nil
}

func (s *agentService) AssignUsers(ctx context.Context, actor model.Actor, id int64, userIDs []int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	ids := dedupe(userIDs)
	if len(ids) == 0 {
		return invalid("user_ids must not be empty")
	}
	if _, err := s.agents.FindByID(ctx, id); err != nil {
		return mapRepoErr(err)
	}
	for _, uid := range ids {
		if _, err := s.users.FindByID(ctx, uid); err != nil {
			return mapRepoErr(err)
		}
	}
	if err := s.agents.AssignUsers(ctx, id, ids); err != nil {
		return mapRepoErr(err)
	}
	s.audit.Record(ctx, actor, ActionAgentAssign, "agent", idString(id), map[string]any{"user_ids": ids})
	return nil
}

func (s *agentService) UnassignUser(ctx context.Context, actor model.Actor, id, userID int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := s.agents.UnassignUser(ctx, id, userID); err != nil {
		return mapRepoErr(err)
	}
	s.audit.Record(ctx, actor, ActionAgentUnassign, "agent", idString(id), map[string]any{"user_id": userID})
	return nil
}

func (s *agentService) Profile(ctx context.Context, actor model.Actor) (*model.Agent, error) {
	a, err := s.agents.FindByID(ctx, actor.AgentID)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return a, nil
}

func (s *agentService) UpdateProfile(ctx context.Context, actor model.Actor, name string) (*model.Agent, error) {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	a, err := s.agents.FindByID(ctx, actor.AgentID)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	a.Name = name
	if err := s.agents.Update(ctx, a); err != nil {
		return nil, mapRepoErr(err)
	}
	s.audit.Record(ctx, actor, ActionProfileUpdate, "agent", idString(a.ID), map[string]any{"name": name})
	return a, nil
}

// dedupe drops non-positive and repeated ids, keeping first-seen order.
func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
