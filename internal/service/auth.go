package service

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"backoffice/internal/auth"
	"backoffice/internal/model"
	"backoffice/internal/repository"
	"backoffice/internal/session"
)

const (
	minPasswordLen = 8
	// bcrypt ignores input past 72 bytes.
	maxPasswordLen = 72
)

// LoginResult is returned to the SPA after a successful login.
type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	Agent     *model.Agent `json:"agent"`
}

// AuthService covers agent login, logout, password changes and token verification.
type AuthService interface {
	Login(ctx context.Context, username, password, ip string) (*LoginResult, error)
	Logout(ctx context.Context, actor model.Actor) error
	ChangePassword(ctx context.Context, actor model.Actor, oldPassword, newPassword string) error
	// Authenticate verifies a bearer token and its live session.
	Authenticate(ctx context.Context, token string) (model.Actor, error)
	// EnsureAdmin creates the first admin when none exists. It reports whether one was created.
	EnsureAdmin(ctx context.Context, username, password string) (bool, error)
}

type authService struct {
	agents   repository.AgentRepository
	sessions session.Store
	tokens   *auth.TokenManager
	audit    *Auditor
	log      logrus.FieldLogger
	now      func() time.Time
}

func NewAuthService(
	agents repository.AgentRepository,
	sessions session.Store,
	tokens *auth.TokenManager,
	audit *Auditor,
	log logrus.FieldLogger,
) AuthService {
	return &authService{
		agents:   agents,
		sessions: sessions,
		tokens:   tokens,
		audit:    audit,
		log:      log,
		now:      time.Now,
	}
}

func validatePassword(pw string) error {
	n := len(pw)
	if n < minPasswordLen || n > maxPasswordLen || !utf8.ValidString(pw) {
		return invalid("password must be between %d and %d bytes", minPasswordLen, maxPasswordLen)
	}
	return nil
}

func (s *authService) Login(ctx context.Context, username, password, ip string) (*LoginResult, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	agent, err := s.agents.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(agent.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	if agent.Status != model.AgentActive {
		return nil, ErrAgentDisabled
	}

	token, claims, err := s.tokens.Issue(agent)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Create(ctx, agent.ID, claims.ID, s.tokens.TTL()); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if err := s.agents.TouchLogin(ctx, agent.ID, now); err != nil {
		s.log.WithError(err).WithField("agent_id", agent.ID).Warn("touch_login_failed")
	} else {
		agent.LastLoginAt = &now
	}

	actor := model.Actor{AgentID: agent.ID, Username: agent.Username, Role: agent.Role, SessionID: claims.ID, IP: ip}
	s.audit.Record(ctx, actor, ActionLogin, "agent", idString(agent.ID), nil)

	return &LoginResult{Token: token, ExpiresAt: claims.ExpiresAt.Time, Agent: agent}, nil
}

func (s *authService) Logout(ctx context.Context, actor model.Actor) error {
	if err := s.sessions.Revoke(ctx, actor.AgentID, actor.SessionID); err != nil {
		return err
	}
	s.audit.Record(ctx, actor, ActionLogout, "agent", idString(actor.AgentID), nil)
	return nil
}

func (s *authService) ChangePassword(ctx context.Context, actor model.Actor, oldPassword, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	if oldPassword == newPassword {
		return invalid("new password must differ from the current one")
	}
	agent, err := s.agents.FindByID(ctx, actor.AgentID)
	if err != nil {
		return mapRepoErr(err)
	}
	if !auth.CheckPassword(agent.PasswordHash, oldPassword) {
		return invalid("current password is incorrect")
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.agents.UpdatePassword(ctx, agent.ID, hash); err != nil {
		return mapRepoErr(err)
	}
	if err := s.sessions.RevokeAll(ctx, agent.ID); err != nil {
		return err
	}
	s.audit.Record(ctx, actor, ActionChangePassword, "agent", idString(agent.ID), nil)
	return nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (model.Actor, error) {
	if token == "" {
		return model.Actor{}, ErrUnauthorized
	}
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return model.Actor{}, ErrUnauthorized
	}
	actor, err := claims.Actor()
	if err != nil {
		return model.Actor{}, ErrUnauthorized
	}
	live, err := s.sessions.Exists(ctx, claims.ID)
	if err != nil {
		return model.Actor{}, err
	}
	if !live {
		return model.Actor{}, ErrUnauthorized
	}
	return actor, nil
}

func (s *authService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}
	n, err := s.agents.CountAdmins(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if err := validatePassword(password); err != nil {
		return false, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, err
	}
	if _, err := s.agents.Create(ctx, &model.Agent{
		Username:     username,
		PasswordHash: hash,
		Name:         username,
		Role:         model.RoleAdmin,
		Status:       model.AgentActive,
	}); err != nil {
		return false, mapRepoErr(err)
	}
	s.log.WithField("username", username).Info("admin_bootstrapped")
	return true, nil
}
