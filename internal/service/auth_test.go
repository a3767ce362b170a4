package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"backoffice/internal/auth"
	"backoffice/internal/config"
	"backoffice/internal/model"
	"backoffice/internal/repository"
	repoMocks "backoffice/internal/repository/mocks"
	sessionMocks "backoffice/internal/session/mocks"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTokens(t *testing.T) *auth.TokenManager {
	t.Helper()
	tm, err := auth.NewTokenManager(config.JWTConfig{Secret: testSecret, TTL: time.Hour, Issuer: "backoffice"})
	require.NoError(t, err)
	return tm
}

func hashed(t *testing.T, pw string) string {
	t.Helper()
	h, err := auth.HashPassword(pw)
	require.NoError(t, err)
	return h
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	hash := hashed(t, "correct-horse")

	tests := []struct {
		name       string
		username   string
		password   string
		setupMocks func(agents *repoMocks.MockAgentRepository, sessions *sessionMocks.MockStore)
		wantErr    error
	}{
		{
			name:     "happy path",
			username: "alice",
			password: "correct-horse",
			setupMocks: func(agents *repoMocks.MockAgentRepository, sessions *sessionMocks.MockStore) {
				agents.On("FindByUsername", ctx, "alice").Return(&model.Agent{
					ID: 2, Username: "alice", PasswordHash: hash, Role: model.RoleAgent, Status: model.AgentActive,
				}, nil)
				sessions.On("Create", ctx, int64(2), mock.AnythingOfType("string"), time.Hour).Return(nil)
				agents.On("TouchLogin", ctx, int64(2), mock.AnythingOfType("time.Time")).Return(nil)
			},
		},
		{
			name:     "unknown username",
			username: "ghost",
			password: "whatever1",
			setupMocks: func(agents *repoMocks.MockAgentRepository, sessions *sessionMocks.MockStore) {
				agents.On("FindByUsername", ctx, "ghost").Return(nil, repository.ErrNotFound)
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			username: "alice",
			password: "nope-nope",
			setupMocks: func(agents *repoMocks.MockAgentRepository, sessions *sessionMocks.MockStore) {
				agents.On("FindByUsername", ctx, "alice").Return(&model.Agent{ID: 2, PasswordHash: hash, Status: model.AgentActive}, nil)
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:     "disabled agent",
			username: "alice",
			password: "correct-horse",
			setupMocks: func(agents *repoMocks.MockAgentRepository, sessions *sessionMocks.MockStore) {
				agents.On("FindByUsername", ctx, "alice").Return(&model.Agent{ID: 2, PasswordHash: hash, Status: model.AgentDisabled}, nil)
			},
			wantErr: ErrAgentDisabled,
		},
		{
			name:       "empty credentials",
			setupMocks: func(agents *repoMocks.MockAgentRepository, sessions *sessionMocks.MockStore) {},
			wantErr:    ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agents := new(repoMocks.MockAgentRepository)
			sessions := new(sessionMocks.MockStore)
			auditor, _ := newAuditor(t)
			tt.setupMocks(agents, sessions)

			svc := NewAuthService(agents, sessions, newTokens(t), auditor, nullLogger())
			res, err := svc.Login(ctx, tt.username, tt.password, "127.0.0.1")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, res)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, res.Token)
				assert.True(t, res.ExpiresAt.After(time.Now()))
				assert.NotNil(t, res.Agent.LastLoginAt)
			}
			agents.AssertExpectations(t)
			sessions.AssertExpectations(t)
		})
	}
}

func TestAuthService_Authenticate(t *testing.T) {
	ctx := context.Background()
	tokens := newTokens(t)
	token, claims, err := tokens.Issue(&model.Agent{
		ID: 2, Username: "alice", Role: model.RoleAgent, Permissions: model.Permissions{ViewTrades: true},
	})
	require.NoError(t, err)

	t.Run("live session", func(t *testing.T) {
		sessions := new(sessionMocks.MockStore)
		sessions.On("Exists", ctx, claims.ID).Return(true, nil)
		svc := NewAuthService(nil, sessions, tokens, nil, nullLogger())

		actor, err := svc.Authenticate(ctx, token)

		require.NoError(t, err)
		assert.Equal(t, int64(2), actor.AgentID)
		assert.Equal(t, claims.ID, actor.SessionID)
		assert.True(t, actor.Can(model.PermViewTrades))
		assert.False(t, actor.Can(model.PermManageUsers))
	})

	t.Run("revoked session", func(t *testing.T) {
		sessions := new(sessionMocks.MockStore)
		sessions.On("Exists", ctx, claims.ID).Return(false, nil)
		svc := NewAuthService(nil, sessions, tokens, nil, nullLogger())

		_, err := svc.Authenticate(ctx, token)

		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("garbage token", func(t *testing.T) {
		svc := NewAuthService(nil, new(sessionMocks.MockStore), tokens, nil, nullLogger())

		_, err := svc.Authenticate(ctx, "not.a.jwt")

		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("session store failure is not unauthorized", func(t *testing.T) {
		sessions := new(sessionMocks.MockStore)
		sessions.On("Exists", ctx, claims.ID).Return(false, errors.New("redis down"))
		svc := NewAuthService(nil, sessions, tokens, nil, nullLogger())

		_, err := svc.Authenticate(ctx, token)

		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrUnauthorized)
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	hash := hashed(t, "old-password")

	tests := []struct {
		name       string
		oldPw      string
		newPw      string
		setupMocks func(agents *repoMocks.MockAgentRepository, sessions *sessionMocks.MockStore)
		wantErr    error
	}{
		{
			name:  "happy path revokes every session",
			oldPw: "old-password",
			newPw: "new-password",
			setupMocks: func(agents *repoMocks.MockAgentRepository, sessions *sessionMocks.MockStore) {
				agents.On("FindByID", ctx, int64(2)).Return(&model.Agent{ID: 2, PasswordHash: hash}, nil)
				agents.On("UpdatePassword", ctx, int64(2), mock.MatchedBy(func(h string) bool {
					return auth.CheckPassword(h, "new-password")
				})).Return(nil)
				sessions.On("RevokeAll", ctx, int64(2)).Return(nil)
			},
		},
		{
			name:       "too short",
			oldPw:      "old-password",
			newPw:      "short",
			setupMocks: func(agents *repoMocks.MockAgentRepository, sessions *sessionMocks.MockStore) {},
			wantErr:    ErrInvalidInput,
		},
		{
			name:       "same as old",
			oldPw:      "old-password",
			newPw:      "old-password",
			setupMocks: func(agents *repoMocks.MockAgentRepository, sessions *sessionMocks.MockStore) {},
			wantErr:    ErrInvalidInput,
		},
		{
			name:  "wrong current password",
			oldPw: "guess-guess",
			newPw: "new-password",
			setupMocks: func(agents *repoMocks.MockAgentRepository, sessions *sessionMocks.MockStore) {
				agents.On("FindByID", ctx, int64(2)).Return(&model.Agent{ID: 2, PasswordHash: hash}, nil)
			},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agents := new(repoMocks.MockAgentRepository)
			sessions := new(sessionMocks.MockStore)
			auditor, _ := newAuditor(t)
			tt.setupMocks(agents, sessions)

			svc := NewAuthService(agents, sessions, newTokens(t), auditor, nullLogger())
			err := svc.ChangePassword(ctx, agentActor, tt.oldPw, tt.newPw)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			agents.AssertExpectations(t)
			sessions.AssertExpectations(t)
		})
	}
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	sessions := new(sessionMocks.MockStore)
	sessions.On("Revoke", ctx, agentActor.AgentID, agentActor.SessionID).Return(nil)
	auditor, audits := newAuditor(t)

	err := NewAuthService(nil, sessions, newTokens(t), auditor, nullLogger()).Logout(ctx, agentActor)

	assert.NoError(t, err)
	sessions.AssertExpectations(t)
	audits.AssertCalled(t, "Create", ctx, mock.MatchedBy(func(l *model.AuditLog) bool { return l.Action == ActionLogout }))
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("creates first admin", func(t *testing.T) {
		agents := new(repoMocks.MockAgentRepository)
		agents.On("CountAdmins", ctx).Return(0, nil)
		agents.On("Create", ctx, mock.MatchedBy(func(a *model.Agent) bool {
			return a.Username == "root" && a.Role == model.RoleAdmin && auth.CheckPassword(a.PasswordHash, "bootstrap-pw")
		})).Return(&model.Agent{ID: 1}, nil)

		created, err := NewAuthService(agents, nil, newTokens(t), nil, nullLogger()).EnsureAdmin(ctx, "root", "bootstrap-pw")

		require.NoError(t, err)
		assert.True(t, created)
		agents.AssertExpectations(t)
	})

	t.Run("admin already exists", func(t *testing.T) {
		agents := new(repoMocks.MockAgentRepository)
		agents.On("CountAdmins", ctx).Return(1, nil)

		created, err := NewAuthService(agents, nil, newTokens(t), nil, nullLogger()).EnsureAdmin(ctx, "root", "bootstrap-pw")

		require.NoError(t, err)
		assert.False(t, created)
		agents.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("not configured", func(t *testing.T) {
		created, err := NewAuthService(nil, nil, newTokens(t), nil, nullLogger()).EnsureAdmin(ctx, "", "")

		require.NoError(t, err)
		assert.False(t, created)
	})
}
