// Package session tracks live agent sessions so issued tokens can be revoked before they expire.
package session

import (
	"context"
	"time"
)

// Store keeps one entry per issued token id.
type Store interface {
	// Create registers a session for agentID that expires after ttl.
	Create(ctx context.Context, agentID int64, sessionID string, ttl time.Duration) error
	// Exists reports whether the session is still live.
	Exists(ctx context.Context, sessionID string) (bool, error)
	// Revoke removes a single session.
	Revoke(ctx context.Context, agentID int64, sessionID string) error
	// RevokeAll removes every session of the agent.
	RevokeAll(ctx context.Context, agentID int64) error
}
