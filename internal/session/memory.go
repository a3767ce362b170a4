package session

import (
	"context"
	"sync"
	"time"
)

// Memory is a process-local Store used when Redis is not configured.
// Sessions do not survive a restart and are not shared between replicas.
type Memory struct {
	mu       sync.Mutex
	sessions map[string]memEntry
	now      func() time.Time
}

type memEntry struct {
	agentID   int64
	expiresAt time.Time
}

func NewMemory() *Memory {
	return &Memory{sessions: make(map[string]memEntry), now: time.Now}
}

func (m *Memory) Create(_ context.Context, agentID int64, sessionID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	m.sweep(now)
	m.sessions[sessionID] = memEntry{agentID: agentID, expiresAt: now.Add(ttl)}
	return nil
}

// sweep drops expired entries. Callers hold mu.
func (m *Memory) sweep(now time.Time) {
	for id, e := range m.sessions {
		if !now.Before(e.expiresAt) {
			delete(m.sessions, id)
		}
	}
}

func (m *Memory) Exists(_ context.Context, sessionID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[sessionID]
	if !ok {
		return false, nil
	}
	if !m.now().Before(e.expiresAt) {
		delete(m.sessions, sessionID)
		return false, nil
	}
	return true, nil
}

func (m *Memory) Revoke(_ context.Context, _ int64, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

func (m *Memory) RevokeAll(_ context.Context, agentID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweep(m.now())
	for id, e := range m.sessions {
		if e.agentID == agentID {
			delete(m.sessions, id)
		}
	}
	return nil
}
