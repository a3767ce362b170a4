package model

import (
	"encoding/json"
	"time"
)

// AuditLog records one mutating back-office action.
type AuditLog struct {
	ID         int64           `json:"id"`
	AgentID    int64           `json:"agent_id"`
	Action     string          `json:"action"`
	TargetType string          `json:"target_type"`
	TargetID   string          `json:"target_id"`
	Detail     json.RawMessage `json:"detail"`
	IP         string          `json:"ip"`
	CreatedAt  time.Time       `json:"created_at"`
}
