package model

import "time"

// GlobalSettings is the singleton row shown to every agent.
type GlobalSettings struct {
	BroadcastMessage string     `json:"broadcast_message"`
	UpdatedBy        *int64     `json:"updated_by,omitempty"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
}
