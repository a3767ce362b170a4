package model

import "time"

// Role distinguishes platform administrators from regular agents.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleAgent Role = "agent"
)

// AgentStatus is the login state of an agent account.
type AgentStatus string

const (
	AgentActive   AgentStatus = "active"
	AgentDisabled AgentStatus = "disabled"
)

// Agent is a back-office operator account.
type Agent struct {
	ID           int64       `json:"id"`
	Username     string      `json:"username"`
	PasswordHash string      `json:"-"`
	Name         string      `json:"name"`
	Role         Role        `json:"role"`
	Status       AgentStatus `json:"status"`
	Permissions  Permissions `json:"permissions"`
	LastLoginAt  *time.Time  `json:"last_login_at,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// Permission names a capability an admin can grant to an agent.
type Permission string

const (
	PermManageUsers       Permission = "manage_users"
	PermReviewWithdrawals Permission = "review_withdrawals"
	PermManageWallets     Permission = "manage_wallets"
	PermViewTrades        Permission = "view_trades"
)

// Permissions is the agent_permissions row for one agent.
type Permissions struct {
	ManageUsers       bool `json:"manage_users"`
	ReviewWithdrawals bool `json:"review_withdrawals"`
	ManageWallets     bool `json:"manage_wallets"`
	ViewTrades        bool `json:"view_trades"`
}

// Has reports whether p grants perm.
func (p Permissions) Has(perm Permission) bool {
	switch perm {
	case PermManageUsers:
		return p.ManageUsers
	case PermReviewWithdrawals:
		return p.ReviewWithdrawals
	case PermManageWallets:
		return p.ManageWallets
	case PermViewTrades:
		return p.ViewTrades
	}
	return false
}

// Actor is the authenticated agent performing a request.
type Actor struct {
	AgentID     int64
	Username    string
	Role        Role
	Permissions Permissions
	SessionID   string
	IP          string
}

// IsAdmin reports whether the actor bypasses assignment scoping and permission checks.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// Can reports whether the actor may perform an action guarded by perm.
func (a Actor) Can(perm Permission) bool {
	return a.IsAdmin() || a.Permissions.Has(perm)
}
