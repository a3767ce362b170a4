package repository

import (
	"context"
	"time"

	"backoffice/internal/model"
)

// AgentFilter narrows agent listings. Empty fields match everything.
type AgentFilter struct {
	Username string
	Status   model.AgentStatus
	Role     model.Role
}

// AgentRepository persists agents, their permissions and their user assignments.
type AgentRepository interface {
	// Create inserts an agent. A taken username yields ErrDuplicate.
	Create(ctx context.Context, a *model.Agent) (*model.Agent, error)
	// FindByID returns the agent with its permissions.
	FindByID(ctx context.Context, id int64) (*model.Agent, error)
	// FindByUsername returns the agent with its permissions.
	FindByUsername(ctx context.Context, username string) (*model.Agent, error)
	List(ctx context.Context, f AgentFilter, pq PageQuery) (*PageResult[model.Agent], error)
	// Update writes name and status.
	Update(ctx context.Context, a *model.Agent) error
	UpdatePassword(ctx context.Context, id int64, hash string) error
	TouchLogin(ctx context.Context, id int64, at time.Time) error
	CountAdmins(ctx context.Context) (int, error)

	// UpsertPermissions replaces the single permission row of the agent.
	UpsertPermissions(ctx context.Context, agentID int64, p model.Permissions) error

	// AssignUsers links users to the agent. Existing links are left as they are.
	AssignUsers(ctx context.Context, agentID int64, userIDs []int64) error
	UnassignUser(ctx context.Context, agentID, userID int64) error
	IsAssigned(ctx context.Context, agentID, userID int64) (bool, error)
}
