package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"backoffice/internal/model"
	"backoffice/internal/repository"
)

var agentColumns = []string{
	"a.id", "a.username", "a.password_hash", "a.name", "a.role", "a.status",
	"a.last_login_at", "a.created_at", "a.updated_at",
	"COALESCE(p.manage_users, false)",
	"COALESCE(p.review_withdrawals, false)",
	"COALESCE(p.manage_wallets, false)",
	"COALESCE(p.view_trades, false)",
}

// AgentPostgres is the PostgreSQL implementation of repository.AgentRepository.
type AgentPostgres struct {
	base
}

func NewAgentPostgres(db *sql.DB) *AgentPostgres {
	return &AgentPostgres{base{db: db}}
}

var _ repository.AgentRepository = (*AgentPostgres)(nil)

func scanAgent(row scanner) (*model.Agent, error) {
	var (
		a         model.Agent
		lastLogin sql.NullTime
	)
	if err := row.Scan(
		&a.ID,
		&a.Username,
		&a.PasswordHash,
		&a.Name,
		&a.Role,
		&a.Status,
		&lastLogin,
		&a.CreatedAt,
		&a.UpdatedAt,
		&a.Permissions.ManageUsers,
		&a.Permissions.ReviewWithdrawals,
		&a.Permissions.ManageWallets,
		&a.Permissions.ViewTrades,
	); err != nil {
		return nil, err
	}
	a.LastLoginAt = timePtr(lastLogin)
	return &a, nil
}

func agentSelect() sq.SelectBuilder {
	return psql.Select(agentColumns...).
		From("agents a").
		LeftJoin("agent_permissions p ON p.agent_id = a.id")
}

func (r *AgentPostgres) Create(ctx context.Context, a *model.Agent) (*model.Agent, error) {
	const q = `
		INSERT INTO agents (username, password_hash, name, role, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	out := *a
	err := r.q(ctx).QueryRowContext(ctx, q, a.Username, a.PasswordHash, a.Name, a.Role, a.Status).
		Scan(&out.ID, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

func (r *AgentPostgres) findOne(ctx context.Context, where sq.Sqlizer) (*model.Agent, error) {
	query, args, err := agentSelect().Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build agent query: %w", err)
	}
	a, err := scanAgent(r.q(ctx).QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, mapErr(err)
	}
	return a, nil
}

func (r *AgentPostgres) FindByID(ctx context.Context, id int64) (*model.Agent, error) {
	return r.findOne(ctx, sq.Eq{"a.id": id})
}

func (r *AgentPostgres) FindByUsername(ctx context.Context, username string) (*model.Agent, error) {
	return r.findOne(ctx, sq.Eq{"a.username": username})
}

func agentConds(f repository.AgentFilter) sq.And {
	conds := sq.And{}
	if f.Username != "" {
		conds = append(conds, sq.ILike{"a.username": "%" + f.Username + "%"})
	}
	if f.Status != "" {
		conds = append(conds, sq.Eq{"a.status": f.Status})
	}
	if f.Role != "" {
		conds = append(conds, sq.Eq{"a.role": f.Role})
	}
	return conds
}

func (r *AgentPostgres) List(ctx context.Context, f repository.AgentFilter, pq repository.PageQuery) (*repository.PageResult[model.Agent], error) {
	conds := agentConds(f)

	countQ := psql.Select("COUNT(*)").From("agents a")
	listQ := agentSelect().OrderBy("a.created_at DESC", "a.id DESC")
	if len(conds) > 0 {
		countQ = countQ.Where(conds)
		listQ = listQ.Where(conds)
	}

	total, err := r.count(ctx, countQ)
	if err != nil {
		return nil, err
	}

	query, args, err := page(listQ, pq).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build agent list: %w", err)
	}
	rows, err := r.q(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Agent, 0)
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Agent]{Items: items, Total: total}, nil
}

func (r *AgentPostgres) Update(ctx context.Context, a *model.Agent) error {
	const q = `UPDATE agents SET name = $1, status = $2, updated_at = now() WHERE id = $3`
	return requireAffected(r.q(ctx).ExecContext(ctx, q, a.Name, a.Status, a.ID))
}

func (r *AgentPostgres) UpdatePassword(ctx context.Context, id int64, hash string) error {
	const q = `UPDATE agents SET password_hash = $1, updated_at = now() WHERE id = $2`
	return requireAffected(r.q(ctx).ExecContext(ctx, q, hash, id))
}

func (r *AgentPostgres) TouchLogin(ctx context.Context, id int64, at time.Time) error {
	const q = `UPDATE agents SET last_login_at = $1 WHERE id = $2`
	return requireAffected(r.q(ctx).ExecContext(ctx, q, at, id))
}

func (r *AgentPostgres) CountAdmins(ctx context.Context) (int, error) {
	return r.count(ctx, psql.Select("COUNT(*)").From("agents").Where(sq.Eq{"role": model.RoleAdmin}))
}

func (r *AgentPostgres) UpsertPermissions(ctx context.Context, agentID int64, p model.Permissions) error {
	const q = `
		INSERT INTO agent_permissions (agent_id, manage_users, review_withdrawals, manage_wallets, view_trades, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (agent_id) DO UPDATE SET
			manage_users = EXCLUDED.manage_users,
			review_withdrawals = EXCLUDED.review_withdrawals,
			manage_wallets = EXCLUDED.manage_wallets,
			view_trades = EXCLUDED.view_trades,
			updated_at = now()
	`
	_, err := r.q(ctx).ExecContext(ctx, q, agentID, p.ManageUsers, p.ReviewWithdrawals, p.ManageWallets, p.ViewTrades)
	return mapErr(err)
}

func (r *AgentPostgres) AssignUsers(ctx context.Context, agentID int64, userIDs []int64) error {
	if len(userIDs) == 0 {
		return nil
	}
	ib := psql.Insert("agent_assigned_users").Columns("agent_id", "user_id")
	for _, uid := range userIDs {
		ib = ib.Values(agentID, uid)
	}
	query, args, err := ib.Suffix("ON CONFLICT (agent_id, user_id) DO NOTHING").ToSql()
	if err != nil {
		return fmt.Errorf("build assignment: %w", err)
	}
	_, err = r.q(ctx).ExecContext(ctx, query, args...)
	return mapErr(err)
}

func (r *AgentPostgres) UnassignUser(ctx context.Context, agentID, userID int64) error {
	const q = `DELETE FROM agent_assigned_users WHERE agent_id = $1 AND user_id = $2`
	return requireAffected(r.q(ctx).ExecContext(ctx, q, agentID, userID))
}

func (r *AgentPostgres) IsAssigned(ctx context.Context, agentID, userID int64) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM agent_assigned_users WHERE agent_id = $1 AND user_id = $2)`
	var ok bool
	if err := r.q(ctx).QueryRowContext(ctx, q, agentID, userID).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}
