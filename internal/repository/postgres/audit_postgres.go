package postgres

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"backoffice/internal/model"
	"backoffice/internal/repository"
)

const auditColumns = `id, agent_id, action, target_type, target_id, detail, ip, created_at`

type AuditPostgres struct {
	base
}

func NewAuditPostgres(db *sql.DB) *AuditPostgres {
	return &AuditPostgres{base{db: db}}
}

var _ repository.AuditRepository = (*AuditPostgres)(nil)

func (r *AuditPostgres) Create(ctx context.Context, l *model.AuditLog) error {
	const q = `
		INSERT INTO audit_logs (agent_id, action, target_type, target_id, detail, ip)
		VALUES ($1, $2, $3, $4, $5::jsonb, $6)
		RETURNING id, created_at
	`
	detail := "{}"
	if len(l.Detail) > 0 {
		detail = string(l.Detail)
	}
	err := r.q(ctx).QueryRowContext(ctx, q,
		l.AgentID,
		l.Action,
		l.TargetType,
		l.TargetID,
		detail,
		l.IP,
	).Scan(&l.ID, &l.CreatedAt)
	return mapErr(err)
}

func (r *AuditPostgres) List(ctx context.Context, f repository.AuditFilter, pq repository.PageQuery) (*repository.PageResult[model.AuditLog], error) {
	conds := sq.And{}
	if f.AgentID > 0 {
		conds = append(conds, sq.Eq{"agent_id": f.AgentID})
	}
	if f.Action != "" {
		conds = append(conds, sq.Eq{"action": f.Action})
	}
	if f.TargetType != "" {
		conds = append(conds, sq.Eq{"target_type": f.TargetType})
	}
	if !f.From.IsZero() {
		conds = append(conds, sq.GtOrEq{"created_at": f.From})
	}
	if !f.To.IsZero() {
		conds = append(conds, sq.Lt{"created_at": f.To})
	}

	countQ := psql.Select("COUNT(*)").From("audit_logs")
	listQ := psql.Select(auditColumns).From("audit_logs").OrderBy("created_at DESC", "id DESC")
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
		return nil, fmt.Errorf("build audit list: %w", err)
	}
	rows, err := r.q(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.AuditLog, 0)
	for rows.Next() {
		var (
			l      model.AuditLog
			detail []byte
		)
		if err := rows.Scan(&l.ID, &l.AgentID, &l.Action, &l.TargetType, &l.TargetID, &detail, &l.IP, &l.CreatedAt); err != nil {
			return nil, err
		}
		l.Detail = detail
		items = append(items, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.AuditLog]{Items: items, Total: total}, nil
}
