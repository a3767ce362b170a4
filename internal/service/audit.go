package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"backoffice/internal/model"
	"backoffice/internal/repository"
)

// Audit actions.
const (
	ActionLogin              = "agent.login"
	ActionLogout             = "agent.logout"
	ActionChangePassword     = "agent.change_password"
	ActionAgentCreate        = "agent.create"
	ActionAgentUpdate        = "agent.update"
	ActionAgentPermissions   = "agent.permissions"
	ActionAgentResetPassword = "agent.reset_password"
	ActionAgentAssign        = "agent.assign_users"
	ActionAgentUnassign      = "agent.unassign_user"
	ActionProfileUpdate      = "agent.profile_update"
	ActionUserCreate         = "user.create"
	ActionUserUpdate         = "user.update"
	ActionUserBalance        = "user.balance_adjust"
	ActionWalletCreate       = "wallet.create"
	ActionWalletDelete       = "wallet.delete"
	ActionWithdrawalCreate   = "withdrawal.create"
	ActionWithdrawalApprove  = "withdrawal.approve"
	ActionWithdrawalReject   = "withdrawal.reject"
	ActionWithdrawalReceipt  = "withdrawal.receipt"
	ActionSettingsUpdate     = "settings.update"
)

// Auditor appends audit entries. Write failures are logged and swallowed.
type Auditor struct {
	repo repository.AuditRepository
	log  logrus.FieldLogger
}

func NewAuditor(repo repository.AuditRepository, log logrus.FieldLogger) *Auditor {
	return &Auditor{repo: repo, log: log}
}

// Record stores one entry for actor. detail is marshalled to JSON and may be nil.
func (a *Auditor) Record(ctx context.Context, actor model.Actor, action, targetType, targetID string, detail any) {
	entry := &model.AuditLog{
		AgentID:    actor.AgentID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		IP:         actor.IP,
	}
	if detail != nil {
		b, err := json.Marshal(detail)
		if err != nil {
			a.log.WithError(err).WithField("action", action).Warn("audit_detail_marshal_failed")
		} else {
			entry.Detail = b
		}
	}
	if err := a.repo.Create(ctx, entry); err != nil {
		a.log.WithError(err).WithFields(logrus.Fields{
			"action":      action,
			"agent_id":    actor.AgentID,
			"target_type": targetType,
			"target_id":   targetID,
		}).Error("audit_write_failed")
	}
}

// AuditService reads the audit log. Admin only.
type AuditService interface {
	List(ctx context.Context, actor model.Actor, f repository.AuditFilter, limit, offset int) (*ListResult[model.AuditLog], error)
}

type auditService struct {
	repo repository.AuditRepository
}

func NewAuditService(repo repository.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

func (s *auditService) List(ctx context.Context, actor model.Actor, f repository.AuditFilter, limit, offset int) (*ListResult[model.AuditLog], error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if !f.From.IsZero() && !f.To.IsZero() && !f.From.Before(f.To) {
		return nil, invalid("from must be before to")
	}
	f.From, f.To = utc(f.From), utc(f.To)
	res, err := s.repo.List(ctx, f, pageQuery(limit, offset))
	if err != nil {
		return nil, err
	}
	return newListResult(res), nil
}

func utc(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
