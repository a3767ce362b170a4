package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"backoffice/internal/idgen"
	"backoffice/internal/model"
	"backoffice/internal/repository"
)

const maxRemarkLen = 255

type CreateUserInput struct {
	Username string
	Email    string
	Phone    string
}

// UpdateUserInput carries optional changes. Nil fields are left untouched.
type UpdateUserInput struct {
	Email  *string
	Phone  *string
	Status *model.UserStatus
}

// BalanceAdjustment is the outcome of a manual balance change.
type BalanceAdjustment struct {
	User        *model.User        `json:"user"`
	Transaction *model.Transaction `json:"transaction"`
}

// UserService manages platform users within the caller's assignment scope.
// Users outside the scope behave as if they did not exist.
type UserService interface {
	List(ctx context.Context, actor model.Actor, f repository.UserFilter, limit, offset int) (*ListResult[model.User], error)
	Get(ctx context.Context, actor model.Actor, id int64) (*model.User, error)
	Create(ctx context.Context, actor model.Actor, in CreateUserInput) (*model.User, error)
	Update(ctx context.Context, actor model.Actor, id int64, in UpdateUserInput) (*model.User, error)
	// AdjustBalance adds a signed amount and appends a completed adjustment ledger row.
	AdjustBalance(ctx context.Context, actor model.Actor, id int64, amount decimal.Decimal, remark string) (*BalanceAdjustment, error)
	Transactions(ctx context.Context, actor model.Actor, id int64, f repository.TransactionFilter, limit, offset int) (*ListResult[model.Transaction], error)
}

type userService struct {
	scope
	tx           repository.Transactor
	users        repository.UserRepository
	transactions repository.TransactionRepository
	audit        *Auditor
}

func NewUserService(
	tx repository.Transactor,
	agents repository.AgentRepository,
	users repository.UserRepository,
	transactions repository.TransactionRepository,
	audit *Auditor,
) UserService {
	return &userService{
		scope:        scope{agents: agents},
		tx:           tx,
		users:        users,
		transactions: transactions,
		audit:        audit,
	}
}

func (s *userService) List(ctx context.Context, actor model.Actor, f repository.UserFilter, limit, offset int) (*ListResult[model.User], error) {
	f.AgentID = agentScope(actor)
	res, err := s.users.List(ctx, f, pageQuery(limit, offset))
	if err != nil {
		return nil, err
	}
	return newListResult(res), nil
}

func (s *userService) Get(ctx context.Context, actor model.Actor, id int64) (*model.User, error) {
	if err := s.checkUser(ctx, actor, id); err != nil {
		return nil, err
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return u, nil
}

func (s *userService) Create(ctx context.Context, actor model.Actor, in CreateUserInput) (*model.User, error) {
	if err := requirePerm(actor, model.PermManageUsers); err != nil {
		return nil, err
	}
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" {
		return nil, invalid("username is required")
	}

	var created *model.User
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		u, err := s.users.Create(ctx, &model.User{
			Username: in.Username,
			Email:    strings.TrimSpace(in.Email),
			Phone:    strings.TrimSpace(in.Phone),
			Balance:  decimal.Zero,
			Status:   model.UserActive,
		})
		if err != nil {
			return err
		}
		if !actor.IsAdmin() {
			if err := s.agents.AssignUsers(ctx, actor.AgentID, []int64{u.ID}); err != nil {
				return err
			}
		}
		created = u
		return nil
	})
	if err != nil {
		return nil, mapRepoErr(err)
	}

	s.audit.Record(ctx, actor, ActionUserCreate, "user", idString(created.ID), map[string]any{"username": created.Username})
	return created, nil
}

func (s *userService) Update(ctx context.Context, actor model.Actor, id int64, in UpdateUserInput) (*model.User, error) {
	if err := requirePerm(actor, model.PermManageUsers); err != nil {
		return nil, err
	}
	if err := s.checkUser(ctx, actor, id); err != nil {
		return nil, err
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err)
	}

	changes := map[string]any{}
	if in.Email != nil {
		u.Email = strings.TrimSpace(*in.Email)
		changes["email"] = u.Email
	}
	if in.Phone != nil {
		u.Phone = strings.TrimSpace(*in.Phone)
		changes["phone"] = u.Phone
	}
	if in.Status != nil {
		switch *in.Status {
		case model.UserActive, model.UserFrozen:
		default:
			return nil, invalid("unknown status %q", *in.Status)
		}
		u.Status = *in.Status
		changes["status"] = u.Status
	}

	if err := s.users.Update(ctx, u); err != nil {
		return nil, mapRepoErr(err)
	}
	s.audit.Record(ctx, actor, ActionUserUpdate, "user", idString(id), changes)
	return u, nil
}

func (s *userService) AdjustBalance(ctx context.Context, actor model.Actor, id int64, amount decimal.Decimal, remark string) (*BalanceAdjustment, error) {
	if err := requirePerm(actor, model.PermManageUsers); err != nil {
		return nil, err
	}
	if amount.IsZero() {
		return nil, invalid("amount must be non-zero")
	}
	if err := checkMoney("amount", amount); err != nil {
		return nil, err
	}
	remark = strings.TrimSpace(remark)
	if len(remark) > maxRemarkLen {
		return nil, invalid("remark must be at most %d characters", maxRemarkLen)
	}
	if err := s.checkUser(ctx, actor, id); err != nil {
		return nil, err
	}

	var out BalanceAdjustment
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		u, err := s.users.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		oldBalance := u.Balance
		newBalance := oldBalance.Add(amount)
		if newBalance.IsNegative() {
			return ErrInsufficientBalance
		}
		if err := checkMoney("resulting balance", newBalance); err != nil {
			return err
		}
		if err := s.users.UpdateBalance(ctx, id, newBalance); err != nil {
			return err
		}
		operator := actor.AgentID
		t, err := s.transactions.Create(ctx, &model.Transaction{
			UserID:          id,
			Type:            model.TxAdjustment,
			Amount:          amount,
			OldBalance:      oldBalance,
			NewBalance:      newBalance,
			Status:          model.TxCompleted,
			Reference:       idgen.Reference(),
			Remark:          remark,
			OperatorAgentID: &operator,
		})
		if err != nil {
			return err
		}
		u.Balance = newBalance
		out.User, out.Transaction = u, t
		return nil
	})
	if err != nil {
		return nil, mapRepoErr(err)
	}

	s.audit.Record(ctx, actor, ActionUserBalance, "user", idString(id), map[string]any{
		"amount":      amount.String(),
		"old_balance": out.Transaction.OldBalance.String(),
		"new_balance": out.Transaction.NewBalance.String(),
		"reference":   out.Transaction.Reference,
		"remark":      remark,
	})
	return &out, nil
}

func (s *userService) Transactions(ctx context.Context, actor model.Actor, id int64, f repository.TransactionFilter, limit, offset int) (*ListResult[model.Transaction], error) {
	if err := s.checkUser(ctx, actor, id); err != nil {
		return nil, err
	}
	f.UserID = id
	res, err := s.transactions.List(ctx, f, pageQuery(limit, offset))
	if err != nil {
		return nil, err
	}
	return newListResult(res), nil
}
