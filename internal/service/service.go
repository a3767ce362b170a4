// Package service holds the back-office business rules: assignment scoping,
// permission checks, the balance ledger, the withdrawal state machine and auditing.
package service

import (
	"context"
	"strconv"

	"github.com/shopspring/decimal"

	"backoffice/internal/model"
	"backoffice/internal/repository"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// ListResult is the service-level DTO for paginated listings.
type ListResult[T any] struct {
	Items []T `json:"data"`
	Total int `json:"total"`
}

func newListResult[T any](res *repository.PageResult[T]) *ListResult[T] {
	items := res.Items
	if items == nil {
		items = []T{}
	}
	return &ListResult[T]{Items: items, Total: res.Total}
}

// pageQuery clamps limit into [1, maxLimit] and offset to be non-negative.
func pageQuery(limit, offset int) repository.PageQuery {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return repository.PageQuery{Limit: limit, Offset: offset}
}

// Money columns are NUMERIC(20,8).
const moneyScale = 8

var moneyLimit = decimal.New(1, 20-moneyScale)

// checkMoney rejects amounts the ledger columns cannot store exactly.
func checkMoney(field string, v decimal.Decimal) error {
	if !v.Equal(v.Truncate(moneyScale)) {
		return invalid("%s must have at most %d decimal places", field, moneyScale)
	}
	if v.Abs().GreaterThanOrEqual(moneyLimit) {
		return invalid("%s must be less than %s", field, moneyLimit.String())
	}
	return nil
}

func requireAdmin(actor model.Actor) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

func requirePerm(actor model.Actor, perm model.Permission) error {
	if !actor.Can(perm) {
		return ErrForbidden
	}
	return nil
}

// agentScope returns the agent id that restricts listings, or nil for admins.
func agentScope(actor model.Actor) *int64 {
	if actor.IsAdmin() {
		return nil
	}
	id := actor.AgentID
	return &id
}

// scope answers whether a user is visible to an actor.
type scope struct {
	agents repository.AgentRepository
}

// checkUser returns ErrNotFound when userID is not assigned to a non-admin actor.
func (s scope) checkUser(ctx context.Context, actor model.Actor, userID int64) error {
	if actor.IsAdmin() {
		return nil
	}
	ok, err := s.agents.IsAssigned(ctx, actor.AgentID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func idString(id int64) string {
	return strconv.FormatInt(id, 10)
}
