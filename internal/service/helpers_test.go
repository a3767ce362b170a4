package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/mock"

	"backoffice/internal/model"
	repoMocks "backoffice/internal/repository/mocks"
)

var (
	adminActor = model.Actor{AgentID: 1, Username: "root", Role: model.RoleAdmin, SessionID: "s-admin", IP: "10.0.0.1"}
	agentActor = model.Actor{
		AgentID:   2,
		Username:  "alice",
		Role:      model.RoleAgent,
		SessionID: "s-alice",
		Permissions: model.Permissions{
			ManageUsers:       true,
			ReviewWithdrawals: true,
			ManageWallets:     true,
			ViewTrades:        true,
		},
	}
	bareAgent = model.Actor{AgentID: 3, Username: "bob", Role: model.RoleAgent, SessionID: "s-bob"}
)

// newAuditor returns an Auditor whose writes always succeed, plus its repository mock.
func newAuditor(t *testing.T) (*Auditor, *repoMocks.MockAuditRepository) {
	t.Helper()
	repo := new(repoMocks.MockAuditRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil).Maybe()
	return NewAuditor(repo, nullLogger()), repo
}

func nullLogger() logrus.FieldLogger {
	l, _ := test.NewNullLogger()
	return l
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decEq(s string) any {
	want := dec(s)
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(want) })
}

func ptr[T any](v T) *T { return &v }

// passTx returns a transactor mock that runs every fn.
func passTx() *repoMocks.MockTransactor {
	tx := new(repoMocks.MockTransactor)
	tx.On("WithinTx", mock.Anything).Return(nil)
	return tx
}
