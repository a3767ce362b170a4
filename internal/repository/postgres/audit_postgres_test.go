package postgres

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/model"
	"backoffice/internal/repository"
)

func TestAuditPostgres_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAuditPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("with detail", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO audit_logs").
			WithArgs(int64(1), "user.update", "user", "9", `{"status":"frozen"}`, "10.0.0.1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(3), now))

		l := &model.AuditLog{
			AgentID: 1, Action: "user.update", TargetType: "user", TargetID: "9",
			Detail: json.RawMessage(`{"status":"frozen"}`), IP: "10.0.0.1",
		}
		require.NoError(t, repo.Create(ctx, l))
		assert.Equal(t, int64(3), l.ID)
	})

	t.Run("empty detail stored as object", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO audit_logs").
			WithArgs(int64(1), "auth.logout", "", "", "{}", "").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(4), now))

		require.NoError(t, repo.Create(ctx, &model.AuditLog{AgentID: 1, Action: "auth.logout"}))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditPostgres_List(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAuditPostgres(db)
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM audit_logs WHERE \(action = \$1 AND created_at >= \$2 AND created_at < \$3\)`).
		WithArgs("withdrawal.review", from, to).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`ORDER BY created_at DESC, id DESC LIMIT 10`).
		WithArgs("withdrawal.review", from, to).
		WillReturnRows(sqlmock.NewRows([]string{"id", "agent_id", "action", "target_type", "target_id", "detail", "ip", "created_at"}).
			AddRow(int64(1), int64(2), "withdrawal.review", "withdrawal", "7", []byte(`{"action":"approve"}`), "", from))

	res, err := repo.List(context.Background(),
		repository.AuditFilter{Action: "withdrawal.review", From: from, To: to},
		repository.PageQuery{Limit: 10})

	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.JSONEq(t, `{"action":"approve"}`, string(res.Items[0].Detail))
	assert.NoError(t, mock.ExpectationsWereMet())
}
