package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/model"
)

func TestSettingsPostgres_Get(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSettingsPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("never written", func(t *testing.T) {
		mock.ExpectQuery("FROM global_settings WHERE id = 1").
			WillReturnRows(sqlmock.NewRows([]string{"broadcast_message", "updated_by", "updated_at"}))

		s, err := repo.Get(ctx)

		require.NoError(t, err)
		assert.Equal(t, "", s.BroadcastMessage)
		assert.Nil(t, s.UpdatedAt)
	})

	t.Run("stored", func(t *testing.T) {
		mock.ExpectQuery("FROM global_settings WHERE id = 1").
			WillReturnRows(sqlmock.NewRows([]string{"broadcast_message", "updated_by", "updated_at"}).
				AddRow("maintenance tonight", int64(1), now))

		s, err := repo.Get(ctx)

		require.NoError(t, err)
		assert.Equal(t, "maintenance tonight", s.BroadcastMessage)
		require.NotNil(t, s.UpdatedBy)
		assert.Equal(t, int64(1), *s.UpdatedBy)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsPostgres_Upsert(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSettingsPostgres(db)
	admin := int64(1)
	now := time.Now().UTC()

	mock.ExpectQuery(`INSERT INTO global_settings .* ON CONFLICT \(id\) DO UPDATE`).
		WithArgs("hello", admin).
		WillReturnRows(sqlmock.NewRows([]string{"broadcast_message", "updated_by", "updated_at"}).
			AddRow("hello", admin, now))

	s, err := repo.Upsert(context.Background(), &model.GlobalSettings{BroadcastMessage: "hello", UpdatedBy: &admin})

	require.NoError(t, err)
	assert.Equal(t, "hello", s.BroadcastMessage)
	require.NotNil(t, s.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}
