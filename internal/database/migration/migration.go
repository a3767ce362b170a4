package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

type migrationStep struct {
	Name string
	SQL  string
}

const createLedgerTable = `CREATE TABLE IF NOT EXISTS schema_steps (
  name       TEXT        PRIMARY KEY,
  applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

var steps = []migrationStep{
	{
		Name: "create_table_agents",
		SQL: `CREATE TABLE IF NOT EXISTS agents (
  id            BIGSERIAL   PRIMARY KEY,
  username      TEXT        NOT NULL UNIQUE,
  password_hash TEXT        NOT NULL,
  name          TEXT        NOT NULL DEFAULT '',
  role          TEXT        NOT NULL DEFAULT 'agent' CHECK (role IN ('admin', 'agent')),
  status        TEXT        NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'disabled')),
  last_login_at TIMESTAMPTZ,
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_agent_permissions",
		SQL: `CREATE TABLE IF NOT EXISTS agent_permissions (
  agent_id           BIGINT      PRIMARY KEY REFERENCES agents (id) ON DELETE CASCADE,
  manage_users       BOOLEAN     NOT NULL DEFAULT false,
  review_withdrawals BOOLEAN     NOT NULL DEFAULT false,
  manage_wallets     BOOLEAN     NOT NULL DEFAULT false,
  view_trades        BOOLEAN     NOT NULL DEFAULT false,
  updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id         BIGSERIAL      PRIMARY KEY,
  username   TEXT           NOT NULL UNIQUE,
  email      TEXT           NOT NULL DEFAULT '',
  phone      TEXT           NOT NULL DEFAULT '',
  balance    NUMERIC(20, 8) NOT NULL DEFAULT 0 CHECK (balance >= 0),
  status     TEXT           NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'frozen')),
  created_at TIMESTAMPTZ    NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ    NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_agent_assigned_users",
		SQL: `CREATE TABLE IF NOT EXISTS agent_assigned_users (
  agent_id    BIGINT      NOT NULL REFERENCES agents (id) ON DELETE CASCADE,
  user_id     BIGINT      NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  assigned_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  PRIMARY KEY (agent_id, user_id)
);`,
	},
	{
		Name: "create_index_agent_assigned_users_user_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_agent_assigned_users_user_id ON agent_assigned_users (user_id);`,
	},
	{
		Name: "create_table_bank_cards",
		SQL: `CREATE TABLE IF NOT EXISTS bank_cards (
  id           BIGSERIAL   PRIMARY KEY,
  user_id      BIGINT      REFERENCES users (id) ON DELETE CASCADE,
  agent_id     BIGINT      REFERENCES agents (id) ON DELETE CASCADE,
  bank_name    TEXT        NOT NULL,
  account_name TEXT        NOT NULL,
  card_number  TEXT        NOT NULL,
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
  CHECK ((user_id IS NULL) <> (agent_id IS NULL))
);`,
	},
	{
		Name: "create_table_crypto_wallets",
		SQL: `CREATE TABLE IF NOT EXISTS crypto_wallets (
  id         BIGSERIAL   PRIMARY KEY,
  user_id    BIGINT      REFERENCES users (id) ON DELETE CASCADE,
  agent_id   BIGINT      REFERENCES agents (id) ON DELETE CASCADE,
  network    TEXT        NOT NULL,
  address    TEXT        NOT NULL,
  label      TEXT        NOT NULL DEFAULT '',
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  CHECK ((user_id IS NULL) <> (agent_id IS NULL))
);`,
	},
	{
		Name: "create_table_transactions",
		SQL: `CREATE TABLE IF NOT EXISTS transactions (
  id                BIGSERIAL      PRIMARY KEY,
  user_id           BIGINT         NOT NULL REFERENCES users (id),
  type              TEXT           NOT NULL CHECK (type IN ('deposit', 'withdrawal', 'adjustment', 'refund', 'trade')),
  amount            NUMERIC(20, 8) NOT NULL,
  old_balance       NUMERIC(20, 8) NOT NULL,
  new_balance       NUMERIC(20, 8) NOT NULL,
  status            TEXT           NOT NULL CHECK (status IN ('pending', 'completed', 'failed')),
  reference         TEXT           NOT NULL UNIQUE,
  remark            TEXT           NOT NULL DEFAULT '',
  operator_agent_id BIGINT         REFERENCES agents (id),
  created_at        TIMESTAMPTZ    NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_transactions_user_id_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_transactions_user_id_created_at ON transactions (user_id, created_at DESC);`,
	},
	{
		Name: "create_table_withdrawals",
		SQL: `CREATE TABLE IF NOT EXISTS withdrawals (
  id               BIGSERIAL      PRIMARY KEY,
  order_number     TEXT           NOT NULL UNIQUE,
  user_id          BIGINT         NOT NULL REFERENCES users (id),
  amount           NUMERIC(20, 8) NOT NULL CHECK (amount > 0),
  method           TEXT           NOT NULL CHECK (method IN ('bank', 'crypto')),
  bank_card_id     BIGINT         REFERENCES bank_cards (id) ON DELETE SET NULL,
  crypto_wallet_id BIGINT         REFERENCES crypto_wallets (id) ON DELETE SET NULL,
  transaction_id   BIGINT         NOT NULL REFERENCES transactions (id),
  status           TEXT           NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved', 'rejected')),
  reviewed_by      BIGINT         REFERENCES agents (id),
  reviewed_at      TIMESTAMPTZ,
  reject_reason    TEXT           NOT NULL DEFAULT '',
  receipt_path     TEXT           NOT NULL DEFAULT '',
  created_at       TIMESTAMPTZ    NOT NULL DEFAULT now(),
  updated_at       TIMESTAMPTZ    NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_withdrawals_status_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_withdrawals_status_created_at ON withdrawals (status, created_at DESC);`,
	},
	{
		Name: "create_table_trades",
		SQL: `CREATE TABLE IF NOT EXISTS trades (
  id          BIGSERIAL      PRIMARY KEY,
  user_id     BIGINT         NOT NULL REFERENCES users (id),
  symbol      TEXT           NOT NULL,
  direction   TEXT           NOT NULL CHECK (direction IN ('up', 'down')),
  amount      NUMERIC(20, 8) NOT NULL,
  open_price  NUMERIC(20, 8) NOT NULL,
  close_price NUMERIC(20, 8),
  result      TEXT           NOT NULL DEFAULT 'pending' CHECK (result IN ('pending', 'win', 'loss')),
  payout      NUMERIC(20, 8) NOT NULL DEFAULT 0,
  created_at  TIMESTAMPTZ    NOT NULL DEFAULT now(),
  settled_at  TIMESTAMPTZ
);`,
	},
	{
		Name: "create_index_trades_user_id_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_trades_user_id_created_at ON trades (user_id, created_at DESC);`,
	},
	{
		Name: "create_table_audit_logs",
		SQL: `CREATE TABLE IF NOT EXISTS audit_logs (
  id          BIGSERIAL   PRIMARY KEY,
  agent_id    BIGINT      NOT NULL,
  action      TEXT        NOT NULL,
  target_type TEXT        NOT NULL DEFAULT '',
  target_id   TEXT        NOT NULL DEFAULT '',
  detail      JSONB       NOT NULL DEFAULT '{}'::jsonb,
  ip          TEXT        NOT NULL DEFAULT '',
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_audit_logs_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_audit_logs_created_at ON audit_logs (created_at DESC);`,
	},
	{
		Name: "create_table_global_settings",
		SQL: `CREATE TABLE IF NOT EXISTS global_settings (
  id                SMALLINT    PRIMARY KEY CHECK (id = 1),
  broadcast_message TEXT        NOT NULL DEFAULT '',
  updated_by        BIGINT      REFERENCES agents (id),
  updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
}

// EnsureMigrated applies every step not yet recorded in schema_steps, in order.
// Each step and its ledger row are committed together.
func EnsureMigrated(ctx context.Context, db *sql.DB, log logrus.FieldLogger) error {
	start := time.Now()
	log = log.WithField("component", "database")

	if _, err := db.ExecContext(ctx, createLedgerTable); err != nil {
		log.WithError(err).Error("db_migration_failed")
		return fmt.Errorf("create schema_steps: %w", err)
	}

	applied, err := appliedSteps(ctx, db)
	if err != nil {
		log.WithError(err).Error("db_migration_failed")
		return err
	}

	pending := 0
	for _, step := range steps {
		if applied[step.Name] {
			continue
		}
		pending++
		stepStart := time.Now()
		if err := applyStep(ctx, db, step); err != nil {
			log.WithError(err).WithFields(logrus.Fields{
				"migration_step": step.Name,
				"duration_ms":    time.Since(start).Milliseconds(),
			}).Error("db_migration_failed")
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
		log.WithFields(logrus.Fields{
			"migration_step":   step.Name,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		}).Info("db_migration_step")
	}

	log.WithFields(logrus.Fields{
		"applied":     pending,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("db_migration_success")
	return nil
}

func appliedSteps(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, `SELECT name FROM schema_steps`)
	if err != nil {
		return nil, fmt.Errorf("read schema_steps: %w", err)
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out[name] = true
	}
	return out, rows.Err()
}

func applyStep(ctx context.Context, db *sql.DB, step migrationStep) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, step.SQL); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_steps (name) VALUES ($1)`, step.Name); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
