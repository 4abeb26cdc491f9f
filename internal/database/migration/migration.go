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

var steps = []migrationStep{
	{
		Name: "create_table_employees",
		SQL: `CREATE TABLE IF NOT EXISTS employees (
  id           UUID PRIMARY KEY,
  display_name TEXT NOT NULL,
  org_code     TEXT NOT NULL
);`,
	},
	{
		Name: "create_index_employees_org_code",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_employees_org_code ON employees (org_code);`,
	},
	{
		Name: "create_table_leave_requests",
		SQL: `CREATE TABLE IF NOT EXISTS leave_requests (
  id             UUID        PRIMARY KEY,
  employee_id    UUID        NOT NULL REFERENCES employees (id),
  start_date     DATE        NOT NULL,
  end_date       DATE        NOT NULL,
  day_count      INT         NOT NULL CHECK (day_count >= 0),
  departure_half TEXT        NOT NULL DEFAULT '' CHECK (char_length(departure_half) <= 16),
  return_half    TEXT        NOT NULL DEFAULT '' CHECK (char_length(return_half) <= 16),
  request_text   TEXT        NOT NULL DEFAULT '',
  chief_decision TEXT        NOT NULL DEFAULT 'PENDING' CHECK (chief_decision IN ('PENDING', 'APPROVED', 'REJECTED')),
  hr_decision    TEXT        NOT NULL DEFAULT 'PENDING' CHECK (hr_decision IN ('PENDING', 'APPROVED', 'REJECTED', 'PROCESSED')),
  observation    TEXT        NOT NULL DEFAULT '',
  created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
  start_year     INT         GENERATED ALWAYS AS (EXTRACT(YEAR FROM start_date)::int) STORED,
  CHECK (start_date <= end_date),
  CHECK (day_count <= end_date - start_date + 1)
);`,
	},
	{
		Name: "create_index_leave_requests_quota",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_leave_requests_quota ON leave_requests (employee_id, chief_decision, start_year);`,
	},
	{
		Name: "create_index_leave_requests_start_date",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_leave_requests_start_date ON leave_requests (start_date DESC, id);`,
	},
	{
		Name: "create_table_leave_attachments",
		SQL: `CREATE TABLE IF NOT EXISTS leave_attachments (
  id               UUID        PRIMARY KEY,
  leave_request_id UUID        NOT NULL REFERENCES leave_requests (id) ON DELETE CASCADE,
  filename         TEXT        NOT NULL,
  storage_path     TEXT        NOT NULL UNIQUE,
  content_type     TEXT        NOT NULL,
  size             BIGINT      NOT NULL CHECK (size >= 0),
  uploaded_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_leave_attachments_request",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_leave_attachments_request ON leave_attachments (leave_request_id, uploaded_at);`,
	},
}

// EnsureMigrated checks if the 'leave_requests' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, log logrus.FieldLogger, dbHost string) error {
	start := time.Now()
	base := log.WithFields(logrus.Fields{
		"component": "database",
		"db_host":   dbHost,
	})

	base.WithFields(logrus.Fields{"event": "db_migration_check", "status": "starting"}).Info("checking schema")

	var exists bool
	query := "SELECT to_regclass('public.leave_requests') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		base.WithError(err).WithFields(logrus.Fields{
			"event":       "db_migration_failed",
			"status":      "error",
			"duration_ms": time.Since(start).Milliseconds(),
		}).Error("failed to check sentinel table")
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		base.WithFields(logrus.Fields{
			"event":       "db_migration_skip",
			"status":      "success",
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("schema already exists, skipping migration")
		return nil
	}

	base.WithFields(logrus.Fields{"event": "db_migration_start", "status": "in_progress"}).Info("running migration")

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			base.WithError(err).WithFields(logrus.Fields{
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			}).Error("migration step failed")
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		base.WithFields(logrus.Fields{
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		}).Debug("migration step applied")
	}

	base.WithFields(logrus.Fields{
		"event":       "db_migration_success",
		"status":      "success",
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("migration complete")

	return nil
}
