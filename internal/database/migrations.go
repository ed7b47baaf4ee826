package database

import (
	"context"
	"fmt"
	"strconv"

	"github.com/JonMunkholm/classmonitor/internal/core"
	"github.com/jackc/pgx/v5"
)

type migration struct {
	name string
	sql  string
}

var baseMigrations = []migration{
	{
		name: "create_students",
		sql: `CREATE TABLE IF NOT EXISTS students (
    student_id    TEXT PRIMARY KEY,
    full_name     TEXT NOT NULL,
    programme     TEXT NOT NULL,
    level         INTEGER NOT NULL,
    gpa           DOUBLE PRECISION NOT NULL,
    email         TEXT NOT NULL DEFAULT '',
    phone         TEXT NOT NULL DEFAULT '',
    enrolled_date DATE,
    status        TEXT NOT NULL DEFAULT 'Active'
)`,
	},
	{
		name: "index_students_full_name",
		sql:  `CREATE INDEX IF NOT EXISTS idx_students_full_name ON students (full_name)`,
	},
	{
		name: "create_settings",
		sql: `CREATE TABLE IF NOT EXISTS settings (
    id INTEGER PRIMARY KEY CHECK (id = 1)
)`,
	},
	{
		name: "create_programmes",
		sql: `CREATE TABLE IF NOT EXISTS programmes (
    id   BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL UNIQUE
)`,
	},
	{
		name: "create_audit_log",
		sql: `CREATE TABLE IF NOT EXISTS audit_log (
    id         UUID PRIMARY KEY,
    message    TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	},
}

// thresholdColumn returns the quoted settings column for name.
func thresholdColumn(name core.ThresholdName) string {
	return pgx.Identifier{string(name) + "_threshold"}.Sanitize()
}

// settingsMigrations upgrades the settings table in place: each known
// threshold gets its own column with its default, and the singleton row is
// created once.
func settingsMigrations() []migration {
	var out []migration
	for _, name := range core.ThresholdNames {
		def, _ := core.DefaultThreshold(name)
		out = append(out, migration{
			name: "settings_" + string(name),
			sql: fmt.Sprintf(`ALTER TABLE settings ADD COLUMN IF NOT EXISTS %s DOUBLE PRECISION DEFAULT %s`,
				thresholdColumn(name), strconv.FormatFloat(def, 'f', -1, 64)),
		})
	}
	out = append(out, migration{
		name: "settings_row",
		sql:  `INSERT INTO settings (id) VALUES (1) ON CONFLICT (id) DO NOTHING`,
	})
	return out
}

// Migrate creates or upgrades the schema. Every statement is idempotent, so
// it is safe to run on each new connection.
func Migrate(ctx context.Context, db DBTX) error {
	all := append(append([]migration{}, baseMigrations...), settingsMigrations()...)
	for _, m := range all {
		if _, err := db.Exec(ctx, m.sql); err != nil {
			return fmt.Errorf("migration %s: %w", m.name, err)
		}
	}
	return nil
}
