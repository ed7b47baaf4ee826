package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/classmonitor/internal/core"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// SettingsStore is the PostgreSQL core.SettingsStore. Each threshold lives in
// its own column of the singleton settings row.
type SettingsStore struct {
	session *Session
}

var _ core.SettingsStore = (*SettingsStore)(nil)

func NewSettingsStore(session *Session) *SettingsStore {
	return &SettingsStore{session: session}
}

func (s *SettingsStore) GetThreshold(ctx context.Context, name core.ThresholdName) (float64, error) {
	def, err := core.DefaultThreshold(name)
	if err != nil {
		return 0, err
	}

	var v pgtype.Float8
	err = s.session.Do(ctx, func(db DBTX) error {
		sql := fmt.Sprintf(`SELECT %s FROM settings WHERE id = 1`, thresholdColumn(name))
		return db.QueryRow(ctx, sql).Scan(&v)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return def, nil
	}
	if err != nil {
		return 0, storageErr("get_threshold", err)
	}
	if !v.Valid {
		return def, nil
	}
	return v.Float64, nil
}

func (s *SettingsStore) SetThreshold(ctx context.Context, name core.ThresholdName, value float64) error {
	if _, err := core.DefaultThreshold(name); err != nil {
		return err
	}

	err := s.session.Do(ctx, func(db DBTX) error {
		col := thresholdColumn(name)
		sql := fmt.Sprintf(`INSERT INTO settings (id, %[1]s) VALUES (1, $1)
ON CONFLICT (id) DO UPDATE SET %[1]s = EXCLUDED.%[1]s`, col)
		_, err := db.Exec(ctx, sql, value)
		return err
	})
	return storageErr("set_threshold", err)
}

// SetThresholds upserts all three thresholds in one statement.
func (s *SettingsStore) SetThresholds(ctx context.Context, t core.Thresholds) error {
	cols := make([]string, len(core.ThresholdNames))
	params := make([]string, len(core.ThresholdNames))
	sets := make([]string, len(core.ThresholdNames))
	args := make([]any, len(core.ThresholdNames))
	for i, name := range core.ThresholdNames {
		col := thresholdColumn(name)
		cols[i] = col
		params[i] = fmt.Sprintf("$%d", i+1)
		sets[i] = fmt.Sprintf("%[1]s = EXCLUDED.%[1]s", col)
		args[i], _ = t.Get(name)
	}

	sql := fmt.Sprintf(`INSERT INTO settings (id, %s) VALUES (1, %s)
ON CONFLICT (id) DO UPDATE SET %s`,
		strings.Join(cols, ", "), strings.Join(params, ", "), strings.Join(sets, ", "))

	err := s.session.Do(ctx, func(db DBTX) error {
		_, err := db.Exec(ctx, sql, args...)
		return err
	})
	return storageErr("set_thresholds", err)
}
