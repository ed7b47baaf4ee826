// Package admin provides destructive maintenance operations on the student
// database.
package admin

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/JonMunkholm/classmonitor/internal/database"
)

// ResetTimeout is the maximum duration for a reset.
const ResetTimeout = 30 * time.Second

// Target names a group of data that can be reset.
type Target string

const (
	TargetStudents   Target = "students"
	TargetProgrammes Target = "programmes"
	TargetAuditLog   Target = "audit"
	TargetSettings   Target = "settings"
)

// Targets lists every resettable target in the order ResetAll applies them.
var Targets = []Target{TargetStudents, TargetProgrammes, TargetAuditLog, TargetSettings}

var resetSQL = map[Target]string{
	TargetStudents:   `TRUNCATE students`,
	TargetProgrammes: `TRUNCATE programmes`,
	TargetAuditLog:   `TRUNCATE audit_log`,
	// Dropping the row restores every threshold to its default.
	TargetSettings: `DELETE FROM settings`,
}

// Resetter clears tables through a database session.
type Resetter struct {
	Session *database.Session
}

type resetFn func(ctx context.Context, db database.DBTX) error

// Reset clears the given targets in one connection, stopping at the first
// failure. The settings singleton row is recreated afterwards.
func (r *Resetter) Reset(ctx context.Context, targets ...Target) error {
	fns := make([]resetFn, 0, len(targets)+1)
	for _, t := range targets {
		sql, ok := resetSQL[t]
		if !ok {
			return fmt.Errorf("unknown reset target %q", t)
		}
		fns = append(fns, exec(t, sql))
	}
	fns = append(fns, database.Migrate)

	ctx, cancel := context.WithTimeout(ctx, ResetTimeout)
	defer cancel()

	return r.Session.Do(ctx, func(db database.DBTX) error {
		return runResets(ctx, db, fns)
	})
}

// ResetAll clears every target.
func (r *Resetter) ResetAll(ctx context.Context) error {
	return r.Reset(ctx, Targets...)
}

func exec(t Target, sql string) resetFn {
	return func(ctx context.Context, db database.DBTX) error {
		if _, err := db.Exec(ctx, sql); err != nil {
			return fmt.Errorf("reset %s: %w", t, err)
		}
		slog.Info("reset", "target", t)
		return nil
	}
}

func runResets(ctx context.Context, db database.DBTX, resets []resetFn) error {
	for _, reset := range resets {
		if err := reset(ctx, db); err != nil {
			return err
		}
	}
	return nil
}
