package core

// scheduler.go runs periodic audit log maintenance.
//
// The retention job deletes audit entries older than the configured age. It
// runs once on start and then every CheckInterval until ctx is cancelled.
// A failed run is logged and retried on the next tick.

import (
	"context"
	"log/slog"
	"time"
)

// AuditPurger deletes audit entries created before cutoff.
type AuditPurger interface {
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// RetentionConfig controls the audit retention job.
type RetentionConfig struct {
	MaxAge        time.Duration // Entries older than this are deleted; zero disables the job
	CheckInterval time.Duration // How often to run (default: 24h)
}

// DefaultRetentionCheckInterval is used when CheckInterval is zero.
const DefaultRetentionCheckInterval = 24 * time.Hour

// RunAuditRetention blocks, purging old audit entries on a ticker, until ctx
// is done. It returns immediately when MaxAge is not positive.
func RunAuditRetention(ctx context.Context, purger AuditPurger, cfg RetentionConfig) {
	if cfg.MaxAge <= 0 || purger == nil {
		slog.Debug("audit retention disabled")
		return
	}
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = DefaultRetentionCheckInterval
	}

	slog.Info("audit retention scheduler started",
		"max_age", cfg.MaxAge.String(),
		"interval", cfg.CheckInterval.String(),
	)

	PurgeAuditLog(ctx, purger, cfg.MaxAge, time.Now())

	ticker := time.NewTicker(cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("audit retention scheduler stopped")
			return
		case now := <-ticker.C:
			PurgeAuditLog(ctx, purger, cfg.MaxAge, now)
		}
	}
}

// PurgeAuditLog performs one purge of entries older than maxAge at now.
func PurgeAuditLog(ctx context.Context, purger AuditPurger, maxAge time.Duration, now time.Time) (int64, error) {
	start := time.Now()
	cutoff := now.Add(-maxAge)

	purged, err := purger.PurgeBefore(ctx, cutoff)
	if err != nil {
		slog.Error("audit purge failed", "cutoff", cutoff, "error", err)
		return 0, err
	}

	slog.Info("purged audit log entries",
		"entries_purged", purged,
		"cutoff", cutoff,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return purged, nil
}
