// Package app assembles the stores, services and runners shared by the
// server and the CLI.
package app

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/JonMunkholm/classmonitor/internal/config"
	"github.com/JonMunkholm/classmonitor/internal/core"
	"github.com/JonMunkholm/classmonitor/internal/database"
)

// App holds the wired components.
type App struct {
	Config     *config.Config
	Session    *database.Session
	Store      *database.StudentStore
	Audit      *database.AuditStore
	Students   *core.Service
	Settings   *core.Settings
	Programmes *core.Programmes
	Imports    *core.ImportRunner
}

// New wires every component from cfg. No database connection is opened
// until the first store call; the schema is migrated whenever a connection
// is (re)opened.
func New(cfg *config.Config) *App {
	session := database.NewSession(cfg.Database.URL,
		database.WithConnectTimeout(cfg.Database.ConnectTimeout),
		database.WithOnOpen(database.Migrate),
	)

	store := database.NewStudentStore(session)
	auditStore := database.NewAuditStore(session)

	students := core.NewService(store,
		core.WithAuditSink(AuditSink(cfg.Audit.Sink, auditStore)),
		core.WithAuditTimeout(cfg.Audit.Timeout),
	)

	limiter := core.NewImportLimiter(cfg.Import.MaxConcurrent, cfg.Import.MaxWaitTime)

	return &App{
		Config:     cfg,
		Session:    session,
		Store:      store,
		Audit:      auditStore,
		Students:   students,
		Settings:   core.NewSettings(database.NewSettingsStore(session)),
		Programmes: core.NewProgrammes(store),
		Imports:    core.NewImportRunner(students, limiter, cfg.Import.ResultTTL),
	}
}

// AuditSink selects the audit destination by name: log, db or both.
// Unknown names fall back to both.
func AuditSink(name string, db core.AuditSink) core.AuditSink {
	logSink := core.LogAuditSink{Logger: slog.Default().With("component", "audit")}
	switch strings.ToLower(name) {
	case config.AuditSinkLog:
		return logSink
	case config.AuditSinkDB:
		return db
	default:
		return core.MultiAuditSink{logSink, db}
	}
}

// Migrate opens the connection (which applies the schema) and verifies it.
func (a *App) Migrate(ctx context.Context) error {
	return a.Session.Ping(ctx)
}

// Close waits for pending audit writes, then releases the database
// connection. The wait is bounded by the audit timeout since no single
// write outlives it.
func (a *App) Close(ctx context.Context) error {
	timeout := a.Config.Audit.Timeout
	if timeout <= 0 {
		timeout = core.DefaultAuditTimeout
	}
	flushCtx, cancel := context.WithTimeout(ctx, timeout+time.Second)
	defer cancel()

	if err := a.Students.Flush(flushCtx); err != nil {
		slog.Warn("audit writes still pending at shutdown", "error", err)
	}
	return a.Session.Close(ctx)
}
