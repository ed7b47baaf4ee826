package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/JonMunkholm/classmonitor/internal/app"
	"github.com/JonMunkholm/classmonitor/internal/config"
	"github.com/JonMunkholm/classmonitor/internal/core"
	"github.com/JonMunkholm/classmonitor/internal/logging"
	"github.com/JonMunkholm/classmonitor/internal/web"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// .env overrides the process environment when present
	if err := config.LoadEnvFiles(); err != nil {
		slog.Warn("could not load .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logging.Setup(os.Stdout, cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"import_max_concurrent", cfg.Import.MaxConcurrent,
		"audit_sink", cfg.Audit.Sink,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := app.New(cfg)
	defer a.Close(context.Background())

	if err := a.Migrate(ctx); err != nil {
		return err
	}
	if u, err := url.Parse(cfg.Database.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}

	server := web.NewServer(cfg.Server, cfg.Import, web.Deps{
		Students:   a.Students,
		Imports:    a.Imports,
		Settings:   a.Settings,
		Programmes: a.Programmes,
		Health:     a.Session.Ping,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		core.RunAuditRetention(gctx, a.Audit, core.RetentionConfig{
			MaxAge:        cfg.Audit.Retention,
			CheckInterval: cfg.Audit.PurgeInterval,
		})
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Stop accepting uploads first, then let running imports finish.
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}

		if status := a.Imports.LimiterStatus(); status.Active > 0 {
			slog.Info("waiting for imports to complete", "active", status.Active)
			if err := a.Imports.WaitForDrain(shutdownCtx); err != nil {
				slog.Warn("imports did not complete in time", "error", err)
			} else {
				slog.Info("all imports completed")
			}
		}
		return nil
	})

	return g.Wait()
}
