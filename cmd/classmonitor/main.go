// Command classmonitor is the command-line interface to the student
// database: imports, exports, lookups, thresholds and reports.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/classmonitor/internal/app"
	"github.com/JonMunkholm/classmonitor/internal/config"
	"github.com/JonMunkholm/classmonitor/internal/logging"
	"github.com/spf13/cobra"
)

const (
	exitOK         = 0
	exitError      = 1
	exitUsage      = 2
	exitValidation = 3
	exitDB         = 4
)

// codedError carries the process exit code for an error.
type codedError struct {
	code int
	err  error
}

func (e *codedError) Error() string { return e.err.Error() }
func (e *codedError) Unwrap() error { return e.err }

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &codedError{code: code, err: err}
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ce *codedError
	if errors.As(err, &ce) {
		return ce.code
	}
	return exitError
}

// cli carries state shared by subcommands.
type cli struct {
	envFile string
	app     *app.App
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	root, c := newRootCmd()
	err := root.ExecuteContext(ctx)
	stop()
	c.close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	os.Exit(exitCode(err))
}

func newRootCmd() (*cobra.Command, *cli) {
	c := &cli{}

	root := &cobra.Command{
		Use:           "classmonitor",
		Short:         "Manage student records",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&c.envFile, "env-file", ".env", "Environment file to load before reading configuration")

	root.AddCommand(
		c.newMigrateCmd(),
		c.newResetCmd(),
		c.newImportCmd(),
		c.newExportCmd(),
		c.newStudentsCmd(),
		c.newSettingsCmd(),
		c.newProgrammesCmd(),
		c.newReportCmd(),
		c.newAuditCmd(),
	)
	return root, c
}

// open loads configuration and wires the application. Logs go to stderr so
// stdout can carry exported data.
func (c *cli) open(cmd *cobra.Command) (*app.App, error) {
	if c.app != nil {
		return c.app, nil
	}
	if err := config.LoadEnvFiles(c.envFile); err != nil {
		return nil, withCode(exitUsage, err)
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, withCode(exitUsage, err)
	}
	logging.Setup(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)

	c.app = app.New(cfg)
	return c.app, nil
}

func (c *cli) close() {
	if c.app != nil {
		c.app.Close(context.Background())
	}
}
