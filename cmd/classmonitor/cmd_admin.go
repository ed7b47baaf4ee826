package main

import (
	"fmt"
	"time"

	"github.com/JonMunkholm/classmonitor/internal/admin"
	"github.com/JonMunkholm/classmonitor/internal/core"
	"github.com/spf13/cobra"
)

func (c *cli) newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			if err := a.Migrate(cmd.Context()); err != nil {
				return withCode(exitDB, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		},
	}
}

func (c *cli) newResetCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset [students|programmes|audit|settings]...",
		Short: "Delete data (all targets when none are named)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return withCode(exitUsage, fmt.Errorf("reset deletes data; pass --yes to confirm"))
			}

			targets := admin.Targets
			if len(args) > 0 {
				targets = make([]admin.Target, len(args))
				for i, a := range args {
					targets[i] = admin.Target(a)
				}
			}

			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			r := &admin.Resetter{Session: a.Session}
			if err := r.Reset(cmd.Context(), targets...); err != nil {
				return withCode(exitDB, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "reset %d target(s)\n", len(targets))
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the reset")
	return cmd
}

func (c *cli) newAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect or prune the audit log",
	}

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "Show the most recent audit entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			entries, err := a.Audit.Recent(cmd.Context(), limit)
			if err != nil {
				return withCode(exitDB, err)
			}
			out := cmd.OutOrStdout()
			for _, e := range entries {
				fmt.Fprintf(out, "%s  %s\n", e.CreatedAt.Local().Format(time.DateTime), e.Message)
			}
			return nil
		},
	}
	list.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum entries to show")

	var olderThan time.Duration
	purge := &cobra.Command{
		Use:   "purge",
		Short: "Delete audit entries older than a given age",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if olderThan <= 0 {
				return withCode(exitUsage, fmt.Errorf("--older-than must be positive"))
			}
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			n, err := core.PurgeAuditLog(cmd.Context(), a.Audit, olderThan, time.Now())
			if err != nil {
				return withCode(exitDB, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "purged %d audit entries\n", n)
			return nil
		},
	}
	purge.Flags().DurationVar(&olderThan, "older-than", 90*24*time.Hour, "Minimum age of entries to delete")

	cmd.AddCommand(list, purge)
	return cmd
}
