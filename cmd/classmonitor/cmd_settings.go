package main

import (
	"fmt"
	"strconv"

	"github.com/JonMunkholm/classmonitor/internal/core"
	"github.com/spf13/cobra"
)

func (c *cli) newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Read and change GPA thresholds",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get",
			Short: "Print every threshold",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := c.open(cmd)
				if err != nil {
					return err
				}
				t := a.Settings.Thresholds(cmd.Context())
				for _, name := range core.ThresholdNames {
					v, _ := t.Get(name)
					fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", name, core.FormatGPA(v))
				}
				return nil
			},
		},
		&cobra.Command{
			Use:       "set NAME VALUE",
			Short:     "Set a threshold (at_risk, average, top)",
			Args:      cobra.ExactArgs(2),
			ValidArgs: []string{string(core.ThresholdAtRisk), string(core.ThresholdAverage), string(core.ThresholdTop)},
			RunE: func(cmd *cobra.Command, args []string) error {
				value, err := strconv.ParseFloat(args[1], 64)
				if err != nil {
					return withCode(exitUsage, fmt.Errorf("threshold value must be a number, got %q", args[1]))
				}

				a, err := c.open(cmd)
				if err != nil {
					return err
				}
				if err := a.Settings.Set(cmd.Context(), core.ThresholdName(args[0]), value); err != nil {
					if core.IsStorage(err) {
						return withCode(exitDB, err)
					}
					return withCode(exitValidation, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", args[0], core.FormatGPA(value))
				return nil
			},
		},
	)
	return cmd
}

func (c *cli) newProgrammesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "programmes",
		Short: "Manage the programme list",
	}

	run := func(fn func(cmd *cobra.Command, p *core.Programmes, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			if err := fn(cmd, a.Programmes, args); err != nil {
				if core.IsValidation(err) || core.IsDuplicateKey(err) {
					return withCode(exitValidation, err)
				}
				return withCode(exitDB, err)
			}
			return nil
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List programmes",
			Args:  cobra.NoArgs,
			RunE: run(func(cmd *cobra.Command, p *core.Programmes, args []string) error {
				names, err := p.List(cmd.Context())
				for _, n := range names {
					fmt.Fprintln(cmd.OutOrStdout(), n)
				}
				return err
			}),
		},
		&cobra.Command{
			Use:   "add NAME",
			Short: "Add a programme",
			Args:  cobra.ExactArgs(1),
			RunE: run(func(cmd *cobra.Command, p *core.Programmes, args []string) error {
				return p.Add(cmd.Context(), args[0])
			}),
		},
		&cobra.Command{
			Use:   "rename OLD NEW",
			Short: "Rename a programme",
			Args:  cobra.ExactArgs(2),
			RunE: run(func(cmd *cobra.Command, p *core.Programmes, args []string) error {
				return p.Rename(cmd.Context(), args[0], args[1])
			}),
		},
		&cobra.Command{
			Use:   "delete NAME",
			Short: "Delete a programme",
			Args:  cobra.ExactArgs(1),
			RunE: run(func(cmd *cobra.Command, p *core.Programmes, args []string) error {
				return p.Delete(cmd.Context(), args[0])
			}),
		},
	)
	return cmd
}
