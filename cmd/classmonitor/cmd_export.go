package main

import (
	"fmt"
	"io"
	"os"

	"github.com/JonMunkholm/classmonitor/internal/core"
	"github.com/spf13/cobra"
)

func (c *cli) newExportCmd() *cobra.Command {
	var (
		set string
		out string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export students as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			exportSet, err := core.ParseExportSet(set)
			if err != nil {
				return withCode(exitUsage, err)
			}

			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			students, err := a.Students.FindAll(cmd.Context())
			if err != nil {
				return withCode(exitDB, err)
			}
			selected := core.NewReport(students, a.Settings.Thresholds(cmd.Context())).Select(exportSet)

			var w io.Writer = cmd.OutOrStdout()
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			if err := core.Export(w, selected); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			if out != "" && out != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "exported %d student(s) to %s\n", len(selected), out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&set, "set", string(core.ExportAll), "Students to export: all, top or at-risk")
	cmd.Flags().StringVarP(&out, "output", "o", "", "Output file (default stdout)")
	return cmd
}
