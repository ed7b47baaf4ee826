package main

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/JonMunkholm/classmonitor/internal/core"
	"github.com/spf13/cobra"
)

func (c *cli) newReportCmd() *cobra.Command {
	var (
		programme string
		level     int
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarise students by GPA band, programme and distribution",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			students, err := a.Students.FindAll(cmd.Context())
			if err != nil {
				return withCode(exitDB, err)
			}
			thresholds := a.Settings.Thresholds(cmd.Context())
			report := core.NewReport(students, thresholds)

			printReport(cmd.OutOrStdout(), report, thresholds, len(students), programme, level, limit)
			return nil
		},
	}

	cmd.Flags().StringVar(&programme, "programme", "", "Restrict top performers to a programme")
	cmd.Flags().IntVar(&level, "level", 0, "Restrict top performers to a level")
	cmd.Flags().IntVar(&limit, "limit", core.DefaultTopPerformersLimit, "Number of top performers to list")
	return cmd
}

func printReport(w io.Writer, r *core.Report, t core.Thresholds, total int, programme string, level, limit int) {
	fmt.Fprintf(w, "Students: %d\n", total)
	fmt.Fprintf(w, "Thresholds: at_risk=%s average=%s top=%s\n\n",
		core.FormatGPA(t.AtRisk), core.FormatGPA(t.Average), core.FormatGPA(t.Top))

	bands := r.BandCounts()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "BAND\tCOUNT")
	for _, b := range []core.Band{core.BandAtRisk, core.BandBelowAverage, core.BandAverage, core.BandTop} {
		fmt.Fprintf(tw, "%s\t%d\n", b, bands[b])
	}
	tw.Flush()

	fmt.Fprintln(w)
	summary := r.ProgrammeSummary()
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PROGRAMME\tCOUNT")
	for _, p := range r.Programmes() {
		fmt.Fprintf(tw, "%s\t%d\n", p, summary[p])
	}
	tw.Flush()

	fmt.Fprintln(w)
	dist := r.GPADistribution()
	buckets := make([]int, 0, len(dist))
	for k := range dist {
		buckets = append(buckets, k)
	}
	sort.Ints(buckets)
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "GPA\tCOUNT")
	for _, k := range buckets {
		fmt.Fprintf(tw, "%d.x\t%d\n", k, dist[k])
	}
	tw.Flush()

	fmt.Fprintln(w, "\nAt risk:")
	printStudents(w, r.AtRisk())

	fmt.Fprintln(w, "\nTop performers:")
	printStudents(w, r.TopPerformers(programme, level, limit))
}
