package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/JonMunkholm/classmonitor/internal/core"
	"github.com/spf13/cobra"
)

type importOptions struct {
	dryRun bool
	strict bool
	quiet  bool
}

func (c *cli) newImportCmd() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import students from a CSV file (upsert by student ID)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}

			service := a.Students
			if opts.dryRun {
				service, err = dryRunService(cmd.Context(), a.Students)
				if err != nil {
					return withCode(exitDB, err)
				}
			}

			res := core.NewImporter(service).ImportFile(cmd.Context(), args[0])
			printImportResult(cmd.OutOrStdout(), res, opts)

			if res.SuccessCount == 0 && len(res.Failures) == 0 && res.FailureCount > 0 {
				return withCode(exitValidation, fmt.Errorf("import failed: %s", res.Message))
			}
			if opts.strict && res.FailureCount > 0 {
				return withCode(exitValidation, fmt.Errorf("%d row(s) rejected", res.FailureCount))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Validate against a copy of the current data without writing")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Exit non-zero when any row is rejected")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Print only the summary line")
	return cmd
}

// dryRunService returns a service over an in-memory snapshot of the current
// students, so a dry run reports the same adds and updates a real run would.
func dryRunService(ctx context.Context, live *core.Service) (*core.Service, error) {
	students, err := live.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	mem := core.NewMemStore()
	for _, st := range students {
		if err := mem.Add(ctx, st); err != nil {
			return nil, err
		}
	}
	return core.NewService(mem), nil
}

func printImportResult(w io.Writer, res core.ImportResult, opts importOptions) {
	if !opts.quiet {
		for _, f := range res.Failures {
			fmt.Fprintln(w, f.Error())
		}
		if len(res.Failures) == 0 && res.Message != core.ImportSuccessMessage {
			fmt.Fprintln(w, res.Message)
		}
	}

	prefix := ""
	if opts.dryRun {
		prefix = "[dry run] "
	}
	fmt.Fprintf(w, "%sSuccess: %d, Failed: %d (added %d, updated %d) in %s\n",
		prefix, res.SuccessCount, res.FailureCount, res.Added, res.Updated, res.Duration.Round(time.Millisecond))
}

