package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/JonMunkholm/classmonitor/internal/core"
	"github.com/spf13/cobra"
)

func (c *cli) newStudentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "students",
		Short: "List, search, show and delete students",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List every student ordered by name",
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
				printStudents(cmd.OutOrStdout(), students)
				return nil
			},
		},
		&cobra.Command{
			Use:   "search QUERY",
			Short: "Find students by ID or name",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := c.open(cmd)
				if err != nil {
					return err
				}
				students, err := a.Students.Search(cmd.Context(), args[0])
				if err != nil {
					return withCode(exitDB, err)
				}
				printStudents(cmd.OutOrStdout(), students)
				return nil
			},
		},
		&cobra.Command{
			Use:   "show ID",
			Short: "Show one student",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := c.open(cmd)
				if err != nil {
					return err
				}
				st, ok, err := a.Students.FindByID(cmd.Context(), args[0])
				if err != nil {
					return withCode(exitDB, err)
				}
				if !ok {
					return withCode(exitValidation, fmt.Errorf("%w: %s", core.ErrStudentNotFound, args[0]))
				}
				printStudents(cmd.OutOrStdout(), []core.Student{*st})
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete ID",
			Short: "Delete a student (no error if absent)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := c.open(cmd)
				if err != nil {
					return err
				}
				if err := a.Students.Delete(cmd.Context(), args[0]); err != nil {
					if core.IsValidation(err) {
						return withCode(exitValidation, err)
					}
					return withCode(exitDB, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return nil
			},
		},
	)
	return cmd
}

func printStudents(w io.Writer, students []core.Student) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPROGRAMME\tLEVEL\tGPA\tSTATUS")
	for _, s := range students {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			s.StudentID, s.FullName, s.Programme, s.Level, core.FormatGPA(s.GPA), s.Status)
	}
	tw.Flush()
	fmt.Fprintf(w, "%d student(s)\n", len(students))
}
