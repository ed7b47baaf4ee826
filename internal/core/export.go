package core

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/JonMunkholm/classmonitor/internal/csv"
)

// ExportColumns is the fixed header written by Export.
var ExportColumns = []string{
	ColStudentID, ColFullName, ColProgramme, ColLevel, ColGPA,
	ColEmail, ColPhone, ColEnrolledDate, ColStatus,
}

// Export writes students as comma-delimited CSV with a header row. Records
// are written as stored; no validation is applied.
func Export(w io.Writer, students []Student) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(csv.JoinRow(ExportColumns) + "\n"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, s := range students {
		row := []string{
			s.StudentID,
			s.FullName,
			s.Programme,
			strconv.Itoa(s.Level),
			FormatGPA(s.GPA),
			s.Email,
			s.Phone,
			s.EnrolledDate,
			s.Status,
		}
		if _, err := bw.WriteString(csv.JoinRow(row) + "\n"); err != nil {
			return fmt.Errorf("write row %s: %w", s.StudentID, err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush export: %w", err)
	}
	return nil
}

// FormatGPA renders a GPA with the fewest digits that round-trip.
func FormatGPA(g float64) string {
	return strconv.FormatFloat(g, 'f', -1, 64)
}
