package core

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Band classifies a GPA against the configured thresholds.
type Band string

const (
	BandAtRisk       Band = "at_risk"
	BandBelowAverage Band = "below_average"
	BandAverage      Band = "average"
	BandTop          Band = "top"
)

// DefaultTopPerformersLimit caps TopPerformers when no limit is given.
const DefaultTopPerformersLimit = 10

// Report computes threshold-based views over a snapshot of students.
type Report struct {
	students   []Student
	thresholds Thresholds
}

// NewReport creates a Report over students using thresholds.
func NewReport(students []Student, thresholds Thresholds) *Report {
	return &Report{students: students, thresholds: thresholds}
}

// Band returns the band a GPA falls into.
func (r *Report) Band(gpa float64) Band {
	switch {
	case gpa < r.thresholds.AtRisk:
		return BandAtRisk
	case gpa >= r.thresholds.Top:
		return BandTop
	case gpa >= r.thresholds.Average:
		return BandAverage
	default:
		return BandBelowAverage
	}
}

// BandCounts counts students per band. Every band is present in the result.
func (r *Report) BandCounts() map[Band]int {
	counts := map[Band]int{BandAtRisk: 0, BandBelowAverage: 0, BandAverage: 0, BandTop: 0}
	for _, s := range r.students {
		counts[r.Band(s.GPA)]++
	}
	return counts
}

// AtRisk returns students with a GPA below the at-risk threshold, lowest first.
func (r *Report) AtRisk() []Student {
	out := r.filter(func(s Student) bool { return s.GPA < r.thresholds.AtRisk })
	sort.SliceStable(out, func(i, j int) bool { return out[i].GPA < out[j].GPA })
	return out
}

// Top returns students at or above the top threshold.
func (r *Report) Top() []Student {
	return r.filter(func(s Student) bool { return s.GPA >= r.thresholds.Top })
}

// TopPerformers returns the highest GPAs, optionally restricted to a
// programme and level (empty programme or zero level means any).
func (r *Report) TopPerformers(programme string, level, limit int) []Student {
	if limit <= 0 {
		limit = DefaultTopPerformersLimit
	}
	out := r.filter(func(s Student) bool {
		return (programme == "" || s.Programme == programme) && (level == 0 || s.Level == level)
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].GPA > out[j].GPA })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// ProgrammeSummary counts students per programme.
func (r *Report) ProgrammeSummary() map[string]int {
	out := make(map[string]int)
	for _, s := range r.students {
		out[s.Programme]++
	}
	return out
}

// Programmes returns the distinct programmes in sorted order.
func (r *Report) Programmes() []string {
	summary := r.ProgrammeSummary()
	out := make([]string, 0, len(summary))
	for p := range summary {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// GPADistribution counts students per whole GPA point (floor of the GPA).
func (r *Report) GPADistribution() map[int]int {
	out := make(map[int]int)
	for _, s := range r.students {
		out[int(math.Floor(s.GPA))]++
	}
	return out
}

func (r *Report) filter(keep func(Student) bool) []Student {
	out := make([]Student, 0)
	for _, s := range r.students {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}

// ExportSet selects which students an export contains.
type ExportSet string

const (
	ExportAll    ExportSet = "all"
	ExportTop    ExportSet = "top"
	ExportAtRisk ExportSet = "at-risk"
)

// Select returns the students belonging to set. Unknown sets select all.
func (r *Report) Select(set ExportSet) []Student {
	switch set {
	case ExportTop:
		return r.Top()
	case ExportAtRisk:
		return r.filter(func(s Student) bool { return s.GPA < r.thresholds.AtRisk })
	default:
		return r.students
	}
}

// ErrUnknownExportSet is returned by ParseExportSet for an unrecognised name.
var ErrUnknownExportSet = errors.New("unknown export set")

// ParseExportSet parses an export set name. An empty name means all.
func ParseExportSet(name string) (ExportSet, error) {
	switch set := ExportSet(strings.ToLower(strings.TrimSpace(name))); set {
	case "":
		return ExportAll, nil
	case ExportAll, ExportTop, ExportAtRisk:
		return set, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownExportSet, name)
	}
}
