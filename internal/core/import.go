package core

// import.go implements the bulk CSV import pipeline.
//
// The pipeline streams the source line by line:
//  1. The first line is the header; its delimiter (comma or semicolon) is
//     detected and its column names are normalised into an index map.
//  2. Each following non-blank line is split, parsed and validated. A row
//     that fails is counted and logged, and the import moves on.
//  3. Valid rows are upserted through the Service, in file order.
//
// Import never returns an error: whole-file and row failures are reported in
// the ImportResult.

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/classmonitor/internal/csv"
)

// Column names of the CSV wire format.
const (
	ColStudentID    = "studentId"
	ColFullName     = "fullName"
	ColProgramme    = "programme"
	ColLevel        = "level"
	ColGPA          = "gpa"
	ColEmail        = "email"
	ColPhone        = "phone"
	ColDate         = "date"
	ColEnrolledDate = "enrolledDate"
	ColStatus       = "status"
)

// RequiredColumns must be present in every import header.
var RequiredColumns = []string{ColStudentID, ColFullName, ColProgramme, ColLevel, ColGPA}

// dateColumns are accepted spellings of the optional date column. Export
// writes enrolledDate, so both round-trip.
var dateColumns = []string{ColDate, ColEnrolledDate, "dateAdded"}

var errMissingColumns = errors.New("Row has missing columns.")

// ImportSuccessMessage is reported when every row was accepted.
const ImportSuccessMessage = "Import completed successfully."

// ImportResult summarises one import run.
type ImportResult struct {
	ID           string           `json:"id,omitempty"`
	FileName     string           `json:"fileName,omitempty"`
	SuccessCount int              `json:"successCount"`
	FailureCount int              `json:"failureCount"`
	Added        int              `json:"added"`
	Updated      int              `json:"updated"`
	Failures     []ImportRowError `json:"failures,omitempty"`
	Message      string           `json:"message"`
	Duration     time.Duration    `json:"duration"`
}

func (r ImportResult) String() string {
	return fmt.Sprintf("%s (Success: %d, Failed: %d)", r.Message, r.SuccessCount, r.FailureCount)
}

// ImportProgress is reported after every processed row.
type ImportProgress struct {
	Row       int   `json:"row"`
	Succeeded int   `json:"succeeded"`
	Failed    int   `json:"failed"`
	BytesRead int64 `json:"bytesRead"`
}

// ProgressFunc receives import progress updates.
type ProgressFunc func(ImportProgress)

// Importer runs CSV imports against a Service.
type Importer struct {
	service  *Service
	now      func() time.Time
	progress ProgressFunc
}

// ImporterOption configures an Importer.
type ImporterOption func(*Importer)

// WithClock sets the clock used for the default enrolled date.
func WithClock(now func() time.Time) ImporterOption {
	return func(im *Importer) { im.now = now }
}

// WithProgress registers a progress callback.
func WithProgress(fn ProgressFunc) ImporterOption {
	return func(im *Importer) { im.progress = fn }
}

// NewImporter creates an Importer that writes through service.
func NewImporter(service *Service, opts ...ImporterOption) *Importer {
	im := &Importer{service: service, now: time.Now}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// ImportFile opens path and imports it. A missing or unreadable file yields
// a zero-success result.
func (im *Importer) ImportFile(ctx context.Context, path string) ImportResult {
	f, err := os.Open(path)
	if err != nil {
		return fileFailure(fmt.Sprintf("Failed to read file: %v", err))
	}
	defer f.Close()

	res := im.Import(ctx, f)
	res.FileName = path
	return res
}

// Import reads a CSV stream and upserts every valid row. Rows are processed
// strictly in order because later rows may overwrite ids created earlier in
// the same file.
func (im *Importer) Import(ctx context.Context, r io.Reader) ImportResult {
	start := time.Now()
	lr := csv.NewLineReader(r)

	header, ok := lr.Next()
	if !ok {
		if err := lr.Err(); err != nil {
			return fileFailure(fmt.Sprintf("Failed to read file: %v", err))
		}
		return fileFailure("CSV file is empty.")
	}
	if csv.IsBlank(header) {
		return fileFailure("CSV file is empty.")
	}

	delim := csv.DetectDelimiter(header)
	idx := csv.MakeHeaderIndex(csv.SplitLine(header, delim))

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := idx.Lookup(col); !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fileFailure(fmt.Sprintf("Invalid CSV header. Missing required column(s): %s", strings.Join(missing, ", ")))
	}

	res := ImportResult{}
	for {
		line, ok := lr.Next()
		if !ok {
			break
		}
		if csv.IsBlank(line) {
			continue
		}

		row := lr.Line() - 1
		added, err := im.importRow(ctx, line, delim, idx)
		if err != nil {
			res.FailureCount++
			res.Failures = append(res.Failures, ImportRowError{Row: row, Message: err.Error(), Data: line})
		} else {
			res.SuccessCount++
			if added {
				res.Added++
			} else {
				res.Updated++
			}
		}

		if im.progress != nil {
			im.progress(ImportProgress{
				Row:       row,
				Succeeded: res.SuccessCount,
				Failed:    res.FailureCount,
				BytesRead: lr.BytesRead(),
			})
		}
	}

	if err := lr.Err(); err != nil {
		res.FailureCount++
		res.Message = summarizeFailures(res.Failures) + fmt.Sprintf("Failed to read file: %v", err)
	} else {
		res.Message = im.summarize(res.Failures)
	}
	res.Duration = time.Since(start)

	slog.Info("import finished",
		"succeeded", res.SuccessCount,
		"failed", res.FailureCount,
		"added", res.Added,
		"updated", res.Updated,
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res
}

// importRow parses, validates and upserts one data line. added reports
// whether the row created a new student.
func (im *Importer) importRow(ctx context.Context, line string, delim rune, idx csv.HeaderIndex) (added bool, err error) {
	st, err := im.parseRow(csv.SplitLine(line, delim), idx)
	if err != nil {
		return false, err
	}
	st = st.Normalize()

	if err := im.service.Validator().ValidateFields(st); err != nil {
		return false, err
	}

	exists, err := im.service.Exists(ctx, st.StudentID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, im.service.Update(ctx, st)
	}
	return true, im.service.Add(ctx, st)
}

// parseRow maps split fields onto a candidate Student.
func (im *Importer) parseRow(fields []string, idx csv.HeaderIndex) (Student, error) {
	var st Student

	required := make(map[string]string, len(RequiredColumns))
	for _, col := range RequiredColumns {
		v, ok := idx.Field(fields, col)
		if !ok {
			return st, errMissingColumns
		}
		required[col] = v
	}

	level, err := strconv.Atoi(required[ColLevel])
	if err != nil {
		return st, fmt.Errorf("Level must be a whole number, got %q.", required[ColLevel])
	}
	gpa, err := strconv.ParseFloat(required[ColGPA], 64)
	if err != nil {
		return st, fmt.Errorf("GPA must be a number, got %q.", required[ColGPA])
	}

	st = Student{
		StudentID: required[ColStudentID],
		FullName:  required[ColFullName],
		Programme: required[ColProgramme],
		Level:     level,
		GPA:       gpa,
		Status:    StatusActive,
	}

	st.Email, _ = idx.Field(fields, ColEmail)
	st.Phone, _ = idx.Field(fields, ColPhone)

	if _, present := idx.Lookup(dateColumns...); present {
		st.EnrolledDate, _ = idx.Field(fields, dateColumns...)
	} else {
		st.EnrolledDate = im.now().Format(DateLayout)
	}

	if v, ok := idx.Field(fields, ColStatus); ok && v != "" {
		st.Status = v
	}

	return st, nil
}

// summarize renders the per-row log, or the success message when empty.
func (im *Importer) summarize(failures []ImportRowError) string {
	if len(failures) == 0 {
		return ImportSuccessMessage
	}
	return summarizeFailures(failures)
}

// summarizeFailures renders one log line per rejected row.
func summarizeFailures(failures []ImportRowError) string {
	var b strings.Builder
	for _, f := range failures {
		b.WriteString(f.Error())
		b.WriteByte('\n')
	}
	return b.String()
}

// fileFailure is the result of an import that could not start.
func fileFailure(msg string) ImportResult {
	return ImportResult{FailureCount: 1, Message: msg}
}
