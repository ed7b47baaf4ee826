package core

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "validation message surfaces verbatim",
			err:         newValidationError("gpa", "GPA must be between 0.0 and 5.0."),
			wantCode:    "VAL001",
			wantMessage: "GPA must be between 0.0 and 5.0.",
		},
		{
			name:        "wrapped validation error",
			err:         fmt.Errorf("add: %w", newValidationError("studentId", "Student ID is required.")),
			wantCode:    "VAL001",
			wantMessage: "Student ID is required.",
		},
		{
			name:        "duplicate key names the id",
			err:         &DuplicateKeyError{ID: "UMAT001"},
			wantCode:    "DB001",
			wantMessage: `A record with ID "UMAT001" already exists`,
		},
		{
			name:        "unknown threshold",
			err:         fmt.Errorf("%w: %q", ErrUnknownThreshold, "bogus"),
			wantCode:    "VAL002",
			wantMessage: "Unknown threshold",
		},
		{
			name:        "unknown export set",
			err:         fmt.Errorf("%w: %q", ErrUnknownExportSet, "honours"),
			wantCode:    "VAL003",
			wantMessage: "Unknown export set",
		},
		{
			name:        "student not found",
			err:         ErrStudentNotFound,
			wantCode:    "NF001",
			wantMessage: "Student not found",
		},
		{
			name:        "too many imports",
			err:         ErrTooManyImports,
			wantCode:    "IMP001",
			wantMessage: "Another import is running",
		},
		{
			name:        "import not found",
			err:         ErrImportNotFound,
			wantCode:    "IMP002",
			wantMessage: "Import not found",
		},
		{
			name:        "connection refused inside storage error",
			err:         NewStorageError("find_all", errors.New("dial tcp 127.0.0.1:5432: connection refused")),
			wantCode:    "DB003",
			wantMessage: "Unable to connect to database",
		},
		{
			name:        "timeout maps correctly",
			err:         errors.New("context deadline exceeded"),
			wantCode:    "DB004",
			wantMessage: "Operation timed out",
		},
		{
			name:        "file too large maps correctly",
			err:         errors.New("file too large: 30MB exceeds limit"),
			wantCode:    "FILE001",
			wantMessage: "File exceeds maximum size limit",
		},
		{
			name:        "other storage failure",
			err:         NewStorageError("add", errors.New("disk full")),
			wantCode:    "DB002",
			wantMessage: "The student store could not complete the operation",
		},
		{
			name:        "unknown error uses default",
			err:         errors.New("something completely unexpected"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError().Code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError().Message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}

	got := FormatUserError(ErrTooManyImports)
	if !strings.Contains(got, "(Code: IMP001)") {
		t.Errorf("FormatUserError() = %q, want code IMP001", got)
	}
}
