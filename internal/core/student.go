package core

import (
	"context"
	"strings"
)

// Student is the sole entity managed by the system.
type Student struct {
	StudentID    string  `json:"studentId"`
	FullName     string  `json:"fullName"`
	Programme    string  `json:"programme"`
	Level        int     `json:"level"`
	GPA          float64 `json:"gpa"`
	Email        string  `json:"email"`
	Phone        string  `json:"phone"`
	EnrolledDate string  `json:"enrolledDate"` // YYYY-MM-DD
	Status       string  `json:"status"`
}

// Status values accepted for Student.Status.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// GPA bounds. The scale is 0.0-5.0 inclusive; thresholds share the same range.
const (
	MinGPA = 0.0
	MaxGPA = 5.0
)

// DateLayout is the ISO-8601 calendar date layout used for EnrolledDate.
const DateLayout = "2006-01-02"

// AllowedLevels lists the academic levels a student may be enrolled at.
var AllowedLevels = []int{100, 200, 300, 400, 500, 600, 700}

// Normalize returns a copy with surrounding whitespace removed from every text field.
func (s Student) Normalize() Student {
	s.StudentID = strings.TrimSpace(s.StudentID)
	s.FullName = strings.TrimSpace(s.FullName)
	s.Programme = strings.TrimSpace(s.Programme)
	s.Email = strings.TrimSpace(s.Email)
	s.Phone = strings.TrimSpace(s.Phone)
	s.EnrolledDate = strings.TrimSpace(s.EnrolledDate)
	s.Status = strings.TrimSpace(s.Status)
	return s
}

// StudentStore is the keyed persistence contract for students.
//
// Implementations must report backing-store failures as *StorageError and a
// primary key collision on Add as *DuplicateKeyError.
type StudentStore interface {
	ExistsByID(ctx context.Context, id string) (bool, error)
	Add(ctx context.Context, s Student) error
	// Update overwrites the stored record and reports whether one existed.
	// It is a no-op when the id is absent.
	Update(ctx context.Context, s Student) (bool, error)
	// Delete is idempotent.
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Student, bool, error)
	// FindAll returns every student ordered by full name ascending.
	FindAll(ctx context.Context) ([]Student, error)
	// Search matches id as a case-sensitive substring or full name as a
	// case-insensitive substring, ordered by full name.
	Search(ctx context.Context, query string) ([]Student, error)
}

// ProgrammeStore manages the optional list of programme names offered to UIs.
type ProgrammeStore interface {
	ListProgrammes(ctx context.Context) ([]string, error)
	AddProgramme(ctx context.Context, name string) error
	RenameProgramme(ctx context.Context, oldName, newName string) error
	DeleteProgramme(ctx context.Context, name string) error
}
