package core

import (
	"errors"
	"fmt"
)

// ErrStudentNotFound is returned by callers that require an existing record.
var ErrStudentNotFound = errors.New("student not found")

// ValidationError reports the first business rule a candidate student violated.
// Message is user-facing and names the specific rule.
type ValidationError struct {
	Field   string // Field the rule applies to
	Message string // Human-readable rule violation
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}

// DuplicateKeyError is returned when a create collides with an existing id.
type DuplicateKeyError struct {
	ID string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key: %q already exists", e.ID)
}

// StorageError wraps an I/O or backing-store failure.
type StorageError struct {
	Op  string // Store operation, e.g. "add", "find_all"
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError wraps err as a StorageError for op. A nil err yields nil.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// ImportRowError describes a single rejected CSV row. It is only ever recorded
// in an ImportResult and never returned from the import pipeline.
type ImportRowError struct {
	Row     int    `json:"row"`     // 1-based data row number (header excluded)
	Message string `json:"message"` // Reason the row was rejected
	Data    string `json:"data"`    // Raw line as read from the file
}

func (e ImportRowError) Error() string {
	return fmt.Sprintf("Row %d: %s | Data: %s", e.Row, e.Message, e.Data)
}

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsDuplicateKey reports whether err is or wraps a *DuplicateKeyError.
func IsDuplicateKey(err error) bool {
	var de *DuplicateKeyError
	return errors.As(err, &de)
}

// IsStorage reports whether err is or wraps a *StorageError.
func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
