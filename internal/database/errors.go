package database

import (
	"errors"

	"github.com/JonMunkholm/classmonitor/internal/core"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// isUniqueViolation reports whether err is a PostgreSQL unique_violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// storageErr wraps a driver error for op. A nil err yields nil.
func storageErr(op string, err error) error {
	return core.NewStorageError(op, err)
}

// writeErr maps a write failure: unique violations become DuplicateKeyError
// for key, everything else a StorageError.
func writeErr(op, key string, err error) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return &core.DuplicateKeyError{ID: key}
	}
	return storageErr(op, err)
}
