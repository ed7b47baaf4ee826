// Package core provides the business logic for student record management.
//
// This package is the data-integrity layer of the application: every write
// passes through it, independent of any UI or transport layer. It can be
// used by web handlers, the CLI, or tests without modification.
//
// # Architecture
//
//   - Student: the sole entity, keyed by StudentID.
//   - Validator: ordered business rules; the first failure is returned as a
//     *ValidationError. Only the uniqueness rule consults the store.
//   - StudentStore: keyed persistence contract with upsert-friendly
//     semantics. internal/database provides the PostgreSQL adapter and
//     MemStore is the in-memory fake.
//   - Service: the only entry point for mutations. Validate, persist, then
//     audit asynchronously.
//   - Importer / Export: the CSV pipeline. Import reports per-row failures
//     instead of aborting.
//   - Settings / Report: GPA thresholds and the bands computed from them.
//
// # Error Handling
//
// Errors are typed so callers can tell them apart:
//
//   - *ValidationError: a rule violation, surfaced verbatim
//   - *DuplicateKeyError: a create collided with an existing id
//   - *StorageError: the backing store failed
//   - ImportRowError: a rejected CSV row, only ever found in an ImportResult
//
// [MapError] turns any of them into a coded user message.
//
// # Audit Logging
//
// Add, Update, Delete and completed imports emit one audit line naming the
// operation and the affected id. Audit writes run on their own goroutine and
// their failures are logged and discarded.
package core
