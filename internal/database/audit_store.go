package database

import (
	"context"
	"time"

	"github.com/JonMunkholm/classmonitor/internal/core"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// AuditStore appends audit messages to the audit_log table.
type AuditStore struct {
	session *Session
	now     func() time.Time
}

var (
	_ core.AuditSink   = (*AuditStore)(nil)
	_ core.AuditPurger = (*AuditStore)(nil)
)

func NewAuditStore(session *Session) *AuditStore {
	return &AuditStore{session: session, now: time.Now}
}

// AuditEntry is a stored audit message.
type AuditEntry struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Log implements core.AuditSink.
func (a *AuditStore) Log(ctx context.Context, message string) error {
	params := InsertAuditEntryParams{
		ID:        pgtype.UUID{Bytes: uuid.New(), Valid: true},
		Message:   message,
		CreatedAt: pgtype.Timestamptz{Time: a.now().UTC(), Valid: true},
	}
	err := a.session.Do(ctx, func(db DBTX) error {
		return New(db).InsertAuditEntry(ctx, params)
	})
	return storageErr("audit_log", err)
}

// Recent returns up to limit entries, newest first.
func (a *AuditStore) Recent(ctx context.Context, limit int) ([]AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []AuditEntryRow
	err := a.session.Do(ctx, func(db DBTX) error {
		var err error
		rows, err = New(db).ListAuditEntries(ctx, int32(limit))
		return err
	})
	if err != nil {
		return nil, storageErr("audit_recent", err)
	}

	out := make([]AuditEntry, len(rows))
	for i, r := range rows {
		out[i] = AuditEntry{
			ID:        uuid.UUID(r.ID.Bytes).String(),
			Message:   r.Message,
			CreatedAt: r.CreatedAt.Time,
		}
	}
	return out, nil
}

// PurgeBefore deletes entries created before cutoff and reports how many went.
func (a *AuditStore) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var n int64
	err := a.session.Do(ctx, func(db DBTX) error {
		var err error
		n, err = New(db).DeleteAuditEntriesBefore(ctx, pgtype.Timestamptz{Time: cutoff.UTC(), Valid: true})
		return err
	})
	if err != nil {
		return 0, storageErr("audit_purge", err)
	}
	return n, nil
}
