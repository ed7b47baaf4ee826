package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// AuditAction names a mutating operation recorded in the audit trail.
type AuditAction string

const (
	ActionAdd    AuditAction = "ADD"
	ActionUpdate AuditAction = "UPDATE"
	ActionDelete AuditAction = "DELETE"
	ActionImport AuditAction = "IMPORT"
)

// DefaultAuditTimeout bounds a single asynchronous audit write.
var DefaultAuditTimeout = 5 * time.Second

// AuditSink receives audit messages. Implementations are best-effort; any
// error they return is logged and discarded by the caller.
type AuditSink interface {
	Log(ctx context.Context, message string) error
}

// AuditMessage formats the audit line for an operation on a student id.
// Records themselves are never written to the audit trail.
func AuditMessage(action AuditAction, studentID string) string {
	return fmt.Sprintf("%s student_id=%s", action, studentID)
}

// LogAuditSink writes audit messages to the structured application log.
type LogAuditSink struct {
	Logger *slog.Logger // nil means slog.Default()
}

func (l LogAuditSink) Log(ctx context.Context, message string) error {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "audit", "message", message)
	return nil
}

// MultiAuditSink fans a message out to every sink and joins their errors.
type MultiAuditSink []AuditSink

func (m MultiAuditSink) Log(ctx context.Context, message string) error {
	var errs []error
	for _, sink := range m {
		if sink == nil {
			continue
		}
		if err := sink.Log(ctx, message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// auditor dispatches audit messages without blocking the caller. pending
// counts writes still in flight so owners can drain them before closing
// the sink.
type auditor struct {
	sink    AuditSink
	timeout time.Duration
	pending *sync.WaitGroup
}

// emit sends message to the sink on its own goroutine. The write is detached
// from ctx cancellation, bounded by the audit timeout, and panics or errors
// are logged and swallowed. The returned channel is closed when the write
// has finished.
func (a auditor) emit(ctx context.Context, message string) <-chan struct{} {
	done := make(chan struct{})
	if a.sink == nil {
		close(done)
		return done
	}

	if actor := ActorFromContext(ctx); actor != "" {
		message += " actor=" + actor
	}

	timeout := a.timeout
	if timeout <= 0 {
		timeout = DefaultAuditTimeout
	}
	auditCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)

	if a.pending != nil {
		a.pending.Add(1)
	}
	go func() {
		if a.pending != nil {
			defer a.pending.Done()
		}
		defer close(done)
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				slog.Warn("audit sink panicked", "message", message, "panic", r)
			}
		}()

		if err := a.sink.Log(auditCtx, message); err != nil {
			slog.Warn("audit write failed", "message", message, "error", err)
		}
	}()

	return done
}

// flush blocks until every write started by emit has finished or ctx is done.
func (a auditor) flush(ctx context.Context) error {
	if a.pending == nil {
		return nil
	}
	done := make(chan struct{})
	go func() {
		a.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
