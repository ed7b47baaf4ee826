// Package database implements the PostgreSQL adapters for the core store
// interfaces on top of pgx.
//
// All adapters share one Session: a single connection that is opened on
// first use, reused across calls, and transparently reopened if it was
// closed underneath. Callers borrow the connection through Session.Do, which
// serialises access and always releases it.
package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrSessionClosed is returned by Do after Close.
var ErrSessionClosed = errors.New("database: session is closed")

// DefaultConnectTimeout bounds opening the connection.
const DefaultConnectTimeout = 10 * time.Second

// DBTX is the subset of *pgx.Conn the queries use.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ConnectFunc opens a new connection.
type ConnectFunc func(ctx context.Context, dsn string) (*pgx.Conn, error)

// Session owns the single lazily opened connection.
type Session struct {
	dsn            string
	connectTimeout time.Duration
	connect        ConnectFunc
	onOpen         func(ctx context.Context, q DBTX) error

	mu     sync.Mutex
	conn   *pgx.Conn
	closed bool
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithConnectTimeout bounds each connection attempt.
func WithConnectTimeout(d time.Duration) SessionOption {
	return func(s *Session) { s.connectTimeout = d }
}

// WithConnectFunc replaces pgx.Connect.
func WithConnectFunc(fn ConnectFunc) SessionOption {
	return func(s *Session) { s.connect = fn }
}

// WithOnOpen runs fn every time a connection is (re)opened. It is used to
// apply the idempotent schema migrations.
func WithOnOpen(fn func(ctx context.Context, q DBTX) error) SessionOption {
	return func(s *Session) { s.onOpen = fn }
}

// NewSession creates a Session for dsn. No connection is made until the
// first call to Do.
func NewSession(dsn string, opts ...SessionOption) *Session {
	s := &Session{
		dsn:            dsn,
		connectTimeout: DefaultConnectTimeout,
		connect:        pgx.Connect,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Do runs fn with exclusive use of the connection, opening or reopening it
// first if needed.
func (s *Session) Do(ctx context.Context, fn func(q DBTX) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conn, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	return fn(conn)
}

// acquire returns a live connection. Caller holds s.mu.
func (s *Session) acquire(ctx context.Context) (*pgx.Conn, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	if s.conn != nil && !s.conn.IsClosed() {
		return s.conn, nil
	}

	reopen := s.conn != nil
	connectCtx, cancel := context.WithTimeout(ctx, s.connectTimeout)
	defer cancel()

	conn, err := s.connect(connectCtx, s.dsn)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	if s.onOpen != nil {
		if err := s.onOpen(ctx, conn); err != nil {
			conn.Close(context.WithoutCancel(ctx))
			return nil, fmt.Errorf("initialize connection: %w", err)
		}
	}

	s.conn = conn
	slog.Debug("database session opened", "reopen", reopen)
	return conn, nil
}

// Ping checks that the database is reachable.
func (s *Session) Ping(ctx context.Context) error {
	return s.Do(ctx, func(q DBTX) error {
		_, err := q.Exec(ctx, "SELECT 1")
		return err
	})
}

// Close releases the connection. Subsequent calls to Do fail.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	if s.conn == nil || s.conn.IsClosed() {
		return nil
	}
	err := s.conn.Close(ctx)
	s.conn = nil
	return err
}
