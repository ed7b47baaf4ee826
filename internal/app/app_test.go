package app

import (
	"context"
	"testing"
	"time"

	"github.com/JonMunkholm/classmonitor/internal/config"
	"github.com/JonMunkholm/classmonitor/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopSink struct{}

func (nopSink) Log(context.Context, string) error { return nil }

func TestAuditSink(t *testing.T) {
	db := nopSink{}

	_, ok := AuditSink(config.AuditSinkLog, db).(core.LogAuditSink)
	assert.True(t, ok, "log selects the log sink")

	assert.Equal(t, db, AuditSink(config.AuditSinkDB, db))

	multi, ok := AuditSink(config.AuditSinkBoth, db).(core.MultiAuditSink)
	require.True(t, ok, "both selects a fan-out sink")
	assert.Len(t, multi, 2)

	_, ok = AuditSink("BOTH", db).(core.MultiAuditSink)
	assert.True(t, ok, "names are case-insensitive")
}

func TestNewDoesNotConnect(t *testing.T) {
	cfg := &config.Config{
		Database: config.DatabaseConfig{URL: "postgres://127.0.0.1:1/none", ConnectTimeout: time.Second},
		Import:   config.ImportConfig{MaxConcurrent: 1, MaxWaitTime: time.Second, ResultTTL: time.Minute},
		Audit:    config.AuditConfig{Sink: config.AuditSinkLog, Timeout: time.Second},
	}

	a := New(cfg)
	require.NotNil(t, a.Students)
	require.NotNil(t, a.Imports)
	assert.Equal(t, 1, a.Imports.LimiterStatus().MaxConcurrent)
	assert.NoError(t, a.Close(context.Background()))
}
