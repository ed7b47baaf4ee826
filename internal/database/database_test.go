package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/classmonitor/internal/core"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteErr(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantDup   bool
		wantStore bool
	}{
		{"nil", nil, false, false},
		{"unique violation", &pgconn.PgError{Code: "23505"}, true, false},
		{"wrapped unique violation", fmt.Errorf("exec: %w", &pgconn.PgError{Code: "23505"}), true, false},
		{"other pg error", &pgconn.PgError{Code: "23502"}, false, true},
		{"plain error", errors.New("boom"), false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := writeErr("add", "UMAT001", tt.err)
			if got := core.IsDuplicateKey(err); got != tt.wantDup {
				t.Errorf("IsDuplicateKey = %v, want %v", got, tt.wantDup)
			}
			if got := core.IsStorage(err); got != tt.wantStore {
				t.Errorf("IsStorage = %v, want %v", got, tt.wantStore)
			}
		})
	}
}

func TestDateConversion(t *testing.T) {
	d := toDate("2024-09-01")
	if !d.Valid {
		t.Fatal("toDate(2024-09-01) is not valid")
	}
	if got := fromDate(d); got != "2024-09-01" {
		t.Errorf("fromDate = %q, want %q", got, "2024-09-01")
	}

	if toDate("01/09/2024").Valid {
		t.Error("toDate accepted a non-ISO date")
	}
	if got := fromDate(toDate("")); got != "" {
		t.Errorf("fromDate(NULL) = %q, want empty", got)
	}
}

func TestSettingsMigrations(t *testing.T) {
	ms := settingsMigrations()
	require.Len(t, ms, len(core.ThresholdNames)+1)

	assert.Contains(t, ms[0].sql, `"at_risk_threshold" DOUBLE PRECISION DEFAULT 2`)
	assert.Contains(t, ms[1].sql, `"average_threshold" DOUBLE PRECISION DEFAULT 3`)
	assert.Contains(t, ms[2].sql, `"top_threshold" DOUBLE PRECISION DEFAULT 3.5`)
	assert.Contains(t, ms[3].sql, "ON CONFLICT (id) DO NOTHING")
}

func TestSessionConnectFailure(t *testing.T) {
	calls := 0
	s := NewSession("postgres://unused", WithConnectFunc(func(ctx context.Context, dsn string) (*pgx.Conn, error) {
		calls++
		return nil, errors.New("connection refused")
	}))

	err := s.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")

	// A failed open is retried on the next call.
	_ = s.Ping(context.Background())
	assert.Equal(t, 2, calls)

	require.NoError(t, s.Close(context.Background()))
	assert.ErrorIs(t, s.Ping(context.Background()), ErrSessionClosed)
}

// ----------------------------------------------------------------------------
// PostgreSQL round trips (TEST_DATABASE_URL)
// ----------------------------------------------------------------------------

func testSession(t *testing.T) *Session {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	s := NewSession(dsn, WithOnOpen(Migrate))
	ctx := context.Background()
	require.NoError(t, s.Do(ctx, func(db DBTX) error {
		_, err := db.Exec(ctx, `TRUNCATE students, programmes, audit_log`)
		if err != nil {
			return err
		}
		_, err = db.Exec(ctx, `DELETE FROM settings`)
		return err
	}))
	t.Cleanup(func() { s.Close(context.Background()) })
	return s
}

func sampleStudent(id, name string) core.Student {
	return core.Student{
		StudentID:    id,
		FullName:     name,
		Programme:    "Computer Science",
		Level:        200,
		GPA:          3.25,
		Email:        strings.ToLower(id) + "@example.com",
		Phone:        "0241234567",
		EnrolledDate: "2024-09-01",
		Status:       core.StatusActive,
	}
}

func TestStudentStoreRoundTrip(t *testing.T) {
	s := testSession(t)
	store := NewStudentStore(s)
	ctx := context.Background()

	st := sampleStudent("UMAT001", "Ama Mensah")
	require.NoError(t, store.Add(ctx, st))

	err := store.Add(ctx, st)
	assert.True(t, core.IsDuplicateKey(err), "second Add err = %v", err)

	got, ok, err := store.FindByID(ctx, "UMAT001")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, st, *got)

	st.GPA = 3.9
	updated, err := store.Update(ctx, st)
	require.NoError(t, err)
	assert.True(t, updated)
	got, _, _ = store.FindByID(ctx, "UMAT001")
	assert.Equal(t, 3.9, got.GPA)

	// Updating an unknown id neither fails nor inserts.
	updated, err = store.Update(ctx, sampleStudent("UMAT999", "Nobody Here"))
	require.NoError(t, err)
	assert.False(t, updated)
	exists, err := store.ExistsByID(ctx, "UMAT999")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, store.Add(ctx, sampleStudent("UMAT002", "Kofi Boateng")))
	all, err := store.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Ama Mensah", all[0].FullName)

	found, err := store.Search(ctx, "kofi")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "UMAT002", found[0].StudentID)

	found, err = store.Search(ctx, "umat")
	require.NoError(t, err)
	assert.Empty(t, found, "id match is case-sensitive")

	require.NoError(t, store.Delete(ctx, "UMAT001"))
	require.NoError(t, store.Delete(ctx, "UMAT001"))
	_, ok, err = store.FindByID(ctx, "UMAT001")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProgrammeStoreRoundTrip(t *testing.T) {
	s := testSession(t)
	store := NewStudentStore(s)
	ctx := context.Background()

	require.NoError(t, store.AddProgramme(ctx, "Mining Engineering"))
	require.NoError(t, store.AddProgramme(ctx, "Computer Science"))
	assert.True(t, core.IsDuplicateKey(store.AddProgramme(ctx, "Computer Science")))

	require.NoError(t, store.RenameProgramme(ctx, "Mining Engineering", "Geomatics"))
	names, err := store.ListProgrammes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Computer Science", "Geomatics"}, names)

	require.NoError(t, store.DeleteProgramme(ctx, "Geomatics"))
	names, _ = store.ListProgrammes(ctx)
	assert.Equal(t, []string{"Computer Science"}, names)
}

func TestSettingsStoreRoundTrip(t *testing.T) {
	s := testSession(t)
	store := NewSettingsStore(s)
	ctx := context.Background()

	// No row at all: defaults.
	v, err := store.GetThreshold(ctx, core.ThresholdTop)
	require.NoError(t, err)
	assert.Equal(t, 3.5, v)

	require.NoError(t, store.SetThreshold(ctx, core.ThresholdTop, 3.7))
	v, err = store.GetThreshold(ctx, core.ThresholdTop)
	require.NoError(t, err)
	assert.Equal(t, 3.7, v)

	// Migrating again keeps stored values.
	require.NoError(t, s.Do(ctx, func(db DBTX) error { return Migrate(ctx, db) }))
	v, _ = store.GetThreshold(ctx, core.ThresholdTop)
	assert.Equal(t, 3.7, v)

	_, err = store.GetThreshold(ctx, core.ThresholdName("bogus"))
	assert.ErrorIs(t, err, core.ErrUnknownThreshold)
}

func TestSettingsStoreSetThresholds(t *testing.T) {
	s := testSession(t)
	store := NewSettingsStore(s)
	ctx := context.Background()

	tests := []struct {
		name string
		in   core.Thresholds
	}{
		{"first write", core.Thresholds{AtRisk: 1.5, Average: 2.5, Top: 3.9}},
		{"overwrite", core.Thresholds{AtRisk: 1.9, Average: 2.9, Top: 4.1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, store.SetThresholds(ctx, tt.in))
			for _, name := range core.ThresholdNames {
				want, _ := tt.in.Get(name)
				got, err := store.GetThreshold(ctx, name)
				require.NoError(t, err)
				assert.Equal(t, want, got, "threshold %s", name)
			}
		})
	}
}

func TestSessionReopensAfterConnectionLoss(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	opens := 0
	s := NewSession(dsn, WithOnOpen(func(ctx context.Context, db DBTX) error {
		opens++
		return Migrate(ctx, db)
	}))
	t.Cleanup(func() { s.Close(context.Background()) })

	store := NewStudentStore(s)
	require.NoError(t, s.Do(ctx, func(db DBTX) error {
		_, err := db.Exec(ctx, `DROP TABLE IF EXISTS audit_log`)
		return err
	}))
	require.Equal(t, 1, opens)

	// Lose the connection underneath the session.
	s.mu.Lock()
	require.NoError(t, s.conn.Close(ctx))
	s.mu.Unlock()

	_, err := store.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, opens)

	// The reopen re-applied the schema.
	_, err = NewAuditStore(s).Recent(ctx, 10)
	assert.NoError(t, err)
}

func TestSettingsMigrationAddsMissingColumns(t *testing.T) {
	s := testSession(t)
	store := NewSettingsStore(s)
	ctx := context.Background()

	// A settings table from before the average and top bands existed.
	require.NoError(t, s.Do(ctx, func(db DBTX) error {
		for _, sql := range []string{
			`DROP TABLE settings`,
			`CREATE TABLE settings (id INTEGER PRIMARY KEY CHECK (id = 1), at_risk_threshold DOUBLE PRECISION DEFAULT 2.0)`,
			`INSERT INTO settings (id, at_risk_threshold) VALUES (1, 1.6)`,
		} {
			if _, err := db.Exec(ctx, sql); err != nil {
				return err
			}
		}
		return Migrate(ctx, db)
	}))

	tests := []struct {
		name core.ThresholdName
		want float64
	}{
		{core.ThresholdAtRisk, 1.6},
		{core.ThresholdAverage, 3.0},
		{core.ThresholdTop, 3.5},
	}
	for _, tt := range tests {
		got, err := store.GetThreshold(ctx, tt.name)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "threshold %s", tt.name)
	}
}

func TestAuditStore(t *testing.T) {
	s := testSession(t)
	audit := NewAuditStore(s)
	audit.now = func() time.Time { return time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	require.NoError(t, audit.Log(ctx, core.AuditMessage(core.ActionAdd, "UMAT001")))
	entries, err := audit.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ADD student_id=UMAT001", entries[0].Message)
	assert.NotEmpty(t, entries[0].ID)
}

func TestAuditStorePurge(t *testing.T) {
	s := testSession(t)
	audit := NewAuditStore(s)
	ctx := context.Background()

	audit.now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }
	require.NoError(t, audit.Log(ctx, "ADD student_id=OLD1"))
	audit.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	require.NoError(t, audit.Log(ctx, "ADD student_id=NEW1"))

	n, err := audit.PurgeBefore(ctx, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	entries, err := audit.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ADD student_id=NEW1", entries[0].Message)
}
