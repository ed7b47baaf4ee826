package admin

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/JonMunkholm/classmonitor/internal/core"
	"github.com/JonMunkholm/classmonitor/internal/database"
)

func TestResetUnknownTarget(t *testing.T) {
	r := &Resetter{Session: database.NewSession("postgres://unused")}

	err := r.Reset(context.Background(), Target("grades"))
	if err == nil {
		t.Fatal("Reset() expected error for unknown target")
	}
	if !strings.Contains(err.Error(), "grades") {
		t.Errorf("error should name the target: %v", err)
	}
}

func TestResetTargetsHaveSQL(t *testing.T) {
	for _, target := range Targets {
		if _, ok := resetSQL[target]; !ok {
			t.Errorf("target %q has no reset statement", target)
		}
	}
}

func TestResetAll(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	session := database.NewSession(dsn, database.WithOnOpen(database.Migrate))
	defer session.Close(ctx)

	store := database.NewStudentStore(session)
	settings := database.NewSettingsStore(session)
	if err := store.AddProgramme(ctx, "Reset Me"); err != nil && !core.IsDuplicateKey(err) {
		t.Fatalf("AddProgramme() error = %v", err)
	}
	if err := settings.SetThreshold(ctx, core.ThresholdTop, 4.2); err != nil {
		t.Fatalf("SetThreshold() error = %v", err)
	}

	r := &Resetter{Session: session}
	if err := r.ResetAll(ctx); err != nil {
		t.Fatalf("ResetAll() error = %v", err)
	}

	names, err := store.ListProgrammes(ctx)
	if err != nil {
		t.Fatalf("ListProgrammes() error = %v", err)
	}
	if len(names) != 0 {
		t.Errorf("programmes = %v, want none", names)
	}
	top, err := settings.GetThreshold(ctx, core.ThresholdTop)
	if err != nil {
		t.Fatalf("GetThreshold() error = %v", err)
	}
	if top != 3.5 {
		t.Errorf("top threshold = %v, want %v", top, 3.5)
	}
}
