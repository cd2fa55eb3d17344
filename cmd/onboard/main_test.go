package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestMigrateThenDashboard(t *testing.T) {
	db := filepath.Join(t.TempDir(), "onboard.db")

	out, err := execute(t, "migrate", "--db", db, "--log-level", "error")
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	for _, want := range []string{"applied 0001_init.sql", "applied 0002_seed_segments.sql", "applied 0003_unique_location_index.sql", "at version 3"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}

	out, err = execute(t, "migrate", "--db", db, "--log-level", "error")
	if err != nil || strings.Contains(out, "applied") {
		t.Fatalf("expected no pending migrations, got %q err=%v", out, err)
	}

	out, err = execute(t, "dashboard", "--db", db, "--identity", "idp_cli", "--log-level", "error")
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if !strings.Contains(out, `"company": null`) || !strings.Contains(out, `"locations": []`) {
		t.Fatalf("unexpected dashboard:\n%s", out)
	}
}

func TestDashboardRequiresIdentity(t *testing.T) {
	db := filepath.Join(t.TempDir(), "onboard.db")
	if _, err := execute(t, "dashboard", "--db", db); err == nil || !strings.Contains(err.Error(), "--identity") {
		t.Fatalf("expected identity error, got %v", err)
	}
}

func TestInvalidLogLevel(t *testing.T) {
	if _, err := execute(t, "migrate", "--db", filepath.Join(t.TempDir(), "x.db"), "--log-level", "loud"); err == nil {
		t.Fatalf("expected invalid log level to fail")
	}
}
