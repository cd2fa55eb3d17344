package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(WithEnvFiles())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":8080" || cfg.Server.IdentityHeader != "X-Identity-User" || cfg.Server.ReadTimeout != 10*time.Second {
		t.Fatalf("unexpected server defaults: %+v", cfg.Server)
	}
	if cfg.Wizard.Flow != "account-setup" || cfg.Log.Format != "tint" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoad_FileEnvAndFlagPrecedence(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "onboard.yaml")
	if err := os.WriteFile(file, []byte("server:\n  addr: \":9000\"\n  site_title: Benchmarks\ndatabase:\n  path: /tmp/file.db\nlog:\n  level: warn\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	envFile := filepath.Join(dir, "test.env")
	if err := os.WriteFile(envFile, []byte("ONBOARD_DATABASE_PATH=/tmp/dotenv.db\n"), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("ONBOARD_SERVER_ADDR", ":7000")
	t.Cleanup(func() { _ = os.Unsetenv("ONBOARD_DATABASE_PATH") })

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-level", "info", "")
	if err := flags.Parse([]string{"--log-level=debug"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load(WithFile(file), WithEnvFiles(envFile), WithFlag("log.level", flags.Lookup("log-level")))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":7000" {
		t.Fatalf("expected env to override file, got %q", cfg.Server.Addr)
	}
	if cfg.Server.SiteTitle != "Benchmarks" {
		t.Fatalf("expected file value, got %q", cfg.Server.SiteTitle)
	}
	if cfg.Database.Path != "/tmp/dotenv.db" {
		t.Fatalf("expected dotenv value, got %q", cfg.Database.Path)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("expected flag to win, got %q", cfg.Log.Level)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(WithEnvFiles(), WithFile(filepath.Join(t.TempDir(), "missing.yaml"))); err == nil {
		t.Fatalf("expected missing file error")
	}
}

func TestValidate(t *testing.T) {
	cfg, err := Load(WithEnvFiles())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg.Database.Path = " "
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected database path error")
	}
	cfg.Database.Path = "x.db"
	cfg.Wizard.FlowsDir = filepath.Join(t.TempDir(), "nope")
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected flows dir error")
	}
}
