package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load with missing file must fall back to defaults: %v", err)
	}

	if cfg.Workers != 10 {
		t.Errorf("expected 10 workers, got %d", cfg.Workers)
	}
	if cfg.StepTimeout != 5*time.Minute {
		t.Errorf("expected 5m step timeout, got %s", cfg.StepTimeout)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected :8080, got %s", cfg.Server.Addr)
	}
	if cfg.Server.Pipeline != "kittenci.yaml" {
		t.Errorf("expected kittenci.yaml, got %s", cfg.Server.Pipeline)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
workers: 2
step_timeout: 30s
log_dir: /tmp/ci-logs
server:
  addr: ":9999"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Workers != 2 {
		t.Errorf("expected 2 workers, got %d", cfg.Workers)
	}
	if cfg.StepTimeout != 30*time.Second {
		t.Errorf("expected 30s, got %s", cfg.StepTimeout)
	}
	if cfg.LogDir != "/tmp/ci-logs" {
		t.Errorf("expected /tmp/ci-logs, got %s", cfg.LogDir)
	}
	if cfg.Server.Addr != ":9999" {
		t.Errorf("expected :9999, got %s", cfg.Server.Addr)
	}
	// Unset keys keep their defaults.
	if cfg.Journal.Path != ".kittenci/journal.jsonl" {
		t.Errorf("expected default journal path, got %s", cfg.Journal.Path)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("workers: 2\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("KITTENCI_WORKERS", "7")
	t.Setenv("KITTENCI_SERVER_ADDR", ":7070")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Workers != 7 {
		t.Errorf("env must win over file: got %d workers", cfg.Workers)
	}
	if cfg.Server.Addr != ":7070" {
		t.Errorf("nested env override failed: got %s", cfg.Server.Addr)
	}
}

func TestLoadRejectsBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("workers: ["), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for broken config")
	}
}
