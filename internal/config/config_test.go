package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeYAML(t *testing.T, dir, body string) string {
	t.Helper()
	p := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoadAppliesDefaultsForOmittedFields(t *testing.T) {
	dir := t.TempDir()
	p := writeYAML(t, dir, "listen_addr: \":9000\"\n")

	cfg, err := Load(p, filepath.Join(dir, "nonexistent.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != ":9000" {
		t.Errorf("expected overridden listen_addr, got %q", cfg.ListenAddr)
	}
	if cfg.AdminAddr != ":8090" {
		t.Errorf("expected default admin_addr, got %q", cfg.AdminAddr)
	}
	if cfg.QueueCapacity != 4096 {
		t.Errorf("expected default queue_capacity, got %d", cfg.QueueCapacity)
	}
}

func TestLoadRejectsZeroQueueCapacity(t *testing.T) {
	dir := t.TempDir()
	p := writeYAML(t, dir, "queue_capacity: 0\n")

	if _, err := Load(p, filepath.Join(dir, "nonexistent.env")); err == nil {
		t.Fatal("expected validation error for zero queue_capacity")
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.yaml"), ""); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestEnvOverridesListenAddr(t *testing.T) {
	dir := t.TempDir()
	p := writeYAML(t, dir, "listen_addr: \":9000\"\n")

	t.Setenv("MATCHCORE_LISTEN_ADDR", ":7000")
	cfg, err := Load(p, filepath.Join(dir, "nonexistent.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != ":7000" {
		t.Errorf("expected env override, got %q", cfg.ListenAddr)
	}
}
