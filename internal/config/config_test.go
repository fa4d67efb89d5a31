package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:8080" {
		t.Fatalf("unexpected default addr: %s", cfg.Server.Addr)
	}
	if cfg.Content.Dir != "./content" {
		t.Fatalf("unexpected default content dir: %s", cfg.Content.Dir)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wikiquiz.yaml")
	body := "server:\n  addr: \"0.0.0.0:9000\"\nllm:\n  call_timeout_seconds: 5\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Addr != "0.0.0.0:9000" {
		t.Fatalf("unexpected addr: %s", cfg.Server.Addr)
	}
	if got := cfg.LLMConfig().CallTimeout; got != 5*time.Second {
		t.Fatalf("unexpected call timeout: %s", got)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("WIKIQUIZ_SERVER_ADDR", "0.0.0.0:7777")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Addr != "0.0.0.0:7777" {
		t.Fatalf("expected env override, got %s", cfg.Server.Addr)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestDatabasePath_Configured(t *testing.T) {
	var cfg Config
	cfg.Database.Path = "/tmp/x.db"
	p, err := cfg.DatabasePath()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != "/tmp/x.db" {
		t.Fatalf("unexpected path: %s", p)
	}
}
