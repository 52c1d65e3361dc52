package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"folio/internal/platform/config"
)

func TestLoadDefaultsAndPersistedDeviceID(t *testing.T) {
	library := t.TempDir()

	cfg, err := config.Load(library, "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != filepath.Join(library, ".folio", "folio.db") {
		t.Fatalf("unexpected db path %q", cfg.DBPath)
	}
	if cfg.Dictionary.Timeout != 5*time.Second {
		t.Fatalf("unexpected timeout %s", cfg.Dictionary.Timeout)
	}
	if cfg.Relay.Schedule != "*/15 * * * *" {
		t.Fatalf("unexpected schedule %q", cfg.Relay.Schedule)
	}
	if cfg.DeviceID == "" {
		t.Fatalf("expected generated device id")
	}

	again, err := config.Load(library, "")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again.DeviceID != cfg.DeviceID {
		t.Fatalf("device id not persisted: %q != %q", again.DeviceID, cfg.DeviceID)
	}
}

func TestLoadReadsLibraryConfigFile(t *testing.T) {
	library := t.TempDir()
	content := "device_id: kindle\nrelay:\n  remote_url: http://sync.local\ndictionary:\n  timeout: 2s\n"
	if err := os.WriteFile(filepath.Join(library, "folio.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.Load(library, "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DeviceID != "kindle" {
		t.Fatalf("expected device from file, got %q", cfg.DeviceID)
	}
	if cfg.Relay.RemoteURL != "http://sync.local" {
		t.Fatalf("unexpected remote url %q", cfg.Relay.RemoteURL)
	}
	if cfg.Dictionary.Timeout != 2*time.Second {
		t.Fatalf("unexpected timeout %s", cfg.Dictionary.Timeout)
	}
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	library := t.TempDir()
	if err := os.WriteFile(filepath.Join(library, "folio.yaml"), []byte("device_id: kindle\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("FOLIO_DEVICE_ID", "phone")
	t.Setenv("FOLIO_RELAY_LISTEN_ADDR", ":9999")

	cfg, err := config.Load(library, "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DeviceID != "phone" {
		t.Fatalf("expected env device id, got %q", cfg.DeviceID)
	}
	if cfg.Relay.ListenAddr != ":9999" {
		t.Fatalf("unexpected listen addr %q", cfg.Relay.ListenAddr)
	}
}

func TestLoadExplicitMissingConfigFails(t *testing.T) {
	t.Parallel()

	if _, err := config.Load(t.TempDir(), filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing explicit config")
	}
}

func TestLoadRequiresLibrary(t *testing.T) {
	t.Parallel()

	if _, err := config.Load("", ""); err == nil {
		t.Fatalf("expected error")
	}
}
