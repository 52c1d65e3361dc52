package out_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	engineout "folio/internal/modules/engine/adapter/out"
)

func writeEngines(t *testing.T, library, raw string) {
	t.Helper()
	dir := filepath.Join(library, "engines")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir engines: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "engines.json"), []byte(raw), 0o644); err != nil {
		t.Fatalf("write engines.json: %v", err)
	}
}

func TestFileManifestStoreLoadMissingReturnsEmpty(t *testing.T) {
	t.Parallel()
	store := engineout.NewFileManifestStore(t.TempDir())
	manifests, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load manifests: %v", err)
	}
	if len(manifests) != 0 {
		t.Fatalf("expected empty manifests, got %d", len(manifests))
	}
}

func TestFileManifestStoreResolvesRelativeBinary(t *testing.T) {
	t.Parallel()
	library := t.TempDir()
	writeEngines(t, library, `[
  {
    "name": "comics",
    "version": "1.0.0",
    "binary": "bin/comics-engine",
    "sha256": "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
    "enabled": true,
    "kinds": ["cbz"]
  }
]`)
	manifests, err := engineout.NewFileManifestStore(library).Load(context.Background())
	if err != nil {
		t.Fatalf("load manifests: %v", err)
	}
	if len(manifests) != 1 {
		t.Fatalf("expected one manifest, got %d", len(manifests))
	}
	want := filepath.Join(library, "engines", "bin", "comics-engine")
	if manifests[0].Binary != want {
		t.Fatalf("binary = %s, want %s", manifests[0].Binary, want)
	}
	if len(manifests[0].Kinds) != 1 || manifests[0].Kinds[0] != "cbz" {
		t.Fatalf("unexpected kinds: %v", manifests[0].Kinds)
	}
}

func TestFileManifestStoreRejectsUnknownField(t *testing.T) {
	t.Parallel()
	library := t.TempDir()
	writeEngines(t, library, `[
  {
    "name": "comics",
    "version": "1.0.0",
    "binary": "/tmp/comics-engine",
    "sha256": "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
    "enabled": true,
    "kinds": ["cbz"],
    "capabilities": ["command"]
  }
]`)
	if _, err := engineout.NewFileManifestStore(library).Load(context.Background()); err == nil {
		t.Fatalf("expected unknown field error")
	}
}
