package out_test

import (
	"archive/zip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	engineout "folio/internal/modules/engine/adapter/out"
	"folio/internal/modules/engine/domain"
)

func TestGRPCHostIntegrationReferenceEngine(t *testing.T) {
	binPath, checksum := buildReferenceEngine(t)
	manifest := domain.Manifest{
		Name:    "reference",
		Version: "1.0.0",
		Binary:  binPath,
		SHA256:  checksum,
		Enabled: true,
		Kinds:   []string{"epub", "cbz"},
	}

	host := engineout.NewGRPCHost(nil)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := host.CheckLifecycle(ctx, manifest); err != nil {
		t.Fatalf("check lifecycle: %v", err)
	}
	metadata, err := host.GetMetadata(ctx, manifest)
	if err != nil {
		t.Fatalf("get metadata: %v", err)
	}
	if metadata.Name != "reference" || len(metadata.Kinds) != 2 {
		t.Fatalf("unexpected metadata: %+v", metadata)
	}

	book := writeComic(t, "01.png", "02.png", "03.png")
	conn, err := host.Dial(ctx, manifest)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if _, found, err := conn.CurrentLocator(ctx, book); err != nil || found {
		t.Fatalf("expected no current locator before locate: found=%v err=%v", found, err)
	}
	pages, err := conn.PositionCount(ctx, book)
	if err != nil {
		t.Fatalf("position count: %v", err)
	}
	if pages.Count != 3 {
		t.Fatalf("expected 3 pages, got %d", pages.Count)
	}
	view, err := conn.Locate(ctx, book, 2)
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if view.Locator.Href != "02.png" || view.Locator.Locations.Position == nil || *view.Locator.Locations.Position != 2 {
		t.Fatalf("unexpected locator: %+v", view.Locator)
	}
	current, found, err := conn.CurrentLocator(ctx, book)
	if err != nil || !found {
		t.Fatalf("current locator: found=%v err=%v", found, err)
	}
	if current.Href != "02.png" {
		t.Fatalf("unexpected current locator: %+v", current)
	}
}

func writeComic(t *testing.T, names ...string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "comic.cbz")
	f, err := os.Create(p)
	if err != nil {
		t.Fatalf("create cbz: %v", err)
	}
	zw := zip.NewWriter(f)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip entry: %v", err)
		}
		if _, err := w.Write([]byte("img")); err != nil {
			t.Fatalf("zip write: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}
	return p
}

func buildReferenceEngine(t *testing.T) (string, string) {
	t.Helper()
	binPath := filepath.Join(t.TempDir(), "reference-engine")
	cmd := exec.Command("go", "build", "-o", binPath, "./plugins/reference")
	cmd.Dir = repositoryRoot(t)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build reference engine: %v\n%s", err, string(out))
	}
	payload, err := os.ReadFile(binPath)
	if err != nil {
		t.Fatalf("read built engine: %v", err)
	}
	hash := sha256.Sum256(payload)
	return binPath, hex.EncodeToString(hash[:])
}

func repositoryRoot(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller failed")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "../../../../../"))
}
