package usecase_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"folio/internal/modules/engine/domain"
	engineout "folio/internal/modules/engine/port/out"
	"folio/internal/modules/engine/service"
	"folio/internal/modules/engine/usecase"
	readerdomain "folio/internal/modules/reader/domain"
)

type fakeManifestStore struct {
	manifests []domain.Manifest
}

func (s fakeManifestStore) Load(context.Context) ([]domain.Manifest, error) {
	return s.manifests, nil
}

type fakeHost struct {
	dialed *int
	closed *int
}

func (fakeHost) CheckLifecycle(context.Context, domain.Manifest) error { return nil }
func (fakeHost) GetMetadata(context.Context, domain.Manifest) (domain.Metadata, error) {
	return domain.Metadata{Name: "comics", Version: "1", Kinds: []string{"cbz"}}, nil
}
func (h fakeHost) Dial(context.Context, domain.Manifest) (engineout.Conn, error) {
	*h.dialed++
	return fakeConn{closed: h.closed}, nil
}

type fakeConn struct {
	closed *int
}

func (fakeConn) TableOfContents(context.Context, string) ([]readerdomain.TOCEntry, error) {
	return []readerdomain.TOCEntry{{Title: "Cover", Page: 1}}, nil
}
func (fakeConn) PositionCount(context.Context, string) (readerdomain.PageInfo, error) {
	return readerdomain.PageInfo{Count: 3}, nil
}
func (fakeConn) Locate(_ context.Context, path string, page int) (readerdomain.PageView, error) {
	return readerdomain.PageView{Locator: readerdomain.Locator{Href: path, Locations: readerdomain.Locations{Position: readerdomain.Int(page)}}}, nil
}
func (fakeConn) CurrentLocator(context.Context, string) (readerdomain.Locator, bool, error) {
	return readerdomain.Locator{}, false, nil
}
func (c fakeConn) Close() { *c.closed++ }

func manifestWithBinary(t *testing.T, name string, kinds ...string) domain.Manifest {
	t.Helper()
	binPath := filepath.Join(t.TempDir(), name+"-bin")
	if err := os.WriteFile(binPath, []byte("binary"), 0o755); err != nil {
		t.Fatalf("write binary: %v", err)
	}
	hash := sha256.Sum256([]byte("binary"))
	return domain.Manifest{
		Name:    name,
		Version: "1",
		Binary:  binPath,
		SHA256:  hex.EncodeToString(hash[:]),
		Enabled: true,
		Kinds:   kinds,
	}
}

func TestUsecaseListDoctorAndAttach(t *testing.T) {
	t.Parallel()
	dialed, closed := 0, 0
	manifest := manifestWithBinary(t, "comics", "cbz")
	uc := usecase.NewInteractor(service.NewEngineService(fakeManifestStore{manifests: []domain.Manifest{manifest}}, fakeHost{dialed: &dialed, closed: &closed}))
	ctx := context.Background()

	list, err := uc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Name != "comics" || list[0].Kinds[0] != "cbz" {
		t.Fatalf("unexpected list: %+v", list)
	}

	docs, err := uc.Doctor(ctx)
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	if len(docs) != 1 || !docs[0].LifecycleOK || !docs[0].ChecksumValid {
		t.Fatalf("unexpected doctor result: %+v", docs)
	}

	handle, err := uc.Attach(ctx, "comics", "/books/saga.cbz")
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if handle.Engine() != "comics" || dialed != 1 {
		t.Fatalf("unexpected attach: engine=%s dialed=%d", handle.Engine(), dialed)
	}
	view, err := handle.Locate(ctx, 2)
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if view.Locator.Href != "/books/saga.cbz" || *view.Locator.Locations.Position != 2 {
		t.Fatalf("unexpected locator: %+v", view.Locator)
	}
	if err := handle.Close(); err != nil || closed != 1 {
		t.Fatalf("close: err=%v closed=%d", err, closed)
	}
}

func TestUsecaseEngineForSkipsDisabledAndBadChecksums(t *testing.T) {
	t.Parallel()
	dialed, closed := 0, 0
	disabled := manifestWithBinary(t, "off", "pdf")
	disabled.Enabled = false
	tampered := manifestWithBinary(t, "tampered", "pdf")
	tampered.SHA256 = "0000000000000000000000000000000000000000000000000000000000000000"
	good := manifestWithBinary(t, "good", "pdf", "cbz")
	uc := usecase.NewInteractor(service.NewEngineService(fakeManifestStore{manifests: []domain.Manifest{disabled, tampered, good}}, fakeHost{dialed: &dialed, closed: &closed}))
	ctx := context.Background()

	info, ok, err := uc.EngineFor(ctx, "pdf")
	if err != nil || !ok {
		t.Fatalf("engine for pdf: ok=%v err=%v", ok, err)
	}
	if info.Name != "good" {
		t.Fatalf("expected good engine, got %s", info.Name)
	}

	if _, ok, err := uc.EngineFor(ctx, "epub"); err != nil || ok {
		t.Fatalf("expected no epub engine: ok=%v err=%v", ok, err)
	}
	if _, _, err := uc.EngineFor(ctx, "mobi"); err == nil {
		t.Fatalf("expected unsupported kind error")
	}

	if _, err := uc.Attach(ctx, "off", "/x.pdf"); !errors.Is(err, domain.ErrEngineDisabled) {
		t.Fatalf("expected disabled error, got %v", err)
	}
	if _, err := uc.Attach(ctx, "tampered", "/x.pdf"); !errors.Is(err, domain.ErrChecksumMismatch) {
		t.Fatalf("expected checksum error, got %v", err)
	}
	if _, err := uc.Attach(ctx, "missing", "/x.pdf"); !errors.Is(err, domain.ErrEngineNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
	if dialed != 0 {
		t.Fatalf("no engine should have been started, dialed=%d", dialed)
	}
}

func TestUsecaseListRejectsDuplicateNames(t *testing.T) {
	t.Parallel()
	dialed, closed := 0, 0
	a := manifestWithBinary(t, "same", "cbz")
	b := manifestWithBinary(t, "same", "pdf")
	uc := usecase.NewInteractor(service.NewEngineService(fakeManifestStore{manifests: []domain.Manifest{a, b}}, fakeHost{dialed: &dialed, closed: &closed}))
	if _, err := uc.List(context.Background()); err == nil {
		t.Fatalf("expected duplicate name error")
	}
}
