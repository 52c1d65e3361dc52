package usecase_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	positionout "folio/internal/modules/position/adapter/out"
	positiondto "folio/internal/modules/position/dto"
	positionin "folio/internal/modules/position/port/in"
	positionservice "folio/internal/modules/position/service"
	positionusecase "folio/internal/modules/position/usecase"
	shelfout "folio/internal/modules/shelf/adapter/out"
	"folio/internal/modules/shelf/dto"
	shelfin "folio/internal/modules/shelf/port/in"
	"folio/internal/modules/shelf/service"
	"folio/internal/modules/shelf/usecase"
	apperrors "folio/internal/platform/errors"
)

type fixedClock struct{}

func (fixedClock) Now() time.Time { return time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC) }

func setup(t *testing.T) (string, shelfin.Usecase, positionin.Usecase) {
	t.Helper()
	library := t.TempDir()
	store, err := positionout.NewSQLiteStore(filepath.Join(library, ".folio", "folio.db"))
	if err != nil {
		t.Fatalf("new position store: %v", err)
	}
	ledger := positionusecase.NewInteractor(positionservice.NewPositionService(fixedClock{}, store))
	shelf := usecase.NewInteractor(service.NewShelfService(fixedClock{}, shelfout.NewLibraryBookStore(library)), ledger)
	return library, shelf, ledger
}

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestAddListShowRemove(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	library, shelf, ledger := setup(t)
	bookPath := writeFile(t, library, "Dune.epub")

	added, err := shelf.AddBook(ctx, dto.AddBookInput{Path: bookPath, Authors: []string{" Frank Herbert "}})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if added.ID != "dune" || added.Kind != "epub" || added.Title != "Dune" {
		t.Fatalf("unexpected book %+v", added)
	}
	raw, err := os.ReadFile(added.NotePath)
	if err != nil {
		t.Fatalf("read note: %v", err)
	}
	if !strings.Contains(string(raw), "kind: epub") || !strings.Contains(string(raw), "Frank Herbert") {
		t.Fatalf("unexpected note:\n%s", raw)
	}

	if _, err := ledger.UpdatePosition(ctx, positiondto.UpdatePositionInput{BookID: added.ID, Position: positiondto.Position{DeviceID: "kindle", Kind: "epub", Page: 12}}); err != nil {
		t.Fatalf("seed ledger: %v", err)
	}

	detail, err := shelf.GetBook(ctx, added.ID)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if len(detail.Authors) != 1 || detail.Authors[0] != "Frank Herbert" {
		t.Fatalf("unexpected authors %+v", detail.Authors)
	}
	if len(detail.Positions) != 1 || detail.Positions[0].Page != 12 {
		t.Fatalf("expected ledger in detail, got %+v", detail.Positions)
	}

	list, err := shelf.ListBooks(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %+v, %v", list, err)
	}

	if err := shelf.RemoveBook(ctx, added.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := os.Stat(added.NotePath); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected note deleted, got %v", err)
	}
	positions, err := ledger.ListPositions(ctx, added.ID)
	if err != nil {
		t.Fatalf("list positions: %v", err)
	}
	if len(positions) != 0 {
		t.Fatalf("expected ledger removed with book, got %+v", positions)
	}
	if _, err := shelf.GetBook(ctx, added.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAddAssignsUniqueIDsAndRejectsDuplicates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	library, shelf, _ := setup(t)
	first := writeFile(t, library, "a.pdf")
	second := writeFile(t, library, "b.cbz")

	one, err := shelf.AddBook(ctx, dto.AddBookInput{Path: first, Title: "Saga"})
	if err != nil {
		t.Fatalf("add first: %v", err)
	}
	two, err := shelf.AddBook(ctx, dto.AddBookInput{Path: second, Title: "Saga"})
	if err != nil {
		t.Fatalf("add second: %v", err)
	}
	if one.ID != "saga" || two.ID != "saga-2" || two.Kind != "cbz" {
		t.Fatalf("unexpected ids %q %q (%s)", one.ID, two.ID, two.Kind)
	}

	if _, err := shelf.AddBook(ctx, dto.AddBookInput{Path: first}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected duplicate path rejection, got %v", err)
	}
}

func TestAddRejectsUnknownKind(t *testing.T) {
	t.Parallel()
	library, shelf, _ := setup(t)
	path := writeFile(t, library, "notes.txt")

	if _, err := shelf.AddBook(context.Background(), dto.AddBookInput{Path: path}); !errors.Is(err, apperrors.ErrUnsupportedKind) {
		t.Fatalf("expected unsupported kind, got %v", err)
	}
	if _, err := shelf.AddBook(context.Background(), dto.AddBookInput{Path: path, Kind: "pdf"}); err != nil {
		t.Fatalf("explicit kind should win over extension: %v", err)
	}
}

func TestRemoveUnknownBook(t *testing.T) {
	t.Parallel()
	_, shelf, _ := setup(t)

	if err := shelf.RemoveBook(context.Background(), "ghost"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
