package domain_test

import (
	"errors"
	"testing"

	positiondomain "folio/internal/modules/position/domain"
	"folio/internal/modules/shelf/domain"
	apperrors "folio/internal/platform/errors"
)

func TestBookValidate(t *testing.T) {
	t.Parallel()

	valid := domain.Book{ID: "dune", Title: "Dune", Kind: positiondomain.KindEPUB, FilePath: "/b/dune.epub"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid book: %v", err)
	}

	noTitle := valid
	noTitle.Title = " "
	if err := noTitle.Validate(); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}

	badKind := valid
	badKind.Kind = "djvu"
	if err := badKind.Validate(); !errors.Is(err, apperrors.ErrUnsupportedKind) {
		t.Fatalf("expected unsupported kind, got %v", err)
	}
}
