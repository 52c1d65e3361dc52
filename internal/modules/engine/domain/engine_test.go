package domain_test

import (
	"errors"
	"strings"
	"testing"

	"folio/internal/modules/engine/domain"
	positiondomain "folio/internal/modules/position/domain"
	apperrors "folio/internal/platform/errors"
)

func validManifest() domain.Manifest {
	return domain.Manifest{
		Name:    "comics",
		Version: "1.0.0",
		Binary:  "/bin/comics",
		SHA256:  strings.Repeat("a", 64),
		Enabled: true,
		Kinds:   []string{"cbz", "PDF"},
	}
}

func TestManifestValidate(t *testing.T) {
	t.Parallel()

	if err := validManifest().Validate(); err != nil {
		t.Fatalf("expected valid manifest: %v", err)
	}

	badSum := validManifest()
	badSum.SHA256 = "ABC"
	if err := badSum.Validate(); err == nil {
		t.Fatalf("expected checksum format error")
	}

	noKinds := validManifest()
	noKinds.Kinds = nil
	if err := noKinds.Validate(); err == nil {
		t.Fatalf("expected kinds error")
	}

	unknown := validManifest()
	unknown.Kinds = []string{"mobi"}
	if err := unknown.Validate(); !errors.Is(err, apperrors.ErrUnsupportedKind) {
		t.Fatalf("expected unsupported kind, got %v", err)
	}

	dup := validManifest()
	dup.Kinds = []string{"cbz", "cbz"}
	if err := dup.Validate(); err == nil {
		t.Fatalf("expected duplicate kind error")
	}
}

func TestManifestDeclares(t *testing.T) {
	t.Parallel()

	m := validManifest()
	if !m.Declares(positiondomain.KindCBZ) || !m.Declares(positiondomain.KindPDF) {
		t.Fatalf("expected cbz and pdf declared")
	}
	if m.Declares(positiondomain.KindEPUB) {
		t.Fatalf("epub should not be declared")
	}
}
