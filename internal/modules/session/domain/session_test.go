package domain_test

import (
	"errors"
	"testing"
	"time"

	positiondomain "folio/internal/modules/position/domain"
	"folio/internal/modules/session/domain"
	apperrors "folio/internal/platform/errors"
)

func TestParsePhase(t *testing.T) {
	t.Parallel()
	for raw, want := range map[string]domain.Phase{
		"active":      domain.PhaseActive,
		" Background": domain.PhaseBackground,
		"INACTIVE":    domain.PhaseInactive,
	} {
		got, err := domain.ParsePhase(raw)
		if err != nil || got != want {
			t.Fatalf("ParsePhase(%q) = %q, %v", raw, got, err)
		}
	}
	if _, err := domain.ParsePhase("foreground"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestCloseComputesDerivedFields(t *testing.T) {
	t.Parallel()
	started := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	open := domain.OpenSession{
		SessionID: "s1",
		BookID:    "dune",
		DeviceID:  "kindle",
		Start:     positiondomain.ReadingPosition{Page: 40, MaxPage: 100, TotalProgress: 0.4},
		StartedAt: started,
	}
	closed := open.Close(positiondomain.ReadingPosition{Page: 52, MaxPage: 100, TotalProgress: 0.52}, started.Add(25*time.Minute))
	if closed.DurationSeconds != 1500 || closed.PagesTurned != 12 || closed.ProgressDelta != 0.12 {
		t.Fatalf("unexpected session: %+v", closed)
	}

	backwards := open.Close(positiondomain.ReadingPosition{Page: 30, MaxPage: 100, TotalProgress: 0.3}, started.Add(-time.Minute))
	if backwards.DurationSeconds != 0 || backwards.PagesTurned != 10 || backwards.ProgressDelta != -0.1 {
		t.Fatalf("unexpected backwards session: %+v", backwards)
	}
}
