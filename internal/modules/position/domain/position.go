package domain

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"folio/internal/platform/clock"
	apperrors "folio/internal/platform/errors"
)

type ReaderKind string

const (
	KindEPUB ReaderKind = "epub"
	KindPDF  ReaderKind = "pdf"
	KindCBZ  ReaderKind = "cbz"
)

func Kinds() []ReaderKind {
	return []ReaderKind{KindEPUB, KindPDF, KindCBZ}
}

func (k ReaderKind) Validate() error {
	switch k {
	case KindEPUB, KindPDF, KindCBZ:
		return nil
	default:
		return fmt.Errorf("%w: %q", apperrors.ErrUnsupportedKind, string(k))
	}
}

func ParseKind(raw string) (ReaderKind, error) {
	kind := ReaderKind(strings.ToLower(strings.TrimSpace(raw)))
	if err := kind.Validate(); err != nil {
		return "", err
	}
	return kind, nil
}

// KindFromPath derives the reader kind from a book file extension.
func KindFromPath(path string) (ReaderKind, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", apperrors.ErrUnsupportedKind, filepath.Base(path))
	}
	return ParseKind(ext)
}

// ReadingPosition is the last known place a device reached in a book.
type ReadingPosition struct {
	DeviceID        string     `json:"deviceId"`
	Kind            ReaderKind `json:"readerKind"`
	ChapterProgress float64    `json:"chapterProgress"`
	TotalProgress   float64    `json:"totalProgress"`
	Page            int        `json:"page"`
	MaxPage         int        `json:"maxPage"`
	ChapterTitle    string     `json:"chapterTitle"`
	Fragment        string     `json:"fragment,omitempty"`
	Timestamp       float64    `json:"timestamp"`
}

// Normalize clamps fractions into [0,1] and keeps 1 <= Page <= MaxPage.
func (p ReadingPosition) Normalize() ReadingPosition {
	p.ChapterProgress = clampFraction(p.ChapterProgress)
	p.TotalProgress = clampFraction(p.TotalProgress)
	if p.Page < 1 {
		p.Page = 1
	}
	if p.MaxPage < p.Page {
		p.MaxPage = p.Page
	}
	return p
}

func (p ReadingPosition) Validate() error {
	if strings.TrimSpace(p.DeviceID) == "" {
		return fmt.Errorf("%w: device id is required", apperrors.ErrInvalidInput)
	}
	return p.Kind.Validate()
}

func (p ReadingPosition) Time() time.Time {
	return clock.FromEpochSeconds(p.Timestamp)
}

func clampFraction(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
