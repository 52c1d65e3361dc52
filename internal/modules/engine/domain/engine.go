package domain

import (
	"errors"
	"fmt"
	"regexp"

	positiondomain "folio/internal/modules/position/domain"
)

var (
	ErrEngineDisabled   = errors.New("engine is disabled")
	ErrChecksumMismatch = errors.New("engine checksum mismatch")
	ErrKindNotDeclared  = errors.New("engine does not declare reader kind")
	ErrEngineTimeout    = errors.New("engine timeout")
	ErrEngineNotFound   = errors.New("engine not found")
)

var sha256Pattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// Manifest registers an out-of-process navigator binary.
type Manifest struct {
	Name    string   `json:"name"`
	Version string   `json:"version"`
	Binary  string   `json:"binary"`
	SHA256  string   `json:"sha256"`
	Enabled bool     `json:"enabled"`
	Kinds   []string `json:"kinds"`
}

func (m Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("engine name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("engine version is required")
	}
	if m.Binary == "" {
		return fmt.Errorf("engine binary path is required")
	}
	if !sha256Pattern.MatchString(m.SHA256) {
		return fmt.Errorf("engine sha256 must be lowercase 64-char hex")
	}
	if len(m.Kinds) == 0 {
		return fmt.Errorf("engine kinds are required")
	}
	seen := map[positiondomain.ReaderKind]struct{}{}
	for _, raw := range m.Kinds {
		kind, err := positiondomain.ParseKind(raw)
		if err != nil {
			return err
		}
		if _, ok := seen[kind]; ok {
			return fmt.Errorf("duplicate kind: %s", kind)
		}
		seen[kind] = struct{}{}
	}
	return nil
}

func (m Manifest) Declares(kind positiondomain.ReaderKind) bool {
	for _, raw := range m.Kinds {
		if parsed, err := positiondomain.ParseKind(raw); err == nil && parsed == kind {
			return true
		}
	}
	return false
}

type Metadata struct {
	Name    string
	Version string
	Kinds   []string
}
