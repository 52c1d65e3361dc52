package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"folio/internal/modules/engine/domain"
	"folio/internal/modules/engine/dto"
	engineout "folio/internal/modules/engine/port/out"
	positiondomain "folio/internal/modules/position/domain"
	readerdomain "folio/internal/modules/reader/domain"
)

type EngineService struct {
	store engineout.ManifestStore
	host  engineout.Host
}

func NewEngineService(store engineout.ManifestStore, host engineout.Host) *EngineService {
	return &EngineService{store: store, host: host}
}

func (s *EngineService) List(ctx context.Context) ([]dto.EngineInfo, error) {
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EngineInfo, 0, len(manifests))
	for _, m := range manifests {
		out = append(out, toInfo(m))
	}
	return out, nil
}

func (s *EngineService) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]dto.DoctorResult, 0, len(manifests))
	for _, m := range manifests {
		result := dto.DoctorResult{Name: m.Name}
		if err := m.Validate(); err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}
		result.BinaryReachable = fileExists(m.Binary)
		if !result.BinaryReachable {
			result.Error = fmt.Sprintf("binary does not exist: %s", m.Binary)
			results = append(results, result)
			continue
		}
		result.ChecksumValid = checksumMatches(m.Binary, m.SHA256) == nil
		if !result.ChecksumValid {
			result.Error = "checksum mismatch"
			results = append(results, result)
			continue
		}
		if m.Enabled && s.host != nil {
			if err := s.host.CheckLifecycle(ctx, m); err != nil {
				result.Error = err.Error()
			} else {
				result.LifecycleOK = true
			}
		}
		results = append(results, result)
	}
	return results, nil
}

// EngineFor returns the first enabled engine declaring kind whose binary checks out.
func (s *EngineService) EngineFor(ctx context.Context, kind positiondomain.ReaderKind) (dto.EngineInfo, bool, error) {
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return dto.EngineInfo{}, false, err
	}
	for _, m := range manifests {
		if !m.Enabled || !m.Declares(kind) {
			continue
		}
		if checksumMatches(m.Binary, m.SHA256) != nil {
			continue
		}
		return toInfo(m), true, nil
	}
	return dto.EngineInfo{}, false, nil
}

// Attach starts the named engine and returns a session bound to one book file.
func (s *EngineService) Attach(ctx context.Context, engineName, bookPath string) (*BookSession, error) {
	manifest, err := s.getRunnableManifest(ctx, engineName)
	if err != nil {
		return nil, err
	}
	conn, err := s.host.Dial(ctx, manifest)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("%w: %s", domain.ErrEngineTimeout, engineName)
		}
		return nil, err
	}
	return &BookSession{engine: manifest.Name, path: bookPath, conn: conn}, nil
}

type BookSession struct {
	engine string
	path   string
	conn   engineout.Conn
}

func (b *BookSession) Engine() string {
	return b.engine
}

func (b *BookSession) TableOfContents(ctx context.Context) ([]readerdomain.TOCEntry, error) {
	return b.conn.TableOfContents(ctx, b.path)
}

func (b *BookSession) PositionCount(ctx context.Context) (readerdomain.PageInfo, error) {
	return b.conn.PositionCount(ctx, b.path)
}

func (b *BookSession) Locate(ctx context.Context, page int) (readerdomain.PageView, error) {
	return b.conn.Locate(ctx, b.path, page)
}

func (b *BookSession) CurrentLocator(ctx context.Context) (readerdomain.Locator, bool, error) {
	return b.conn.CurrentLocator(ctx, b.path)
}

func (b *BookSession) Close() error {
	b.conn.Close()
	return nil
}

func (s *EngineService) loadValidated(ctx context.Context) ([]domain.Manifest, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	seenNames := map[string]struct{}{}
	for _, manifest := range manifests {
		if err := manifest.Validate(); err != nil {
			return nil, err
		}
		if _, ok := seenNames[manifest.Name]; ok {
			return nil, fmt.Errorf("duplicate engine name: %s", manifest.Name)
		}
		seenNames[manifest.Name] = struct{}{}
	}
	return manifests, nil
}

func (s *EngineService) getRunnableManifest(ctx context.Context, engineName string) (domain.Manifest, error) {
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return domain.Manifest{}, err
	}
	for _, manifest := range manifests {
		if manifest.Name != engineName {
			continue
		}
		if !manifest.Enabled {
			return domain.Manifest{}, fmt.Errorf("%w: %s", domain.ErrEngineDisabled, engineName)
		}
		if err := checksumMatches(manifest.Binary, manifest.SHA256); err != nil {
			return domain.Manifest{}, err
		}
		return manifest, nil
	}
	return domain.Manifest{}, fmt.Errorf("%w: %q", domain.ErrEngineNotFound, engineName)
}

func toInfo(m domain.Manifest) dto.EngineInfo {
	return dto.EngineInfo{Name: m.Name, Version: m.Version, Enabled: m.Enabled, Binary: m.Binary, Kinds: append([]string(nil), m.Kinds...)}
}

func checksumMatches(path string, expected string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read engine binary: %w", err)
	}
	hash := sha256.Sum256(payload)
	if hex.EncodeToString(hash[:]) != expected {
		return fmt.Errorf("%w: %s", domain.ErrChecksumMismatch, filepath.Base(path))
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
