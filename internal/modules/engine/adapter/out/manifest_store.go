package out

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"folio/internal/modules/engine/domain"
	engineout "folio/internal/modules/engine/port/out"
)

// FileManifestStore reads <library>/engines/engines.json; relative binaries resolve against that directory.
type FileManifestStore struct {
	dir  string
	path string
}

func NewFileManifestStore(libraryPath string) engineout.ManifestStore {
	dir := filepath.Join(libraryPath, "engines")
	return &FileManifestStore{dir: dir, path: filepath.Join(dir, "engines.json")}
}

func (s *FileManifestStore) Load(_ context.Context) ([]domain.Manifest, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Manifest{}, nil
		}
		return nil, fmt.Errorf("read engine manifest store: %w", err)
	}
	var manifests []domain.Manifest
	decoder := json.NewDecoder(bytes.NewReader(b))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&manifests); err != nil {
		return nil, fmt.Errorf("decode engine manifests: %w", err)
	}
	for i := range manifests {
		if manifests[i].Binary != "" && !filepath.IsAbs(manifests[i].Binary) {
			manifests[i].Binary = filepath.Clean(filepath.Join(s.dir, manifests[i].Binary))
		}
	}
	return manifests, nil
}
