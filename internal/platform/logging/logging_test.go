package logging_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"folio/internal/platform/config"
	"folio/internal/platform/logging"
)

func TestNewJSONLoggerWritesNamedRecords(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := logging.New(config.Log{Level: "debug", JSON: true}, buf)
	logger.Named("shell").Debug("session opened", "book", "dune")

	record := map[string]any{}
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if record["@module"] != "folio.shell" {
		t.Fatalf("unexpected module %v", record["@module"])
	}
	if record["book"] != "dune" {
		t.Fatalf("unexpected book field %v", record["book"])
	}
}

func TestNewFallsBackToInfo(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := logging.New(config.Log{Level: "nonsense"}, buf)
	logger.Debug("hidden")
	logger.Info("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestOpenFileCreatesParents(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".folio", "folio.log")
	f, err := logging.OpenFile(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	_ = f.Close()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected log file: %v", err)
	}
}
