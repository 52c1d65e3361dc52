package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"folio/internal/platform/id"
)

const (
	stateDirName   = ".folio"
	deviceIDFile   = "device-id"
	configFileName = "folio.yaml"
	envPrefix      = "FOLIO"
)

type (
	Config struct {
		LibraryPath string
		StateDir    string
		DBPath      string
		DeviceID    string
		Dictionary
		Relay
		Log
	}

	Dictionary struct {
		ServerURL string
		Timeout   time.Duration
	}

	Relay struct {
		RemoteURL  string
		Schedule   string // cron format, "*/15 * * * *" = every 15 minutes
		ListenAddr string
		OutboxPath string
	}

	Log struct {
		Level string
		JSON  bool
		Path  string
	}
)

// Load layers defaults, <library>/folio.yaml (or configFile) and FOLIO_* environment variables.
func Load(libraryPath, configFile string) (Config, error) {
	if libraryPath == "" {
		return Config{}, fmt.Errorf("library path is required")
	}
	libraryPath, err := filepath.Abs(libraryPath)
	if err != nil {
		return Config{}, fmt.Errorf("resolve library path: %w", err)
	}
	stateDir := filepath.Join(libraryPath, stateDirName)

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("device_id", "")
	v.SetDefault("db_path", filepath.Join(stateDir, "folio.db"))
	v.SetDefault("dictionary.server_url", "")
	v.SetDefault("dictionary.timeout", "5s")
	v.SetDefault("relay.remote_url", "")
	v.SetDefault("relay.schedule", "*/15 * * * *")
	v.SetDefault("relay.listen_addr", "127.0.0.1:8787")
	v.SetDefault("relay.outbox_path", filepath.Join(stateDir, "outbox.jsonl"))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.path", filepath.Join(stateDir, "folio.log"))

	explicit := configFile != ""
	if !explicit {
		configFile = filepath.Join(libraryPath, configFileName)
	}
	v.SetConfigFile(configFile)
	if err := v.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	cfg := Config{
		LibraryPath: libraryPath,
		StateDir:    stateDir,
		DBPath:      v.GetString("db_path"),
		DeviceID:    strings.TrimSpace(v.GetString("device_id")),
		Dictionary: Dictionary{
			ServerURL: v.GetString("dictionary.server_url"),
			Timeout:   v.GetDuration("dictionary.timeout"),
		},
		Relay: Relay{
			RemoteURL:  v.GetString("relay.remote_url"),
			Schedule:   v.GetString("relay.schedule"),
			ListenAddr: v.GetString("relay.listen_addr"),
			OutboxPath: v.GetString("relay.outbox_path"),
		},
		Log: Log{
			Level: v.GetString("log.level"),
			JSON:  v.GetBool("log.json"),
			Path:  v.GetString("log.path"),
		},
	}
	if cfg.DeviceID == "" {
		deviceID, err := ensureDeviceID(stateDir, id.UUID{})
		if err != nil {
			return Config{}, err
		}
		cfg.DeviceID = deviceID
	}
	return cfg, nil
}

// ensureDeviceID returns the id persisted in the state dir, creating one on first use.
func ensureDeviceID(stateDir string, ids id.Generator) (string, error) {
	path := filepath.Join(stateDir, deviceIDFile)
	raw, err := os.ReadFile(path)
	if err == nil {
		if existing := strings.TrimSpace(string(raw)); existing != "" {
			return existing, nil
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("read device id: %w", err)
	}

	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return "", fmt.Errorf("create state dir: %w", err)
	}
	deviceID := ids.New()
	if err := os.WriteFile(path, []byte(deviceID+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("write device id: %w", err)
	}
	return deviceID, nil
}
