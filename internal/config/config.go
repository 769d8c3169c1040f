package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures everything flockdash needs to reach the backend and to
// place its own files.
type Config struct {
	APIBaseURL     string
	SessionPath    string
	LogPath        string
	ExportDir      string
	RequestTimeout time.Duration
}

const (
	defaultConfigPath     = "~/.config/flockdash/config.toml"
	defaultAPIBaseURL     = "http://127.0.0.1:8080"
	defaultSessionPath    = "~/.config/flockdash/session.json"
	defaultLogPath        = "~/.local/state/flockdash/flockdash.log"
	defaultExportDir      = "."
	defaultRequestTimeout = 15 * time.Second
)

// Environment variables that override the file.
const (
	EnvAPIBaseURL     = "FLOCKDASH_API_BASE_URL"
	EnvSessionPath    = "FLOCKDASH_SESSION_PATH"
	EnvLogPath        = "FLOCKDASH_LOG_PATH"
	EnvExportDir      = "FLOCKDASH_EXPORT_DIR"
	EnvRequestTimeout = "FLOCKDASH_REQUEST_TIMEOUT"
)

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Load reads the env file (or ./.env when envFile is empty), then the TOML
// config at path, then applies FLOCKDASH_* overrides. A missing config file
// means defaults.
func Load(path, envFile string) (Config, error) {
	if err := loadEnv(envFile); err != nil {
		return Config{}, err
	}

	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	var raw struct {
		APIBaseURL     string `toml:"api_base_url"`
		SessionPath    string `toml:"session_path"`
		LogPath        string `toml:"log_path"`
		ExportDir      string `toml:"export_dir"`
		RequestTimeout string `toml:"request_timeout"`
	}

	file, err := os.Open(resolved)
	switch {
	case err == nil:
		defer file.Close()
		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(bytes, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("open config: %w", err)
	}

	cfg := Config{
		APIBaseURL:  pick(EnvAPIBaseURL, raw.APIBaseURL, defaultAPIBaseURL),
		SessionPath: mustExpand(pick(EnvSessionPath, raw.SessionPath, defaultSessionPath)),
		LogPath:     mustExpand(pick(EnvLogPath, raw.LogPath, defaultLogPath)),
		ExportDir:   mustExpand(pick(EnvExportDir, raw.ExportDir, defaultExportDir)),
	}

	timeout := pick(EnvRequestTimeout, raw.RequestTimeout, "")
	cfg.RequestTimeout = defaultRequestTimeout
	if timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse request_timeout %q: %w", timeout, err)
		}
		if d <= 0 {
			return Config{}, fmt.Errorf("request_timeout must be positive, got %s", d)
		}
		cfg.RequestTimeout = d
	}

	return cfg, nil
}

// loadEnv populates the process environment from an env file. Variables
// already set win over the file. The implicit ./.env may be absent; an
// explicit file must exist.
func loadEnv(envFile string) error {
	if strings.TrimSpace(envFile) == "" {
		_ = godotenv.Load()
		return nil
	}
	path, err := expandPath(envFile)
	if err != nil {
		return err
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", envFile, err)
	}
	return nil
}

// pick returns the first non-blank of the environment variable, the file
// value and the fallback.
func pick(envKey, fileValue, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
		return v
	}
	if v := strings.TrimSpace(fileValue); v != "" {
		return v
	}
	return fallback
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
