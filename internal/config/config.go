package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config is the root configuration for hdays, stored in
// ~/.hdays/config.json. The file supports single-line // comments for
// documentation purposes.
type Config struct {
	Remote RemoteConfig `json:"remote"`
	Watch  WatchConfig  `json:"watch"`
}

// RemoteConfig holds challenge service settings.
type RemoteConfig struct {
	// BaseURL is the challenge service endpoint. Empty disables sync.
	BaseURL string `json:"base_url"`
	// Token is the bearer token for the challenge service.
	Token string `json:"token"`
}

// WatchConfig holds watch-mode settings.
type WatchConfig struct {
	// Paths are the workspace directories whose file changes trigger
	// milestone re-evaluation.
	Paths []string `json:"paths"`
	// DebounceMillis is the quiet period after a burst of file changes
	// before evaluation runs.
	DebounceMillis int `json:"debounce_millis"`
	// Schedule is the cron spec for periodic evaluation and sync.
	Schedule string `json:"schedule"`
}

const (
	// DefaultDebounceMillis coalesces editor save bursts.
	DefaultDebounceMillis = 1500
	// DefaultSchedule re-evaluates and syncs every 30 minutes.
	DefaultSchedule = "@every 30m"
)

// defaultConfig returns a Config pre-filled with sensible defaults.
func defaultConfig() Config {
	return Config{
		Watch: WatchConfig{
			Paths:          []string{},
			DebounceMillis: DefaultDebounceMillis,
			Schedule:       DefaultSchedule,
		},
	}
}

// configTemplate is the annotated config written on first run. Lines
// whose trimmed content starts with // are stripped before JSON parsing,
// allowing human-readable documentation inside the file.
const configTemplate = `// hdays configuration – ~/.hdays/config.json
//
// All settings are optional. Edit this file to customise hdays behaviour.
// HDAYS_REMOTE_URL and HDAYS_TOKEN environment variables (or a .env file
// next to this one) override the remote settings below.
{
  // ── Challenge service sync ───────────────────────────────────────────────
  "remote": {
    // Endpoint of the challenge service. Leave empty to track locally only.
    "base_url": "",

    // Bearer token for the challenge service.
    "token": ""
  },

  // ── Watch mode (hdays watch) ─────────────────────────────────────────────
  "watch": {
    // Workspace directories whose file changes trigger re-evaluation.
    "paths": [],

    // Quiet period in milliseconds after a burst of file changes.
    "debounce_millis": 1500,

    // Cron schedule for periodic evaluation and sync.
    "schedule": "@every 30m"
  }
}
`

// configFilePath returns the path to ~/.hdays/config.json.
func configFilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".hdays", "config.json"), nil
}

// stripLineComments removes lines whose leading non-whitespace content
// starts with //. Only full-line comments are handled.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads ~/.hdays/config.json, creating it with annotated defaults on
// first run, then applies .env / environment overrides.
func Load() (Config, error) {
	path, err := configFilePath()
	if err != nil {
		return defaultConfig(), err
	}

	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
	case err != nil:
		return defaultConfig(), fmt.Errorf("reading config file %s: %w", path, err)
	default:
		cleaned := stripLineComments(data)
		if err := json.Unmarshal(cleaned, &cfg); err != nil {
			return defaultConfig(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
		}
	}

	// Fill zero-value fields so callers always get a usable Config even
	// if the user only partially fills in the file.
	if cfg.Watch.DebounceMillis <= 0 {
		cfg.Watch.DebounceMillis = DefaultDebounceMillis
	}
	if cfg.Watch.Schedule == "" {
		cfg.Watch.Schedule = DefaultSchedule
	}
	if cfg.Watch.Paths == nil {
		cfg.Watch.Paths = []string{}
	}

	applyEnvOverrides(&cfg, filepath.Dir(path))
	return cfg, nil
}

// applyEnvOverrides overlays HDAYS_REMOTE_URL / HDAYS_TOKEN from the
// environment, loading ~/.hdays/.env first if present.
func applyEnvOverrides(cfg *Config, dir string) {
	_ = godotenv.Load(filepath.Join(dir, ".env"))
	if v := os.Getenv("HDAYS_REMOTE_URL"); v != "" {
		cfg.Remote.BaseURL = v
	}
	if v := os.Getenv("HDAYS_TOKEN"); v != "" {
		cfg.Remote.Token = v
	}
}

// writeDefault creates the config directory and writes the annotated
// default config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
