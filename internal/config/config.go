// internal/config/config.go
//
// This package resolves where the habit document and the log file live and
// how often the document is polled. A starter document is written the first
// time the chart is opened so there is something to edit.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// AppName names the state directory and log file.
	AppName = "habitchart"

	// DocumentFile is the default habit document name.
	DocumentFile = "habits.yaml"

	// PollIntervalEnv overrides the polling period (Go duration syntax).
	PollIntervalEnv = "HABITCHART_POLL_INTERVAL"

	defaultPollInterval = 10 * time.Second
	minPollInterval     = 100 * time.Millisecond
)

const starterDocumentYAML = `# habit chart
# Each icon is checked at most once per day. Icons must not contain one
# another, and must not contain ⭐️ or 🌟 (they mark finished days).
habits:
  🏃: run
  📖: read
  💧: drink water

# Extra credit. These never decide whether the day is done, and a chart
# with no habits above never earns ⭐️.
bonus:
  🧘: meditate

# Days end at this hour instead of midnight (0-23).
reset at hour: 3

# Title style: leave empty for the day's icons, or use stars / none.
title mode: ""

sound: true

log: {}
`

// Config holds the runtime configuration for the habit chart.
type Config struct {
	// DocumentPath is the habit YAML file.
	DocumentPath string

	// LogPath is where diagnostics are appended.
	LogPath string

	// PollInterval is how often the document is checked for edits.
	PollInterval time.Duration
}

type environment struct {
	getenv  func(string) string
	homeDir func() (string, error)
}

// Resolve builds the configuration. documentArg is the optional CLI path
// argument; when empty the path comes from $XDG_CONFIG_HOME, falling back to
// ~/.config.
func Resolve(documentArg string) (*Config, error) {
	return resolve(documentArg, environment{getenv: os.Getenv, homeDir: os.UserHomeDir})
}

func resolve(documentArg string, env environment) (*Config, error) {
	home, homeErr := env.homeDir()
	if homeErr != nil {
		home = ""
	}

	docPath := strings.TrimSpace(documentArg)
	if docPath == "" {
		base := strings.TrimSpace(env.getenv("XDG_CONFIG_HOME"))
		if base == "" {
			base = filepath.Join("~", ".config")
		}
		docPath = filepath.Join(base, DocumentFile)
	}

	stateBase := strings.TrimSpace(env.getenv("XDG_STATE_HOME"))
	if stateBase == "" {
		stateBase = filepath.Join("~", ".local", "state")
	}

	cfg := &Config{
		DocumentPath: expandHome(docPath, home),
		LogPath:      expandHome(filepath.Join(stateBase, AppName, AppName+".log"), home),
		PollInterval: defaultPollInterval,
	}
	if raw := strings.TrimSpace(env.getenv(PollIntervalEnv)); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", PollIntervalEnv, err)
		}
		cfg.PollInterval = d
	}

	if err := cfg.validate(); err != nil {
		if homeErr != nil {
			return nil, fmt.Errorf("config: %w (home directory: %v)", err, homeErr)
		}
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	for _, path := range []string{c.DocumentPath, c.LogPath} {
		if strings.HasPrefix(path, "~") {
			return fmt.Errorf("cannot expand %s without a home directory", path)
		}
	}
	if c.PollInterval < minPollInterval {
		return fmt.Errorf("%s must be at least %s, got %s", PollIntervalEnv, minPollInterval, c.PollInterval)
	}
	return nil
}

// EnsureDocument writes the starter document when path does not exist yet.
// It reports whether a file was created.
func EnsureDocument(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("config: ensure document dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(starterDocumentYAML), 0o644); err != nil {
		return false, fmt.Errorf("config: write starter document: %w", err)
	}
	return true, nil
}

func expandHome(path, home string) string {
	if home == "" {
		return filepath.Clean(path)
	}
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~"+string(filepath.Separator)) || strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return filepath.Clean(path)
}
