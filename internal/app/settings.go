package app

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"gopkg.in/yaml.v3"
)

// Settings represents configuration loaded from config.yaml.
// Field names match snake_case YAML keys.
type Settings struct {
	DBPath       string `yaml:"db_path"`
	DryRunDBPath string `yaml:"dry_run_db_path"`
	SoftNotFound bool   `yaml:"soft_not_found"`
}

// settingsOnce, settings, settingsErr implement the sync.Once lazy-load singleton for config.
// dbPathOverrideMu and dbPathOverride hold the process-wide --db-path override.
//
//nolint:gochecknoglobals // sync.Once singleton + RWMutex override are intentional process-wide state
var (
	settingsOnce sync.Once
	settings     Settings
	settingsErr  error

	dbPathOverrideMu sync.RWMutex
	dbPathOverride   string
)

// SetDBPathOverride sets a process-wide database path override.
// Intended for CLI flag support (e.g. --db-path).
func SetDBPathOverride(path string) {
	dbPathOverrideMu.Lock()
	dbPathOverride = path
	dbPathOverrideMu.Unlock()
}

func getDBPathOverride() string {
	dbPathOverrideMu.RLock()
	v := dbPathOverride
	dbPathOverrideMu.RUnlock()
	return v
}

// configPaths lists config files in lookup order. LoadSettings and
// ResolveDBPathDetailed must agree on it.
func configPaths() ([]string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	return []string{
		filepath.Join(dir, "config.yaml"),
		filepath.Join(string(os.PathSeparator), "etc", "tick", "config.yaml"),
		"config.yaml",
	}, nil
}

// LoadSettings loads configuration once using the documented lookup order.
// Lookup order (first found wins):
// 1) ~/.config/tick/config.yaml
// 2) /etc/tick/config.yaml
// 3) ./config.yaml (lowest priority; allows repo-local overrides if desired)
// Environment variables are handled separately.
func LoadSettings() (Settings, error) {
	settingsOnce.Do(func() {
		settings = Settings{}

		paths, err := configPaths()
		if err != nil {
			settingsErr = err
			return
		}

		for _, p := range paths {
			s, err := loadSettingsFile(p)
			if err == nil {
				settings = s
				return
			}
			if !errors.Is(err, os.ErrNotExist) {
				settingsErr = err
				return
			}
		}
	})

	return settings, settingsErr
}

// SoftNotFound reports whether a not-found error should exit 0.
// TICK_SOFT_NOT_FOUND wins over config.yaml when set to a valid boolean.
func SoftNotFound() bool {
	if v := os.Getenv("TICK_SOFT_NOT_FOUND"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	s, err := LoadSettings()
	if err != nil {
		return false
	}
	return s.SoftNotFound
}

func loadSettingsFile(path string) (Settings, error) {
	b, err := os.ReadFile(path) //nolint:gosec // G304: config paths are fixed locations
	if err != nil {
		return Settings{}, err
	}

	var s Settings
	if err := yaml.Unmarshal(b, &s); err != nil {
		return Settings{}, err
	}
	return s, nil
}
