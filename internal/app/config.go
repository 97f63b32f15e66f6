package app

import (
	"os"
	"path/filepath"
)

// ConfigDir returns ~/.config/tick/ on all platforms.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "tick"), nil
}

// EnsureConfigDir creates the config directory and default config.yaml if missing.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	configFile := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return os.WriteFile(configFile, []byte(defaultConfig), 0600)
	}
	return nil
}

const defaultConfig = `# tick configuration
# Run: tick --help

# Optional: override the SQLite database location.
# Can also be set via TICK_DB_PATH or --db-path.
# db_path: ~/.config/tick/tasks.db

# Optional: database used by --dry-test. Defaults to test_tasks.db next to db_path.
# dry_run_db_path: /tmp/test_tasks.db

# Exit 0 when an id is not found (the error is still printed).
# Can also be set via TICK_SOFT_NOT_FOUND=1.
# soft_not_found: false
`
