package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Mode selects which backing store a command runs against.
type Mode int

const (
	// ModeNormal uses the user's tasks.db.
	ModeNormal Mode = iota
	// ModeDryRun redirects storage to a throwaway test_tasks.db.
	ModeDryRun
	// ModeEphemeral uses a transient in-memory store.
	ModeEphemeral
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeDryRun:
		return "dry-run"
	case ModeEphemeral:
		return "ephemeral"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// MemoryPath is the path token that selects an in-memory database.
const MemoryPath = ":memory:"

const (
	defaultDBFile       = "tasks.db"
	defaultDryRunDBFile = "test_tasks.db"
)

// GetDBPathForMode resolves the database path for the given execution mode.
func GetDBPathForMode(mode Mode) (string, error) {
	path, _, err := ResolveDBPathForMode(mode)
	return path, err
}

// ResolveDBPathForMode is ResolveDBPathDetailed extended to dry-run and ephemeral modes.
// Dry-run uses config.yaml dry_run_db_path, else test_tasks.db next to the normal database.
func ResolveDBPathForMode(mode Mode) (path string, source string, err error) {
	switch mode {
	case ModeNormal:
		return ResolveDBPathDetailed()
	case ModeEphemeral:
		return MemoryPath, "ephemeral", nil
	case ModeDryRun:
		cfg, err := LoadSettings()
		if err != nil {
			return "", "", fmt.Errorf("failed to load config: %w", err)
		}
		if cfg.DryRunDBPath != "" {
			resolved, ensureErr := EnsureDBDir(cfg.DryRunDBPath)
			return resolved, "config(dry_run_db_path)", ensureErr
		}
		normal, _, err := ResolveDBPathDetailed()
		if err != nil {
			return "", "", err
		}
		resolved, err := EnsureDBDir(filepath.Join(filepath.Dir(normal), defaultDryRunDBFile))
		return resolved, "dry-run(" + defaultDryRunDBFile + ")", err
	default:
		return "", "", fmt.Errorf("unknown mode %s", mode)
	}
}

// ResolveDBPathDetailed resolves the normal-mode path and reports its source.
// Order of precedence:
// 1) CLI override (e.g. --db-path)
// 2) Environment variable: TICK_DB_PATH
// 3) config.yaml: db_path
// 4) Default: ~/.config/tick/tasks.db
// Ensures the parent directory exists.
func ResolveDBPathDetailed() (path string, source string, err error) {
	if override := getDBPathOverride(); override != "" {
		resolvedPath, ensureErr := EnsureDBDir(override)
		return resolvedPath, "cli(--db-path)", ensureErr
	}

	if envPath := os.Getenv("TICK_DB_PATH"); envPath != "" {
		resolvedPath, ensureErr := EnsureDBDir(envPath)
		return resolvedPath, "env(TICK_DB_PATH)", ensureErr
	}

	paths, err := configPaths()
	if err != nil {
		return "", "", fmt.Errorf("failed to determine config directory: %w", err)
	}

	for _, p := range paths {
		s, loadErr := loadSettingsFile(p)
		if loadErr == nil {
			if s.DBPath != "" {
				resolvedPath, ensureErr := EnsureDBDir(s.DBPath)
				return resolvedPath, fmt.Sprintf("config(%s)", p), ensureErr
			}
			// File exists but no db_path set; keep looking.
			continue
		}
		if errors.Is(loadErr, os.ErrNotExist) {
			continue
		}
		return "", "", fmt.Errorf("failed to load config %s: %w", p, loadErr)
	}

	configDir, err := ConfigDir()
	if err != nil {
		return "", "", fmt.Errorf("failed to determine config directory: %w", err)
	}
	resolved, err := EnsureDBDir(filepath.Join(configDir, defaultDBFile))
	return resolved, "default(~/.config/tick/tasks.db)", err
}

// EnsureDBDir creates the parent directory of dbPath. In-memory paths are returned as-is.
func EnsureDBDir(dbPath string) (string, error) {
	if dbPath == MemoryPath {
		return dbPath, nil
	}
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create database directory: %w", err)
	}
	return dbPath, nil
}
