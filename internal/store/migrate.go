package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strconv"
	"strings"

	"github.com/pressly/goose/v3"

	"github.com/dotcommander/tick/internal/models"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// EnsureSchema creates the tasks relation if it does not exist yet.
// Calling it against an up-to-date database is a no-op.
func EnsureSchema(db *sql.DB) error {
	if err := RunMigrations(db); err != nil {
		return &models.StorageError{Op: "ensure schema", Err: err}
	}
	return nil
}

// MigrateDB runs all pending migrations with a file lock to prevent concurrent
// migration races. For in-memory databases, the lock is skipped.
func MigrateDB(db *sql.DB, dbPath string) error {
	if !strings.Contains(dbPath, ":memory:") && !strings.HasPrefix(dbPath, "file:") {
		lock, err := acquireMigrationLock(dbPath)
		if err != nil {
			return fmt.Errorf("migration lock: %w", err)
		}
		defer lock.release()
	}
	return EnsureSchema(db)
}

// SchemaVersion returns the current and latest migration versions.
// current comes from goose_db_version; latest is the highest version
// in the embedded migration files. Returns (0, latest, nil) for a fresh DB.
func SchemaVersion(db *sql.DB) (current int64, latest int64, err error) {
	if err := configureGoose(); err != nil {
		return 0, 0, err
	}

	// goose.GetDBVersion creates its version table when missing; a database
	// tick never migrated reports version 0 and stays untouched.
	hasVersionTable, err := tableExists(db, "goose_db_version")
	if err != nil {
		return 0, 0, fmt.Errorf("inspect schema: %w", err)
	}
	if hasVersionTable {
		current, err = goose.GetDBVersion(db)
		if err != nil {
			return 0, 0, fmt.Errorf("read schema version: %w", err)
		}
	}

	latest, err = latestMigrationVersion()
	if err != nil {
		return current, 0, fmt.Errorf("determine latest version: %w", err)
	}
	return current, latest, nil
}

func tableExists(db *sql.DB, name string) (bool, error) {
	var n int
	err := db.QueryRowContext(context.Background(),
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// latestMigrationVersion reads the embedded migrations directory and returns
// the highest version number found.
func latestMigrationVersion() (int64, error) {
	entries, err := embedMigrations.ReadDir("migrations")
	if err != nil {
		return 0, fmt.Errorf("read migrations dir: %w", err)
	}
	var maxVersion int64
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		// "00002_name.sql" -> 2
		idx := strings.IndexByte(name, '_')
		if idx <= 0 {
			continue
		}
		v, err := strconv.ParseInt(name[:idx], 10, 64)
		if err != nil {
			continue
		}
		if v > maxVersion {
			maxVersion = v
		}
	}
	return maxVersion, nil
}

// RunMigrations runs all pending migrations using goose.
func RunMigrations(db *sql.DB) error {
	if err := configureGoose(); err != nil {
		return err
	}
	return goose.Up(db, "migrations")
}

func configureGoose() error {
	goose.SetBaseFS(embedMigrations)
	goose.SetVerbose(false) // keep stdout for command output
	goose.SetLogger(goose.NopLogger())

	// goose uses "sqlite3" as its dialect name regardless of the underlying driver.
	// We use modernc.org/sqlite (registered as "sqlite"), but goose's dialect
	// controls SQL generation, not the driver name.
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}
	return nil
}
