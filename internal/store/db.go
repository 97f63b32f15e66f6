package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/dotcommander/tick/internal/app"
	_ "modernc.org/sqlite"
)

// defaultBusyTimeoutMS is the SQLite busy_timeout in milliseconds.
// Override with TICK_BUSY_TIMEOUT_MS for environments with high contention.
const defaultBusyTimeoutMS = 5000

// memoryDBSeq names each in-memory database so separate opens never share state.
var memoryDBSeq atomic.Int64 //nolint:gochecknoglobals // process-wide counter for unique in-memory DSNs

// Open resolves the database for mode and initializes it.
func Open(mode app.Mode) (*sql.DB, error) {
	dbPath, err := app.GetDBPathForMode(mode)
	if err != nil {
		return nil, err
	}
	return InitDBWithPath(dbPath)
}

// InitDBWithPath opens the database at dbPath, applies pragmas and ensures the
// schema. ":memory:" opens a fresh ephemeral store.
func InitDBWithPath(dbPath string) (*sql.DB, error) {
	db, err := OpenWithoutMigrations(dbPath)
	if err != nil {
		return nil, err
	}

	if err := RetryWithBackoff(func() error { return MigrateDB(db, dbPath) }); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// OpenWithoutMigrations opens dbPath and applies pragmas but leaves the schema
// as found. Used to inspect a database before tick has touched it.
func OpenWithoutMigrations(dbPath string) (*sql.DB, error) {
	if _, err := app.EnsureDBDir(dbPath); err != nil {
		return nil, err
	}

	// modernc.org/sqlite is strict about DSNs. Use a file: URI with mode=rwc
	// so the database can be created/written consistently across platforms.
	db, err := sql.Open("sqlite", normalizeSQLiteDSN(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: a CLI invocation runs one operation at a time, and an
	// in-memory database lives only as long as its connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	busyTimeout := defaultBusyTimeoutMS
	if v := os.Getenv("TICK_BUSY_TIMEOUT_MS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			busyTimeout = parsed
		}
	}

	// busy_timeout goes first so the WAL switch waits on locks held by another process.
	pragmas := []string{
		fmt.Sprintf("PRAGMA busy_timeout=%d", busyTimeout),
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA journal_mode=WAL",
	}

	for _, pragma := range pragmas {
		if err := RetryWithBackoff(func() error {
			_, err := db.ExecContext(context.Background(), pragma)
			return err
		}); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	return db, nil
}

func normalizeSQLiteDSN(dbPath string) string {
	// Support an explicit file: DSN as-is.
	if strings.HasPrefix(dbPath, "file:") {
		return dbPath
	}

	if dbPath == app.MemoryPath {
		return fmt.Sprintf("file:tick-mem-%d?mode=memory&cache=shared", memoryDBSeq.Add(1))
	}

	// mode=rwc => read/write/create. Without this, some environments open read-only.
	return "file:" + dbPath + "?mode=rwc"
}
