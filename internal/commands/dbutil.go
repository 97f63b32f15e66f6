package commands

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dotcommander/tick/internal/app"
	"github.com/dotcommander/tick/internal/models"
	"github.com/dotcommander/tick/internal/output"
	"github.com/dotcommander/tick/internal/store"
)

// DB is an alias so command code doesn't need to import database/sql.
type DB = sql.DB

type printedError struct {
	err error
}

func (e printedError) Error() string {
	// Intentionally hide the original error: the log line is the output.
	return "error already printed"
}

func openDB(mode app.Mode) (*DB, func(), error) {
	db, err := store.Open(mode)
	if err != nil {
		return nil, nil, err
	}
	return db, func() { _ = db.Close() }, nil
}

// withDB opens the store for the command's mode, runs fn, and closes the store.
// Errors from either step go through cmdErr.
func withDB(cmd *cobra.Command, fn func(db *DB) error) error {
	db, closeDB, err := openDB(resolveMode(cmd))
	if err != nil {
		return cmdErr(cmd, err)
	}
	defer closeDB()

	if err := fn(db); err != nil {
		return cmdErr(cmd, err)
	}
	return nil
}

// cmdErr logs err once and marks it printed. Under --json the error envelope
// is also written to stdout. With soft not-found enabled, a NotFoundError is
// logged as a warning and the command succeeds.
func cmdErr(cmd *cobra.Command, err error) error {
	if err == nil {
		return nil
	}
	attrs := []any{"error", err.Error()}
	var recoverable models.RecoverableError
	if errors.As(err, &recoverable) {
		attrs = append(attrs, "code", recoverable.ErrorCode(), "suggested_action", recoverable.SuggestedAction())
	}

	if jsonOutput(cmd) {
		if printErr := printJSON(cmd, output.Error(err)); printErr != nil {
			attrs = append(attrs, "output_error", printErr.Error())
		}
	}

	if errors.Is(err, models.ErrNotFound) && app.SoftNotFound() {
		slog.Warn("command error", attrs...)
		return nil
	}

	slog.Error("command error", attrs...)
	return printedError{err: err}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
