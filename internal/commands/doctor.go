package commands

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotcommander/tick/internal/app"
	"github.com/dotcommander/tick/internal/output"
	"github.com/dotcommander/tick/internal/store"
)

func newDBDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check database connectivity and consistency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := resolveMode(cmd)
			dbPath, dbSource, err := app.ResolveDBPathForMode(mode)
			if err != nil {
				return cmdErr(cmd, err)
			}

			type resp struct {
				DBPath      string             `json:"db_path"`
				DBSource    string             `json:"db_source"`
				DBOK        bool               `json:"db_ok"`
				DBErr       string             `json:"db_error,omitempty"`
				Diagnostics []store.Diagnostic `json:"diagnostics"`
				Hint        string             `json:"hint,omitempty"`
			}
			r := resp{DBPath: dbPath, DBSource: dbSource, Diagnostics: []store.Diagnostic{}}

			db, err := openForDiagnostics(dbPath)
			if err != nil {
				r.DBErr = err.Error()
				r.Hint = "run any tick task command to create it, or set db_path / --db-path to a writable location"
			} else {
				defer func() { _ = db.Close() }()
				diags, diagErr := store.RunDiagnostics(commandContext(cmd), db)
				if diagErr != nil {
					r.DBErr = diagErr.Error()
				} else {
					r.DBOK = true
					r.Diagnostics = diags
				}
			}

			if jsonOutput(cmd) {
				return printJSON(cmd, output.Success(r))
			}

			w := cmd.OutOrStdout()
			if _, err := fmt.Fprintf(w, "path = %s, source = %s, ok = %t\n", r.DBPath, r.DBSource, r.DBOK); err != nil {
				return err
			}
			if r.DBErr != "" {
				if _, err := fmt.Fprintf(w, "error: %s\n", r.DBErr); err != nil {
					return err
				}
			}
			if r.Hint != "" {
				if _, err := fmt.Fprintf(w, "hint: %s\n", r.Hint); err != nil {
					return err
				}
			}
			for _, d := range r.Diagnostics {
				if _, err := fmt.Fprintf(w, "%s %s: %s (%s)\n", d.Level, d.Code, d.Message, d.SuggestedAction); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// openForDiagnostics opens an existing file as found, so pending migrations
// show up as SCHEMA_OUTDATED. In-memory stores start empty and are migrated.
func openForDiagnostics(dbPath string) (*sql.DB, error) {
	if dbPath == app.MemoryPath {
		return store.InitDBWithPath(dbPath)
	}
	if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("database %s does not exist yet", dbPath)
	}
	return store.OpenWithoutMigrations(dbPath)
}
