package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dotcommander/tick/internal/app"
	"github.com/dotcommander/tick/internal/output"
	"github.com/dotcommander/tick/internal/store"
)

// NewDBCmd creates the db command group.
func NewDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database utilities",
		Args:  cobra.NoArgs,
	}

	cmd.AddCommand(newDBPathCmd())
	cmd.AddCommand(newDBStatusCmd())
	cmd.AddCommand(newDBDoctorCmd())
	return cmd
}

func newDBPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the resolved database path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := resolveMode(cmd)
			path, source, err := app.ResolveDBPathForMode(mode)
			if err != nil {
				return cmdErr(cmd, err)
			}

			type resp struct {
				Path   string `json:"path"`
				Source string `json:"source"`
				Mode   string `json:"mode"`
			}
			if jsonOutput(cmd) {
				return printJSON(cmd, output.Success(resp{Path: path, Source: source, Mode: mode.String()}))
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "path = %s, source = %s, mode = %s\n", path, source, mode)
			return err
		},
	}
}

func newDBStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the schema version of the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var current, latest int64
			if err := withDB(cmd, func(db *DB) error {
				var err error
				current, latest, err = store.SchemaVersion(db)
				return err
			}); err != nil {
				return err
			}

			type resp struct {
				SchemaVersion int64 `json:"schema_version"`
				LatestVersion int64 `json:"latest_version"`
				UpToDate      bool  `json:"up_to_date"`
			}
			if jsonOutput(cmd) {
				return printJSON(cmd, output.Success(resp{SchemaVersion: current, LatestVersion: latest, UpToDate: current >= latest}))
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "schema_version = %d, latest_version = %d, up_to_date = %t\n", current, latest, current >= latest)
			return err
		},
	}
}
