package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotcommander/tick/internal/app"
	"github.com/dotcommander/tick/internal/output"
)

// Execute runs the CLI application.
func Execute(version string) error {
	slog.SetDefault(newLogger(os.Stderr, false))

	root := NewRootCmd(version)
	err := root.Execute()
	if err != nil {
		var pe printedError
		if !errors.As(err, &pe) {
			slog.Error("command failed", "error", err.Error())
		}
	}
	return err
}

// NewRootCmd builds the full command tree.
func NewRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:           "tick",
		Short:         "Track tasks in a local SQLite database",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			showVersion, _ := cmd.Flags().GetBool("version")
			if showVersion {
				if jsonOutput(cmd) {
					type resp struct {
						Version string `json:"version"`
					}
					return printJSON(cmd, output.Success(resp{Version: version}))
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "tick %s\n", version)
				return err
			}
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			slog.SetDefault(newLogger(cmd.ErrOrStderr(), jsonOutput(cmd)))

			if err := app.EnsureConfigDir(); err != nil {
				return err
			}

			// Wire --db-path into app-level resolver.
			if dbPath, err := cmd.Flags().GetString("db-path"); err == nil && dbPath != "" {
				app.SetDBPathOverride(dbPath)
			}

			return nil
		},
	}

	root.PersistentFlags().String("db-path", "", "Override database path")
	root.PersistentFlags().BoolP("dry-test", "t", false, "Dry run: use test_tasks.db instead of the real database")
	root.PersistentFlags().Bool("ephemeral", false, "Use a throwaway in-memory database")
	_ = root.PersistentFlags().MarkHidden("ephemeral")
	root.PersistentFlags().Bool("json", false, "Print results as JSON")
	root.Flags().BoolP("version", "v", false, "version for tick")

	root.AddCommand(newAddCmd())
	root.AddCommand(newUpdateCmd())
	root.AddCommand(newGetCmd())
	root.AddCommand(newDeleteCmd())
	root.AddCommand(NewDBCmd())

	return root
}

// newLogger returns the process logger: JSON when --json is set, logfmt text otherwise.
func newLogger(w io.Writer, asJSON bool) *slog.Logger {
	if asJSON {
		return slog.New(slog.NewJSONHandler(w, nil))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}

func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

// resolveMode maps --ephemeral and --dry-test to an execution mode.
// --ephemeral wins when both are set.
func resolveMode(cmd *cobra.Command) app.Mode {
	if v, _ := cmd.Flags().GetBool("ephemeral"); v {
		return app.ModeEphemeral
	}
	if v, _ := cmd.Flags().GetBool("dry-test"); v {
		return app.ModeDryRun
	}
	return app.ModeNormal
}

func printJSON(cmd *cobra.Command, v any) error {
	pretty := os.Getenv("TICK_PRETTY_JSON") == "1" || os.Getenv("TICK_PRETTY_JSON") == "true"
	return output.PrintWith(output.Config{Writer: cmd.OutOrStdout(), Pretty: pretty}, v)
}
