package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dotcommander/tick/internal/actions"
	"github.com/dotcommander/tick/internal/app"
	"github.com/dotcommander/tick/internal/models"
	"github.com/dotcommander/tick/internal/output"
)

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new task to the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			return runCommand(cmd, actions.Add{Name: name})
		},
	}

	cmd.Flags().StringP("name", "n", "", "Task's name (required)")
	return cmd
}

func newUpdateCmd() *cobra.Command {
	done := &doneValue{}
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Mark a task as done or undone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("id") {
				return cmdErr(cmd, errors.New("--id is required"))
			}
			if !done.set {
				return cmdErr(cmd, errors.New("--done is required (true|false)"))
			}
			raw, _ := cmd.Flags().GetUint64("id")
			id, err := taskID(raw)
			if err != nil {
				return cmdErr(cmd, err)
			}
			return runCommand(cmd, actions.Update{ID: id, Done: done.value})
		},
	}

	cmd.Flags().Uint64P("id", "i", 0, "Id of the task (required)")
	cmd.Flags().VarP(done, "done", "d", "Set task to done or not done (required)")
	return cmd
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(cmd, actions.Get{})
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return cmdErr(cmd, &models.ValidationError{Field: "id", Reason: fmt.Sprintf("expected an unsigned integer, got '%s'", args[0])})
			}
			id, err := taskID(raw)
			if err != nil {
				return cmdErr(cmd, err)
			}
			return runCommand(cmd, actions.Delete{ID: id})
		},
	}
}

func taskID(raw uint64) (int64, error) {
	if raw > math.MaxInt64 {
		return 0, &models.ValidationError{Field: "id", Reason: "out of range"}
	}
	return int64(raw), nil
}

// runCommand dispatches c against the store selected by the mode flags and
// renders the result.
func runCommand(cmd *cobra.Command, c actions.Command) error {
	if mode := resolveMode(cmd); mode != app.ModeNormal {
		slog.Info(actions.Describe(c), "mode", mode.String())
	}

	var result *actions.Result
	if err := withDB(cmd, func(db *DB) error {
		r, err := actions.Dispatch(commandContext(cmd), db, c)
		if err != nil {
			return err
		}
		result = r
		return nil
	}); err != nil {
		return err
	}
	if result == nil {
		// Soft not-found: the error was already reported.
		return nil
	}

	return render(cmd, result)
}

func render(cmd *cobra.Command, r *actions.Result) error {
	if jsonOutput(cmd) {
		return printJSON(cmd, output.Success(r))
	}

	w := cmd.OutOrStdout()
	switch r.Kind {
	case "get":
		return output.WriteTasks(w, r.Tasks)
	case "delete":
		if _, err := fmt.Fprintln(w, r.Message); err != nil {
			return err
		}
		return output.WriteTask(w, r.Task)
	default:
		return output.WriteTask(w, r.Task)
	}
}
