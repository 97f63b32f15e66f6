package actions

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dotcommander/tick/internal/models"
	"github.com/dotcommander/tick/internal/store"
)

// Result is what a dispatched command produced. Task is set for add, update
// and delete; Tasks is set for get.
type Result struct {
	Kind    string         `json:"kind"`
	Message string         `json:"message"`
	Task    *models.Task   `json:"task,omitempty"`
	Tasks   []*models.Task `json:"tasks,omitempty"`
}

// Dispatch runs exactly one store operation for cmd.
func Dispatch(ctx context.Context, db *sql.DB, cmd Command) (*Result, error) {
	switch c := cmd.(type) {
	case Add:
		task, err := store.CreateTask(ctx, db, c.Name)
		if err != nil {
			return nil, err
		}
		return &Result{Kind: "add", Message: "Task added", Task: task}, nil

	case Update:
		task, err := store.SetTaskStatus(ctx, db, c.ID, c.Done)
		if err != nil {
			return nil, err
		}
		return &Result{Kind: "update", Message: "Task updated", Task: task}, nil

	case Get:
		tasks, err := store.ListActiveTasks(ctx, db)
		if err != nil {
			return nil, err
		}
		return &Result{Kind: "get", Message: fmt.Sprintf("%d tasks", len(tasks)), Tasks: tasks}, nil

	case Delete:
		task, err := store.DeleteTask(ctx, db, c.ID)
		if err != nil {
			return nil, err
		}
		return &Result{Kind: "delete", Message: "Task deleted successfully", Task: task}, nil

	default:
		return nil, fmt.Errorf("unknown command %T", cmd)
	}
}

// Describe returns the one-line banner for cmd, e.g. "Add task Buy milk".
func Describe(cmd Command) string {
	switch c := cmd.(type) {
	case Add:
		return fmt.Sprintf("Add task %s", c.Name)
	case Update:
		return fmt.Sprintf("Update task %d with done status: %t", c.ID, c.Done)
	case Get:
		return "List tasks"
	case Delete:
		return fmt.Sprintf("Delete task with id %d", c.ID)
	default:
		return fmt.Sprintf("%T", cmd)
	}
}
