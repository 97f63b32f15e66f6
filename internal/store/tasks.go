package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dotcommander/tick/internal/models"
)

// CreateTask inserts a new task with is_done = false and returns the row as stored.
// A blank name (empty or whitespace only) is rejected with a ValidationError.
func CreateTask(ctx context.Context, db *sql.DB, name string) (*models.Task, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &models.ValidationError{Field: "name", Reason: "must not be empty"}
	}

	var task *models.Task
	err := Transact(ctx, db, func(tx *sql.Tx) error {
		createdTask, err := CreateTaskTx(ctx, tx, name)
		if err != nil {
			return err
		}
		task = createdTask
		return nil
	})
	if err != nil {
		return nil, asStorageError("create task", err)
	}

	return task, nil
}

// CreateTaskTx inserts and returns a task inside an existing transaction.
// The caller is responsible for validating name.
func CreateTaskTx(ctx context.Context, tx *sql.Tx, name string) (*models.Task, error) {
	result, err := tx.ExecContext(ctx, `INSERT INTO tasks (name, is_done) VALUES (?, ?)`, name, false)
	if err != nil {
		return nil, fmt.Errorf("failed to insert task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get inserted id: %w", err)
	}

	task, err := getTaskByQuerier(ctx, tx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch created task: %w", err)
	}

	return task, nil
}

// ListActiveTasks returns every task that has not been soft-deleted, in insertion order.
// An empty store yields an empty, non-nil slice.
func ListActiveTasks(ctx context.Context, db *sql.DB) ([]*models.Task, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE deleted_at IS NULL
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, &models.StorageError{Op: "query tasks", Err: err}
	}
	defer func() { _ = rows.Close() }()

	tasks := []*models.Task{}
	for rows.Next() {
		task, scanErr := scanTaskRow(rows)
		if scanErr != nil {
			return nil, &models.StorageError{Op: "scan task row", Err: scanErr}
		}
		tasks = append(tasks, task)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, &models.StorageError{Op: "iterate task rows", Err: rowsErr}
	}

	return tasks, nil
}

// SetTaskStatus sets is_done on the task and returns its current row.
// The task must exist; a soft-deleted task may still be updated and stays deleted.
func SetTaskStatus(ctx context.Context, db *sql.DB, id int64, done bool) (*models.Task, error) {
	var task *models.Task
	err := Transact(ctx, db, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `UPDATE tasks SET is_done = ? WHERE id = ?`, done, id)
		if err != nil {
			return fmt.Errorf("failed to update task status: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return &models.NotFoundError{ID: id}
		}

		task, err = getTaskByQuerier(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, asStorageError("set task status", err)
	}

	return task, nil
}

// DeleteTask soft-deletes an active task and returns it with DeletedAt set.
// An id that never existed and an already-deleted id both yield NotFoundError.
func DeleteTask(ctx context.Context, db *sql.DB, id int64) (*models.Task, error) {
	var task *models.Task
	err := Transact(ctx, db, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE tasks
			SET deleted_at = CURRENT_TIMESTAMP
			WHERE id = ? AND deleted_at IS NULL
		`, id)
		if err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return &models.NotFoundError{ID: id}
		}

		task, err = getTaskByQuerier(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, asStorageError("delete task", err)
	}

	return task, nil
}

// GetTask retrieves a task by ID whether or not it has been deleted.
func GetTask(ctx context.Context, db *sql.DB, id int64) (*models.Task, error) {
	task, err := getTaskByQuerier(ctx, db, id)
	if err != nil {
		return nil, asStorageError("get task", err)
	}
	return task, nil
}

func getTaskByQuerier(ctx context.Context, q Querier, id int64) (*models.Task, error) {
	row := q.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)

	task, err := scanTaskRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &models.NotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query task: %w", err)
	}

	return task, nil
}

// asStorageError passes typed errors through and wraps everything else.
func asStorageError(op string, err error) error {
	var recoverable models.RecoverableError
	if errors.As(err, &recoverable) {
		return err
	}
	return &models.StorageError{Op: op, Err: err}
}
