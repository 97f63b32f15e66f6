package store

import (
	"database/sql"
	"time"

	"github.com/dotcommander/tick/internal/models"
)

// taskColumns is the column list every task query selects, in scan order.
const taskColumns = `id, name, is_done, created_at, deleted_at`

// scanNullTime converts sql.NullTime to *time.Time (nil if NULL)
func scanNullTime(nt sql.NullTime) *time.Time {
	if nt.Valid {
		return &nt.Time
	}
	return nil
}

// taskRowScanner encapsulates the common task row scanning logic.
type taskRowScanner struct {
	task      models.Task
	deletedAt sql.NullTime
}

func (s *taskRowScanner) scan(row interface {
	Scan(dest ...any) error
}) error {
	return row.Scan(
		&s.task.ID,
		&s.task.Name,
		&s.task.IsDone,
		&s.task.CreatedAt,
		&s.deletedAt,
	)
}

func (s *taskRowScanner) hydrate() *models.Task {
	s.task.DeletedAt = scanNullTime(s.deletedAt)
	return &s.task
}

// scanTaskRow is a helper that scans and hydrates a task from a single row.
func scanTaskRow(row interface {
	Scan(dest ...any) error
}) (*models.Task, error) {
	scanner := &taskRowScanner{}
	if err := scanner.scan(row); err != nil {
		return nil, err
	}
	return scanner.hydrate(), nil
}
