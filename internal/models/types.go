package models

import "time"

// ID Strategy:
// Tasks use int64 ids assigned by SQLite AUTOINCREMENT. Ids increase
// monotonically and are never reused, even after a task is soft-deleted.

// Task represents a task in the system.
type Task struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	IsDone    bool       `json:"is_done"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// IsActive returns true if the task has not been soft-deleted.
func (t *Task) IsActive() bool {
	return t.DeletedAt == nil
}

// TimestampLayout is the layout SQLite's CURRENT_TIMESTAMP produces.
const TimestampLayout = "2006-01-02 15:04:05"
