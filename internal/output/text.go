package output

import (
	"fmt"
	"io"

	"github.com/dotcommander/tick/internal/models"
)

// FormatTask renders a task as a single human-readable line.
func FormatTask(t *models.Task) string {
	return fmt.Sprintf("id = %d, name = %s, is_done = %t, created_at = %s",
		t.ID, t.Name, t.IsDone, t.CreatedAt.Format(models.TimestampLayout))
}

// WriteTask writes one task line to w.
func WriteTask(w io.Writer, t *models.Task) error {
	_, err := fmt.Fprintln(w, FormatTask(t))
	return err
}

// WriteTasks writes one line per task, in order. Nothing is written for an empty slice.
func WriteTasks(w io.Writer, tasks []*models.Task) error {
	for _, t := range tasks {
		if err := WriteTask(w, t); err != nil {
			return err
		}
	}
	return nil
}
