package output

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dotcommander/tick/internal/models"
)

func TestFormatTask(t *testing.T) {
	task := &models.Task{
		ID:        3,
		Name:      "Buy milk",
		IsDone:    true,
		CreatedAt: time.Date(2024, 5, 1, 9, 30, 5, 0, time.UTC),
	}
	require.Equal(t, "id = 3, name = Buy milk, is_done = true, created_at = 2024-05-01 09:30:05", FormatTask(task))
}

func TestWriteTasks(t *testing.T) {
	created := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	tasks := []*models.Task{
		{ID: 1, Name: "A", CreatedAt: created},
		{ID: 2, Name: "B", CreatedAt: created},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTasks(&buf, tasks))
	require.Equal(t,
		"id = 1, name = A, is_done = false, created_at = 2024-05-01 09:30:00\n"+
			"id = 2, name = B, is_done = false, created_at = 2024-05-01 09:30:00\n",
		buf.String())

	buf.Reset()
	require.NoError(t, WriteTasks(&buf, nil))
	require.Empty(t, buf.String())
}
