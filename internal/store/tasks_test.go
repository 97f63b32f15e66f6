package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/dotcommander/tick/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	tempDir := t.TempDir()
	testDBPath := tempDir + "/test.db"

	db, err := InitDBWithPath(testDBPath)
	if err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}

	cleanup := func() {
		_ = db.Close()
	}

	return db, cleanup
}

func isDeletedInDB(t *testing.T, db *sql.DB, id int64) bool {
	t.Helper()

	var deleted bool
	err := db.QueryRow(`SELECT deleted_at IS NOT NULL FROM tasks WHERE id = ?`, id).Scan(&deleted)
	require.NoError(t, err)
	return deleted
}

func TestCreateTask(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	task, err := CreateTask(ctx, db, "Test task")
	require.NoError(t, err)
	require.NotNil(t, task)

	assert.Equal(t, int64(1), task.ID)
	assert.Equal(t, "Test task", task.Name)
	assert.False(t, task.IsDone)
	assert.False(t, task.CreatedAt.IsZero())
	assert.Nil(t, task.DeletedAt)
	assert.True(t, task.IsActive())
}

func TestCreateTask_RoundTripsThroughList(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	created, err := CreateTask(ctx, db, "Test task")
	require.NoError(t, err)

	tasks, err := ListActiveTasks(ctx, db)
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	assert.Equal(t, created.ID, tasks[0].ID)
	assert.Equal(t, created.Name, tasks[0].Name)
	assert.Equal(t, created.IsDone, tasks[0].IsDone)
	assert.True(t, created.CreatedAt.Equal(tasks[0].CreatedAt))
}

func TestCreateTask_RejectsEmptyName(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	for _, name := range []string{"", "   ", "\t\n"} {
		task, err := CreateTask(ctx, db, name)
		require.Error(t, err)
		assert.Nil(t, task)
		assert.ErrorIs(t, err, models.ErrValidation)
	}

	tasks, err := ListActiveTasks(ctx, db)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestCreateTask_AcceptsLongAndSpecialNames(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	long := strings.Repeat("a", 300)
	task, err := CreateTask(ctx, db, long)
	require.NoError(t, err)
	assert.Equal(t, long, task.Name)

	special := `!@#$%^&*()_+|}{:?><,./;'[]\=-` + "`~"
	task, err = CreateTask(ctx, db, special)
	require.NoError(t, err)
	assert.Equal(t, special, task.Name)
}

func TestListActiveTasks_EmptyStore(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	tasks, err := ListActiveTasks(context.Background(), db)
	require.NoError(t, err)
	require.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestListActiveTasks_InsertionOrder(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	for _, name := range []string{"A", "B", "C"} {
		_, err := CreateTask(ctx, db, name)
		require.NoError(t, err)
	}

	tasks, err := ListActiveTasks(ctx, db)
	require.NoError(t, err)
	require.Len(t, tasks, 3)

	var names []string
	for _, task := range tasks {
		names = append(names, task.Name)
	}
	assert.Equal(t, []string{"A", "B", "C"}, names)
	assert.Less(t, tasks[0].ID, tasks[1].ID)
	assert.Less(t, tasks[1].ID, tasks[2].ID)
}

func TestListActiveTasks_ExcludesDeletedAndKeepsDoneState(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	incomplete, err := CreateTask(ctx, db, "Incomplete Task")
	require.NoError(t, err)
	completed, err := CreateTask(ctx, db, "Completed Task")
	require.NoError(t, err)
	_, err = SetTaskStatus(ctx, db, completed.ID, true)
	require.NoError(t, err)
	deleted, err := CreateTask(ctx, db, "Deleted Task")
	require.NoError(t, err)
	_, err = DeleteTask(ctx, db, deleted.ID)
	require.NoError(t, err)

	tasks, err := ListActiveTasks(ctx, db)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, incomplete.ID, tasks[0].ID)
	assert.False(t, tasks[0].IsDone)
	assert.Equal(t, completed.ID, tasks[1].ID)
	assert.True(t, tasks[1].IsDone)
}

func TestSetTaskStatus(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	task, err := CreateTask(ctx, db, "Test task")
	require.NoError(t, err)

	updated, err := SetTaskStatus(ctx, db, task.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.IsDone)
	assert.Equal(t, task.ID, updated.ID)
	assert.Equal(t, task.Name, updated.Name)
	assert.True(t, task.CreatedAt.Equal(updated.CreatedAt))
}

func TestSetTaskStatus_ToggleBackPreservesIdentity(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	task, err := CreateTask(ctx, db, "Test task")
	require.NoError(t, err)

	_, err = SetTaskStatus(ctx, db, task.ID, true)
	require.NoError(t, err)
	again, err := SetTaskStatus(ctx, db, task.ID, false)
	require.NoError(t, err)

	assert.False(t, again.IsDone)
	assert.Equal(t, task.ID, again.ID)
	assert.Equal(t, task.Name, again.Name)
	assert.True(t, task.CreatedAt.Equal(again.CreatedAt))
}

func TestSetTaskStatus_SameValueTwice(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	task, err := CreateTask(ctx, db, "Test task")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		updated, err := SetTaskStatus(ctx, db, task.ID, false)
		require.NoError(t, err)
		assert.False(t, updated.IsDone)
	}
}

func TestSetTaskStatus_NotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	for _, id := range []int64{0, 999, 1<<32 - 1} {
		task, err := SetTaskStatus(ctx, db, id, true)
		require.Error(t, err)
		assert.Nil(t, task)
		assert.ErrorIs(t, err, models.ErrNotFound)

		var nf *models.NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, id, nf.ID)
	}
}

func TestSetTaskStatus_DeletedTaskStaysDeleted(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	task, err := CreateTask(ctx, db, "Gone")
	require.NoError(t, err)
	_, err = DeleteTask(ctx, db, task.ID)
	require.NoError(t, err)

	updated, err := SetTaskStatus(ctx, db, task.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.IsDone)
	assert.NotNil(t, updated.DeletedAt)

	tasks, err := ListActiveTasks(ctx, db)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestDeleteTask_ReturnsDeletedState(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	task, err := CreateTask(ctx, db, "Task to be deleted")
	require.NoError(t, err)

	deleted, err := DeleteTask(ctx, db, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, deleted.ID)
	assert.Equal(t, task.Name, deleted.Name)
	assert.Equal(t, task.IsDone, deleted.IsDone)
	require.NotNil(t, deleted.DeletedAt)
	assert.False(t, deleted.DeletedAt.Before(deleted.CreatedAt))
	assert.False(t, deleted.IsActive())

	assert.True(t, isDeletedInDB(t, db, task.ID))

	tasks, err := ListActiveTasks(ctx, db)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestDeleteTask_SecondDeleteIsNotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	task, err := CreateTask(ctx, db, "Task to be deleted multiple times")
	require.NoError(t, err)

	first, err := DeleteTask(ctx, db, task.ID)
	require.NoError(t, err)

	_, err = DeleteTask(ctx, db, task.ID)
	require.ErrorIs(t, err, models.ErrNotFound)

	// deleted_at is set once and left alone by the rejected second delete.
	again, err := GetTask(ctx, db, task.ID)
	require.NoError(t, err)
	require.NotNil(t, again.DeletedAt)
	assert.True(t, first.DeletedAt.Equal(*again.DeletedAt))
}

func TestDeleteTask_NotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	task, err := DeleteTask(context.Background(), db, 999)
	require.ErrorIs(t, err, models.ErrNotFound)
	assert.Nil(t, task)
}

func TestDeleteTask_DoesNotAffectOtherTasks(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	task1, err := CreateTask(ctx, db, "Task 1")
	require.NoError(t, err)
	task2, err := CreateTask(ctx, db, "Task 2")
	require.NoError(t, err)
	task2, err = SetTaskStatus(ctx, db, task2.ID, true)
	require.NoError(t, err)

	_, err = DeleteTask(ctx, db, task1.ID)
	require.NoError(t, err)

	other, err := GetTask(ctx, db, task2.ID)
	require.NoError(t, err)
	assert.Equal(t, task2.Name, other.Name)
	assert.True(t, other.IsDone)
	assert.True(t, task2.CreatedAt.Equal(other.CreatedAt))
	assert.Nil(t, other.DeletedAt)
	assert.False(t, isDeletedInDB(t, db, task2.ID))
}

func TestGetTask_NotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	task, err := GetTask(context.Background(), db, 42)
	require.ErrorIs(t, err, models.ErrNotFound)
	assert.Nil(t, task)
	assert.Contains(t, err.Error(), "task not found")
}

func TestOperations_MissingTableIsStorageError(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	_, err := db.Exec(`DROP TABLE tasks`)
	require.NoError(t, err)

	_, err = CreateTask(ctx, db, "Orphan")
	require.ErrorIs(t, err, models.ErrStorage)
	assert.Contains(t, err.Error(), "no such table")

	_, err = ListActiveTasks(ctx, db)
	require.ErrorIs(t, err, models.ErrStorage)

	_, err = SetTaskStatus(ctx, db, 1, true)
	require.ErrorIs(t, err, models.ErrStorage)

	_, err = DeleteTask(ctx, db, 1)
	require.ErrorIs(t, err, models.ErrStorage)
}

func TestScenario_BuyMilk(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	milk, err := CreateTask(ctx, db, "Buy milk")
	require.NoError(t, err)

	tasks, err := ListActiveTasks(ctx, db)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.False(t, tasks[0].IsDone)

	_, err = SetTaskStatus(ctx, db, milk.ID, true)
	require.NoError(t, err)

	tasks, err = ListActiveTasks(ctx, db)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.True(t, tasks[0].IsDone)

	_, err = DeleteTask(ctx, db, milk.ID)
	require.NoError(t, err)

	tasks, err = ListActiveTasks(ctx, db)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	_, err = DeleteTask(ctx, db, milk.ID)
	require.ErrorIs(t, err, models.ErrNotFound)
}
