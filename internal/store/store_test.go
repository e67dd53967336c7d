package store

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"callminder/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_fk=1", name, time.Now().UnixNano())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite memory")

	s, err := New(db)
	require.NoError(t, err, "migrate schema")
	return s
}

// seedTask inserts a task directly so tests can control status and due time.
func seedTask(t *testing.T, s *Store, task model.Task) model.Task {
	t.Helper()
	if task.ID == "" {
		task.ID = fmt.Sprintf("task-%d", time.Now().UnixNano())
	}
	if task.Status == "" {
		task.Status = model.StatusScheduled
	}
	require.NoError(t, s.db.Create(&task).Error)
	return task
}

func TestInsertThenListRoundTrip(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	due := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	id, err := s.Insert(ctx, NewTask{Title: "Call mom", DueTime: due, Phone: "+15551234567", Name: "Alex"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	tasks, err := s.List(ctx, 100)
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	got := tasks[0]
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "Call mom", got.Title)
	assert.Equal(t, "+15551234567", got.Phone)
	assert.Equal(t, "Alex", got.Name)
	assert.Equal(t, model.StatusScheduled, got.Status)
	assert.True(t, got.DueTime.Equal(due))
}

func TestFindDueMatchesMinuteWindow(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	asOf := time.Date(2025, 6, 1, 10, 0, 30, 0, time.UTC)
	windowStart := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	inAtStart := seedTask(t, s, model.Task{ID: "at-start", Title: "a", Phone: "+1", DueTime: windowStart})
	inAtEnd := seedTask(t, s, model.Task{ID: "at-end", Title: "b", Phone: "+1", DueTime: windowStart.Add(59 * time.Second)})
	seedTask(t, s, model.Task{ID: "before", Title: "c", Phone: "+1", DueTime: windowStart.Add(-time.Second)})
	seedTask(t, s, model.Task{ID: "after", Title: "d", Phone: "+1", DueTime: windowStart.Add(time.Minute)})

	tasks, err := s.FindDue(ctx, asOf)
	require.NoError(t, err)

	ids := make([]string, 0, len(tasks))
	for _, task := range tasks {
		ids = append(ids, task.ID)
	}
	assert.ElementsMatch(t, []string{inAtStart.ID, inAtEnd.ID}, ids)
}

func TestFindDueFiltersByStatus(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	due := time.Date(2025, 6, 1, 10, 0, 15, 0, time.UTC)
	seedTask(t, s, model.Task{ID: "sched", Title: "a", Phone: "+1", DueTime: due, Status: model.StatusScheduled})
	seedTask(t, s, model.Task{ID: "retry", Title: "b", Phone: "+1", DueTime: due, Status: model.StatusRetry})
	seedTask(t, s, model.Task{ID: "called", Title: "c", Phone: "+1", DueTime: due, Status: model.StatusCalled})
	seedTask(t, s, model.Task{ID: "done", Title: "d", Phone: "+1", DueTime: due, Status: model.StatusCompleted})

	tasks, err := s.FindDue(ctx, due)
	require.NoError(t, err)

	ids := make([]string, 0, len(tasks))
	for _, task := range tasks {
		ids = append(ids, task.ID)
	}
	assert.ElementsMatch(t, []string{"sched", "retry"}, ids)
}

func TestUpdateStatusMergesExtraFields(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	task := seedTask(t, s, model.Task{Title: "a", Phone: "+1", DueTime: time.Now().UTC()})

	require.NoError(t, s.UpdateStatus(ctx, task.ID, model.StatusCalled, &Extra{CallSID: "CA123"}))

	var got model.Task
	require.NoError(t, s.db.First(&got, "id = ?", task.ID).Error)
	assert.Equal(t, model.StatusCalled, got.Status)
	assert.Equal(t, "CA123", got.CallSID)

	require.NoError(t, s.UpdateStatus(ctx, task.ID, model.StatusRetry, &Extra{LastError: "busy"}))
	require.NoError(t, s.db.First(&got, "id = ?", task.ID).Error)
	assert.Equal(t, model.StatusRetry, got.Status)
	assert.Equal(t, "busy", got.LastError)
	// the call reference from the earlier attempt is kept
	assert.Equal(t, "CA123", got.CallSID)
}

func TestUpdateStatusUnknownID(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	err := s.UpdateStatus(context.Background(), "no-such-task", model.StatusCompleted, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListOrdersByDueTimeAndHonorsLimit(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	seedTask(t, s, model.Task{ID: "late", Title: "a", Phone: "+1", DueTime: base.Add(2 * time.Hour)})
	seedTask(t, s, model.Task{ID: "early", Title: "b", Phone: "+1", DueTime: base})
	seedTask(t, s, model.Task{ID: "mid", Title: "c", Phone: "+1", DueTime: base.Add(time.Hour)})

	tasks, err := s.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "early", tasks[0].ID)
	assert.Equal(t, "mid", tasks[1].ID)
}

func TestOpenRequiresDatabaseURL(t *testing.T) {
	t.Parallel()

	_, err := Open("")
	assert.ErrorIs(t, err, ErrNoDatabaseURL)
}
