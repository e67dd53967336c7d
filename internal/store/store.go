// Package store persists reminder tasks behind a small CRUD surface shared
// by the API handlers, the due-task poller, and the voice webhook.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"callminder/internal/model"
)

// Store wraps a GORM database handle. It is constructed once at process
// start and passed by reference to every component that touches tasks.
type Store struct {
	db *gorm.DB
}

// Open connects to PostgreSQL and migrates the task schema.
func Open(databaseURL string) (*Store, error) {
	if databaseURL == "" {
		return nil, ErrNoDatabaseURL
	}

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return New(db)
}

// New wraps an existing GORM handle and migrates the task schema. Tests use
// it with an in-memory SQLite database.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&model.Task{}); err != nil {
		return nil, fmt.Errorf("migrate tasks: %w", err)
	}
	return &Store{db: db}, nil
}

// NewTask carries the fields needed to create a task. DueTime must already
// be normalized to the configured timezone by the caller.
type NewTask struct {
	Title   string
	DueTime time.Time
	Phone   string
	Name    string
}

// Insert persists a new task with status scheduled and returns its id.
func (s *Store) Insert(ctx context.Context, nt NewTask) (string, error) {
	task := model.Task{
		ID:      uuid.NewString(),
		Title:   nt.Title,
		DueTime: nt.DueTime,
		Phone:   nt.Phone,
		Name:    nt.Name,
		Status:  model.StatusScheduled,
	}
	if err := s.db.WithContext(ctx).Create(&task).Error; err != nil {
		return "", fmt.Errorf("insert task: %w", err)
	}
	return task.ID, nil
}

// FindDue returns scheduled and retry tasks whose due time falls inside the
// minute containing asOf. The window is closed on both ends:
// [floor(asOf, minute), floor(asOf, minute)+59.999s].
func (s *Store) FindDue(ctx context.Context, asOf time.Time) ([]model.Task, error) {
	windowStart := asOf.Truncate(time.Minute)
	windowEnd := windowStart.Add(time.Minute - time.Millisecond)

	var tasks []model.Task
	err := s.db.WithContext(ctx).
		Where("status IN ?", []model.Status{model.StatusScheduled, model.StatusRetry}).
		Where("due_time >= ? AND due_time <= ?", windowStart, windowEnd).
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("find due tasks: %w", err)
	}
	return tasks, nil
}

// Extra carries optional columns merged into a status update.
type Extra struct {
	CallSID   string
	LastError string
}

// UpdateStatus sets the status of one task and merges any extra fields.
// Returns ErrNotFound when the id does not match a task.
func (s *Store) UpdateStatus(ctx context.Context, id string, status model.Status, extra *Extra) error {
	updates := map[string]any{"status": status}
	if extra != nil {
		if extra.CallSID != "" {
			updates["call_sid"] = extra.CallSID
		}
		if extra.LastError != "" {
			updates["last_error"] = extra.LastError
		}
	}

	res := s.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update task %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// List returns up to limit tasks ordered by due time ascending.
func (s *Store) List(ctx context.Context, limit int) ([]model.Task, error) {
	var tasks []model.Task
	err := s.db.WithContext(ctx).
		Order("due_time ASC").
		Limit(limit).
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}
