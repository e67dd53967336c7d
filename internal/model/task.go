package model

import "time"

// Status tracks where a task sits in its call lifecycle.
type Status string

const (
	// StatusScheduled marks a task waiting for its due minute.
	StatusScheduled Status = "scheduled"
	// StatusCalled marks a task whose outbound call was accepted by the provider.
	StatusCalled Status = "called"
	// StatusRetry marks a task whose last call attempt failed; it stays
	// eligible on every subsequent poll tick.
	StatusRetry Status = "retry"
	// StatusCompleted marks a task whose voice webhook was answered.
	StatusCompleted Status = "completed"
)

// Due reports whether the poller should still pick this status up.
func (s Status) Due() bool {
	return s == StatusScheduled || s == StatusRetry
}

// Task represents a reminder that triggers an outbound voice call at its due time.
type Task struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Title     string    `gorm:"type:text;not null"`
	DueTime   time.Time `gorm:"index:idx_tasks_status_due,priority:2;not null"`
	Phone     string    `gorm:"index;not null"`
	Name      string    `gorm:"type:text"`
	Status    Status    `gorm:"index:idx_tasks_status_due,priority:1;not null;default:scheduled"`
	CallSID   string    `gorm:"column:call_sid;type:text"`
	LastError string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
