package models

import "time"

type TaskStatus string

const (
	StatusCreated    TaskStatus = "created"
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusCreated, StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

type Task struct {
	ID          int64
	Title       string
	Description string
	Status      TaskStatus
	UserID      int64
	// OwnerEmail is filled by listing queries that join users.
	OwnerEmail string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TaskChanges is a partial update; nil fields are left alone.
type TaskChanges struct {
	Title       *string
	Description *string
	Status      *TaskStatus
}
