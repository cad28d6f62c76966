package models

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	StatusCreated    TaskStatus = "created"
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
)

// Statuses lists every valid status in display order.
var Statuses = []TaskStatus{StatusCreated, StatusPending, StatusInProgress, StatusCompleted}

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Task is a server-owned record. CreatedBy is present only when the
// requesting user is an admin.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	CreatedAt   Timestamp  `json:"created_at"`
	CreatedBy   *string    `json:"created_by,omitempty"`
}

// IsCompleted reports whether the task can no longer be marked complete.
func (t Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// TaskPatch is the body of a partial update. Nil fields are left unchanged
// by the server.
type TaskPatch struct {
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	Status      *TaskStatus `json:"status,omitempty"`
}

// FullPatch builds a patch that overwrites all editable fields.
func FullPatch(title, description string, status TaskStatus) TaskPatch {
	return TaskPatch{Title: &title, Description: &description, Status: &status}
}

// StatusPatch builds a patch that only changes the status.
func StatusPatch(status TaskStatus) TaskPatch {
	return TaskPatch{Status: &status}
}

// Form is the transient state of the create/edit dialog.
type Form struct {
	Title       string
	Description string
	Status      TaskStatus
}

// EmptyForm returns the form shown when creating a new task.
func EmptyForm() Form {
	return Form{Status: StatusCreated}
}

// FormFromTask pre-populates a form with the current fields of t.
func FormFromTask(t Task) Form {
	return Form{Title: t.Title, Description: t.Description, Status: t.Status}
}

// Timestamp accepts both RFC 3339 and the RFC 1123 GMT format that some
// JSON encoders emit for datetimes.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{time.RFC3339Nano, http.TimeFormat, time.RFC1123, "2006-01-02T15:04:05.999999"}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ts.UTC().Format(time.RFC3339Nano))
}

func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		ts.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			ts.Time = t
			return nil
		}
	}
	return fmt.Errorf("unsupported timestamp %q", s)
}
