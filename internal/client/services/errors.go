package services

import (
	"errors"
	"sort"
	"strings"
)

// Field keys used in ValidationError.
const (
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldForm     = "form"
)

var (
	ErrSignInFailed   = errors.New("sign in failed")
	ErrRegisterFailed = errors.New("register failed")
	ErrSessionExpired = errors.New("session expired")

	ErrModalOpen        = errors.New("a task form is already open")
	ErrModalClosed      = errors.New("no task form is open")
	ErrTaskNotFound     = errors.New("task not found")
	ErrAlreadyCompleted = errors.New("task is already completed")
	ErrInvalidStatus    = errors.New("invalid task status")
)

// ValidationError reports input rejected before any network call, or a
// server-side logical failure mapped back onto a field.
type ValidationError struct {
	Fields map[string]string
}

func newValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

func (e *ValidationError) add(field, msg string) {
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

func (e *ValidationError) empty() bool {
	return len(e.Fields) == 0
}

// Field returns the message attached to field, or "".
func (e *ValidationError) Field(field string) string {
	return e.Fields[field]
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return strings.Join(parts, "; ")
}

// UserMessage returns the text that may be shown for err. Transport detail
// is never exposed; unknown errors collapse to "Request failed".
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}

	for _, m := range userMessages {
		if errors.Is(err, m.err) {
			return m.text
		}
	}
	return "Request failed"
}

var userMessages = []struct {
	err  error
	text string
}{
	{ErrSignInFailed, "Failed to login"},
	{ErrRegisterFailed, "Failed to register"},
	{ErrSessionExpired, "Session expired, please sign in again"},
	{ErrModalOpen, "Close the open form first"},
	{ErrModalClosed, "No task form is open"},
	{ErrTaskNotFound, "Task not found"},
	{ErrAlreadyCompleted, "Task is already completed"},
	{ErrInvalidStatus, "Status must be one of created, pending, in_progress, completed"},
}
