package models

// Severity tells the presentation how to style a notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notification is a transient outcome message. Only one is shown at a time.
type Notification struct {
	Message  string
	Severity Severity
}

func Success(msg string) Notification {
	return Notification{Message: msg, Severity: SeveritySuccess}
}

func Failure(msg string) Notification {
	return Notification{Message: msg, Severity: SeverityError}
}
