package models

import "time"

// Severity classifies a notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notification is a transient status message.
type Notification struct {
	ID        string
	Message   string
	Severity  Severity
	CreatedAt time.Time
}
