package models

import "time"

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// NotificationTTL is how long a posted notification stays visible before it
// expires on its own.
const NotificationTTL = 3 * time.Second

// Notification is a transient user-facing status message.
type Notification struct {
	ID       int64     `json:"id"`
	Message  string    `json:"message"`
	Severity Severity  `json:"severity"`
	PostedAt time.Time `json:"posted_at"`
}
