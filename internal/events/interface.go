package events

import "time"

// Event types broadcast on the directory channel.
const (
	UserCreated = "user.created"
	UserUpdated = "user.updated"
	UserDeleted = "user.deleted"
)

// UserEvent notifies other services that a user record changed.
type UserEvent struct {
	Type       string    `json:"type"`
	UserID     uint      `json:"user_id"`
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher broadcasts directory change events. Single-node deployments
// may run without one; callers must treat a nil Publisher as a no-op.
type Publisher interface {
	Publish(event UserEvent) error
	Close() error
}
