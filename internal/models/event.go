package models

import "time"

// Account event names published to kafka.
const (
	EventUserRegistered    = "user.registered"
	EventUserStatusChanged = "user.status_changed"
	EventUserDeleted       = "user.deleted"
)

// AccountEvent is the payload of an account lifecycle message.
type AccountEvent struct {
	Event      string    `json:"event"`
	UserID     int64     `json:"user_id"`
	Email      string    `json:"email,omitempty"`
	Status     string    `json:"status,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
