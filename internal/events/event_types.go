package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserAuthenticated      EventType = "user_authenticated"
	EventPasswordResetRequested EventType = "password_reset_requested"
	EventPasswordResetCompleted EventType = "password_reset_completed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserAuthenticatedPayload payload.
type UserAuthenticatedPayload struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// PasswordResetRequestedPayload payload. The uid rides the event so the
// notification handler can render it into the outbound email.
type PasswordResetRequestedPayload struct {
	Email    string `json:"email"`
	ResetUID string `json:"reset_uid"`
	Reused   bool   `json:"reused"`
}

// PasswordResetCompletedPayload payload.
type PasswordResetCompletedPayload struct {
	Email string `json:"email"`
}
