package domain

import "time"

// EventType identifies a business event.
type EventType string

const (
	SignInEvent                 EventType = "SIGN_IN"
	SignInFailureEvent          EventType = "SIGN_IN_FAILED"
	SessionRefreshedEvent       EventType = "SESSION_REFRESHED"
	LogoutEvent                 EventType = "LOGOUT"
	AccountRegisteredEvent      EventType = "ACCOUNT_REGISTERED"
	PasswordResetRequestedEvent EventType = "PASSWORD_RESET_REQUESTED"
	PasswordResetCompletedEvent EventType = "PASSWORD_RESET_COMPLETED"
)

// Event represents a business event that occurred in the system.
type Event struct {
	Type      EventType              `json:"type"`
	AccountID string                 `json:"account_id,omitempty"`
	Email     string                 `json:"email,omitempty"`
	SessionID string                 `json:"session_id,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Success   bool                   `json:"success"`
	ErrorMsg  string                 `json:"error_msg,omitempty"`
}

// EventPublisher delivers events to interested subscribers. Publishing is
// fire-and-forget from the caller's perspective; a failed delivery never
// rolls back the operation that produced the event.
type EventPublisher interface {
	Publish(event *Event)
}

// NewEvent creates an event with common fields populated.
func NewEvent(eventType EventType, accountID string) *Event {
	return &Event{
		Type:      eventType,
		AccountID: accountID,
		Timestamp: time.Now().UTC(),
		Metadata:  make(map[string]interface{}),
		Success:   true,
	}
}

// WithError marks the event as failed and records the error message.
func (e *Event) WithError(err error) *Event {
	e.Success = false
	if err != nil {
		e.ErrorMsg = err.Error()
	}
	return e
}

// WithEmail sets the email field.
func (e *Event) WithEmail(email string) *Event {
	e.Email = email
	return e
}

// WithSession sets the session id field.
func (e *Event) WithSession(sessionID string) *Event {
	e.SessionID = sessionID
	return e
}

// WithMetadata adds metadata to the event.
func (e *Event) WithMetadata(key string, value interface{}) *Event {
	e.Metadata[key] = value
	return e
}
