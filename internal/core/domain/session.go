package domain

import "time"

// Portal is the login entry point a user signed in through.
type Portal string

const (
	PortalPatient Portal = "patient"
	PortalDoctor  Portal = "doctor"
)

// Session is an authenticated identity. It is handed explicitly to every
// service call that needs one.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Token     string    `json:"token,omitempty"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type SessionEventType string

const (
	SessionSignedIn  SessionEventType = "signed_in"
	SessionSignedOut SessionEventType = "signed_out"
)

type SessionEvent struct {
	Type      SessionEventType `json:"type"`
	UserID    string           `json:"user_id"`
	SessionID string           `json:"session_id"`
	At        time.Time        `json:"at"`
}
