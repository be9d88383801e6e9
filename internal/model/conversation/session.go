package conversation

import "time"

// State is the listening state of a session.
type State string

const (
	// Idle means no capture or generation is in flight.
	Idle State = "idle"
	// Listening means a capture session is active.
	Listening State = "listening"
	// AwaitingReply means a final transcript was taken and the generative
	// reply has not resolved yet.
	AwaitingReply State = "awaiting_reply"
)

// Session is one long-lived assistant conversation. There is no terminal
// state; a session lives for the page session and is never persisted.
type Session struct {
	ID        string    `json:"id"`
	Language  string    `json:"language"`
	State     State     `json:"state"`
	CreatedAt time.Time `json:"createdAt"`
}
