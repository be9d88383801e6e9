package conversation

import "time"

// Message is one entry in a session's ordered, append-only log.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Text      string    `json:"text"`
	IsUser    bool      `json:"isUser"`
	CreatedAt time.Time `json:"createdAt"`
}
