package sessions

import "time"

// Session is one chat conversation.
type Session struct {
	ID        string    `json:"id"`
	Channel   string    `json:"channel"` // "web", "api"
	Project   string    `json:"project"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message is one chat message within a session.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Intent    Intent    `json:"intent,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Intent is the classified purpose of a user message.
type Intent string

const (
	IntentDiagram  Intent = "diagram"
	IntentTicket   Intent = "ticket"
	IntentQuestion Intent = "question"
)
