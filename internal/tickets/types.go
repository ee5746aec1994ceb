package tickets

import "time"

// Status represents the lifecycle stage of a ticket.
type Status string

const (
	StatusOpen         Status = "open"
	StatusAcknowledged Status = "acknowledged"
	StatusResolved     Status = "resolved"
	StatusDismissed    Status = "dismissed"
)

// Ticket represents a follow-up item raised during a chat session or
// diagram review, such as a missing analysis or a rendering problem.
type Ticket struct {
	ID          string    `json:"id"`
	Project     string    `json:"project"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      Status    `json:"status"`
	Priority    int       `json:"priority"` // 0-100, higher = more important
	Source      string    `json:"source"`   // "chat", "api", "user"
	RecordID    string    `json:"record_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListFilter controls which tickets to return.
type ListFilter struct {
	Project     string
	Status      Status
	MinPriority int
	Limit       int
	Offset      int
}
