package tickets

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/omarselim/codeviz/internal/db"
)

// Store manages ticket persistence.
type Store struct {
	db *db.DB
}

// NewStore creates a new ticket store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Create adds a new ticket.
func (s *Store) Create(ctx context.Context, t Ticket) (*Ticket, error) {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.Status == "" {
		t.Status = StatusOpen
	}
	if t.Source == "" {
		t.Source = "chat"
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tickets (id, project, title, description, status, priority, source, record_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Project, t.Title, t.Description, t.Status, t.Priority, t.Source, t.RecordID, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting ticket: %w", err)
	}
	return &t, nil
}

// GetByID retrieves a ticket by its ID.
func (s *Store) GetByID(ctx context.Context, id string) (*Ticket, error) {
	var t Ticket
	var recordID sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT id, project, title, description, status, priority, source, record_id, created_at, updated_at
		 FROM tickets WHERE id = ?`, id,
	).Scan(&t.ID, &t.Project, &t.Title, &t.Description, &t.Status, &t.Priority, &t.Source, &recordID, &t.CreatedAt, &t.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting ticket: %w", err)
	}
	t.RecordID = recordID.String
	return &t, nil
}

// List returns tickets matching the filter.
func (s *Store) List(ctx context.Context, filter ListFilter) ([]Ticket, error) {
	query := `SELECT id, project, title, description, status, priority, source, record_id, created_at, updated_at
		 FROM tickets WHERE 1=1`
	args := []interface{}{}

	if filter.Project != "" {
		query += " AND project = ?"
		args = append(args, filter.Project)
	}
	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, filter.Status)
	}
	if filter.MinPriority > 0 {
		query += " AND priority >= ?"
		args = append(args, filter.MinPriority)
	}

	query += " ORDER BY priority DESC, created_at ASC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tickets: %w", err)
	}
	defer rows.Close()

	var tickets []Ticket
	for rows.Next() {
		var t Ticket
		var recordID sql.NullString
		if err := rows.Scan(&t.ID, &t.Project, &t.Title, &t.Description, &t.Status, &t.Priority, &t.Source, &recordID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning ticket: %w", err)
		}
		t.RecordID = recordID.String
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

// UpdateStatus changes the status of a ticket.
func (s *Store) UpdateStatus(ctx context.Context, id string, status Status) error {
	switch status {
	case StatusOpen, StatusAcknowledged, StatusResolved, StatusDismissed:
	default:
		return fmt.Errorf("invalid status: %s", status)
	}

	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx,
		`UPDATE tickets SET status = ?, updated_at = ? WHERE id = ?`,
		status, now, id,
	)
	if err != nil {
		return fmt.Errorf("updating status: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("ticket not found: %s", id)
	}
	return nil
}

// OpenCount returns the number of open tickets, optionally scoped to a project.
func (s *Store) OpenCount(ctx context.Context, project string) (int, error) {
	query := `SELECT COUNT(*) FROM tickets WHERE status = ?`
	args := []interface{}{StatusOpen}
	if project != "" {
		query += " AND project = ?"
		args = append(args, project)
	}

	var count int
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}
