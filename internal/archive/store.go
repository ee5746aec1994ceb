package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/omarselim/codeviz/internal/bundle"
	"github.com/omarselim/codeviz/internal/db"
)

// Record is one archived diagram generation: the analysis text that was used
// and the manifest of rendered artifacts it produced.
type Record struct {
	ID         string        `json:"id"`
	Project    string        `json:"project"`
	ClassName  string        `json:"class_name"`
	MethodName string        `json:"method_name"`
	Analysis   string        `json:"analysis"`
	Links      []bundle.Link `json:"links"`
	Notice     string        `json:"notice,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
}

// Store manages the diagram archive.
type Store struct {
	db *db.DB
}

// NewStore creates a new archive store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Save records a completed diagram generation.
func (s *Store) Save(ctx context.Context, req bundle.Request, manifest bundle.Manifest) (*Record, error) {
	rec := Record{
		ID:         uuid.New().String(),
		Project:    req.Project,
		ClassName:  req.ClassName,
		MethodName: req.MethodName,
		Analysis:   req.AnalysisText,
		Links:      manifest.Links,
		Notice:     manifest.Notice,
		CreatedAt:  time.Now().UTC(),
	}
	if rec.Links == nil {
		rec.Links = []bundle.Link{}
	}

	linksJSON, err := json.Marshal(rec.Links)
	if err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO diagram_records (id, project, class_name, method_name, analysis, manifest, notice, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Project, rec.ClassName, rec.MethodName, rec.Analysis, string(linksJSON), rec.Notice, rec.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting record: %w", err)
	}
	return &rec, nil
}

// GetByID retrieves an archived record by its ID.
func (s *Store) GetByID(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, project, class_name, method_name, analysis, manifest, notice, created_at
		 FROM diagram_records WHERE id = ?`, id,
	)
	rec, err := scanRecord(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting record: %w", err)
	}
	return rec, nil
}

// List returns the most recent records, optionally scoped to a project.
func (s *Store) List(ctx context.Context, project string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT id, project, class_name, method_name, analysis, manifest, notice, created_at
		 FROM diagram_records`
	args := []interface{}{}
	if project != "" {
		query += " WHERE project = ?"
		args = append(args, project)
	}
	query += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

func scanRecord(scan func(dest ...interface{}) error) (*Record, error) {
	var rec Record
	var linksJSON string
	if err := scan(&rec.ID, &rec.Project, &rec.ClassName, &rec.MethodName, &rec.Analysis, &linksJSON, &rec.Notice, &rec.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(linksJSON), &rec.Links); err != nil {
		rec.Links = []bundle.Link{}
	}
	if rec.Links == nil {
		rec.Links = []bundle.Link{}
	}
	return &rec, nil
}
