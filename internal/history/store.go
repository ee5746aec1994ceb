// Package history keeps an embedded vector index of past analysis texts so
// the chat engine can ground answers on flows it has already described.
package history

import (
	"context"
	"fmt"

	chromem "github.com/philippgille/chromem-go"

	"github.com/omarselim/codeviz/internal/embeddings"
)

const collectionName = "analyses"

// Entry is one stored analysis with its similarity score on search.
type Entry struct {
	ID         string  `json:"id"`
	Project    string  `json:"project"`
	ClassName  string  `json:"class_name"`
	MethodName string  `json:"method_name"`
	Analysis   string  `json:"analysis"`
	Similarity float32 `json:"similarity,omitempty"`
}

// Store indexes analysis texts in a persistent chromem collection.
type Store struct {
	db         *chromem.DB
	collection *chromem.Collection
}

// New opens (or creates) a persistent history index at dir. An empty dir
// keeps the index in memory only.
func New(dir string, embedder embeddings.Embedder) (*Store, error) {
	var (
		db  *chromem.DB
		err error
	)
	if dir == "" {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(dir, false)
		if err != nil {
			return nil, fmt.Errorf("opening history index: %w", err)
		}
	}

	col, err := db.GetOrCreateCollection(collectionName, nil, embeddings.ToChromemFunc(embedder))
	if err != nil {
		return nil, fmt.Errorf("creating collection: %w", err)
	}
	return &Store{db: db, collection: col}, nil
}

// Add indexes one analysis text under the given record ID.
func (s *Store) Add(ctx context.Context, e Entry) error {
	doc := chromem.Document{
		ID:      e.ID,
		Content: e.Analysis,
		Metadata: map[string]string{
			"project":     e.Project,
			"class_name":  e.ClassName,
			"method_name": e.MethodName,
		},
	}
	if err := s.collection.AddDocuments(ctx, []chromem.Document{doc}, 1); err != nil {
		return fmt.Errorf("indexing analysis: %w", err)
	}
	return nil
}

// Search returns the stored analyses most similar to the query, best first.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 5
	}
	if n := s.collection.Count(); n < limit {
		limit = n
	}
	if limit == 0 {
		return nil, nil
	}

	results, err := s.collection.Query(ctx, query, limit, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}

	entries := make([]Entry, 0, len(results))
	for _, r := range results {
		entries = append(entries, Entry{
			ID:         r.ID,
			Project:    r.Metadata["project"],
			ClassName:  r.Metadata["class_name"],
			MethodName: r.Metadata["method_name"],
			Analysis:   r.Content,
			Similarity: r.Similarity,
		})
	}
	return entries, nil
}

// Count reports how many analyses are indexed.
func (s *Store) Count() int {
	return s.collection.Count()
}
