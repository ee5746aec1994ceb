package tickets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/omarselim/codeviz/internal/db"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func TestCreateAndGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, Ticket{
		Project:     "billing",
		Title:       "Sequence diagram missing payment gateway call",
		Description: "The PaymentService.charge interaction is not in the rendered diagram.",
		Priority:    80,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Error("expected non-empty ID")
	}
	if created.Status != StatusOpen {
		t.Errorf("expected status open, got %s", created.Status)
	}
	if created.Source != "chat" {
		t.Errorf("expected default source chat, got %s", created.Source)
	}

	fetched, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if fetched.Title != created.Title {
		t.Errorf("expected %q, got %q", created.Title, fetched.Title)
	}
}

func TestListWithFilters(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	store.Create(ctx, Ticket{Title: "T1", Project: "billing", Priority: 90})
	store.Create(ctx, Ticket{Title: "T2", Project: "orders", Priority: 30})
	store.Create(ctx, Ticket{Title: "T3", Project: "billing", Priority: 70})

	all, _ := store.List(ctx, ListFilter{})
	if len(all) != 3 {
		t.Fatalf("expected 3, got %d", len(all))
	}
	// Ordered by priority DESC.
	if all[0].Priority != 90 {
		t.Errorf("expected first priority=90, got %d", all[0].Priority)
	}

	billing, _ := store.List(ctx, ListFilter{Project: "billing"})
	if len(billing) != 2 {
		t.Errorf("expected 2 billing tickets, got %d", len(billing))
	}

	high, _ := store.List(ctx, ListFilter{MinPriority: 50})
	if len(high) != 2 {
		t.Errorf("expected 2 high-priority, got %d", len(high))
	}

	limited, _ := store.List(ctx, ListFilter{Limit: 1})
	if len(limited) != 1 {
		t.Errorf("expected 1, got %d", len(limited))
	}
}

func TestUpdateStatus(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	created, _ := store.Create(ctx, Ticket{Title: "T1", Priority: 50})
	if err := store.UpdateStatus(ctx, created.ID, StatusResolved); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	fetched, _ := store.GetByID(ctx, created.ID)
	if fetched.Status != StatusResolved {
		t.Errorf("expected resolved, got %s", fetched.Status)
	}

	if err := store.UpdateStatus(ctx, created.ID, Status("archived")); err == nil {
		t.Error("expected error for invalid status")
	}
	if err := store.UpdateStatus(ctx, "nonexistent", StatusDismissed); err == nil {
		t.Error("expected error for unknown ticket")
	}
}

func TestOpenCount(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	store.Create(ctx, Ticket{Title: "T1", Project: "billing"})
	created, _ := store.Create(ctx, Ticket{Title: "T2", Project: "billing"})
	store.Create(ctx, Ticket{Title: "T3", Project: "orders"})

	count, err := store.OpenCount(ctx, "")
	if err != nil {
		t.Fatalf("OpenCount: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3, got %d", count)
	}

	store.UpdateStatus(ctx, created.ID, StatusDismissed)

	count, _ = store.OpenCount(ctx, "billing")
	if count != 1 {
		t.Errorf("expected 1 open billing ticket, got %d", count)
	}
}

// HTTP handler tests

func TestRoute_ListTickets(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	store.Create(ctx, Ticket{Title: "T1", Priority: 80})
	store.Create(ctx, Ticket{Title: "T2", Priority: 40})

	r := chi.NewRouter()
	RegisterRoutes(r, store)

	req := httptest.NewRequest("GET", "/api/tickets/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var tickets []Ticket
	json.Unmarshal(w.Body.Bytes(), &tickets)
	if len(tickets) != 2 {
		t.Errorf("expected 2, got %d", len(tickets))
	}
}

func TestRoute_CreateTicket(t *testing.T) {
	store := setupTestStore(t)

	r := chi.NewRouter()
	RegisterRoutes(r, store)

	body := `{"title":"Flow diagram renders empty","project":"billing","priority":70}`
	req := httptest.NewRequest("POST", "/api/tickets/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var created Ticket
	json.Unmarshal(w.Body.Bytes(), &created)
	if created.ID == "" {
		t.Error("expected non-empty ID")
	}
	if created.Source != "api" {
		t.Errorf("expected source api, got %s", created.Source)
	}
}

func TestRoute_UpdateStatus(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	created, _ := store.Create(ctx, Ticket{Title: "T1", Priority: 50})

	r := chi.NewRouter()
	RegisterRoutes(r, store)

	body := `{"status":"acknowledged"}`
	req := httptest.NewRequest("PUT", "/api/tickets/"+created.ID+"/status", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	fetched, _ := store.GetByID(ctx, created.ID)
	if fetched.Status != StatusAcknowledged {
		t.Errorf("expected acknowledged, got %s", fetched.Status)
	}
}

func TestRoute_Stats(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	store.Create(ctx, Ticket{Title: "T1", Priority: 50})

	r := chi.NewRouter()
	RegisterRoutes(r, store)

	req := httptest.NewRequest("GET", "/api/tickets/stats", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var stats map[string]int
	json.Unmarshal(w.Body.Bytes(), &stats)
	if stats["open_count"] != 1 {
		t.Errorf("expected open_count=1, got %d", stats["open_count"])
	}
}

func TestRoute_GetNotFound(t *testing.T) {
	store := setupTestStore(t)

	r := chi.NewRouter()
	RegisterRoutes(r, store)

	req := httptest.NewRequest("GET", "/api/tickets/nonexistent", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}
