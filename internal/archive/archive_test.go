package archive

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/omarselim/codeviz/internal/bundle"
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

func TestSaveAndGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	req := bundle.Request{
		Project:      "billing",
		ClassName:    "OrderService",
		MethodName:   "processOrder",
		AnalysisText: "**Involved Classes:** OrderService, PaymentGateway",
	}
	manifest := bundle.Manifest{
		Links: []bundle.Link{
			{Label: "Sequence Diagram", Path: "billing/OrderServiceprocessOrder_20240102_030405-sequence.png"},
			{Label: "Flow Diagram", Path: "billing/OrderServiceprocessOrder_20240102_030405-flow.png"},
		},
	}

	saved, err := store.Save(ctx, req, manifest)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.ID == "" {
		t.Error("expected non-empty ID")
	}

	fetched, err := store.GetByID(ctx, saved.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if fetched == nil {
		t.Fatal("expected record, got nil")
	}
	if fetched.ClassName != "OrderService" {
		t.Errorf("unexpected class name: %q", fetched.ClassName)
	}
	if len(fetched.Links) != 2 {
		t.Fatalf("expected 2 links, got %d", len(fetched.Links))
	}
	if fetched.Links[0].Label != "Sequence Diagram" {
		t.Errorf("unexpected first link label: %q", fetched.Links[0].Label)
	}
}

func TestSavePreservesNotice(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	saved, err := store.Save(ctx, bundle.Request{Project: "billing"}, bundle.Manifest{
		Notice: "Flow Diagram could not be rendered.",
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	fetched, _ := store.GetByID(ctx, saved.ID)
	if fetched.Notice != "Flow Diagram could not be rendered." {
		t.Errorf("unexpected notice: %q", fetched.Notice)
	}
	if len(fetched.Links) != 0 {
		t.Errorf("expected no links, got %d", len(fetched.Links))
	}
}

func TestListScopedToProject(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	store.Save(ctx, bundle.Request{Project: "billing", ClassName: "A"}, bundle.Manifest{})
	store.Save(ctx, bundle.Request{Project: "orders", ClassName: "B"}, bundle.Manifest{})
	store.Save(ctx, bundle.Request{Project: "billing", ClassName: "C"}, bundle.Manifest{})

	all, err := store.List(ctx, "", 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3, got %d", len(all))
	}

	billing, _ := store.List(ctx, "billing", 0)
	if len(billing) != 2 {
		t.Errorf("expected 2 billing records, got %d", len(billing))
	}

	limited, _ := store.List(ctx, "", 1)
	if len(limited) != 1 {
		t.Errorf("expected 1, got %d", len(limited))
	}
}

func TestAnalysisHTML(t *testing.T) {
	rec := &Record{Analysis: "## Execution Steps\n\n1. Validate the order"}

	htmlBody, err := AnalysisHTML(rec)
	if err != nil {
		t.Fatalf("AnalysisHTML: %v", err)
	}
	out := string(htmlBody)
	if !strings.Contains(out, "<h2") {
		t.Errorf("expected heading in output, got %q", out)
	}
	if !strings.Contains(out, "Validate the order") {
		t.Errorf("expected list item in output, got %q", out)
	}
}

// HTTP handler tests

func TestRoute_ListAndGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	saved, _ := store.Save(ctx, bundle.Request{
		Project:      "billing",
		ClassName:    "OrderService",
		AnalysisText: "# Analysis",
	}, bundle.Manifest{})

	r := chi.NewRouter()
	RegisterRoutes(r, store)

	req := httptest.NewRequest("GET", "/api/archive/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var records []Record
	json.Unmarshal(w.Body.Bytes(), &records)
	if len(records) != 1 {
		t.Fatalf("expected 1, got %d", len(records))
	}

	req = httptest.NewRequest("GET", "/api/archive/"+saved.ID, nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	req = httptest.NewRequest("GET", "/api/archive/nonexistent", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestRoute_AnalysisHTML(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	saved, _ := store.Save(ctx, bundle.Request{
		Project:      "billing",
		AnalysisText: "**Execution Steps:**\n\n1. Validate input",
	}, bundle.Manifest{})

	r := chi.NewRouter()
	RegisterRoutes(r, store)

	req := httptest.NewRequest("GET", "/api/archive/"+saved.ID+"/analysis", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("expected text/html content type, got %q", ct)
	}
	if !strings.Contains(w.Body.String(), "Validate input") {
		t.Errorf("expected analysis content in HTML, got %q", w.Body.String())
	}
}
