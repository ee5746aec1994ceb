package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/omarselim/codeviz/internal/archive"
	"github.com/omarselim/codeviz/internal/bundle"
	"github.com/omarselim/codeviz/internal/db"
)

type stubRenderer struct{}

func (stubRenderer) Render(ctx context.Context, source string) ([]byte, error) {
	return []byte("PNG"), nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	return New(Config{Port: 0, AllowAll: true}, Deps{
		DB:           database,
		Orchestrator: bundle.New(t.TempDir(), stubRenderer{}),
		Archive:      archive.NewStore(database),
	})
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestCORSHeaders(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestGenerateDiagrams(t *testing.T) {
	srv := newTestServer(t)

	body := `{
		"project": "billing",
		"class_name": "OrderService",
		"method_name": "processOrder",
		"analysis_text": "**Involved Classes:** OrderService, OrderRepository"
	}`
	req := httptest.NewRequest("POST", "/api/diagrams", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp generateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Links) != 2 {
		t.Fatalf("expected 2 links, got %d", len(resp.Links))
	}
	if resp.Links[0].Label != "Sequence Diagram" {
		t.Errorf("expected sequence first, got %q", resp.Links[0].Label)
	}
	if resp.RecordID == "" {
		t.Error("expected archived record ID")
	}

	// The archive route serves the saved record.
	req = httptest.NewRequest("GET", "/api/archive/"+resp.RecordID, nil)
	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from archive, got %d", w.Code)
	}
}

func TestGenerateDiagramsRequiresAnalysis(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest("POST", "/api/diagrams", strings.NewReader(`{"project":"p"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestHistorySearchUnconfigured(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest("GET", "/api/history/search?q=orders", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}
