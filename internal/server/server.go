package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/omarselim/codeviz/internal/archive"
	"github.com/omarselim/codeviz/internal/bundle"
	"github.com/omarselim/codeviz/internal/db"
	"github.com/omarselim/codeviz/internal/history"
	"github.com/omarselim/codeviz/internal/sessions"
	"github.com/omarselim/codeviz/internal/tickets"
)

// Config holds server configuration.
type Config struct {
	Port      int
	OutputDir string // directory holding rendered diagram artifacts
	AllowAll  bool   // allow all CORS origins (dev mode)
}

// Deps collects the feature components the server exposes over HTTP.
// Engine and History may be nil when no LLM provider is configured; the
// matching routes then report that the feature is unavailable.
type Deps struct {
	DB           *db.DB
	Engine       *sessions.Engine
	Orchestrator *bundle.Orchestrator
	Archive      *archive.Store
	Tickets      *tickets.Store
	History      *history.Store
}

// Server is the codeviz HTTP server.
type Server struct {
	cfg        Config
	deps       Deps
	router     chi.Router
	httpServer *http.Server
}

// New creates a new server and wires up all routes.
func New(cfg Config, deps Deps) *Server {
	s := &Server{cfg: cfg, deps: deps}
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Direct diagram generation from prepared analysis text.
	r.Post("/api/diagrams", s.handleGenerateDiagrams)

	// Similarity search over past analyses.
	r.Get("/api/history/search", s.handleHistorySearch)

	// Feature routes.
	if s.deps.Engine != nil {
		sessions.RegisterRoutes(r, s.deps.Engine)
	}
	if s.deps.Tickets != nil {
		tickets.RegisterRoutes(r, s.deps.Tickets)
	}
	if s.deps.Archive != nil {
		archive.RegisterRoutes(r, s.deps.Archive)
	}

	// Rendered artifacts are served straight from the output directory.
	if s.cfg.OutputDir != "" {
		fs := http.StripPrefix("/artifacts/", http.FileServer(http.Dir(s.cfg.OutputDir)))
		r.Get("/artifacts/*", fs.ServeHTTP)
	}

	return r
}

// generateResponse is the body returned by POST /api/diagrams.
type generateResponse struct {
	RecordID string        `json:"record_id,omitempty"`
	Links    []bundle.Link `json:"links"`
	Notice   string        `json:"notice,omitempty"`
}

func (s *Server) handleGenerateDiagrams(w http.ResponseWriter, r *http.Request) {
	if s.deps.Orchestrator == nil {
		http.Error(w, `{"error":"diagram generation is not configured"}`, http.StatusServiceUnavailable)
		return
	}

	var req bundle.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.AnalysisText == "" {
		http.Error(w, `{"error":"analysis_text is required"}`, http.StatusBadRequest)
		return
	}

	manifest := s.deps.Orchestrator.Generate(r.Context(), req)

	resp := generateResponse{Links: manifest.Links, Notice: manifest.Notice}
	if resp.Links == nil {
		resp.Links = []bundle.Link{}
	}
	if s.deps.Archive != nil {
		rec, err := s.deps.Archive.Save(r.Context(), req, manifest)
		if err != nil {
			log.Printf("server: archiving record: %v", err)
		} else {
			resp.RecordID = rec.ID
			if s.deps.History != nil {
				if err := s.deps.History.Add(r.Context(), history.Entry{
					ID:         rec.ID,
					Project:    rec.Project,
					ClassName:  rec.ClassName,
					MethodName: rec.MethodName,
					Analysis:   rec.Analysis,
				}); err != nil {
					log.Printf("server: indexing analysis: %v", err)
				}
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleHistorySearch(w http.ResponseWriter, r *http.Request) {
	if s.deps.History == nil {
		http.Error(w, `{"error":"history search is not configured"}`, http.StatusServiceUnavailable)
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		http.Error(w, `{"error":"q parameter is required"}`, http.StatusBadRequest)
		return
	}
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	entries, err := s.deps.History.Search(r.Context(), query, limit)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []history.Entry{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("codeviz server listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
