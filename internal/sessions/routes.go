package sessions

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the chat session API routes.
func RegisterRoutes(r chi.Router, engine *Engine) {
	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", handleCreateSession(engine))
		r.Get("/{id}/messages", handleGetMessages(engine))
		r.Post("/{id}/messages", handlePostMessage(engine))
	})
	r.Get("/api/chat/ws", ChatHandler(engine))
}

type createSessionRequest struct {
	Channel string `json:"channel"`
	Project string `json:"project"`
}

func handleCreateSession(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createSessionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			req = createSessionRequest{}
		}
		if req.Channel == "" {
			req.Channel = "api"
		}

		sess, err := engine.Store().CreateSession(r.Context(), req.Channel, req.Project)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(sess)
	}
}

func handleGetMessages(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "id")
		messages, err := engine.Store().GetMessages(r.Context(), sessionID)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if messages == nil {
			messages = []Message{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(messages)
	}
}

type postMessageRequest struct {
	Content string `json:"content"`
}

func handlePostMessage(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "id")
		var req postMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if req.Content == "" {
			http.Error(w, `{"error":"content is required"}`, http.StatusBadRequest)
			return
		}

		reply, err := engine.HandleMessage(r.Context(), sessionID, req.Content)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(reply)
	}
}
