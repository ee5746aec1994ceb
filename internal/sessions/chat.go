package sessions

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/omarselim/codeviz/internal/bundle"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// chatRequest is the incoming WebSocket message format.
type chatRequest struct {
	SessionID string `json:"session_id"` // empty for new sessions
	Project   string `json:"project"`
	Content   string `json:"content"`
}

// chatResponse is the outgoing WebSocket message format.
type chatResponse struct {
	Type      string        `json:"type"` // "response" or "error"
	SessionID string        `json:"session_id"`
	Intent    Intent        `json:"intent,omitempty"`
	Content   string        `json:"content"`
	Links     []bundle.Link `json:"links,omitempty"`
	TicketID  string        `json:"ticket_id,omitempty"`
	RecordID  string        `json:"record_id,omitempty"`
}

// ChatHandler upgrades the connection to a WebSocket and relays chat
// messages through the engine.
func ChatHandler(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("sessions: websocket upgrade: %v", err)
			return
		}
		defer conn.Close()

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("sessions: websocket read: %v", err)
				}
				return
			}

			var req chatRequest
			if err := json.Unmarshal(msg, &req); err != nil {
				sendError(conn, "", "invalid message format")
				continue
			}
			if req.Content == "" {
				sendError(conn, req.SessionID, "content is required")
				continue
			}

			sessionID := req.SessionID
			if sessionID == "" {
				sess, err := engine.Store().CreateSession(r.Context(), "web", req.Project)
				if err != nil {
					sendError(conn, "", "failed to create session: "+err.Error())
					continue
				}
				sessionID = sess.ID
			}

			reply, err := engine.HandleMessage(r.Context(), sessionID, req.Content)
			if err != nil {
				sendError(conn, sessionID, "processing failed: "+err.Error())
				continue
			}

			sendResponse(conn, chatResponse{
				Type:      "response",
				SessionID: sessionID,
				Intent:    reply.Intent,
				Content:   reply.Content,
				Links:     reply.Links,
				TicketID:  reply.TicketID,
				RecordID:  reply.RecordID,
			})
		}
	}
}

func sendResponse(conn *websocket.Conn, resp chatResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("sessions: websocket write: %v", err)
	}
}

func sendError(conn *websocket.Conn, sessionID, message string) {
	resp := chatResponse{
		Type:      "error",
		SessionID: sessionID,
		Content:   message,
	}
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("sessions: websocket write error: %v", err)
	}
}
