package webchat

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/websocket"

	"github.com/axiestudio/assistant-api/internal/conversation"
	"github.com/axiestudio/assistant-api/pkg/logging"
)

// Engine runs one pipeline turn per user message.
type Engine interface {
	StartSession(ctx context.Context, sessionID string) (string, error)
	ProcessMessage(ctx context.Context, sessionID, text string) (conversation.TurnResult, error)
	ResetSession(ctx context.Context, sessionID string) error
	History(ctx context.Context, sessionID string, limit int64) ([]conversation.Message, error)
}

// Handler manages widget connections and messages.
type Handler struct {
	engine Engine
	logger *logging.Logger
}

// InboundMessage is what the widget sends.
type InboundMessage struct {
	Type      string `json:"type"` // "message", "ping"
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

// OutboundMessage is what we send to the widget.
type OutboundMessage struct {
	Type      string                     `json:"type"` // "message", "typing", "history", "session", "pong", "error"
	Text      string                     `json:"text,omitempty"`
	Role      string                     `json:"role,omitempty"`
	SessionID string                     `json:"session_id,omitempty"`
	Timestamp string                     `json:"timestamp,omitempty"`
	Messages  []HistoryMessage           `json:"messages,omitempty"`
	Booking   *conversation.BookingIntent `json:"booking,omitempty"`
}

// HistoryMessage is a simplified message for history responses.
type HistoryMessage struct {
	Role      string `json:"role"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// NewHandler creates a webchat handler.
func NewHandler(engine Engine, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{engine: engine, logger: logger}
}

// generateSessionID creates a random session identifier.
func generateSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return uuid.New().String()
	}
	return hex.EncodeToString(b)
}

// SessionTitle derives a short session title from the first user message:
// first six words, capped at 50 characters.
func SessionTitle(messages []conversation.Message) string {
	for _, m := range messages {
		if m.Role != conversation.RoleUser {
			continue
		}
		words := strings.Fields(strings.TrimSpace(m.Text))
		if len(words) > 6 {
			words = words[:6]
		}
		title := strings.Join(words, " ")
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		return title
	}
	return ""
}

// HandleWebSocket upgrades to WebSocket and handles real-time messaging.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, r)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveWS(conn *websocket.Conn, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	fresh := sessionID == ""
	if fresh {
		sessionID = generateSessionID()
	}

	_ = websocket.JSON.Send(conn, OutboundMessage{Type: "session", SessionID: sessionID})

	if fresh {
		if welcome, err := h.engine.StartSession(r.Context(), sessionID); err == nil {
			_ = websocket.JSON.Send(conn, OutboundMessage{
				Type:      "message",
				Role:      conversation.RoleAssistant,
				Text:      welcome,
				Timestamp: time.Now().UTC().Format(time.RFC3339),
			})
		}
	} else if msgs, err := h.engine.History(r.Context(), sessionID, 50); err == nil && len(msgs) > 0 {
		_ = websocket.JSON.Send(conn, OutboundMessage{Type: "history", Messages: toHistory(msgs)})
	}

	h.logger.Info("webchat: connection opened", "session_id", sessionID)

	for {
		var msg InboundMessage
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			h.logger.Debug("webchat: connection closed", "session_id", sessionID, "error", err)
			return
		}

		if msg.Type == "ping" {
			_ = websocket.JSON.Send(conn, OutboundMessage{Type: "pong"})
			continue
		}
		if msg.Type != "message" || strings.TrimSpace(msg.Text) == "" {
			continue
		}

		_ = websocket.JSON.Send(conn, OutboundMessage{Type: "typing"})

		result, err := h.engine.ProcessMessage(r.Context(), sessionID, msg.Text)
		if err != nil {
			h.logger.Error("webchat: turn failed", "session_id", sessionID, "error", err)
			_ = websocket.JSON.Send(conn, OutboundMessage{
				Type: "error",
				Text: "Sorry, something went wrong. Please try again.",
			})
			continue
		}

		out := OutboundMessage{
			Type:      "message",
			Role:      conversation.RoleAssistant,
			Text:      result.Reply,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}
		if result.Booking.ShouldShow {
			booking := result.Booking
			out.Booking = &booking
		}
		_ = websocket.JSON.Send(conn, out)
	}
}

// HandleMessage is the HTTP fallback for sending a message; it returns the
// full turn result synchronously.
func (h *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
		Text      string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		req.SessionID = generateSessionID()
		if _, err := h.engine.StartSession(r.Context(), req.SessionID); err != nil {
			h.logger.Error("webchat: start session failed", "error", err)
		}
	}

	result, err := h.engine.ProcessMessage(r.Context(), req.SessionID, req.Text)
	if err != nil {
		h.logger.Error("webchat: turn failed", "session_id", req.SessionID, "error", err)
		http.Error(w, "failed to process message", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(struct {
		SessionID string `json:"session_id"`
		conversation.TurnResult
	}{SessionID: req.SessionID, TurnResult: result})
}

// HandleHistory returns chat history for a session.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	msgs, err := h.engine.History(r.Context(), sessionID, 100)
	if err != nil {
		h.logger.Error("webchat: failed to load history", "session_id", sessionID, "error", err)
		http.Error(w, "failed to load history", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"title":    SessionTitle(msgs),
		"messages": toHistory(msgs),
	})
}

// HandleReset clears a session's classification counters.
func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionID == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}
	if err := h.engine.ResetSession(r.Context(), req.SessionID); err != nil {
		h.logger.Error("webchat: reset failed", "session_id", req.SessionID, "error", err)
		http.Error(w, "failed to reset session", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toHistory(msgs []conversation.Message) []HistoryMessage {
	out := make([]HistoryMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, HistoryMessage{
			Role:      m.Role,
			Text:      m.Text,
			Timestamp: m.Timestamp.Format(time.RFC3339),
		})
	}
	return out
}
