package contact

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/axiestudio/assistant-api/pkg/logging"
)

// Handler exposes contact submission over HTTP.
type Handler struct {
	notifier Notifier
	logger   *logging.Logger
}

// NewHandler creates a contact handler.
func NewHandler(notifier Notifier, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{notifier: notifier, logger: logger}
}

// HandleSubmit accepts a contact request and forwards it to the notifier.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		http.Error(w, "a valid email is required", http.StatusBadRequest)
		return
	}

	if err := h.notifier.Notify(r.Context(), req); err != nil {
		h.logger.Error("contact: submission failed", "email", req.Email, "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"error": "We could not submit your request right now. Please try again in a moment.",
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
