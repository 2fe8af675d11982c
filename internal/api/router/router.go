package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	apimiddleware "github.com/axiestudio/assistant-api/internal/api/middleware"
	"github.com/axiestudio/assistant-api/internal/contact"
	"github.com/axiestudio/assistant-api/internal/webchat"
	"github.com/axiestudio/assistant-api/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	Webchat            *webchat.Handler
	Contact            *contact.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// RateLimitPerSec limits chat turns per IP; zero disables limiting.
	RateLimitPerSec float64
	RateLimitBurst  int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(apimiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(apimiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.Webchat != nil {
		r.Get("/ws", cfg.Webchat.HandleWebSocket)
		r.Route("/chat", func(chat chi.Router) {
			if cfg.RateLimitPerSec > 0 {
				chat.Use(apimiddleware.RateLimit(cfg.RateLimitPerSec, cfg.RateLimitBurst))
			}
			chat.Post("/message", cfg.Webchat.HandleMessage)
			chat.Get("/history", cfg.Webchat.HandleHistory)
			chat.Post("/reset", cfg.Webchat.HandleReset)
		})
	}

	if cfg.Contact != nil {
		r.Post("/contact", cfg.Contact.HandleSubmit)
	}

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
