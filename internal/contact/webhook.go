package contact

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/axiestudio/assistant-api/internal/observability/metrics"
	"github.com/axiestudio/assistant-api/pkg/logging"
)

// Request is a contact/booking request from the chat widget.
type Request struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Notifier forwards contact requests to an external channel.
type Notifier interface {
	Notify(ctx context.Context, req Request) error
}

// WebhookNotifier sends contact requests to a configured webhook as a GET
// request with query parameters.
type WebhookNotifier struct {
	client         *http.Client
	webhookURL     string
	telegramChatID string
	metrics        *metrics.PipelineMetrics
	logger         *logging.Logger
}

// NewWebhookNotifier creates a webhook notifier. A nil client falls back to a
// default with a 10 second timeout.
func NewWebhookNotifier(webhookURL, telegramChatID string, client *http.Client, m *metrics.PipelineMetrics, logger *logging.Logger) *WebhookNotifier {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &WebhookNotifier{
		client:         client,
		webhookURL:     webhookURL,
		telegramChatID: telegramChatID,
		metrics:        m,
		logger:         logger,
	}
}

// Notify delivers the contact request to the webhook. The name falls back to
// the local part of the email address when empty.
func (n *WebhookNotifier) Notify(ctx context.Context, req Request) error {
	if n.webhookURL == "" {
		return fmt.Errorf("contact: webhook url not configured")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = NameFromEmail(req.Email)
	}

	params := url.Values{}
	params.Set("name", name)
	params.Set("email", req.Email)
	params.Set("timeCreated", time.Now().UTC().Format(time.RFC3339))
	params.Set("telegramChatId", n.telegramChatID)
	params.Set("internalId", uuid.New().String())

	endpoint := n.webhookURL
	if strings.Contains(endpoint, "?") {
		endpoint += "&" + params.Encode()
	} else {
		endpoint += "?" + params.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("contact: build webhook request: %w", err)
	}

	resp, err := n.client.Do(httpReq)
	if err != nil {
		n.metrics.ObserveContact("error")
		return fmt.Errorf("contact: webhook delivery: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		n.metrics.ObserveContact("error")
		return fmt.Errorf("contact: webhook returned status %d", resp.StatusCode)
	}

	n.metrics.ObserveContact("ok")
	n.logger.Info("contact: webhook delivered", "email", req.Email)
	return nil
}

// NameFromEmail derives a display name from the local part of an email
// address, splitting on dots, underscores and digits and capitalizing words.
func NameFromEmail(email string) string {
	local := email
	if i := strings.Index(email, "@"); i >= 0 {
		local = email[:i]
	}
	parts := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || (r >= '0' && r <= '9')
	})
	if len(parts) == 0 {
		return local
	}
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + strings.ToLower(p[1:])
	}
	return strings.Join(parts, " ")
}
