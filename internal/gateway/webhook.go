package gateway

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
)

// WebhookHandler processes a validated webhook payload.
type WebhookHandler interface {
	HandleWebhook(ctx context.Context, source string, body []byte, headers http.Header) error
}

// SignatureValidator authenticates a raw webhook payload against its
// headers. Each platform brings its own scheme (LINE signs the body with
// HMAC-SHA256 and sends it base64-encoded in X-Line-Signature).
type SignatureValidator func(body []byte, headers http.Header) error

type webhookEntry struct {
	handler  WebhookHandler
	validate SignatureValidator
}

// WebhookDispatcher routes incoming webhooks to registered handlers with
// per-source signature validation.
type WebhookDispatcher struct {
	mu       sync.RWMutex
	handlers map[string]webhookEntry
	metrics  *Metrics
	logger   *slog.Logger
}

// NewWebhookDispatcher creates a ready-to-use dispatcher.
func NewWebhookDispatcher(logger *slog.Logger, metrics *Metrics) *WebhookDispatcher {
	return &WebhookDispatcher{
		handlers: make(map[string]webhookEntry),
		metrics:  metrics,
		logger:   logger,
	}
}

// Register adds a handler for the given source with an optional signature
// validator.
func (d *WebhookDispatcher) Register(source string, h WebhookHandler, v SignatureValidator) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[source] = webhookEntry{handler: h, validate: v}
}

// ServeHTTP implements http.Handler. It extracts the source from the chi
// URL param, validates the signature if configured, and dispatches to the
// registered handler.
func (d *WebhookDispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	source := chi.URLParam(r, "source")
	if source == "" {
		http.Error(w, "missing source", http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	d.mu.RLock()
	entry, ok := d.handlers[source]
	d.mu.RUnlock()

	if !ok {
		d.logger.Warn("webhook received for unregistered source", "source", source)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true,"warning":"no handler registered"}`))
		return
	}

	if entry.validate != nil {
		if err := entry.validate(body, r.Header); err != nil {
			d.logger.Warn("webhook signature rejected", "source", source, "error", err)
			http.Error(w, "invalid signature", http.StatusUnauthorized)
			return
		}
	}

	if err := entry.handler.HandleWebhook(r.Context(), source, body, r.Header); err != nil {
		d.logger.Error("webhook handler failed", "source", source, "error", err)
		if d.metrics != nil {
			d.metrics.RecordError()
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"ok":true}`))
}
