package line

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/YiFeiChang/Smart-Farm-Steward/internal/gateway"
	"github.com/YiFeiChang/Smart-Farm-Steward/internal/store"
	"github.com/YiFeiChang/Smart-Farm-Steward/pkg/dialogue"
)

// Fallback reply for message types the bot cannot read.
const (
	fallbackStickerPackage = "11537"
	fallbackStickerID      = "52002770"
	fallbackText           = "對不起，我目前只能理解文字訊息喔～"
)

// messagingAPI is the Client surface the receiver needs.
type messagingAPI interface {
	ReplyMessage(ctx context.Context, replyToken string, messages []Message) error
	GetProfile(ctx context.Context, userID string) (*Profile, error)
}

// conversations is the conversation manager surface the receiver needs.
type conversations interface {
	HandleMessage(ctx context.Context, userID, text string, profile store.UserProfile) ([]dialogue.Turn, error)
}

// WebhookReceiver handles validated LINE webhook deliveries: it audit-logs
// every raw event, answers unreadable messages with the sticker fallback,
// and drives text messages through the conversation core.
type WebhookReceiver struct {
	client   messagingAPI
	chat     conversations
	profiles store.ProfileStore
	events   store.EventLog
	metrics  *gateway.Metrics
	logger   *slog.Logger
}

// Compile-time interface check.
var _ gateway.WebhookHandler = (*WebhookReceiver)(nil)

// NewWebhookReceiver wires the receiver.
func NewWebhookReceiver(client messagingAPI, chat conversations, profiles store.ProfileStore, events store.EventLog, metrics *gateway.Metrics, logger *slog.Logger) *WebhookReceiver {
	return &WebhookReceiver{
		client:   client,
		chat:     chat,
		profiles: profiles,
		events:   events,
		metrics:  metrics,
		logger:   logger,
	}
}

// HandleWebhook implements gateway.WebhookHandler. Each event is handled
// independently; per-event failures are logged and never surface to LINE,
// which would otherwise redeliver the whole batch.
func (r *WebhookReceiver) HandleWebhook(ctx context.Context, _ string, body []byte, _ http.Header) error {
	var req struct {
		Events []json.RawMessage `json:"events"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return fmt.Errorf("line: decode webhook body: %w", err)
	}

	for _, raw := range req.Events {
		r.auditEvent(ctx, raw)

		var event Event
		if err := json.Unmarshal(raw, &event); err != nil {
			r.logger.Warn("skipping undecodable event", "error", err)
			continue
		}

		if err := r.handleEvent(ctx, event); err != nil {
			if r.metrics != nil {
				r.metrics.RecordError()
			}
			r.logger.Error("event handling failed",
				"type", event.Type,
				"user", event.Source.UserID,
				"error", err,
			)
		}
	}

	return nil
}

// auditEvent appends the raw event document. Fire and forget: an audit
// failure must never block the reply path.
func (r *WebhookReceiver) auditEvent(ctx context.Context, raw json.RawMessage) {
	if err := r.events.Insert(ctx, raw); err != nil {
		r.logger.Warn("event audit log failed", "error", err)
	}
}

func (r *WebhookReceiver) handleEvent(ctx context.Context, event Event) error {
	if event.Type != "message" || event.Message == nil || event.Message.Type != "text" {
		return r.replyFallback(ctx, event)
	}

	if r.metrics != nil {
		r.metrics.RecordMessage()
	}

	profile := r.resolveProfile(ctx, event.Source.UserID)

	visible, err := r.chat.HandleMessage(ctx, event.Source.UserID, event.Message.Text, profile)
	if err != nil {
		return err
	}

	var messages []Message
	for _, turn := range visible {
		if text := turn.Text(); text != "" {
			messages = append(messages, NewTextMessage(text))
		}
	}
	if len(messages) == 0 {
		r.logger.Warn("no reply produced", "user", event.Source.UserID)
		return nil
	}

	return r.client.ReplyMessage(ctx, event.ReplyToken, messages)
}

// replyFallback answers non-text messages with a sticker and a short
// apology. Events without a reply token (unsend, leave) are dropped.
func (r *WebhookReceiver) replyFallback(ctx context.Context, event Event) error {
	if event.ReplyToken == "" {
		return nil
	}
	return r.client.ReplyMessage(ctx, event.ReplyToken, []Message{
		NewStickerMessage(fallbackStickerPackage, fallbackStickerID),
		NewTextMessage(fallbackText),
	})
}

// resolveProfile fetches the platform profile and persists it. Both steps
// degrade gracefully; the conversation proceeds with whatever is known.
func (r *WebhookReceiver) resolveProfile(ctx context.Context, userID string) store.UserProfile {
	profile := store.UserProfile{UserID: userID}

	p, err := r.client.GetProfile(ctx, userID)
	if err != nil {
		r.logger.Warn("profile fetch failed", "user", userID, "error", err)
		return profile
	}

	profile.DisplayName = p.DisplayName
	profile.PictureURL = p.PictureURL
	profile.StatusMessage = p.StatusMessage
	profile.Language = p.Language

	if err := r.profiles.Upsert(ctx, profile); err != nil {
		r.logger.Warn("profile upsert failed", "user", userID, "error", err)
	}
	return profile
}
