// Package store defines the persistence contracts: the per-user
// conversation history (system of record between requests), user profiles,
// and the raw-event audit log. Implementations live in modules.
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/YiFeiChang/Smart-Farm-Steward/pkg/dialogue"
)

// ConversationHistory is the whole dialogue of one user. It is owned 1:1
// by a user identity and replaced wholesale on every Put.
type ConversationHistory struct {
	UserID    string
	Turns     []dialogue.Turn
	UpdatedAt time.Time
}

// HistoryStore persists one conversation history per user.
// Put is idempotent for the same content and keyed uniquely by user ID.
type HistoryStore interface {
	// Get returns the history for the user, or nil when none exists.
	Get(ctx context.Context, userID string) (*ConversationHistory, error)

	// Put stores the history, replacing any previous turn sequence.
	Put(ctx context.Context, history ConversationHistory) error
}

// UserProfile holds the identity and personalization attributes fetched
// from the chat platform. Read-only from the conversation core's
// perspective; the core only forwards it for templating and persistence.
type UserProfile struct {
	UserID        string `json:"userId"`
	DisplayName   string `json:"displayName"`
	PictureURL    string `json:"pictureUrl,omitempty"`
	StatusMessage string `json:"statusMessage,omitempty"`
	Language      string `json:"language,omitempty"`
}

// ProfileStore persists user profiles.
type ProfileStore interface {
	Upsert(ctx context.Context, profile UserProfile) error
	Get(ctx context.Context, userID string) (*UserProfile, error)
}

// EventLog is the append-only audit log of raw webhook events, stored as
// JSON documents. Inserts are fire-and-forget from the caller's view:
// failures are logged by the caller and never abort event handling.
type EventLog interface {
	Insert(ctx context.Context, event json.RawMessage) error

	// PurgeOlderThan deletes events received before cutoff and returns
	// the number removed. Retention is an administrative concern; the
	// conversation core never deletes anything.
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
