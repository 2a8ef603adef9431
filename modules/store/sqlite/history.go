package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/YiFeiChang/Smart-Farm-Steward/internal/store"
	"github.com/YiFeiChang/Smart-Farm-Steward/pkg/dialogue"
)

// historyStore persists one conversation history per user as a JSON turn
// sequence, replaced wholesale on every Put.
type historyStore struct {
	db *sql.DB
}

// Get returns the history for the user, or nil when none exists.
func (h *historyStore) Get(ctx context.Context, userID string) (*store.ConversationHistory, error) {
	var (
		turnsJSON string
		updatedAt string
	)
	err := h.db.QueryRowContext(ctx,
		"SELECT turns, updated_at FROM chat_histories WHERE user_id = ?", userID,
	).Scan(&turnsJSON, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("sqlite: get history: %w", err)
	}

	var turns []dialogue.Turn
	if err := json.Unmarshal([]byte(turnsJSON), &turns); err != nil {
		return nil, fmt.Errorf("sqlite: decode history for %s: %w", userID, err)
	}

	h2 := &store.ConversationHistory{UserID: userID, Turns: turns}
	if ts, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
		h2.UpdatedAt = ts
	}
	return h2, nil
}

// Put stores the history, replacing any previous turn sequence.
func (h *historyStore) Put(ctx context.Context, history store.ConversationHistory) error {
	turns := history.Turns
	if turns == nil {
		turns = []dialogue.Turn{}
	}
	turnsJSON, err := json.Marshal(turns)
	if err != nil {
		return fmt.Errorf("sqlite: encode history for %s: %w", history.UserID, err)
	}

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO chat_histories (user_id, turns, updated_at)
		VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%fZ','now'))
		ON CONFLICT(user_id) DO UPDATE SET
			turns = excluded.turns,
			updated_at = excluded.updated_at`,
		history.UserID, string(turnsJSON),
	)
	if err != nil {
		return fmt.Errorf("sqlite: put history: %w", err)
	}
	return nil
}
