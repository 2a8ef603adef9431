package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/YiFeiChang/Smart-Farm-Steward/internal/store"
)

// profileStore persists user profiles keyed by platform user ID.
type profileStore struct {
	db *sql.DB
}

// Upsert stores the profile, replacing any previous attributes.
func (p *profileStore) Upsert(ctx context.Context, profile store.UserProfile) error {
	if profile.UserID == "" {
		return errors.New("sqlite: profile user ID must not be empty")
	}

	_, err := p.db.ExecContext(ctx, `
		INSERT INTO users (user_id, display_name, picture_url, status_message, language, updated_at)
		VALUES (?, ?, ?, ?, ?, strftime('%Y-%m-%dT%H:%M:%fZ','now'))
		ON CONFLICT(user_id) DO UPDATE SET
			display_name = excluded.display_name,
			picture_url = excluded.picture_url,
			status_message = excluded.status_message,
			language = excluded.language,
			updated_at = excluded.updated_at`,
		profile.UserID, profile.DisplayName, profile.PictureURL, profile.StatusMessage, profile.Language,
	)
	if err != nil {
		return fmt.Errorf("sqlite: upsert profile: %w", err)
	}
	return nil
}

// Get returns the stored profile, or nil when none exists.
func (p *profileStore) Get(ctx context.Context, userID string) (*store.UserProfile, error) {
	profile := store.UserProfile{UserID: userID}
	err := p.db.QueryRowContext(ctx, `
		SELECT display_name, picture_url, status_message, language
		FROM users WHERE user_id = ?`, userID,
	).Scan(&profile.DisplayName, &profile.PictureURL, &profile.StatusMessage, &profile.Language)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("sqlite: get profile: %w", err)
	}
	return &profile, nil
}
