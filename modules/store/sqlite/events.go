package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// eventLog stores raw webhook events as JSON documents, append-only.
type eventLog struct {
	db *sql.DB
}

// Insert appends one raw event document.
func (e *eventLog) Insert(ctx context.Context, event json.RawMessage) error {
	if !json.Valid(event) {
		return fmt.Errorf("sqlite: event document is not valid JSON")
	}
	_, err := e.db.ExecContext(ctx,
		"INSERT INTO events (document) VALUES (?)", string(event),
	)
	if err != nil {
		return fmt.Errorf("sqlite: insert event: %w", err)
	}
	return nil
}

// PurgeOlderThan deletes events received before cutoff and returns the
// number removed.
func (e *eventLog) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := e.db.ExecContext(ctx,
		"DELETE FROM events WHERE received_at < ?",
		cutoff.UTC().Format("2006-01-02T15:04:05.000Z"),
	)
	if err != nil {
		return 0, fmt.Errorf("sqlite: purge events: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: purge events rows: %w", err)
	}
	return n, nil
}
