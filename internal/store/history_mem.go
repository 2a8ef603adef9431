package store

import (
	"context"
	"sync"
	"time"

	"github.com/YiFeiChang/Smart-Farm-Steward/pkg/dialogue"
)

// InMemoryHistoryStore is a thread-safe, in-memory HistoryStore. It backs
// tests and configurations that run without persistence.
type InMemoryHistoryStore struct {
	mu        sync.RWMutex
	histories map[string]ConversationHistory
}

// NewInMemoryHistoryStore creates an empty store.
func NewInMemoryHistoryStore() *InMemoryHistoryStore {
	return &InMemoryHistoryStore{histories: make(map[string]ConversationHistory)}
}

// Compile-time interface check.
var _ HistoryStore = (*InMemoryHistoryStore)(nil)

// Get returns a copy of the stored history, or nil when none exists.
func (s *InMemoryHistoryStore) Get(_ context.Context, userID string) (*ConversationHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.histories[userID]
	if !ok {
		return nil, nil
	}

	turns := make([]dialogue.Turn, len(h.Turns))
	copy(turns, h.Turns)
	h.Turns = turns
	return &h, nil
}

// Put replaces the stored history for the user.
func (s *InMemoryHistoryStore) Put(_ context.Context, history ConversationHistory) error {
	turns := make([]dialogue.Turn, len(history.Turns))
	copy(turns, history.Turns)
	history.Turns = turns
	history.UpdatedAt = time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.histories[history.UserID] = history
	return nil
}
