package store

import (
	"context"
	"testing"

	"github.com/YiFeiChang/Smart-Farm-Steward/pkg/dialogue"
)

func TestInMemoryHistoryRoundTrip(t *testing.T) {
	t.Parallel()

	s := NewInMemoryHistoryStore()
	ctx := context.Background()

	turns := []dialogue.Turn{
		dialogue.NewTextTurn(dialogue.RoleUser, "hello"),
		dialogue.NewTextTurn(dialogue.RoleModel, "hi"),
	}
	if err := s.Put(ctx, ConversationHistory{UserID: "U1", Turns: turns}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := s.Get(ctx, "U1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("Get returned nil for stored history")
	}
	if len(got.Turns) != len(turns) {
		t.Fatalf("turns = %d, want %d", len(got.Turns), len(turns))
	}
	for i := range turns {
		if !got.Turns[i].Equal(turns[i]) {
			t.Errorf("turn %d differs after round trip", i)
		}
	}
	if got.UpdatedAt.IsZero() {
		t.Error("UpdatedAt not set on Put")
	}
}

func TestInMemoryHistoryMissingUser(t *testing.T) {
	t.Parallel()

	s := NewInMemoryHistoryStore()
	got, err := s.Get(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Error("Get must return nil for an unknown user")
	}
}

func TestInMemoryHistoryCopiesOnGet(t *testing.T) {
	t.Parallel()

	s := NewInMemoryHistoryStore()
	ctx := context.Background()

	_ = s.Put(ctx, ConversationHistory{UserID: "U1", Turns: []dialogue.Turn{
		dialogue.NewTextTurn(dialogue.RoleUser, "original"),
	}})

	first, _ := s.Get(ctx, "U1")
	first.Turns[0] = dialogue.NewTextTurn(dialogue.RoleUser, "mutated")

	second, _ := s.Get(ctx, "U1")
	if second.Turns[0].Text() != "original" {
		t.Error("mutating a Get result must not affect stored state")
	}
}
