package sqlite

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/YiFeiChang/Smart-Farm-Steward/internal/core"
	"github.com/YiFeiChang/Smart-Farm-Steward/internal/store"
	"github.com/YiFeiChang/Smart-Farm-Steward/pkg/dialogue"
)

// newTestModule provisions a store module against a temp database and
// closes it when the test finishes.
func newTestModule(t *testing.T) *Module {
	t.Helper()

	m := &Module{config: Config{Path: filepath.Join(t.TempDir(), "test.db")}}
	appCtx := core.NewAppContext(nil, t.TempDir())
	if err := m.Provision(appCtx.ForModule("store.sqlite")); err != nil {
		t.Fatalf("provision: %v", err)
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	t.Cleanup(func() { _ = m.Stop(context.Background()) })
	return m
}

func TestHistoryRoundTrip(t *testing.T) {
	t.Parallel()

	m := newTestModule(t)
	ctx := context.Background()

	turns := []dialogue.Turn{
		dialogue.NewTextTurn(dialogue.RoleUser, "台北天氣如何？"),
		{Role: dialogue.RoleModel, Parts: []dialogue.Part{
			{FunctionCall: &dialogue.FunctionCall{
				ID:   "call-1",
				Name: "get_weather",
				Args: json.RawMessage(`{"city":"臺北"}`),
			}},
		}},
		dialogue.NewFunctionResponseTurn(dialogue.FunctionResponse{
			ID:       "call-1",
			Name:     "get_weather",
			Response: json.RawMessage(`{"observation":{"weather":"晴"}}`),
		}),
		dialogue.NewTextTurn(dialogue.RoleModel, "台北目前天氣晴朗。"),
	}

	err := m.History().Put(ctx, store.ConversationHistory{UserID: "U1", Turns: turns})
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := m.History().Get(ctx, "U1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("get returned nil for stored history")
	}
	if len(got.Turns) != len(turns) {
		t.Fatalf("got %d turns, want %d", len(got.Turns), len(turns))
	}
	for i := range turns {
		if !got.Turns[i].Equal(turns[i]) {
			t.Errorf("turn %d differs after round trip", i)
		}
	}
	if got.UpdatedAt.IsZero() {
		t.Error("updated_at not populated")
	}
}

func TestHistoryGetMissing(t *testing.T) {
	t.Parallel()

	m := newTestModule(t)
	got, err := m.History().Get(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing history, got %+v", got)
	}
}

func TestHistoryPutReplaces(t *testing.T) {
	t.Parallel()

	m := newTestModule(t)
	ctx := context.Background()

	first := []dialogue.Turn{
		dialogue.NewTextTurn(dialogue.RoleUser, "one"),
		dialogue.NewTextTurn(dialogue.RoleModel, "1"),
	}
	second := []dialogue.Turn{
		dialogue.NewTextTurn(dialogue.RoleModel, dialogue.SummaryMarker+" summary"),
		dialogue.NewTextTurn(dialogue.RoleUser, "two"),
		dialogue.NewTextTurn(dialogue.RoleModel, "2"),
	}

	_ = m.History().Put(ctx, store.ConversationHistory{UserID: "U1", Turns: first})
	_ = m.History().Put(ctx, store.ConversationHistory{UserID: "U1", Turns: second})

	got, err := m.History().Get(ctx, "U1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Turns) != 3 {
		t.Fatalf("got %d turns, want replacement with 3", len(got.Turns))
	}
	if !got.Turns[0].IsSummary() {
		t.Error("replaced history should open with the summary turn")
	}
}

func TestProfileUpsert(t *testing.T) {
	t.Parallel()

	m := newTestModule(t)
	ctx := context.Background()

	p := store.UserProfile{
		UserID:      "U1",
		DisplayName: "阿明",
		PictureURL:  "https://example.com/p.jpg",
		Language:    "zh-TW",
	}
	if err := m.Profiles().Upsert(ctx, p); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := m.Profiles().Get(ctx, "U1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.DisplayName != "阿明" || got.Language != "zh-TW" {
		t.Errorf("got %+v", got)
	}

	// Second upsert replaces attributes.
	p.DisplayName = "小美"
	p.StatusMessage = "farming"
	if err := m.Profiles().Upsert(ctx, p); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	got, _ = m.Profiles().Get(ctx, "U1")
	if got.DisplayName != "小美" || got.StatusMessage != "farming" {
		t.Errorf("after update: %+v", got)
	}
}

func TestProfileGetMissing(t *testing.T) {
	t.Parallel()

	m := newTestModule(t)
	got, err := m.Profiles().Get(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing profile, got %+v", got)
	}
}

func TestProfileUpsertEmptyID(t *testing.T) {
	t.Parallel()

	m := newTestModule(t)
	if err := m.Profiles().Upsert(context.Background(), store.UserProfile{}); err == nil {
		t.Error("expected error for empty user ID")
	}
}

func TestEventLogInsertAndPurge(t *testing.T) {
	t.Parallel()

	m := newTestModule(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := m.Events().Insert(ctx, json.RawMessage(`{"type":"message","source":{"userId":"U1"}}`))
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	// Nothing is old enough yet.
	purged, err := m.Events().PurgeOlderThan(ctx, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if purged != 0 {
		t.Errorf("purged %d events, want 0", purged)
	}

	// A future cutoff removes everything.
	purged, err = m.Events().PurgeOlderThan(ctx, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if purged != 3 {
		t.Errorf("purged %d events, want 3", purged)
	}
}

func TestEventLogRejectsInvalidJSON(t *testing.T) {
	t.Parallel()

	m := newTestModule(t)
	err := m.Events().Insert(context.Background(), json.RawMessage("{not json"))
	if err == nil {
		t.Error("expected error for invalid JSON document")
	}
}

func TestMigrateIdempotent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "test.db")
	appCtx := core.NewAppContext(nil, t.TempDir())

	for i := 0; i < 2; i++ {
		m := &Module{config: Config{Path: path}}
		if err := m.Provision(appCtx.ForModule("store.sqlite")); err != nil {
			t.Fatalf("provision #%d: %v", i+1, err)
		}
		if err := m.Stop(context.Background()); err != nil {
			t.Fatalf("stop #%d: %v", i+1, err)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	c := &Config{BusyTimeout: -1}
	if err := c.validate(); err == nil {
		t.Error("expected error for negative busy_timeout")
	}

	c = &Config{}
	c.defaults()
	if err := c.validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
	if !c.walEnabled() {
		t.Error("WAL should default to enabled")
	}
	if c.EventRetention != 30*24*time.Hour {
		t.Errorf("event retention default = %v", c.EventRetention)
	}
}
