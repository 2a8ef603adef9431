// Package conversation implements the conversation-history lifecycle:
// load prior turns, drive the chat model through its tool-call loop, diff
// out the newly produced turns, compress the history by rounds once token
// usage crosses the threshold, and persist the result.
package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/YiFeiChang/Smart-Farm-Steward/internal/llm"
	"github.com/YiFeiChang/Smart-Farm-Steward/internal/store"
	"github.com/YiFeiChang/Smart-Farm-Steward/internal/tool"
	"github.com/YiFeiChang/Smart-Farm-Steward/pkg/dialogue"
)

// ErrToolLoopExceeded is returned when the model keeps requesting tool
// calls past the configured iteration ceiling.
var ErrToolLoopExceeded = errors.New("conversation: tool loop exceeded")

// userInfoPlaceholder is the slot in the system template that receives the
// user profile JSON.
const userInfoPlaceholder = "{userInfo}"

// UsageRecorder receives token-usage and compression counts. Implemented
// by the gateway metrics; a nil recorder disables recording.
type UsageRecorder interface {
	RecordTokens(n int)
	RecordSummary()
}

// Config holds the conversation policy knobs.
type Config struct {
	// SystemTemplate is the chat system instruction with a {userInfo}
	// placeholder. It is never mutated; each request formats a fresh
	// effective instruction from it.
	SystemTemplate string

	// MaxTokensBeforeSummary triggers compression when a response's total
	// token usage exceeds it.
	MaxTokensBeforeSummary int

	// KeepRounds is the number of trailing rounds preserved verbatim when
	// compressing.
	KeepRounds int

	// MaxToolIterations bounds the tool-call loop.
	MaxToolIterations int

	// SummaryConfig is the generation config for summarization calls.
	SummaryConfig llm.GenerationConfig

	// Recorder, when set, receives usage counts.
	Recorder UsageRecorder
}

func (c Config) withDefaults() Config {
	if c.MaxTokensBeforeSummary <= 0 {
		c.MaxTokensBeforeSummary = 4000
	}
	if c.KeepRounds < 0 {
		c.KeepRounds = 0
	} else if c.KeepRounds == 0 {
		c.KeepRounds = 20
	}
	if c.MaxToolIterations <= 0 {
		c.MaxToolIterations = 8
	}
	if c.SummaryConfig.MaxOutputTokens <= 0 {
		c.SummaryConfig.MaxOutputTokens = 1024
	}
	return c
}

// Manager orchestrates one inbound message end to end. Requests for
// different users run concurrently; requests for the same user are
// serialized on a per-user lane.
type Manager struct {
	llm        *llm.Client
	history    store.HistoryStore
	tools      *tool.Registry
	summarizer *Summarizer
	lanes      *laneLock
	cfg        Config
	logger     *slog.Logger
}

// NewManager wires the conversation core.
func NewManager(client *llm.Client, history store.HistoryStore, tools *tool.Registry, cfg Config, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	cfg = cfg.withDefaults()
	return &Manager{
		llm:        client,
		history:    history,
		tools:      tools,
		summarizer: NewSummarizer(client, cfg.SummaryConfig),
		lanes:      newLaneLock(),
		cfg:        cfg,
		logger:     logger,
	}
}

// HandleMessage turns one inbound user message into the newly generated,
// user-visible model turns, persisting the updated history as a side
// effect. Failures from the LLM or the store propagate to the caller; no
// partial history is written.
func (m *Manager) HandleMessage(ctx context.Context, userID, text string, profile store.UserProfile) ([]dialogue.Turn, error) {
	m.lanes.acquire(userID)
	defer m.lanes.release(userID)

	prior, err := m.loadTurns(ctx, userID)
	if err != nil {
		return nil, err
	}

	sess := m.llm.NewSession(prior, m.systemInstruction(profile), m.tools.Declarations())

	resp, err := sess.Send(ctx, dialogue.NewTextTurn(dialogue.RoleUser, text))
	if err != nil {
		return nil, err
	}

	usage, err := m.runToolLoop(ctx, sess, resp)
	if err != nil {
		return nil, err
	}

	candidate := sess.History()
	visible := newModelTurns(candidate, prior)

	if m.cfg.Recorder != nil {
		m.cfg.Recorder.RecordTokens(usage.TotalTokens)
	}

	if usage.TotalTokens > m.cfg.MaxTokensBeforeSummary {
		candidate, err = m.compress(ctx, candidate)
		if err != nil {
			return nil, err
		}
	}

	err = m.history.Put(ctx, store.ConversationHistory{UserID: userID, Turns: candidate})
	if err != nil {
		return nil, err
	}

	return visible, nil
}

func (m *Manager) loadTurns(ctx context.Context, userID string) ([]dialogue.Turn, error) {
	h, err := m.history.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, nil
	}
	return h.Turns, nil
}

// systemInstruction formats a fresh effective instruction per call; the
// shared template is read-only.
func (m *Manager) systemInstruction(profile store.UserProfile) string {
	info, err := json.Marshal(profile)
	if err != nil {
		info = []byte("{}")
	}
	return strings.ReplaceAll(m.cfg.SystemTemplate, userInfoPlaceholder, string(info))
}

// runToolLoop resolves requested tool calls sequentially, feeding each
// result back as its own turn, until a response carries no further
// requests. Unknown tool names are skipped without a reply. The iteration
// ceiling converts a model stuck on tools into ErrToolLoopExceeded instead
// of an unbounded loop.
func (m *Manager) runToolLoop(ctx context.Context, sess *llm.Session, resp llm.Response) (dialogue.Usage, error) {
	usage := resp.Usage
	calls := resp.FunctionCalls

	for iter := 0; len(calls) > 0; iter++ {
		if iter >= m.cfg.MaxToolIterations {
			return usage, ErrToolLoopExceeded
		}

		sent := false
		for _, call := range calls {
			t, err := m.tools.Get(call.Name)
			if err != nil {
				m.logger.Warn("skipping unknown tool call", "tool", call.Name)
				continue
			}

			out := t.Execute(ctx, call.Args)
			if out.Error != "" {
				m.logger.Info("tool returned error payload", "tool", call.Name, "error", out.Error)
			}

			resp, err = sess.Send(ctx, dialogue.NewFunctionResponseTurn(dialogue.FunctionResponse{
				ID:       call.ID,
				Name:     call.Name,
				Response: out.Payload(),
			}))
			if err != nil {
				return usage, err
			}
			usage = resp.Usage
			sent = true
		}

		if !sent {
			// Every requested call was unknown; there is nothing left to
			// send, so the loop cannot make progress.
			break
		}
		calls = resp.FunctionCalls
	}

	return usage, nil
}

// newModelTurns computes the newly produced, user-visible turns: session
// turns absent from the prior history by structural equality, restricted
// to model turns with at least one non-empty part.
func newModelTurns(session, prior []dialogue.Turn) []dialogue.Turn {
	seen := make(map[string]struct{}, len(prior))
	for _, t := range prior {
		seen[t.Key()] = struct{}{}
	}

	var visible []dialogue.Turn
	for _, t := range session {
		if _, old := seen[t.Key()]; old {
			continue
		}
		if t.Role == dialogue.RoleModel && t.HasContent() {
			visible = append(visible, t)
		}
	}
	return visible
}

// compress splits the candidate by rounds and replaces the summarize
// prefix with one summary turn. When the provider yields no candidate the
// original sequence is returned unchanged and threshold pressure simply
// recurs on the next exchange.
func (m *Manager) compress(ctx context.Context, candidate []dialogue.Turn) ([]dialogue.Turn, error) {
	keep, summarize := SplitByRounds(candidate, m.cfg.KeepRounds)
	if len(summarize) == 0 {
		return candidate, nil
	}

	summary, ok, err := m.summarizer.Summarize(ctx, summarize)
	if err != nil {
		return nil, err
	}
	if !ok {
		m.logger.Warn("summarization returned no candidates, keeping history uncompressed",
			"turns", len(candidate))
		return candidate, nil
	}

	compressed := make([]dialogue.Turn, 0, len(keep)+1)
	compressed = append(compressed, summary)
	compressed = append(compressed, keep...)

	if m.cfg.Recorder != nil {
		m.cfg.Recorder.RecordSummary()
	}

	m.logger.Info("history compressed",
		"summarized_turns", len(summarize),
		"kept_turns", len(keep),
	)
	return compressed, nil
}
