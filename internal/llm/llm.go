// Package llm defines the contract for communicating with a chat LLM:
// a stateless Completer implemented by provider modules, and a Client that
// layers chat sessions and single-shot generation on top of it.
package llm

import (
	"context"
	"encoding/json"

	"github.com/YiFeiChang/Smart-Farm-Steward/pkg/dialogue"
)

// ToolDefinition describes a tool the model may invoke.
type ToolDefinition struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

// GenerationConfig holds per-request sampling parameters.
type GenerationConfig struct {
	Temperature     *float64
	MaxOutputTokens int
}

// CompletionRequest is the input to a Completer.Complete call.
type CompletionRequest struct {
	System string
	Turns  []dialogue.Turn
	Tools  []ToolDefinition
	Config GenerationConfig
}

// Completion is the output of a Completer.Complete call. Turn is the model
// turn produced by the provider; a provider that returns no candidates
// reports Empty true with a zero Turn.
type Completion struct {
	Turn  dialogue.Turn
	Usage dialogue.Usage
	Empty bool
}

// Completer is the interface provider modules implement. It is a single
// stateless turn-based call; session state lives in Session.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (Completion, error)

	// ModelName returns the identifier of the underlying model.
	ModelName() string
}

// Client exposes the two modes the conversation core needs: chat sessions
// over a growing turn list, and single-shot generation for summarization.
type Client struct {
	completer Completer
	chatCfg   GenerationConfig
}

// NewClient wraps a completer with the chat-mode generation config.
func NewClient(completer Completer, chatCfg GenerationConfig) *Client {
	return &Client{completer: completer, chatCfg: chatCfg}
}

// NewSession starts a chat session seeded with prior turns. The prior slice
// is copied; the session never aliases caller state.
func (c *Client) NewSession(prior []dialogue.Turn, system string, tools []ToolDefinition) *Session {
	turns := make([]dialogue.Turn, len(prior))
	copy(turns, prior)
	return &Session{
		completer: c.completer,
		system:    system,
		tools:     tools,
		cfg:       c.chatCfg,
		turns:     turns,
	}
}

// Generate performs a single-shot (non-chat) call over the given turns.
// It reports ok=false when the provider returns no candidates.
func (c *Client) Generate(ctx context.Context, turns []dialogue.Turn, system string, cfg GenerationConfig) (dialogue.Turn, bool, error) {
	comp, err := c.completer.Complete(ctx, CompletionRequest{
		System: system,
		Turns:  turns,
		Config: cfg,
	})
	if err != nil {
		return dialogue.Turn{}, false, err
	}
	if comp.Empty {
		return dialogue.Turn{}, false, nil
	}
	return comp.Turn, true, nil
}
