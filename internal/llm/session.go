package llm

import (
	"context"

	"github.com/YiFeiChang/Smart-Farm-Steward/pkg/dialogue"
)

// Session is one chat exchange in progress. It owns its turn list: every
// Send appends the outgoing turn and the model's reply, so History always
// reflects the full conversation as the provider saw it.
//
// A Session is not safe for concurrent use; callers serialize access.
type Session struct {
	completer Completer
	system    string
	tools     []ToolDefinition
	cfg       GenerationConfig
	turns     []dialogue.Turn
}

// Response is the result of one Session.Send.
type Response struct {
	// Turn is the model turn produced for this send.
	Turn dialogue.Turn

	// FunctionCalls lists the tool invocations the model requested, in
	// the order it requested them. Empty when the model is done.
	FunctionCalls []dialogue.FunctionCall

	// Usage is the cumulative token usage reported for this response.
	Usage dialogue.Usage
}

// Send appends the turn to the session and requests the next model turn.
// On provider error the outgoing turn is not recorded, leaving the session
// state as it was before the call.
func (s *Session) Send(ctx context.Context, turn dialogue.Turn) (Response, error) {
	comp, err := s.completer.Complete(ctx, CompletionRequest{
		System: s.system,
		Turns:  append(s.turns, turn),
		Tools:  s.tools,
		Config: s.cfg,
	})
	if err != nil {
		return Response{}, err
	}

	s.turns = append(s.turns, turn, comp.Turn)

	return Response{
		Turn:          comp.Turn,
		FunctionCalls: comp.Turn.FunctionCalls(),
		Usage:         comp.Usage,
	}, nil
}

// History returns a copy of every turn exchanged in the session, including
// the seed turns it was created with.
func (s *Session) History() []dialogue.Turn {
	out := make([]dialogue.Turn, len(s.turns))
	copy(out, s.turns)
	return out
}
