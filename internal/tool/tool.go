// Package tool defines the fixed registry of functions the model may
// invoke mid-conversation. A tool never fails out of the conversation:
// execution problems become structured error payloads the model can relay
// to the user in natural language.
package tool

import (
	"context"
	"encoding/json"
)

// Tool is one callable the model can request by name.
type Tool interface {
	// Name returns the unique identifier the model references.
	Name() string

	// Description returns a human-readable description of what the tool does.
	Description() string

	// Parameters returns a JSON Schema describing the tool's arguments.
	Parameters() json.RawMessage

	// Execute runs the tool. It always returns a payload; failures are
	// reported through Output.Error, never through a Go error.
	Execute(ctx context.Context, args json.RawMessage) Output
}

// Output is the structured result of a tool execution: either a success
// payload or an error description with an optional recovery suggestion.
type Output struct {
	Result     any    `json:"result,omitempty"`
	Error      string `json:"error,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Errorf builds an error output.
func Errorf(msg, suggestion string) Output {
	return Output{Error: msg, Suggestion: suggestion}
}

// Payload encodes the output as the JSON object delivered back to the model.
func (o Output) Payload() json.RawMessage {
	data, err := json.Marshal(o)
	if err != nil {
		return json.RawMessage(`{"error":"internal: unencodable tool output"}`)
	}
	return data
}
