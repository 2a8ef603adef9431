// Package dialogue defines the data contract shared between the conversation
// core, the LLM client, and the persistence layer: role-tagged turns made of
// ordered content parts, plus the reserved summary marker.
package dialogue

import (
	"encoding/json"
	"strings"
)

// Role identifies the author of a turn.
type Role string

// Role values. Tool results travel inside user turns as functionResponse
// parts, so there is no separate tool role on the wire.
const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// SummaryMarker is the reserved prefix of a synthetic summary turn. It
// distinguishes compressed history from organic dialogue; a turn carrying
// it is always at index 0 of a persisted conversation.
const SummaryMarker = "【SUMMARY】"

// FunctionCall is a tool invocation requested by the model.
type FunctionCall struct {
	ID   string          `json:"id,omitempty"`
	Name string          `json:"name"`
	Args json.RawMessage `json:"args,omitempty"`
}

// FunctionResponse is the structured result of a tool invocation, sent back
// to the model as part of a user turn.
type FunctionResponse struct {
	ID       string          `json:"id,omitempty"`
	Name     string          `json:"name"`
	Response json.RawMessage `json:"response"`
}

// Part is one content fragment of a turn. Exactly one field is set.
type Part struct {
	Text             string            `json:"text,omitempty"`
	FunctionCall     *FunctionCall     `json:"functionCall,omitempty"`
	FunctionResponse *FunctionResponse `json:"functionResponse,omitempty"`
}

// IsEmpty reports whether the part carries no content at all.
func (p Part) IsEmpty() bool {
	return p.Text == "" && p.FunctionCall == nil && p.FunctionResponse == nil
}

// Turn is one message in a conversation. Turns are immutable once appended;
// a conversation is an ordered sequence of turns mutated only by append or
// whole-sequence replacement.
type Turn struct {
	Role  Role   `json:"role"`
	Parts []Part `json:"parts"`
}

// NewTextTurn creates a turn with a single text part.
func NewTextTurn(role Role, text string) Turn {
	return Turn{Role: role, Parts: []Part{{Text: text}}}
}

// NewFunctionResponseTurn wraps a tool result in a user turn, the shape the
// chat endpoint expects tool results in.
func NewFunctionResponseTurn(resp FunctionResponse) Turn {
	return Turn{Role: RoleUser, Parts: []Part{{FunctionResponse: &resp}}}
}

// Text returns the concatenated text of all text parts.
func (t Turn) Text() string {
	var b strings.Builder
	for _, p := range t.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}

// FunctionCalls returns the tool invocations requested by this turn, in order.
func (t Turn) FunctionCalls() []FunctionCall {
	var calls []FunctionCall
	for _, p := range t.Parts {
		if p.FunctionCall != nil {
			calls = append(calls, *p.FunctionCall)
		}
	}
	return calls
}

// HasContent reports whether the turn has at least one non-empty part.
func (t Turn) HasContent() bool {
	for _, p := range t.Parts {
		if !p.IsEmpty() {
			return true
		}
	}
	return false
}

// IsSummary reports whether the turn is a synthetic summary turn.
func (t Turn) IsSummary() bool {
	return t.Role == RoleModel && strings.HasPrefix(t.Text(), SummaryMarker)
}

// Key returns a canonical encoding of the turn used as its
// structural-equality key: two turns with the same role and value-equal
// ordered parts produce the same key regardless of identity.
func (t Turn) Key() string {
	data, err := json.Marshal(t)
	if err != nil {
		// Turn contains only marshalable fields; this path is unreachable.
		return ""
	}
	return string(data)
}

// Equal reports structural equality with other.
func (t Turn) Equal(other Turn) bool {
	return t.Key() == other.Key()
}

// Usage tracks token consumption reported by the model for one response.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
