package dialogue

import (
	"encoding/json"
	"testing"
)

func TestTurnText(t *testing.T) {
	t.Parallel()

	turn := Turn{Role: RoleModel, Parts: []Part{
		{Text: "hello "},
		{FunctionCall: &FunctionCall{Name: "get_weather"}},
		{Text: "world"},
	}}

	if got := turn.Text(); got != "hello world" {
		t.Errorf("Text() = %q, want %q", got, "hello world")
	}
}

func TestTurnEqualStructural(t *testing.T) {
	t.Parallel()

	a := NewTextTurn(RoleUser, "hi")
	b := NewTextTurn(RoleUser, "hi")
	c := NewTextTurn(RoleModel, "hi")

	if !a.Equal(b) {
		t.Error("turns with equal role and parts must be structurally equal")
	}
	if a.Equal(c) {
		t.Error("turns with different roles must not be equal")
	}
}

func TestTurnEqualFunctionParts(t *testing.T) {
	t.Parallel()

	args := json.RawMessage(`{"stationName":"臺南"}`)
	a := Turn{Role: RoleModel, Parts: []Part{{FunctionCall: &FunctionCall{Name: "get_weather", Args: args}}}}
	b := Turn{Role: RoleModel, Parts: []Part{{FunctionCall: &FunctionCall{Name: "get_weather", Args: args}}}}

	if !a.Equal(b) {
		t.Error("function-call turns with equal payloads must be equal")
	}
}

func TestHasContent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		turn Turn
		want bool
	}{
		{"text", NewTextTurn(RoleModel, "hi"), true},
		{"empty parts", Turn{Role: RoleModel, Parts: []Part{{}}}, false},
		{"no parts", Turn{Role: RoleModel}, false},
		{"function response", NewFunctionResponseTurn(FunctionResponse{Name: "get_current_utc_time"}), true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.turn.HasContent(); got != tt.want {
				t.Errorf("HasContent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsSummary(t *testing.T) {
	t.Parallel()

	summary := NewTextTurn(RoleModel, SummaryMarker+" earlier talk about irrigation")
	if !summary.IsSummary() {
		t.Error("marker-prefixed model turn must be a summary")
	}

	organic := NewTextTurn(RoleModel, "watering schedule looks fine")
	if organic.IsSummary() {
		t.Error("organic model turn must not be a summary")
	}

	userMarked := NewTextTurn(RoleUser, SummaryMarker+" pretend")
	if userMarked.IsSummary() {
		t.Error("user turn is never a summary regardless of prefix")
	}
}

func TestKeyRoundTrip(t *testing.T) {
	t.Parallel()

	orig := Turn{Role: RoleUser, Parts: []Part{
		{Text: "weather?"},
		{FunctionResponse: &FunctionResponse{Name: "get_weather", Response: json.RawMessage(`{"result":{"temperature":27.5}}`)}},
	}}

	var decoded Turn
	if err := json.Unmarshal([]byte(orig.Key()), &decoded); err != nil {
		t.Fatalf("unmarshal key: %v", err)
	}
	if !orig.Equal(decoded) {
		t.Error("a turn decoded from its own key must be structurally equal to the original")
	}
}
