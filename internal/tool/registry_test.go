package tool

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

type fakeTool struct {
	name string
}

func (f fakeTool) Name() string              { return f.name }
func (fakeTool) Description() string         { return "fake" }
func (fakeTool) Parameters() json.RawMessage { return json.RawMessage(`{"type":"object"}`) }
func (fakeTool) Execute(context.Context, json.RawMessage) Output {
	return Output{Result: "ok"}
}

func TestRegistryRegisterAndGet(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	if err := r.Register(fakeTool{name: "get_weather"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := r.Get("get_weather"); err != nil {
		t.Errorf("Get registered tool: %v", err)
	}

	if _, err := r.Get("nope"); !errors.Is(err, ErrToolNotFound) {
		t.Errorf("Get unknown = %v, want ErrToolNotFound", err)
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	if err := r.Register(fakeTool{name: "t"}); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if err := r.Register(fakeTool{name: "t"}); !errors.Is(err, ErrDuplicateTool) {
		t.Errorf("duplicate Register = %v, want ErrDuplicateTool", err)
	}
	if err := r.Register(fakeTool{name: "  "}); !errors.Is(err, ErrEmptyToolName) {
		t.Errorf("blank Register = %v, want ErrEmptyToolName", err)
	}
}

func TestRegistryDeclarationsKeepRegistrationOrder(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	for _, name := range []string{"get_weather", "get_current_utc_time"} {
		if err := r.Register(fakeTool{name: name}); err != nil {
			t.Fatalf("Register %s: %v", name, err)
		}
	}

	defs := r.Declarations()
	if len(defs) != 2 {
		t.Fatalf("declarations = %d, want 2", len(defs))
	}
	if defs[0].Name != "get_weather" || defs[1].Name != "get_current_utc_time" {
		t.Errorf("declaration order changed: %v, %v", defs[0].Name, defs[1].Name)
	}
}

func TestCurrentTimePayload(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2026, 8, 29, 3, 4, 5, 0, time.UTC)
	ct := CurrentTime{Now: func() time.Time { return fixed }}

	out := ct.Execute(context.Background(), nil)
	if out.Error != "" {
		t.Fatalf("unexpected error payload: %s", out.Error)
	}
	result, ok := out.Result.(string)
	if !ok {
		t.Fatalf("result type %T, want string", out.Result)
	}
	if want := "2026-08-29T03:04:05Z"; !strings.Contains(result, want) {
		t.Errorf("result %q does not contain %q", result, want)
	}
}

func TestOutputPayloadEncodesError(t *testing.T) {
	t.Parallel()

	out := Errorf("boom", "try again")
	var decoded map[string]string
	if err := json.Unmarshal(out.Payload(), &decoded); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if decoded["error"] != "boom" || decoded["suggestion"] != "try again" {
		t.Errorf("unexpected payload: %v", decoded)
	}
}
