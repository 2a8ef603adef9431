package tool

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/YiFeiChang/Smart-Farm-Steward/internal/llm"
)

// Registry errors.
var (
	ErrEmptyToolName = errors.New("tool: name must not be empty")
	ErrDuplicateTool = errors.New("tool: already registered")
	ErrToolNotFound  = errors.New("tool: not found")
)

// Registry holds the registered tools. It is instance-based (not global)
// for better testability.
type Registry struct {
	mu    sync.RWMutex
	names []string // registration order, used for stable declarations
	tools map[string]Tool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool to the registry.
func (r *Registry) Register(t Tool) error {
	name := strings.TrimSpace(t.Name())
	if name == "" {
		return ErrEmptyToolName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, name)
	}
	r.tools[name] = t
	r.names = append(r.names, name)
	return nil
}

// Get returns the tool with the given name, or ErrToolNotFound.
func (r *Registry) Get(name string) (Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	return t, nil
}

// Declarations returns the tool definitions passed to the chat endpoint,
// in registration order.
func (r *Registry) Declarations() []llm.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]llm.ToolDefinition, 0, len(r.names))
	for _, name := range r.names {
		t := r.tools[name]
		defs = append(defs, llm.ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}
	return defs
}
