// Package openai implements the provider.openai module: a Chat
// Completions backend with function calling, exposed to the rest of the
// app as an llm.Completer service.
package openai

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/YiFeiChang/Smart-Farm-Steward/internal/core"
	"github.com/YiFeiChang/Smart-Farm-Steward/internal/llm"
	openai "github.com/sashabaranov/go-openai"
	"gopkg.in/yaml.v3"
)

func init() {
	core.RegisterModule(&Provider{})
}

// Compile-time interface guards.
var (
	_ llm.Completer     = (*Provider)(nil)
	_ core.Module       = (*Provider)(nil)
	_ core.Configurable = (*Provider)(nil)
	_ core.Provisioner  = (*Provider)(nil)
	_ core.Validator    = (*Provider)(nil)
)

// Provider implements llm.Completer against the OpenAI Chat Completions
// API (or any compatible endpoint via base_url).
type Provider struct {
	config Config
	logger *slog.Logger
	client *openai.Client
}

// ModuleInfo implements core.Module.
func (p *Provider) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  "provider.openai",
		New: func() core.Module { return &Provider{} },
	}
}

// Configure implements core.Configurable.
func (p *Provider) Configure(node *yaml.Node) error {
	if err := node.Decode(&p.config); err != nil {
		return err
	}
	p.config.defaults()
	return nil
}

// Provision implements core.Provisioner.
func (p *Provider) Provision(ctx *core.AppContext) error {
	p.config.defaults()
	p.logger = ctx.Logger

	cfg := openai.DefaultConfig(p.config.APIKey)
	if p.config.BaseURL != "" {
		cfg.BaseURL = p.config.BaseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: p.config.Timeout}
	p.client = openai.NewClientWithConfig(cfg)

	ctx.RegisterService("provider.openai", p)

	return nil
}

// Validate implements core.Validator.
func (p *Provider) Validate() error {
	return p.config.validate()
}

// ModelName implements llm.Completer.
func (p *Provider) ModelName() string { return p.config.Model }

// Complete implements llm.Completer.
func (p *Provider) Complete(ctx context.Context, req llm.CompletionRequest) (llm.Completion, error) {
	resp, err := p.client.CreateChatCompletion(ctx, toChatRequest(p.config.Model, req))
	if err != nil {
		return llm.Completion{}, fmt.Errorf("provider.openai: chat completion: %w", err)
	}

	out := fromChatResponse(resp)
	if out.Empty {
		p.logger.Warn("completion returned no choices", "model", p.config.Model)
	}
	return out, nil
}
