package openai

import (
	"fmt"
	"time"
)

// Config holds the OpenAI provider configuration.
type Config struct {
	// APIKey authenticates against the Chat Completions API.
	APIKey string `yaml:"api_key"`

	// BaseURL overrides the API endpoint (for OpenAI-compatible gateways).
	BaseURL string `yaml:"base_url"`

	// Model is the chat model identifier.
	Model string `yaml:"model"`

	// Timeout is the hard deadline for one completion request.
	// Defaults to 60s.
	Timeout time.Duration `yaml:"timeout"`
}

func (c *Config) defaults() {
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
}

func (c *Config) validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("provider.openai: api_key is required")
	}
	if c.Model == "" {
		return fmt.Errorf("provider.openai: model is required")
	}
	return nil
}
