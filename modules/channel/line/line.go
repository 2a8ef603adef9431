// Package line implements the LINE channel module: webhook signature
// validation, Messaging API calls, and the glue between inbound events
// and the conversation core.
package line

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/YiFeiChang/Smart-Farm-Steward/internal/conversation"
	"github.com/YiFeiChang/Smart-Farm-Steward/internal/core"
	"github.com/YiFeiChang/Smart-Farm-Steward/internal/gateway"
	"github.com/YiFeiChang/Smart-Farm-Steward/internal/llm"
	"github.com/YiFeiChang/Smart-Farm-Steward/internal/store"
	"github.com/YiFeiChang/Smart-Farm-Steward/internal/tool"
	"gopkg.in/yaml.v3"
)

func init() {
	core.RegisterModule(&Channel{})
}

// Compile-time interface guards.
var (
	_ core.Configurable = (*Channel)(nil)
	_ core.Provisioner  = (*Channel)(nil)
	_ core.Validator    = (*Channel)(nil)
	_ core.Starter      = (*Channel)(nil)
)

// Channel is the LINE channel module. It depends on the gateway, the
// store, and a provider module, all resolved through the service registry
// at start time so module load order does not matter.
type Channel struct {
	config   Config
	appCtx   *core.AppContext
	logger   *slog.Logger
	client   *Client
	receiver *WebhookReceiver
}

// ModuleInfo implements core.Module.
func (c *Channel) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  "channel.line",
		New: func() core.Module { return &Channel{} },
	}
}

// Configure implements core.Configurable.
func (c *Channel) Configure(node *yaml.Node) error {
	if err := node.Decode(&c.config); err != nil {
		return fmt.Errorf("line: decode config: %w", err)
	}
	c.config.defaults()
	return nil
}

// Provision implements core.Provisioner.
func (c *Channel) Provision(ctx *core.AppContext) error {
	c.appCtx = ctx
	c.logger = ctx.Logger
	c.client = NewClient(c.config.ChannelToken, c.config.APIURL)
	return nil
}

// Validate implements core.Validator.
func (c *Channel) Validate() error {
	return c.config.validate()
}

// Start implements core.Starter. It resolves its peer services, builds the
// tool registry and conversation manager, and registers the webhook route.
func (c *Channel) Start() error {
	completer, err := resolveService[llm.Completer](c.appCtx, "provider.openai")
	if err != nil {
		return err
	}
	history, err := resolveService[store.HistoryStore](c.appCtx, "store.history")
	if err != nil {
		return err
	}
	profiles, err := resolveService[store.ProfileStore](c.appCtx, "store.profiles")
	if err != nil {
		return err
	}
	events, err := resolveService[store.EventLog](c.appCtx, "store.events")
	if err != nil {
		return err
	}
	dispatcher, err := resolveService[*gateway.WebhookDispatcher](c.appCtx, "gateway.webhook_dispatcher")
	if err != nil {
		return err
	}
	metrics, err := resolveService[*gateway.Metrics](c.appCtx, "gateway.metrics")
	if err != nil {
		return err
	}

	tools := tool.NewRegistry()
	if c.config.Weather.APIKey != "" {
		if err := tools.Register(tool.NewWeather(c.config.Weather.APIKey, c.config.Weather.APIURL)); err != nil {
			return err
		}
	} else {
		c.logger.Warn("weather api key not configured, weather tool disabled")
	}
	if err := tools.Register(tool.CurrentTime{}); err != nil {
		return err
	}

	chatClient := llm.NewClient(completer, llm.GenerationConfig{
		Temperature:     c.config.Chat.Temperature,
		MaxOutputTokens: c.config.Chat.MaxOutputTokens,
	})

	// Summarization runs deterministic on purpose.
	summaryTemp := 0.0
	manager := conversation.NewManager(chatClient, history, tools, conversation.Config{
		SystemTemplate:         c.config.Chat.SystemTemplate,
		MaxTokensBeforeSummary: c.config.Chat.MaxTokensBeforeSummary,
		KeepRounds:             c.config.Chat.KeepRounds,
		MaxToolIterations:      c.config.Chat.MaxToolIterations,
		SummaryConfig: llm.GenerationConfig{
			Temperature:     &summaryTemp,
			MaxOutputTokens: c.config.Chat.SummaryMaxOutputTokens,
		},
		Recorder: metrics,
	}, c.logger)

	c.receiver = NewWebhookReceiver(c.client, manager, profiles, events, metrics, c.logger)
	dispatcher.Register("line", c.receiver, SignatureValidator(c.config.ChannelSecret))

	c.logger.Info("line channel started", "model", completer.ModelName())
	return nil
}

// Stop implements core.Stopper. The channel holds no background work; the
// gateway stops accepting webhooks on its own shutdown.
func (c *Channel) Stop(context.Context) error {
	return nil
}

// resolveService fetches a named service from the registry and asserts its
// type.
func resolveService[T any](ctx *core.AppContext, name string) (T, error) {
	var zero T
	svc, ok := ctx.Service(name)
	if !ok {
		return zero, fmt.Errorf("line: required service %q not registered", name)
	}
	typed, ok := svc.(T)
	if !ok {
		return zero, fmt.Errorf("line: service %q has unexpected type %T", name, svc)
	}
	return typed, nil
}
