package line

import "errors"

const defaultAPIURL = "https://api.line.me/v2/bot"

// Config holds the LINE channel configuration.
type Config struct {
	// ChannelSecret verifies webhook signatures.
	ChannelSecret string `yaml:"channel_secret"`

	// ChannelToken authenticates Messaging API calls.
	ChannelToken string `yaml:"channel_token"`

	// APIURL overrides the Messaging API endpoint (for tests).
	APIURL string `yaml:"api_url"`

	// Chat tunes the conversation policy.
	Chat ChatConfig `yaml:"chat"`

	// Weather configures the weather tool.
	Weather WeatherConfig `yaml:"weather"`
}

// ChatConfig tunes the conversation core.
type ChatConfig struct {
	// SystemTemplate overrides the built-in system instruction. Must
	// contain the {userInfo} placeholder to receive the profile JSON.
	SystemTemplate string `yaml:"system_template"`

	// Temperature for chat completions. Defaults to 0.7.
	Temperature *float64 `yaml:"temperature"`

	// MaxOutputTokens per chat completion. Defaults to 1024.
	MaxOutputTokens int `yaml:"max_output_tokens"`

	// MaxTokensBeforeSummary triggers history compression. Defaults to 4000.
	MaxTokensBeforeSummary int `yaml:"max_tokens_before_summary"`

	// KeepRounds preserved verbatim when compressing. Defaults to 20.
	KeepRounds int `yaml:"keep_rounds"`

	// MaxToolIterations bounds the tool-call loop. Defaults to 8.
	MaxToolIterations int `yaml:"max_tool_iterations"`

	// SummaryMaxOutputTokens for summarization calls. Defaults to 1024.
	SummaryMaxOutputTokens int `yaml:"summary_max_output_tokens"`
}

// WeatherConfig configures the CWA weather tool.
type WeatherConfig struct {
	// APIKey is the CWA open-data authorization key. When empty the
	// weather tool is not registered.
	APIKey string `yaml:"api_key"`

	// APIURL overrides the CWA endpoint (for tests).
	APIURL string `yaml:"api_url"`
}

func (c *Config) defaults() {
	if c.APIURL == "" {
		c.APIURL = defaultAPIURL
	}
	if c.Chat.SystemTemplate == "" {
		c.Chat.SystemTemplate = defaultSystemTemplate
	}
	if c.Chat.Temperature == nil {
		t := 0.7
		c.Chat.Temperature = &t
	}
	if c.Chat.MaxOutputTokens <= 0 {
		c.Chat.MaxOutputTokens = 1024
	}
	if c.Chat.SummaryMaxOutputTokens <= 0 {
		c.Chat.SummaryMaxOutputTokens = 1024
	}
}

func (c *Config) validate() error {
	if c.ChannelSecret == "" {
		return errors.New("line: channel_secret is required")
	}
	if c.ChannelToken == "" {
		return errors.New("line: channel_token is required")
	}
	return nil
}
