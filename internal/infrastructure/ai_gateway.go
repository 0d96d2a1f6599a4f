package infrastructure

import (
	"context"
	"fmt"
	"time"

	"project_resident/internal/interfaces"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOpenAIModel   = "gpt-4o-mini"
	defaultGeminiModel   = "gemini-2.5-flash"
	maxReplyTokens       = 800
)

// GatewayConfig selects and configures the chat widget's AI backend.
type GatewayConfig struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
	Timeout  time.Duration
}

// NewChatGateway returns the configured gateway, or nil for provider "none",
// in which case the chat widget answers with a fixed fallback reply.
func NewChatGateway(ctx context.Context, cfg GatewayConfig) (interfaces.ChatGateway, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	switch cfg.Provider {
	case "", "none":
		return nil, nil
	case "openai":
		return NewOpenAIGateway(cfg), nil
	case "gemini":
		return NewGeminiGateway(ctx, cfg)
	}
	return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
}
