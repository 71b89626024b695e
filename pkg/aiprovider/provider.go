package aiprovider

import (
	"context"
	"time"
)

type Provider interface {
	Complete(ctx context.Context, req Request) (Response, error)
}

// Gate is implemented by providers that can tell, without sending a
// request, that a call would be refused.
type Gate interface {
	Available() bool
}

type Request struct {
	System string
	Prompt string
}

type Response struct {
	Text         string
	Model        string
	InputTokens  int
	OutputTokens int
}

type Config struct {
	Enable    bool          `mapstructure:"enable"`
	BaseURL   string        `mapstructure:"base_url"`
	APIKey    string        `mapstructure:"api_key"`
	Model     string        `mapstructure:"model"`
	MaxTokens int           `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Breaker   BreakerConfig `mapstructure:"breaker"`
}

type BreakerConfig struct {
	MaxRequests      uint32        `mapstructure:"max_requests"`
	Interval         time.Duration `mapstructure:"interval"`
	Timeout          time.Duration `mapstructure:"timeout"`
	FailureThreshold uint32        `mapstructure:"failure_threshold"`
}
