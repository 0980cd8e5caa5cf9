// Package llm provides language-model adapters behind a single completion call.
package llm

import (
	"context"
	"fmt"
	"time"

	sharedConfig "github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/config"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/logger"
)

const (
	ProviderNone      = "none"
	ProviderBedrock   = "bedrock"
	ProviderAnthropic = "anthropic"
)

const (
	defaultMaxTokens   = 2000
	defaultTemperature = 0.7
	defaultTimeout     = 60 * time.Second
)

// Completer sends one user prompt and returns the text of the first content block.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// UpstreamError is a failed model call labelled with the provider's error name,
// e.g. ThrottlingException.
type UpstreamError struct {
	Name    string
	Message string
	Status  int
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Name, e.Message)
	}
	return e.Name
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) UpstreamName() string { return e.Name }

func (e *UpstreamError) UpstreamMessage() string { return e.Message }

// New builds the configured provider. Provider "none" or empty returns a nil Completer
// and no error, which disables every model path.
func New(ctx context.Context, cfg sharedConfig.LLMConfig, log logger.Interface) (Completer, error) {
	switch cfg.Provider {
	case "", ProviderNone:
		log.Infow("language model disabled")
		return nil, nil
	case ProviderBedrock:
		c, err := NewBedrockCompleter(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		return c, nil
	case ProviderAnthropic:
		c, err := NewAnthropicCompleter(cfg, nil, log)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

func timeoutOf(cfg sharedConfig.LLMConfig) time.Duration {
	if cfg.TimeoutSeconds <= 0 {
		return defaultTimeout
	}
	return time.Duration(cfg.TimeoutSeconds) * time.Second
}

func temperatureOf(cfg sharedConfig.LLMConfig) float64 {
	if cfg.Temperature <= 0 {
		return defaultTemperature
	}
	return cfg.Temperature
}

func resolveMaxTokens(requested, configured int) int {
	if requested > 0 {
		return requested
	}
	if configured > 0 {
		return configured
	}
	return defaultMaxTokens
}
