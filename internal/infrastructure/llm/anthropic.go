package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	sharedConfig "github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/config"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/logger"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/utils/logutil"
)

const (
	defaultAnthropicBaseURL = "https://api.anthropic.com"
	defaultAnthropicModel   = "claude-3-haiku-20240307"
	defaultAnthropicVersion = "2023-06-01"
	maxResponseBytes        = 4 << 20
)

// AnthropicCompleter calls the Messages HTTP API directly, retrying 429 and 5xx responses.
type AnthropicCompleter struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	model       string
	version     string
	maxTokens   int
	temperature float64
	maxRetries  int
	logger      logger.Interface

	// newBackOff is replaced in tests to avoid real sleeps.
	newBackOff func() backoff.BackOff
}

func NewAnthropicCompleter(cfg sharedConfig.LLMConfig, httpClient *http.Client, log logger.Interface) (*AnthropicCompleter, error) {
	if cfg.Anthropic.APIKey == "" {
		return nil, errors.New("anthropic api key is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeoutOf(cfg)}
	}

	c := &AnthropicCompleter{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(orDefault(cfg.Anthropic.BaseURL, defaultAnthropicBaseURL), "/"),
		apiKey:      cfg.Anthropic.APIKey,
		model:       orDefault(cfg.Anthropic.Model, defaultAnthropicModel),
		version:     orDefault(cfg.Anthropic.Version, defaultAnthropicVersion),
		maxTokens:   cfg.MaxTokens,
		temperature: temperatureOf(cfg),
		maxRetries:  cfg.MaxRetries,
		logger:      log,
	}
	c.newBackOff = func() backoff.BackOff {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = 500 * time.Millisecond
		b.MaxInterval = 5 * time.Second
		b.MaxElapsedTime = timeoutOf(cfg)
		return b
	}

	log.Infow("anthropic completer initialized", "base_url", c.baseURL, "model", c.model)
	return c, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func (c *AnthropicCompleter) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	req := newMessagesRequest(prompt, resolveMaxTokens(maxTokens, c.maxTokens), c.temperature)
	req.Model = c.model

	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to encode anthropic request: %w", err)
	}

	c.logger.Debugw("calling anthropic messages api",
		"model", c.model,
		"max_tokens", req.MaxTokens,
		"prompt", logutil.TruncateForLog(prompt, 200),
	)

	var text string
	attempt := 0
	operation := func() error {
		attempt++
		body, err := c.post(ctx, payload)
		if err != nil {
			var upErr *UpstreamError
			if errors.As(err, &upErr) && !retryableStatus(upErr.Status) {
				return backoff.Permanent(err)
			}
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			c.logger.Warnw("anthropic call failed, retrying", "attempt", attempt, "error", err)
			return err
		}
		text, err = firstText(body)
		if err != nil {
			return backoff.Permanent(err)
		}
		return nil
	}

	var b backoff.BackOff = c.newBackOff()
	if c.maxRetries >= 0 {
		b = backoff.WithMaxRetries(b, uint64(c.maxRetries))
	}
	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return "", err
	}
	return text, nil
}

func (c *AnthropicCompleter) post(ctx context.Context, payload []byte) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build anthropic request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", c.version)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &UpstreamError{Name: "TimeoutError", Message: err.Error(), Status: http.StatusGatewayTimeout, Err: err}
		}
		return nil, fmt.Errorf("failed to call anthropic api: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read anthropic response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, anthropicError(resp.StatusCode, body)
	}
	return body, nil
}

// anthropicError names an HTTP failure with the equivalent Bedrock exception so both
// providers map to the same user-facing messages.
func anthropicError(status int, body []byte) *UpstreamError {
	msg := strings.TrimSpace(string(body))
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error.Message != "" {
		msg = env.Error.Message
	}

	name := "InternalServerException"
	switch status {
	case http.StatusTooManyRequests:
		name = "ThrottlingException"
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge:
		name = "ValidationException"
	case http.StatusUnauthorized, http.StatusForbidden:
		name = "AccessDeniedException"
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		name = "ModelTimeoutException"
	case http.StatusServiceUnavailable, 529:
		name = "ServiceUnavailableException"
	}
	return &UpstreamError{Name: name, Message: msg, Status: status}
}

func retryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}
