package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/smithy-go"

	sharedConfig "github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/config"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/logger"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/utils/logutil"
)

const (
	defaultBedrockRegion  = "us-east-1"
	defaultBedrockModel   = "anthropic.claude-3-haiku-20240307-v1:0"
	defaultBedrockVersion = "bedrock-2023-05-31"
)

// ModelInvoker is the subset of the Bedrock runtime client used here.
type ModelInvoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

type BedrockCompleter struct {
	client      ModelInvoker
	modelID     string
	version     string
	maxTokens   int
	temperature float64
	cfg         sharedConfig.LLMConfig
	logger      logger.Interface
}

// NewBedrockCompleter loads AWS credentials from the default chain.
func NewBedrockCompleter(ctx context.Context, cfg sharedConfig.LLMConfig, log logger.Interface) (*BedrockCompleter, error) {
	region := cfg.Bedrock.Region
	if region == "" {
		region = defaultBedrockRegion
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.MaxRetries > 0 {
		opts = append(opts, awsconfig.WithRetryMaxAttempts(cfg.MaxRetries+1))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	log.Infow("bedrock completer initialized", "region", region, "model_id", modelIDOf(cfg))
	return NewBedrockCompleterWithClient(bedrockruntime.NewFromConfig(awsCfg), cfg, log), nil
}

func NewBedrockCompleterWithClient(client ModelInvoker, cfg sharedConfig.LLMConfig, log logger.Interface) *BedrockCompleter {
	version := cfg.Bedrock.AnthropicVersion
	if version == "" {
		version = defaultBedrockVersion
	}
	return &BedrockCompleter{
		client:      client,
		modelID:     modelIDOf(cfg),
		version:     version,
		maxTokens:   cfg.MaxTokens,
		temperature: temperatureOf(cfg),
		cfg:         cfg,
		logger:      log,
	}
}

func modelIDOf(cfg sharedConfig.LLMConfig) string {
	if cfg.Bedrock.ModelID == "" {
		return defaultBedrockModel
	}
	return cfg.Bedrock.ModelID
}

func (c *BedrockCompleter) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	req := newMessagesRequest(prompt, resolveMaxTokens(maxTokens, c.maxTokens), c.temperature)
	req.AnthropicVersion = c.version

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to encode bedrock request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeoutOf(c.cfg))
	defer cancel()

	c.logger.Debugw("invoking bedrock model",
		"model_id", c.modelID,
		"max_tokens", req.MaxTokens,
		"prompt", logutil.TruncateForLog(prompt, 200),
	)

	out, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return "", classifyBedrockError(err)
	}

	text, err := firstText(out.Body)
	if err != nil {
		return "", err
	}
	return text, nil
}

// classifyBedrockError labels err with the service error code when Bedrock sent one.
func classifyBedrockError(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return &UpstreamError{
			Name:    apiErr.ErrorCode(),
			Message: apiErr.ErrorMessage(),
			Err:     err,
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &UpstreamError{Name: "TimeoutError", Message: err.Error(), Status: http.StatusGatewayTimeout, Err: err}
	}
	return &UpstreamError{Name: "BedrockError", Message: err.Error(), Err: err}
}
