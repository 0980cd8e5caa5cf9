package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharedConfig "github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/config"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/logger"
)

type mockInvoker struct {
	InvokeModelFunc func(ctx context.Context, params *bedrockruntime.InvokeModelInput) (*bedrockruntime.InvokeModelOutput, error)

	lastInput *bedrockruntime.InvokeModelInput
}

func (m *mockInvoker) InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	m.lastInput = params
	if m.InvokeModelFunc != nil {
		return m.InvokeModelFunc(ctx, params)
	}
	return &bedrockruntime.InvokeModelOutput{}, nil
}

func textOutput(text string) *bedrockruntime.InvokeModelOutput {
	body, _ := json.Marshal(messagesResponse{Content: []contentBlock{{Type: "text", Text: text}}})
	return &bedrockruntime.InvokeModelOutput{Body: body}
}

func TestBedrockCompleter_RequestShape(t *testing.T) {
	invoker := &mockInvoker{InvokeModelFunc: func(ctx context.Context, params *bedrockruntime.InvokeModelInput) (*bedrockruntime.InvokeModelOutput, error) {
		return textOutput("要約です"), nil
	}}
	c := NewBedrockCompleterWithClient(invoker, sharedConfig.LLMConfig{}, logger.NewNopLogger())

	text, err := c.Complete(context.Background(), "こんにちは", 0)
	require.NoError(t, err)
	assert.Equal(t, "要約です", text)

	require.NotNil(t, invoker.lastInput)
	assert.Equal(t, defaultBedrockModel, *invoker.lastInput.ModelId)
	assert.Equal(t, "application/json", *invoker.lastInput.ContentType)
	assert.Equal(t, "application/json", *invoker.lastInput.Accept)

	var sent messagesRequest
	require.NoError(t, json.Unmarshal(invoker.lastInput.Body, &sent))
	assert.Equal(t, defaultBedrockVersion, sent.AnthropicVersion)
	assert.Empty(t, sent.Model)
	assert.Equal(t, defaultMaxTokens, sent.MaxTokens)
	assert.InDelta(t, defaultTemperature, sent.Temperature, 1e-9)
	require.Len(t, sent.Messages, 1)
	assert.Equal(t, "user", sent.Messages[0].Role)
	assert.Equal(t, "こんにちは", sent.Messages[0].Content)
}

func TestBedrockCompleter_MaxTokensPrecedence(t *testing.T) {
	invoker := &mockInvoker{InvokeModelFunc: func(ctx context.Context, params *bedrockruntime.InvokeModelInput) (*bedrockruntime.InvokeModelOutput, error) {
		return textOutput("ok"), nil
	}}
	c := NewBedrockCompleterWithClient(invoker, sharedConfig.LLMConfig{MaxTokens: 800}, logger.NewNopLogger())

	_, err := c.Complete(context.Background(), "p", 0)
	require.NoError(t, err)
	var sent messagesRequest
	require.NoError(t, json.Unmarshal(invoker.lastInput.Body, &sent))
	assert.Equal(t, 800, sent.MaxTokens)

	_, err = c.Complete(context.Background(), "p", 300)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(invoker.lastInput.Body, &sent))
	assert.Equal(t, 300, sent.MaxTokens)
}

func TestBedrockCompleter_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		output   *bedrockruntime.InvokeModelOutput
		wantName string
	}{
		{
			name:     "api error code",
			err:      &smithy.GenericAPIError{Code: "ThrottlingException", Message: "Too many requests"},
			wantName: "ThrottlingException",
		},
		{
			name:     "deadline",
			err:      context.DeadlineExceeded,
			wantName: "TimeoutError",
		},
		{
			name:     "transport failure",
			err:      errors.New("dial tcp: refused"),
			wantName: "BedrockError",
		},
		{
			name:     "empty content",
			output:   &bedrockruntime.InvokeModelOutput{Body: []byte(`{"content":[]}`)},
			wantName: "EmptyResponse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			invoker := &mockInvoker{InvokeModelFunc: func(ctx context.Context, params *bedrockruntime.InvokeModelInput) (*bedrockruntime.InvokeModelOutput, error) {
				if tt.err != nil {
					return nil, tt.err
				}
				return tt.output, nil
			}}
			c := NewBedrockCompleterWithClient(invoker, sharedConfig.LLMConfig{}, logger.NewNopLogger())

			_, err := c.Complete(context.Background(), "p", 10)
			require.Error(t, err)

			var upErr *UpstreamError
			require.ErrorAs(t, err, &upErr)
			assert.Equal(t, tt.wantName, upErr.UpstreamName())
		})
	}
}

func TestBedrockCompleter_ApiErrorMessage(t *testing.T) {
	invoker := &mockInvoker{InvokeModelFunc: func(ctx context.Context, params *bedrockruntime.InvokeModelInput) (*bedrockruntime.InvokeModelOutput, error) {
		return nil, &smithy.GenericAPIError{Code: "AccessDeniedException", Message: "not authorized"}
	}}
	c := NewBedrockCompleterWithClient(invoker, sharedConfig.LLMConfig{}, logger.NewNopLogger())

	_, err := c.Complete(context.Background(), "p", 10)
	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, "not authorized", upErr.UpstreamMessage())
}

func TestNew_Disabled(t *testing.T) {
	for _, provider := range []string{"", ProviderNone} {
		c, err := New(context.Background(), sharedConfig.LLMConfig{Provider: provider}, logger.NewNopLogger())
		require.NoError(t, err)
		assert.Nil(t, c)
	}
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(context.Background(), sharedConfig.LLMConfig{Provider: "gpt"}, logger.NewNopLogger())
	assert.Error(t, err)
}

func TestNew_AnthropicRequiresKey(t *testing.T) {
	_, err := New(context.Background(), sharedConfig.LLMConfig{Provider: ProviderAnthropic}, logger.NewNopLogger())
	assert.Error(t, err)
}
