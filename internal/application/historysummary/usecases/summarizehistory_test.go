package usecases

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/errors"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/logger"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/services/markdown"
)

type mockModel struct {
	CompleteFunc func(ctx context.Context, prompt string, maxTokens int) (string, error)

	lastPrompt    string
	lastMaxTokens int
}

func (m *mockModel) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	m.lastPrompt = prompt
	m.lastMaxTokens = maxTokens
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, prompt, maxTokens)
	}
	return "", nil
}

type namedErr struct {
	name string
	msg  string
}

func (e *namedErr) Error() string        { return e.name + ": " + e.msg }
func (e *namedErr) UpstreamName() string { return e.name }

func TestBuildHistoryPrompt_Empty(t *testing.T) {
	assert.Equal(t, NoHistoryPrompt, BuildHistoryPrompt(nil))
	assert.Equal(t, NoHistoryPrompt, BuildHistoryPrompt([]TicketInput{}))
}

func TestBuildHistoryPrompt_Tickets(t *testing.T) {
	prompt := BuildHistoryPrompt([]TicketInput{
		{Subject: "返金について", CreatedAt: "2024-01-10T00:00:00Z", Status: "solved", Description: "返金してほしい"},
		{Subject: "配送遅延", CreatedAt: "2024-02-01T00:00:00Z", Status: "open"},
	})

	assert.Contains(t, prompt, "### チケット 1\n- **件名**: 返金について\n")
	assert.Contains(t, prompt, "- **内容**: 返金してほしい\n")
	assert.Contains(t, prompt, "### チケット 2\n- **件名**: 配送遅延\n- **作成日時**: 2024-02-01T00:00:00Z\n- **ステータス**: open\n\n")
	assert.Equal(t, 1, strings.Count(prompt, "**内容**"))
	assert.True(t, strings.HasSuffix(prompt, "上記の情報を基に、簡潔で実用的な要約を日本語で作成してください。"))
}

func TestMapUpstreamError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantUpstream string
		wantCode     int
	}{
		{"throttling", &namedErr{"ThrottlingException", "slow down"}, "ThrottlingException", http.StatusTooManyRequests},
		{"too many requests", &namedErr{"TooManyRequestsException", "x"}, "TooManyRequestsException", http.StatusTooManyRequests},
		{"validation", &namedErr{"ValidationException", "bad"}, "ValidationException", http.StatusBadRequest},
		{"access denied", &namedErr{"AccessDeniedException", "no"}, "AccessDeniedException", http.StatusForbidden},
		{"model timeout", &namedErr{"ModelTimeoutException", "late"}, "ModelTimeoutException", http.StatusGatewayTimeout},
		{"unavailable", &namedErr{"ServiceUnavailableException", "down"}, "ServiceUnavailableException", http.StatusServiceUnavailable},
		{"wrapped name", fmt.Errorf("failed to invoke model: %w", &namedErr{"ThrottlingException", "x"}), "ThrottlingException", http.StatusTooManyRequests},
		{"deadline", fmt.Errorf("failed: %w", context.DeadlineExceeded), "TimeoutError", http.StatusGatewayTimeout},
		{"unknown name", &namedErr{"InternalServerException", "boom"}, "InternalServerException", http.StatusInternalServerError},
		{"plain error", errors.New("boom"), DefaultUpstreamName, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := MapUpstreamError(tt.err)
			assert.Equal(t, tt.wantUpstream, appErr.Upstream)
			assert.Equal(t, tt.wantCode, appErr.Code)
			assert.Equal(t, tt.err.Error(), appErr.Details)
			assert.NotEmpty(t, appErr.Message)
		})
	}
}

func TestMapUpstreamError_GenericMessage(t *testing.T) {
	appErr := MapUpstreamError(errors.New("boom"))
	assert.Equal(t, GenericFailureMessage, appErr.Message)
}

func TestSummarizeHistory_Success(t *testing.T) {
	model := &mockModel{CompleteFunc: func(ctx context.Context, prompt string, maxTokens int) (string, error) {
		return "  1. **要約**: 返金の相談\n", nil
	}}
	uc := NewSummarizeHistoryUseCase(model, markdown.NewMarkdownService(), 0, logger.NewNopLogger())

	result, err := uc.Execute(context.Background(), SummarizeHistoryCommand{
		Tickets: []TicketInput{{Subject: "返金", CreatedAt: "2024-01-01", Status: "solved"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "1. **要約**: 返金の相談", result.Summary)
	assert.Contains(t, result.SummaryHTML, "<strong>要約</strong>")
	assert.Equal(t, DefaultMaxTokens, model.lastMaxTokens)
	assert.Contains(t, model.lastPrompt, "返金")
}

func TestSummarizeHistory_EmptyTicketsStillCallsModel(t *testing.T) {
	model := &mockModel{CompleteFunc: func(ctx context.Context, prompt string, maxTokens int) (string, error) {
		return "履歴なし", nil
	}}
	uc := NewSummarizeHistoryUseCase(model, nil, 500, logger.NewNopLogger())

	result, err := uc.Execute(context.Background(), SummarizeHistoryCommand{})
	require.NoError(t, err)

	assert.Equal(t, NoHistoryPrompt, model.lastPrompt)
	assert.Equal(t, 500, model.lastMaxTokens)
	assert.Equal(t, "履歴なし", result.Summary)
	assert.Empty(t, result.SummaryHTML)
}

func TestSummarizeHistory_NoModel(t *testing.T) {
	uc := NewSummarizeHistoryUseCase(nil, nil, 0, logger.NewNopLogger())

	_, err := uc.Execute(context.Background(), SummarizeHistoryCommand{})
	require.Error(t, err)

	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusServiceUnavailable, appErr.Code)
	assert.Equal(t, "ServiceUnavailableException", appErr.Upstream)
}

func TestSummarizeHistory_UpstreamFailure(t *testing.T) {
	model := &mockModel{CompleteFunc: func(ctx context.Context, prompt string, maxTokens int) (string, error) {
		return "", &namedErr{"ThrottlingException", "Rate exceeded"}
	}}
	uc := NewSummarizeHistoryUseCase(model, nil, 0, logger.NewNopLogger())

	_, err := uc.Execute(context.Background(), SummarizeHistoryCommand{})
	require.Error(t, err)

	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusTooManyRequests, appErr.Code)
	assert.Equal(t, "ThrottlingException", appErr.Upstream)
	assert.Contains(t, appErr.Details, "Rate exceeded")
}
