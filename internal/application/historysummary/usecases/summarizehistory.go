package usecases

import (
	"context"
	"net/http"
	"strings"

	apperrors "github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/errors"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/logger"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/utils/logutil"
)

// DefaultMaxTokens is the output budget for a history summary.
const DefaultMaxTokens = 2000

type LanguageModel interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// MarkdownRenderer turns the model's markdown into sanitized HTML.
type MarkdownRenderer interface {
	ToHTMLSanitized(markdown string) (string, error)
}

type SummarizeHistoryCommand struct {
	Tickets []TicketInput
}

type SummarizeHistoryResult struct {
	Summary     string
	SummaryHTML string
}

type SummarizeHistoryUseCase struct {
	model     LanguageModel
	markdown  MarkdownRenderer
	maxTokens int
	logger    logger.Interface
}

// NewSummarizeHistoryUseCase builds the use case; a nil model makes every call fail with 503.
func NewSummarizeHistoryUseCase(model LanguageModel, markdown MarkdownRenderer, maxTokens int, logger logger.Interface) *SummarizeHistoryUseCase {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &SummarizeHistoryUseCase{
		model:     model,
		markdown:  markdown,
		maxTokens: maxTokens,
		logger:    logger,
	}
}

func (uc *SummarizeHistoryUseCase) Execute(ctx context.Context, cmd SummarizeHistoryCommand) (*SummarizeHistoryResult, error) {
	uc.logger.Infow("executing summarize history use case", "ticket_count", len(cmd.Tickets))

	if uc.model == nil {
		return nil, apperrors.NewUpstreamError(
			http.StatusServiceUnavailable,
			"ServiceUnavailableException",
			"Bedrock APIが一時的に利用できません。",
			"no language model configured",
		)
	}

	prompt := BuildHistoryPrompt(cmd.Tickets)
	uc.logger.Debugw("built history prompt", "prompt", logutil.TruncateForLog(prompt, 200))

	summary, err := uc.model.Complete(ctx, prompt, uc.maxTokens)
	if err != nil {
		mapped := MapUpstreamError(err)
		uc.logger.Errorw("failed to generate history summary",
			"upstream", mapped.Upstream,
			"status", mapped.Code,
			"error", err,
		)
		return nil, mapped
	}
	summary = strings.TrimSpace(summary)

	result := &SummarizeHistoryResult{Summary: summary}
	if uc.markdown != nil {
		html, err := uc.markdown.ToHTMLSanitized(summary)
		if err != nil {
			uc.logger.Warnw("failed to render summary markdown", "error", err)
		} else {
			result.SummaryHTML = html
		}
	}

	uc.logger.Infow("history summary generated", "ticket_count", len(cmd.Tickets), "summary_length", len([]rune(summary)))
	return result, nil
}
