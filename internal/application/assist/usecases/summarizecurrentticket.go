package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/ymjiot-spec/zendesk-yoyaku/internal/application/assist/dto"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/application/assist/session"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/ticket"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/errors"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/logger"
)

type SummarizeCurrentTicketCommand struct {
	Session  *session.Session
	TicketID string
}

type SummarizeCurrentTicketUseCase struct {
	gateway  ticket.Gateway
	digester *ticketDigester
	insight  *Insight
	renderer Renderer
	logger   logger.Interface
}

func NewSummarizeCurrentTicketUseCase(
	gateway ticket.Gateway,
	insight *Insight,
	model LanguageModel,
	renderer Renderer,
	maxTokens int,
	logger logger.Interface,
) *SummarizeCurrentTicketUseCase {
	if renderer == nil {
		renderer = NopRenderer{}
	}
	return &SummarizeCurrentTicketUseCase{
		gateway:  gateway,
		digester: newTicketDigester(gateway, insight, model, maxTokens, logger),
		insight:  insight,
		renderer: renderer,
		logger:   logger,
	}
}

func (uc *SummarizeCurrentTicketUseCase) Execute(ctx context.Context, cmd SummarizeCurrentTicketCommand) (*dto.SummaryView, error) {
	ticketID := strings.TrimSpace(cmd.TicketID)
	if cmd.Session == nil {
		return nil, errors.NewValidationError("session is required")
	}
	if ticketID == "" {
		return nil, errors.NewValidationError("ticket ID is required")
	}

	sess := cmd.Session
	loc := sess.Localizer()
	uc.logger.Infow("executing summarize current ticket use case", "session_id", sess.ID(), "ticket_id", ticketID)

	// the current ticket replaces any history selection
	sess.Select("")

	t, err := uc.gateway.FetchTicket(ctx, ticketID)
	if err != nil {
		uc.logger.Errorw("failed to fetch ticket", "ticket_id", ticketID, "error", err)
		return nil, fmt.Errorf("failed to fetch ticket: %w", err)
	}
	if t == nil {
		return nil, errors.NewNotFoundError("ticket not found", ticketID)
	}

	uc.digester.loadTimeline(ctx, t)
	t.SetRiskAnalysis(uc.insight.Scorer(loc).Score(t))

	summary := uc.digester.summarize(ctx, t, loc)
	view := dto.ToSummaryView(t.ID(), summary, t.RiskAnalysis(), loc)
	uc.renderer.RenderSummary(sess.ID(), view)

	uc.logger.Infow("current ticket summarized",
		"session_id", sess.ID(),
		"ticket_id", t.ID(),
		"source", summary.Source,
		"message_count", len(summary.Messages),
	)
	return &view, nil
}
