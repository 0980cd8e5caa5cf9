package usecases

import (
	"context"
	"strings"

	"github.com/ymjiot-spec/zendesk-yoyaku/internal/application/assist/dto"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/application/assist/session"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/ticket"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/errors"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/logger"
)

// SummarizeSelectedTicketCommand summarizes a ticket from the loaded history.
// An empty TicketID uses the session's current selection.
type SummarizeSelectedTicketCommand struct {
	Session  *session.Session
	TicketID string
}

type SummarizeSelectedTicketUseCase struct {
	digester *ticketDigester
	renderer Renderer
	logger   logger.Interface
}

func NewSummarizeSelectedTicketUseCase(
	gateway ticket.Gateway,
	insight *Insight,
	model LanguageModel,
	renderer Renderer,
	maxTokens int,
	logger logger.Interface,
) *SummarizeSelectedTicketUseCase {
	if renderer == nil {
		renderer = NopRenderer{}
	}
	return &SummarizeSelectedTicketUseCase{
		digester: newTicketDigester(gateway, insight, model, maxTokens, logger),
		renderer: renderer,
		logger:   logger,
	}
}

func (uc *SummarizeSelectedTicketUseCase) Execute(ctx context.Context, cmd SummarizeSelectedTicketCommand) (*dto.SummaryView, error) {
	if cmd.Session == nil {
		return nil, errors.NewValidationError("session is required")
	}
	sess := cmd.Session
	loc := sess.Localizer()

	ticketID := strings.TrimSpace(cmd.TicketID)
	if ticketID == "" {
		ticketID = sess.Selected()
	}
	if ticketID == "" {
		return nil, errors.NewValidationError("no ticket selected")
	}

	uc.logger.Infow("executing summarize selected ticket use case", "session_id", sess.ID(), "ticket_id", ticketID)

	t, ok := sess.FindTicket(ticketID)
	if !ok {
		uc.logger.Warnw("selected ticket not in session history", "session_id", sess.ID(), "ticket_id", ticketID)
		return nil, errors.NewNotFoundError("ticket not found in customer history", ticketID)
	}
	sess.Select(ticketID)

	// the cached analysis is kept: it may already carry the model upgrade
	uc.digester.loadTimeline(ctx, t)

	summary := uc.digester.summarize(ctx, t, loc)
	view := dto.ToSummaryView(t.ID(), summary, t.RiskAnalysis(), loc)
	uc.renderer.RenderSummary(sess.ID(), view)

	uc.logger.Infow("selected ticket summarized",
		"session_id", sess.ID(),
		"ticket_id", t.ID(),
		"source", summary.Source,
	)
	return &view, nil
}
