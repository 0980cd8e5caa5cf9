package usecases

import (
	"context"

	"github.com/ymjiot-spec/zendesk-yoyaku/internal/application/assist/dto"
)

// LanguageModel is the opaque completion capability. Any error, including timeouts, is
// an ordinary failure that triggers the heuristic fallback.
type LanguageModel interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Renderer pushes view models to the widget of a session. Rendering is fire-and-forget;
// a session without a connected widget simply drops the update.
type Renderer interface {
	RenderCustomerRisk(sessionID string, view dto.CustomerRiskView)
	RenderTicketList(sessionID string, views []dto.TicketView)
	RenderSummary(sessionID string, view dto.SummaryView)
}

type NopRenderer struct{}

func (NopRenderer) RenderCustomerRisk(string, dto.CustomerRiskView) {}
func (NopRenderer) RenderTicketList(string, []dto.TicketView)       {}
func (NopRenderer) RenderSummary(string, dto.SummaryView)           {}

type LoadCustomerHistoryExecutor interface {
	Execute(ctx context.Context, cmd LoadCustomerHistoryCommand) (*dto.HistoryView, error)
}

type SummarizeCurrentTicketExecutor interface {
	Execute(ctx context.Context, cmd SummarizeCurrentTicketCommand) (*dto.SummaryView, error)
}

type SummarizeSelectedTicketExecutor interface {
	Execute(ctx context.Context, cmd SummarizeSelectedTicketCommand) (*dto.SummaryView, error)
}
