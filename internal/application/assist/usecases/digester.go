package usecases

import (
	"context"
	"fmt"

	"github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/insight/digest"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/ticket"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/i18n"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/logger"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/utils/logutil"
)

// DefaultMaxTokens is used when no output budget is configured.
const DefaultMaxTokens = 2000

// ticketDigester is the shared fetch-classify-assemble pipeline behind both summarize use cases.
type ticketDigester struct {
	gateway   ticket.Gateway
	insight   *Insight
	model     LanguageModel
	maxTokens int
	logger    logger.Interface
}

func newTicketDigester(gateway ticket.Gateway, insight *Insight, model LanguageModel, maxTokens int, logger logger.Interface) *ticketDigester {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &ticketDigester{
		gateway:   gateway,
		insight:   insight,
		model:     model,
		maxTokens: maxTokens,
		logger:    logger,
	}
}

// loadTimeline replaces the ticket's comments with fetched comments merged with audit events.
// Fetch failures degrade to whatever is available.
func (d *ticketDigester) loadTimeline(ctx context.Context, t *ticket.Ticket) {
	comments, err := d.gateway.FetchComments(ctx, t.ID())
	if err != nil {
		d.logger.Warnw("failed to fetch comments, using embedded comments", "ticket_id", t.ID(), "error", err)
		comments = t.Comments()
	}

	events, err := d.gateway.FetchAuditEvents(ctx, t.ID())
	if err != nil {
		d.logger.Warnw("failed to fetch audit events", "ticket_id", t.ID(), "error", err)
		events = nil
	}

	t.SetComments(ticket.MergeTimeline(comments, events))
}

// summarize returns the model digest when a model is configured and answers usably,
// the heuristic digest otherwise.
func (d *ticketDigester) summarize(ctx context.Context, t *ticket.Ticket, loc *i18n.Localizer) ticket.Summary {
	asm := d.insight.Assembler(loc)
	heuristic := asm.Assemble(t)
	if d.model == nil {
		return heuristic
	}

	model, err := d.modelSummary(ctx, t, asm)
	if err != nil {
		d.logger.Warnw("model summary unavailable, using heuristic summary", "ticket_id", t.ID(), "error", err)
		return heuristic
	}
	return digest.Merge(heuristic, model)
}

func (d *ticketDigester) modelSummary(ctx context.Context, t *ticket.Ticket, asm *digest.Assembler) (*ticket.Summary, error) {
	partitioned, buckets := asm.Partition(t)
	if buckets.IsEmpty() {
		return nil, fmt.Errorf("ticket has no comments to summarize")
	}

	text, err := d.model.Complete(ctx, digest.BuildPrompt(t, buckets), d.maxTokens)
	if err != nil {
		return nil, fmt.Errorf("failed to complete summary prompt: %w", err)
	}

	ans, err := digest.ParseAnswer(text)
	if err != nil {
		d.logger.Debugw("unparseable model summary", "ticket_id", t.ID(), "response", logutil.TruncateForLog(text, 200))
		return nil, fmt.Errorf("failed to parse model summary: %w", err)
	}

	s := asm.FromAnswer(t, partitioned, ans)
	return &s, nil
}
