package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ymjiot-spec/zendesk-yoyaku/internal/application/assist/dto"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/application/assist/session"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/insight/risk"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/ticket"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/biztime"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/errors"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/goroutine"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/logger"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/utils"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/utils/logutil"
)

// upgradeTimeout bounds the background model re-score, which runs detached from the request.
const upgradeTimeout = 2 * time.Minute

type LoadCustomerHistoryCommand struct {
	Session         *session.Session
	Email           string
	CurrentTicketID string
}

type LoadCustomerHistoryUseCase struct {
	gateway   ticket.Gateway
	insight   *Insight
	model     LanguageModel
	renderer  Renderer
	maxTokens int
	now       func() time.Time
	logger    logger.Interface

	// onUpgradeDone observes the end of a background re-score; nil outside tests
	onUpgradeDone func(sessionID string, applied int)
}

func NewLoadCustomerHistoryUseCase(
	gateway ticket.Gateway,
	insight *Insight,
	model LanguageModel,
	renderer Renderer,
	maxTokens int,
	now func() time.Time,
	logger logger.Interface,
) *LoadCustomerHistoryUseCase {
	if renderer == nil {
		renderer = NopRenderer{}
	}
	if now == nil {
		now = biztime.NowUTC
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &LoadCustomerHistoryUseCase{
		gateway:   gateway,
		insight:   insight,
		model:     model,
		renderer:  renderer,
		maxTokens: maxTokens,
		now:       now,
		logger:    logger,
	}
}

func (uc *LoadCustomerHistoryUseCase) Execute(ctx context.Context, cmd LoadCustomerHistoryCommand) (*dto.HistoryView, error) {
	email := strings.TrimSpace(cmd.Email)
	if cmd.Session == nil {
		return nil, errors.NewValidationError("session is required")
	}
	if email == "" {
		return nil, errors.NewValidationError("requester email is required")
	}

	sess := cmd.Session
	loc := sess.Localizer()
	uc.logger.Infow("executing load customer history use case",
		"session_id", sess.ID(),
		"email", utils.MaskEmail(email),
	)

	tickets, cached := sess.History(email)
	if !cached {
		fetched, err := uc.gateway.FetchTicketsByRequester(ctx, email)
		if err != nil {
			uc.logger.Errorw("failed to fetch requester tickets", "email", utils.MaskEmail(email), "error", err)
			return nil, fmt.Errorf("failed to fetch requester tickets: %w", err)
		}

		scorer := uc.insight.Scorer(loc)
		kept := make([]*ticket.Ticket, 0, len(fetched))
		for _, t := range fetched {
			if t == nil || t.ID() == cmd.CurrentTicketID {
				continue
			}
			t.SetRiskAnalysis(scorer.Score(t))
			kept = append(kept, t)
		}
		ticket.SortByCreatedDesc(kept)
		tickets = sess.StoreHistory(email, kept)
	}

	aggregate := risk.Aggregate(tickets, uc.now(), loc)
	result := &dto.HistoryView{
		Email:    email,
		Customer: dto.ToCustomerRiskView(aggregate),
		Tickets:  dto.ToTicketViews(tickets, loc),
	}

	uc.renderer.RenderCustomerRisk(sess.ID(), result.Customer)
	uc.renderer.RenderTicketList(sess.ID(), result.Tickets)

	if !cached && uc.model != nil && len(tickets) > 0 {
		result.UpgradePending = true
		goroutine.SafeGo(uc.logger, "risk-upgrade", func() {
			uc.upgrade(sess, email, tickets)
		})
	}

	uc.logger.Infow("customer history loaded",
		"session_id", sess.ID(),
		"ticket_count", len(tickets),
		"customer_score", aggregate.Score,
		"cached", cached,
	)
	return result, nil
}

// upgrade re-scores the snapshot with the model and, on success, replaces the cached
// analyses and re-renders. Any failure leaves the keyword analyses in place.
func (uc *LoadCustomerHistoryUseCase) upgrade(sess *session.Session, email string, snapshot []*ticket.Ticket) {
	applied := 0
	defer func() {
		if uc.onUpgradeDone != nil {
			uc.onUpgradeDone(sess.ID(), applied)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), upgradeTimeout)
	defer cancel()

	prompt := risk.BuildBatchPrompt(snapshot, uc.insight.Classifier().CustomerNormalizer())
	text, err := uc.model.Complete(ctx, prompt, uc.maxTokens)
	if err != nil {
		uc.logger.Warnw("model risk scoring failed, keeping keyword scores", "session_id", sess.ID(), "error", err)
		return
	}

	verdicts, err := risk.ParseBatch(text)
	if err != nil {
		uc.logger.Warnw("model risk response rejected, keeping keyword scores",
			"session_id", sess.ID(),
			"error", err,
			"response", logutil.TruncateForLog(text, 200),
		)
		return
	}

	loc := sess.Localizer()
	scorer := uc.insight.Scorer(loc)
	var (
		aggregate ticket.CustomerRiskAggregate
		views     []dto.TicketView
	)
	ok := sess.UpdateHistory(email, func(tickets []*ticket.Ticket) {
		applied = scorer.ApplyBatch(tickets, verdicts)
		aggregate = risk.Aggregate(tickets, uc.now(), loc)
		views = dto.ToTicketViews(tickets, loc)
	})
	if !ok {
		uc.logger.Infow("session ended before model risk scoring finished", "session_id", sess.ID())
		return
	}

	uc.renderer.RenderCustomerRisk(sess.ID(), dto.ToCustomerRiskView(aggregate))
	uc.renderer.RenderTicketList(sess.ID(), views)

	uc.logger.Infow("model risk scoring applied",
		"session_id", sess.ID(),
		"applied", applied,
		"customer_score", aggregate.Score,
	)
}
