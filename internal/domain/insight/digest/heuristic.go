// Package digest assembles the per-ticket summary panel: a heuristic digest that is always
// available and an optional model-written digest with a fixed fallback policy.
package digest

import (
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/insight/classify"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/insight/risk"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/insight/textnorm"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/ticket"
	vo "github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/ticket/valueobjects"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/i18n"
)

const (
	BriefLength   = 30
	TrendLength   = 30
	MemoLength    = 60
	MessageLength = 30
)

type Assembler struct {
	cls *classify.Classifier
	loc *i18n.Localizer
}

func NewAssembler(cls *classify.Classifier, loc *i18n.Localizer) *Assembler {
	if loc == nil {
		loc = i18n.Default()
	}
	return &Assembler{cls: cls, loc: loc}
}

// Assemble classifies the ticket timeline and builds the heuristic digest.
func (a *Assembler) Assemble(t *ticket.Ticket) ticket.Summary {
	if t == nil {
		return a.Heuristic(nil, nil)
	}
	return a.Heuristic(t, a.cls.Classify(t.Comments(), t.RequesterID()))
}

// Heuristic builds the digest from already classified comments. A nil ticket yields the
// "no ticket" defaults.
func (a *Assembler) Heuristic(t *ticket.Ticket, classified []ticket.ClassifiedComment) ticket.Summary {
	if t == nil {
		return ticket.Summary{
			Brief:    a.loc.T(i18n.BriefNoTicket),
			Trend:    a.loc.T(i18n.TrendNoTicket),
			Action:   a.loc.T(i18n.ActionStandard),
			Messages: []ticket.SummaryMessage{},
			Source:   vo.SourceHeuristic,
		}
	}

	var brief, trend, memo string
	messages := make([]ticket.SummaryMessage, 0, len(classified))
	for _, c := range classified {
		if c.Text == "" {
			continue
		}
		switch c.Role {
		case vo.RoleCustomer:
			if brief == "" {
				brief = textnorm.Truncate(c.Text, BriefLength)
			}
		case vo.RoleOperator:
			trend = textnorm.Truncate(c.Text, TrendLength)
		case vo.RolePrivateMemo:
			memo = textnorm.Truncate(c.Text, MemoLength)
		}
		messages = append(messages, ticket.SummaryMessage{
			Role: c.Role,
			Text: textnorm.Truncate(c.Text, messageLimit(c.Role)),
		})
	}

	if brief == "" {
		brief = a.cls.CustomerNormalizer().Clean(t.Description(), BriefLength)
	}
	if brief == "" {
		brief = a.loc.T(i18n.BriefNoInquiry)
	}
	if trend == "" {
		trend = a.loc.T(i18n.TrendNoReply)
	}

	return ticket.Summary{
		Brief:       brief,
		Trend:       trend,
		PrivateMemo: memo,
		Action:      a.Action(t.RiskAnalysis().ComplaintScore),
		Messages:    messages,
		Source:      vo.SourceHeuristic,
	}
}

// Action is the recommendation text for a complaint score.
func (a *Assembler) Action(score int) string {
	switch {
	case score >= risk.DangerThreshold:
		return a.loc.T(i18n.ActionEscalate)
	case score >= risk.WarnThreshold:
		return a.loc.T(i18n.ActionCareful)
	default:
		return a.loc.T(i18n.ActionStandard)
	}
}

func messageLimit(role vo.Role) int {
	if role == vo.RolePrivateMemo {
		return MemoLength
	}
	return MessageLength
}
