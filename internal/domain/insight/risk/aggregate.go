package risk

import (
	"math"
	"time"

	"github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/ticket"
	vo "github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/ticket/valueobjects"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/i18n"
)

// RecentWindow is the trailing period in which complaints count as recent.
const RecentWindow = 90 * 24 * time.Hour

const (
	customerDangerScore  = 70
	customerCautionScore = 50
	customerDangerCount  = 3
	customerCautionCount = 1
)

// Aggregate computes the customer risk from the current analyses of tickets.
// Tickets that were never scored count as score 0.
func Aggregate(tickets []*ticket.Ticket, now time.Time, loc *i18n.Localizer) ticket.CustomerRiskAggregate {
	if loc == nil {
		loc = i18n.Default()
	}

	live := make([]*ticket.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if t != nil {
			live = append(live, t)
		}
	}
	if len(live) == 0 {
		return ticket.CustomerRiskAggregate{
			Score:     0,
			Level:     vo.CustomerNormal,
			LevelText: loc.T(i18n.CustomerNormal),
			Details:   loc.T(i18n.NoHistory),
		}
	}

	cutoff := now.Add(-RecentWindow)
	total, complaints, recent := 0, 0, 0
	for _, t := range live {
		score := t.RiskAnalysis().ComplaintScore
		total += score
		if score < DangerThreshold {
			continue
		}
		complaints++
		if !t.CreatedAt().Before(cutoff) {
			recent++
		}
	}

	avg := int(math.Round(float64(total) / float64(len(live))))
	final := Clamp(avg + recentBonus(recent) + countBonus(complaints))
	level := customerLevel(final, complaints)

	return ticket.CustomerRiskAggregate{
		Score:            final,
		Level:            level,
		LevelText:        customerLevelText(loc, level),
		Details:          loc.T(i18n.CustomerDetails, len(live), recent, avg),
		TicketCount:      len(live),
		AverageScore:     avg,
		ComplaintCount:   complaints,
		RecentComplaints: recent,
	}
}

func recentBonus(recent int) int {
	switch {
	case recent >= 3:
		return 30
	case recent >= 2:
		return 20
	default:
		return 0
	}
}

func countBonus(count int) int {
	switch {
	case count >= 5:
		return 25
	case count >= 3:
		return 15
	default:
		return 0
	}
}

func customerLevel(score, complaints int) vo.CustomerRiskLevel {
	switch {
	case complaints >= customerDangerCount || score >= customerDangerScore:
		return vo.CustomerDanger
	case complaints >= customerCautionCount || score >= customerCautionScore:
		return vo.CustomerCaution
	default:
		return vo.CustomerNormal
	}
}

func customerLevelText(loc *i18n.Localizer, level vo.CustomerRiskLevel) string {
	switch level {
	case vo.CustomerDanger:
		return loc.T(i18n.CustomerDanger)
	case vo.CustomerCaution:
		return loc.T(i18n.CustomerCaution)
	default:
		return loc.T(i18n.CustomerNormal)
	}
}
