// Package risk scores complaint risk per ticket and per customer.
package risk

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/width"

	"github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/insight/rules"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/insight/textnorm"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/ticket"
	vo "github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/ticket/valueobjects"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/i18n"
)

const (
	MaxScore = 100

	DangerThreshold = 50
	WarnThreshold   = 25
)

type keywordTier struct {
	weight   int
	keywords []string
	// folded mirrors keywords after case and width folding
	folded []string
}

// KeywordScorer is the local, network-free scoring strategy.
// Each keyword counts once per ticket; the reported reason is the first hit in tier order.
type KeywordScorer struct {
	tiers []keywordTier
	loc   *i18n.Localizer
}

func NewKeywordScorer(rs *rules.RuleSet, loc *i18n.Localizer) *KeywordScorer {
	if loc == nil {
		loc = i18n.Default()
	}
	tiers := make([]keywordTier, 0, len(rs.Tiers))
	for _, t := range rs.Tiers {
		tier := keywordTier{weight: t.Weight}
		for _, kw := range t.Keywords {
			f := fold(kw)
			if f == "" {
				continue
			}
			tier.keywords = append(tier.keywords, kw)
			tier.folded = append(tier.folded, f)
		}
		tiers = append(tiers, tier)
	}
	return &KeywordScorer{tiers: tiers, loc: loc}
}

// Score analyses subject and description of t.
func (s *KeywordScorer) Score(t *ticket.Ticket) ticket.RiskAnalysis {
	if t == nil {
		return s.Analysis(0, "", vo.SourceKeyword)
	}
	return s.ScoreText(t.Subject() + " " + textnorm.StripMarkup(t.Description()))
}

// ScoreText scores arbitrary text.
func (s *KeywordScorer) ScoreText(text string) ticket.RiskAnalysis {
	haystack := fold(text)

	score := 0
	reason := ""
	for _, tier := range s.tiers {
		for i, kw := range tier.folded {
			if !strings.Contains(haystack, kw) {
				continue
			}
			score += tier.weight
			if reason == "" {
				reason = tier.keywords[i]
			}
		}
	}

	return s.Analysis(score, reason, vo.SourceKeyword)
}

// Analysis builds a localized RiskAnalysis for score, clamping it into range.
// An empty reason is replaced by the localized "normal" marker.
func (s *KeywordScorer) Analysis(score int, reason string, source vo.Source) ticket.RiskAnalysis {
	score = Clamp(score)
	level := LevelFor(score)
	if reason == "" {
		reason = s.loc.T(i18n.ReasonNone)
	}
	return ticket.RiskAnalysis{
		ComplaintScore: score,
		Level:          level,
		LevelText:      LevelText(s.loc, level),
		Icon:           Icon(s.loc, level),
		MatchedReason:  reason,
		Source:         source,
	}
}

// LevelFor maps a score to its band; both thresholds are inclusive.
func LevelFor(score int) vo.RiskLevel {
	switch {
	case score >= DangerThreshold:
		return vo.RiskDanger
	case score >= WarnThreshold:
		return vo.RiskWarn
	default:
		return vo.RiskSafe
	}
}

func LevelText(loc *i18n.Localizer, level vo.RiskLevel) string {
	switch level {
	case vo.RiskDanger:
		return loc.T(i18n.RiskDanger)
	case vo.RiskWarn:
		return loc.T(i18n.RiskWarn)
	default:
		return loc.T(i18n.RiskSafe)
	}
}

func Icon(loc *i18n.Localizer, level vo.RiskLevel) string {
	switch level {
	case vo.RiskDanger:
		return loc.T(i18n.IconDanger)
	case vo.RiskWarn:
		return loc.T(i18n.IconWarn)
	default:
		return loc.T(i18n.IconSafe)
	}
}

// Clamp bounds a score to [0, MaxScore].
func Clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}

// fold lowercases and normalizes full-width/half-width variants so that
// "ＲＥＦＵＮＤ" and "refund" or "ｸﾚｰﾑ" and "クレーム" compare equal.
func fold(s string) string {
	return width.Fold.String(cases.Lower(language.Und).String(s))
}
