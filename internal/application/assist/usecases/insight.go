package usecases

import (
	"sync"

	"github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/insight/classify"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/insight/digest"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/insight/risk"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/insight/rules"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/i18n"
)

// Insight bundles the rule-driven domain services. Locale-bound services are built once
// per locale and shared by every session using it.
type Insight struct {
	rules      *rules.RuleSet
	classifier *classify.Classifier

	mu         sync.Mutex
	scorers    map[string]*risk.KeywordScorer
	assemblers map[string]*digest.Assembler
}

func NewInsight(rs *rules.RuleSet, minCommentLength int) *Insight {
	if rs == nil {
		rs = rules.Default()
	}
	return &Insight{
		rules:      rs,
		classifier: classify.New(rs, minCommentLength),
		scorers:    make(map[string]*risk.KeywordScorer),
		assemblers: make(map[string]*digest.Assembler),
	}
}

func (in *Insight) Rules() *rules.RuleSet {
	return in.rules
}

func (in *Insight) Classifier() *classify.Classifier {
	return in.classifier
}

func (in *Insight) Scorer(loc *i18n.Localizer) *risk.KeywordScorer {
	in.mu.Lock()
	defer in.mu.Unlock()
	key := loc.Locale()
	s, ok := in.scorers[key]
	if !ok {
		s = risk.NewKeywordScorer(in.rules, loc)
		in.scorers[key] = s
	}
	return s
}

func (in *Insight) Assembler(loc *i18n.Localizer) *digest.Assembler {
	in.mu.Lock()
	defer in.mu.Unlock()
	key := loc.Locale()
	a, ok := in.assemblers[key]
	if !ok {
		a = digest.NewAssembler(in.classifier, loc)
		in.assemblers[key] = a
	}
	return a
}
