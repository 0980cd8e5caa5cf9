package risk

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/insight/textnorm"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/ticket"
	vo "github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/ticket/valueobjects"
)

const (
	// FragmentLength bounds each ticket's text in the batch prompt.
	FragmentLength = 150
	// SummaryLength bounds the per-ticket model summary kept as the reason.
	SummaryLength = 80
)

const batchPromptHeader = `以下はある顧客の過去チケットです。各チケットについて、文面の「口調・言葉遣い」から苦情リスクを判定してください。
問題の深刻さではなく、言葉のトーンでレベルを決めてください。

判定基準:
- danger: 怒り・抗議・クレームの言葉がある（例: 返金しろ、訴える、許せない）
- warn: 怒りはないが不満・苛立ち・困惑が読み取れる
- safe: 通常の問い合わせ・質問・確認

scoreはレベルに対応させてください（danger: 50〜100、warn: 25〜49、safe: 0〜24）。
summaryは判定理由を20文字以内で書いてください。

出力は次の形式のJSON配列のみとし、説明文は付けないでください:
[{"id": "チケットID", "level": "safe|warn|danger", "score": 0, "summary": "理由"}]

チケット一覧:
`

// Verdict is one model judgement for a ticket.
type Verdict struct {
	ID      string
	Level   vo.RiskLevel
	Score   int
	Summary string
}

// BuildBatchPrompt renders one prompt covering every ticket, each labelled by id.
func BuildBatchPrompt(tickets []*ticket.Ticket, norm *textnorm.Normalizer) string {
	var b strings.Builder
	b.WriteString(batchPromptHeader)
	for _, t := range tickets {
		if t == nil {
			continue
		}
		fragment := norm.Clean(t.Subject()+" "+t.Description(), FragmentLength)
		fmt.Fprintf(&b, "[%s] %s\n", t.ID(), fragment)
	}
	return b.String()
}

type flexibleID string

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexibleID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*f = flexibleID(n.String())
	return nil
}

type batchItem struct {
	ID      flexibleID `json:"id"`
	Level   string     `json:"level"`
	Score   *float64   `json:"score"`
	Summary string     `json:"summary"`
}

// ParseBatch extracts the first well-formed JSON array from text. The whole batch is
// rejected when the array is empty or any element lacks a usable id, level or score.
func ParseBatch(text string) ([]Verdict, error) {
	raw, ok := firstArray(text)
	if !ok {
		return nil, fmt.Errorf("no JSON array in model response")
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("model returned an empty array")
	}

	verdicts := make([]Verdict, 0, len(raw))
	for i, elem := range raw {
		var item batchItem
		if err := json.Unmarshal(elem, &item); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		if item.ID == "" {
			return nil, fmt.Errorf("element %d: missing id", i)
		}
		level, err := vo.NewRiskLevel(item.Level)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		if item.Score == nil {
			return nil, fmt.Errorf("element %d: missing score", i)
		}
		verdicts = append(verdicts, Verdict{
			ID:      string(item.ID),
			Level:   level,
			Score:   clampToBand(int(*item.Score), level),
			Summary: textnorm.Truncate(strings.TrimSpace(item.Summary), SummaryLength),
		})
	}
	return verdicts, nil
}

// firstArray tries every '[' in order and returns the first position that decodes as an array.
func firstArray(text string) ([]json.RawMessage, bool) {
	for i := strings.IndexByte(text, '['); i >= 0; {
		var arr []json.RawMessage
		dec := json.NewDecoder(strings.NewReader(text[i:]))
		if err := dec.Decode(&arr); err == nil {
			return arr, true
		}
		next := strings.IndexByte(text[i+1:], '[')
		if next < 0 {
			break
		}
		i += next + 1
	}
	return nil, false
}

// clampToBand keeps a model score consistent with the level the model chose.
func clampToBand(score int, level vo.RiskLevel) int {
	lo, hi := 0, WarnThreshold-1
	switch level {
	case vo.RiskDanger:
		lo, hi = DangerThreshold, MaxScore
	case vo.RiskWarn:
		lo, hi = WarnThreshold, DangerThreshold-1
	}
	if score < lo {
		return lo
	}
	if score > hi {
		return hi
	}
	return score
}

// ApplyBatch replaces the analysis of every ticket named in verdicts and returns how many
// were replaced. Tickets without a verdict keep their current analysis.
func (s *KeywordScorer) ApplyBatch(tickets []*ticket.Ticket, verdicts []Verdict) int {
	byID := make(map[string]Verdict, len(verdicts))
	for _, v := range verdicts {
		if _, dup := byID[v.ID]; !dup {
			byID[v.ID] = v
		}
	}

	applied := 0
	for _, t := range tickets {
		if t == nil {
			continue
		}
		v, ok := byID[t.ID()]
		if !ok {
			continue
		}
		analysis := ticket.RiskAnalysis{
			ComplaintScore: v.Score,
			Level:          v.Level,
			LevelText:      LevelText(s.loc, v.Level),
			Icon:           Icon(s.loc, v.Level),
			MatchedReason:  v.Summary,
			Source:         vo.SourceModel,
		}
		if analysis.MatchedReason == "" {
			analysis.MatchedReason = s.Analysis(0, "", vo.SourceModel).MatchedReason
		}
		t.SetRiskAnalysis(analysis)
		if v.Summary != "" {
			t.SetAISummary(v.Summary)
		}
		applied++
	}
	return applied
}
