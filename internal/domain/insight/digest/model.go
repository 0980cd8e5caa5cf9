package digest

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/insight/textnorm"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/ticket"
	vo "github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/ticket/valueobjects"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/i18n"
)

const (
	// EntryLength bounds each comment before it is concatenated into a prompt bucket.
	EntryLength = 150
	// AnswerLength is the length the model is asked to stay within.
	AnswerLength = 40
	// ModelFieldLength bounds every model-provided field in the final digest.
	ModelFieldLength = 80
)

// Buckets holds comment text per role, in timeline order.
type Buckets struct {
	Customer []string
	Operator []string
	Memo     []string
	System   []string
}

func (b Buckets) IsEmpty() bool {
	return len(b.Customer)+len(b.Operator)+len(b.Memo)+len(b.System) == 0
}

// Answer is the structured model reply.
type Answer struct {
	Customer string `json:"customer"`
	Operator string `json:"operator"`
	System   string `json:"system"`
	Memo     string `json:"memo"`
}

func (ans Answer) textFor(role vo.Role) string {
	switch role {
	case vo.RoleCustomer:
		return ans.Customer
	case vo.RoleOperator:
		return ans.Operator
	case vo.RolePrivateMemo:
		return ans.Memo
	default:
		return ans.System
	}
}

// Partition sorts every comment with visible text into role buckets. The length filter is
// not applied here; the model decides what is noise.
func (a *Assembler) Partition(t *ticket.Ticket) ([]ticket.ClassifiedComment, Buckets) {
	var b Buckets
	if t == nil {
		return nil, b
	}
	partitioned := a.cls.Partition(t.Comments(), t.RequesterID())
	for _, c := range partitioned {
		entry := textnorm.VerbatimClean(c.Comment.Content(), EntryLength)
		switch c.Role {
		case vo.RoleCustomer:
			b.Customer = append(b.Customer, entry)
		case vo.RoleOperator:
			b.Operator = append(b.Operator, entry)
		case vo.RolePrivateMemo:
			b.Memo = append(b.Memo, entry)
		case vo.RoleSystem:
			b.System = append(b.System, entry)
		}
	}
	return partitioned, b
}

// BuildPrompt renders the per-ticket summary request.
func BuildPrompt(t *ticket.Ticket, b Buckets) string {
	var sb strings.Builder
	sb.WriteString("以下はサポートチケットのやり取りです。役割ごとに要点だけを抽出してください。\n")
	fmt.Fprintf(&sb, "各項目は%d文字以内で、挨拶や定型文は含めず本質のみを書いてください。該当がない項目は空文字にしてください。\n\n", AnswerLength)
	if t != nil {
		fmt.Fprintf(&sb, "件名: %s\n\n", textnorm.VerbatimClean(t.Subject(), EntryLength))
	}
	writeBucket(&sb, "お客様の発言", b.Customer)
	writeBucket(&sb, "オペレーターの返信", b.Operator)
	writeBucket(&sb, "社内メモ", b.Memo)
	writeBucket(&sb, "システムイベント", b.System)
	sb.WriteString("出力は次の形式のJSONオブジェクトのみとしてください:\n")
	sb.WriteString(`{"customer": "お客様の問い合わせ要点", "operator": "オペレーター対応の要点", "system": "システムイベントの要点", "memo": "社内メモの要点"}`)
	return sb.String()
}

func writeBucket(sb *strings.Builder, title string, entries []string) {
	fmt.Fprintf(sb, "## %s\n", title)
	if len(entries) == 0 {
		sb.WriteString("(なし)\n\n")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(sb, "- %s\n", e)
	}
	sb.WriteString("\n")
}

// ParseAnswer decodes the first JSON object in text. An answer with every field empty is
// treated as a failure.
func ParseAnswer(text string) (*Answer, error) {
	for i := strings.IndexByte(text, '{'); i >= 0; {
		var ans Answer
		if err := json.NewDecoder(strings.NewReader(text[i:])).Decode(&ans); err == nil {
			ans.Customer = strings.TrimSpace(ans.Customer)
			ans.Operator = strings.TrimSpace(ans.Operator)
			ans.System = strings.TrimSpace(ans.System)
			ans.Memo = strings.TrimSpace(ans.Memo)
			if ans == (Answer{}) {
				return nil, fmt.Errorf("model answer has no content")
			}
			return &ans, nil
		}
		next := strings.IndexByte(text[i+1:], '{')
		if next < 0 {
			break
		}
		i += next + 1
	}
	return nil, fmt.Errorf("no JSON object in model response")
}

// FromAnswer builds the model digest by walking the timeline once. Customer, operator and memo
// text is emitted at the first comment of that role; system text is emitted at every system
// comment. Roles the model described but the timeline never contained are appended at the end.
func (a *Assembler) FromAnswer(t *ticket.Ticket, partitioned []ticket.ClassifiedComment, ans *Answer) ticket.Summary {
	seen := make(map[vo.Role]bool, len(vo.Roles))
	messages := make([]ticket.SummaryMessage, 0, len(partitioned)+len(vo.Roles))

	for _, c := range partitioned {
		first := !seen[c.Role]
		seen[c.Role] = true
		if c.Role != vo.RoleSystem && !first {
			continue
		}
		if text := textnorm.Truncate(ans.textFor(c.Role), ModelFieldLength); text != "" {
			messages = append(messages, ticket.SummaryMessage{Role: c.Role, Text: text})
		}
	}
	for _, role := range vo.Roles {
		if seen[role] {
			continue
		}
		if text := textnorm.Truncate(ans.textFor(role), ModelFieldLength); text != "" {
			messages = append(messages, ticket.SummaryMessage{Role: role, Text: text})
		}
	}

	brief := textnorm.Truncate(ans.Customer, ModelFieldLength)
	if brief == "" {
		brief = a.loc.T(i18n.BriefNoInquiry)
	}
	trend := textnorm.Truncate(ans.Operator, ModelFieldLength)
	if trend == "" {
		trend = a.loc.T(i18n.TrendNoReply)
	}

	score := 0
	if t != nil {
		score = t.RiskAnalysis().ComplaintScore
	}
	return ticket.Summary{
		Brief:       brief,
		Trend:       trend,
		PrivateMemo: textnorm.Truncate(ans.Memo, ModelFieldLength),
		Action:      a.Action(score),
		Messages:    messages,
		Source:      vo.SourceModel,
	}
}
