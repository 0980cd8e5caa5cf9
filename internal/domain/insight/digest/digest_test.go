package digest

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/insight/classify"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/insight/rules"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/insight/textnorm"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/ticket"
	vo "github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/ticket/valueobjects"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/i18n"
)

var base = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

const pad = "。詳細は以下の通りとなっております"

func newAssembler() *Assembler {
	return NewAssembler(classify.New(rules.Default(), classify.DefaultMinLength), i18n.Default())
}

type commentSpec struct {
	id     string
	author string
	body   string
	public *bool
	ch     vo.Channel
}

func newTicket(t *testing.T, score int, specs ...commentSpec) *ticket.Ticket {
	t.Helper()
	tk, err := ticket.NewTicket("42", "配送の件", "", vo.StatusOpen, vo.ChannelEmail, "req", base)
	require.NoError(t, err)
	comments := make([]*ticket.Comment, 0, len(specs))
	for i, s := range specs {
		ch := s.ch
		if ch == "" {
			ch = vo.ChannelEmail
		}
		c, err := ticket.NewComment(s.id, s.author, s.body, "", s.public, ch, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
		comments = append(comments, c)
	}
	tk.SetComments(comments)
	tk.SetRiskAnalysis(ticket.RiskAnalysis{ComplaintScore: score})
	return tk
}

func fullTicket(t *testing.T, score int) *ticket.Ticket {
	return newTicket(t, score,
		commentSpec{id: "1", author: "req", body: "お世話になっております。注文した商品がまだ届いていません" + pad},
		commentSpec{id: "2", author: "op", body: "お問い合わせいただきありがとうございます。配送状況を確認いたします" + pad, public: ticket.Bool(true)},
		commentSpec{id: "3", author: "op", body: "倉庫に確認済み、明日出荷予定とのこと。顧客にはまだ伝えていない" + pad, public: ticket.Bool(false)},
		commentSpec{id: "4", author: "op", body: "明日出荷となります。到着まで今しばらくお待ちください" + pad, public: ticket.Bool(true)},
		commentSpec{id: "5", author: "sys", body: "チケット#41がこのチケットにマージされました。お世話になっております", ch: vo.ChannelMerge},
	)
}

func TestHeuristic(t *testing.T) {
	a := newAssembler()

	got := a.Assemble(fullTicket(t, 10))

	assert.Equal(t, "注文した商品がまだ届いていません。詳細は以下の通りとなって…", got.Brief)
	assert.Equal(t, textnorm.RuneLen(got.Brief), BriefLength)
	assert.True(t, strings.HasPrefix(got.Trend, "明日出荷となります"))
	assert.LessOrEqual(t, textnorm.RuneLen(got.Trend), TrendLength)
	assert.True(t, strings.HasPrefix(got.PrivateMemo, "倉庫に確認済み"))
	assert.LessOrEqual(t, textnorm.RuneLen(got.PrivateMemo), MemoLength)
	assert.Equal(t, "通常対応で問題ありません。", got.Action)
	assert.Equal(t, vo.SourceHeuristic, got.Source)

	require.Len(t, got.Messages, 5)
	assert.Equal(t, []vo.Role{
		vo.RoleCustomer, vo.RoleOperator, vo.RolePrivateMemo, vo.RoleOperator, vo.RoleSystem,
	}, []vo.Role{
		got.Messages[0].Role, got.Messages[1].Role, got.Messages[2].Role, got.Messages[3].Role, got.Messages[4].Role,
	})
	assert.True(t, strings.HasPrefix(got.Messages[4].Text, "チケット#41が"))
	for _, m := range got.Messages {
		assert.LessOrEqual(t, textnorm.RuneLen(m.Text), messageLimit(m.Role))
	}
}

func TestHeuristic_SystemTextIsVerbatim(t *testing.T) {
	a := newAssembler()
	tk := newTicket(t, 0, commentSpec{id: "1", author: "sys", body: "お世話になっております。統合されました", ch: vo.ChannelSystem})

	got := a.Assemble(tk)

	require.Len(t, got.Messages, 1)
	assert.Equal(t, "お世話になっております。統合されました", got.Messages[0].Text)
}

func TestHeuristic_Defaults(t *testing.T) {
	a := newAssembler()

	t.Run("nil ticket", func(t *testing.T) {
		got := a.Assemble(nil)
		assert.Equal(t, "チケット情報がありません", got.Brief)
		assert.Equal(t, "オペレーター返信がありません", got.Trend)
		assert.Equal(t, "通常対応で問題ありません。", got.Action)
		assert.Empty(t, got.PrivateMemo)
		assert.NotNil(t, got.Messages)
	})

	t.Run("no comments", func(t *testing.T) {
		got := a.Assemble(newTicket(t, 0))
		assert.Equal(t, "問い合わせなし", got.Brief)
		assert.Equal(t, "返信なし", got.Trend)
		assert.Empty(t, got.Messages)
	})

	t.Run("description stands in for a missing inquiry", func(t *testing.T) {
		tk, err := ticket.NewTicket("1", "件名", "<p>よろしくお願いします。請求書を再発行してほしい</p>", vo.StatusNew, vo.ChannelWeb, "", base)
		require.NoError(t, err)
		assert.Equal(t, "請求書を再発行してほしい", a.Assemble(tk).Brief)
	})
}

func TestAction(t *testing.T) {
	a := newAssembler()

	tests := []struct {
		score int
		want  string
	}{
		{0, "通常対応で問題ありません。"},
		{24, "通常対応で問題ありません。"},
		{25, "通常対応＋丁寧な説明を心がけてください。"},
		{49, "通常対応＋丁寧な説明を心がけてください。"},
		{50, "丁寧な傾聴と共感を最優先。必要に応じて上長エスカレーションを検討してください。"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, a.Action(tt.score), "score %d", tt.score)
	}
}

func TestPartitionAndPrompt(t *testing.T) {
	a := newAssembler()
	tk := fullTicket(t, 0)

	partitioned, buckets := a.Partition(tk)

	assert.Len(t, partitioned, 5)
	assert.Len(t, buckets.Customer, 1)
	assert.Len(t, buckets.Operator, 2)
	assert.Len(t, buckets.Memo, 1)
	assert.Len(t, buckets.System, 1)
	for _, e := range buckets.Operator {
		assert.LessOrEqual(t, textnorm.RuneLen(e), EntryLength)
	}

	prompt := BuildPrompt(tk, buckets)
	assert.Contains(t, prompt, "件名: 配送の件")
	assert.Contains(t, prompt, "## 社内メモ\n- 倉庫に確認済み")
	assert.Contains(t, prompt, `"memo"`)

	_, empty := a.Partition(nil)
	assert.True(t, empty.IsEmpty())
	assert.Contains(t, BuildPrompt(nil, empty), "(なし)")
}

func TestParseAnswer(t *testing.T) {
	got, err := ParseAnswer("要約です: {\"customer\": \" 商品未着 \", \"operator\": \"出荷予定を案内\", \"system\": \"\", \"memo\": \"\"} 以上")
	require.NoError(t, err)
	assert.Equal(t, &Answer{Customer: "商品未着", Operator: "出荷予定を案内"}, got)

	got, err = ParseAnswer("{broken {\"customer\":\"x\"}")
	require.NoError(t, err)
	assert.Equal(t, "x", got.Customer)

	for _, text := range []string{"", "no json here", `{"customer": "", "memo": "  "}`, `{"customer": 1}`} {
		_, err := ParseAnswer(text)
		assert.Error(t, err, text)
	}
}

func TestFromAnswer(t *testing.T) {
	a := newAssembler()
	tk := newTicket(t, 60,
		commentSpec{id: "1", author: "req", body: "問い合わせ本文です" + pad},
		commentSpec{id: "2", author: "sys", body: "自己解決", ch: vo.ChannelSystem},
		commentSpec{id: "3", author: "req", body: "追加の問い合わせです" + pad},
		commentSpec{id: "4", author: "sys", body: "マージされました", ch: vo.ChannelMerge},
	)
	partitioned, _ := a.Partition(tk)

	got := a.FromAnswer(tk, partitioned, &Answer{
		Customer: "商品未着の問い合わせ",
		Operator: "出荷日を案内",
		System:   "チケット統合",
		Memo:     strings.Repeat("メ", 100),
	})

	assert.Equal(t, []ticket.SummaryMessage{
		{Role: vo.RoleCustomer, Text: "商品未着の問い合わせ"},
		{Role: vo.RoleSystem, Text: "チケット統合"},
		{Role: vo.RoleSystem, Text: "チケット統合"},
		{Role: vo.RoleOperator, Text: "出荷日を案内"},
		{Role: vo.RolePrivateMemo, Text: strings.Repeat("メ", 79) + textnorm.Ellipsis},
	}, got.Messages)
	assert.Equal(t, "商品未着の問い合わせ", got.Brief)
	assert.Equal(t, "出荷日を案内", got.Trend)
	assert.Equal(t, ModelFieldLength, textnorm.RuneLen(got.PrivateMemo))
	assert.Equal(t, "丁寧な傾聴と共感を最優先。必要に応じて上長エスカレーションを検討してください。", got.Action)
	assert.Equal(t, vo.SourceModel, got.Source)
}

func TestMerge(t *testing.T) {
	heuristic := ticket.Summary{Brief: "h", Trend: "h", PrivateMemo: "倉庫確認済み", Source: vo.SourceHeuristic}

	t.Run("model failed", func(t *testing.T) {
		assert.Equal(t, heuristic, Merge(heuristic, nil))
	})

	t.Run("model memo empty borrows heuristic memo", func(t *testing.T) {
		got := Merge(heuristic, &ticket.Summary{Brief: "m", Trend: "m", Source: vo.SourceModel})
		assert.Equal(t, "m", got.Brief)
		assert.Equal(t, "倉庫確認済み", got.PrivateMemo)
		assert.Equal(t, vo.SourceModel, got.Source)
	})

	t.Run("model memo wins", func(t *testing.T) {
		got := Merge(heuristic, &ticket.Summary{PrivateMemo: "model memo"})
		assert.Equal(t, "model memo", got.PrivateMemo)
	})
}
