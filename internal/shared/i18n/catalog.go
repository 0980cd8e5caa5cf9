// Package i18n holds the display strings shown in the support widget.
// Japanese is the default locale; English is available for non-Japanese desks.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Key identifies a catalog message.
type Key string

const (
	RiskSafe   Key = "risk.safe"
	RiskWarn   Key = "risk.warn"
	RiskDanger Key = "risk.danger"
	IconSafe   Key = "risk.icon.safe"
	IconWarn   Key = "risk.icon.warn"
	IconDanger Key = "risk.icon.danger"
	ReasonNone Key = "risk.reason.none"

	CustomerNormal  Key = "customer.normal"
	CustomerCaution Key = "customer.caution"
	CustomerDanger  Key = "customer.danger"
	CustomerDetails Key = "customer.details"
	NoHistory       Key = "customer.no_history"

	BriefNoTicket  Key = "summary.brief.no_ticket"
	BriefNoInquiry Key = "summary.brief.no_inquiry"
	TrendNoTicket  Key = "summary.trend.no_ticket"
	TrendNoReply   Key = "summary.trend.no_reply"
	ActionEscalate Key = "summary.action.escalate"
	ActionCareful  Key = "summary.action.careful"
	ActionStandard Key = "summary.action.standard"

	RoleCustomer Key = "role.customer"
	RoleOperator Key = "role.operator"
	RoleSystem   Key = "role.system"
	RoleMemo     Key = "role.private_memo"

	SubjectFallback Key = "ticket.subject.fallback"

	StatusNew     Key = "status.new"
	StatusOpen    Key = "status.open"
	StatusPending Key = "status.pending"
	StatusHold    Key = "status.hold"
	StatusSolved  Key = "status.solved"
	StatusClosed  Key = "status.closed"
)

var japanese = map[Key]string{
	RiskSafe:   "通常",
	RiskWarn:   "注意",
	RiskDanger: "クレーム",
	IconSafe:   "🟢",
	IconWarn:   "⚠",
	IconDanger: "🔥",
	ReasonNone: "通常",

	CustomerNormal:  "通常",
	CustomerCaution: "慎重対応",
	CustomerDanger:  "要注意",
	CustomerDetails: "過去%d件 / 直近90日クレーム%d件 / 平均リスク%d点",
	NoHistory:       "過去の問い合わせ履歴がありません",

	BriefNoTicket:  "チケット情報がありません",
	BriefNoInquiry: "問い合わせなし",
	TrendNoTicket:  "オペレーター返信がありません",
	TrendNoReply:   "返信なし",
	ActionEscalate: "丁寧な傾聴と共感を最優先。必要に応じて上長エスカレーションを検討してください。",
	ActionCareful:  "通常対応＋丁寧な説明を心がけてください。",
	ActionStandard: "通常対応で問題ありません。",

	RoleCustomer: "お客様",
	RoleOperator: "オペレーター",
	RoleSystem:   "システム",
	RoleMemo:     "社内メモ",

	SubjectFallback: "問い合わせ",

	StatusNew:     "新規",
	StatusOpen:    "対応中",
	StatusPending: "保留",
	StatusHold:    "保留中",
	StatusSolved:  "解決済",
	StatusClosed:  "クローズ",
}

var english = map[Key]string{
	RiskSafe:   "Normal",
	RiskWarn:   "Caution",
	RiskDanger: "Complaint",
	IconSafe:   "🟢",
	IconWarn:   "⚠",
	IconDanger: "🔥",
	ReasonNone: "normal",

	CustomerNormal:  "Normal",
	CustomerCaution: "Handle with care",
	CustomerDanger:  "High risk",
	CustomerDetails: "%d past tickets / %d complaints in last 90 days / average risk %d",
	NoHistory:       "no history",

	BriefNoTicket:  "No ticket information",
	BriefNoInquiry: "No inquiry",
	TrendNoTicket:  "No operator reply",
	TrendNoReply:   "No reply",
	ActionEscalate: "Prioritize careful listening and empathy. Consider escalating to a supervisor.",
	ActionCareful:  "Standard handling with extra care in explanations.",
	ActionStandard: "Standard handling is fine.",

	RoleCustomer: "Customer",
	RoleOperator: "Operator",
	RoleSystem:   "System",
	RoleMemo:     "Internal memo",

	SubjectFallback: "Inquiry",

	StatusNew:     "New",
	StatusOpen:    "Open",
	StatusPending: "Pending",
	StatusHold:    "On hold",
	StatusSolved:  "Solved",
	StatusClosed:  "Closed",
}

var supported = []language.Tag{language.Japanese, language.English}

var matcher = language.NewMatcher(supported)

func init() {
	register(language.Japanese, japanese)
	register(language.English, english)
}

func register(tag language.Tag, messages map[Key]string) {
	for key, msg := range messages {
		if err := message.SetString(tag, string(key), msg); err != nil {
			panic(err)
		}
	}
}

// Localizer renders catalog keys for one locale.
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a Localizer for the closest supported locale; unknown or empty input selects Japanese.
func New(locale string) *Localizer {
	tag := language.Japanese
	if locale != "" {
		if parsed, err := language.Parse(locale); err == nil {
			_, idx, conf := matcher.Match(parsed)
			if conf != language.No {
				tag = supported[idx]
			}
		}
	}
	return &Localizer{tag: tag, printer: message.NewPrinter(tag)}
}

// Default returns the Japanese localizer.
func Default() *Localizer {
	return New("")
}

// T renders key with optional format arguments.
func (l *Localizer) T(key Key, args ...any) string {
	return l.printer.Sprintf(string(key), args...)
}

// Locale returns the BCP 47 tag of this localizer.
func (l *Localizer) Locale() string {
	return l.tag.String()
}
