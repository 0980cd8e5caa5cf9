package dto

import (
	"time"

	"github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/insight/textnorm"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/ticket"
	vo "github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/ticket/valueobjects"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/biztime"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/i18n"
)

// SubjectPreviewLength bounds the subject shown in the ticket list.
const SubjectPreviewLength = 40

type SessionView struct {
	SessionID string `json:"session_id"`
	Locale    string `json:"locale"`
}

type RiskView struct {
	Score     int    `json:"complaint_score"`
	Level     string `json:"level"`
	LevelText string `json:"level_text"`
	Icon      string `json:"icon"`
	Reason    string `json:"reason"`
	Source    string `json:"source"`
}

type TicketView struct {
	ID          string   `json:"id"`
	Subject     string   `json:"subject"`
	Status      string   `json:"status"`
	StatusLabel string   `json:"status_label"`
	CreatedAt   string   `json:"created_at"`
	Risk        RiskView `json:"risk"`
	AISummary   string   `json:"ai_summary,omitempty"`
}

type CustomerRiskView struct {
	Score            int    `json:"score"`
	Level            string `json:"level"`
	LevelText        string `json:"level_text"`
	Details          string `json:"details"`
	TicketCount      int    `json:"ticket_count"`
	ComplaintCount   int    `json:"complaint_count"`
	RecentComplaints int    `json:"recent_complaints"`
}

type HistoryView struct {
	Email          string           `json:"email"`
	Customer       CustomerRiskView `json:"customer"`
	Tickets        []TicketView     `json:"tickets"`
	UpgradePending bool             `json:"upgrade_pending"`
}

type MessageView struct {
	Role      string `json:"role"`
	RoleLabel string `json:"role_label"`
	Text      string `json:"text"`
}

type SummaryView struct {
	TicketID    string        `json:"ticket_id"`
	Brief       string        `json:"brief"`
	Trend       string        `json:"trend"`
	PrivateMemo string        `json:"private_memo,omitempty"`
	Action      string        `json:"action"`
	Messages    []MessageView `json:"messages"`
	Source      string        `json:"source"`
	Risk        RiskView      `json:"risk"`
}

type NoteView struct {
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}

func ToRiskView(r ticket.RiskAnalysis) RiskView {
	return RiskView{
		Score:     r.ComplaintScore,
		Level:     r.Level.String(),
		LevelText: r.LevelText,
		Icon:      r.Icon,
		Reason:    r.MatchedReason,
		Source:    r.Source.String(),
	}
}

func ToTicketView(t *ticket.Ticket, loc *i18n.Localizer) TicketView {
	subject := textnorm.Verbatim(t.Subject())
	if subject == "" {
		subject = loc.T(i18n.SubjectFallback)
	}
	return TicketView{
		ID:          t.ID(),
		Subject:     textnorm.Truncate(subject, SubjectPreviewLength),
		Status:      t.Status().String(),
		StatusLabel: StatusLabel(t.Status(), loc),
		CreatedAt:   biztime.FormatDisplay(t.CreatedAt()),
		Risk:        ToRiskView(t.RiskAnalysis()),
		AISummary:   t.AISummary(),
	}
}

func ToTicketViews(tickets []*ticket.Ticket, loc *i18n.Localizer) []TicketView {
	views := make([]TicketView, 0, len(tickets))
	for _, t := range tickets {
		if t != nil {
			views = append(views, ToTicketView(t, loc))
		}
	}
	return views
}

func ToCustomerRiskView(a ticket.CustomerRiskAggregate) CustomerRiskView {
	return CustomerRiskView{
		Score:            a.Score,
		Level:            a.Level.String(),
		LevelText:        a.LevelText,
		Details:          a.Details,
		TicketCount:      a.TicketCount,
		ComplaintCount:   a.ComplaintCount,
		RecentComplaints: a.RecentComplaints,
	}
}

func ToSummaryView(ticketID string, s ticket.Summary, r ticket.RiskAnalysis, loc *i18n.Localizer) SummaryView {
	messages := make([]MessageView, 0, len(s.Messages))
	for _, m := range s.Messages {
		messages = append(messages, MessageView{
			Role:      m.Role.String(),
			RoleLabel: RoleLabel(m.Role, loc),
			Text:      m.Text,
		})
	}
	return SummaryView{
		TicketID:    ticketID,
		Brief:       s.Brief,
		Trend:       s.Trend,
		PrivateMemo: s.PrivateMemo,
		Action:      s.Action,
		Messages:    messages,
		Source:      s.Source.String(),
		Risk:        ToRiskView(r),
	}
}

func ToNoteView(text string, createdAt time.Time) NoteView {
	return NoteView{Text: text, CreatedAt: biztime.FormatDisplay(createdAt)}
}

var statusKeys = map[vo.TicketStatus]i18n.Key{
	vo.StatusNew:     i18n.StatusNew,
	vo.StatusOpen:    i18n.StatusOpen,
	vo.StatusPending: i18n.StatusPending,
	vo.StatusHold:    i18n.StatusHold,
	vo.StatusSolved:  i18n.StatusSolved,
	vo.StatusClosed:  i18n.StatusClosed,
}

// StatusLabel localizes a status; unknown values are shown raw.
func StatusLabel(s vo.TicketStatus, loc *i18n.Localizer) string {
	if key, ok := statusKeys[s]; ok {
		return loc.T(key)
	}
	return s.String()
}

var roleKeys = map[vo.Role]i18n.Key{
	vo.RoleCustomer:    i18n.RoleCustomer,
	vo.RoleOperator:    i18n.RoleOperator,
	vo.RoleSystem:      i18n.RoleSystem,
	vo.RolePrivateMemo: i18n.RoleMemo,
}

func RoleLabel(r vo.Role, loc *i18n.Localizer) string {
	if key, ok := roleKeys[r]; ok {
		return loc.T(key)
	}
	return r.String()
}
