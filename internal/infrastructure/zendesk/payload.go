package zendesk

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/ticket"
	vo "github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/ticket/valueobjects"
)

// flexID accepts ids sent as JSON numbers or strings.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", string(data), err)
	}
	if i, err := n.Int64(); err == nil {
		*f = flexID(strconv.FormatInt(i, 10))
		return nil
	}
	*f = flexID(n.String())
	return nil
}

type viaPayload struct {
	Channel string `json:"channel"`
}

type ticketPayload struct {
	ID          flexID     `json:"id"`
	Subject     string     `json:"subject"`
	RawSubject  string     `json:"raw_subject"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	RequesterID flexID     `json:"requester_id"`
	CreatedAt   string     `json:"created_at"`
	Via         viaPayload `json:"via"`
}

type commentPayload struct {
	ID        flexID     `json:"id"`
	AuthorID  flexID     `json:"author_id"`
	Body      string     `json:"body"`
	HTMLBody  string     `json:"html_body"`
	Value     string     `json:"value"`
	PlainBody string     `json:"plain_body"`
	Public    *bool      `json:"public"`
	Via       viaPayload `json:"via"`
	CreatedAt string     `json:"created_at"`
}

type auditEventPayload struct {
	ID            flexID          `json:"id"`
	Type          string          `json:"type"`
	AuthorID      flexID          `json:"author_id"`
	Body          string          `json:"body"`
	HTMLBody      string          `json:"html_body"`
	PlainBody     string          `json:"plain_body"`
	Public        *bool           `json:"public"`
	FieldName     string          `json:"field_name"`
	Value         json.RawMessage `json:"value"`
	PreviousValue json.RawMessage `json:"previous_value"`
}

type auditPayload struct {
	ID        flexID              `json:"id"`
	AuthorID  flexID              `json:"author_id"`
	CreatedAt string              `json:"created_at"`
	Via       viaPayload          `json:"via"`
	Events    []auditEventPayload `json:"events"`
}

type searchResponse struct {
	Results  []ticketPayload `json:"results"`
	NextPage *string         `json:"next_page"`
}

type ticketResponse struct {
	Ticket ticketPayload `json:"ticket"`
}

type commentsResponse struct {
	Comments []commentPayload `json:"comments"`
	NextPage *string          `json:"next_page"`
}

type auditsResponse struct {
	Audits   []auditPayload `json:"audits"`
	NextPage *string        `json:"next_page"`
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func (p ticketPayload) toDomain() (*ticket.Ticket, error) {
	status, err := vo.NewTicketStatus(p.Status)
	if err != nil {
		return nil, err
	}
	return ticket.NewTicket(
		string(p.ID),
		firstNonEmpty(p.Subject, p.RawSubject),
		p.Description,
		status,
		vo.ParseChannel(p.Via.Channel),
		string(p.RequesterID),
		parseTime(p.CreatedAt),
	)
}

func (p commentPayload) toDomain() (*ticket.Comment, error) {
	return ticket.NewComment(
		string(p.ID),
		string(p.AuthorID),
		firstNonEmpty(p.Body, p.Value, p.PlainBody),
		p.HTMLBody,
		p.Public,
		vo.ParseChannel(p.Via.Channel),
		parseTime(p.CreatedAt),
	)
}

// eventsToDomain turns the audit trail into timeline entries. Comment events keep
// their own visibility; status changes are only reported when the platform made them.
func (a auditPayload) eventsToDomain() []*ticket.Comment {
	channel := vo.ParseChannel(a.Via.Channel)
	createdAt := parseTime(a.CreatedAt)

	var out []*ticket.Comment
	for _, ev := range a.Events {
		var (
			c   *ticket.Comment
			err error
		)
		switch ev.Type {
		case "Comment", "VoiceComment":
			author := ev.AuthorID
			if author == "" {
				author = a.AuthorID
			}
			c, err = ticket.NewComment(string(ev.ID), string(author),
				firstNonEmpty(ev.Body, ev.PlainBody), ev.HTMLBody, ev.Public, channel, createdAt)
		case "Change":
			if ev.FieldName != "status" || !channel.IsSystem() {
				continue
			}
			text := fmt.Sprintf("ステータスを%sから%sに変更しました", statusLabel(ev.PreviousValue), statusLabel(ev.Value))
			if rawString(ev.Value) == string(vo.StatusSolved) {
				text = "チケットを解決済みに変更しました"
			}
			c, err = ticket.NewComment(string(ev.ID), string(a.AuthorID), text, "", nil, channel, createdAt)
		default:
			continue
		}
		if err != nil {
			continue
		}
		out = append(out, c)
	}
	return out
}

func rawString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func statusLabel(raw json.RawMessage) string {
	if s := rawString(raw); s != "" {
		return s
	}
	return "-"
}
