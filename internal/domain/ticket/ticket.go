package ticket

import (
	"fmt"
	"time"

	vo "github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/ticket/valueobjects"
)

// Ticket is a support case fetched for the current widget session. It is never persisted.
type Ticket struct {
	id          string
	subject     string
	description string
	status      vo.TicketStatus
	channel     vo.Channel
	requesterID string
	createdAt   time.Time
	comments    []*Comment
	risk        RiskAnalysis
	aiSummary   string
}

func NewTicket(
	id string,
	subject string,
	description string,
	status vo.TicketStatus,
	channel vo.Channel,
	requesterID string,
	createdAt time.Time,
) (*Ticket, error) {
	if id == "" {
		return nil, fmt.Errorf("ticket ID is required")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid status: %s", status)
	}
	if channel == "" {
		channel = vo.ChannelUnknown
	}
	if !channel.IsValid() {
		return nil, fmt.Errorf("invalid channel: %s", channel)
	}

	return &Ticket{
		id:          id,
		subject:     subject,
		description: description,
		status:      status,
		channel:     channel,
		requesterID: requesterID,
		createdAt:   createdAt.UTC(),
		comments:    []*Comment{},
	}, nil
}

func (t *Ticket) ID() string {
	return t.id
}

func (t *Ticket) Subject() string {
	return t.subject
}

func (t *Ticket) Description() string {
	return t.description
}

func (t *Ticket) Status() vo.TicketStatus {
	return t.status
}

func (t *Ticket) Channel() vo.Channel {
	return t.channel
}

// RequesterID is empty when the source did not identify the requester.
func (t *Ticket) RequesterID() string {
	return t.requesterID
}

func (t *Ticket) CreatedAt() time.Time {
	return t.createdAt
}

// Comments returns the timeline in chronological order.
func (t *Ticket) Comments() []*Comment {
	out := make([]*Comment, len(t.comments))
	copy(out, t.comments)
	return out
}

// SetComments replaces the timeline; entries are ordered oldest first.
func (t *Ticket) SetComments(comments []*Comment) {
	t.comments = MergeTimeline(comments, nil)
}

func (t *Ticket) RiskAnalysis() RiskAnalysis {
	return t.risk
}

// SetRiskAnalysis replaces the current analysis. Analyses are never merged.
func (t *Ticket) SetRiskAnalysis(analysis RiskAnalysis) {
	t.risk = analysis
}

func (t *Ticket) AISummary() string {
	return t.aiSummary
}

func (t *Ticket) SetAISummary(summary string) {
	t.aiSummary = summary
}

// Clone returns a copy that can be read without holding the owner's lock.
func (t *Ticket) Clone() *Ticket {
	c := *t
	c.comments = t.Comments()
	return &c
}
