package ticket

import vo "github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/ticket/valueobjects"

// RiskAnalysis is the complaint-risk verdict attached to a ticket.
type RiskAnalysis struct {
	ComplaintScore int
	Level          vo.RiskLevel
	LevelText      string
	Icon           string
	MatchedReason  string
	Source         vo.Source
}

// IsZero reports whether no scoring has run yet.
func (r RiskAnalysis) IsZero() bool {
	return r.Level == ""
}

// CustomerRiskAggregate summarizes every analysed ticket of one requester.
type CustomerRiskAggregate struct {
	Score            int
	Level            vo.CustomerRiskLevel
	LevelText        string
	Details          string
	TicketCount      int
	AverageScore     int
	ComplaintCount   int
	RecentComplaints int
}

// ClassifiedComment pairs a comment with its transcript role and visible text.
type ClassifiedComment struct {
	Comment *Comment
	Role    vo.Role
	Text    string
}

// SummaryMessage is one bounded line of the rendered transcript.
type SummaryMessage struct {
	Role vo.Role
	Text string
}

// Summary is the per-ticket digest shown to the agent.
type Summary struct {
	Brief       string
	Trend       string
	PrivateMemo string
	Action      string
	Messages    []SummaryMessage
	Source      vo.Source
}
