package valueobjects

import (
	"fmt"
	"strings"
)

// TicketStatus is the support-desk lifecycle state of a ticket.
type TicketStatus string

const (
	StatusNew     TicketStatus = "new"
	StatusOpen    TicketStatus = "open"
	StatusPending TicketStatus = "pending"
	StatusHold    TicketStatus = "hold"
	StatusSolved  TicketStatus = "solved"
	StatusClosed  TicketStatus = "closed"
)

var validTicketStatuses = map[TicketStatus]bool{
	StatusNew:     true,
	StatusOpen:    true,
	StatusPending: true,
	StatusHold:    true,
	StatusSolved:  true,
	StatusClosed:  true,
}

func (ts TicketStatus) String() string {
	return string(ts)
}

func (ts TicketStatus) IsValid() bool {
	return validTicketStatuses[ts]
}

// IsResolved reports whether the ticket no longer awaits work.
func (ts TicketStatus) IsResolved() bool {
	return ts == StatusSolved || ts == StatusClosed
}

func NewTicketStatus(raw string) (TicketStatus, error) {
	status := TicketStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !status.IsValid() {
		return "", fmt.Errorf("invalid ticket status: %s", raw)
	}
	return status, nil
}
