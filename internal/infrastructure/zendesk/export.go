package zendesk

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/ticket"
)

type exportTicket struct {
	ticketPayload
	Comments []commentPayload `json:"comments"`
	Audits   []auditPayload   `json:"audits"`
}

type exportFile struct {
	Tickets []exportTicket `json:"tickets"`
}

// DecodeExport reads an offline ticket export: {"tickets": [...]} where each ticket uses
// the API's ticket fields plus optional "comments" and "audits" arrays. Tickets that
// fail validation are skipped and counted.
func DecodeExport(r io.Reader) ([]*ticket.Ticket, int, error) {
	var file exportFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, 0, fmt.Errorf("failed to decode ticket export: %w", err)
	}

	tickets := make([]*ticket.Ticket, 0, len(file.Tickets))
	skipped := 0
	for _, et := range file.Tickets {
		t, err := et.ticketPayload.toDomain()
		if err != nil {
			skipped++
			continue
		}

		comments := make([]*ticket.Comment, 0, len(et.Comments))
		for _, cp := range et.Comments {
			c, err := cp.toDomain()
			if err != nil {
				continue
			}
			comments = append(comments, c)
		}
		var events []*ticket.Comment
		for _, a := range et.Audits {
			events = append(events, a.eventsToDomain()...)
		}
		t.SetComments(ticket.MergeTimeline(comments, events))

		tickets = append(tickets, t)
	}
	return tickets, skipped, nil
}
