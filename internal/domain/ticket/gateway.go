package ticket

import "context"

// Gateway is the support-desk data source. Implementations normalize field variance
// before handing data to the domain; comments are returned oldest first.
type Gateway interface {
	FetchTicket(ctx context.Context, ticketID string) (*Ticket, error)
	FetchTicketsByRequester(ctx context.Context, email string) ([]*Ticket, error)
	FetchComments(ctx context.Context, ticketID string) ([]*Comment, error)
	FetchAuditEvents(ctx context.Context, ticketID string) ([]*Comment, error)
}
