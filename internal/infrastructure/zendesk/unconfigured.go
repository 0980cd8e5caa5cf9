package zendesk

import (
	"context"

	"github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/ticket"
	apperrors "github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/errors"
)

// Unconfigured stands in for the client when no credentials are set. Every call fails
// with a 503 so the widget reports the outage instead of an empty history.
type Unconfigured struct{}

var _ ticket.Gateway = Unconfigured{}

func errUnconfigured() error {
	return apperrors.NewUnavailableError("support desk is not configured")
}

func (Unconfigured) FetchTicket(context.Context, string) (*ticket.Ticket, error) {
	return nil, errUnconfigured()
}

func (Unconfigured) FetchTicketsByRequester(context.Context, string) ([]*ticket.Ticket, error) {
	return nil, errUnconfigured()
}

func (Unconfigured) FetchComments(context.Context, string) ([]*ticket.Comment, error) {
	return nil, errUnconfigured()
}

func (Unconfigured) FetchAuditEvents(context.Context, string) ([]*ticket.Comment, error) {
	return nil, errUnconfigured()
}
