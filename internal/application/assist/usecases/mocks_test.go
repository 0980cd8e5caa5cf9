package usecases

import (
	"context"
	"sync"

	"github.com/ymjiot-spec/zendesk-yoyaku/internal/application/assist/dto"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/ticket"
)

type mockGateway struct {
	FetchTicketFunc             func(ctx context.Context, ticketID string) (*ticket.Ticket, error)
	FetchTicketsByRequesterFunc func(ctx context.Context, email string) ([]*ticket.Ticket, error)
	FetchCommentsFunc           func(ctx context.Context, ticketID string) ([]*ticket.Comment, error)
	FetchAuditEventsFunc        func(ctx context.Context, ticketID string) ([]*ticket.Comment, error)

	mu            sync.Mutex
	requesterHits int
}

func (m *mockGateway) FetchTicket(ctx context.Context, ticketID string) (*ticket.Ticket, error) {
	if m.FetchTicketFunc != nil {
		return m.FetchTicketFunc(ctx, ticketID)
	}
	return nil, nil
}

func (m *mockGateway) FetchTicketsByRequester(ctx context.Context, email string) ([]*ticket.Ticket, error) {
	m.mu.Lock()
	m.requesterHits++
	m.mu.Unlock()
	if m.FetchTicketsByRequesterFunc != nil {
		return m.FetchTicketsByRequesterFunc(ctx, email)
	}
	return nil, nil
}

func (m *mockGateway) FetchComments(ctx context.Context, ticketID string) ([]*ticket.Comment, error) {
	if m.FetchCommentsFunc != nil {
		return m.FetchCommentsFunc(ctx, ticketID)
	}
	return nil, nil
}

func (m *mockGateway) FetchAuditEvents(ctx context.Context, ticketID string) ([]*ticket.Comment, error) {
	if m.FetchAuditEventsFunc != nil {
		return m.FetchAuditEventsFunc(ctx, ticketID)
	}
	return nil, nil
}

func (m *mockGateway) RequesterHits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requesterHits
}

type mockModel struct {
	CompleteFunc func(ctx context.Context, prompt string, maxTokens int) (string, error)

	mu      sync.Mutex
	prompts []string
}

func (m *mockModel) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, prompt, maxTokens)
	}
	return "", nil
}

func (m *mockModel) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

type recordingRenderer struct {
	mu        sync.Mutex
	customers []dto.CustomerRiskView
	lists     [][]dto.TicketView
	summaries []dto.SummaryView
}

func (r *recordingRenderer) RenderCustomerRisk(_ string, view dto.CustomerRiskView) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.customers = append(r.customers, view)
}

func (r *recordingRenderer) RenderTicketList(_ string, views []dto.TicketView) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists = append(r.lists, views)
}

func (r *recordingRenderer) RenderSummary(_ string, view dto.SummaryView) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summaries = append(r.summaries, view)
}

func (r *recordingRenderer) Customers() []dto.CustomerRiskView {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]dto.CustomerRiskView(nil), r.customers...)
}

func (r *recordingRenderer) Lists() [][]dto.TicketView {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]dto.TicketView(nil), r.lists...)
}

func (r *recordingRenderer) Summaries() []dto.SummaryView {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]dto.SummaryView(nil), r.summaries...)
}
