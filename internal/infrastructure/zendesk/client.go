// Package zendesk implements the ticket gateway over the support-desk REST API.
package zendesk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/ticket"
	sharedConfig "github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/config"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/logger"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/utils"
)

const (
	defaultTimeout        = 15 * time.Second
	defaultMaxSearchPages = 3
	maxListPages          = 20
	maxBodyBytes          = 8 << 20
)

// ErrNotFound is returned by get when the resource does not exist.
var ErrNotFound = errors.New("zendesk resource not found")

// StatusError is a non-success HTTP response from the API.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("zendesk api returned %d: %s", e.Status, e.Body)
}

type Client struct {
	httpClient     *http.Client
	baseURL        *url.URL
	email          string
	apiToken       string
	maxSearchPages int
	maxRetries     int
	logger         logger.Interface

	newBackOff func() backoff.BackOff
}

var _ ticket.Gateway = (*Client)(nil)

func NewClient(cfg sharedConfig.ZendeskConfig, httpClient *http.Client, log logger.Interface) (*Client, error) {
	if !cfg.IsConfigured() {
		return nil, errors.New("zendesk base_url and api_token are required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid zendesk base_url: %w", err)
	}

	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	pages := cfg.MaxSearchPages
	if pages <= 0 {
		pages = defaultMaxSearchPages
	}

	c := &Client{
		httpClient:     httpClient,
		baseURL:        base,
		email:          cfg.Email,
		apiToken:       cfg.APIToken,
		maxSearchPages: pages,
		maxRetries:     cfg.MaxRetries,
		logger:         log,
	}
	c.newBackOff = func() backoff.BackOff {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = 300 * time.Millisecond
		b.MaxInterval = 3 * time.Second
		b.MaxElapsedTime = 2 * timeout
		return b
	}
	return c, nil
}

func (c *Client) FetchTicket(ctx context.Context, ticketID string) (*ticket.Ticket, error) {
	var resp ticketResponse
	if err := c.get(ctx, c.endpoint("/api/v2/tickets/%s.json", ticketID), &resp); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch ticket %s: %w", ticketID, err)
	}
	t, err := resp.Ticket.toDomain()
	if err != nil {
		return nil, fmt.Errorf("failed to decode ticket %s: %w", ticketID, err)
	}
	return t, nil
}

// FetchTicketsByRequester searches tickets by requester e-mail, following next_page
// up to the configured page limit.
func (c *Client) FetchTicketsByRequester(ctx context.Context, email string) ([]*ticket.Ticket, error) {
	q := url.Values{}
	q.Set("query", fmt.Sprintf("type:ticket requester:%s", email))
	next := c.endpoint("/api/v2/search.json") + "?" + q.Encode()

	var tickets []*ticket.Ticket
	for page := 0; next != "" && page < c.maxSearchPages; page++ {
		var resp searchResponse
		if err := c.get(ctx, next, &resp); err != nil {
			return nil, fmt.Errorf("failed to search tickets for %s: %w", utils.MaskEmail(email), err)
		}
		for _, p := range resp.Results {
			t, err := p.toDomain()
			if err != nil {
				c.logger.Warnw("skipping undecodable ticket", "ticket_id", string(p.ID), "error", err)
				continue
			}
			tickets = append(tickets, t)
		}
		next = derefString(resp.NextPage)
	}

	c.logger.Debugw("requester tickets fetched", "email", utils.MaskEmail(email), "count", len(tickets))
	return tickets, nil
}

func (c *Client) FetchComments(ctx context.Context, ticketID string) ([]*ticket.Comment, error) {
	next := c.endpoint("/api/v2/tickets/%s/comments.json", ticketID)

	var comments []*ticket.Comment
	for page := 0; next != "" && page < maxListPages; page++ {
		var resp commentsResponse
		if err := c.get(ctx, next, &resp); err != nil {
			return nil, fmt.Errorf("failed to fetch comments for ticket %s: %w", ticketID, err)
		}
		for _, p := range resp.Comments {
			cm, err := p.toDomain()
			if err != nil {
				c.logger.Warnw("skipping undecodable comment", "ticket_id", ticketID, "error", err)
				continue
			}
			comments = append(comments, cm)
		}
		next = derefString(resp.NextPage)
	}
	return comments, nil
}

func (c *Client) FetchAuditEvents(ctx context.Context, ticketID string) ([]*ticket.Comment, error) {
	next := c.endpoint("/api/v2/tickets/%s/audits.json", ticketID)

	var events []*ticket.Comment
	for page := 0; next != "" && page < maxListPages; page++ {
		var resp auditsResponse
		if err := c.get(ctx, next, &resp); err != nil {
			return nil, fmt.Errorf("failed to fetch audits for ticket %s: %w", ticketID, err)
		}
		for _, a := range resp.Audits {
			events = append(events, a.eventsToDomain()...)
		}
		next = derefString(resp.NextPage)
	}
	return events, nil
}

func (c *Client) endpoint(format string, args ...any) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + fmt.Sprintf(format, args...)
	return u.String()
}

// get issues an authenticated GET, retrying 429 and 5xx responses with backoff.
func (c *Client) get(ctx context.Context, rawURL string, out any) error {
	attempt := 0
	operation := func() error {
		attempt++
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to build request: %w", err))
		}
		req.SetBasicAuth(c.email+"/token", c.apiToken)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			c.logger.Warnw("zendesk request failed, retrying", "attempt", attempt, "error", err)
			return err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return backoff.Permanent(ErrNotFound)
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
			c.logger.Warnw("zendesk api throttled or failing, retrying", "attempt", attempt, "status", resp.StatusCode)
			return &StatusError{Status: resp.StatusCode, Body: truncateBody(body)}
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			return backoff.Permanent(&StatusError{Status: resp.StatusCode, Body: truncateBody(body)})
		}

		if err := json.Unmarshal(body, out); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to decode response: %w", err))
		}
		return nil
	}

	var b backoff.BackOff = c.newBackOff()
	if c.maxRetries >= 0 {
		b = backoff.WithMaxRetries(b, uint64(c.maxRetries))
	}
	return backoff.Retry(operation, backoff.WithContext(b, ctx))
}

func truncateBody(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		return s[:200]
	}
	return s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
