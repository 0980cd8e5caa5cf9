package zendesk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/ticket/valueobjects"
	sharedConfig "github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/config"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/logger"
)

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := NewClient(sharedConfig.ZendeskConfig{
		BaseURL:    srv.URL,
		Email:      "agent@example.com",
		APIToken:   "secret",
		MaxRetries: 2,
	}, srv.Client(), logger.NewNopLogger())
	require.NoError(t, err)
	c.newBackOff = func() backoff.BackOff { return &backoff.ZeroBackOff{} }
	return c
}

func TestNewClient_RequiresConfig(t *testing.T) {
	_, err := NewClient(sharedConfig.ZendeskConfig{BaseURL: "https://x.zendesk.com"}, nil, logger.NewNopLogger())
	assert.Error(t, err)
}

func TestFlexID(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`123`, "123"},
		{`"456"`, "456"},
		{`" 78 "`, "78"},
		{`null`, ""},
		{`1.5e3`, "1.5e3"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var id flexID
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &id))
			assert.Equal(t, tt.want, string(id))
		})
	}
}

func TestFetchTicket(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "agent@example.com/token", user)
		assert.Equal(t, "secret", pass)

		switch r.URL.Path {
		case "/api/v2/tickets/42.json":
			_, _ = w.Write([]byte(`{"ticket":{"id":42,"subject":"返金","description":"返金希望","status":"open","requester_id":7,"created_at":"2024-03-01T10:00:00Z","via":{"channel":"web"}}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()
	c := newTestClient(t, srv)

	tk, err := c.FetchTicket(context.Background(), "42")
	require.NoError(t, err)
	require.NotNil(t, tk)
	assert.Equal(t, "42", tk.ID())
	assert.Equal(t, "7", tk.RequesterID())
	assert.Equal(t, vo.StatusOpen, tk.Status())
	assert.Equal(t, vo.ChannelWeb, tk.Channel())
	assert.Equal(t, 2024, tk.CreatedAt().Year())

	missing, err := c.FetchTicket(context.Background(), "99")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestFetchTicketsByRequester_Paginates(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v2/search.json", r.URL.Path)
		assert.Equal(t, "type:ticket requester:user@example.com", r.URL.Query().Get("query"))

		if r.URL.Query().Get("page") == "2" {
			_, _ = w.Write([]byte(`{"results":[{"id":"2","subject":"b","status":"solved","created_at":"2024-01-02T00:00:00Z"},{"id":3,"status":"deleted"}],"next_page":null}`))
			return
		}
		q := r.URL.Query()
		q.Set("page", "2")
		next := srv.URL + "/api/v2/search.json?" + q.Encode()
		fmt.Fprintf(w, `{"results":[{"id":1,"subject":"a","status":"open","created_at":"2024-01-01T00:00:00Z"}],"next_page":%q}`, next)
	}))
	defer srv.Close()
	c := newTestClient(t, srv)

	tickets, err := c.FetchTicketsByRequester(context.Background(), "user@example.com")
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, "1", tickets[0].ID())
	assert.Equal(t, "2", tickets[1].ID())
}

func TestFetchTicketsByRequester_PageLimit(t *testing.T) {
	var calls int32
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		fmt.Fprintf(w, `{"results":[{"id":%d,"status":"open"}],"next_page":%q}`, n, srv.URL+"/api/v2/search.json?page=next")
	}))
	defer srv.Close()
	c := newTestClient(t, srv)
	c.maxSearchPages = 2

	tickets, err := c.FetchTicketsByRequester(context.Background(), "user@example.com")
	require.NoError(t, err)
	assert.Len(t, tickets, 2)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFetchComments_FieldVariance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"comments":[
			{"id":1,"author_id":7,"body":"plain","html_body":"<p>html</p>","created_at":"2024-01-01T00:00:00Z","via":{"channel":"email"}},
			{"id":"2","author_id":"8","value":"from value","public":false,"created_at":"2024-01-01T01:00:00Z"},
			{"id":3,"author_id":8,"plain_body":"from plain","public":true,"created_at":"2024-01-01T02:00:00Z","via":{"channel":"rule"}}
		],"next_page":null}`))
	}))
	defer srv.Close()
	c := newTestClient(t, srv)

	comments, err := c.FetchComments(context.Background(), "42")
	require.NoError(t, err)
	require.Len(t, comments, 3)

	assert.Equal(t, "<p>html</p>", comments[0].Content())
	assert.Nil(t, comments[0].Public())
	assert.Equal(t, vo.ChannelEmail, comments[0].Channel())
	assert.Equal(t, "7", comments[0].AuthorID())

	assert.Equal(t, "from value", comments[1].Content())
	assert.True(t, comments[1].IsPrivate())
	assert.Equal(t, vo.ChannelUnknown, comments[1].Channel())

	assert.Equal(t, "from plain", comments[2].Content())
	assert.False(t, comments[2].IsPrivate())
	assert.True(t, comments[2].Channel().IsSystem())
}

func TestFetchAuditEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/tickets/42/audits.json", r.URL.Path)
		_, _ = w.Write([]byte(`{"audits":[
			{"id":100,"author_id":-1,"created_at":"2024-01-02T00:00:00Z","via":{"channel":"rule"},"events":[
				{"id":101,"type":"Change","field_name":"status","value":"solved","previous_value":"open"},
				{"id":102,"type":"Notification","body":"mail sent"}
			]},
			{"id":200,"author_id":8,"created_at":"2024-01-01T00:00:00Z","via":{"channel":"web"},"events":[
				{"id":201,"type":"Comment","body":"operator reply","public":true},
				{"id":202,"type":"Change","field_name":"status","value":"pending","previous_value":"open"}
			]}
		]}`))
	}))
	defer srv.Close()
	c := newTestClient(t, srv)

	events, err := c.FetchAuditEvents(context.Background(), "42")
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, "101", events[0].ID())
	assert.Contains(t, events[0].Body(), "解決済みに変更")
	assert.Equal(t, vo.ChannelRule, events[0].Channel())

	assert.Equal(t, "201", events[1].ID())
	assert.Equal(t, "operator reply", events[1].Body())
	assert.Equal(t, "8", events[1].AuthorID())
}

func TestGet_RetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"comments":[],"next_page":null}`))
	}))
	defer srv.Close()
	c := newTestClient(t, srv)

	comments, err := c.FetchComments(context.Background(), "1")
	require.NoError(t, err)
	assert.Empty(t, comments)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGet_ClientErrorIsPermanent(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Couldn't authenticate you"}`))
	}))
	defer srv.Close()
	c := newTestClient(t, srv)

	_, err := c.FetchComments(context.Background(), "1")
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.Status)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
