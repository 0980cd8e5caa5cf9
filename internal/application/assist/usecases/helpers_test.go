package usecases

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ymjiot-spec/zendesk-yoyaku/internal/application/assist/session"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/insight/rules"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/ticket"
	vo "github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/ticket/valueobjects"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/logger"
)

var now = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return now }

func nopLogger() logger.Interface { return logger.NewNopLogger() }

func newInsight() *Insight {
	return NewInsight(rules.Default(), 20)
}

func newSession(t *testing.T) *session.Session {
	t.Helper()
	s, err := session.NewRegistry(fixedNow).Create("ja")
	require.NoError(t, err)
	return s
}

func mustTicket(t *testing.T, id, subject, description string, createdAt time.Time) *ticket.Ticket {
	t.Helper()
	tk, err := ticket.NewTicket(id, subject, description, vo.StatusOpen, vo.ChannelEmail, "req", createdAt)
	require.NoError(t, err)
	return tk
}

func mustComment(t *testing.T, id, author, body string, public *bool, minute int) *ticket.Comment {
	t.Helper()
	c, err := ticket.NewComment(id, author, body, "", public, vo.ChannelEmail, now.Add(time.Duration(minute)*time.Minute))
	require.NoError(t, err)
	return c
}

const pad = "。詳細は以下の通りとなっております"

func longText(s string) string {
	return s + pad
}

func newRegistry() *session.Registry {
	return session.NewRegistry(fixedNow)
}
