package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/ticket"
	vo "github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/ticket/valueobjects"
	apperrors "github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/errors"
)

func historyGateway(t *testing.T) *mockGateway {
	return &mockGateway{
		FetchTicketsByRequesterFunc: func(ctx context.Context, email string) ([]*ticket.Ticket, error) {
			return []*ticket.Ticket{
				mustTicket(t, "b", "品質", "最悪 詐欺", now.Add(-48*time.Hour)),
				mustTicket(t, "cur", "今回", "返金", now),
				mustTicket(t, "a", "返金依頼", "返金してください", now.Add(-24*time.Hour)),
			}, nil
		},
	}
}

type upgradeResult struct {
	sessionID string
	applied   int
}

func watchUpgrade(uc *LoadCustomerHistoryUseCase) <-chan upgradeResult {
	done := make(chan upgradeResult, 1)
	uc.onUpgradeDone = func(sessionID string, applied int) {
		done <- upgradeResult{sessionID: sessionID, applied: applied}
	}
	return done
}

func waitUpgrade(t *testing.T, done <-chan upgradeResult) upgradeResult {
	t.Helper()
	select {
	case r := <-done:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("background risk upgrade did not finish")
		return upgradeResult{}
	}
}

func TestLoadCustomerHistory_Validation(t *testing.T) {
	uc := NewLoadCustomerHistoryUseCase(&mockGateway{}, newInsight(), nil, nil, 0, fixedNow, nopLogger())

	tests := []struct {
		name string
		cmd  LoadCustomerHistoryCommand
	}{
		{"missing session", LoadCustomerHistoryCommand{Email: "a@example.com"}},
		{"missing email", LoadCustomerHistoryCommand{Session: newSession(t), Email: "  "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.cmd)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidationError(err))
		})
	}
}

func TestLoadCustomerHistory_KeywordScoringAndCache(t *testing.T) {
	gw := historyGateway(t)
	renderer := &recordingRenderer{}
	uc := NewLoadCustomerHistoryUseCase(gw, newInsight(), nil, renderer, 0, fixedNow, nopLogger())
	sess := newSession(t)

	got, err := uc.Execute(context.Background(), LoadCustomerHistoryCommand{
		Session:         sess,
		Email:           "Cust@Example.com",
		CurrentTicketID: "cur",
	})
	require.NoError(t, err)

	require.Len(t, got.Tickets, 2)
	assert.Equal(t, "a", got.Tickets[0].ID)
	assert.Equal(t, "b", got.Tickets[1].ID)
	assert.Equal(t, 30, got.Tickets[0].Risk.Score)
	assert.Equal(t, "warn", got.Tickets[0].Risk.Level)
	assert.Equal(t, "keyword", got.Tickets[0].Risk.Source)
	assert.Equal(t, 60, got.Tickets[1].Risk.Score)

	assert.Equal(t, 45, got.Customer.Score)
	assert.Equal(t, "caution", got.Customer.Level)
	assert.Equal(t, "過去2件 / 直近90日クレーム1件 / 平均リスク45点", got.Customer.Details)
	assert.False(t, got.UpgradePending)

	assert.Len(t, renderer.Customers(), 1)
	assert.Len(t, renderer.Lists(), 1)

	again, err := uc.Execute(context.Background(), LoadCustomerHistoryCommand{Session: sess, Email: "cust@example.com"})
	require.NoError(t, err)
	assert.Equal(t, got.Customer, again.Customer)
	assert.Equal(t, 1, gw.RequesterHits())
}

func TestLoadCustomerHistory_EmptyHistory(t *testing.T) {
	uc := NewLoadCustomerHistoryUseCase(&mockGateway{}, newInsight(), &mockModel{}, nil, 0, fixedNow, nopLogger())

	got, err := uc.Execute(context.Background(), LoadCustomerHistoryCommand{Session: newSession(t), Email: "a@example.com"})
	require.NoError(t, err)

	assert.Empty(t, got.Tickets)
	assert.Equal(t, 0, got.Customer.Score)
	assert.Equal(t, "normal", got.Customer.Level)
	assert.Equal(t, "過去の問い合わせ履歴がありません", got.Customer.Details)
	assert.False(t, got.UpgradePending)
}

func TestLoadCustomerHistory_GatewayFailure(t *testing.T) {
	gw := &mockGateway{
		FetchTicketsByRequesterFunc: func(ctx context.Context, email string) ([]*ticket.Ticket, error) {
			return nil, errors.New("search unavailable")
		},
	}
	renderer := &recordingRenderer{}
	uc := NewLoadCustomerHistoryUseCase(gw, newInsight(), nil, renderer, 0, fixedNow, nopLogger())
	sess := newSession(t)

	_, err := uc.Execute(context.Background(), LoadCustomerHistoryCommand{Session: sess, Email: "a@example.com"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "search unavailable")
	assert.Empty(t, renderer.Customers())
	_, cached := sess.History("a@example.com")
	assert.False(t, cached)
}

func TestLoadCustomerHistory_ModelUpgrade(t *testing.T) {
	model := &mockModel{
		CompleteFunc: func(ctx context.Context, prompt string, maxTokens int) (string, error) {
			return "結果:\n[{\"id\": \"a\", \"level\": \"danger\", \"score\": 80, \"summary\": \"強い抗議\"}]", nil
		},
	}
	renderer := &recordingRenderer{}
	uc := NewLoadCustomerHistoryUseCase(historyGateway(t), newInsight(), model, renderer, 500, fixedNow, nopLogger())
	done := watchUpgrade(uc)
	sess := newSession(t)

	got, err := uc.Execute(context.Background(), LoadCustomerHistoryCommand{Session: sess, Email: "a@example.com", CurrentTicketID: "cur"})
	require.NoError(t, err)
	assert.True(t, got.UpgradePending)
	assert.Equal(t, 30, got.Tickets[0].Risk.Score)

	res := waitUpgrade(t, done)
	assert.Equal(t, sess.ID(), res.sessionID)
	assert.Equal(t, 1, res.applied)

	prompts := model.Prompts()
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "[a] ")
	assert.Contains(t, prompts[0], "[b] ")
	assert.NotContains(t, prompts[0], "[cur] ")

	customers := renderer.Customers()
	require.Len(t, customers, 2)
	assert.Equal(t, 90, customers[1].Score)
	assert.Equal(t, "danger", customers[1].Level)

	lists := renderer.Lists()
	require.Len(t, lists, 2)
	assert.Equal(t, "model", lists[1][0].Risk.Source)
	assert.Equal(t, "強い抗議", lists[1][0].Risk.Reason)
	assert.Equal(t, "keyword", lists[1][1].Risk.Source)

	cached, ok := sess.FindTicket("a")
	require.True(t, ok)
	assert.Equal(t, vo.SourceModel, cached.RiskAnalysis().Source)
	assert.Equal(t, "強い抗議", cached.AISummary())
}

func TestLoadCustomerHistory_ModelFailuresKeepKeywordScores(t *testing.T) {
	tests := []struct {
		name     string
		complete func(ctx context.Context, prompt string, maxTokens int) (string, error)
	}{
		{"call fails", func(context.Context, string, int) (string, error) {
			return "", errors.New("ThrottlingException")
		}},
		{"not json", func(context.Context, string, int) (string, error) {
			return "申し訳ありませんが判定できません", nil
		}},
		{"one invalid element rejects the batch", func(context.Context, string, int) (string, error) {
			return `[{"id":"a","level":"danger","score":90},{"id":"b","level":"furious","score":90}]`, nil
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			renderer := &recordingRenderer{}
			uc := NewLoadCustomerHistoryUseCase(historyGateway(t), newInsight(), &mockModel{CompleteFunc: tt.complete}, renderer, 0, fixedNow, nopLogger())
			done := watchUpgrade(uc)
			sess := newSession(t)

			_, err := uc.Execute(context.Background(), LoadCustomerHistoryCommand{Session: sess, Email: "a@example.com", CurrentTicketID: "cur"})
			require.NoError(t, err)

			assert.Equal(t, 0, waitUpgrade(t, done).applied)
			assert.Len(t, renderer.Customers(), 1)
			cached, ok := sess.FindTicket("a")
			require.True(t, ok)
			assert.Equal(t, vo.SourceKeyword, cached.RiskAnalysis().Source)
		})
	}
}

func TestLoadCustomerHistory_TeardownDuringUpgrade(t *testing.T) {
	registry := newRegistry()
	sess, err := registry.Create("ja")
	require.NoError(t, err)

	model := &mockModel{
		CompleteFunc: func(ctx context.Context, prompt string, maxTokens int) (string, error) {
			registry.Remove(sess.ID())
			return `[{"id":"a","level":"danger","score":80}]`, nil
		},
	}
	renderer := &recordingRenderer{}
	uc := NewLoadCustomerHistoryUseCase(historyGateway(t), newInsight(), model, renderer, 0, fixedNow, nopLogger())
	done := watchUpgrade(uc)

	_, err = uc.Execute(context.Background(), LoadCustomerHistoryCommand{Session: sess, Email: "a@example.com"})
	require.NoError(t, err)

	assert.Equal(t, 0, waitUpgrade(t, done).applied)
	assert.Len(t, renderer.Customers(), 1)
}
