// Package assist is the entry point for the support widget: session lifecycle plus the
// summarize and customer-history pipelines.
package assist

import (
	"context"
	"strings"
	"time"

	"github.com/ymjiot-spec/zendesk-yoyaku/internal/application/assist/dto"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/application/assist/session"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/application/assist/usecases"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/ticket"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/errors"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/goroutine"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/logger"
)

// MaxNoteLength bounds a single agent note.
const MaxNoteLength = 2000

// SessionCloser is notified when a session ends so that connected widgets can be released.
type SessionCloser interface {
	CloseSession(sessionID string)
}

type Options struct {
	MaxTokens int
	// DefaultLocale applies when the widget does not send one.
	DefaultLocale string
	IdleTimeout   time.Duration
	Now           func() time.Time
}

type Service struct {
	logger   logger.Interface
	registry *session.Registry
	closer   SessionCloser
	locale   string
	idle     time.Duration
	now      func() time.Time

	loadCustomerHistory     *usecases.LoadCustomerHistoryUseCase
	summarizeCurrentTicket  *usecases.SummarizeCurrentTicketUseCase
	summarizeSelectedTicket *usecases.SummarizeSelectedTicketUseCase
}

// NewService wires the pipelines. model may be nil, in which case only the heuristic paths run.
func NewService(
	gateway ticket.Gateway,
	insight *usecases.Insight,
	model usecases.LanguageModel,
	renderer usecases.Renderer,
	closer SessionCloser,
	opts Options,
	logger logger.Interface,
) *Service {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		logger:   logger,
		registry: session.NewRegistry(now),
		closer:   closer,
		locale:   opts.DefaultLocale,
		idle:     opts.IdleTimeout,
		now:      now,

		loadCustomerHistory:     usecases.NewLoadCustomerHistoryUseCase(gateway, insight, model, renderer, opts.MaxTokens, now, logger),
		summarizeCurrentTicket:  usecases.NewSummarizeCurrentTicketUseCase(gateway, insight, model, renderer, opts.MaxTokens, logger),
		summarizeSelectedTicket: usecases.NewSummarizeSelectedTicketUseCase(gateway, insight, model, renderer, opts.MaxTokens, logger),
	}
}

// Init starts a widget session.
func (s *Service) Init(locale string) (*dto.SessionView, error) {
	if strings.TrimSpace(locale) == "" {
		locale = s.locale
	}
	sess, err := s.registry.Create(locale)
	if err != nil {
		s.logger.Errorw("failed to create session", "error", err)
		return nil, err
	}
	s.logger.Infow("session started", "session_id", sess.ID(), "locale", sess.Localizer().Locale())
	return &dto.SessionView{SessionID: sess.ID(), Locale: sess.Localizer().Locale()}, nil
}

// Teardown ends a session, dropping its cache, selection and notes.
func (s *Service) Teardown(sessionID string) error {
	if !s.registry.Remove(sessionID) {
		return errors.NewNotFoundError("session not found", sessionID)
	}
	if s.closer != nil {
		s.closer.CloseSession(sessionID)
	}
	s.logger.Infow("session ended", "session_id", sessionID)
	return nil
}

// Session returns a live session and marks it active.
func (s *Service) Session(sessionID string) (*session.Session, error) {
	return s.registry.Get(sessionID)
}

func (s *Service) LoadCustomerHistory(ctx context.Context, sessionID, email, currentTicketID string) (*dto.HistoryView, error) {
	sess, err := s.registry.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return s.loadCustomerHistory.Execute(ctx, usecases.LoadCustomerHistoryCommand{
		Session:         sess,
		Email:           email,
		CurrentTicketID: currentTicketID,
	})
}

func (s *Service) SummarizeCurrentTicket(ctx context.Context, sessionID, ticketID string) (*dto.SummaryView, error) {
	sess, err := s.registry.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return s.summarizeCurrentTicket.Execute(ctx, usecases.SummarizeCurrentTicketCommand{
		Session:  sess,
		TicketID: ticketID,
	})
}

func (s *Service) SummarizeSelectedTicket(ctx context.Context, sessionID, ticketID string) (*dto.SummaryView, error) {
	sess, err := s.registry.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return s.summarizeSelectedTicket.Execute(ctx, usecases.SummarizeSelectedTicketCommand{
		Session:  sess,
		TicketID: ticketID,
	})
}

// SelectTicket marks a history ticket as selected. An empty id clears the selection.
func (s *Service) SelectTicket(sessionID, ticketID string) error {
	sess, err := s.registry.Get(sessionID)
	if err != nil {
		return err
	}
	ticketID = strings.TrimSpace(ticketID)
	if ticketID != "" {
		if _, ok := sess.FindTicket(ticketID); !ok {
			return errors.NewNotFoundError("ticket not found in customer history", ticketID)
		}
	}
	sess.Select(ticketID)
	return nil
}

// AddNote stores an agent note for the life of the session.
func (s *Service) AddNote(sessionID, text string) (*dto.NoteView, error) {
	sess, err := s.registry.Get(sessionID)
	if err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.NewValidationError("note text is required")
	}
	if len([]rune(text)) > MaxNoteLength {
		return nil, errors.NewValidationError("note is too long")
	}
	n := sess.AddNote(text, s.now())
	view := dto.ToNoteView(n.Text, n.CreatedAt)
	return &view, nil
}

// ListNotes returns the session's notes newest first.
func (s *Service) ListNotes(sessionID string) ([]dto.NoteView, error) {
	sess, err := s.registry.Get(sessionID)
	if err != nil {
		return nil, err
	}
	notes := sess.Notes()
	views := make([]dto.NoteView, 0, len(notes))
	for _, n := range notes {
		views = append(views, dto.ToNoteView(n.Text, n.CreatedAt))
	}
	return views, nil
}

// SweepIdle ends sessions that have been idle longer than the configured timeout.
func (s *Service) SweepIdle() int {
	if s.idle <= 0 {
		return 0
	}
	removed := s.registry.Sweep(s.idle)
	for _, sid := range removed {
		if s.closer != nil {
			s.closer.CloseSession(sid)
		}
	}
	if len(removed) > 0 {
		s.logger.Infow("idle sessions ended", "count", len(removed))
	}
	return len(removed)
}

// StartSweeper runs SweepIdle every interval until ctx is done.
func (s *Service) StartSweeper(ctx context.Context, interval time.Duration) {
	if s.idle <= 0 || interval <= 0 {
		return
	}
	goroutine.SafeGo(s.logger, "session-sweeper", func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.SweepIdle()
			}
		}
	})
}

// ActiveSessions reports the number of live sessions.
func (s *Service) ActiveSessions() int {
	return s.registry.Len()
}
