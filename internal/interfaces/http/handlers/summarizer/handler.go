// Package summarizer serves the companion history summary endpoint. It keeps the
// standalone function's wire shape instead of the APIResponse envelope.
package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ymjiot-spec/zendesk-yoyaku/internal/application/historysummary/usecases"
	apperrors "github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/errors"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/logger"
)

const (
	maxBodyBytes = 1 << 20

	errInvalidBody    = "Invalid request body"
	errInvalidTickets = "Invalid tickets data"
	errInternal       = "Internal server error"
)

type SummarizeHistoryExecutor interface {
	Execute(ctx context.Context, cmd usecases.SummarizeHistoryCommand) (*usecases.SummarizeHistoryResult, error)
}

// SummarizeResponse is the 200 body.
type SummarizeResponse struct {
	Summary     string `json:"summary"`
	SummaryHTML string `json:"summary_html,omitempty"`
}

// ErrorResponse is the body of every failure.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type Handler struct {
	summarizeUC SummarizeHistoryExecutor
	logger      logger.Interface
}

func NewHandler(summarizeUC SummarizeHistoryExecutor, log logger.Interface) *Handler {
	return &Handler{
		summarizeUC: summarizeUC,
		logger:      log,
	}
}

// Summarize generates a natural-language summary of past tickets
// @Summary Summarize ticket history
// @Description Builds a three-part Japanese summary (history, caution points, handling hints) with the language model
// @Tags Summarizer
// @Accept json
// @Produce json
// @Param request body object true "{tickets:[{subject, created_at, status, description}]}"
// @Success 200 {object} SummarizeResponse
// @Failure 400 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Failure 504 {object} ErrorResponse
// @Router /summarize [post]
func (h *Handler) Summarize(c *gin.Context) {
	start := time.Now()
	ticketCount := -1

	respondError := func(status int, body ErrorResponse) {
		h.logAccess(c, status, start, ticketCount, body.Error)
		c.JSON(status, body)
	}

	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		respondError(http.StatusBadRequest, ErrorResponse{Error: errInvalidBody, Message: "リクエストボディの形式が不正です"})
		return
	}

	tickets, errName := decodeTickets(raw)
	switch errName {
	case errInvalidBody:
		h.logger.Warnw("failed to parse summarize request body")
		respondError(http.StatusBadRequest, ErrorResponse{Error: errInvalidBody, Message: "リクエストボディの形式が不正です"})
		return
	case errInvalidTickets:
		h.logger.Warnw("invalid tickets data in summarize request")
		respondError(http.StatusBadRequest, ErrorResponse{Error: errInvalidTickets, Message: "チケット情報が不正です"})
		return
	}
	ticketCount = len(tickets)

	result, err := h.summarizeUC.Execute(c.Request.Context(), usecases.SummarizeHistoryCommand{Tickets: tickets})
	if err != nil {
		if appErr := apperrors.GetAppError(err); appErr != nil && appErr.Type == apperrors.ErrorTypeUpstream {
			respondError(appErr.Code, ErrorResponse{Error: appErr.Upstream, Message: appErr.Message, Details: appErr.Details})
			return
		}
		h.logger.Errorw("failed to summarize history", "error", err)
		respondError(http.StatusInternalServerError, ErrorResponse{
			Error:   errInternal,
			Message: usecases.GenericFailureMessage,
			Details: err.Error(),
		})
		return
	}

	h.logAccess(c, http.StatusOK, start, ticketCount, "")
	c.JSON(http.StatusOK, SummarizeResponse{Summary: result.Summary, SummaryHTML: result.SummaryHTML})
}

// decodeTickets parses {tickets:[...]}. It returns errInvalidBody for malformed JSON and
// errInvalidTickets when tickets is missing, not an array, or holds non-objects.
func decodeTickets(raw []byte) ([]usecases.TicketInput, string) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, errInvalidTickets
	}

	var body any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, errInvalidBody
	}

	obj, ok := body.(map[string]any)
	if !ok {
		return nil, errInvalidTickets
	}
	list, ok := obj["tickets"].([]any)
	if !ok {
		return nil, errInvalidTickets
	}

	tickets := make([]usecases.TicketInput, 0, len(list))
	for _, item := range list {
		fields, ok := item.(map[string]any)
		if !ok {
			return nil, errInvalidTickets
		}
		tickets = append(tickets, usecases.TicketInput{
			Subject:     fieldText(fields["subject"]),
			CreatedAt:   fieldText(fields["created_at"]),
			Status:      fieldText(fields["status"]),
			Description: fieldText(fields["description"]),
		})
	}
	return tickets, ""
}

func fieldText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

func (h *Handler) logAccess(c *gin.Context, status int, start time.Time, ticketCount int, errName string) {
	args := []any{
		"endpoint", c.Request.URL.Path,
		"status", status,
		"http_method", c.Request.Method,
		"duration_ms", time.Since(start).Milliseconds(),
	}
	if ticketCount >= 0 {
		args = append(args, "ticket_count", ticketCount)
	}
	if errName != "" {
		args = append(args, "error", errName)
	}
	h.logger.Infow("access", args...)
}
