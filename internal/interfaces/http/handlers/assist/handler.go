// Package assist provides the HTTP handlers behind the support-desk widget.
package assist

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ymjiot-spec/zendesk-yoyaku/internal/application/assist/dto"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/errors"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/id"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/logger"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/utils"
)

// Service is the widget facade consumed by the handlers.
type Service interface {
	Init(locale string) (*dto.SessionView, error)
	Teardown(sessionID string) error
	LoadCustomerHistory(ctx context.Context, sessionID, email, currentTicketID string) (*dto.HistoryView, error)
	SummarizeCurrentTicket(ctx context.Context, sessionID, ticketID string) (*dto.SummaryView, error)
	SummarizeSelectedTicket(ctx context.Context, sessionID, ticketID string) (*dto.SummaryView, error)
	SelectTicket(sessionID, ticketID string) error
	AddNote(sessionID, text string) (*dto.NoteView, error)
	ListNotes(sessionID string) ([]dto.NoteView, error)
}

type Handler struct {
	service Service
	logger  logger.Interface
}

func NewHandler(service Service, log logger.Interface) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// CreateSession starts a widget session
// @Summary Start widget session
// @Description Creates a server-side session for one open widget
// @Tags Assist
// @Accept json
// @Produce json
// @Param request body CreateSessionRequest false "Session options"
// @Success 201 {object} utils.APIResponse{data=dto.SessionView}
// @Failure 400 {object} utils.APIResponse
// @Router /api/v1/sessions [post]
func (h *Handler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.logger.Warnw("invalid request body for create session", "error", err)
			utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
			return
		}
	}

	result, err := h.service.Init(req.Locale)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Session started")
}

// DeleteSession ends a widget session
// @Summary End widget session
// @Description Drops the session cache, selection and notes and closes its sockets
// @Tags Assist
// @Produce json
// @Param sid path string true "Session ID"
// @Success 204
// @Failure 404 {object} utils.APIResponse
// @Router /api/v1/sessions/{sid} [delete]
func (h *Handler) DeleteSession(c *gin.Context) {
	sid, err := parseSessionID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.service.Teardown(sid); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// LoadHistory loads and scores the requester's past tickets
// @Summary Load customer history
// @Description Fetches the requester's other tickets, scores them and renders the customer risk panel
// @Tags Assist
// @Accept json
// @Produce json
// @Param sid path string true "Session ID"
// @Param request body LoadHistoryRequest true "Requester"
// @Success 200 {object} utils.APIResponse{data=dto.HistoryView}
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Router /api/v1/sessions/{sid}/history [post]
func (h *Handler) LoadHistory(c *gin.Context) {
	sid, err := parseSessionID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req LoadHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for load history", "session_id", sid, "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	result, err := h.service.LoadCustomerHistory(c.Request.Context(), sid, req.Email, req.CurrentTicketID)
	if err != nil {
		h.logger.Errorw("failed to load customer history",
			"session_id", sid,
			"email", utils.MaskEmail(req.Email),
			"error", err,
		)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// SelectTicket sets or clears the selected history ticket
// @Summary Select history ticket
// @Tags Assist
// @Accept json
// @Produce json
// @Param sid path string true "Session ID"
// @Param request body SelectTicketRequest true "Ticket to select, empty to clear"
// @Success 204
// @Failure 404 {object} utils.APIResponse
// @Router /api/v1/sessions/{sid}/selection [put]
func (h *Handler) SelectTicket(c *gin.Context) {
	sid, err := parseSessionID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req SelectTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	if err := h.service.SelectTicket(sid, req.TicketID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// SummarizeCurrent summarizes the ticket open in the host
// @Summary Summarize current ticket
// @Tags Assist
// @Accept json
// @Produce json
// @Param sid path string true "Session ID"
// @Param request body SummarizeCurrentRequest true "Current ticket"
// @Success 200 {object} utils.APIResponse{data=dto.SummaryView}
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/v1/sessions/{sid}/summaries/current [post]
func (h *Handler) SummarizeCurrent(c *gin.Context) {
	sid, err := parseSessionID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req SummarizeCurrentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("ticket_id is required", err.Error()))
		return
	}

	result, err := h.service.SummarizeCurrentTicket(c.Request.Context(), sid, req.TicketID)
	if err != nil {
		h.logger.Errorw("failed to summarize current ticket", "session_id", sid, "ticket_id", req.TicketID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// SummarizeSelected summarizes a ticket from the loaded history
// @Summary Summarize selected ticket
// @Description Uses the session selection when ticket_id is omitted
// @Tags Assist
// @Accept json
// @Produce json
// @Param sid path string true "Session ID"
// @Param request body SummarizeSelectedRequest false "History ticket"
// @Success 200 {object} utils.APIResponse{data=dto.SummaryView}
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/v1/sessions/{sid}/summaries/selected [post]
func (h *Handler) SummarizeSelected(c *gin.Context) {
	sid, err := parseSessionID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req SummarizeSelectedRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
			return
		}
	}

	result, err := h.service.SummarizeSelectedTicket(c.Request.Context(), sid, req.TicketID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// AddNote stores a session-only agent note
// @Summary Add agent note
// @Tags Assist
// @Accept json
// @Produce json
// @Param sid path string true "Session ID"
// @Param request body AddNoteRequest true "Note"
// @Success 201 {object} utils.APIResponse{data=dto.NoteView}
// @Failure 400 {object} utils.APIResponse
// @Router /api/v1/sessions/{sid}/notes [post]
func (h *Handler) AddNote(c *gin.Context) {
	sid, err := parseSessionID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req AddNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	result, err := h.service.AddNote(sid, req.Text)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result)
}

// ListNotes returns the session's agent notes, newest first
// @Summary List agent notes
// @Tags Assist
// @Produce json
// @Param sid path string true "Session ID"
// @Success 200 {object} utils.APIResponse{data=[]dto.NoteView}
// @Failure 404 {object} utils.APIResponse
// @Router /api/v1/sessions/{sid}/notes [get]
func (h *Handler) ListNotes(c *gin.Context) {
	sid, err := parseSessionID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.ListNotes(sid)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func parseSessionID(c *gin.Context) (string, error) {
	return utils.ParseSIDParam(c, "sid", id.PrefixSession, "session")
}
