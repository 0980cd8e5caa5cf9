package services

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/ymjiot-spec/zendesk-yoyaku/internal/application/assist/dto"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/biztime"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/logger"
)

// RenderMessageType names the panel a render message updates.
type RenderMessageType string

const (
	RenderCustomerRisk RenderMessageType = "customer_risk"
	RenderTicketList   RenderMessageType = "ticket_list"
	RenderSummary      RenderMessageType = "summary"
)

const defaultSendBuffer = 16

// RenderMessage is one push to the widget.
type RenderMessage struct {
	Type      RenderMessageType `json:"type"`
	SessionID string            `json:"session_id"`
	Timestamp int64             `json:"timestamp"`
	Data      any               `json:"data"`
}

// RenderConn is one connected widget socket.
type RenderConn struct {
	ID          string
	SessionID   string
	Send        chan []byte
	ConnectedAt time.Time
	closed      atomic.Bool
}

// TrySend queues data without blocking. It returns false when the connection is closed
// or its buffer is full.
func (c *RenderConn) TrySend(data []byte) (sent bool) {
	if c.closed.Load() {
		return false
	}

	defer func() {
		if r := recover(); r != nil {
			sent = false
		}
	}()

	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}

// Close marks the connection closed and closes Send. Safe to call more than once.
func (c *RenderConn) Close() {
	if c.closed.CompareAndSwap(false, true) {
		close(c.Send)
	}
}

func (c *RenderConn) Closed() bool {
	return c.closed.Load()
}

// RenderHub fans render messages out to the widget sockets of each session.
// It implements the assist Renderer and SessionCloser ports.
type RenderHub struct {
	// sessions: map[sessionID]map[connID]*RenderConn
	sessions   map[string]map[string]*RenderConn
	sessionsMu sync.RWMutex

	sendBuffer int
	shutdown   atomic.Bool
	dropped    atomic.Int64

	logger logger.Interface
}

func NewRenderHub(log logger.Interface) *RenderHub {
	return &RenderHub{
		sessions:   make(map[string]map[string]*RenderConn),
		sendBuffer: defaultSendBuffer,
		logger:     log,
	}
}

// Register adds a widget connection for sessionID. The caller drains conn.Send.
func (h *RenderHub) Register(sessionID string) *RenderConn {
	conn := &RenderConn{
		ID:          uuid.NewString(),
		SessionID:   sessionID,
		Send:        make(chan []byte, h.sendBuffer),
		ConnectedAt: biztime.NowUTC(),
	}
	if h.shutdown.Load() {
		conn.Close()
		return conn
	}

	h.sessionsMu.Lock()
	conns, ok := h.sessions[sessionID]
	if !ok {
		conns = make(map[string]*RenderConn)
		h.sessions[sessionID] = conns
	}
	conns[conn.ID] = conn
	count := len(conns)
	h.sessionsMu.Unlock()

	h.logger.Infow("widget connected", "session_id", sessionID, "conn_id", conn.ID, "session_conns", count)
	return conn
}

// Unregister removes and closes one connection.
func (h *RenderHub) Unregister(conn *RenderConn) {
	h.sessionsMu.Lock()
	if conns, ok := h.sessions[conn.SessionID]; ok {
		delete(conns, conn.ID)
		if len(conns) == 0 {
			delete(h.sessions, conn.SessionID)
		}
	}
	h.sessionsMu.Unlock()

	conn.Close()
	h.logger.Infow("widget disconnected", "session_id", conn.SessionID, "conn_id", conn.ID)
}

// CloseSession closes every connection of sessionID.
func (h *RenderHub) CloseSession(sessionID string) {
	h.sessionsMu.Lock()
	conns := h.sessions[sessionID]
	delete(h.sessions, sessionID)
	h.sessionsMu.Unlock()

	for _, conn := range conns {
		conn.Close()
	}
	if len(conns) > 0 {
		h.logger.Infow("widget session closed", "session_id", sessionID, "closed_conns", len(conns))
	}
}

func (h *RenderHub) RenderCustomerRisk(sessionID string, view dto.CustomerRiskView) {
	h.broadcast(sessionID, RenderCustomerRisk, view)
}

func (h *RenderHub) RenderTicketList(sessionID string, views []dto.TicketView) {
	h.broadcast(sessionID, RenderTicketList, views)
}

func (h *RenderHub) RenderSummary(sessionID string, view dto.SummaryView) {
	h.broadcast(sessionID, RenderSummary, view)
}

func (h *RenderHub) broadcast(sessionID string, msgType RenderMessageType, data any) {
	if h.shutdown.Load() {
		return
	}

	h.sessionsMu.RLock()
	conns := make([]*RenderConn, 0, len(h.sessions[sessionID]))
	for _, conn := range h.sessions[sessionID] {
		conns = append(conns, conn)
	}
	h.sessionsMu.RUnlock()

	if len(conns) == 0 {
		return
	}

	payload, err := json.Marshal(RenderMessage{
		Type:      msgType,
		SessionID: sessionID,
		Timestamp: biztime.NowUTC().Unix(),
		Data:      data,
	})
	if err != nil {
		h.logger.Errorw("failed to marshal render message", "type", msgType, "error", err)
		return
	}

	for _, conn := range conns {
		if !conn.TrySend(payload) {
			h.dropped.Add(1)
			h.logger.Warnw("render message dropped", "session_id", sessionID, "conn_id", conn.ID, "type", msgType)
		}
	}
}

// ConnCount returns the number of live connections for sessionID.
func (h *RenderHub) ConnCount(sessionID string) int {
	h.sessionsMu.RLock()
	defer h.sessionsMu.RUnlock()
	return len(h.sessions[sessionID])
}

// Dropped returns how many messages were discarded because a buffer was full.
func (h *RenderHub) Dropped() int64 {
	return h.dropped.Load()
}

// Shutdown closes every connection. Safe to call multiple times.
func (h *RenderHub) Shutdown() {
	if !h.shutdown.CompareAndSwap(false, true) {
		return
	}

	h.sessionsMu.Lock()
	all := h.sessions
	h.sessions = make(map[string]map[string]*RenderConn)
	h.sessionsMu.Unlock()

	total := 0
	for _, conns := range all {
		for _, conn := range conns {
			conn.Close()
			total++
		}
	}
	h.logger.Infow("render hub shut down", "closed_conns", total)
}
