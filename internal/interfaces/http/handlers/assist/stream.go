package assist

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/ymjiot-spec/zendesk-yoyaku/internal/application/assist/session"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/infrastructure/services"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/logger"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/utils"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

// SessionLookup resolves a live session.
type SessionLookup interface {
	Session(sessionID string) (*session.Session, error)
}

// ConnRegistry tracks widget sockets per session.
type ConnRegistry interface {
	Register(sessionID string) *services.RenderConn
	Unregister(conn *services.RenderConn)
}

// StreamHandler upgrades widget connections and relays render messages to them.
type StreamHandler struct {
	sessions SessionLookup
	hub      ConnRegistry
	upgrader websocket.Upgrader
	logger   logger.Interface
}

func NewStreamHandler(sessions SessionLookup, hub ConnRegistry, allowedOrigins []string, log logger.Interface) *StreamHandler {
	return &StreamHandler{
		sessions: sessions,
		hub:      hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: log,
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
		}
		return false
	}
}

// Stream handles GET /api/v1/sessions/:sid/ws
// @Summary Widget render stream
// @Description Websocket carrying {type, session_id, timestamp, data} render messages for background re-renders
// @Tags Assist
// @Param sid path string true "Session ID"
// @Success 101
// @Failure 404 {object} utils.APIResponse
// @Router /api/v1/sessions/{sid}/ws [get]
func (h *StreamHandler) Stream(c *gin.Context) {
	sid, err := parseSessionID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	if _, err := h.sessions.Session(sid); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Errorw("failed to upgrade to websocket",
			"error", err,
			"session_id", sid,
			"ip", c.ClientIP(),
		)
		return
	}

	renderConn := h.hub.Register(sid)

	go h.writePump(conn, renderConn)
	h.readPump(conn, renderConn)
}

// readPump only services control frames; the widget never sends data.
func (h *StreamHandler) readPump(conn *websocket.Conn, rc *services.RenderConn) {
	defer func() {
		h.hub.Unregister(rc)
		conn.Close()
	}()

	conn.SetReadLimit(4096)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				h.logger.Warnw("widget websocket read error",
					"error", err,
					"session_id", rc.SessionID,
				)
			}
			return
		}
	}
}

func (h *StreamHandler) writePump(conn *websocket.Conn, rc *services.RenderConn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case payload, ok := <-rc.Send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"))
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				h.logger.Warnw("failed to write render message", "error", err, "session_id", rc.SessionID)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
