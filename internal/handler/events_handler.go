package handler

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"adlens/internal/auth"
	"adlens/internal/progress"
	"adlens/internal/service"
)

const (
	pingInterval = 25 * time.Second
	writeTimeout = 5 * time.Second
	readTimeout  = 60 * time.Second
)

// EventsHandler streams progress of one analysis over a websocket.
type EventsHandler struct {
	svc      service.AnalysisService
	hub      *progress.Hub
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewEventsHandler creates a new events handler. allowedOrigin empty accepts any origin.
func NewEventsHandler(svc service.AnalysisService, hub *progress.Hub, allowedOrigin string, logger zerolog.Logger) *EventsHandler {
	return &EventsHandler{
		svc: svc,
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" {
					return true
				}
				origin := r.Header.Get("Origin")
				return origin == "" || origin == allowedOrigin
			},
		},
		logger: logger,
	}
}

// wsConn serializes writes to one connection.
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (w *wsConn) writeJSON(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return w.conn.WriteJSON(v)
}

func (w *wsConn) writeControl(messageType int, data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteControl(messageType, data, time.Now().Add(writeTimeout))
}

// Stream godoc
// @Summary Stream analysis progress
// @Description Websocket. Sends the current record, then one {type, analysis} event per change. Closes once the analysis finishes or fails. The token may be passed as ?token=.
// @Tags analyses
// @Security BearerAuth
// @Param id path int true "Analysis ID"
// @Param token query string false "Access token"
// @Success 101
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /analyses/{id}/events [get]
func (h *EventsHandler) Stream(c echo.Context) error {
	id, herr := parseID(c.Param("id"))
	if herr != nil {
		return herr
	}
	user := auth.CurrentUser(c)

	events, unsubscribe := h.hub.Subscribe(id)
	defer unsubscribe()

	current, err := h.svc.Get(c.Request().Context(), user, id)
	if err != nil {
		return httpError(err)
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn().Err(err).Uint("analysis_id", id).Msg("Websocket upgrade failed")
		return nil
	}
	ws := &wsConn{conn: conn}
	defer conn.Close()

	log := h.logger.With().Uint("analysis_id", id).Str("user_id", user.ID).Logger()
	log.Debug().Msg("Progress subscriber connected")

	if err := ws.writeJSON(progress.Event{Type: progress.EventProgress, Analysis: current}); err != nil {
		return nil
	}
	if current.Status.Terminal() {
		h.closeNormal(ws)
		return nil
	}

	closed := make(chan struct{})
	go readPump(conn, closed)

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			log.Debug().Msg("Progress subscriber disconnected")
			return nil
		case <-ticker.C:
			if err := ws.writeControl(websocket.PingMessage, nil); err != nil {
				return nil
			}
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := ws.writeJSON(ev); err != nil {
				log.Debug().Err(err).Msg("Progress write failed")
				return nil
			}
			if ev.Type == progress.EventDeleted || ev.Analysis.Status.Terminal() {
				h.closeNormal(ws)
				return nil
			}
		}
	}
}

func (h *EventsHandler) closeNormal(ws *wsConn) {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done")
	_ = ws.writeControl(websocket.CloseMessage, msg)
}

// readPump discards client messages and signals closed when the client goes away.
func readPump(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)
	conn.SetReadLimit(4096)
	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readTimeout))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	}
}
