package handlers

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"boardroom/internal/engine"
	"boardroom/internal/logger"
	"boardroom/internal/ws"
)

// LiveView handles GET /ws?roomId=: a WebSocket mirror of the SSE stream
// for clients that prefer a socket. Send-only; actions stay on HTTP.
func (h *Handler) LiveView(c *gin.Context) {
	roomID := roomOrDefault(c.Query("roomId"))

	allowedOrigin := os.Getenv("ALLOWED_ORIGIN")
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if allowedOrigin == "" {
				return true
			}
			return r.Header.Get("Origin") == allowedOrigin
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("ws upgrade failed", "room", roomID, "error", err)
		return
	}

	client := ws.NewClient(roomID, conn)
	events, cancel := h.Svc.Hub().Subscribe(roomID)

	go func() {
		defer cancel()
		snapshot := engine.Event{Type: "state", State: h.Svc.Snapshot(c.Request.Context(), roomID)}
		if data, err := json.Marshal(snapshot); err == nil {
			client.Send <- data
		}
		for {
			select {
			case ev := <-events:
				data, err := json.Marshal(ev)
				if err != nil {
					continue
				}
				select {
				case client.Send <- data:
				default:
					logger.Debug("dropping ws event for slow viewer", "room", roomID)
				}
			case <-client.Done:
				return
			}
		}
	}()

	go client.Run()
}
