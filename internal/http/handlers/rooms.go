package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"boardroom/internal/domain"
	"boardroom/internal/engine"
	"boardroom/internal/logger"
	"boardroom/internal/store"
)

type initRoomRequest struct {
	RoomID    string              `json:"roomId"`
	SetupID   string              `json:"setupId"`
	Resources []domain.Resource   `json:"resources"`
	Board     []domain.BoardSpace `json:"board"`
	Players   []initPlayerRequest `json:"players"`
	Mode      domain.GameMode     `json:"mode"`
}

type initPlayerRequest struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Workers int    `json:"workers"`
}

// InitRoom handles POST /rooms/init: replaces the room's state wholesale
// with a fresh game, either from an inline board or a saved setup template.
func (h *Handler) InitRoom(c *gin.Context) {
	var req initRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "code": "INVALID_PAYLOAD", "message": err.Error()})
		return
	}

	resources, board := req.Resources, req.Board
	if req.SetupID != "" {
		rec, err := h.Setups.GetSetup(c.Request.Context(), req.SetupID)
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "code": "SETUP_NOT_FOUND", "message": "no setup with id " + req.SetupID})
			return
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "code": "DB_ERROR", "message": err.Error()})
			return
		}
		resources, board = rec.Data.Resources, rec.Data.Board
	}

	mode := req.Mode
	if mode == "" {
		mode = domain.ModeHotseat
	}
	players := make([]*domain.Player, 0, len(req.Players))
	for i, p := range req.Players {
		id := p.ID
		if id == "" {
			id = "p-" + uuid.NewString()
		}
		name := p.Name
		if name == "" {
			name = fmt.Sprintf("Player %d", i+1)
		}
		workers := p.Workers
		if workers <= 0 {
			workers = 3
		}
		players = append(players, &domain.Player{ID: id, Name: name, Workers: workers})
	}

	respond(c, h.Svc.InitRoom(c.Request.Context(), roomOrDefault(req.RoomID), resources, board, players, mode))
}

type joinRoomRequest struct {
	RoomID  string `json:"roomId"`
	Name    string `json:"name"`
	Workers int    `json:"workers"`
}

// JoinRoom handles POST /rooms/join, idempotent by display name.
func (h *Handler) JoinRoom(c *gin.Context) {
	var req joinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "code": "INVALID_PAYLOAD", "message": err.Error()})
		return
	}
	respond(c, h.Svc.JoinRoom(c.Request.Context(), roomOrDefault(req.RoomID), req.Name, req.Workers))
}

// ListRooms handles GET /rooms.
func (h *Handler) ListRooms(c *gin.Context) {
	rooms, err := h.Svc.ListRooms(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "code": "DB_ERROR", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "rooms": rooms})
}

const keepAliveInterval = 20 * time.Second

// RoomEvents handles GET /rooms/events?roomId= as a server-sent event
// stream. The first event is always a full snapshot; a comment frame every
// 20s keeps intermediaries from closing the connection.
func (h *Handler) RoomEvents(c *gin.Context) {
	roomID := roomOrDefault(c.Query("roomId"))

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache, no-transform")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("Access-Control-Allow-Origin", "*")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "code": "STREAMING_UNSUPPORTED", "message": "response writer cannot stream"})
		return
	}

	events, cancel := h.Svc.Hub().Subscribe(roomID)
	defer cancel()

	writeEvent := func(ev engine.Event) bool {
		data, err := json.Marshal(ev)
		if err != nil {
			logger.Error("event marshal failed", "room", roomID, "error", err)
			return true
		}
		if _, err := fmt.Fprintf(c.Writer, "data: %s\n\n", data); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	// Initial snapshot, even for a room that has no state yet.
	if !writeEvent(engine.Event{Type: "state", State: h.Svc.Snapshot(c.Request.Context(), roomID)}) {
		return
	}

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case ev := <-events:
			if !writeEvent(ev) {
				return
			}
		case <-keepAlive.C:
			if _, err := fmt.Fprint(c.Writer, ":\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
