package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"boardroom/internal/mechanic"
)

type placeWorkerRequest struct {
	RoomID         string `json:"roomId"`
	PlayerID       string `json:"playerId" binding:"required"`
	SpaceID        string `json:"spaceId" binding:"required"`
	TargetPlayerID string `json:"targetPlayerId"`
}

// PlaceWorker handles POST /game/place.
func (h *Handler) PlaceWorker(c *gin.Context) {
	var req placeWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "code": "INVALID_PAYLOAD", "message": err.Error()})
		return
	}
	respond(c, h.Svc.PlaceWorker(c.Request.Context(), roomOrDefault(req.RoomID), req.PlayerID, req.SpaceID, req.TargetPlayerID))
}

type roomRequest struct {
	RoomID string `json:"roomId"`
}

// NextTurn handles POST /game/next-turn.
func (h *Handler) NextTurn(c *gin.Context) {
	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "code": "INVALID_PAYLOAD", "message": err.Error()})
		return
	}
	respond(c, h.Svc.NextTurn(c.Request.Context(), roomOrDefault(req.RoomID)))
}

type recallRequest struct {
	RoomID   string `json:"roomId"`
	PlayerID string `json:"playerId" binding:"required"`
}

// Recall handles POST /game/recall.
func (h *Handler) Recall(c *gin.Context) {
	var req recallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "code": "INVALID_PAYLOAD", "message": err.Error()})
		return
	}
	respond(c, h.Svc.RecallWorkers(c.Request.Context(), roomOrDefault(req.RoomID), req.PlayerID))
}

type respondRequest struct {
	RoomID   string          `json:"roomId"`
	PlayerID string          `json:"playerId" binding:"required"`
	ActionID string          `json:"actionId" binding:"required"`
	Choice   mechanic.Choice `json:"choice"`
}

// Respond handles POST /game/respond.
func (h *Handler) Respond(c *gin.Context) {
	var req respondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "code": "INVALID_PAYLOAD", "message": err.Error()})
		return
	}
	respond(c, h.Svc.Respond(c.Request.Context(), roomOrDefault(req.RoomID), req.PlayerID, req.ActionID, req.Choice))
}

// State handles GET /game/state?roomId=.
func (h *Handler) State(c *gin.Context) {
	respond(c, h.Svc.GetState(c.Request.Context(), roomOrDefault(c.Query("roomId"))))
}
