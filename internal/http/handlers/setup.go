package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"boardroom/internal/domain"
	"boardroom/internal/store"
)

type saveSetupRequest struct {
	ID          string               `json:"id"`
	Name        string               `json:"name" binding:"required"`
	Description string               `json:"description"`
	Data        domain.SetupTemplate `json:"data" binding:"required"`
}

// SaveSetup handles POST /setups: persists a reusable {resources, board}
// template.
func (h *Handler) SaveSetup(c *gin.Context) {
	var req saveSetupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "code": "INVALID_PAYLOAD", "message": err.Error()})
		return
	}
	rec, err := h.Setups.SaveSetup(c.Request.Context(), store.SetupRecord{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		Data:        req.Data,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "code": "DB_ERROR", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "setup": rec})
}

// ListSetups handles GET /setups, newest first.
func (h *Handler) ListSetups(c *gin.Context) {
	recs, err := h.Setups.ListSetups(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "code": "DB_ERROR", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "setups": recs})
}

// GetSetup handles GET /setups/:id.
func (h *Handler) GetSetup(c *gin.Context) {
	rec, err := h.Setups.GetSetup(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "code": "SETUP_NOT_FOUND", "message": "no setup with id " + c.Param("id")})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "code": "DB_ERROR", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "setup": rec})
}
