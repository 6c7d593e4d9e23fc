package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"boardroom/internal/engine"
	"boardroom/internal/store"
)

// Handler bundles the engine service and setup store for the route layer.
type Handler struct {
	Svc    *engine.Service
	Setups store.SetupStore
}

func NewHandler(svc *engine.Service, setups store.SetupStore) *Handler {
	return &Handler{Svc: svc, Setups: setups}
}

// respond maps an engine result onto the wire: failures are 400 with the
// full result body so clients can resynchronize from the attached state.
func respond(c *gin.Context, res engine.Result) {
	if !res.OK {
		c.JSON(http.StatusBadRequest, res)
		return
	}
	c.JSON(http.StatusOK, res)
}

// roomOrDefault keeps single-room clients working without a room id.
func roomOrDefault(roomID string) string {
	if roomID == "" {
		return "default"
	}
	return roomID
}
