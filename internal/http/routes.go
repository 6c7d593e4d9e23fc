package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"boardroom/internal/config"
	"boardroom/internal/engine"
	"boardroom/internal/http/handlers"
	"boardroom/internal/http/middleware"
	"boardroom/internal/store"
)

// RegisterRoutes wires the engine and setup store into the route tree. The
// pool is nil when running on the in-memory store.
func RegisterRoutes(r *gin.Engine, svc *engine.Service, setups store.SetupStore, pool *pgxpool.Pool, cfg *config.Config, version string) {
	h := handlers.NewHandler(svc, setups)
	healthHandler := handlers.NewHealthHandler(pool, version)

	// Health checks, no rate limiting.
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	apiWindow := time.Duration(cfg.APIRateWindow) * time.Second
	gameWindow := time.Duration(cfg.GameRateWindow) * time.Second

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(cfg.APIRateLimit, apiWindow))

	gameRL := middleware.RedisRateLimit(cfg.GameRateLimit, gameWindow)

	game := v1.Group("/game")
	{
		game.POST("/place", gameRL, h.PlaceWorker)
		game.POST("/next-turn", gameRL, h.NextTurn)
		game.POST("/recall", gameRL, h.Recall)
		game.POST("/respond", gameRL, h.Respond)
		game.GET("/state", h.State)
	}

	rooms := v1.Group("/rooms")
	{
		rooms.POST("/init", h.InitRoom)
		rooms.POST("/join", h.JoinRoom)
		rooms.GET("", h.ListRooms)
		rooms.GET("/events", h.RoomEvents)
	}

	setupGroup := v1.Group("/setups")
	{
		setupGroup.POST("", h.SaveSetup)
		setupGroup.GET("", h.ListSetups)
		setupGroup.GET("/:id", h.GetSetup)
	}

	// WebSocket mirror of the room event stream.
	r.GET("/ws", h.LiveView)
}
