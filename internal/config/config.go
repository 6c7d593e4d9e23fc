package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"boardroom/internal/logger"
)

type Config struct {
	AppPort string

	// PersistStore selects the room store backend: "memory" or "postgres".
	PersistStore string
	DatabaseURL  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// DefaultWorkers is the worker pool handed to a player joining without
	// an explicit count.
	DefaultWorkers int

	APIRateLimit   int
	APIRateWindow  int // seconds
	GameRateLimit  int
	GameRateWindow int // seconds

	LogLevel string
	LogJSON  bool
}

// Load reads configuration from the environment, with .env support.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		AppPort:        envOr("APP_PORT", "8080"),
		PersistStore:   strings.ToLower(envOr("PERSIST_STORE", "memory")),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        envInt("REDIS_DB", 0),
		DefaultWorkers: envInt("DEFAULT_WORKERS", 3),
		APIRateLimit:   envInt("API_RATE_LIMIT", 60),
		APIRateWindow:  envInt("API_RATE_WINDOW_SECONDS", 60),
		GameRateLimit:  envInt("GAME_RATE_LIMIT", 60),
		GameRateWindow: envInt("GAME_RATE_WINDOW", 60),
		LogLevel:       envOr("LOG_LEVEL", "info"),
		LogJSON:        os.Getenv("LOG_JSON") == "true",
	}

	if cfg.PersistStore == "postgres" && cfg.DatabaseURL == "" {
		logger.Fatal("DATABASE_URL is required when PERSIST_STORE=postgres")
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
