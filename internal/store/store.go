package store

import (
	"context"
	"errors"
	"time"

	"boardroom/internal/domain"
)

var (
	// ErrVersionConflict means the stored version no longer matches the
	// writer's expected version.
	ErrVersionConflict = errors.New("version conflict")
	// ErrNotFound means the room or setup does not exist.
	ErrNotFound = errors.New("not found")
)

// RoomInfo is the listing entry for a stored room.
type RoomInfo struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// GameStore persists one GameState per room under an optimistic-concurrency
// version counter. Get returns (nil, 0, nil) for an unknown room.
type GameStore interface {
	Get(ctx context.Context, roomID string) (*domain.GameState, int64, error)
	Init(ctx context.Context, roomID string, state *domain.GameState) (int64, error)
	Set(ctx context.Context, roomID string, state *domain.GameState, expectedVersion int64) (int64, error)
	ListRooms(ctx context.Context) ([]RoomInfo, error)
}

// SetupRecord is a persisted reusable starting configuration.
type SetupRecord struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description,omitempty"`
	Data        domain.SetupTemplate `json:"data"`
	CreatedAt   time.Time            `json:"createdAt"`
}

// SetupStore persists setup templates keyed by an opaque id.
type SetupStore interface {
	SaveSetup(ctx context.Context, rec SetupRecord) (SetupRecord, error)
	GetSetup(ctx context.Context, id string) (SetupRecord, error)
	ListSetups(ctx context.Context) ([]SetupRecord, error)
}
