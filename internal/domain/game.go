package domain

// GameMode controls how player-targeted effects pick their target.
type GameMode string

const (
	ModeHotseat GameMode = "hotseat"
	ModeOnline  GameMode = "online"
)

// Resource is a catalog entry shared read-only within a room.
type Resource struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Effect is a declarative board-space behavior. The payload is interpreted
// only by the mechanic registered under Type.
type Effect struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}

type BoardSpace struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Capacity       int    `json:"capacity"`
	Effect         Effect `json:"effect"`
	CurrentWorkers int    `json:"currentWorkers"`
}

type Player struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Resources map[string]int `json:"resources"`
	Workers   int            `json:"workers"`
	// PlacedWorkers maps spaceID -> workers this player has on that space.
	// Workers only move between hand and board via place/recall.
	PlacedWorkers map[string]int `json:"placedWorkers"`
}

// PendingAction is the room-wide two-phase interaction lock. At most one
// exists per room; while set, only a matching respond may mutate the room.
type PendingAction struct {
	EffectID     string         `json:"effectId"`
	FromPlayerID string         `json:"fromPlayerId"`
	ToPlayerID   string         `json:"toPlayerId,omitempty"`
	Data         map[string]any `json:"data,omitempty"`
	MechanicID   string         `json:"mechanicId,omitempty"`
}

type GameState struct {
	Resources        []Resource     `json:"resources"`
	Board            []*BoardSpace  `json:"board"`
	Players          []*Player      `json:"players"`
	ActivePlayerID   string         `json:"activePlayerId"`
	PriorityPlayerID string         `json:"priorityPlayerId,omitempty"`
	PendingAction    *PendingAction `json:"pendingAction,omitempty"`
	CurrentTurn      int            `json:"currentTurn"`
	Mode             GameMode       `json:"mode,omitempty"`
}

// Ready reports whether the room can accept game actions.
func (s *GameState) Ready() bool {
	return s != nil && len(s.Players) > 0 && len(s.Board) > 0
}
