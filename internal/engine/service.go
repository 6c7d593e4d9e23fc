package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"boardroom/internal/domain"
	"boardroom/internal/logger"
	"boardroom/internal/mechanic"
	"boardroom/internal/store"
)

// Result is the total outcome of an action handler. Handlers never panic to
// the caller; every failure mode carries a stable code, and the last known
// state rides along so clients can resynchronize even on error.
type Result struct {
	OK       bool              `json:"ok"`
	Code     string            `json:"code,omitempty"`
	Message  string            `json:"message,omitempty"`
	State    *domain.GameState `json:"state,omitempty"`
	RoomID   string            `json:"roomId,omitempty"`
	PlayerID string            `json:"playerId,omitempty"`
	Details  map[string]any    `json:"details,omitempty"`
}

// RoomSummary is a listing entry for the lobby.
type RoomSummary struct {
	ID        string          `json:"id"`
	Mode      domain.GameMode `json:"mode,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	Players   []PlayerRef     `json:"players"`
	BoardSize int             `json:"boardSize"`
}

type PlayerRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Service is the room/turn state machine. State is threaded explicitly per
// call: every handler loads the room's state from the store, mutates under
// the room's lock, and writes back with a version check.
type Service struct {
	store          store.GameStore
	registry       *mechanic.Registry
	hub            *RoomHub
	defaultWorkers int
}

func NewService(st store.GameStore, registry *mechanic.Registry, hub *RoomHub, defaultWorkers int) *Service {
	if defaultWorkers <= 0 {
		defaultWorkers = 3
	}
	return &Service{store: st, registry: registry, hub: hub, defaultWorkers: defaultWorkers}
}

// Hub exposes the live-update fan-out for transports.
func (s *Service) Hub() *RoomHub { return s.hub }

func (s *Service) succeed(action string, state *domain.GameState) Result {
	actionsTotal.WithLabelValues(action, "ok").Inc()
	return Result{OK: true, State: state}
}

func (s *Service) fail(action, code, message string, state *domain.GameState) Result {
	actionsTotal.WithLabelValues(action, code).Inc()
	return Result{OK: false, Code: code, Message: message, State: state}
}

// advanceToNextPlayer moves the active seat to the player after the anchor,
// wrapping round-robin. The room turn counter increments exactly on wrap to
// seat zero; this is the single turn-counting rule used by every transition.
func advanceToNextPlayer(state *domain.GameState, afterPlayerID string) {
	if len(state.Players) == 0 {
		return
	}
	base := afterPlayerID
	if base == "" {
		base = state.ActivePlayerID
	}
	current := -1
	for i, p := range state.Players {
		if p.ID == base {
			current = i
			break
		}
	}
	next := 0
	if current >= 0 {
		next = (current + 1) % len(state.Players)
	}
	state.ActivePlayerID = state.Players[next].ID
	if next == 0 {
		state.CurrentTurn++
	}
}

// save persists the mutated state with a version check and broadcasts it to
// live viewers. Store failures are logged and counted but deliberately do
// not fail the action: the broadcast keeps connected clients responsive and
// a reconnecting viewer snapshots from the authoritative copy.
func (s *Service) save(ctx context.Context, roomID string, state *domain.GameState, expectedVersion int64) {
	if _, err := s.store.Set(ctx, roomID, state, expectedVersion); err != nil {
		code := domain.CodeDBError
		if errors.Is(err, store.ErrVersionConflict) {
			code = domain.CodeVersionConflict
		}
		saveFailuresTotal.WithLabelValues(code).Inc()
		logger.Warn("room state save failed", "room", roomID, "code", code, "error", err)
	}
	s.hub.Publish(roomID, Event{Type: "state", State: state})
}

func notInitialized() (string, string) {
	return domain.CodeGameNotInitialized, "The game state is empty or not initialized. Please start a new game."
}

// PlaceWorker spends one worker from the player's hand onto a board space and
// runs the space's effect. An immediately-resolved effect advances the turn;
// a pending effect freezes it until the responder answers.
func (s *Service) PlaceWorker(ctx context.Context, roomID, playerID, spaceID, targetPlayerID string) Result {
	const action = "placeWorker"
	unlock := s.hub.Lock(roomID)
	defer unlock()

	state, version, err := s.store.Get(ctx, roomID)
	if err != nil {
		return s.fail(action, domain.CodeDBError, err.Error(), nil)
	}
	if !state.Ready() {
		code, msg := notInitialized()
		return s.fail(action, code, msg, state)
	}
	if state.PendingAction != nil {
		return s.fail(action, domain.CodePendingAction, "Resolve the pending action before placing a worker.", state)
	}

	player := state.PlayerByID(playerID)
	if player == nil {
		res := s.fail(action, domain.CodePlayerNotFound, fmt.Sprintf("No player found with id '%s'.", playerID), state)
		res.Details = map[string]any{"receivedPlayerId": playerID, "validPlayerIds": playerIDs(state)}
		return res
	}
	space := state.SpaceByID(spaceID)
	if space == nil {
		res := s.fail(action, domain.CodeSpaceNotFound, fmt.Sprintf("No board space found with id '%s'.", spaceID), state)
		res.Details = map[string]any{"receivedSpaceId": spaceID, "validSpaceIds": spaceIDs(state)}
		return res
	}
	if state.ActivePlayerID != playerID {
		return s.fail(action, domain.CodeNotYourTurn,
			fmt.Sprintf("It is not player '%s' turn. Active player is '%s'.", playerID, state.ActivePlayerID), state)
	}
	if space.CurrentWorkers >= space.Capacity {
		return s.fail(action, domain.CodeSpaceFull,
			fmt.Sprintf("The space '%s' is full (%d/%d).", space.Name, space.CurrentWorkers, space.Capacity), state)
	}
	if player.Workers <= 0 {
		return s.fail(action, domain.CodeNoWorkersLeft,
			fmt.Sprintf("Player '%s' has no workers left to place.", player.Name), state)
	}

	space.CurrentWorkers++
	player.Workers--
	if player.PlacedWorkers == nil {
		player.PlacedWorkers = make(map[string]int)
	}
	player.PlacedWorkers[spaceID]++

	effRes := s.executeEffect(state, space.Effect, playerID, targetPlayerID)

	// A pending effect leaves the active player unchanged; the turn
	// advances only after the response. Otherwise the placement consumed
	// the turn even when the effect errored: the worker is already spent.
	if state.PendingAction == nil {
		advanceToNextPlayer(state, playerID)
	}
	s.save(ctx, roomID, state, version)

	if effRes.Kind == mechanic.KindError {
		res := s.fail(action, effRes.Code, effRes.Message, state)
		res.Details = effRes.Details
		return res
	}
	return s.succeed(action, state)
}

// NextTurn advances the active seat without any placement.
func (s *Service) NextTurn(ctx context.Context, roomID string) Result {
	const action = "nextTurn"
	unlock := s.hub.Lock(roomID)
	defer unlock()

	state, version, err := s.store.Get(ctx, roomID)
	if err != nil {
		return s.fail(action, domain.CodeDBError, err.Error(), nil)
	}
	if !state.Ready() {
		code, msg := notInitialized()
		return s.fail(action, code, msg, state)
	}
	if state.PendingAction != nil {
		return s.fail(action, domain.CodePendingAction, "Resolve the pending action before advancing the turn.", state)
	}
	advanceToNextPlayer(state, state.ActivePlayerID)
	s.save(ctx, roomID, state, version)
	return s.succeed(action, state)
}

// RecallWorkers returns every placed worker of the player to hand and
// consumes the turn. Recalling nothing is rejected so a turn is never spent
// with no effect.
func (s *Service) RecallWorkers(ctx context.Context, roomID, playerID string) Result {
	const action = "recallWorkers"
	unlock := s.hub.Lock(roomID)
	defer unlock()

	state, version, err := s.store.Get(ctx, roomID)
	if err != nil {
		return s.fail(action, domain.CodeDBError, err.Error(), nil)
	}
	if !state.Ready() {
		code, msg := notInitialized()
		return s.fail(action, code, msg, state)
	}
	if state.PendingAction != nil {
		return s.fail(action, domain.CodePendingAction, "Resolve the pending action before recalling workers.", state)
	}
	if state.ActivePlayerID != playerID {
		return s.fail(action, domain.CodeNotYourTurn, fmt.Sprintf("It is not player '%s' turn.", playerID), state)
	}
	player := state.PlayerByID(playerID)
	if player == nil {
		return s.fail(action, domain.CodePlayerNotFound, fmt.Sprintf("No player found with id '%s'.", playerID), state)
	}
	if totalPlaced(player) == 0 {
		return s.fail(action, domain.CodeNothingToRecall, "No workers to recall.", state)
	}

	for spaceID, count := range player.PlacedWorkers {
		if count == 0 {
			continue
		}
		if space := state.SpaceByID(spaceID); space != nil {
			space.CurrentWorkers -= count
			if space.CurrentWorkers < 0 {
				space.CurrentWorkers = 0
			}
		}
		player.Workers += count
	}
	player.PlacedWorkers = make(map[string]int)

	advanceToNextPlayer(state, playerID)
	s.save(ctx, roomID, state, version)
	return s.succeed(action, state)
}

// Respond resolves the room's pending action with the responder's choice.
// An ok or noop resolution advances the turn from the original initiator,
// not the responder; an error resolution surfaces the mechanic's code and
// leaves the turn where it was.
func (s *Service) Respond(ctx context.Context, roomID, playerID, actionID string, choice mechanic.Choice) Result {
	const action = "respond"
	unlock := s.hub.Lock(roomID)
	defer unlock()

	state, version, err := s.store.Get(ctx, roomID)
	if err != nil {
		return s.fail(action, domain.CodeDBError, err.Error(), nil)
	}
	if !state.Ready() {
		code, msg := notInitialized()
		return s.fail(action, code, msg, state)
	}
	pending := state.PendingAction
	if pending == nil || pending.EffectID != actionID {
		return s.fail(action, domain.CodeNoMatchingPendingAction, "No matching pending action", state)
	}

	logger.Info("pending action response", "room", roomID, "player", playerID, "action", actionID, "skip", choice.Skip)

	spec, resolvable := s.resolverFor(pending)
	if !resolvable {
		// Nothing can interpret this pending action anymore; clear it
		// rather than deadlocking the room.
		logger.Warn("pending action has no resolver, clearing", "room", roomID, "mechanic", pending.MechanicID)
		state.PendingAction = nil
		state.PriorityPlayerID = ""
		advanceToNextPlayer(state, pending.FromPlayerID)
		s.save(ctx, roomID, state, version)
		return s.succeed(action, state)
	}

	res := spec.Resolve(state, pending, choice)
	if res.Kind == mechanic.KindPending {
		// Chained interaction: the resolver needs another response.
		s.installPending(state, res.Pending, pending.FromPlayerID, spec.ID)
		s.save(ctx, roomID, state, version)
		return s.succeed(action, state)
	}

	state.PendingAction = nil
	state.PriorityPlayerID = ""
	if res.Kind == mechanic.KindError {
		s.save(ctx, roomID, state, version)
		failRes := s.fail(action, res.Code, res.Message, state)
		failRes.Details = res.Details
		return failRes
	}
	advanceToNextPlayer(state, pending.FromPlayerID)
	s.save(ctx, roomID, state, version)
	return s.succeed(action, state)
}

// resolverFor routes a pending action to its mechanic, falling back to the
// type recorded in the action's data.
func (s *Service) resolverFor(pending *domain.PendingAction) (mechanic.Spec, bool) {
	if pending.MechanicID != "" {
		if spec, ok := s.registry.Get(pending.MechanicID); ok && spec.Resolve != nil {
			return spec, true
		}
	}
	if t, _ := pending.Data["type"].(string); t != "" {
		if spec, ok := s.registry.Get(t); ok && spec.Resolve != nil {
			return spec, true
		}
	}
	return mechanic.Spec{}, false
}

// InitRoom replaces the room's state wholesale with a fresh game.
func (s *Service) InitRoom(ctx context.Context, roomID string, resources []domain.Resource, board []domain.BoardSpace, players []*domain.Player, mode domain.GameMode) Result {
	const action = "initRoom"
	unlock := s.hub.Lock(roomID)
	defer unlock()

	state := domain.NewGameState(resources, board, players, mode)
	if _, err := s.store.Init(ctx, roomID, state); err != nil {
		return s.fail(action, domain.CodeDBError, err.Error(), nil)
	}
	s.hub.Publish(roomID, Event{Type: "state", State: state})
	res := s.succeed(action, state)
	res.RoomID = roomID
	return res
}

// GetState returns the room's current state.
func (s *Service) GetState(ctx context.Context, roomID string) Result {
	const action = "getState"
	state, _, err := s.store.Get(ctx, roomID)
	if err != nil {
		return s.fail(action, domain.CodeDBError, err.Error(), nil)
	}
	if !state.Ready() {
		code, msg := notInitialized()
		return s.fail(action, code, msg, state)
	}
	return s.succeed(action, state)
}

// Snapshot returns the current state without a readiness check, for the
// first event on a live-update subscription. May be nil.
func (s *Service) Snapshot(ctx context.Context, roomID string) *domain.GameState {
	state, _, err := s.store.Get(ctx, roomID)
	if err != nil {
		logger.Warn("snapshot read failed", "room", roomID, "error", err)
		return nil
	}
	return state
}

// JoinRoom adds a player to a room, idempotently by display name: rejoining
// under the same name returns the existing player id.
func (s *Service) JoinRoom(ctx context.Context, roomID, name string, workers int) Result {
	const action = "joinRoom"
	unlock := s.hub.Lock(roomID)
	defer unlock()

	state, version, err := s.store.Get(ctx, roomID)
	if err != nil {
		return s.fail(action, domain.CodeDBError, err.Error(), nil)
	}
	if state == nil || len(state.Board) == 0 {
		res := s.fail(action, domain.CodeRoomNotReady, "Room is not initialized yet.", state)
		res.RoomID = roomID
		return res
	}

	name = strings.TrimSpace(name)
	if name != "" {
		for _, p := range state.Players {
			if strings.EqualFold(p.Name, name) {
				res := s.succeed(action, state)
				res.RoomID = roomID
				res.PlayerID = p.ID
				return res
			}
		}
	}

	if workers <= 0 {
		workers = s.defaultWorkers
	}
	if name == "" {
		name = fmt.Sprintf("Player %d", len(state.Players)+1)
	}
	player := &domain.Player{
		ID:            "p-" + uuid.NewString(),
		Name:          name,
		Resources:     make(map[string]int),
		Workers:       workers,
		PlacedWorkers: make(map[string]int),
	}
	state.Players = append(state.Players, player)
	if state.ActivePlayerID == "" {
		state.ActivePlayerID = player.ID
	}
	s.save(ctx, roomID, state, version)

	res := s.succeed(action, state)
	res.RoomID = roomID
	res.PlayerID = player.ID
	return res
}

// ListRooms returns lobby summaries for every stored room.
func (s *Service) ListRooms(ctx context.Context) ([]RoomSummary, error) {
	infos, err := s.store.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]RoomSummary, 0, len(infos))
	for _, info := range infos {
		summary := RoomSummary{ID: info.ID, CreatedAt: info.CreatedAt}
		if state, _, err := s.store.Get(ctx, info.ID); err == nil && state != nil {
			summary.Mode = state.Mode
			summary.BoardSize = len(state.Board)
			for _, p := range state.Players {
				summary.Players = append(summary.Players, PlayerRef{ID: p.ID, Name: p.Name})
			}
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func totalPlaced(p *domain.Player) int {
	total := 0
	for _, n := range p.PlacedWorkers {
		total += n
	}
	return total
}

func playerIDs(state *domain.GameState) []string {
	ids := make([]string, 0, len(state.Players))
	for _, p := range state.Players {
		ids = append(ids, p.ID)
	}
	return ids
}

func spaceIDs(state *domain.GameState) []string {
	ids := make([]string, 0, len(state.Board))
	for _, sp := range state.Board {
		ids = append(ids, sp.ID)
	}
	return ids
}
