package engine

import (
	"github.com/google/uuid"

	"boardroom/internal/domain"
	"boardroom/internal/logger"
	"boardroom/internal/mechanic"
)

// executeEffect dispatches a board space's effect through the registry and,
// for pending results, installs the room's pending action. An unregistered
// mechanic is reported as an error result, not a crash: registration is
// expected to be complete before game traffic, but a stored board may
// reference a mechanic this build no longer ships.
func (s *Service) executeEffect(state *domain.GameState, effect domain.Effect, playerID, targetPlayerID string) mechanic.Result {
	if state == nil {
		logger.Error("no game state when executing effect", "mechanic", effect.Type)
		return mechanic.Noop()
	}
	// A space may carry no effect at all.
	if effect.Type == "" {
		return mechanic.Noop()
	}

	payload := effect.Payload
	if targetPlayerID != "" {
		payload = make(map[string]any, len(effect.Payload)+1)
		for k, v := range effect.Payload {
			payload[k] = v
		}
		payload["targetPlayerId"] = targetPlayerID
	}

	res, err := s.registry.Execute(state, effect.Type, mechanic.Context{PlayerID: playerID, Payload: payload})
	if err != nil {
		logger.Error("effect references unregistered mechanic", "mechanic", effect.Type, "error", err)
		return mechanic.Errorf(domain.CodeUnknownMechanic, "unknown mechanic %s", effect.Type)
	}
	if res.Kind == mechanic.KindPending {
		s.installPending(state, res.Pending, playerID, effect.Type)
	}
	return res
}

// installPending promotes a mechanic's pending descriptor into the room's
// single pending-action slot and hands priority to the responder. An empty
// ToPlayerID is allowed: the action then waits, inert, for explicit
// targeting.
func (s *Service) installPending(state *domain.GameState, pending *domain.PendingAction, playerID, mechanicID string) {
	if pending.EffectID == "" {
		pending.EffectID = "eff-" + uuid.NewString()
	}
	if pending.FromPlayerID == "" {
		pending.FromPlayerID = playerID
	}
	if pending.MechanicID == "" {
		pending.MechanicID = mechanicID
	}
	state.PendingAction = pending
	state.PriorityPlayerID = pending.ToPlayerID
}
