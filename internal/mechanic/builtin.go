package mechanic

import (
	"fmt"

	"boardroom/internal/domain"
)

// Builtins returns the stock mechanics. Each is a pure function of
// (state, ctx); none perform I/O.
func Builtins() []Spec {
	return []Spec{
		{ID: "gain", DisplayName: "Gain Resource", Description: "Gain N of a resource.", Apply: gainApply},
		{ID: "lose", DisplayName: "Lose Resource", Description: "Lose N of a resource.", Apply: loseApply},
		{ID: "move", DisplayName: "Move Worker", Description: "Move a worker between spaces.", Apply: moveApply},
		{ID: "convert", DisplayName: "Convert Resource", Description: "Trade one resource for another at a fixed rate.", Apply: convertApply},
		{ID: "chooseGainResource", DisplayName: "Choose Gained Resource", Description: "Gain N of a resource picked from a whitelist.", Apply: chooseGainApply, Resolve: chooseGainResolve},
		{ID: "harvestByPresence", DisplayName: "Harvest By Presence", Description: "Gain per worker already on the board.", Apply: harvestApply},
		transferSpec("interactive", "Interactive", "Create a pending action requiring a response.", false),
		transferSpec("chooseResourceFromPlayer", "Choose Resource From Player", "Target player gives you N of a chosen resource.", true),
	}
}

type amountPayload struct {
	ResourceID string `json:"resourceId"`
	Amount     *int   `json:"amount"`
}

func (p amountPayload) amount() int {
	if p.Amount == nil {
		return 1
	}
	return *p.Amount
}

func gainApply(state *domain.GameState, ctx Context) Result {
	player := state.PlayerByID(ctx.PlayerID)
	if player == nil {
		return Errorf(domain.CodePlayerNotFound, "player %s not found", ctx.PlayerID)
	}
	var p amountPayload
	if err := decodePayload(ctx.Payload, &p); err != nil || p.ResourceID == "" {
		return Errorf(domain.CodeInvalidPayload, "resourceId required")
	}
	domain.GrantResource(player, p.ResourceID, p.amount())
	return OK()
}

func loseApply(state *domain.GameState, ctx Context) Result {
	player := state.PlayerByID(ctx.PlayerID)
	if player == nil {
		return Errorf(domain.CodePlayerNotFound, "player %s not found", ctx.PlayerID)
	}
	var p amountPayload
	if err := decodePayload(ctx.Payload, &p); err != nil || p.ResourceID == "" {
		return Errorf(domain.CodeInvalidPayload, "resourceId required")
	}
	domain.LoseResource(player, p.ResourceID, p.amount())
	return OK()
}

type movePayload struct {
	FromSpaceID string `json:"fromSpaceId"`
	ToSpaceID   string `json:"toSpaceId"`
}

func moveApply(state *domain.GameState, ctx Context) Result {
	var p movePayload
	if err := decodePayload(ctx.Payload, &p); err != nil || p.FromSpaceID == "" || p.ToSpaceID == "" {
		return Errorf(domain.CodeInvalidPayload, "fromSpaceId/toSpaceId required")
	}
	from := state.SpaceByID(p.FromSpaceID)
	to := state.SpaceByID(p.ToSpaceID)
	if from == nil || to == nil {
		return Errorf(domain.CodeSpaceNotFound, "from/to space not found")
	}
	if to.CurrentWorkers >= to.Capacity {
		return Errorf(domain.CodeSpaceFull, "destination %s is full", to.Name)
	}
	if from.CurrentWorkers <= 0 {
		return Errorf(domain.CodeNoWorkers, "no workers on %s to move", from.Name)
	}
	from.CurrentWorkers--
	to.CurrentWorkers++
	return OK()
}

type convertPayload struct {
	FromResourceID string `json:"fromResourceId"`
	ToResourceID   string `json:"toResourceId"`
	Rate           int    `json:"rate"`
	Times          int    `json:"times"`
}

func convertApply(state *domain.GameState, ctx Context) Result {
	player := state.PlayerByID(ctx.PlayerID)
	if player == nil {
		return Errorf(domain.CodePlayerNotFound, "player %s not found", ctx.PlayerID)
	}
	var p convertPayload
	if err := decodePayload(ctx.Payload, &p); err != nil || p.FromResourceID == "" || p.ToResourceID == "" {
		return Errorf(domain.CodeInvalidPayload, "fromResourceId/toResourceId required")
	}
	if p.Rate <= 0 || p.Times < 1 {
		return Errorf(domain.CodeInvalidPayload, "rate must be > 0 and times >= 1")
	}
	if state.ResourceByID(p.FromResourceID) == nil || state.ResourceByID(p.ToResourceID) == nil {
		return Errorf(domain.CodeResourceNotFound, "unknown resource id")
	}
	cost := p.Rate * p.Times
	available := player.Resources[p.FromResourceID]
	if available < cost {
		return Errorf(domain.CodeInsufficientResources, "need %d of %s, have %d", cost, p.FromResourceID, available)
	}
	player.Resources[p.FromResourceID] = available - cost
	domain.GrantResource(player, p.ToResourceID, p.Times)
	return OK()
}

type chooseGainPayload struct {
	Amount             *int     `json:"amount"`
	AllowedResourceIDs []string `json:"allowedResourceIds"`
}

func chooseGainApply(state *domain.GameState, ctx Context) Result {
	player := state.PlayerByID(ctx.PlayerID)
	if player == nil {
		return Errorf(domain.CodePlayerNotFound, "player %s not found", ctx.PlayerID)
	}
	var p chooseGainPayload
	if err := decodePayload(ctx.Payload, &p); err != nil {
		return Errorf(domain.CodeInvalidPayload, "invalid payload")
	}
	amount := 1
	if p.Amount != nil {
		amount = *p.Amount
	}
	if amount <= 0 {
		return Errorf(domain.CodeInvalidAmount, "amount must be positive")
	}
	// A single allowed resource leaves nothing to choose.
	if len(p.AllowedResourceIDs) == 1 {
		domain.GrantResource(player, p.AllowedResourceIDs[0], amount)
		return OK()
	}
	return NeedsResponse(&domain.PendingAction{
		MechanicID:   "chooseGainResource",
		FromPlayerID: ctx.PlayerID,
		ToPlayerID:   ctx.PlayerID, // the acting player chooses
		Data: map[string]any{
			"type":               "chooseGainResource",
			"amount":             amount,
			"allowedResourceIds": p.AllowedResourceIDs,
		},
	})
}

func chooseGainResolve(state *domain.GameState, pending *domain.PendingAction, choice Choice) Result {
	if choice.Skip {
		return OK()
	}
	player := state.PlayerByID(pending.FromPlayerID)
	if player == nil {
		return Errorf(domain.CodePlayerNotFound, "player %s not found", pending.FromPlayerID)
	}
	if choice.ResourceID == "" {
		return Errorf(domain.CodeInvalidChoice, "resourceId required")
	}
	allowed := stringsFromAny(pending.Data["allowedResourceIds"])
	if len(allowed) > 0 {
		found := false
		for _, id := range allowed {
			if id == choice.ResourceID {
				found = true
				break
			}
		}
		if !found {
			return Errorf(domain.CodeResourceNotAllowed, "resource %s is not an allowed choice", choice.ResourceID)
		}
	}
	if state.ResourceByID(choice.ResourceID) == nil {
		return Errorf(domain.CodeResourceNotFound, "unknown resource %s", choice.ResourceID)
	}
	amount := 1
	if n, ok := intFromAny(pending.Data["amount"]); ok {
		amount = n
	}
	domain.GrantResource(player, choice.ResourceID, amount)
	return OK()
}

type harvestPayload struct {
	ResourceID string   `json:"resourceId"`
	PerWorker  *int     `json:"perWorker"`
	SpaceIDs   []string `json:"spaceIds"`
}

func harvestApply(state *domain.GameState, ctx Context) Result {
	player := state.PlayerByID(ctx.PlayerID)
	if player == nil {
		return Errorf(domain.CodePlayerNotFound, "player %s not found", ctx.PlayerID)
	}
	var p harvestPayload
	if err := decodePayload(ctx.Payload, &p); err != nil || p.ResourceID == "" {
		return Errorf(domain.CodeInvalidPayload, "resourceId required")
	}
	if p.PerWorker == nil || *p.PerWorker <= 0 {
		return Errorf(domain.CodeInvalidPayload, "perWorker must be positive")
	}
	if state.ResourceByID(p.ResourceID) == nil {
		return Errorf(domain.CodeResourceNotFound, "unknown resource %s", p.ResourceID)
	}
	count := 0
	if len(p.SpaceIDs) > 0 {
		for _, spaceID := range p.SpaceIDs {
			count += player.PlacedWorkers[spaceID]
		}
	} else {
		for _, n := range player.PlacedWorkers {
			count += n
		}
	}
	if count == 0 {
		return Noop()
	}
	domain.GrantResource(player, p.ResourceID, count**p.PerWorker)
	return OK()
}

type interactivePayload struct {
	Type           string         `json:"type"`
	Action         string         `json:"action"`
	TargetPlayerID string         `json:"targetPlayerId"`
	Amount         *int           `json:"amount"`
	ResourceID     string         `json:"resourceId"`
	Description    string         `json:"description"`
	Data           map[string]any `json:"data"`
}

// transferSpec builds the two interactive transfer mechanics. They share all
// of their logic; strict controls whether a failed or unspecified transfer
// is an error (chooseResourceFromPlayer) or a tolerated no-op (interactive).
func transferSpec(id, displayName, description string, strict bool) Spec {
	apply := func(state *domain.GameState, ctx Context) Result {
		var p interactivePayload
		if err := decodePayload(ctx.Payload, &p); err != nil {
			p = interactivePayload{}
		}

		data := make(map[string]any)
		for k, v := range p.Data {
			data[k] = v
		}
		actionType := id
		if !strict {
			if p.Type != "" {
				actionType = p.Type
			} else if p.Action != "" {
				actionType = p.Action
			}
		}
		data["type"] = actionType
		data["mechanicId"] = id
		if p.Amount != nil {
			data["amount"] = *p.Amount
		} else if strict {
			data["amount"] = 1
		}
		if p.ResourceID != "" {
			data["resourceId"] = p.ResourceID
		}
		if p.Description != "" {
			data["description"] = p.Description
		}

		// Hotseat rooms with exactly one opponent auto-target them;
		// online rooms wait for an explicit target.
		target := p.TargetPlayerID
		if target == "" && state.Mode == domain.ModeHotseat {
			if others := state.OtherPlayers(ctx.PlayerID); len(others) == 1 {
				target = others[0].ID
			}
		}

		return NeedsResponse(&domain.PendingAction{
			MechanicID:   id,
			FromPlayerID: ctx.PlayerID,
			ToPlayerID:   target,
			Data:         data,
		})
	}

	resolve := func(state *domain.GameState, pending *domain.PendingAction, choice Choice) Result {
		actionType := pending.MechanicID
		if actionType == "" {
			actionType, _ = pending.Data["type"].(string)
		}
		if actionType != "chooseResourceFromPlayer" && actionType != "interactive" {
			return OK()
		}
		if choice.Skip {
			return OK()
		}

		giver := state.PlayerByID(pending.ToPlayerID)
		taker := state.PlayerByID(pending.FromPlayerID)
		if giver == nil || taker == nil {
			return Errorf(domain.CodePlayerNotFound, "players not found for resolve")
		}

		amount := 1
		if n, ok := intFromAny(pending.Data["amount"]); ok {
			amount = n
		} else if choice.Amount != nil {
			amount = *choice.Amount
		}
		if choice.ResourceID == "" {
			if strict {
				return Errorf(domain.CodeInvalidChoice, "resourceId required")
			}
			return OK()
		}

		if err := domain.TransferResource(giver, taker, choice.ResourceID, amount); err != nil {
			if strict {
				msg := err.Message
				if err.Code == domain.CodeInsufficientResources {
					msg = fmt.Sprintf("player %s has only %d of %s, but %d is required", giver.Name, err.Available, choice.ResourceID, amount)
				}
				res := Errorf(err.Code, "%s", msg)
				res.Details = map[string]any{
					"requiredAmount": amount,
					"available":      err.Available,
					"resourceId":     choice.ResourceID,
					"responderId":    giver.ID,
				}
				return res
			}
			// Permissive path tolerates a failed transfer.
		}
		return OK()
	}

	return Spec{ID: id, DisplayName: displayName, Description: description, Apply: apply, Resolve: resolve}
}
