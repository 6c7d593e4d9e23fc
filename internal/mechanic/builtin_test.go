package mechanic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boardroom/internal/domain"
)

func testState(mode domain.GameMode, players ...*domain.Player) *domain.GameState {
	resources := []domain.Resource{
		{ID: "wood", Name: "Wood"},
		{ID: "gold", Name: "Gold"},
	}
	board := []domain.BoardSpace{
		{ID: "forest", Name: "Forest", Capacity: 2},
		{ID: "mine", Name: "Mine", Capacity: 1},
	}
	return domain.NewGameState(resources, board, players, mode)
}

func player(id string, resources map[string]int) *domain.Player {
	if resources == nil {
		resources = make(map[string]int)
	}
	return &domain.Player{ID: id, Name: id, Resources: resources, Workers: 2, PlacedWorkers: map[string]int{}}
}

func TestRegistryExecuteUnknownMechanic(t *testing.T) {
	reg := Default()
	st := testState(domain.ModeHotseat, player("p1", nil))
	_, err := reg.Execute(st, "teleport", Context{PlayerID: "p1"})
	require.Error(t, err)
}

func TestGainAndLose(t *testing.T) {
	reg := Default()
	st := testState(domain.ModeHotseat, player("p1", map[string]int{"gold": 1}))

	res, err := reg.Execute(st, "gain", Context{PlayerID: "p1", Payload: map[string]any{"resourceId": "gold", "amount": 2}})
	require.NoError(t, err)
	assert.Equal(t, KindOK, res.Kind)
	assert.Equal(t, 3, st.Players[0].Resources["gold"])

	// Amount defaults to 1 when omitted.
	res, err = reg.Execute(st, "lose", Context{PlayerID: "p1", Payload: map[string]any{"resourceId": "gold"}})
	require.NoError(t, err)
	assert.Equal(t, KindOK, res.Kind)
	assert.Equal(t, 2, st.Players[0].Resources["gold"])

	res, err = reg.Execute(st, "gain", Context{PlayerID: "p1", Payload: map[string]any{}})
	require.NoError(t, err)
	assert.Equal(t, KindError, res.Kind)
	assert.Equal(t, domain.CodeInvalidPayload, res.Code)

	res, err = reg.Execute(st, "gain", Context{PlayerID: "ghost", Payload: map[string]any{"resourceId": "gold"}})
	require.NoError(t, err)
	assert.Equal(t, domain.CodePlayerNotFound, res.Code)
}

func TestMoveWorker(t *testing.T) {
	reg := Default()
	st := testState(domain.ModeHotseat, player("p1", nil))
	st.Board[0].CurrentWorkers = 1 // forest

	res, err := reg.Execute(st, "move", Context{PlayerID: "p1", Payload: map[string]any{"fromSpaceId": "forest", "toSpaceId": "mine"}})
	require.NoError(t, err)
	assert.Equal(t, KindOK, res.Kind)
	assert.Equal(t, 0, st.Board[0].CurrentWorkers)
	assert.Equal(t, 1, st.Board[1].CurrentWorkers)

	// Mine has capacity 1 and is now full.
	st.Board[0].CurrentWorkers = 1
	res, _ = reg.Execute(st, "move", Context{PlayerID: "p1", Payload: map[string]any{"fromSpaceId": "forest", "toSpaceId": "mine"}})
	assert.Equal(t, domain.CodeSpaceFull, res.Code)

	res, _ = reg.Execute(st, "move", Context{PlayerID: "p1", Payload: map[string]any{"fromSpaceId": "mine", "toSpaceId": "forest"}})
	assert.Equal(t, KindOK, res.Kind)

	// Mine is empty again.
	res, _ = reg.Execute(st, "move", Context{PlayerID: "p1", Payload: map[string]any{"fromSpaceId": "mine", "toSpaceId": "forest"}})
	assert.Equal(t, domain.CodeNoWorkers, res.Code)

	res, _ = reg.Execute(st, "move", Context{PlayerID: "p1", Payload: map[string]any{"fromSpaceId": "nowhere", "toSpaceId": "forest"}})
	assert.Equal(t, domain.CodeSpaceNotFound, res.Code)
}

func TestConvert(t *testing.T) {
	reg := Default()

	t.Run("trades at rate x times", func(t *testing.T) {
		st := testState(domain.ModeHotseat, player("p1", map[string]int{"gold": 5}))
		res, err := reg.Execute(st, "convert", Context{PlayerID: "p1", Payload: map[string]any{
			"fromResourceId": "gold", "toResourceId": "wood", "rate": 2, "times": 2,
		}})
		require.NoError(t, err)
		assert.Equal(t, KindOK, res.Kind)
		assert.Equal(t, 1, st.Players[0].Resources["gold"])
		assert.Equal(t, 2, st.Players[0].Resources["wood"])
	})

	t.Run("rejects insufficient source resource", func(t *testing.T) {
		st := testState(domain.ModeHotseat, player("p1", map[string]int{"gold": 3}))
		res, _ := reg.Execute(st, "convert", Context{PlayerID: "p1", Payload: map[string]any{
			"fromResourceId": "gold", "toResourceId": "wood", "rate": 2, "times": 2,
		}})
		assert.Equal(t, domain.CodeInsufficientResources, res.Code)
		assert.Equal(t, 3, st.Players[0].Resources["gold"])
		assert.Equal(t, 0, st.Players[0].Resources["wood"])
	})

	t.Run("rejects bad rate or times", func(t *testing.T) {
		st := testState(domain.ModeHotseat, player("p1", map[string]int{"gold": 5}))
		res, _ := reg.Execute(st, "convert", Context{PlayerID: "p1", Payload: map[string]any{
			"fromResourceId": "gold", "toResourceId": "wood", "rate": 0, "times": 1,
		}})
		assert.Equal(t, domain.CodeInvalidPayload, res.Code)
	})

	t.Run("rejects resources outside the catalog", func(t *testing.T) {
		st := testState(domain.ModeHotseat, player("p1", map[string]int{"gold": 5}))
		res, _ := reg.Execute(st, "convert", Context{PlayerID: "p1", Payload: map[string]any{
			"fromResourceId": "gold", "toResourceId": "mithril", "rate": 1, "times": 1,
		}})
		assert.Equal(t, domain.CodeResourceNotFound, res.Code)
	})
}

func TestChooseGainResource(t *testing.T) {
	reg := Default()

	t.Run("single allowed resource grants immediately", func(t *testing.T) {
		st := testState(domain.ModeHotseat, player("p1", nil))
		res, err := reg.Execute(st, "chooseGainResource", Context{PlayerID: "p1", Payload: map[string]any{
			"amount": 2, "allowedResourceIds": []string{"gold"},
		}})
		require.NoError(t, err)
		assert.Equal(t, KindOK, res.Kind)
		assert.Equal(t, 2, st.Players[0].Resources["gold"])
	})

	t.Run("multiple options require a response", func(t *testing.T) {
		st := testState(domain.ModeHotseat, player("p1", nil))
		res, err := reg.Execute(st, "chooseGainResource", Context{PlayerID: "p1", Payload: map[string]any{
			"amount": 3, "allowedResourceIds": []string{"gold", "wood"},
		}})
		require.NoError(t, err)
		require.Equal(t, KindPending, res.Kind)
		require.NotNil(t, res.Pending)
		assert.Equal(t, "p1", res.Pending.FromPlayerID)
		assert.Equal(t, "p1", res.Pending.ToPlayerID)

		spec, ok := reg.Get("chooseGainResource")
		require.True(t, ok)

		out := spec.Resolve(st, res.Pending, Choice{ResourceID: "gold"})
		assert.Equal(t, KindOK, out.Kind)
		assert.Equal(t, 3, st.Players[0].Resources["gold"])
	})

	t.Run("choice outside the whitelist is rejected", func(t *testing.T) {
		st := testState(domain.ModeHotseat, player("p1", nil))
		res, _ := reg.Execute(st, "chooseGainResource", Context{PlayerID: "p1", Payload: map[string]any{
			"allowedResourceIds": []string{"gold", "wood"},
		}})
		require.Equal(t, KindPending, res.Kind)

		spec, _ := reg.Get("chooseGainResource")
		out := spec.Resolve(st, res.Pending, Choice{ResourceID: "mithril"})
		assert.Equal(t, domain.CodeResourceNotAllowed, out.Code)
		assert.Empty(t, st.Players[0].Resources)
	})

	t.Run("skip grants nothing", func(t *testing.T) {
		st := testState(domain.ModeHotseat, player("p1", nil))
		res, _ := reg.Execute(st, "chooseGainResource", Context{PlayerID: "p1", Payload: map[string]any{
			"allowedResourceIds": []string{"gold", "wood"},
		}})
		spec, _ := reg.Get("chooseGainResource")
		out := spec.Resolve(st, res.Pending, Choice{Skip: true})
		assert.Equal(t, KindOK, out.Kind)
		assert.Empty(t, st.Players[0].Resources)
	})

	t.Run("amount survives a JSON round trip", func(t *testing.T) {
		// Persisted pending data comes back with float64 numbers.
		st := testState(domain.ModeHotseat, player("p1", nil))
		pending := &domain.PendingAction{
			MechanicID:   "chooseGainResource",
			FromPlayerID: "p1",
			ToPlayerID:   "p1",
			Data: map[string]any{
				"type":               "chooseGainResource",
				"amount":             float64(4),
				"allowedResourceIds": []any{"gold", "wood"},
			},
		}
		spec, _ := reg.Get("chooseGainResource")
		out := spec.Resolve(st, pending, Choice{ResourceID: "wood"})
		assert.Equal(t, KindOK, out.Kind)
		assert.Equal(t, 4, st.Players[0].Resources["wood"])
	})

	t.Run("non-positive amount is rejected", func(t *testing.T) {
		st := testState(domain.ModeHotseat, player("p1", nil))
		res, _ := reg.Execute(st, "chooseGainResource", Context{PlayerID: "p1", Payload: map[string]any{
			"amount": 0, "allowedResourceIds": []string{"gold"},
		}})
		assert.Equal(t, domain.CodeInvalidAmount, res.Code)
	})
}

func TestHarvestByPresence(t *testing.T) {
	reg := Default()

	t.Run("counts all placed workers", func(t *testing.T) {
		p := player("p1", nil)
		p.PlacedWorkers = map[string]int{"forest": 2, "mine": 1}
		st := testState(domain.ModeHotseat, p)
		res, err := reg.Execute(st, "harvestByPresence", Context{PlayerID: "p1", Payload: map[string]any{
			"resourceId": "wood", "perWorker": 1,
		}})
		require.NoError(t, err)
		assert.Equal(t, KindOK, res.Kind)
		assert.Equal(t, 3, p.Resources["wood"])
	})

	t.Run("filters by space ids", func(t *testing.T) {
		p := player("p1", nil)
		p.PlacedWorkers = map[string]int{"forest": 2, "mine": 1}
		st := testState(domain.ModeHotseat, p)
		res, _ := reg.Execute(st, "harvestByPresence", Context{PlayerID: "p1", Payload: map[string]any{
			"resourceId": "wood", "perWorker": 2, "spaceIds": []string{"forest"},
		}})
		assert.Equal(t, KindOK, res.Kind)
		assert.Equal(t, 4, p.Resources["wood"])
	})

	t.Run("no placed workers is a noop", func(t *testing.T) {
		st := testState(domain.ModeHotseat, player("p1", nil))
		res, _ := reg.Execute(st, "harvestByPresence", Context{PlayerID: "p1", Payload: map[string]any{
			"resourceId": "wood", "perWorker": 1,
		}})
		assert.Equal(t, KindNoop, res.Kind)
	})

	t.Run("requires a positive perWorker", func(t *testing.T) {
		st := testState(domain.ModeHotseat, player("p1", nil))
		res, _ := reg.Execute(st, "harvestByPresence", Context{PlayerID: "p1", Payload: map[string]any{
			"resourceId": "wood",
		}})
		assert.Equal(t, domain.CodeInvalidPayload, res.Code)
	})
}

func TestInteractiveTargeting(t *testing.T) {
	reg := Default()

	t.Run("hotseat auto-targets the only opponent", func(t *testing.T) {
		st := testState(domain.ModeHotseat, player("p1", nil), player("p2", nil))
		res, err := reg.Execute(st, "interactive", Context{PlayerID: "p1", Payload: map[string]any{
			"description": "steal something",
		}})
		require.NoError(t, err)
		require.Equal(t, KindPending, res.Kind)
		assert.Equal(t, "p2", res.Pending.ToPlayerID)
		assert.Equal(t, "p1", res.Pending.FromPlayerID)
	})

	t.Run("three hotseat players need an explicit target", func(t *testing.T) {
		st := testState(domain.ModeHotseat, player("p1", nil), player("p2", nil), player("p3", nil))
		res, _ := reg.Execute(st, "interactive", Context{PlayerID: "p1", Payload: nil})
		require.Equal(t, KindPending, res.Kind)
		assert.Empty(t, res.Pending.ToPlayerID)
	})

	t.Run("online rooms never auto-target", func(t *testing.T) {
		st := testState(domain.ModeOnline, player("p1", nil), player("p2", nil))
		res, _ := reg.Execute(st, "interactive", Context{PlayerID: "p1", Payload: nil})
		require.Equal(t, KindPending, res.Kind)
		assert.Empty(t, res.Pending.ToPlayerID)
	})

	t.Run("explicit target wins", func(t *testing.T) {
		st := testState(domain.ModeHotseat, player("p1", nil), player("p2", nil), player("p3", nil))
		res, _ := reg.Execute(st, "interactive", Context{PlayerID: "p1", Payload: map[string]any{
			"targetPlayerId": "p3",
		}})
		require.Equal(t, KindPending, res.Kind)
		assert.Equal(t, "p3", res.Pending.ToPlayerID)
	})
}

func TestTransferResolve(t *testing.T) {
	reg := Default()

	t.Run("strict transfer moves the resource", func(t *testing.T) {
		giver := player("p2", map[string]int{"gold": 3})
		taker := player("p1", nil)
		st := testState(domain.ModeHotseat, taker, giver)

		res, _ := reg.Execute(st, "chooseResourceFromPlayer", Context{PlayerID: "p1", Payload: map[string]any{"amount": 2}})
		require.Equal(t, KindPending, res.Kind)
		require.Equal(t, "p2", res.Pending.ToPlayerID)

		spec, _ := reg.Get("chooseResourceFromPlayer")
		out := spec.Resolve(st, res.Pending, Choice{ResourceID: "gold"})
		assert.Equal(t, KindOK, out.Kind)
		assert.Equal(t, 1, giver.Resources["gold"])
		assert.Equal(t, 2, taker.Resources["gold"])
	})

	t.Run("strict transfer fails on insufficient resources", func(t *testing.T) {
		giver := player("p2", map[string]int{"gold": 1})
		taker := player("p1", nil)
		st := testState(domain.ModeHotseat, taker, giver)

		res, _ := reg.Execute(st, "chooseResourceFromPlayer", Context{PlayerID: "p1", Payload: map[string]any{"amount": 2}})
		spec, _ := reg.Get("chooseResourceFromPlayer")
		out := spec.Resolve(st, res.Pending, Choice{ResourceID: "gold"})
		assert.Equal(t, domain.CodeInsufficientResources, out.Code)
		assert.Equal(t, 2, out.Details["requiredAmount"])
		assert.Equal(t, 1, out.Details["available"])
		assert.Equal(t, 1, giver.Resources["gold"])
		assert.Equal(t, 0, taker.Resources["gold"])
	})

	t.Run("strict transfer requires a resource choice", func(t *testing.T) {
		giver := player("p2", map[string]int{"gold": 1})
		taker := player("p1", nil)
		st := testState(domain.ModeHotseat, taker, giver)

		res, _ := reg.Execute(st, "chooseResourceFromPlayer", Context{PlayerID: "p1", Payload: nil})
		spec, _ := reg.Get("chooseResourceFromPlayer")
		out := spec.Resolve(st, res.Pending, Choice{})
		assert.Equal(t, domain.CodeInvalidChoice, out.Code)
	})

	t.Run("permissive transfer tolerates failure and omission", func(t *testing.T) {
		giver := player("p2", map[string]int{"gold": 1})
		taker := player("p1", nil)
		st := testState(domain.ModeHotseat, taker, giver)

		res, _ := reg.Execute(st, "interactive", Context{PlayerID: "p1", Payload: map[string]any{"amount": 5}})
		spec, _ := reg.Get("interactive")

		out := spec.Resolve(st, res.Pending, Choice{})
		assert.Equal(t, KindOK, out.Kind)

		out = spec.Resolve(st, res.Pending, Choice{ResourceID: "gold"})
		assert.Equal(t, KindOK, out.Kind)
		assert.Equal(t, 1, giver.Resources["gold"])
	})

	t.Run("skip resolves without a transfer", func(t *testing.T) {
		giver := player("p2", map[string]int{"gold": 3})
		taker := player("p1", nil)
		st := testState(domain.ModeHotseat, taker, giver)

		res, _ := reg.Execute(st, "chooseResourceFromPlayer", Context{PlayerID: "p1", Payload: map[string]any{"amount": 2}})
		spec, _ := reg.Get("chooseResourceFromPlayer")
		out := spec.Resolve(st, res.Pending, Choice{Skip: true})
		assert.Equal(t, KindOK, out.Kind)
		assert.Equal(t, 3, giver.Resources["gold"])
	})
}
