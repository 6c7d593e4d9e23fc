package domain

// SetupTemplate is a reusable {resources, board} starting configuration with
// all runtime fields stripped. Players are never part of a template.
type SetupTemplate struct {
	Resources []Resource   `json:"resources"`
	Board     []BoardSpace `json:"board"`
}

// ToSetup extracts a reusable template from a state, dropping currentWorkers
// and players.
func ToSetup(state *GameState) SetupTemplate {
	tpl := SetupTemplate{
		Resources: make([]Resource, len(state.Resources)),
		Board:     make([]BoardSpace, 0, len(state.Board)),
	}
	copy(tpl.Resources, state.Resources)
	for _, sp := range state.Board {
		tpl.Board = append(tpl.Board, BoardSpace{
			ID:          sp.ID,
			Name:        sp.Name,
			Description: sp.Description,
			Capacity:    sp.Capacity,
			Effect:      sp.Effect,
		})
	}
	return tpl
}

// NewGameState builds a fresh state from resources, board and players. Board
// worker counts are reset, player placedWorkers maps normalized, and the
// first player becomes active.
func NewGameState(resources []Resource, board []BoardSpace, players []*Player, mode GameMode) *GameState {
	st := &GameState{
		Resources:   resources,
		Board:       make([]*BoardSpace, 0, len(board)),
		Players:     players,
		CurrentTurn: 0,
		Mode:        mode,
	}
	for i := range board {
		sp := board[i]
		sp.CurrentWorkers = 0
		st.Board = append(st.Board, &sp)
	}
	for _, p := range players {
		if p.Resources == nil {
			p.Resources = make(map[string]int)
		}
		if p.PlacedWorkers == nil {
			p.PlacedWorkers = make(map[string]int)
		}
	}
	if len(players) > 0 {
		st.ActivePlayerID = players[0].ID
	}
	return st
}

// NewGameStateFromSetup instantiates a template for a fresh set of players.
func NewGameStateFromSetup(tpl SetupTemplate, players []*Player, mode GameMode) *GameState {
	return NewGameState(tpl.Resources, tpl.Board, players, mode)
}
