package domain

// PlayerByID returns the player with the given id, or nil.
func (s *GameState) PlayerByID(playerID string) *Player {
	for _, p := range s.Players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

// SpaceByID returns the board space with the given id, or nil.
func (s *GameState) SpaceByID(spaceID string) *BoardSpace {
	for _, sp := range s.Board {
		if sp.ID == spaceID {
			return sp
		}
	}
	return nil
}

// OtherPlayers returns every player except the given one, in seat order.
func (s *GameState) OtherPlayers(playerID string) []*Player {
	others := make([]*Player, 0, len(s.Players))
	for _, p := range s.Players {
		if p.ID != playerID {
			others = append(others, p)
		}
	}
	return others
}

// ResourceByID returns the catalog entry with the given id, or nil.
func (s *GameState) ResourceByID(resourceID string) *Resource {
	for i := range s.Resources {
		if s.Resources[i].ID == resourceID {
			return &s.Resources[i]
		}
	}
	return nil
}
