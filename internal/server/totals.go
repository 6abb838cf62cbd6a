package server

// gameTotals folds the round history into the current total per player.
// Every player starts at 0; each entry sets the player's total to its
// TotalAfter. Deltas are never summed.
func gameTotals(game *Game) map[string]float64 {
	totals := make(map[string]float64, len(game.Players))
	for _, player := range game.Players {
		totals[player.ID] = 0
	}
	for _, round := range game.Rounds {
		for _, entry := range round.Entries {
			totals[entry.PlayerID] = entry.TotalAfter
		}
	}
	return totals
}
