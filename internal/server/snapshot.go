package server

// gamePayload is the wire shape for a single game: the stored record
// plus everything the scoreboard derives from it.
func gamePayload(game Game) map[string]any {
	totals := gameTotals(&game)
	players := make([]map[string]any, 0, len(game.Players))
	for _, player := range game.Players {
		players = append(players, map[string]any{
			"id":    player.ID,
			"name":  player.Name,
			"color": player.Color,
			"total": totals[player.ID],
		})
	}
	payload := map[string]any{
		"id":         game.ID,
		"name":       game.Name,
		"type":       game.Type,
		"status":     game.Status,
		"created_at": game.CreatedAt,
		"updated_at": game.UpdatedAt,
		"players":    players,
		"rounds":     game.Rounds,
		"totals":     totals,
	}
	if game.FinishedAt != nil {
		payload["finished_at"] = game.FinishedAt
	}
	if game.Type == GameTypePodrida && game.Podrida != nil {
		payload["pending_bets"] = game.Podrida.PendingBetsByPlayerID
		payload["cards_sequence"] = podridaCardsSequence(len(game.Players))
		if cards, ok := nextPodridaCards(&game); ok {
			payload["next_cards"] = cards
		} else {
			payload["next_cards"] = nil
		}
	}
	return payload
}

func gameSummary(game Game) map[string]any {
	summary := map[string]any{
		"id":         game.ID,
		"name":       game.Name,
		"type":       game.Type,
		"status":     game.Status,
		"players":    len(game.Players),
		"rounds":     len(game.Rounds),
		"created_at": game.CreatedAt,
		"updated_at": game.UpdatedAt,
	}
	if game.FinishedAt != nil {
		summary["finished_at"] = game.FinishedAt
	}
	return summary
}

// homePayload splits the game list for the home page: open games first
// section, finished games the other. Input is already newest-first.
func homePayload(games []Game) map[string]any {
	open := make([]map[string]any, 0, len(games))
	finished := make([]map[string]any, 0, len(games))
	for _, game := range games {
		if game.Status == StatusOpen {
			open = append(open, gameSummary(game))
		} else {
			finished = append(finished, gameSummary(game))
		}
	}
	return map[string]any{
		"open":     open,
		"finished": finished,
	}
}
