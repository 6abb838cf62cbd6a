package server

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"score-pad/internal/storage"
)

func newTestStore() *Store {
	return NewStore(storage.NewMemStore())
}

func makePlayers(count int) []PlayerInput {
	players := make([]PlayerInput, 0, count)
	for i := 0; i < count; i++ {
		players = append(players, PlayerInput{Name: fmt.Sprintf("Player %d", i+1)})
	}
	return players
}

func playerID(t *testing.T, game Game, name string) string {
	t.Helper()
	for _, player := range game.Players {
		if player.Name == name {
			return player.ID
		}
	}
	t.Fatalf("player %s not found in game %s", name, game.ID)
	return ""
}

func TestCreateGameRequiresTwoPlayers(t *testing.T) {
	store := newTestStore()

	_, err := store.CreateGame("", GameTypeClassic, makePlayers(1))
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for 1 player, got %v", err)
	}

	_, err = store.CreateGame("", GameTypeClassic, []PlayerInput{
		{Name: "Ana"}, {Name: "  ana "}, {Name: "   "},
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error after dedup, got %v", err)
	}

	game, err := store.CreateGame("Friday night", GameTypeClassic, []PlayerInput{
		{Name: "Ana"}, {Name: "Beto"},
	})
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	if game.Status != StatusOpen || len(game.Players) != 2 || len(game.Rounds) != 0 {
		t.Fatalf("unexpected new game %+v", game)
	}
	if game.Podrida != nil {
		t.Fatal("classic games must not carry podrida state")
	}
}

func TestCreateGameNormalizesPlayers(t *testing.T) {
	store := newTestStore()

	game, err := store.CreateGame("", GameTypeClassic, []PlayerInput{
		{Name: "  Ana   María ", Color: "4DABF7"},
		{Name: "Beto", Color: "not-a-color"},
	})
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	if game.Players[0].Name != "Ana María" {
		t.Fatalf("expected collapsed whitespace, got %q", game.Players[0].Name)
	}
	if game.Players[0].Color != "#4dabf7" {
		t.Fatalf("expected normalized color, got %q", game.Players[0].Color)
	}
	if game.Players[1].Color != defaultPlayerColor(1) {
		t.Fatalf("invalid color should fall back to palette, got %q", game.Players[1].Color)
	}
}

func TestCreateGamePodridaNeedsEnoughCards(t *testing.T) {
	store := newTestStore()

	// 20 players deal floor(48/20)=2 cards, below the 3-card opener.
	_, err := store.CreateGame("", GameTypePodrida, makePlayers(20))
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	game, err := store.CreateGame("", GameTypePodrida, makePlayers(4))
	if err != nil {
		t.Fatalf("create podrida game: %v", err)
	}
	if game.Podrida == nil || len(game.Podrida.PendingBetsByPlayerID) != 0 {
		t.Fatalf("expected empty podrida state, got %+v", game.Podrida)
	}
}

func TestAddRoundArithmetic(t *testing.T) {
	store := newTestStore()
	game, err := store.CreateGame("", GameTypeClassic, []PlayerInput{{Name: "Ana"}, {Name: "Beto"}})
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	ana := playerID(t, game, "Ana")

	game, err = store.AddRound(game.ID, ModeSet, map[string]float64{ana: 23})
	if err != nil {
		t.Fatalf("add set round: %v", err)
	}
	entry := game.Rounds[0].Entries[0]
	if entry.Delta != 23 || entry.TotalAfter != 23 {
		t.Fatalf("expected delta=23 total=23, got %+v", entry)
	}

	game, err = store.AddRound(game.ID, ModeAdd, map[string]float64{ana: 5})
	if err != nil {
		t.Fatalf("add add round: %v", err)
	}
	entry = game.Rounds[1].Entries[0]
	if entry.Delta != 5 || entry.TotalAfter != 28 {
		t.Fatalf("expected delta=5 total=28, got %+v", entry)
	}
	if totals := gameTotals(&game); totals[ana] != 28 {
		t.Fatalf("expected total 28, got %v", totals[ana])
	}
}

func TestAddRoundValidation(t *testing.T) {
	store := newTestStore()
	game, err := store.CreateGame("", GameTypeClassic, []PlayerInput{{Name: "Ana"}, {Name: "Beto"}})
	if err != nil {
		t.Fatalf("create game: %v", err)
	}

	if _, err := store.AddRound("game-missing", ModeAdd, map[string]float64{"x": 1}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := store.AddRound(game.ID, "multiply", map[string]float64{"x": 1}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for bad mode, got %v", err)
	}
	// Unknown players are filtered; an empty result is rejected.
	if _, err := store.AddRound(game.ID, ModeAdd, map[string]float64{"nobody": 3}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for empty round, got %v", err)
	}

	podrida, err := store.CreateGame("", GameTypePodrida, makePlayers(4))
	if err != nil {
		t.Fatalf("create podrida game: %v", err)
	}
	if _, err := store.AddRound(podrida.ID, ModeAdd, map[string]float64{"x": 1}); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected invalid state for podrida game, got %v", err)
	}

	if _, err := store.FinishGame(game.ID); err != nil {
		t.Fatalf("finish game: %v", err)
	}
	ana := playerID(t, game, "Ana")
	if _, err := store.AddRound(game.ID, ModeAdd, map[string]float64{ana: 1}); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected invalid state for finished game, got %v", err)
	}
}

func TestPodridaBetsAndRound(t *testing.T) {
	store := newTestStore()
	game, err := store.CreateGame("", GameTypePodrida, []PlayerInput{
		{Name: "Ana"}, {Name: "Beto"}, {Name: "Carla"}, {Name: "Dani"},
	})
	if err != nil {
		t.Fatalf("create podrida game: %v", err)
	}
	ana := playerID(t, game, "Ana")
	beto := playerID(t, game, "Beto")
	carla := playerID(t, game, "Carla")
	dani := playerID(t, game, "Dani")

	// Recording a round before bets are committed names the first player.
	_, err = store.AddPodridaRound(game.ID, map[string]float64{ana: 10, beto: 0, carla: 0, dani: 0})
	if !errors.Is(err, ErrValidation) || !strings.Contains(err.Error(), "Ana") {
		t.Fatalf("expected validation naming Ana, got %v", err)
	}

	// A missing bet is rejected with the player's name.
	_, err = store.SetPodridaBets(game.ID, map[string]float64{ana: 1, beto: 0, carla: 2})
	if !errors.Is(err, ErrValidation) || !strings.Contains(err.Error(), "Dani") {
		t.Fatalf("expected validation naming Dani, got %v", err)
	}

	// Fractional bets are not bets.
	_, err = store.SetPodridaBets(game.ID, map[string]float64{ana: 1.5, beto: 0, carla: 2, dani: 0})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation for fractional bet, got %v", err)
	}

	game, err = store.SetPodridaBets(game.ID, map[string]float64{ana: 1, beto: 0, carla: 2, dani: 0})
	if err != nil {
		t.Fatalf("set bets: %v", err)
	}
	if game.Podrida.PendingBetsByPlayerID[carla] != 2 {
		t.Fatalf("expected pending bet 2 for Carla, got %+v", game.Podrida.PendingBetsByPlayerID)
	}

	// A missing total is rejected with the player's name.
	_, err = store.AddPodridaRound(game.ID, map[string]float64{ana: 13, beto: 5, carla: 12})
	if !errors.Is(err, ErrValidation) || !strings.Contains(err.Error(), "Dani") {
		t.Fatalf("expected validation naming Dani, got %v", err)
	}

	game, err = store.AddPodridaRound(game.ID, map[string]float64{ana: 13, beto: 5, carla: 12, dani: 0})
	if err != nil {
		t.Fatalf("add podrida round: %v", err)
	}
	round := game.Rounds[0]
	if round.Type != GameTypePodrida || round.Mode != ModeSet {
		t.Fatalf("unexpected round %+v", round)
	}
	if round.CardsCount != 3 {
		t.Fatalf("first podrida round deals 3 cards, got %d", round.CardsCount)
	}
	if round.BetsByPlayerID[ana] != 1 || round.BetsByPlayerID[dani] != 0 {
		t.Fatalf("unexpected resolved bets %+v", round.BetsByPlayerID)
	}
	if len(game.Podrida.PendingBetsByPlayerID) != 0 {
		t.Fatalf("pending bets must reset, got %+v", game.Podrida.PendingBetsByPlayerID)
	}
	totals := gameTotals(&game)
	if totals[ana] != 13 || totals[dani] != 0 {
		t.Fatalf("unexpected totals %+v", totals)
	}

	if _, ok := nextPodridaCards(&game); !ok {
		t.Fatal("expected a next round after the first")
	}
}

func TestPodridaSequenceExhaustion(t *testing.T) {
	store := newTestStore()
	// 16 players deal 3 cards at most: the whole match is 3,2,1.
	game, err := store.CreateGame("", GameTypePodrida, makePlayers(16))
	if err != nil {
		t.Fatalf("create podrida game: %v", err)
	}

	for roundNo := 0; roundNo < 3; roundNo++ {
		bets := map[string]float64{}
		totals := map[string]float64{}
		for _, player := range game.Players {
			bets[player.ID] = 0
			totals[player.ID] = float64(roundNo)
		}
		if _, err := store.SetPodridaBets(game.ID, bets); err != nil {
			t.Fatalf("round %d bets: %v", roundNo, err)
		}
		if game, err = store.AddPodridaRound(game.ID, totals); err != nil {
			t.Fatalf("round %d: %v", roundNo, err)
		}
	}

	if game.Rounds[0].CardsCount != 3 || game.Rounds[1].CardsCount != 2 || game.Rounds[2].CardsCount != 1 {
		t.Fatalf("unexpected card counts %d %d %d",
			game.Rounds[0].CardsCount, game.Rounds[1].CardsCount, game.Rounds[2].CardsCount)
	}

	bets := map[string]float64{}
	for _, player := range game.Players {
		bets[player.ID] = 0
	}
	if _, err := store.SetPodridaBets(game.ID, bets); !errors.Is(err, ErrSequenceExhausted) {
		t.Fatalf("expected sequence exhausted, got %v", err)
	}
	if _, err := store.AddPodridaRound(game.ID, map[string]float64{}); !errors.Is(err, ErrSequenceExhausted) {
		t.Fatalf("expected sequence exhausted, got %v", err)
	}
}

func TestFinishGameIdempotent(t *testing.T) {
	store := newTestStore()
	game, err := store.CreateGame("", GameTypeClassic, makePlayers(2))
	if err != nil {
		t.Fatalf("create game: %v", err)
	}

	finished, err := store.FinishGame(game.ID)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if finished.Status != StatusFinished || finished.FinishedAt == nil {
		t.Fatalf("unexpected finished game %+v", finished)
	}

	again, err := store.FinishGame(game.ID)
	if err != nil {
		t.Fatalf("second finish: %v", err)
	}
	if !again.FinishedAt.Equal(*finished.FinishedAt) {
		t.Fatalf("second finish must not re-stamp: %v vs %v", again.FinishedAt, finished.FinishedAt)
	}

	if _, err := store.FinishGame("game-missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteOpenGame(t *testing.T) {
	store := newTestStore()
	open, err := store.CreateGame("", GameTypeClassic, makePlayers(2))
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	finished, err := store.CreateGame("", GameTypeClassic, makePlayers(3))
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	if _, err := store.FinishGame(finished.ID); err != nil {
		t.Fatalf("finish: %v", err)
	}

	if err := store.DeleteOpenGame(finished.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected invalid state deleting finished game, got %v", err)
	}
	if err := store.DeleteOpenGame("game-missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := store.DeleteOpenGame(open.ID); err != nil {
		t.Fatalf("delete open game: %v", err)
	}

	games, err := store.Games()
	if err != nil {
		t.Fatalf("games: %v", err)
	}
	for _, game := range games {
		if game.ID == open.ID {
			t.Fatal("deleted game still listed")
		}
	}
}

func TestGamesNewestFirst(t *testing.T) {
	store := newTestStore()
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return base }
	first, err := store.CreateGame("first", GameTypeClassic, makePlayers(2))
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	store.now = func() time.Time { return base.Add(time.Hour) }
	second, err := store.CreateGame("second", GameTypeClassic, makePlayers(2))
	if err != nil {
		t.Fatalf("create game: %v", err)
	}

	games, err := store.Games()
	if err != nil {
		t.Fatalf("games: %v", err)
	}
	if len(games) != 2 || games[0].ID != second.ID || games[1].ID != first.ID {
		t.Fatalf("expected newest first, got %v then %v", games[0].Name, games[1].Name)
	}
}

func TestRecentPlayersRecencyAndIdentity(t *testing.T) {
	store := newTestStore()
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return base }
	game1, err := store.CreateGame("", GameTypeClassic, []PlayerInput{{Name: "Ana"}, {Name: "Beto"}})
	if err != nil {
		t.Fatalf("create game: %v", err)
	}

	store.now = func() time.Time { return base.Add(time.Hour) }
	if _, err := store.CreateGame("", GameTypeClassic, []PlayerInput{{Name: "Carla"}, {Name: "Dani"}}); err != nil {
		t.Fatalf("create game: %v", err)
	}

	players, err := store.RecentPlayers(1)
	if err != nil {
		t.Fatalf("recent players: %v", err)
	}
	if len(players) != 1 || players[0].Name != "Carla" {
		t.Fatalf("expected most recent player Carla, got %+v", players)
	}

	// Reusing a name refreshes recency but keeps the original entry ID.
	store.now = func() time.Time { return base.Add(2 * time.Hour) }
	if _, err := store.CreateGame("", GameTypeClassic, []PlayerInput{{Name: "ANA"}, {Name: "Eli"}}); err != nil {
		t.Fatalf("create game: %v", err)
	}
	players, err = store.RecentPlayers(10)
	if err != nil {
		t.Fatalf("recent players: %v", err)
	}
	if players[0].Name != "Ana" {
		t.Fatalf("expected Ana refreshed to most recent, got %+v", players[0])
	}
	if players[0].ID != playerID(t, game1, "Ana") {
		t.Fatalf("expected original recent-player ID preserved, got %s", players[0].ID)
	}
}

func TestRecentPlayersCapped(t *testing.T) {
	store := newTestStore()
	for i := 0; i < 15; i++ {
		players := []PlayerInput{
			{Name: fmt.Sprintf("Left %d", i)},
			{Name: fmt.Sprintf("Right %d", i)},
		}
		if _, err := store.CreateGame("", GameTypeClassic, players); err != nil {
			t.Fatalf("create game %d: %v", i, err)
		}
	}
	players, err := store.RecentPlayers(100)
	if err != nil {
		t.Fatalf("recent players: %v", err)
	}
	if len(players) != recentPlayersCap {
		t.Fatalf("expected cache capped at %d, got %d", recentPlayersCap, len(players))
	}
}

func TestSnapshotSurvivesStoreRestart(t *testing.T) {
	kv := storage.NewMemStore()
	store := NewStore(kv)
	game, err := store.CreateGame("Friday", GameTypeClassic, makePlayers(2))
	if err != nil {
		t.Fatalf("create game: %v", err)
	}

	reopened := NewStore(kv)
	loaded, err := reopened.GameByID(game.ID)
	if err != nil {
		t.Fatalf("load after restart: %v", err)
	}
	if loaded.Name != "Friday" || len(loaded.Players) != 2 {
		t.Fatalf("unexpected reloaded game %+v", loaded)
	}
}
