package server

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"score-pad/internal/storage"
)

const (
	snapshotKey               = "score-pad:v1"
	defaultRecentPlayersLimit = 10
)

// PlayerInput is one player as submitted at game creation.
type PlayerInput struct {
	Name  string
	Color string
}

// Store is the game repository. Every operation is a full
// read-modify-write cycle over the single AppData snapshot held in the
// KV store; on failure the snapshot is left untouched.
type Store struct {
	mu  sync.Mutex
	kv  storage.KV
	now func() time.Time
}

func NewStore(kv storage.KV) *Store {
	return &Store{
		kv:  kv,
		now: timeNowUTC,
	}
}

func timeNowUTC() time.Time {
	return time.Now().UTC()
}

func (s *Store) load() (AppData, error) {
	raw, ok, err := s.kv.Get(snapshotKey)
	if err != nil {
		return AppData{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if !ok {
		return AppData{}, nil
	}
	var data AppData
	if err := json.Unmarshal(raw, &data); err != nil {
		return AppData{}, fmt.Errorf("%w: corrupt snapshot: %v", ErrStorage, err)
	}
	return data, nil
}

func (s *Store) save(data AppData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if err := s.kv.Set(snapshotKey, raw); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

// CreateGame normalizes and dedupes the submitted players, validates the
// roster for the chosen game type, persists the new game, and refreshes
// the recent-players cache with every accepted player.
func (s *Store) CreateGame(name, gameType string, players []PlayerInput) (Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gameType != GameTypeClassic && gameType != GameTypePodrida {
		return Game{}, fmt.Errorf("%w: unknown game type %q", ErrValidation, gameType)
	}

	accepted := make([]Player, 0, len(players))
	seen := make(map[string]struct{}, len(players))
	for _, input := range players {
		playerName := normalizeName(input.Name)
		if playerName == "" {
			continue
		}
		key := strings.ToLower(playerName)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		color := normalizeColor(input.Color)
		if color == "" {
			color = defaultPlayerColor(len(accepted))
		}
		accepted = append(accepted, Player{
			ID:    newID("player"),
			Name:  playerName,
			Color: color,
		})
	}
	if len(accepted) < 2 {
		return Game{}, fmt.Errorf("%w: at least 2 players are required", ErrValidation)
	}
	if gameType == GameTypePodrida {
		if maxCards := podridaMaxCards(len(accepted)); maxCards < podridaStartingHand {
			return Game{}, fmt.Errorf("%w: %d players deal only %d cards per round, podrida needs at least %d",
				ErrValidation, len(accepted), maxCards, podridaStartingHand)
		}
	}

	data, err := s.load()
	if err != nil {
		return Game{}, err
	}

	now := s.now()
	game := Game{
		ID:        newID("game"),
		Name:      normalizeName(name),
		Type:      gameType,
		Players:   accepted,
		Rounds:    []Round{},
		Status:    StatusOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if gameType == GameTypePodrida {
		game.Podrida = &PodridaState{PendingBetsByPlayerID: map[string]int{}}
	}
	data.Games = append(data.Games, game)
	upsertRecentPlayers(&data, accepted, now)

	if err := s.save(data); err != nil {
		return Game{}, err
	}
	return game, nil
}

// upsertRecentPlayers refreshes the cross-game recent-players cache:
// matches are by lowercase name, the original ID survives updates, and
// the cache is capped by recency.
func upsertRecentPlayers(data *AppData, players []Player, now time.Time) {
	for _, player := range players {
		key := strings.ToLower(player.Name)
		found := false
		for i := range data.RecentPlayers {
			if strings.ToLower(data.RecentPlayers[i].Name) == key {
				data.RecentPlayers[i].LastUsedAt = now
				if player.Color != "" {
					data.RecentPlayers[i].Color = player.Color
				}
				found = true
				break
			}
		}
		if !found {
			data.RecentPlayers = append(data.RecentPlayers, RecentPlayer{
				ID:         player.ID,
				Name:       player.Name,
				Color:      player.Color,
				LastUsedAt: now,
			})
		}
	}
	sort.SliceStable(data.RecentPlayers, func(i, j int) bool {
		return data.RecentPlayers[i].LastUsedAt.After(data.RecentPlayers[j].LastUsedAt)
	})
	if len(data.RecentPlayers) > recentPlayersCap {
		data.RecentPlayers = data.RecentPlayers[:recentPlayersCap]
	}
}

// AddRound appends a classic scoring round. Mode "add" treats each value
// as a delta against the player's current total, mode "set" as the new
// absolute total. Unknown players and non-finite values are dropped.
func (s *Store) AddRound(gameID, mode string, values map[string]float64) (Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if mode != ModeAdd && mode != ModeSet {
		return Game{}, fmt.Errorf("%w: unknown round mode %q", ErrValidation, mode)
	}

	data, err := s.load()
	if err != nil {
		return Game{}, err
	}
	game, index, err := findGame(&data, gameID)
	if err != nil {
		return Game{}, err
	}
	if game.Status == StatusFinished {
		return Game{}, fmt.Errorf("%w: game is finished", ErrInvalidState)
	}
	if game.Type != GameTypeClassic {
		return Game{}, fmt.Errorf("%w: not a classic game", ErrInvalidState)
	}

	totals := gameTotals(game)
	entries := make([]RoundEntry, 0, len(game.Players))
	for _, player := range game.Players {
		value, ok := values[player.ID]
		if !ok || !isFinite(value) {
			continue
		}
		current := totals[player.ID]
		nextTotal := value
		if mode == ModeAdd {
			nextTotal = current + value
		}
		entries = append(entries, RoundEntry{
			PlayerID:   player.ID,
			Delta:      nextTotal - current,
			TotalAfter: nextTotal,
		})
	}
	if len(entries) == 0 {
		return Game{}, fmt.Errorf("%w: no scores to save", ErrValidation)
	}

	now := s.now()
	game.Rounds = append(game.Rounds, Round{
		ID:        newID("round"),
		CreatedAt: now,
		Mode:      mode,
		Type:      GameTypeClassic,
		Entries:   entries,
	})
	game.UpdatedAt = now
	data.Games[index] = *game

	if err := s.save(data); err != nil {
		return Game{}, err
	}
	return *game, nil
}

// SetPodridaBets replaces the pending bets for the next podrida round.
// Every current player must bet an integer; no round is created here.
func (s *Store) SetPodridaBets(gameID string, bets map[string]float64) (Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return Game{}, err
	}
	game, index, err := s.podridaGameForWrite(&data, gameID)
	if err != nil {
		return Game{}, err
	}

	pending := make(map[string]int, len(game.Players))
	for _, player := range game.Players {
		value, ok := bets[player.ID]
		if !ok || !isInteger(value) {
			return Game{}, fmt.Errorf("%w: a bet for %s is required", ErrValidation, player.Name)
		}
		pending[player.ID] = int(value)
	}

	now := s.now()
	game.Podrida.PendingBetsByPlayerID = pending
	game.UpdatedAt = now
	data.Games[index] = *game

	if err := s.save(data); err != nil {
		return Game{}, err
	}
	return *game, nil
}

// AddPodridaRound resolves the pending bets into a new podrida round.
// Every player needs a previously committed bet and a finite total in
// the input; entries are recorded in set mode against the submitted
// totals, and the pending bets are cleared.
func (s *Store) AddPodridaRound(gameID string, totals map[string]float64) (Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return Game{}, err
	}
	game, index, err := s.podridaGameForWrite(&data, gameID)
	if err != nil {
		return Game{}, err
	}
	cards, ok := nextPodridaCards(game)
	if !ok {
		return Game{}, ErrSequenceExhausted
	}

	pending := game.Podrida.PendingBetsByPlayerID
	bets := make(map[string]int, len(game.Players))
	for _, player := range game.Players {
		bet, ok := pending[player.ID]
		if !ok {
			return Game{}, fmt.Errorf("%w: a bet for %s is required", ErrValidation, player.Name)
		}
		bets[player.ID] = bet
	}

	current := gameTotals(game)
	entries := make([]RoundEntry, 0, len(game.Players))
	for _, player := range game.Players {
		value, ok := totals[player.ID]
		if !ok || !isFinite(value) {
			return Game{}, fmt.Errorf("%w: a total for %s is required", ErrValidation, player.Name)
		}
		entries = append(entries, RoundEntry{
			PlayerID:   player.ID,
			Delta:      value - current[player.ID],
			TotalAfter: value,
		})
	}

	now := s.now()
	game.Rounds = append(game.Rounds, Round{
		ID:             newID("round"),
		CreatedAt:      now,
		Mode:           ModeSet,
		Type:           GameTypePodrida,
		Entries:        entries,
		CardsCount:     cards,
		BetsByPlayerID: bets,
	})
	game.Podrida.PendingBetsByPlayerID = map[string]int{}
	game.UpdatedAt = now
	data.Games[index] = *game

	if err := s.save(data); err != nil {
		return Game{}, err
	}
	return *game, nil
}

// FinishGame marks a game finished. Finishing an already finished game
// is a no-op that returns the game unchanged.
func (s *Store) FinishGame(gameID string) (Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return Game{}, err
	}
	game, index, err := findGame(&data, gameID)
	if err != nil {
		return Game{}, err
	}
	if game.Status == StatusFinished {
		return *game, nil
	}

	now := s.now()
	game.Status = StatusFinished
	game.FinishedAt = &now
	game.UpdatedAt = now
	data.Games[index] = *game

	if err := s.save(data); err != nil {
		return Game{}, err
	}
	return *game, nil
}

// DeleteOpenGame removes an open game and its history. Finished games
// cannot be deleted.
func (s *Store) DeleteOpenGame(gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}
	game, index, err := findGame(&data, gameID)
	if err != nil {
		return err
	}
	if game.Status != StatusOpen {
		return fmt.Errorf("%w: only open games can be deleted", ErrInvalidState)
	}
	data.Games = append(data.Games[:index], data.Games[index+1:]...)
	return s.save(data)
}

// Games returns every game, newest first.
func (s *Store) Games() ([]Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return nil, err
	}
	games := make([]Game, len(data.Games))
	copy(games, data.Games)
	sort.SliceStable(games, func(i, j int) bool {
		return games[i].CreatedAt.After(games[j].CreatedAt)
	})
	return games, nil
}

func (s *Store) GameByID(gameID string) (Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return Game{}, err
	}
	game, _, err := findGame(&data, gameID)
	if err != nil {
		return Game{}, err
	}
	return *game, nil
}

// RecentPlayers returns cached players by most recent use. A limit of
// zero or less falls back to the default.
func (s *Store) RecentPlayers(limit int) ([]RecentPlayer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultRecentPlayersLimit
	}
	players := make([]RecentPlayer, len(data.RecentPlayers))
	copy(players, data.RecentPlayers)
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].LastUsedAt.After(players[j].LastUsedAt)
	})
	if len(players) > limit {
		players = players[:limit]
	}
	return players, nil
}

// podridaGameForWrite loads a podrida game that can still accept rounds.
func (s *Store) podridaGameForWrite(data *AppData, gameID string) (*Game, int, error) {
	game, index, err := findGame(data, gameID)
	if err != nil {
		return nil, 0, err
	}
	if game.Status == StatusFinished {
		return nil, 0, fmt.Errorf("%w: game is finished", ErrInvalidState)
	}
	if game.Type != GameTypePodrida || game.Podrida == nil {
		return nil, 0, fmt.Errorf("%w: not a podrida game", ErrInvalidState)
	}
	if _, ok := nextPodridaCards(game); !ok {
		return nil, 0, ErrSequenceExhausted
	}
	return game, index, nil
}

func findGame(data *AppData, gameID string) (*Game, int, error) {
	for i := range data.Games {
		if data.Games[i].ID == gameID {
			return &data.Games[i], i, nil
		}
	}
	return nil, 0, fmt.Errorf("%w: game %s", ErrNotFound, gameID)
}

func isFinite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}

func isInteger(value float64) bool {
	return isFinite(value) && value == math.Trunc(value)
}
