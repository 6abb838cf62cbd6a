package server

import "time"

const (
	GameTypeClassic = "classic"
	GameTypePodrida = "podrida"
)

const (
	StatusOpen     = "open"
	StatusFinished = "finished"
)

const (
	ModeAdd = "add"
	ModeSet = "set"
)

const (
	podridaDeckSize     = 48
	podridaStartingHand = 3
	recentPlayersCap    = 20
)

type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

type RecentPlayer struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Color      string    `json:"color,omitempty"`
	LastUsedAt time.Time `json:"last_used_at"`
}

type RoundEntry struct {
	PlayerID string `json:"player_id"`
	// Delta is historical display data; TotalAfter is the authoritative
	// running total and the only field totals are derived from.
	Delta      float64 `json:"delta"`
	TotalAfter float64 `json:"total_after"`
}

type Round struct {
	ID        string       `json:"id"`
	CreatedAt time.Time    `json:"created_at"`
	Mode      string       `json:"mode"`
	Type      string       `json:"type"`
	Entries   []RoundEntry `json:"entries"`
	// Podrida rounds only.
	CardsCount     int            `json:"cards_count,omitempty"`
	BetsByPlayerID map[string]int `json:"bets_by_player_id,omitempty"`
}

// PodridaState holds the bets committed for the next round, before that
// round is recorded. Reset to empty when the round closes.
type PodridaState struct {
	PendingBetsByPlayerID map[string]int `json:"pending_bets_by_player_id"`
}

type Game struct {
	ID         string     `json:"id"`
	Name       string     `json:"name,omitempty"`
	Type       string     `json:"type"`
	Players    []Player   `json:"players"`
	Rounds     []Round    `json:"rounds"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	// Non-nil iff Type is podrida.
	Podrida *PodridaState `json:"podrida_state,omitempty"`
}

// AppData is the full persisted snapshot. Games carry no on-disk order;
// reads sort by CreatedAt descending.
type AppData struct {
	Games         []Game         `json:"games"`
	RecentPlayers []RecentPlayer `json:"recent_players"`
}
