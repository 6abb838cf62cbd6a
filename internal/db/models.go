package db

import (
	"time"

	"gorm.io/datatypes"
)

type Game struct {
	ID         uint       `gorm:"primaryKey"`
	StoreID    string     `gorm:"size:64;uniqueIndex;not null"`
	Name       string     `gorm:"size:120"`
	Type       string     `gorm:"size:16;not null"`
	Status     string     `gorm:"size:16;not null"`
	FinishedAt *time.Time `gorm:"index"`
	CreatedAt  time.Time  `gorm:"not null"`
	UpdatedAt  time.Time  `gorm:"not null"`
	Players    []Player
	Rounds     []Round
	Events     []Event
}

type Player struct {
	ID        uint      `gorm:"primaryKey"`
	GameID    uint      `gorm:"index;not null"`
	StoreID   string    `gorm:"size:64;not null;uniqueIndex:idx_players_game_store"`
	Name      string    `gorm:"size:64;not null"`
	Color     string    `gorm:"size:8"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type Round struct {
	ID         uint           `gorm:"primaryKey"`
	GameID     uint           `gorm:"index;not null"`
	StoreID    string         `gorm:"size:64;uniqueIndex;not null"`
	Mode       string         `gorm:"size:8;not null"`
	Type       string         `gorm:"size:16;not null"`
	CardsCount int            `gorm:"not null;default:0"`
	Bets       datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt  time.Time      `gorm:"not null"`
	UpdatedAt  time.Time      `gorm:"not null"`
	Entries    []RoundEntry
}

type RoundEntry struct {
	ID            uint      `gorm:"primaryKey"`
	RoundID       uint      `gorm:"index;not null"`
	PlayerStoreID string    `gorm:"size:64;not null"`
	Delta         float64   `gorm:"not null"`
	TotalAfter    float64   `gorm:"not null"`
	CreatedAt     time.Time `gorm:"not null"`
}

type RecentPlayer struct {
	ID         uint      `gorm:"primaryKey"`
	StoreID    string    `gorm:"size:64;uniqueIndex;not null"`
	Name       string    `gorm:"size:64;not null"`
	Color      string    `gorm:"size:8"`
	LastUsedAt time.Time `gorm:"not null"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

type Event struct {
	ID        uint           `gorm:"primaryKey"`
	GameID    uint           `gorm:"index;not null"`
	Type      string         `gorm:"size:64;not null"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"not null"`
}
