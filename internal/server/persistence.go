package server

import (
	"encoding/json"
	"log"

	"score-pad/internal/db"

	"gorm.io/datatypes"
	"gorm.io/gorm/clause"
)

// The archive mirrors the snapshot into Postgres for reporting. The
// snapshot stays authoritative: archive failures are logged, never
// surfaced to the caller, and a nil connection disables the whole layer.

func (s *Server) archiveGameCreated(game Game) {
	if s.db == nil {
		return
	}
	record := db.Game{
		StoreID: game.ID,
		Name:    game.Name,
		Type:    game.Type,
		Status:  game.Status,
	}
	if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&record).Error; err != nil {
		log.Printf("archive game failed game_id=%s error=%v", game.ID, err)
		return
	}
	for _, player := range game.Players {
		row := db.Player{
			GameID:  record.ID,
			StoreID: player.ID,
			Name:    player.Name,
			Color:   player.Color,
		}
		if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
			log.Printf("archive player failed game_id=%s player=%s error=%v", game.ID, player.Name, err)
		}
	}
	s.archiveRecentPlayers(game.Players)
	s.archiveEvent(record.ID, "game_created", map[string]any{
		"game_id": game.ID,
		"type":    game.Type,
		"players": len(game.Players),
	})
}

func (s *Server) archiveRecentPlayers(players []Player) {
	if s.db == nil {
		return
	}
	now := timeNowUTC()
	for _, player := range players {
		row := db.RecentPlayer{
			StoreID:    player.ID,
			Name:       player.Name,
			Color:      player.Color,
			LastUsedAt: now,
		}
		err := s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "store_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "color", "last_used_at"}),
		}).Create(&row).Error
		if err != nil {
			log.Printf("archive recent player failed player=%s error=%v", player.Name, err)
		}
	}
}

// archiveRound records the newest round of the game.
func (s *Server) archiveRound(game Game) {
	if s.db == nil || len(game.Rounds) == 0 {
		return
	}
	gameID, ok := s.archiveGameID(game)
	if !ok {
		return
	}
	round := game.Rounds[len(game.Rounds)-1]
	record := db.Round{
		GameID:     gameID,
		StoreID:    round.ID,
		Mode:       round.Mode,
		Type:       round.Type,
		CardsCount: round.CardsCount,
	}
	if len(round.BetsByPlayerID) > 0 {
		if data, err := json.Marshal(round.BetsByPlayerID); err == nil {
			record.Bets = datatypes.JSON(data)
		}
	}
	if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&record).Error; err != nil {
		log.Printf("archive round failed game_id=%s error=%v", game.ID, err)
		return
	}
	for _, entry := range round.Entries {
		row := db.RoundEntry{
			RoundID:       record.ID,
			PlayerStoreID: entry.PlayerID,
			Delta:         entry.Delta,
			TotalAfter:    entry.TotalAfter,
		}
		if err := s.db.Create(&row).Error; err != nil {
			log.Printf("archive round entry failed game_id=%s error=%v", game.ID, err)
		}
	}
	s.archiveEvent(gameID, "round_added", map[string]any{
		"game_id":  game.ID,
		"round_id": round.ID,
		"type":     round.Type,
		"mode":     round.Mode,
		"cards":    round.CardsCount,
	})
}

func (s *Server) archiveBets(game Game) {
	if s.db == nil || game.Podrida == nil {
		return
	}
	gameID, ok := s.archiveGameID(game)
	if !ok {
		return
	}
	s.archiveEvent(gameID, "bets_set", map[string]any{
		"game_id": game.ID,
		"bets":    game.Podrida.PendingBetsByPlayerID,
	})
}

func (s *Server) archiveFinish(game Game) {
	if s.db == nil {
		return
	}
	gameID, ok := s.archiveGameID(game)
	if !ok {
		return
	}
	updates := map[string]any{
		"status":      game.Status,
		"finished_at": game.FinishedAt,
	}
	if err := s.db.Model(&db.Game{}).Where("id = ?", gameID).Updates(updates).Error; err != nil {
		log.Printf("archive finish failed game_id=%s error=%v", game.ID, err)
		return
	}
	s.archiveEvent(gameID, "game_finished", map[string]any{
		"game_id": game.ID,
	})
}

func (s *Server) archiveDelete(storeID string) {
	if s.db == nil {
		return
	}
	var record db.Game
	if err := s.db.Where("store_id = ?", storeID).First(&record).Error; err != nil {
		return
	}
	if err := s.db.Model(&db.Game{}).Where("id = ?", record.ID).Update("status", "deleted").Error; err != nil {
		log.Printf("archive delete failed game_id=%s error=%v", storeID, err)
		return
	}
	s.archiveEvent(record.ID, "game_deleted", map[string]any{
		"game_id": storeID,
	})
}

func (s *Server) archiveEvent(gameID uint, eventType string, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	event := db.Event{
		GameID:  gameID,
		Type:    eventType,
		Payload: datatypes.JSON(data),
	}
	if err := s.db.Create(&event).Error; err != nil {
		log.Printf("archive event failed type=%s error=%v", eventType, err)
	}
}

func (s *Server) archiveGameID(game Game) (uint, bool) {
	var record db.Game
	if err := s.db.Where("store_id = ?", game.ID).First(&record).Error; err != nil {
		return 0, false
	}
	return record.ID, true
}
