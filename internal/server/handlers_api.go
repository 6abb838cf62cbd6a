package server

import (
	"log"
	"net/http"
	"strconv"
)

type playerInput struct {
	Name  string `json:"name" validate:"required,max=40"`
	Color string `json:"color" validate:"omitempty,color"`
}

type createGameRequest struct {
	Name    string        `json:"name" validate:"omitempty,max=60"`
	Type    string        `json:"type" validate:"required,oneof=classic podrida"`
	Players []playerInput `json:"players" validate:"required,min=1,dive"`
}

type addRoundRequest struct {
	Mode   string             `json:"mode" validate:"required,oneof=add set"`
	Values map[string]float64 `json:"values" validate:"required,min=1"`
}

type betsRequest struct {
	Bets map[string]float64 `json:"bets" validate:"required,min=1"`
}

type podridaRoundRequest struct {
	Totals map[string]float64 `json:"totals" validate:"required,min=1"`
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := requestValidator().Struct(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid game submission")
		return
	}
	players := make([]PlayerInput, 0, len(req.Players))
	for _, p := range req.Players {
		players = append(players, PlayerInput{Name: p.Name, Color: p.Color})
	}
	game, err := s.store.CreateGame(req.Name, req.Type, players)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	s.archiveGameCreated(game)
	log.Printf("game created game_id=%s type=%s players=%d", game.ID, game.Type, len(game.Players))
	writeJSON(w, http.StatusCreated, gamePayload(game))
	s.broadcastHomeUpdate()
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.store.Games()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	summaries := make([]map[string]any, 0, len(games))
	for _, game := range games {
		summaries = append(summaries, gameSummary(game))
	}
	writeJSON(w, http.StatusOK, map[string]any{"games": summaries})
}

func (s *Server) handleGameSubroutes(w http.ResponseWriter, r *http.Request) {
	gameID, action, ok := parseGamePath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		if action != "" {
			http.NotFound(w, r)
			return
		}
		s.handleGetGame(w, gameID)
	case http.MethodDelete:
		if action != "" {
			http.NotFound(w, r)
			return
		}
		s.handleDeleteGame(w, gameID)
	case http.MethodPost:
		switch action {
		case "rounds":
			s.handleAddRound(w, r, gameID)
		case "bets":
			s.handleSetBets(w, r, gameID)
		case "podrida-rounds":
			s.handleAddPodridaRound(w, r, gameID)
		case "finish":
			s.handleFinishGame(w, gameID)
		default:
			http.NotFound(w, r)
		}
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleGetGame(w http.ResponseWriter, gameID string) {
	game, err := s.store.GameByID(gameID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gamePayload(game))
}

func (s *Server) handleAddRound(w http.ResponseWriter, r *http.Request, gameID string) {
	var req addRoundRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := requestValidator().Struct(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid round submission")
		return
	}
	game, err := s.store.AddRound(gameID, req.Mode, req.Values)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	s.archiveRound(game)
	log.Printf("round added game_id=%s mode=%s rounds=%d", game.ID, req.Mode, len(game.Rounds))
	writeJSON(w, http.StatusCreated, gamePayload(game))
	s.broadcastGameUpdate(game)
}

func (s *Server) handleSetBets(w http.ResponseWriter, r *http.Request, gameID string) {
	var req betsRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := requestValidator().Struct(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid bets submission")
		return
	}
	game, err := s.store.SetPodridaBets(gameID, req.Bets)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	s.archiveBets(game)
	log.Printf("bets set game_id=%s", game.ID)
	writeJSON(w, http.StatusOK, gamePayload(game))
	s.broadcastGameUpdate(game)
}

func (s *Server) handleAddPodridaRound(w http.ResponseWriter, r *http.Request, gameID string) {
	var req podridaRoundRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := requestValidator().Struct(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid round submission")
		return
	}
	game, err := s.store.AddPodridaRound(gameID, req.Totals)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	s.archiveRound(game)
	log.Printf("podrida round added game_id=%s rounds=%d", game.ID, len(game.Rounds))
	writeJSON(w, http.StatusCreated, gamePayload(game))
	s.broadcastGameUpdate(game)
}

func (s *Server) handleFinishGame(w http.ResponseWriter, gameID string) {
	game, err := s.store.FinishGame(gameID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	s.archiveFinish(game)
	log.Printf("game finished game_id=%s", game.ID)
	writeJSON(w, http.StatusOK, gamePayload(game))
	s.broadcastGameUpdate(game)
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, gameID string) {
	if err := s.store.DeleteOpenGame(gameID); err != nil {
		writeStoreError(w, err)
		return
	}
	s.archiveDelete(gameID)
	log.Printf("game deleted game_id=%s", gameID)
	writeJSON(w, http.StatusOK, map[string]string{"deleted": gameID})
	s.broadcastHomeUpdate()
}

func (s *Server) handleRecentPlayers(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil {
			limit = value
		}
	}
	if limit <= 0 {
		limit = s.cfg.RecentPlayersLimit
	}
	players, err := s.store.RecentPlayers(limit)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"players": players})
}
