package server

import (
	"net/http"

	"score-pad/internal/config"

	"gorm.io/gorm"
)

type Server struct {
	store  *Store
	db     *gorm.DB
	ws     *gameHub
	homeWS *homeHub
	cfg    config.Config
}

// New wires the server around the snapshot store. conn is the optional
// archive database; nil disables archiving entirely.
func New(store *Store, conn *gorm.DB, cfg config.Config) *Server {
	return &Server{
		store:  store,
		db:     conn,
		ws:     newGameHub(),
		homeWS: newHomeHub(),
		cfg:    cfg,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /games/", s.handleGameView)
	mux.HandleFunc("POST /api/games", s.handleCreateGame)
	mux.HandleFunc("GET /api/games", s.handleListGames)
	mux.HandleFunc("GET /api/games/", s.handleGameSubroutes)
	mux.HandleFunc("POST /api/games/", s.handleGameSubroutes)
	mux.HandleFunc("DELETE /api/games/", s.handleGameSubroutes)
	mux.HandleFunc("GET /api/players/recent", s.handleRecentPlayers)
	mux.HandleFunc("GET /ws/games/", s.handleWebsocket)
	mux.HandleFunc("GET /ws/home", s.handleHomeWebsocket)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))
	return mux
}
