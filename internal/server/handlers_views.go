package server

import (
	"log"
	"net/http"
	"strings"

	"score-pad/internal/web"

	"github.com/a-h/templ"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	templ.Handler(web.Home()).ServeHTTP(w, r)
}

func (s *Server) handleGameView(w http.ResponseWriter, r *http.Request) {
	gameID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/games/"), "/")
	if gameID == "" || strings.Contains(gameID, "/") {
		http.NotFound(w, r)
		return
	}
	if _, err := s.store.GameByID(gameID); err != nil {
		log.Printf("game view missing game_id=%s", gameID)
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	templ.Handler(web.GameView(gameID)).ServeHTTP(w, r)
}
