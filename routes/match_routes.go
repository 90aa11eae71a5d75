package routes

import (
	"hackmate_server/controllers"
	"hackmate_server/services"

	"github.com/gorilla/mux"
)

// RegisterMatchRoutes sets up routes for candidate serving and match
// listing under /api/matches
func RegisterMatchRoutes(r *mux.Router, queue *services.MatchQueueService, ledger services.SwipeLedger) {
	controller := controllers.NewMatchController(queue, ledger)

	matchRouter := r.PathPrefix("/api/matches").Subrouter()
	matchRouter.HandleFunc("/next/{userId}", controller.HandleGetNextMatch).Methods("GET")
	matchRouter.HandleFunc("/{userId}", controller.HandleGetMatches).Methods("GET")
}
