package routes

import (
	"hackmate_server/controllers"
	"hackmate_server/services"

	"github.com/gorilla/mux"
)

// RegisterSwipeRoutes sets up routes for swipe decisions and undo under
// /api/swipes
func RegisterSwipeRoutes(r *mux.Router, swipes *services.SwipeService) {
	controller := controllers.NewSwipeController(swipes)

	swipeRouter := r.PathPrefix("/api/swipes").Subrouter()
	swipeRouter.HandleFunc("/right", controller.HandleSwipeRight).Methods("POST")
	swipeRouter.HandleFunc("/left", controller.HandleSwipeLeft).Methods("POST")
	swipeRouter.HandleFunc("/undo", controller.HandleUndoLastSwipe).Methods("POST")
}
