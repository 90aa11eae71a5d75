package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"hackmate_server/services"
)

// SwipeController struct
type SwipeController struct {
	Swipes *services.SwipeService
}

// NewSwipeController initializes the controller
func NewSwipeController(swipes *services.SwipeService) *SwipeController {
	return &SwipeController{Swipes: swipes}
}

// HandleSwipeRight - User is interested in the target
func (c *SwipeController) HandleSwipeRight(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID   string `json:"userId"`
		TargetID string `json:"targetId"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	log.Printf("💖 %s swiped right on %s", request.UserID, request.TargetID)

	result, err := c.Swipes.SwipeRight(r.Context(), request.UserID, request.TargetID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleSwipeLeft - User is not interested in the target
func (c *SwipeController) HandleSwipeLeft(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID   string `json:"userId"`
		TargetID string `json:"targetId"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	log.Printf("💔 %s swiped left on %s", request.UserID, request.TargetID)

	result, err := c.Swipes.SwipeLeft(r.Context(), request.UserID, request.TargetID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleUndoLastSwipe - Revert the user's most recent swipe and
// re-serve the undone candidate
func (c *SwipeController) HandleUndoLastSwipe(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID string `json:"userId"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	log.Printf("↩️ %s requested undo", request.UserID)

	candidate, err := c.Swipes.UndoLastSwipe(r.Context(), request.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"candidate": candidate})
}
