package controllers

import (
	"log"
	"net/http"

	"hackmate_server/services"

	"github.com/gorilla/mux"
)

// MatchController struct
type MatchController struct {
	Queue  *services.MatchQueueService
	Ledger services.SwipeLedger
}

// NewMatchController initializes the controller
func NewMatchController(queue *services.MatchQueueService, ledger services.SwipeLedger) *MatchController {
	return &MatchController{Queue: queue, Ledger: ledger}
}

// HandleGetNextMatch - Serve the next ranked candidate for a user.
// Idempotent while a candidate is being served: a retried request gets
// the same candidate back.
func (c *MatchController) HandleGetNextMatch(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "userId is required"})
		return
	}

	candidate, err := c.Queue.NextCandidate(r.Context(), userID)
	if err != nil {
		log.Printf("❌ Failed to get next candidate for %s: %v", userID, err)
		writeServiceError(w, err)
		return
	}

	if candidate == nil {
		// Pool exhausted - a normal terminal state, not an error.
		writeJSON(w, http.StatusOK, map[string]interface{}{"noMoreCandidates": true})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"candidate": candidate})
}

// HandleGetMatches - List the user's committed matches
func (c *MatchController) HandleGetMatches(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "userId is required"})
		return
	}

	matches, err := c.Ledger.MatchesForUser(r.Context(), userID)
	if err != nil {
		log.Printf("❌ Failed to list matches for %s: %v", userID, err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"matches": matches})
}
