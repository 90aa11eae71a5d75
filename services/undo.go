package services

import (
	"context"
	"log"

	"hackmate_server/models"
)

// UndoLastSwipe reverts the user's most recent swipe and re-serves the
// undone candidate. Exactly one level of undo is supported: the undo
// slot is cleared on use, so a second consecutive call fails with
// ErrNothingToUndo. When the undone right-swipe had produced a match,
// the match record is retracted in the same transaction — undo never
// leaves a phantom match behind.
func (ss *SwipeService) UndoLastSwipe(ctx context.Context, userID string) (*models.HackerProfile, error) {
	lock := ss.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	last := ss.lastSwipe(userID)
	if last == nil {
		return nil, ErrNothingToUndo
	}

	// Resolve the candidate before any write so a failure here leaves
	// the ledger untouched.
	candidate, err := ss.Profiles.GetProfile(ctx, last.TargetID)
	if err != nil {
		return nil, err
	}

	// The ledger retracts the swipe and any match it completed in one
	// transaction; no separate match read that could race a reciprocal
	// commit.
	if err := ss.Ledger.RetractSwipe(ctx, *last); err != nil {
		return nil, err
	}

	ss.setLastSwipe(userID, nil)
	ss.Queue.Restore(userID, *candidate)

	log.Printf("↩️ Undo retracted swipe %s -> %s", userID, last.TargetID)
	return candidate, nil
}
