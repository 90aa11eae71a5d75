package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"hackmate_server/models"
)

// MatchNotifier receives fire-and-forget match events. Emission failure
// never rolls back the committed match record.
type MatchNotifier interface {
	MatchCreated(matchID, userAID, userBID string)
}

// SwipeResult is the acknowledgment returned to the caller for a
// committed swipe.
type SwipeResult struct {
	Accepted bool   `json:"accepted"`
	Matched  bool   `json:"matched"`
	MatchID  string `json:"matchId,omitempty"`
}

// SwipeService validates and commits swipe decisions, detects mutual
// right-swipes, and coordinates the single-level undo. Swipe and undo
// for one user are serialized by a per-user lock; users never block
// each other.
type SwipeService struct {
	Ledger   SwipeLedger
	Profiles ProfileStore
	Queue    *MatchQueueService
	Notifier MatchNotifier

	mu         sync.Mutex
	userLocks  map[string]*sync.Mutex
	lastSwipes map[string]*models.SwipeRecord // single undo slot per user
}

func NewSwipeService(ledger SwipeLedger, profiles ProfileStore, queue *MatchQueueService, notifier MatchNotifier) *SwipeService {
	return &SwipeService{
		Ledger:     ledger,
		Profiles:   profiles,
		Queue:      queue,
		Notifier:   notifier,
		userLocks:  make(map[string]*sync.Mutex),
		lastSwipes: make(map[string]*models.SwipeRecord),
	}
}

func (ss *SwipeService) userLock(userID string) *sync.Mutex {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	lock, ok := ss.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		ss.userLocks[userID] = lock
	}
	return lock
}

func (ss *SwipeService) setLastSwipe(userID string, swipe *models.SwipeRecord) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.lastSwipes[userID] = swipe
}

func (ss *SwipeService) lastSwipe(userID string) *models.SwipeRecord {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.lastSwipes[userID]
}

// SwipeRight records an interested decision and reports whether it
// completed a mutual match.
func (ss *SwipeService) SwipeRight(ctx context.Context, userID, targetID string) (SwipeResult, error) {
	return ss.swipe(ctx, userID, targetID, models.SwipeDirectionRight)
}

// SwipeLeft records a not-interested decision.
func (ss *SwipeService) SwipeLeft(ctx context.Context, userID, targetID string) (SwipeResult, error) {
	return ss.swipe(ctx, userID, targetID, models.SwipeDirectionLeft)
}

func (ss *SwipeService) swipe(ctx context.Context, userID, targetID, direction string) (SwipeResult, error) {
	if userID == targetID {
		return SwipeResult{}, fmt.Errorf("%w: cannot swipe on yourself", ErrInvalidTarget)
	}
	if userID == "" || targetID == "" {
		return SwipeResult{}, fmt.Errorf("%w: userId and targetId are required", ErrInvalidTarget)
	}

	lock := ss.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	// All validation happens before any write.
	if _, err := ss.Profiles.GetProfile(ctx, targetID); err != nil {
		return SwipeResult{}, err
	}

	swipe := models.SwipeRecord{
		SwiperID:  userID,
		TargetID:  targetID,
		Direction: direction,
		CreatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}

	// The ledger derives reciprocity atomically with the commit; if the
	// mutual-match check cannot be completed, the swipe commit fails
	// with it rather than leaving the match question open.
	committed, err := ss.Ledger.CommitSwipe(ctx, swipe)
	if err != nil {
		return SwipeResult{}, err
	}

	ss.setLastSwipe(userID, &swipe)
	ss.Queue.Advance(userID, targetID)

	result := SwipeResult{Accepted: true}
	if committed != nil {
		result.Matched = true
		result.MatchID = committed.MatchID
		log.Printf("🎉 It's a match: %s and %s (%s)", committed.UserAID, committed.UserBID, committed.MatchID)
		if ss.Notifier != nil {
			go ss.Notifier.MatchCreated(committed.MatchID, committed.UserAID, committed.UserBID)
		}
	}
	return result, nil
}
