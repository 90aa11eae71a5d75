package services

import (
	"context"
	"log"
	"sync"

	"hackmate_server/models"
)

// Queue states. A user's queue moves empty → loaded → serving and back
// as candidates are refilled, served and consumed.
const (
	queueStateEmpty   = "empty"
	queueStateLoaded  = "loaded"
	queueStateServing = "serving"
)

// userQueue is the per-user, session-scoped candidate queue. Ephemeral:
// derivable at any time from the profile store and the swipe ledger.
type userQueue struct {
	mu         sync.Mutex
	state      string
	candidates []models.HackerProfile
	serving    *models.HackerProfile
}

// MatchQueueService serves exactly one current candidate per user at a
// time. Queues live in a keyed in-memory store guarded by a per-user
// lock, so different users never contend with each other.
type MatchQueueService struct {
	Profiles ProfileStore
	Ledger   SwipeLedger
	Ranker   *CandidateRanker

	mu     sync.Mutex
	queues map[string]*userQueue
}

func NewMatchQueueService(profiles ProfileStore, ledger SwipeLedger, ranker *CandidateRanker) *MatchQueueService {
	return &MatchQueueService{
		Profiles: profiles,
		Ledger:   ledger,
		Ranker:   ranker,
		queues:   make(map[string]*userQueue),
	}
}

func (qs *MatchQueueService) queueFor(userID string) *userQueue {
	qs.mu.Lock()
	defer qs.mu.Unlock()

	q, ok := qs.queues[userID]
	if !ok {
		q = &userQueue{state: queueStateEmpty}
		qs.queues[userID] = q
	}
	return q
}

// NextCandidate returns the candidate currently being served to the
// user, refilling the queue from the ranker when it is exhausted. A
// repeated call while a candidate is being served returns that same
// candidate, so a retried request never consumes two candidates. A nil
// candidate with a nil error is the terminal no-more-candidates state.
func (qs *MatchQueueService) NextCandidate(ctx context.Context, userID string) (*models.HackerProfile, error) {
	q := qs.queueFor(userID)
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.state == queueStateServing && q.serving != nil {
		return q.serving, nil
	}

	if len(q.candidates) == 0 {
		if err := qs.refill(ctx, userID, q); err != nil {
			// Queue state is left untouched so the caller can retry.
			return nil, err
		}
	}

	if len(q.candidates) == 0 {
		q.state = queueStateEmpty
		return nil, nil
	}

	head := q.candidates[0]
	q.candidates = q.candidates[1:]
	q.serving = &head
	q.state = queueStateServing
	return q.serving, nil
}

// refill recomputes the ranked candidate list from a fresh profile and
// ledger snapshot. Caller holds the queue lock; only this user's
// requests wait on the storage round-trips.
func (qs *MatchQueueService) refill(ctx context.Context, userID string, q *userQueue) error {
	requester, err := qs.Profiles.GetProfile(ctx, userID)
	if err != nil {
		return err
	}

	swiped, err := qs.Ledger.SwipedTargets(ctx, userID)
	if err != nil {
		return err
	}

	pool, err := qs.Profiles.GetEligibleProfiles(ctx, userID, swiped)
	if err != nil {
		return err
	}

	ranked := qs.Ranker.Rank(*requester, pool)
	q.candidates = q.candidates[:0]
	for _, candidate := range ranked {
		q.candidates = append(q.candidates, candidate.Profile)
	}
	if len(q.candidates) > 0 {
		q.state = queueStateLoaded
	}
	log.Printf("🔄 Refilled queue for %s with %d candidates", userID, len(q.candidates))
	return nil
}

// Advance consumes the served candidate after a committed swipe. When
// the swiped target was queued but not being served (ledger-as-truth
// swipes), it is dropped from the queue instead.
func (qs *MatchQueueService) Advance(userID, targetID string) {
	q := qs.queueFor(userID)
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.serving != nil && q.serving.UserID == targetID {
		q.serving = nil
	} else {
		remaining := q.candidates[:0]
		for _, candidate := range q.candidates {
			if candidate.UserID != targetID {
				remaining = append(remaining, candidate)
			}
		}
		q.candidates = remaining
	}

	if len(q.candidates) == 0 && q.serving == nil {
		q.state = queueStateEmpty
	} else if q.serving == nil {
		q.state = queueStateLoaded
	}
}

// Restore puts an undone candidate back at the front of the user's
// queue and serves it again. A candidate that was being served in the
// meantime is pushed back behind it rather than lost.
func (qs *MatchQueueService) Restore(userID string, candidate models.HackerProfile) {
	q := qs.queueFor(userID)
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.serving != nil && q.serving.UserID != candidate.UserID {
		q.candidates = append([]models.HackerProfile{*q.serving}, q.candidates...)
	}
	q.serving = &candidate
	q.state = queueStateServing
}
