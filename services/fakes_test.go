package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"hackmate_server/models"

	"github.com/google/uuid"
)

// In-memory stand-ins for the DynamoDB-backed profile store and swipe
// ledger, mirroring their error contracts.

type fakeProfileStore struct {
	mu       sync.Mutex
	profiles map[string]models.HackerProfile
	failing  bool
}

func newFakeProfileStore(profiles ...models.HackerProfile) *fakeProfileStore {
	store := &fakeProfileStore{profiles: make(map[string]models.HackerProfile)}
	for _, p := range profiles {
		store.profiles[p.UserID] = p
	}
	return store
}

func (f *fakeProfileStore) GetProfile(ctx context.Context, userID string) (*models.HackerProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return nil, fmt.Errorf("%w: profile store down", ErrDependencyUnavailable)
	}
	profile, ok := f.profiles[userID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCandidateNotFound, userID)
	}
	return &profile, nil
}

func (f *fakeProfileStore) GetEligibleProfiles(ctx context.Context, excludeUserID string, excludeTargetIDs map[string]struct{}) ([]models.HackerProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return nil, fmt.Errorf("%w: profile store down", ErrDependencyUnavailable)
	}
	var eligible []models.HackerProfile
	for id, profile := range f.profiles {
		if id == excludeUserID || !profile.OpenToRecruitment {
			continue
		}
		if _, swiped := excludeTargetIDs[id]; swiped {
			continue
		}
		eligible = append(eligible, profile)
	}
	return eligible, nil
}

type fakeLedger struct {
	mu      sync.Mutex
	swipes  map[string]models.SwipeRecord // key: swiperId#targetId
	matches map[string]models.MatchRecord // key: pairId
	failing bool
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		swipes:  make(map[string]models.SwipeRecord),
		matches: make(map[string]models.MatchRecord),
	}
}

func swipeKey(swiperID, targetID string) string {
	return swiperID + "#" + targetID
}

func (f *fakeLedger) SwipedTargets(ctx context.Context, swiperID string) (map[string]struct{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return nil, fmt.Errorf("%w: ledger down", ErrDependencyUnavailable)
	}
	targets := make(map[string]struct{})
	for _, swipe := range f.swipes {
		if swipe.SwiperID == swiperID {
			targets[swipe.TargetID] = struct{}{}
		}
	}
	return targets, nil
}

// CommitSwipe mirrors the real ledger contract: the reciprocity check
// and the commit happen under one lock, duplicates are rejected, and a
// concurrent writer's match is reported instead of a second one.
func (f *fakeLedger) CommitSwipe(ctx context.Context, swipe models.SwipeRecord) (*models.MatchRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return nil, fmt.Errorf("%w: ledger down", ErrDependencyUnavailable)
	}
	key := swipeKey(swipe.SwiperID, swipe.TargetID)
	if _, exists := f.swipes[key]; exists {
		return nil, ErrDuplicateSwipe
	}
	f.swipes[key] = swipe

	if swipe.Direction != models.SwipeDirectionRight {
		return nil, nil
	}
	reciprocal, ok := f.swipes[swipeKey(swipe.TargetID, swipe.SwiperID)]
	if !ok || reciprocal.Direction != models.SwipeDirectionRight {
		return nil, nil
	}

	pairID := models.PairID(swipe.SwiperID, swipe.TargetID)
	if existing, exists := f.matches[pairID]; exists {
		return &existing, nil
	}
	userA, userB := models.CanonicalPair(swipe.SwiperID, swipe.TargetID)
	match := models.MatchRecord{
		PairID:    pairID,
		MatchID:   uuid.NewString(),
		UserAID:   userA,
		UserBID:   userB,
		CreatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
	f.matches[pairID] = match
	return &match, nil
}

func (f *fakeLedger) RetractSwipe(ctx context.Context, swipe models.SwipeRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return fmt.Errorf("%w: ledger down", ErrDependencyUnavailable)
	}
	key := swipeKey(swipe.SwiperID, swipe.TargetID)
	if _, exists := f.swipes[key]; !exists {
		return ErrNothingToUndo
	}
	delete(f.swipes, key)
	if swipe.Direction == models.SwipeDirectionRight {
		delete(f.matches, models.PairID(swipe.SwiperID, swipe.TargetID))
	}
	return nil
}

func (f *fakeLedger) MatchesForUser(ctx context.Context, userID string) ([]models.MatchRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return nil, fmt.Errorf("%w: ledger down", ErrDependencyUnavailable)
	}
	var matches []models.MatchRecord
	for _, match := range f.matches {
		if match.UserAID == userID || match.UserBID == userID {
			matches = append(matches, match)
		}
	}
	return matches, nil
}

type fakeNotifier struct {
	events chan string // match IDs, buffered
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{events: make(chan string, 16)}
}

func (f *fakeNotifier) MatchCreated(matchID, userAID, userBID string) {
	f.events <- matchID
}
