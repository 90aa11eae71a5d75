package services

import (
	"context"
	"testing"

	"hackmate_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQueue(profiles *fakeProfileStore, ledger *fakeLedger) *MatchQueueService {
	return NewMatchQueueService(profiles, ledger, NewCandidateRanker())
}

func TestNextCandidate_Idempotent(t *testing.T) {
	profiles := newFakeProfileStore(
		models.HackerProfile{UserID: "a", Languages: []string{"go"}, OpenToRecruitment: true},
		models.HackerProfile{UserID: "b", Languages: []string{"go"}, OpenToRecruitment: true},
		models.HackerProfile{UserID: "c", Languages: []string{"java"}, OpenToRecruitment: true},
	)
	queue := newTestQueue(profiles, newFakeLedger())

	first, err := queue.NextCandidate(context.Background(), "a")
	require.NoError(t, err)
	require.NotNil(t, first)

	// A retried request must see the same candidate, not the next one.
	second, err := queue.NextCandidate(context.Background(), "a")
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, first.UserID, second.UserID)
}

func TestNextCandidate_NoMoreCandidates(t *testing.T) {
	profiles := newFakeProfileStore(
		models.HackerProfile{UserID: "a", OpenToRecruitment: true},
	)
	queue := newTestQueue(profiles, newFakeLedger())

	candidate, err := queue.NextCandidate(context.Background(), "a")
	require.NoError(t, err)
	assert.Nil(t, candidate, "empty pool is a terminal state, not an error")
}

func TestNextCandidate_ExcludesSwipedAndOptedOut(t *testing.T) {
	profiles := newFakeProfileStore(
		models.HackerProfile{UserID: "a", OpenToRecruitment: true},
		models.HackerProfile{UserID: "swiped", OpenToRecruitment: true},
		models.HackerProfile{UserID: "optout", OpenToRecruitment: false},
		models.HackerProfile{UserID: "fresh", OpenToRecruitment: true},
	)
	ledger := newFakeLedger()
	ledger.swipes[swipeKey("a", "swiped")] = models.SwipeRecord{
		SwiperID: "a", TargetID: "swiped", Direction: models.SwipeDirectionLeft,
	}
	queue := newTestQueue(profiles, ledger)

	candidate, err := queue.NextCandidate(context.Background(), "a")
	require.NoError(t, err)
	require.NotNil(t, candidate)
	assert.Equal(t, "fresh", candidate.UserID)

	// A committed swipe writes the ledger before advancing the queue.
	ledger.swipes[swipeKey("a", "fresh")] = models.SwipeRecord{
		SwiperID: "a", TargetID: "fresh", Direction: models.SwipeDirectionRight,
	}
	queue.Advance("a", "fresh")
	candidate, err = queue.NextCandidate(context.Background(), "a")
	require.NoError(t, err)
	assert.Nil(t, candidate)
}

func TestNextCandidate_AdvanceMovesOn(t *testing.T) {
	profiles := newFakeProfileStore(
		models.HackerProfile{UserID: "a", Languages: []string{"go"}, OpenToRecruitment: true},
		models.HackerProfile{UserID: "b", Languages: []string{"go"}, OpenToRecruitment: true},
		models.HackerProfile{UserID: "c", Languages: []string{"go"}, OpenToRecruitment: true},
	)
	queue := newTestQueue(profiles, newFakeLedger())

	first, err := queue.NextCandidate(context.Background(), "a")
	require.NoError(t, err)
	require.NotNil(t, first)

	queue.Advance("a", first.UserID)

	second, err := queue.NextCandidate(context.Background(), "a")
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.NotEqual(t, first.UserID, second.UserID)
}

func TestNextCandidate_DependencyFailureLeavesStateUnchanged(t *testing.T) {
	profiles := newFakeProfileStore(
		models.HackerProfile{UserID: "a", OpenToRecruitment: true},
		models.HackerProfile{UserID: "b", OpenToRecruitment: true},
	)
	queue := newTestQueue(profiles, newFakeLedger())

	profiles.failing = true
	_, err := queue.NextCandidate(context.Background(), "a")
	require.ErrorIs(t, err, ErrDependencyUnavailable)

	// Recovery: the next call succeeds with no skipped candidates.
	profiles.failing = false
	candidate, err := queue.NextCandidate(context.Background(), "a")
	require.NoError(t, err)
	require.NotNil(t, candidate)
	assert.Equal(t, "b", candidate.UserID)
}

func TestRestore_ReservesCandidateAtFront(t *testing.T) {
	profiles := newFakeProfileStore(
		models.HackerProfile{UserID: "a", Languages: []string{"go"}, OpenToRecruitment: true},
		models.HackerProfile{UserID: "b", Languages: []string{"go"}, OpenToRecruitment: true},
		models.HackerProfile{UserID: "c", Languages: []string{"go"}, OpenToRecruitment: true},
	)
	queue := newTestQueue(profiles, newFakeLedger())

	first, err := queue.NextCandidate(context.Background(), "a")
	require.NoError(t, err)
	queue.Advance("a", first.UserID)

	second, err := queue.NextCandidate(context.Background(), "a")
	require.NoError(t, err)
	require.NotEqual(t, first.UserID, second.UserID)

	// Undo: the first candidate is served again immediately.
	queue.Restore("a", *first)
	restored, err := queue.NextCandidate(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, first.UserID, restored.UserID)

	// The displaced candidate is next, not lost.
	queue.Advance("a", restored.UserID)
	next, err := queue.NextCandidate(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, second.UserID, next.UserID)
}

func TestQueue_IndependentPerUser(t *testing.T) {
	profiles := newFakeProfileStore(
		models.HackerProfile{UserID: "a", OpenToRecruitment: true},
		models.HackerProfile{UserID: "b", OpenToRecruitment: true},
		models.HackerProfile{UserID: "c", OpenToRecruitment: true},
	)
	queue := newTestQueue(profiles, newFakeLedger())

	forA, err := queue.NextCandidate(context.Background(), "a")
	require.NoError(t, err)
	forB, err := queue.NextCandidate(context.Background(), "b")
	require.NoError(t, err)

	require.NotNil(t, forA)
	require.NotNil(t, forB)
	assert.NotEqual(t, "a", forA.UserID)
	assert.NotEqual(t, "b", forB.UserID)
}
