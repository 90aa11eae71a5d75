package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"hackmate_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// SwipeLedger is the append-only record of swipe decisions plus the
// match records derived from them. The ledger owns mutual-match
// detection: the reciprocity decision and the swipe commit form one
// atomic unit, so concurrent reciprocal swipes produce exactly one
// match and a concurrent undo can never leave a phantom match behind.
type SwipeLedger interface {
	SwipedTargets(ctx context.Context, swiperID string) (map[string]struct{}, error)
	CommitSwipe(ctx context.Context, swipe models.SwipeRecord) (*models.MatchRecord, error)
	RetractSwipe(ctx context.Context, swipe models.SwipeRecord) error
	MatchesForUser(ctx context.Context, userID string) ([]models.MatchRecord, error)
}

// How often a commit re-derives its reciprocity decision after losing a
// race before giving up as contended.
const maxCommitAttempts = 3

type LedgerService struct {
	Dynamo *DynamoService
}

func swipeItemKey(swiperID, targetID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"swiperId": &types.AttributeValueMemberS{Value: swiperID},
		"targetId": &types.AttributeValueMemberS{Value: targetID},
	}
}

func (ls *LedgerService) getSwipe(ctx context.Context, swiperID, targetID string) (*models.SwipeRecord, error) {
	item, err := ls.Dynamo.GetItem(ctx, models.SwipesTable, swipeItemKey(swiperID, targetID))
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}

	var swipe models.SwipeRecord
	if err := attributevalue.UnmarshalMap(item, &swipe); err != nil {
		return nil, fmt.Errorf("failed to unmarshal swipe: %w", err)
	}
	return &swipe, nil
}

func (ls *LedgerService) getMatch(ctx context.Context, pairID string) (*models.MatchRecord, error) {
	key := map[string]types.AttributeValue{
		"pairId": &types.AttributeValueMemberS{Value: pairID},
	}

	item, err := ls.Dynamo.GetItem(ctx, models.MatchesTable, key)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}

	var match models.MatchRecord
	if err := attributevalue.UnmarshalMap(item, &match); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match: %w", err)
	}
	return &match, nil
}

// SwipedTargets returns the set of target IDs the swiper has already
// decided on. Used to build the exclusion set for queue refills.
func (ls *LedgerService) SwipedTargets(ctx context.Context, swiperID string) (map[string]struct{}, error) {
	keyCondition := "swiperId = :swiper"
	expressionValues := map[string]types.AttributeValue{
		":swiper": &types.AttributeValueMemberS{Value: swiperID},
	}

	items, err := ls.Dynamo.QueryItems(ctx, models.SwipesTable, keyCondition, expressionValues, nil, 500)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}

	var swipes []models.SwipeRecord
	if err := attributevalue.UnmarshalListOfMaps(items, &swipes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal swipes: %w", err)
	}

	targets := make(map[string]struct{}, len(swipes))
	for _, swipe := range swipes {
		targets[swipe.TargetID] = struct{}{}
	}
	return targets, nil
}

// CommitSwipe writes the swipe record and, when the swipe completes a
// mutual right-swipe, the match record. The transaction carries a
// ConditionCheck asserting the reciprocal swipe still looks the way it
// did when the decision was derived, so the check and the commit are
// one atomic unit: two users swiping right on each other at the same
// instant produce exactly one match (the writer whose snapshot went
// stale retries and sees the other's swipe), and a reciprocal swipe
// retracted mid-flight cancels the match instead of orphaning it. The
// swipe put itself is conditioned on the pair not existing, which turns
// a retried duplicate into ErrDuplicateSwipe instead of an overwrite.
func (ls *LedgerService) CommitSwipe(ctx context.Context, swipe models.SwipeRecord) (*models.MatchRecord, error) {
	for attempt := 0; attempt < maxCommitAttempts; attempt++ {
		match, items, err := ls.buildCommit(ctx, swipe)
		if err != nil {
			return nil, err
		}

		err = ls.Dynamo.TransactWriteItems(ctx, items)
		if err == nil {
			return match, nil
		}

		var canceled *types.TransactionCanceledException
		if !errors.As(err, &canceled) {
			return nil, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
		}
		if conditionFailed(canceled, 0) {
			return nil, ErrDuplicateSwipe
		}
		if retryableCancellation(canceled) {
			// A concurrent swipe or undo changed the reciprocal state
			// between the read and the commit; re-derive the decision.
			log.Printf("⚠️ Swipe commit %s -> %s raced, retrying", swipe.SwiperID, swipe.TargetID)
			continue
		}
		return nil, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}

	return nil, fmt.Errorf("%w: swipe commit contention for %s -> %s", ErrDependencyUnavailable, swipe.SwiperID, swipe.TargetID)
}

// buildCommit derives the reciprocity decision for one commit attempt:
// the transact items always guard the decision with a ConditionCheck on
// the reciprocal swipe, in both directions (present-and-right for a
// match, absent-or-left for a plain right swipe).
func (ls *LedgerService) buildCommit(ctx context.Context, swipe models.SwipeRecord) (*models.MatchRecord, []types.TransactWriteItem, error) {
	swipePut, err := BuildPut(models.SwipesTable, swipe, "attribute_not_exists(targetId)")
	if err != nil {
		return nil, nil, err
	}
	items := []types.TransactWriteItem{swipePut}

	// Left swipes never match; no reciprocity decision to guard.
	if swipe.Direction != models.SwipeDirectionRight {
		return nil, items, nil
	}

	reciprocal, err := ls.getSwipe(ctx, swipe.TargetID, swipe.SwiperID)
	if err != nil {
		return nil, nil, err
	}

	reciprocalKey := swipeItemKey(swipe.TargetID, swipe.SwiperID)
	expressionNames := map[string]string{"#direction": "direction"}
	expressionValues := map[string]types.AttributeValue{
		":right": &types.AttributeValueMemberS{Value: models.SwipeDirectionRight},
	}

	if reciprocal == nil || reciprocal.Direction != models.SwipeDirectionRight {
		items = append(items, BuildConditionCheck(models.SwipesTable, reciprocalKey,
			"attribute_not_exists(swiperId) OR #direction <> :right", expressionNames, expressionValues))
		return nil, items, nil
	}

	items = append(items, BuildConditionCheck(models.SwipesTable, reciprocalKey,
		"attribute_exists(swiperId) AND #direction = :right", expressionNames, expressionValues))

	pairID := models.PairID(swipe.SwiperID, swipe.TargetID)
	existing, err := ls.getMatch(ctx, pairID)
	if err != nil {
		return nil, nil, err
	}
	if existing != nil {
		// The concurrent writer already created the match; commit the
		// swipe under the same reciprocal guard and report theirs.
		return existing, items, nil
	}

	userA, userB := models.CanonicalPair(swipe.SwiperID, swipe.TargetID)
	match := &models.MatchRecord{
		PairID:    pairID,
		MatchID:   uuid.NewString(),
		UserAID:   userA,
		UserBID:   userB,
		CreatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
	matchPut, err := BuildPut(models.MatchesTable, *match, "attribute_not_exists(pairId)")
	if err != nil {
		return nil, nil, err
	}
	items = append(items, matchPut)
	return match, items, nil
}

// RetractSwipe deletes a swipe and, for a right swipe, the pair's match
// record in the same transaction. The match delete is keyed on the
// canonical pair and is a no-op when no match was ever created, so undo
// never needs a separate read that could race with a reciprocal commit.
func (ls *LedgerService) RetractSwipe(ctx context.Context, swipe models.SwipeRecord) error {
	items := []types.TransactWriteItem{
		BuildDelete(models.SwipesTable, swipeItemKey(swipe.SwiperID, swipe.TargetID), "attribute_exists(targetId)"),
	}
	if swipe.Direction == models.SwipeDirectionRight {
		matchKey := map[string]types.AttributeValue{
			"pairId": &types.AttributeValueMemberS{Value: models.PairID(swipe.SwiperID, swipe.TargetID)},
		}
		items = append(items, BuildDelete(models.MatchesTable, matchKey, ""))
	}

	err := ls.Dynamo.TransactWriteItems(ctx, items)
	if err == nil {
		return nil
	}

	var canceled *types.TransactionCanceledException
	if errors.As(err, &canceled) && conditionFailed(canceled, 0) {
		return ErrNothingToUndo
	}
	return fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
}

// MatchesForUser lists every match record the user appears in. The pair
// is stored in canonical order, so the user can be on either side.
func (ls *LedgerService) MatchesForUser(ctx context.Context, userID string) ([]models.MatchRecord, error) {
	var matches []models.MatchRecord

	for _, index := range []struct {
		name string
		attr string
	}{
		{models.UserAIndex, "userAId"},
		{models.UserBIndex, "userBId"},
	} {
		keyCondition := fmt.Sprintf("%s = :user", index.attr)
		expressionValues := map[string]types.AttributeValue{
			":user": &types.AttributeValueMemberS{Value: userID},
		}

		items, err := ls.Dynamo.QueryItemsWithIndex(ctx, models.MatchesTable, index.name, keyCondition, expressionValues, nil, 100)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
		}

		var page []models.MatchRecord
		if err := attributevalue.UnmarshalListOfMaps(items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal matches: %w", err)
		}
		matches = append(matches, page...)
	}

	return matches, nil
}

func conditionFailed(canceled *types.TransactionCanceledException, index int) bool {
	if index >= len(canceled.CancellationReasons) {
		return false
	}
	code := canceled.CancellationReasons[index].Code
	return code != nil && *code == "ConditionalCheckFailed"
}

// retryableCancellation reports whether a canceled transaction lost a
// race (a guard condition or transaction conflict) rather than hitting
// a hard storage failure.
func retryableCancellation(canceled *types.TransactionCanceledException) bool {
	for _, reason := range canceled.CancellationReasons {
		if reason.Code == nil {
			continue
		}
		if *reason.Code == "ConditionalCheckFailed" || *reason.Code == "TransactionConflict" {
			return true
		}
	}
	return false
}
