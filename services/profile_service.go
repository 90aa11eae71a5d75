package services

import (
	"context"
	"errors"
	"fmt"

	"hackmate_server/models"
	"hackmate_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ProfileStore is the read-only view of hacker profiles the engine
// consumes. Profile writes happen outside the matching engine.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (*models.HackerProfile, error)
	GetEligibleProfiles(ctx context.Context, excludeUserID string, excludeTargetIDs map[string]struct{}) ([]models.HackerProfile, error)
}

type ProfileService struct {
	Dynamo *DynamoService
}

// GetProfile retrieves a hacker profile by user ID
func (ps *ProfileService) GetProfile(ctx context.Context, userID string) (*models.HackerProfile, error) {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}

	item, err := ps.Dynamo.GetItem(ctx, models.HackerProfilesTable, key)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrCandidateNotFound, userID)
		}
		return nil, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}

	var profile models.HackerProfile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}

	return &profile, nil
}

// GetEligibleProfiles scans for candidate profiles, excluding the
// requester, anyone they already swiped on, and anyone who has opted
// out of recruitment. The scan is a snapshot read; ranking within one
// refill never observes profile changes mid-pass.
func (ps *ProfileService) GetEligibleProfiles(ctx context.Context, excludeUserID string, excludeTargetIDs map[string]struct{}) ([]models.HackerProfile, error) {
	var profiles []models.HackerProfile

	err := ps.Dynamo.ScanWithFilter(ctx, models.HackerProfilesTable,
		func(item map[string]types.AttributeValue) bool {
			if !utils.ExtractBool(item, "openToRecruitment") {
				return false
			}
			userID := utils.ExtractString(item, "userId")
			if userID == "" {
				return false
			}
			_, swiped := excludeTargetIDs[userID]
			return !swiped
		},
		map[string]string{"userId": excludeUserID},
		&profiles,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}

	return profiles, nil
}
