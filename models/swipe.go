package models

// Swipe directions
const (
	SwipeDirectionRight = "right"
	SwipeDirectionLeft  = "left"
)

// SwipeRecord is one committed swipe decision. The (swiperId, targetId)
// pair is the table key, so a target can only ever be swiped once by the
// same swiper; undo deletes the record instead of appending a new one.
type SwipeRecord struct {
	SwiperID  string `dynamodbav:"swiperId" json:"swiperId"` // Partition Key
	TargetID  string `dynamodbav:"targetId" json:"targetId"` // Sort Key
	Direction string `dynamodbav:"direction" json:"direction"`
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
}

// SwipesTable is the DynamoDB table name for the swipe ledger
const SwipesTable = "Swipes"
