package models

// MatchRecord is created exactly once per mutual right-swipe pair.
// PairID is the canonicalized pair key, so the table's uniqueness
// constraint guarantees at most one record per unordered pair.
type MatchRecord struct {
	PairID    string `dynamodbav:"pairId" json:"pairId"` // Partition Key
	MatchID   string `dynamodbav:"matchId" json:"matchId"`
	UserAID   string `dynamodbav:"userAId" json:"userAId"`
	UserBID   string `dynamodbav:"userBId" json:"userBId"`
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
}

// MatchesTable is the DynamoDB table name for match records
const MatchesTable = "Matches"

// GSI names used to list matches from either side of the pair
const (
	UserAIndex = "userAId-index"
	UserBIndex = "userBId-index"
)

// CanonicalPair orders two user ids so an unordered pair always maps to
// the same (a, b) tuple regardless of who swiped last.
func CanonicalPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// PairID builds the canonical partition key for a pair of users.
func PairID(a, b string) string {
	a, b = CanonicalPair(a, b)
	return a + "#" + b
}
