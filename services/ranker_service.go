package services

import (
	"math"
	"sort"
	"strings"

	"hackmate_server/models"
)

// ScoreWeights holds the weight of each compatibility term. Weights sum
// to 1.0 so overall scores stay in [0, 1].
type ScoreWeights struct {
	SkillOverlap        float64
	FrameworkOverlap    float64
	ExperienceProximity float64
	GithubActivity      float64
	LocationProximity   float64
}

// DefaultScoreWeights returns the production weighting:
// skill overlap dominates at 0.40, the remaining terms carry 0.15 each.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		SkillOverlap:        0.40,
		FrameworkOverlap:    0.15,
		ExperienceProximity: 0.15,
		GithubActivity:      0.15,
		LocationProximity:   0.15,
	}
}

// Candidates whose scores land in the same epsilon-wide bucket count as
// tied and fall back to user-id order, keeping the ranking reproducible.
const scoreEpsilon = 1e-6

// ScoredCandidate pairs a candidate profile with its computed
// compatibility score. Never persisted; recomputed on every refill.
type ScoredCandidate struct {
	Profile models.HackerProfile
	Score   float64
}

// CandidateRanker computes compatibility scores between a requester and
// a candidate pool. Pure over its inputs: the same snapshot always
// produces the same ordering.
type CandidateRanker struct {
	Weights ScoreWeights
}

func NewCandidateRanker() *CandidateRanker {
	return &CandidateRanker{Weights: DefaultScoreWeights()}
}

// Rank scores every candidate in the pool against the requester and
// returns them in descending score order.
func (r *CandidateRanker) Rank(requester models.HackerProfile, pool []models.HackerProfile) []ScoredCandidate {
	if len(pool) == 0 {
		return nil
	}

	bounds := githubBounds(pool)

	ranked := make([]ScoredCandidate, 0, len(pool))
	for _, candidate := range pool {
		score := r.Weights.SkillOverlap*JaccardSimilarity(requester.Languages, candidate.Languages) +
			r.Weights.FrameworkOverlap*JaccardSimilarity(requester.Frameworks, candidate.Frameworks) +
			r.Weights.ExperienceProximity*experienceProximity(requester.ExperienceLevel, candidate.ExperienceLevel) +
			r.Weights.GithubActivity*githubActivity(candidate.GitHub, bounds) +
			r.Weights.LocationProximity*locationProximity(requester, candidate)

		ranked = append(ranked, ScoredCandidate{Profile: candidate, Score: score})
	}

	sort.Slice(ranked, func(i, j int) bool {
		bucketI, bucketJ := scoreBucket(ranked[i].Score), scoreBucket(ranked[j].Score)
		if bucketI != bucketJ {
			return bucketI > bucketJ
		}
		return ranked[i].Profile.UserID < ranked[j].Profile.UserID
	})

	return ranked
}

// scoreBucket quantizes a score onto the epsilon grid. Comparing buckets
// instead of raw differences keeps the comparator a strict weak
// ordering: "tied with" is transitive across chains of near-equal
// scores, which pairwise epsilon comparison is not.
func scoreBucket(score float64) int64 {
	return int64(math.Round(score / scoreEpsilon))
}

// JaccardSimilarity computes |A ∩ B| / |A ∪ B| over normalized string
// sets. The Jaccard of two empty sets is defined as 0, not NaN, so a
// requester with no declared skills still gets a ranked list.
func JaccardSimilarity(a, b []string) float64 {
	setA := normalizeSet(a)
	setB := normalizeSet(b)

	union := len(setA)
	intersection := 0
	for item := range setB {
		if _, ok := setA[item]; ok {
			intersection++
		} else {
			union++
		}
	}

	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func normalizeSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}

// experienceProximity scores 1.0 for equal levels, 0.5 for adjacent
// ones and 0 otherwise. Unknown levels score 0.
func experienceProximity(a, b string) float64 {
	rankA, okA := models.ExperienceRank[a]
	rankB, okB := models.ExperienceRank[b]
	if !okA || !okB {
		return 0
	}

	diff := rankA - rankB
	if diff < 0 {
		diff = -diff
	}
	switch diff {
	case 0:
		return 1.0
	case 1:
		return 0.5
	default:
		return 0
	}
}

// locationProximity scores 1.0 for the same city, 0.5 for the same
// state and 0 otherwise. Blank fields never count as a match.
func locationProximity(a, b models.HackerProfile) float64 {
	sameState := a.State != "" && strings.EqualFold(a.State, b.State)
	sameCity := sameState && a.City != "" && strings.EqualFold(a.City, b.City)

	if sameCity {
		return 1.0
	}
	if sameState {
		return 0.5
	}
	return 0
}

// githubActivityBounds carries the pool-wide min/max used to normalize
// the GitHub term. Only connected candidates contribute.
type githubActivityBounds struct {
	minStars, maxStars   int
	minStreak, maxStreak int
	found                bool
}

func githubBounds(pool []models.HackerProfile) githubActivityBounds {
	var b githubActivityBounds
	for _, candidate := range pool {
		if !candidate.GitHub.Connected {
			continue
		}
		stats := candidate.GitHub
		if !b.found {
			b.minStars, b.maxStars = stats.Stars, stats.Stars
			b.minStreak, b.maxStreak = stats.CurrentStreak, stats.CurrentStreak
			b.found = true
			continue
		}
		if stats.Stars < b.minStars {
			b.minStars = stats.Stars
		}
		if stats.Stars > b.maxStars {
			b.maxStars = stats.Stars
		}
		if stats.CurrentStreak < b.minStreak {
			b.minStreak = stats.CurrentStreak
		}
		if stats.CurrentStreak > b.maxStreak {
			b.maxStreak = stats.CurrentStreak
		}
	}
	return b
}

// githubActivity min-max normalizes stars and current streak across the
// eligible pool and averages the two. Candidates with no GitHub
// connection score 0; a degenerate pool (all values equal) also scores
// 0 rather than rewarding the lack of signal.
func githubActivity(stats models.GitHubStats, bounds githubActivityBounds) float64 {
	if !stats.Connected || !bounds.found {
		return 0
	}
	starScore := minMaxNormalize(stats.Stars, bounds.minStars, bounds.maxStars)
	streakScore := minMaxNormalize(stats.CurrentStreak, bounds.minStreak, bounds.maxStreak)
	return (starScore + streakScore) / 2
}

func minMaxNormalize(value, min, max int) float64 {
	if max <= min {
		return 0
	}
	return float64(value-min) / float64(max-min)
}
