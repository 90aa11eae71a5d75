package models

// Experience levels a hacker can declare on their profile
const (
	ExperienceBeginner     = "beginner"
	ExperienceIntermediate = "intermediate"
	ExperienceAdvanced     = "advanced"
)

// ExperienceRank maps levels onto consecutive integers so adjacency
// can be checked as a distance of 1.
var ExperienceRank = map[string]int{
	ExperienceBeginner:     0,
	ExperienceIntermediate: 1,
	ExperienceAdvanced:     2,
}

// GitHubStats holds the aggregate GitHub numbers imported for a hacker.
// Connected is false when the hacker never linked a GitHub account.
type GitHubStats struct {
	Connected     bool `dynamodbav:"connected" json:"connected"`
	Stars         int  `dynamodbav:"stars" json:"stars"`
	Contributions int  `dynamodbav:"contributions" json:"contributions"`
	CurrentStreak int  `dynamodbav:"currentStreak" json:"currentStreak"`
}

// HackathonRecord is one past hackathon participation entry
type HackathonRecord struct {
	Name      string `dynamodbav:"name" json:"name"`
	Year      int    `dynamodbav:"year" json:"year"`
	Placement string `dynamodbav:"placement,omitempty" json:"placement,omitempty"`
}

// HackerProfile defines the structure for hacker profiles.
// The engine only ever reads profiles; writes happen elsewhere.
type HackerProfile struct {
	UserID            string            `dynamodbav:"userId" json:"userId"` // Partition Key
	FullName          string            `dynamodbav:"fullName,omitempty" json:"fullName,omitempty"`
	Languages         []string          `dynamodbav:"languages,omitempty" json:"languages,omitempty"`
	Frameworks        []string          `dynamodbav:"frameworks,omitempty" json:"frameworks,omitempty"`
	ExperienceLevel   string            `dynamodbav:"experienceLevel,omitempty" json:"experienceLevel,omitempty"`
	City              string            `dynamodbav:"city,omitempty" json:"city,omitempty"`
	State             string            `dynamodbav:"state,omitempty" json:"state,omitempty"`
	OpenToRecruitment bool              `dynamodbav:"openToRecruitment" json:"openToRecruitment"`
	GitHub            GitHubStats       `dynamodbav:"github" json:"github"`
	Hackathons        []HackathonRecord `dynamodbav:"hackathons,omitempty" json:"hackathons,omitempty"`
}

// HackerProfilesTable is the DynamoDB table name for hacker profiles
const HackerProfilesTable = "HackerProfiles"
