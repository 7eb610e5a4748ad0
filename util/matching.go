package util

import (
	"sort"
	"strings"
)

const (
	SkillPoints      = 30
	LocationPoints   = 20
	ExperiencePoints = 20

	// MaxMatchScore caps a job's score regardless of how many skills overlap.
	MaxMatchScore = 70
)

// MatchProfile is the part of an athlete's profile used for recommendations.
type MatchProfile struct {
	Skills            []string
	PreferredLocation string
	ExperienceLevel   string
}

// MatchJob is the part of a job posting used for recommendations.
type MatchJob struct {
	Location     string
	Requirements []string
	Tags         []string
}

// ScoreJob rates how well job fits profile. Each distinct profile skill found
// among the job tags earns SkillPoints, a preferred location contained in the
// job location earns LocationPoints, and an experience level contained in any
// requirement earns ExperiencePoints. Comparisons ignore case; empty
// criteria earn nothing.
func ScoreJob(job MatchJob, profile MatchProfile) int {
	tags := make(map[string]bool, len(job.Tags))
	for _, tag := range job.Tags {
		tags[normalize(tag)] = true
	}

	score := 0
	seen := make(map[string]bool, len(profile.Skills))
	for _, skill := range profile.Skills {
		s := normalize(skill)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		if tags[s] {
			score += SkillPoints
		}
	}

	if loc := normalize(profile.PreferredLocation); loc != "" &&
		strings.Contains(strings.ToLower(job.Location), loc) {
		score += LocationPoints
	}

	if level := normalize(profile.ExperienceLevel); level != "" {
		for _, req := range job.Requirements {
			if strings.Contains(strings.ToLower(req), level) {
				score += ExperiencePoints
				break
			}
		}
	}

	if score > MaxMatchScore {
		score = MaxMatchScore
	}
	return score
}

// RankJobs returns the indexes of jobs ordered by descending score. Jobs with
// equal scores keep their input order.
func RankJobs(jobs []MatchJob, profile MatchProfile) (order []int, scores []int) {
	scores = make([]int, len(jobs))
	order = make([]int, len(jobs))
	for i, job := range jobs {
		scores[i] = ScoreJob(job, profile)
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	return order, scores
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
