package util

import (
	"math/rand"
	"testing"
)

func TestScoreJobExample(t *testing.T) {
	job := MatchJob{
		Location:     "Bangalore, India",
		Requirements: []string{"3+ years in a Mid Level coaching role", "Level 2 certification"},
		Tags:         []string{"Cricket", "Coaching"},
	}
	profile := MatchProfile{
		Skills:            []string{"Cricket"},
		PreferredLocation: "Bangalore",
		ExperienceLevel:   "Mid Level",
	}
	if got := ScoreJob(job, profile); got != 70 {
		t.Fatalf("ScoreJob = %d, want 70", got)
	}
}

func TestScoreJob(t *testing.T) {
	job := MatchJob{
		Location:     "Mumbai, India",
		Requirements: []string{"Entry level welcome"},
		Tags:         []string{"Analytics", "Football", "Data"},
	}
	tests := []struct {
		name    string
		profile MatchProfile
		want    int
	}{
		{"empty profile", MatchProfile{}, 0},
		{"one skill", MatchProfile{Skills: []string{"football"}}, 30},
		{"duplicate skill counted once", MatchProfile{Skills: []string{"Football", "FOOTBALL", " football "}}, 30},
		{"two skills", MatchProfile{Skills: []string{"Football", "Data"}}, 60},
		{"location only", MatchProfile{PreferredLocation: "mumbai"}, 20},
		{"experience only", MatchProfile{ExperienceLevel: "Entry Level"}, 20},
		{"blank criteria", MatchProfile{PreferredLocation: "  ", ExperienceLevel: ""}, 0},
		{"capped", MatchProfile{Skills: []string{"Analytics", "Football", "Data"}, PreferredLocation: "Mumbai", ExperienceLevel: "entry"}, MaxMatchScore},
		{"no overlap", MatchProfile{Skills: []string{"Tennis"}, PreferredLocation: "Delhi", ExperienceLevel: "Senior"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScoreJob(job, tt.profile); got != tt.want {
				t.Errorf("ScoreJob = %d, want %d", got, tt.want)
			}
		})
	}
}

var vocabulary = []string{"Cricket", "Football", "Coaching", "Analytics", "Physio", "Mid Level", "Senior", "Bangalore", "Delhi", "Mumbai", ""}

func randomWords(r *rand.Rand, max int) []string {
	n := r.Intn(max + 1)
	out := make([]string, n)
	for i := range out {
		out[i] = vocabulary[r.Intn(len(vocabulary))]
	}
	return out
}

func randomJob(r *rand.Rand) MatchJob {
	return MatchJob{
		Location:     vocabulary[r.Intn(len(vocabulary))] + ", India",
		Requirements: randomWords(r, 3),
		Tags:         randomWords(r, 5),
	}
}

func randomProfile(r *rand.Rand) MatchProfile {
	return MatchProfile{
		Skills:            randomWords(r, 6),
		PreferredLocation: vocabulary[r.Intn(len(vocabulary))],
		ExperienceLevel:   vocabulary[r.Intn(len(vocabulary))],
	}
}

func TestScoreJobBounds(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 2000; i++ {
		job, profile := randomJob(r), randomProfile(r)
		score := ScoreJob(job, profile)
		if score < 0 || score > MaxMatchScore {
			t.Fatalf("score %d out of range for job %+v profile %+v", score, job, profile)
		}
		if score%10 != 0 {
			t.Fatalf("score %d is not a sum of award points", score)
		}
	}
}

func TestRankJobsStable(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for i := 0; i < 200; i++ {
		jobs := make([]MatchJob, r.Intn(12))
		for j := range jobs {
			jobs[j] = randomJob(r)
		}
		profile := randomProfile(r)

		order, scores := RankJobs(jobs, profile)
		if len(order) != len(jobs) {
			t.Fatalf("order has %d entries, want %d", len(order), len(jobs))
		}
		for k := 1; k < len(order); k++ {
			prev, cur := order[k-1], order[k]
			if scores[prev] < scores[cur] {
				t.Fatalf("not descending at %d: %v", k, scores)
			}
			if scores[prev] == scores[cur] && prev > cur {
				t.Fatalf("equal scores reordered: %d before %d", prev, cur)
			}
		}
	}
}
