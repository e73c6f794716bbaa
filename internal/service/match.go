package service

import (
	"sort"
	"strings"

	"github.com/smartcareer/smartcareer-go/internal/models"
)

// MatchResumeToJobs scores every job against the resume's skill set.
// The score is a deterministic keyword overlap in [0,100]: skills found in
// the job's skill list weigh more than skills merely mentioned in the
// description. Results come back sorted by score, best first.
func MatchResumeToJobs(resume models.Resume, jobs []models.Job) []models.MatchResult {
	results := make([]models.MatchResult, 0, len(jobs))
	for _, job := range jobs {
		results = append(results, models.MatchResult{
			JobID: job.ID,
			Score: matchScore(resume, job),
		})
	}
	sort.SliceStable(results, func(i, k int) bool { return results[i].Score > results[k].Score })
	return results
}

func matchScore(resume models.Resume, job models.Job) int {
	if len(resume.Skills) == 0 {
		return 0
	}

	jobSkills := make(map[string]bool, len(job.Skills))
	for _, s := range job.Skills {
		jobSkills[strings.ToLower(s)] = true
	}
	description := strings.ToLower(job.Description + " " + job.Title)

	points := 0
	for _, s := range resume.Skills {
		skill := strings.ToLower(s)
		switch {
		case jobSkills[skill]:
			points += 2
		case strings.Contains(description, skill):
			points++
		}
	}

	// Normalize against the best possible outcome for this resume.
	score := points * 100 / (2 * len(resume.Skills))
	if score > 100 {
		score = 100
	}
	return score
}
