package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcareer/smartcareer-go/internal/models"
)

func TestMatchResumeToJobs(t *testing.T) {
	resume := models.Resume{Skills: []string{"Go", "PostgreSQL"}}
	jobs := []models.Job{
		{ID: "perfect", Skills: []string{"go", "postgresql"}},
		{ID: "partial", Skills: []string{"go"}, Description: "Experience with MySQL."},
		{ID: "mention", Description: "We use Go and PostgreSQL in production."},
		{ID: "none", Skills: []string{"java"}},
	}

	results := MatchResumeToJobs(resume, jobs)
	require.Len(t, results, 4)

	// Sorted best first.
	assert.Equal(t, "perfect", results[0].JobID)
	assert.Equal(t, 100, results[0].Score)
	assert.Equal(t, "partial", results[1].JobID)
	assert.Equal(t, 50, results[1].Score)
	assert.Equal(t, "mention", results[2].JobID)
	assert.Equal(t, 50, results[2].Score)
	assert.Equal(t, "none", results[3].JobID)
	assert.Equal(t, 0, results[3].Score)
}

func TestMatchScoreEmptySkills(t *testing.T) {
	results := MatchResumeToJobs(models.Resume{}, []models.Job{{ID: "any", Skills: []string{"go"}}})
	require.Len(t, results, 1)
	assert.Equal(t, 0, results[0].Score)
}

func TestMatchScoreCaseInsensitive(t *testing.T) {
	resume := models.Resume{Skills: []string{"DOCKER"}}
	results := MatchResumeToJobs(resume, []models.Job{{ID: "j", Skills: []string{"Docker"}}})
	assert.Equal(t, 100, results[0].Score)
}

func TestMatchScoreBounded(t *testing.T) {
	resume := models.Resume{Skills: []string{"go"}}
	// Skill both listed and mentioned; the score tops out at 100.
	job := models.Job{ID: "j", Title: "Go Developer", Skills: []string{"go"}, Description: "go go go"}
	results := MatchResumeToJobs(resume, []models.Job{job})
	assert.Equal(t, 100, results[0].Score)
}
