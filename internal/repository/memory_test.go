package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcareer/smartcareer-go/internal/models"
)

func TestMemoryUsers(t *testing.T) {
	repo := NewMemory()
	ctx := context.Background()

	u, err := repo.CreateUser(ctx, models.User{Email: "demo@smartcareer.uz", FullName: "Demo"}, "hash")
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)
	assert.True(t, u.IsActive)

	// Email uniqueness is case-insensitive.
	_, err = repo.CreateUser(ctx, models.User{Email: "DEMO@smartcareer.uz"}, "hash2")
	require.ErrorIs(t, err, ErrEmailTaken)

	got, hash, err := repo.UserByEmail(ctx, "Demo@SmartCareer.uz")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "hash", hash)

	_, _, err = repo.UserByEmail(ctx, "nobody@smartcareer.uz")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryListJobsVisibility(t *testing.T) {
	repo := NewMemory()

	repo.CreateJob("c1", models.Job{Title: "Go Developer", Status: models.JobPublished})
	repo.CreateJob("c1", models.Job{Title: "Hidden Draft"})
	repo.CreateJob("c2", models.Job{Title: "Other Company", Status: models.JobPublished})

	// The public listing only shows published jobs.
	page := repo.ListJobs(models.JobFilters{}, "", 1, 10)
	assert.Equal(t, 2, page.TotalCount)
	for _, j := range page.Items {
		assert.Equal(t, models.JobPublished, j.Status)
	}

	// A company sees all of its own jobs including drafts, and nobody
	// else's.
	page = repo.ListJobs(models.JobFilters{}, "c1", 1, 10)
	assert.Equal(t, 2, page.TotalCount)
	for _, j := range page.Items {
		assert.Equal(t, "c1", j.CompanyID)
	}
}

func TestMemoryListJobsFilters(t *testing.T) {
	repo := NewMemory()
	repo.CreateJob("c1", models.Job{Title: "Go Developer", Location: "Tashkent", JobType: "full-time", Remote: true, SalaryMax: 2000, Status: models.JobPublished})
	repo.CreateJob("c1", models.Job{Title: "Accountant", Location: "Samarkand", JobType: "part-time", SalaryMax: 500, Status: models.JobPublished})

	page := repo.ListJobs(models.JobFilters{Query: "go"}, "", 1, 10)
	require.Equal(t, 1, page.TotalCount)
	assert.Equal(t, "Go Developer", page.Items[0].Title)

	page = repo.ListJobs(models.JobFilters{Location: "tashkent"}, "", 1, 10)
	assert.Equal(t, 1, page.TotalCount)

	page = repo.ListJobs(models.JobFilters{Remote: true}, "", 1, 10)
	assert.Equal(t, 1, page.TotalCount)

	page = repo.ListJobs(models.JobFilters{MinSalary: 1000}, "", 1, 10)
	assert.Equal(t, 1, page.TotalCount)

	page = repo.ListJobs(models.JobFilters{Query: "architect"}, "", 1, 10)
	assert.Equal(t, 0, page.TotalCount)
}

func TestPaginateClampsPage(t *testing.T) {
	repo := NewMemory()
	for i := 0; i < 5; i++ {
		repo.CreateJob("c1", models.Job{Title: "Job", Status: models.JobPublished})
	}

	page := repo.ListJobs(models.JobFilters{}, "", 99, 2)
	assert.Equal(t, 3, page.Page)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Items, 1)

	// An empty result set reports zero pages without panicking.
	empty := repo.ListJobs(models.JobFilters{Query: "no-such"}, "", 1, 2)
	assert.Equal(t, 0, empty.TotalPages)
	assert.Empty(t, empty.Items)
}

func TestMemoryUpdateResumeRecomputesScore(t *testing.T) {
	repo := NewMemory()
	r := repo.CreateResume("u1", models.Resume{Title: "My Resume"})

	headline := "Backend Engineer"
	summary := "Five years of Go."
	skills := []string{"go", "sql", "docker"}
	updated, err := repo.UpdateResume(r.ID, models.ResumePatch{
		Headline: &headline,
		Summary:  &summary,
		Skills:   &skills,
	})
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", updated.Headline)
	// title 15 + headline 15 + summary 15 + 3 skills 30
	assert.Equal(t, 75, updated.ATSScore)
}

func TestMemoryListResumesExcludesArchived(t *testing.T) {
	repo := NewMemory()
	keep := repo.CreateResume("u1", models.Resume{Title: "Keep"})
	archived := repo.CreateResume("u1", models.Resume{Title: "Old"})
	repo.CreateResume("u2", models.Resume{Title: "Someone Else"})

	_, err := repo.TransitionResume(archived.ID, models.ResumeArchived)
	require.NoError(t, err)

	page := repo.ListResumes("u1", 1, 10)
	require.Equal(t, 1, page.TotalCount)
	assert.Equal(t, keep.ID, page.Items[0].ID)
}

func TestMemoryApplications(t *testing.T) {
	repo := NewMemory()
	a := repo.CreateApplication("u1", models.Application{JobID: "job-1", ResumeID: "res-1"})
	require.NotEmpty(t, a.ID)
	assert.Equal(t, models.ApplicationPending, a.Status)

	withdrawn, err := repo.TransitionApplication(a.ID, models.ApplicationWithdrawn)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationWithdrawn, withdrawn.Status)

	page := repo.ListApplications("u1", 1, 10)
	assert.Equal(t, 1, page.TotalCount)
	assert.Empty(t, repo.ListApplications("u2", 1, 10).Items)

	require.NoError(t, repo.DeleteApplication(a.ID))
	require.ErrorIs(t, repo.DeleteApplication(a.ID), ErrNotFound)
}
