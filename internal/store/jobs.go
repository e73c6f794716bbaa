package store

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smartcareer/smartcareer-go/internal/api"
	"github.com/smartcareer/smartcareer-go/internal/models"
	"github.com/smartcareer/smartcareer-go/internal/session"
)

// SearchState is the current search position of the jobs store: the active
// filters plus the pagination snapshot of the last successful search.
type SearchState struct {
	Filters    models.JobFilters
	Page       int
	PageSize   int
	TotalCount int
	TotalPages int
}

// JobsStore is the resource store for job postings. On top of the generic
// CRUD pattern it owns the search state and the AI match results.
type JobsStore struct {
	Store[models.Job]

	// guarded by Store.mu so filters never disagree with items
	filters models.JobFilters

	matches  []models.MatchResult
	matchSeq uint64
}

// NewJobs constructs the jobs store against /api/jobs.
func NewJobs(client *api.Client, sess *session.Store, log *zap.Logger) *JobsStore {
	return &JobsStore{Store: newStore[models.Job](client, sess, log, "/api/jobs")}
}

// Search runs a filtered, paginated job search. The collection and the
// search state are replaced in one critical section, and a stale
// completion (one overtaken by a newer Search) is dropped entirely.
func (s *JobsStore) Search(ctx context.Context, filters models.JobFilters, page, pageSize int) error {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	query := url.Values{}
	if filters.Query != "" {
		query.Set("q", filters.Query)
	}
	if filters.Location != "" {
		query.Set("location", filters.Location)
	}
	if filters.JobType != "" {
		query.Set("jobType", filters.JobType)
	}
	if filters.Remote {
		query.Set("remote", "true")
	}
	if filters.MinSalary > 0 {
		query.Set("minSalary", strconv.Itoa(filters.MinSalary))
	}
	query.Set("page", strconv.Itoa(page))
	query.Set("pageSize", strconv.Itoa(pageSize))

	return s.list(ctx, query, func(models.Page[models.Job]) {
		s.filters = filters
	})
}

// SearchState returns the filters and pagination of the last search.
func (s *JobsStore) SearchState() SearchState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SearchState{
		Filters:    s.filters,
		Page:       s.page,
		PageSize:   s.pageSize,
		TotalCount: s.totalCount,
		TotalPages: s.totalPages,
	}
}

// Create posts a new job. The collection immediately gets a placeholder
// with a client-issued id; the server's item replaces it on confirmation.
func (s *JobsStore) Create(ctx context.Context, draft models.Job) error {
	localID := "local-" + uuid.NewString()
	placeholder := draft
	placeholder.ID = localID
	placeholder.Status = models.JobDraft
	placeholder.PostedAt = time.Now()
	return s.create(ctx, s.basePath, draft, placeholder, localID)
}

// Publish moves a draft job to published, adopting the server's object.
func (s *JobsStore) Publish(ctx context.Context, id string) error {
	return s.Transition(ctx, id, "publish")
}

// Close closes a published job, adopting the server's object.
func (s *JobsStore) Close(ctx context.Context, id string) error {
	return s.Transition(ctx, id, "close")
}

// MatchAgainstResume scores the current job collection against a resume.
// The match set is replaced wholesale; the collection itself is untouched.
// Concurrent match calls resolve last-request-wins like list calls.
func (s *JobsStore) MatchAgainstResume(ctx context.Context, resumeID string) error {
	s.mu.Lock()
	s.matchSeq++
	seq := s.matchSeq
	s.loading = true
	s.mu.Unlock()

	var results []models.MatchResult
	err := s.authorized(ctx, func() error {
		return s.api.Post(ctx, s.basePath+"/match", map[string]string{"resumeId": resumeID}, &results)
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.matchSeq {
		return err
	}
	s.loading = false
	if err != nil {
		s.lastErr = api.Normalize(err)
		return err
	}
	s.matches = results
	s.lastErr = nil
	return nil
}

// Matches returns a copy of the current match results.
func (s *JobsStore) Matches() []models.MatchResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.MatchResult, len(s.matches))
	copy(out, s.matches)
	return out
}
