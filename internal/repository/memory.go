// Package repository provides persistence for the stub SmartCareer API
// server: an in-memory store covering the whole dataset, plus a
// PostgreSQL-backed user repository for deployments with a database.
package repository

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/smartcareer/smartcareer-go/internal/models"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken is returned on registration with a known email.
	ErrEmailTaken = errors.New("email already registered")
)

// Memory is the in-memory dataset of the stub server. It also implements
// the user repository interface of the auth service.
type Memory struct {
	mu           sync.Mutex
	users        map[string]models.User
	passwords    map[string]string // user id -> bcrypt hash
	jobs         []models.Job
	resumes      []models.Resume
	applications []models.Application
}

// NewMemory returns an empty in-memory repository.
func NewMemory() *Memory {
	return &Memory{
		users:     make(map[string]models.User),
		passwords: make(map[string]string),
	}
}

// --- user repository ---

// CreateUser stores a new user with the given password hash.
func (m *Memory) CreateUser(_ context.Context, u models.User, passwordHash string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return models.User{}, ErrEmailTaken
		}
	}
	u.ID = uuid.NewString()
	u.IsActive = true
	m.users[u.ID] = u
	m.passwords[u.ID] = passwordHash
	return u, nil
}

// UserByEmail returns the user and password hash for an email.
func (m *Memory) UserByEmail(_ context.Context, email string) (models.User, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, m.passwords[id], nil
		}
	}
	return models.User{}, "", ErrNotFound
}

// UserByID returns the user with the given id.
func (m *Memory) UserByID(_ context.Context, id string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return u, nil
}

// UpdateUser replaces the stored user record.
func (m *Memory) UpdateUser(_ context.Context, u models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return models.User{}, ErrNotFound
	}
	m.users[u.ID] = u
	return u, nil
}

// UpdatePassword replaces the stored password hash.
func (m *Memory) UpdatePassword(_ context.Context, id, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return ErrNotFound
	}
	m.passwords[id] = passwordHash
	return nil
}

// PasswordHash returns the stored hash for a user id.
func (m *Memory) PasswordHash(_ context.Context, id string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	hash, ok := m.passwords[id]
	if !ok {
		return "", ErrNotFound
	}
	return hash, nil
}

// --- jobs ---

// ListJobs filters, sorts and paginates the job collection. Only
// published jobs are visible unless companyID narrows to an owner.
func (m *Memory) ListJobs(filters models.JobFilters, companyID string, page, pageSize int) models.Page[models.Job] {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []models.Job
	for _, j := range m.jobs {
		if companyID != "" {
			if j.CompanyID != companyID {
				continue
			}
		} else if j.Status != models.JobPublished {
			continue
		}
		if !jobMatches(j, filters) {
			continue
		}
		matched = append(matched, j)
	}
	sort.SliceStable(matched, func(i, k int) bool { return matched[i].PostedAt.After(matched[k].PostedAt) })

	return paginate(matched, page, pageSize)
}

func jobMatches(j models.Job, f models.JobFilters) bool {
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(j.Title), q) &&
			!strings.Contains(strings.ToLower(j.Description), q) &&
			!strings.Contains(strings.ToLower(j.Company), q) {
			return false
		}
	}
	if f.Location != "" && !strings.EqualFold(j.Location, f.Location) {
		return false
	}
	if f.JobType != "" && !strings.EqualFold(j.JobType, f.JobType) {
		return false
	}
	if f.Remote && !j.Remote {
		return false
	}
	if f.MinSalary > 0 && j.SalaryMax < f.MinSalary {
		return false
	}
	return true
}

func paginate[T any](items []T, page, pageSize int) models.Page[T] {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	out := make([]T, end-start)
	copy(out, items[start:end])
	return models.Page[T]{Items: out, Page: page, PageSize: pageSize, TotalCount: total, TotalPages: totalPages}
}

// JobByID returns a published or owned job.
func (m *Memory) JobByID(id string) (models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, j := range m.jobs {
		if j.ID == id {
			return j, nil
		}
	}
	return models.Job{}, ErrNotFound
}

// CreateJob stores a new posting owned by companyID.
func (m *Memory) CreateJob(companyID string, j models.Job) models.Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	j.ID = uuid.NewString()
	j.CompanyID = companyID
	if j.Status == "" {
		j.Status = models.JobDraft
	}
	j.PostedAt = time.Now()
	m.jobs = append(m.jobs, j)
	return j
}

// UpdateJob applies patch and returns the canonical record.
func (m *Memory) UpdateJob(id string, patch models.JobPatch) (models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.jobs {
		if m.jobs[i].ID != id {
			continue
		}
		patch.Apply(&m.jobs[i])
		return m.jobs[i], nil
	}
	return models.Job{}, ErrNotFound
}

// TransitionJob moves a job to the given status.
func (m *Memory) TransitionJob(id string, status models.JobStatus) (models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.jobs {
		if m.jobs[i].ID == id {
			m.jobs[i].Status = status
			return m.jobs[i], nil
		}
	}
	return models.Job{}, ErrNotFound
}

// DeleteJob removes a posting.
func (m *Memory) DeleteJob(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.jobs {
		if m.jobs[i].ID == id {
			m.jobs = append(m.jobs[:i], m.jobs[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// PublishedJobs returns all published postings, for match scoring.
func (m *Memory) PublishedJobs() []models.Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Job
	for _, j := range m.jobs {
		if j.Status == models.JobPublished {
			out = append(out, j)
		}
	}
	return out
}

// --- resumes ---

// ListResumes paginates the resumes owned by ownerID, newest first.
func (m *Memory) ListResumes(ownerID string, page, pageSize int) models.Page[models.Resume] {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []models.Resume
	for _, r := range m.resumes {
		if r.OwnerID == ownerID && r.Status != models.ResumeArchived {
			matched = append(matched, r)
		}
	}
	sort.SliceStable(matched, func(i, k int) bool { return matched[i].UpdatedAt.After(matched[k].UpdatedAt) })
	return paginate(matched, page, pageSize)
}

// ResumeByID returns the resume with the given id.
func (m *Memory) ResumeByID(id string) (models.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.resumes {
		if r.ID == id {
			return r, nil
		}
	}
	return models.Resume{}, ErrNotFound
}

// CreateResume stores a resume owned by ownerID.
func (m *Memory) CreateResume(ownerID string, r models.Resume) models.Resume {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = uuid.NewString()
	r.OwnerID = ownerID
	if r.Status == "" {
		r.Status = models.ResumeDraft
	}
	r.UpdatedAt = time.Now()
	m.resumes = append(m.resumes, r)
	return r
}

// UpdateResume applies patch and returns the canonical record with a
// freshly computed ATS score.
func (m *Memory) UpdateResume(id string, patch models.ResumePatch) (models.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.resumes {
		if m.resumes[i].ID != id {
			continue
		}
		patch.Apply(&m.resumes[i])
		m.resumes[i].ATSScore = atsScore(m.resumes[i])
		m.resumes[i].UpdatedAt = time.Now()
		return m.resumes[i], nil
	}
	return models.Resume{}, ErrNotFound
}

// atsScore is a deterministic completeness score in [0,100]. Caller holds
// the lock.
func atsScore(r models.Resume) int {
	score := 0
	if r.Headline != "" {
		score += 15
	}
	if r.Summary != "" {
		score += 15
	}
	if len(r.Skills) >= 3 {
		score += 30
	} else {
		score += 10 * len(r.Skills)
	}
	if len(r.Sections) > 0 {
		score += 25
	}
	if r.Title != "" {
		score += 15
	}
	if score > 100 {
		score = 100
	}
	return score
}

// TransitionResume moves a resume to the given status.
func (m *Memory) TransitionResume(id string, status models.ResumeStatus) (models.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.resumes {
		if m.resumes[i].ID == id {
			m.resumes[i].Status = status
			m.resumes[i].UpdatedAt = time.Now()
			return m.resumes[i], nil
		}
	}
	return models.Resume{}, ErrNotFound
}

// DeleteResume removes a resume.
func (m *Memory) DeleteResume(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.resumes {
		if m.resumes[i].ID == id {
			m.resumes = append(m.resumes[:i], m.resumes[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// --- applications ---

// ListApplications paginates the applications of one applicant.
func (m *Memory) ListApplications(applicantID string, page, pageSize int) models.Page[models.Application] {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []models.Application
	for _, a := range m.applications {
		if a.ApplicantID == applicantID {
			matched = append(matched, a)
		}
	}
	sort.SliceStable(matched, func(i, k int) bool { return matched[i].AppliedAt.After(matched[k].AppliedAt) })
	return paginate(matched, page, pageSize)
}

// ApplicationByID returns the application with the given id.
func (m *Memory) ApplicationByID(id string) (models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.applications {
		if a.ID == id {
			return a, nil
		}
	}
	return models.Application{}, ErrNotFound
}

// CreateApplication stores a new application for applicantID.
func (m *Memory) CreateApplication(applicantID string, a models.Application) models.Application {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = uuid.NewString()
	a.ApplicantID = applicantID
	a.Status = models.ApplicationPending
	a.AppliedAt = time.Now()
	m.applications = append(m.applications, a)
	return a
}

// TransitionApplication moves an application to the given status.
func (m *Memory) TransitionApplication(id string, status models.ApplicationStatus) (models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.applications {
		if m.applications[i].ID == id {
			m.applications[i].Status = status
			return m.applications[i], nil
		}
	}
	return models.Application{}, ErrNotFound
}

// DeleteApplication removes an application.
func (m *Memory) DeleteApplication(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.applications {
		if m.applications[i].ID == id {
			m.applications = append(m.applications[:i], m.applications[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
