// Package models defines the core data structures shared by the client
// stores and the stub API server: users, jobs, resumes, applications and
// the search/pagination envelopes.
package models

import "time"

// Role identifies the account type of a user.
type Role string

const (
	// RoleStudent is a job seeker account.
	RoleStudent Role = "student"
	// RoleCompany is an employer account that owns job postings.
	RoleCompany Role = "company"
	// RoleAdmin is a platform administrator.
	RoleAdmin Role = "admin"
)

// User is the identity record of an authenticated account.
// Only the session store writes it; everything else treats it as read-only.
type User struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	FullName   string `json:"fullName"`
	Phone      string `json:"phone,omitempty"`
	Role       Role   `json:"role"`
	IsVerified bool   `json:"isVerified"`
	IsActive   bool   `json:"isActive"`
}

// TokenPair carries the bearer credentials issued on login.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// JobStatus is the lifecycle state of a job posting.
type JobStatus string

const (
	JobDraft     JobStatus = "draft"
	JobPublished JobStatus = "published"
	JobClosed    JobStatus = "closed"
)

// Job is a single job posting.
type Job struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"companyId"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Skills      []string  `json:"skills,omitempty"`
	SalaryMin   int       `json:"salaryMin,omitempty"`
	SalaryMax   int       `json:"salaryMax,omitempty"`
	JobType     string    `json:"jobType,omitempty"`
	Remote      bool      `json:"remote,omitempty"`
	Status      JobStatus `json:"status"`
	PostedAt    time.Time `json:"postedAt"`
}

// ResourceID implements store.Resource.
func (j Job) ResourceID() string { return j.ID }

// ResumeStatus is the lifecycle state of a resume.
type ResumeStatus string

const (
	ResumeDraft    ResumeStatus = "draft"
	ResumeReady    ResumeStatus = "ready"
	ResumeArchived ResumeStatus = "archived"
)

// ResumeSection is one titled block of a resume document
// (experience, education, projects and so on).
type ResumeSection struct {
	Title   string   `json:"title"`
	Bullets []string `json:"bullets,omitempty"`
}

// Resume is a resume document, either user-authored or AI-generated.
type Resume struct {
	ID        string          `json:"id"`
	OwnerID   string          `json:"ownerId"`
	Title     string          `json:"title"`
	Headline  string          `json:"headline,omitempty"`
	Summary   string          `json:"summary,omitempty"`
	Skills    []string        `json:"skills,omitempty"`
	Sections  []ResumeSection `json:"sections,omitempty"`
	ATSScore  int             `json:"atsScore,omitempty"`
	Status    ResumeStatus    `json:"status"`
	Generated bool            `json:"generated"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// ResourceID implements store.Resource.
func (r Resume) ResourceID() string { return r.ID }

// ApplicationStatus is the lifecycle state of a job application.
type ApplicationStatus string

const (
	ApplicationPending   ApplicationStatus = "pending"
	ApplicationReviewed  ApplicationStatus = "reviewed"
	ApplicationAccepted  ApplicationStatus = "accepted"
	ApplicationRejected  ApplicationStatus = "rejected"
	ApplicationWithdrawn ApplicationStatus = "withdrawn"
)

// Application links a resume of an applicant to a job posting.
type Application struct {
	ID          string            `json:"id"`
	JobID       string            `json:"jobId"`
	ApplicantID string            `json:"applicantId"`
	ResumeID    string            `json:"resumeId"`
	CoverLetter string            `json:"coverLetter,omitempty"`
	Status      ApplicationStatus `json:"status"`
	AppliedAt   time.Time         `json:"appliedAt"`
}

// ResourceID implements store.Resource.
func (a Application) ResourceID() string { return a.ID }

// JobFilters narrows a job search. Zero values mean "no filter".
type JobFilters struct {
	Query     string `json:"query,omitempty"`
	Location  string `json:"location,omitempty"`
	JobType   string `json:"jobType,omitempty"`
	Remote    bool   `json:"remote,omitempty"`
	MinSalary int    `json:"minSalary,omitempty"`
}

// Page is the server's pagination envelope for list responses.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalCount int `json:"totalCount"`
	TotalPages int `json:"totalPages"`
}

// MatchResult scores one job against a resume. Scores are in [0,100].
type MatchResult struct {
	JobID string `json:"jobId"`
	Score int    `json:"score"`
}
