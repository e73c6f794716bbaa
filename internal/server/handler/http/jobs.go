package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/smartcareer/smartcareer-go/internal/middleware"
	"github.com/smartcareer/smartcareer-go/internal/models"
	"github.com/smartcareer/smartcareer-go/internal/repository"
	"github.com/smartcareer/smartcareer-go/internal/service"
)

// JobsHandler serves the /api/jobs endpoints over the in-memory dataset.
type JobsHandler struct {
	Repo *repository.Memory
}

// List handles filtered, paginated job search.
func (h *JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := models.JobFilters{
		Query:    q.Get("q"),
		Location: q.Get("location"),
		JobType:  q.Get("jobType"),
		Remote:   q.Get("remote") == "true",
	}
	if v, err := strconv.Atoi(q.Get("minSalary")); err == nil {
		filters.MinSalary = v
	}
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("pageSize"))

	// Companies browse their own postings, everyone else the public feed.
	companyID := ""
	if user, ok := middleware.UserFromContext(r.Context()); ok && user.Role == models.RoleCompany {
		companyID = user.ID
	}
	writeData(w, http.StatusOK, h.Repo.ListJobs(filters, companyID, page, pageSize))
}

// Get returns a single job by id.
func (h *JobsHandler) Get(w http.ResponseWriter, r *http.Request) {
	job, err := h.Repo.JobByID(chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, http.StatusNotFound, "not_found", "job not found")
		return
	}
	writeData(w, http.StatusOK, job)
}

// Create stores a new job owned by the authenticated company.
func (h *JobsHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok || user.Role != models.RoleCompany {
		writeErr(w, http.StatusForbidden, "forbidden", "only companies can post jobs")
		return
	}
	var job models.Job
	if err := json.NewDecoder(r.Body).Decode(&job); err != nil || job.Title == "" {
		writeErr(w, http.StatusBadRequest, "invalid_request", "title is required")
		return
	}
	writeData(w, http.StatusCreated, h.Repo.CreateJob(user.ID, job))
}

// Update patches a job and returns the canonical record.
func (h *JobsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch models.JobPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid_request", "malformed body")
		return
	}
	job, err := h.Repo.UpdateJob(chi.URLParam(r, "id"), patch)
	if err != nil {
		writeErr(w, http.StatusNotFound, "not_found", "job not found")
		return
	}
	writeData(w, http.StatusOK, job)
}

// Delete removes a job posting.
func (h *JobsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Repo.DeleteJob(chi.URLParam(r, "id")); err != nil {
		writeErr(w, http.StatusNotFound, "not_found", "job not found")
		return
	}
	writeOK(w)
}

// Publish moves a job to published.
func (h *JobsHandler) Publish(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, models.JobPublished)
}

// Close moves a job to closed.
func (h *JobsHandler) Close(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, models.JobClosed)
}

func (h *JobsHandler) transition(w http.ResponseWriter, r *http.Request, status models.JobStatus) {
	job, err := h.Repo.TransitionJob(chi.URLParam(r, "id"), status)
	if err != nil {
		writeErr(w, http.StatusNotFound, "not_found", "job not found")
		return
	}
	writeData(w, http.StatusOK, job)
}

// Match scores all published jobs against one of the caller's resumes.
func (h *JobsHandler) Match(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "unauthorized", "login required")
		return
	}
	var req struct {
		ResumeID string `json:"resumeId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ResumeID == "" {
		writeErr(w, http.StatusBadRequest, "invalid_request", "resumeId is required")
		return
	}
	resume, err := h.Repo.ResumeByID(req.ResumeID)
	if err != nil || resume.OwnerID != user.ID {
		writeErr(w, http.StatusNotFound, "not_found", "resume not found")
		return
	}
	writeData(w, http.StatusOK, service.MatchResumeToJobs(resume, h.Repo.PublishedJobs()))
}
