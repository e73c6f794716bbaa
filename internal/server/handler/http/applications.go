package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/smartcareer/smartcareer-go/internal/middleware"
	"github.com/smartcareer/smartcareer-go/internal/models"
	"github.com/smartcareer/smartcareer-go/internal/repository"
)

// ApplicationsHandler serves the /api/applications endpoints.
type ApplicationsHandler struct {
	Repo *repository.Memory
}

// List returns the caller's applications, paginated.
func (h *ApplicationsHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "unauthorized", "login required")
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	writeData(w, http.StatusOK, h.Repo.ListApplications(user.ID, page, pageSize))
}

// Get returns a single application owned by the caller.
func (h *ApplicationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	app, err := h.Repo.ApplicationByID(chi.URLParam(r, "id"))
	if err != nil || app.ApplicantID != user.ID {
		writeErr(w, http.StatusNotFound, "not_found", "application not found")
		return
	}
	writeData(w, http.StatusOK, app)
}

// Create submits a new application. The job must exist and be published,
// the resume must belong to the caller.
func (h *ApplicationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "unauthorized", "login required")
		return
	}
	var app models.Application
	if err := json.NewDecoder(r.Body).Decode(&app); err != nil || app.JobID == "" || app.ResumeID == "" {
		writeErr(w, http.StatusBadRequest, "invalid_request", "jobId and resumeId are required")
		return
	}
	job, err := h.Repo.JobByID(app.JobID)
	if err != nil || job.Status != models.JobPublished {
		writeErr(w, http.StatusUnprocessableEntity, "job_unavailable", "job is not open for applications")
		return
	}
	resume, err := h.Repo.ResumeByID(app.ResumeID)
	if err != nil || resume.OwnerID != user.ID {
		writeErr(w, http.StatusUnprocessableEntity, "resume_unavailable", "resume not found")
		return
	}
	writeData(w, http.StatusCreated, h.Repo.CreateApplication(user.ID, app))
}

// Withdraw retracts an application.
func (h *ApplicationsHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	app, err := h.Repo.TransitionApplication(chi.URLParam(r, "id"), models.ApplicationWithdrawn)
	if err != nil {
		writeErr(w, http.StatusNotFound, "not_found", "application not found")
		return
	}
	writeData(w, http.StatusOK, app)
}

// Delete removes an application record.
func (h *ApplicationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Repo.DeleteApplication(chi.URLParam(r, "id")); err != nil {
		writeErr(w, http.StatusNotFound, "not_found", "application not found")
		return
	}
	writeOK(w)
}
