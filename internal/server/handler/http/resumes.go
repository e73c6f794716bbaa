package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/smartcareer/smartcareer-go/internal/middleware"
	"github.com/smartcareer/smartcareer-go/internal/models"
	"github.com/smartcareer/smartcareer-go/internal/repository"
)

// ResumesHandler serves the /api/resumes endpoints, including the AI
// generation stub.
type ResumesHandler struct {
	Repo *repository.Memory
}

// List returns the caller's resumes, paginated.
func (h *ResumesHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "unauthorized", "login required")
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	writeData(w, http.StatusOK, h.Repo.ListResumes(user.ID, page, pageSize))
}

// Get returns a single resume owned by the caller.
func (h *ResumesHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	resume, err := h.Repo.ResumeByID(chi.URLParam(r, "id"))
	if err != nil || resume.OwnerID != user.ID {
		writeErr(w, http.StatusNotFound, "not_found", "resume not found")
		return
	}
	writeData(w, http.StatusOK, resume)
}

// Create stores a user-authored resume.
func (h *ResumesHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "unauthorized", "login required")
		return
	}
	var resume models.Resume
	if err := json.NewDecoder(r.Body).Decode(&resume); err != nil || resume.Title == "" {
		writeErr(w, http.StatusBadRequest, "invalid_request", "title is required")
		return
	}
	writeData(w, http.StatusCreated, h.Repo.CreateResume(user.ID, resume))
}

// Generate builds a resume document from the wizard payload. It stands in
// for the AI backend: deterministic, but shaped exactly like the real
// thing.
func (h *ResumesHandler) Generate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "unauthorized", "login required")
		return
	}
	var payload struct {
		Title      string   `json:"title"`
		FullName   string   `json:"fullName"`
		Headline   string   `json:"headline"`
		Summary    string   `json:"summary"`
		Skills     []string `json:"skills"`
		Experience []string `json:"experience"`
		Education  []string `json:"education"`
		TargetRole string   `json:"targetRole"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Title == "" {
		writeErr(w, http.StatusBadRequest, "invalid_request", "title is required")
		return
	}

	resume := models.Resume{
		Title:     payload.Title,
		Headline:  payload.Headline,
		Summary:   payload.Summary,
		Skills:    payload.Skills,
		Status:    models.ResumeReady,
		Generated: true,
	}
	if resume.Summary == "" {
		resume.Summary = payload.FullName + ", " + payload.TargetRole +
			" with skills in " + strings.Join(payload.Skills, ", ") + "."
	}
	if len(payload.Experience) > 0 {
		resume.Sections = append(resume.Sections, models.ResumeSection{Title: "Experience", Bullets: payload.Experience})
	}
	if len(payload.Education) > 0 {
		resume.Sections = append(resume.Sections, models.ResumeSection{Title: "Education", Bullets: payload.Education})
	}
	writeData(w, http.StatusCreated, h.Repo.CreateResume(user.ID, resume))
}

// Update patches a resume; the canonical record comes back with a
// recomputed ATS score.
func (h *ResumesHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch models.ResumePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid_request", "malformed body")
		return
	}
	resume, err := h.Repo.UpdateResume(chi.URLParam(r, "id"), patch)
	if err != nil {
		writeErr(w, http.StatusNotFound, "not_found", "resume not found")
		return
	}
	writeData(w, http.StatusOK, resume)
}

// Delete removes a resume.
func (h *ResumesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Repo.DeleteResume(chi.URLParam(r, "id")); err != nil {
		writeErr(w, http.StatusNotFound, "not_found", "resume not found")
		return
	}
	writeOK(w)
}

// Archive retires a resume.
func (h *ResumesHandler) Archive(w http.ResponseWriter, r *http.Request) {
	resume, err := h.Repo.TransitionResume(chi.URLParam(r, "id"), models.ResumeArchived)
	if err != nil {
		writeErr(w, http.StatusNotFound, "not_found", "resume not found")
		return
	}
	writeData(w, http.StatusOK, resume)
}
