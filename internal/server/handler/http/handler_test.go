package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/smartcareer/smartcareer-go/internal/models"
	"github.com/smartcareer/smartcareer-go/internal/repository"
	"github.com/smartcareer/smartcareer-go/internal/service"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type testServer struct {
	*httptest.Server
	repo *repository.Memory
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	repo := repository.NewMemory()
	auth := service.NewAuthService(repo, service.NewTokenTable(time.Minute, time.Hour), zap.NewNop())
	router := NewRouter(
		&AuthHandler{Auth: auth},
		&JobsHandler{Repo: repo},
		&ResumesHandler{Repo: repo},
		&ApplicationsHandler{Repo: repo},
		zap.NewNop(),
	)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, repo: repo}
}

// do sends a JSON request and decodes the envelope.
func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, s.URL+path, &buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

// signup registers and logs in a user, returning the user and an access
// token.
func (s *testServer) signup(t *testing.T, email string, role models.Role) (models.User, string) {
	t.Helper()
	status, _ := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email":    email,
		"password": "secret12",
		"fullName": "Test User",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, status)

	status, env := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": "secret12",
	})
	require.Equal(t, http.StatusOK, status)

	var out struct {
		User        models.User `json:"user"`
		AccessToken string      `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.NotEmpty(t, out.AccessToken)
	return out.User, out.AccessToken
}

func TestRegisterLoginMe(t *testing.T) {
	srv := newTestServer(t)

	user, token := srv.signup(t, "demo@smartcareer.uz", models.RoleStudent)

	// Registering the same email again conflicts.
	status, env := srv.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "demo@smartcareer.uz",
		"password": "other123",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "email_taken", env.Error.Code)

	// /me requires a token and returns the identity.
	status, _ = srv.do(t, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, env = srv.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	var me models.User
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, user.ID, me.ID)
}

func TestLoginWrongPassword(t *testing.T) {
	srv := newTestServer(t)
	srv.signup(t, "demo@smartcareer.uz", models.RoleStudent)

	status, env := srv.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "demo@smartcareer.uz",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "invalid_credentials", env.Error.Code)
}

func TestJobsSearchAndPagination(t *testing.T) {
	srv := newTestServer(t)
	for i := 0; i < 5; i++ {
		srv.repo.CreateJob("c1", models.Job{Title: "Go Developer", Location: "Tashkent", Status: models.JobPublished})
	}
	srv.repo.CreateJob("c1", models.Job{Title: "Accountant", Location: "Samarkand", Status: models.JobPublished})
	srv.repo.CreateJob("c1", models.Job{Title: "Unpublished Go Role"})

	// Public search, no auth needed.
	status, env := srv.do(t, http.MethodGet, "/api/jobs?q=go&page=2&pageSize=2", "", nil)
	require.Equal(t, http.StatusOK, status)

	var page models.Page[models.Job]
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, 5, page.TotalCount)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 2, page.Page)
	assert.Len(t, page.Items, 2)
}

func TestJobLifecycle(t *testing.T) {
	srv := newTestServer(t)
	_, studentToken := srv.signup(t, "student@smartcareer.uz", models.RoleStudent)
	_, companyToken := srv.signup(t, "hr@techcorp.uz", models.RoleCompany)

	// Students cannot post jobs.
	status, env := srv.do(t, http.MethodPost, "/api/jobs", studentToken, map[string]string{"title": "Nope"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "forbidden", env.Error.Code)

	status, env = srv.do(t, http.MethodPost, "/api/jobs", companyToken, map[string]string{"title": "Go Developer"})
	require.Equal(t, http.StatusCreated, status)
	var job models.Job
	require.NoError(t, json.Unmarshal(env.Data, &job))
	assert.Equal(t, models.JobDraft, job.Status)

	// Drafts stay out of the public feed until published.
	status, env = srv.do(t, http.MethodGet, "/api/jobs", "", nil)
	require.Equal(t, http.StatusOK, status)
	var feed models.Page[models.Job]
	require.NoError(t, json.Unmarshal(env.Data, &feed))
	assert.Equal(t, 0, feed.TotalCount)

	status, env = srv.do(t, http.MethodPost, "/api/jobs/"+job.ID+"/publish", companyToken, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &job))
	assert.Equal(t, models.JobPublished, job.Status)

	status, env = srv.do(t, http.MethodPost, "/api/jobs/"+job.ID+"/close", companyToken, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &job))
	assert.Equal(t, models.JobClosed, job.Status)
}

func TestMatchEndpoint(t *testing.T) {
	srv := newTestServer(t)
	student, token := srv.signup(t, "student@smartcareer.uz", models.RoleStudent)
	other, _ := srv.signup(t, "other@smartcareer.uz", models.RoleStudent)

	srv.repo.CreateJob("c1", models.Job{ID: "j", Title: "Go Developer", Skills: []string{"go"}, Status: models.JobPublished})
	mine := srv.repo.CreateResume(student.ID, models.Resume{Title: "Mine", Skills: []string{"go"}})
	theirs := srv.repo.CreateResume(other.ID, models.Resume{Title: "Theirs"})

	// Matching against someone else's resume is a 404, not a leak.
	status, env := srv.do(t, http.MethodPost, "/api/jobs/match", token, map[string]string{"resumeId": theirs.ID})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "not_found", env.Error.Code)

	status, env = srv.do(t, http.MethodPost, "/api/jobs/match", token, map[string]string{"resumeId": mine.ID})
	require.Equal(t, http.StatusOK, status)
	var results []models.MatchResult
	require.NoError(t, json.Unmarshal(env.Data, &results))
	require.Len(t, results, 1)
	assert.Equal(t, 100, results[0].Score)
}

func TestGenerateResume(t *testing.T) {
	srv := newTestServer(t)
	_, token := srv.signup(t, "student@smartcareer.uz", models.RoleStudent)

	status, env := srv.do(t, http.MethodPost, "/api/resumes/generate", token, map[string]any{
		"title":      "Backend Resume",
		"fullName":   "Aliya Karimova",
		"headline":   "Backend Engineer",
		"skills":     []string{"go", "sql"},
		"targetRole": "Backend Developer",
		"experience": []string{"Built services at TechCorp"},
	})
	require.Equal(t, http.StatusCreated, status)

	var resume models.Resume
	require.NoError(t, json.Unmarshal(env.Data, &resume))
	assert.True(t, resume.Generated)
	assert.Equal(t, models.ResumeReady, resume.Status)
	assert.NotEmpty(t, resume.Summary)
	require.Len(t, resume.Sections, 1)
	assert.Equal(t, "Experience", resume.Sections[0].Title)
}

func TestApplicationValidation(t *testing.T) {
	srv := newTestServer(t)
	student, token := srv.signup(t, "student@smartcareer.uz", models.RoleStudent)
	other, _ := srv.signup(t, "other@smartcareer.uz", models.RoleStudent)

	draft := srv.repo.CreateJob("c1", models.Job{Title: "Draft Role"})
	open := srv.repo.CreateJob("c1", models.Job{Title: "Open Role", Status: models.JobPublished})
	mine := srv.repo.CreateResume(student.ID, models.Resume{Title: "Mine"})
	theirs := srv.repo.CreateResume(other.ID, models.Resume{Title: "Theirs"})

	// Unpublished job.
	status, env := srv.do(t, http.MethodPost, "/api/applications", token, map[string]string{
		"jobId": draft.ID, "resumeId": mine.ID,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "job_unavailable", env.Error.Code)

	// Resume owned by someone else.
	status, env = srv.do(t, http.MethodPost, "/api/applications", token, map[string]string{
		"jobId": open.ID, "resumeId": theirs.ID,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "resume_unavailable", env.Error.Code)

	// Valid application.
	status, env = srv.do(t, http.MethodPost, "/api/applications", token, map[string]string{
		"jobId": open.ID, "resumeId": mine.ID,
	})
	require.Equal(t, http.StatusCreated, status)
	var app models.Application
	require.NoError(t, json.Unmarshal(env.Data, &app))
	assert.Equal(t, models.ApplicationPending, app.Status)

	status, env = srv.do(t, http.MethodPost, "/api/applications/"+app.ID+"/withdraw", token, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &app))
	assert.Equal(t, models.ApplicationWithdrawn, app.Status)
}
