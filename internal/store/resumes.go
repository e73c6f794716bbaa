package store

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smartcareer/smartcareer-go/internal/api"
	"github.com/smartcareer/smartcareer-go/internal/models"
	"github.com/smartcareer/smartcareer-go/internal/session"
)

// GeneratePayload is the aggregated input of the AI resume wizard. The
// generation backend is opaque to the client: it takes this payload and
// returns a complete resume document.
type GeneratePayload struct {
	Title      string   `json:"title"`
	FullName   string   `json:"fullName"`
	Headline   string   `json:"headline"`
	Summary    string   `json:"summary,omitempty"`
	Skills     []string `json:"skills"`
	Experience []string `json:"experience,omitempty"`
	Education  []string `json:"education,omitempty"`
	TargetRole string   `json:"targetRole"`
	Language   string   `json:"language,omitempty"`
}

// ResumesStore is the resource store for resume documents.
type ResumesStore struct {
	Store[models.Resume]
}

// NewResumes constructs the resumes store against /api/resumes.
func NewResumes(client *api.Client, sess *session.Store, log *zap.Logger) *ResumesStore {
	return &ResumesStore{Store: newStore[models.Resume](client, sess, log, "/api/resumes")}
}

// Create posts a user-authored resume with an optimistic placeholder.
func (s *ResumesStore) Create(ctx context.Context, draft models.Resume) error {
	localID := "local-" + uuid.NewString()
	placeholder := draft
	placeholder.ID = localID
	placeholder.Status = models.ResumeDraft
	return s.create(ctx, s.basePath, draft, placeholder, localID)
}

// Generate asks the AI backend for a resume built from payload. There is
// no optimistic placeholder since the whole document is server-minted, so
// the result is inserted only on success.
func (s *ResumesStore) Generate(ctx context.Context, payload GeneratePayload) error {
	return s.insert(ctx, s.basePath+"/generate", payload)
}

// Archive retires a resume, adopting the server's returned object.
func (s *ResumesStore) Archive(ctx context.Context, id string) error {
	return s.Transition(ctx, id, "archive")
}
