package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smartcareer/smartcareer-go/internal/api"
	"github.com/smartcareer/smartcareer-go/internal/models"
	"github.com/smartcareer/smartcareer-go/internal/session"
)

// ApplicationsStore is the resource store for job applications.
type ApplicationsStore struct {
	Store[models.Application]
}

// NewApplications constructs the applications store against
// /api/applications.
func NewApplications(client *api.Client, sess *session.Store, log *zap.Logger) *ApplicationsStore {
	return &ApplicationsStore{Store: newStore[models.Application](client, sess, log, "/api/applications")}
}

// Apply submits an application for a job with the given resume. The
// collection gets an optimistic pending entry until the server confirms.
func (s *ApplicationsStore) Apply(ctx context.Context, jobID, resumeID, coverLetter string) error {
	draft := models.Application{
		JobID:       jobID,
		ResumeID:    resumeID,
		CoverLetter: coverLetter,
	}
	localID := "local-" + uuid.NewString()
	placeholder := draft
	placeholder.ID = localID
	placeholder.Status = models.ApplicationPending
	placeholder.AppliedAt = time.Now()
	return s.create(ctx, s.basePath, draft, placeholder, localID)
}

// Withdraw retracts an application, adopting the server's object.
func (s *ApplicationsStore) Withdraw(ctx context.Context, id string) error {
	return s.Transition(ctx, id, "withdraw")
}
