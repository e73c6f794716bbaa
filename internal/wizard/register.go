package wizard

import (
	"context"

	"go.uber.org/zap"

	"github.com/smartcareer/smartcareer-go/internal/session"
)

// Step views for the registration wizard. Each view covers only the
// fields its step owns, so a later step can never block navigation with
// errors about an earlier one.

type credentialsView struct {
	Email           string `validate:"required,email"`
	Password        string `validate:"required,min=7"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
}

type personalView struct {
	FullName  string `validate:"required"`
	Phone     string `validate:"required,e164"`
	BirthDate string `validate:"omitempty,datetime=2006-01-02"`
	Region    string `validate:"omitempty"`
}

type roleView struct {
	Role        string `validate:"required,oneof=student company admin"`
	CompanyName string `validate:"omitempty"`
}

// NewRegistration builds the three-step signup wizard over the full
// registration payload. Submission calls the session store's Register,
// which does not authenticate; a successful signup leads to the login flow.
func NewRegistration(sess *session.Store, log *zap.Logger) (*Wizard[session.RegisterPayload], error) {
	steps := []Step[session.RegisterPayload]{
		{
			Name: "credentials",
			Validate: func(f session.RegisterPayload) map[string]string {
				return Check(credentialsView{
					Email:           f.Email,
					Password:        f.Password,
					ConfirmPassword: f.ConfirmPassword,
				})
			},
		},
		{
			Name: "personal",
			Validate: func(f session.RegisterPayload) map[string]string {
				return Check(personalView{
					FullName:  f.FullName,
					Phone:     f.Phone,
					BirthDate: f.BirthDate,
					Region:    f.Region,
				})
			},
		},
		{
			Name: "role",
			Validate: func(f session.RegisterPayload) map[string]string {
				return Check(roleView{
					Role:        string(f.Role),
					CompanyName: f.CompanyName,
				})
			},
		},
	}

	submit := func(ctx context.Context, f session.RegisterPayload) error {
		return sess.Register(ctx, f)
	}
	return New(steps, session.RegisterPayload{}, submit, log)
}
