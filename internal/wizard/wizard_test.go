package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/smartcareer/smartcareer-go/internal/api"
	"github.com/smartcareer/smartcareer-go/internal/models"
	"github.com/smartcareer/smartcareer-go/internal/session"
)

type testForm struct {
	Name  string
	Email string
	Done  bool
}

func testSteps() []Step[testForm] {
	return []Step[testForm]{
		{
			Name: "who",
			Validate: func(f testForm) map[string]string {
				if f.Name == "" {
					return map[string]string{"name": "this field is required"}
				}
				return nil
			},
		},
		{
			Name: "contact",
			Validate: func(f testForm) map[string]string {
				if !strings.Contains(f.Email, "@") {
					return map[string]string{"email": "must be a valid email address"}
				}
				return nil
			},
		},
		{
			Name: "confirm",
			Validate: func(f testForm) map[string]string {
				if !f.Done {
					return map[string]string{"done": "this field is required"}
				}
				return nil
			},
		},
	}
}

func newTestWizard(t *testing.T, submit func(context.Context, testForm) error) *Wizard[testForm] {
	t.Helper()
	if submit == nil {
		submit = func(context.Context, testForm) error { return nil }
	}
	w, err := New(testSteps(), testForm{}, submit, zap.NewNop())
	require.NoError(t, err)
	return w
}

func TestNew_RequiresStepsAndSubmit(t *testing.T) {
	_, err := New(nil, testForm{}, func(context.Context, testForm) error { return nil }, zap.NewNop())
	require.Error(t, err)

	_, err = New(testSteps(), testForm{}, nil, zap.NewNop())
	require.Error(t, err)
}

func TestNext_GatedOnStepValidation(t *testing.T) {
	w := newTestWizard(t, nil)

	// Empty name blocks the first step.
	assert.False(t, w.Next())
	assert.Equal(t, 0, w.StepIndex())
	require.Contains(t, w.Errors(0), "name")

	w.Update(func(f *testForm) { f.Name = "Alice" })
	assert.True(t, w.Next())
	assert.Equal(t, 1, w.StepIndex())
	assert.Equal(t, Forward, w.Direction())
	assert.Nil(t, w.Errors(0))
}

func TestBack_PreservesEnteredFields(t *testing.T) {
	w := newTestWizard(t, nil)

	w.Update(func(f *testForm) { f.Name = "Alice" })
	require.True(t, w.Next())
	w.Update(func(f *testForm) { f.Email = "alice@example.com" })

	require.True(t, w.Back())
	assert.Equal(t, 0, w.StepIndex())
	assert.Equal(t, Backward, w.Direction())

	// Nothing entered on either step was lost.
	fields := w.Fields()
	assert.Equal(t, "Alice", fields.Name)
	assert.Equal(t, "alice@example.com", fields.Email)

	assert.False(t, w.Back())
}

func TestSubmit_OnlyFromFinalStep(t *testing.T) {
	var calls int
	w := newTestWizard(t, func(context.Context, testForm) error {
		calls++
		return nil
	})

	err := w.Submit(context.Background())
	require.Error(t, err)
	assert.Zero(t, calls)
	assert.False(t, w.Submitted())
}

func TestSubmit_ExactlyOnce(t *testing.T) {
	var calls int
	var got testForm
	w := newTestWizard(t, func(_ context.Context, f testForm) error {
		calls++
		got = f
		return nil
	})

	w.Update(func(f *testForm) { f.Name = "Alice" })
	require.True(t, w.Next())
	w.Update(func(f *testForm) { f.Email = "alice@example.com" })
	require.True(t, w.Next())
	w.Update(func(f *testForm) { f.Done = true })

	require.NoError(t, w.Submit(context.Background()))
	assert.True(t, w.Submitted())
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, "alice@example.com", got.Email)

	// Terminal state: no second submit, no further navigation.
	require.Error(t, w.Submit(context.Background()))
	assert.Equal(t, 1, calls)
	assert.False(t, w.Next())
	assert.False(t, w.Back())
}

func TestSubmit_FinalStepValidationBlocks(t *testing.T) {
	var calls int
	w := newTestWizard(t, func(context.Context, testForm) error {
		calls++
		return nil
	})

	w.Update(func(f *testForm) { f.Name = "Alice" })
	require.True(t, w.Next())
	w.Update(func(f *testForm) { f.Email = "alice@example.com" })
	require.True(t, w.Next())

	err := w.Submit(context.Background())
	var verr *api.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Zero(t, calls)
	require.Contains(t, w.Errors(2), "done")
}

func TestSubmit_TargetFailureStaysOnFinalStep(t *testing.T) {
	w := newTestWizard(t, func(context.Context, testForm) error {
		return &api.HTTPError{Status: 409, Code: "email_taken", Message: "email already registered"}
	})

	w.Update(func(f *testForm) { f.Name = "Alice" })
	require.True(t, w.Next())
	w.Update(func(f *testForm) { f.Email = "alice@example.com" })
	require.True(t, w.Next())
	w.Update(func(f *testForm) { f.Done = true })

	require.Error(t, w.Submit(context.Background()))
	assert.False(t, w.Submitted())
	assert.Equal(t, 2, w.StepIndex())
	require.NotNil(t, w.Err())
	assert.Equal(t, "email_taken", w.Err().Code)

	// The wizard is still live and can retry.
	assert.True(t, w.Back())
}

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newRegistrationWizard(t *testing.T, fn roundTripperFunc) (*Wizard[session.RegisterPayload], *session.Store) {
	t.Helper()
	client := api.New("http://example.com", nil, zap.NewNop()).
		WithHTTPClient(&http.Client{Transport: fn, Timeout: 5 * time.Second})
	sess := session.New(client, session.NewMemoryVault(), zap.NewNop())
	client.WithTokenSource(sess)
	w, err := NewRegistration(sess, zap.NewNop())
	require.NoError(t, err)
	return w, sess
}

func TestRegistration_ConfirmPasswordScopedToCredentialsStep(t *testing.T) {
	w, _ := newRegistrationWizard(t, func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("must not be called")
	})

	w.Update(func(f *session.RegisterPayload) {
		f.Email = "a@b.com"
		f.Password = "Abcdef1"
		f.ConfirmPassword = "different"
	})

	require.False(t, w.Next())
	errs := w.Errors(0)
	require.Contains(t, errs, "ConfirmPassword")
	// Later-step fields being empty must not leak into this step's errors.
	assert.NotContains(t, errs, "FullName")
	assert.NotContains(t, errs, "Role")
}

func TestRegistration_SubmitSendsAllFields(t *testing.T) {
	var sent map[string]any
	w, sess := newRegistrationWizard(t, func(req *http.Request) (*http.Response, error) {
		require.Equal(t, "/api/auth/register", req.URL.Path)
		require.NoError(t, json.NewDecoder(req.Body).Decode(&sent))
		return &http.Response{
			StatusCode: 201,
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       io.NopCloser(strings.NewReader(`{"success":true,"data":{"id":"u9","email":"a@b.com","role":"student"}}`)),
		}, nil
	})

	w.Update(func(f *session.RegisterPayload) {
		f.Email = "a@b.com"
		f.Password = "Abcdef1"
		f.ConfirmPassword = "Abcdef1"
	})
	require.True(t, w.Next())

	w.Update(func(f *session.RegisterPayload) {
		f.FullName = "Aliya Karimova"
		f.Phone = "+998901234567"
		f.BirthDate = "2001-05-14"
		f.Region = "Tashkent"
	})
	require.True(t, w.Next())

	w.Update(func(f *session.RegisterPayload) {
		f.Role = models.RoleStudent
	})

	require.NoError(t, w.Submit(context.Background()))
	assert.True(t, w.Submitted())

	for _, key := range []string{"email", "password", "confirmPassword", "fullName", "phone", "birthDate", "region", "role"} {
		assert.Contains(t, sent, key)
	}
	assert.Equal(t, "student", sent["role"])

	// Signup does not sign in.
	assert.Equal(t, session.StatusAnonymous, sess.Status())
}

func TestRegistration_CompanyWithoutCompanyName(t *testing.T) {
	var sent map[string]any
	w, _ := newRegistrationWizard(t, func(req *http.Request) (*http.Response, error) {
		require.NoError(t, json.NewDecoder(req.Body).Decode(&sent))
		return &http.Response{
			StatusCode: 201,
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       io.NopCloser(strings.NewReader(`{"success":true,"data":{"id":"u10","email":"hr@techcorp.uz","role":"company"}}`)),
		}, nil
	})

	w.Update(func(f *session.RegisterPayload) {
		f.Email = "hr@techcorp.uz"
		f.Password = "Abcdef1"
		f.ConfirmPassword = "Abcdef1"
	})
	require.True(t, w.Next())

	w.Update(func(f *session.RegisterPayload) {
		f.FullName = "TechCorp HR"
		f.Phone = "+998901234568"
	})
	require.True(t, w.Next())

	// Company name is optional even for the company role.
	w.Update(func(f *session.RegisterPayload) {
		f.Role = models.RoleCompany
	})
	assert.Empty(t, w.Errors(2))

	require.NoError(t, w.Submit(context.Background()))
	assert.True(t, w.Submitted())
	assert.Equal(t, "company", sent["role"])
	assert.NotContains(t, sent, "companyName")
}

func TestCheck_MessagesAreHumanReadable(t *testing.T) {
	errs := Check(credentialsView{Email: "not-an-email", Password: "short", ConfirmPassword: "other"})
	assert.Equal(t, "must be a valid email address", errs["Email"])
	assert.Equal(t, "must be at least 7 characters", errs["Password"])
	assert.Equal(t, "does not match", errs["ConfirmPassword"])
}
