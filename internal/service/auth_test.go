package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/smartcareer/smartcareer-go/internal/models"
	"github.com/smartcareer/smartcareer-go/internal/repository"
)

func newAuthService() *AuthService {
	return NewAuthService(repository.NewMemory(), NewTokenTable(time.Minute, time.Hour), zap.NewNop())
}

func register(t *testing.T, svc *AuthService) models.User {
	t.Helper()
	user, err := svc.Register(context.Background(), RegisterInput{
		Email:    "demo@smartcareer.uz",
		Password: "demo123",
		FullName: "Demo User",
		Role:     models.RoleStudent,
	})
	require.NoError(t, err)
	return user
}

func TestRegisterThenLogin(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	created := register(t, svc)
	require.NotEmpty(t, created.ID)

	user, pair, err := svc.Login(ctx, "demo@smartcareer.uz", "demo123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	resolved, err := svc.Authenticate(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, created.ID, resolved.ID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()
	register(t, svc)

	_, _, err := svc.Login(ctx, "demo@smartcareer.uz", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	// An unknown email gets the same error so it is indistinguishable from
	// a wrong password.
	_, _, err = svc.Login(ctx, "nobody@smartcareer.uz", "demo123")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newAuthService()
	register(t, svc)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "Demo@SmartCareer.uz",
		Password: "other12",
	})
	require.ErrorIs(t, err, repository.ErrEmailTaken)
}

func TestRefreshIsSingleUse(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()
	register(t, svc)

	_, pair, err := svc.Login(ctx, "demo@smartcareer.uz", "demo123")
	require.NoError(t, err)

	fresh, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, fresh.AccessToken)
	assert.NotEqual(t, pair.AccessToken, fresh.AccessToken)

	// The spent refresh token is dead.
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidToken)

	// The new one works.
	_, err = svc.Refresh(ctx, fresh.RefreshToken)
	require.NoError(t, err)
}

func TestAuthenticateRejectsRefreshToken(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()
	register(t, svc)

	_, pair, err := svc.Login(ctx, "demo@smartcareer.uz", "demo123")
	require.NoError(t, err)

	// Token kinds are not interchangeable.
	_, err = svc.Authenticate(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestUpdateProfileMergesPatch(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()
	user := register(t, svc)

	name := "Renamed User"
	updated, err := svc.UpdateProfile(ctx, user.ID, &name, nil)
	require.NoError(t, err)
	assert.Equal(t, "Renamed User", updated.FullName)
	// Untouched fields survive a partial patch.
	assert.Equal(t, "demo@smartcareer.uz", updated.Email)
}

func TestChangePassword(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()
	user := register(t, svc)

	err := svc.ChangePassword(ctx, user.ID, "wrong", "newpass1")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(ctx, user.ID, "demo123", "newpass1"))

	_, _, err = svc.Login(ctx, "demo@smartcareer.uz", "demo123")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "demo@smartcareer.uz", "newpass1")
	require.NoError(t, err)
}
