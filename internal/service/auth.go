// Package service implements the stub server's business logic:
// authentication with bcrypt-hashed passwords and opaque bearer tokens,
// plus resume-to-job match scoring.
package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/smartcareer/smartcareer-go/internal/models"
	"github.com/smartcareer/smartcareer-go/internal/repository"
)

// ErrInvalidCredentials is returned when email or password do not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidToken is returned for unknown, expired or mistyped tokens.
var ErrInvalidToken = errors.New("invalid token")

// UserRepository defines the persistence operations required by the
// authentication service.
type UserRepository interface {
	CreateUser(ctx context.Context, u models.User, passwordHash string) (models.User, error)
	UserByEmail(ctx context.Context, email string) (models.User, string, error)
	UserByID(ctx context.Context, id string) (models.User, error)
	UpdateUser(ctx context.Context, u models.User) (models.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	PasswordHash(ctx context.Context, id string) (string, error)
}

// RegisterInput is the registration payload accepted by the stub server.
type RegisterInput struct {
	Email       string      `json:"email"`
	Password    string      `json:"password"`
	FullName    string      `json:"fullName"`
	Phone       string      `json:"phone"`
	Role        models.Role `json:"role"`
	CompanyName string      `json:"companyName,omitempty"`
}

// AuthService implements authentication by delegating persistence to a
// UserRepository and token bookkeeping to a TokenTable.
type AuthService struct {
	repo   UserRepository
	tokens *TokenTable
	log    *zap.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(repo UserRepository, tokens *TokenTable, log *zap.Logger) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, log: log}
}

// Register creates a new account. No tokens are issued: the product
// contract is signup-then-signin.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}
	user := models.User{
		Email:    in.Email,
		FullName: in.FullName,
		Phone:    in.Phone,
		Role:     in.Role,
	}
	created, err := s.repo.CreateUser(ctx, user, string(hash))
	if err != nil {
		return models.User{}, err
	}
	s.log.Info("user registered", zap.String("user", created.ID), zap.String("role", string(created.Role)))
	return created, nil
}

// Login verifies the credentials and issues a token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (models.User, models.TokenPair, error) {
	user, hash, err := s.repo.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.User{}, models.TokenPair{}, ErrInvalidCredentials
		}
		return models.User{}, models.TokenPair{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return models.User{}, models.TokenPair{}, ErrInvalidCredentials
	}
	access, refresh := s.tokens.Issue(user.ID)
	return user, models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh exchanges a live refresh token for a fresh pair. The old
// refresh token is revoked so each one is single-use.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	userID, ok := s.tokens.lookup(refreshToken, refreshKind)
	if !ok {
		return models.TokenPair{}, ErrInvalidToken
	}
	if _, err := s.repo.UserByID(ctx, userID); err != nil {
		return models.TokenPair{}, ErrInvalidToken
	}
	s.tokens.Revoke(refreshToken)
	access, refresh := s.tokens.Issue(userID)
	return models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Authenticate resolves an access token to its user.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (models.User, error) {
	userID, ok := s.tokens.lookup(accessToken, accessKind)
	if !ok {
		return models.User{}, ErrInvalidToken
	}
	user, err := s.repo.UserByID(ctx, userID)
	if err != nil {
		return models.User{}, ErrInvalidToken
	}
	return user, nil
}

// UpdateProfile merges the patch into the stored identity and returns the
// canonical record.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, fullName, phone *string) (models.User, error) {
	user, err := s.repo.UserByID(ctx, userID)
	if err != nil {
		return models.User{}, err
	}
	if fullName != nil {
		user.FullName = *fullName
	}
	if phone != nil {
		user.Phone = *phone
	}
	return s.repo.UpdateUser(ctx, user)
}

// ChangePassword verifies the current password before storing a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	hash, err := s.repo.PasswordHash(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(currentPassword)) != nil {
		return ErrInvalidCredentials
	}
	newHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.repo.UpdatePassword(ctx, userID, string(newHash))
}
