package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/smartcareer/smartcareer-go/internal/middleware"
	"github.com/smartcareer/smartcareer-go/internal/models"
	"github.com/smartcareer/smartcareer-go/internal/repository"
	"github.com/smartcareer/smartcareer-go/internal/service"
)

// AuthHandler handles HTTP requests for registration, login, token
// refresh and profile management.
type AuthHandler struct {
	// Auth performs the underlying authentication operations.
	Auth *service.AuthService
}

// Register handles user registration requests. It expects the aggregated
// signup payload and responds with the created user. No tokens are issued.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		writeErr(w, http.StatusBadRequest, "invalid_request", "email and password are required")
		return
	}
	if req.Role == "" {
		req.Role = models.RoleStudent
	}
	user, err := h.Auth.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			writeErr(w, http.StatusConflict, "email_taken", "email already registered")
			return
		}
		writeErr(w, http.StatusInternalServerError, "internal_error", "registration failed")
		return
	}
	writeData(w, http.StatusCreated, user)
}

// Login handles credential login, responding with the user and a token
// pair.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeErr(w, http.StatusBadRequest, "invalid_request", "email and password are required")
		return
	}
	user, pair, err := h.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeErr(w, http.StatusUnauthorized, "invalid_credentials", "wrong email or password")
			return
		}
		writeErr(w, http.StatusInternalServerError, "internal_error", "login failed")
		return
	}
	writeData(w, http.StatusOK, map[string]any{
		"user":         user,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

// Refresh exchanges a refresh token for a new pair.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		writeErr(w, http.StatusBadRequest, "invalid_request", "refreshToken is required")
		return
	}
	pair, err := h.Auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeErr(w, http.StatusUnauthorized, "invalid_token", "refresh token rejected")
		return
	}
	writeData(w, http.StatusOK, pair)
}

// Me returns the authenticated user's identity record.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "unauthorized", "login required")
		return
	}
	writeData(w, http.StatusOK, user)
}

// UpdateProfile patches the identity record and returns the canonical
// user.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "unauthorized", "login required")
		return
	}
	var req struct {
		FullName *string `json:"fullName"`
		Phone    *string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid_request", "malformed body")
		return
	}
	updated, err := h.Auth.UpdateProfile(r.Context(), user.ID, req.FullName, req.Phone)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "internal_error", "profile update failed")
		return
	}
	writeData(w, http.StatusOK, updated)
}

// ChangePassword swaps the stored password after verifying the current
// one.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "unauthorized", "login required")
		return
	}
	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.NewPassword == "" {
		writeErr(w, http.StatusBadRequest, "invalid_request", "newPassword is required")
		return
	}
	if err := h.Auth.ChangePassword(r.Context(), user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeErr(w, http.StatusForbidden, "invalid_credentials", "current password is wrong")
			return
		}
		writeErr(w, http.StatusInternalServerError, "internal_error", "password change failed")
		return
	}
	writeOK(w)
}

// RequestPasswordReset acknowledges a reset request. The stub does not
// send mail; it answers success for any known-looking email.
func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeErr(w, http.StatusBadRequest, "invalid_request", "email is required")
		return
	}
	writeOK(w)
}
