// Package session owns the process-wide authentication state: the current
// user, the bearer token pair and the authentication status. It is the
// single source of truth every other component queries to decide access.
//
// All mutation goes through the store's own methods. Concurrent login or
// register calls are resolved with a last-write-wins-on-completion policy:
// each call takes a sequence number at start, and a call that finishes
// after a newer one has begun discards its own result.
package session

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/smartcareer/smartcareer-go/internal/api"
	"github.com/smartcareer/smartcareer-go/internal/models"
)

// Status is the authentication state of the session.
type Status string

const (
	StatusAnonymous      Status = "anonymous"
	StatusAuthenticating Status = "authenticating"
	StatusAuthenticated  Status = "authenticated"
	StatusFailed         Status = "failed"
)

// Vault keys for the persisted token pair.
const (
	keyAccessToken  = "smartcareer.access_token"
	keyRefreshToken = "smartcareer.refresh_token"
)

// ErrStaleAttempt is returned when a call completed successfully but its
// result was discarded because a newer authentication attempt superseded
// it. The session reflects the newer attempt; the stale caller must not
// act on its own result.
var ErrStaleAttempt = errors.New("superseded by a newer authentication attempt")

// RegisterPayload is the aggregated registration form submitted once by
// the signup wizard. Registration does not authenticate the session; a
// successful call is followed by an explicit login.
type RegisterPayload struct {
	Email           string      `json:"email"`
	Password        string      `json:"password"`
	ConfirmPassword string      `json:"confirmPassword"`
	FullName        string      `json:"fullName"`
	Phone           string      `json:"phone"`
	BirthDate       string      `json:"birthDate,omitempty"`
	Region          string      `json:"region,omitempty"`
	Role            models.Role `json:"role"`
	CompanyName     string      `json:"companyName,omitempty"`
}

// ProfilePatch is a partial update of the identity record. Nil fields are
// left untouched by the server.
type ProfilePatch struct {
	FullName *string `json:"fullName,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}

type loginResponse struct {
	User         models.User `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}

// Store is the auth session store. Exactly one exists per process,
// constructed at bootstrap and passed by reference to consumers.
type Store struct {
	api   *api.Client
	vault Vault
	log   *zap.Logger

	mu      sync.Mutex
	user    *models.User
	tokens  models.TokenPair
	status  Status
	lastErr *api.ErrorInfo
	authSeq uint64
	refresh *refreshInFlight
}

// refreshInFlight coalesces concurrent Refresh calls: the refresh token is
// single-use on the server, so only one exchange may go out and everyone
// else waits for its outcome.
type refreshInFlight struct {
	done chan struct{}
	err  error
}

// New constructs an anonymous session store. The API client must be bound
// to this store as its token source by the caller (the store cannot build
// the client itself without a dependency cycle).
func New(client *api.Client, vault Vault, log *zap.Logger) *Store {
	return &Store{api: client, vault: vault, log: log, status: StatusAnonymous}
}

// AccessToken implements api.TokenSource.
func (s *Store) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens.AccessToken
}

// Status returns the current authentication status.
func (s *Store) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// User returns a copy of the current identity, or nil when anonymous.
func (s *Store) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Err returns the most recent error, or nil.
func (s *Store) Err() *api.ErrorInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// begin marks the start of an authentication attempt and returns its
// sequence number. Any previously failed state is cleared here, which is
// what moves Failed back to Anonymous semantics on the next action.
func (s *Store) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authSeq++
	s.status = StatusAuthenticating
	s.lastErr = nil
	return s.authSeq
}

// current reports whether seq is still the newest authentication attempt.
// Caller holds the lock.
func (s *Store) current(seq uint64) bool { return seq == s.authSeq }

// Login authenticates with email and password. On success the session
// becomes Authenticated, the token pair is handed to the vault and the
// user record is returned so the route guard can derive its redirect.
func (s *Store) Login(ctx context.Context, email, password string) (*models.User, error) {
	seq := s.begin()

	var resp loginResponse
	err := s.api.Post(ctx, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.current(seq) {
		// A newer attempt already changed the session; drop this result.
		s.log.Debug("discarding stale login completion")
		if err == nil {
			err = ErrStaleAttempt
		}
		return nil, err
	}
	if err != nil {
		s.status = StatusFailed
		s.lastErr = api.Normalize(err)
		return nil, err
	}

	s.user = &resp.User
	s.tokens = models.TokenPair{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}
	s.status = StatusAuthenticated
	s.persistTokens()
	s.log.Info("logged in", zap.String("user", resp.User.ID), zap.String("role", string(resp.User.Role)))

	u := *s.user
	return &u, nil
}

// Register creates a new account. It deliberately does not authenticate
// the session: a successful registration transitions the caller to the
// login flow.
func (s *Store) Register(ctx context.Context, payload RegisterPayload) error {
	seq := s.begin()

	var created models.User
	err := s.api.Post(ctx, "/api/auth/register", payload, &created)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.current(seq) {
		if err == nil {
			err = ErrStaleAttempt
		}
		return err
	}
	if err != nil {
		s.status = StatusFailed
		s.lastErr = api.Normalize(err)
		return err
	}
	s.status = StatusAnonymous
	s.log.Info("registered", zap.String("user", created.ID))
	return nil
}

// Logout clears the identity and tokens. Safe to call when already
// anonymous.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearSession()
}

// clearSession resets the store to anonymous. Caller holds the lock.
func (s *Store) clearSession() {
	s.authSeq++ // invalidate any in-flight attempt
	s.user = nil
	s.tokens = models.TokenPair{}
	s.status = StatusAnonymous
	s.lastErr = nil
	_ = s.vault.Remove(keyAccessToken)
	_ = s.vault.Remove(keyRefreshToken)
}

// Restore rebuilds the session from persisted tokens at bootstrap. When no
// tokens exist, or the identity fetch fails, the session stays Anonymous.
func (s *Store) Restore(ctx context.Context) error {
	access, okA := s.vault.Get(keyAccessToken)
	refresh, okR := s.vault.Get(keyRefreshToken)
	if !okA || !okR {
		return nil
	}

	s.mu.Lock()
	s.tokens = models.TokenPair{AccessToken: access, RefreshToken: refresh}
	s.mu.Unlock()

	var user models.User
	if err := s.api.Get(ctx, "/api/auth/me", nil, &user); err != nil {
		s.Logout()
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &user
	s.status = StatusAuthenticated
	return nil
}

// Refresh exchanges the refresh token for a new pair. Resource stores call
// this once when a request comes back 401; the API client itself never
// refreshes.
//
// Concurrent callers are coalesced onto a single exchange: the refresh
// token is single-use on the server, so a second exchange with the same
// token would be rejected and must never tear down a session that just
// obtained valid tokens. A completion that lands after Logout or a newer
// login is discarded without touching the session or the vault.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if inflight := s.refresh; inflight != nil {
		s.mu.Unlock()
		<-inflight.done
		return inflight.err
	}
	refresh := s.tokens.RefreshToken
	if refresh == "" {
		s.mu.Unlock()
		return &api.HTTPError{Status: http.StatusUnauthorized, Code: "no_refresh_token", Message: "not authenticated"}
	}
	inflight := &refreshInFlight{done: make(chan struct{})}
	s.refresh = inflight
	seq := s.authSeq
	s.mu.Unlock()

	var pair models.TokenPair
	err := s.api.Post(ctx, "/api/auth/refresh", map[string]string{"refreshToken": refresh}, &pair)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh = nil
	if !s.current(seq) {
		// The session was logged out or replaced while the exchange ran;
		// whatever came back no longer belongs to it.
		if err == nil {
			err = ErrStaleAttempt
		}
		inflight.err = err
		close(inflight.done)
		return err
	}
	if err != nil {
		s.log.Warn("token refresh failed", zap.Error(err))
		s.clearSession()
		inflight.err = err
		close(inflight.done)
		return err
	}
	s.tokens = pair
	s.persistTokens()
	close(inflight.done)
	return nil
}

// UpdateProfile merges patch into the identity after server acknowledgment.
// There is no optimistic merge here: identity fields are security
// sensitive, so the server's canonical user is adopted wholesale.
func (s *Store) UpdateProfile(ctx context.Context, patch ProfilePatch) error {
	s.mu.Lock()
	authed := s.status == StatusAuthenticated
	s.mu.Unlock()
	if !authed {
		return &api.HTTPError{Status: http.StatusUnauthorized, Code: "not_authenticated", Message: "login required"}
	}

	var updated models.User
	if err := s.api.Put(ctx, "/api/auth/profile", patch, &updated); err != nil {
		s.mu.Lock()
		s.lastErr = api.Normalize(err)
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &updated
	return nil
}

// ChangePassword is a pure request/response operation; it does not touch
// the identity record.
func (s *Store) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	return s.api.Put(ctx, "/api/auth/password", map[string]string{
		"currentPassword": currentPassword,
		"newPassword":     newPassword,
	}, nil)
}

// RequestPasswordReset asks the server to start a reset flow for email.
func (s *Store) RequestPasswordReset(ctx context.Context, email string) error {
	return s.api.Post(ctx, "/api/auth/password/reset", map[string]string{"email": email}, nil)
}

// persistTokens hands the current pair to the vault. Caller holds the lock.
func (s *Store) persistTokens() {
	if err := s.vault.Set(keyAccessToken, s.tokens.AccessToken); err != nil {
		s.log.Warn("failed to persist access token", zap.Error(err))
	}
	if err := s.vault.Set(keyRefreshToken, s.tokens.RefreshToken); err != nil {
		s.log.Warn("failed to persist refresh token", zap.Error(err))
	}
}
