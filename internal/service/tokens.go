package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type tokenKind int

const (
	accessKind tokenKind = iota
	refreshKind
)

type tokenEntry struct {
	userID  string
	kind    tokenKind
	expires time.Time
}

// TokenTable holds the opaque bearer tokens issued by the stub server.
// Tokens are process-local; restarting the server invalidates everything,
// which is exactly what a client's Restore path must survive.
type TokenTable struct {
	mu         sync.Mutex
	tokens     map[string]tokenEntry
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenTable constructs a table with the given lifetimes.
func NewTokenTable(accessTTL, refreshTTL time.Duration) *TokenTable {
	return &TokenTable{
		tokens:     make(map[string]tokenEntry),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Issue mints an access/refresh pair for the user.
func (t *TokenTable) Issue(userID string) (access, refresh string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := time.Now()
	access = uuid.NewString()
	refresh = uuid.NewString()
	t.tokens[access] = tokenEntry{userID: userID, kind: accessKind, expires: now.Add(t.accessTTL)}
	t.tokens[refresh] = tokenEntry{userID: userID, kind: refreshKind, expires: now.Add(t.refreshTTL)}
	return access, refresh
}

// lookup resolves a live token of the given kind to its user id.
func (t *TokenTable) lookup(token string, kind tokenKind) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	entry, ok := t.tokens[token]
	if !ok || entry.kind != kind || time.Now().After(entry.expires) {
		return "", false
	}
	return entry.userID, ok
}

// Revoke drops a single token.
func (t *TokenTable) Revoke(token string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.tokens, token)
}

// StartExpiredTokenCleaner purges dead tokens on an interval until ctx is
// cancelled.
func StartExpiredTokenCleaner(ctx context.Context, table *TokenTable, interval time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed := table.purgeExpired()
				if removed > 0 {
					log.Info("cleaned expired tokens", zap.Int("removed", removed))
				}
			}
		}
	}()
}

func (t *TokenTable) purgeExpired() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := time.Now()
	removed := 0
	for token, entry := range t.tokens {
		if now.After(entry.expires) {
			delete(t.tokens, token)
			removed++
		}
	}
	return removed
}
