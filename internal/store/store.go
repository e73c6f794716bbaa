// Package store implements the client-side resource stores for jobs,
// resumes and applications. All three share one generic pattern: a typed
// collection, a current-item pointer, loading/mutating flags and a
// last-error slot, reconciled against server responses.
//
// Out-of-order network completions are handled with sequence tokens: each
// call of a given operation kind takes the next token at start, and a
// completion whose token is no longer the newest is discarded. There is no
// explicit cancellation; an abandoned call's result is computed but
// ignored.
package store

import (
	"context"
	"net/http"
	"net/url"
	"sync"

	"go.uber.org/zap"

	"github.com/smartcareer/smartcareer-go/internal/api"
	"github.com/smartcareer/smartcareer-go/internal/models"
	"github.com/smartcareer/smartcareer-go/internal/session"
)

// Resource is anything a Store can hold. The id must be unique within the
// collection once the server has confirmed the item.
type Resource interface {
	ResourceID() string
}

// entry is the tagged variant behind each collection slot: pending items
// carry a client-issued localID until the server id arrives, confirmed
// items carry an empty localID.
type entry[T Resource] struct {
	item    T
	localID string
}

func (e entry[T]) id() string {
	if e.localID != "" {
		return e.localID
	}
	return e.item.ResourceID()
}

func confirmed[T Resource](items []T) []entry[T] {
	out := make([]entry[T], len(items))
	for i, it := range items {
		out[i] = entry[T]{item: it}
	}
	return out
}

// Store is the generic resource store. JobsStore, ResumesStore and
// ApplicationsStore embed it and add their own operations.
type Store[T Resource] struct {
	api      *api.Client
	session  *session.Store
	log      *zap.Logger
	basePath string

	mu       sync.Mutex
	entries  []entry[T]
	current  *T
	loading  bool
	mutating int
	lastErr  *api.ErrorInfo

	listSeq  uint64
	fetchSeq uint64

	// page metadata from the most recent successful list
	page       int
	pageSize   int
	totalCount int
	totalPages int
}

func newStore[T Resource](client *api.Client, sess *session.Store, log *zap.Logger, basePath string) Store[T] {
	return Store[T]{api: client, session: sess, log: log, basePath: basePath, page: 1, pageSize: 20}
}

// Items returns a copy of the collection in server order.
func (s *Store[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.item
	}
	return out
}

// Current returns a copy of the current item, or nil.
func (s *Store[T]) Current() *T {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	it := *s.current
	return &it
}

// IsLoading reports whether a list or fetch is in flight.
func (s *Store[T]) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// IsMutating reports whether a create/update/delete is in flight.
func (s *Store[T]) IsMutating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutating > 0
}

// Err returns the most recent error, or nil. Newer errors overwrite older
// ones; nothing is queued.
func (s *Store[T]) Err() *api.ErrorInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// authorized runs fn and, on a 401, refreshes the session token once and
// retries. The API client itself never refreshes.
func (s *Store[T]) authorized(ctx context.Context, fn func() error) error {
	err := fn()
	if api.IsStatus(err, http.StatusUnauthorized) && s.session != nil {
		if rerr := s.session.Refresh(ctx); rerr == nil {
			err = fn()
		}
	}
	return err
}

// list replaces the collection and page metadata atomically from a paged
// response. commit, when non-nil, runs under the store lock in the same
// critical section as the item swap, so extensions can update their own
// search state without a window where items and filters disagree.
func (s *Store[T]) list(ctx context.Context, query url.Values, commit func(models.Page[T])) error {
	s.mu.Lock()
	s.listSeq++
	seq := s.listSeq
	s.loading = true
	s.mu.Unlock()

	var page models.Page[T]
	err := s.authorized(ctx, func() error {
		return s.api.Get(ctx, s.basePath, query, &page)
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.listSeq {
		// A newer list has been issued; this completion is stale.
		s.log.Debug("discarding stale list completion", zap.String("path", s.basePath))
		return err
	}
	s.loading = false
	if err != nil {
		s.lastErr = api.Normalize(err)
		return err
	}
	s.entries = confirmed(page.Items)
	s.page = page.Page
	s.pageSize = page.PageSize
	s.totalCount = page.TotalCount
	s.totalPages = page.TotalPages
	if s.page > s.totalPages && s.totalPages > 0 {
		s.page = s.totalPages
	}
	if s.page < 1 {
		s.page = 1
	}
	s.lastErr = nil
	if commit != nil {
		commit(page)
	}
	return nil
}

// List fetches the collection with the given query parameters.
func (s *Store[T]) List(ctx context.Context, query url.Values) error {
	return s.list(ctx, query, nil)
}

// Fetch loads a single item into the current-item slot. The collection is
// left alone. On failure the previous current item survives.
func (s *Store[T]) Fetch(ctx context.Context, id string) error {
	s.mu.Lock()
	s.fetchSeq++
	seq := s.fetchSeq
	s.loading = true
	s.mu.Unlock()

	var item T
	err := s.authorized(ctx, func() error {
		return s.api.Get(ctx, s.basePath+"/"+id, nil, &item)
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.fetchSeq {
		return err
	}
	s.loading = false
	if err != nil {
		s.lastErr = api.Normalize(err)
		return err
	}
	s.current = &item
	s.lastErr = nil
	return nil
}

// create prepends placeholder (carrying localID as its id) to the
// collection, posts payload, and on success atomically swaps the
// placeholder entry for the server's item. On failure the placeholder is
// removed and the previous current item restored, leaving state exactly
// as before the call apart from the error slot.
func (s *Store[T]) create(ctx context.Context, path string, payload any, placeholder T, localID string) error {
	s.mu.Lock()
	s.mutating++
	prevCurrent := s.current
	s.entries = append([]entry[T]{{item: placeholder, localID: localID}}, s.entries...)
	s.current = &placeholder
	s.mu.Unlock()

	var created T
	err := s.authorized(ctx, func() error {
		return s.api.Post(ctx, path, payload, &created)
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.mutating--
	idx := s.indexOf(localID)
	if err != nil {
		if idx >= 0 {
			s.entries = append(s.entries[:idx], s.entries[idx+1:]...)
		}
		if s.current != nil && s.current == &placeholder {
			s.current = prevCurrent
		}
		s.lastErr = api.Normalize(err)
		return err
	}
	if idx >= 0 {
		s.entries[idx] = entry[T]{item: created}
	} else {
		// Placeholder vanished (e.g. a list completed meanwhile); keep the
		// confirmed item at the head so the create is never lost.
		s.entries = append([]entry[T]{{item: created}}, s.entries...)
	}
	s.current = &created
	s.lastErr = nil
	return nil
}

// insert adds an already-confirmed server item at the head of the
// collection and makes it current. Used by operations like AI generation
// where the server mints the whole document and no optimistic placeholder
// makes sense.
func (s *Store[T]) insert(ctx context.Context, path string, payload any) error {
	s.mu.Lock()
	s.mutating++
	s.mu.Unlock()

	var created T
	err := s.authorized(ctx, func() error {
		return s.api.Post(ctx, path, payload, &created)
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.mutating--
	if err != nil {
		s.lastErr = api.Normalize(err)
		return err
	}
	s.entries = append([]entry[T]{{item: created}}, s.entries...)
	s.current = &created
	s.lastErr = nil
	return nil
}

// Update patches the item with the given id. The server's returned
// canonical object is adopted into both the collection and the current
// item, never the local patch, so server-computed fields stay correct.
func (s *Store[T]) Update(ctx context.Context, id string, patch any) error {
	s.mu.Lock()
	s.mutating++
	s.mu.Unlock()

	var updated T
	err := s.authorized(ctx, func() error {
		return s.api.Put(ctx, s.basePath+"/"+id, patch, &updated)
	})
	return s.adopt(id, updated, err)
}

// Transition posts a status-transition action (publish, close, withdraw)
// and reconciles exactly like Update.
func (s *Store[T]) Transition(ctx context.Context, id, action string) error {
	s.mu.Lock()
	s.mutating++
	s.mu.Unlock()

	var updated T
	err := s.authorized(ctx, func() error {
		return s.api.Post(ctx, s.basePath+"/"+id+"/"+action, nil, &updated)
	})
	return s.adopt(id, updated, err)
}

// adopt merges a server-confirmed item into the collection and the
// current-item slot under one lock.
func (s *Store[T]) adopt(id string, updated T, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mutating--
	if err != nil {
		s.lastErr = api.Normalize(err)
		return err
	}
	if idx := s.indexOf(id); idx >= 0 {
		s.entries[idx] = entry[T]{item: updated}
	}
	if s.current != nil && (*s.current).ResourceID() == id {
		s.current = &updated
	}
	s.lastErr = nil
	return nil
}

// Delete removes the item with the given id from the collection and
// clears the current item when it matches.
func (s *Store[T]) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	s.mutating++
	s.mu.Unlock()

	err := s.authorized(ctx, func() error {
		return s.api.Delete(ctx, s.basePath+"/"+id)
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.mutating--
	if err != nil {
		s.lastErr = api.Normalize(err)
		return err
	}
	if idx := s.indexOf(id); idx >= 0 {
		s.entries = append(s.entries[:idx], s.entries[idx+1:]...)
	}
	if s.current != nil && (*s.current).ResourceID() == id {
		s.current = nil
	}
	s.lastErr = nil
	return nil
}

// indexOf finds an entry by id, matching pending entries by their local
// placeholder id. Caller holds the lock.
func (s *Store[T]) indexOf(id string) int {
	for i, e := range s.entries {
		if e.id() == id {
			return i
		}
	}
	return -1
}
