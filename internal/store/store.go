// Package store holds the client-side entity caches. Each store is a keyed
// cache driven by typed actions: an initial fetch populates it, push events
// patch it in place. The merge rules make the dual update path (local
// mutation vs. server echo) idempotent: creates de-duplicate by id, updates
// merge by id and version, deletes tolerate absent ids.
package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

var (
	// ErrFetchInFlight is returned when a fetch is started while another is
	// still running; overlapping fetches would clobber each other's state.
	ErrFetchInFlight = errors.New("store: fetch already in flight")

	// ErrRoleDenied is returned by role-gated stores when the session role
	// does not match.
	ErrRoleDenied = errors.New("store: session role not permitted")
)

// Entity is anything a store can cache. Version is a monotonic per-entity
// value (updatedAt in practice) used to ignore stale updates.
type Entity interface {
	EntityID() string
	EntityVersion() int64
}

type ActionType string

const (
	FetchStart    ActionType = "fetch-start"
	FetchSuccess  ActionType = "fetch-success"
	FetchError    ActionType = "fetch-error"
	EntityCreated ActionType = "entity-created"
	EntityUpdated ActionType = "entity-updated"
	EntityDeleted ActionType = "entity-deleted"
)

// Action is one state transition. Which fields are read depends on Type:
// Entities for fetch-success, Entity for created/updated, ID for deleted,
// Err for fetch-error.
type Action[T Entity] struct {
	Type     ActionType
	Entities []T
	Entity   T
	ID       string
	Err      error
}

type index[T Entity] struct {
	name    string
	keep    func(T) bool
	members []T
}

// Store is a generic reducer-style cache. All mutations go through
// Dispatch; derived indexes are recomputed inside the same critical section
// as the primary update so the two views never visibly diverge.
type Store[T Entity] struct {
	name string
	log  *slog.Logger

	mu      sync.RWMutex
	ids     []string // newest first
	byID    map[string]T
	loading bool
	lastErr error
	indexes []*index[T]

	// pending tracks ids touched by push events while a fetch is in flight,
	// so the fetch snapshot does not clobber them.
	pending map[string]struct{}
}

func New[T Entity](name string, log *slog.Logger) *Store[T] {
	return &Store[T]{
		name: name,
		log:  log,
		byID: make(map[string]T),
	}
}

// AddIndex registers a derived view kept in sync with the primary cache.
// Register indexes at construction time, before the first dispatch.
func (s *Store[T]) AddIndex(name string, keep func(T) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indexes = append(s.indexes, &index[T]{name: name, keep: keep})
}

// Dispatch applies one action to the cache.
func (s *Store[T]) Dispatch(a Action[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch a.Type {
	case FetchStart:
		s.loading = true
		s.lastErr = nil
		s.pending = nil

	case FetchSuccess:
		s.loading = false
		s.lastErr = nil

		snapshot := make(map[string]T, len(a.Entities))
		snapshotIDs := make([]string, 0, len(a.Entities))
		for _, e := range a.Entities {
			id := e.EntityID()
			if _, dup := snapshot[id]; dup {
				continue
			}
			snapshot[id] = e
			snapshotIDs = append(snapshotIDs, id)
		}

		ids := make([]string, 0, len(snapshotIDs)+len(s.pending))
		byID := make(map[string]T, len(snapshotIDs)+len(s.pending))

		// Entities inserted by push events while the fetch was in flight
		// are missing from the snapshot; keep them ahead of it.
		for _, id := range s.ids {
			if _, ok := snapshot[id]; ok {
				continue
			}
			if _, ok := s.pending[id]; ok {
				ids = append(ids, id)
				byID[id] = s.byID[id]
			}
		}
		for _, id := range snapshotIDs {
			e := snapshot[id]
			// A push update that raced the fetch outranks the snapshot row.
			if existing, ok := s.byID[id]; ok && existing.EntityVersion() > e.EntityVersion() {
				e = existing
			}
			ids = append(ids, id)
			byID[id] = e
		}
		s.ids = ids
		s.byID = byID
		s.pending = nil

	case FetchError:
		// Cache left unchanged; the caller surfaces the error.
		s.loading = false
		s.lastErr = a.Err
		s.pending = nil

	case EntityCreated:
		id := a.Entity.EntityID()
		if existing, ok := s.byID[id]; ok {
			// Echo of a local insert (or vice versa): merge, never duplicate.
			if a.Entity.EntityVersion() >= existing.EntityVersion() {
				s.byID[id] = a.Entity
			}
		} else {
			s.ids = append([]string{id}, s.ids...)
			s.byID[id] = a.Entity
		}
		if s.loading {
			s.markPending(id)
		}

	case EntityUpdated:
		id := a.Entity.EntityID()
		existing, ok := s.byID[id]
		switch {
		case !ok:
			s.ids = append([]string{id}, s.ids...)
			s.byID[id] = a.Entity
		case a.Entity.EntityVersion() >= existing.EntityVersion():
			s.byID[id] = a.Entity
		default:
			// Stale version, ignore.
		}
		if s.loading {
			s.markPending(id)
		}

	case EntityDeleted:
		delete(s.pending, a.ID)
		if _, ok := s.byID[a.ID]; !ok {
			return
		}
		delete(s.byID, a.ID)
		for i, id := range s.ids {
			if id == a.ID {
				s.ids = append(s.ids[:i], s.ids[i+1:]...)
				break
			}
		}

	default:
		s.log.Warn("store: unknown action", "store", s.name, "type", a.Type)
		return
	}

	s.rebuildIndexes()
}

func (s *Store[T]) markPending(id string) {
	if s.pending == nil {
		s.pending = make(map[string]struct{})
	}
	s.pending[id] = struct{}{}
}

func (s *Store[T]) rebuildIndexes() {
	for _, idx := range s.indexes {
		idx.members = idx.members[:0]
		for _, id := range s.ids {
			if e := s.byID[id]; idx.keep(e) {
				idx.members = append(idx.members, e)
			}
		}
	}
}

// Fetch runs the loader and dispatches the matching fetch actions. A second
// call while one is in flight is refused rather than allowed to corrupt
// state.
func (s *Store[T]) Fetch(ctx context.Context, load func(context.Context) ([]T, error)) error {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return ErrFetchInFlight
	}
	s.loading = true
	s.lastErr = nil
	s.pending = nil
	s.mu.Unlock()

	entities, err := load(ctx)
	if err != nil {
		s.Dispatch(Action[T]{Type: FetchError, Err: err})
		return err
	}
	s.Dispatch(Action[T]{Type: FetchSuccess, Entities: entities})
	return nil
}

// Items returns the cached entities, newest first.
func (s *Store[T]) Items() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, 0, len(s.ids))
	for _, id := range s.ids {
		out = append(out, s.byID[id])
	}
	return out
}

func (s *Store[T]) Get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.byID[id]
	return e, ok
}

func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

func (s *Store[T]) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Store[T]) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Index returns a derived view by name.
func (s *Store[T]) Index(name string) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, idx := range s.indexes {
		if idx.name == name {
			out := make([]T, len(idx.members))
			copy(out, idx.members)
			return out
		}
	}
	return nil
}

// Reset clears the cache, e.g. on logout or role change.
func (s *Store[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = nil
	s.byID = make(map[string]T)
	s.loading = false
	s.lastErr = nil
	s.pending = nil
	s.rebuildIndexes()
}
