/* session.go
 * Contains the per user quiz session and the registry the API keeps them in. Every operation on a session runs with
 * the session's lock held, including the persistence and collaborator calls it makes, so at most one mutation of a
 * run's score or result is in flight at a time.
 * The registry is bounded: sessions unused for SessionTTL are swept, and once MaxSessions is reached the least
 * recently used idle session is evicted. A session held by an operation is never evicted.
 */

package api

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"l2match/api/quiz"
	"l2match/api/store"
)

// sweepInterval is the minimum time between sweeps for idle sessions while the registry is below capacity
const sweepInterval = time.Minute

// Session is one user's quiz run plus the cached persisted values
type Session struct {
	ID string

	mu      sync.Mutex
	loaded  bool
	machine *quiz.Machine
	dark    bool
	// result is the last finished result, either computed by this run or loaded from the store. Reset clears it.
	result string

	// guarded by owner.mu
	owner    *API
	refs     int
	lastUsed time.Time
}

// session returns the session for id, creating it on first use. The returned session is referenced and must be
// released through Session.Unlock.
func (a *API) session(id string) (*Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now()
	if s, ok := a.sessions[id]; ok {
		s.refs++
		s.lastUsed = now
		return s, nil
	}

	machine, err := quiz.NewMachine(a.Questions)
	if err != nil {
		return nil, err
	}

	a.evict(now)
	s := &Session{ID: id, machine: machine, owner: a, refs: 1, lastUsed: now}
	a.sessions[id] = s
	return s, nil
}

// evict removes idle sessions to make room for a new one. Must be called with a.mu held.
func (a *API) evict(now time.Time) {
	full := len(a.sessions) >= a.MaxSessions
	if !full && now.Sub(a.lastSweep) < sweepInterval {
		return
	}

	a.lastSweep = now
	for id, s := range a.sessions {
		if s.refs == 0 && now.Sub(s.lastUsed) >= a.SessionTTL {
			delete(a.sessions, id)
		}
	}

	for len(a.sessions) >= a.MaxSessions {
		var oldest *Session
		for _, s := range a.sessions {
			if s.refs == 0 && (oldest == nil || s.lastUsed.Before(oldest.lastUsed)) {
				oldest = s
			}
		}
		if oldest == nil {
			log.Printf("Session registry full with %d sessions in use", len(a.sessions))
			return
		}
		delete(a.sessions, oldest.ID)
	}
}

// lock acquires the session for id and loads its persisted theme and result the first time. Load failures are
// logged and leave the defaults in place.
// Postconditions: the returned session is locked, callers must Unlock it
func (a *API) lock(ctx context.Context, id string) (*Session, error) {
	s, err := a.session(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()

	if s.loaded {
		return s, nil
	}
	s.loaded = true

	dark, err := a.Store.LoadTheme(ctx, a.UserID)
	if err != nil {
		log.Printf("Error loading theme for session %s: %v", id, err)
	}
	s.dark = dark

	result, err := a.Store.LoadResult(ctx, a.UserID)
	switch {
	case err == nil:
		s.result = result
	case errors.Is(err, store.ErrNotFound):
	default:
		log.Printf("Error loading result for session %s: %v", id, err)
	}

	return s, nil
}

// Unlock releases a session acquired by API.lock
func (s *Session) Unlock() {
	s.mu.Unlock()

	a := s.owner
	a.mu.Lock()
	s.refs--
	s.lastUsed = a.now()
	a.mu.Unlock()
}

// SessionCount returns the number of live sessions
func (a *API) SessionCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.sessions)
}
