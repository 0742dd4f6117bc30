package builder

import (
	"context"
	"sync"
	"time"

	"inventory-console/internal/util"

	"go.uber.org/zap"
)

// Session owns one draft. The mutex gives each draft a single logical
// writer even though the HTTP layer serves concurrently.
type Session struct {
	mu        sync.Mutex
	draft     *Draft
	lastTouch time.Time

	// closed marks a session evicted from the registry. A caller holding a
	// *Session obtained before eviction must not mutate the orphaned draft.
	closed bool
}

// Do runs fn with exclusive access to the draft. A session that has been
// removed from the registry reports the draft as gone.
func (s *Session) Do(fn func(*Draft) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return notFound("draft", s.draft.ID)
	}
	s.lastTouch = time.Now()
	return fn(s.draft)
}

// Registry holds live draft sessions. Idle drafts expire after the TTL,
// which stands in for the browser navigating away: partial orders are never
// persisted.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	logger   *zap.Logger
}

// NewRegistry creates a session registry with the given idle TTL.
func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		logger:   util.GetLogger(),
	}
}

// Put registers a draft and returns its session.
func (r *Registry) Put(draft *Draft) *Session {
	s := &Session{draft: draft, lastTouch: time.Now()}
	r.mu.Lock()
	r.sessions[draft.ID] = s
	r.mu.Unlock()
	return s
}

// Get returns the session for a draft ID.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, notFound("draft", id)
	}
	return s, nil
}

// Remove drops a session, discarding all in-memory draft state.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	if s, ok := r.sessions[id]; ok {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		delete(r.sessions, id)
	}
	r.mu.Unlock()
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// StartSweeper evicts idle sessions until ctx is cancelled.
func (r *Registry) StartSweeper(ctx context.Context) {
	interval := r.ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.sweep()
		}
	}
}

func (r *Registry) sweep() {
	cutoff := time.Now().Add(-r.ttl)
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.sessions {
		s.mu.Lock()
		idle := s.lastTouch.Before(cutoff) && s.draft.State() != StateSubmitting
		if idle {
			s.closed = true
		}
		s.mu.Unlock()
		if idle {
			delete(r.sessions, id)
			r.logger.Info("Expired idle draft", zap.String("draft_id", id))
			util.DraftsExpiredTotal.Inc()
		}
	}
}
