package core

// registry.go keeps the live sessions of the web host. Sessions exist only in
// memory; StartReaper evicts the ones that have been idle past their TTL.

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Registry maps session IDs to sessions.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	opts     []SessionOption
}

// NewRegistry creates an empty registry. opts are applied to every session it creates.
func NewRegistry(opts ...SessionOption) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		opts:     opts,
	}
}

// Get returns the session for id, or ErrSessionNotFound. A hit counts as use,
// so the reaper will not evict a session that was just handed out.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.touch()
	return s, nil
}

// GetOrCreate returns the session for id, creating a new one (with a new ID)
// when id is empty or unknown. The bool reports whether a session was created.
// Lookup and insert happen under one lock, so Evict cannot slip between them.
func (r *Registry) GetOrCreate(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[id]; ok && id != "" {
		s.touch()
		return s, false
	}

	s := NewSession(r.opts...)
	r.sessions[s.ID] = s
	return s, true
}

// Delete drops a session and everything it holds.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	return true
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Evict removes sessions idle since before cutoff and returns how many were removed.
func (r *Registry) Evict(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, s := range r.sessions {
		if s.LastUsed().Before(cutoff) {
			delete(r.sessions, id)
			evicted++
		}
	}
	return evicted
}

// StartReaper evicts sessions idle longer than ttl every interval until ctx
// is cancelled. Run it in its own goroutine.
func (r *Registry) StartReaper(ctx context.Context, ttl, interval time.Duration) {
	slog.Info("session reaper started", "ttl", ttl, "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("session reaper stopped")
			return
		case now := <-ticker.C:
			if n := r.Evict(now.Add(-ttl)); n > 0 {
				slog.Info("evicted idle sessions", "count", n, "remaining", r.Len())
			}
		}
	}
}
