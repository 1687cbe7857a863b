package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrCapacity = errors.New("session pool capacity reached")
)

// Session holds one value owned by a single client. Callers lock it while
// using Value.
type Session[V any] struct {
	ID        string
	Value     V
	CreatedAt time.Time
	LastUsed  time.Time
	sync.Mutex
}

// Pool keeps sessions alive until they go idle or exceed their absolute
// lifetime.
type Pool[V any] struct {
	sessions    map[string]*Session[V]
	mu          sync.Mutex
	idleTimeout time.Duration
	absTimeout  time.Duration
	maxSessions int
	now         func() time.Time
	cleanupStop chan struct{}
	stopOnce    sync.Once
}

// NewPool creates a pool. A zero maxSessions means unlimited.
func NewPool[V any](maxSessions int, idleTimeout, absTimeout time.Duration) *Pool[V] {
	return &Pool[V]{
		sessions:    make(map[string]*Session[V]),
		idleTimeout: idleTimeout,
		absTimeout:  absTimeout,
		maxSessions: maxSessions,
		now:         time.Now,
		cleanupStop: make(chan struct{}),
	}
}

// StartCleanup evicts expired sessions every interval until Close.
func (p *Pool[V]) StartCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		for {
			select {
			case <-ticker.C:
				p.Cleanup()
			case <-p.cleanupStop:
				ticker.Stop()
				return
			}
		}
	}()
}

// Close stops the cleanup routine
func (p *Pool[V]) Close() {
	p.stopOnce.Do(func() { close(p.cleanupStop) })
}

// Create registers value under a fresh session id.
func (p *Pool[V]) Create(value V) (*Session[V], error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.maxSessions > 0 && len(p.sessions) >= p.maxSessions {
		return nil, fmt.Errorf("%w (max %d)", ErrCapacity, p.maxSessions)
	}

	now := p.now()
	s := &Session[V]{
		ID:        uuid.New().String(),
		Value:     value,
		CreatedAt: now,
		LastUsed:  now,
	}
	p.sessions[s.ID] = s
	slog.Info("Session created", "session", s.ID, "active", len(p.sessions))
	return s, nil
}

// Get returns the session and marks it used.
func (p *Pool[V]) Get(id string) (*Session[V], error) {
	p.mu.Lock()
	s, ok := p.sessions[id]
	p.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	s.Lock()
	s.LastUsed = p.now()
	s.Unlock()
	return s, nil
}

// Remove drops a session. It reports whether the session existed.
func (p *Pool[V]) Remove(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.sessions[id]; !ok {
		return false
	}
	delete(p.sessions, id)
	return true
}

// Len is the number of live sessions
func (p *Pool[V]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.sessions)
}

// Cleanup evicts sessions past their idle or absolute timeout and returns
// how many were removed.
func (p *Pool[V]) Cleanup() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	removed := 0
	for id, s := range p.sessions {
		s.Lock()
		expired := (p.absTimeout > 0 && now.Sub(s.CreatedAt) > p.absTimeout) ||
			(p.idleTimeout > 0 && now.Sub(s.LastUsed) > p.idleTimeout)
		s.Unlock()
		if expired {
			slog.Info("Cleaning up expired session", "session", id)
			delete(p.sessions, id)
			removed++
		}
	}
	return removed
}
