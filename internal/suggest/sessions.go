package suggest

import (
	"sync"
	"time"
)

// SessionStore hands out one Cycle per chat. Cycles are created by the
// injected factory and dropped after sitting idle past the timeout, so a
// chat coming back the next day starts a fresh cycle.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[int64]*Cycle
	timeout  time.Duration
	factory  func() *Cycle
}

// NewSessionStore creates a store with the given idle timeout and cycle
// factory.
func NewSessionStore(timeout time.Duration, factory func() *Cycle) *SessionStore {
	if timeout <= 0 {
		timeout = 24 * time.Hour
	}
	return &SessionStore{
		sessions: make(map[int64]*Cycle),
		timeout:  timeout,
		factory:  factory,
	}
}

// Get returns the chat's cycle, or nil if none exists.
func (ss *SessionStore) Get(chatID int64) *Cycle {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return ss.sessions[chatID]
}

// GetOrCreate returns the chat's cycle, replacing it if expired.
func (ss *SessionStore) GetOrCreate(chatID int64) *Cycle {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	c, ok := ss.sessions[chatID]
	if ok && !c.IsExpired(ss.timeout) {
		return c
	}

	c = ss.factory()
	ss.sessions[chatID] = c
	return c
}

// Reset discards any existing cycle for the chat and starts a fresh one.
func (ss *SessionStore) Reset(chatID int64) *Cycle {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	c := ss.factory()
	ss.sessions[chatID] = c
	return c
}

// Delete removes the chat's cycle.
func (ss *SessionStore) Delete(chatID int64) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.sessions, chatID)
}

// Cleanup drops expired cycles and reports how many were removed.
func (ss *SessionStore) Cleanup() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	removed := 0
	for chatID, c := range ss.sessions {
		if c.IsExpired(ss.timeout) {
			delete(ss.sessions, chatID)
			removed++
		}
	}
	return removed
}
