package session

import (
	"sync"
	"time"
)

// Store holds at most one session per user id. In-memory only: in-flight
// conversations are lost on restart, which is an accepted limitation.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

func (st *Store) Get(userID string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[userID]
	return s, ok
}

// CreateOrReset installs a fresh session for the user at the first step,
// replacing any existing one.
func (st *Store) CreateOrReset(userID, channel, chatID, name string, now time.Time) *Session {
	s := &Session{
		UserID:       userID,
		Channel:      channel,
		ChatID:       chatID,
		Step:         StepOption,
		Record:       Record{Name: name},
		LastActivity: now,
	}

	st.mu.Lock()
	st.sessions[userID] = s
	st.mu.Unlock()
	return s
}

// Touch marks the user's session as active at the given instant.
func (st *Store) Touch(userID string, now time.Time) {
	st.mu.Lock()
	if s, ok := st.sessions[userID]; ok {
		s.LastActivity = now
	}
	st.mu.Unlock()
}

func (st *Store) Remove(userID string) {
	st.mu.Lock()
	delete(st.sessions, userID)
	st.mu.Unlock()
}

// Entries returns a snapshot of the current sessions.
func (st *Store) Entries() []*Session {
	st.mu.RLock()
	defer st.mu.RUnlock()
	out := make([]*Session, 0, len(st.sessions))
	for _, s := range st.sessions {
		out = append(out, s)
	}
	return out
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// removeIdle deletes every session idle longer than timeout at the given
// instant and returns how many were removed.
func (st *Store) removeIdle(now time.Time, timeout time.Duration) int {
	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, s := range st.sessions {
		if now.Sub(s.LastActivity) > timeout {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}
