package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store isolates sessions by identifier
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Get returns the session for id, creating it when id is empty or unknown.
// The returned session's ID is the one to hand back to the caller.
func (st *Store) Get(id string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	if s, ok := st.sessions[id]; ok && id != "" {
		s.LastSeen = st.now()
		return s
	}
	if id == "" {
		id = uuid.NewString()
	}
	s := New(id)
	s.LastSeen = st.now()
	st.sessions[id] = s
	return s
}

// Len returns the number of live sessions
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Expire drops sessions idle for longer than ttl and returns how many went.
func (st *Store) Expire(ttl time.Duration) int {
	st.mu.Lock()
	defer st.mu.Unlock()

	cutoff := st.now().Add(-ttl)
	n := 0
	for id, s := range st.sessions {
		if s.LastSeen.Before(cutoff) {
			delete(st.sessions, id)
			n++
		}
	}
	return n
}
