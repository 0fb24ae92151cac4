package state

import (
	"sync"
	"time"
)

// Store owns the AppState. All changes go through Dispatch.
type Store struct {
	mu    sync.RWMutex
	state AppState
	now   func() time.Time
}

func NewStore() *Store {
	return &Store{state: initial(), now: time.Now}
}

func (s *Store) Dispatch(actions ...Action) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for _, a := range actions {
		a.apply(&s.state, now)
	}
}

// Snapshot returns a copy that later dispatches do not touch.
func (s *Store) Snapshot() AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}
