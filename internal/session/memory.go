package session

import (
	"context"
	"sync"

	"englishcard/internal/domain"
)

// MemoryStore is the in-process Store. States are lost on restart.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[int64]*domain.StateData
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[int64]*domain.StateData)}
}

// Get returns user's current state
func (s *MemoryStore) Get(_ context.Context, userID int64) (*domain.StateData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, exists := s.states[userID]
	if !exists {
		return domain.IdleState(), nil
	}
	return state.Clone(), nil
}

// Set replaces user's state. Idle states are not kept.
func (s *MemoryStore) Set(_ context.Context, userID int64, state *domain.StateData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if state.IsIdle() {
		delete(s.states, userID)
		return nil
	}
	s.states[userID] = state.Clone()
	return nil
}

// Clear resets user to idle state
func (s *MemoryStore) Clear(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, userID)
	return nil
}

// Len returns the number of users with an active dialog
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.states)
}
