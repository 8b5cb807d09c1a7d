// Package session keeps the per-user dialog state between messages.
package session

import (
	"context"
	"sync"

	"englishcard/internal/domain"
)

// Store holds one dialog state per Telegram user.
// Get returns an idle state for users without a stored state.
type Store interface {
	Get(ctx context.Context, userID int64) (*domain.StateData, error)
	Set(ctx context.Context, userID int64, state *domain.StateData) error
	Clear(ctx context.Context, userID int64) error
}

// Locker serializes work per user so a get-then-set on one user's state
// never interleaves with another for the same user
type Locker struct {
	mu    sync.Mutex
	locks map[int64]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

// NewLocker creates an empty keyed lock
func NewLocker() *Locker {
	return &Locker{locks: make(map[int64]*userLock)}
}

// Lock acquires the user's lock and returns the function releasing it
func (l *Locker) Lock(userID int64) func() {
	l.mu.Lock()
	lock, exists := l.locks[userID]
	if !exists {
		lock = &userLock{}
		l.locks[userID] = lock
	}
	lock.refs++
	l.mu.Unlock()

	lock.mu.Lock()

	return func() {
		lock.mu.Unlock()

		l.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(l.locks, userID)
		}
		l.mu.Unlock()
	}
}

// size reports the number of users currently holding or waiting for a lock
func (l *Locker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
