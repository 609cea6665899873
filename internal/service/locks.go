package service

import (
	"context"
	"sync"
)

// userLocks serializes work per user. Entries are reference counted and
// dropped once no caller holds or waits on them.
type userLocks struct {
	mu      sync.Mutex
	entries map[uint]*userLock
}

type userLock struct {
	ch   chan struct{}
	refs int
}

func newUserLocks() *userLocks {
	return &userLocks{entries: make(map[uint]*userLock)}
}

// lock blocks until userID is free or ctx is done. The returned func releases it.
func (l *userLocks) lock(ctx context.Context, userID uint) (func(), error) {
	l.mu.Lock()
	e, ok := l.entries[userID]
	if !ok {
		e = &userLock{ch: make(chan struct{}, 1)}
		l.entries[userID] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
		return func() {
			<-e.ch
			l.release(userID, e)
		}, nil
	case <-ctx.Done():
		l.release(userID, e)
		return nil, ctx.Err()
	}
}

func (l *userLocks) release(userID uint, e *userLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.entries, userID)
	}
}
