package services

import "sync"

// draftLocks serialises edits per draft id. Entries are dropped once no
// goroutine holds or waits for them.
type draftLocks struct {
	mu    sync.Mutex
	locks map[string]*draftLock
}

type draftLock struct {
	sync.Mutex
	refs int
}

func newDraftLocks() *draftLocks {
	return &draftLocks{locks: make(map[string]*draftLock)}
}

// Lock blocks until the caller holds the lock for id and returns its release func.
func (l *draftLocks) Lock(id string) func() {
	l.mu.Lock()
	lk, ok := l.locks[id]
	if !ok {
		lk = &draftLock{}
		l.locks[id] = lk
	}
	lk.refs++
	l.mu.Unlock()

	lk.Lock()
	return func() {
		lk.Unlock()
		l.mu.Lock()
		lk.refs--
		if lk.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
