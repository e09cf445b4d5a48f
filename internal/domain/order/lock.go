package order

import "sync"

// Locker provides at-most-one concurrent mutation per order. Entries are
// reference counted and removed once the last holder releases, so the map
// does not grow with the order table.
type Locker struct {
	mu    sync.Mutex
	locks map[int64]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// NewLocker creates an empty Locker.
func NewLocker() *Locker {
	return &Locker{locks: make(map[int64]*lockEntry)}
}

// Lock acquires the mutex for the given order id and returns the release
// function. Callers must release with defer.
func (l *Locker) Lock(orderID int64) func() {
	l.mu.Lock()
	e, ok := l.locks[orderID]
	if !ok {
		e = &lockEntry{}
		l.locks[orderID] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.locks, orderID)
		}
		l.mu.Unlock()
	}
}
