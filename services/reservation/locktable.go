package reservation

import "sync"

// lockTable hands out one mutex per slot id so that two requests for the
// same slot serialize while requests for different slots never contend.
// Entries are reference-counted and removed once the last holder releases,
// keeping the table bounded by the number of in-flight reservations.
type lockTable struct {
	mu    sync.Mutex
	locks map[string]*slotLock
}

type slotLock struct {
	mu   sync.Mutex
	refs int
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[string]*slotLock)}
}

// acquire blocks until the per-slot mutex is held and returns the release
// function. The mutex must only be held across the confirm/invalidate
// critical section, never across client I/O.
func (t *lockTable) acquire(slotID string) func() {
	t.mu.Lock()
	l, ok := t.locks[slotID]
	if !ok {
		l = &slotLock{}
		t.locks[slotID] = l
	}
	l.refs++
	t.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		t.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(t.locks, slotID)
		}
		t.mu.Unlock()
	}
}
