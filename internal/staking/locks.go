package staking

import "sync"

// userLocks serializes lifecycle operations per user. Creation, early
// withdrawal and sweep transitions touching the same user's stakes must not
// interleave: two concurrent operations could otherwise both observe a
// passing validation or an Active status and both apply.
type userLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[int64]*sync.Mutex)}
}

// lock acquires the mutex for the user and returns its unlock function.
func (ul *userLocks) lock(userID int64) func() {
	ul.mu.Lock()
	m, ok := ul.locks[userID]
	if !ok {
		m = &sync.Mutex{}
		ul.locks[userID] = m
	}
	ul.mu.Unlock()

	m.Lock()
	return m.Unlock
}
