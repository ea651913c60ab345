package scoring

import (
	"sync"

	"github.com/google/uuid"
)

// scopeLock serializes recomputes per scope (tournament, stage or season id).
// Two concurrent recomputes of the same scope would both delete-then-insert
// the same derived rows; the scope id is the natural mutual-exclusion
// boundary. Different scopes proceed in parallel.
type scopeLock struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*scopeEntry
}

type scopeEntry struct {
	mu   sync.Mutex
	refs int
}

func newScopeLock() *scopeLock {
	return &scopeLock{locks: make(map[uuid.UUID]*scopeEntry)}
}

// do runs fn while holding the lock for the given scope.
func (l *scopeLock) do(scope uuid.UUID, fn func() error) error {
	l.mu.Lock()
	entry, ok := l.locks[scope]
	if !ok {
		entry = &scopeEntry{}
		l.locks[scope] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	err := fn()
	entry.mu.Unlock()

	l.mu.Lock()
	entry.refs--
	if entry.refs == 0 {
		delete(l.locks, scope)
	}
	l.mu.Unlock()

	return err
}
