// Package lockmap provides per-key mutual exclusion. Entries live only while
// somebody holds or waits for the key.
package lockmap

import "sync"

type entry struct {
	mut  sync.Mutex
	refs int
}

type Map[K comparable] struct {
	mut   sync.Mutex
	locks map[K]*entry
}

func New[K comparable]() *Map[K] {
	return &Map[K]{
		locks: make(map[K]*entry),
	}
}

func (lm *Map[K]) Lock(key K) {
	lm.mut.Lock()

	e, ok := lm.locks[key]
	if !ok {
		e = &entry{}
		lm.locks[key] = e
	}

	e.refs++
	lm.mut.Unlock()

	e.mut.Lock()
}

func (lm *Map[K]) Unlock(key K) {
	lm.mut.Lock()

	e, ok := lm.locks[key]
	if !ok {
		lm.mut.Unlock()
		panic("lockmap: unlock of unlocked key")
	}

	e.refs--
	if e.refs == 0 {
		delete(lm.locks, key)
	}

	lm.mut.Unlock()

	e.mut.Unlock()
}

// LockAll locks every key in the given order. Callers locking overlapping key
// sets must pass them in the same order.
func (lm *Map[K]) LockAll(keys []K) {
	for _, k := range keys {
		lm.Lock(k)
	}
}

// UnlockAll releases keys locked with LockAll.
func (lm *Map[K]) UnlockAll(keys []K) {
	for i := len(keys) - 1; i >= 0; i-- {
		lm.Unlock(keys[i])
	}
}

// Len returns the number of keys currently held or awaited.
func (lm *Map[K]) Len() int {
	lm.mut.Lock()
	defer lm.mut.Unlock()

	return len(lm.locks)
}
