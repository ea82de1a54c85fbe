package cache2q

import "sync"

// Shared wraps a Cache2Q in a single exclusive lock so that Find may be
// called from more than one goroutine (the shared-lock benchmark
// scenario). It preserves the exact same observable state machine as the
// unsynchronized Cache2Q; only a lock is added around the single
// list-splicing operation.
type Shared struct {
	mu sync.Mutex
	c  *Cache2Q
}

// NewShared wraps an existing Cache2Q for concurrent use.
func NewShared(c *Cache2Q) *Shared { return &Shared{c: c} }

// Find is Cache2Q.Find under the shared lock.
func (s *Shared) Find(key []byte) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Find(key)
}

// Len, ProtectedLen, ProbationaryLen, HitMiss mirror Cache2Q's read-only
// accessors, also taken under the lock for a consistent snapshot.
func (s *Shared) Len() int { s.mu.Lock(); defer s.mu.Unlock(); return s.c.Len() }

func (s *Shared) ProtectedLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.ProtectedLen()
}

func (s *Shared) ProbationaryLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.ProbationaryLen()
}

func (s *Shared) HitMiss() (hits, misses int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.HitMiss()
}
