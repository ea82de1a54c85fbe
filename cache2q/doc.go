// Package cache2q implements the 2Q-style (segmented LRU) cache engine:
// a hash index plus two ordered intrusive lists (Protected, Probationary)
// with O(1) promotion/demotion on hit. The cache is populated once at
// construction and never mutated again except for list position and tag —
// there is no eviction and no delete; capacity only governs how much of
// the index is "protected" versus "probationary" (see Cache2Q.Find).
//
// Cache2Q itself performs no internal synchronization: it is meant to be
// driven by a single goroutine (the consumer in the coordination fabrics).
// Shared wraps it in one mutex for the shared-lock benchmark scenario.
//
// Basic usage
//
//	c, samples := cache2q.New(1<<20, 1<<12, 1)
//	if v, ok := c.Find(someKey); ok {
//	    _ = v
//	}
package cache2q
