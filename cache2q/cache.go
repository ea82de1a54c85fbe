package cache2q

import "github.com/IvanBrykalov/twoqfabric/internal/randgen"

const (
	// KeyMinLen / KeyMaxLen bound generated key length, half-open upper.
	KeyMinLen = 2
	KeyMaxLen = 64
	// ValMinLen / ValMaxLen bound generated value length, half-open upper.
	ValMinLen = 20
	ValMaxLen = 2000
)

// Cache2Q is the segmented-LRU engine: a hash index plus Protected and
// Probationary intrusive lists. It is NOT internally synchronized — see
// Shared for a single-lock wrapper suitable for multiple callers.
type Cache2Q struct {
	index        map[string]*entry
	protected    orderedList
	probationary orderedList
	protectSpace int

	hits   int64
	misses int64
}

// Option configures New.
type Option func(*options)

type options struct {
	protectSpace int // 0 => default to 90% of initKeys
}

// WithProtectSpace overrides the default Protected-list capacity (90% of
// initKeys).
func WithProtectSpace(n int) Option {
	return func(o *options) { o.protectSpace = n }
}

// New constructs a Cache2Q with initKeys distinct random (key,value)
// pairs generated from a RandomEngine seeded with seed. The first
// ProtectSpace successful inserts are tagged Protected; the rest are
// Probationary. The first sampleCount generated keys (even if their
// insert collided with an existing key) are returned as samples for the
// producer driver's shared hot-key pool.
func New(initKeys, sampleCount int, seed int64, opts ...Option) (*Cache2Q, [][]byte) {
	if sampleCount > initKeys {
		panic("cache2q: sampleCount must be <= initKeys")
	}

	o := options{protectSpace: initKeys * 90 / 100}
	for _, fn := range opts {
		fn(&o)
	}

	c := &Cache2Q{
		index:        make(map[string]*entry, initKeys),
		protectSpace: o.protectSpace,
	}

	re := randgen.New(seed)
	samples := make([][]byte, 0, sampleCount)

	for i := 0; i < initKeys; i++ {
		key := re.RandStrScope(KeyMinLen, KeyMaxLen)
		val := re.RandStrScope(ValMinLen, ValMaxLen)

		if len(samples) < sampleCount {
			samples = append(samples, key)
		}

		keyStr := string(key) // owned copy
		if _, exists := c.index[keyStr]; exists {
			continue
		}
		e := &entry{key: keyStr, val: val}
		c.index[keyStr] = e

		if c.protected.len() < c.protectSpace {
			e.tag = tagProtected
			c.protected.pushTail(e)
		} else {
			e.tag = tagProbationary
			c.probationary.pushTail(e)
		}
	}

	return c, samples
}

// Find resolves key against the index. key may be a borrowed slice (e.g.
// a reference into a producer's batch buffer) — the lookup never copies
// it. On hit, the entry is promoted: a protected entry moves to the warm
// end of Protected; a probationary entry is lifted into Protected,
// demoting the coldest protected entry back to Probationary if Protected
// is at capacity. On miss, (nil, false) is returned and the miss counter
// is incremented.
func (c *Cache2Q) Find(key []byte) ([]byte, bool) {
	e, ok := c.index[borrowedKey(key)]
	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++

	switch e.tag {
	case tagProtected:
		// Hit in Protected: promote to the warmest position.
		c.protected.moveToTail(e)

	case tagProbationary:
		if c.protected.len() < c.protectSpace {
			// Protected has room: lift the hit straight to the coldest
			// position in Protected.
			c.probationary.remove(e)
			e.tag = tagProtected
			c.protected.pushHead(e)
		} else {
			// Protected is full: demote its coldest member to the
			// warmest position in Probationary, then lift the hit into
			// the now-vacated coldest position in Protected.
			coldest := c.protected.head
			if coldest != nil {
				c.protected.remove(coldest)
				coldest.tag = tagProbationary
				c.probationary.pushTail(coldest)
			}
			c.probationary.remove(e)
			e.tag = tagProtected
			c.protected.pushHead(e)
		}
	}

	return e.val, true
}

// Len returns the total number of resident entries.
func (c *Cache2Q) Len() int { return len(c.index) }

// ProtectedLen / ProbationaryLen report current list sizes, used by tests
// and the metrics adapter. Their sum always equals Len().
func (c *Cache2Q) ProtectedLen() int    { return c.protected.len() }
func (c *Cache2Q) ProbationaryLen() int { return c.probationary.len() }

// HitMiss returns cumulative hit/miss counts since construction.
func (c *Cache2Q) HitMiss() (hits, misses int64) { return c.hits, c.misses }
