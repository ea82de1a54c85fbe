package cache2q

import "testing"

func TestNew_SamplesReturnedRegardlessOfCollision(t *testing.T) {
	t.Parallel()

	c, samples := New(500, 50, 7)
	if got, want := len(samples), 50; got != want {
		t.Fatalf("len(samples) = %d, want %d", got, want)
	}
	if c.Len() == 0 {
		t.Fatal("expected a non-empty cache")
	}
}

func TestNew_ProtectedSpaceDefault90Percent(t *testing.T) {
	t.Parallel()

	c, _ := New(1_000, 0, 1)
	if c.protectSpace != 900 {
		t.Fatalf("protectSpace = %d, want 900", c.protectSpace)
	}
	if c.ProtectedLen() > c.protectSpace {
		t.Fatalf("ProtectedLen() = %d exceeds protectSpace %d", c.ProtectedLen(), c.protectSpace)
	}
}

func TestNew_WithProtectSpaceOverride(t *testing.T) {
	t.Parallel()

	c, _ := New(200, 0, 1, WithProtectSpace(10))
	if c.protectSpace != 10 {
		t.Fatalf("protectSpace = %d, want 10", c.protectSpace)
	}
	if c.ProtectedLen() > 10 {
		t.Fatalf("ProtectedLen() = %d, want <= 10", c.ProtectedLen())
	}
}

func TestFind_MissIncrementsMissCounter(t *testing.T) {
	t.Parallel()

	c, _ := New(100, 0, 2)
	_, misses0 := c.HitMiss()

	if _, ok := c.Find([]byte("definitely-absent-key")); ok {
		t.Fatal("expected a miss")
	}
	_, misses1 := c.HitMiss()
	if misses1 != misses0+1 {
		t.Fatalf("misses went from %d to %d, want +1", misses0, misses1)
	}
}

func TestFind_ProtectedHitMovesToTailNoRetag(t *testing.T) {
	t.Parallel()

	c, samples := New(50, 5, 3, WithProtectSpace(45))
	if len(samples) == 0 {
		t.Fatal("no samples generated")
	}

	var protectedKey []byte
	for _, k := range samples {
		if e, ok := c.index[string(k)]; ok && e.tag == tagProtected {
			protectedKey = k
			break
		}
	}
	if protectedKey == nil {
		t.Skip("no protected sample key to exercise")
	}

	before := c.protected.tail
	if _, ok := c.Find(protectedKey); !ok {
		t.Fatal("expected a hit")
	}
	after := c.protected.tail
	if after == nil || string(after.key) != string(protectedKey) {
		t.Fatalf("protected hit did not move to tail: before=%v after=%v", before, after)
	}
	if after.tag != tagProtected {
		t.Fatal("protected hit must not change tag")
	}
}

func TestFind_ProbationaryHitPromotesWhenProtectedHasRoom(t *testing.T) {
	t.Parallel()

	c := &Cache2Q{
		index:        make(map[string]*entry),
		protectSpace: 10,
	}
	e := &entry{key: "probk", val: []byte("v"), tag: tagProbationary}
	c.index["probk"] = e
	c.probationary.pushTail(e)

	v, ok := c.Find([]byte("probk"))
	if !ok || string(v) != "v" {
		t.Fatalf("Find() = %v, %v", v, ok)
	}
	if e.tag != tagProtected {
		t.Fatal("entry must be promoted to protected")
	}
	if c.probationary.len() != 0 {
		t.Fatalf("probationary.len() = %d, want 0", c.probationary.len())
	}
	if c.protected.len() != 1 || c.protected.head != e {
		t.Fatal("entry must land at protected head")
	}
}

func TestFind_ProbationaryHitDemotesColdestWhenProtectedFull(t *testing.T) {
	t.Parallel()

	c := &Cache2Q{
		index:        make(map[string]*entry),
		protectSpace: 1,
	}
	cold := &entry{key: "cold", val: []byte("c"), tag: tagProtected}
	c.index["cold"] = cold
	c.protected.pushTail(cold)

	hit := &entry{key: "hit", val: []byte("h"), tag: tagProbationary}
	c.index["hit"] = hit
	c.probationary.pushTail(hit)

	if _, ok := c.Find([]byte("hit")); !ok {
		t.Fatal("expected a hit")
	}

	if cold.tag != tagProbationary {
		t.Fatal("coldest protected entry must be demoted")
	}
	if c.probationary.len() != 1 || c.probationary.tail != cold {
		t.Fatal("demoted entry must land at probationary tail")
	}
	if hit.tag != tagProtected || c.protected.head != hit {
		t.Fatal("hit entry must land at protected head")
	}
	if c.protected.len() != 1 {
		t.Fatalf("protected.len() = %d, want 1", c.protected.len())
	}
}

// TestFind_DoubleHitOnProbationaryHead walks the full promotion/demotion
// sequence: with Protected at capacity, hitting the probationary head
// demotes the coldest protected entry and installs the hit at the cold end
// of Protected; hitting it again merely warms it, with no second demotion.
func TestFind_DoubleHitOnProbationaryHead(t *testing.T) {
	t.Parallel()

	c := &Cache2Q{
		index:        make(map[string]*entry),
		protectSpace: 5,
	}
	names := []string{"p0", "p1", "p2", "p3", "p4", "b0", "b1", "b2"}
	for i, name := range names {
		e := &entry{key: name, val: []byte("v")}
		c.index[name] = e
		if i < c.protectSpace {
			e.tag = tagProtected
			c.protected.pushTail(e)
		} else {
			e.tag = tagProbationary
			c.probationary.pushTail(e)
		}
	}
	if c.ProtectedLen() != 5 || c.ProbationaryLen() != 3 {
		t.Fatalf("setup: protected=%d probationary=%d, want 5/3", c.ProtectedLen(), c.ProbationaryLen())
	}

	// First hit on the probationary head: p0 (coldest protected) is
	// demoted to the probationary tail; b0 lands at the protected head.
	if _, ok := c.Find([]byte("b0")); !ok {
		t.Fatal("expected a hit on b0")
	}
	if c.protected.head.key != "b0" {
		t.Fatalf("protected head = %q, want b0", c.protected.head.key)
	}
	if c.probationary.tail.key != "p0" || c.probationary.tail.tag != tagProbationary {
		t.Fatalf("probationary tail = %q, want demoted p0", c.probationary.tail.key)
	}
	if c.ProtectedLen() != 5 || c.ProbationaryLen() != 3 {
		t.Fatalf("after first hit: protected=%d probationary=%d, want 5/3", c.ProtectedLen(), c.ProbationaryLen())
	}

	// Second hit on the same key: now protected, so it just moves to the
	// tail — no further demotion.
	if _, ok := c.Find([]byte("b0")); !ok {
		t.Fatal("expected a hit on b0")
	}
	if c.protected.tail.key != "b0" {
		t.Fatalf("protected tail = %q, want b0", c.protected.tail.key)
	}
	if c.probationary.tail.key != "p0" {
		t.Fatalf("probationary tail = %q, want p0 unchanged", c.probationary.tail.key)
	}
	if c.ProtectedLen() != 5 || c.ProbationaryLen() != 3 {
		t.Fatalf("after second hit: protected=%d probationary=%d, want 5/3", c.ProtectedLen(), c.ProbationaryLen())
	}
}

func TestFind_BorrowedKeyDoesNotRequireOwnership(t *testing.T) {
	t.Parallel()

	c, _ := New(100, 0, 9)
	key := []byte("some-key-that-may-not-exist")
	buf := append([]byte(nil), key...)
	_, _ = c.Find(buf)
	// buf is still valid and unmodified; Find must not have retained it
	// past the call (it either copies on insert or never inserts on a
	// miss).
	if string(buf) != "some-key-that-may-not-exist" {
		t.Fatal("Find must not mutate its key argument")
	}
}

func TestShared_ConcurrentFindIsRace_Free(t *testing.T) {
	t.Parallel()

	c, samples := New(2_000, 200, 11)
	s := NewShared(c)

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			for _, k := range samples {
				s.Find(k)
			}
			done <- struct{}{}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}

	hits, misses := s.HitMiss()
	if hits+misses == 0 {
		t.Fatal("expected some lookups to have been recorded")
	}
}
