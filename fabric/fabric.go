// Package fabric holds the small set of types shared by every
// producer/consumer coordination fabric: the cache-lookup contract both
// fabrics drive the consumer side with, the distinguished sentinel
// pointers, and the producer-count ceiling.
package fabric

// Finder is the read-only surface every fabric's consumer side needs from
// the cache engine. Both cache2q.Cache2Q and cache2q.Shared satisfy it.
type Finder interface {
	Find(key []byte) (val []byte, ok bool)
}

// Result is a resolved (key, value) pair handed back to the producer
// that submitted the key. Hit is false when the lookup missed, in which
// case Val is nil.
type Result struct {
	Key []byte
	Val []byte
	Hit bool
}

// Exchanger is what the producer driver needs from any coordination
// fabric: hand over a batch of keys, block until every one of them is
// resolved, and get the results back. Each fabric package (taskboard,
// lockless) provides at least one Exchanger implementation.
type Exchanger interface {
	Exchange(pid uint64, keys [][]byte) []Result
}

// FixProducerNumber is the maximum number of producer goroutines any
// fabric is sized for.
const FixProducerNumber = 8

// notFoundSentinel and exitSentinel back the two distinguished pointers
// below. Their content is irrelevant — only their addresses matter, and
// those addresses can never alias a real key or value because they are
// package-level variables never produced by internal/randgen.
var (
	notFoundSentinel = []byte("\x00cache2q:not-found\x00")
	exitSentinel     = []byte("\x00cache2q:exit\x00")
)

// NotFound is stored in a result slot/ring to mean "resolved, lookup
// missed." Compared by pointer identity, never by content.
var NotFound = &notFoundSentinel

// ExitSentinel is planted into the lockless fabric's first request slot
// to signal consumer termination. Compared by pointer identity.
var ExitSentinel = &exitSentinel
