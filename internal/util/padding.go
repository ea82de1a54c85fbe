// Package util contains internal helpers shared across the cache engine
// and the coordination fabrics, chiefly cache-line padding.
//revive:disable:var-naming  // allow 'util' as an internal helpers package name
package util

import (
	"sync/atomic"
	"unsafe"
)

// CacheLineSize is a reasonable default for most modern CPUs.
// std has runtime/internal/sys.CacheLineSize but it's unexported.
// 64 works well in practice.
const CacheLineSize = 64

// CacheLinePad is a dummy field used to separate hot fields into distinct
// cache lines and reduce false sharing. Place between groups of hot fields.
type CacheLinePad struct{ _ [CacheLineSize]byte }

// PointerArray is a fixed-length array of atomic pointers that occupies
// whole cache lines and is itself padded on both sides, so it never shares
// a line with a neighboring PointerArray field in a containing struct.
// Used for the lockless fabric's request/result slot arrays (one array per
// array, per producer, each pinned to its own lines).
type PointerArray[T any] struct {
	_    CacheLinePad
	Ptrs [LockLessArrayLen]atomic.Pointer[T]
	_    CacheLinePad
}

// LockLessArrayLen is one cache line of pointer-sized slots
// (CacheLineSize / sizeof(pointer) on 64-bit platforms).
const LockLessArrayLen = CacheLineSize / 8

// ---- Compile-time size check (must be exactly one cache line) ----

var _ [CacheLineSize - int(unsafe.Sizeof(CacheLinePad{}))]byte
