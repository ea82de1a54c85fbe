// Package randgen provides the deterministic per-goroutine PRNG used to
// generate keys, values, and batch draws throughout the benchmark.
package randgen

import "math/rand"

// Engine holds three independent PRNG streams (byte, int, size) seeded
// deterministically from a caller-supplied seed, so drawing from one
// stream never perturbs the others. Each Engine is owned by exactly one
// goroutine; *rand.Rand is not safe for concurrent use, so instances are
// never shared.
type Engine struct {
	byteRand *rand.Rand
	intRand  *rand.Rand
	sizeRand *rand.Rand
}

// New derives three non-aliasing seeds from seed and builds an Engine.
func New(seed int64) *Engine {
	return &Engine{
		byteRand: rand.New(rand.NewSource(seed)),
		intRand:  rand.New(rand.NewSource(seed*9973 + 1)),
		sizeRand: rand.New(rand.NewSource(seed*9973 + 2)),
	}
}

// RandByte returns a uniform byte (0..255).
func (e *Engine) RandByte() byte { return byte(e.byteRand.Intn(256)) }

// RandInt returns a uniform signed int across the full generator range.
func (e *Engine) RandInt() int { return e.intRand.Int() }

// RandIntRange returns a uniform int in [min, max). Panics if min >= max.
func (e *Engine) RandIntRange(min, max int) int {
	if min >= max {
		panic("randgen: RandIntRange requires min < max")
	}
	return min + e.intRand.Intn(max-min)
}

// RandSize returns a uniform non-negative size_t-equivalent.
func (e *Engine) RandSize() int { return e.sizeRand.Int() }

// RandSizeRange returns a uniform int in [min, max). Panics if min >= max.
func (e *Engine) RandSizeRange(min, max int) int {
	if min >= max {
		panic("randgen: RandSizeRange requires min < max")
	}
	return min + e.sizeRand.Intn(max-min)
}

// RandStr returns n binary-clean random bytes (uniform 0..255, not ASCII).
func (e *Engine) RandStr(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = e.RandByte()
	}
	return b
}

// RandStrScope returns a random byte string of length uniform in [lo, hi).
func (e *Engine) RandStrScope(lo, hi int) []byte {
	n := e.RandSizeRange(lo, hi)
	return e.RandStr(n)
}
