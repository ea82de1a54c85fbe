package cache2q

import "unsafe"

// borrowedKey views a caller-owned byte slice as a string for the
// duration of a single map lookup, without copying. The returned string
// aliases b's backing array and must not be retained past the call that
// produced it, nor outlive any mutation of b. Insertion always copies
// into an owned string via a normal string(b) conversion; only the read
// path borrows.
func borrowedKey(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b))
}
