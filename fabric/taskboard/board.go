// Package taskboard implements the mutex-arbitrated task array: a fixed
// slot array shared by N producer goroutines and one consumer goroutine,
// guarded by a single locker (mutex or spinlock, selected at
// construction).
package taskboard

import (
	"fmt"

	"github.com/IvanBrykalov/twoqfabric/fabric"
)

// TaskLen is the fixed slot-array capacity.
const TaskLen = 64

// ExitPid is the sentinel pid a slot carries to mean "consumer must
// exit". No real producer can hold it: valid pids start at 1 and top out
// at fabric.FixProducerNumber.
const ExitPid = ^uint64(0)

type slot struct {
	pid uint64
	key []byte
	val *[]byte // nil: awaiting work; fabric.NotFound: resolved miss; else resolved hit
}

// Board is the fixed task-slot array plus its guarding lock.
type Board struct {
	mu    locker
	slots [TaskLen]slot
}

// New constructs an empty Board. useSpinlock selects a CAS-based spinlock
// instead of sync.Mutex.
func New(useSpinlock bool) *Board {
	b := &Board{}
	if useSpinlock {
		b.mu = &spinLocker{}
	} else {
		b.mu = &mutexLocker{}
	}
	return b
}

// Submit scans slots left to right, filling each empty slot (pid==0)
// from the next unconsumed key in keys, stopping when keys are exhausted
// or the board is full. Returns the number of keys consumed; the caller
// trims its batch by that count. A key is never enqueued alongside a
// pre-existing val.
func (b *Board) Submit(pid uint64, keys [][]byte) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.submitLocked(pid, keys)
}

func (b *Board) submitLocked(pid uint64, keys [][]byte) int {
	n := 0
	for i := range b.slots {
		if n >= len(keys) {
			break
		}
		if b.slots[i].pid == 0 {
			b.slots[i].pid = pid
			b.slots[i].key = keys[n]
			b.slots[i].val = nil
			n++
		}
	}
	return n
}

// Collect scans all slots; for every slot owned by pid with a resolved
// val, appends (key, val) to out and clears the slot. out should be
// pre-sized to TaskLen capacity by the caller to avoid allocating under
// the lock.
func (b *Board) Collect(pid uint64, out []fabric.Result) []fabric.Result {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.collectLocked(pid, out)
}

func (b *Board) collectLocked(pid uint64, out []fabric.Result) []fabric.Result {
	for i := range b.slots {
		s := &b.slots[i]
		if s.pid == pid && s.val != nil {
			hit := s.val != fabric.NotFound
			var v []byte
			if hit {
				v = *s.val
			}
			out = append(out, fabric.Result{Key: s.key, Val: v, Hit: hit})
			*s = slot{}
		}
	}
	return out
}

// SubmitAndCollect performs Collect then Submit atomically under one
// critical section.
func (b *Board) SubmitAndCollect(pid uint64, keys [][]byte, out []fabric.Result) (int, []fabric.Result) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out = b.collectLocked(pid, out)
	n := b.submitLocked(pid, keys)
	return n, out
}

// Drain is the consumer's two-phase resolve step. It snapshots pending
// work under the lock, drops the lock to resolve keys against cache (so
// Cache2Q's O(1) list splicing never happens while the board is locked),
// then re-acquires the lock to publish results. If any slot carries the
// exit sentinel pid, Drain returns immediately with exit=true. touched,
// if non-nil, is set at index pid-1 for every producer whose slot was
// resolved (used by the signaled consumer variant to clear flags).
func (b *Board) Drain(cache fabric.Finder, touched []bool) (n int, exit bool) {
	type pending struct {
		idx int
		key []byte
	}

	b.mu.Lock()
	for i := range b.slots {
		if b.slots[i].pid == ExitPid {
			b.mu.Unlock()
			return 0, true
		}
	}
	var work []pending
	for i := range b.slots {
		s := &b.slots[i]
		if s.pid != 0 && s.val == nil {
			work = append(work, pending{idx: i, key: s.key})
		}
	}
	b.mu.Unlock()

	if len(work) == 0 {
		return 0, false
	}

	type resolved struct {
		idx int
		val *[]byte
	}
	results := make([]resolved, 0, len(work))
	for _, w := range work {
		if v, ok := cache.Find(w.key); ok {
			vv := v
			results = append(results, resolved{idx: w.idx, val: &vv})
		} else {
			results = append(results, resolved{idx: w.idx, val: fabric.NotFound})
		}
	}

	b.mu.Lock()
	for _, r := range results {
		s := &b.slots[r.idx]
		s.val = r.val
		if touched != nil && s.pid >= 1 && s.pid <= fabric.FixProducerNumber {
			touched[s.pid-1] = true
		}
	}
	b.mu.Unlock()

	return len(results), false
}

// PlantExit plants the exit sentinel in slot 0. The caller (main) must
// guarantee every producer has already joined.
func (b *Board) PlantExit() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.slots[0].pid != 0 {
		panic(fmt.Sprintf("taskboard: slot 0 not empty at exit (pid=%d)", b.slots[0].pid))
	}
	b.slots[0].pid = ExitPid
}
