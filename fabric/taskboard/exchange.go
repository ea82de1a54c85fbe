package taskboard

import (
	"time"

	"github.com/IvanBrykalov/twoqfabric/fabric"
)

// submitWaitSleep is how long a producer sleeps after finding the board
// full (or its results not yet resolved) before retrying.
const submitWaitSleep = time.Microsecond

// PureExchanger drives Board from the producer side for the pure polling
// scenario: plain submit/collect loop, no flag signaling. One instance per
// producer goroutine — the sleep counter is not synchronized.
type PureExchanger struct {
	Board    *Board
	sleepCnt int64
}

// Exchange submits keys and blocks (retrying on "board full") until every
// key has a resolved result, then returns all of them.
func (e *PureExchanger) Exchange(pid uint64, keys [][]byte) []fabric.Result {
	return exchange(e.Board, pid, keys, nil, &e.sleepCnt)
}

// Sleeps returns how many 1µs retry naps this producer has taken.
func (e *PureExchanger) Sleeps() int64 { return e.sleepCnt }

// SignaledExchanger additionally sets this producer's pending flag
// before every submit attempt. The flag goes up before the submit is
// known to have succeeded; on a "board full" return the consumer may
// briefly observe the flag set with no slot owned by this pid, which is
// benign — it just finds nothing to do for this pid on that pass. One
// instance per producer goroutine.
type SignaledExchanger struct {
	Board    *Board
	Flags    *Flags
	sleepCnt int64
}

func (e *SignaledExchanger) Exchange(pid uint64, keys [][]byte) []fabric.Result {
	return exchange(e.Board, pid, keys, e.Flags, &e.sleepCnt)
}

// Sleeps returns how many 1µs retry naps this producer has taken.
func (e *SignaledExchanger) Sleeps() int64 { return e.sleepCnt }

func exchange(b *Board, pid uint64, keys [][]byte, flags *Flags, sleepCnt *int64) []fabric.Result {
	results := make([]fabric.Result, 0, len(keys))
	remaining := keys
	out := make([]fabric.Result, 0, TaskLen)

	for len(remaining) > 0 || len(results) < len(keys) {
		if len(remaining) > 0 {
			if flags != nil {
				flags.SetPending(pid)
			}
			n := b.Submit(pid, remaining)
			remaining = remaining[n:]
			if n == 0 {
				*sleepCnt++
				time.Sleep(submitWaitSleep)
			}
		}

		out = out[:0]
		out = b.Collect(pid, out)
		results = append(results, out...)

		if len(remaining) == 0 && len(results) < len(keys) && len(out) == 0 {
			*sleepCnt++
			time.Sleep(submitWaitSleep)
		}
	}
	return results
}
