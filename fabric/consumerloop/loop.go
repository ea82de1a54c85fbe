// Package consumerloop implements the busy/idle polling state machine
// shared by the Pure and Signaled mutex-board consumer variants: two
// small interfaces (SubmitPolicy, DrainPolicy) plumbed through one loop
// skeleton.
package consumerloop

import "time"

// CheckInterval is how long the consumer tolerates continuous empty
// drains while busy before dropping to idle.
const CheckInterval = 100 * time.Millisecond

// IdleSleep is how long the consumer sleeps between polls once idle.
const IdleSleep = 1 * time.Millisecond

// spinSampleEvery bounds how often the busy loop reads the monotonic
// clock — sampling every iteration would itself become the bottleneck
// under pure polling.
const spinSampleEvery = 1024

// DrainPolicy resolves one round of pending work. exit is true once the
// consumer has observed the exit sentinel and must terminate.
type DrainPolicy interface {
	Drain() (n int, exit bool)
}

// SubmitPolicy decides whether a drain attempt is worth making at all.
// Pure always says yes; Signaled only says yes when some producer flag
// is set.
type SubmitPolicy interface {
	ShouldDrain() bool
}

// Loop runs the shared state machine until DrainPolicy reports exit.
type Loop struct {
	Submit SubmitPolicy
	Drain  DrainPolicy

	resolved int64
}

// Resolved returns the total number of lookups this loop has drained.
// Only meaningful once Run has returned; the counter is not synchronized.
func (l *Loop) Resolved() int64 { return l.resolved }

// Run blocks until the fabric's exit sentinel is observed.
func (l *Loop) Run() {
	busy := true
	var dryStart time.Time
	spins := 0

	for {
		if l.Submit.ShouldDrain() {
			n, exit := l.Drain.Drain()
			if exit {
				return
			}
			if n > 0 {
				l.resolved += int64(n)
				busy = true
				dryStart = time.Time{}
				spins = 0
				continue
			}
		}

		// Nothing resolved this iteration (either ShouldDrain said no,
		// or the drain came back empty).
		if !busy {
			time.Sleep(IdleSleep)
			continue
		}

		spins++
		if spins < spinSampleEvery {
			continue
		}
		spins = 0
		if dryStart.IsZero() {
			dryStart = time.Now()
		} else if time.Since(dryStart) >= CheckInterval {
			busy = false
		}
	}
}
