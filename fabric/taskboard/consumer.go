package taskboard

import (
	"sync/atomic"

	"github.com/IvanBrykalov/twoqfabric/fabric"
	"github.com/IvanBrykalov/twoqfabric/fabric/consumerloop"
)

// PureDrainer always calls Board.Drain — the "pure polling" consumer
// variant never inspects producer-side hints.
type PureDrainer struct {
	Board *Board
	Cache fabric.Finder
}

func (PureDrainer) ShouldDrain() bool { return true }

func (d *PureDrainer) Drain() (int, bool) {
	return d.Board.Drain(d.Cache, nil)
}

// NewPureLoop builds a consumerloop.Loop for the pure polling variant.
func NewPureLoop(b *Board, cache fabric.Finder) *consumerloop.Loop {
	d := &PureDrainer{Board: b, Cache: cache}
	return &consumerloop.Loop{Submit: d, Drain: d}
}

// Flags is the per-producer "has-pending" hint array used by the
// signaled variant. Producers set their own flag before submitting;
// the consumer clears a flag once it has resolved that producer's slots.
// PlantExitSignaled additionally sets flag[0] so the early-out check in
// ShouldDrain never starves once the board carries only the exit
// sentinel. flag[0] therefore does double duty as producer 1's pending
// hint and the exit hint; that is safe only because the exit sentinel is
// planted after every producer has joined.
type Flags struct {
	f [fabric.FixProducerNumber]atomic.Bool
}

// SetPending marks pid (1-based) as having submitted work.
func (fl *Flags) SetPending(pid uint64) {
	fl.f[pid-1].Store(true)
}

// SetExitHint sets flag[0], used only by PlantExitSignaled below.
func (fl *Flags) SetExitHint() {
	fl.f[0].Store(true)
}

// SignaledDrainer calls Board.Drain only when at least one producer flag
// is set, and clears flags for every pid it resolved.
type SignaledDrainer struct {
	Board   *Board
	Cache   fabric.Finder
	Flags   *Flags
	touched [fabric.FixProducerNumber]bool
}

func NewSignaledDrainer(b *Board, cache fabric.Finder, flags *Flags) *SignaledDrainer {
	return &SignaledDrainer{Board: b, Cache: cache, Flags: flags}
}

func (d *SignaledDrainer) ShouldDrain() bool {
	for i := range d.Flags.f {
		if d.Flags.f[i].Load() {
			return true
		}
	}
	return false
}

func (d *SignaledDrainer) Drain() (int, bool) {
	for i := range d.touched {
		d.touched[i] = false
	}
	n, exit := d.Board.Drain(d.Cache, d.touched[:])
	if exit {
		return 0, true
	}
	for i, t := range d.touched {
		if t {
			d.Flags.f[i].Store(false)
		}
	}
	return n, false
}

// NewSignaledLoop builds a consumerloop.Loop for the signaled variant.
func NewSignaledLoop(b *Board, cache fabric.Finder, flags *Flags) *consumerloop.Loop {
	d := NewSignaledDrainer(b, cache, flags)
	return &consumerloop.Loop{Submit: d, Drain: d}
}

// PlantExitSignaled plants the exit sentinel and also sets flag[0], so a
// signaled consumer blocked on ShouldDrain wakes up to observe it.
func PlantExitSignaled(b *Board, flags *Flags) {
	b.PlantExit()
	flags.SetExitHint()
}
