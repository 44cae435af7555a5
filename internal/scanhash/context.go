// Package scanhash implements the nonce evaluator and scanhash driver
// (spec.md §4.F, §4.G): the round-robin sweep over the twelve
// strategy generators, lock-map arbitration, and semi-result
// accumulation that together find a nonce whose double-SHA-256
// digest meets a target.
package scanhash

import (
	"sync/atomic"

	"github.com/sjurajpuchky/cgminer/internal/bitfield"
	"github.com/sjurajpuchky/cgminer/internal/semiresult"
	"github.com/sjurajpuchky/cgminer/internal/strategy"
)

// RestartSignal is read by the evaluator once for every candidate
// that does not pass the semi-result filter. It is the only
// cross-thread communication a scan makes; it must be safe to read and
// write concurrently.
type RestartSignal interface {
	Requested() bool
}

// AtomicRestart is the standard RestartSignal: a single atomic flag
// set by a job-dispatch collaborator and polled by the driver.
type AtomicRestart struct {
	flag atomic.Bool
}

// Requested reports whether a restart has been signaled.
func (r *AtomicRestart) Requested() bool {
	return r.flag.Load()
}

// Set raises the restart flag.
func (r *AtomicRestart) Set() {
	r.flag.Store(true)
}

// Reset lowers the restart flag, so the signal can be reused for the
// next scan.
func (r *AtomicRestart) Reset() {
	r.flag.Store(false)
}

// Logger is the log_notice-style diagnostic callback a collaborator
// can set on a Context, so this package never imports "log" itself.
type Logger func(format string, args ...any)

// Context encapsulates the process-wide mutable state the original
// source kept as module globals (_nonceUp, _nonceDown,
// supradrive_total, foundResults, semiResultBuffer, usedBlockMap),
// per spec.md §9: a single scan context owned by the driver, with no
// reason to be global in a re-implementation.
type Context struct {
	Lock   *bitfield.LockMap
	Buffer semiresult.Buffer

	nonceUp   [6]uint32
	nonceDown [6]uint32

	Total        uint32
	OverflowHook func([]semiresult.Result)
	Log          Logger
}

// NewContext allocates a Context sized for nonces in [0, maxNonce).
func NewContext(maxNonce uint32) *Context {
	return &Context{Lock: bitfield.NewLockMap(maxNonce)}
}

// reset reinitializes per-scan state: strategy last-nonce arrays from
// (lastNonce, maxNonce), the lock map and semi-result buffer cleared,
// and the candidate counter seeded from n, per spec.md §4.G step 1-2.
func (c *Context) reset(lastNonce, maxNonce, n uint32) {
	for i := range strategy.Up {
		c.nonceUp[i] = lastNonce
	}
	for i := range strategy.Down {
		c.nonceDown[i] = maxNonce
	}
	c.Lock.ClearAll(maxNonce)
	c.Buffer.Clear()
	c.Total = n
}

// flush drains the semi-result buffer to OverflowHook, if set, and
// returns the drained entries.
func (c *Context) flush() []semiresult.Result {
	entries := c.Buffer.Flush()
	if len(entries) > 0 {
		if c.Log != nil {
			c.Log("scanhash: flushed %d semi-result(s)", len(entries))
		}
		if c.OverflowHook != nil {
			c.OverflowHook(entries)
		}
	}
	return entries
}
