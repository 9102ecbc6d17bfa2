/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package turntimer is a restartable countdown for a guessing turn. Expiry
// is delivered as a message tagged with the generation that armed it, so the
// owner acts on whatever state it holds when the message arrives.
package turntimer

import (
	"sync"
	"time"
)

// Expiry is sent on C when the countdown armed by generation Gen runs out.
type Expiry struct {
	Gen uint64
}

type Timer struct {
	d time.Duration
	c chan Expiry

	mu       sync.Mutex
	gen      uint64
	t        *time.Timer
	deadline time.Time
}

// New returns a timer counting down d. A non-positive d disables it: Start
// never arms and C never delivers.
func New(d time.Duration) *Timer {
	return &Timer{
		d: d,
		c: make(chan Expiry, 1),
	}
}

func (t *Timer) Enabled() bool {
	return t != nil && t.d > 0
}

func (t *Timer) Duration() time.Duration {
	return t.d
}

// C delivers expiries. Only the most recent undelivered one is kept.
func (t *Timer) C() <-chan Expiry {
	return t.c
}

// Start arms a new countdown, cancelling any running one, and returns its
// generation.
func (t *Timer) Start() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	if !t.Enabled() {
		return t.gen
	}

	gen := t.gen
	t.deadline = time.Now().Add(t.d)
	t.t = time.AfterFunc(t.d, func() {
		t.fire(gen)
	})
	return gen
}

// Stop cancels the running countdown. An expiry already sent becomes stale.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
}

func (t *Timer) stopLocked() {
	t.gen++
	if t.t != nil {
		t.t.Stop()
		t.t = nil
	}
	t.deadline = time.Time{}
}

func (t *Timer) fire(gen uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if gen != t.gen {
		return
	}
	t.t = nil
	t.deadline = time.Time{}

	select {
	case <-t.c:
	default:
	}
	t.c <- Expiry{Gen: gen}
}

// Current reports whether e belongs to the countdown that is still armed, or
// that most recently ran out without being stopped or restarted.
func (t *Timer) Current(e Expiry) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return e.Gen == t.gen
}

// Deadline returns when the running countdown ends.
func (t *Timer) Deadline() (time.Time, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.deadline, !t.deadline.IsZero()
}
