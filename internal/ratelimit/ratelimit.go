// Package ratelimit enforces a fixed-window call budget per endpoint group.
//
// A token-bucket limiter (golang.org/x/time/rate) can admit close to twice
// the budget inside a single window after an idle stretch, so the hard
// "at most N calls in any window" contract is kept with a window counter
// instead. Waiters suspend until rollover; they are never rejected.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Clock abstracts time so budget compliance is testable without sleeping.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// SystemClock returns the wall clock.
func SystemClock() Clock { return systemClock{} }

// Limiter is a fixed-window counter. The window opens at the first
// permitted call after rollover and admits at most max calls until it
// closes. Acquire suspends callers beyond the budget until capacity
// returns; a channel turnstile keeps waiters FIFO (the runtime wakes
// goroutines blocked on a channel in arrival order).
type Limiter struct {
	max    int
	window time.Duration
	clock  Clock

	turnstile chan struct{}

	mu          sync.Mutex
	windowStart time.Time
	count       int
}

func New(max int, window time.Duration, clock Clock) *Limiter {
	if clock == nil {
		clock = SystemClock()
	}
	return &Limiter{
		max:       max,
		window:    window,
		clock:     clock,
		turnstile: make(chan struct{}, 1),
	}
}

// Acquire blocks until a call is permitted under the budget, or until ctx
// is done. It never drops a caller.
func (l *Limiter) Acquire(ctx context.Context) error {
	select {
	case l.turnstile <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-l.turnstile }()

	for {
		now := l.clock.Now()

		l.mu.Lock()
		if l.count == 0 || now.Sub(l.windowStart) >= l.window {
			l.windowStart = now
			l.count = 0
		}
		if l.count < l.max {
			l.count++
			l.mu.Unlock()
			return nil
		}
		wait := l.windowStart.Add(l.window).Sub(now)
		l.mu.Unlock()

		if err := l.clock.Sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// Remaining reports the budget left in the current window.
func (l *Limiter) Remaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.clock.Now().Sub(l.windowStart) >= l.window {
		return l.max
	}
	return l.max - l.count
}
