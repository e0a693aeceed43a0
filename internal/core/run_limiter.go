package core

// run_limiter.go bounds how many pipeline runs execute at once.
//
// A run holds every uploaded table and the exported workbook in memory, so
// the server caps simultaneous runs with a semaphore. A request that cannot
// get a slot within maxWait fails with ErrTooManyRuns. WaitForDrain lets
// shutdown wait for in-flight runs to finish.

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// ErrTooManyRuns is returned when every run slot stays occupied for the
// whole wait timeout. Clients should retry after a short delay.
var ErrTooManyRuns = errors.New("too many concurrent runs, please try again later")

// DefaultMaxConcurrentRuns is the default limit for parallel runs.
const DefaultMaxConcurrentRuns = 4

// DefaultMaxWaitTime is how long to wait for a slot before rejecting.
const DefaultMaxWaitTime = 30 * time.Second

// drainPollInterval is how often WaitForDrain checks the active count.
const drainPollInterval = 50 * time.Millisecond

// RunLimiter is a counting semaphore over pipeline runs.
type RunLimiter struct {
	slots   chan struct{}
	maxWait time.Duration

	active    atomic.Int64
	waiting   atomic.Int64
	completed atomic.Int64
	rejected  atomic.Int64
}

// NewRunLimiter creates a limiter allowing maxConcurrent simultaneous runs.
// Non-positive arguments fall back to the defaults.
func NewRunLimiter(maxConcurrent int, maxWait time.Duration) *RunLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentRuns
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}
	return &RunLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire waits for a run slot.
// Returns ctx.Err() if ctx ends first, or ErrTooManyRuns once maxWait passes.
// Every successful Acquire must be paired with Release.
func (l *RunLimiter) Acquire(ctx context.Context) error {
	if l.TryAcquire() {
		return nil
	}

	l.waiting.Add(1)
	defer l.waiting.Add(-1)

	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		l.active.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		l.rejected.Add(1)
		return ErrTooManyRuns
	}
}

// TryAcquire takes a slot only if one is free right now.
func (l *RunLimiter) TryAcquire() bool {
	select {
	case l.slots <- struct{}{}:
		l.active.Add(1)
		return true
	default:
		return false
	}
}

// Release frees a slot taken by Acquire or TryAcquire.
func (l *RunLimiter) Release() {
	l.active.Add(-1)
	l.completed.Add(1)
	<-l.slots
}

// Do runs fn while holding a slot.
func (l *RunLimiter) Do(ctx context.Context, fn func(context.Context) error) error {
	if err := l.Acquire(ctx); err != nil {
		return err
	}
	defer l.Release()
	return fn(ctx)
}

// ActiveCount returns the number of runs holding a slot.
func (l *RunLimiter) ActiveCount() int {
	return int(l.active.Load())
}

// MaxConcurrent returns the slot count.
func (l *RunLimiter) MaxConcurrent() int {
	return cap(l.slots)
}

// Available returns the number of free slots.
func (l *RunLimiter) Available() int {
	return cap(l.slots) - len(l.slots)
}

// WaitForDrain blocks until no run holds a slot or ctx ends.
func (l *RunLimiter) WaitForDrain(ctx context.Context) error {
	if l.ActiveCount() == 0 {
		return nil
	}

	ticker := time.NewTicker(drainPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if l.ActiveCount() == 0 {
				return nil
			}
		}
	}
}

// RunLimiterStatus is a snapshot of the limiter for health output.
type RunLimiterStatus struct {
	Active        int   `json:"active"`
	Waiting       int   `json:"waiting"`
	Available     int   `json:"available"`
	MaxConcurrent int   `json:"max_concurrent"`
	Completed     int64 `json:"completed"`
	Rejected      int64 `json:"rejected"`
}

// Status returns the current limiter state.
func (l *RunLimiter) Status() RunLimiterStatus {
	return RunLimiterStatus{
		Active:        l.ActiveCount(),
		Waiting:       int(l.waiting.Load()),
		Available:     l.Available(),
		MaxConcurrent: l.MaxConcurrent(),
		Completed:     l.completed.Load(),
		Rejected:      l.rejected.Load(),
	}
}
