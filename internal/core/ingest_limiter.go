package core

// ingest_limiter.go caps how many files are parsed at once across all
// sessions of the web host. Ingests that cannot get a slot within maxWait
// fail with ErrTooManyIngests. WaitForDrain lets shutdown wait for in-flight
// ingests to finish, since a started ingest is never cancelled.

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// ErrTooManyIngests is returned when every ingest slot stays occupied for the
// full wait period.
var ErrTooManyIngests = errors.New("too many concurrent ingests, please try again later")

const (
	DefaultMaxConcurrentIngests = 4
	DefaultIngestWait           = 30 * time.Second
)

// IngestLimiter is a counting semaphore for ingest work.
type IngestLimiter struct {
	slots   chan struct{}
	maxWait time.Duration
	active  atomic.Int64
}

// NewIngestLimiter allows at most maxConcurrent simultaneous ingests.
// Non-positive arguments fall back to the defaults.
func NewIngestLimiter(maxConcurrent int, maxWait time.Duration) *IngestLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentIngests
	}
	if maxWait <= 0 {
		maxWait = DefaultIngestWait
	}
	return &IngestLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire waits for a free slot. The caller must Release after a nil return.
func (l *IngestLimiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		l.active.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrTooManyIngests
	}
}

// TryAcquire takes a slot only if one is free right now.
func (l *IngestLimiter) TryAcquire() bool {
	select {
	case l.slots <- struct{}{}:
		l.active.Add(1)
		return true
	default:
		return false
	}
}

// Release frees a slot taken by Acquire or TryAcquire.
func (l *IngestLimiter) Release() {
	l.active.Add(-1)
	<-l.slots
}

// Run acquires a slot, runs fn, and releases the slot.
func (l *IngestLimiter) Run(ctx context.Context, fn func() error) error {
	if err := l.Acquire(ctx); err != nil {
		return err
	}
	defer l.Release()
	return fn()
}

// ActiveCount returns the number of ingests holding a slot.
func (l *IngestLimiter) ActiveCount() int {
	return int(l.active.Load())
}

// MaxConcurrent returns the slot count.
func (l *IngestLimiter) MaxConcurrent() int {
	return cap(l.slots)
}

// WaitForDrain blocks until no ingest holds a slot or ctx is done.
func (l *IngestLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for l.ActiveCount() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

// IngestLimiterStatus is a point-in-time view of the limiter.
type IngestLimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

// Status returns the current limiter state for the status endpoint.
func (l *IngestLimiter) Status() IngestLimiterStatus {
	active := l.ActiveCount()
	return IngestLimiterStatus{
		Active:        active,
		Available:     cap(l.slots) - len(l.slots),
		MaxConcurrent: cap(l.slots),
	}
}
