// Package ratelimiter provides an optional bounded producer/consumer
// gate in front of the RPC transport: a token-bucket Limiter for the
// simple single-caller case, and a Queue that tracks per-subscriber
// demand replenished on a fixed schedule for the multi-downstream case.
package ratelimiter

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter wraps a token-bucket rate limiter for a single downstream.
type Limiter struct {
	limiter *rate.Limiter
	name    string
}

// NewLimiter creates a Limiter allowing rps requests per second. Burst
// is fixed at 1 so requests are spread evenly across the second rather
// than allowed to arrive in bursts that could trip a provider's own
// limit even while the average rate stays in bounds.
func NewLimiter(name string, rps int) *Limiter {
	slog.Debug("rate limiter created", "downstream", name, "rps", rps)
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		name:    name,
	}
}

// Wait blocks until the limiter allows another request or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if err := l.limiter.Wait(ctx); err != nil {
		slog.Warn("rate limiter wait cancelled", "downstream", l.name, "error", err)
		return err
	}
	return nil
}

// Name returns the downstream name this limiter is associated with.
func (l *Limiter) Name() string { return l.name }

// Queue tracks per-subscriber request demand, replenished by N credits
// every refill interval. A caller with zero demand blocks in Acquire
// until the next replenishment grants it credits.
type Queue struct {
	mu      sync.Mutex
	demand  map[string]int
	waiters map[string][]chan struct{}

	refillN        int
	refillInterval time.Duration

	stop chan struct{}
	done chan struct{}
}

// NewQueue creates a Queue that grants refillN credits to every known
// subscriber every refillInterval. Call Run to start the replenishment
// loop; it must run for Acquire to ever unblock a zero-demand caller.
func NewQueue(refillN int, refillInterval time.Duration) *Queue {
	return &Queue{
		demand:         make(map[string]int),
		waiters:        make(map[string][]chan struct{}),
		refillN:        refillN,
		refillInterval: refillInterval,
		stop:           make(chan struct{}),
		done:           make(chan struct{}),
	}
}

// Run drives the periodic replenishment loop until ctx is cancelled or
// Stop is called. Intended to run in its own goroutine.
func (q *Queue) Run(ctx context.Context) {
	defer close(q.done)
	ticker := time.NewTicker(q.refillInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-q.stop:
			return
		case <-ticker.C:
			q.replenish()
		}
	}
}

// Stop halts the replenishment loop and waits for Run to return.
func (q *Queue) Stop() {
	close(q.stop)
	<-q.done
}

func (q *Queue) replenish() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for subscriber := range q.demand {
		q.demand[subscriber] += q.refillN
	}
	for subscriber, waiters := range q.waiters {
		for q.demand[subscriber] > 0 && len(waiters) > 0 {
			w := waiters[0]
			waiters = waiters[1:]
			q.demand[subscriber]--
			close(w)
		}
		if len(waiters) == 0 {
			delete(q.waiters, subscriber)
		} else {
			q.waiters[subscriber] = waiters
		}
	}
}

// Acquire blocks until subscriber has at least one unit of demand, then
// consumes it, or until ctx is done. A subscriber seen for the first
// time starts with zero demand and must wait for the next replenishment.
func (q *Queue) Acquire(ctx context.Context, subscriber string) error {
	q.mu.Lock()
	if _, ok := q.demand[subscriber]; !ok {
		q.demand[subscriber] = 0
	}
	if q.demand[subscriber] > 0 {
		q.demand[subscriber]--
		q.mu.Unlock()
		return nil
	}
	wake := make(chan struct{})
	q.waiters[subscriber] = append(q.waiters[subscriber], wake)
	q.mu.Unlock()

	select {
	case <-wake:
		return nil
	case <-ctx.Done():
		q.abandon(subscriber, wake)
		return ctx.Err()
	}
}

// abandon removes a waiter that gave up on ctx cancellation so a
// replenishment cycle never closes a channel nobody is listening on.
func (q *Queue) abandon(subscriber string, wake chan struct{}) {
	q.mu.Lock()
	defer q.mu.Unlock()
	waiters := q.waiters[subscriber]
	for i, w := range waiters {
		if w == wake {
			q.waiters[subscriber] = append(waiters[:i], waiters[i+1:]...)
			break
		}
	}
}

// Demand returns the current credit balance for subscriber, for tests
// and diagnostics.
func (q *Queue) Demand(subscriber string) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.demand[subscriber]
}
