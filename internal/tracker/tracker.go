// Package tracker polls signature confirmation status and notifies
// subscribers once their signatures reach a requested commitment level,
// one goroutine per subscription in the same ticker-driven actor shape
// the rest of this module's pollers use.
package tracker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/solforge/svmsdk/internal/config"
	"github.com/solforge/svmsdk/internal/solkey"
)

// Commitment levels, ordered weakest to strongest.
const (
	CommitmentProcessed = "processed"
	CommitmentConfirmed = "confirmed"
	CommitmentFinalized = "finalized"
)

var commitmentRank = map[string]int{
	CommitmentProcessed: 0,
	CommitmentConfirmed: 1,
	CommitmentFinalized: 2,
}

// meets reports whether an observed status satisfies a requested
// commitment per §4.8's comparison matrix: processed meets only
// processed, confirmed meets processed+confirmed, finalized meets all.
func meets(observed, requested string) bool {
	o, ok1 := commitmentRank[observed]
	r, ok2 := commitmentRank[requested]
	return ok1 && ok2 && o >= r
}

// SignatureStatus is one entry of a getSignatureStatuses result.
type SignatureStatus struct {
	Signature         solkey.Signature
	ConfirmationStatus string // "" (null) means not yet seen
	Err               bool
}

// StatusFetcher fetches current statuses for a set of signatures. This
// is normally backed by internal/rpcclient's getSignatureStatuses call,
// injected as a function so this package never imports the RPC layers.
type StatusFetcher func(ctx context.Context, signatures []solkey.Signature) ([]SignatureStatus, error)

// Batch is delivered to a subscriber's channel once some of its
// signatures confirm. It has the same fields as rpcclient.ConfirmationBatch
// but is a distinct type, so *Tracker does not implement
// rpcclient.ConfirmationTracker without an adapter.
type Batch struct {
	Signatures []solkey.Signature
}

// Tracker drives one polling goroutine per subscription.
type Tracker struct {
	fetch    StatusFetcher
	interval time.Duration
	clock    clockwork.Clock

	mu   sync.Mutex
	subs map[int]*subscription
	next int
}

type subscription struct {
	signatures  map[solkey.Signature]bool
	commitment  string
	updates     chan Batch
	cancel      context.CancelFunc
}

// New creates a Tracker. interval <= 0 uses config.DefaultPollInterval.
// A nil clock uses the real wall clock; tests may inject
// clockwork.NewFakeClock() for deterministic tick control.
func New(fetch StatusFetcher, interval time.Duration, clock clockwork.Clock) *Tracker {
	if interval <= 0 {
		interval = config.DefaultPollInterval
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Tracker{
		fetch:    fetch,
		interval: interval,
		clock:    clock,
		subs:     make(map[int]*subscription),
	}
}

// Subscribe registers a signature set for polling until commitment is
// reached, ctx is cancelled, or every signature fails. The returned
// channel is closed once the subscription's goroutine exits.
func (t *Tracker) Subscribe(ctx context.Context, signatures []solkey.Signature, commitment string) (<-chan Batch, error) {
	subCtx, cancel := context.WithCancel(ctx)

	pending := make(map[solkey.Signature]bool, len(signatures))
	for _, sig := range signatures {
		pending[sig] = true
	}

	sub := &subscription{
		signatures: pending,
		commitment: commitment,
		updates:    make(chan Batch, 1),
		cancel:     cancel,
	}

	t.mu.Lock()
	id := t.next
	t.next++
	t.subs[id] = sub
	t.mu.Unlock()

	go t.run(subCtx, id, sub)

	return sub.updates, nil
}

func (t *Tracker) run(ctx context.Context, id int, sub *subscription) {
	defer func() {
		close(sub.updates)
		t.mu.Lock()
		delete(t.subs, id)
		t.mu.Unlock()
	}()

	ticker := t.clock.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if t.poll(ctx, sub) {
				return
			}
		}
	}
}

// poll runs one tick: fetch statuses, partition into failed/done/retry,
// notify on done, and report whether the subscription is finished
// (either nothing left pending, or ctx ended while delivering a batch).
// A failed fetch is logged and retried on the next tick.
func (t *Tracker) poll(ctx context.Context, sub *subscription) bool {
	remaining := make([]solkey.Signature, 0, len(sub.signatures))
	for sig := range sub.signatures {
		remaining = append(remaining, sig)
	}
	if len(remaining) == 0 {
		return true
	}

	statuses, err := t.fetch(ctx, remaining)
	if err != nil {
		slog.Warn("tracker: status fetch failed, will retry next tick", "error", err)
		return false
	}

	var done []solkey.Signature
	for _, status := range statuses {
		if !sub.signatures[status.Signature] {
			continue
		}
		switch {
		case status.Err:
			delete(sub.signatures, status.Signature)
		case status.ConfirmationStatus != "" && meets(status.ConfirmationStatus, sub.commitment):
			done = append(done, status.Signature)
			delete(sub.signatures, status.Signature)
		default:
			// retry: null result or below requested commitment.
		}
	}

	if len(done) > 0 {
		select {
		case sub.updates <- Batch{Signatures: done}:
		case <-ctx.Done():
			return true
		}
	}

	return len(sub.signatures) == 0
}

// ActiveSubscriptions returns the number of subscriptions still polling.
func (t *Tracker) ActiveSubscriptions() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.subs)
}
