// Package rpcclient drives the HTTP transport beneath internal/rpc's
// request/response encoding, applying the retry and (optional) circuit
// breaker policy of §4.7, and orchestrates send-then-confirm submission.
package rpcclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/mr-tron/base58"

	"github.com/solforge/svmsdk/internal/config"
	"github.com/solforge/svmsdk/internal/rpc"
	"github.com/solforge/svmsdk/internal/solkey"
)

// Client sends JSON-RPC requests to a single Solana cluster endpoint.
type Client struct {
	httpClient *http.Client
	rpcURL     string
	breaker    *CircuitBreaker
}

// Option configures a Client at construction time.
type Option func(*Client)

// WithCircuitBreaker installs an optional breaker in front of the retry
// policy. Nil (the default) disables it — every call goes straight to
// the retry-wrapped transport.
func WithCircuitBreaker(cb *CircuitBreaker) Option {
	return func(c *Client) { c.breaker = cb }
}

// WithHTTPClient overrides the default *http.Client, mainly for tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// New creates a Client pointed at rpcURL.
func New(rpcURL string, opts ...Option) *Client {
	c := &Client{
		rpcURL:     rpcURL,
		httpClient: &http.Client{Timeout: config.DefaultRequestTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send submits a single JSON-RPC request, retrying transient failures up
// to config.RPCMaxAttempts times with exponential backoff, honoring any
// server Retry-After hint.
func (c *Client) Send(ctx context.Context, req rpc.Request) (*rpc.Response, error) {
	if c.breaker != nil && !c.breaker.Allow() {
		return nil, config.ErrCircuitOpen
	}

	var resp *rpc.Response
	attempt := func() error {
		r, err := c.doOnce(ctx, req)
		if err != nil {
			if config.IsTransient(err) {
				if wait := config.GetRetryAfter(err); wait > 0 {
					time.Sleep(wait)
				}
				return err
			}
			return backoff.Permanent(err)
		}
		resp = r
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = config.RPCRetryBaseDelay
	policy.MaxInterval = time.Duration(config.RPCPerRetryCapMs) * time.Millisecond
	bounded := backoff.WithMaxRetries(backoff.WithContext(policy, ctx), config.RPCMaxAttempts-1)

	err := backoff.Retry(attempt, bounded)
	if err != nil {
		slog.Error("rpc request failed", "method", req.Method, "error", err)
		if c.breaker != nil {
			c.breaker.RecordFailure()
		}
		return nil, err
	}

	if c.breaker != nil {
		c.breaker.RecordSuccess()
	}
	return resp, nil
}

func (c *Client) doOnce(ctx context.Context, req rpc.Request) (*rpc.Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %v", config.ErrRPC, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", config.ErrHTTP, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, config.NewTransientError(fmt.Errorf("%w: transport: %v", config.ErrHTTP, err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, config.NewTransientError(fmt.Errorf("%w: read body: %v", config.ErrHTTP, err))
	}

	if resp.StatusCode >= 500 {
		retryAfter := parseRetryAfter(resp.Header)
		slog.Warn("rpc server error", "status", resp.StatusCode, "retryAfter", retryAfter)
		return nil, config.NewTransientErrorWithRetry(fmt.Errorf("%w: HTTP %d", config.ErrHTTP, resp.StatusCode), retryAfter)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d", config.ErrHTTP, resp.StatusCode)
	}

	parsed, err := rpc.ParseResponse(respBody)
	if err != nil {
		if _, ok := err.(*rpc.Error); ok {
			// A well-formed JSON-RPC error response is a definitive,
			// non-retryable answer from the server.
			return parsed, err
		}
		return nil, fmt.Errorf("%w: %v", config.ErrRPC, err)
	}
	return parsed, nil
}

// ConfirmationBatch is the payload a ConfirmationTracker delivers once a
// set of signatures reaches the requested commitment.
type ConfirmationBatch struct {
	Signatures []solkey.Signature
}

// ConfirmationTracker is the subset of C9's tracker that SendAndConfirm
// needs. Defined here (rather than imported) so rpcclient never depends
// on internal/tracker — any type with a matching Subscribe method
// satisfies this interface structurally.
type ConfirmationTracker interface {
	Subscribe(ctx context.Context, signatures []solkey.Signature, commitment string) (<-chan ConfirmationBatch, error)
}

// SendAndConfirm submits each already-signed, base58-ready transaction
// via sendTransaction, logging and discarding any that fail pre-flight,
// subscribes the accepted signatures to tracker, and waits up to timeout
// for confirmation. Returns signatures in the order the tracker
// delivered their confirmations (not submission order), or a partial
// list with ErrTimeout if some never confirmed before timeout elapsed.
func (c *Client) SendAndConfirm(ctx context.Context, wireTransactions [][]byte, commitment string, tracker ConfirmationTracker, timeout time.Duration) ([]solkey.Signature, error) {
	accepted := make([]solkey.Signature, 0, len(wireTransactions))

	for i, wire := range wireTransactions {
		encoded := base58.Encode(wire)
		req := rpc.NewRequest("sendTransaction", encoded, map[string]any{})
		resp, err := c.Send(ctx, req)
		if err != nil {
			slog.Warn("sendTransaction failed, discarding", "index", i, "error", err)
			continue
		}
		decoded, err := rpc.Decode("sendTransaction", resp.Result)
		if err != nil {
			slog.Warn("sendTransaction result decode failed, discarding", "index", i, "error", err)
			continue
		}
		sigBytes, ok := decoded.([]byte)
		if !ok || len(sigBytes) != 64 {
			slog.Warn("sendTransaction returned malformed signature, discarding", "index", i)
			continue
		}
		var sig solkey.Signature
		copy(sig[:], sigBytes)
		accepted = append(accepted, sig)
	}

	if len(accepted) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	updates, err := tracker.Subscribe(ctx, accepted, commitment)
	if err != nil {
		return nil, fmt.Errorf("%w: subscribe: %v", config.ErrRPC, err)
	}

	confirmed := make([]solkey.Signature, 0, len(accepted))
	pending := make(map[solkey.Signature]bool, len(accepted))
	for _, sig := range accepted {
		pending[sig] = true
	}

	for len(pending) > 0 {
		select {
		case <-ctx.Done():
			return confirmed, config.ErrTimeout
		case batch, ok := <-updates:
			if !ok {
				return confirmed, config.ErrTimeout
			}
			for _, sig := range batch.Signatures {
				if pending[sig] {
					delete(pending, sig)
					confirmed = append(confirmed, sig)
				}
			}
		}
	}

	return confirmed, nil
}
