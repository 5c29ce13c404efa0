package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"time"

	"github.com/mr-tron/base58"

	"github.com/solforge/svmsdk/internal/rpc"
	"github.com/solforge/svmsdk/internal/rpcclient"
	"github.com/solforge/svmsdk/internal/solkey"
	"github.com/solforge/svmsdk/internal/tracker"
)

func runSendTx() error {
	cfg, closer, err := loadForCommand()
	if err != nil {
		return err
	}
	defer closer()

	var wireB58 string
	var timeoutSec int
	parseSubFlags("send-tx", func(fs *flag.FlagSet) {
		fs.StringVar(&wireB58, "tx", "", "base58-encoded signed wire transaction (required)")
		fs.IntVar(&timeoutSec, "timeout", 30, "seconds to wait for confirmation")
	})

	if wireB58 == "" {
		return fmt.Errorf("send-tx: -tx is required")
	}

	wire, err := base58.Decode(wireB58)
	if err != nil {
		return fmt.Errorf("decode -tx: %w", err)
	}

	client := rpcclient.New(cfg.RPCURL)
	trk := tracker.New(newRPCStatusFetcher(client), 0, nil)
	timeout := time.Duration(timeoutSec) * time.Second

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	confirmed, err := client.SendAndConfirm(ctx, [][]byte{wire}, cfg.Commitment, trackerAdapter{trk}, timeout)
	if err != nil {
		return fmt.Errorf("send and confirm: %w", err)
	}

	for _, sig := range confirmed {
		fmt.Printf("confirmed: %s\n", base58.Encode(sig[:]))
	}
	if len(confirmed) == 0 {
		fmt.Println("no signatures confirmed")
	}
	return nil
}

// trackerAdapter bridges tracker.Tracker's Subscribe (which returns a
// channel of tracker.Batch) to rpcclient.ConfirmationTracker (which
// needs a channel of rpcclient.ConfirmationBatch). The two packages
// deliberately don't import each other, so neither type can satisfy
// the other's interface on its own; this adapter is the composition
// root's job.
type trackerAdapter struct {
	t *tracker.Tracker
}

func (a trackerAdapter) Subscribe(ctx context.Context, signatures []solkey.Signature, commitment string) (<-chan rpcclient.ConfirmationBatch, error) {
	updates, err := a.t.Subscribe(ctx, signatures, commitment)
	if err != nil {
		return nil, err
	}
	out := make(chan rpcclient.ConfirmationBatch)
	go func() {
		defer close(out)
		for batch := range updates {
			out <- rpcclient.ConfirmationBatch{Signatures: batch.Signatures}
		}
	}()
	return out, nil
}

// newRPCStatusFetcher adapts rpcclient's getSignatureStatuses call to
// tracker's StatusFetcher shape, so the CLI never has to import
// internal/tracker into internal/rpcclient or vice versa.
func newRPCStatusFetcher(client *rpcclient.Client) tracker.StatusFetcher {
	return func(ctx context.Context, signatures []solkey.Signature) ([]tracker.SignatureStatus, error) {
		b58 := make([]string, len(signatures))
		for i, sig := range signatures {
			b58[i] = base58.Encode(sig[:])
		}

		req := rpc.NewRequest("getSignatureStatuses", b58, map[string]any{"searchTransactionHistory": true})
		resp, err := client.Send(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("getSignatureStatuses: %w", err)
		}

		var parsed struct {
			Value []*struct {
				ConfirmationStatus string `json:"confirmationStatus"`
				Err                any    `json:"err"`
			} `json:"value"`
		}
		if err := json.Unmarshal(resp.Result, &parsed); err != nil {
			return nil, fmt.Errorf("decode getSignatureStatuses result: %w", err)
		}

		out := make([]tracker.SignatureStatus, 0, len(signatures))
		for i, sig := range signatures {
			if i >= len(parsed.Value) || parsed.Value[i] == nil {
				out = append(out, tracker.SignatureStatus{Signature: sig})
				continue
			}
			out = append(out, tracker.SignatureStatus{
				Signature:          sig,
				ConfirmationStatus: parsed.Value[i].ConfirmationStatus,
				Err:                parsed.Value[i].Err != nil,
			})
		}
		return out, nil
	}
}
