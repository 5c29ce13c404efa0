package validatorproc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"testing"
)

func TestStart_RejectsMissingBinPath(t *testing.T) {
	_, err := Start(context.Background(), Options{LedgerDir: t.TempDir()})
	if err == nil {
		t.Fatal("expected an error for a missing BinPath")
	}
}

func TestHealthy_TrueOnlyWhenHTTPRespondsOK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	p := &Process{rpcURL: server.URL}
	if !p.healthy() {
		t.Fatal("expected healthy() to be true against a 200-responding server")
	}
}

func TestHealthy_FalseWhenNothingListens(t *testing.T) {
	p := &Process{rpcURL: "http://127.0.0.1:1"}
	if p.healthy() {
		t.Fatal("expected healthy() to be false when nothing is listening")
	}
}

func TestStop_TerminatesRunningProcessAndIsIdempotent(t *testing.T) {
	cmd := exec.Command("sleep", "30")
	if err := cmd.Start(); err != nil {
		t.Skipf("sleep binary unavailable in this environment: %v", err)
	}

	exited := make(chan error, 1)
	go func() { exited <- cmd.Wait() }()

	p := &Process{cmd: cmd, rpcURL: "http://127.0.0.1:1", exited: exited}

	if err := p.Stop(); err != nil {
		t.Fatalf("Stop error = %v", err)
	}

	if cmd.ProcessState == nil {
		t.Fatal("expected Stop to have waited for the process to exit")
	}

	// A second Stop must be a no-op, not a re-signal of an exited process.
	if err := p.Stop(); err != nil {
		t.Fatalf("second Stop error = %v", err)
	}
}
