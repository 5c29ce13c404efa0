package statusapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type fakeValidator struct {
	rpcURL  string
	pid     int
	healthy bool
}

func (f fakeValidator) RPCURL() string { return f.rpcURL }
func (f fakeValidator) PID() int       { return f.pid }
func (f fakeValidator) Healthy() bool  { return f.healthy }

func TestHealthz_OKWhenHealthy(t *testing.T) {
	proc := fakeValidator{rpcURL: "http://127.0.0.1:8899", pid: 1234, healthy: true}
	router := NewRouter(proc, "/tmp/ledger", time.Now())

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200. body: %s", w.Code, w.Body.String())
	}
}

func TestHealthz_ServiceUnavailableWhenUnhealthy(t *testing.T) {
	proc := fakeValidator{rpcURL: "http://127.0.0.1:8899", pid: 1234, healthy: false}
	router := NewRouter(proc, "/tmp/ledger", time.Now())

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503. body: %s", w.Code, w.Body.String())
	}
}

func TestStatus_ReportsProcessDetails(t *testing.T) {
	startedAt := time.Now().Add(-5 * time.Second)
	proc := fakeValidator{rpcURL: "http://127.0.0.1:8899", pid: 4321, healthy: true}
	router := NewRouter(proc, "/tmp/ledger", startedAt)

	req := httptest.NewRequest("GET", "/status", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200. body: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			RPCURL     string `json:"rpcUrl"`
			PID        int    `json:"pid"`
			LedgerDir  string `json:"ledgerDir"`
			Healthy    bool   `json:"healthy"`
			UptimeSecs int    `json:"uptimeSecs"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}

	if resp.Data.RPCURL != proc.rpcURL {
		t.Errorf("rpcUrl = %q, want %q", resp.Data.RPCURL, proc.rpcURL)
	}
	if resp.Data.PID != proc.pid {
		t.Errorf("pid = %d, want %d", resp.Data.PID, proc.pid)
	}
	if resp.Data.LedgerDir != "/tmp/ledger" {
		t.Errorf("ledgerDir = %q, want /tmp/ledger", resp.Data.LedgerDir)
	}
	if !resp.Data.Healthy {
		t.Error("healthy = false, want true")
	}
	if resp.Data.UptimeSecs < 5 {
		t.Errorf("uptimeSecs = %d, want >= 5", resp.Data.UptimeSecs)
	}
}
