package statusapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/solforge/svmsdk/internal/validatorproc"
)

// Validator is the subset of *validatorproc.Process the status surface
// needs; accepting an interface keeps this package testable without a
// real subprocess.
type Validator interface {
	RPCURL() string
	PID() int
	Healthy() bool
}

var _ Validator = (*validatorproc.Process)(nil)

// NewRouter builds the chi router for the validator status surface:
// GET /healthz for liveness probes, GET /status for operator detail.
func NewRouter(proc Validator, ledgerDir string, startedAt time.Time) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", healthzHandler(proc))
	r.Get("/status", statusHandler(proc, ledgerDir, startedAt))

	return r
}

func healthzHandler(proc Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !proc.Healthy() {
			writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status": "unhealthy",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": "ok",
		})
	}
}

func statusHandler(proc Validator, ledgerDir string, startedAt time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"rpcUrl":     proc.RPCURL(),
			"pid":        proc.PID(),
			"ledgerDir":  ledgerDir,
			"healthy":    proc.Healthy(),
			"uptimeSecs": int(time.Since(startedAt).Seconds()),
		})
	}
}
