package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/solforge/svmsdk/internal/config"
	"github.com/solforge/svmsdk/internal/statusapi"
	"github.com/solforge/svmsdk/internal/validatorproc"
)

func runValidator() error {
	cfg, closer, err := loadForCommand()
	if err != nil {
		return err
	}
	defer closer()

	var rpcPort, statusPort int
	var noStatusServer bool
	parseSubFlags("validator", func(fs *flag.FlagSet) {
		fs.IntVar(&rpcPort, "rpc-port", 0, "rpc port override (0 uses the module default)")
		fs.IntVar(&statusPort, "status-port", config.StatusServerDefaultPort, "port for the local status/health HTTP surface")
		fs.BoolVar(&noStatusServer, "no-status-server", false, "disable the local status/health HTTP surface")
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	startedAt := time.Now()
	proc, err := validatorproc.Start(ctx, validatorproc.Options{
		BinPath:   cfg.ValidatorBinPath,
		LedgerDir: cfg.ValidatorLedger,
		RPCPort:   rpcPort,
	})
	if err != nil {
		return fmt.Errorf("start validator: %w", err)
	}

	fmt.Printf("validator ready at %s (ledger %s)\n", proc.RPCURL(), cfg.ValidatorLedger)
	slog.Info("validator running, waiting for interrupt", "rpcURL", proc.RPCURL())

	var statusSrv *http.Server
	if !noStatusServer {
		statusSrv = &http.Server{
			Addr:         fmt.Sprintf(":%d", statusPort),
			Handler:      statusapi.NewRouter(proc, cfg.ValidatorLedger, startedAt),
			ReadTimeout:  config.StatusServerReadTimeout,
			WriteTimeout: config.StatusServerWriteTimeout,
		}
		go func() {
			slog.Info("validator status server listening", "addr", statusSrv.Addr)
			if err := statusSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("status server error", "error", err)
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	if statusSrv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.StatusServerShutdownTimeout)
		defer shutdownCancel()
		if err := statusSrv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("status server shutdown error", "error", err)
		}
	}

	slog.Info("stopping validator")
	return proc.Stop()
}
