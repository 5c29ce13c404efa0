// Command solcli is a demonstration harness wiring this module's
// packages into a usable command-line tool. It is not part of the
// library's public surface.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/solforge/svmsdk/internal/config"
	"github.com/solforge/svmsdk/internal/logging"
)

var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "keygen":
		err = runKeygen()
	case "derive-pda":
		err = runDerivePDA()
	case "build-tx":
		err = runBuildTx()
	case "send-tx":
		err = runSendTx()
	case "validator":
		err = runValidator()
	case "version":
		fmt.Printf("solcli %s\n", version)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		slog.Error("command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: solcli <command>

Commands:
  keygen       Generate a keypair and print its base58 pubkey
  derive-pda   Derive a program-derived address from seeds
  build-tx     Build and sign a SOL transfer, printing base58 wire bytes
  send-tx      Submit a base58-encoded transaction and await confirmation
  validator    Start a managed local test validator
  version      Print version information
`)
}

// loadForCommand loads configuration and sets up logging for the
// subcommands that need them (send-tx and validator); callers get back
// the closer to defer.
func loadForCommand() (*config.Config, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	closer, err := logging.Setup(cfg.LogLevel, cfg.LogDir)
	if err != nil {
		return nil, nil, fmt.Errorf("setup logging: %w", err)
	}

	return cfg, func() { closer.Close() }, nil
}

func parseSubFlags(name string, fn func(*flag.FlagSet)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fn(fs)
	fs.Parse(os.Args[2:])
	return fs
}
