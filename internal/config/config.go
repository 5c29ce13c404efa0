package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all client configuration loaded from environment variables.
type Config struct {
	Cluster        string `envconfig:"SVMSDK_CLUSTER" default:"devnet"`
	RPCURL         string `envconfig:"SVMSDK_RPC_URL"`
	Commitment     string `envconfig:"SVMSDK_COMMITMENT" default:"confirmed"`
	KeypairFile    string `envconfig:"SVMSDK_KEYPAIR_FILE"`
	LogLevel       string `envconfig:"SVMSDK_LOG_LEVEL" default:"info"`
	LogDir         string `envconfig:"SVMSDK_LOG_DIR" default:"./logs"`
	RateLimitRPS   int    `envconfig:"SVMSDK_RATE_LIMIT_RPS" default:"10"`
	PollIntervalMs int    `envconfig:"SVMSDK_POLL_INTERVAL_MS" default:"500"`
	CacheDBPath    string `envconfig:"SVMSDK_CACHE_DB_PATH" default:"./data/svmsdk-cache.sqlite"`

	ValidatorBinPath string `envconfig:"SVMSDK_VALIDATOR_BIN"`
	ValidatorLedger  string `envconfig:"SVMSDK_VALIDATOR_LEDGER" default:"./data/test-ledger"`
}

// Load reads configuration from a .env file (if present) then from environment variables.
// Environment variables override .env values.
func Load() (*Config, error) {
	// godotenv does NOT override already-set env vars, so real environment
	// variables take precedence over .env values.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			slog.Warn("failed to load .env file", "error", err)
		} else {
			slog.Info("loaded .env file")
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}

	if cfg.RPCURL == "" {
		url, err := ClusterURL(cfg.Cluster)
		if err != nil {
			return nil, err
		}
		cfg.RPCURL = url
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks configuration values for correctness.
func (c *Config) Validate() error {
	if !IsValidCommitment(c.Commitment) {
		return fmt.Errorf("%w: commitment must be processed/confirmed/finalized, got %q", ErrInvalidConfig, c.Commitment)
	}
	if c.RateLimitRPS < 1 {
		return fmt.Errorf("%w: rate limit rps must be >= 1, got %d", ErrInvalidConfig, c.RateLimitRPS)
	}
	if c.PollIntervalMs < 1 {
		return fmt.Errorf("%w: poll interval must be >= 1ms, got %d", ErrInvalidConfig, c.PollIntervalMs)
	}
	return nil
}

// ClusterURL resolves a cluster moniker to its JSON-RPC endpoint per §6.
func ClusterURL(cluster string) (string, error) {
	switch cluster {
	case "devnet":
		return "https://api.devnet.solana.com", nil
	case "mainnet-beta":
		return "https://api.mainnet-beta.solana.com", nil
	case "testnet":
		return "https://api.testnet.solana.com", nil
	case "localhost", "localnet":
		return "http://127.0.0.1:8899", nil
	default:
		return "", fmt.Errorf("%w: unknown cluster %q, set SVMSDK_RPC_URL explicitly", ErrInvalidConfig, cluster)
	}
}

// IsValidCommitment reports whether s is a recognized commitment level.
func IsValidCommitment(s string) bool {
	switch s {
	case "processed", "confirmed", "finalized":
		return true
	default:
		return false
	}
}
