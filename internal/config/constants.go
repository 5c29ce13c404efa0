package config

import "time"

// Lamports
const (
	LamportsPerSOL = 1_000_000_000
)

// Well-known program IDs and sysvars (§4, §6).
const (
	SystemProgramID          = "11111111111111111111111111111111"
	TokenProgramID           = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	AssociatedTokenProgramID = "ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL"
	TokenSwapProgramID       = "SwaPpA9LAaLfeLi3a68M4DjnLqgtticKg6CnyNwgAC8"
	BPFLoaderUpgradeableID   = "BPFLoaderUpgradeab1e11111111111111111111111"
	RentSysvarID             = "SysvarRent111111111111111111111111111111111"
	RecentBlockhashesSysvarID = "SysvarRecentB1ockHashes11111111111111111111"
	ClockSysvarID            = "SysvarC1ock11111111111111111111111111111111"
)

// Account layout sizes (§6).
const (
	MintAccountSize      = 82
	TokenAccountSize     = 165
	MultiSigAccountSize  = 355
	NonceAccountSize     = 80
	TokenSwapAccountSize = 324
)

// RPC / retry policy (§4.7).
const (
	RPCMaxAttempts        = 10
	RPCPerRetryCapMs      = 4000
	RPCRetryBaseDelay     = 250 * time.Millisecond
	DefaultRequestTimeout = 30 * time.Second
)

// Signature tracker (§4.8).
const (
	DefaultPollInterval = 500 * time.Millisecond
)

// MultiSig bounds (§3).
const (
	MinMultiSigSigners = 1
	MaxMultiSigSigners = 11
)

// Logging
const (
	LogDir         = "./logs"
	LogFilePattern = "svmsdk-%s-%s.log" // date, level
	LogMaxAgeDays  = 30
)

// PDA cache (domain stack extension backed by modernc.org/sqlite).
const (
	PDACacheTTL = 24 * time.Hour
)

// Circuit breaker states and defaults (§4.7's optional resiliency layer).
const (
	CircuitClosed   = "closed"
	CircuitOpen     = "open"
	CircuitHalfOpen = "half-open"

	CircuitBreakerThreshold   = 5
	CircuitBreakerCooldown    = 30 * time.Second
	CircuitBreakerHalfOpenMax = 1
)

// Managed validator subprocess (§4.13).
const (
	ValidatorDefaultRPCPort   = 8899
	ValidatorReadyPollEvery   = 200 * time.Millisecond
	ValidatorReadyTimeout     = 30 * time.Second
	ValidatorShutdownGrace    = 5 * time.Second
)

// Optional local status/health surface exposed by `solcli validator` (§4.13).
const (
	StatusServerDefaultPort     = 8900
	StatusServerReadTimeout     = 5 * time.Second
	StatusServerWriteTimeout    = 5 * time.Second
	StatusServerShutdownTimeout = 5 * time.Second
)
