package config

import "testing"

func TestValidate_ValidCommitments(t *testing.T) {
	for _, c := range []string{"processed", "confirmed", "finalized"} {
		cfg := &Config{Commitment: c, RateLimitRPS: 10, PollIntervalMs: 500}
		if err := cfg.Validate(); err != nil {
			t.Fatalf("Validate() error = %v for commitment=%q, want nil", err, c)
		}
	}
}

func TestValidate_InvalidCommitment(t *testing.T) {
	tests := []string{"", "Processed", "finalised", "rooted"}
	for _, c := range tests {
		t.Run(c, func(t *testing.T) {
			cfg := &Config{Commitment: c, RateLimitRPS: 10, PollIntervalMs: 500}
			if err := cfg.Validate(); err == nil {
				t.Fatalf("Validate() expected error for commitment=%q, got nil", c)
			}
		})
	}
}

func TestValidate_InvalidRateLimit(t *testing.T) {
	cfg := &Config{Commitment: "confirmed", RateLimitRPS: 0, PollIntervalMs: 500}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("Validate() expected error for rate limit 0")
	}
}

func TestValidate_InvalidPollInterval(t *testing.T) {
	cfg := &Config{Commitment: "confirmed", RateLimitRPS: 10, PollIntervalMs: 0}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("Validate() expected error for poll interval 0")
	}
}

func TestClusterURL(t *testing.T) {
	tests := []struct {
		cluster string
		want    string
		wantErr bool
	}{
		{"devnet", "https://api.devnet.solana.com", false},
		{"mainnet-beta", "https://api.mainnet-beta.solana.com", false},
		{"testnet", "https://api.testnet.solana.com", false},
		{"localhost", "http://127.0.0.1:8899", false},
		{"localnet", "http://127.0.0.1:8899", false},
		{"whatever.example.com", "", true},
	}
	for _, tt := range tests {
		got, err := ClusterURL(tt.cluster)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ClusterURL(%q) expected error, got nil", tt.cluster)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ClusterURL(%q) unexpected error: %v", tt.cluster, err)
		}
		if got != tt.want {
			t.Fatalf("ClusterURL(%q) = %q, want %q", tt.cluster, got, tt.want)
		}
	}
}
