package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/solforge/svmsdk/internal/solkey"
)

func runDerivePDA() error {
	var programIDStr, seedsStr string
	parseSubFlags("derive-pda", func(fs *flag.FlagSet) {
		fs.StringVar(&programIDStr, "program", "", "base58 program id (required)")
		fs.StringVar(&seedsStr, "seeds", "", "comma-separated UTF-8 seed strings (required)")
	})

	if programIDStr == "" || seedsStr == "" {
		return fmt.Errorf("derive-pda: both -program and -seeds are required")
	}

	programID, err := solkey.Decode(programIDStr)
	if err != nil {
		return fmt.Errorf("decode program id: %w", err)
	}

	var seeds []solkey.Seed
	for _, s := range strings.Split(seedsStr, ",") {
		seed, err := solkey.SeedString(s)
		if err != nil {
			return fmt.Errorf("encode seed %q: %w", s, err)
		}
		seeds = append(seeds, seed)
	}

	address, bump, err := solkey.FindAddress(seeds, programID)
	if err != nil {
		return fmt.Errorf("find address: %w", err)
	}

	fmt.Printf("address: %s\n", address.ToBase58())
	fmt.Printf("bump: %d\n", bump)
	return nil
}
