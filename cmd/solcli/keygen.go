package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mr-tron/base58"

	"github.com/solforge/svmsdk/internal/solkey"
)

func runKeygen() error {
	var outFile string
	parseSubFlags("keygen", func(fs *flag.FlagSet) {
		fs.StringVar(&outFile, "out", "", "write the secret key bytes (base58) to this file instead of stdout")
	})

	kp, err := solkey.GenerateKeypair()
	if err != nil {
		return fmt.Errorf("generate keypair: %w", err)
	}

	fmt.Printf("pubkey: %s\n", kp.Public.ToBase58())

	secret := base58.Encode(kp.Secret)
	if outFile == "" {
		fmt.Printf("secret: %s\n", secret)
		return nil
	}

	if err := os.WriteFile(outFile, []byte(secret+"\n"), 0o600); err != nil {
		return fmt.Errorf("write secret to %q: %w", outFile, err)
	}
	fmt.Printf("secret written to %s\n", outFile)
	return nil
}
