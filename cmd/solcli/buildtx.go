package main

import (
	"flag"
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/solforge/svmsdk/internal/instruction"
	"github.com/solforge/svmsdk/internal/programs/system"
	"github.com/solforge/svmsdk/internal/solkey"
	"github.com/solforge/svmsdk/internal/txcompiler"
)

func runBuildTx() error {
	var fromSecretB58, toStr, blockhashB58 string
	var lamports uint64
	parseSubFlags("build-tx", func(fs *flag.FlagSet) {
		fs.StringVar(&fromSecretB58, "from-secret", "", "base58 ed25519 secret key of the payer/sender (required)")
		fs.StringVar(&toStr, "to", "", "base58 recipient pubkey (required)")
		fs.Uint64Var(&lamports, "lamports", 0, "amount to transfer, in lamports (required)")
		fs.StringVar(&blockhashB58, "blockhash", "", "base58 recent blockhash (required)")
	})

	if fromSecretB58 == "" || toStr == "" || lamports == 0 || blockhashB58 == "" {
		return fmt.Errorf("build-tx: -from-secret, -to, -lamports, and -blockhash are all required")
	}

	secretBytes, err := base58.Decode(fromSecretB58)
	if err != nil {
		return fmt.Errorf("decode from-secret: %w", err)
	}
	payer, err := solkey.KeypairFromSecret(secretBytes)
	if err != nil {
		return fmt.Errorf("load payer keypair: %w", err)
	}

	to, err := solkey.Decode(toStr)
	if err != nil {
		return fmt.Errorf("decode to: %w", err)
	}

	blockhashBytes, err := base58.Decode(blockhashB58)
	if err != nil || len(blockhashBytes) != 32 {
		return fmt.Errorf("decode blockhash: must be 32 bytes base58")
	}
	var blockhash [32]byte
	copy(blockhash[:], blockhashBytes)

	ix, err := system.Transfer(payer.Public, to, lamports, system.SeedOptions{})
	if err != nil {
		return fmt.Errorf("build transfer instruction: %w", err)
	}

	tx := txcompiler.Transaction{
		Payer:        payer.Public,
		Blockhash:    blockhash,
		Instructions: []instruction.Instruction{ix},
		Signers:      []solkey.Keypair{payer},
	}

	wire, err := txcompiler.ToBytes(tx)
	if err != nil {
		return fmt.Errorf("compile transaction: %w", err)
	}

	fmt.Println(base58.Encode(wire))
	return nil
}
