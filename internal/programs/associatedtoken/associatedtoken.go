// Package associatedtoken builds instructions for the Associated Token
// Account program and derives the deterministic per-owner, per-mint
// token account address.
package associatedtoken

import (
	"fmt"

	"github.com/solforge/svmsdk/internal/config"
	"github.com/solforge/svmsdk/internal/instruction"
	"github.com/solforge/svmsdk/internal/programs/system"
	"github.com/solforge/svmsdk/internal/programs/token"
	"github.com/solforge/svmsdk/internal/solkey"
)

// ProgramID is the Associated Token Account program's well-known address.
var ProgramID = mustKey(config.AssociatedTokenProgramID)

func mustKey(s string) solkey.Key {
	k, err := solkey.Decode(s)
	if err != nil {
		panic(fmt.Sprintf("associatedtoken: invalid well-known key %q: %v", s, err))
	}
	return k
}

// FindAddress derives the associated token account for (owner, mint).
// owner must be on the ed25519 curve — it is a wallet key, not another
// PDA — or ErrNoNonce is returned to match DeriveAddress/FindAddress's
// off-curve-search failure mode.
func FindAddress(owner, mint solkey.Key) (solkey.Key, byte, error) {
	if !solkey.IsOnCurve(owner) {
		return solkey.Key{}, 0, fmt.Errorf("%w: owner must be a wallet key on the ed25519 curve", config.ErrNoNonce)
	}
	seeds := []solkey.Seed{
		solkey.Seed(owner[:]),
		solkey.Seed(token.ProgramID[:]),
		solkey.Seed(mint[:]),
	}
	return solkey.FindAddress(seeds, ProgramID)
}

// Create builds the single CreateAssociatedTokenAccount instruction.
// newAccount should be the address FindAddress derived.
func Create(payer, newAccount, owner, mint solkey.Key) (instruction.Instruction, error) {
	accounts := []instruction.AccountMeta{
		instruction.Signer(payer, true),
		instruction.Writable(newAccount),
		instruction.ReadOnly(owner),
		instruction.ReadOnly(mint),
		instruction.ReadOnly(system.ProgramID),
		instruction.ReadOnly(token.ProgramID),
		instruction.ReadOnly(token.RentSysvar),
	}
	return instruction.New(ProgramID, accounts, []byte{0}), nil
}
