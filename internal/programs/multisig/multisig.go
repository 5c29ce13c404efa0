// Package multisig builds the two-instruction sequence that creates and
// initializes an SPL Token multisig signer-set account.
package multisig

import (
	"github.com/solforge/svmsdk/internal/instruction"
	"github.com/solforge/svmsdk/internal/programs/system"
	"github.com/solforge/svmsdk/internal/programs/token"
	"github.com/solforge/svmsdk/internal/solkey"
)

// Init builds CreateAccount(355, owner=Token) followed by
// InitializeMultisig with the given m-of-n threshold.
func Init(payer, multisigAccount solkey.Key, m byte, signers []solkey.Key) ([]instruction.Instruction, error) {
	create, err := system.CreateAccount(payer, multisigAccount, 0, 355, token.ProgramID, system.SeedOptions{})
	if err != nil {
		return nil, err
	}

	initialize, err := token.InitializeMultisig(multisigAccount, m, signers)
	if err != nil {
		return nil, err
	}

	return []instruction.Instruction{create, initialize}, nil
}
