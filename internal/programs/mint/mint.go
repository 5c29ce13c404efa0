// Package mint builds the two-instruction sequence that creates and
// initializes an SPL Token mint account.
package mint

import (
	"github.com/solforge/svmsdk/internal/instruction"
	"github.com/solforge/svmsdk/internal/programs/system"
	"github.com/solforge/svmsdk/internal/programs/token"
	"github.com/solforge/svmsdk/internal/solkey"
)

const discInitializeMint uint8 = 0

// Init builds CreateAccount(82, owner=Token) followed by
// InitializeMint. freezeAuthority is optional; nil clears it.
func Init(payer, mintAccount solkey.Key, decimals uint8, mintAuthority solkey.Key, freezeAuthority *solkey.Key) ([]instruction.Instruction, error) {
	create, err := system.CreateAccount(payer, mintAccount, 0, 82, token.ProgramID, system.SeedOptions{})
	if err != nil {
		return nil, err
	}

	builder := instruction.NewBuilder().Uint8(discInitializeMint).Uint8(decimals).Key(mintAuthority)
	if freezeAuthority != nil {
		builder = builder.Uint8(1).Key(*freezeAuthority)
	} else {
		builder = builder.Uint8(0)
	}
	data, err := builder.Bytes()
	if err != nil {
		return nil, err
	}

	accounts := []instruction.AccountMeta{
		instruction.Writable(mintAccount),
		instruction.ReadOnly(token.RentSysvar),
	}
	initialize := instruction.New(token.ProgramID, accounts, data)

	return []instruction.Instruction{create, initialize}, nil
}
