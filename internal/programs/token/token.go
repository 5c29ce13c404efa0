// Package token builds instructions for the SPL Token program.
package token

import (
	"fmt"

	"github.com/solforge/svmsdk/internal/config"
	"github.com/solforge/svmsdk/internal/instruction"
	"github.com/solforge/svmsdk/internal/programs/system"
	"github.com/solforge/svmsdk/internal/solkey"
)

// ProgramID is the SPL Token program's well-known address.
var ProgramID = mustKey(config.TokenProgramID)

// RentSysvar is referenced by InitTokenAccount.
var RentSysvar = mustKey(config.RentSysvarID)

func mustKey(s string) solkey.Key {
	k, err := solkey.Decode(s)
	if err != nil {
		panic(fmt.Sprintf("token: invalid well-known key %q: %v", s, err))
	}
	return k
}

// Single-byte instruction discriminants.
const (
	DiscInitializeAccount  byte = 1
	DiscInitializeMultisig byte = 2
	DiscTransfer           byte = 3
	DiscApprove            byte = 4
	DiscRevoke             byte = 5
	DiscSetAuthority       byte = 6
	DiscMintTo             byte = 7
	DiscBurn               byte = 8
	DiscCloseAccount       byte = 9
	DiscFreezeAccount      byte = 10
	DiscThawAccount        byte = 11
	DiscTransferChecked    byte = 12
	DiscApproveChecked     byte = 13
	DiscMintToChecked      byte = 14
	DiscBurnChecked        byte = 15
)

// AuthorityType selects which authority SetAuthority targets.
type AuthorityType byte

const (
	AuthorityMintTokens AuthorityType = 0
	AuthorityFreezeAccount AuthorityType = 1
	AuthorityAccountOwner AuthorityType = 2
	AuthorityCloseAccount AuthorityType = 3
)

// CheckedParams carries the extra fields a "checked" variant requires:
// the decimals of the relevant mint, and the mint account itself. Both
// must be supplied together or ErrInvalidCheckedParams is returned.
type CheckedParams struct {
	Decimals    byte
	HasDecimals bool
	Mint        solkey.Key
	HasMint     bool
}

func (c CheckedParams) validate() error {
	if c.HasDecimals != c.HasMint {
		return fmt.Errorf("%w: checked variant requires both decimals and mint", config.ErrInvalidCheckedParams)
	}
	return nil
}

// authoritySigners builds the trailing signer list for an
// authority/owner-bearing instruction: a single signing authority, or a
// non-signing authority followed by each multisig co-signer, per the
// on-chain multisig evaluation rule.
func authoritySigners(authority solkey.Key, multiSigners []solkey.Key) []instruction.AccountMeta {
	if len(multiSigners) == 0 {
		return []instruction.AccountMeta{instruction.Signer(authority, false)}
	}
	accounts := make([]instruction.AccountMeta, 0, len(multiSigners)+1)
	accounts = append(accounts, instruction.ReadOnly(authority))
	for _, signer := range multiSigners {
		accounts = append(accounts, instruction.Signer(signer, false))
	}
	return accounts
}

// InitTokenAccount emits CreateAccount(165, owner=Token) followed by
// InitializeAccount.
func InitTokenAccount(payer, newAccount, mint, owner solkey.Key) ([]instruction.Instruction, error) {
	create, err := system.CreateAccount(payer, newAccount, 0, config.TokenAccountSize, ProgramID, system.SeedOptions{})
	if err != nil {
		return nil, err
	}

	data, err := instruction.NewBuilder().Uint8(DiscInitializeAccount).Bytes()
	if err != nil {
		return nil, err
	}
	accounts := []instruction.AccountMeta{
		instruction.Writable(newAccount),
		instruction.ReadOnly(mint),
		instruction.ReadOnly(owner),
		instruction.ReadOnly(RentSysvar),
	}
	init := instruction.New(ProgramID, accounts, data)

	return []instruction.Instruction{create, init}, nil
}

// Transfer builds a Transfer or TransferChecked instruction, depending
// on whether checked is populated.
func Transfer(source, destination, authority solkey.Key, amount uint64, multiSigners []solkey.Key, checked CheckedParams) (instruction.Instruction, error) {
	if err := checked.validate(); err != nil {
		return instruction.Instruction{}, err
	}

	if !checked.HasDecimals {
		data, err := instruction.NewBuilder().Uint8(DiscTransfer).Uint64LE(amount).Bytes()
		if err != nil {
			return instruction.Instruction{}, err
		}
		accounts := append([]instruction.AccountMeta{
			instruction.Writable(source),
			instruction.Writable(destination),
		}, authoritySigners(authority, multiSigners)...)
		return instruction.New(ProgramID, accounts, data), nil
	}

	data, err := instruction.NewBuilder().Uint8(DiscTransferChecked).Uint64LE(amount).Uint8(checked.Decimals).Bytes()
	if err != nil {
		return instruction.Instruction{}, err
	}
	accounts := append([]instruction.AccountMeta{
		instruction.Writable(source),
		instruction.ReadOnly(checked.Mint),
		instruction.Writable(destination),
	}, authoritySigners(authority, multiSigners)...)
	return instruction.New(ProgramID, accounts, data), nil
}

// Approve builds an Approve or ApproveChecked instruction.
func Approve(source, delegate, owner solkey.Key, amount uint64, multiSigners []solkey.Key, checked CheckedParams) (instruction.Instruction, error) {
	if err := checked.validate(); err != nil {
		return instruction.Instruction{}, err
	}

	if !checked.HasDecimals {
		data, err := instruction.NewBuilder().Uint8(DiscApprove).Uint64LE(amount).Bytes()
		if err != nil {
			return instruction.Instruction{}, err
		}
		accounts := append([]instruction.AccountMeta{
			instruction.Writable(source),
			instruction.ReadOnly(delegate),
		}, authoritySigners(owner, multiSigners)...)
		return instruction.New(ProgramID, accounts, data), nil
	}

	data, err := instruction.NewBuilder().Uint8(DiscApproveChecked).Uint64LE(amount).Uint8(checked.Decimals).Bytes()
	if err != nil {
		return instruction.Instruction{}, err
	}
	accounts := append([]instruction.AccountMeta{
		instruction.Writable(source),
		instruction.ReadOnly(checked.Mint),
		instruction.ReadOnly(delegate),
	}, authoritySigners(owner, multiSigners)...)
	return instruction.New(ProgramID, accounts, data), nil
}

// Revoke builds a Revoke instruction.
func Revoke(source, owner solkey.Key, multiSigners []solkey.Key) (instruction.Instruction, error) {
	data, err := instruction.NewBuilder().Uint8(DiscRevoke).Bytes()
	if err != nil {
		return instruction.Instruction{}, err
	}
	accounts := append([]instruction.AccountMeta{instruction.Writable(source)}, authoritySigners(owner, multiSigners)...)
	return instruction.New(ProgramID, accounts, data), nil
}

// SetAuthority builds a SetAuthority instruction. newAuthority is
// optional (nil clears the authority).
func SetAuthority(account solkey.Key, authorityType AuthorityType, currentAuthority solkey.Key, newAuthority *solkey.Key, multiSigners []solkey.Key) (instruction.Instruction, error) {
	builder := instruction.NewBuilder().Uint8(DiscSetAuthority).Uint8(byte(authorityType))
	if newAuthority != nil {
		builder = builder.Uint8(1).Key(*newAuthority)
	} else {
		builder = builder.Uint8(0)
	}
	data, err := builder.Bytes()
	if err != nil {
		return instruction.Instruction{}, err
	}
	accounts := append([]instruction.AccountMeta{instruction.Writable(account)}, authoritySigners(currentAuthority, multiSigners)...)
	return instruction.New(ProgramID, accounts, data), nil
}

// MintTo builds a MintTo or MintToChecked instruction.
func MintTo(mint, destination, authority solkey.Key, amount uint64, multiSigners []solkey.Key, checked CheckedParams) (instruction.Instruction, error) {
	if err := checked.validate(); err != nil {
		return instruction.Instruction{}, err
	}

	if !checked.HasDecimals {
		data, err := instruction.NewBuilder().Uint8(DiscMintTo).Uint64LE(amount).Bytes()
		if err != nil {
			return instruction.Instruction{}, err
		}
		accounts := append([]instruction.AccountMeta{
			instruction.Writable(mint),
			instruction.Writable(destination),
		}, authoritySigners(authority, multiSigners)...)
		return instruction.New(ProgramID, accounts, data), nil
	}

	data, err := instruction.NewBuilder().Uint8(DiscMintToChecked).Uint64LE(amount).Uint8(checked.Decimals).Bytes()
	if err != nil {
		return instruction.Instruction{}, err
	}
	accounts := append([]instruction.AccountMeta{
		instruction.Writable(mint),
		instruction.Writable(destination),
	}, authoritySigners(authority, multiSigners)...)
	return instruction.New(ProgramID, accounts, data), nil
}

// Burn builds a Burn or BurnChecked instruction.
func Burn(account, mint, authority solkey.Key, amount uint64, multiSigners []solkey.Key, checked CheckedParams) (instruction.Instruction, error) {
	if err := checked.validate(); err != nil {
		return instruction.Instruction{}, err
	}

	if !checked.HasDecimals {
		data, err := instruction.NewBuilder().Uint8(DiscBurn).Uint64LE(amount).Bytes()
		if err != nil {
			return instruction.Instruction{}, err
		}
		accounts := append([]instruction.AccountMeta{
			instruction.Writable(account),
			instruction.Writable(mint),
		}, authoritySigners(authority, multiSigners)...)
		return instruction.New(ProgramID, accounts, data), nil
	}

	data, err := instruction.NewBuilder().Uint8(DiscBurnChecked).Uint64LE(amount).Uint8(checked.Decimals).Bytes()
	if err != nil {
		return instruction.Instruction{}, err
	}
	accounts := append([]instruction.AccountMeta{
		instruction.Writable(account),
		instruction.Writable(mint),
	}, authoritySigners(authority, multiSigners)...)
	return instruction.New(ProgramID, accounts, data), nil
}

// CloseAccount builds a CloseAccount instruction.
func CloseAccount(account, destination, owner solkey.Key, multiSigners []solkey.Key) (instruction.Instruction, error) {
	data, err := instruction.NewBuilder().Uint8(DiscCloseAccount).Bytes()
	if err != nil {
		return instruction.Instruction{}, err
	}
	accounts := append([]instruction.AccountMeta{
		instruction.Writable(account),
		instruction.Writable(destination),
	}, authoritySigners(owner, multiSigners)...)
	return instruction.New(ProgramID, accounts, data), nil
}

// FreezeAccount builds a FreezeAccount instruction.
func FreezeAccount(account, mint, authority solkey.Key, multiSigners []solkey.Key) (instruction.Instruction, error) {
	data, err := instruction.NewBuilder().Uint8(DiscFreezeAccount).Bytes()
	if err != nil {
		return instruction.Instruction{}, err
	}
	accounts := append([]instruction.AccountMeta{
		instruction.Writable(account),
		instruction.ReadOnly(mint),
	}, authoritySigners(authority, multiSigners)...)
	return instruction.New(ProgramID, accounts, data), nil
}

// ThawAccount builds a ThawAccount instruction.
func ThawAccount(account, mint, authority solkey.Key, multiSigners []solkey.Key) (instruction.Instruction, error) {
	data, err := instruction.NewBuilder().Uint8(DiscThawAccount).Bytes()
	if err != nil {
		return instruction.Instruction{}, err
	}
	accounts := append([]instruction.AccountMeta{
		instruction.Writable(account),
		instruction.ReadOnly(mint),
	}, authoritySigners(authority, multiSigners)...)
	return instruction.New(ProgramID, accounts, data), nil
}

// InitializeMultisig builds an InitializeMultisig instruction for an
// already-allocated multisig account.
func InitializeMultisig(multisig solkey.Key, m byte, signers []solkey.Key) (instruction.Instruction, error) {
	if m < 1 || m > 11 {
		return instruction.Instruction{}, fmt.Errorf("%w: m must be in 1..=11, got %d", config.ErrInvalidSchema, m)
	}
	if len(signers) == 0 || len(signers) > 11 {
		return instruction.Instruction{}, fmt.Errorf("%w: signer count must be in 1..=11, got %d", config.ErrInvalidSchema, len(signers))
	}
	if int(m) > len(signers) {
		return instruction.Instruction{}, fmt.Errorf("%w: m (%d) exceeds signer count (%d)", config.ErrInvalidSchema, m, len(signers))
	}

	data, err := instruction.NewBuilder().Uint8(DiscInitializeMultisig).Uint8(m).Bytes()
	if err != nil {
		return instruction.Instruction{}, err
	}
	accounts := []instruction.AccountMeta{
		instruction.Writable(multisig),
		instruction.ReadOnly(RentSysvar),
	}
	for _, signer := range signers {
		accounts = append(accounts, instruction.ReadOnly(signer))
	}
	return instruction.New(ProgramID, accounts, data), nil
}
