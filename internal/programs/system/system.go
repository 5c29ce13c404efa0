// Package system builds instructions for Solana's built-in System
// Program (id 11111111111111111111111111111111).
package system

import (
	"fmt"

	"github.com/solforge/svmsdk/internal/config"
	"github.com/solforge/svmsdk/internal/instruction"
	"github.com/solforge/svmsdk/internal/solkey"
)

// ProgramID is the System Program's well-known address.
var ProgramID = mustKey(config.SystemProgramID)

// RecentBlockhashesSysvar and RentSysvar are the fixed sysvar accounts
// referenced by the nonce instructions.
var (
	RecentBlockhashesSysvar = mustKey(config.RecentBlockhashesSysvarID)
	RentSysvar              = mustKey(config.RentSysvarID)
)

func mustKey(s string) solkey.Key {
	k, err := solkey.Decode(s)
	if err != nil {
		panic(fmt.Sprintf("system: invalid well-known key %q: %v", s, err))
	}
	return k
}

// Discriminants for the System Program's instruction set, a 4-byte
// little-endian integer at the start of the data blob.
const (
	DiscCreateAccount         uint32 = 0
	DiscAssign                uint32 = 1
	DiscTransfer              uint32 = 2
	DiscCreateAccountWithSeed uint32 = 3
	DiscAdvanceNonce          uint32 = 4
	DiscWithdrawNonce         uint32 = 5
	DiscInitializeNonce       uint32 = 6
	DiscAuthorizeNonce        uint32 = 7
	DiscAllocate              uint32 = 8
	DiscAllocateWithSeed      uint32 = 9
	DiscAssignWithSeed        uint32 = 10
	DiscTransferWithSeed      uint32 = 11
)

// SeedOptions is the optional {base, seed, program_id} trio accepted by
// the seed-variant builders (CreateAccount, Assign, Transfer, Allocate).
// Callers populate the fields they have and leave the rest as their zero
// value; HasBase, HasSeed and HasProgramID report, per field, whether the
// caller supplied it. If
// some but not all three are present, the builder returns
// ErrMissingSeedParams. If none are present, the plain instruction
// variant is emitted. If all three are present, the seeded variant is
// emitted.
type SeedOptions struct {
	Base          solkey.Key
	HasBase       bool
	Seed          string
	HasSeed       bool
	SeedProgramID solkey.Key
	HasProgramID  bool
}

func (s SeedOptions) count() int {
	n := 0
	if s.HasBase {
		n++
	}
	if s.HasSeed {
		n++
	}
	if s.HasProgramID {
		n++
	}
	return n
}

// mode resolves seed into one of: 0 (no seed params, plain variant),
// 3 (all seed params, seeded variant), or an error for 1 or 2.
func (s SeedOptions) mode() (int, error) {
	n := s.count()
	if n != 0 && n != 3 {
		return 0, fmt.Errorf("%w: supplied %d of 3 seed options", config.ErrMissingSeedParams, n)
	}
	return n, nil
}

// CreateAccount builds a CreateAccount instruction, or (if seed supplies
// all of base/seed/program_id) a CreateAccountWithSeed instruction.
func CreateAccount(from, newAccount solkey.Key, lamports, space uint64, owner solkey.Key, seed SeedOptions) (instruction.Instruction, error) {
	mode, err := seed.mode()
	if err != nil {
		return instruction.Instruction{}, err
	}

	if mode == 0 {
		data, err := instruction.NewBuilder().
			Uint32LE(DiscCreateAccount).
			Uint64LE(lamports).
			Uint64LE(space).
			Key(owner).
			Bytes()
		if err != nil {
			return instruction.Instruction{}, err
		}
		accounts := []instruction.AccountMeta{
			instruction.Signer(from, true),
			instruction.Signer(newAccount, true),
		}
		return instruction.New(ProgramID, accounts, data), nil
	}

	data, err := instruction.NewBuilder().
		Uint32LE(DiscCreateAccountWithSeed).
		Key(seed.Base).
		Str(seed.Seed).
		Uint64LE(lamports).
		Uint64LE(space).
		Key(owner).
		Bytes()
	if err != nil {
		return instruction.Instruction{}, err
	}

	accounts := []instruction.AccountMeta{
		instruction.Signer(from, true),
		instruction.Writable(newAccount),
	}
	if seed.Base != from {
		accounts = append(accounts, instruction.Signer(seed.Base, false))
	}
	return instruction.New(ProgramID, accounts, data), nil
}

// Assign builds an Assign instruction, or (if seed supplies all of
// base/seed/program_id) an AssignWithSeed instruction.
func Assign(account, owner solkey.Key, seed SeedOptions) (instruction.Instruction, error) {
	mode, err := seed.mode()
	if err != nil {
		return instruction.Instruction{}, err
	}

	if mode == 0 {
		data, err := instruction.NewBuilder().Uint32LE(DiscAssign).Key(owner).Bytes()
		if err != nil {
			return instruction.Instruction{}, err
		}
		accounts := []instruction.AccountMeta{instruction.Signer(account, true)}
		return instruction.New(ProgramID, accounts, data), nil
	}

	data, err := instruction.NewBuilder().
		Uint32LE(DiscAssignWithSeed).
		Key(seed.Base).
		Str(seed.Seed).
		Key(owner).
		Bytes()
	if err != nil {
		return instruction.Instruction{}, err
	}
	accounts := []instruction.AccountMeta{
		instruction.Writable(account),
		instruction.Signer(seed.Base, false),
	}
	return instruction.New(ProgramID, accounts, data), nil
}

// Transfer builds a Transfer instruction, or (if seed supplies all of
// base/seed/program_id) a TransferWithSeed instruction.
func Transfer(from, to solkey.Key, lamports uint64, seed SeedOptions) (instruction.Instruction, error) {
	mode, err := seed.mode()
	if err != nil {
		return instruction.Instruction{}, err
	}

	if mode == 0 {
		data, err := instruction.NewBuilder().Uint32LE(DiscTransfer).Uint64LE(lamports).Bytes()
		if err != nil {
			return instruction.Instruction{}, err
		}
		accounts := []instruction.AccountMeta{
			instruction.Signer(from, true),
			instruction.Writable(to),
		}
		return instruction.New(ProgramID, accounts, data), nil
	}

	data, err := instruction.NewBuilder().
		Uint32LE(DiscTransferWithSeed).
		Uint64LE(lamports).
		Str(seed.Seed).
		Key(seed.SeedProgramID).
		Bytes()
	if err != nil {
		return instruction.Instruction{}, err
	}
	accounts := []instruction.AccountMeta{
		instruction.Writable(from),
		instruction.Signer(seed.Base, false),
		instruction.Writable(to),
	}
	return instruction.New(ProgramID, accounts, data), nil
}

// Allocate builds an Allocate instruction, or (if seed supplies all of
// base/seed/program_id) an AllocateWithSeed instruction.
func Allocate(account solkey.Key, space uint64, owner solkey.Key, seed SeedOptions) (instruction.Instruction, error) {
	mode, err := seed.mode()
	if err != nil {
		return instruction.Instruction{}, err
	}

	if mode == 0 {
		data, err := instruction.NewBuilder().Uint32LE(DiscAllocate).Uint64LE(space).Bytes()
		if err != nil {
			return instruction.Instruction{}, err
		}
		accounts := []instruction.AccountMeta{instruction.Signer(account, true)}
		return instruction.New(ProgramID, accounts, data), nil
	}

	data, err := instruction.NewBuilder().
		Uint32LE(DiscAllocateWithSeed).
		Key(seed.Base).
		Str(seed.Seed).
		Uint64LE(space).
		Key(owner).
		Bytes()
	if err != nil {
		return instruction.Instruction{}, err
	}
	accounts := []instruction.AccountMeta{
		instruction.Writable(account),
		instruction.Signer(seed.Base, false),
	}
	return instruction.New(ProgramID, accounts, data), nil
}

// AdvanceNonce builds an AdvanceNonceAccount instruction.
func AdvanceNonce(nonce, authority solkey.Key) (instruction.Instruction, error) {
	data, err := instruction.NewBuilder().Uint32LE(DiscAdvanceNonce).Bytes()
	if err != nil {
		return instruction.Instruction{}, err
	}
	accounts := []instruction.AccountMeta{
		instruction.Writable(nonce),
		instruction.ReadOnly(RecentBlockhashesSysvar),
		instruction.Signer(authority, false),
	}
	return instruction.New(ProgramID, accounts, data), nil
}

// WithdrawNonce builds a WithdrawNonceAccount instruction.
func WithdrawNonce(nonce, to, authority solkey.Key, lamports uint64) (instruction.Instruction, error) {
	data, err := instruction.NewBuilder().Uint32LE(DiscWithdrawNonce).Uint64LE(lamports).Bytes()
	if err != nil {
		return instruction.Instruction{}, err
	}
	accounts := []instruction.AccountMeta{
		instruction.Writable(nonce),
		instruction.Writable(to),
		instruction.ReadOnly(RecentBlockhashesSysvar),
		instruction.ReadOnly(RentSysvar),
		instruction.Signer(authority, false),
	}
	return instruction.New(ProgramID, accounts, data), nil
}

// InitializeNonce builds an InitializeNonceAccount instruction.
func InitializeNonce(nonce, authority solkey.Key) (instruction.Instruction, error) {
	data, err := instruction.NewBuilder().Uint32LE(DiscInitializeNonce).Key(authority).Bytes()
	if err != nil {
		return instruction.Instruction{}, err
	}
	accounts := []instruction.AccountMeta{
		instruction.Writable(nonce),
		instruction.ReadOnly(RecentBlockhashesSysvar),
		instruction.ReadOnly(RentSysvar),
	}
	return instruction.New(ProgramID, accounts, data), nil
}

// AuthorizeNonce builds an AuthorizeNonceAccount instruction.
func AuthorizeNonce(nonce, authority, newAuthority solkey.Key) (instruction.Instruction, error) {
	data, err := instruction.NewBuilder().Uint32LE(DiscAuthorizeNonce).Key(newAuthority).Bytes()
	if err != nil {
		return instruction.Instruction{}, err
	}
	accounts := []instruction.AccountMeta{
		instruction.Writable(nonce),
		instruction.Signer(authority, false),
	}
	return instruction.New(ProgramID, accounts, data), nil
}
