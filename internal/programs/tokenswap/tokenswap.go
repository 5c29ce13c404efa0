// Package tokenswap builds instructions for the SPL Token Swap program.
package tokenswap

import (
	"fmt"

	"github.com/solforge/svmsdk/internal/config"
	"github.com/solforge/svmsdk/internal/instruction"
	"github.com/solforge/svmsdk/internal/solkey"
)

// ProgramID is the Token Swap program's well-known address.
var ProgramID = mustKey(config.TokenSwapProgramID)

func mustKey(s string) solkey.Key {
	k, err := solkey.Decode(s)
	if err != nil {
		panic(fmt.Sprintf("tokenswap: invalid well-known key %q: %v", s, err))
	}
	return k
}

// Single-byte instruction discriminants.
const (
	DiscInitialize byte = 0
	DiscSwap       byte = 1
	DiscDeposit    byte = 2
	DiscWithdraw   byte = 3
)

// Fee is a numerator/denominator pair, expressed as a fraction of the
// traded amount.
type Fee struct {
	Numerator   uint64
	Denominator uint64
}

// CurveType selects the pricing curve an Initialize instruction
// installs.
type CurveType byte

const (
	CurveConstantProduct CurveType = 0
	CurveConstantPrice   CurveType = 1
	CurveStable          CurveType = 2
	CurveOffset          CurveType = 3
)

// Fees bundles the four fee pairs an Initialize instruction configures.
type Fees struct {
	TradeFee          Fee
	OwnerTradeFee      Fee
	OwnerWithdrawFee   Fee
	HostFee            Fee
}

// Curve describes the pricing curve: a type tag plus a 32-byte
// parameter block whose interpretation is curve-specific.
type Curve struct {
	Type       CurveType
	Parameters [32]byte
}

func writeFee(b *instruction.Builder, f Fee) *instruction.Builder {
	return b.Uint64LE(f.Numerator).Uint64LE(f.Denominator)
}

// Initialize builds the swap-pool initialization instruction. Accounts,
// in order: swap(W), authority, tokenA, tokenB, pool_mint(W),
// fee_account, destination(W), token_program.
func Initialize(swap, authority, tokenA, tokenB, poolMint, feeAccount, destination, tokenProgram solkey.Key, fees Fees, curve Curve) (instruction.Instruction, error) {
	builder := instruction.NewBuilder().Uint8(DiscInitialize)
	builder = writeFee(builder, fees.TradeFee)
	builder = writeFee(builder, fees.OwnerTradeFee)
	builder = writeFee(builder, fees.OwnerWithdrawFee)
	builder = writeFee(builder, fees.HostFee)
	builder = builder.Uint8(byte(curve.Type)).Raw(curve.Parameters[:])

	data, err := builder.Bytes()
	if err != nil {
		return instruction.Instruction{}, err
	}

	accounts := []instruction.AccountMeta{
		instruction.Writable(swap),
		instruction.ReadOnly(authority),
		instruction.ReadOnly(tokenA),
		instruction.ReadOnly(tokenB),
		instruction.Writable(poolMint),
		instruction.ReadOnly(feeAccount),
		instruction.Writable(destination),
		instruction.ReadOnly(tokenProgram),
	}
	return instruction.New(ProgramID, accounts, data), nil
}

// Swap builds a Swap instruction. Accounts, in order: swap, authority,
// userTransferAuthority(S), source(W), swapSource(W), swapDestination(W),
// destination(W), poolMint(W), feeAccount(W), tokenProgram.
func Swap(swap, authority, userTransferAuthority, source, swapSource, swapDestination, destination, poolMint, feeAccount, tokenProgram solkey.Key, amountIn, minimumAmountOut uint64) (instruction.Instruction, error) {
	data, err := instruction.NewBuilder().Uint8(DiscSwap).Uint64LE(amountIn).Uint64LE(minimumAmountOut).Bytes()
	if err != nil {
		return instruction.Instruction{}, err
	}
	accounts := []instruction.AccountMeta{
		instruction.ReadOnly(swap),
		instruction.ReadOnly(authority),
		instruction.Signer(userTransferAuthority, false),
		instruction.Writable(source),
		instruction.Writable(swapSource),
		instruction.Writable(swapDestination),
		instruction.Writable(destination),
		instruction.Writable(poolMint),
		instruction.Writable(feeAccount),
		instruction.ReadOnly(tokenProgram),
	}
	return instruction.New(ProgramID, accounts, data), nil
}

// Deposit builds a DepositAllTokenTypes instruction.
func Deposit(swap, authority, userTransferAuthority, sourceA, sourceB, swapTokenA, swapTokenB, poolMint, destination, tokenProgram solkey.Key, poolTokenAmount, maximumTokenA, maximumTokenB uint64) (instruction.Instruction, error) {
	data, err := instruction.NewBuilder().Uint8(DiscDeposit).Uint64LE(poolTokenAmount).Uint64LE(maximumTokenA).Uint64LE(maximumTokenB).Bytes()
	if err != nil {
		return instruction.Instruction{}, err
	}
	accounts := []instruction.AccountMeta{
		instruction.ReadOnly(swap),
		instruction.ReadOnly(authority),
		instruction.Signer(userTransferAuthority, false),
		instruction.Writable(sourceA),
		instruction.Writable(sourceB),
		instruction.Writable(swapTokenA),
		instruction.Writable(swapTokenB),
		instruction.Writable(poolMint),
		instruction.Writable(destination),
		instruction.ReadOnly(tokenProgram),
	}
	return instruction.New(ProgramID, accounts, data), nil
}

// Withdraw builds a WithdrawAllTokenTypes instruction.
func Withdraw(swap, authority, userTransferAuthority, poolMint, source, swapTokenA, swapTokenB, destinationA, destinationB, feeAccount, tokenProgram solkey.Key, poolTokenAmount, minimumTokenA, minimumTokenB uint64) (instruction.Instruction, error) {
	data, err := instruction.NewBuilder().Uint8(DiscWithdraw).Uint64LE(poolTokenAmount).Uint64LE(minimumTokenA).Uint64LE(minimumTokenB).Bytes()
	if err != nil {
		return instruction.Instruction{}, err
	}
	accounts := []instruction.AccountMeta{
		instruction.ReadOnly(swap),
		instruction.ReadOnly(authority),
		instruction.Signer(userTransferAuthority, false),
		instruction.Writable(poolMint),
		instruction.Writable(source),
		instruction.Writable(swapTokenA),
		instruction.Writable(swapTokenB),
		instruction.Writable(destinationA),
		instruction.Writable(destinationB),
		instruction.Writable(feeAccount),
		instruction.ReadOnly(tokenProgram),
	}
	return instruction.New(ProgramID, accounts, data), nil
}
