// Package nonce provides the friendly, durable-nonce-scoped names for
// the four System Program instructions a nonce account lifecycle needs.
package nonce

import (
	"github.com/solforge/svmsdk/internal/instruction"
	"github.com/solforge/svmsdk/internal/programs/system"
	"github.com/solforge/svmsdk/internal/solkey"
)

// Init builds InitializeNonceAccount.
func Init(nonce, authority solkey.Key) (instruction.Instruction, error) {
	return system.InitializeNonce(nonce, authority)
}

// Authorize builds AuthorizeNonceAccount.
func Authorize(nonce, authority, newAuthority solkey.Key) (instruction.Instruction, error) {
	return system.AuthorizeNonce(nonce, authority, newAuthority)
}

// Advance builds AdvanceNonceAccount.
func Advance(nonce, authority solkey.Key) (instruction.Instruction, error) {
	return system.AdvanceNonce(nonce, authority)
}

// Withdraw builds WithdrawNonceAccount.
func Withdraw(nonce, to, authority solkey.Key, lamports uint64) (instruction.Instruction, error) {
	return system.WithdrawNonce(nonce, to, authority, lamports)
}
