package nonce

import (
	"testing"

	"github.com/solforge/svmsdk/internal/programs/system"
	"github.com/solforge/svmsdk/internal/solkey"
)

func newKey(t *testing.T) solkey.Key {
	t.Helper()
	kp, err := solkey.GenerateKeypair()
	if err != nil {
		t.Fatalf("GenerateKeypair error = %v", err)
	}
	return kp.Public
}

func TestNonceWrappersDelegateToSystem(t *testing.T) {
	n, authority, newAuthority, to := newKey(t), newKey(t), newKey(t), newKey(t)

	if ix, err := Init(n, authority); err != nil || ix.Data[0] != byte(system.DiscInitializeNonce) {
		t.Errorf("Init mismatch: ix=%v err=%v", ix, err)
	}
	if ix, err := Authorize(n, authority, newAuthority); err != nil || ix.Data[0] != byte(system.DiscAuthorizeNonce) {
		t.Errorf("Authorize mismatch: ix=%v err=%v", ix, err)
	}
	if ix, err := Advance(n, authority); err != nil || ix.Data[0] != byte(system.DiscAdvanceNonce) {
		t.Errorf("Advance mismatch: ix=%v err=%v", ix, err)
	}
	if ix, err := Withdraw(n, to, authority, 10); err != nil || ix.Data[0] != byte(system.DiscWithdrawNonce) {
		t.Errorf("Withdraw mismatch: ix=%v err=%v", ix, err)
	}
}
