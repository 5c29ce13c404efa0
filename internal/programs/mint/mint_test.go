package mint

import (
	"testing"

	"github.com/solforge/svmsdk/internal/programs/token"
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

func TestInit_NoFreezeAuthority(t *testing.T) {
	payer, mintAcc, authority := newKey(t), newKey(t), newKey(t)
	ixs, err := Init(payer, mintAcc, 6, authority, nil)
	if err != nil {
		t.Fatalf("Init error = %v", err)
	}
	if len(ixs) != 2 {
		t.Fatalf("got %d instructions, want 2", len(ixs))
	}
	if ixs[1].Data[0] != discInitializeMint {
		t.Errorf("discriminant = %d, want %d", ixs[1].Data[0], discInitializeMint)
	}
	if ixs[1].ProgramID != token.ProgramID {
		t.Error("InitializeMint must target the Token program")
	}
	// disc(1) + decimals(1) + mint_authority(32) + presence(1) = 35, no freeze key appended
	if len(ixs[1].Data) != 35 {
		t.Errorf("data length = %d, want 35 (no freeze authority)", len(ixs[1].Data))
	}
}

func TestInit_WithFreezeAuthority(t *testing.T) {
	payer, mintAcc, authority, freeze := newKey(t), newKey(t), newKey(t), newKey(t)
	ixs, err := Init(payer, mintAcc, 9, authority, &freeze)
	if err != nil {
		t.Fatalf("Init error = %v", err)
	}
	if len(ixs[1].Data) != 67 {
		t.Errorf("data length = %d, want 67 (with freeze authority)", len(ixs[1].Data))
	}
}
