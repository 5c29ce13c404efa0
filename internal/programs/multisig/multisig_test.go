package multisig

import (
	"errors"
	"testing"

	"github.com/solforge/svmsdk/internal/config"
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

func TestInit(t *testing.T) {
	payer, account := newKey(t), newKey(t)
	signers := []solkey.Key{newKey(t), newKey(t), newKey(t)}

	ixs, err := Init(payer, account, 2, signers)
	if err != nil {
		t.Fatalf("Init error = %v", err)
	}
	if len(ixs) != 2 {
		t.Fatalf("got %d instructions, want 2", len(ixs))
	}
}

func TestInit_RejectsInvalidM(t *testing.T) {
	payer, account := newKey(t), newKey(t)
	signers := []solkey.Key{newKey(t)}

	_, err := Init(payer, account, 0, signers)
	if !errors.Is(err, config.ErrInvalidSchema) {
		t.Errorf("expected ErrInvalidSchema, got %v", err)
	}
}
