package token

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

func TestInitTokenAccount(t *testing.T) {
	payer, newAcc, mint, owner := newKey(t), newKey(t), newKey(t), newKey(t)
	ixs, err := InitTokenAccount(payer, newAcc, mint, owner)
	if err != nil {
		t.Fatalf("InitTokenAccount error = %v", err)
	}
	if len(ixs) != 2 {
		t.Fatalf("got %d instructions, want 2", len(ixs))
	}
	if ixs[1].Data[0] != DiscInitializeAccount {
		t.Errorf("second instruction discriminant = %d, want %d", ixs[1].Data[0], DiscInitializeAccount)
	}
	if len(ixs[1].Accounts) != 4 {
		t.Errorf("InitializeAccount has %d accounts, want 4", len(ixs[1].Accounts))
	}
}

func TestTransfer_PlainVsChecked(t *testing.T) {
	source, dest, authority, mint := newKey(t), newKey(t), newKey(t), newKey(t)

	ix, err := Transfer(source, dest, authority, 100, nil, CheckedParams{})
	if err != nil {
		t.Fatalf("Transfer error = %v", err)
	}
	if ix.Data[0] != DiscTransfer {
		t.Errorf("discriminant = %d, want %d", ix.Data[0], DiscTransfer)
	}
	if len(ix.Accounts) != 3 {
		t.Errorf("got %d accounts, want 3 (source,dest,authority)", len(ix.Accounts))
	}

	ix, err = Transfer(source, dest, authority, 100, nil, CheckedParams{Decimals: 6, HasDecimals: true, Mint: mint, HasMint: true})
	if err != nil {
		t.Fatalf("Transfer(checked) error = %v", err)
	}
	if ix.Data[0] != DiscTransferChecked {
		t.Errorf("discriminant = %d, want %d", ix.Data[0], DiscTransferChecked)
	}
	if len(ix.Accounts) != 4 {
		t.Errorf("got %d accounts, want 4 (source,mint,dest,authority)", len(ix.Accounts))
	}
}

func TestTransfer_CheckedPartial_ErrInvalidCheckedParams(t *testing.T) {
	source, dest, authority, mint := newKey(t), newKey(t), newKey(t), newKey(t)

	_, err := Transfer(source, dest, authority, 100, nil, CheckedParams{HasDecimals: true})
	if !errors.Is(err, config.ErrInvalidCheckedParams) {
		t.Errorf("expected ErrInvalidCheckedParams (decimals only), got %v", err)
	}
	_, err = Transfer(source, dest, authority, 100, nil, CheckedParams{Mint: mint, HasMint: true})
	if !errors.Is(err, config.ErrInvalidCheckedParams) {
		t.Errorf("expected ErrInvalidCheckedParams (mint only), got %v", err)
	}
}

func TestTransfer_MultiSigners(t *testing.T) {
	source, dest, authority := newKey(t), newKey(t), newKey(t)
	s1, s2 := newKey(t), newKey(t)

	ix, err := Transfer(source, dest, authority, 5, []solkey.Key{s1, s2}, CheckedParams{})
	if err != nil {
		t.Fatalf("Transfer error = %v", err)
	}
	// source, dest, authority(non-signer), s1(signer), s2(signer) = 5
	if len(ix.Accounts) != 5 {
		t.Fatalf("got %d accounts, want 5", len(ix.Accounts))
	}
	if ix.Accounts[2].IsSigner {
		t.Error("authority with multisig present must be non-signing")
	}
	if !ix.Accounts[3].IsSigner || !ix.Accounts[4].IsSigner {
		t.Error("each multisig co-signer must be a signing account")
	}
}

func TestApprove_PlainAndChecked(t *testing.T) {
	source, delegate, owner, mint := newKey(t), newKey(t), newKey(t), newKey(t)

	ix, err := Approve(source, delegate, owner, 10, nil, CheckedParams{})
	if err != nil {
		t.Fatalf("Approve error = %v", err)
	}
	if ix.Data[0] != DiscApprove {
		t.Errorf("discriminant = %d, want %d", ix.Data[0], DiscApprove)
	}

	ix, err = Approve(source, delegate, owner, 10, nil, CheckedParams{Decimals: 2, HasDecimals: true, Mint: mint, HasMint: true})
	if err != nil {
		t.Fatalf("Approve(checked) error = %v", err)
	}
	if ix.Data[0] != DiscApproveChecked {
		t.Errorf("discriminant = %d, want %d", ix.Data[0], DiscApproveChecked)
	}
}

func TestRevoke(t *testing.T) {
	source, owner := newKey(t), newKey(t)
	ix, err := Revoke(source, owner, nil)
	if err != nil {
		t.Fatalf("Revoke error = %v", err)
	}
	if ix.Data[0] != DiscRevoke {
		t.Errorf("discriminant = %d, want %d", ix.Data[0], DiscRevoke)
	}
}

func TestSetAuthority_WithAndWithoutNewAuthority(t *testing.T) {
	account, current, newAuth := newKey(t), newKey(t), newKey(t)

	ix, err := SetAuthority(account, AuthorityOwner(), current, &newAuth, nil)
	if err != nil {
		t.Fatalf("SetAuthority error = %v", err)
	}
	if ix.Data[0] != DiscSetAuthority || ix.Data[2] != 1 {
		t.Errorf("expected presence flag 1, got data %v", ix.Data)
	}

	ix, err = SetAuthority(account, AuthorityOwner(), current, nil, nil)
	if err != nil {
		t.Fatalf("SetAuthority(clear) error = %v", err)
	}
	if ix.Data[2] != 0 {
		t.Errorf("expected presence flag 0, got data %v", ix.Data)
	}
}

// AuthorityOwner is a tiny local helper matching the spec's "owner" type=2.
func AuthorityOwner() AuthorityType { return AuthorityAccountOwner }

func TestMintTo_PlainAndChecked(t *testing.T) {
	mint, dest, authority := newKey(t), newKey(t), newKey(t)

	ix, err := MintTo(mint, dest, authority, 1000, nil, CheckedParams{})
	if err != nil {
		t.Fatalf("MintTo error = %v", err)
	}
	if ix.Data[0] != DiscMintTo {
		t.Errorf("discriminant = %d, want %d", ix.Data[0], DiscMintTo)
	}

	ix, err = MintTo(mint, dest, authority, 1000, nil, CheckedParams{Decimals: 9, HasDecimals: true, Mint: mint, HasMint: true})
	if err != nil {
		t.Fatalf("MintTo(checked) error = %v", err)
	}
	if ix.Data[0] != DiscMintToChecked {
		t.Errorf("discriminant = %d, want %d", ix.Data[0], DiscMintToChecked)
	}
}

func TestBurn_PlainAndChecked(t *testing.T) {
	account, mint, authority := newKey(t), newKey(t), newKey(t)

	ix, err := Burn(account, mint, authority, 1, nil, CheckedParams{})
	if err != nil {
		t.Fatalf("Burn error = %v", err)
	}
	if ix.Data[0] != DiscBurn {
		t.Errorf("discriminant = %d, want %d", ix.Data[0], DiscBurn)
	}

	ix, err = Burn(account, mint, authority, 1, nil, CheckedParams{Decimals: 0, HasDecimals: true, Mint: mint, HasMint: true})
	if err != nil {
		t.Fatalf("Burn(checked) error = %v", err)
	}
	if ix.Data[0] != DiscBurnChecked {
		t.Errorf("discriminant = %d, want %d", ix.Data[0], DiscBurnChecked)
	}
}

func TestCloseFreezeThawAccount(t *testing.T) {
	account, dest, mint, authority := newKey(t), newKey(t), newKey(t), newKey(t)

	ix, err := CloseAccount(account, dest, authority, nil)
	if err != nil {
		t.Fatalf("CloseAccount error = %v", err)
	}
	if ix.Data[0] != DiscCloseAccount {
		t.Errorf("discriminant = %d, want %d", ix.Data[0], DiscCloseAccount)
	}

	ix, err = FreezeAccount(account, mint, authority, nil)
	if err != nil {
		t.Fatalf("FreezeAccount error = %v", err)
	}
	if ix.Data[0] != DiscFreezeAccount {
		t.Errorf("discriminant = %d, want %d", ix.Data[0], DiscFreezeAccount)
	}

	ix, err = ThawAccount(account, mint, authority, nil)
	if err != nil {
		t.Fatalf("ThawAccount error = %v", err)
	}
	if ix.Data[0] != DiscThawAccount {
		t.Errorf("discriminant = %d, want %d", ix.Data[0], DiscThawAccount)
	}
}

func TestInitializeMultisig_ValidatesM(t *testing.T) {
	multisig := newKey(t)
	signers := []solkey.Key{newKey(t), newKey(t), newKey(t)}

	if _, err := InitializeMultisig(multisig, 2, signers); err != nil {
		t.Errorf("InitializeMultisig(m=2) error = %v, want nil", err)
	}
	if _, err := InitializeMultisig(multisig, 0, signers); !errors.Is(err, config.ErrInvalidSchema) {
		t.Error("expected ErrInvalidSchema for m=0")
	}
	if _, err := InitializeMultisig(multisig, 12, signers); !errors.Is(err, config.ErrInvalidSchema) {
		t.Error("expected ErrInvalidSchema for m=12")
	}
	if _, err := InitializeMultisig(multisig, 4, signers); !errors.Is(err, config.ErrInvalidSchema) {
		t.Error("expected ErrInvalidSchema for m exceeding signer count")
	}
}

func TestInitializeMultisig_AccountLayout(t *testing.T) {
	multisig := newKey(t)
	signers := []solkey.Key{newKey(t), newKey(t)}

	ix, err := InitializeMultisig(multisig, 2, signers)
	if err != nil {
		t.Fatalf("InitializeMultisig error = %v", err)
	}
	// multisig, rent sysvar, signer1, signer2 = 4
	if len(ix.Accounts) != 4 {
		t.Fatalf("got %d accounts, want 4", len(ix.Accounts))
	}
	if ix.Accounts[1].PubKey != RentSysvar {
		t.Error("second account must be the rent sysvar")
	}
}
