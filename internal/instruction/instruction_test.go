package instruction

import (
	"bytes"
	"testing"

	"github.com/solforge/svmsdk/internal/solkey"
)

func TestBuilder_Uint32LE(t *testing.T) {
	got, err := NewBuilder().Uint32LE(1).Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	want := []byte{1, 0, 0, 0}
	if !bytes.Equal(got, want) {
		t.Errorf("Uint32LE(1) = %v, want %v", got, want)
	}
}

func TestBuilder_Uint32BE(t *testing.T) {
	got, err := NewBuilder().Uint32BE(1).Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	want := []byte{0, 0, 0, 1}
	if !bytes.Equal(got, want) {
		t.Errorf("Uint32BE(1) = %v, want %v", got, want)
	}
}

func TestBuilder_Uint64LE(t *testing.T) {
	got, err := NewBuilder().Uint64LE(1_000_000_000).Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	if len(got) != 8 {
		t.Fatalf("Uint64LE produced %d bytes, want 8", len(got))
	}
	want := []byte{0x00, 0xCA, 0x9A, 0x3B, 0, 0, 0, 0}
	if !bytes.Equal(got, want) {
		t.Errorf("Uint64LE(1e9) = %v, want %v", got, want)
	}
}

func TestBuilder_Bool(t *testing.T) {
	got, _ := NewBuilder().Bool(true).Bool(false).Bytes()
	want := []byte{1, 0}
	if !bytes.Equal(got, want) {
		t.Errorf("Bool(true,false) = %v, want %v", got, want)
	}
}

func TestBuilder_Str_TwoWordLengthPrefix(t *testing.T) {
	got, err := NewBuilder().Str("hi").Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	want := []byte{2, 0, 0, 0, 0, 0, 0, 0, 'h', 'i'}
	if !bytes.Equal(got, want) {
		t.Errorf("Str(\"hi\") = %v, want %v", got, want)
	}
}

func TestBuilder_Borsh_SingleWordLengthPrefix(t *testing.T) {
	got, err := NewBuilder().Borsh("hi").Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	want := []byte{2, 0, 0, 0, 'h', 'i'}
	if !bytes.Equal(got, want) {
		t.Errorf("Borsh(\"hi\") = %v, want %v", got, want)
	}
}

func TestBuilder_Key(t *testing.T) {
	var k solkey.Key
	for i := range k {
		k[i] = byte(i)
	}
	got, _ := NewBuilder().Key(k).Bytes()
	if !bytes.Equal(got, k[:]) {
		t.Errorf("Key() = %v, want %v", got, k[:])
	}
}

func TestBuilder_Raw(t *testing.T) {
	got, _ := NewBuilder().Raw([]byte{1, 2, 3}).Bytes()
	want := []byte{1, 2, 3}
	if !bytes.Equal(got, want) {
		t.Errorf("Raw() = %v, want %v", got, want)
	}
}

func TestBuilder_Chained(t *testing.T) {
	var owner solkey.Key
	owner[0] = 0xFF
	got, err := NewBuilder().
		Uint32LE(2). // discriminant
		Key(owner).
		Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	want := append([]byte{2, 0, 0, 0}, owner[:]...)
	if !bytes.Equal(got, want) {
		t.Errorf("chained builder = %v, want %v", got, want)
	}
}

func TestBuilder_EmptyProducesNonNilEmptySlice(t *testing.T) {
	got, err := NewBuilder().Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	if got == nil {
		t.Error("Bytes() on empty builder returned nil, want empty non-nil slice")
	}
	if len(got) != 0 {
		t.Errorf("Bytes() on empty builder = %v, want empty", got)
	}
}

func TestMetaConstructors(t *testing.T) {
	var k solkey.Key
	k[0] = 1

	s := Signer(k, true)
	if !s.IsSigner || !s.IsWriter {
		t.Errorf("Signer(k, true) = %+v, want signer+writable", s)
	}

	ro := ReadOnly(k)
	if ro.IsSigner || ro.IsWriter {
		t.Errorf("ReadOnly(k) = %+v, want neither flag set", ro)
	}

	w := Writable(k)
	if w.IsSigner || !w.IsWriter {
		t.Errorf("Writable(k) = %+v, want writable non-signer", w)
	}
}
