// Package instruction defines the untyped Solana instruction value and the
// primitive field encoder every program builder uses to assemble its data
// blob.
package instruction

import (
	"encoding/binary"
	"fmt"

	"github.com/solforge/svmsdk/internal/solkey"
)

// AccountMeta is an instruction-scoped account reference: a key plus the
// two privilege flags the transaction compiler reads when building the
// account table.
type AccountMeta struct {
	PubKey   solkey.Key
	IsSigner bool
	IsWriter bool
}

// Meta constructs an AccountMeta.
func Meta(pubKey solkey.Key, isSigner, isWriter bool) AccountMeta {
	return AccountMeta{PubKey: pubKey, IsSigner: isSigner, IsWriter: isWriter}
}

// Signer constructs a signing AccountMeta, writable only if writable is true.
func Signer(pubKey solkey.Key, writable bool) AccountMeta {
	return AccountMeta{PubKey: pubKey, IsSigner: true, IsWriter: writable}
}

// ReadOnly constructs a non-signing, non-writable AccountMeta.
func ReadOnly(pubKey solkey.Key) AccountMeta {
	return AccountMeta{PubKey: pubKey, IsSigner: false, IsWriter: false}
}

// Writable constructs a non-signing, writable AccountMeta.
func Writable(pubKey solkey.Key) AccountMeta {
	return AccountMeta{PubKey: pubKey, IsSigner: false, IsWriter: true}
}

// Instruction is a program invocation: the program to run, the ordered
// list of accounts it touches, and an opaque data payload whose layout is
// program-specific.
type Instruction struct {
	ProgramID solkey.Key
	Accounts  []AccountMeta
	Data      []byte
}

// New constructs an Instruction.
func New(programID solkey.Key, accounts []AccountMeta, data []byte) Instruction {
	return Instruction{ProgramID: programID, Accounts: accounts, Data: data}
}

// Builder accumulates primitive fields into an instruction's opaque data
// blob, mirroring the source layout every program builder in C6 uses.
type Builder struct {
	buf []byte
	err error
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Bytes returns the accumulated data blob, or any error encountered while
// building it.
func (b *Builder) Bytes() ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.buf == nil {
		return []byte{}, nil
	}
	return b.buf, nil
}

// Uint32LE appends a little-endian 32-bit unsigned integer.
func (b *Builder) Uint32LE(v uint32) *Builder {
	if b.err != nil {
		return b
	}
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
	return b
}

// Uint32BE appends a big-endian 32-bit unsigned integer.
func (b *Builder) Uint32BE(v uint32) *Builder {
	if b.err != nil {
		return b
	}
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
	return b
}

// Uint64LE appends a little-endian 64-bit unsigned integer.
func (b *Builder) Uint64LE(v uint64) *Builder {
	if b.err != nil {
		return b
	}
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
	return b
}

// Uint64BE appends a big-endian 64-bit unsigned integer.
func (b *Builder) Uint64BE(v uint64) *Builder {
	if b.err != nil {
		return b
	}
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
	return b
}

// Uint8 appends a bare single-byte integer.
func (b *Builder) Uint8(v uint8) *Builder {
	if b.err != nil {
		return b
	}
	b.buf = append(b.buf, v)
	return b
}

// Bool appends a single byte, 1 for true and 0 for false.
func (b *Builder) Bool(v bool) *Builder {
	if b.err != nil {
		return b
	}
	if v {
		b.buf = append(b.buf, 1)
	} else {
		b.buf = append(b.buf, 0)
	}
	return b
}

// Key appends the 32 raw bytes of a key.
func (b *Builder) Key(k solkey.Key) *Builder {
	if b.err != nil {
		return b
	}
	b.buf = append(b.buf, k[:]...)
	return b
}

// Raw appends data verbatim, with no length prefix.
func (b *Builder) Raw(data []byte) *Builder {
	if b.err != nil {
		return b
	}
	b.buf = append(b.buf, data...)
	return b
}

// Str appends a string the way the source seed-string fields do: a
// 4-byte little-endian length followed by 4 zero bytes (together an
// 8-byte length field carried as two little-endian u32 words, with the
// high word always zero) followed by the UTF-8 bytes. See the resolved
// Open Question in the design notes — the two-word shape is kept
// explicit rather than collapsed into one u64 write.
func (b *Builder) Str(s string) *Builder {
	if b.err != nil {
		return b
	}
	data := []byte(s)
	if uint64(len(data)) > 0xFFFFFFFF {
		b.err = fmt.Errorf("instruction: string field too long: %d bytes", len(data))
		return b
	}
	var lenLow [4]byte
	binary.LittleEndian.PutUint32(lenLow[:], uint32(len(data)))
	b.buf = append(b.buf, lenLow[:]...)
	b.buf = append(b.buf, 0, 0, 0, 0)
	b.buf = append(b.buf, data...)
	return b
}

// Borsh appends a string as a borsh-style 4-byte little-endian length
// prefix followed by bytes (no zero-padded high word).
func (b *Builder) Borsh(s string) *Builder {
	if b.err != nil {
		return b
	}
	data := []byte(s)
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], uint32(len(data)))
	b.buf = append(b.buf, tmp[:]...)
	b.buf = append(b.buf, data...)
	return b
}
