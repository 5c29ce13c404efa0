// Package solkey implements Solana key and address primitives: ed25519
// keypair generation, base58 coding, curve-membership testing, and the
// seed-based address derivation rules used by program-derived addresses.
package solkey

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"math/big"

	"github.com/mr-tron/base58"

	"github.com/solforge/svmsdk/internal/config"
)

// KeySize is the fixed byte length of a Solana key, address, or program id.
const KeySize = 32

// SignatureSize is the fixed byte length of an ed25519 signature.
const SignatureSize = 64

// pdaMarker is appended to the seed list before hashing in DeriveAddress,
// matching the on-chain "ProgramDerivedAddress" domain separator.
const pdaMarker = "ProgramDerivedAddress"

// Key is a 32-byte value: a public key, a PDA, or any other Solana address.
type Key [KeySize]byte

// Signature is a 64-byte ed25519 signature.
type Signature [SignatureSize]byte

// Keypair is an ed25519 secret/public key pair.
type Keypair struct {
	Secret ed25519.PrivateKey
	Public Key
}

// GenerateKeypair samples 32 bytes of OS entropy and derives the
// corresponding ed25519 public key.
func GenerateKeypair() (Keypair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return Keypair{}, fmt.Errorf("solkey: generate keypair: %w", err)
	}
	var key Key
	copy(key[:], pub)
	return Keypair{Secret: priv, Public: key}, nil
}

// KeypairFromSecret reconstructs a Keypair from a 64-byte ed25519
// secret key (seed ‖ public key, the format Solana CLI keypair files
// and this package's own keygen output use).
func KeypairFromSecret(secret []byte) (Keypair, error) {
	if len(secret) != ed25519.PrivateKeySize {
		return Keypair{}, fmt.Errorf("%w: secret key must be %d bytes, got %d", config.ErrInvalidKey, ed25519.PrivateKeySize, len(secret))
	}
	var key Key
	copy(key[:], secret[ed25519.SeedSize:])
	return Keypair{Secret: ed25519.PrivateKey(secret), Public: key}, nil
}

// Sign signs msg with the keypair's secret key.
func (k Keypair) Sign(msg []byte) Signature {
	var sig Signature
	copy(sig[:], ed25519.Sign(k.Secret, msg))
	return sig
}

// ToBase58 returns the base58 encoding of the key.
func (k Key) ToBase58() string {
	return base58.Encode(k[:])
}

// IsZero reports whether the key is the all-zero key.
func (k Key) IsZero() bool {
	return k == Key{}
}

// Decode base58-decodes s and requires the result be exactly KeySize bytes.
func Decode(s string) (Key, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return Key{}, fmt.Errorf("%w: invalid base58: %v", config.ErrInvalidKey, err)
	}
	if len(raw) != KeySize {
		return Key{}, fmt.Errorf("%w: decoded length %d, want %d", config.ErrInvalidKey, len(raw), KeySize)
	}
	var key Key
	copy(key[:], raw)
	return key, nil
}

// Check reports whether b is a valid-length key (exactly KeySize bytes).
func Check(b []byte) bool {
	return len(b) == KeySize
}

// DecodeSignature base58-decodes s and requires the result be exactly
// SignatureSize bytes.
func DecodeSignature(s string) (Signature, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return Signature{}, fmt.Errorf("%w: invalid base58: %v", config.ErrInvalidKey, err)
	}
	if len(raw) != SignatureSize {
		return Signature{}, fmt.Errorf("%w: decoded length %d, want %d", config.ErrInvalidKey, len(raw), SignatureSize)
	}
	var sig Signature
	copy(sig[:], raw)
	return sig, nil
}

// CheckSignature reports whether b is a valid-length signature (exactly
// SignatureSize bytes).
func CheckSignature(b []byte) bool {
	return len(b) == SignatureSize
}

// Seed is a single PDA seed component: either raw bytes (length <= 32) or
// a small integer in 0..=255, encoded as a single byte.
type Seed []byte

// SeedBytes wraps arbitrary bytes as a seed. Returns ErrInvalidSeeds if
// longer than 32 bytes.
func SeedBytes(b []byte) (Seed, error) {
	if len(b) > KeySize {
		return nil, fmt.Errorf("%w: seed length %d exceeds %d bytes", config.ErrInvalidSeeds, len(b), KeySize)
	}
	return Seed(b), nil
}

// SeedString wraps a UTF-8 string as a seed.
func SeedString(s string) (Seed, error) {
	return SeedBytes([]byte(s))
}

// SeedByte wraps a single small integer (0..=255) as a one-byte seed,
// used to append the bump seed in PDA derivation.
func SeedByte(b byte) Seed {
	return Seed([]byte{b})
}

// WithSeed computes sha256(base || seed || programID) and returns that
// digest as a key. seed is an arbitrary-length UTF-8 string; callers
// typically keep it <= 32 bytes but this function does not enforce that.
func WithSeed(base Key, seed string, programID Key) Key {
	h := sha256.New()
	h.Write(base[:])
	h.Write([]byte(seed))
	h.Write(programID[:])
	var out Key
	copy(out[:], h.Sum(nil))
	return out
}

// DeriveAddress computes sha256(seeds... || programID || "ProgramDerivedAddress")
// and returns it as a Key, provided the result is off the ed25519 curve.
// Returns ErrInvalidSeeds if any seed exceeds 32 bytes or if the derived
// digest lies on the curve.
func DeriveAddress(seeds []Seed, programID Key) (Key, error) {
	h := sha256.New()
	for i, seed := range seeds {
		if len(seed) > KeySize {
			return Key{}, fmt.Errorf("%w: seed %d length %d exceeds %d bytes", config.ErrInvalidSeeds, i, len(seed), KeySize)
		}
		h.Write(seed)
	}
	h.Write(programID[:])
	h.Write([]byte(pdaMarker))

	var digest Key
	copy(digest[:], h.Sum(nil))

	if isOnCurve(digest[:]) {
		return Key{}, fmt.Errorf("%w: derived address is on the ed25519 curve", config.ErrInvalidSeeds)
	}
	return digest, nil
}

// FindAddress iterates bump seeds from 255 down to 1 (never trying 0),
// returning the first off-curve address produced by DeriveAddress along
// with the bump that produced it. Fails with ErrNoNonce only if no bump
// in that range succeeds, which in practice never happens.
func FindAddress(seeds []Seed, programID Key) (Key, byte, error) {
	for bump := 255; bump >= 1; bump-- {
		candidateSeeds := make([]Seed, len(seeds), len(seeds)+1)
		copy(candidateSeeds, seeds)
		candidateSeeds = append(candidateSeeds, SeedByte(byte(bump)))

		addr, err := DeriveAddress(candidateSeeds, programID)
		if err == nil {
			return addr, byte(bump), nil
		}
	}
	return Key{}, 0, fmt.Errorf("%w: no bump seed in 255..=1 produced an off-curve address", config.ErrNoNonce)
}

// Edwards25519 field prime p = 2^255 - 19.
var edwardsP = func() *big.Int {
	p := new(big.Int).Lsh(big.NewInt(1), 255)
	p.Sub(p, big.NewInt(19))
	return p
}()

// Edwards25519 curve parameter d = -121665/121666 mod p.
var edwardsD = func() *big.Int {
	num := big.NewInt(-121665)
	den := big.NewInt(121666)
	denInv := new(big.Int).ModInverse(den, edwardsP)
	d := new(big.Int).Mul(num, denInv)
	d.Mod(d, edwardsP)
	return d
}()

// isOnCurve reports whether the 32-byte little-endian encoding key
// represents a valid point on the ed25519 (twisted Edwards) curve
// -x^2 + y^2 = 1 + d*x^2*y^2 mod p.
//
// The encoding's top bit is the sign of x and is cleared before decoding
// y; a candidate x^2 is solved for via the curve equation and tested for
// being a quadratic residue mod p via Euler's criterion. Points that
// decode to no valid x are off-curve, which is exactly the property PDA
// derivation relies on.
func isOnCurve(key []byte) bool {
	if len(key) != KeySize {
		return false
	}

	yBytes := make([]byte, KeySize)
	copy(yBytes, key)
	yBytes[31] &= 0x7F // clear the sign bit, it encodes x's parity, not part of y

	y := littleEndianToBigInt(yBytes)
	if y.Cmp(edwardsP) >= 0 {
		return false
	}

	y2 := new(big.Int).Mul(y, y)
	y2.Mod(y2, edwardsP)

	numerator := new(big.Int).Sub(y2, big.NewInt(1))
	numerator.Mod(numerator, edwardsP)

	denominator := new(big.Int).Mul(edwardsD, y2)
	denominator.Add(denominator, big.NewInt(1))
	denominator.Mod(denominator, edwardsP)

	if denominator.Sign() == 0 {
		return false
	}

	denomInv := new(big.Int).ModInverse(denominator, edwardsP)
	if denomInv == nil {
		return false
	}

	x2 := new(big.Int).Mul(numerator, denomInv)
	x2.Mod(x2, edwardsP)

	if x2.Sign() == 0 {
		// x = 0 is a valid point (the neutral-adjacent point); on-curve.
		return true
	}

	return isQuadraticResidue(x2)
}

// isQuadraticResidue reports whether a has a square root mod edwardsP,
// via Euler's criterion: a^((p-1)/2) mod p == 1.
func isQuadraticResidue(a *big.Int) bool {
	exp := new(big.Int).Sub(edwardsP, big.NewInt(1))
	exp.Div(exp, big.NewInt(2))
	result := new(big.Int).Exp(a, exp, edwardsP)
	return result.Cmp(big.NewInt(1)) == 0
}

func littleEndianToBigInt(b []byte) *big.Int {
	be := make([]byte, len(b))
	for i, v := range b {
		be[len(b)-1-i] = v
	}
	return new(big.Int).SetBytes(be)
}

// IsOnCurve reports whether key lies on the ed25519 curve (i.e. could be
// a valid ed25519 public key with a corresponding private key), as
// opposed to being a program-derived address.
func IsOnCurve(key Key) bool {
	return isOnCurve(key[:])
}
