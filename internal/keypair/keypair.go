// Package keypair parses and validates Solana keypair files: a JSON
// array of 64 integers in [0,255], seed first, public key second.
package keypair

import (
	"crypto/ed25519"
	"errors"

	"github.com/gagliardetto/solana-go"
)

const (
	SeedLen    = 32
	KeypairLen = 64
)

var (
	// ErrParse means the file is structurally not a keypair file.
	ErrParse = errors.New("keypair: file is not a 64-byte keypair array")
	// ErrKeyMismatch means the claimed public key does not derive from the seed.
	ErrKeyMismatch = errors.New("keypair: public key does not match seed")
)

// Keypair holds a validated Ed25519 seed and its derived public key.
// Callers that are done with the secret half should call Zero.
type Keypair struct {
	seed   [SeedLen]byte
	Public solana.PublicKey
}

// FromSeed derives the public key and builds a Keypair.
func FromSeed(seed [SeedLen]byte) Keypair {
	priv := ed25519.NewKeyFromSeed(seed[:])
	return Keypair{
		seed:   seed,
		Public: solana.PublicKeyFromBytes(priv[SeedLen:]),
	}
}

// FromPrivateKey wraps a full 64-byte private key.
func FromPrivateKey(pk solana.PrivateKey) (Keypair, error) {
	if len(pk) != KeypairLen {
		return Keypair{}, ErrParse
	}
	var seed [SeedLen]byte
	copy(seed[:], pk[:SeedLen])
	return FromSeed(seed), nil
}

// Generate creates a fresh keypair from the CSPRNG.
func Generate() (Keypair, error) {
	pk, err := solana.NewRandomPrivateKey()
	if err != nil {
		return Keypair{}, err
	}
	kp, err := FromPrivateKey(pk)
	zero(pk)
	return kp, err
}

// Seed returns a copy of the 32-byte seed.
func (k *Keypair) Seed() [SeedLen]byte {
	return k.seed
}

// PrivateKey materializes the full 64-byte private key. The caller
// owns the returned slice and must wipe it when done.
func (k *Keypair) PrivateKey() solana.PrivateKey {
	priv := ed25519.NewKeyFromSeed(k.seed[:])
	out := make([]byte, KeypairLen)
	copy(out, priv)
	zero(priv)
	return solana.PrivateKey(out)
}

// Address returns the Base58 form of the public key.
func (k *Keypair) Address() string {
	return k.Public.String()
}

// Zero wipes the seed in place.
func (k *Keypair) Zero() {
	for i := range k.seed {
		k.seed[i] = 0
	}
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
