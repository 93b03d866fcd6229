package wallet

import (
	"errors"
	"sync"

	"github.com/gagliardetto/solana-go"

	"github.com/AlexZinkM/solkeep/internal/keypair"
)

// ErrSignerClosed means the capability was used after Close.
var ErrSignerClosed = errors.New("wallet: signer closed")

// Signer is a single-wallet signing capability. It holds the private
// key for the narrowest scope possible and wipes it on Close. The
// embedded mutex makes the type non-copyable under vet.
type Signer struct {
	mu   sync.Mutex
	priv solana.PrivateKey
	pub  solana.PublicKey
}

func newSigner(seed [32]byte) *Signer {
	kp := keypair.FromSeed(seed)
	defer kp.Zero()
	for i := range seed {
		seed[i] = 0
	}
	return &Signer{priv: kp.PrivateKey(), pub: kp.Public}
}

// PublicKey returns the signing identity.
func (s *Signer) PublicKey() solana.PublicKey {
	return s.pub
}

// Sign produces an Ed25519 signature over msg.
func (s *Signer) Sign(msg []byte) (solana.Signature, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.priv == nil {
		return solana.Signature{}, ErrSignerClosed
	}
	return s.priv.Sign(msg)
}

// Close wipes the private key. Safe to call more than once.
func (s *Signer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.priv {
		s.priv[i] = 0
	}
	s.priv = nil
}
