// Package keychain owns the 32-byte master key and binds it to the
// operating system's credential service.
package keychain

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/zalando/go-keyring"
)

const (
	// KeySize is the AES-256 master key length in bytes.
	KeySize = 32

	// account labels the single credential entry under the service.
	account = "solkeep-master-key"

	defaultService = "solkeep"

	// ServiceEnvVar overrides the service name, isolating test
	// processes from the real entry.
	ServiceEnvVar = "SOLKEEP_KEYRING_SERVICE"
)

// ErrUnavailable means the OS credential service refused or is absent.
var ErrUnavailable = errors.New("keychain: credential service unavailable")

// Custodian mediates access to the master key. The zero value is not
// usable; construct with New.
type Custodian struct {
	service string
}

// New builds a Custodian for the configured service name. An empty
// argument falls back to the environment override, then the default.
func New(service string) *Custodian {
	if service == "" {
		service = os.Getenv(ServiceEnvVar)
	}
	if service == "" {
		service = defaultService
	}
	return &Custodian{service: service}
}

// Acquire returns the master key, generating and persisting a fresh
// one on first use. Two concurrent first-time acquisitions converge:
// after writing, the entry is read back and the stored value wins, so
// a losing generator discards its own bytes.
func (c *Custodian) Acquire() ([KeySize]byte, error) {
	var key [KeySize]byte

	stored, err := keyring.Get(c.service, account)
	switch {
	case err == nil:
		return decodeKey(stored)
	case !errors.Is(err, keyring.ErrNotFound):
		return key, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	fresh := make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, fresh); err != nil {
		return key, fmt.Errorf("failed to generate master key: %w", err)
	}
	defer wipe(fresh)

	// Re-check before writing; another process may have won the race.
	if stored, err := keyring.Get(c.service, account); err == nil {
		return decodeKey(stored)
	}

	if err := keyring.Set(c.service, account, hex.EncodeToString(fresh)); err != nil {
		return key, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	// Read back: whatever the service holds now is the key everyone
	// uses, regardless of which writer got there last.
	stored, err = keyring.Get(c.service, account)
	if err != nil {
		return key, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return decodeKey(stored)
}

// Reset deletes the credential entry. Every record encrypted under the
// old key becomes unreadable; callers are expected to know that.
func (c *Custodian) Reset() error {
	err := keyring.Delete(c.service, account)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Service exposes the resolved service name (for diagnostics only).
func (c *Custodian) Service() string {
	return c.service
}

func decodeKey(stored string) ([KeySize]byte, error) {
	var key [KeySize]byte
	raw, err := hex.DecodeString(stored)
	if err != nil {
		return key, fmt.Errorf("keychain: stored master key is not valid hex")
	}
	defer wipe(raw)
	if len(raw) != KeySize {
		return key, fmt.Errorf("keychain: stored master key has length %d, want %d", len(raw), KeySize)
	}
	copy(key[:], raw)
	return key, nil
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
