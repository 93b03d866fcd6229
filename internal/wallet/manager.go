// Package wallet orchestrates the keypair validator, the master-key
// custodian and the encrypted store into wallet-level operations.
package wallet

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/AlexZinkM/solkeep/internal/keypair"
	"github.com/AlexZinkM/solkeep/internal/store"
)

// Entry is the listing view of a wallet: no secret material.
type Entry struct {
	ID        string
	Address   string
	CreatedAt string
}

// Manager is the high-level CRUD surface over the encrypted store.
type Manager struct {
	store *store.Store
}

func NewManager(s *store.Store) *Manager {
	return &Manager{store: s}
}

// Import validates the keypair file at path and stores it under id.
// A blank id gets a generated wallet_<suffix> name.
func (m *Manager) Import(path, id string) (Entry, error) {
	kp, err := keypair.ParseFile(path)
	if err != nil {
		return Entry{}, err
	}
	defer kp.Zero()
	return m.insert(id, kp)
}

// CreateRandom generates a fresh keypair and stores it under id.
func (m *Manager) CreateRandom(id string) (Entry, error) {
	kp, err := keypair.Generate()
	if err != nil {
		return Entry{}, fmt.Errorf("failed to generate keypair: %w", err)
	}
	defer kp.Zero()
	return m.insert(id, kp)
}

// InsertKeypair stores an already-validated keypair (the vanity flow).
// The caller keeps ownership of kp and wipes it afterwards.
func (m *Manager) InsertKeypair(id string, kp keypair.Keypair) (Entry, error) {
	return m.insert(id, kp)
}

// Delete removes the wallet. Fails with store.ErrNotFound if absent.
func (m *Manager) Delete(id string) error {
	return m.store.Remove(id)
}

// List returns all wallets without decrypting anything.
func (m *Manager) List() ([]Entry, error) {
	records, err := m.store.List()
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(records))
	for _, r := range records {
		out = append(out, Entry{
			ID:        r.ID,
			Address:   r.PublicKey,
			CreatedAt: r.CreatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	return out, nil
}

// Signer decrypts the wallet's seed and returns a signing capability.
// The caller must Close it to wipe the key material.
func (m *Manager) Signer(id string) (*Signer, error) {
	seed, err := m.store.Reveal(id)
	if err != nil {
		return nil, err
	}
	s := newSigner(seed)
	for i := range seed {
		seed[i] = 0
	}
	return s, nil
}

// Reveal returns the wallet's raw 32-byte seed. The caller owns the
// secret and must wipe it. Prefer Signer where signing is the goal.
func (m *Manager) Reveal(id string) ([32]byte, error) {
	return m.store.Reveal(id)
}

func (m *Manager) insert(id string, kp keypair.Keypair) (Entry, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		id = defaultID()
	}
	if err := m.store.Insert(id, kp.Public, kp.Seed()); err != nil {
		return Entry{}, err
	}
	return Entry{ID: id, Address: kp.Address()}, nil
}

// defaultID builds wallet_<short-uuid> names for unnamed wallets.
func defaultID() string {
	return "wallet_" + uuid.NewString()[:8]
}
