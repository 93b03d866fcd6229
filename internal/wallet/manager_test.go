package wallet

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexZinkM/solkeep/internal/keypair"
	"github.com/AlexZinkM/solkeep/internal/store"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	var key [32]byte
	_, err := io.ReadFull(rand.Reader, key[:])
	require.NoError(t, err)

	s, err := store.Open(filepath.Join(t.TempDir(), "wallets.json"), key)
	require.NoError(t, err)
	return NewManager(s)
}

func writeKeypairFile(t *testing.T, dir string, priv ed25519.PrivateKey) string {
	t.Helper()
	values := make([]int, len(priv))
	for i, b := range priv {
		values[i] = int(b)
	}
	data, err := json.Marshal(values)
	require.NoError(t, err)
	path := filepath.Join(dir, "keypair.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestImportThenRevealByteEqual(t *testing.T) {
	m := newTestManager(t)

	var seed [32]byte
	seed[0] = 1
	priv := ed25519.NewKeyFromSeed(seed[:])
	path := writeKeypairFile(t, t.TempDir(), priv)

	entry, err := m.Import(path, "w1")
	require.NoError(t, err)
	assert.Equal(t, "w1", entry.ID)

	list, err := m.List()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "w1", list[0].ID)
	assert.Equal(t, entry.Address, list[0].Address)

	got, err := m.Reveal("w1")
	require.NoError(t, err)
	assert.Equal(t, seed, got)
}

func TestImportDuplicateID(t *testing.T) {
	m := newTestManager(t)
	dir := t.TempDir()

	_, privA, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	pathA := writeKeypairFile(t, dir, privA)

	_, err = m.Import(pathA, "w1")
	require.NoError(t, err)

	_, privB, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	pathB := writeKeypairFile(t, t.TempDir(), privB)

	_, err = m.Import(pathB, "w1")
	assert.ErrorIs(t, err, store.ErrDuplicateID)

	list, err := m.List()
	require.NoError(t, err)
	assert.Len(t, list, 1, "failed import must leave the list unchanged")
}

func TestImportInvalidFile(t *testing.T) {
	m := newTestManager(t)
	path := filepath.Join(t.TempDir(), "junk.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not":"a keypair"}`), 0o600))

	_, err := m.Import(path, "w1")
	assert.ErrorIs(t, err, keypair.ErrParse)

	list, err := m.List()
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreateRandom(t *testing.T) {
	m := newTestManager(t)

	entry, err := m.CreateRandom("fresh")
	require.NoError(t, err)
	assert.Equal(t, "fresh", entry.ID)
	assert.NotEmpty(t, entry.Address)

	seed, err := m.Reveal("fresh")
	require.NoError(t, err)
	kp := keypair.FromSeed(seed)
	assert.Equal(t, entry.Address, kp.Address(), "stored seed derives the listed address")
	kp.Zero()
}

func TestCreateRandomBlankIDGetsDefault(t *testing.T) {
	m := newTestManager(t)

	entry, err := m.CreateRandom("  ")
	require.NoError(t, err)
	assert.Regexp(t, `^wallet_[0-9a-f-]{8}$`, entry.ID)
}

func TestDeleteThenReimport(t *testing.T) {
	m := newTestManager(t)

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	path := writeKeypairFile(t, t.TempDir(), priv)

	_, err = m.Import(path, "w1")
	require.NoError(t, err)
	require.NoError(t, m.Delete("w1"))

	_, err = m.Import(path, "w1")
	assert.NoError(t, err, "delete then insert with the same id succeeds")
}

func TestDeleteMissing(t *testing.T) {
	m := newTestManager(t)
	assert.ErrorIs(t, m.Delete("ghost"), store.ErrNotFound)
}

func TestSignerSignsVerifiably(t *testing.T) {
	m := newTestManager(t)

	entry, err := m.CreateRandom("signer")
	require.NoError(t, err)

	s, err := m.Signer("signer")
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, entry.Address, s.PublicKey().String())

	msg := []byte("transfer 1 lamport")
	sig, err := s.Sign(msg)
	require.NoError(t, err)
	assert.True(t, ed25519.Verify(s.PublicKey().Bytes(), msg, sig[:]))
}

func TestSignerClosedRefusesToSign(t *testing.T) {
	m := newTestManager(t)
	_, err := m.CreateRandom("w")
	require.NoError(t, err)

	s, err := m.Signer("w")
	require.NoError(t, err)
	s.Close()
	s.Close() // double close is fine

	_, err = s.Sign([]byte("msg"))
	assert.ErrorIs(t, err, ErrSignerClosed)
}

func TestSignerMissingWallet(t *testing.T) {
	m := newTestManager(t)
	_, err := m.Signer("ghost")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
