package wallet

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportImportRoundTrip(t *testing.T) {
	m := newTestManager(t)
	entry, err := m.CreateRandom("original")
	require.NoError(t, err)
	seed, err := m.Reveal("original")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "original.export.json")
	require.NoError(t, m.ExportEncrypted("original", path, []byte("correct horse")))

	// The export file holds the address in the clear but never the seed.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var out exportFile
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, entry.Address, out.Address)
	assert.Equal(t, "solana", out.Network)
	assert.NotEmpty(t, out.CipherText)

	imported, err := m.ImportEncrypted(path, "copy", []byte("correct horse"))
	require.NoError(t, err)
	assert.Equal(t, entry.Address, imported.Address)

	got, err := m.Reveal("copy")
	require.NoError(t, err)
	assert.Equal(t, seed, got)
}

func TestImportEncryptedWrongPassword(t *testing.T) {
	m := newTestManager(t)
	_, err := m.CreateRandom("w")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "w.export.json")
	require.NoError(t, m.ExportEncrypted("w", path, []byte("right")))

	_, err = m.ImportEncrypted(path, "copy", []byte("wrong"))
	assert.ErrorIs(t, err, ErrExportAuth)
}

func TestExportRefusesExistingTarget(t *testing.T) {
	m := newTestManager(t)
	_, err := m.CreateRandom("w")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "taken.json")
	require.NoError(t, os.WriteFile(path, []byte("occupied"), 0o600))

	err = m.ExportEncrypted("w", path, []byte("pw"))
	assert.ErrorIs(t, err, os.ErrExist)
}

func TestExportMissingWalletAndEmptyPassword(t *testing.T) {
	m := newTestManager(t)
	_, err := m.CreateRandom("w")
	require.NoError(t, err)

	assert.Error(t, m.ExportEncrypted("w", filepath.Join(t.TempDir(), "x.json"), nil))

	err = m.ExportEncrypted("ghost", filepath.Join(t.TempDir(), "y.json"), []byte("pw"))
	assert.Error(t, err)
}

func TestImportEncryptedUnreadableFile(t *testing.T) {
	m := newTestManager(t)
	path := filepath.Join(t.TempDir(), "garbage.json")
	require.NoError(t, os.WriteFile(path, []byte("not an export"), 0o600))

	_, err := m.ImportEncrypted(path, "w", []byte("pw"))
	assert.Error(t, err)
}
