package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDefaults(t *testing.T) {
	require.NoError(t, Init())
	c := Get()

	assert.Equal(t, "solkeep", c.KeyringService)
	assert.Equal(t, "https://api.mainnet-beta.solana.com", c.SolanaRPCURL)
	assert.Equal(t, 10, c.ScanMaxDepth)
	assert.Equal(t, 100, c.ScanMaxFiles)
	assert.Equal(t, 120, c.VanityTimeoutSeconds)
	assert.Equal(t, "info", c.LogLevel)
}

func TestInitEnvOverrides(t *testing.T) {
	t.Setenv("SOLKEEP_KEYRING_SERVICE", "solkeep-test")
	t.Setenv("SOLKEEP_SCAN_MAX_DEPTH", "3")
	t.Setenv("SOLKEEP_RPC_URL", "http://localhost:8899")

	require.NoError(t, Init())
	c := Get()
	assert.Equal(t, "solkeep-test", c.KeyringService)
	assert.Equal(t, 3, c.ScanMaxDepth)
	assert.Equal(t, "http://localhost:8899", c.SolanaRPCURL)
}

func TestStorePathOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SOLKEEP_STORE_PATH", dir+"/nested/wallets.json")
	require.NoError(t, Init())

	path, err := StoreFilePath()
	require.NoError(t, err)
	assert.Equal(t, dir+"/nested/wallets.json", path)
}
