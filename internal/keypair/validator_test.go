package keypair

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeKeypairFile writes the canonical 64-int JSON array format.
func writeKeypairFile(t *testing.T, name string, bytes []byte) string {
	t.Helper()
	values := make([]int, len(bytes))
	for i, b := range bytes {
		values[i] = int(b)
	}
	data, err := json.Marshal(values)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func testPrivateKey(t *testing.T) ed25519.PrivateKey {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return priv
}

func TestParseFileValid(t *testing.T) {
	priv := testPrivateKey(t)
	path := writeKeypairFile(t, "wallet.json", priv)

	kp, err := ParseFile(path)
	require.NoError(t, err)

	assert.Equal(t, []byte(priv[32:]), kp.Public.Bytes())
	seed := kp.Seed()
	assert.Equal(t, []byte(priv[:32]), seed[:])
}

func TestParseFileKnownSeed(t *testing.T) {
	// seed = [1, 0, 0, ...]; the claimed public key must be the one
	// derived from it.
	var seed [32]byte
	seed[0] = 1
	priv := ed25519.NewKeyFromSeed(seed[:])
	path := writeKeypairFile(t, "known.json", priv)

	kp, err := ParseFile(path)
	require.NoError(t, err)
	got := kp.Seed()
	assert.Equal(t, seed, got)
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrParse)
	assert.NotErrorIs(t, err, ErrKeyMismatch)
}

func TestParseFileWrongShape(t *testing.T) {
	priv := testPrivateKey(t)

	tests := []struct {
		name    string
		content string
	}{
		{"empty file", ""},
		{"not json", "this is not JSON at all"},
		{"object", `{"privateKey": "abc"}`},
		{"too short", "[1,2,3,4,5]"},
		{"non numeric element", `[1,2,"three",4]`},
		{"float element", "[1.5," + intsJSON(priv[1:]) + "]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			_, err := ParseFile(path)
			assert.ErrorIs(t, err, ErrParse)
		})
	}
}

func TestParseOffByOneLengths(t *testing.T) {
	priv := testPrivateKey(t)

	short := writeKeypairFile(t, "short.json", priv[:63])
	_, err := ParseFile(short)
	assert.ErrorIs(t, err, ErrParse, "63 bytes must be a parse error, not a key mismatch")

	long := writeKeypairFile(t, "long.json", append([]byte(nil), append(priv, 7)...))
	_, err = ParseFile(long)
	assert.ErrorIs(t, err, ErrParse, "65 bytes must be a parse error, not a key mismatch")
}

func TestParseOutOfByteRange(t *testing.T) {
	_, err := Parse([]byte("[" + intsJSON(make([]byte, 63)) + ",256]"))
	assert.ErrorIs(t, err, ErrParse)

	_, err = Parse([]byte("[-1," + intsJSON(make([]byte, 63)) + "]"))
	assert.ErrorIs(t, err, ErrParse)
}

func TestParseKeyMismatch(t *testing.T) {
	priv := testPrivateKey(t)
	tampered := append([]byte(nil), priv...)
	tampered[40] ^= 0xff // flip a bit in the claimed public key

	path := writeKeypairFile(t, "mismatch.json", tampered)
	_, err := ParseFile(path)
	assert.ErrorIs(t, err, ErrKeyMismatch)
}

func TestIsWalletFile(t *testing.T) {
	priv := testPrivateKey(t)
	good := writeKeypairFile(t, "good.json", priv)
	assert.True(t, IsWalletFile(good))

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("[1,2,3]"), 0o600))
	assert.False(t, IsWalletFile(bad))
	assert.False(t, IsWalletFile(filepath.Join(t.TempDir(), "missing.json")))
}

func TestGenerateRoundTrip(t *testing.T) {
	kp, err := Generate()
	require.NoError(t, err)

	// The derived private key must reproduce the public key.
	pk := kp.PrivateKey()
	assert.Equal(t, kp.Public.Bytes(), []byte(pk[32:]))
}

func TestZeroWipesSeed(t *testing.T) {
	kp, err := Generate()
	require.NoError(t, err)
	kp.Zero()
	assert.Equal(t, [32]byte{}, kp.Seed())
}

// intsJSON renders bytes as a comma-separated int list (no brackets).
func intsJSON(b []byte) string {
	data, _ := json.Marshal(b2i(b))
	return string(data[1 : len(data)-1])
}

func b2i(b []byte) []int {
	out := make([]int, len(b))
	for i, v := range b {
		out[i] = int(v)
	}
	return out
}
