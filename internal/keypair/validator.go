package keypair

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ParseFile reads and validates a candidate keypair file. The file
// must hold a JSON array of exactly 64 integers in [0,255]; the first
// 32 are the Ed25519 seed, the last 32 the claimed public key. The
// claimed key must equal the one derived from the seed.
//
// The function never writes, never logs key bytes, and does not keep
// references to the file contents after return.
func ParseFile(path string) (Keypair, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Keypair{}, fmt.Errorf("failed to read keypair file: %w", err)
	}
	defer zero(raw)
	return Parse(raw)
}

// Parse validates raw keypair-file contents. See ParseFile.
func Parse(raw []byte) (Keypair, error) {
	var values []int64
	if err := json.Unmarshal(raw, &values); err != nil {
		return Keypair{}, fmt.Errorf("%w: %s", ErrParse, jsonErrHint(err))
	}
	if len(values) != KeypairLen {
		return Keypair{}, fmt.Errorf("%w: got %d elements", ErrParse, len(values))
	}

	buf := make([]byte, KeypairLen)
	defer zero(buf)
	for i, v := range values {
		if v < 0 || v > 255 {
			return Keypair{}, fmt.Errorf("%w: element %d out of byte range", ErrParse, i)
		}
		buf[i] = byte(v)
	}

	var seed [SeedLen]byte
	copy(seed[:], buf[:SeedLen])
	kp := FromSeed(seed)

	if subtle.ConstantTimeCompare(kp.Public.Bytes(), buf[SeedLen:]) != 1 {
		kp.Zero()
		return Keypair{}, ErrKeyMismatch
	}
	return kp, nil
}

// IsWalletFile reports whether the file parses as a valid keypair.
// Used as the scanner predicate; all failures collapse to false.
func IsWalletFile(path string) bool {
	kp, err := ParseFile(path)
	if err != nil {
		return false
	}
	kp.Zero()
	return true
}

// jsonErrHint keeps parse diagnostics structural: offsets and types
// only, never file contents.
func jsonErrHint(err error) string {
	var syn *json.SyntaxError
	if errors.As(err, &syn) {
		return fmt.Sprintf("invalid JSON at offset %d", syn.Offset)
	}
	var typ *json.UnmarshalTypeError
	if errors.As(err, &typ) {
		return fmt.Sprintf("unexpected %s at offset %d", typ.Value, typ.Offset)
	}
	return "invalid JSON"
}
