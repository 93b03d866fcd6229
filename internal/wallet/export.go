package wallet

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/scrypt"

	"github.com/AlexZinkM/solkeep/internal/keypair"
)

// scrypt parameters for exported wallet files.
//
// N=2^18 (~256MB RAM, 0.5-2s) keeps brute force expensive while still
// working on memory-constrained machines.
const (
	scryptN      = 1 << 18
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 32

	exportSaltLen  = 32
	exportNonceLen = 12

	exportNetwork = "solana"
)

// ErrExportAuth means the export file's password was wrong or the
// file was tampered with.
var ErrExportAuth = errors.New("wallet: export decryption failed")

// exportFile is the portable single-wallet file layout. The seed is
// sealed under a password-derived key, so the file can move between
// machines independently of the master key.
type exportFile struct {
	Network    string `json:"network"`
	Address    string `json:"address"`
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	CipherText string `json:"cipherText"`
}

// ExportEncrypted writes the wallet's seed to path, sealed with a key
// derived from password. password should be wiped by the caller.
func (m *Manager) ExportEncrypted(id, path string, password []byte) error {
	if len(password) == 0 {
		return errors.New("wallet: export password cannot be empty")
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("wallet: export target already exists: %w", os.ErrExist)
	}

	seed, err := m.store.Reveal(id)
	if err != nil {
		return err
	}
	defer func() {
		for i := range seed {
			seed[i] = 0
		}
	}()
	kp := keypair.FromSeed(seed)
	defer kp.Zero()

	salt := make([]byte, exportSaltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}
	nonce := make([]byte, exportNonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}

	aead, err := passwordAEAD(password, salt)
	if err != nil {
		return err
	}
	sealed := aead.Seal(nil, nonce, seed[:], nil)

	out := exportFile{
		Network:    exportNetwork,
		Address:    kp.Address(),
		Salt:       base64.StdEncoding.EncodeToString(salt),
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		CipherText: base64.StdEncoding.EncodeToString(sealed),
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal export file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}

// ImportEncrypted reads a file written by ExportEncrypted and stores
// the wallet under id.
func (m *Manager) ImportEncrypted(path, id string, password []byte) (Entry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to read export file: %w", err)
	}

	var in exportFile
	if err := json.Unmarshal(raw, &in); err != nil {
		return Entry{}, fmt.Errorf("wallet: export file unreadable: %w", err)
	}

	salt, err := base64.StdEncoding.DecodeString(in.Salt)
	if err != nil {
		return Entry{}, errors.New("wallet: export file has invalid salt")
	}
	nonce, err := base64.StdEncoding.DecodeString(in.Nonce)
	if err != nil || len(nonce) != exportNonceLen {
		return Entry{}, errors.New("wallet: export file has invalid nonce")
	}
	sealed, err := base64.StdEncoding.DecodeString(in.CipherText)
	if err != nil {
		return Entry{}, errors.New("wallet: export file has invalid ciphertext")
	}

	aead, err := passwordAEAD(password, salt)
	if err != nil {
		return Entry{}, err
	}
	plain, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return Entry{}, ErrExportAuth
	}
	defer func() {
		for i := range plain {
			plain[i] = 0
		}
	}()
	if len(plain) != keypair.SeedLen {
		return Entry{}, errors.New("wallet: export file holds unexpected payload")
	}

	var seed [keypair.SeedLen]byte
	copy(seed[:], plain)
	kp := keypair.FromSeed(seed)
	defer kp.Zero()
	for i := range seed {
		seed[i] = 0
	}

	// The address field is advisory; the derived key is authoritative.
	if in.Address != "" && in.Address != kp.Address() {
		return Entry{}, errors.New("wallet: export file address does not match its key")
	}
	return m.insert(id, kp)
}

func passwordAEAD(password, salt []byte) (cipher.AEAD, error) {
	key, err := scrypt.Key(password, salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	defer func() {
		for i := range key {
			key[i] = 0
		}
	}()
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	return cipher.NewGCM(block)
}
