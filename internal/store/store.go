// Package store persists wallet records in an authenticated-encrypted
// envelope on disk. Secrets are sealed per record with AES-256-GCM
// under the master key; the file itself never holds plaintext seed
// bytes, and every mutation lands through an atomic rewrite.
package store

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
	"sort"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
)

const (
	// Version tags the on-disk schema. Readers reject anything else.
	Version = 1

	nonceLen = 12
	seedLen  = 32
)

var (
	ErrDuplicateID  = errors.New("store: wallet already exists with this name")
	ErrNotFound     = errors.New("store: wallet not found")
	ErrStoreCorrupt = errors.New("store: envelope unreadable")
	// ErrAuthFailed means GCM tag verification failed: wrong master
	// key or tampered ciphertext.
	ErrAuthFailed = errors.New("store: decryption failed")
)

// Record is one stored wallet. CipherText carries the sealed 32-byte
// seed plus the 16-byte GCM tag.
type Record struct {
	ID         string    `json:"id"`
	PublicKey  string    `json:"publicKey"`
	Nonce      string    `json:"nonce"`
	CipherText string    `json:"cipherText"`
	CreatedAt  time.Time `json:"createdAt"`
}

type envelope struct {
	Version int               `json:"version"`
	Records map[string]Record `json:"records"`
}

// Store owns the envelope file. All mutations serialize on the
// in-process lock; cross-process access is not defended beyond rename
// atomicity.
type Store struct {
	mu   sync.Mutex
	path string
	aead cipher.AEAD
}

// Open binds a Store to path under the given master key and verifies
// the existing envelope parses. A missing file is an empty store; a
// present but unreadable one is ErrStoreCorrupt.
func Open(path string, masterKey [32]byte) (*Store, error) {
	block, err := aes.NewCipher(masterKey[:])
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	s := &Store{path: path, aead: aead}
	if _, err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the envelope location.
func (s *Store) Path() string {
	return s.path
}

// Insert seals seed and persists the new record. The record is
// durable (post-fsync) when Insert returns nil.
func (s *Store) Insert(id string, pub solana.PublicKey, seed [seedLen]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	env, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := env.Records[id]; ok {
		return ErrDuplicateID
	}

	nonce := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed := s.aead.Seal(nil, nonce, seed[:], nil)

	env.Records[id] = Record{
		ID:         id,
		PublicKey:  pub.String(),
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		CipherText: base64.StdEncoding.EncodeToString(sealed),
		CreatedAt:  time.Now().UTC(),
	}
	return s.persist(env)
}

// Remove deletes the record for id. Durable on nil return.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	env, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := env.Records[id]; !ok {
		return ErrNotFound
	}
	delete(env.Records, id)
	return s.persist(env)
}

// List returns the records without touching any ciphertext, sorted by
// id for stable display.
func (s *Store) List() ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	env, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(env.Records))
	for _, r := range env.Records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Reveal decrypts and returns the 32-byte seed for id. The caller owns
// the secret and must wipe it.
func (s *Store) Reveal(id string) ([seedLen]byte, error) {
	var seed [seedLen]byte

	s.mu.Lock()
	defer s.mu.Unlock()

	env, err := s.load()
	if err != nil {
		return seed, err
	}
	rec, ok := env.Records[id]
	if !ok {
		return seed, ErrNotFound
	}

	nonce, err := base64.StdEncoding.DecodeString(rec.Nonce)
	if err != nil || len(nonce) != nonceLen {
		return seed, ErrStoreCorrupt
	}
	sealed, err := base64.StdEncoding.DecodeString(rec.CipherText)
	if err != nil {
		return seed, ErrStoreCorrupt
	}

	plain, err := s.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return seed, ErrAuthFailed
	}
	if len(plain) != seedLen {
		wipe(plain)
		return seed, ErrStoreCorrupt
	}
	copy(seed[:], plain)
	wipe(plain)
	return seed, nil
}

// load parses the envelope. Callers must hold the lock (or be the
// constructor, before the Store escapes).
func (s *Store) load() (*envelope, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return &envelope{Version: Version, Records: map[string]Record{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreCorrupt, jsonDiag(err))
	}
	if env.Version != Version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrStoreCorrupt, env.Version)
	}
	if env.Records == nil {
		env.Records = map[string]Record{}
	}
	return &env, nil
}

// persist serializes env and atomically replaces the envelope file:
// temp file in the same directory, fsync, rename, fsync directory.
// A crash at any point leaves either the old or the new envelope.
func (s *Store) persist(env *envelope) error {
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}
	if err := atomicWriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to persist store: %w", err)
	}
	return nil
}

// jsonDiag reduces a JSON error to structure-only diagnostics.
func jsonDiag(err error) string {
	var syn *json.SyntaxError
	if errors.As(err, &syn) {
		return fmt.Sprintf("parse error at offset %d", syn.Offset)
	}
	return "parse error"
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
