package postgres

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/custodia-labs/biredirect/internal/core/domain"
)

// Sealed blob layout: version(1) || nonce(12) || ciphertext
const (
	blobVersion = 0x01
	nonceSize   = 12
	keySize     = 32
	keyInfo     = "biredirect storage credentials v1"
)

var (
	ErrEmptySecret        = errors.New("secret must not be empty")
	ErrInvalidKeySize     = errors.New("encryption key must be 32 bytes")
	ErrMalformedBlob      = errors.New("sealed credentials are malformed")
	ErrUnsupportedVersion = errors.New("unsupported sealed credentials version")
	ErrOpenFailed         = errors.New("sealed credentials could not be opened")
)

// DeriveKey stretches SECRET_KEY into an AES-256 key with HKDF-SHA256
func DeriveKey(secret string) ([]byte, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}

	key := make([]byte, keySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(keyInfo)), key); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	return key, nil
}

// CredentialSealer encrypts the storage provider credential set with
// AES-256-GCM. The row id is authenticated as associated data, so a blob
// copied into another row fails to open.
type CredentialSealer struct {
	aead cipher.AEAD
}

// NewCredentialSealer creates a sealer from a 32-byte key
func NewCredentialSealer(key []byte) (*CredentialSealer, error) {
	if len(key) != keySize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidKeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("gcm: %w", err)
	}
	return &CredentialSealer{aead: aead}, nil
}

// Seal encrypts creds for the row id
func (s *CredentialSealer) Seal(rowID string, creds *domain.OAuthCredentials) ([]byte, error) {
	plaintext, err := json.Marshal(creds)
	if err != nil {
		return nil, fmt.Errorf("encode credentials: %w", err)
	}

	blob := make([]byte, 1+nonceSize, 1+nonceSize+len(plaintext)+s.aead.Overhead())
	blob[0] = blobVersion
	if _, err := rand.Read(blob[1:]); err != nil {
		return nil, fmt.Errorf("nonce: %w", err)
	}

	return s.aead.Seal(blob, blob[1:], plaintext, []byte(rowID)), nil
}

// Open decrypts a blob sealed for the row id
func (s *CredentialSealer) Open(rowID string, blob []byte) (*domain.OAuthCredentials, error) {
	if len(blob) < 1+nonceSize+s.aead.Overhead() {
		return nil, ErrMalformedBlob
	}
	if blob[0] != blobVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, blob[0])
	}

	plaintext, err := s.aead.Open(nil, blob[1:1+nonceSize], blob[1+nonceSize:], []byte(rowID))
	if err != nil {
		return nil, ErrOpenFailed
	}

	var creds domain.OAuthCredentials
	if err := json.Unmarshal(plaintext, &creds); err != nil {
		return nil, fmt.Errorf("decode credentials: %w", err)
	}
	return &creds, nil
}
