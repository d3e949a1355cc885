// Package cryptoutil seals values kept outside the process, such as
// sessions and drafts stored in Redis.
package cryptoutil

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
)

// KeySize is the AES-256 key length in bytes.
const KeySize = 32

// Versioned prefix to allow key/algorithm rotation later.
var sealedPrefixV1 = []byte("v1:")

// ErrKeyRequired is returned when sealed data is read without a key.
var ErrKeyRequired = errors.New("value is encrypted but no encryption key is configured")

// Sealer encrypts and authenticates values. aad binds a value to its
// context (for example the storage key) so it cannot be replayed elsewhere.
type Sealer interface {
	Seal(plaintext, aad []byte) ([]byte, error)
	Open(sealed, aad []byte) ([]byte, error)
}

// New returns an AES-GCM sealer for an encoded key, or Plaintext when the
// key is empty.
//
//nolint:ireturn // the implementation depends on whether a key is configured.
func New(encodedKey string) (Sealer, error) {
	if strings.TrimSpace(encodedKey) == "" {
		return Plaintext{}, nil
	}
	key, err := ParseKey(encodedKey)
	if err != nil {
		return nil, err
	}
	return NewAESGCM(key)
}

// ParseKey decodes a 32-byte key given as hex or standard base64.
func ParseKey(encoded string) ([]byte, error) {
	encoded = strings.TrimSpace(encoded)
	if b, err := hex.DecodeString(encoded); err == nil && len(b) == KeySize {
		return b, nil
	}
	if b, err := base64.StdEncoding.DecodeString(encoded); err == nil && len(b) == KeySize {
		return b, nil
	}
	return nil, fmt.Errorf("encryption key must be %d bytes encoded as hex or base64", KeySize)
}

// AESGCM seals values with AES-256-GCM.
type AESGCM struct {
	aead cipher.AEAD
}

// NewAESGCM constructs an AESGCM sealer. Key must be 32 bytes.
func NewAESGCM(key []byte) (*AESGCM, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("aes-gcm key must be %d bytes, got %d", KeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &AESGCM{aead: aead}, nil
}

// Seal returns prefix || nonce || ciphertext.
func (e *AESGCM) Seal(plaintext, aad []byte) ([]byte, error) {
	nonceSize := e.aead.NonceSize()
	out := make([]byte, len(sealedPrefixV1)+nonceSize, len(sealedPrefixV1)+nonceSize+len(plaintext)+e.aead.Overhead())
	copy(out, sealedPrefixV1)
	nonce := out[len(sealedPrefixV1):]
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("read nonce: %w", err)
	}
	return e.aead.Seal(out, nonce, plaintext, aad), nil
}

// Open reverses Seal. Unprefixed input is treated as a value written before
// encryption was enabled and returned unchanged.
func (e *AESGCM) Open(sealed, aad []byte) ([]byte, error) {
	if !bytes.HasPrefix(sealed, sealedPrefixV1) {
		return sealed, nil
	}
	data := sealed[len(sealedPrefixV1):]
	nonceSize := e.aead.NonceSize()
	if len(data) < nonceSize {
		return nil, errors.New("ciphertext too short")
	}
	pt, err := e.aead.Open(nil, data[:nonceSize], data[nonceSize:], aad)
	if err != nil {
		return nil, fmt.Errorf("open sealed value: %w", err)
	}
	return pt, nil
}

// Plaintext stores values as-is. It refuses to read sealed values so a
// missing key fails loudly instead of yielding garbage.
type Plaintext struct{}

func (Plaintext) Seal(plaintext, _ []byte) ([]byte, error) { return plaintext, nil }

func (Plaintext) Open(sealed, _ []byte) ([]byte, error) {
	if bytes.HasPrefix(sealed, sealedPrefixV1) {
		return nil, ErrKeyRequired
	}
	return sealed, nil
}
