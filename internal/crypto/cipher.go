package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// ErrDecryptionFailed covers malformed tokens, failed authentication tags
// and key mismatches alike. Callers decide whether to surface it or fall
// back to treating the stored value as plaintext.
var ErrDecryptionFailed = errors.New("decryption failed")

const (
	// Key derivation is deliberately expensive; the result is cached for
	// the process lifetime in the Cipher.
	kdfIterations = 100_000
	keyLength     = 32

	// Fixed, non-secret KDF salt. A single shared secret protects all
	// content at rest; this is not a per-record key-separation scheme.
	kdfSalt = "passbox-content-kdf-v1"
)

// Cipher provides authenticated symmetric encryption for content fields.
// The key is derived once from the configured secret; instances are safe
// for concurrent use.
type Cipher struct {
	aead cipher.AEAD
}

func NewCipher(secret string) (*Cipher, error) {
	key := pbkdf2.Key([]byte(secret), []byte(kdfSalt), kdfIterations, keyLength, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &Cipher{aead: aead}, nil
}

// Encrypt produces a self-contained base64url token embedding the nonce
// and the GCM authentication tag. The empty string passes through as-is
// so optional fields stay empty rather than becoming encrypted emptiness.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.URLEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Bad encoding, a truncated nonce and a failed
// tag check all map to ErrDecryptionFailed.
func (c *Cipher) Decrypt(token string) (string, error) {
	if token == "" {
		return "", nil
	}

	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	if len(raw) < c.aead.NonceSize() {
		return "", ErrDecryptionFailed
	}

	nonce, sealed := raw[:c.aead.NonceSize()], raw[c.aead.NonceSize():]
	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	return string(plaintext), nil
}
