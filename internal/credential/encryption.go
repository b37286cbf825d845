package credential

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
)

// Cipher seals persisted values with AES-256-GCM.
// Output layout is nonce || ciphertext || tag.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher creates a Cipher from a 32-byte key.
func NewCipher(key []byte) (*Cipher, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("encryption key must be exactly 32 bytes (256 bits), got %d bytes", len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &Cipher{aead: gcm}, nil
}

// Seal encrypts and authenticates plaintext with a fresh random nonce.
func (c *Cipher) Seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return c.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open reverses Seal and fails when the data was tampered with.
func (c *Cipher) Open(sealed []byte) ([]byte, error) {
	nonceSize := c.aead.NonceSize()
	if len(sealed) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}

	nonce, ciphertext := sealed[:nonceSize], sealed[nonceSize:]
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}
	return plaintext, nil
}

// GenerateKey returns a random 32-byte key.
// The key must be stored and reused; a new key makes existing records unreadable.
func GenerateKey() ([]byte, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("failed to generate encryption key: %w", err)
	}
	return key, nil
}

// KeyFromBase64 decodes a base64 key as found in configuration.
// An empty string yields a nil key, meaning encryption is disabled.
func KeyFromBase64(encoded string) ([]byte, error) {
	if encoded == "" {
		return nil, nil
	}

	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 key: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("encryption key must be 32 bytes, got %d bytes", len(key))
	}
	return key, nil
}

// EncryptedPersister encrypts values before handing them to another Persister.
type EncryptedPersister struct {
	inner  Persister
	cipher *Cipher
}

// NewEncryptedPersister wraps inner so every stored value is sealed with c.
func NewEncryptedPersister(inner Persister, c *Cipher) *EncryptedPersister {
	return &EncryptedPersister{inner: inner, cipher: c}
}

// Load implements Persister.
func (e *EncryptedPersister) Load(ctx context.Context, key string) ([]byte, error) {
	sealed, err := e.inner.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	return e.cipher.Open(sealed)
}

// Save implements Persister.
func (e *EncryptedPersister) Save(ctx context.Context, key string, value []byte) error {
	sealed, err := e.cipher.Seal(value)
	if err != nil {
		return err
	}
	return e.inner.Save(ctx, key, sealed)
}

// Delete implements Persister.
func (e *EncryptedPersister) Delete(ctx context.Context, key string) error {
	return e.inner.Delete(ctx, key)
}
