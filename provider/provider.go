// Package provider exposes soliton's AEAD constructions through a
// single, lower-level embeddable interface, for integrators assembling
// a larger cryptographic provider rather than calling Seal/Open
// directly. The interface shape is grounded on gRPC's S2A transport
// security layer, which embeds its own AEAD constructions behind an
// identical encrypt/decrypt/tag-size seam so the record-layer code
// above it never branches on which cipher suite negotiated.
package provider

import (
	"fmt"

	"github.com/Intelligence-Designer/soliton"
	"github.com/Intelligence-Designer/soliton/chachapoly"
)

// Algorithm names the AEAD construction behind a Crypter.
type Algorithm string

const (
	AlgorithmAES256GCM        Algorithm = "AES-256-GCM"
	AlgorithmChaCha20Poly1305 Algorithm = "ChaCha20-Poly1305"
)

// Crypter is the embeddable low-level AEAD seam: encrypt, decrypt, and
// enough metadata for a caller to size buffers and log which algorithm
// is in use, without needing to know which concrete construction is
// behind it.
type Crypter interface {
	// Encrypt encrypts and authenticates plaintext, authenticates
	// additionalData, and appends the result to dst.
	Encrypt(dst, plaintext, nonce, additionalData []byte) ([]byte, error)
	// Decrypt decrypts and authenticates ciphertext, authenticates
	// additionalData, and appends the resulting plaintext to dst.
	Decrypt(dst, ciphertext, nonce, additionalData []byte) ([]byte, error)
	// TagSize returns the number of authentication-tag bytes appended
	// to ciphertext.
	TagSize() int
	// Algorithm names the underlying AEAD construction.
	Algorithm() Algorithm
}

// aeadLike is the crypto/cipher.AEAD-shaped subset both soliton.AEAD and
// chachapoly.AEAD implement; Crypter adapts that shape to an
// error-returning Seal, since a Crypter caller may run over an
// unauthenticated transport and needs Encrypt's preconditions (nonce,
// key) checked rather than panicked on.
type aeadLike interface {
	NonceSize() int
	Overhead() int
	Seal(dst, nonce, plaintext, additionalData []byte) []byte
	Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error)
}

type crypter struct {
	aead      aeadLike
	algorithm Algorithm
	nonceSize int
	diag      *Collector
}

// NewAESGCMCrypter builds a Crypter backed by soliton's AES-256-GCM
// construction. key must be soliton.KeySize bytes.
func NewAESGCMCrypter(key []byte) (Crypter, error) {
	if len(key) != soliton.KeySize {
		return nil, soliton.ErrInvalidInput
	}
	aead := soliton.New(key)
	return &crypter{aead: aead, algorithm: AlgorithmAES256GCM, nonceSize: aead.NonceSize()}, nil
}

// NewChaCha20Poly1305Crypter builds a Crypter backed by the peer
// ChaCha20-Poly1305 construction. key must be chachapoly.KeySize bytes.
func NewChaCha20Poly1305Crypter(key []byte) (Crypter, error) {
	if len(key) != chachapoly.KeySize {
		return nil, soliton.ErrInvalidInput
	}
	aead := chachapoly.New(key)
	return &crypter{aead: aead, algorithm: AlgorithmChaCha20Poly1305, nonceSize: aead.NonceSize()}, nil
}

// WithDiagnostics attaches a Collector that records every Encrypt,
// Decrypt, and authentication failure this Crypter sees. Passing a nil
// Collector is a no-op, so this can be called unconditionally.
func WithDiagnostics(c Crypter, d *Collector) Crypter {
	cr, ok := c.(*crypter)
	if !ok || d == nil {
		return c
	}
	cp := *cr
	cp.diag = d
	return &cp
}

func (c *crypter) Encrypt(dst, plaintext, nonce, additionalData []byte) ([]byte, error) {
	if len(nonce) != c.nonceSize {
		return nil, soliton.ErrInvalidInput
	}
	out := c.aead.Seal(dst, nonce, plaintext, additionalData)
	if c.diag != nil {
		c.diag.recordSeal(c.algorithm, len(plaintext))
	}
	return out, nil
}

func (c *crypter) Decrypt(dst, ciphertext, nonce, additionalData []byte) ([]byte, error) {
	if len(nonce) != c.nonceSize {
		return nil, soliton.ErrInvalidInput
	}
	out, err := c.aead.Open(dst, nonce, ciphertext, additionalData)
	if c.diag != nil {
		c.diag.recordOpen(c.algorithm, len(ciphertext), err != nil)
	}
	if err != nil {
		return nil, fmt.Errorf("provider: %s decrypt: %w", c.algorithm, err)
	}
	return out, nil
}

func (c *crypter) TagSize() int {
	return c.aead.Overhead()
}

func (c *crypter) Algorithm() Algorithm {
	return c.algorithm
}
