// Package chachapoly wraps golang.org/x/crypto/chacha20poly1305 in the
// same crypto/cipher.AEAD shape soliton.AEAD presents, so callers that
// negotiate between the two constructions (the common TLS 1.3 cipher
// suite pattern) can hold either behind one interface value. The
// construction itself — ChaCha20, Poly1305, their composition per
// RFC 8439 — is out of scope here; this package is a thin peer, not a
// second implementation.
package chachapoly

import (
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/Intelligence-Designer/soliton"
)

// KeySize is the only key size this package supports.
const KeySize = chacha20poly1305.KeySize

// NonceSize is the size, in bytes, of the nonce Seal and Open expect.
const NonceSize = chacha20poly1305.NonceSize

// TagSize is the size in bytes of the authentication tag.
const TagSize = chacha20poly1305.Overhead

// AEAD is a keyed ChaCha20-Poly1305 instance implementing
// crypto/cipher.AEAD, mirroring soliton.AEAD's construction and error
// conventions so the two packages can be used interchangeably.
type AEAD struct {
	inner cipherAEAD
}

// cipherAEAD is the subset of crypto/cipher.AEAD the wrapped construction
// must provide; kept local so this package doesn't need to import
// crypto/cipher just to name the type.
type cipherAEAD interface {
	NonceSize() int
	Overhead() int
	Seal(dst, nonce, plaintext, additionalData []byte) []byte
	Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error)
}

// New returns a new keyed ChaCha20-Poly1305 AEAD. It panics if key is not
// KeySize bytes, matching soliton.New's treatment of a bad key length as
// a caller bug.
func New(key []byte) *AEAD {
	if len(key) != KeySize {
		panic(soliton.ErrInvalidInput)
	}
	inner, err := chacha20poly1305.New(key)
	if err != nil {
		panic(soliton.ErrInvalidInput)
	}
	return &AEAD{inner: inner}
}

// NonceSize returns NonceSize.
func (a *AEAD) NonceSize() int {
	return a.inner.NonceSize()
}

// Overhead returns TagSize.
func (a *AEAD) Overhead() int {
	return a.inner.Overhead()
}

// Seal encrypts and authenticates plaintext, authenticates
// additionalData, and appends the result to dst, returning the updated
// slice. nonce must be NonceSize() bytes and unique for all time under
// this key.
func (a *AEAD) Seal(dst, nonce, plaintext, additionalData []byte) []byte {
	return a.inner.Seal(dst, nonce, plaintext, additionalData)
}

// Open decrypts and authenticates ciphertext, authenticates
// additionalData, and if successful appends the resulting plaintext to
// dst. It returns soliton.ErrAuthFailed, not the wrapped package's own
// error, so callers switching between soliton.AEAD and chachapoly.AEAD
// see one sentinel for authentication failure.
func (a *AEAD) Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error) {
	out, err := a.inner.Open(dst, nonce, ciphertext, additionalData)
	if err != nil {
		return nil, soliton.ErrAuthFailed
	}
	return out, nil
}
