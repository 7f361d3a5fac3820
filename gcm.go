// Package soliton implements AES-256-GCM (NIST SP 800-38D) as a
// freestanding AEAD: no hosted runtime, no logging, no I/O on the
// encrypt/decrypt path. ChaCha20-Poly1305 support lives in the sibling
// chachapoly package.
package soliton

import "github.com/Intelligence-Designer/soliton/internal/diagnostics"

// NonceSize is the size, in bytes, of the nonce AEAD.Seal and AEAD.Open
// expect: the 96-bit IV NIST SP 800-38D recommends, and the fast path
// Context.Init takes for J0 derivation. Context itself accepts any
// non-zero IV length; AEAD fixes it at NonceSize for crypto/cipher.AEAD
// conformance.
const NonceSize = 12

// AEAD is a keyed AES-256-GCM instance implementing crypto/cipher.AEAD.
type AEAD struct {
	key []byte
}

// New returns a new keyed AES-256-GCM AEAD. It panics if key is not
// KeySize bytes, mirroring how this corpus's AEAD constructors treat a
// bad key length as a caller bug rather than a runtime error.
func New(key []byte) *AEAD {
	if len(key) != KeySize {
		panic(ErrInvalidInput)
	}
	return &AEAD{key: append([]byte{}, key...)}
}

// NonceSize returns NonceSize.
func (a *AEAD) NonceSize() int {
	return NonceSize
}

// Overhead returns TagSize.
func (a *AEAD) Overhead() int {
	return TagSize
}

// Seal encrypts and authenticates plaintext, authenticates
// additionalData, and appends the result to dst, returning the updated
// slice. nonce must be NonceSize() bytes long and unique for all time
// under this key.
//
// plaintext and dst must overlap exactly or not at all; use
// plaintext[:0] as dst to encrypt in place.
func (a *AEAD) Seal(dst, nonce, plaintext, additionalData []byte) []byte {
	if len(nonce) != NonceSize {
		panic(ErrInvalidInput)
	}

	var ctx Context
	if err := ctx.Init(a.key, nonce); err != nil {
		panic(err)
	}
	defer ctx.Wipe()

	ret, out := sliceForAppend(dst, len(plaintext)+TagSize)
	ctText := out[:len(plaintext)]
	tagOut := out[len(plaintext):]

	if len(additionalData) > 0 {
		if err := ctx.AADUpdate(additionalData); err != nil {
			panic(err)
		}
	}
	if err := ctx.EncryptUpdate(plaintext, ctText); err != nil {
		panic(err)
	}
	if err := ctx.EncryptFinal(tagOut); err != nil {
		panic(err)
	}
	diagnostics.RecordSeal()
	diagnostics.RecordBytes(len(plaintext))
	return ret
}

// Open decrypts and authenticates ciphertext, authenticates
// additionalData, and if successful appends the resulting plaintext to
// dst, returning the updated slice. nonce must be NonceSize() bytes
// long and match the value passed to Seal.
//
// ciphertext and dst must overlap exactly or not at all. Even on
// failure, the contents of dst up to its capacity may be overwritten.
func (a *AEAD) Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error) {
	if len(nonce) != NonceSize {
		panic(ErrInvalidInput)
	}
	if len(ciphertext) < TagSize {
		return nil, ErrAuthFailed
	}

	var ctx Context
	if err := ctx.Init(a.key, nonce); err != nil {
		return nil, err
	}
	defer ctx.Wipe()

	ctBody := ciphertext[:len(ciphertext)-TagSize]
	tagIn := ciphertext[len(ciphertext)-TagSize:]

	ret, out := sliceForAppend(dst, len(ctBody))

	if len(additionalData) > 0 {
		if err := ctx.AADUpdate(additionalData); err != nil {
			return nil, err
		}
	}
	if err := ctx.DecryptUpdate(ctBody, out); err != nil {
		return nil, err
	}
	if err := ctx.DecryptFinal(tagIn); err != nil {
		for i := range out {
			out[i] = 0
		}
		diagnostics.RecordAuthFailure()
		return nil, ErrAuthFailed
	}
	diagnostics.RecordOpen()
	diagnostics.RecordBytes(len(ctBody))
	return ret, nil
}

// SealBatch is a reserved entry point for sealing several independent
// messages, potentially under distinct keys, in a single call. This
// build does not implement fragmented/parallel batch processing and
// always returns ErrUnsupported; callers needing that shape should loop
// over Seal themselves.
func (a *AEAD) SealBatch(dsts [][]byte, nonces, plaintexts, additionalDatas [][]byte) ([][]byte, error) {
	return nil, ErrUnsupported
}

// sliceForAppend extends in by n bytes, reusing its capacity when
// possible, and returns the extended slice plus the newly appended tail.
func sliceForAppend(in []byte, n int) (head, tail []byte) {
	if total := len(in) + n; cap(in) >= total {
		head = in[:total]
	} else {
		head = make([]byte, total)
		copy(head, in)
	}
	tail = head[len(in):]
	return
}
