package soliton

import (
	"github.com/Intelligence-Designer/soliton/internal/ctutils"
	"github.com/Intelligence-Designer/soliton/internal/dispatch"
	"github.com/Intelligence-Designer/soliton/internal/fused"
	"github.com/Intelligence-Designer/soliton/internal/ghash"
	"github.com/Intelligence-Designer/soliton/internal/scalaraes"
)

// KeySize is the only key size this package supports.
const KeySize = scalaraes.KeySize

// TagSize is the size in bytes of the authentication tag.
const TagSize = 16

// ctxState is the Context's state tag, following spec.md's
// INIT -> AAD? -> UPDATE -> FINAL progression. It is a single enumerated
// tag, not a chain of boolean flags: each Context method checks it
// against the states it accepts and rejects the rest.
type ctxState int8

const (
	ctxInit ctxState = iota
	ctxAAD
	ctxUpdate
	ctxFinal
)

// Context is the mutable AES-256-GCM incremental state machine: the
// single object a caller holds across Init, AADUpdate, EncryptUpdate or
// DecryptUpdate, and EncryptFinal or DecryptFinal. It is a plain value
// type — no hidden heap allocation or opaque handle — so callers can
// embed it directly in their own structs or put it on the stack.
//
// A Context is not safe for concurrent use; achieve parallelism with
// one Context per goroutine.
type Context struct {
	roundKeys scalaraes.RoundKeys
	hPowers   ghash.HPowers

	// nibbleHL/nibbleHH are H^1's nibble-indexed product tables, used
	// instead of hPowers whenever useNibble is set: the "standard" and
	// "portable" dispatch tiers drive the table-nibble GHASH multiply
	// rather than the reflected-domain Karatsuba path, a genuinely
	// different algorithm, not just a narrower batch width.
	nibbleHL, nibbleHH [16]uint64
	useNibble          bool

	j0      [16]byte
	counter [16]byte
	acc     ghash.State

	aadBytes uint64
	ctBytes  uint64

	state   ctxState
	backend dispatch.Backend
}

// Init expands key, derives the GHASH subkey H = E_K(0^128), precomputes
// H^1..H^16, derives J0 from iv, and resets all counters. iv must be
// non-empty; the 96-bit (12-byte) case is the fast path spec.md
// describes, any other non-zero length uses the GHASH-based derivation.
func (c *Context) Init(key, iv []byte) error {
	if len(key) != KeySize || len(iv) == 0 {
		return ErrInvalidInput
	}

	rk, err := scalaraes.ExpandKey(key)
	if err != nil {
		return ErrInvalidInput
	}
	c.roundKeys = rk

	var hBlock [16]byte
	scalaraes.EncryptBlock(&c.roundKeys, hBlock[:], hBlock[:])
	hlo, hhi := ghash.DeriveH(hBlock)
	c.hPowers = ghash.PrecomputeHPowers(hlo, hhi)
	c.nibbleHL, c.nibbleHH = ghash.BuildNibbleTables(hBlock)

	c.backend = dispatch.Selected()
	c.useNibble = c.backend.Tier != dispatch.TierWide
	c.j0 = deriveJ0(&c.hPowers, c.nibbleHL, c.nibbleHH, c.useNibble, iv)
	c.resetSession()
	return nil
}

// Reset rederives J0 from a new iv and resets the GHASH state, counter,
// and byte counts, reusing the round keys and H-power table computed by
// the previous Init. Init must have been called at least once already.
func (c *Context) Reset(iv []byte) error {
	if len(iv) == 0 {
		return ErrInvalidInput
	}
	c.j0 = deriveJ0(&c.hPowers, c.nibbleHL, c.nibbleHH, c.useNibble, iv)
	c.resetSession()
	return nil
}

func (c *Context) resetSession() {
	c.acc.Reset()
	c.aadBytes = 0
	c.ctBytes = 0
	c.counter = c.j0
	incCounter32(&c.counter) // counter starts at 2: J0 then one increment
	c.state = ctxInit
}

// AADUpdate folds additional authenticated data into the running GHASH
// accumulator. Valid from ctxInit or ctxAAD only; calling it after
// ciphertext has already been processed is a state-machine violation.
func (c *Context) AADUpdate(aad []byte) error {
	switch c.state {
	case ctxInit, ctxAAD:
	default:
		return ErrInvalidInput
	}
	c.foldBlock(aad)
	c.aadBytes += uint64(len(aad))
	c.state = ctxAAD
	return nil
}

// foldBlock folds spec-domain data into the running accumulator through
// whichever GHASH backend this context's tier selected.
func (c *Context) foldBlock(data []byte) {
	if c.useNibble {
		c.acc.UpdateNibble(c.nibbleHL, c.nibbleHH, data)
	} else {
		c.acc.Update(&c.hPowers, data)
	}
}

// EncryptUpdate encrypts pt into ct (same length), folding the
// resulting ciphertext into GHASH and advancing the counter. ct and pt
// must be the same length; ct may alias pt.
func (c *Context) EncryptUpdate(pt, ct []byte) error {
	if c.state == ctxFinal {
		return ErrInvalidInput
	}
	if len(pt) != len(ct) {
		return ErrInvalidInput
	}

	off := 0
	switch c.backend.Tier {
	case dispatch.TierWide:
		for len(pt)-off >= 256 {
			fused.EncryptBlocksPhaseLocked16(&c.roundKeys, &c.hPowers, &c.acc, &c.counter, pt[off:off+256], ct[off:off+256])
			off += 256
		}
		for len(pt)-off >= 128 {
			fused.EncryptBlocks8(&c.roundKeys, &c.hPowers, &c.acc, &c.counter, pt[off:off+128], ct[off:off+128])
			off += 128
		}
	case dispatch.TierStandard:
		for len(pt)-off >= 128 {
			fused.EncryptBlocks8Nibble(&c.roundKeys, c.nibbleHL, c.nibbleHH, &c.acc, &c.counter, pt[off:off+128], ct[off:off+128])
			off += 128
		}
	}
	for len(pt)-off >= 16 {
		c.encryptOneBlock(pt[off:off+16], ct[off:off+16])
		off += 16
	}
	if off < len(pt) {
		c.encryptPartialBlock(pt[off:], ct[off:])
	}

	c.ctBytes += uint64(len(pt))
	c.state = ctxUpdate
	return nil
}

// DecryptUpdate decrypts ct into pt, folding the ciphertext into GHASH
// *before* decrypting it, so a forged ciphertext is authenticated
// against the unmodified bytes the caller actually sent, never against
// bytes derived after tentative decryption.
func (c *Context) DecryptUpdate(ct, pt []byte) error {
	if c.state == ctxFinal {
		return ErrInvalidInput
	}
	if len(ct) != len(pt) {
		return ErrInvalidInput
	}

	off := 0
	switch c.backend.Tier {
	case dispatch.TierWide:
		for len(ct)-off >= 256 {
			fused.DecryptBlocksPhaseLocked16(&c.roundKeys, &c.hPowers, &c.acc, &c.counter, ct[off:off+256], pt[off:off+256])
			off += 256
		}
		for len(ct)-off >= 128 {
			fused.DecryptBlocks8(&c.roundKeys, &c.hPowers, &c.acc, &c.counter, ct[off:off+128], pt[off:off+128])
			off += 128
		}
	case dispatch.TierStandard:
		for len(ct)-off >= 128 {
			fused.DecryptBlocks8Nibble(&c.roundKeys, c.nibbleHL, c.nibbleHH, &c.acc, &c.counter, ct[off:off+128], pt[off:off+128])
			off += 128
		}
	}
	for len(ct)-off >= 16 {
		c.decryptOneBlock(ct[off:off+16], pt[off:off+16])
		off += 16
	}
	if off < len(ct) {
		c.decryptPartialBlock(ct[off:], pt[off:])
	}

	c.ctBytes += uint64(len(ct))
	c.state = ctxUpdate
	return nil
}

// EncryptFinal appends the length block, finalizes GHASH, XORs with
// E_K(J0) (counter fixed at 1), and writes the 16-byte tag to tagOut.
// tagOut must be at least TagSize bytes. The context transitions to
// ctxFinal; only Reset or Wipe should be called on it afterward.
func (c *Context) EncryptFinal(tagOut []byte) error {
	if c.state == ctxFinal {
		return ErrInvalidInput
	}
	if len(tagOut) < TagSize {
		return ErrInvalidInput
	}
	tag := c.computeTag()
	copy(tagOut[:TagSize], tag[:])
	c.state = ctxFinal
	return nil
}

// DecryptFinal recomputes the tag and compares it, in constant time,
// against tagIn. Returns ErrAuthFailed on mismatch. The context
// transitions to ctxFinal either way.
func (c *Context) DecryptFinal(tagIn []byte) error {
	if c.state == ctxFinal {
		return ErrInvalidInput
	}
	if len(tagIn) != TagSize {
		return ErrInvalidInput
	}
	tag := c.computeTag()
	c.state = ctxFinal
	if !ctutils.CompareTags(tag[:], tagIn) {
		return ErrAuthFailed
	}
	return nil
}

// Wipe zeroes every secret held by the context: round keys, H-powers,
// and the running GHASH state. Call it when the context is no longer
// needed, regardless of which state it ended in.
func (c *Context) Wipe() {
	for i := range c.roundKeys {
		ctutils.Wipe(c.roundKeys[i][:])
	}
	c.hPowers = ghash.HPowers{}
	c.nibbleHL = [16]uint64{}
	c.nibbleHH = [16]uint64{}
	c.acc.Reset()
	c.j0 = [16]byte{}
	c.counter = [16]byte{}
}

func (c *Context) computeTag() [16]byte {
	var ghashOut [16]byte
	if c.useNibble {
		ghashOut = c.acc.FinalizeNibble(c.nibbleHL, c.nibbleHH, c.aadBytes*8, c.ctBytes*8)
	} else {
		ghashOut = c.acc.Finalize(&c.hPowers, c.aadBytes*8, c.ctBytes*8)
	}

	var mask [16]byte
	j0Counter1 := c.j0
	setCounter32(&j0Counter1, 1)
	scalaraes.EncryptBlock(&c.roundKeys, mask[:], j0Counter1[:])

	var tag [16]byte
	for i := range tag {
		tag[i] = ghashOut[i] ^ mask[i]
	}
	return tag
}

func (c *Context) encryptOneBlock(pt, ct []byte) {
	var ks [16]byte
	scalaraes.EncryptBlock(&c.roundKeys, ks[:], c.counter[:])
	incCounter32(&c.counter)
	var block [16]byte
	for i := 0; i < 16; i++ {
		block[i] = pt[i] ^ ks[i]
	}
	copy(ct, block[:])
	c.foldBlock(block[:])
}

func (c *Context) decryptOneBlock(ct, pt []byte) {
	var block [16]byte
	copy(block[:], ct)
	c.foldBlock(block[:])

	var ks [16]byte
	scalaraes.EncryptBlock(&c.roundKeys, ks[:], c.counter[:])
	incCounter32(&c.counter)
	for i := 0; i < 16; i++ {
		pt[i] = block[i] ^ ks[i]
	}
}

func (c *Context) encryptPartialBlock(pt, ct []byte) {
	var ks [16]byte
	scalaraes.EncryptBlock(&c.roundKeys, ks[:], c.counter[:])
	incCounter32(&c.counter)
	var block [16]byte
	for i := range pt {
		block[i] = pt[i] ^ ks[i]
	}
	copy(ct, block[:len(pt)])
	c.foldBlock(block[:len(pt)])
}

func (c *Context) decryptPartialBlock(ct, pt []byte) {
	c.foldBlock(ct)

	var ks [16]byte
	scalaraes.EncryptBlock(&c.roundKeys, ks[:], c.counter[:])
	incCounter32(&c.counter)
	for i := range ct {
		pt[i] = ct[i] ^ ks[i]
	}
}

// deriveJ0 implements the two-case J0 derivation: the 96-bit fast path,
// and the GHASH-based derivation for every other IV length, driven
// through whichever backend useNibble selects (hp is only read on the
// non-nibble path, so a nil hp is safe whenever useNibble is true or
// the fast path applies).
func deriveJ0(hp *ghash.HPowers, nibbleHL, nibbleHH [16]uint64, useNibble bool, iv []byte) [16]byte {
	if len(iv) == 12 {
		var j0 [16]byte
		copy(j0[:12], iv)
		j0[15] = 1
		return j0
	}

	var lenBlock [16]byte
	putBE64(lenBlock[8:16], uint64(len(iv))*8)

	var state ghash.State
	if useNibble {
		state.UpdateNibble(nibbleHL, nibbleHH, iv)
		state.UpdateNibble(nibbleHL, nibbleHH, lenBlock[:])
		return state.PeekNibble()
	}
	state.Update(hp, iv)
	state.Update(hp, lenBlock[:])
	return state.Peek()
}

func incCounter32(block *[16]byte) {
	for i := 15; i >= 12; i-- {
		block[i]++
		if block[i] != 0 {
			break
		}
	}
}

func setCounter32(block *[16]byte, v uint32) {
	block[12] = byte(v >> 24)
	block[13] = byte(v >> 16)
	block[14] = byte(v >> 8)
	block[15] = byte(v)
}

func putBE64(b []byte, v uint64) {
	_ = b[7]
	b[0] = byte(v >> 56)
	b[1] = byte(v >> 48)
	b[2] = byte(v >> 40)
	b[3] = byte(v >> 32)
	b[4] = byte(v >> 24)
	b[5] = byte(v >> 16)
	b[6] = byte(v >> 8)
	b[7] = byte(v)
}
