// Package fused implements the encrypt/authenticate kernel that drives
// CTR-mode keystream generation and the batched GHASH update together,
// so that ciphertext blocks are folded into the running tag accumulator
// before they are ever written out, without a second pass over the
// buffer.
//
// EncryptBlocks8/DecryptBlocks8 process blocks in groups of eight,
// matching ghash.State.UpdateBatch8's power-sum width. The
// PhaseLocked16 entry points compose two depth-8 waves; on hardware with a real carry-less multiply and
// independent SIMD/AES-NI execution ports, the two waves' AES and
// GHASH work can overlap (a "phase-locked" AABB rhythm: encrypt wave A
// while folding wave B's previous result). This package's GHASH is
// software, so there is no independent execution port to overlap onto —
// the depth-16 entry points exist for the batch-size API shape and to
// amortize per-call overhead, not for the pipelining itself.
package fused

import (
	"github.com/Intelligence-Designer/soliton/internal/ghash"
	"github.com/Intelligence-Designer/soliton/internal/scalaraes"
)

// BatchBlocks is the native batch width of ghash.State.UpdateBatch8.
const BatchBlocks = 8

// incCounter32 increments the rightmost 32 bits of a GCM counter block,
// wrapping within those four bytes per NIST SP 800-38D's 32-bit
// counter requirement.
func incCounter32(block *[16]byte) {
	for i := 15; i >= 12; i-- {
		block[i]++
		if block[i] != 0 {
			break
		}
	}
}

// EncryptBlocks8 encrypts exactly eight 16-byte blocks of plaintext
// under CTR mode starting at counter (which is advanced in place by
// eight), folding the resulting ciphertext into acc via the batched
// GHASH update before writing it out. plaintext and ciphertext must
// each be exactly 128 bytes; ciphertext may alias plaintext.
func EncryptBlocks8(rk *scalaraes.RoundKeys, hp *ghash.HPowers, acc *ghash.State, counter *[16]byte, plaintext, ciphertext []byte) {
	var ctBlocks [8][16]byte
	for i := 0; i < BatchBlocks; i++ {
		var keystream [16]byte
		scalaraes.EncryptBlock(rk, keystream[:], counter[:])
		incCounter32(counter)

		off := i * 16
		for j := 0; j < 16; j++ {
			ctBlocks[i][j] = plaintext[off+j] ^ keystream[j]
		}
	}
	acc.UpdateBatch8(hp, &ctBlocks)
	for i := 0; i < BatchBlocks; i++ {
		copy(ciphertext[i*16:i*16+16], ctBlocks[i][:])
	}
}

// DecryptBlocks8 is EncryptBlocks8's inverse: it folds the ciphertext
// into acc first (GHASH authenticates what was actually received, not
// what decryption produces), then recovers the plaintext. plaintext and
// ciphertext must each be exactly 128 bytes; plaintext may alias
// ciphertext.
func DecryptBlocks8(rk *scalaraes.RoundKeys, hp *ghash.HPowers, acc *ghash.State, counter *[16]byte, ciphertext, plaintext []byte) {
	var ctBlocks [8][16]byte
	for i := 0; i < BatchBlocks; i++ {
		copy(ctBlocks[i][:], ciphertext[i*16:i*16+16])
	}
	acc.UpdateBatch8(hp, &ctBlocks)

	for i := 0; i < BatchBlocks; i++ {
		var keystream [16]byte
		scalaraes.EncryptBlock(rk, keystream[:], counter[:])
		incCounter32(counter)

		off := i * 16
		for j := 0; j < 16; j++ {
			plaintext[off+j] = ctBlocks[i][j] ^ keystream[j]
		}
	}
}

// EncryptBlocks8Nibble is EncryptBlocks8's table-nibble-GHASH sibling:
// it generates all eight keystream blocks first and only then folds the
// ciphertext into acc, one block at a time via the nibble-table
// multiply, instead of EncryptBlocks8's power-sum Karatsuba update. This
// is the "scalar-AES + table-nibble GHASH" backend — a separate AES
// batch then an eight-way GHASH fold, not the same kernel at a smaller
// batch width. hl/hh are H^1's nibble tables from ghash.BuildNibbleTables.
func EncryptBlocks8Nibble(rk *scalaraes.RoundKeys, hl, hh [16]uint64, acc *ghash.State, counter *[16]byte, plaintext, ciphertext []byte) {
	var ctBlocks [8][16]byte
	for i := 0; i < BatchBlocks; i++ {
		var keystream [16]byte
		scalaraes.EncryptBlock(rk, keystream[:], counter[:])
		incCounter32(counter)

		off := i * 16
		for j := 0; j < 16; j++ {
			ctBlocks[i][j] = plaintext[off+j] ^ keystream[j]
		}
	}
	for i := 0; i < BatchBlocks; i++ {
		acc.UpdateNibble(hl, hh, ctBlocks[i][:])
	}
	for i := 0; i < BatchBlocks; i++ {
		copy(ciphertext[i*16:i*16+16], ctBlocks[i][:])
	}
}

// DecryptBlocks8Nibble is EncryptBlocks8Nibble's inverse: ciphertext is
// folded into acc before it is decrypted, exactly as DecryptBlocks8
// requires, just via the nibble-table multiply.
func DecryptBlocks8Nibble(rk *scalaraes.RoundKeys, hl, hh [16]uint64, acc *ghash.State, counter *[16]byte, ciphertext, plaintext []byte) {
	var ctBlocks [8][16]byte
	for i := 0; i < BatchBlocks; i++ {
		copy(ctBlocks[i][:], ciphertext[i*16:i*16+16])
	}
	for i := 0; i < BatchBlocks; i++ {
		acc.UpdateNibble(hl, hh, ctBlocks[i][:])
	}

	for i := 0; i < BatchBlocks; i++ {
		var keystream [16]byte
		scalaraes.EncryptBlock(rk, keystream[:], counter[:])
		incCounter32(counter)

		off := i * 16
		for j := 0; j < 16; j++ {
			plaintext[off+j] = ctBlocks[i][j] ^ keystream[j]
		}
	}
}

// EncryptBlocksPhaseLocked16 encrypts sixteen blocks (256 bytes) as two depth-8
// waves. See the package doc for why this is sequential composition
// rather than genuine pipelining in this pure-Go implementation.
func EncryptBlocksPhaseLocked16(rk *scalaraes.RoundKeys, hp *ghash.HPowers, acc *ghash.State, counter *[16]byte, plaintext, ciphertext []byte) {
	EncryptBlocks8(rk, hp, acc, counter, plaintext[:128], ciphertext[:128])
	EncryptBlocks8(rk, hp, acc, counter, plaintext[128:256], ciphertext[128:256])
}

// DecryptBlocksPhaseLocked16 is EncryptBlocksPhaseLocked16's inverse.
func DecryptBlocksPhaseLocked16(rk *scalaraes.RoundKeys, hp *ghash.HPowers, acc *ghash.State, counter *[16]byte, ciphertext, plaintext []byte) {
	DecryptBlocks8(rk, hp, acc, counter, ciphertext[:128], plaintext[:128])
	DecryptBlocks8(rk, hp, acc, counter, ciphertext[128:256], plaintext[128:256])
}
