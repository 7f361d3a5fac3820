// Package ctutils implements the bit-trick primitives the AEAD core uses
// wherever a branch or an index would otherwise depend on secret data:
// mask-based selection, a tag comparison that never short-circuits, and a
// wipe the compiler cannot prove dead.
//
// None of this defends against power/EM analysis or cache-timing attacks on
// neighboring code; the contract is limited to "no secret-dependent control
// flow or table lookups" within this package's own functions.
package ctutils

import "runtime"

// SelectByte returns a if v is 1 and b if v is 0. v must be 0 or 1; any
// other value yields an unspecified (but still branch-free) result.
func SelectByte(v, a, b byte) byte {
	mask := -v // 0x00 or 0xff
	return (a & mask) | (b & ^mask)
}

// Select copies either a or b into dst depending on v (which must be 0 or
// 1), without branching on v. dst, a, and b must have equal length.
func Select(dst []byte, v byte, a, b []byte) {
	_ = a[len(dst)-1]
	_ = b[len(dst)-1]
	for i := range dst {
		dst[i] = SelectByte(v, a[i], b[i])
	}
}

// Equal reports whether a and b are equal, in time depending only on their
// length. Like crypto/subtle.ConstantTimeCompare, it returns false at once
// when the lengths differ; the loop over equal-length content never exits
// early.
func Equal(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	var v byte
	for i := range a {
		v |= a[i] ^ b[i]
	}
	return v == 0
}

// CompareTags reports whether two authentication tags are equal. It is
// named separately from Equal because this is the one call site the AEAD
// core's correctness depends on: every AES-GCM backend in this module
// funnels its tag check through here (chachapoly leaves tag checking to
// the package it wraps).
func CompareTags(computed, received []byte) bool {
	return Equal(computed, received)
}

// Wipe overwrites b with zeros in a way the compiler is not free to elide
// as dead stores, even though b is about to go out of scope. It does not
// defend against a copy of b's backing array already having been promoted
// to another register or cache line; see the package doc comment.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}
