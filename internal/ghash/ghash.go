package ghash

// HPowers holds the precomputed subkey powers H^1 .. H^16, reflected
// domain, indexed so HPowers[0] == H^1 and HPowers[15] == H^16. The
// batched power-sum update (UpdateBatch8, which the fused kernel's
// depth-8 and depth-16 entry points call) reads H^1..H^8; Update
// (single block) only ever needs HPowers[0]. H^9..H^16 are computed but
// not read by any update path.
type HPowers [16]struct {
	lo, hi uint64
}

// DeriveH converts the raw subkey block H = E_K(0^128) (spec domain)
// into its reflected-domain representation, ready for PrecomputeHPowers.
func DeriveH(hBlock [16]byte) (lo, hi uint64) {
	return ToReflected(hBlock)
}

// PrecomputeHPowers computes H^1 .. H^16 from the reflected-domain
// subkey H. A tripwire checks H^2 against an independently computed
// H⊗H and panics on mismatch — a corrupted power table would silently
// produce wrong tags for every block after the first, so this is worth
// the one extra multiply even outside of tests.
func PrecomputeHPowers(hlo, hhi uint64) HPowers {
	var p HPowers
	p[0].lo, p[0].hi = hlo, hhi
	for i := 1; i < 16; i++ {
		p[i].lo, p[i].hi = MulReflected(p[i-1].lo, p[i-1].hi, hlo, hhi)
	}

	checkLo, checkHi := MulReflected(hlo, hhi, hlo, hhi)
	if checkLo != p[1].lo || checkHi != p[1].hi {
		panic("ghash: H^2 tripwire failed, power table corrupted")
	}
	return p
}

// State is the running GHASH accumulator Xi. The reflected-domain
// fields (lo, hi) back Update/UpdateBatch8/Finalize, driven by the
// Karatsuba multiply; the spec field backs UpdateNibble/FinalizeNibble,
// driven by the table-nibble multiply. A single State only ever uses
// one representation for the life of a message — which one is the
// caller's choice, not this type's — but both live in the same struct
// so Reset clears whichever is in use without the caller needing to
// know which.
type State struct {
	lo, hi uint64
	spec   [16]byte
}

// Reset zeroes the accumulator, as GHASH requires at the start of both
// the AAD phase and (implicitly, via a fresh State) the overall
// computation.
func (s *State) Reset() {
	s.lo, s.hi = 0, 0
	s.spec = [16]byte{}
}

// Update folds spec-domain data (AAD or ciphertext) into the
// accumulator, one 16-byte block at a time, using H^1 from hp. A
// trailing partial block is zero-padded to 16 bytes before it is folded.
func (s *State) Update(hp *HPowers, data []byte) {
	h1 := hp[0]
	for len(data) >= 16 {
		var block [16]byte
		copy(block[:], data[:16])
		blo, bhi := ToReflected(block)
		s.lo ^= blo
		s.hi ^= bhi
		s.lo, s.hi = MulReflected(s.lo, s.hi, h1.lo, h1.hi)
		data = data[16:]
	}
	if len(data) > 0 {
		var block [16]byte
		copy(block[:], data)
		blo, bhi := ToReflected(block)
		s.lo ^= blo
		s.hi ^= bhi
		s.lo, s.hi = MulReflected(s.lo, s.hi, h1.lo, h1.hi)
	}
}

// UpdateBatch8 folds exactly eight spec-domain blocks into the
// accumulator using the power-sum form: rather than eight sequential
// (XOR, reduce) pairs, it accumulates all eight unreduced 256-bit
// partial products and reduces once. Reduction is GF(2)-linear, so this
// produces exactly the same result as eight sequential Update calls —
// the property ghash_test.go's Gate D checks.
func (s *State) UpdateBatch8(hp *HPowers, blocks *[8][16]byte) {
	var r0, r1, r2, r3 uint64

	x0lo, x0hi := ToReflected(blocks[0])
	x0lo ^= s.lo
	x0hi ^= s.hi
	p0, p1, p2, p3 := mulKaratsuba256(x0lo, x0hi, hp[7].lo, hp[7].hi)
	r0, r1, r2, r3 = p0, p1, p2, p3

	for i := 1; i < 8; i++ {
		xlo, xhi := ToReflected(blocks[i])
		power := hp[7-i]
		p0, p1, p2, p3 := mulKaratsuba256(xlo, xhi, power.lo, power.hi)
		r0 ^= p0
		r1 ^= p1
		r2 ^= p2
		r3 ^= p3
	}

	s.lo, s.hi = reduce(r0, r1, r2, r3)
}

// Peek returns the current accumulator value converted to the spec
// domain, without folding in a length block. J0 derivation for
// non-96-bit IVs needs exactly this: GHASH over the padded IV plus its
// own length block, with no second (AAD, ciphertext) length word the
// way Finalize's normal tag computation has.
func (s *State) Peek() [16]byte {
	return FromReflected(s.lo, s.hi)
}

// UpdateNibble folds spec-domain data into the accumulator using the
// nibble-table multiply (gfMultNibble), never entering the reflected
// domain at all. hl/hh are H^1's nibble tables, built once per key by
// BuildNibbleTables. This is the algorithmically distinct backend the
// "standard" and "portable" dispatch tiers drive, as opposed to
// Update/UpdateBatch8's Karatsuba path.
func (s *State) UpdateNibble(hl, hh [16]uint64, data []byte) {
	for len(data) >= 16 {
		var block [16]byte
		copy(block[:], data[:16])
		for i := range block {
			block[i] ^= s.spec[i]
		}
		s.spec = gfMultNibble(hl, hh, block)
		data = data[16:]
	}
	if len(data) > 0 {
		var block [16]byte
		copy(block[:], data)
		for i := range block {
			block[i] ^= s.spec[i]
		}
		s.spec = gfMultNibble(hl, hh, block)
	}
}

// PeekNibble is Peek's nibble-domain counterpart: the current
// accumulator, already spec-domain, with no length block folded in.
func (s *State) PeekNibble() [16]byte {
	return s.spec
}

// FinalizeNibble is Finalize's nibble-domain counterpart: it folds the
// standard GCM length block into the accumulator via gfMultNibble and
// returns the resulting GHASH output, still to be XORed with E_K(J0) by
// the caller.
func (s *State) FinalizeNibble(hl, hh [16]uint64, aadBits, ctBits uint64) [16]byte {
	var lenBlock [16]byte
	putBE64(lenBlock[0:8], aadBits)
	putBE64(lenBlock[8:16], ctBits)
	for i := range lenBlock {
		lenBlock[i] ^= s.spec[i]
	}
	s.spec = gfMultNibble(hl, hh, lenBlock)
	return s.spec
}

// Finalize folds the standard GCM length block (64-bit AAD bit length,
// 64-bit ciphertext bit length, both big-endian) into the accumulator
// and returns the resulting spec-domain GHASH output. This is not yet
// the authentication tag: the caller still XORs it with E_K(J0).
func (s *State) Finalize(hp *HPowers, aadBits, ctBits uint64) [16]byte {
	var lenBlock [16]byte
	putBE64(lenBlock[0:8], aadBits)
	putBE64(lenBlock[8:16], ctBits)

	blo, bhi := ToReflected(lenBlock)
	s.lo ^= blo
	s.hi ^= bhi
	s.lo, s.hi = MulReflected(s.lo, s.hi, hp[0].lo, hp[0].hi)

	return FromReflected(s.lo, s.hi)
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
