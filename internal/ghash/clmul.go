package ghash

// clmul64 computes the 128-bit carry-less product of two 64-bit words,
// bit i of each operand being the coefficient of x^i. This is the
// software stand-in for a hardware PCLMULQDQ-style instruction: this
// module's entire corpus contains no assembly kernels to ground a real
// SIMD carry-less multiply on (see DESIGN.md), so every backend in this
// package ultimately bottoms out here. The loop runs exactly 64 times
// regardless of the operand bits and uses a mask rather than a
// conditional branch, so it does not leak y's bit pattern through
// control flow or memory access pattern — relevant since y is often
// derived from the secret subkey H.
func clmul64(x, y uint64) (lo, hi uint64) {
	for i := uint(0); i < 64; i++ {
		bit := (y >> i) & 1
		mask := -bit // 0x00.. or 0xff..
		lo ^= (x << i) & mask
		hi ^= (x >> (64 - i)) & mask
	}
	return
}

// mulSchoolbook256 computes the unreduced 256-bit carry-less product of
// two reflected-domain 128-bit operands using the four-partial-product
// form: the same shape as four PCLMULQDQ calls with immediates
// 0x00, 0x01, 0x10, 0x11 selecting which 64-bit half of each operand
// feeds the multiply. r0 is the least significant word, r3 the most.
func mulSchoolbook256(xlo, xhi, ylo, yhi uint64) (r0, r1, r2, r3 uint64) {
	p00lo, p00hi := clmul64(xlo, ylo)
	p01lo, p01hi := clmul64(xlo, yhi)
	p10lo, p10hi := clmul64(xhi, ylo)
	p11lo, p11hi := clmul64(xhi, yhi)

	r0 = p00lo
	r1 = p00hi ^ p01lo ^ p10lo
	r2 = p01hi ^ p10hi ^ p11lo
	r3 = p11hi
	return
}

// mulKaratsuba256 computes the same unreduced 256-bit product as
// mulSchoolbook256 using three carry-less multiplies instead of four
// (the standard Karatsuba identity). ghash_test.go's Gate P0 verifies
// the two forms agree on unit-bit and random inputs; this is the one
// the optimized path uses.
func mulKaratsuba256(xlo, xhi, ylo, yhi uint64) (r0, r1, r2, r3 uint64) {
	z0lo, z0hi := clmul64(xlo, ylo)
	z2lo, z2hi := clmul64(xhi, yhi)
	z1lo, z1hi := clmul64(xlo^xhi, ylo^yhi)
	z1lo ^= z0lo ^ z2lo
	z1hi ^= z0hi ^ z2hi

	r0 = z0lo
	r1 = z0hi ^ z1lo
	r2 = z1hi ^ z2lo
	r3 = z2hi
	return
}

// fTermShifts are the exponents of f(x) = x^128 + x^7 + x^2 + x + 1,
// the GCM reduction polynomial, including the leading x^128 term: reduce
// XORs in every term, so the shifted x^128 term clears the bit being
// eliminated (see its comment).
var fTermShifts = [5]uint{0, 1, 2, 7, 128}

// reduce takes the unreduced 256-bit carry-less product (r0..r3, least
// significant word first) and reduces it modulo f(x) = x^128+x^7+x^2+x+1,
// returning the 128-bit result as (lo, hi).
//
// This performs the reduction as a direct polynomial long division: for
// each set bit at position k from 255 down to 128, x^k is eliminated by
// XORing in f(x) shifted left by (k-128), since x^128 ≡ x^7+x^2+x+1
// (mod f) makes f(x)<<(k-128) carry both a term at position k (canceling
// the bit being eliminated) and the reduced substitute terms at lower
// positions. This is the textbook-correct reduction rather than the
// fused shift-and-fold trick real CLMUL-based implementations use —
// see DESIGN.md for why the straightforward derivation was chosen here.
func reduce(r0, r1, r2, r3 uint64) (lo, hi uint64) {
	v := [4]uint64{r0, r1, r2, r3}
	for k := 255; k >= 128; k-- {
		word := k / 64
		bit := uint(k % 64)
		if (v[word]>>bit)&1 == 0 {
			continue
		}
		s := uint(k - 128)
		for _, term := range fTermShifts {
			p := term + s
			v[p/64] ^= 1 << (p % 64)
		}
	}
	return v[0], v[1]
}

// mulReflectedKaratsuba is the optimized reflected-domain multiply: one
// Karatsuba product followed by one reduction.
func mulReflectedKaratsuba(xlo, xhi, ylo, yhi uint64) (lo, hi uint64) {
	r0, r1, r2, r3 := mulKaratsuba256(xlo, xhi, ylo, yhi)
	return reduce(r0, r1, r2, r3)
}

// mulReflectedSchoolbook is the same multiply computed via the
// four-partial-product form, kept so Gate P0 can cross-check it against
// the Karatsuba path.
func mulReflectedSchoolbook(xlo, xhi, ylo, yhi uint64) (lo, hi uint64) {
	r0, r1, r2, r3 := mulSchoolbook256(xlo, xhi, ylo, yhi)
	return reduce(r0, r1, r2, r3)
}

// MulReflected multiplies two reflected-domain elements and returns
// their reduced product, also in the reflected domain.
func MulReflected(xlo, xhi, ylo, yhi uint64) (lo, hi uint64) {
	return mulReflectedKaratsuba(xlo, xhi, ylo, yhi)
}
