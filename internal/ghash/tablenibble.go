package ghash

import "encoding/binary"

// last4 is the precomputed reduction table for the top nibble carry in
// gfMultNibble: for r in 0..15, last4[r] = (r * x^124) reduced, expressed
// as the high 16 bits of its low word shifted into position. Adapted
// directly from the nibble-table GHASH implementation this package's
// portable fallback is grounded on.
var last4 = [16]uint64{
	0x0000, 0x1c20, 0x3840, 0x2460, 0x7080, 0x6ca0, 0x48c0, 0x54e0,
	0xe100, 0xfd20, 0xd940, 0xc560, 0x9180, 0x8da0, 0xa9c0, 0xb5e0,
}

// buildNibbleTables expands a spec-domain subkey H into the sixteen
// precomputed products H*{0..15} (one per possible nibble value) used
// by gfMultNibble, split into high/low 64-bit halves the same way the
// reference implementation lays them out.
func buildNibbleTables(h [16]byte) (hl, hh [16]uint64) {
	vh := binary.BigEndian.Uint64(h[:8])
	vl := binary.BigEndian.Uint64(h[8:])

	hl[8] = vl // index 8 = binary 1000 = coefficient 1 in GF(2^128)
	hh[8] = vh

	for i := 4; i > 0; i >>= 1 {
		t := uint32(vl&1) * 0xe1000000
		vl = (vh << 63) | (vl >> 1)
		vh = (vh >> 1) ^ (uint64(t) << 32)
		hl[i] = vl
		hh[i] = vh
	}

	for i := 2; i < 16; i <<= 1 {
		vh = hh[i]
		vl = hl[i]
		for j := 1; j < i; j++ {
			hh[i+j] = vh ^ hh[j]
			hl[i+j] = vl ^ hl[j]
		}
	}
	return
}

// gfMultNibble multiplies a spec-domain block x by the subkey baked
// into hl/hh, processing x one nibble at a time from the most
// significant byte down. This is the portable fallback backend: no
// 64-bit carry-less multiply primitive at all, just sixteen-entry
// tables and shifts, in the spec's own big-endian domain throughout
// (no reflection). It exists both as a fallback for capability-starved
// targets and as an independently-derived cross-check against the
// reflected-domain Karatsuba path in ghash_test.go.
func gfMultNibble(hl, hh [16]uint64, x [16]byte) [16]byte {
	lo := x[15] & 0x0f
	hi := x[15] >> 4

	zh := hh[lo]
	zl := hl[lo]

	rem := zl & 0x0f
	zl = (zh<<60 | zl>>4) ^ hl[hi]
	zh = (zh >> 4) ^ (last4[rem] << 48) ^ hh[hi]

	for i := 14; i >= 0; i-- {
		lo = x[i] & 0x0f
		hi = x[i] >> 4

		rem = zl & 0x0f
		zl = (zh<<60 | zl>>4) ^ hl[lo]
		zh = (zh >> 4) ^ (last4[rem] << 48) ^ hh[lo]

		rem = zl & 0x0f
		zl = (zh<<60 | zl>>4) ^ hl[hi]
		zh = (zh >> 4) ^ (last4[rem] << 48) ^ hh[hi]
	}

	var out [16]byte
	binary.BigEndian.PutUint64(out[:8], zh)
	binary.BigEndian.PutUint64(out[8:], zl)
	return out
}

// mulTableNibble multiplies two spec-domain blocks in GF(2^128) using
// gfMultNibble, building a fresh table each call. Callers that repeat
// the same H across many blocks (the fused kernel's portable backend)
// should call buildNibbleTables once and drive gfMultNibble directly
// instead.
func mulTableNibble(x, h [16]byte) [16]byte {
	hl, hh := buildNibbleTables(h)
	return gfMultNibble(hl, hh, x)
}
