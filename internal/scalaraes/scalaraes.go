// Package scalaraes implements the AES-256 round function and key
// schedule as a plain, portable oracle.
//
// This is deliberately the least interesting package in the module: the
// GHASH field arithmetic and the fused kernel built on top of it are the
// parts of this codebase with real design in them. scalaraes exists only
// to produce E_K(block) correctly, and is not hardened against
// cache-timing attacks on its S-box lookups — see the module's
// non-goals. Only encryption is implemented: every user of this package
// (CTR-mode keystream generation, the GHASH subkey and tag mask) only
// ever calls AES forward, never its inverse.
package scalaraes

const (
	// KeySize is the only key size this oracle supports.
	KeySize = 32

	// BlockSize is the AES block size in bytes.
	BlockSize = 16

	nb = 4  // words per state, fixed by AES
	nk = 8  // key words, AES-256
	nr = 14 // rounds, AES-256
)

// sbox is the Rijndael substitution table. Adapted from the standard
// FIPS-197 table; this is the one lookup table scalaraes uses, and it is
// the oracle's only concession to speed, matching the common meaning of
// "table-free" here: no precomputed T0..T3 round tables, just S-box,
// ShiftRows, and MixColumns applied directly.
var sbox = [256]byte{
	0x63, 0x7c, 0x77, 0x7b, 0xf2, 0x6b, 0x6f, 0xc5, 0x30, 0x01, 0x67, 0x2b, 0xfe, 0xd7, 0xab, 0x76,
	0xca, 0x82, 0xc9, 0x7d, 0xfa, 0x59, 0x47, 0xf0, 0xad, 0xd4, 0xa2, 0xaf, 0x9c, 0xa4, 0x72, 0xc0,
	0xb7, 0xfd, 0x93, 0x26, 0x36, 0x3f, 0xf7, 0xcc, 0x34, 0xa5, 0xe5, 0xf1, 0x71, 0xd8, 0x31, 0x15,
	0x04, 0xc7, 0x23, 0xc3, 0x18, 0x96, 0x05, 0x9a, 0x07, 0x12, 0x80, 0xe2, 0xeb, 0x27, 0xb2, 0x75,
	0x09, 0x83, 0x2c, 0x1a, 0x1b, 0x6e, 0x5a, 0xa0, 0x52, 0x3b, 0xd6, 0xb3, 0x29, 0xe3, 0x2f, 0x84,
	0x53, 0xd1, 0x00, 0xed, 0x20, 0xfc, 0xb1, 0x5b, 0x6a, 0xcb, 0xbe, 0x39, 0x4a, 0x4c, 0x58, 0xcf,
	0xd0, 0xef, 0xaa, 0xfb, 0x43, 0x4d, 0x33, 0x85, 0x45, 0xf9, 0x02, 0x7f, 0x50, 0x3c, 0x9f, 0xa8,
	0x51, 0xa3, 0x40, 0x8f, 0x92, 0x9d, 0x38, 0xf5, 0xbc, 0xb6, 0xda, 0x21, 0x10, 0xff, 0xf3, 0xd2,
	0xcd, 0x0c, 0x13, 0xec, 0x5f, 0x97, 0x44, 0x17, 0xc4, 0xa7, 0x7e, 0x3d, 0x64, 0x5d, 0x19, 0x73,
	0x60, 0x81, 0x4f, 0xdc, 0x22, 0x2a, 0x90, 0x88, 0x46, 0xee, 0xb8, 0x14, 0xde, 0x5e, 0x0b, 0xdb,
	0xe0, 0x32, 0x3a, 0x0a, 0x49, 0x06, 0x24, 0x5c, 0xc2, 0xd3, 0xac, 0x62, 0x91, 0x95, 0xe4, 0x79,
	0xe7, 0xc8, 0x37, 0x6d, 0x8d, 0xd5, 0x4e, 0xa9, 0x6c, 0x56, 0xf4, 0xea, 0x65, 0x7a, 0xae, 0x08,
	0xba, 0x78, 0x25, 0x2e, 0x1c, 0xa6, 0xb4, 0xc6, 0xe8, 0xdd, 0x74, 0x1f, 0x4b, 0xbd, 0x8b, 0x8a,
	0x70, 0x3e, 0xb5, 0x66, 0x48, 0x03, 0xf6, 0x0e, 0x61, 0x35, 0x57, 0xb9, 0x86, 0xc1, 0x1d, 0x9e,
	0xe1, 0xf8, 0x98, 0x11, 0x69, 0xd9, 0x8e, 0x94, 0x9b, 0x1e, 0x87, 0xe9, 0xce, 0x55, 0x28, 0xdf,
	0x8c, 0xa1, 0x89, 0x0d, 0xbf, 0xe6, 0x42, 0x68, 0x41, 0x99, 0x2d, 0x0f, 0xb0, 0x54, 0xbb, 0x16,
}

var rcon = [11]byte{0x00, 0x01, 0x02, 0x04, 0x08, 0x10, 0x20, 0x40, 0x80, 0x1b, 0x36}

// RoundKeys holds the nr+1 expanded 128-bit round keys for AES-256.
type RoundKeys [nr + 1][BlockSize]byte

func subWord(w [4]byte) [4]byte {
	return [4]byte{sbox[w[0]], sbox[w[1]], sbox[w[2]], sbox[w[3]]}
}

func rotWord(w [4]byte) [4]byte {
	return [4]byte{w[1], w[2], w[3], w[0]}
}

// ExpandKey runs the FIPS-197 AES-256 key schedule over a 32-byte key and
// returns the 15 round keys it produces.
func ExpandKey(key []byte) (RoundKeys, error) {
	if len(key) != KeySize {
		return RoundKeys{}, ErrInvalidKeySize
	}

	var w [nb * (nr + 1)][4]byte
	for i := 0; i < nk; i++ {
		copy(w[i][:], key[4*i:4*i+4])
	}

	for i := nk; i < nb*(nr+1); i++ {
		temp := w[i-1]
		switch {
		case i%nk == 0:
			temp = subWord(rotWord(temp))
			temp[0] ^= rcon[i/nk]
		case nk > 6 && i%nk == 4:
			temp = subWord(temp)
		}
		for j := range temp {
			w[i][j] = w[i-nk][j] ^ temp[j]
		}
	}

	var rk RoundKeys
	for round := 0; round <= nr; round++ {
		for col := 0; col < nb; col++ {
			word := w[round*nb+col]
			copy(rk[round][4*col:4*col+4], word[:])
		}
	}
	return rk, nil
}

func addRoundKey(state *[BlockSize]byte, rk [BlockSize]byte) {
	for i := range state {
		state[i] ^= rk[i]
	}
}

func subBytes(state *[BlockSize]byte) {
	for i := range state {
		state[i] = sbox[state[i]]
	}
}

// shiftRows operates on the state in AES's column-major byte order:
// state[col*4+row].
func shiftRows(state *[BlockSize]byte) {
	var out [BlockSize]byte
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			out[col*4+row] = state[((col+row)%4)*4+row]
		}
	}
	*state = out
}

func xtime(b byte) byte {
	hi := b & 0x80
	b <<= 1
	if hi != 0 {
		b ^= 0x1b
	}
	return b
}

func gmul(a, b byte) byte {
	var p byte
	for i := 0; i < 8; i++ {
		if b&1 != 0 {
			p ^= a
		}
		a = xtime(a)
		b >>= 1
	}
	return p
}

func mixColumns(state *[BlockSize]byte) {
	for c := 0; c < 4; c++ {
		s0, s1, s2, s3 := state[4*c], state[4*c+1], state[4*c+2], state[4*c+3]
		state[4*c+0] = gmul(0x02, s0) ^ gmul(0x03, s1) ^ s2 ^ s3
		state[4*c+1] = s0 ^ gmul(0x02, s1) ^ gmul(0x03, s2) ^ s3
		state[4*c+2] = s0 ^ s1 ^ gmul(0x02, s2) ^ gmul(0x03, s3)
		state[4*c+3] = gmul(0x03, s0) ^ s1 ^ s2 ^ gmul(0x02, s3)
	}
}

// EncryptBlock computes E_K(in) into out using the expanded round keys.
// in, out, and block scratch space are all exactly BlockSize bytes; out
// may alias in.
func EncryptBlock(rk *RoundKeys, out, in []byte) {
	var state [BlockSize]byte
	copy(state[:], in[:BlockSize])

	addRoundKey(&state, rk[0])
	for round := 1; round < nr; round++ {
		subBytes(&state)
		shiftRows(&state)
		mixColumns(&state)
		addRoundKey(&state, rk[round])
	}
	subBytes(&state)
	shiftRows(&state)
	addRoundKey(&state, rk[nr])

	copy(out[:BlockSize], state[:])
}
