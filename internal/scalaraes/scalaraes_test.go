package scalaraes

import (
	"crypto/aes"
	"crypto/rand"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

// FIPS-197 Appendix C.3 AES-256 known-answer vector.
func TestEncryptBlockFIPS197(t *testing.T) {
	key, err := hex.DecodeString("000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f")
	require.NoError(t, err)
	in, err := hex.DecodeString("00112233445566778899aabbccddeeff")
	require.NoError(t, err)
	want, err := hex.DecodeString("8ea2b7ca516745bfeafc49904b496089")
	require.NoError(t, err)

	rk, err := ExpandKey(key)
	require.NoError(t, err)

	out := make([]byte, BlockSize)
	EncryptBlock(&rk, out, in)
	require.Equal(t, want, out)
}

func TestEncryptBlockMatchesStdlib(t *testing.T) {
	key := make([]byte, KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)

	block, err := aes.NewCipher(key)
	require.NoError(t, err)

	rk, err := ExpandKey(key)
	require.NoError(t, err)

	for i := 0; i < 64; i++ {
		in := make([]byte, BlockSize)
		_, err := rand.Read(in)
		require.NoError(t, err)

		want := make([]byte, BlockSize)
		block.Encrypt(want, in)

		got := make([]byte, BlockSize)
		EncryptBlock(&rk, got, in)

		require.Equal(t, want, got, "block %d", i)
	}
}

func TestExpandKeyInvalidSize(t *testing.T) {
	_, err := ExpandKey(make([]byte, 16))
	require.ErrorIs(t, err, ErrInvalidKeySize)
}
