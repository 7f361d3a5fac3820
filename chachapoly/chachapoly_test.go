package chachapoly

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Intelligence-Designer/soliton"
)

func TestAEADSizes(t *testing.T) {
	aead := New(make([]byte, KeySize))
	require.Equal(t, NonceSize, aead.NonceSize())
	require.Equal(t, TagSize, aead.Overhead())
}

func TestNewPanicsOnBadKeySize(t *testing.T) {
	require.Panics(t, func() { New(make([]byte, KeySize-1)) })
}

func TestSealOpenRoundTrip(t *testing.T) {
	key := make([]byte, KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	nonce := make([]byte, NonceSize)
	_, err = rand.Read(nonce)
	require.NoError(t, err)

	aead := New(key)

	for _, sz := range []int{0, 1, 64, 1024, 4096} {
		sz := sz
		t.Run(fmt.Sprintf("size_%d", sz), func(t *testing.T) {
			pt := make([]byte, sz)
			_, err := rand.Read(pt)
			require.NoError(t, err)
			aad := []byte("associated data")

			ct := aead.Seal(nil, nonce, pt, aad)
			require.Len(t, ct, sz+TagSize)

			got, err := aead.Open(nil, nonce, ct, aad)
			require.NoError(t, err)
			require.Equal(t, pt, got)

			badCT := append([]byte{}, ct...)
			badCT[len(badCT)-1] ^= 0x01
			_, err = aead.Open(nil, nonce, badCT, aad)
			require.ErrorIs(t, err, soliton.ErrAuthFailed)
		})
	}
}

// TestRFC8439TestVector checks the well-known RFC 8439 §2.8.2 sample
// encryption, so this wrapper is verified against the standard's own
// published vector, not only against itself.
func TestRFC8439TestVector(t *testing.T) {
	key := mustHex(t,
		"808182838485868788898a8b8c8d8e8f"+
			"909192939495969798999a9b9c9d9e9f")
	nonce := mustHex(t, "070000004041424344454647")
	aad := mustHex(t, "50515253c0c1c2c3c4c5c6c7")
	plaintext := []byte("Ladies and Gentlemen of the class of '99: " +
		"If I could offer you only one tip for the future, sunscreen would be it.")

	wantCT := mustHex(t,
		"d31a8d34648e60db7b86afbc53ef7ec2"+
			"a4aded51296e08fea9e2b5a736ee62d6"+
			"3dbea45e8ca9671282fafb69da92728b"+
			"1a71de0a9e060b2905d6a5b67ecd3b36"+
			"92ddbd7f2d778b8c9803aee328091b58"+
			"fab324e4fad675945585808b4831d7bc"+
			"3ff4def08e4b7a9de576d26586cec64b"+
			"6116")
	wantTag := mustHex(t, "1ae10b594f09e26a7e902ecbd0600691")

	aead := New(key)
	ct := aead.Seal(nil, nonce, plaintext, aad)
	require.Equal(t, append(wantCT, wantTag...), ct)

	got, err := aead.Open(nil, nonce, ct, aad)
	require.NoError(t, err)
	require.Equal(t, plaintext, got)
}

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}
