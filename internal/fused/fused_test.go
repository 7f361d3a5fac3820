package fused

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Intelligence-Designer/soliton/internal/ghash"
	"github.com/Intelligence-Designer/soliton/internal/scalaraes"
)

func randomKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, scalaraes.KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func sequentialCTR(t *testing.T, rk *scalaraes.RoundKeys, counter [16]byte, plaintext []byte) []byte {
	t.Helper()
	out := make([]byte, len(plaintext))
	ctr := counter
	for off := 0; off < len(plaintext); off += 16 {
		var ks [16]byte
		scalaraes.EncryptBlock(rk, ks[:], ctr[:])
		incCounter32(&ctr)
		for j := 0; j < 16; j++ {
			out[off+j] = plaintext[off+j] ^ ks[j]
		}
	}
	return out
}

// The fused kernel's output ciphertext and final GHASH state must match
// plain sequential CTR-encrypt-then-hash, block by block.
func TestEncryptBlocks8MatchesSequential(t *testing.T) {
	key := randomKey(t)
	rk, err := scalaraes.ExpandKey(key)
	require.NoError(t, err)

	var hBlock [16]byte
	scalaraes.EncryptBlock(&rk, hBlock[:], hBlock[:])
	hlo, hhi := ghash.DeriveH(hBlock)
	hp := ghash.PrecomputeHPowers(hlo, hhi)

	plaintext := make([]byte, 128)
	_, err = rand.Read(plaintext)
	require.NoError(t, err)

	var counter [16]byte
	_, err = rand.Read(counter[:])
	require.NoError(t, err)

	wantCT := sequentialCTR(t, &rk, counter, plaintext)
	var wantAcc ghash.State
	wantAcc.Update(&hp, wantCT)

	gotCT := make([]byte, 128)
	var gotAcc ghash.State
	fusedCounter := counter
	EncryptBlocks8(&rk, &hp, &gotAcc, &fusedCounter, plaintext, gotCT)

	require.Equal(t, wantCT, gotCT)
	require.Equal(t, wantAcc, gotAcc)
	require.Equal(t, incNTimes(counter, 8), fusedCounter)
}

func TestDecryptBlocks8RoundTrips(t *testing.T) {
	key := randomKey(t)
	rk, err := scalaraes.ExpandKey(key)
	require.NoError(t, err)

	var hBlock [16]byte
	scalaraes.EncryptBlock(&rk, hBlock[:], hBlock[:])
	hlo, hhi := ghash.DeriveH(hBlock)
	hp := ghash.PrecomputeHPowers(hlo, hhi)

	plaintext := make([]byte, 128)
	_, err = rand.Read(plaintext)
	require.NoError(t, err)

	var counter [16]byte
	_, err = rand.Read(counter[:])
	require.NoError(t, err)

	ciphertext := make([]byte, 128)
	var encAcc ghash.State
	encCounter := counter
	EncryptBlocks8(&rk, &hp, &encAcc, &encCounter, plaintext, ciphertext)

	recovered := make([]byte, 128)
	var decAcc ghash.State
	decCounter := counter
	DecryptBlocks8(&rk, &hp, &decAcc, &decCounter, ciphertext, recovered)

	require.Equal(t, plaintext, recovered)
	require.Equal(t, encAcc, decAcc)
}

func TestEncryptBlocksPhaseLocked16MatchesTwoWavesOf8(t *testing.T) {
	key := randomKey(t)
	rk, err := scalaraes.ExpandKey(key)
	require.NoError(t, err)

	var hBlock [16]byte
	scalaraes.EncryptBlock(&rk, hBlock[:], hBlock[:])
	hlo, hhi := ghash.DeriveH(hBlock)
	hp := ghash.PrecomputeHPowers(hlo, hhi)

	plaintext := make([]byte, 256)
	_, err = rand.Read(plaintext)
	require.NoError(t, err)

	var counter [16]byte
	_, err = rand.Read(counter[:])
	require.NoError(t, err)

	ct16 := make([]byte, 256)
	var acc16 ghash.State
	counter16 := counter
	EncryptBlocksPhaseLocked16(&rk, &hp, &acc16, &counter16, plaintext, ct16)

	ct8 := make([]byte, 256)
	var acc8 ghash.State
	counter8 := counter
	EncryptBlocks8(&rk, &hp, &acc8, &counter8, plaintext[:128], ct8[:128])
	EncryptBlocks8(&rk, &hp, &acc8, &counter8, plaintext[128:], ct8[128:])

	require.Equal(t, ct8, ct16)
	require.Equal(t, acc8, acc16)
	require.Equal(t, counter8, counter16)
}

func incNTimes(block [16]byte, n int) [16]byte {
	for i := 0; i < n; i++ {
		incCounter32(&block)
	}
	return block
}
