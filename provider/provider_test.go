package provider

import (
	"crypto/rand"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/Intelligence-Designer/soliton"
	"github.com/Intelligence-Designer/soliton/chachapoly"
)

func TestNewAESGCMCrypterRejectsBadKeySize(t *testing.T) {
	_, err := NewAESGCMCrypter(make([]byte, soliton.KeySize-1))
	require.ErrorIs(t, err, soliton.ErrInvalidInput)
}

func TestNewChaCha20Poly1305CrypterRejectsBadKeySize(t *testing.T) {
	_, err := NewChaCha20Poly1305Crypter(make([]byte, chachapoly.KeySize-1))
	require.ErrorIs(t, err, soliton.ErrInvalidInput)
}

func TestAESGCMCrypterRoundTrip(t *testing.T) {
	key := make([]byte, soliton.KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	c, err := NewAESGCMCrypter(key)
	require.NoError(t, err)
	require.Equal(t, AlgorithmAES256GCM, c.Algorithm())
	require.Equal(t, soliton.TagSize, c.TagSize())

	nonce := make([]byte, soliton.NonceSize)
	_, err = rand.Read(nonce)
	require.NoError(t, err)
	pt := []byte("provider round trip payload")
	aad := []byte("provider aad")

	ct, err := c.Encrypt(nil, pt, nonce, aad)
	require.NoError(t, err)
	got, err := c.Decrypt(nil, ct, nonce, aad)
	require.NoError(t, err)
	require.Equal(t, pt, got)

	ct[0] ^= 0x01
	_, err = c.Decrypt(nil, ct, nonce, aad)
	require.Error(t, err)
}

func TestChaCha20Poly1305CrypterRoundTrip(t *testing.T) {
	key := make([]byte, chachapoly.KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	c, err := NewChaCha20Poly1305Crypter(key)
	require.NoError(t, err)
	require.Equal(t, AlgorithmChaCha20Poly1305, c.Algorithm())
	require.Equal(t, chachapoly.TagSize, c.TagSize())

	nonce := make([]byte, chachapoly.NonceSize)
	_, err = rand.Read(nonce)
	require.NoError(t, err)
	pt := []byte("provider round trip payload")

	ct, err := c.Encrypt(nil, pt, nonce, nil)
	require.NoError(t, err)
	got, err := c.Decrypt(nil, ct, nonce, nil)
	require.NoError(t, err)
	require.Equal(t, pt, got)
}

func TestWithDiagnosticsRecordsSealsAndFailures(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector := NewCollector(reg)

	key := make([]byte, soliton.KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	base, err := NewAESGCMCrypter(key)
	require.NoError(t, err)
	c := WithDiagnostics(base, collector)

	nonce := make([]byte, soliton.NonceSize)
	_, err = rand.Read(nonce)
	require.NoError(t, err)
	pt := []byte("diagnostics payload")

	ct, err := c.Encrypt(nil, pt, nonce, nil)
	require.NoError(t, err)
	_, err = c.Decrypt(nil, ct, nonce, nil)
	require.NoError(t, err)

	ct[0] ^= 0x01
	_, err = c.Decrypt(nil, ct, nonce, nil)
	require.Error(t, err)

	metricFamilies, err := reg.Gather()
	require.NoError(t, err)
	var sawAuthFailure bool
	for _, mf := range metricFamilies {
		if mf.GetName() == "soliton_provider_auth_failures_total" {
			for _, m := range mf.GetMetric() {
				if m.GetCounter().GetValue() > 0 {
					sawAuthFailure = true
				}
			}
		}
	}
	require.True(t, sawAuthFailure, "expected at least one recorded auth failure")
}

func TestWithDiagnosticsNilCollectorIsNoOp(t *testing.T) {
	key := make([]byte, soliton.KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	base, err := NewAESGCMCrypter(key)
	require.NoError(t, err)
	c := WithDiagnostics(base, nil)
	require.Equal(t, base, c)
}
