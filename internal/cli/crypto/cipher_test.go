package crypto

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ImageTranslator/internal/cli/model"
	"ImageTranslator/internal/config"
	apperr "ImageTranslator/internal/errors"
)

const testSecret = "AIzaSyABCDEFGHIJKLMNOPQRSTUV"

func secureProbe() Capabilities   { return Capabilities{Secure: true} }
func insecureProbe() Capabilities { return Capabilities{Secure: false} }

func TestCipher_SecureRoundTrip(t *testing.T) {
	for _, alg := range []string{config.AEADAESGCM, config.AEADChaCha20} {
		c := NewCipher(fixedFingerprint(), alg, secureProbe, nil)
		ec, err := c.Encrypt(testSecret)
		require.NoError(t, err)
		assert.False(t, ec.IsFallback())

		nonce, err := base64.StdEncoding.DecodeString(ec.Nonce)
		require.NoError(t, err)
		assert.Len(t, nonce, 12)

		got, err := c.Decrypt(ec)
		require.NoError(t, err)
		assert.Equal(t, testSecret, got)
	}
}

func TestCipher_FallbackRoundTrip(t *testing.T) {
	c := NewCipher(fixedFingerprint(), config.AEADAESGCM, insecureProbe, nil)
	ec, err := c.Encrypt(testSecret)
	require.NoError(t, err)
	assert.Equal(t, model.FallbackNonce, ec.Nonce)
	assert.NotEqual(t, testSecret, ec.Payload)

	got, err := c.Decrypt(ec)
	require.NoError(t, err)
	assert.Equal(t, testSecret, got)
}

func TestCipher_FallbackRoundTrip_ControlCharacters(t *testing.T) {
	c := NewCipher(fixedFingerprint(), config.AEADAESGCM, insecureProbe, nil)
	for _, secret := range []string{
		"AIzaSyABCDEF\tGHIJKLMNOP",
		"AIzaSy\x00ABCDEFGHIJKLMNOP",
		"AIzaSyABCDEF\nGHIJKLMNOP",
	} {
		ec, err := c.Encrypt(secret)
		require.NoError(t, err)
		require.True(t, ec.IsFallback())

		got, err := c.Decrypt(ec)
		require.NoError(t, err, "secret %q", secret)
		assert.Equal(t, secret, got)
	}
}

func TestCipher_SecureRoundTrip_ControlCharacters(t *testing.T) {
	c := NewCipher(fixedFingerprint(), config.AEADAESGCM, secureProbe, nil)
	secret := "AIzaSyABCDEF\tGHIJKLMNOP"
	ec, err := c.Encrypt(secret)
	require.NoError(t, err)

	got, err := c.Decrypt(ec)
	require.NoError(t, err)
	assert.Equal(t, secret, got)
}

func TestCipher_NonceUniqueness(t *testing.T) {
	c := NewCipher(fixedFingerprint(), config.AEADAESGCM, secureProbe, nil)
	a, err := c.Encrypt(testSecret)
	require.NoError(t, err)
	b, err := c.Encrypt(testSecret)
	require.NoError(t, err)
	assert.NotEqual(t, a.Nonce, b.Nonce)
	assert.NotEqual(t, a.Payload, b.Payload)
}

func TestCipher_ProbeEvaluatedPerCall(t *testing.T) {
	secure := false
	probe := func() Capabilities { return Capabilities{Secure: secure} }
	c := NewCipher(fixedFingerprint(), config.AEADAESGCM, probe, nil)

	assert.Equal(t, ModeFallback, c.Mode())
	first, err := c.Encrypt(testSecret)
	require.NoError(t, err)
	assert.True(t, first.IsFallback())

	secure = true
	assert.Equal(t, ModeSecure, c.Mode())
	second, err := c.Encrypt(testSecret)
	require.NoError(t, err)
	assert.False(t, second.IsFallback())

	// запись, сделанная обфускацией, читается и в защищённом окружении
	got, err := c.Decrypt(first)
	require.NoError(t, err)
	assert.Equal(t, testSecret, got)
}

func TestCipher_DecryptLegacyFallbackWithRealNonce(t *testing.T) {
	c := NewCipher(fixedFingerprint(), config.AEADAESGCM, secureProbe, nil)
	legacy, err := xorStrategy{fp: fixedFingerprint()}.Seal(testSecret)
	require.NoError(t, err)
	legacy.Nonce = base64.StdEncoding.EncodeToString(make([]byte, 12))

	got, err := c.Decrypt(legacy)
	require.NoError(t, err)
	assert.Equal(t, testSecret, got)
}

func TestCipher_DecryptFailsWhenFingerprintChanged(t *testing.T) {
	ec, err := NewCipher(fixedFingerprint(), config.AEADAESGCM, secureProbe, nil).Encrypt(testSecret)
	require.NoError(t, err)

	moved := fixedFingerprint()
	moved.UserAgent = "Mozilla/6.0 (X11; Linux x86_64)"
	_, err = NewCipher(moved, config.AEADAESGCM, secureProbe, nil).Decrypt(ec)
	assert.ErrorIs(t, err, apperr.ErrDecryptionFailed)
}

func TestCipher_DecryptGarbage(t *testing.T) {
	c := NewCipher(fixedFingerprint(), config.AEADAESGCM, secureProbe, nil)
	_, err := c.Decrypt(model.EncryptedCredential{Payload: "%%%not-base64", Nonce: "also bad"})
	assert.ErrorIs(t, err, apperr.ErrDecryptionFailed)

	_, err = c.Decrypt(model.EncryptedCredential{Payload: "", Nonce: model.FallbackNonce})
	assert.ErrorIs(t, err, apperr.ErrDecryptionFailed)
}

func TestHostProbe(t *testing.T) {
	assert.Equal(t, Capabilities{}, HostProbe(config.CipherModeFallback)())
	assert.Equal(t, Capabilities{Secure: true}, HostProbe(config.CipherModeAuto)())
	assert.Equal(t, Capabilities{Secure: true, RequireSecure: true}, HostProbe(config.CipherModeSecure)())
}

func TestCipher_RequireSecureRefusesFallback(t *testing.T) {
	probe := func() Capabilities { return Capabilities{RequireSecure: true} }
	c := NewCipher(fixedFingerprint(), config.AEADAESGCM, probe, nil)

	_, err := c.Encrypt(testSecret)
	assert.ErrorIs(t, err, apperr.ErrInsecureContext)

	// чтение ранее записанной обфускации остаётся возможным
	legacy, err := xorStrategy{fp: fixedFingerprint()}.Seal(testSecret)
	require.NoError(t, err)
	got, err := c.Decrypt(legacy)
	require.NoError(t, err)
	assert.Equal(t, testSecret, got)
}

func TestCipher_RequireSecureSealFailure(t *testing.T) {
	probe := func() Capabilities { return Capabilities{Secure: true, RequireSecure: true} }
	c := NewCipher(fixedFingerprint(), "rot13", probe, nil)

	_, err := c.Encrypt(testSecret)
	assert.ErrorIs(t, err, apperr.ErrInsecureContext)

	// в режиме auto тот же сбой уходит в обфускацию
	auto := NewCipher(fixedFingerprint(), "rot13", secureProbe, nil)
	ec, err := auto.Encrypt(testSecret)
	require.NoError(t, err)
	assert.True(t, ec.IsFallback())
}
