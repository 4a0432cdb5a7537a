package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"ImageTranslator/internal/cli/model"
	"ImageTranslator/internal/config"
	apperr "ImageTranslator/internal/errors"
)

// Названия режимов защиты API-ключа.
const (
	ModeSecure   = "secure"
	ModeFallback = "fallback"
)

// Capabilities — возможности окружения, определяющие стратегию шифрования.
// RequireSecure запрещает обфускацию при записи: без AEAD Encrypt возвращает ошибку.
type Capabilities struct {
	Secure        bool
	RequireSecure bool
}

// CapabilityProbe вызывается на каждую операцию; результат не кэшируется.
type CapabilityProbe func() Capabilities

// HostProbe — проба для CLI: режим fallback из конфигурации запрещает AEAD,
// в остальных режимах AEAD доступен, пока читается системный источник случайности.
// Режим secure дополнительно запрещает обфускацию.
func HostProbe(mode string) CapabilityProbe {
	return func() Capabilities {
		if mode == config.CipherModeFallback {
			return Capabilities{}
		}
		caps := Capabilities{RequireSecure: mode == config.CipherModeSecure}
		var b [1]byte
		if _, err := rand.Read(b[:]); err == nil {
			caps.Secure = true
		}
		return caps
	}
}

// Strategy — одна из двух схем кодирования API-ключа.
type Strategy interface {
	Name() string
	Seal(secret string) (model.EncryptedCredential, error)
	Open(ec model.EncryptedCredential) (string, error)
}

// aeadStrategy — AEAD на ключе, выведенном из отпечатка.
type aeadStrategy struct {
	fp        Fingerprint
	algorithm string
}

func (aeadStrategy) Name() string { return ModeSecure }

func (s aeadStrategy) Seal(secret string) (model.EncryptedCredential, error) {
	ct, nonce, err := Encrypt([]byte(secret), DeriveKey(s.fp), s.algorithm)
	if err != nil {
		return model.EncryptedCredential{}, err
	}
	return model.EncryptedCredential{
		Payload: base64.StdEncoding.EncodeToString(ct),
		Nonce:   base64.StdEncoding.EncodeToString(nonce),
	}, nil
}

func (s aeadStrategy) Open(ec model.EncryptedCredential) (string, error) {
	ct, err := base64.StdEncoding.DecodeString(ec.Payload)
	if err != nil {
		return "", err
	}
	nonce, err := base64.StdEncoding.DecodeString(ec.Nonce)
	if err != nil {
		return "", err
	}
	plain, err := Decrypt(ct, nonce, DeriveKey(s.fp), s.algorithm)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

// xorStrategy — обфускация для окружений без AEAD.
// Не обеспечивает конфиденциальности против того, кто может прочитать слот и знает схему.
type xorStrategy struct {
	fp Fingerprint
}

func (xorStrategy) Name() string { return ModeFallback }

func (s xorStrategy) Seal(secret string) (model.EncryptedCredential, error) {
	encoded := xorBytes([]byte(secret), ObfuscationKey(s.fp))
	return model.EncryptedCredential{
		Payload: base64.StdEncoding.EncodeToString(encoded),
		Nonce:   model.FallbackNonce,
	}, nil
}

func (s xorStrategy) Open(ec model.EncryptedCredential) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ec.Payload)
	if err != nil {
		return "", err
	}
	plain := xorBytes(raw, ObfuscationKey(s.fp))
	if len(plain) == 0 || !utf8.Valid(plain) {
		return "", apperr.ErrDecryptionFailed
	}
	return string(plain), nil
}

// plausibleSecret отсеивает мусор, получающийся при XOR-декодировании AEAD-шифртекста.
func plausibleSecret(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

// Cipher шифрует и расшифровывает API-ключ, выбирая стратегию по возможностям окружения.
type Cipher struct {
	secure   Strategy
	fallback Strategy
	probe    CapabilityProbe
	logger   *zap.SugaredLogger
}

// NewCipher создаёт шифратор для отпечатка fp. probe == nil означает HostProbe(auto).
func NewCipher(fp Fingerprint, algorithm string, probe CapabilityProbe, logger *zap.SugaredLogger) *Cipher {
	if probe == nil {
		probe = HostProbe(config.CipherModeAuto)
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Cipher{
		secure:   aeadStrategy{fp: fp, algorithm: algorithm},
		fallback: xorStrategy{fp: fp},
		probe:    probe,
		logger:   logger,
	}
}

// Mode возвращает режим, который будет выбран для следующего Encrypt.
func (c *Cipher) Mode() string {
	if c.probe().Secure {
		return ModeSecure
	}
	return ModeFallback
}

// Encrypt кодирует секрет. При недоступности или сбое AEAD используется обфускация,
// если окружение её допускает, иначе ErrInsecureContext.
func (c *Cipher) Encrypt(secret string) (model.EncryptedCredential, error) {
	caps := c.probe()
	if caps.Secure {
		ec, err := c.secure.Seal(secret)
		if err == nil {
			return ec, nil
		}
		if caps.RequireSecure {
			return model.EncryptedCredential{}, apperr.Wrap(apperr.ErrInsecureContext, err.Error())
		}
		c.logger.Warnw("secure encryption failed, using fallback", "error", err)
	}
	if caps.RequireSecure {
		return model.EncryptedCredential{}, apperr.ErrInsecureContext
	}
	return c.fallback.Seal(secret)
}

// Decrypt восстанавливает секрет. Если AEAD не сработал, пробуется обфускация,
// иначе ErrDecryptionFailed.
func (c *Cipher) Decrypt(ec model.EncryptedCredential) (string, error) {
	if ec.IsFallback() || !c.probe().Secure {
		secret, err := c.fallback.Open(ec)
		if err != nil {
			return "", apperr.Wrap(apperr.ErrDecryptionFailed, c.fallback.Name())
		}
		return secret, nil
	}

	secret, err := c.secure.Open(ec)
	if err == nil {
		return secret, nil
	}
	c.logger.Warnw("secure decryption failed, trying fallback", "error", err)
	if secret, ferr := c.fallback.Open(ec); ferr == nil && plausibleSecret(secret) {
		return secret, nil
	}
	return "", apperr.ErrDecryptionFailed
}
