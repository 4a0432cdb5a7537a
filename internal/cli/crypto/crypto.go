package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"

	"ImageTranslator/internal/config"
)

// newAEAD создаёт AEAD для выбранного алгоритма. Оба варианта: nonce 96 бит, тег 128 бит.
func newAEAD(key []byte, algorithm string) (cipher.AEAD, error) {
	if len(key) != keyLen {
		return nil, errors.New("invalid key length")
	}
	switch algorithm {
	case config.AEADChaCha20:
		return chacha20poly1305.New(key)
	case config.AEADAESGCM, "":
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, err
		}
		return cipher.NewGCM(block)
	default:
		return nil, fmt.Errorf("unsupported aead algorithm: %s", algorithm)
	}
}

// Encrypt шифрует plain выбранным AEAD и ключом.
// Возвращает шифртекст (с тегом) и свежий случайный nonce.
func Encrypt(plain, key []byte, algorithm string) ([]byte, []byte, error) {
	aead, err := newAEAD(key, algorithm)
	if err != nil {
		return nil, nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, nil, err
	}
	out := aead.Seal(nil, nonce, plain, nil)
	return out, nonce, nil
}

// Decrypt расшифровывает шифртекст с использованием AEAD, ключа и nonce.
func Decrypt(ciphertext, nonce, key []byte, algorithm string) ([]byte, error) {
	aead, err := newAEAD(key, algorithm)
	if err != nil {
		return nil, err
	}
	if len(nonce) != aead.NonceSize() {
		return nil, errors.New("invalid nonce size")
	}
	return aead.Open(nil, nonce, ciphertext, nil)
}

// xorBytes — обратимый XOR с повторяющимся ключом.
func xorBytes(data []byte, key string) []byte {
	out := make([]byte, len(data))
	if len(key) == 0 {
		copy(out, data)
		return out
	}
	for i := range data {
		out[i] = data[i] ^ key[i%len(key)]
	}
	return out
}
