// Package errors содержит доменные ошибки клиента. Слои ниже оборачивают их
// через Wrap/fmt.Errorf, команды CLI сопоставляют их с сообщениями пользователю.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFormat — API-ключ не проходит минимальную проверку формата.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrDecryptionFailed — исчерпаны оба способа расшифровки (AEAD и fallback).
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrStorageUnavailable — локальное хранилище недоступно или вернуло ошибку.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrImageDecodeFailed — не удалось декодировать изображение для миниатюры.
	// Не фатальна: сохраняется оригинал.
	ErrImageDecodeFailed = errors.New("image decode failed")

	// ErrNotFound — запись с указанным id отсутствует.
	ErrNotFound = errors.New("not found")

	// ErrUnsupportedImage — тип или размер изображения не поддерживается.
	ErrUnsupportedImage = errors.New("unsupported image")

	// ErrNoCredential — API-ключ не сохранён или не может быть восстановлен.
	ErrNoCredential = errors.New("no credential")

	// ErrInsecureContext — AEAD недоступен, а обфускация запрещена режимом secure.
	ErrInsecureContext = errors.New("secure context required")
)

// Wrap добавляет контекст к ошибке, сохраняя цепочку. Для nil возвращает nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

