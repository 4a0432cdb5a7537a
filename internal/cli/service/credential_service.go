package service

import (
	"encoding/json"
	"errors"
	iofs "io/fs"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"ImageTranslator/internal/cli/model"
	"ImageTranslator/internal/cli/repo"
	apperr "ImageTranslator/internal/errors"
)

// MinCredentialLength — минимальная длина API-ключа.
const MinCredentialLength = 20

// CredentialCipher — шифратор API-ключа (см. crypto.Cipher).
type CredentialCipher interface {
	Encrypt(secret string) (model.EncryptedCredential, error)
	Decrypt(ec model.EncryptedCredential) (string, error)
	Mode() string
}

// CredentialService — единственный компонент, которому разрешено трогать слот API-ключа.
type CredentialService struct {
	slot   repo.CredentialSlot
	cipher CredentialCipher
	logger *zap.SugaredLogger
}

// NewCredentialService создаёт сервис поверх слота и шифратора.
func NewCredentialService(slot repo.CredentialSlot, cipher CredentialCipher, logger *zap.SugaredLogger) *CredentialService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &CredentialService{slot: slot, cipher: cipher, logger: logger}
}

// Save проверяет формат, шифрует и перезаписывает слот (последняя запись побеждает).
func (s *CredentialService) Save(secret string) error {
	secret = strings.TrimSpace(secret)
	if !utf8.ValidString(secret) {
		return apperr.Wrap(apperr.ErrInvalidFormat, "api key is not valid utf-8")
	}
	if utf8.RuneCountInString(secret) < MinCredentialLength {
		return apperr.Wrap(apperr.ErrInvalidFormat, "api key is too short")
	}
	ec, err := s.cipher.Encrypt(secret)
	if errors.Is(err, apperr.ErrInsecureContext) {
		return err
	}
	if err != nil {
		return apperr.Wrap(apperr.ErrStorageUnavailable, err.Error())
	}
	data, err := json.Marshal(ec)
	if err != nil {
		return err
	}
	if err := s.slot.Write(data); err != nil {
		return apperr.Wrap(apperr.ErrStorageUnavailable, err.Error())
	}
	s.logger.Debugw("api key saved", "mode", modeOf(ec))
	return nil
}

// Load возвращает сохранённый API-ключ. Повреждённую или нерасшифровываемую запись
// удаляет и сообщает об отсутствии ключа; ошибку наружу не отдаёт.
func (s *CredentialService) Load() (string, bool) {
	data, err := s.slot.Read()
	if err != nil {
		if !errors.Is(err, iofs.ErrNotExist) {
			s.logger.Warnw("credential slot unavailable", "error", err)
		}
		return "", false
	}

	var ec model.EncryptedCredential
	if err := json.Unmarshal(data, &ec); err != nil || !ec.Complete() {
		s.logger.Warnw("stored api key is corrupt, removing", "error", err)
		s.purge()
		return "", false
	}

	secret, err := s.cipher.Decrypt(ec)
	if err != nil {
		s.logger.Warnw("stored api key cannot be decrypted, removing", "error", err, "mode", modeOf(ec))
		s.purge()
		return "", false
	}
	return secret, true
}

// Delete удаляет слот; повторный вызов не ошибка.
func (s *CredentialService) Delete() error {
	if err := s.slot.Remove(); err != nil {
		return apperr.Wrap(apperr.ErrStorageUnavailable, err.Error())
	}
	return nil
}

// HasStored сообщает, есть ли что-то в слоте (без расшифровки).
func (s *CredentialService) HasStored() bool {
	_, err := s.slot.Read()
	return err == nil
}

// StoredMode — режим, которым закодирован ключ в слоте (secure|fallback).
func (s *CredentialService) StoredMode() (string, bool) {
	data, err := s.slot.Read()
	if err != nil {
		return "", false
	}
	var ec model.EncryptedCredential
	if err := json.Unmarshal(data, &ec); err != nil || !ec.Complete() {
		return "", false
	}
	return modeOf(ec), true
}

// Mode — режим защиты, который будет использован при следующем Save.
func (s *CredentialService) Mode() string {
	return s.cipher.Mode()
}

func (s *CredentialService) purge() {
	if err := s.slot.Remove(); err != nil {
		s.logger.Warnw("failed to remove credential slot", "error", err)
	}
}

func modeOf(ec model.EncryptedCredential) string {
	if ec.IsFallback() {
		return "fallback"
	}
	return "secure"
}

// maskRun — длина середины маски; не зависит от длины ключа.
const maskRun = 8

// Mask скрывает API-ключ для вывода: первые и последние 4 символа, середина — '*'.
// Ключи из 8 символов и короче не раскрываются вовсе.
func Mask(secret string) string {
	r := []rune(secret)
	if len(r) <= 8 {
		return "****"
	}
	return string(r[:4]) + strings.Repeat("*", maskRun) + string(r[len(r)-4:])
}
