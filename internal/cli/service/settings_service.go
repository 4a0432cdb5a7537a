package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"ImageTranslator/internal/cli/provider"
	"ImageTranslator/internal/cli/repo"
	apperr "ImageTranslator/internal/errors"
)

// Ключи настроек клиента.
const (
	SettingAutoSaveHistory        = "autoSaveHistory"
	SettingTargetLanguage         = "targetLanguage"
	SettingTranslationTone        = "translationTone"
	SettingImageGenerationEnabled = "imageGenerationEnabled"
	SettingDefaultResolution      = "defaultResolution"
	SettingDefaultAspectRatio     = "defaultAspectRatio"
)

// SettingKeys — все ключи в порядке вывода.
var SettingKeys = []string{
	SettingAutoSaveHistory,
	SettingTargetLanguage,
	SettingTranslationTone,
	SettingImageGenerationEnabled,
	SettingDefaultResolution,
	SettingDefaultAspectRatio,
}

// Settings — пользовательские настройки перевода.
type Settings struct {
	AutoSaveHistory        bool
	TargetLanguage         string
	TranslationTone        string
	ImageGenerationEnabled bool
	DefaultResolution      string
	DefaultAspectRatio     string
}

// DefaultSettings — значения для ключей, которые ещё не сохранялись.
func DefaultSettings() Settings {
	return Settings{
		AutoSaveHistory:    true,
		TargetLanguage:     "ko",
		TranslationTone:    provider.ToneGeneral,
		DefaultResolution:  provider.DefaultResolution,
		DefaultAspectRatio: provider.DefaultAspectRatio,
	}
}

// Value возвращает значение ключа в текстовом виде.
func (s Settings) Value(key string) (string, bool) {
	switch key {
	case SettingAutoSaveHistory:
		return strconv.FormatBool(s.AutoSaveHistory), true
	case SettingTargetLanguage:
		return s.TargetLanguage, true
	case SettingTranslationTone:
		return s.TranslationTone, true
	case SettingImageGenerationEnabled:
		return strconv.FormatBool(s.ImageGenerationEnabled), true
	case SettingDefaultResolution:
		return s.DefaultResolution, true
	case SettingDefaultAspectRatio:
		return s.DefaultAspectRatio, true
	}
	return "", false
}

// SettingsService читает и изменяет настройки поверх коллекции settings.
type SettingsService struct {
	repo repo.SettingsRepository
}

// NewSettingsService создаёт сервис настроек.
func NewSettingsService(r repo.SettingsRepository) *SettingsService {
	return &SettingsService{repo: r}
}

// Load возвращает настройки, дополняя отсутствующие ключи значениями по умолчанию.
func (s *SettingsService) Load(ctx context.Context) (Settings, error) {
	st := DefaultSettings()
	fields := map[string]any{
		SettingAutoSaveHistory:        &st.AutoSaveHistory,
		SettingTargetLanguage:         &st.TargetLanguage,
		SettingTranslationTone:        &st.TranslationTone,
		SettingImageGenerationEnabled: &st.ImageGenerationEnabled,
		SettingDefaultResolution:      &st.DefaultResolution,
		SettingDefaultAspectRatio:     &st.DefaultAspectRatio,
	}
	raw, err := s.repo.All(ctx)
	if err != nil {
		return Settings{}, err
	}
	for key, dst := range fields {
		v, ok := raw[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal([]byte(v), dst); err != nil {
			return Settings{}, fmt.Errorf("decode setting %q: %w", key, err)
		}
	}
	return st, nil
}

// Set проверяет и сохраняет значение ключа, заданное строкой.
func (s *SettingsService) Set(ctx context.Context, key, raw string) error {
	var value any
	switch key {
	case SettingAutoSaveHistory, SettingImageGenerationEnabled:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return apperr.Wrap(apperr.ErrInvalidFormat, fmt.Sprintf("%s expects true|false", key))
		}
		value = b
	case SettingTargetLanguage:
		if _, ok := provider.LookupTarget(raw); !ok {
			return apperr.Wrap(apperr.ErrInvalidFormat, "unsupported target language "+raw)
		}
		value = raw
	case SettingTranslationTone:
		if !provider.ValidTone(raw) {
			return apperr.Wrap(apperr.ErrInvalidFormat, "unsupported tone "+raw)
		}
		value = raw
	case SettingDefaultResolution:
		if !provider.ValidResolution(raw) {
			return apperr.Wrap(apperr.ErrInvalidFormat, "unsupported resolution "+raw)
		}
		value = raw
	case SettingDefaultAspectRatio:
		if !provider.ValidAspectRatio(raw) {
			return apperr.Wrap(apperr.ErrInvalidFormat, "unsupported aspect ratio "+raw)
		}
		value = raw
	default:
		return apperr.Wrap(apperr.ErrInvalidFormat, "unknown setting "+key)
	}
	return s.repo.Set(ctx, key, value)
}
