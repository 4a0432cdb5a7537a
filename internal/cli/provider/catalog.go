package provider

import (
	"slices"

	"github.com/gabriel-vasile/mimetype"

	apperr "ImageTranslator/internal/errors"
)

// Language — поддерживаемый язык.
type Language struct {
	Code       string
	Name       string
	NativeName string
}

// Languages — языки интерфейса; "auto" допустим только как исходный.
var Languages = []Language{
	{Code: "auto", Name: "Auto Detect", NativeName: "자동 감지"},
	{Code: "ko", Name: "Korean", NativeName: "한국어"},
	{Code: "en", Name: "English", NativeName: "English"},
	{Code: "zh-CN", Name: "Chinese (Simplified)", NativeName: "简体中文"},
	{Code: "zh-TW", Name: "Chinese (Traditional)", NativeName: "繁體中文"},
	{Code: "ja", Name: "Japanese", NativeName: "日本語"},
	{Code: "vi", Name: "Vietnamese", NativeName: "Tiếng Việt"},
	{Code: "th", Name: "Thai", NativeName: "ไทย"},
	{Code: "es", Name: "Spanish", NativeName: "Español"},
	{Code: "fr", Name: "French", NativeName: "Français"},
	{Code: "de", Name: "German", NativeName: "Deutsch"},
}

// LookupTarget возвращает язык перевода по коду. "auto" целевым быть не может.
func LookupTarget(code string) (Language, bool) {
	if code == "auto" {
		return Language{}, false
	}
	for _, l := range Languages {
		if l.Code == code {
			return l, true
		}
	}
	return Language{}, false
}

// Тоны перевода.
const (
	ToneGeneral = "general"
	ToneProduct = "product"
	ToneFormal  = "formal"
)

var toneInstructions = map[string]string{
	ToneGeneral: "Use natural, fluent language.",
	ToneProduct: "Optimize for e-commerce product descriptions. Make it appealing and professional.",
	ToneFormal:  "Use formal, professional tone.",
}

// ValidTone сообщает, поддерживается ли тон.
func ValidTone(tone string) bool {
	_, ok := toneInstructions[tone]
	return ok
}

// AspectRatios — допустимые соотношения сторон для генерации изображения.
var AspectRatios = []string{"1:1", "2:3", "3:2", "3:4", "4:3", "4:5", "5:4", "9:16", "16:9", "21:9"}

// Resolutions — допустимые разрешения генерации.
var Resolutions = []string{"1K", "2K", "4K"}

// Параметры генерации по умолчанию.
const (
	DefaultResolution  = "2K"
	DefaultAspectRatio = "1:1"
)

// ValidAspectRatio проверяет соотношение сторон.
func ValidAspectRatio(r string) bool { return slices.Contains(AspectRatios, r) }

// ValidResolution проверяет разрешение.
func ValidResolution(r string) bool { return slices.Contains(Resolutions, r) }

// MaxImageSize — предельный размер входного изображения.
const MaxImageSize = 10 * 1024 * 1024

var acceptedTypes = []string{"image/png", "image/jpeg", "image/webp", "image/gif"}

// DetectImage определяет MIME-тип по содержимому и проверяет размер и тип.
func DetectImage(data []byte) (string, error) {
	if len(data) == 0 {
		return "", apperr.Wrap(apperr.ErrUnsupportedImage, "empty image")
	}
	if len(data) > MaxImageSize {
		return "", apperr.Wrap(apperr.ErrUnsupportedImage, "image exceeds 10MB")
	}
	mt := mimetype.Detect(data)
	for _, t := range acceptedTypes {
		if mt.Is(t) {
			return t, nil
		}
	}
	return "", apperr.Wrap(apperr.ErrUnsupportedImage, mt.String())
}
