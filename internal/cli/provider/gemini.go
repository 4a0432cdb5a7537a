// Package provider — адаптер внешнего провайдера распознавания, перевода
// и перерисовки изображений (Gemini).
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"ImageTranslator/internal/cli/model"
)

// Options — модели и параметры сессии.
type Options struct {
	OCRModel   string
	ImageModel string
}

// ErrNoImage — ответ модели не содержит изображения.
var ErrNoImage = errors.New("no image generated in response")

// generator — часть genai.Models, которую использует сессия.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Session — клиент провайдера, созданный под один API-ключ.
// Создаётся заново при каждой смене ключа; глобального состояния нет.
type Session struct {
	gen     generator
	opts    Options
	breaker *gobreaker.CircuitBreaker
	logger  *zap.SugaredLogger
	now     func() time.Time
}

// NewSession создаёт клиента Gemini API для ключа apiKey.
func NewSession(ctx context.Context, apiKey string, opts Options, logger *zap.SugaredLogger) (*Session, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return newSession(client.Models, opts, logger), nil
}

func newSession(gen generator, opts Options, logger *zap.SugaredLogger) *Session {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "gemini",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warnw("provider circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	})
	return &Session{gen: gen, opts: opts, breaker: cb, logger: logger, now: time.Now}
}

// call выполняет запрос к модели через circuit breaker.
func (s *Session) call(ctx context.Context, modelName string, parts []*genai.Part, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	out, err := s.breaker.Execute(func() (interface{}, error) {
		return s.gen.GenerateContent(ctx, modelName, []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}, cfg)
	})
	if err != nil {
		return nil, err
	}
	return out.(*genai.GenerateContentResponse), nil
}

func ocrPrompt(targetLanguage, tone string) string {
	instr, ok := toneInstructions[tone]
	if !ok {
		instr = toneInstructions[ToneGeneral]
	}
	return fmt.Sprintf(`You are an expert OCR and translation assistant specialized in product descriptions.

Task:
1. Extract ALL text from the provided image accurately, including any text on products, labels, packaging, or backgrounds
2. Detect the source language automatically
3. Translate the extracted text to %[1]s
4. %[2]s

Rules:
- Preserve formatting (line breaks, bullet points) where appropriate
- Keep brand names, model numbers, and proper nouns unchanged
- If text is unclear or partially visible, indicate with [unclear]
- If no text is found in the image, set original_text to "[No text detected]"

IMPORTANT: You MUST respond with ONLY a valid JSON object in the following format, no additional text:
{
  "detected_language": "the detected source language name in English",
  "original_text": "the extracted original text",
  "translated_text": "the translated text in %[1]s",
  "confidence": "high" or "medium" or "low"
}`, targetLanguage, instr)
}

type ocrResponse struct {
	DetectedLanguage string `json:"detected_language"`
	OriginalText     string `json:"original_text"`
	TranslatedText   string `json:"translated_text"`
	Confidence       string `json:"confidence"`
}

var fenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// parseOCR разбирает JSON-ответ модели. Если JSON не разобрать,
// весь текст ответа становится и оригиналом, и переводом с уверенностью low.
func parseOCR(text string) ocrResponse {
	body := text
	if m := fenceRe.FindStringSubmatch(text); m != nil {
		body = m[1]
	}
	var r ocrResponse
	if err := json.Unmarshal([]byte(strings.TrimSpace(body)), &r); err != nil {
		return ocrResponse{
			DetectedLanguage: "Unknown",
			OriginalText:     text,
			TranslatedText:   text,
			Confidence:       model.ConfidenceLow,
		}
	}
	if r.DetectedLanguage == "" {
		r.DetectedLanguage = "Unknown"
	}
	switch r.Confidence {
	case model.ConfidenceHigh, model.ConfidenceMedium, model.ConfidenceLow:
	default:
		r.Confidence = model.ConfidenceMedium
	}
	return r
}

// Translate распознаёт текст на изображении и переводит его на targetLanguage.
func (s *Session) Translate(ctx context.Context, img model.ImagePayload, targetLanguage, tone string) (model.TranslationResult, error) {
	started := s.now()
	langName := targetLanguage
	if l, ok := LookupTarget(targetLanguage); ok {
		langName = l.Name
	}

	resp, err := s.call(ctx, s.opts.OCRModel, []*genai.Part{
		genai.NewPartFromText(ocrPrompt(langName, tone)),
		genai.NewPartFromBytes(img.Data, img.MimeType),
	}, &genai.GenerateContentConfig{ResponseMIMEType: "application/json"})
	if err != nil {
		return model.TranslationResult{}, fmt.Errorf("translate image: %w", err)
	}

	r := parseOCR(resp.Text())
	s.logger.Debugw("image translated", "model", s.opts.OCRModel, "detected", r.DetectedLanguage, "confidence", r.Confidence)
	return model.TranslationResult{
		DetectedLanguage: r.DetectedLanguage,
		TargetLanguage:   targetLanguage,
		OriginalText:     r.OriginalText,
		TranslatedText:   r.TranslatedText,
		Confidence:       r.Confidence,
		ModelUsed:        s.opts.OCRModel,
		StartedAt:        started,
	}, nil
}

func imagePrompt(res model.TranslationResult, aspectRatio, resolution string) string {
	return fmt.Sprintf(`You are an expert image editor specializing in product image localization.

TASK: Create a new version of this product image with the text translated to %s.

ORIGINAL TEXT DETECTED:
%s

TRANSLATED TEXT TO USE:
%s

CRITICAL REQUIREMENTS:
1. MAINTAIN the exact same image layout, style, colors, and composition
2. REPLACE all visible text with the translated version above
3. PRESERVE brand names, logos, model numbers, and certifications unchanged
4. ENSURE text is clearly readable with appropriate font size, high contrast color and the same positioning as the original
5. Keep the professional e-commerce quality

OUTPUT: Generate the modified product image with translated text, aspect ratio %s, resolution %s.

IMPORTANT: Do not add, remove, or modify any visual elements other than the text replacement.`,
		res.TargetLanguage, res.OriginalText, res.TranslatedText, aspectRatio, resolution)
}

// imageConfig запрашивает у модели изображение заданного формата.
func imageConfig(aspectRatio, resolution string) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		ResponseModalities: []string{string(genai.ModalityText), string(genai.ModalityImage)},
		ImageConfig: &genai.ImageConfig{
			AspectRatio: aspectRatio,
			ImageSize:   resolution,
		},
	}
}

// GenerateImage перерисовывает изображение с переведённым текстом.
func (s *Session) GenerateImage(ctx context.Context, img model.ImagePayload, res model.TranslationResult, aspectRatio, resolution string) (*model.GeneratedImage, error) {
	if !ValidAspectRatio(aspectRatio) {
		aspectRatio = DefaultAspectRatio
	}
	if !ValidResolution(resolution) {
		resolution = DefaultResolution
	}

	resp, err := s.call(ctx, s.opts.ImageModel, []*genai.Part{
		genai.NewPartFromBytes(img.Data, img.MimeType),
		genai.NewPartFromText(imagePrompt(res, aspectRatio, resolution)),
	}, imageConfig(aspectRatio, resolution))
	if err != nil {
		return nil, fmt.Errorf("generate image: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, ErrNoImage
	}
	for _, p := range resp.Candidates[0].Content.Parts {
		if p != nil && p.InlineData != nil && len(p.InlineData.Data) > 0 {
			return &model.GeneratedImage{
				Data:        p.InlineData.Data,
				Resolution:  resolution,
				AspectRatio: aspectRatio,
			}, nil
		}
	}
	return nil, ErrNoImage
}
