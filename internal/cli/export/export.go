// Package export выгружает всю историю переводов в JSON и CSV.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ImageTranslator/internal/cli/model"
)

// ExcludedMarker заменяет двоичные данные, если они не включены в выгрузку.
const ExcludedMarker = "[EXCLUDED]"

// Форматы выгрузки.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// timeLayout совпадает с ISO-8601 в UTC с миллисекундами.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

var csvHeader = []string{
	"ID",
	"Created At",
	"Source Language",
	"Target Language",
	"Original Text",
	"Translated Text",
	"Confidence",
	"Is Favorite",
}

// RecordSource — источник всех записей истории (HistoryService).
type RecordSource interface {
	All(ctx context.Context) ([]model.TranslationRecord, error)
}

// Serializer формирует снимки всей истории, без фильтров.
type Serializer struct {
	src RecordSource
}

// NewSerializer создаёт сериализатор поверх источника записей.
func NewSerializer(src RecordSource) *Serializer {
	return &Serializer{src: src}
}

type imageView struct {
	Thumbnail    any    `json:"thumbnail"`
	OriginalSize int64  `json:"originalSize"`
	MimeType     string `json:"mimeType"`
}

type generatedView struct {
	Data        any    `json:"data"`
	Resolution  string `json:"resolution"`
	AspectRatio string `json:"aspectRatio"`
}

type metadataView struct {
	Confidence       string `json:"confidence"`
	ProcessingTimeMs int64  `json:"processingTime"`
	ModelUsed        string `json:"modelUsed"`
}

type recordView struct {
	ID             string         `json:"id"`
	CreatedAt      string         `json:"createdAt"`
	UpdatedAt      string         `json:"updatedAt"`
	Image          imageView      `json:"image"`
	SourceLanguage string         `json:"sourceLanguage"`
	TargetLanguage string         `json:"targetLanguage"`
	OriginalText   string         `json:"originalText"`
	TranslatedText string         `json:"translatedText"`
	GeneratedImage *generatedView `json:"generatedImage,omitempty"`
	Metadata       metadataView   `json:"metadata"`
	Notes          string         `json:"notes,omitempty"`
	Tags           []string       `json:"tags,omitempty"`
	IsFavorite     bool           `json:"isFavorite"`
}

// binary возвращает данные (base64 при маршалинге) или маркер исключения.
func binary(data []byte, include bool) any {
	if include {
		return data
	}
	return ExcludedMarker
}

func toView(r model.TranslationRecord, includeBinary bool) recordView {
	v := recordView{
		ID:        r.ID,
		CreatedAt: r.CreatedAt.UTC().Format(timeLayout),
		UpdatedAt: r.UpdatedAt.UTC().Format(timeLayout),
		Image: imageView{
			Thumbnail:    binary(r.Image.Thumbnail, includeBinary),
			OriginalSize: r.Image.OriginalSize,
			MimeType:     r.Image.MimeType,
		},
		SourceLanguage: r.SourceLanguage,
		TargetLanguage: r.TargetLanguage,
		OriginalText:   r.OriginalText,
		TranslatedText: r.TranslatedText,
		Metadata: metadataView{
			Confidence:       r.Metadata.Confidence,
			ProcessingTimeMs: r.Metadata.ProcessingTime.Milliseconds(),
			ModelUsed:        r.Metadata.ModelUsed,
		},
		Notes:      r.Notes,
		Tags:       r.Tags,
		IsFavorite: r.IsFavorite,
	}
	if g := r.GeneratedImage; g != nil {
		v.GeneratedImage = &generatedView{
			Data:        binary(g.Data, includeBinary),
			Resolution:  g.Resolution,
			AspectRatio: g.AspectRatio,
		}
	}
	return v
}

// ToJSON возвращает все записи в виде JSON с отступами.
// Без includeBinary миниатюра и сгенерированное изображение заменяются ExcludedMarker.
func (s *Serializer) ToJSON(ctx context.Context, includeBinary bool) (string, error) {
	records, err := s.src.All(ctx)
	if err != nil {
		return "", err
	}
	views := make([]recordView, 0, len(records))
	for _, r := range records {
		views = append(views, toView(r, includeBinary))
	}
	out, err := json.MarshalIndent(views, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal export: %w", err)
	}
	return string(out), nil
}

// ToCSV возвращает записи в CSV: одна запись — одна строка.
// Тексты всегда в кавычках, внутренние кавычки удваиваются, переводы строк заменяются пробелом.
func (s *Serializer) ToCSV(ctx context.Context) (string, error) {
	records, err := s.src.All(ctx)
	if err != nil {
		return "", err
	}
	lines := make([]string, 0, len(records)+1)
	lines = append(lines, strings.Join(csvHeader, ","))
	for _, r := range records {
		fav := "No"
		if r.IsFavorite {
			fav = "Yes"
		}
		lines = append(lines, strings.Join([]string{
			r.ID,
			r.CreatedAt.UTC().Format(timeLayout),
			r.SourceLanguage,
			r.TargetLanguage,
			quote(r.OriginalText),
			quote(r.TranslatedText),
			r.Metadata.Confidence,
			fav,
		}, ","))
	}
	return strings.Join(lines, "\n"), nil
}

var flatten = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

func quote(s string) string {
	return `"` + strings.ReplaceAll(flatten.Replace(s), `"`, `""`) + `"`
}

// DefaultFileName — имя файла выгрузки по дате: translations_2006-01-02.json.
func DefaultFileName(format string, now time.Time) string {
	return fmt.Sprintf("translations_%s.%s", now.UTC().Format("2006-01-02"), format)
}

// MimeType возвращает тип содержимого для формата.
func MimeType(format string) string {
	if format == FormatCSV {
		return "text/csv"
	}
	return "application/json"
}
