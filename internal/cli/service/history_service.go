package service

import (
	"context"
	"errors"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"ImageTranslator/internal/cli/model"
	"ImageTranslator/internal/cli/repo"
	"ImageTranslator/internal/cli/thumbnail"
	apperr "ImageTranslator/internal/errors"
)

// HistoryService — хранилище записей истории переводов.
// Отсутствующий ID — не ошибка: операции возвращают пустой результат.
type HistoryService struct {
	repo   repo.HistoryRepository
	logger *zap.SugaredLogger

	now   func() time.Time
	newID func() string
	thumb func([]byte) ([]byte, error)
}

// HistoryOption настраивает HistoryService (в основном для тестов).
type HistoryOption func(*HistoryService)

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) HistoryOption {
	return func(s *HistoryService) { s.now = now }
}

// WithIDGenerator подменяет генератор ID записей.
func WithIDGenerator(fn func() string) HistoryOption {
	return func(s *HistoryService) { s.newID = fn }
}

// NewHistoryService создаёт сервис истории поверх репозитория.
func NewHistoryService(r repo.HistoryRepository, logger *zap.SugaredLogger, opts ...HistoryOption) *HistoryService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	s := &HistoryService{
		repo:   r,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
		thumb:  thumbnail.Make,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Save сохраняет результат перевода. Миниатюра строится синхронно; если изображение
// не декодируется, сохраняется оригинал. Сеть не используется.
func (s *HistoryService) Save(ctx context.Context, img model.ImagePayload, res model.TranslationResult, gen *model.GeneratedImage) (string, error) {
	now := s.now().UTC()

	info := model.ImageInfo{OriginalSize: int64(len(img.Data))}
	thumb, err := s.thumb(img.Data)
	if err != nil {
		s.logger.Warnw("thumbnail generation failed, storing original", "error", err)
		info.Thumbnail = img.Data
		info.MimeType = img.MimeType
		if info.MimeType == "" {
			info.MimeType = mimetype.Detect(img.Data).String()
		}
	} else {
		info.Thumbnail = thumb
		info.MimeType = thumbnail.MimeType
	}

	var processing time.Duration
	if !res.StartedAt.IsZero() {
		processing = now.Sub(res.StartedAt)
		if processing < 0 {
			processing = 0
		}
	}

	rec := &model.TranslationRecord{
		ID:             s.newID(),
		CreatedAt:      now,
		UpdatedAt:      now,
		Image:          info,
		SourceLanguage: res.DetectedLanguage,
		TargetLanguage: res.TargetLanguage,
		OriginalText:   res.OriginalText,
		TranslatedText: res.TranslatedText,
		GeneratedImage: gen,
		Metadata: model.RecordMetadata{
			Confidence:     res.Confidence,
			ProcessingTime: processing,
			ModelUsed:      res.ModelUsed,
		},
	}
	if err := s.repo.Insert(ctx, rec); err != nil {
		return "", apperr.Wrap(err, "save translation")
	}
	s.logger.Debugw("translation saved", "id", rec.ID, "source", rec.SourceLanguage, "target", rec.TargetLanguage)
	return rec.ID, nil
}

// Get возвращает запись или nil, если её нет.
func (s *HistoryService) Get(ctx context.Context, id string) (*model.TranslationRecord, error) {
	rec, err := s.repo.Get(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, nil
	}
	return rec, err
}

// All возвращает все записи в порядке хранения.
func (s *HistoryService) All(ctx context.Context) ([]model.TranslationRecord, error) {
	return s.repo.List(ctx)
}

// Update применяет частичное обновление и всегда обновляет UpdatedAt.
// Возвращает false, если записи нет.
func (s *HistoryService) Update(ctx context.Context, id string, upd model.RecordUpdate) (bool, error) {
	_, err := s.repo.Modify(ctx, id, func(rec *model.TranslationRecord) error {
		if upd.Notes != nil {
			rec.Notes = *upd.Notes
		}
		if upd.Tags != nil {
			rec.Tags = append([]string(nil), (*upd.Tags)...)
		}
		if upd.IsFavorite != nil {
			rec.IsFavorite = *upd.IsFavorite
		}
		rec.UpdatedAt = s.now().UTC()
		return nil
	})
	if errors.Is(err, apperr.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ToggleFavorite инвертирует признак избранного и возвращает новое значение.
// Для отсутствующей записи возвращает false.
func (s *HistoryService) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	rec, err := s.repo.Modify(ctx, id, func(rec *model.TranslationRecord) error {
		rec.IsFavorite = !rec.IsFavorite
		rec.UpdatedAt = s.now().UTC()
		return nil
	})
	if errors.Is(err, apperr.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return rec.IsFavorite, nil
}

// Delete удаляет запись; false, если её не было.
func (s *HistoryService) Delete(ctx context.Context, id string) (bool, error) {
	n, err := s.repo.Delete(ctx, id)
	return n > 0, err
}

// BulkDelete удаляет несколько записей и возвращает число удалённых.
func (s *HistoryService) BulkDelete(ctx context.Context, ids []string) (int, error) {
	return s.repo.Delete(ctx, ids...)
}

// ClearAll удаляет всю историю.
func (s *HistoryService) ClearAll(ctx context.Context) (int, error) {
	n, err := s.repo.DeleteAll(ctx)
	if err == nil {
		s.logger.Infow("history cleared", "deleted", n)
	}
	return n, err
}

// StorageUsed — объём, занимаемый историей.
func (s *HistoryService) StorageUsed(ctx context.Context) int64 {
	return s.repo.StorageUsed(ctx)
}
