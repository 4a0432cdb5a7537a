package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"ImageTranslator/internal/cli/model"
	"ImageTranslator/internal/cli/repo"
	apperr "ImageTranslator/internal/errors"
)

// translationRow — строка таблицы translations. Время хранится в миллисекундах Unix.
type translationRow struct {
	ID                   string `gorm:"primaryKey"`
	CreatedMs            int64  `gorm:"column:created_at"`
	UpdatedMs            int64  `gorm:"column:updated_at"`
	Thumbnail            []byte
	OriginalSize         int64
	MimeType             string
	SourceLanguage       string
	TargetLanguage       string
	OriginalText         string
	TranslatedText       string
	GeneratedImage       []byte
	GeneratedResolution  string
	GeneratedAspectRatio string
	Confidence           string
	ProcessingTimeMs     int64
	ModelUsed            string
	Notes                string
	Tags                 string
	IsFavorite           bool
}

func (translationRow) TableName() string { return "translations" }

func toRow(rec *model.TranslationRecord) (translationRow, error) {
	tags := rec.Tags
	if tags == nil {
		tags = []string{}
	}
	rawTags, err := json.Marshal(tags)
	if err != nil {
		return translationRow{}, err
	}
	row := translationRow{
		ID:               rec.ID,
		CreatedMs:        rec.CreatedAt.UnixMilli(),
		UpdatedMs:        rec.UpdatedAt.UnixMilli(),
		Thumbnail:        rec.Image.Thumbnail,
		OriginalSize:     rec.Image.OriginalSize,
		MimeType:         rec.Image.MimeType,
		SourceLanguage:   rec.SourceLanguage,
		TargetLanguage:   rec.TargetLanguage,
		OriginalText:     rec.OriginalText,
		TranslatedText:   rec.TranslatedText,
		Confidence:       rec.Metadata.Confidence,
		ProcessingTimeMs: rec.Metadata.ProcessingTime.Milliseconds(),
		ModelUsed:        rec.Metadata.ModelUsed,
		Notes:            rec.Notes,
		Tags:             string(rawTags),
		IsFavorite:       rec.IsFavorite,
	}
	if g := rec.GeneratedImage; g != nil {
		row.GeneratedImage = g.Data
		row.GeneratedResolution = g.Resolution
		row.GeneratedAspectRatio = g.AspectRatio
	}
	return row, nil
}

func (r translationRow) toModel() model.TranslationRecord {
	rec := model.TranslationRecord{
		ID:        r.ID,
		CreatedAt: time.UnixMilli(r.CreatedMs).UTC(),
		UpdatedAt: time.UnixMilli(r.UpdatedMs).UTC(),
		Image: model.ImageInfo{
			Thumbnail:    r.Thumbnail,
			OriginalSize: r.OriginalSize,
			MimeType:     r.MimeType,
		},
		SourceLanguage: r.SourceLanguage,
		TargetLanguage: r.TargetLanguage,
		OriginalText:   r.OriginalText,
		TranslatedText: r.TranslatedText,
		Metadata: model.RecordMetadata{
			Confidence:     r.Confidence,
			ProcessingTime: time.Duration(r.ProcessingTimeMs) * time.Millisecond,
			ModelUsed:      r.ModelUsed,
		},
		Notes:      r.Notes,
		IsFavorite: r.IsFavorite,
	}
	if r.GeneratedImage != nil {
		rec.GeneratedImage = &model.GeneratedImage{
			Data:        r.GeneratedImage,
			Resolution:  r.GeneratedResolution,
			AspectRatio: r.GeneratedAspectRatio,
		}
	}
	// битый JSON тегов не делает запись нечитаемой
	_ = json.Unmarshal([]byte(r.Tags), &rec.Tags)
	return rec
}

// HistoryRepositorySQLite — репозиторий истории переводов поверх gorm.
type HistoryRepositorySQLite struct {
	db *DB
}

var _ repo.HistoryRepository = (*HistoryRepositorySQLite)(nil)

// NewHistoryRepository создаёт репозиторий поверх открытой БД.
func NewHistoryRepository(db *DB) *HistoryRepositorySQLite {
	return &HistoryRepositorySQLite{db: db}
}

// Insert добавляет запись.
func (r *HistoryRepositorySQLite) Insert(ctx context.Context, rec *model.TranslationRecord) error {
	row, err := toRow(rec)
	if err != nil {
		return err
	}
	return r.db.Gorm.WithContext(ctx).Create(&row).Error
}

// Get возвращает запись по ID.
func (r *HistoryRepositorySQLite) Get(ctx context.Context, id string) (*model.TranslationRecord, error) {
	row, err := getRow(r.db.Gorm.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	rec := row.toModel()
	return &rec, nil
}

func getRow(tx *gorm.DB, id string) (*translationRow, error) {
	var row translationRow
	err := tx.Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Modify выполняет чтение-изменение-запись в одной транзакции.
func (r *HistoryRepositorySQLite) Modify(ctx context.Context, id string, fn func(rec *model.TranslationRecord) error) (*model.TranslationRecord, error) {
	var out model.TranslationRecord
	err := r.db.Gorm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := getRow(tx, id)
		if err != nil {
			return err
		}
		rec := row.toModel()
		if err := fn(&rec); err != nil {
			return err
		}
		// неизменяемые поля берём из строки, а не из rec
		rec.ID = row.ID
		rec.CreatedAt = time.UnixMilli(row.CreatedMs).UTC()
		updated, err := toRow(&rec)
		if err != nil {
			return err
		}
		if err := tx.Model(&translationRow{}).Where("id = ?", id).Updates(map[string]any{
			"updated_at":  updated.UpdatedMs,
			"notes":       updated.Notes,
			"tags":        updated.Tags,
			"is_favorite": updated.IsFavorite,
		}).Error; err != nil {
			return err
		}
		out = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// List возвращает все записи в порядке вставки (rowid).
func (r *HistoryRepositorySQLite) List(ctx context.Context) ([]model.TranslationRecord, error) {
	var rows []translationRow
	if err := r.db.Gorm.WithContext(ctx).Order("rowid").Find(&rows).Error; err != nil {
		return nil, err
	}
	res := make([]model.TranslationRecord, 0, len(rows))
	for _, row := range rows {
		res = append(res, row.toModel())
	}
	return res, nil
}

// Delete удаляет записи по ID; отсутствующие ID пропускаются.
func (r *HistoryRepositorySQLite) Delete(ctx context.Context, ids ...string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tx := r.db.Gorm.WithContext(ctx).Where("id IN ?", ids).Delete(&translationRow{})
	if tx.Error != nil {
		return 0, tx.Error
	}
	return int(tx.RowsAffected), nil
}

// DeleteAll удаляет все записи.
func (r *HistoryRepositorySQLite) DeleteAll(ctx context.Context) (int, error) {
	tx := r.db.Gorm.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&translationRow{})
	if tx.Error != nil {
		return 0, tx.Error
	}
	return int(tx.RowsAffected), nil
}

// StorageUsed — размер файла БД.
func (r *HistoryRepositorySQLite) StorageUsed(ctx context.Context) int64 {
	return r.db.SizeBytes(ctx)
}
