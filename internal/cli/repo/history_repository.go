package repo

import (
	"context"

	"ImageTranslator/internal/cli/model"
)

// HistoryRepository определяет порт доступа к локальной истории переводов.
type HistoryRepository interface {
	// Insert добавляет новую запись; ID назначает вызывающий.
	Insert(ctx context.Context, rec *model.TranslationRecord) error

	// Get возвращает запись по ID или ошибку apperr.ErrNotFound.
	Get(ctx context.Context, id string) (*model.TranslationRecord, error)

	// Modify читает запись, применяет fn и сохраняет результат одной транзакцией.
	// Для отсутствующей записи возвращает apperr.ErrNotFound, fn не вызывается.
	Modify(ctx context.Context, id string, fn func(rec *model.TranslationRecord) error) (*model.TranslationRecord, error)

	// List возвращает все записи в порядке хранения (порядке вставки).
	List(ctx context.Context) ([]model.TranslationRecord, error)

	// Delete удаляет записи по ID и возвращает число удалённых.
	Delete(ctx context.Context, ids ...string) (int, error)

	// DeleteAll очищает историю.
	DeleteAll(ctx context.Context) (int, error)

	// StorageUsed — размер базы в байтах; 0, если определить не удалось.
	StorageUsed(ctx context.Context) int64
}

// SettingsRepository — вспомогательная коллекция «ключ → JSON-значение».
type SettingsRepository interface {
	// Set сохраняет значение (JSON), перезаписывая прежнее.
	Set(ctx context.Context, key string, value any) error

	// All возвращает все ключи с сырыми JSON-значениями. Пустая коллекция — пустая карта.
	All(ctx context.Context) (map[string]string, error)
}
