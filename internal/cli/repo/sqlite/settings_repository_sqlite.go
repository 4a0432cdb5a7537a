package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm/clause"

	"ImageTranslator/internal/cli/repo"
)

type settingRow struct {
	Key   string `gorm:"column:name;primaryKey"`
	Value string
}

func (settingRow) TableName() string { return "settings" }

// SettingsRepositorySQLite хранит настройки клиента как JSON-значения.
type SettingsRepositorySQLite struct {
	db *DB
}

var _ repo.SettingsRepository = (*SettingsRepositorySQLite)(nil)

// NewSettingsRepository создаёт репозиторий настроек.
func NewSettingsRepository(db *DB) *SettingsRepositorySQLite {
	return &SettingsRepositorySQLite{db: db}
}

// Set сохраняет значение, перезаписывая прежнее.
func (r *SettingsRepositorySQLite) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode setting %q: %w", key, err)
	}
	row := settingRow{Key: key, Value: string(raw)}
	return r.db.Gorm.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&row).Error
}

// All возвращает все настройки.
func (r *SettingsRepositorySQLite) All(ctx context.Context) (map[string]string, error) {
	var rows []settingRow
	if err := r.db.Gorm.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, err
	}
	res := make(map[string]string, len(rows))
	for _, row := range rows {
		res[row.Key] = row.Value
	}
	return res, nil
}
