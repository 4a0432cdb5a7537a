// Package bootstrap собирает сервисы клиента из конфигурации.
package bootstrap

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"ImageTranslator/internal/cli/crypto"
	"ImageTranslator/internal/cli/export"
	fsrepo "ImageTranslator/internal/cli/repo/fs"
	reposqlite "ImageTranslator/internal/cli/repo/sqlite"
	"ImageTranslator/internal/cli/service"
	"ImageTranslator/internal/config"
	"ImageTranslator/internal/logger"
)

// Version — версия клиента, участвует в отпечатке окружения. Задаётся из main.
var Version = "dev"

// Logger возвращает логгер уровня из конфигурации.
func Logger(cfg *config.Config) *zap.SugaredLogger {
	return logger.New(cfg.LogLevel)
}

// Fingerprint собирает отпечаток окружения текущего хоста.
func Fingerprint(cfg *config.Config) crypto.Fingerprint {
	return crypto.ProbeFingerprint(Version, cfg.Language, cfg.DisplayWidth, cfg.DisplayHeight, time.Now())
}

// OpenCredentials создаёт хранилище API-ключа. БД истории не открывается.
func OpenCredentials(cfg *config.Config, log *zap.SugaredLogger) *service.CredentialService {
	cipher := crypto.NewCipher(Fingerprint(cfg), cfg.AEADAlgorithm, crypto.HostProbe(cfg.CipherMode), log)
	return service.NewCredentialService(fsrepo.NewCredentialFSStore(cfg.CredentialFile), cipher, log)
}

// History — сервисы поверх локальной БД истории.
type History struct {
	Records  *service.HistoryService
	Query    *service.HistoryQuery
	Export   *export.Serializer
	Settings *service.SettingsService
}

// OpenHistory открывает БД истории, выполняет миграции и возвращает (history, cleanup, error).
// cleanup необходимо вызвать после окончания работы, чтобы закрыть соединение с БД.
func OpenHistory(cfg *config.Config, log *zap.SugaredLogger) (*History, func() error, error) {
	db, err := reposqlite.Open(cfg.HistoryDBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open history db: %w", err)
	}
	records := service.NewHistoryService(reposqlite.NewHistoryRepository(db), log)
	h := &History{
		Records:  records,
		Query:    service.NewHistoryQuery(records, log),
		Export:   export.NewSerializer(records),
		Settings: service.NewSettingsService(reposqlite.NewSettingsRepository(db)),
	}
	return h, db.Close, nil
}
