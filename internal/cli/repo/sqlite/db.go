package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// DB — локальная база истории: одно соединение modernc.org/sqlite под gorm.
type DB struct {
	Gorm *gorm.DB
	sql  *sql.DB
	path string
}

// Open открывает (и создаёт при необходимости) файл БД, включает WAL и применяет миграции.
func Open(path string) (*DB, error) {
	if path == "" {
		return nil, errors.New("empty history db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)", path)
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// одна запись за раз, иначе "database is locked"
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if err := RunMigrations(sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	gdb, err := gorm.Open(gormsqlite.Dialector{DriverName: "sqlite", Conn: sqlDB}, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("open gorm: %w", err)
	}
	return &DB{Gorm: gdb, sql: sqlDB, path: path}, nil
}

// Path — путь к файлу БД.
func (d *DB) Path() string { return d.path }

// Close закрывает соединение с БД.
func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// SizeBytes возвращает page_count * page_size; 0 при любой ошибке.
func (d *DB) SizeBytes(ctx context.Context) int64 {
	var pages, pageSize int64
	if err := d.sql.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pages); err != nil {
		return 0
	}
	if err := d.sql.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize); err != nil {
		return 0
	}
	return pages * pageSize
}
