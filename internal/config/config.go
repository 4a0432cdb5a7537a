package config

import (
	"flag"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Режимы выбора стратегии шифрования API-ключа.
const (
	CipherModeAuto     = "auto"
	CipherModeSecure   = "secure"
	CipherModeFallback = "fallback"
)

// Поддерживаемые AEAD-алгоритмы.
const (
	AEADAESGCM   = "aes-gcm"
	AEADChaCha20 = "chacha20-poly1305"
)

type Config struct {
	// Локальное хранилище
	DataDir        string `env:"IMGTRANS_DATA_DIR"`
	HistoryDBPath  string `env:"IMGTRANS_HISTORY_DB"`
	CredentialFile string `env:"IMGTRANS_CREDENTIAL_FILE"`

	// Шифрование API-ключа
	CipherMode    string `env:"IMGTRANS_CIPHER_MODE" envDefault:"auto"`
	AEADAlgorithm string `env:"IMGTRANS_AEAD" envDefault:"aes-gcm"`

	// Отпечаток окружения
	DisplaySize   string `env:"IMGTRANS_DISPLAY" envDefault:"0x0"`
	DisplayWidth  int    `env:"-"`
	DisplayHeight int    `env:"-"`
	Language      string `env:"LANG"`

	// Провайдер
	OCRModel   string `env:"IMGTRANS_OCR_MODEL" envDefault:"gemini-2.0-flash-exp"`
	ImageModel string `env:"IMGTRANS_IMAGE_MODEL" envDefault:"gemini-3-pro-image-preview"`

	// Политика хранения истории
	RetentionMaxAgeDays int `env:"IMGTRANS_RETENTION_DAYS" envDefault:"90"`
	RetentionMaxCount   int `env:"IMGTRANS_RETENTION_COUNT" envDefault:"1000"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	Version  bool   `env:"-"` // только флаг
}

var displayRe = regexp.MustCompile(`^(\d{1,5})x(\d{1,5})$`)

// NewConfig собирает конфигурацию: .env → переменные окружения → флаги.
func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	flag.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "каталог данных клиента")
	flag.StringVar(&cfg.HistoryDBPath, "history-db", cfg.HistoryDBPath, "путь к SQLite-базе истории")
	flag.StringVar(&cfg.CredentialFile, "credential-file", cfg.CredentialFile, "путь к файлу с зашифрованным API-ключом")
	flag.StringVar(&cfg.CipherMode, "cipher-mode", cfg.CipherMode, "auto|secure|fallback")
	flag.StringVar(&cfg.AEADAlgorithm, "aead", cfg.AEADAlgorithm, "aes-gcm|chacha20-poly1305")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug|info|warn|error")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "Show client version and exit")

	flag.Parse()

	cfg.applyDefaults()
	return cfg
}

// applyDefaults заполняет пустые и исправляет невалидные значения.
func (cfg *Config) applyDefaults() {
	switch cfg.CipherMode {
	case CipherModeAuto, CipherModeSecure, CipherModeFallback:
	default:
		cfg.CipherMode = CipherModeAuto
	}
	switch cfg.AEADAlgorithm {
	case AEADAESGCM, AEADChaCha20:
	default:
		cfg.AEADAlgorithm = AEADAESGCM
	}

	cfg.DisplayWidth, cfg.DisplayHeight = 0, 0
	if m := displayRe.FindStringSubmatch(cfg.DisplaySize); m != nil {
		cfg.DisplayWidth, _ = strconv.Atoi(m[1])
		cfg.DisplayHeight, _ = strconv.Atoi(m[2])
	} else {
		cfg.DisplaySize = "0x0"
	}

	if cfg.Language == "" {
		cfg.Language = "en-US"
	}
	if cfg.RetentionMaxAgeDays <= 0 {
		cfg.RetentionMaxAgeDays = 90
	}
	if cfg.RetentionMaxCount <= 0 {
		cfg.RetentionMaxCount = 1000
	}
	if cfg.OCRModel == "" {
		cfg.OCRModel = "gemini-2.0-flash-exp"
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = "gemini-3-pro-image-preview"
	}

	if cfg.DataDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			base, _ = os.UserHomeDir()
		}
		cfg.DataDir = filepath.Join(base, "ImageTranslator")
	}
	if cfg.HistoryDBPath == "" {
		cfg.HistoryDBPath = filepath.Join(cfg.DataDir, "history.sqlite")
	}
	if cfg.CredentialFile == "" {
		cfg.CredentialFile = filepath.Join(cfg.DataDir, "img_translator_api_key")
	}
}
