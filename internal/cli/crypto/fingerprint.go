package crypto

import (
	"crypto/sha256"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// keyLen — длина ключа для AES‑256 / ChaCha20 (в байтах).
const keyLen = 32

// Fingerprint — наблюдаемые атрибуты окружения, из которых выводится ключ.
// Значения передаются явно, чтобы в тестах можно было подставить фиксированный отпечаток.
type Fingerprint struct {
	UserAgent      string
	Language       string
	ScreenWidth    int
	ScreenHeight   int
	TimezoneOffset int // минуты, UTC минус локальное время
}

// String склеивает атрибуты через "|".
func (fp Fingerprint) String() string {
	return strings.Join([]string{
		fp.UserAgent,
		fp.Language,
		strconv.Itoa(fp.ScreenWidth),
		strconv.Itoa(fp.ScreenHeight),
		strconv.Itoa(fp.TimezoneOffset),
	}, "|")
}

// DeriveKey возвращает SHA-256 от строки отпечатка. Детерминирован для одного окружения;
// смена агента, языка или дисплея даёт другой ключ, и старый API-ключ перестаёт расшифровываться.
func DeriveKey(fp Fingerprint) []byte {
	sum := sha256.Sum256([]byte(fp.String()))
	return sum[:]
}

// ObfuscationKey — ключ fallback-обфускации из меньшего подмножества атрибутов.
func ObfuscationKey(fp Fingerprint) string {
	ua := []rune(fp.UserAgent)
	if len(ua) > 10 {
		ua = ua[:10]
	}
	return strings.Join([]string{string(ua), fp.Language, strconv.Itoa(fp.ScreenWidth)}, "_")
}

// ProbeFingerprint собирает отпечаток текущего хоста.
func ProbeFingerprint(version, language string, width, height int, now time.Time) Fingerprint {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "unknown"
	}
	_, offset := now.Zone()
	return Fingerprint{
		UserAgent:      fmt.Sprintf("ImageTranslator/%s (%s; %s; %s)", version, runtime.GOOS, runtime.GOARCH, host),
		Language:       language,
		ScreenWidth:    width,
		ScreenHeight:   height,
		TimezoneOffset: -offset / 60,
	}
}
