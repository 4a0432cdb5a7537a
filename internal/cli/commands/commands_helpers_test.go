package commands

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"ImageTranslator/internal/cli/model"
	"ImageTranslator/internal/config"
)

// withTempConfig возвращает конфигурацию, у которой все артефакты (ключ, база) лежат в temp.
func withTempConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		DataDir:             dir,
		HistoryDBPath:       filepath.Join(dir, "history.sqlite"),
		CredentialFile:      filepath.Join(dir, "img_translator_api_key"),
		CipherMode:          config.CipherModeAuto,
		AEADAlgorithm:       config.AEADAESGCM,
		Language:            "en-US",
		DisplayWidth:        1440,
		DisplayHeight:       900,
		OCRModel:            "ocr-model",
		ImageModel:          "image-model",
		RetentionMaxAgeDays: 90,
		RetentionMaxCount:   1000,
		LogLevel:            "error",
	}
}

// перехват stdout на время теста
func withStdoutCapture(t *testing.T, fn func()) string {
	t.Helper()
	old := Out
	var buf bytes.Buffer
	Out = &buf
	defer func() { Out = old }()
	fn()
	return buf.String()
}

// writePNG кладёт в temp маленькое PNG-изображение и возвращает путь.
func writePNG(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 32))
	img.Set(1, 1, color.RGBA{G: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	path := filepath.Join(t.TempDir(), "menu.png")
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("write png: %v", err)
	}
	return path
}

// fakeTranslator — провайдер без сети.
type fakeTranslator struct {
	result   model.TranslationResult
	genErr   error
	apiKey   string
	genCalls int
}

func (f *fakeTranslator) Translate(_ context.Context, _ model.ImagePayload, target, _ string) (model.TranslationResult, error) {
	r := f.result
	r.TargetLanguage = target
	return r, nil
}

func (f *fakeTranslator) GenerateImage(_ context.Context, _ model.ImagePayload, _ model.TranslationResult, ratio, res string) (*model.GeneratedImage, error) {
	f.genCalls++
	if f.genErr != nil {
		return nil, f.genErr
	}
	return &model.GeneratedImage{Data: []byte("generated"), AspectRatio: ratio, Resolution: res}, nil
}

// withFakeTranslator подменяет фабрику провайдера на время теста.
func withFakeTranslator(t *testing.T, f *fakeTranslator) {
	t.Helper()
	old := newTranslator
	newTranslator = func(_ context.Context, apiKey string, _ *config.Config, _ *zap.SugaredLogger) (translator, error) {
		f.apiKey = apiKey
		return f, nil
	}
	t.Cleanup(func() { newTranslator = old })
}

const testAPIKey = "AIzaSyD-commands-test-key-0001"
