package commands

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ImageTranslator/internal/cli/bootstrap"
	"ImageTranslator/internal/cli/model"
	apperr "ImageTranslator/internal/errors"
)

func sampleTranslation() model.TranslationResult {
	return model.TranslationResult{
		DetectedLanguage: "English",
		OriginalText:     "Fresh coffee",
		TranslatedText:   "신선한 커피",
		Confidence:       model.ConfidenceHigh,
		ModelUsed:        "ocr-model",
	}
}

func TestTranslate_NoCredential(t *testing.T) {
	cfg := withTempConfig(t)
	withFakeTranslator(t, &fakeTranslator{result: sampleTranslation()})

	err := (translateCmd{}).Run(context.Background(), cfg, []string{writePNG(t)})
	assert.ErrorIs(t, err, apperr.ErrNoCredential)
}

func TestTranslate_UnsupportedFile(t *testing.T) {
	cfg := withTempConfig(t)
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))

	err := (translateCmd{}).Run(context.Background(), cfg, []string{path})
	assert.ErrorIs(t, err, apperr.ErrUnsupportedImage)
}

func TestTranslate_SavesHistory(t *testing.T) {
	cfg := withTempConfig(t)
	ctx := context.Background()
	fake := &fakeTranslator{result: sampleTranslation()}
	withFakeTranslator(t, fake)
	require.NoError(t, bootstrap.OpenCredentials(cfg, zap.NewNop().Sugar()).Save(testAPIKey))

	out := withStdoutCapture(t, func() {
		require.NoError(t, (translateCmd{}).Run(ctx, cfg, []string{"--to", "ja", writePNG(t)}))
	})
	assert.Contains(t, out, "신선한 커피")
	assert.Contains(t, out, "Saved to history")
	assert.Equal(t, testAPIKey, fake.apiKey)
	assert.Zero(t, fake.genCalls)

	h, done, err := bootstrap.OpenHistory(cfg, zap.NewNop().Sugar())
	require.NoError(t, err)
	defer done()
	res, err := h.Query.Query(ctx, model.QueryOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, res.Total)
	rec := res.Records[0]
	assert.Equal(t, "English", rec.SourceLanguage)
	assert.Equal(t, "ja", rec.TargetLanguage)
	assert.Equal(t, "image/jpeg", rec.Image.MimeType)
	assert.Nil(t, rec.GeneratedImage)
}

func TestTranslate_GenerateAndNoSave(t *testing.T) {
	cfg := withTempConfig(t)
	ctx := context.Background()
	fake := &fakeTranslator{result: sampleTranslation()}
	withFakeTranslator(t, fake)
	require.NoError(t, bootstrap.OpenCredentials(cfg, zap.NewNop().Sugar()).Save(testAPIKey))

	outFile := filepath.Join(t.TempDir(), "generated.png")
	out := withStdoutCapture(t, func() {
		require.NoError(t, (translateCmd{}).Run(ctx, cfg, []string{"--generate", "--ratio", "16:9", "--out", outFile, "--no-save", writePNG(t)}))
	})
	assert.Contains(t, out, "written to "+outFile)
	assert.NotContains(t, out, "Saved to history")

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Equal(t, "generated", string(data))
}

func TestTranslate_GenerationFailureStillSaves(t *testing.T) {
	cfg := withTempConfig(t)
	ctx := context.Background()
	fake := &fakeTranslator{result: sampleTranslation(), genErr: errors.New("quota")}
	withFakeTranslator(t, fake)
	require.NoError(t, bootstrap.OpenCredentials(cfg, zap.NewNop().Sugar()).Save(testAPIKey))

	out := withStdoutCapture(t, func() {
		require.NoError(t, (translateCmd{}).Run(ctx, cfg, []string{"--generate", writePNG(t)}))
	})
	assert.Contains(t, out, "Image generation failed")
	assert.Contains(t, out, "Saved to history")
	assert.Equal(t, 1, fake.genCalls)
}

func TestTranslate_Usage(t *testing.T) {
	cfg := withTempConfig(t)
	assert.ErrorIs(t, (translateCmd{}).Run(context.Background(), cfg, nil), ErrUsage)
	assert.ErrorIs(t, (translateCmd{}).Run(context.Background(), cfg, []string{"--bogus", "x"}), ErrUsage)
}
