package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ImageTranslator/internal/cli/model"
	"ImageTranslator/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		DataDir:        dir,
		HistoryDBPath:  filepath.Join(dir, "db", "history.sqlite"),
		CredentialFile: filepath.Join(dir, "img_translator_api_key"),
		CipherMode:     config.CipherModeAuto,
		AEADAlgorithm:  config.AEADChaCha20,
		Language:       "en-US",
		DisplayWidth:   1280,
		DisplayHeight:  720,
	}
}

func TestOpenCredentials_RoundTrip(t *testing.T) {
	cfg := testConfig(t)
	log := zap.NewNop().Sugar()

	creds := OpenCredentials(cfg, log)
	require.NoError(t, creds.Save("AIzaSyD-bootstrap-test-key-0001"))

	// новый экземпляр на том же хосте читает ключ
	got, ok := OpenCredentials(cfg, log).Load()
	assert.True(t, ok)
	assert.Equal(t, "AIzaSyD-bootstrap-test-key-0001", got)
}

func TestOpenCredentials_DisplayChangeInvalidatesKey(t *testing.T) {
	cfg := testConfig(t)
	log := zap.NewNop().Sugar()
	require.NoError(t, OpenCredentials(cfg, log).Save("AIzaSyD-bootstrap-test-key-0002"))

	cfg.DisplayWidth = 3840
	_, ok := OpenCredentials(cfg, log).Load()
	assert.False(t, ok)
}

func TestOpenHistory(t *testing.T) {
	cfg := testConfig(t)
	h, done, err := OpenHistory(cfg, zap.NewNop().Sugar())
	require.NoError(t, err)
	defer done()

	st, err := h.Settings.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, st.AutoSaveHistory)

	res, err := h.Query.Query(context.Background(), model.QueryOptions{})
	require.NoError(t, err)
	assert.Zero(t, res.Total)
}
