package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsRepository_SetAll(t *testing.T) {
	r := NewSettingsRepository(newTestDB(t))
	ctx := context.Background()

	all, err := r.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	require.NoError(t, r.Set(ctx, "targetLanguage", "ja"))
	require.NoError(t, r.Set(ctx, "autoSaveHistory", false))
	require.NoError(t, r.Set(ctx, "targetLanguage", "vi"))

	all, err = r.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"autoSaveHistory": "false", "targetLanguage": `"vi"`}, all)
}

func TestSettingsRepository_Set_Unencodable(t *testing.T) {
	r := NewSettingsRepository(newTestDB(t))
	assert.Error(t, r.Set(context.Background(), "broken", make(chan int)))
}
