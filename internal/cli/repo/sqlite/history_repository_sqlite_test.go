package sqlite

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ImageTranslator/internal/cli/model"
	apperr "ImageTranslator/internal/errors"
)

func mkRecord(id string, created time.Time) *model.TranslationRecord {
	return &model.TranslationRecord{
		ID:        id,
		CreatedAt: created,
		UpdatedAt: created,
		Image: model.ImageInfo{
			Thumbnail:    []byte{0xff, 0xd8, 0xff},
			OriginalSize: 1024,
			MimeType:     "image/png",
		},
		SourceLanguage: "en",
		TargetLanguage: "ko",
		OriginalText:   "Hello",
		TranslatedText: "안녕하세요",
		Metadata: model.RecordMetadata{
			Confidence:     model.ConfidenceHigh,
			ProcessingTime: 1500 * time.Millisecond,
			ModelUsed:      "gemini-2.0-flash-exp",
		},
	}
}

func TestHistoryRepository_InsertGet(t *testing.T) {
	r := NewHistoryRepository(newTestDB(t))
	ctx := context.Background()
	created := time.Date(2025, 3, 1, 12, 0, 0, 123e6, time.UTC)

	rec := mkRecord("r1", created)
	rec.GeneratedImage = &model.GeneratedImage{Data: []byte{1, 2, 3}, Resolution: "2K", AspectRatio: "16:9"}
	rec.Tags = []string{"menu", "travel"}
	require.NoError(t, r.Insert(ctx, rec))

	got, err := r.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, created, got.CreatedAt)
	assert.Equal(t, rec.Image, got.Image)
	assert.Equal(t, "안녕하세요", got.TranslatedText)
	assert.Equal(t, rec.Metadata, got.Metadata)
	assert.Equal(t, rec.GeneratedImage, got.GeneratedImage)
	assert.Equal(t, []string{"menu", "travel"}, got.Tags)
	assert.False(t, got.IsFavorite)
}

func TestHistoryRepository_Get_NotFound(t *testing.T) {
	r := NewHistoryRepository(newTestDB(t))
	got, err := r.Get(context.Background(), "missing")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestHistoryRepository_Insert_DuplicateID(t *testing.T) {
	r := NewHistoryRepository(newTestDB(t))
	ctx := context.Background()
	require.NoError(t, r.Insert(ctx, mkRecord("dup", time.Now())))
	assert.Error(t, r.Insert(ctx, mkRecord("dup", time.Now())))
}

func TestHistoryRepository_List_StorageOrder(t *testing.T) {
	r := NewHistoryRepository(newTestDB(t))
	ctx := context.Background()
	base := time.Now().UTC()

	// порядок вставки не совпадает с порядком времени и ID
	ids := []string{"c", "a", "b"}
	for i, id := range ids {
		require.NoError(t, r.Insert(ctx, mkRecord(id, base.Add(-time.Duration(i)*time.Hour))))
	}
	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i, id := range ids {
		assert.Equal(t, id, list[i].ID)
	}
	assert.Nil(t, list[0].GeneratedImage)
}

func TestHistoryRepository_Modify(t *testing.T) {
	r := NewHistoryRepository(newTestDB(t))
	ctx := context.Background()
	created := time.Now().UTC().Add(-time.Hour).Truncate(time.Millisecond)
	require.NoError(t, r.Insert(ctx, mkRecord("m1", created)))

	later := created.Add(30 * time.Minute)
	got, err := r.Modify(ctx, "m1", func(rec *model.TranslationRecord) error {
		rec.IsFavorite = true
		rec.Notes = "check later"
		rec.UpdatedAt = later
		rec.CreatedAt = time.Time{}
		rec.OriginalText = "ignored"
		return nil
	})
	require.NoError(t, err)
	assert.True(t, got.IsFavorite)
	assert.Equal(t, created, got.CreatedAt)

	stored, err := r.Get(ctx, "m1")
	require.NoError(t, err)
	assert.True(t, stored.IsFavorite)
	assert.Equal(t, "check later", stored.Notes)
	assert.Equal(t, later, stored.UpdatedAt)
	assert.Equal(t, created, stored.CreatedAt)
	assert.Equal(t, "Hello", stored.OriginalText)
}

func TestHistoryRepository_Modify_NotFoundAndFnError(t *testing.T) {
	r := NewHistoryRepository(newTestDB(t))
	ctx := context.Background()

	called := false
	_, err := r.Modify(ctx, "nope", func(*model.TranslationRecord) error { called = true; return nil })
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.False(t, called)

	require.NoError(t, r.Insert(ctx, mkRecord("x", time.Now())))
	boom := errors.New("boom")
	_, err = r.Modify(ctx, "x", func(rec *model.TranslationRecord) error {
		rec.IsFavorite = true
		return boom
	})
	assert.ErrorIs(t, err, boom)
	stored, err := r.Get(ctx, "x")
	require.NoError(t, err)
	assert.False(t, stored.IsFavorite)
}

func TestHistoryRepository_DeleteAndDeleteAll(t *testing.T) {
	r := NewHistoryRepository(newTestDB(t))
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, r.Insert(ctx, mkRecord(fmt.Sprintf("d%d", i), time.Now())))
	}

	n, err := r.Delete(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = r.Delete(ctx, "d0", "d1", "missing")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = r.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	list, err := r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Positive(t, r.StorageUsed(ctx))
}
