package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslationRecord_JSONFieldNames(t *testing.T) {
	r := TranslationRecord{
		ID:    "rec-1",
		Image: ImageInfo{Thumbnail: []byte{1}, OriginalSize: 10, MimeType: "image/jpeg"},
	}
	raw, err := json.Marshal(r)
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Contains(t, fields, "image")
	assert.NotContains(t, fields, "originalImage")
	assert.NotContains(t, fields, "generatedImage")
	assert.NotContains(t, fields, "notes")

	var img map[string]any
	require.NoError(t, json.Unmarshal(fields["image"], &img))
	assert.Equal(t, "image/jpeg", img["mimeType"])
	assert.EqualValues(t, 10, img["originalSize"])
}
