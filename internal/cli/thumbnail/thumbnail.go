// Package thumbnail уменьшает изображения для хранения в истории.
package thumbnail

import (
	"bytes"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	apperr "ImageTranslator/internal/errors"
)

// Параметры миниатюры истории.
const (
	MaxWidth = 200
	Quality  = 70
	MimeType = "image/jpeg"
)

// Make декодирует изображение, уменьшает его до MaxWidth с сохранением пропорций
// и кодирует в JPEG. Узкие изображения не увеличиваются.
// При ошибке декодирования возвращает исходные байты и ErrImageDecodeFailed.
func Make(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return data, apperr.Wrap(apperr.ErrImageDecodeFailed, err.Error())
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return data, apperr.ErrImageDecodeFailed
	}
	if w > MaxWidth {
		h = h * MaxWidth / w
		if h < 1 {
			h = 1
		}
		w = MaxWidth
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	// JPEG без альфа-канала: прозрачные области становятся белыми
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: Quality}); err != nil {
		return data, apperr.Wrap(apperr.ErrImageDecodeFailed, err.Error())
	}
	return buf.Bytes(), nil
}
