package storage

import (
	"bytes"
	"image"
	"image/jpeg"

	// Decoders for the upload formats clients send.
	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"reuseu/pkg/errors"
)

const (
	startQuality = 85
	minQuality   = 25
	qualityStep  = 15
	minDimension = 32
)

// JPEGCompressor re-encodes images as JPEG, lowering quality first and then
// resolution until the result fits the budget. When the budget cannot be
// met the smallest encoding produced is returned.
type JPEGCompressor struct{}

func NewJPEGCompressor() *JPEGCompressor {
	return &JPEGCompressor{}
}

func (JPEGCompressor) Compress(data []byte, maxKB int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.BadRequest("Image could not be decoded", err)
	}
	if maxKB <= 0 {
		return encodeJPEG(img, startQuality)
	}
	limit := maxKB * 1024

	var smallest []byte
	for {
		for q := startQuality; q >= minQuality; q -= qualityStep {
			out, err := encodeJPEG(img, q)
			if err != nil {
				return nil, err
			}
			if smallest == nil || len(out) < len(smallest) {
				smallest = out
			}
			if len(out) <= limit {
				return out, nil
			}
		}

		b := img.Bounds()
		w, h := b.Dx()*3/4, b.Dy()*3/4
		if w < minDimension || h < minDimension {
			return smallest, nil
		}
		img = resize(img, w, h)
	}
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, errors.Upstream("Failed to encode image", err)
	}
	return buf.Bytes(), nil
}

func resize(img image.Image, w, h int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}
