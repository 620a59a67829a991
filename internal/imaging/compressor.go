// Package imaging re-encodes user-uploaded images so they respect a byte
// budget before they reach the object store.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"math"
	"net/http"

	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrCompressionFailed = errors.New("image compression failed")
)

const (
	bitsPerByte = 8
	// assumedBitsPerPixel is an empirical density for JPEG output at the
	// quality used here; it drives the target dimension estimate.
	assumedBitsPerPixel = 3
	// safetyFactor biases the estimate toward overshooting compression rather
	// than missing the budget.
	safetyFactor = 0.9
	jpegQuality  = 75
)

// Asset is the result of Compress: encoded bytes plus the extension and
// content type matching the actual encoding of Data.
type Asset struct {
	Data        []byte
	Ext         string
	ContentType string
	Resized     bool
}

var extByContentType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Compress returns data unchanged when it already fits maxBytes. Oversized
// images are decoded, scaled down so the larger dimension matches a target
// derived from the budget, and re-encoded as JPEG at a fixed reduced quality
// regardless of the input format. This is a single pass: the output is
// expected to fit the budget for typical photographic content but there is no
// tightening loop and no hard guarantee.
func Compress(data []byte, maxBytes int) (Asset, error) {
	contentType := http.DetectContentType(data)
	ext, ok := extByContentType[contentType]
	if !ok {
		return Asset{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, contentType)
	}

	if len(data) <= maxBytes {
		return Asset{Data: data, Ext: ext, ContentType: contentType}, nil
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Asset{}, fmt.Errorf("%w: decode: %v", ErrCompressionFailed, err)
	}

	scaled, resized := scaleToBudget(src, maxBytes)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return Asset{}, fmt.Errorf("%w: encode: %v", ErrCompressionFailed, err)
	}
	if buf.Len() == 0 {
		return Asset{}, fmt.Errorf("%w: encoder produced no output", ErrCompressionFailed)
	}
	return Asset{Data: buf.Bytes(), Ext: ".jpg", ContentType: "image/jpeg", Resized: resized}, nil
}

// scaleToBudget shrinks src so its larger dimension equals the target derived
// from maxBytes, preserving aspect ratio. Images already at or below the
// target are returned as-is; there is no upscaling.
func scaleToBudget(src image.Image, maxBytes int) (image.Image, bool) {
	target := math.Sqrt(float64(maxBytes)*bitsPerByte/assumedBitsPerPixel) * safetyFactor

	bounds := src.Bounds()
	w, h := float64(bounds.Dx()), float64(bounds.Dy())
	larger := math.Max(w, h)
	if larger <= target {
		return src, false
	}

	scale := target / larger
	nw := int(math.Max(1, math.Round(w*scale)))
	nh := int(math.Max(1, math.Round(h*scale)))

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)
	return dst, true
}
