// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package media renders and stores the size and crop variants of hero images.

Every uploaded image is kept at full size and accompanied by two derived
renditions stored under "__sized__/":

  - thumbnail: scaled to fit within 100x100, aspect ratio preserved.
  - square_crop: a 200x200 square cropped around the image's [PPOI].

Variant keys are a pure function of the original key and the PPOI, so URLs can
be rendered without touching object storage.
*/
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	"image/png"
	"path"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	// ThumbnailSize bounds both sides of the thumbnail variant.
	ThumbnailSize = 100

	// CropSize is the side of the square crop variant.
	CropSize = 200

	// MaxUploadSize is the largest accepted upload (10 MB).
	MaxUploadSize = 10 << 20

	// maxImagePixels rejects decompression bombs before a full decode.
	maxImagePixels = 40_000_000

	jpegQuality = 85

	originalPrefix = "hero_images/"
	sizedPrefix    = "__sized__/"
)

// ErrUnsupportedFormat is returned for uploads that are not JPEG, PNG, GIF or WebP.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// ObjectStore is the storage a [Processor] uploads to.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// Variants holds the URLs of a hero image and its renditions.
type Variants struct {
	FullSize   string `json:"full_size"`
	Thumbnail  string `json:"thumbnail"`
	SquareCrop string `json:"square_crop"`
}

// OriginalKey returns the object key of an uploaded original.
func OriginalKey(name string) string {
	return originalPrefix + name
}

// ThumbnailKey returns the object key of the thumbnail variant of original.
func ThumbnailKey(original string) string {
	base, ext := splitKey(original)
	return fmt.Sprintf("%s%s-thumbnail-%dx%d%s", sizedPrefix, base, ThumbnailSize, ThumbnailSize, ext)
}

// CropKey returns the object key of the square crop variant of original.
func CropKey(original string, point PPOI) string {
	base, ext := splitKey(original)
	return fmt.Sprintf("%s%s-crop-%s-%dx%d%s", sizedPrefix, base, point.keyToken(), CropSize, CropSize, ext)
}

// URLs renders the public URLs of original and its variants below baseURL.
func URLs(baseURL, original string, point PPOI) Variants {
	prefix := strings.TrimRight(baseURL, "/") + "/"
	return Variants{
		FullSize:   prefix + original,
		Thumbnail:  prefix + ThumbnailKey(original),
		SquareCrop: prefix + CropKey(original, point),
	}
}

// splitKey returns the key without extension, and the extension the variants
// are encoded with. JPEG sources keep their extension, everything else becomes PNG.
func splitKey(key string) (string, string) {
	ext := path.Ext(key)
	base := strings.TrimSuffix(key, ext)

	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return base, ext
	}
	return base, ".png"
}

// # Processing

// Processor decodes uploads, renders the variants and stores all three objects.
type Processor struct {
	store ObjectStore
}

// NewProcessor creates a processor writing to store.
func NewProcessor(store ObjectStore) *Processor {
	return &Processor{store: store}
}

// ExtensionFor returns the file extension for a supported image content type.
func ExtensionFor(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/gif":
		return ".gif", nil
	case "image/webp":
		return ".webp", nil
	}
	return "", ErrUnsupportedFormat
}

// Store uploads the original under key together with its variants.
func (processor *Processor) Store(ctx context.Context, key, contentType string, data []byte, point PPOI) error {
	source, err := decode(data)
	if err != nil {
		return err
	}

	if err := processor.store.Put(ctx, key, contentType, data); err != nil {
		return err
	}

	_, variantExt := splitKey(key)

	thumbnail, err := encode(Thumbnail(source, ThumbnailSize), variantExt)
	if err != nil {
		return err
	}
	if err := processor.store.Put(ctx, ThumbnailKey(key), contentTypeFor(variantExt), thumbnail); err != nil {
		return err
	}

	crop, err := encode(SquareCrop(source, CropSize, point), variantExt)
	if err != nil {
		return err
	}
	return processor.store.Put(ctx, CropKey(key, point), contentTypeFor(variantExt), crop)
}

// Remove deletes an original and both of its variants. All three deletes are
// attempted; the errors are joined.
func (processor *Processor) Remove(ctx context.Context, key string, point PPOI) error {
	return errors.Join(
		processor.store.Delete(ctx, key),
		processor.store.Delete(ctx, ThumbnailKey(key)),
		processor.store.Delete(ctx, CropKey(key, point)),
	)
}

func decode(data []byte) (image.Image, error) {
	config, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	if int64(config.Width)*int64(config.Height) > maxImagePixels {
		return nil, fmt.Errorf("image too large: %dx%d", config.Width, config.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

func encode(img image.Image, ext string) ([]byte, error) {
	var buffer bytes.Buffer

	var err error
	if ext == ".png" {
		err = png.Encode(&buffer, img)
	} else {
		err = jpeg.Encode(&buffer, img, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return nil, fmt.Errorf("encode variant: %w", err)
	}

	return buffer.Bytes(), nil
}

func contentTypeFor(ext string) string {
	if ext == ".png" {
		return "image/png"
	}
	return "image/jpeg"
}

// Thumbnail scales img to fit within size x size. Smaller images are not upscaled.
func Thumbnail(img image.Image, size int) image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if width <= size && height <= size {
		return img
	}

	ratio := min(float64(size)/float64(width), float64(size)/float64(height))
	targetWidth := max(1, int(float64(width)*ratio))
	targetHeight := max(1, int(float64(height)*ratio))

	dst := image.NewRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// SquareCrop takes the largest square of img centred as close to point as the
// image edges allow, and scales it to size x size.
func SquareCrop(img image.Image, size int, point PPOI) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, CropRect(img.Bounds(), point), draw.Over, nil)
	return dst
}

// CropRect returns the square region of bounds centred on point, clamped to bounds.
func CropRect(bounds image.Rectangle, point PPOI) image.Rectangle {
	side := min(bounds.Dx(), bounds.Dy())

	centerX := bounds.Min.X + int(point.X*float64(bounds.Dx()))
	centerY := bounds.Min.Y + int(point.Y*float64(bounds.Dy()))

	left := clamp(centerX-side/2, bounds.Min.X, bounds.Max.X-side)
	top := clamp(centerY-side/2, bounds.Min.Y, bounds.Max.Y-side)

	return image.Rect(left, top, left+side, top+side)
}

func clamp(value, low, high int) int {
	return max(low, min(value, high))
}
