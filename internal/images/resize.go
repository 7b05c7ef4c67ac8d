package images

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"

	"github.com/lehigh-university-libraries/letterbox/internal/models"
	"github.com/nfnt/resize"
)

// JPEGQuality is used when re-encoding scaled JPEGs
const JPEGQuality = 90

// Resizer scales large JPEG and PNG images down before upload.
// A zero MaxDimension passes every file through untouched.
type Resizer struct {
	MaxDimension uint
}

// NewResizer creates a resizer bounding both sides to maxDimension pixels
func NewResizer(maxDimension uint) *Resizer {
	return &Resizer{MaxDimension: maxDimension}
}

// Open returns the content to upload for f
func (r *Resizer) Open(f models.SelectedFile) (io.ReadCloser, error) {
	if r == nil || r.MaxDimension == 0 || !scalable(f.MIMEType) {
		return f.Open()
	}

	data, err := r.scale(f)
	if err != nil {
		// Undecodable images are still uploaded as-is
		slog.Warn("Unable to scale image, uploading original", "path", f.RelativePath, "error", err)
		return f.Open()
	}
	if data == nil {
		return f.Open()
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// scale returns nil data when the image already fits
func (r *Resizer) scale(f models.SelectedFile) ([]byte, error) {
	src, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer src.Close()

	img, format, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if uint(bounds.Dx()) <= r.MaxDimension && uint(bounds.Dy()) <= r.MaxDimension {
		return nil, nil
	}

	scaled := resize.Thumbnail(r.MaxDimension, r.MaxDimension, img, resize.Lanczos3)

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: JPEGQuality})
	case "png":
		err = png.Encode(&buf, scaled)
	default:
		return nil, fmt.Errorf("unsupported image format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", format, err)
	}

	slog.Debug("Scaled image",
		"path", f.RelativePath,
		"from", fmt.Sprintf("%dx%d", bounds.Dx(), bounds.Dy()),
		"to", fmt.Sprintf("%dx%d", scaled.Bounds().Dx(), scaled.Bounds().Dy()))

	return buf.Bytes(), nil
}

func scalable(mimeType string) bool {
	return mimeType == "image/jpeg" || mimeType == "image/png"
}
