// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging validates and normalises uploaded pictures and produces
// their thumbnails.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/nukgsz/schoolsite/internal/model"
)

// MaxPixels bounds the decoded size of an upload.
const MaxPixels = 60_000_000

// sniffLen is the prefix http.DetectContentType looks at.
const sniffLen = 512

// ErrNotImage is returned for data that is not a supported picture.
var ErrNotImage = errors.New("file is not a supported image")

// Result holds a processed upload and its thumbnail.
type Result struct {
	Format   string // jpeg, png, gif or webp
	MimeType string
	Width    int
	Height   int

	// Data replaces the upload. JPEG and PNG uploads are re-encoded after
	// auto-orientation, which also drops EXIF (camera and GPS) metadata.
	// Data is nil for GIF and WebP, which are stored as uploaded: re-encoding
	// would lose animation and there is no pure Go WebP encoder.
	Data []byte

	// Thumbnail fits within the processor's thumbnail box. Its format is
	// given by ThumbnailName.
	Thumbnail []byte
}

// Processor handles image processing operations using pure Go libraries.
type Processor struct {
	thumbSize int
	quality   int
}

// NewProcessor creates a processor producing thumbnails that fit a
// thumbSize x thumbSize box.
func NewProcessor(thumbSize int) *Processor {
	if thumbSize <= 0 {
		thumbSize = model.ThumbnailSize
	}
	return &Processor{thumbSize: thumbSize, quality: 90}
}

// Process decodes the picture in r, applies the EXIF orientation, and
// returns the bytes to store together with a thumbnail. Only the first
// sniffLen bytes are read before the format is known.
func (p *Processor) Process(r io.ReadSeeker) (*Result, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	format := DetectFormat(head[:n])
	if format == "" {
		return nil, ErrNotImage
	}

	if err := rewind(r); err != nil {
		return nil, err
	}
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	if cfg.Width*cfg.Height > MaxPixels {
		return nil, fmt.Errorf("image dimensions %dx%d are too large", cfg.Width, cfg.Height)
	}

	if err := rewind(r); err != nil {
		return nil, err
	}
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotImage, err)
	}

	var stored []byte
	if format == "jpeg" || format == "png" {
		if err := rewind(r); err != nil {
			return nil, err
		}
		img = applyOrientation(img, readExifOrientation(r))
		stored, err = encodeImage(img, format, p.quality)
		if err != nil {
			return nil, fmt.Errorf("failed to encode image: %w", err)
		}
	}

	bounds := img.Bounds()
	thumb, err := p.thumbnail(img, format)
	if err != nil {
		return nil, fmt.Errorf("failed to create thumbnail: %w", err)
	}

	return &Result{
		Format:    format,
		MimeType:  formatToMimeType(format),
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
		Data:      stored,
		Thumbnail: thumb,
	}, nil
}

// ProcessFile runs Process on the file at path and replaces the file with
// the re-encoded picture when there is one.
func (p *Processor) ProcessFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	res, err := p.Process(f)
	_ = f.Close()
	if err != nil {
		return nil, err
	}
	if res.Data != nil {
		if err := os.WriteFile(path, res.Data, 0644); err != nil {
			return nil, fmt.Errorf("failed to rewrite image: %w", err)
		}
	}
	return res, nil
}

func rewind(r io.Seeker) error {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to rewind image data: %w", err)
	}
	return nil
}

// thumbnail fits img into the thumbnail box. Images already inside the box
// are encoded unchanged.
func (p *Processor) thumbnail(img image.Image, format string) ([]byte, error) {
	b := img.Bounds()
	if b.Dx() > p.thumbSize || b.Dy() > p.thumbSize {
		img = imaging.Fit(img, p.thumbSize, p.thumbSize, imaging.Lanczos)
	}
	return encodeImage(img, thumbnailFormat(format), p.quality)
}

func thumbnailFormat(format string) string {
	if format == "webp" {
		return "jpeg"
	}
	return format
}

// ThumbnailName returns the thumbnail file name for an uploaded image.
// WebP thumbnails are JPEG encoded and get a .jpg extension.
func ThumbnailName(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == ".webp" {
		return strings.TrimSuffix(filename, filepath.Ext(filename)) + ".jpg"
	}
	return filename
}

// IsImage checks if a MIME type represents an image that can be processed.
func IsImage(mimeType string) bool {
	_, ok := model.ImageMimeTypes[mimeType]
	return ok
}

// readExifOrientation reads the EXIF orientation tag from image data.
// Returns 1 (normal) if orientation cannot be determined.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}

	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}

	return orientation
}

// applyOrientation applies EXIF orientation transformation to an image.
// Orientation values:
// 1: Normal
// 2: Flip horizontal
// 3: Rotate 180°
// 4: Flip vertical
// 5: Rotate 90° CW + flip horizontal
// 6: Rotate 90° CW
// 7: Rotate 90° CCW + flip horizontal
// 8: Rotate 90° CCW
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// encodeImage encodes an image to bytes with the specified format and quality.
func encodeImage(img image.Image, format string, quality int) ([]byte, error) {
	var buf bytes.Buffer
	var err error

	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	default:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality})
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DetectFormat names the picture format of data, which needs to hold only
// the first 512 bytes of a file. It returns "" for anything else.
func DetectFormat(data []byte) string {
	contentType := http.DetectContentType(data)
	// Explicitly reject TIFF (CVE-2023-36308 in disintegration/imaging)
	if strings.Contains(contentType, "tiff") {
		return ""
	}
	switch {
	case strings.Contains(contentType, "jpeg"):
		return "jpeg"
	case strings.Contains(contentType, "png"):
		return "png"
	case strings.Contains(contentType, "gif"):
		return "gif"
	case strings.Contains(contentType, "webp"):
		return "webp"
	default:
		return ""
	}
}

// formatToMimeType converts format string to MIME type.
func formatToMimeType(format string) string {
	switch format {
	case "jpeg":
		return model.MimeTypeJPEG
	case "png":
		return model.MimeTypePNG
	case "gif":
		return model.MimeTypeGIF
	case "webp":
		return model.MimeTypeWebP
	default:
		return "application/octet-stream"
	}
}
