// Package imaging turns uploaded profile pictures into stored thumbnails
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/personregistry/backend/internal/models"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// Thumbnail geometry and encoding
const (
	ThumbnailWidth  = 200
	ThumbnailHeight = 200
	jpegQuality     = 90

	// MaxSourcePixels caps width*height of an accepted picture before it is decoded
	MaxSourcePixels = 40_000_000
)

// AllowedExtensions lists accepted picture file extensions (lower case)
var AllowedExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp"}

// thumbnailProcessor resizes pictures to a fixed square and re-encodes them as JPEG
type thumbnailProcessor struct {
	width   int
	height  int
	quality int
}

// NewThumbnailProcessor creates a processor producing ThumbnailWidth x ThumbnailHeight JPEGs
func NewThumbnailProcessor() *thumbnailProcessor {
	return &thumbnailProcessor{
		width:   ThumbnailWidth,
		height:  ThumbnailHeight,
		quality: jpegQuality,
	}
}

// ProcessProfilePicture validates the upload and returns the encoded thumbnail.
//
// Missing or empty content, a disallowed extension, undecodable data and pictures above MaxSourcePixels
// are reported as models.ErrInvalid.
func (p *thumbnailProcessor) ProcessProfilePicture(upload *models.Upload) ([]byte, error) {
	if upload == nil || upload.Content == nil {
		return nil, models.NewInvalid("Profile picture is required")
	}

	if !IsImageFile(upload.Filename) {
		return nil, models.NewInvalid("File must be an image (jpg, jpeg, png, gif, bmp)")
	}

	raw, err := io.ReadAll(upload.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile picture: %w", err)
	}
	if len(raw) == 0 {
		return nil, models.NewInvalid("Profile picture is required")
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, models.NewInvalid("Profile picture could not be decoded")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxSourcePixels {
		return nil, models.NewInvalid("Profile picture dimensions are too large")
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, models.NewInvalid("Profile picture could not be decoded")
	}

	dst := image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	// JPEG has no alpha channel, transparent areas become white
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var out bytes.Buffer
	if err := jpeg.Encode(&out, dst, &jpeg.Options{Quality: p.quality}); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	return out.Bytes(), nil
}

// IsImageFile reports whether filename carries an accepted picture extension
func IsImageFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return slices.Contains(AllowedExtensions, ext)
}
