// Package image provides decoding of uploaded source images.
package image

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"print-composer/pkg/geometry"

	_ "golang.org/x/image/tiff"
)

// Source is a decoded image ready for placement on the page. It satisfies
// the layout model's ImageSource interface.
type Source struct {
	Path  string      // Original file path, empty for clipboard pastes
	Image image.Image // Decoded pixel data
}

// Load decodes an image from the specified path.
func Load(path string) (*Source, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return &Source{Path: path, Image: img}, nil
}

// Decode decodes an image from in-memory bytes, e.g. a clipboard payload.
func Decode(data []byte) (*Source, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return &Source{Image: img}, nil
}

// FromImage wraps an already decoded image.
func FromImage(img image.Image) *Source {
	return &Source{Image: img}
}

// Width returns the image width in pixels.
func (s *Source) Width() int {
	if s.Image == nil {
		return 0
	}
	return s.Image.Bounds().Dx()
}

// Height returns the image height in pixels.
func (s *Source) Height() int {
	if s.Image == nil {
		return 0
	}
	return s.Image.Bounds().Dy()
}

// Size returns the pixel dimensions as a geometry value.
func (s *Source) Size() geometry.Size {
	return geometry.Size{
		Width:  float64(s.Width()),
		Height: float64(s.Height()),
	}
}

// SupportedFormats returns the list of supported image file extensions.
func SupportedFormats() []string {
	return []string{".png", ".jpg", ".jpeg", ".tiff", ".tif"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}
