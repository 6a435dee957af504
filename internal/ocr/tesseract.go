// Package ocr suggests annotation text by reading printed labels out of
// placed images with Tesseract.
package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"strings"

	"github.com/otiai10/gosseract/v2"
	xdraw "golang.org/x/image/draw"
)

// minOCRDim is the smallest region dimension fed to Tesseract; smaller
// crops are upscaled first to keep glyphs recognizable.
const minOCRDim = 150

// Engine provides label recognition using Tesseract.
type Engine struct {
	client *gosseract.Client
}

// NewEngine creates a new OCR engine.
func NewEngine() (*Engine, error) {
	client := gosseract.NewClient()

	if err := client.SetLanguage("eng"); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}

	// Disable dictionary-based word correction. Card labels are often
	// names or short codes that correction would mangle.
	_ = client.SetVariable("load_system_dawg", "false")
	_ = client.SetVariable("load_freq_dawg", "false")

	return &Engine{client: client}, nil
}

// Close releases OCR resources.
func (e *Engine) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

// SuggestLabel performs OCR on a region of an image and returns a cleaned
// single-line label candidate. Returns "" when nothing legible is found.
func (e *Engine) SuggestLabel(img image.Image, region image.Rectangle) (string, error) {
	if img == nil {
		return "", fmt.Errorf("nil image")
	}
	region = region.Intersect(img.Bounds())
	if region.Empty() {
		return "", fmt.Errorf("invalid region bounds")
	}

	prepared := prepareRegion(img, region)

	var buf bytes.Buffer
	if err := png.Encode(&buf, prepared); err != nil {
		return "", fmt.Errorf("failed to encode region: %w", err)
	}

	// PSM 6 = assume a single uniform block of text.
	if err := e.client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		return "", fmt.Errorf("failed to set PSM: %w", err)
	}
	if err := e.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := e.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return CleanLabel(text), nil
}

// SuggestImageLabel performs OCR on an entire image.
func (e *Engine) SuggestImageLabel(img image.Image) (string, error) {
	if img == nil {
		return "", fmt.Errorf("nil image")
	}
	return e.SuggestLabel(img, img.Bounds())
}

// CleanLabel collapses OCR output into a single trimmed line.
func CleanLabel(text string) string {
	fields := strings.Fields(text)
	return strings.Join(fields, " ")
}

// prepareRegion crops the region into grayscale, upscaling small crops
// so Tesseract has enough pixels per glyph.
func prepareRegion(img image.Image, region image.Rectangle) image.Image {
	gray := image.NewGray(image.Rect(0, 0, region.Dx(), region.Dy()))
	draw.Draw(gray, gray.Bounds(), img, region.Min, draw.Src)

	minDim := gray.Bounds().Dx()
	if h := gray.Bounds().Dy(); h < minDim {
		minDim = h
	}
	if minDim >= minOCRDim || minDim == 0 {
		return gray
	}

	scale := float64(minOCRDim) / float64(minDim)
	w := int(float64(gray.Bounds().Dx()) * scale)
	h := int(float64(gray.Bounds().Dy()) * scale)
	scaled := image.NewGray(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), gray, gray.Bounds(), xdraw.Src, nil)
	return scaled
}
