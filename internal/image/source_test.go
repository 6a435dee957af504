package image

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func encodeTestPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.Set(0, 0, color.RGBA{R: 255, A: 255})

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestDecode(t *testing.T) {
	src, err := Decode(encodeTestPNG(t, 40, 30))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if src.Width() != 40 || src.Height() != 30 {
		t.Errorf("dimensions = %dx%d, want 40x30", src.Width(), src.Height())
	}
	if size := src.Size(); size.Width != 40 || size.Height != 30 {
		t.Errorf("Size() = %+v, want {40 30}", size)
	}
	if src.Path != "" {
		t.Errorf("Path = %q, want empty for in-memory decode", src.Path)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode([]byte("not an image")); err == nil {
		t.Error("Decode(garbage) succeeded")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.png")
	if err := os.WriteFile(path, encodeTestPNG(t, 8, 6), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	src, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if src.Path != path {
		t.Errorf("Path = %q, want %q", src.Path, path)
	}
	if src.Width() != 8 || src.Height() != 6 {
		t.Errorf("dimensions = %dx%d, want 8x6", src.Width(), src.Height())
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("Load(missing) succeeded")
	}
}

func TestIsSupportedFormat(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"photo.png", true},
		{"photo.JPG", true},
		{"scan.tiff", true},
		{"doc.pdf", false},
		{"noext", false},
	}

	for _, tt := range tests {
		if got := IsSupportedFormat(tt.path); got != tt.want {
			t.Errorf("IsSupportedFormat(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
