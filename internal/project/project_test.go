package project

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	imgpkg "print-composer/internal/image"
	"print-composer/internal/layout"
)

func writeTestImage(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create image: %v", err)
	}
	defer file.Close()
	if err := png.Encode(file, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode image: %v", err)
	}
	return path
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	imgPath := writeTestImage(t, dir, "card.png", 100, 50)

	s := layout.NewSession(layout.PageFor(layout.PageA4, layout.Portrait), layout.GridSpec{Rows: 3, Cols: 4})
	s.SwitchMode(layout.ModeGrid)
	src, err := imgpkg.Load(imgPath)
	if err != nil {
		t.Fatalf("load source: %v", err)
	}
	img := s.AddImage(src)
	s.SelectImage(img.ID)
	txt := s.AddText()
	s.EditText(txt.ID, "Snack")
	s.UpdateText(txt.ID, txt.X, txt.Y, 80, 15)

	layoutPath := filepath.Join(dir, "lunch"+Extension)
	if err := Save(layoutPath, s, layout.PageA4, layout.Portrait); err != nil {
		t.Fatalf("Save: %v", err)
	}

	f, err := Load(layoutPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f.PageSize != "A4" || f.Orientation != "Portrait" || f.Mode != "Grid" {
		t.Errorf("header = %q %q %q", f.PageSize, f.Orientation, f.Mode)
	}
	if f.Grid != (layout.GridSpec{Rows: 3, Cols: 4}) {
		t.Errorf("Grid = %+v", f.Grid)
	}
	if len(f.Images) != 1 || f.Images[0].SourcePath != "card.png" {
		t.Fatalf("Images = %+v, want relative card.png", f.Images)
	}

	restored := f.BuildSession(dir)
	if restored.Mode != layout.ModeGrid {
		t.Errorf("restored mode = %v", restored.Mode)
	}
	if len(restored.Images) != 1 {
		t.Fatalf("restored %d images, want 1", len(restored.Images))
	}
	got := restored.Images[0]
	if got.Rect() != img.Rect() {
		t.Errorf("restored rect = %+v, want %+v", got.Rect(), img.Rect())
	}
	if got.Cell == nil || *got.Cell != *img.Cell {
		t.Errorf("restored cell = %+v, want %+v", got.Cell, img.Cell)
	}
	if len(restored.Texts) != 1 || restored.Texts[0].Text != "Snack" || restored.Texts[0].Rotation != 15 {
		t.Errorf("restored texts = %+v", restored.Texts)
	}
}

func TestBuildSessionDropsMissingSources(t *testing.T) {
	dir := t.TempDir()
	f := &File{
		Version:     1,
		PageSize:    "A4",
		Orientation: "Portrait",
		Mode:        "Scaled",
		Grid:        layout.DefaultGrid(),
		Images: []PlacedImage{
			{SourcePath: "gone.png", X: 1, Y: 2, Width: 3, Height: 4},
		},
		Texts: []TextAnnotation{{X: 5, Y: 6, Width: 100, Text: "kept"}},
	}

	s := f.BuildSession(dir)
	if len(s.Images) != 0 {
		t.Errorf("restored %d images from missing sources, want 0", len(s.Images))
	}
	if len(s.Texts) != 1 {
		t.Errorf("restored %d texts, want 1", len(s.Texts))
	}
}

func TestBuildSessionDefaultsBadGrid(t *testing.T) {
	f := &File{PageSize: "A3", Orientation: "Landscape", Mode: "Grid"}
	s := f.BuildSession(t.TempDir())
	if s.Grid != layout.DefaultGrid() {
		t.Errorf("Grid = %+v, want default", s.Grid)
	}
	if s.Page.Width != 420 || s.Page.Height != 297 {
		t.Errorf("Page = %+v, want 420x297", s.Page)
	}
}

func TestLoadRejectsMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad"+Extension)
	if err := os.WriteFile(path, []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load(malformed) succeeded")
	}
}
