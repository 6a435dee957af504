package render

import (
	"bytes"
	goimage "image"
	"image/color"
	"image/png"
	"testing"

	imgpkg "print-composer/internal/image"
	"print-composer/internal/layout"
)

func newSession() *layout.Session {
	return layout.NewSession(layout.PageFor(layout.PageA4, layout.Portrait), layout.DefaultGrid())
}

func solidSource(w, h int, c color.RGBA) *imgpkg.Source {
	img := goimage.NewRGBA(goimage.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return imgpkg.FromImage(img)
}

var red = color.RGBA{R: 200, G: 10, B: 10, A: 255}

func TestRenderDimensions(t *testing.T) {
	s := newSession()
	out := Render(s, Options{Scale: 2})
	if out.Bounds().Dx() != 420 || out.Bounds().Dy() != 594 {
		t.Errorf("bounds = %v, want 420x594", out.Bounds())
	}
}

func TestRenderBackgroundIsPage(t *testing.T) {
	s := newSession()
	out := Render(s, Options{Scale: 1})
	if got := out.RGBAAt(5, 5); got != pageColor {
		t.Errorf("background = %v, want %v", got, pageColor)
	}
}

func TestRenderDrawsPlacedImage(t *testing.T) {
	s := newSession()
	s.AddImage(solidSource(100, 100, red))

	out := Render(s, Options{Scale: 1})

	// A square source on A4 portrait fills the width: 210x210 centered
	// vertically at y=43.5.
	center := out.RGBAAt(105, 148)
	if center.R < 150 || center.G > 60 {
		t.Errorf("image center pixel = %v, want red", center)
	}
	if got := out.RGBAAt(105, 10); got != pageColor {
		t.Errorf("pixel above image = %v, want page background", got)
	}
}

func TestRenderGridLines(t *testing.T) {
	s := newSession()
	s.SwitchMode(layout.ModeGrid)
	s.SetGrid(layout.GridSpec{Rows: 3, Cols: 4})

	out := Render(s, Options{Scale: 2})

	// First interior column boundary at 52.5 units = 105px.
	if got := out.RGBAAt(105, 50); got != gridLineColor {
		t.Errorf("column boundary pixel = %v, want grid line", got)
	}
	// First interior row boundary at 99 units = 198px.
	if got := out.RGBAAt(50, 198); got != gridLineColor {
		t.Errorf("row boundary pixel = %v, want grid line", got)
	}
}

func TestScaledModeHasNoGridLines(t *testing.T) {
	s := newSession()
	out := Render(s, Options{Scale: 2})
	if got := out.RGBAAt(105, 50); got == gridLineColor {
		t.Error("grid line drawn in Scaled mode")
	}
}

func TestGridModeClipsToCell(t *testing.T) {
	s := newSession()
	s.SwitchMode(layout.ModeGrid)
	s.SetGrid(layout.GridSpec{Rows: 3, Cols: 4})
	img := s.AddImage(solidSource(100, 100, red))
	if img == nil || img.Cell == nil {
		t.Fatal("grid placement failed")
	}

	// Drag the image well outside its cell; rendering must clip it.
	s.MoveImage(img.ID, 120, 150)
	out := Render(s, Options{Scale: 1})

	cell := s.Grid.CellRect(*img.Cell, s.Page)
	outside := out.RGBAAt(int(cell.X+cell.Width)+30, int(cell.Y+cell.Height)+30)
	if outside.R > 220 && outside.G < 60 {
		t.Errorf("image pixels escaped the cell clip: %v", outside)
	}
}

func TestRenderAnnotationBox(t *testing.T) {
	s := newSession()
	img := s.AddImage(solidSource(100, 100, red))
	s.SelectImage(img.ID)
	txt := s.AddText()
	s.EditText(txt.ID, "HELLO")

	out := Render(s, Options{Scale: 2})

	center := txt.Rect().Center()
	got := out.RGBAAt(int(center.X*2), int(center.Y*2))
	if got == pageColor {
		t.Errorf("annotation area = page background, box not drawn")
	}
}

func TestSelectionOverlayToggle(t *testing.T) {
	s := newSession()
	img := s.AddImage(solidSource(100, 100, red))
	s.SelectImage(img.ID)

	withSel := Render(s, Options{Scale: 1, ShowSelection: true})
	withoutSel := Render(s, Options{Scale: 1, ShowSelection: false})

	found := false
	b := withSel.Bounds()
	for y := b.Min.Y; y < b.Max.Y && !found; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if withSel.RGBAAt(x, y) == selectionColor {
				found = true
				break
			}
		}
	}
	if !found {
		t.Error("no selection handles drawn with ShowSelection")
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if withoutSel.RGBAAt(x, y) == selectionColor {
				t.Fatal("selection pixels present with ShowSelection off")
			}
		}
	}
}

func TestExportOversampling(t *testing.T) {
	s := newSession()
	s.AddImage(solidSource(100, 100, red))

	data, err := Export(s)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if img.Bounds().Dx() != 210*ExportOversample || img.Bounds().Dy() != 297*ExportOversample {
		t.Errorf("export bounds = %v, want %dx%d", img.Bounds(), 210*ExportOversample, 297*ExportOversample)
	}
}

func TestExportOmitsSelection(t *testing.T) {
	s := newSession()
	img := s.AddImage(solidSource(100, 100, red))
	s.SelectImage(img.ID)
	s.ClearSelection()

	data, err := Export(s)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode export: %v", err)
	}

	b := decoded.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y += 3 {
		for x := b.Min.X; x < b.Max.X; x += 3 {
			r, g, bb, _ := decoded.At(x, y).RGBA()
			if uint8(r>>8) == selectionColor.R && uint8(g>>8) == selectionColor.G && uint8(bb>>8) == selectionColor.B {
				t.Fatal("selection pixels present in export")
			}
		}
	}
}
