// Package render draws a layout session into a raster image. It is a passive
// consumer of the layout model: the canvas widget renders at the view zoom,
// the export path renders at a fixed oversample for printing.
package render

import (
	goimage "image"
	"image/color"
	"image/draw"
	"math"

	imgpkg "print-composer/internal/image"
	"print-composer/internal/layout"
	"print-composer/pkg/geometry"

	xdraw "golang.org/x/image/draw"
)

// Options controls a single render pass.
type Options struct {
	Scale         float64 // pixels per page unit
	ShowSelection bool    // draw the selection-handle overlay
}

var (
	pageColor       = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	gridLineColor   = color.RGBA{R: 180, G: 180, B: 180, A: 255}
	textBoxColor    = color.RGBA{R: 255, G: 255, B: 235, A: 255}
	textBorderColor = color.RGBA{R: 160, G: 160, B: 160, A: 255}
	textInkColor    = color.RGBA{R: 20, G: 20, B: 20, A: 255}
	selectionColor  = color.RGBA{R: 255, G: 200, B: 0, A: 255}
)

// Render draws the session at the given options and returns the raster.
func Render(s *layout.Session, opts Options) *goimage.RGBA {
	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}

	w := int(math.Round(s.Page.Width * scale))
	h := int(math.Round(s.Page.Height * scale))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	out := goimage.NewRGBA(goimage.Rect(0, 0, w, h))

	// Page background.
	draw.Draw(out, out.Bounds(), goimage.NewUniform(pageColor), goimage.Point{}, draw.Src)

	if s.Mode == layout.ModeGrid {
		drawGridLines(out, s, scale)
	}

	for _, placed := range s.Images {
		drawPlacedImage(out, s, placed, scale)
	}

	for _, txt := range s.Texts {
		drawAnnotation(out, txt, scale)
	}

	if opts.ShowSelection {
		drawSelectionOverlay(out, s, scale)
	}

	return out
}

// drawGridLines draws one line per interior row and column boundary.
func drawGridLines(out *goimage.RGBA, s *layout.Session, scale float64) {
	cell := s.Grid.CellSize(s.Page)
	bounds := out.Bounds()

	for col := 1; col < s.Grid.Cols; col++ {
		x := int(math.Round(float64(col) * cell.Width * scale))
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			out.SetRGBA(x, y, gridLineColor)
		}
	}
	for row := 1; row < s.Grid.Rows; row++ {
		y := int(math.Round(float64(row) * cell.Height * scale))
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			out.SetRGBA(x, y, gridLineColor)
		}
	}
}

// drawPlacedImage scales the source pixels into the image's page rectangle.
// In Grid mode the draw is clipped to the image's cell; in Scaled mode it is
// clipped only by the page itself.
func drawPlacedImage(out *goimage.RGBA, s *layout.Session, placed *layout.PlacedImage, scale float64) {
	src := sourcePixels(placed.Source)
	if src == nil {
		return
	}

	dst := pixelRect(placed.Rect(), scale)
	if dst.Empty() {
		return
	}

	target := out
	if s.Mode == layout.ModeGrid && placed.Cell != nil {
		clip := pixelRect(s.Grid.CellRect(*placed.Cell, s.Page), scale)
		target = out.SubImage(clip.Intersect(out.Bounds())).(*goimage.RGBA)
	}

	xdraw.CatmullRom.Scale(target, dst, src, src.Bounds(), xdraw.Over, nil)
}

// sourcePixels recovers the decoded pixels behind a layout image source.
func sourcePixels(src layout.ImageSource) goimage.Image {
	if s, ok := src.(*imgpkg.Source); ok {
		return s.Image
	}
	return nil
}

// pixelRect converts a page-unit rectangle to device pixels.
func pixelRect(r geometry.Rect, scale float64) goimage.Rectangle {
	scaled := r.Scaled(scale)
	return goimage.Rect(
		int(math.Round(scaled.X)),
		int(math.Round(scaled.Y)),
		int(math.Round(scaled.X+scaled.Width)),
		int(math.Round(scaled.Y+scaled.Height)),
	)
}

// drawSelectionOverlay draws a dashed rectangle with corner handles around
// whichever entity is selected.
func drawSelectionOverlay(out *goimage.RGBA, s *layout.Session, scale float64) {
	var rect geometry.Rect
	if img := s.SelectedImage(); img != nil {
		rect = img.Rect()
	} else if txt := s.SelectedText(); txt != nil {
		rect = txt.Rect()
	} else {
		return
	}

	px := pixelRect(rect, scale)
	drawDashedRect(out, px)
	handle := handleSize(scale)
	for _, p := range []goimage.Point{
		{px.Min.X, px.Min.Y},
		{px.Max.X, px.Min.Y},
		{px.Min.X, px.Max.Y},
		{px.Max.X, px.Max.Y},
	} {
		drawHandle(out, p, handle)
	}
}

func handleSize(scale float64) int {
	size := int(math.Round(2 * scale))
	if size < 4 {
		size = 4
	}
	return size
}

// drawDashedRect draws a dashed outline, alternating pixels on and off.
func drawDashedRect(out *goimage.RGBA, r goimage.Rectangle) {
	bounds := out.Bounds()
	for x := r.Min.X; x <= r.Max.X; x++ {
		if (x+r.Min.Y)%6 < 3 && inBounds(bounds, x, r.Min.Y) {
			out.SetRGBA(x, r.Min.Y, selectionColor)
		}
		if (x+r.Max.Y)%6 < 3 && inBounds(bounds, x, r.Max.Y) {
			out.SetRGBA(x, r.Max.Y, selectionColor)
		}
	}
	for y := r.Min.Y; y <= r.Max.Y; y++ {
		if (r.Min.X+y)%6 < 3 && inBounds(bounds, r.Min.X, y) {
			out.SetRGBA(r.Min.X, y, selectionColor)
		}
		if (r.Max.X+y)%6 < 3 && inBounds(bounds, r.Max.X, y) {
			out.SetRGBA(r.Max.X, y, selectionColor)
		}
	}
}

func drawHandle(out *goimage.RGBA, center goimage.Point, size int) {
	half := size / 2
	bounds := out.Bounds()
	for y := center.Y - half; y <= center.Y+half; y++ {
		for x := center.X - half; x <= center.X+half; x++ {
			if inBounds(bounds, x, y) {
				out.SetRGBA(x, y, selectionColor)
			}
		}
	}
}

func inBounds(b goimage.Rectangle, x, y int) bool {
	return x >= b.Min.X && x < b.Max.X && y >= b.Min.Y && y < b.Max.Y
}
