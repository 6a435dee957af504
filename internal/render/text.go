package render

import (
	goimage "image"
	"image/draw"
	"math"

	"print-composer/internal/layout"
	"print-composer/pkg/geometry"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// drawAnnotation rasterises a text annotation: an editable-looking background
// box with the content drawn over it, composited onto the page with the
// annotation's rotation applied around the box center.
func drawAnnotation(out *goimage.RGBA, txt *layout.TextAnnotation, scale float64) {
	box := renderTextBox(txt, scale)
	if box == nil {
		return
	}

	px := pixelRect(txt.Rect(), scale)
	if txt.Rotation == 0 {
		draw.Draw(out, px, box, goimage.Point{}, draw.Over)
		return
	}
	compositeRotated(out, box, px, txt.Rotation)
}

// renderTextBox draws the box background, border, and content at device
// resolution, unrotated.
func renderTextBox(txt *layout.TextAnnotation, scale float64) *goimage.RGBA {
	w := int(math.Round(txt.Width * scale))
	h := int(math.Round(layout.TextBoxHeight * scale))
	if w < 1 || h < 1 {
		return nil
	}

	box := goimage.NewRGBA(goimage.Rect(0, 0, w, h))
	draw.Draw(box, box.Bounds(), goimage.NewUniform(textBoxColor), goimage.Point{}, draw.Src)

	// 1px border.
	for x := 0; x < w; x++ {
		box.SetRGBA(x, 0, textBorderColor)
		box.SetRGBA(x, h-1, textBorderColor)
	}
	for y := 0; y < h; y++ {
		box.SetRGBA(0, y, textBorderColor)
		box.SetRGBA(w-1, y, textBorderColor)
	}

	if txt.Text != "" {
		drawBoxText(box, txt.Text)
	}
	return box
}

// drawBoxText renders the content with the basic bitmap face and scales it to
// the box height, left-aligned with a small margin.
func drawBoxText(box *goimage.RGBA, text string) {
	face := basicfont.Face7x13
	textW := font.MeasureString(face, text).Ceil()
	if textW < 1 {
		return
	}
	lineH := face.Metrics().Height.Ceil()

	glyphs := goimage.NewRGBA(goimage.Rect(0, 0, textW, lineH))
	drawer := font.Drawer{
		Dst:  glyphs,
		Src:  goimage.NewUniform(textInkColor),
		Face: face,
		Dot:  fixed.P(0, face.Metrics().Ascent.Ceil()),
	}
	drawer.DrawString(text)

	// Fit the glyph strip to 60% of the box height, clipped to its width.
	boxH := box.Bounds().Dy()
	targetH := int(float64(boxH) * 0.6)
	if targetH < lineH {
		targetH = lineH
	}
	targetW := textW * targetH / lineH
	margin := boxH / 5

	dst := goimage.Rect(margin, (boxH-targetH)/2, margin+targetW, (boxH-targetH)/2+targetH)
	xdraw.ApproxBiLinear.Scale(box, dst, glyphs, glyphs.Bounds(), xdraw.Over, nil)
}

// compositeRotated draws src into out at the position given by px, rotated by
// the given angle in degrees around the rectangle center. Output pixels are
// inverse-mapped into source space and sampled nearest-neighbour.
func compositeRotated(out *goimage.RGBA, src *goimage.RGBA, px goimage.Rectangle, degrees float64) {
	radians := degrees * math.Pi / 180
	cx := float64(px.Min.X+px.Max.X) / 2
	cy := float64(px.Min.Y+px.Max.Y) / 2

	inv, ok := geometry.RotationAround(radians, cx, cy).Inverse()
	if !ok {
		return
	}

	// Conservative bounding box of the rotated rectangle.
	halfW := float64(px.Dx()) / 2
	halfH := float64(px.Dy()) / 2
	radius := math.Sqrt(halfW*halfW + halfH*halfH)
	minX := int(math.Floor(cx - radius))
	maxX := int(math.Ceil(cx + radius))
	minY := int(math.Floor(cy - radius))
	maxY := int(math.Ceil(cy + radius))

	bounds := out.Bounds()
	srcBounds := src.Bounds()
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if !inBounds(bounds, x, y) {
				continue
			}
			p := inv.Apply(geometry.Point2D{X: float64(x), Y: float64(y)})
			sx := int(math.Floor(p.X)) - px.Min.X + srcBounds.Min.X
			sy := int(math.Floor(p.Y)) - px.Min.Y + srcBounds.Min.Y
			if sx < srcBounds.Min.X || sx >= srcBounds.Max.X ||
				sy < srcBounds.Min.Y || sy >= srcBounds.Max.Y {
				continue
			}
			out.SetRGBA(x, y, src.RGBAAt(sx, sy))
		}
	}
}
