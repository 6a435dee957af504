package layout

import (
	"math"

	"print-composer/pkg/geometry"
)

// Mode selects how uploaded images are placed on the page.
type Mode int

const (
	// ModeScaled scales a single image to fill the whole page.
	ModeScaled Mode = iota
	// ModeGrid divides the page into cells and fits each image into one.
	ModeGrid
)

func (m Mode) String() string {
	if m == ModeGrid {
		return "Grid"
	}
	return "Scaled"
}

// ParseMode returns the mode for a name, defaulting to Scaled.
func ParseMode(name string) Mode {
	if name == "Grid" {
		return ModeGrid
	}
	return ModeScaled
}

// Resize factors applied by the zoom-in and zoom-out actions.
const (
	GrowFactor   = 1.2
	ShrinkFactor = 0.8
)

// Text annotation defaults. Height is fixed rather than stored.
const (
	TextAnchorOffset = 10.0
	DefaultTextWidth = 100.0
	TextBoxHeight    = 12.0
	PlaceholderText  = "Text"
)

// ImageSource is a decoded image handle. The model only needs its pixel
// dimensions; the render surface recovers the pixels itself.
type ImageSource interface {
	Size() geometry.Size
}

// PlacedImage is an image positioned on the page. Coordinates and sizes are
// in page units. Cell is set only for images placed in Grid mode and is
// never recomputed after creation.
type PlacedImage struct {
	ID     int
	Source ImageSource
	X      float64
	Y      float64
	Width  float64
	Height float64
	Cell   *CellRef
}

// Rect returns the image's page-unit bounding rectangle.
func (p *PlacedImage) Rect() geometry.Rect {
	return geometry.Rect{X: p.X, Y: p.Y, Width: p.Width, Height: p.Height}
}

// TextAnnotation is a movable, rotatable text label on the page.
type TextAnnotation struct {
	ID       int
	X        float64
	Y        float64
	Width    float64
	Text     string
	Rotation float64 // degrees, clockwise
}

// Rect returns the unrotated page-unit box of the annotation.
func (t *TextAnnotation) Rect() geometry.Rect {
	return geometry.Rect{X: t.X, Y: t.Y, Width: t.Width, Height: TextBoxHeight}
}

// TargetKind identifies what a context menu was opened on.
type TargetKind int

const (
	TargetImage TargetKind = iota
	TargetText
)

// MenuState records an open context menu. It is transient: any delete, zoom
// or add action closes it, as does a click on empty canvas.
type MenuState struct {
	ScreenX    float64
	ScreenY    float64
	TargetID   int
	TargetKind TargetKind
}

// Session is the complete layout state for one editing session. It is not
// safe for concurrent use; all mutation happens on the UI event loop.
type Session struct {
	Page   geometry.Size
	Mode   Mode
	Grid   GridSpec
	Images []*PlacedImage
	Texts  []*TextAnnotation

	nextID        int
	selectedImage int // id, 0 = none
	selectedText  int // id, 0 = none
	menu          *MenuState
}

// NewSession creates a session for the given page in Scaled mode.
func NewSession(page geometry.Size, grid GridSpec) *Session {
	return &Session{
		Page: page,
		Mode: ModeScaled,
		Grid: grid,
	}
}

func (s *Session) newID() int {
	s.nextID++
	return s.nextID
}

// AddImage places a newly uploaded image. Any previously uploaded images are
// cleared first: the base flow replaces rather than accumulates. In Scaled
// mode the image is scaled to fit the whole page and centered; in Grid mode
// it is scaled to fit its assigned cell and centered within it.
func (s *Session) AddImage(src ImageSource) *PlacedImage {
	if src == nil || src.Size().Width <= 0 || src.Size().Height <= 0 {
		return nil
	}

	s.Images = s.Images[:0]
	if s.selectedImage != 0 {
		s.selectedImage = 0
	}
	index := len(s.Images)

	img := &PlacedImage{ID: s.newID(), Source: src}

	var area geometry.Rect
	switch s.Mode {
	case ModeGrid:
		cell := CellFor(index, s.Grid.Cols)
		img.Cell = &cell
		area = s.Grid.CellRect(cell, s.Page)
	default:
		area = geometry.Rect{Width: s.Page.Width, Height: s.Page.Height}
	}

	scale := geometry.FitInto(src.Size(), geometry.Size{Width: area.Width, Height: area.Height})
	scaled := geometry.Size{
		Width:  src.Size().Width * scale,
		Height: src.Size().Height * scale,
	}
	rect := geometry.CenterIn(scaled, area)
	img.X, img.Y, img.Width, img.Height = rect.X, rect.Y, rect.Width, rect.Height

	s.Images = append(s.Images, img)
	s.menu = nil
	return img
}

// RestoreImage re-creates a placed image from a saved layout, keeping its
// stored geometry instead of recomputing a placement.
func (s *Session) RestoreImage(src ImageSource, rect geometry.Rect, cell *CellRef) *PlacedImage {
	img := &PlacedImage{
		ID:     s.newID(),
		Source: src,
		X:      rect.X,
		Y:      rect.Y,
		Width:  rect.Width,
		Height: rect.Height,
		Cell:   cell,
	}
	s.Images = append(s.Images, img)
	return img
}

// RestoreText re-creates a text annotation from a saved layout.
func (s *Session) RestoreText(x, y, width float64, text string, rotation float64) *TextAnnotation {
	txt := &TextAnnotation{
		ID:       s.newID(),
		X:        x,
		Y:        y,
		Width:    width,
		Text:     text,
		Rotation: rotation,
	}
	s.Texts = append(s.Texts, txt)
	return txt
}

// MoveImage replaces the image's position. No bounds clamping is applied;
// an image may be dragged off the page or outside its cell. Grid-mode cell
// clipping is a rendering effect, not a stored constraint.
func (s *Session) MoveImage(id int, x, y float64) bool {
	img := s.imageByID(id)
	if img == nil {
		return false
	}
	img.X, img.Y = x, y
	return true
}

// ResizeImage multiplies the image's width and height by factor, anchored at
// its top-left corner. Closes any open context menu.
func (s *Session) ResizeImage(id int, factor float64) bool {
	img := s.imageByID(id)
	if img == nil {
		return false
	}
	img.Width *= factor
	img.Height *= factor
	s.menu = nil
	return true
}

// DeleteImage removes the image, clearing its selection and any open menu.
func (s *Session) DeleteImage(id int) bool {
	for i, img := range s.Images {
		if img.ID == id {
			s.Images = append(s.Images[:i], s.Images[i+1:]...)
			if s.selectedImage == id {
				s.selectedImage = 0
			}
			s.menu = nil
			return true
		}
	}
	return false
}

// AddText creates a text annotation anchored near the currently selected
// image. Without an image selection this is a no-op and returns nil.
func (s *Session) AddText() *TextAnnotation {
	sel := s.SelectedImage()
	if sel == nil {
		return nil
	}
	txt := &TextAnnotation{
		ID:    s.newID(),
		X:     sel.X + TextAnchorOffset,
		Y:     sel.Y + TextAnchorOffset,
		Width: DefaultTextWidth,
		Text:  PlaceholderText,
	}
	s.Texts = append(s.Texts, txt)
	s.menu = nil
	return txt
}

// EditText replaces the annotation's content. No length validation.
func (s *Session) EditText(id int, text string) bool {
	txt := s.textByID(id)
	if txt == nil {
		return false
	}
	txt.Text = text
	return true
}

// UpdateText replaces the annotation's geometry after a move, resize or
// rotate gesture.
func (s *Session) UpdateText(id int, x, y, width, rotation float64) bool {
	txt := s.textByID(id)
	if txt == nil {
		return false
	}
	txt.X, txt.Y, txt.Width, txt.Rotation = x, y, width, rotation
	return true
}

// DeleteText removes the annotation, clearing its selection and any open menu.
func (s *Session) DeleteText(id int) bool {
	for i, txt := range s.Texts {
		if txt.ID == id {
			s.Texts = append(s.Texts[:i], s.Texts[i+1:]...)
			if s.selectedText == id {
				s.selectedText = 0
			}
			s.menu = nil
			return true
		}
	}
	return false
}

// SwitchMode sets the print mode and unconditionally resets the session:
// all images and texts are cleared and the user re-uploads.
func (s *Session) SwitchMode(mode Mode) {
	s.Mode = mode
	s.Images = nil
	s.Texts = nil
	s.selectedImage = 0
	s.selectedText = 0
	s.menu = nil
}

// SetGrid replaces the grid spec. Existing placements keep the coordinates
// and cell assignments computed at creation time.
func (s *Session) SetGrid(grid GridSpec) {
	s.Grid = grid
}

// SelectImage selects an image, clearing any text selection.
func (s *Session) SelectImage(id int) bool {
	if s.imageByID(id) == nil {
		return false
	}
	s.selectedImage = id
	s.selectedText = 0
	return true
}

// SelectText selects an annotation, clearing any image selection.
func (s *Session) SelectText(id int) bool {
	if s.textByID(id) == nil {
		return false
	}
	s.selectedText = id
	s.selectedImage = 0
	return true
}

// ClearSelection drops both selections and closes any open context menu.
// This is the empty-canvas click behaviour.
func (s *Session) ClearSelection() {
	s.selectedImage = 0
	s.selectedText = 0
	s.menu = nil
}

// SelectedImage returns the selected image, or nil.
func (s *Session) SelectedImage() *PlacedImage {
	if s.selectedImage == 0 {
		return nil
	}
	return s.imageByID(s.selectedImage)
}

// SelectedText returns the selected annotation, or nil.
func (s *Session) SelectedText() *TextAnnotation {
	if s.selectedText == 0 {
		return nil
	}
	return s.textByID(s.selectedText)
}

// HasSelection reports whether anything is selected.
func (s *Session) HasSelection() bool {
	return s.selectedImage != 0 || s.selectedText != 0
}

// OpenMenu records a context menu opened on the given target.
func (s *Session) OpenMenu(screenX, screenY float64, targetID int, kind TargetKind) {
	s.menu = &MenuState{ScreenX: screenX, ScreenY: screenY, TargetID: targetID, TargetKind: kind}
}

// Menu returns the open context menu state, or nil.
func (s *Session) Menu() *MenuState {
	return s.menu
}

// CloseMenu dismisses the context menu.
func (s *Session) CloseMenu() {
	s.menu = nil
}

// ImageAt returns the topmost image under the given page-unit point, or nil.
func (s *Session) ImageAt(p geometry.Point2D) *PlacedImage {
	for i := len(s.Images) - 1; i >= 0; i-- {
		if s.Images[i].Rect().Contains(p) {
			return s.Images[i]
		}
	}
	return nil
}

// TextAt returns the topmost annotation under the given page-unit point,
// accounting for rotation, or nil.
func (s *Session) TextAt(p geometry.Point2D) *TextAnnotation {
	for i := len(s.Texts) - 1; i >= 0; i-- {
		txt := s.Texts[i]
		rect := txt.Rect()
		if txt.Rotation != 0 {
			center := rect.Center()
			inv, ok := geometry.RotationAround(txt.Rotation*math.Pi/180, center.X, center.Y).Inverse()
			if ok {
				if rect.Contains(inv.Apply(p)) {
					return txt
				}
				continue
			}
		}
		if rect.Contains(p) {
			return txt
		}
	}
	return nil
}

func (s *Session) imageByID(id int) *PlacedImage {
	for _, img := range s.Images {
		if img.ID == id {
			return img
		}
	}
	return nil
}

func (s *Session) textByID(id int) *TextAnnotation {
	for _, txt := range s.Texts {
		if txt.ID == id {
			return txt
		}
	}
	return nil
}
