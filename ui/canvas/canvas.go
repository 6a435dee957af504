// Package canvas provides the page editing surface with zoom, selection,
// drag and context menu interaction.
package canvas

import (
	"image"
	"image/color"
	"image/draw"

	"print-composer/internal/app"
	"print-composer/internal/layout"
	"print-composer/internal/render"
	"print-composer/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const (
	minZoom  = 0.5
	maxZoom  = 12.0
	zoomStep = 1.25
)

// workspaceGray fills the area around the rendered page.
var workspaceGray = image.NewUniform(color.Gray{Y: 70})

// PageCanvas displays the current layout session and routes pointer
// interaction back into it. Zoom here is a view concern, in pixels per
// page unit; it never changes placement geometry.
type PageCanvas struct {
	widget.BaseWidget

	state *app.State

	raster *fynecanvas.Raster
	zoom   float64

	// Drag state. The target is latched on the first drag event and the
	// grab offset keeps the item from jumping under the pointer.
	dragging bool
	dragKind layout.TargetKind
	dragID   int
	grabDX   float64
	grabDY   float64

	scroll   *zoomScroll
	content  *pageContent
	pageSize fyne.Size

	fitToWindow    bool
	lastScrollSize fyne.Size

	onZoomChange  func(zoom float64)
	onContextMenu func(kind layout.TargetKind, id int, pos fyne.Position)
}

// zoomScroll wraps a scroll container but intercepts the wheel for zoom.
type zoomScroll struct {
	widget.BaseWidget
	scroll *container.Scroll
	canvas *PageCanvas
}

func newZoomScroll(content fyne.CanvasObject, canvas *PageCanvas) *zoomScroll {
	scroll := container.NewScroll(content)
	scroll.Direction = container.ScrollBoth
	zs := &zoomScroll{scroll: scroll, canvas: canvas}
	zs.ExtendBaseWidget(zs)
	return zs
}

func (zs *zoomScroll) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		zs.canvas.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		zs.canvas.ZoomOut()
	}
}

func (zs *zoomScroll) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(zs.scroll)
}

// Offset returns the scroll container's current offset.
func (zs *zoomScroll) Offset() fyne.Position {
	return zs.scroll.Offset
}

func (zs *zoomScroll) Size() fyne.Size {
	return zs.scroll.Size()
}

func (zs *zoomScroll) Refresh() {
	zs.scroll.Refresh()
	zs.BaseWidget.Refresh()
}

func (zs *zoomScroll) Resize(size fyne.Size) {
	zs.scroll.Resize(size)
	zs.BaseWidget.Resize(size)
}

// pageContent wraps the raster to handle mouse events.
type pageContent struct {
	widget.BaseWidget
	canvas *PageCanvas
	raster *fynecanvas.Raster
}

func newPageContent(pc *PageCanvas, raster *fynecanvas.Raster) *pageContent {
	content := &pageContent{canvas: pc, raster: raster}
	content.ExtendBaseWidget(content)
	return content
}

func (c *pageContent) CreateRenderer() fyne.WidgetRenderer {
	return &pageContentRenderer{content: c}
}

func (c *pageContent) MinSize() fyne.Size {
	return c.raster.MinSize()
}

// pagePoint converts a pointer event position to page units.
func (c *pageContent) pagePoint(pos fyne.Position) geometry.Point2D {
	offset := c.canvas.scroll.Offset()
	return geometry.Point2D{
		X: float64(pos.X+offset.X) / c.canvas.zoom,
		Y: float64(pos.Y+offset.Y) / c.canvas.zoom,
	}
}

func (c *pageContent) inBounds(pos fyne.Position) bool {
	// Workaround for Fyne bug: reject clicks outside widget bounds.
	size := c.Size()
	return pos.X >= 0 && pos.Y >= 0 && pos.X <= size.Width && pos.Y <= size.Height
}

// Tapped selects the topmost item under the pointer, or clears the
// selection and any open menu on empty page.
func (c *pageContent) Tapped(ev *fyne.PointEvent) {
	if !c.inBounds(ev.Position) {
		return
	}
	session := c.canvas.state.Session
	p := c.pagePoint(ev.Position)

	// Annotations draw above images, so they win the hit test.
	if txt := session.TextAt(p); txt != nil {
		session.SelectText(txt.ID)
	} else if img := session.ImageAt(p); img != nil {
		session.SelectImage(img.ID)
	} else {
		session.ClearSelection()
	}
	c.canvas.state.SelectionChanged()
	c.canvas.Refresh()
}

// TappedSecondary opens the context menu on the item under the pointer.
func (c *pageContent) TappedSecondary(ev *fyne.PointEvent) {
	if !c.inBounds(ev.Position) {
		return
	}
	session := c.canvas.state.Session
	p := c.pagePoint(ev.Position)

	var kind layout.TargetKind
	var id int
	if txt := session.TextAt(p); txt != nil {
		session.SelectText(txt.ID)
		kind, id = layout.TargetText, txt.ID
	} else if img := session.ImageAt(p); img != nil {
		session.SelectImage(img.ID)
		kind, id = layout.TargetImage, img.ID
	} else {
		session.ClearSelection()
		c.canvas.state.SelectionChanged()
		c.canvas.Refresh()
		return
	}

	session.OpenMenu(float64(ev.AbsolutePosition.X), float64(ev.AbsolutePosition.Y), id, kind)
	c.canvas.state.SelectionChanged()
	c.canvas.Refresh()

	if c.canvas.onContextMenu != nil {
		c.canvas.onContextMenu(kind, id, ev.AbsolutePosition)
	}
}

// Dragged moves the item grabbed at drag start. Positions are free: items
// may leave the page or their grid cell.
func (c *pageContent) Dragged(ev *fyne.DragEvent) {
	session := c.canvas.state.Session
	p := c.pagePoint(ev.Position)

	if !c.canvas.dragging {
		if txt := session.TextAt(p); txt != nil {
			c.canvas.dragKind = layout.TargetText
			c.canvas.dragID = txt.ID
			c.canvas.grabDX = p.X - txt.X
			c.canvas.grabDY = p.Y - txt.Y
			session.SelectText(txt.ID)
		} else if img := session.ImageAt(p); img != nil {
			c.canvas.dragKind = layout.TargetImage
			c.canvas.dragID = img.ID
			c.canvas.grabDX = p.X - img.X
			c.canvas.grabDY = p.Y - img.Y
			session.SelectImage(img.ID)
		} else {
			return
		}
		c.canvas.dragging = true
		c.canvas.state.SelectionChanged()
	}

	x := p.X - c.canvas.grabDX
	y := p.Y - c.canvas.grabDY
	switch c.canvas.dragKind {
	case layout.TargetText:
		if txt := session.SelectedText(); txt != nil && txt.ID == c.canvas.dragID {
			session.UpdateText(txt.ID, x, y, txt.Width, txt.Rotation)
		}
	default:
		session.MoveImage(c.canvas.dragID, x, y)
	}
	c.canvas.Refresh()
}

func (c *pageContent) DragEnd() {
	if !c.canvas.dragging {
		return
	}
	c.canvas.dragging = false
	c.canvas.state.LayoutChanged()
}

func (c *pageContent) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		c.canvas.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		c.canvas.ZoomOut()
	}
}

type pageContentRenderer struct {
	content *pageContent
}

func (r *pageContentRenderer) Layout(size fyne.Size) {
	r.content.raster.Resize(size)
}

func (r *pageContentRenderer) MinSize() fyne.Size {
	return r.content.raster.MinSize()
}

func (r *pageContentRenderer) Refresh() {
	r.content.raster.Refresh()
}

func (r *pageContentRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.content.raster}
}

func (r *pageContentRenderer) Destroy() {}

// NewPageCanvas creates the editing surface bound to the given state.
func NewPageCanvas(state *app.State) *PageCanvas {
	pc := &PageCanvas{
		state: state,
		zoom:  2.0,
	}

	pc.raster = fynecanvas.NewRaster(pc.draw)
	pc.raster.ScaleMode = fynecanvas.ImageScalePixels
	pc.content = newPageContent(pc, pc.raster)
	pc.scroll = newZoomScroll(pc.content, pc)

	pc.ExtendBaseWidget(pc)
	pc.updateContentSize()

	state.On(app.EventLayoutChanged, func(interface{}) { pc.updateContentSize() })
	state.On(app.EventPageChanged, func(interface{}) { pc.updateContentSize() })
	return pc
}

// Container returns the canvas container for embedding in layouts.
func (pc *PageCanvas) Container() fyne.CanvasObject {
	return pc.scroll
}

// SetZoom sets the view zoom in pixels per page unit.
func (pc *PageCanvas) SetZoom(zoom float64) {
	if zoom < minZoom {
		zoom = minZoom
	}
	if zoom > maxZoom {
		zoom = maxZoom
	}
	pc.zoom = zoom
	pc.updateContentSize()

	if pc.onZoomChange != nil {
		pc.onZoomChange(zoom)
	}
}

// Zoom returns the current view zoom.
func (pc *PageCanvas) Zoom() float64 {
	return pc.zoom
}

// ZoomIn increases the view zoom.
func (pc *PageCanvas) ZoomIn() {
	pc.SetZoom(pc.zoom * zoomStep)
}

// ZoomOut decreases the view zoom.
func (pc *PageCanvas) ZoomOut() {
	pc.SetZoom(pc.zoom / zoomStep)
}

// FitToWindow adjusts the view zoom so the whole page is visible.
func (pc *PageCanvas) FitToWindow() {
	page := pc.state.Session.Page
	if page.Width <= 0 || page.Height <= 0 {
		return
	}
	viewSize := pc.scroll.Size()
	if viewSize.Width <= 0 || viewSize.Height <= 0 {
		return
	}

	zoomX := float64(viewSize.Width) / page.Width
	zoomY := float64(viewSize.Height) / page.Height
	zoom := zoomX
	if zoomY < zoomX {
		zoom = zoomY
	}
	pc.SetZoom(zoom * 0.95) // Leave a small margin
}

// SetFitToWindow enables or disables auto-fit on resize.
func (pc *PageCanvas) SetFitToWindow(fit bool) {
	pc.fitToWindow = fit
	if fit {
		pc.FitToWindow()
	}
}

// FitEnabled reports whether auto-fit is active.
func (pc *PageCanvas) FitEnabled() bool {
	return pc.fitToWindow
}

// CheckResize auto-fits after a viewport resize when enabled.
func (pc *PageCanvas) CheckResize(size fyne.Size) {
	if !pc.fitToWindow {
		return
	}
	if size.Width > 0 && size.Height > 0 && size != pc.lastScrollSize {
		pc.lastScrollSize = size
		pc.FitToWindow()
	}
}

// OnZoomChange sets a callback for view zoom changes.
func (pc *PageCanvas) OnZoomChange(callback func(zoom float64)) {
	pc.onZoomChange = callback
}

// OnContextMenu sets a callback invoked after a right-click lands on an
// item. The position is in absolute window coordinates for popup
// placement.
func (pc *PageCanvas) OnContextMenu(callback func(kind layout.TargetKind, id int, pos fyne.Position)) {
	pc.onContextMenu = callback
}

// Refresh redraws the page.
func (pc *PageCanvas) Refresh() {
	pc.raster.Refresh()
}

func (pc *PageCanvas) updateContentSize() {
	page := pc.state.Session.Page
	pc.pageSize = fyne.NewSize(
		float32(page.Width*pc.zoom),
		float32(page.Height*pc.zoom),
	)

	pc.raster.SetMinSize(pc.pageSize)
	pc.raster.Resize(pc.pageSize)
	if pc.content != nil {
		pc.content.Resize(pc.pageSize)
		pc.content.Refresh()
	}
	pc.raster.Refresh()
	if pc.scroll != nil {
		pc.scroll.Refresh()
	}
}

// draw is the raster drawing function.
func (pc *PageCanvas) draw(w, h int) image.Image {
	output := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(output, output.Bounds(), workspaceGray, image.Point{}, draw.Src)

	page := render.Render(pc.state.Session, render.Options{
		Scale:         pc.zoom,
		ShowSelection: true,
	})
	draw.Draw(output, page.Bounds(), page, image.Point{}, draw.Src)
	return output
}

// CreateRenderer implements fyne.Widget.
func (pc *PageCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &pageCanvasRenderer{canvas: pc}
}

type pageCanvasRenderer struct {
	canvas *PageCanvas
}

func (r *pageCanvasRenderer) Layout(size fyne.Size) {
	if r.canvas.scroll != nil {
		r.canvas.scroll.Resize(size)
	}
	r.canvas.CheckResize(size)
}

func (r *pageCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(100, 100)
}

func (r *pageCanvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *pageCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.scroll}
}

func (r *pageCanvasRenderer) Destroy() {}
