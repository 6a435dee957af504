// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"log"
	"path/filepath"
	"strconv"

	"print-composer/internal/app"
	"print-composer/internal/clipboard"
	imgpkg "print-composer/internal/image"
	"print-composer/internal/layout"
	"print-composer/internal/notify"
	"print-composer/internal/ocr"
	"print-composer/internal/printer"
	"print-composer/internal/render"
	"print-composer/internal/version"
	"print-composer/ui/canvas"
	"print-composer/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app    fyne.App
	state  *app.State
	prefs  *prefs.Prefs
	canvas *canvas.PageCanvas

	statusBar *widget.Label
	rowsEntry *widget.Entry
	colsEntry *widget.Entry

	// Lazily created; stays nil when Tesseract is unavailable.
	ocrEngine *ocr.Engine
	ocrFailed bool

	fitToWindowItem *fyne.MenuItem
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("Print Composer")

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		prefs:  p,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.restoreFromPrefs()

	win.SetCloseIntercept(func() {
		mw.persistPrefs()
		win.Close()
	})

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewPageCanvas(mw.state)
	mw.canvas.OnContextMenu(mw.showContextMenu)

	mw.statusBar = widget.NewLabel("Ready")

	toolbar := mw.createToolbar()

	content := container.NewBorder(
		toolbar,                           // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		mw.canvas.Container(),             // center
	)

	mw.SetContent(content)
	mw.Resize(fyne.NewSize(
		float32(mw.prefs.Float(prefs.KeyWindowWidth, 1000)),
		float32(mw.prefs.Float(prefs.KeyWindowHeight, 780)),
	))
}

// createToolbar creates the toolbar with zoom and grid controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	zoomOutBtn := widget.NewButton("-", mw.onZoomOut)
	zoomInBtn := widget.NewButton("+", mw.onZoomIn)
	fitBtn := widget.NewButton("Fit", mw.onToggleFitToWindow)

	mw.rowsEntry = widget.NewEntry()
	mw.rowsEntry.SetText(strconv.Itoa(mw.state.Session.Grid.Rows))
	mw.colsEntry = widget.NewEntry()
	mw.colsEntry.SetText(strconv.Itoa(mw.state.Session.Grid.Cols))
	applyBtn := widget.NewButton("Apply Grid", mw.onApplyGrid)

	return container.NewHBox(
		widget.NewLabel("Zoom:"),
		zoomOutBtn,
		zoomInBtn,
		fitBtn,
		widget.NewSeparator(),
		widget.NewLabel("Rows:"),
		mw.rowsEntry,
		widget.NewLabel("Cols:"),
		mw.colsEntry,
		applyBtn,
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Layout", mw.onNewLayout),
		fyne.NewMenuItem("Open Layout...", mw.onOpenLayout),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Upload Image...", mw.onUploadImage),
		fyne.NewMenuItem("Paste Image", mw.onPasteImage),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Layout", mw.onSaveLayout),
		fyne.NewMenuItem("Save Layout As...", mw.onSaveLayoutAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Print", mw.onPrint),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			mw.persistPrefs()
			mw.app.Quit()
		}),
	)

	pageMenu := fyne.NewMenu("Page",
		fyne.NewMenuItem("A4 Portrait", func() { mw.onSelectPage(layout.PageA4, layout.Portrait) }),
		fyne.NewMenuItem("A4 Landscape", func() { mw.onSelectPage(layout.PageA4, layout.Landscape) }),
		fyne.NewMenuItem("A3 Portrait", func() { mw.onSelectPage(layout.PageA3, layout.Portrait) }),
		fyne.NewMenuItem("A3 Landscape", func() { mw.onSelectPage(layout.PageA3, layout.Landscape) }),
	)

	modeMenu := fyne.NewMenu("Mode",
		fyne.NewMenuItem("Scaled", func() { mw.onSelectMode(layout.ModeScaled) }),
		fyne.NewMenuItem("Grid", func() { mw.onSelectMode(layout.ModeGrid) }),
	)

	mw.fitToWindowItem = fyne.NewMenuItem("  Fit to Window", mw.onToggleFitToWindow)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.onZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.onZoomOut),
		mw.fitToWindowItem,
		fyne.NewMenuItem("Actual Size", mw.onActualSize),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mainMenu := fyne.NewMainMenu(fileMenu, pageMenu, modeMenu, viewMenu, helpMenu)
	mw.SetMainMenu(mainMenu)
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventLayoutChanged, func(interface{}) {
		mw.canvas.Refresh()
	})

	mw.state.On(app.EventImageLoaded, func(interface{}) {
		mw.updateStatus("Image placed")
	})

	mw.state.On(app.EventLayoutLoaded, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.SetTitle("Print Composer - " + filepath.Base(path))
			mw.updateStatus("Layout loaded: " + path)
		}
		mw.rowsEntry.SetText(strconv.Itoa(mw.state.Session.Grid.Rows))
		mw.colsEntry.SetText(strconv.Itoa(mw.state.Session.Grid.Cols))
	})

	mw.state.On(app.EventLayoutSaved, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.SetTitle("Print Composer - " + filepath.Base(path))
			mw.updateStatus("Layout saved: " + path)
		}
	})

	mw.state.On(app.EventModified, func(data interface{}) {
		if modified, ok := data.(bool); ok && modified {
			title := mw.Title()
			if len(title) > 0 && title[len(title)-1] != '*' {
				mw.SetTitle(title + " *")
			}
		}
	})

	mw.state.On(app.EventModeChanged, func(data interface{}) {
		if mode, ok := data.(layout.Mode); ok {
			mw.updateStatus("Mode: " + mode.String())
		}
	})

	mw.state.On(app.EventPrinted, func(interface{}) {
		mw.updateStatus("Page sent to printer")
	})
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// restoreFromPrefs applies persisted page, mode and grid settings.
func (mw *MainWindow) restoreFromPrefs() {
	size := layout.ParsePageSize(mw.prefs.String(prefs.KeyPageSize, layout.PageA4.String()))
	orient := layout.ParseOrientation(mw.prefs.String(prefs.KeyOrientation, layout.Portrait.String()))
	if size != mw.state.PageSize || orient != mw.state.Orientation {
		mw.state.SetPage(size, orient)
	}

	mode := layout.ParseMode(mw.prefs.String(prefs.KeyMode, layout.ModeScaled.String()))
	if mode != mw.state.Session.Mode {
		mw.state.SwitchMode(mode)
	}

	rows := mw.prefs.Int(prefs.KeyGridRows, layout.DefaultGridRows)
	cols := mw.prefs.Int(prefs.KeyGridCols, layout.DefaultGridCols)
	mw.state.SetGrid(layout.GridSpec{Rows: rows, Cols: cols})
	mw.rowsEntry.SetText(strconv.Itoa(rows))
	mw.colsEntry.SetText(strconv.Itoa(cols))

	if zoom := mw.prefs.Float(prefs.KeyViewZoom, 0); zoom > 0 {
		mw.canvas.SetZoom(zoom)
	}
	mw.state.SetModified(false) // Restore is not an edit
}

// persistPrefs stores the current settings for the next session.
func (mw *MainWindow) persistPrefs() {
	mw.prefs.SetString(prefs.KeyPageSize, mw.state.PageSize.String())
	mw.prefs.SetString(prefs.KeyOrientation, mw.state.Orientation.String())
	mw.prefs.SetString(prefs.KeyMode, mw.state.Session.Mode.String())
	mw.prefs.SetInt(prefs.KeyGridRows, mw.state.Session.Grid.Rows)
	mw.prefs.SetInt(prefs.KeyGridCols, mw.state.Session.Grid.Cols)
	mw.prefs.SetFloat(prefs.KeyViewZoom, mw.canvas.Zoom())
	size := mw.Canvas().Size()
	mw.prefs.SetFloat(prefs.KeyWindowWidth, float64(size.Width))
	mw.prefs.SetFloat(prefs.KeyWindowHeight, float64(size.Height))
	if err := mw.prefs.Save(); err != nil {
		log.Printf("Failed to save preferences: %v", err)
	}
}

// lastDir returns the preference directory for a key as a ListableURI.
func (mw *MainWindow) lastDir(key string) fyne.ListableURI {
	path := mw.prefs.String(key, "")
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

func (mw *MainWindow) saveLastDir(key, filePath string) {
	mw.prefs.SetString(key, filepath.Dir(filePath))
}

// Menu action handlers

func (mw *MainWindow) onNewLayout() {
	mw.state.SetPage(mw.state.PageSize, mw.state.Orientation)
	mw.state.LayoutPath = ""
	mw.state.SetModified(false)
	mw.SetTitle("Print Composer")
	mw.updateStatus("New layout")
}

func (mw *MainWindow) onOpenLayout() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(prefs.KeyLastLayoutDir, path)
		if err := mw.state.LoadLayout(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".playout"}))
	if loc := mw.lastDir(prefs.KeyLastLayoutDir); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onUploadImage() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(prefs.KeyLastImageDir, path)
		if err := mw.state.LoadImage(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(imgpkg.SupportedFormats()))
	if loc := mw.lastDir(prefs.KeyLastImageDir); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onPasteImage() {
	img, err := clipboard.ReadImage()
	if err != nil {
		mw.updateStatus("Paste failed: " + err.Error())
		return
	}
	mw.state.PlaceImage(imgpkg.FromImage(img))
}

func (mw *MainWindow) onSaveLayout() {
	if mw.state.LayoutPath == "" {
		mw.onSaveLayoutAs()
		return
	}
	if err := mw.state.SaveLayout(mw.state.LayoutPath); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onSaveLayoutAs() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != ".playout" {
			path += ".playout"
		}
		mw.saveLastDir(prefs.KeyLastLayoutDir, path)
		if err := mw.state.SaveLayout(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFileName("layout.playout")
	if loc := mw.lastDir(prefs.KeyLastLayoutDir); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

// onPrint renders the page at print resolution and hands it to the spooler.
// The selection is cleared and the canvas redrawn first so overlay state
// cannot leak into the output.
func (mw *MainWindow) onPrint() {
	mw.state.Session.ClearSelection()
	mw.state.SelectionChanged()
	mw.canvas.Refresh()

	data, err := render.Export(mw.state.Session)
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	if err := printer.Print(data); err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.state.Emit(app.EventPrinted, nil)
	notify.Send("Print Composer", "Page sent to printer")
}

func (mw *MainWindow) onSelectPage(size layout.PageSize, orient layout.Orientation) {
	mw.state.SetPage(size, orient)
	mw.updateStatus(fmt.Sprintf("Page: %s %s", size, orient))
}

func (mw *MainWindow) onSelectMode(mode layout.Mode) {
	mw.state.SwitchMode(mode)
}

// onApplyGrid reads the rows/cols entries, falling back to the defaults
// when either fails to parse or is not positive.
func (mw *MainWindow) onApplyGrid() {
	rows, err := strconv.Atoi(mw.rowsEntry.Text)
	if err != nil || rows < 1 {
		rows = layout.DefaultGridRows
		mw.rowsEntry.SetText(strconv.Itoa(rows))
	}
	cols, err := strconv.Atoi(mw.colsEntry.Text)
	if err != nil || cols < 1 {
		cols = layout.DefaultGridCols
		mw.colsEntry.SetText(strconv.Itoa(cols))
	}
	mw.state.SetGrid(layout.GridSpec{Rows: rows, Cols: cols})
	mw.updateStatus(fmt.Sprintf("Grid: %d x %d", rows, cols))
}

func (mw *MainWindow) onZoomIn() {
	mw.disableFitToWindow()
	mw.canvas.ZoomIn()
}

func (mw *MainWindow) onZoomOut() {
	mw.disableFitToWindow()
	mw.canvas.ZoomOut()
}

func (mw *MainWindow) onToggleFitToWindow() {
	enabled := !mw.canvas.FitEnabled()
	mw.canvas.SetFitToWindow(enabled)

	if enabled {
		mw.fitToWindowItem.Label = "✓ Fit to Window"
	} else {
		mw.fitToWindowItem.Label = "  Fit to Window"
	}
}

func (mw *MainWindow) onActualSize() {
	mw.disableFitToWindow()
	mw.canvas.SetZoom(2.0)
}

func (mw *MainWindow) disableFitToWindow() {
	mw.canvas.SetFitToWindow(false)
	mw.fitToWindowItem.Label = "  Fit to Window"
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Print Composer",
		fmt.Sprintf("Print Composer v%s\n\n"+
			"Arrange images and labels on a page for printing.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}

// Context menu

// showContextMenu pops up the item menu at the click position.
func (mw *MainWindow) showContextMenu(kind layout.TargetKind, id int, pos fyne.Position) {
	var items []*fyne.MenuItem
	switch kind {
	case layout.TargetImage:
		items = []*fyne.MenuItem{
			fyne.NewMenuItem("Zoom In", func() { mw.resizeImage(id, layout.GrowFactor) }),
			fyne.NewMenuItem("Zoom Out", func() { mw.resizeImage(id, layout.ShrinkFactor) }),
			fyne.NewMenuItemSeparator(),
			fyne.NewMenuItem("Add Text", func() { mw.addText() }),
			fyne.NewMenuItem("Suggest Label", func() { mw.suggestLabel(id) }),
			fyne.NewMenuItemSeparator(),
			fyne.NewMenuItem("Delete", func() { mw.deleteImage(id) }),
		}
	case layout.TargetText:
		items = []*fyne.MenuItem{
			fyne.NewMenuItem("Edit Text...", func() { mw.editText(id) }),
			fyne.NewMenuItemSeparator(),
			fyne.NewMenuItem("Rotate Right", func() { mw.rotateText(id, 15) }),
			fyne.NewMenuItem("Rotate Left", func() { mw.rotateText(id, -15) }),
			fyne.NewMenuItemSeparator(),
			fyne.NewMenuItem("Delete", func() { mw.deleteText(id) }),
		}
	}

	menu := widget.NewPopUpMenu(fyne.NewMenu("", items...), mw.Canvas())
	menu.ShowAtPosition(pos)
}

func (mw *MainWindow) resizeImage(id int, factor float64) {
	if mw.state.Session.ResizeImage(id, factor) {
		mw.state.LayoutChanged()
	}
}

func (mw *MainWindow) deleteImage(id int) {
	if mw.state.Session.DeleteImage(id) {
		mw.state.SelectionChanged()
		mw.state.LayoutChanged()
	}
}

func (mw *MainWindow) addText() {
	if mw.state.Session.AddText() != nil {
		mw.state.LayoutChanged()
	}
}

func (mw *MainWindow) deleteText(id int) {
	if mw.state.Session.DeleteText(id) {
		mw.state.SelectionChanged()
		mw.state.LayoutChanged()
	}
}

func (mw *MainWindow) rotateText(id int, degrees float64) {
	session := mw.state.Session
	for _, txt := range session.Texts {
		if txt.ID == id {
			session.UpdateText(id, txt.X, txt.Y, txt.Width, txt.Rotation+degrees)
			session.CloseMenu()
			mw.state.LayoutChanged()
			return
		}
	}
}

func (mw *MainWindow) editText(id int) {
	session := mw.state.Session
	var current string
	found := false
	for _, txt := range session.Texts {
		if txt.ID == id {
			current = txt.Text
			found = true
			break
		}
	}
	if !found {
		return
	}

	entry := widget.NewEntry()
	entry.SetText(current)
	dialog.ShowCustomConfirm("Edit Text", "OK", "Cancel", entry, func(ok bool) {
		if !ok {
			return
		}
		if session.EditText(id, entry.Text) {
			session.CloseMenu()
			mw.state.LayoutChanged()
		}
	}, mw.Window)
}

// suggestLabel runs OCR over the image and fills a new annotation with the
// recognized text. Degrades to a status message when OCR is unavailable.
func (mw *MainWindow) suggestLabel(id int) {
	session := mw.state.Session
	var src *imgpkg.Source
	for _, img := range session.Images {
		if img.ID == id {
			src, _ = img.Source.(*imgpkg.Source)
			break
		}
	}
	if src == nil || src.Image == nil {
		return
	}

	engine := mw.engine()
	if engine == nil {
		mw.updateStatus("Label suggestion unavailable")
		return
	}

	text, err := engine.SuggestImageLabel(src.Image)
	if err != nil || text == "" {
		mw.updateStatus("No label recognized")
		session.CloseMenu()
		return
	}

	txt := session.AddText()
	if txt == nil {
		return
	}
	session.EditText(txt.ID, text)
	mw.state.LayoutChanged()
	mw.updateStatus("Suggested label: " + text)
}

// engine returns the OCR engine, creating it on first use.
func (mw *MainWindow) engine() *ocr.Engine {
	if mw.ocrEngine == nil && !mw.ocrFailed {
		engine, err := ocr.NewEngine()
		if err != nil {
			log.Printf("OCR unavailable: %v", err)
			mw.ocrFailed = true
			return nil
		}
		mw.ocrEngine = engine
	}
	return mw.ocrEngine
}
