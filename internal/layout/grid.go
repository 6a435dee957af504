package layout

import (
	"print-composer/pkg/geometry"
)

// Default grid dimensions, applied by the UI when the numeric inputs are
// empty or unparseable.
const (
	DefaultGridRows = 4
	DefaultGridCols = 5
)

// GridSpec describes the cell grid used in Grid mode. Rows and Cols are
// expected to be at least 1; callers clamp their input before constructing
// a GridSpec.
type GridSpec struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// DefaultGrid returns the default 4x5 grid.
func DefaultGrid() GridSpec {
	return GridSpec{Rows: DefaultGridRows, Cols: DefaultGridCols}
}

// CellSize returns the size of one grid cell on the given page.
func (g GridSpec) CellSize(page geometry.Size) geometry.Size {
	rows, cols := g.Rows, g.Cols
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	return geometry.Size{
		Width:  page.Width / float64(cols),
		Height: page.Height / float64(rows),
	}
}

// CellRect returns the page-unit rectangle of the cell at (row, col).
func (g GridSpec) CellRect(cell CellRef, page geometry.Size) geometry.Rect {
	size := g.CellSize(page)
	return geometry.Rect{
		X:      float64(cell.Col) * size.Width,
		Y:      float64(cell.Row) * size.Height,
		Width:  size.Width,
		Height: size.Height,
	}
}

// CellRef identifies a grid cell by row and column.
type CellRef struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// CellFor returns the cell assigned to the image at the given insertion
// index: row-major order, left to right then top to bottom. The assignment
// is made once at upload time and never recomputed.
func CellFor(index, cols int) CellRef {
	if cols < 1 {
		cols = 1
	}
	return CellRef{Row: index / cols, Col: index % cols}
}
