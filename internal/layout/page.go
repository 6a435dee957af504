// Package layout owns the print-layout model: the virtual page, the placed
// images, the text annotations, and the print mode. It has no dependency on
// any rendering technology.
package layout

import (
	"print-composer/pkg/geometry"
)

// PageSize identifies a supported paper size.
type PageSize int

const (
	PageA4 PageSize = iota
	PageA3
)

func (p PageSize) String() string {
	switch p {
	case PageA3:
		return "A3"
	default:
		return "A4"
	}
}

// ParsePageSize returns the page size for a name, defaulting to A4.
func ParsePageSize(name string) PageSize {
	if name == "A3" {
		return PageA3
	}
	return PageA4
}

// Orientation identifies the page orientation.
type Orientation int

const (
	Portrait Orientation = iota
	Landscape
)

func (o Orientation) String() string {
	if o == Landscape {
		return "Landscape"
	}
	return "Portrait"
}

// ParseOrientation returns the orientation for a name, defaulting to portrait.
func ParseOrientation(name string) Orientation {
	if name == "Landscape" {
		return Landscape
	}
	return Portrait
}

// Base paper dimensions in millimetres, portrait.
var pageDimensions = map[PageSize]geometry.Size{
	PageA4: {Width: 210, Height: 297},
	PageA3: {Width: 297, Height: 420},
}

// PageFor returns the page dimensions in millimetres for a size and
// orientation. Landscape swaps width and height.
func PageFor(size PageSize, orient Orientation) geometry.Size {
	dims := pageDimensions[size]
	if orient == Landscape {
		return dims.Swapped()
	}
	return dims
}
