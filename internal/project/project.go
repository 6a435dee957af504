// Package project provides persistence of layout sessions as JSON files.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	imgpkg "print-composer/internal/image"
	"print-composer/internal/layout"
	"print-composer/pkg/geometry"
)

// Extension is the layout file suffix.
const Extension = ".playout"

// File is the JSON structure of a saved layout.
type File struct {
	Version     int              `json:"version"`
	PageSize    string           `json:"page_size"`
	Orientation string           `json:"orientation"`
	Mode        string           `json:"mode"`
	Grid        layout.GridSpec  `json:"grid"`
	Images      []PlacedImage    `json:"images,omitempty"`
	Texts       []TextAnnotation `json:"texts,omitempty"`
}

// PlacedImage is the serialised form of a placed image. The pixel data is
// not embedded; the source path is resolved relative to the layout file.
type PlacedImage struct {
	SourcePath string          `json:"source"`
	X          float64         `json:"x"`
	Y          float64         `json:"y"`
	Width      float64         `json:"width"`
	Height     float64         `json:"height"`
	Cell       *layout.CellRef `json:"cell,omitempty"`
}

// TextAnnotation is the serialised form of a text annotation.
type TextAnnotation struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Text     string  `json:"text"`
	Rotation float64 `json:"rotation,omitempty"`
}

// Snapshot captures a session into a serialisable File.
func Snapshot(s *layout.Session, size layout.PageSize, orient layout.Orientation, layoutDir string) *File {
	f := &File{
		Version:     1,
		PageSize:    size.String(),
		Orientation: orient.String(),
		Mode:        s.Mode.String(),
		Grid:        s.Grid,
	}

	for _, img := range s.Images {
		data := PlacedImage{
			X:      img.X,
			Y:      img.Y,
			Width:  img.Width,
			Height: img.Height,
			Cell:   img.Cell,
		}
		if src, ok := img.Source.(*imgpkg.Source); ok && src.Path != "" {
			if rel, err := filepath.Rel(layoutDir, src.Path); err == nil {
				data.SourcePath = rel
			} else {
				data.SourcePath = src.Path
			}
		}
		f.Images = append(f.Images, data)
	}

	for _, txt := range s.Texts {
		f.Texts = append(f.Texts, TextAnnotation{
			X:        txt.X,
			Y:        txt.Y,
			Width:    txt.Width,
			Text:     txt.Text,
			Rotation: txt.Rotation,
		})
	}
	return f
}

// Save writes the session to path.
func Save(path string, s *layout.Session, size layout.PageSize, orient layout.Orientation) error {
	f := Snapshot(s, size, orient, filepath.Dir(path))
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Load reads a layout file from path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse layout file: %w", err)
	}
	return &f, nil
}

// BuildSession reconstructs a session from the file. Image sources are
// reloaded from disk relative to layoutDir; an image whose source no longer
// decodes is dropped silently, matching the upload path's behaviour.
func (f *File) BuildSession(layoutDir string) *layout.Session {
	page := layout.PageFor(layout.ParsePageSize(f.PageSize), layout.ParseOrientation(f.Orientation))
	grid := f.Grid
	if grid.Rows < 1 || grid.Cols < 1 {
		grid = layout.DefaultGrid()
	}

	s := layout.NewSession(page, grid)
	s.Mode = layout.ParseMode(f.Mode)

	for _, data := range f.Images {
		if data.SourcePath == "" {
			continue
		}
		srcPath := data.SourcePath
		if !filepath.IsAbs(srcPath) {
			srcPath = filepath.Join(layoutDir, srcPath)
		}
		src, err := imgpkg.Load(srcPath)
		if err != nil {
			continue
		}
		rect := geometry.NewRect(data.X, data.Y, data.Width, data.Height)
		s.RestoreImage(src, rect, data.Cell)
	}

	for _, data := range f.Texts {
		s.RestoreText(data.X, data.Y, data.Width, data.Text, data.Rotation)
	}
	return s
}
