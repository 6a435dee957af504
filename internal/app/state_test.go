package app

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	imgpkg "print-composer/internal/image"
	"print-composer/internal/layout"
)

func writeTestImage(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create image: %v", err)
	}
	defer file.Close()
	if err := png.Encode(file, image.NewRGBA(image.Rect(0, 0, 20, 10))); err != nil {
		t.Fatalf("encode image: %v", err)
	}
	return path
}

func TestNewStateDefaults(t *testing.T) {
	s := NewState()
	if s.PageSize != layout.PageA4 || s.Orientation != layout.Portrait {
		t.Errorf("page = %v %v, want A4 Portrait", s.PageSize, s.Orientation)
	}
	if s.Session.Mode != layout.ModeScaled {
		t.Errorf("mode = %v, want Scaled", s.Session.Mode)
	}
	if s.Session.Page.Width != 210 || s.Session.Page.Height != 297 {
		t.Errorf("page dims = %+v", s.Session.Page)
	}
}

func TestLoadImageEmitsEvents(t *testing.T) {
	s := NewState()
	var loaded, changed, modified bool
	s.On(EventImageLoaded, func(interface{}) { loaded = true })
	s.On(EventLayoutChanged, func(interface{}) { changed = true })
	s.On(EventModified, func(interface{}) { modified = true })

	path := writeTestImage(t, t.TempDir(), "img.png")
	if err := s.LoadImage(path); err != nil {
		t.Fatalf("LoadImage: %v", err)
	}
	if !loaded || !changed || !modified {
		t.Errorf("events = loaded:%v changed:%v modified:%v", loaded, changed, modified)
	}
	if len(s.Session.Images) != 1 {
		t.Errorf("session has %d images, want 1", len(s.Session.Images))
	}
}

func TestLoadImageFailure(t *testing.T) {
	s := NewState()
	if err := s.LoadImage(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Error("LoadImage(missing) succeeded")
	}
	if len(s.Session.Images) != 0 {
		t.Error("failed load mutated the session")
	}
}

func TestSetPageResetsSession(t *testing.T) {
	s := NewState()
	s.PlaceImage(imgpkg.FromImage(image.NewRGBA(image.Rect(0, 0, 10, 10))))
	s.SwitchMode(layout.ModeGrid)
	s.SetGrid(layout.GridSpec{Rows: 2, Cols: 3})

	s.SetPage(layout.PageA3, layout.Landscape)
	if s.Session.Page.Width != 420 || s.Session.Page.Height != 297 {
		t.Errorf("page dims = %+v, want 420x297", s.Session.Page)
	}
	if len(s.Session.Images) != 0 {
		t.Error("content survived page change")
	}
	// Mode and grid configuration carry over; content does not.
	if s.Session.Mode != layout.ModeGrid {
		t.Errorf("mode = %v, want Grid", s.Session.Mode)
	}
	if s.Session.Grid != (layout.GridSpec{Rows: 2, Cols: 3}) {
		t.Errorf("grid = %+v", s.Session.Grid)
	}
}

func TestSwitchModeEmits(t *testing.T) {
	s := NewState()
	var got layout.Mode = -1
	s.On(EventModeChanged, func(data interface{}) {
		if m, ok := data.(layout.Mode); ok {
			got = m
		}
	})

	s.SwitchMode(layout.ModeGrid)
	if got != layout.ModeGrid {
		t.Errorf("EventModeChanged payload = %v, want Grid", got)
	}
}

func TestSaveAndLoadLayout(t *testing.T) {
	dir := t.TempDir()
	imgPath := writeTestImage(t, dir, "img.png")

	s := NewState()
	if err := s.LoadImage(imgPath); err != nil {
		t.Fatalf("LoadImage: %v", err)
	}

	layoutPath := filepath.Join(dir, "session.playout")
	if err := s.SaveLayout(layoutPath); err != nil {
		t.Fatalf("SaveLayout: %v", err)
	}
	if s.Modified {
		t.Error("Modified still set after save")
	}

	other := NewState()
	var loadedPath string
	other.On(EventLayoutLoaded, func(data interface{}) {
		if p, ok := data.(string); ok {
			loadedPath = p
		}
	})
	if err := other.LoadLayout(layoutPath); err != nil {
		t.Fatalf("LoadLayout: %v", err)
	}
	if loadedPath != layoutPath {
		t.Errorf("EventLayoutLoaded payload = %q", loadedPath)
	}
	if len(other.Session.Images) != 1 {
		t.Errorf("restored %d images, want 1", len(other.Session.Images))
	}
	if other.LayoutPath != layoutPath {
		t.Errorf("LayoutPath = %q", other.LayoutPath)
	}
}
