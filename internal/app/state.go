// Package app provides application lifecycle management, state, and events.
package app

import (
	"path/filepath"
	"sync"

	imgpkg "print-composer/internal/image"
	"print-composer/internal/layout"
	"print-composer/internal/project"
)

// State holds the application state: the current layout session, the page
// configuration it was initialised with, and the layout file it came from.
// Mutations arrive on the UI event loop; the mutex guards the listener map
// and the occasional background reader (export, autosave).
type State struct {
	mu sync.RWMutex

	// Page configuration. Changing either re-initialises the session.
	PageSize    layout.PageSize
	Orientation layout.Orientation

	// Session is the live layout model.
	Session *layout.Session

	// Layout file
	LayoutPath string
	Modified   bool

	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	EventImageLoaded EventType = iota
	EventLayoutChanged
	EventModeChanged
	EventPageChanged
	EventSelectionChanged
	EventModified
	EventLayoutSaved
	EventLayoutLoaded
	EventPrinted
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// NewState creates a new application state with an A4 portrait session in
// Scaled mode.
func NewState() *State {
	s := &State{
		PageSize:    layout.PageA4,
		Orientation: layout.Portrait,
		listeners:   make(map[EventType][]EventListener),
	}
	s.Session = layout.NewSession(layout.PageFor(s.PageSize, s.Orientation), layout.DefaultGrid())
	return s
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SetModified marks the layout as modified and emits an event.
func (s *State) SetModified(modified bool) {
	s.mu.Lock()
	s.Modified = modified
	s.mu.Unlock()
	s.Emit(EventModified, modified)
}

// LoadImage decodes an image file and places it in the session.
func (s *State) LoadImage(path string) error {
	src, err := imgpkg.Load(path)
	if err != nil {
		return err
	}
	s.PlaceImage(src)
	return nil
}

// PlaceImage places an already decoded source, e.g. a clipboard paste.
func (s *State) PlaceImage(src *imgpkg.Source) {
	if s.Session.AddImage(src) == nil {
		return
	}
	s.SetModified(true)
	s.Emit(EventImageLoaded, src)
	s.Emit(EventLayoutChanged, nil)
}

// SetPage re-initialises the session for a new page size or orientation.
// Session content does not survive: the parent resets, the model does not
// migrate placements between page geometries.
func (s *State) SetPage(size layout.PageSize, orient layout.Orientation) {
	s.mu.Lock()
	s.PageSize = size
	s.Orientation = orient
	mode := s.Session.Mode
	grid := s.Session.Grid
	s.Session = layout.NewSession(layout.PageFor(size, orient), grid)
	s.Session.Mode = mode
	s.mu.Unlock()

	s.SetModified(true)
	s.Emit(EventPageChanged, nil)
	s.Emit(EventLayoutChanged, nil)
}

// SwitchMode switches the print mode, resetting the session content.
func (s *State) SwitchMode(mode layout.Mode) {
	s.Session.SwitchMode(mode)
	s.SetModified(true)
	s.Emit(EventModeChanged, mode)
	s.Emit(EventLayoutChanged, nil)
}

// SetGrid replaces the grid dimensions.
func (s *State) SetGrid(grid layout.GridSpec) {
	s.Session.SetGrid(grid)
	s.SetModified(true)
	s.Emit(EventLayoutChanged, nil)
}

// LayoutChanged notifies listeners after a direct session mutation (move,
// resize, delete, text edits) performed by the canvas or menus.
func (s *State) LayoutChanged() {
	s.SetModified(true)
	s.Emit(EventLayoutChanged, nil)
}

// SelectionChanged notifies listeners that the selection moved.
func (s *State) SelectionChanged() {
	s.Emit(EventSelectionChanged, nil)
}

// SaveLayout saves the session to the specified path.
func (s *State) SaveLayout(path string) error {
	if err := project.Save(path, s.Session, s.PageSize, s.Orientation); err != nil {
		return err
	}

	s.mu.Lock()
	s.LayoutPath = path
	s.Modified = false
	s.mu.Unlock()

	s.Emit(EventLayoutSaved, path)
	return nil
}

// LoadLayout loads a session from the specified path, replacing the current
// one.
func (s *State) LoadLayout(path string) error {
	f, err := project.Load(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.PageSize = layout.ParsePageSize(f.PageSize)
	s.Orientation = layout.ParseOrientation(f.Orientation)
	s.Session = f.BuildSession(filepath.Dir(path))
	s.LayoutPath = path
	s.Modified = false
	s.mu.Unlock()

	s.Emit(EventLayoutLoaded, path)
	s.Emit(EventLayoutChanged, nil)
	return nil
}
