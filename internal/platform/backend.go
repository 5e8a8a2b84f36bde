package platform

import "errors"

// ErrWindowNotFound is returned when no window matches a lookup.
var ErrWindowNotFound = errors.New("window not found")

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Display describes a physical display and its usable work area.
type Display struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Bounds Rect   `json:"bounds"`
	Usable Rect   `json:"usable"`
}

// Match selects the panel window: a title substring and/or a WM class.
type Match struct {
	Title string
	Class string
}

// Backend abstracts the window-system operations the panel controller needs.
type Backend interface {
	Displays() ([]Display, error)
	DisplayFor(windowID WindowID) (Display, error)
	FindWindow(m Match) (WindowID, error)
	WindowExists(windowID WindowID) bool
	WindowBounds(windowID WindowID) (Rect, error)
	Move(windowID WindowID, x, y int) error
	Pointer() (x, y int, err error)
}
