//go:build linux

package platform

import (
	"errors"
	"fmt"
	"sort"

	"github.com/1broseidon/panelsnap/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
)

// LinuxBackend wraps an existing X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// Connection returns the underlying X11 connection for bindings and overlays.
func (b *LinuxBackend) Connection() *x11.Connection {
	if b == nil {
		return nil
	}
	return b.conn
}

// Displays returns all active displays with their usable area.
func (b *LinuxBackend) Displays() ([]Display, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	monitors, err := conn.Monitors()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, b.displayFromMonitor(m))
	}
	sort.Slice(displays, func(i, j int) bool {
		return displays[i].ID < displays[j].ID
	})
	return displays, nil
}

// DisplayFor returns the display containing the center of windowID. It
// falls back to the display under the pointer when the window geometry
// cannot be read.
func (b *LinuxBackend) DisplayFor(windowID WindowID) (Display, error) {
	conn, err := b.connection()
	if err != nil {
		return Display{}, err
	}

	monitors, err := conn.Monitors()
	if err != nil {
		return Display{}, err
	}

	var x, y int
	if bounds, err := conn.WindowBounds(xproto.Window(windowID)); err == nil {
		x, y = bounds.Center()
	} else if px, py, perr := conn.QueryPointer(); perr == nil {
		x, y = px, py
	}

	return b.displayFromMonitor(x11.MonitorAt(monitors, x, y)), nil
}

// FindWindow returns the first client matching m.
func (b *LinuxBackend) FindWindow(m Match) (WindowID, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}

	win, err := conn.FindWindow(x11.WindowMatch{Title: m.Title, Class: m.Class})
	if errors.Is(err, x11.ErrWindowNotFound) {
		return 0, fmt.Errorf("%w: %v", ErrWindowNotFound, err)
	}
	if err != nil {
		return 0, err
	}
	return WindowID(win), nil
}

// WindowExists reports whether windowID is still alive.
func (b *LinuxBackend) WindowExists(windowID WindowID) bool {
	conn, err := b.connection()
	if err != nil {
		return false
	}
	return conn.WindowExists(xproto.Window(windowID))
}

// WindowBounds returns the window's outer bounds, including decorations.
func (b *LinuxBackend) WindowBounds(windowID WindowID) (Rect, error) {
	conn, err := b.connection()
	if err != nil {
		return Rect{}, err
	}

	r, err := conn.WindowBounds(xproto.Window(windowID))
	if err != nil {
		return Rect{}, err
	}
	left, right, top, bottom := conn.FrameExtents(xproto.Window(windowID))
	return Rect{
		X:      r.X - left,
		Y:      r.Y - top,
		Width:  r.Width + left + right,
		Height: r.Height + top + bottom,
	}, nil
}

// Move places the window's outer top-left corner at (x, y).
func (b *LinuxBackend) Move(windowID WindowID, x, y int) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.MoveWindow(xproto.Window(windowID), x, y)
}

// Pointer returns the pointer position in root coordinates.
func (b *LinuxBackend) Pointer() (int, int, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, 0, err
	}
	return conn.QueryPointer()
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("linux backend is not connected")
	}
	return b.conn, nil
}

func (b *LinuxBackend) displayFromMonitor(m x11.Monitor) Display {
	usable := b.conn.UsableArea(m)
	return Display{
		ID:     m.ID,
		Name:   m.Name,
		Bounds: rectFromX11(m.Bounds),
		Usable: rectFromX11(usable),
	}
}

func rectFromX11(r x11.Rect) Rect {
	return Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}
