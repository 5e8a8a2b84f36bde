package x11

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// ErrWindowNotFound is returned when no client matches a WindowMatch.
var ErrWindowNotFound = errors.New("window not found")

// WindowMatch selects a client window by title substring and/or WM_CLASS.
// Empty fields match anything; at least one field must be set.
type WindowMatch struct {
	Title string
	Class string
}

func (m WindowMatch) String() string {
	switch {
	case m.Title != "" && m.Class != "":
		return fmt.Sprintf("title~%q class=%q", m.Title, m.Class)
	case m.Class != "":
		return fmt.Sprintf("class=%q", m.Class)
	default:
		return fmt.Sprintf("title~%q", m.Title)
	}
}

// Matches reports whether a window with the given title and class matches.
func (m WindowMatch) Matches(title, class string) bool {
	if m.Title == "" && m.Class == "" {
		return false
	}
	if m.Title != "" && !strings.Contains(title, m.Title) {
		return false
	}
	if m.Class != "" && !strings.EqualFold(class, m.Class) {
		return false
	}
	return true
}

// FindWindow searches the EWMH client list and returns the first match.
func (c *Connection) FindWindow(m WindowMatch) (xproto.Window, error) {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return 0, fmt.Errorf("failed to get client list: %w", err)
	}

	for _, win := range clients {
		title, err := ewmh.WmNameGet(c.XUtil, win)
		if err != nil || title == "" {
			title, _ = icccm.WmNameGet(c.XUtil, win)
		}
		class := ""
		if wc, err := icccm.WmClassGet(c.XUtil, win); err == nil && wc != nil {
			class = wc.Class
		}
		if m.Matches(title, class) {
			return win, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrWindowNotFound, m)
}

// WindowExists reports whether win is still a live client.
func (c *Connection) WindowExists(win xproto.Window) bool {
	_, err := xproto.GetWindowAttributes(c.XUtil.Conn(), win).Reply()
	return err == nil
}

// WindowBounds returns win's client geometry in root coordinates.
func (c *Connection) WindowBounds(win xproto.Window) (Rect, error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(win)).Reply()
	if err != nil {
		return Rect{}, fmt.Errorf("failed to get geometry: %w", err)
	}
	tr, err := xproto.TranslateCoordinates(c.XUtil.Conn(), win, c.Root, 0, 0).Reply()
	if err != nil {
		return Rect{}, fmt.Errorf("failed to translate coordinates: %w", err)
	}
	return Rect{
		X:      int(tr.DstX),
		Y:      int(tr.DstY),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}, nil
}

// FrameExtents returns the window decoration sizes, zero when unknown.
func (c *Connection) FrameExtents(win xproto.Window) (left, right, top, bottom int) {
	ext, err := ewmh.FrameExtentsGet(c.XUtil, win)
	if err != nil {
		return 0, 0, 0, 0
	}
	return int(ext.Left), int(ext.Right), int(ext.Top), int(ext.Bottom)
}

// MoveWindow places win's top-left corner at (x, y) in root coordinates.
func (c *Connection) MoveWindow(win xproto.Window, x, y int) error {
	if err := ewmh.MoveWindow(c.XUtil, win, x, y); err != nil {
		// Fallback to direct configure when the WM ignores _NET_MOVERESIZE_WINDOW.
		xwindow.New(c.XUtil, win).Move(x, y)
	}
	return nil
}

// RaiseWindow stacks win above its siblings.
func (c *Connection) RaiseWindow(win xproto.Window) {
	xwindow.New(c.XUtil, win).Stack(xproto.StackModeAbove)
}

// QueryPointer returns the pointer position in root coordinates.
func (c *Connection) QueryPointer() (int, int, error) {
	reply, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to query pointer: %w", err)
	}
	return int(reply.RootX), int(reply.RootY), nil
}
